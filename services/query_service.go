package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"cropguard-http-service/config"
	"cropguard-http-service/models"
)

// 专家队列缓存键，问题或状态变化时失效
const expertQueueCacheKey = "cropguard:queries:queue"

// 专家队列排序：紧急程度优先，同级按提交时间先到先得
const urgencyOrderExpr = "CASE urgency " +
	"WHEN 'critical' THEN 1 " +
	"WHEN 'high' THEN 2 " +
	"WHEN 'medium' THEN 3 " +
	"WHEN 'low' THEN 4 " +
	"ELSE 5 END, created_at ASC"

// InterfaceQueryService 定义咨询问题服务接口
type InterfaceQueryService interface {
	CreateQuery(farmerID uint, req *CreateQueryRequest) (*models.ExpertQuery, error)
	GetQueryByID(queryID uint) (*models.ExpertQuery, error)
	GetFarmerQueries(farmerID uint, pagination *models.PaginationQuery) ([]models.ExpertQuery, models.PaginationResult, error)
	GetExpertQueue(pagination *models.PaginationQuery) ([]models.ExpertQuery, models.PaginationResult, error)
	GetAllQueries(status string, pagination *models.PaginationQuery) ([]models.ExpertQuery, models.PaginationResult, error)
	UpdateQueryStatus(queryID uint, actor *models.User, newStatus string) (*models.ExpertQuery, error)
	RespondLegacy(queryID uint, expert *models.User, text string) (*models.ExpertQuery, error)
}

// CreateQueryRequest 创建咨询问题请求参数
type CreateQueryRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	CropType    string `json:"cropType"`
	Category    string `json:"category" binding:"required"`
	Urgency     string `json:"urgency" binding:"required"`
	ImagePath   string `json:"imagePath"`
}

// QueryService 提供咨询问题的创建、查询和状态流转服务
type QueryService struct {
	db           *gorm.DB
	notification InterfaceNotificationService
	redis        InterfaceRedisService
}

// NewQueryService 创建一个新的咨询问题服务，redis可为nil
func NewQueryService(db *gorm.DB, notification InterfaceNotificationService, redis InterfaceRedisService) *QueryService {
	return &QueryService{db: db, notification: notification, redis: redis}
}

// invalidateQueueCache 失效专家队列缓存，失败只记录日志
func (s *QueryService) invalidateQueueCache() {
	if s.redis == nil {
		return
	}
	if err := s.redis.Delete(context.Background(), expertQueueCacheKey); err != nil {
		config.Warning("专家队列缓存失效失败: %v", err)
	}
}

// CreateQuery 农户提交新的咨询问题，初始状态为 pending
func (s *QueryService) CreateQuery(farmerID uint, req *CreateQueryRequest) (*models.ExpertQuery, error) {
	urgency := strings.ToLower(strings.TrimSpace(req.Urgency))
	if !models.ValidUrgency(urgency) {
		return nil, ErrInvalidUrgency
	}

	query := &models.ExpertQuery{
		Title:       req.Title,
		Description: req.Description,
		CropType:    req.CropType,
		Category:    req.Category,
		Urgency:     urgency,
		Status:      models.QueryStatusPending,
		ImagePath:   req.ImagePath,
		HasImage:    req.ImagePath != "",
		FarmerID:    farmerID,
	}

	if err := s.db.Create(query).Error; err != nil {
		return nil, err
	}

	config.Info("新咨询问题 queryID=%d farmerID=%d urgency=%s", query.ID, farmerID, urgency)
	s.invalidateQueueCache()
	return query, nil
}

// GetQueryByID 获取指定问题，包含提问农户信息
func (s *QueryService) GetQueryByID(queryID uint) (*models.ExpertQuery, error) {
	var query models.ExpertQuery
	if err := s.db.Preload("Farmer").Preload("Expert").First(&query, queryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQueryNotFound
		}
		return nil, err
	}
	return &query, nil
}

// normalizePagination 归一化分页参数，缺省为第1页每页10条
func normalizePagination(pagination *models.PaginationQuery) (int, int) {
	pageNum, pageSize := 1, 10
	if pagination != nil {
		if pagination.PageNum > 0 {
			pageNum = pagination.PageNum
		}
		if pagination.PageSize > 0 {
			pageSize = pagination.PageSize
		}
	}
	return pageNum, pageSize
}

// GetFarmerQueries 分页获取农户自己的问题，按创建时间倒序
func (s *QueryService) GetFarmerQueries(farmerID uint, pagination *models.PaginationQuery) ([]models.ExpertQuery, models.PaginationResult, error) {
	pageNum, pageSize := normalizePagination(pagination)

	db := s.db.Model(&models.ExpertQuery{}).Where("farmer_id = ?", farmerID)
	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, models.PaginationResult{}, err
	}

	var queries []models.ExpertQuery
	if err := db.Order("created_at DESC").
		Offset((pageNum - 1) * pageSize).
		Limit(pageSize).
		Find(&queries).Error; err != nil {
		return nil, models.PaginationResult{}, err
	}

	return queries, models.NewPaginationResult(int(total), pageNum, pageSize), nil
}

// expertQueuePage 专家队列缓存页
type expertQueuePage struct {
	Queries []models.ExpertQuery `json:"queries"`
	Total   int64                `json:"total"`
}

// GetExpertQueue 分页获取专家视角的问题队列，覆盖全部问题，
// 按紧急程度（critical > high > medium > low）排序，同级先提交的在前
func (s *QueryService) GetExpertQueue(pagination *models.PaginationQuery) ([]models.ExpertQuery, models.PaginationResult, error) {
	pageNum, pageSize := normalizePagination(pagination)
	// 只缓存默认首页，这是专家端的热点请求
	cacheable := s.redis != nil && pageNum == 1 && pageSize == 10
	ctx := context.Background()

	if cacheable {
		var cached expertQueuePage
		if hit, err := s.redis.GetObject(ctx, expertQueueCacheKey, &cached); err == nil && hit {
			return cached.Queries, models.NewPaginationResult(int(cached.Total), pageNum, pageSize), nil
		}
	}

	var total int64
	if err := s.db.Model(&models.ExpertQuery{}).Count(&total).Error; err != nil {
		return nil, models.PaginationResult{}, err
	}

	var queries []models.ExpertQuery
	if err := s.db.Preload("Farmer").
		Order(urgencyOrderExpr).
		Offset((pageNum - 1) * pageSize).
		Limit(pageSize).
		Find(&queries).Error; err != nil {
		return nil, models.PaginationResult{}, err
	}

	if cacheable {
		// 队列缓存30秒，问题变化时主动失效
		page := expertQueuePage{Queries: queries, Total: total}
		if err := s.redis.CacheObject(ctx, expertQueueCacheKey, page, 30*time.Second); err != nil {
			config.Warning("专家队列缓存写入失败: %v", err)
		}
	}

	return queries, models.NewPaginationResult(int(total), pageNum, pageSize), nil
}

// GetAllQueries 分页获取全部问题，可按状态筛选，供管理员使用
func (s *QueryService) GetAllQueries(status string, pagination *models.PaginationQuery) ([]models.ExpertQuery, models.PaginationResult, error) {
	db := s.db.Model(&models.ExpertQuery{})
	if status != "" {
		if !models.ValidStatus(status) {
			return nil, models.PaginationResult{}, ErrInvalidStatus
		}
		db = db.Where("status = ?", status)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, models.PaginationResult{}, err
	}

	pageNum, pageSize := normalizePagination(pagination)

	var queries []models.ExpertQuery
	if err := db.Preload("Farmer").
		Order("created_at DESC").
		Offset((pageNum - 1) * pageSize).
		Limit(pageSize).
		Find(&queries).Error; err != nil {
		return nil, models.PaginationResult{}, err
	}

	return queries, models.NewPaginationResult(int(total), pageNum, pageSize), nil
}

// UpdateQueryStatus 变更问题状态。只有管理员或已认证专家可以操作，
// 状态必须在允许的取值范围内。写入总会执行并刷新updated_at，
// 但只有状态真正变化时才通知提问农户
func (s *QueryService) UpdateQueryStatus(queryID uint, actor *models.User, newStatus string) (*models.ExpertQuery, error) {
	newStatus = strings.ToLower(strings.TrimSpace(newStatus))
	if !models.ValidStatus(newStatus) {
		return nil, ErrInvalidStatus
	}
	if !actor.CanActOnQueries() {
		return nil, ErrExpertNotVerified
	}

	var query *models.ExpertQuery
	var created *models.Notification

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var q models.ExpertQuery
		if err := tx.First(&q, queryID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrQueryNotFound
			}
			return err
		}
		query = &q

		changed := q.Status != newStatus
		if err := tx.Model(&q).Update("status", newStatus).Error; err != nil {
			return err
		}
		query.Status = newStatus

		if !changed {
			return nil
		}

		var err error
		created, err = s.notification.CreateStatusUpdateNotification(tx, query, newStatus)
		return err
	})
	if err != nil {
		return nil, err
	}

	if created != nil {
		config.Info("问题状态变更 queryID=%d status=%s actorID=%d", queryID, newStatus, actor.ID)
		s.notification.AnnounceCreated(created)
		s.invalidateQueueCache()
	}

	return query, nil
}

// RespondLegacy 兼容旧版的单回复接口：回复写入回复账本
// （已有回复则覆盖），并同步刷新问题上的冗余回复字段
func (s *QueryService) RespondLegacy(queryID uint, expert *models.User, text string) (*models.ExpertQuery, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrResponseEmpty
	}
	if !expert.CanActOnQueries() {
		return nil, ErrExpertNotVerified
	}

	var query *models.ExpertQuery
	var created *models.Notification

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var q models.ExpertQuery
		if err := tx.First(&q, queryID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrQueryNotFound
			}
			return err
		}
		query = &q

		// 写入回复账本，同一专家重复提交按覆盖处理
		var resp models.ExpertResponse
		err := tx.Where("query_id = ? AND expert_id = ?", queryID, expert.ID).First(&resp).Error
		switch {
		case err == nil:
			if err := tx.Model(&resp).Update("response", text).Error; err != nil {
				return err
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			resp = models.ExpertResponse{QueryID: queryID, ExpertID: expert.ID, Response: text}
			if err := tx.Create(&resp).Error; err != nil {
				return err
			}
			created, err = s.notification.CreateQueryResponseNotification(tx, query, expert)
			if err != nil {
				return err
			}
		default:
			return err
		}

		return refreshLegacyView(tx, query, expert.ID, text)
	})
	if err != nil {
		return nil, err
	}

	if created != nil {
		s.notification.AnnounceCreated(created)
	}
	s.invalidateQueueCache()

	return query, nil
}

// refreshLegacyView 刷新问题上的冗余单回复字段，展示最近一次回复
func refreshLegacyView(tx *gorm.DB, query *models.ExpertQuery, expertID uint, text string) error {
	now := time.Now()
	if err := tx.Model(query).Updates(map[string]interface{}{
		"response":      text,
		"expert_id":     expertID,
		"response_date": now,
	}).Error; err != nil {
		return err
	}
	query.Response = text
	query.ExpertID = &expertID
	query.ResponseDate = &now
	return nil
}
