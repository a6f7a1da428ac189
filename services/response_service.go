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

// InterfaceResponseService 定义专家回复服务接口
type InterfaceResponseService interface {
	AddResponse(queryID uint, expert *models.User, text string) (*models.ExpertResponse, error)
	EditResponse(responseID uint, expertID uint, text string) (*models.ExpertResponse, error)
	GetQueryResponses(queryID uint) ([]ResponseView, error)
	HasResponded(queryID, expertID uint) (bool, error)
	CountResponses(queryID uint) (int64, error)
}

// ResponseView 带专家信息的回复视图，供公开接口返回
type ResponseView struct {
	ID             uint      `json:"id"`
	QueryID        uint      `json:"query_id"`
	ExpertID       uint      `json:"expert_id"`
	ExpertName     string    `json:"expert_name"`
	Specialization string    `json:"specialization,omitempty"`
	ExpertVerified bool      `json:"expert_verified"`
	Response       string    `json:"response"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// ResponseService 维护问题的多专家回复账本。
// 每个专家对同一问题最多一条回复，由联合唯一索引保证
type ResponseService struct {
	db           *gorm.DB
	notification InterfaceNotificationService
	redis        InterfaceRedisService
}

// NewResponseService 创建一个新的回复服务，redis可为nil
func NewResponseService(db *gorm.DB, notification InterfaceNotificationService, redis InterfaceRedisService) *ResponseService {
	return &ResponseService{db: db, notification: notification, redis: redis}
}

// AddResponse 专家向问题追加回复。首条回复会将 pending 状态的问题
// 推进为 answered，并通知提问农户。同一专家重复回复返回冲突错误
func (s *ResponseService) AddResponse(queryID uint, expert *models.User, text string) (*models.ExpertResponse, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrResponseEmpty
	}
	if !expert.CanActOnQueries() {
		return nil, ErrExpertNotVerified
	}

	var response *models.ExpertResponse
	var created *models.Notification

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var query models.ExpertQuery
		if err := tx.First(&query, queryID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrQueryNotFound
			}
			return err
		}

		resp := &models.ExpertResponse{
			QueryID:  queryID,
			ExpertID: expert.ID,
			Response: text,
		}
		if err := tx.Create(resp).Error; err != nil {
			// 同一专家重复回复由联合唯一索引裁决，
			// 并发提交时恰好一个成功，其余收到冲突
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadyResponded
			}
			return err
		}
		response = resp

		// 首条回复推进问题状态
		if query.Status == models.QueryStatusPending {
			if err := tx.Model(&query).Update("status", models.QueryStatusAnswered).Error; err != nil {
				return err
			}
			query.Status = models.QueryStatusAnswered
		}

		if err := refreshLegacyView(tx, &query, expert.ID, text); err != nil {
			return err
		}

		var err error
		created, err = s.notification.CreateQueryResponseNotification(tx, &query, expert)
		return err
	})
	if err != nil {
		return nil, err
	}

	config.Info("专家回复 queryID=%d expertID=%d responseID=%d", queryID, expert.ID, response.ID)
	s.notification.AnnounceCreated(created)

	// 首条回复改变了问题状态，专家队列缓存失效
	if s.redis != nil {
		if err := s.redis.Delete(context.Background(), expertQueueCacheKey); err != nil {
			config.Warning("专家队列缓存失效失败: %v", err)
		}
	}

	return response, nil
}

// EditResponse 专家编辑自己的回复，不触发新通知
func (s *ResponseService) EditResponse(responseID uint, expertID uint, text string) (*models.ExpertResponse, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrResponseEmpty
	}

	var response models.ExpertResponse
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&response, responseID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrResponseNotFound
			}
			return err
		}

		if response.ExpertID != expertID {
			return ErrResponseNotOwner
		}

		if err := tx.Model(&response).Update("response", text).Error; err != nil {
			return err
		}
		response.Response = text

		// 若冗余字段展示的是该专家的回复，一并刷新
		var query models.ExpertQuery
		if err := tx.First(&query, response.QueryID).Error; err != nil {
			return err
		}
		if query.ExpertID != nil && *query.ExpertID == expertID {
			return refreshLegacyView(tx, &query, expertID, text)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &response, nil
}

// GetQueryResponses 获取问题的全部回复，最新的在前，附带专家信息
func (s *ResponseService) GetQueryResponses(queryID uint) ([]ResponseView, error) {
	var count int64
	if err := s.db.Model(&models.ExpertQuery{}).Where("id = ?", queryID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, ErrQueryNotFound
	}

	var responses []models.ExpertResponse
	if err := s.db.Preload("Expert").
		Where("query_id = ?", queryID).
		Order("created_at DESC, id DESC").
		Find(&responses).Error; err != nil {
		return nil, err
	}

	views := make([]ResponseView, 0, len(responses))
	for _, r := range responses {
		view := ResponseView{
			ID:        r.ID,
			QueryID:   r.QueryID,
			ExpertID:  r.ExpertID,
			Response:  r.Response,
			CreatedAt: r.CreatedAt,
			UpdatedAt: r.UpdatedAt,
		}
		if r.Expert != nil {
			view.ExpertName = r.Expert.DisplayName()
			view.Specialization = r.Expert.Specialization
			// 展示专家当前的认证状态，而非回复时的状态
			view.ExpertVerified = r.Expert.IsApprovedExpert()
		}
		views = append(views, view)
	}

	return views, nil
}

// HasResponded 判断专家是否已回复过该问题
func (s *ResponseService) HasResponded(queryID, expertID uint) (bool, error) {
	var count int64
	if err := s.db.Model(&models.ExpertResponse{}).
		Where("query_id = ? AND expert_id = ?", queryID, expertID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CountResponses 统计问题的回复数量
func (s *ResponseService) CountResponses(queryID uint) (int64, error) {
	var count int64
	if err := s.db.Model(&models.ExpertResponse{}).
		Where("query_id = ?", queryID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
