package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"cropguard-http-service/config"
	"cropguard-http-service/models"
)

// InterfaceNotificationService 定义通知服务接口
type InterfaceNotificationService interface {
	CreateQueryResponseNotification(tx *gorm.DB, query *models.ExpertQuery, expert *models.User) (*models.Notification, error)
	CreateStatusUpdateNotification(tx *gorm.DB, query *models.ExpertQuery, newStatus string) (*models.Notification, error)
	CreateSystemNotification(tx *gorm.DB, userID uint, title, message string) (*models.Notification, error)
	AnnounceCreated(ns ...*models.Notification)
	GetUserNotifications(userID uint, pagination *models.PaginationQuery) ([]models.Notification, models.PaginationResult, error)
	GetUnreadNotifications(userID uint) ([]models.Notification, error)
	GetUnreadCount(userID uint) (int64, error)
	MarkAsRead(notificationID, userID uint) error
	MarkAllAsRead(userID uint) error
	CleanupOldNotifications() (int64, error)
	StartCleanupTask(ctx context.Context)
}

// NotificationService 提供通知的创建、查询和清理服务。
// Create* 方法在调用方事务内写库，提交后由调用方通过 AnnounceCreated
// 完成缓存失效和实时推送。
type NotificationService struct {
	db     *gorm.DB
	redis  InterfaceRedisService
	notify InterfaceMQTTNotifyService
}

// NewNotificationService 创建一个新的通知服务
func NewNotificationService(db *gorm.DB, redis InterfaceRedisService, notify InterfaceMQTTNotifyService) *NotificationService {
	return &NotificationService{db: db, redis: redis, notify: notify}
}

// CreateQueryResponseNotification 在事务内创建"问题收到新回复"通知
func (s *NotificationService) CreateQueryResponseNotification(tx *gorm.DB, query *models.ExpertQuery, expert *models.User) (*models.Notification, error) {
	queryID := query.ID
	n := &models.Notification{
		UserID:          query.FarmerID,
		Title:           "您的问题收到新回复",
		Message:         fmt.Sprintf("专家 %s 回复了您的问题「%s」", expert.DisplayName(), query.Title),
		Type:            models.NotificationQueryResponse,
		RelatedEntityID: &queryID,
	}
	if err := tx.Create(n).Error; err != nil {
		return nil, err
	}
	return n, nil
}

// CreateStatusUpdateNotification 在事务内创建"问题状态变更"通知
func (s *NotificationService) CreateStatusUpdateNotification(tx *gorm.DB, query *models.ExpertQuery, newStatus string) (*models.Notification, error) {
	queryID := query.ID
	n := &models.Notification{
		UserID:          query.FarmerID,
		Title:           "问题状态已更新",
		Message:         fmt.Sprintf("您的问题「%s」状态已更新为 %s", query.Title, newStatus),
		Type:            models.NotificationQueryStatusUpdate,
		RelatedEntityID: &queryID,
	}
	if err := tx.Create(n).Error; err != nil {
		return nil, err
	}
	return n, nil
}

// CreateSystemNotification 在事务内创建系统通知
func (s *NotificationService) CreateSystemNotification(tx *gorm.DB, userID uint, title, message string) (*models.Notification, error) {
	n := &models.Notification{
		UserID:  userID,
		Title:   title,
		Message: message,
		Type:    models.NotificationSystem,
	}
	if err := tx.Create(n).Error; err != nil {
		return nil, err
	}
	return n, nil
}

// AnnounceCreated 在通知事务提交后失效未读数缓存并推送实时消息，
// 任何失败只记录日志
func (s *NotificationService) AnnounceCreated(ns ...*models.Notification) {
	ctx := context.Background()
	for _, n := range ns {
		if n == nil {
			continue
		}
		if s.redis != nil {
			if err := s.redis.InvalidateUnreadCount(ctx, n.UserID); err != nil {
				config.Warning("未读数缓存失效失败 userID=%d err=%v", n.UserID, err)
			}
		}
		if s.notify != nil {
			s.notify.PublishNotification(n)
		}
	}
}

// GetUserNotifications 分页获取用户的全部通知，按创建时间倒序
func (s *NotificationService) GetUserNotifications(userID uint, pagination *models.PaginationQuery) ([]models.Notification, models.PaginationResult, error) {
	var notifications []models.Notification
	var total int64

	db := s.db.Model(&models.Notification{}).Where("user_id = ?", userID)
	if err := db.Count(&total).Error; err != nil {
		return nil, models.PaginationResult{}, err
	}

	pageNum := pagination.PageNum
	pageSize := pagination.PageSize
	if pageNum <= 0 {
		pageNum = 1
	}
	if pageSize <= 0 {
		pageSize = 10
	}

	if err := db.Order("created_at DESC").
		Offset((pageNum - 1) * pageSize).
		Limit(pageSize).
		Find(&notifications).Error; err != nil {
		return nil, models.PaginationResult{}, err
	}

	return notifications, models.NewPaginationResult(int(total), pageNum, pageSize), nil
}

// GetUnreadNotifications 获取用户的未读通知列表
func (s *NotificationService) GetUnreadNotifications(userID uint) ([]models.Notification, error) {
	var notifications []models.Notification
	if err := s.db.Where("user_id = ? AND is_read = ?", userID, false).
		Order("created_at DESC").
		Find(&notifications).Error; err != nil {
		return nil, err
	}
	return notifications, nil
}

// GetUnreadCount 获取用户未读通知数，优先读缓存
func (s *NotificationService) GetUnreadCount(userID uint) (int64, error) {
	ctx := context.Background()

	if s.redis != nil {
		if count, hit, err := s.redis.GetUnreadCount(ctx, userID); err == nil && hit {
			return count, nil
		}
	}

	var count int64
	if err := s.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error; err != nil {
		return 0, err
	}

	if s.redis != nil {
		if err := s.redis.SetUnreadCount(ctx, userID, count); err != nil {
			config.Warning("未读数缓存写入失败 userID=%d err=%v", userID, err)
		}
	}

	return count, nil
}

// MarkAsRead 将指定通知标记为已读，只能操作本人的通知
func (s *NotificationService) MarkAsRead(notificationID, userID uint) error {
	var notification models.Notification
	if err := s.db.First(&notification, notificationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotificationNotFound
		}
		return err
	}

	if notification.UserID != userID {
		return ErrNotificationNotFound
	}

	if notification.IsRead {
		return nil
	}

	if err := s.db.Model(&notification).Update("is_read", true).Error; err != nil {
		return err
	}

	if s.redis != nil {
		if err := s.redis.InvalidateUnreadCount(context.Background(), userID); err != nil {
			config.Warning("未读数缓存失效失败 userID=%d err=%v", userID, err)
		}
	}

	return nil
}

// MarkAllAsRead 将用户的全部未读通知标记为已读
func (s *NotificationService) MarkAllAsRead(userID uint) error {
	if err := s.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true).Error; err != nil {
		return err
	}

	if s.redis != nil {
		if err := s.redis.InvalidateUnreadCount(context.Background(), userID); err != nil {
			config.Warning("未读数缓存失效失败 userID=%d err=%v", userID, err)
		}
	}

	return nil
}

// CleanupOldNotifications 删除30天前的通知，只看时间不区分已读未读，
// 返回删除数量
func (s *NotificationService) CleanupOldNotifications() (int64, error) {
	cutoff := time.Now().AddDate(0, 0, -30)
	result := s.db.Where("created_at < ?", cutoff).
		Delete(&models.Notification{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// StartCleanupTask 启动每日通知清理后台任务，ctx取消时退出
func (s *NotificationService) StartCleanupTask(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				deleted, err := s.CleanupOldNotifications()
				if err != nil {
					config.Error("通知清理任务失败: %v", err)
					continue
				}
				config.Info("通知清理任务完成，删除 %d 条过期通知", deleted)
			}
		}
	}()
}
