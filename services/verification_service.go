package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"cropguard-http-service/config"
	"cropguard-http-service/models"
)

// InterfaceVerificationService 定义专家审核服务接口
type InterfaceVerificationService interface {
	GetPendingExperts() ([]models.User, error)
	GetExperts(status string) ([]models.User, error)
	GetExpertByID(expertID uint) (*models.User, error)
	ApproveExpert(expertID, adminID uint) (*models.User, error)
	RejectExpert(expertID, adminID uint, reason string) (*models.User, error)
	SuspendExpert(expertID, adminID uint, reason string) (*models.User, error)
}

// VerificationService 提供专家账号的审核状态管理。
// 状态机：pending -> approved / rejected，approved -> suspended，
// suspended -> approved（恢复），rejected 为终态
type VerificationService struct {
	db           *gorm.DB
	email        InterfaceEmailService
	notification InterfaceNotificationService
}

// NewVerificationService 创建一个新的专家审核服务
func NewVerificationService(db *gorm.DB, email InterfaceEmailService, notification InterfaceNotificationService) *VerificationService {
	return &VerificationService{db: db, email: email, notification: notification}
}

// GetPendingExperts 获取全部待审核专家，按注册时间升序
func (s *VerificationService) GetPendingExperts() ([]models.User, error) {
	var experts []models.User
	if err := s.db.Where("role = ? AND verification_status = ?", models.RoleExpert, models.VerificationPending).
		Order("created_at ASC").
		Find(&experts).Error; err != nil {
		return nil, err
	}
	return experts, nil
}

// GetExperts 按审核状态筛选专家，status为空时返回全部专家
func (s *VerificationService) GetExperts(status string) ([]models.User, error) {
	db := s.db.Where("role = ?", models.RoleExpert)
	if status != "" {
		if !models.ValidVerificationStatus(status) {
			return nil, ErrInvalidVerificationStatus
		}
		db = db.Where("verification_status = ?", status)
	}

	var experts []models.User
	if err := db.Order("created_at DESC").Find(&experts).Error; err != nil {
		return nil, err
	}
	return experts, nil
}

// GetExpertByID 获取指定专家
func (s *VerificationService) GetExpertByID(expertID uint) (*models.User, error) {
	var expert models.User
	if err := s.db.Where("id = ? AND role = ?", expertID, models.RoleExpert).First(&expert).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrExpertNotFound
		}
		return nil, err
	}
	return &expert, nil
}

// ApproveExpert 审核通过专家账号，记录审核人和时间，
// 提交后异步发送通过邮件并推送系统通知
func (s *VerificationService) ApproveExpert(expertID, adminID uint) (*models.User, error) {
	var expert *models.User
	var created *models.Notification

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		expert, err = s.lockExpert(tx, expertID)
		if err != nil {
			return err
		}

		now := time.Now()
		if err := tx.Model(expert).Updates(map[string]interface{}{
			"is_verified":         true,
			"verification_status": models.VerificationApproved,
			"verification_note":   "",
			"verified_at":         now,
			"verified_by":         adminID,
		}).Error; err != nil {
			return err
		}

		created, err = s.notification.CreateSystemNotification(tx, expert.ID,
			"专家账号审核通过", "您的专家账号已通过审核，现在可以回复农户的咨询问题")
		return err
	})
	if err != nil {
		return nil, err
	}

	config.Info("专家审核通过 expertID=%d adminID=%d", expertID, adminID)
	s.notification.AnnounceCreated(created)
	if s.email != nil {
		s.email.SendApprovalEmail(expert.Email, expert.DisplayName())
	}

	return expert, nil
}

// RejectExpert 驳回专家账号，记录审核人、时间和驳回原因
func (s *VerificationService) RejectExpert(expertID, adminID uint, reason string) (*models.User, error) {
	var expert *models.User
	var created *models.Notification

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		expert, err = s.lockExpert(tx, expertID)
		if err != nil {
			return err
		}

		now := time.Now()
		if err := tx.Model(expert).Updates(map[string]interface{}{
			"is_verified":         false,
			"verification_status": models.VerificationRejected,
			"verification_note":   reason,
			"verified_at":         now,
			"verified_by":         adminID,
		}).Error; err != nil {
			return err
		}

		created, err = s.notification.CreateSystemNotification(tx, expert.ID,
			"专家账号审核未通过", "很遗憾，您的专家账号未通过审核，详情请查收邮件")
		return err
	})
	if err != nil {
		return nil, err
	}

	config.Info("专家审核驳回 expertID=%d adminID=%d", expertID, adminID)
	s.notification.AnnounceCreated(created)
	if s.email != nil {
		s.email.SendRejectionEmail(expert.Email, expert.DisplayName(), reason)
	}

	return expert, nil
}

// SuspendExpert 停用专家账号，记录操作人、时间和停用原因
func (s *VerificationService) SuspendExpert(expertID, adminID uint, reason string) (*models.User, error) {
	var expert *models.User
	var created *models.Notification

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		expert, err = s.lockExpert(tx, expertID)
		if err != nil {
			return err
		}

		now := time.Now()
		if err := tx.Model(expert).Updates(map[string]interface{}{
			"is_verified":         false,
			"verification_status": models.VerificationSuspended,
			"verification_note":   reason,
			"verified_at":         now,
			"verified_by":         adminID,
		}).Error; err != nil {
			return err
		}

		created, err = s.notification.CreateSystemNotification(tx, expert.ID,
			"专家账号已停用", "您的专家账号已被停用，详情请查收邮件")
		return err
	})
	if err != nil {
		return nil, err
	}

	config.Info("专家账号停用 expertID=%d adminID=%d", expertID, adminID)
	s.notification.AnnounceCreated(created)
	if s.email != nil {
		s.email.SendSuspensionEmail(expert.Email, expert.DisplayName(), reason)
	}

	return expert, nil
}

// lockExpert 在事务内查询专家记录
func (s *VerificationService) lockExpert(tx *gorm.DB, expertID uint) (*models.User, error) {
	var expert models.User
	if err := tx.Where("id = ? AND role = ?", expertID, models.RoleExpert).First(&expert).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrExpertNotFound
		}
		return nil, err
	}
	return &expert, nil
}
