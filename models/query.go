package models

import (
	"time"
)

// 问题紧急程度
const (
	UrgencyLow      = "low"
	UrgencyMedium   = "medium"
	UrgencyHigh     = "high"
	UrgencyCritical = "critical"
)

// 问题状态
const (
	QueryStatusPending    = "pending"     // 初始状态，等待专家回复
	QueryStatusAnswered   = "answered"    // 已有专家回复
	QueryStatusInProgress = "in_progress" // 处理中
	QueryStatusResolved   = "resolved"    // 已解决
	QueryStatusClosed     = "closed"      // 已关闭
)

// ExpertQuery represents a farmer's crop disease consultation request
type ExpertQuery struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Title       string `gorm:"type:varchar(255);not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	CropType    string `gorm:"type:varchar(100)" json:"crop_type"`
	Category    string `gorm:"type:varchar(100);not null" json:"category"`
	Urgency     string `gorm:"type:varchar(20);not null" json:"urgency"`
	Status      string `gorm:"type:varchar(30);not null;default:pending" json:"status"`
	ImagePath   string `gorm:"type:varchar(255)" json:"image_path,omitempty"`
	HasImage    bool   `gorm:"default:false" json:"has_image"`

	// 提问农户，创建后不可变更
	FarmerID uint  `gorm:"not null;index" json:"farmer_id"`
	Farmer   *User `gorm:"foreignKey:FarmerID" json:"farmer,omitempty"`

	// 兼容旧版单回复字段，真实回复以 ExpertResponse 为准
	Response     string     `gorm:"type:text" json:"response,omitempty"`
	ExpertID     *uint      `json:"expert_id,omitempty"`
	Expert       *User      `gorm:"foreignKey:ExpertID" json:"expert,omitempty"`
	ResponseDate *time.Time `json:"response_date,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ValidStatus 校验问题状态是否在允许的取值范围内
func ValidStatus(status string) bool {
	switch status {
	case QueryStatusPending, QueryStatusAnswered, QueryStatusInProgress,
		QueryStatusResolved, QueryStatusClosed:
		return true
	}
	return false
}

// ValidUrgency 校验紧急程度是否在允许的取值范围内
func ValidUrgency(urgency string) bool {
	switch urgency {
	case UrgencyLow, UrgencyMedium, UrgencyHigh, UrgencyCritical:
		return true
	}
	return false
}

// UrgencyRank 返回紧急程度的排序权重，数值越小越紧急
func UrgencyRank(urgency string) int {
	switch urgency {
	case UrgencyCritical:
		return 1
	case UrgencyHigh:
		return 2
	case UrgencyMedium:
		return 3
	case UrgencyLow:
		return 4
	default:
		return 5
	}
}
