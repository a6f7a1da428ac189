package models

import (
	"time"
)

// 通知类型
const (
	NotificationQueryResponse     = "query_response"      // 专家回复了问题
	NotificationQueryStatusUpdate = "query_status_update" // 问题状态变更
	NotificationSystem            = "system_notification" // 系统通知
)

// Notification represents a one-way message to a user about a workflow event
type Notification struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	UserID  uint   `gorm:"not null;index" json:"user_id"` // 接收人
	User    *User  `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Title   string `gorm:"type:varchar(255);not null" json:"title"`
	Message string `gorm:"type:text;not null" json:"message"`
	Type    string `gorm:"type:varchar(30);not null" json:"type"`

	// 关联的业务实体ID（如问题ID），可为空
	RelatedEntityID *uint `json:"related_entity_id,omitempty"`

	IsRead    bool      `gorm:"default:false;index" json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
