package models

import (
	"time"
)

// ExpertResponse represents one expert's answer to a query.
// 联合唯一索引保证同一专家对同一问题最多只有一条回复，
// 并发提交时由数据库裁决，只有一个成功。
type ExpertResponse struct {
	ID       uint         `gorm:"primaryKey" json:"id"`
	QueryID  uint         `gorm:"not null;uniqueIndex:idx_query_expert" json:"query_id"`
	Query    *ExpertQuery `gorm:"foreignKey:QueryID" json:"query,omitempty"`
	ExpertID uint         `gorm:"not null;uniqueIndex:idx_query_expert" json:"expert_id"`
	Expert   *User        `gorm:"foreignKey:ExpertID" json:"expert,omitempty"`
	Response string       `gorm:"type:text;not null" json:"response"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
