package models

import (
	"time"

	"gorm.io/gorm"

	"cropguard-http-service/utils"
)

// 用户角色
const (
	RoleUser   = "user"   // 农户
	RoleExpert = "expert" // 农业专家
	RoleAdmin  = "admin"  // 系统管理员
)

// 专家认证状态
const (
	VerificationPending   = "pending"   // 等待管理员审核
	VerificationApproved  = "approved"  // 已通过认证
	VerificationRejected  = "rejected"  // 认证被拒绝
	VerificationSuspended = "suspended" // 暂时停用
)

// User represents platform accounts (farmers, experts and admins)
type User struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Username string `gorm:"type:varchar(50);unique;not null" json:"username"`
	Mobile   string `gorm:"type:varchar(20);unique;not null" json:"mobile"`
	Password string `gorm:"type:varchar(100);not null" json:"-"` // 不在JSON中暴露密码
	FullName string `gorm:"type:varchar(100)" json:"full_name"`
	Email    string `gorm:"type:varchar(100)" json:"email"`
	Role     string `gorm:"type:varchar(20);not null;default:user" json:"role"`
	Enabled  bool   `gorm:"default:true" json:"enabled"`

	// 专家相关字段
	Specialization string `gorm:"type:varchar(200)" json:"specialization,omitempty"`

	// 专家认证字段
	IsVerified           bool       `gorm:"default:false" json:"is_verified"`
	VerificationStatus   string     `gorm:"type:varchar(20);default:pending" json:"verification_status"`
	VerificationDocument string     `gorm:"type:varchar(255)" json:"verification_document,omitempty"` // 资质证明文件路径
	LicenseNumber        string     `gorm:"type:varchar(100)" json:"license_number,omitempty"`
	VerificationNote     string     `gorm:"type:varchar(255)" json:"verification_note,omitempty"` // 拒绝/停用原因
	VerifiedAt           *time.Time `json:"verified_at,omitempty"`
	VerifiedBy           *uint      `json:"verified_by,omitempty"` // 审核管理员ID

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ValidVerificationStatus 判断审核状态是否合法
func ValidVerificationStatus(status string) bool {
	switch status {
	case VerificationPending, VerificationApproved, VerificationRejected, VerificationSuspended:
		return true
	}
	return false
}

// BeforeCreate 是一个GORM钩子，在创建新记录前运行
func (u *User) BeforeCreate(tx *gorm.DB) error {
	// 如果提供了密码，对其进行哈希处理
	if u.Password != "" && len(u.Password) < 60 {
		hashedPassword, err := utils.HashPassword(u.Password)
		if err != nil {
			return err
		}
		u.Password = hashedPassword
	}
	return nil
}

// IsApprovedExpert 判断账号是否为已通过认证的专家
func (u *User) IsApprovedExpert() bool {
	return u.Role == RoleExpert && u.IsVerified && u.VerificationStatus == VerificationApproved
}

// CanActOnQueries 判断账号是否可以回复问题或修改问题状态
// 管理员无条件允许，专家必须通过认证
func (u *User) CanActOnQueries() bool {
	if u.Role == RoleAdmin {
		return true
	}
	return u.IsApprovedExpert()
}

// DisplayName 返回用于通知和邮件的展示名
func (u *User) DisplayName() string {
	if u.FullName != "" {
		return u.FullName
	}
	return u.Username
}
