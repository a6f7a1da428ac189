package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"cropguard-http-service/config"
	"cropguard-http-service/models"
	"cropguard-http-service/utils"
)

// InterfaceUserService 定义用户服务接口
type InterfaceUserService interface {
	Register(req *RegisterRequest) (*models.User, error)
	Authenticate(mobile, password string) (*models.User, error)
	GetUserByID(userID uint) (*models.User, error)
	UpdateProfile(userID uint, req *UpdateProfileRequest) (*models.User, error)
}

// RegisterRequest 注册请求参数
type RegisterRequest struct {
	Username             string `json:"username"`
	Mobile               string `json:"mobile" binding:"required"`
	Password             string `json:"password" binding:"required,min=6"`
	FullName             string `json:"fullName"`
	Email                string `json:"email"`
	Role                 string `json:"role"`
	Specialization       string `json:"specialization"`
	LicenseNumber        string `json:"licenseNumber"`
	VerificationDocument string `json:"verificationDocument"`
}

// UpdateProfileRequest 更新个人资料请求参数
type UpdateProfileRequest struct {
	Username string `json:"username"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}

// UserService 提供用户注册、登录和资料相关服务
type UserService struct {
	db    *gorm.DB
	cfg   *config.Config
	email InterfaceEmailService
}

// NewUserService 创建一个新的用户服务
func NewUserService(db *gorm.DB, cfg *config.Config, email InterfaceEmailService) *UserService {
	return &UserService{db: db, cfg: cfg, email: email}
}

// Register 注册新用户。普通农户注册后立即可用；
// 专家注册后进入待审核状态，需管理员审核通过后才能登录
func (s *UserService) Register(req *RegisterRequest) (*models.User, error) {
	// 未知角色一律按农户处理
	role := strings.ToLower(strings.TrimSpace(req.Role))
	if role != models.RoleExpert && role != models.RoleAdmin {
		role = models.RoleUser
	}

	// 专家必须填写专业领域
	if role == models.RoleExpert && strings.TrimSpace(req.Specialization) == "" {
		return nil, ErrSpecializationRequired
	}

	// 手机号唯一
	var count int64
	if err := s.db.Model(&models.User{}).Where("mobile = ?", req.Mobile).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrMobileAlreadyUsed
	}

	username := strings.TrimSpace(req.Username)
	if username == "" {
		// 未填写用户名时以手机号生成默认用户名
		username = "user_" + req.Mobile
	}
	if err := s.db.Model(&models.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrUserAlreadyExist
	}

	user := &models.User{
		Username:       username,
		Mobile:         req.Mobile,
		Password:       req.Password,
		FullName:       req.FullName,
		Email:          req.Email,
		Role:           role,
		Enabled:        true,
		Specialization: req.Specialization,
		LicenseNumber:  req.LicenseNumber,
	}

	if role == models.RoleExpert {
		user.IsVerified = false
		user.VerificationStatus = models.VerificationPending

		// 保存Base64编码的资质证明文件
		if req.VerificationDocument != "" {
			path, err := utils.SaveBase64Document(s.cfg.UploadDir, req.VerificationDocument)
			if err != nil {
				return nil, err
			}
			user.VerificationDocument = path
		}
	} else {
		// 农户和管理员无需认证
		user.IsVerified = true
		user.VerificationStatus = models.VerificationApproved
	}

	if err := s.db.Create(user).Error; err != nil {
		return nil, err
	}

	config.Info("用户注册成功 username=%s role=%s", user.Username, user.Role)

	if role == models.RoleExpert && s.email != nil {
		s.email.SendRegistrationPendingEmail(user.Email, user.DisplayName())
	}

	return user, nil
}

// Authenticate 校验手机号和密码。
// 未通过审核的专家无法登录，返回对应的审核状态错误
func (s *UserService) Authenticate(mobile, password string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("mobile = ?", mobile).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPasswordIncorrect
		}
		return nil, err
	}

	if !utils.CheckPasswordHash(password, user.Password) {
		return nil, ErrPasswordIncorrect
	}

	// 专家登录前检查审核状态
	if user.Role == models.RoleExpert {
		switch user.VerificationStatus {
		case models.VerificationPending:
			return nil, ErrExpertPending
		case models.VerificationRejected:
			return nil, ErrExpertRejected
		case models.VerificationSuspended:
			return nil, ErrExpertSuspended
		}
	}

	return &user, nil
}

// GetUserByID 根据ID获取用户
func (s *UserService) GetUserByID(userID uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// UpdateProfile 更新用户基本资料
func (s *UserService) UpdateProfile(userID uint, req *UpdateProfileRequest) (*models.User, error) {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if username := strings.TrimSpace(req.Username); username != "" && username != user.Username {
		var count int64
		if err := s.db.Model(&models.User{}).
			Where("username = ? AND id <> ?", username, userID).
			Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, ErrUserAlreadyExist
		}
		updates["username"] = username
	}
	if req.FullName != "" {
		updates["full_name"] = req.FullName
	}
	if req.Email != "" {
		updates["email"] = req.Email
	}

	if len(updates) > 0 {
		if err := s.db.Model(user).Updates(updates).Error; err != nil {
			return nil, err
		}
	}

	return user, nil
}
