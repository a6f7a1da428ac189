package services

import (
	"errors"
	"testing"

	"cropguard-http-service/models"
	"cropguard-http-service/utils"
)

func TestRegisterFarmer(t *testing.T) {
	db := setupTestDB(t)
	svc := NewUserService(db, testConfig(t), nil)

	user, err := svc.Register(&RegisterRequest{
		Mobile:   "13800000001",
		Password: "secret123",
		FullName: "张三",
	})
	if err != nil {
		t.Fatalf("注册农户失败: %v", err)
	}

	// 未填写用户名时生成默认用户名
	if user.Username != "user_13800000001" {
		t.Errorf("默认用户名错误: got %s", user.Username)
	}
	if user.Role != models.RoleUser {
		t.Errorf("默认角色应为user: got %s", user.Role)
	}
	// 农户无需审核
	if !user.IsVerified || user.VerificationStatus != models.VerificationApproved {
		t.Errorf("农户应自动通过认证: verified=%v status=%s", user.IsVerified, user.VerificationStatus)
	}
	// 密码应被哈希
	if user.Password == "secret123" {
		t.Error("密码未被哈希")
	}
	if !utils.CheckPasswordHash("secret123", user.Password) {
		t.Error("密码哈希校验失败")
	}
}

func TestRegisterExpertPending(t *testing.T) {
	db := setupTestDB(t)
	svc := NewUserService(db, testConfig(t), nil)

	user, err := svc.Register(&RegisterRequest{
		Username:       "plantdoc",
		Mobile:         "13900000001",
		Password:       "secret123",
		Role:           "expert",
		Specialization: "果树病虫害",
	})
	if err != nil {
		t.Fatalf("注册专家失败: %v", err)
	}

	// 专家注册后进入待审核状态
	if user.IsVerified {
		t.Error("新注册专家不应已通过认证")
	}
	if user.VerificationStatus != models.VerificationPending {
		t.Errorf("新注册专家状态应为pending: got %s", user.VerificationStatus)
	}
}

func TestRegisterExpertRequiresSpecialization(t *testing.T) {
	db := setupTestDB(t)
	svc := NewUserService(db, testConfig(t), nil)

	_, err := svc.Register(&RegisterRequest{
		Mobile:   "13900000002",
		Password: "secret123",
		Role:     "expert",
	})
	if !errors.Is(err, ErrSpecializationRequired) {
		t.Fatalf("期望 ErrSpecializationRequired, got %v", err)
	}
}

func TestRegisterDuplicateMobile(t *testing.T) {
	db := setupTestDB(t)
	svc := NewUserService(db, testConfig(t), nil)

	req := &RegisterRequest{Mobile: "13800000002", Password: "secret123"}
	if _, err := svc.Register(req); err != nil {
		t.Fatalf("首次注册失败: %v", err)
	}

	req.Username = "another"
	if _, err := svc.Register(req); !errors.Is(err, ErrMobileAlreadyUsed) {
		t.Fatalf("期望 ErrMobileAlreadyUsed, got %v", err)
	}
}

func TestAuthenticate(t *testing.T) {
	db := setupTestDB(t)
	svc := NewUserService(db, testConfig(t), nil)
	farmer := createFarmer(t, db)

	user, err := svc.Authenticate(farmer.Mobile, "secret123")
	if err != nil {
		t.Fatalf("登录失败: %v", err)
	}
	if user.ID != farmer.ID {
		t.Errorf("登录返回了错误的用户: got %d want %d", user.ID, farmer.ID)
	}

	// 密码错误
	if _, err := svc.Authenticate(farmer.Mobile, "wrong"); !errors.Is(err, ErrPasswordIncorrect) {
		t.Fatalf("期望 ErrPasswordIncorrect, got %v", err)
	}
	// 手机号不存在时返回相同错误，不暴露账号是否存在
	if _, err := svc.Authenticate("13211111111", "secret123"); !errors.Is(err, ErrPasswordIncorrect) {
		t.Fatalf("期望 ErrPasswordIncorrect, got %v", err)
	}
}

func TestAuthenticateExpertGating(t *testing.T) {
	db := setupTestDB(t)
	svc := NewUserService(db, testConfig(t), nil)

	cases := []struct {
		status string
		want   error
	}{
		{models.VerificationPending, ErrExpertPending},
		{models.VerificationRejected, ErrExpertRejected},
		{models.VerificationSuspended, ErrExpertSuspended},
	}

	for _, tc := range cases {
		expert := createExpert(t, db, tc.status)
		if _, err := svc.Authenticate(expert.Mobile, "secret123"); !errors.Is(err, tc.want) {
			t.Errorf("状态 %s 登录期望 %v, got %v", tc.status, tc.want, err)
		}
	}

	// 已通过审核的专家可以登录
	approved := createExpert(t, db, models.VerificationApproved)
	if _, err := svc.Authenticate(approved.Mobile, "secret123"); err != nil {
		t.Errorf("已审核专家登录失败: %v", err)
	}
}
