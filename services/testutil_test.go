package services

import (
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"cropguard-http-service/config"
	"cropguard-http-service/models"
)

// setupTestDB 创建内存数据库并迁移全部模型
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("打开内存数据库失败: %v", err)
	}

	// 限制为单连接，让所有goroutine共享同一个内存库，事务串行执行
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("获取底层连接失败: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&models.User{},
		&models.ExpertQuery{},
		&models.ExpertResponse{},
		&models.Notification{},
	); err != nil {
		t.Fatalf("迁移测试表失败: %v", err)
	}

	return db
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		JWTSecretKey: "test-secret",
		UploadDir:    t.TempDir(),
	}
}

var userSeq int

// createFarmer 创建测试农户
func createFarmer(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	userSeq++
	user := &models.User{
		Username:           fmt.Sprintf("farmer%d", userSeq),
		Mobile:             fmt.Sprintf("138%08d", userSeq),
		Password:           "secret123",
		FullName:           fmt.Sprintf("农户%d", userSeq),
		Email:              fmt.Sprintf("farmer%d@example.com", userSeq),
		Role:               models.RoleUser,
		Enabled:            true,
		IsVerified:         true,
		VerificationStatus: models.VerificationApproved,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("创建测试农户失败: %v", err)
	}
	return user
}

// createExpert 创建指定审核状态的测试专家
func createExpert(t *testing.T, db *gorm.DB, status string) *models.User {
	t.Helper()
	userSeq++
	user := &models.User{
		Username:           fmt.Sprintf("expert%d", userSeq),
		Mobile:             fmt.Sprintf("139%08d", userSeq),
		Password:           "secret123",
		FullName:           fmt.Sprintf("专家%d", userSeq),
		Email:              fmt.Sprintf("expert%d@example.com", userSeq),
		Role:               models.RoleExpert,
		Enabled:            true,
		Specialization:     "植物病理学",
		IsVerified:         status == models.VerificationApproved,
		VerificationStatus: status,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("创建测试专家失败: %v", err)
	}
	return user
}

// createAdmin 创建测试管理员
func createAdmin(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	userSeq++
	user := &models.User{
		Username:           fmt.Sprintf("admin%d", userSeq),
		Mobile:             fmt.Sprintf("137%08d", userSeq),
		Password:           "secret123",
		Role:               models.RoleAdmin,
		Enabled:            true,
		IsVerified:         true,
		VerificationStatus: models.VerificationApproved,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("创建测试管理员失败: %v", err)
	}
	return user
}

// createQuery 创建测试问题
func createQuery(t *testing.T, db *gorm.DB, farmerID uint, urgency string) *models.ExpertQuery {
	t.Helper()
	query := &models.ExpertQuery{
		Title:       "玉米叶片出现褐色斑点",
		Description: "最近一周叶片斑点扩散很快",
		CropType:    "玉米",
		Category:    "病害诊断",
		Urgency:     urgency,
		Status:      models.QueryStatusPending,
		FarmerID:    farmerID,
	}
	if err := db.Create(query).Error; err != nil {
		t.Fatalf("创建测试问题失败: %v", err)
	}
	return query
}

// newTestNotificationService 创建不依赖Redis和MQTT的通知服务
func newTestNotificationService(db *gorm.DB) *NotificationService {
	return NewNotificationService(db, nil, nil)
}
