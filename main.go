// @title           CropGuard HTTP Service API
// @version         1.0
// @description     农作物病害咨询平台后端服务，支持农户提问、专家认证与回复、工作流通知
// @termsOfService  http://swagger.io/terms/

// @contact.name   API Support

// @host      localhost:8080
// @BasePath  /api

// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Enter the token with the `Bearer: ` prefix
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"cropguard-http-service/config"
	"cropguard-http-service/models"
	"cropguard-http-service/routes"
	"cropguard-http-service/services"
)

func main() {
	// 初始化日志配置
	if err := config.SetupLogger(); err != nil {
		fmt.Printf("初始化日志配置失败: %v\n", err)
		os.Exit(1)
	}

	// 加载.env文件
	if err := godotenv.Load(); err != nil {
		config.Warning("无法加载.env文件: %v", err)
		// 即使加载失败也继续执行，可能环境变量已经通过其他方式设置
	} else {
		config.Info("成功加载.env文件")
	}

	// 获取配置
	cfg := config.GetConfig()

	// 连接数据库
	db, err := initDB(cfg)
	if err != nil {
		log.Fatalf("无法连接数据库: %v", err)
	}

	// 根据配置执行不同的数据库操作
	if cfg.DBMigrationMode == "drop" {
		// 删除并重建表
		log.Println("警告: 在drop模式下运行，将删除并重建所有表")
		err = dropAndRecreateTables(db)
		if err != nil {
			log.Fatalf("删除并重建表失败: %v", err)
		}
	} else {
		// 默认AutoMigrate，只会添加新列和新表，不会删除或修改列
		log.Println("在标准模式下运行，将只添加新列和新表")
		if err := autoMigrate(db); err != nil {
			log.Fatalf("自动迁移失败: %v", err)
		}
	}

	// 确保系统中有管理员账户
	ensureAdminExists(db, cfg)

	// 连接Redis，连接失败时通知服务回源数据库
	redisClient := services.NewRedisClient(cfg)
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		config.Warning("Redis连接失败，未读数缓存不可用: %v", err)
		redisClient = nil
	}

	// 初始化路由和服务容器
	r, serviceContainer := routes.SetupRouter(db, cfg, redisClient)
	defer serviceContainer.Close()

	// 启动通知清理后台任务
	serviceContainer.NotificationService.StartCleanupTask(context.Background())

	// 获取端口配置
	port := cfg.ServerPort
	if port == "" {
		port = "8080" // 默认端口
	}

	// 启动服务器
	config.Info("服务器启动在: http://localhost:%s", port)
	if err := r.Run(":" + port); err != nil {
		config.Error("启动服务器失败: %v", err)
		os.Exit(1)
	}
}

// initDB 初始化数据库连接
func initDB(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(cfg.GetDSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
		// 将驱动错误翻译为gorm错误，唯一索引冲突可用 ErrDuplicatedKey 判断
		TranslateError: true,
	})

	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	fmt.Println("Database connection established")
	return db, nil
}

// autoMigrate 自动迁移所有模型（只添加新列和新表）
func autoMigrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.ExpertQuery{},
		&models.ExpertResponse{},
		&models.Notification{},
	)

	if err != nil {
		return err
	}

	fmt.Println("Database migration completed")
	return nil
}

// dropAndRecreateTables 删除并重建所有表
func dropAndRecreateTables(db *gorm.DB) error {
	// 警告: 这将删除所有数据
	log.Println("警告: 正在删除并重建所有表，所有数据将丢失")

	// 禁用外键检查以允许删除表
	db.Exec("SET FOREIGN_KEY_CHECKS = 0")
	defer db.Exec("SET FOREIGN_KEY_CHECKS = 1")

	// 获取所有表名
	var tables []string
	err := db.Raw("SHOW TABLES").Scan(&tables).Error
	if err != nil {
		return fmt.Errorf("failed to get table names: %w", err)
	}

	// 删除所有表
	for _, table := range tables {
		log.Printf("正在删除表: %s", table)
		err := db.Exec(fmt.Sprintf("DROP TABLE IF EXISTS `%s`", table)).Error
		if err != nil {
			return fmt.Errorf("failed to drop table %s: %w", table, err)
		}
	}

	// 重新创建所有表
	log.Println("正在重新创建所有表")
	return autoMigrate(db)
}

// ensureAdminExists 确保系统中至少有一个管理员账户
func ensureAdminExists(db *gorm.DB, cfg *config.Config) {
	var count int64
	db.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&count)

	// 如果没有管理员，则创建一个默认管理员
	if count == 0 {
		defaultPassword := "admin123" // 默认密码
		if cfg.DefaultAdminPassword != "" {
			defaultPassword = cfg.DefaultAdminPassword
		}

		// 密码由 BeforeCreate 钩子哈希
		admin := models.User{
			Username:           "admin",
			Mobile:             "10000000000",
			Password:           defaultPassword,
			FullName:           "系统管理员",
			Email:              "admin@cropguard.app",
			Role:               models.RoleAdmin,
			Enabled:            true,
			IsVerified:         true,
			VerificationStatus: models.VerificationApproved,
		}

		result := db.Create(&admin)
		if result.Error != nil {
			log.Printf("无法创建默认管理员: %v", result.Error)
			return
		}

		log.Println("已创建默认管理员账户 (用户名: admin)")
	}
}
