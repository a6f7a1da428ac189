package container

import (
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"

	"cropguard-http-service/config"
	"cropguard-http-service/services"
)

// ServiceContainer 服务容器，集中创建和持有全部业务服务
type ServiceContainer struct {
	DB  *gorm.DB
	Cfg *config.Config

	JWTService          *services.JWTService
	RedisService        *services.RedisService
	EmailService        *services.EmailService
	MQTTNotifyService   *services.MQTTNotifyService
	UserService         *services.UserService
	VerificationService *services.VerificationService
	QueryService        *services.QueryService
	ResponseService     *services.ResponseService
	NotificationService *services.NotificationService
}

// NewServiceContainer 创建一个新的服务容器
func NewServiceContainer(db *gorm.DB, cfg *config.Config, redisClient *redis.Client) *ServiceContainer {
	c := &ServiceContainer{
		DB:  db,
		Cfg: cfg,
	}

	c.JWTService = services.NewJWTService(cfg)
	c.EmailService = services.NewEmailService(cfg)
	c.MQTTNotifyService = services.NewMQTTNotifyService(cfg)

	// Redis不可用时通知服务直接回源数据库
	var redisSvc services.InterfaceRedisService
	if redisClient != nil {
		c.RedisService = services.NewRedisService(redisClient)
		redisSvc = c.RedisService
	}
	c.NotificationService = services.NewNotificationService(db, redisSvc, c.MQTTNotifyService)
	c.UserService = services.NewUserService(db, cfg, c.EmailService)
	c.VerificationService = services.NewVerificationService(db, c.EmailService, c.NotificationService)
	c.QueryService = services.NewQueryService(db, c.NotificationService, redisSvc)
	c.ResponseService = services.NewResponseService(db, c.NotificationService, redisSvc)

	return c
}

// GetService 根据名称获取服务实例
func (c *ServiceContainer) GetService(name string) interface{} {
	switch name {
	case "jwt":
		return c.JWTService
	case "redis":
		return c.RedisService
	case "email":
		return c.EmailService
	case "mqttNotify":
		return c.MQTTNotifyService
	case "user":
		return c.UserService
	case "verification":
		return c.VerificationService
	case "query":
		return c.QueryService
	case "response":
		return c.ResponseService
	case "notification":
		return c.NotificationService
	default:
		return nil
	}
}

// Close 释放容器持有的后台资源
func (c *ServiceContainer) Close() {
	if c.EmailService != nil {
		c.EmailService.Close()
	}
	if c.MQTTNotifyService != nil {
		c.MQTTNotifyService.Close()
	}
}
