package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"cropguard-http-service/config"
	"cropguard-http-service/controllers"
	_ "cropguard-http-service/docs"
	"cropguard-http-service/middleware"
	"cropguard-http-service/services/container"
)

// SetupRouter 初始化并返回配置好的路由
func SetupRouter(db *gorm.DB, cfg *config.Config, redisClient *redis.Client) (*gin.Engine, *container.ServiceContainer) {
	// 初始化 Gin
	r := gin.Default()

	// 添加 CORS 中间件
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, Accept, Origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS, PATCH")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})
	// 设置正确的Content-Type，确保UTF-8编码
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json; charset=utf-8")
		c.Next()
	})
	// 创建服务容器
	serviceContainer := container.NewServiceContainer(db, cfg, redisClient)
	// 初始化中间件
	middleware.InitAuthMiddleware(cfg)
	// 添加 Swagger 文档路由
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// 注册路由
	registerRoutes(r, serviceContainer)
	return r, serviceContainer
}

// registerRoutes 配置所有API路由
func registerRoutes(
	r *gin.Engine,
	container *container.ServiceContainer,
) {
	// API 路由根路径
	api := r.Group("/api")
	// 注册公共路由
	registerPublicRoutes(api, container)
	// 注册需要认证的路由
	registerAuthenticatedRoutes(api, container)
}

// registerPublicRoutes 注册公共路由
func registerPublicRoutes(
	api *gin.RouterGroup,
	container *container.ServiceContainer,
) {
	// 健康检查
	api.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// 认证路由，注册和登录按IP限流
	api.POST("/auth/signup", middleware.IPRateLimiter(1, 5), controllers.HandleAuthFunc(container, "signup"))
	api.POST("/auth/signin", middleware.IPRateLimiter(2, 10), controllers.HandleAuthFunc(container, "signin"))

	// 问题回复对外公开，无需登录即可查看
	api.GET("/queries/:id/responses", controllers.HandleQueryFunc(container, "getResponses"))
}

// registerAuthenticatedRoutes 注册需要认证的路由
func registerAuthenticatedRoutes(
	api *gin.RouterGroup,
	container *container.ServiceContainer,
) {
	// 任意已登录用户
	user := api.Group("/")
	user.Use(middleware.AuthenticateUser())

	// 个人资料路由
	user.Group("/auth").GET("/profile", controllers.HandleAuthFunc(container, "getProfile"))
	user.Group("/auth").PUT("/profile", controllers.HandleAuthFunc(container, "updateProfile"))

	// 农户问题路由
	user.Group("/queries").POST("", controllers.HandleQueryFunc(container, "createQuery"))
	user.Group("/queries").GET("/my", controllers.HandleQueryFunc(container, "getMyQueries"))
	user.Group("/queries").GET("/:id", controllers.HandleQueryFunc(container, "getQuery"))

	// 通知路由
	user.Group("/notifications").GET("", controllers.HandleNotificationFunc(container, "getNotifications"))
	user.Group("/notifications").GET("/unread", controllers.HandleNotificationFunc(container, "getUnread"))
	user.Group("/notifications").GET("/unread/count", controllers.HandleNotificationFunc(container, "getUnreadCount"))
	user.Group("/notifications").PUT("/:id/read", controllers.HandleNotificationFunc(container, "markAsRead"))
	user.Group("/notifications").PUT("/read-all", controllers.HandleNotificationFunc(container, "markAllAsRead"))

	// 专家路由，管理员也可以访问
	expert := api.Group("/")
	expert.Use(middleware.AuthenticateExpert())

	expert.Group("/queries").GET("/queue", controllers.HandleQueryFunc(container, "getQueue"))
	expert.Group("/queries").PUT("/:id/status", controllers.HandleQueryFunc(container, "updateStatus"))
	expert.Group("/queries").POST("/:id/respond", controllers.HandleQueryFunc(container, "respond"))
	expert.Group("/queries").POST("/:id/responses", controllers.HandleQueryFunc(container, "addResponse"))
	expert.Group("/responses").PUT("/:responseId", controllers.HandleQueryFunc(container, "editResponse"))

	// 管理员路由
	admin := api.Group("/admin")
	admin.Use(middleware.AuthenticateAdmin())

	admin.GET("/experts", controllers.HandleAdminFunc(container, "getExperts"))
	admin.GET("/experts/pending", controllers.HandleAdminFunc(container, "getPendingExperts"))
	admin.GET("/experts/:id", controllers.HandleAdminFunc(container, "getExpert"))
	admin.PUT("/experts/:id/approve", controllers.HandleAdminFunc(container, "approveExpert"))
	admin.PUT("/experts/:id/reject", controllers.HandleAdminFunc(container, "rejectExpert"))
	admin.PUT("/experts/:id/suspend", controllers.HandleAdminFunc(container, "suspendExpert"))
	admin.GET("/queries", controllers.HandleAdminFunc(container, "getAllQueries"))
}
