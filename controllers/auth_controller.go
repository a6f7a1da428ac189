package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cropguard-http-service/internal/error/response"
	"cropguard-http-service/services"
	"cropguard-http-service/services/container"
)

// InterfaceAuthController 定义认证控制器接口
type InterfaceAuthController interface {
	Signup()
	Signin()
	GetProfile()
	UpdateProfile()
}

// AuthController 处理注册、登录和个人资料请求
type AuthController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewAuthController 创建一个新的认证控制器
func NewAuthController(ctx *gin.Context, container *container.ServiceContainer) *AuthController {
	return &AuthController{
		Ctx:       ctx,
		Container: container,
	}
}

// SigninRequest 表示登录请求
type SigninRequest struct {
	Mobile   string `json:"mobile" binding:"required" example:"13800138000"`
	Password string `json:"password" binding:"required" example:"Secret@123"`
}

// ErrorResponse 表示错误响应
type ErrorResponse struct {
	Code    int         `json:"code" example:"401"`
	Message string      `json:"message" example:"手机号或密码错误"`
	Data    interface{} `json:"data"`
}

// HandleAuthFunc 返回一个处理认证请求的Gin处理函数
func HandleAuthFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewAuthController(ctx, container)

		switch method {
		case "signup":
			controller.Signup()
		case "signin":
			controller.Signin()
		case "getProfile":
			controller.GetProfile()
		case "updateProfile":
			controller.UpdateProfile()
		default:
			ctx.JSON(http.StatusBadRequest, gin.H{
				"code":    400,
				"message": "无效的方法",
				"data":    nil,
			})
		}
	}
}

// Signup 用户注册
// @Summary      用户注册
// @Description  注册农户或专家账号，专家需提交专业领域和资质证明，注册后等待管理员审核
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request body services.RegisterRequest true "注册请求参数"
// @Success      201  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Router       /auth/signup [post]
func (c *AuthController) Signup() {
	var req services.RegisterRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, "请求参数错误: "+err.Error())
		return
	}

	userService := c.Container.GetService("user").(services.InterfaceUserService)
	user, err := userService.Register(&req)
	if err != nil {
		failWithError(c.Ctx, err)
		return
	}

	response.Created(c.Ctx, gin.H{
		"id":                  user.ID,
		"username":            user.Username,
		"mobile":              user.Mobile,
		"role":                user.Role,
		"verification_status": user.VerificationStatus,
	})
}

// Signin 用户登录
// @Summary      用户登录
// @Description  手机号密码登录，未通过审核的专家无法登录
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request body SigninRequest true "登录请求参数"
// @Success      200  {object}  map[string]interface{}  "包含token的成功响应"
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Router       /auth/signin [post]
func (c *AuthController) Signin() {
	var req SigninRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, "请求参数错误: "+err.Error())
		return
	}

	userService := c.Container.GetService("user").(services.InterfaceUserService)
	user, err := userService.Authenticate(req.Mobile, req.Password)
	if err != nil {
		failWithError(c.Ctx, err)
		return
	}

	jwtService := c.Container.GetService("jwt").(services.InterfaceJWTService)
	token, err := jwtService.GenerateToken(user.ID, user.Username, user.Role)
	if err != nil {
		response.ServerError(c.Ctx)
		return
	}

	response.Success(c.Ctx, gin.H{
		"token":     token,
		"user_id":   user.ID,
		"username":  user.Username,
		"full_name": user.FullName,
		"role":      user.Role,
	})
}

// GetProfile 获取个人资料
// @Summary      获取个人资料
// @Description  获取当前登录用户的个人资料
// @Tags         Auth
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  ErrorResponse
// @Router       /auth/profile [get]
// @Security     BearerAuth
func (c *AuthController) GetProfile() {
	userService := c.Container.GetService("user").(services.InterfaceUserService)
	user, err := userService.GetUserByID(currentUserID(c.Ctx))
	if err != nil {
		failWithError(c.Ctx, err)
		return
	}

	response.Success(c.Ctx, user)
}

// UpdateProfile 更新个人资料
// @Summary      更新个人资料
// @Description  更新当前登录用户的用户名、姓名或邮箱
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request body services.UpdateProfileRequest true "更新请求参数"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Router       /auth/profile [put]
// @Security     BearerAuth
func (c *AuthController) UpdateProfile() {
	var req services.UpdateProfileRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, "请求参数错误: "+err.Error())
		return
	}

	userService := c.Container.GetService("user").(services.InterfaceUserService)
	user, err := userService.UpdateProfile(currentUserID(c.Ctx), &req)
	if err != nil {
		failWithError(c.Ctx, err)
		return
	}

	response.Success(c.Ctx, user)
}
