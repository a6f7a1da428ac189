package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"cropguard-http-service/internal/error/response"
	"cropguard-http-service/models"
	"cropguard-http-service/services"
	"cropguard-http-service/services/container"
)

// InterfaceNotificationController 定义通知控制器接口
type InterfaceNotificationController interface {
	GetNotifications()
	GetUnread()
	GetUnreadCount()
	MarkAsRead()
	MarkAllAsRead()
}

// NotificationController 通知控制器
type NotificationController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewNotificationController 创建一个新的通知控制器
func NewNotificationController(ctx *gin.Context, container *container.ServiceContainer) *NotificationController {
	return &NotificationController{
		Ctx:       ctx,
		Container: container,
	}
}

// HandleNotificationFunc 返回一个处理通知请求的Gin处理函数
func HandleNotificationFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewNotificationController(ctx, container)

		switch method {
		case "getNotifications":
			controller.GetNotifications()
		case "getUnread":
			controller.GetUnread()
		case "getUnreadCount":
			controller.GetUnreadCount()
		case "markAsRead":
			controller.MarkAsRead()
		case "markAllAsRead":
			controller.MarkAllAsRead()
		default:
			ctx.JSON(http.StatusBadRequest, gin.H{
				"code":    400,
				"message": "无效的方法",
				"data":    nil,
			})
		}
	}
}

// 1. GetNotifications 获取通知列表
// @Summary      获取通知列表
// @Description  分页获取当前用户的全部通知，按创建时间倒序
// @Tags         Notification
// @Produce      json
// @Param        pageNum query int false "页码, 默认为1"
// @Param        pageSize query int false "每页条数, 默认为10"
// @Success      200  {object}  map[string]interface{}
// @Router       /notifications [get]
// @Security     BearerAuth
func (c *NotificationController) GetNotifications() {
	var pagination models.PaginationQuery
	if err := c.Ctx.ShouldBindQuery(&pagination); err != nil {
		response.ParamError(c.Ctx, "请求参数错误: "+err.Error())
		return
	}

	notificationService := c.Container.GetService("notification").(services.InterfaceNotificationService)
	notifications, result, err := notificationService.GetUserNotifications(currentUserID(c.Ctx), &pagination)
	if err != nil {
		failWithError(c.Ctx, err)
		return
	}

	response.Success(c.Ctx, gin.H{
		"pagination":    result,
		"notifications": notifications,
	})
}

// 2. GetUnread 获取未读通知
// @Summary      获取未读通知
// @Description  获取当前用户的全部未读通知
// @Tags         Notification
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /notifications/unread [get]
// @Security     BearerAuth
func (c *NotificationController) GetUnread() {
	notificationService := c.Container.GetService("notification").(services.InterfaceNotificationService)
	notifications, err := notificationService.GetUnreadNotifications(currentUserID(c.Ctx))
	if err != nil {
		failWithError(c.Ctx, err)
		return
	}

	response.Success(c.Ctx, notifications)
}

// 3. GetUnreadCount 获取未读通知数
// @Summary      获取未读通知数
// @Description  获取当前用户的未读通知数量，优先读取缓存
// @Tags         Notification
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /notifications/unread/count [get]
// @Security     BearerAuth
func (c *NotificationController) GetUnreadCount() {
	notificationService := c.Container.GetService("notification").(services.InterfaceNotificationService)
	count, err := notificationService.GetUnreadCount(currentUserID(c.Ctx))
	if err != nil {
		failWithError(c.Ctx, err)
		return
	}

	response.Success(c.Ctx, gin.H{"count": count})
}

// 4. MarkAsRead 标记通知已读
// @Summary      标记通知已读
// @Description  将指定通知标记为已读，只能操作本人的通知
// @Tags         Notification
// @Produce      json
// @Param        id path int true "通知ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Router       /notifications/{id}/read [put]
// @Security     BearerAuth
func (c *NotificationController) MarkAsRead() {
	id, err := strconv.ParseUint(c.Ctx.Param("id"), 10, 32)
	if err != nil {
		response.ParamError(c.Ctx, "无效的通知ID")
		return
	}

	notificationService := c.Container.GetService("notification").(services.InterfaceNotificationService)
	if err := notificationService.MarkAsRead(uint(id), currentUserID(c.Ctx)); err != nil {
		failWithError(c.Ctx, err)
		return
	}

	response.Success(c.Ctx, nil)
}

// 5. MarkAllAsRead 全部标记已读
// @Summary      全部标记已读
// @Description  将当前用户的全部未读通知标记为已读
// @Tags         Notification
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /notifications/read-all [put]
// @Security     BearerAuth
func (c *NotificationController) MarkAllAsRead() {
	notificationService := c.Container.GetService("notification").(services.InterfaceNotificationService)
	if err := notificationService.MarkAllAsRead(currentUserID(c.Ctx)); err != nil {
		failWithError(c.Ctx, err)
		return
	}

	response.Success(c.Ctx, nil)
}
