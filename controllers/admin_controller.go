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

// InterfaceAdminController 定义管理员控制器接口
type InterfaceAdminController interface {
	GetPendingExperts()
	GetExperts()
	GetExpert()
	ApproveExpert()
	RejectExpert()
	SuspendExpert()
	GetAllQueries()
}

// AdminController 管理员控制器，处理专家审核和全局问题管理
type AdminController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewAdminController 创建一个新的管理员控制器
func NewAdminController(ctx *gin.Context, container *container.ServiceContainer) *AdminController {
	return &AdminController{
		Ctx:       ctx,
		Container: container,
	}
}

// ReviewRequest 审核操作请求，驳回和停用时填写原因
type ReviewRequest struct {
	Reason string `json:"reason" example:"资质证明不清晰，请重新提交"`
}

// HandleAdminFunc 返回一个处理管理员请求的Gin处理函数
func HandleAdminFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewAdminController(ctx, container)

		switch method {
		case "getPendingExperts":
			controller.GetPendingExperts()
		case "getExperts":
			controller.GetExperts()
		case "getExpert":
			controller.GetExpert()
		case "approveExpert":
			controller.ApproveExpert()
		case "rejectExpert":
			controller.RejectExpert()
		case "suspendExpert":
			controller.SuspendExpert()
		case "getAllQueries":
			controller.GetAllQueries()
		default:
			ctx.JSON(http.StatusBadRequest, gin.H{
				"code":    400,
				"message": "无效的方法",
				"data":    nil,
			})
		}
	}
}

// expertID 解析URL中的专家ID参数
func (c *AdminController) expertID() (uint, bool) {
	id, err := strconv.ParseUint(c.Ctx.Param("id"), 10, 32)
	if err != nil {
		response.ParamError(c.Ctx, "无效的专家ID")
		return 0, false
	}
	return uint(id), true
}

// 1. GetPendingExperts 获取待审核专家列表
// @Summary      获取待审核专家列表
// @Description  获取全部待审核的专家账号，按注册时间升序
// @Tags         Admin
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /admin/experts/pending [get]
// @Security     BearerAuth
func (c *AdminController) GetPendingExperts() {
	verificationService := c.Container.GetService("verification").(services.InterfaceVerificationService)
	experts, err := verificationService.GetPendingExperts()
	if err != nil {
		failWithError(c.Ctx, err)
		return
	}

	response.Success(c.Ctx, experts)
}

// 2. GetExperts 获取专家列表
// @Summary      获取专家列表
// @Description  按审核状态筛选专家，不传状态时返回全部专家
// @Tags         Admin
// @Produce      json
// @Param        status query string false "审核状态: pending/approved/rejected/suspended"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Router       /admin/experts [get]
// @Security     BearerAuth
func (c *AdminController) GetExperts() {
	status := c.Ctx.Query("status")

	verificationService := c.Container.GetService("verification").(services.InterfaceVerificationService)
	experts, err := verificationService.GetExperts(status)
	if err != nil {
		failWithError(c.Ctx, err)
		return
	}

	response.Success(c.Ctx, experts)
}

// 3. GetExpert 获取专家详情
// @Summary      获取专家详情
// @Description  获取专家账号详情，包含资质证明文件路径和审核记录
// @Tags         Admin
// @Produce      json
// @Param        id path int true "专家ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Router       /admin/experts/{id} [get]
// @Security     BearerAuth
func (c *AdminController) GetExpert() {
	id, ok := c.expertID()
	if !ok {
		return
	}

	verificationService := c.Container.GetService("verification").(services.InterfaceVerificationService)
	expert, err := verificationService.GetExpertByID(id)
	if err != nil {
		failWithError(c.Ctx, err)
		return
	}

	response.Success(c.Ctx, expert)
}

// 4. ApproveExpert 审核通过专家
// @Summary      审核通过专家
// @Description  审核通过专家账号并发送通知邮件
// @Tags         Admin
// @Produce      json
// @Param        id path int true "专家ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Router       /admin/experts/{id}/approve [put]
// @Security     BearerAuth
func (c *AdminController) ApproveExpert() {
	id, ok := c.expertID()
	if !ok {
		return
	}

	verificationService := c.Container.GetService("verification").(services.InterfaceVerificationService)
	expert, err := verificationService.ApproveExpert(id, currentUserID(c.Ctx))
	if err != nil {
		failWithError(c.Ctx, err)
		return
	}

	response.Success(c.Ctx, expert)
}

// 5. RejectExpert 驳回专家
// @Summary      驳回专家
// @Description  驳回专家账号并记录驳回原因
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        id path int true "专家ID"
// @Param        request body ReviewRequest false "驳回原因"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Router       /admin/experts/{id}/reject [put]
// @Security     BearerAuth
func (c *AdminController) RejectExpert() {
	id, ok := c.expertID()
	if !ok {
		return
	}

	var req ReviewRequest
	_ = c.Ctx.ShouldBindJSON(&req)

	verificationService := c.Container.GetService("verification").(services.InterfaceVerificationService)
	expert, err := verificationService.RejectExpert(id, currentUserID(c.Ctx), req.Reason)
	if err != nil {
		failWithError(c.Ctx, err)
		return
	}

	response.Success(c.Ctx, expert)
}

// 6. SuspendExpert 停用专家
// @Summary      停用专家
// @Description  停用已通过审核的专家账号并记录停用原因
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        id path int true "专家ID"
// @Param        request body ReviewRequest false "停用原因"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Router       /admin/experts/{id}/suspend [put]
// @Security     BearerAuth
func (c *AdminController) SuspendExpert() {
	id, ok := c.expertID()
	if !ok {
		return
	}

	var req ReviewRequest
	_ = c.Ctx.ShouldBindJSON(&req)

	verificationService := c.Container.GetService("verification").(services.InterfaceVerificationService)
	expert, err := verificationService.SuspendExpert(id, currentUserID(c.Ctx), req.Reason)
	if err != nil {
		failWithError(c.Ctx, err)
		return
	}

	response.Success(c.Ctx, expert)
}

// 7. GetAllQueries 获取全部问题
// @Summary      获取全部问题
// @Description  分页获取全部咨询问题，可按状态筛选
// @Tags         Admin
// @Produce      json
// @Param        status query string false "问题状态"
// @Param        pageNum query int false "页码, 默认为1"
// @Param        pageSize query int false "每页条数, 默认为10"
// @Success      200  {object}  map[string]interface{}
// @Router       /admin/queries [get]
// @Security     BearerAuth
func (c *AdminController) GetAllQueries() {
	var pagination models.PaginationQuery
	if err := c.Ctx.ShouldBindQuery(&pagination); err != nil {
		response.ParamError(c.Ctx, "请求参数错误: "+err.Error())
		return
	}
	status := c.Ctx.Query("status")

	queryService := c.Container.GetService("query").(services.InterfaceQueryService)
	queries, result, err := queryService.GetAllQueries(status, &pagination)
	if err != nil {
		failWithError(c.Ctx, err)
		return
	}

	response.Success(c.Ctx, gin.H{
		"pagination": result,
		"queries":    queries,
	})
}
