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

// InterfaceQueryController 定义咨询问题控制器接口
type InterfaceQueryController interface {
	CreateQuery()
	GetMyQueries()
	GetQuery()
	GetQueue()
	UpdateStatus()
	Respond()
	AddResponse()
	EditResponse()
	GetResponses()
}

// QueryController 咨询问题控制器
type QueryController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewQueryController 创建一个新的咨询问题控制器
func NewQueryController(ctx *gin.Context, container *container.ServiceContainer) *QueryController {
	return &QueryController{
		Ctx:       ctx,
		Container: container,
	}
}

// UpdateStatusRequest 变更问题状态请求
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required" example:"resolved"`
}

// RespondRequest 回复问题请求
type RespondRequest struct {
	Response string `json:"response" binding:"required" example:"建议使用波尔多液喷洒，每周一次"`
}

// HandleQueryFunc 返回一个处理咨询问题请求的Gin处理函数
func HandleQueryFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewQueryController(ctx, container)

		switch method {
		case "createQuery":
			controller.CreateQuery()
		case "getMyQueries":
			controller.GetMyQueries()
		case "getQuery":
			controller.GetQuery()
		case "getQueue":
			controller.GetQueue()
		case "updateStatus":
			controller.UpdateStatus()
		case "respond":
			controller.Respond()
		case "addResponse":
			controller.AddResponse()
		case "editResponse":
			controller.EditResponse()
		case "getResponses":
			controller.GetResponses()
		default:
			ctx.JSON(http.StatusBadRequest, gin.H{
				"code":    400,
				"message": "无效的方法",
				"data":    nil,
			})
		}
	}
}

// queryID 解析URL中的问题ID参数
func (c *QueryController) queryID() (uint, bool) {
	id, err := strconv.ParseUint(c.Ctx.Param("id"), 10, 32)
	if err != nil {
		response.ParamError(c.Ctx, "无效的问题ID")
		return 0, false
	}
	return uint(id), true
}

// currentUser 加载当前登录用户
func (c *QueryController) currentUser() (*models.User, bool) {
	userService := c.Container.GetService("user").(services.InterfaceUserService)
	user, err := userService.GetUserByID(currentUserID(c.Ctx))
	if err != nil {
		failWithError(c.Ctx, err)
		return nil, false
	}
	return user, true
}

// 1. CreateQuery 提交咨询问题
// @Summary      提交咨询问题
// @Description  农户提交新的病害咨询问题，初始状态为 pending
// @Tags         Query
// @Accept       json
// @Produce      json
// @Param        request body services.CreateQueryRequest true "问题内容"
// @Success      201  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Router       /queries [post]
// @Security     BearerAuth
func (c *QueryController) CreateQuery() {
	var req services.CreateQueryRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, "请求参数错误: "+err.Error())
		return
	}

	queryService := c.Container.GetService("query").(services.InterfaceQueryService)
	query, err := queryService.CreateQuery(currentUserID(c.Ctx), &req)
	if err != nil {
		failWithError(c.Ctx, err)
		return
	}

	response.Created(c.Ctx, query)
}

// 2. GetMyQueries 获取我的问题列表
// @Summary      获取我的问题列表
// @Description  分页获取当前农户提交的问题，按创建时间倒序
// @Tags         Query
// @Produce      json
// @Param        pageNum  query int false "页码"
// @Param        pageSize query int false "每页数量"
// @Success      200  {object}  map[string]interface{}
// @Router       /queries/my [get]
// @Security     BearerAuth
func (c *QueryController) GetMyQueries() {
	var pagination models.PaginationQuery
	if err := c.Ctx.ShouldBindQuery(&pagination); err != nil {
		response.ParamError(c.Ctx, "请求参数错误: "+err.Error())
		return
	}

	queryService := c.Container.GetService("query").(services.InterfaceQueryService)
	queries, result, err := queryService.GetFarmerQueries(currentUserID(c.Ctx), &pagination)
	if err != nil {
		failWithError(c.Ctx, err)
		return
	}

	response.Success(c.Ctx, gin.H{
		"pagination": result,
		"queries":    queries,
	})
}

// 3. GetQuery 获取问题详情
// @Summary      获取问题详情
// @Description  根据ID获取问题详情，包含提问农户信息
// @Tags         Query
// @Produce      json
// @Param        id path int true "问题ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Router       /queries/{id} [get]
// @Security     BearerAuth
func (c *QueryController) GetQuery() {
	id, ok := c.queryID()
	if !ok {
		return
	}

	queryService := c.Container.GetService("query").(services.InterfaceQueryService)
	query, err := queryService.GetQueryByID(id)
	if err != nil {
		failWithError(c.Ctx, err)
		return
	}

	response.Success(c.Ctx, query)
}

// 4. GetQueue 获取问题队列
// @Summary      获取问题队列
// @Description  专家分页查看全部问题，按紧急程度和提交时间排序，标注当前专家是否已回复
// @Tags         Query
// @Produce      json
// @Param        pageNum  query int false "页码"
// @Param        pageSize query int false "每页数量"
// @Success      200  {object}  map[string]interface{}
// @Router       /queries/queue [get]
// @Security     BearerAuth
func (c *QueryController) GetQueue() {
	var pagination models.PaginationQuery
	if err := c.Ctx.ShouldBindQuery(&pagination); err != nil {
		response.ParamError(c.Ctx, "请求参数错误: "+err.Error())
		return
	}

	queryService := c.Container.GetService("query").(services.InterfaceQueryService)
	queries, result, err := queryService.GetExpertQueue(&pagination)
	if err != nil {
		failWithError(c.Ctx, err)
		return
	}

	// 标注回复数和当前专家是否已回复，避免专家重复提交
	responseService := c.Container.GetService("response").(services.InterfaceResponseService)
	expertID := currentUserID(c.Ctx)
	items := make([]gin.H, 0, len(queries))
	for i := range queries {
		query := &queries[i]
		count, err := responseService.CountResponses(query.ID)
		if err != nil {
			failWithError(c.Ctx, err)
			return
		}
		responded, err := responseService.HasResponded(query.ID, expertID)
		if err != nil {
			failWithError(c.Ctx, err)
			return
		}
		items = append(items, gin.H{
			"query":             query,
			"response_count":    count,
			"already_responded": responded,
		})
	}

	response.Success(c.Ctx, gin.H{
		"pagination": result,
		"queries":    items,
	})
}

// 5. UpdateStatus 变更问题状态
// @Summary      变更问题状态
// @Description  专家或管理员变更问题状态，变更后通知提问农户
// @Tags         Query
// @Accept       json
// @Produce      json
// @Param        id path int true "问题ID"
// @Param        request body UpdateStatusRequest true "新状态"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Router       /queries/{id}/status [put]
// @Security     BearerAuth
func (c *QueryController) UpdateStatus() {
	id, ok := c.queryID()
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, "请求参数错误: "+err.Error())
		return
	}

	actor, ok := c.currentUser()
	if !ok {
		return
	}

	queryService := c.Container.GetService("query").(services.InterfaceQueryService)
	query, err := queryService.UpdateQueryStatus(id, actor, req.Status)
	if err != nil {
		failWithError(c.Ctx, err)
		return
	}

	response.Success(c.Ctx, query)
}

// 6. Respond 回复问题（兼容旧版）
// @Summary      回复问题（兼容旧版）
// @Description  专家回复问题，同一专家重复提交按覆盖处理
// @Tags         Query
// @Accept       json
// @Produce      json
// @Param        id path int true "问题ID"
// @Param        request body RespondRequest true "回复内容"
// @Success      200  {object}  map[string]interface{}
// @Failure      403  {object}  ErrorResponse
// @Router       /queries/{id}/respond [post]
// @Security     BearerAuth
func (c *QueryController) Respond() {
	id, ok := c.queryID()
	if !ok {
		return
	}

	var req RespondRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, "请求参数错误: "+err.Error())
		return
	}

	expert, ok := c.currentUser()
	if !ok {
		return
	}

	queryService := c.Container.GetService("query").(services.InterfaceQueryService)
	query, err := queryService.RespondLegacy(id, expert, req.Response)
	if err != nil {
		failWithError(c.Ctx, err)
		return
	}

	response.Success(c.Ctx, query)
}

// 7. AddResponse 追加专家回复
// @Summary      追加专家回复
// @Description  专家向问题追加回复，同一专家对同一问题只能回复一次，首条回复会推进问题状态
// @Tags         Response
// @Accept       json
// @Produce      json
// @Param        id path int true "问题ID"
// @Param        request body RespondRequest true "回复内容"
// @Success      201  {object}  map[string]interface{}
// @Failure      403  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Router       /queries/{id}/responses [post]
// @Security     BearerAuth
func (c *QueryController) AddResponse() {
	id, ok := c.queryID()
	if !ok {
		return
	}

	var req RespondRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, "请求参数错误: "+err.Error())
		return
	}

	expert, ok := c.currentUser()
	if !ok {
		return
	}

	responseService := c.Container.GetService("response").(services.InterfaceResponseService)
	resp, err := responseService.AddResponse(id, expert, req.Response)
	if err != nil {
		failWithError(c.Ctx, err)
		return
	}

	response.Created(c.Ctx, resp)
}

// 8. EditResponse 编辑专家回复
// @Summary      编辑专家回复
// @Description  专家编辑自己的回复，不能编辑他人的回复
// @Tags         Response
// @Accept       json
// @Produce      json
// @Param        responseId path int true "回复ID"
// @Param        request body RespondRequest true "回复内容"
// @Success      200  {object}  map[string]interface{}
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /responses/{responseId} [put]
// @Security     BearerAuth
func (c *QueryController) EditResponse() {
	responseID, err := strconv.ParseUint(c.Ctx.Param("responseId"), 10, 32)
	if err != nil {
		response.ParamError(c.Ctx, "无效的回复ID")
		return
	}

	var req RespondRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, "请求参数错误: "+err.Error())
		return
	}

	responseService := c.Container.GetService("response").(services.InterfaceResponseService)
	resp, err := responseService.EditResponse(uint(responseID), currentUserID(c.Ctx), req.Response)
	if err != nil {
		failWithError(c.Ctx, err)
		return
	}

	response.Success(c.Ctx, resp)
}

// 9. GetResponses 获取问题的全部回复
// @Summary      获取问题的全部回复
// @Description  获取问题的全部专家回复，最新的在前，附带专家姓名和专业领域
// @Tags         Response
// @Produce      json
// @Param        id path int true "问题ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Router       /queries/{id}/responses [get]
func (c *QueryController) GetResponses() {
	id, ok := c.queryID()
	if !ok {
		return
	}

	responseService := c.Container.GetService("response").(services.InterfaceResponseService)
	views, err := responseService.GetQueryResponses(id)
	if err != nil {
		failWithError(c.Ctx, err)
		return
	}

	response.Success(c.Ctx, gin.H{
		"count":     len(views),
		"responses": views,
	})
}
