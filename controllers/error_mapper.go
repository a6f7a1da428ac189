package controllers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"cropguard-http-service/internal/error/code"
	"cropguard-http-service/internal/error/response"
	"cropguard-http-service/services"
)

// 业务错误到统一错误码的映射
var errorCodeMap = map[error]int{
	services.ErrUserNotFound:           code.ErrUserNotFound,
	services.ErrUserAlreadyExist:       code.ErrUserAlreadyExist,
	services.ErrMobileAlreadyUsed:      code.ErrMobileAlreadyUsed,
	services.ErrPasswordIncorrect:      code.ErrUserPasswordIncorrect,
	services.ErrSpecializationRequired: code.ErrSpecializationRequired,
	services.ErrRoleMismatch:           code.ErrRoleMismatch,

	services.ErrExpertNotFound:            code.ErrExpertNotFound,
	services.ErrExpertNotVerified:         code.ErrExpertNotVerified,
	services.ErrExpertPending:             code.ErrExpertPendingApproval,
	services.ErrExpertRejected:            code.ErrExpertRejected,
	services.ErrExpertSuspended:           code.ErrExpertSuspended,
	services.ErrInvalidVerificationStatus: code.ErrInvalidVerificationStatus,

	services.ErrQueryNotFound:  code.ErrQueryNotFound,
	services.ErrInvalidStatus:  code.ErrInvalidStatus,
	services.ErrInvalidUrgency: code.ErrInvalidUrgency,

	services.ErrResponseNotFound: code.ErrResponseNotFound,
	services.ErrAlreadyResponded: code.ErrAlreadyResponded,
	services.ErrResponseNotOwner: code.ErrResponseNotOwner,
	services.ErrResponseEmpty:    code.ErrResponseEmpty,

	services.ErrNotificationNotFound: code.ErrNotificationNotFound,
}

// failWithError 将业务错误映射为统一错误码响应，
// 未识别的错误按数据库错误处理
func failWithError(ctx *gin.Context, err error) {
	for sentinel, errorCode := range errorCodeMap {
		if errors.Is(err, sentinel) {
			response.FailWithMessage(ctx, errorCode, sentinel.Error(), nil)
			return
		}
	}
	response.Fail(ctx, code.ErrDatabase, nil)
}

// currentUserID 从上下文读取认证中间件写入的用户ID
func currentUserID(ctx *gin.Context) uint {
	if v, exists := ctx.Get("userID"); exists {
		if id, ok := v.(uint); ok {
			return id
		}
	}
	return 0
}
