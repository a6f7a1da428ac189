package code

// 错误码消息映射
var codeMessageMap = map[int]string{
	// 通用错误码
	ErrSuccess:         "成功",
	ErrUnknown:         "未知错误",
	ErrBind:            "请求参数绑定错误",
	ErrValidation:      "请求参数验证错误",
	ErrTokenInvalid:    "无效的认证令牌",
	ErrTooManyRequests: "请求频率过高",
	ErrRoleMismatch:    "当前角色无权执行该操作",

	// 用户相关错误码
	ErrUserNotFound:           "用户不存在",
	ErrUserAlreadyExist:       "用户已存在",
	ErrUserPasswordIncorrect:  "手机号或密码错误",
	ErrMobileAlreadyUsed:      "手机号已被使用",
	ErrSpecializationRequired: "专家注册必须填写专业领域",

	// 专家认证相关错误码
	ErrExpertNotFound:            "专家不存在",
	ErrExpertNotVerified:         "专家账号未通过认证，请等待管理员审核",
	ErrExpertPendingApproval:     "专家账号待审核，请等待管理员审批",
	ErrExpertRejected:            "专家账号未通过审核",
	ErrExpertSuspended:           "专家账号已被停用",
	ErrInvalidVerificationStatus: "无效的认证状态",

	// 咨询问题相关错误码
	ErrQueryNotFound:  "咨询问题不存在",
	ErrInvalidStatus:  "无效的问题状态",
	ErrInvalidUrgency: "无效的紧急程度",

	// 专家回复相关错误码
	ErrResponseNotFound: "回复不存在",
	ErrAlreadyResponded: "您已回复过该问题，可编辑已有回复",
	ErrResponseNotOwner: "只能编辑自己的回复",
	ErrResponseEmpty:    "回复内容不能为空",

	// 通知相关错误码
	ErrNotificationNotFound: "通知不存在",
	ErrNotificationNotOwner: "只能操作自己的通知",

	// 数据库相关错误码
	ErrDatabase:       "数据库错误",
	ErrRecordNotFound: "记录不存在",
}

// 错误码HTTP状态码映射
var codeStatusMap = map[int]int{
	// 通用错误码
	ErrSuccess:         StatusOK,
	ErrUnknown:         StatusInternalServerError,
	ErrBind:            StatusBadRequest,
	ErrValidation:      StatusBadRequest,
	ErrTokenInvalid:    StatusUnauthorized,
	ErrTooManyRequests: StatusTooManyRequests,
	ErrRoleMismatch:    StatusForbidden,

	// 用户相关错误码
	ErrUserNotFound:           StatusNotFound,
	ErrUserAlreadyExist:       StatusBadRequest,
	ErrUserPasswordIncorrect:  StatusUnauthorized,
	ErrMobileAlreadyUsed:      StatusBadRequest,
	ErrSpecializationRequired: StatusBadRequest,

	// 专家认证相关错误码
	ErrExpertNotFound:            StatusNotFound,
	ErrExpertNotVerified:         StatusForbidden,
	ErrExpertPendingApproval:     StatusForbidden,
	ErrExpertRejected:            StatusForbidden,
	ErrExpertSuspended:           StatusForbidden,
	ErrInvalidVerificationStatus: StatusBadRequest,

	// 咨询问题相关错误码
	ErrQueryNotFound:  StatusNotFound,
	ErrInvalidStatus:  StatusBadRequest,
	ErrInvalidUrgency: StatusBadRequest,

	// 专家回复相关错误码
	ErrResponseNotFound: StatusNotFound,
	ErrAlreadyResponded: StatusConflict,
	ErrResponseNotOwner: StatusForbidden,
	ErrResponseEmpty:    StatusBadRequest,

	// 通知相关错误码
	ErrNotificationNotFound: StatusNotFound,
	ErrNotificationNotOwner: StatusForbidden,

	// 数据库相关错误码
	ErrDatabase:       StatusInternalServerError,
	ErrRecordNotFound: StatusNotFound,
}

// GetMessage 获取错误码对应的消息
func GetMessage(code int) string {
	if msg, ok := codeMessageMap[code]; ok {
		return msg
	}
	return "未知错误"
}

// GetStatus 获取错误码对应的HTTP状态码
func GetStatus(code int) int {
	if status, ok := codeStatusMap[code]; ok {
		return status
	}
	return StatusInternalServerError
}
