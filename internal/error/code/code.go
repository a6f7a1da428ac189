package code

// HTTP状态码.
const (
	// StatusOK - 200: 成功.
	StatusOK = 200
	// StatusBadRequest - 400: 请求参数错误.
	StatusBadRequest = 400
	// StatusUnauthorized - 401: 未授权.
	StatusUnauthorized = 401
	// StatusForbidden - 403: 禁止访问.
	StatusForbidden = 403
	// StatusNotFound - 404: 资源不存在.
	StatusNotFound = 404
	// StatusConflict - 409: 资源冲突.
	StatusConflict = 409
	// StatusInternalServerError - 500: 服务器内部错误.
	StatusInternalServerError = 500
	// StatusTooManyRequests - 429: 请求过多.
	StatusTooManyRequests = 429
)

// 通用错误码 (100xxx).
const (
	// ErrSuccess - 200: 成功.
	ErrSuccess int = iota + 100000
	// ErrUnknown - 500: 未知错误.
	ErrUnknown
	// ErrBind - 400: 请求参数绑定错误.
	ErrBind
	// ErrValidation - 400: 请求参数验证错误.
	ErrValidation
	// ErrTokenInvalid - 401: 令牌无效.
	ErrTokenInvalid
	// ErrTooManyRequests - 429: 请求频率过高.
	ErrTooManyRequests
	// ErrRoleMismatch - 403: 角色无权执行该操作.
	ErrRoleMismatch
)

// 用户相关错误码 (101xxx).
const (
	// ErrUserNotFound - 404: 用户不存在.
	ErrUserNotFound int = iota + 101000
	// ErrUserAlreadyExist - 400: 用户已存在.
	ErrUserAlreadyExist
	// ErrUserPasswordIncorrect - 401: 用户密码错误.
	ErrUserPasswordIncorrect
	// ErrMobileAlreadyUsed - 400: 手机号已被使用.
	ErrMobileAlreadyUsed
	// ErrSpecializationRequired - 400: 专家必须填写专业领域.
	ErrSpecializationRequired
)

// 专家认证相关错误码 (102xxx).
const (
	// ErrExpertNotFound - 404: 专家不存在.
	ErrExpertNotFound int = iota + 102000
	// ErrExpertNotVerified - 403: 专家账号未通过认证.
	ErrExpertNotVerified
	// ErrExpertPendingApproval - 403: 专家账号待审核.
	ErrExpertPendingApproval
	// ErrExpertRejected - 403: 专家账号已被拒绝.
	ErrExpertRejected
	// ErrExpertSuspended - 403: 专家账号已被停用.
	ErrExpertSuspended
	// ErrInvalidVerificationStatus - 400: 无效的认证状态.
	ErrInvalidVerificationStatus
)

// 咨询问题相关错误码 (103xxx).
const (
	// ErrQueryNotFound - 404: 咨询问题不存在.
	ErrQueryNotFound int = iota + 103000
	// ErrInvalidStatus - 400: 无效的问题状态.
	ErrInvalidStatus
	// ErrInvalidUrgency - 400: 无效的紧急程度.
	ErrInvalidUrgency
)

// 专家回复相关错误码 (104xxx).
const (
	// ErrResponseNotFound - 404: 回复不存在.
	ErrResponseNotFound int = iota + 104000
	// ErrAlreadyResponded - 409: 已回复过该问题.
	ErrAlreadyResponded
	// ErrResponseNotOwner - 403: 只能编辑自己的回复.
	ErrResponseNotOwner
	// ErrResponseEmpty - 400: 回复内容不能为空.
	ErrResponseEmpty
)

// 通知相关错误码 (105xxx).
const (
	// ErrNotificationNotFound - 404: 通知不存在.
	ErrNotificationNotFound int = iota + 105000
	// ErrNotificationNotOwner - 403: 只能操作自己的通知.
	ErrNotificationNotOwner
)

// 数据库相关错误码 (106xxx).
const (
	// ErrDatabase - 500: 数据库错误.
	ErrDatabase int = iota + 106000
	// ErrRecordNotFound - 404: 记录不存在.
	ErrRecordNotFound
)
