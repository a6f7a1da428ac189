package services

import "errors"

// 业务错误定义，控制器通过 errors.Is 将其映射到统一错误码
var (
	// 用户相关
	ErrUserNotFound           = errors.New("用户不存在")
	ErrUserAlreadyExist       = errors.New("用户已存在")
	ErrMobileAlreadyUsed      = errors.New("手机号已被使用")
	ErrPasswordIncorrect      = errors.New("手机号或密码错误")
	ErrSpecializationRequired = errors.New("专家注册必须填写专业领域")
	ErrRoleMismatch           = errors.New("当前角色无权执行该操作")

	// 专家认证相关
	ErrExpertNotFound    = errors.New("专家不存在")
	ErrExpertNotVerified = errors.New("专家账号未通过认证")
	ErrExpertPending     = errors.New("专家账号待审核")
	ErrExpertRejected    = errors.New("专家账号未通过审核")
	ErrExpertSuspended   = errors.New("专家账号已被停用")

	ErrInvalidVerificationStatus = errors.New("无效的审核状态")

	// 咨询问题相关
	ErrQueryNotFound  = errors.New("咨询问题不存在")
	ErrInvalidStatus  = errors.New("无效的问题状态")
	ErrInvalidUrgency = errors.New("无效的紧急程度")

	// 专家回复相关
	ErrResponseNotFound = errors.New("回复不存在")
	ErrAlreadyResponded = errors.New("已回复过该问题")
	ErrResponseNotOwner = errors.New("只能编辑自己的回复")
	ErrResponseEmpty    = errors.New("回复内容不能为空")

	// 通知相关
	ErrNotificationNotFound = errors.New("通知不存在")
)
