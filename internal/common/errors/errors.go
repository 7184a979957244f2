// Package errors 定义业务错误码和错误处理
package errors

import (
	"fmt"
)

// AppError 应用错误
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Error 实现 error 接口
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap 实现 errors.Unwrap
func (e *AppError) Unwrap() error {
	return e.Err
}

// New 创建新的应用错误
func New(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap 包装错误
func Wrap(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// WithMessage 修改错误消息
func (e *AppError) WithMessage(message string) *AppError {
	return &AppError{
		Code:    e.Code,
		Message: message,
		Err:     e.Err,
	}
}

// WithError 添加原始错误
func (e *AppError) WithError(err error) *AppError {
	return &AppError{
		Code:    e.Code,
		Message: e.Message,
		Err:     err,
	}
}

// 通用错误码 (1000-1999)
var (
	ErrUnknown         = New(1000, "未知错误")
	ErrInvalidParams   = New(1001, "参数错误")
	ErrNotFound        = New(1002, "资源不存在")
	ErrAlreadyExists   = New(1003, "资源已存在")
	ErrDatabaseError   = New(1004, "数据库错误")
	ErrCacheError      = New(1005, "缓存错误")
	ErrInternalError   = New(1006, "内部错误")
	ErrRateLimitExceed = New(1007, "请求过于频繁")
	ErrOperationFailed = New(1008, "操作失败")
)

// 认证错误码 (2000-2999)
var (
	ErrUnauthorized     = New(2000, "未登录")
	ErrTokenExpired     = New(2001, "登录已过期")
	ErrTokenInvalid     = New(2002, "无效的令牌")
	ErrTokenRefreshFail = New(2003, "刷新令牌失败")
	ErrPermissionDenied = New(2004, "权限不足")
	ErrAccountDisabled  = New(2005, "账号已禁用")
	ErrPasswordError    = New(2006, "密码错误")
)

// 用户与角色错误码 (3000-3999)
var (
	ErrUserNotFound     = New(3000, "用户不存在")
	ErrUserExists       = New(3001, "用户名已被注册")
	ErrRoleNotFound     = New(3002, "角色不存在")
	ErrRoleExists       = New(3003, "角色编码已存在")
	ErrRoleInUse        = New(3004, "角色已被引用，无法删除")
	ErrMenuNotFound     = New(3005, "菜单不存在")
	ErrMenuHasChildren  = New(3006, "菜单存在子节点，无法删除")
	ErrInviterNotFound  = New(3007, "邀请人不存在")
	ErrInviterDisabled  = New(3008, "邀请人已禁用")
)

// 活动与会员卡错误码 (4000-4999)
var (
	ErrActivityNotFound   = New(4000, "活动不存在")
	ErrActivityNotOnSale  = New(4001, "活动未发布")
	ErrActivityFull       = New(4002, "活动名额已满")
	ErrActivityStarted    = New(4003, "活动已开始")
	ErrActivityTimeError  = New(4004, "活动时间设置有误")
	ErrCardNotFound       = New(4005, "会员卡不存在")
	ErrCardOffShelf       = New(4006, "会员卡已下架")
)

// 订单错误码 (5000-5999)
var (
	ErrOrderNotFound     = New(5000, "订单不存在")
	ErrOrderStatusError  = New(5001, "订单状态异常")
	ErrOrderPaid         = New(5002, "订单已支付")
	ErrOrderCannotCancel = New(5003, "订单无法取消")
	ErrOrderCannotRefund = New(5004, "订单无法退款")
	ErrRefundDeadline    = New(5005, "已过退款截止时间")
)

// 通知错误码 (6000-6999)
var (
	ErrNotificationNotFound = New(6000, "通知不存在")
)

// 系统配置错误码 (7000-7999)
var (
	ErrConfigNotFound  = New(7000, "配置项不存在")
	ErrConfigKeyExists = New(7001, "配置键已存在")
	ErrConfigValueType = New(7002, "配置值类型错误")
)

// 分润错误码 (10000-10999)
var (
	ErrDistConfigNotFound   = New(10000, "分润配置不存在")
	ErrDistShareOutOfRange  = New(10001, "分润比例必须在 0 到 100 之间")
	ErrDistTotalShareExceed = New(10002, "分润比例之和不能超过 100%")
	ErrDistRoleNotFound     = New(10003, "分润配置引用的角色不存在")
	ErrDistConfigEnabled    = New(10004, "启用中的分润配置不可删除")
	ErrProfitRecordNotFound = New(10005, "分润记录不存在")
	ErrProfitRecordExists   = New(10006, "该订单已生成分润记录")
	ErrProfitStatusError    = New(10007, "分润记录状态异常")
)

// IsAppError 判断是否为应用错误
func IsAppError(err error) bool {
	_, ok := err.(*AppError)
	return ok
}

// GetAppError 获取应用错误
func GetAppError(err error) *AppError {
	if appErr, ok := err.(*AppError); ok {
		return appErr
	}
	return ErrUnknown.WithError(err)
}
