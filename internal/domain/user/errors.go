package user

import (
	apperrors "github.com/xiebiao/bookcrossing/pkg/errors"
)

// 用户领域错误定义
var (
	ErrUserNotFound        = apperrors.New(apperrors.ErrCodeUserNotFound, "用户不存在")
	ErrLoginDuplicate      = apperrors.New(apperrors.ErrCodeLoginDuplicate, "登录名已被占用")
	ErrEmailDuplicate      = apperrors.New(apperrors.ErrCodeEmailDuplicate, "邮箱已被注册")
	ErrUserNotEnabled      = apperrors.New(apperrors.ErrCodeUserNotEnabled, "账号未激活，请先完成邮箱确认")
	ErrUserLocked          = apperrors.New(apperrors.ErrCodeUserLocked, "账号已被锁定")
	ErrInvalidConfirmToken = apperrors.New(apperrors.ErrCodeInvalidConfirmToken, "激活链接无效或已过期")
)
