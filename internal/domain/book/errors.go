package book

import (
	apperrors "github.com/xiebiao/bookcrossing/pkg/errors"
)

// 图书领域错误定义
var (
	// ErrBookNotFound 图书不存在
	// 按(登录名,图书ID)查询时,图书不存在和不属于当前用户都返回此错误
	ErrBookNotFound = apperrors.New(apperrors.ErrCodeBookNotFound, "图书不存在")

	// ErrGenreNotFound 图书类型不存在
	ErrGenreNotFound = apperrors.New(apperrors.ErrCodeGenreNotFound, "图书类型不存在")

	// ErrInvalidStatus 无效的图书状态
	ErrInvalidStatus = apperrors.New(apperrors.ErrCodeInvalidBookStatus, "无效的图书状态")
)
