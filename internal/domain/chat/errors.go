package chat

import (
	apperrors "github.com/xiebiao/bookcrossing/pkg/errors"
)

var (
	ErrChatAlreadyCreated = apperrors.New(apperrors.ErrCodeChatAlreadyCreated, "会话已存在")
	ErrChatNotAllowed     = apperrors.New(apperrors.ErrCodeChatNotAllowed, "对方账号不可用，无法创建会话")
	ErrChatNotFound       = apperrors.New(apperrors.ErrCodeCorrespondenceNotFound, "会话不存在")
)
