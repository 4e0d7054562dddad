// Package chat 会话管理
package chat

import (
	"context"
	"time"

	"github.com/xiebiao/bookcrossing/internal/application"
	"github.com/xiebiao/bookcrossing/internal/domain/chat"
	"github.com/xiebiao/bookcrossing/internal/domain/user"
)

// CorrespondenceInfo 会话信息
type CorrespondenceInfo struct {
	FirstUserID  uint      `json:"first_user_id"`
	SecondUserID uint      `json:"second_user_id"`
	CreatedAt    time.Time `json:"created_at"`
}

// CreateCorrespondenceUseCase 与指定用户创建会话
// 1. 对方不存在返回ErrUserNotFound，对方不可用返回ErrChatNotAllowed
// 2. 两人之间（任一顺序）已有会话返回ErrChatAlreadyCreated
// 3. 会话主键为(发起者, 对方)
type CreateCorrespondenceUseCase struct {
	users           user.Repository
	correspondences chat.CorrespondenceRepository
	tx              application.TxManager
}

// NewCreateCorrespondenceUseCase 创建用例
func NewCreateCorrespondenceUseCase(
	users user.Repository,
	correspondences chat.CorrespondenceRepository,
	tx application.TxManager,
) *CreateCorrespondenceUseCase {
	return &CreateCorrespondenceUseCase{users: users, correspondences: correspondences, tx: tx}
}

// Execute 执行创建
func (uc *CreateCorrespondenceUseCase) Execute(ctx context.Context, login string, targetID uint) (*CorrespondenceInfo, error) {
	var info CorrespondenceInfo
	err := uc.tx.Transaction(ctx, func(ctx context.Context) error {
		caller, err := uc.users.FindByLogin(ctx, login)
		if err != nil {
			return err
		}
		target, err := uc.users.FindByID(ctx, targetID)
		if err != nil {
			return err
		}
		if !target.IsActive() {
			return chat.ErrChatNotAllowed
		}

		key := chat.CorrespondenceKey{FirstUserID: caller.ID, SecondUserID: target.ID}
		for _, k := range []chat.CorrespondenceKey{key, key.Reversed()} {
			exists, err := uc.correspondences.Exists(ctx, k)
			if err != nil {
				return err
			}
			if exists {
				return chat.ErrChatAlreadyCreated
			}
		}

		c := &chat.Correspondence{Key: key, CreatedAt: time.Now()}
		if err := uc.correspondences.Create(ctx, c); err != nil {
			return err
		}

		info = CorrespondenceInfo{
			FirstUserID:  c.Key.FirstUserID,
			SecondUserID: c.Key.SecondUserID,
			CreatedAt:    c.CreatedAt,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &info, nil
}

// DeleteCorrespondenceUseCase 删除与指定用户的会话（含消息）
type DeleteCorrespondenceUseCase struct {
	users           user.Repository
	correspondences chat.CorrespondenceRepository
	tx              application.TxManager
}

// NewDeleteCorrespondenceUseCase 创建用例
func NewDeleteCorrespondenceUseCase(
	users user.Repository,
	correspondences chat.CorrespondenceRepository,
	tx application.TxManager,
) *DeleteCorrespondenceUseCase {
	return &DeleteCorrespondenceUseCase{users: users, correspondences: correspondences, tx: tx}
}

// Execute 会话不存在返回ErrChatNotFound
func (uc *DeleteCorrespondenceUseCase) Execute(ctx context.Context, login string, targetID uint) error {
	return uc.tx.Transaction(ctx, func(ctx context.Context) error {
		caller, err := uc.users.FindByLogin(ctx, login)
		if err != nil {
			return err
		}

		key := chat.CorrespondenceKey{FirstUserID: caller.ID, SecondUserID: targetID}
		for _, k := range []chat.CorrespondenceKey{key, key.Reversed()} {
			deleted, err := uc.correspondences.Delete(ctx, k)
			if err != nil {
				return err
			}
			if deleted {
				return nil
			}
		}
		return chat.ErrChatNotFound
	})
}
