package chat

import (
	"context"
)

// MessageRepository 消息仓储
type MessageRepository interface {
	// FindAll 查询全部消息
	FindAll(ctx context.Context) ([]*Message, error)

	// Save 保存消息
	Save(ctx context.Context, message *Message) error
}

// CorrespondenceRepository 会话仓储
type CorrespondenceRepository interface {
	// Exists 按有序主键判断会话是否存在
	Exists(ctx context.Context, key CorrespondenceKey) (bool, error)

	// Create 创建会话,主键冲突返回ErrChatAlreadyCreated
	Create(ctx context.Context, c *Correspondence) error

	// Delete 删除会话及其消息，不存在时返回false
	Delete(ctx context.Context, key CorrespondenceKey) (bool, error)
}
