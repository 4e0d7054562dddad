package mysql

import (
	"context"

	"gorm.io/gorm"

	"github.com/xiebiao/bookcrossing/internal/domain/chat"
	apperrors "github.com/xiebiao/bookcrossing/pkg/errors"
)

// messageRepository 消息仓储实现(MySQL)
type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository 创建消息仓储
func NewMessageRepository(db *gorm.DB) chat.MessageRepository {
	return &messageRepository{db: db}
}

// FindAll 按ID升序查询全部消息
func (r *messageRepository) FindAll(ctx context.Context) ([]*chat.Message, error) {
	var models []MessageModel
	if err := getDB(ctx, r.db).Order("id ASC").Find(&models).Error; err != nil {
		return nil, apperrors.Wrap(err, "查询消息失败")
	}

	messages := make([]*chat.Message, 0, len(models))
	for i := range models {
		messages = append(messages, toMessageEntity(&models[i]))
	}
	return messages, nil
}

// Save 新建或更新消息
func (r *messageRepository) Save(ctx context.Context, m *chat.Message) error {
	model := toMessageModel(m)

	var err error
	if model.ID == 0 {
		err = getDB(ctx, r.db).Create(model).Error
	} else {
		err = getDB(ctx, r.db).Save(model).Error
	}
	if err != nil {
		return apperrors.Wrap(err, "保存消息失败")
	}

	m.ID = model.ID
	return nil
}

// correspondenceRepository 会话仓储实现(MySQL)
type correspondenceRepository struct {
	db *gorm.DB
}

// NewCorrespondenceRepository 创建会话仓储
func NewCorrespondenceRepository(db *gorm.DB) chat.CorrespondenceRepository {
	return &correspondenceRepository{db: db}
}

// Exists 按有序主键判断会话是否存在
func (r *correspondenceRepository) Exists(ctx context.Context, key chat.CorrespondenceKey) (bool, error) {
	var count int64
	err := getDB(ctx, r.db).Model(&CorrespondenceModel{}).
		Where("first_user_id = ? AND second_user_id = ?", key.FirstUserID, key.SecondUserID).
		Count(&count).Error
	if err != nil {
		return false, apperrors.Wrap(err, "查询会话失败")
	}
	return count > 0, nil
}

// Create 创建会话
// 并发创建同一会话时由复合主键保证只有一条成功
func (r *correspondenceRepository) Create(ctx context.Context, c *chat.Correspondence) error {
	model := &CorrespondenceModel{
		FirstUserID:  c.Key.FirstUserID,
		SecondUserID: c.Key.SecondUserID,
		CreatedAt:    c.CreatedAt,
	}

	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return chat.ErrChatAlreadyCreated
		}
		return apperrors.Wrap(err, "创建会话失败")
	}

	c.CreatedAt = model.CreatedAt
	return nil
}

// Delete 删除会话及其消息
func (r *correspondenceRepository) Delete(ctx context.Context, key chat.CorrespondenceKey) (bool, error) {
	db := getDB(ctx, r.db)

	result := db.Where("first_user_id = ? AND second_user_id = ?", key.FirstUserID, key.SecondUserID).
		Delete(&CorrespondenceModel{})
	if result.Error != nil {
		return false, apperrors.Wrap(result.Error, "删除会话失败")
	}
	if result.RowsAffected == 0 {
		return false, nil
	}

	err := db.Where("first_user_id = ? AND second_user_id = ?", key.FirstUserID, key.SecondUserID).
		Delete(&MessageModel{}).Error
	if err != nil {
		return false, apperrors.Wrap(err, "删除会话消息失败")
	}
	return true, nil
}

// =========================================
// 模型转换
// =========================================

func toMessageModel(m *chat.Message) *MessageModel {
	return &MessageModel{
		ID:            m.ID,
		FirstUserID:   m.Key.FirstUserID,
		SecondUserID:  m.Key.SecondUserID,
		SenderID:      m.SenderID,
		Text:          m.Text,
		Declaimed:     m.Declaimed,
		AlertSent:     m.AlertSent,
		DepartureDate: m.DepartureDate,
	}
}

func toMessageEntity(model *MessageModel) *chat.Message {
	return &chat.Message{
		ID: model.ID,
		Key: chat.CorrespondenceKey{
			FirstUserID:  model.FirstUserID,
			SecondUserID: model.SecondUserID,
		},
		SenderID:      model.SenderID,
		Text:          model.Text,
		Declaimed:     model.Declaimed,
		AlertSent:     model.AlertSent,
		DepartureDate: model.DepartureDate,
	}
}
