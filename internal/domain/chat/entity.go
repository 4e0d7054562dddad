package chat

import (
	"time"
)

// CorrespondenceKey 会话主键:有序的两个用户ID
type CorrespondenceKey struct {
	FirstUserID  uint
	SecondUserID uint
}

// Participants 会话双方ID
func (k CorrespondenceKey) Participants() []uint {
	return []uint{k.FirstUserID, k.SecondUserID}
}

// Reversed 交换双方顺序
func (k CorrespondenceKey) Reversed() CorrespondenceKey {
	return CorrespondenceKey{FirstUserID: k.SecondUserID, SecondUserID: k.FirstUserID}
}

// Correspondence 两个用户之间的会话
type Correspondence struct {
	Key       CorrespondenceKey
	CreatedAt time.Time
}

// Message 会话中的一条消息
type Message struct {
	ID            uint
	Key           CorrespondenceKey
	SenderID      uint
	Text          string
	Declaimed     bool  // 发送者已撤回
	AlertSent     bool  // 已发送未读提醒
	DepartureDate int64 // 发送时间(unix秒)
}

// Recipient 消息的收件人
// 发送者不是第一位参与者时收件人为第一位参与者,否则为第二位;
// 发送者同时等于双方(自己和自己的会话)时没有收件人
func (m *Message) Recipient() (uint, bool) {
	if m.SenderID != m.Key.FirstUserID {
		return m.Key.FirstUserID, true
	}
	if m.SenderID != m.Key.SecondUserID {
		return m.Key.SecondUserID, true
	}
	return 0, false
}

// Unread 未撤回且未提醒
func (m *Message) Unread() bool {
	return !m.Declaimed && !m.AlertSent
}

// MarkAlertSent 标记已提醒
func (m *Message) MarkAlertSent() {
	m.AlertSent = true
}
