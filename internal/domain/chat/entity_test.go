package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMessageRecipient(t *testing.T) {
	key := CorrespondenceKey{FirstUserID: 1, SecondUserID: 2}

	cases := []struct {
		name   string
		msg    Message
		want   uint
		wantOK bool
	}{
		{"第二位参与者发送", Message{Key: key, SenderID: 2}, 1, true},
		{"第一位参与者发送", Message{Key: key, SenderID: 1}, 2, true},
		{"自己和自己的会话", Message{Key: CorrespondenceKey{FirstUserID: 3, SecondUserID: 3}, SenderID: 3}, 0, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := tc.msg.Recipient()
			assert.Equal(t, tc.wantOK, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestMessageUnread(t *testing.T) {
	assert.True(t, (&Message{}).Unread())
	assert.False(t, (&Message{Declaimed: true}).Unread())
	assert.False(t, (&Message{AlertSent: true}).Unread())

	m := &Message{}
	m.MarkAlertSent()
	assert.False(t, m.Unread())
}
