package mail

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/xiebiao/bookcrossing/internal/domain/user"
	"github.com/xiebiao/bookcrossing/pkg/circuitbreaker"
	apperrors "github.com/xiebiao/bookcrossing/pkg/errors"
)

type published struct {
	routingKey string
	message    interface{}
}

type fakePublisher struct {
	sent []published
	err  error
}

func (p *fakePublisher) Publish(_ context.Context, routingKey string, message interface{}) error {
	if p.err != nil {
		return p.err
	}
	p.sent = append(p.sent, published{routingKey: routingKey, message: message})
	return nil
}

var reader = &user.User{ID: 7, Login: "reader", Email: "reader@example.com", Name: "Reader"}

func TestAMQPMailer_SendAlert(t *testing.T) {
	pub := &fakePublisher{}
	m := NewAMQPMailer(pub, zap.NewNop())
	m.now = func() time.Time { return time.Unix(1700000000, 0) }

	require.NoError(t, m.SendAlert(context.Background(), reader, 3))
	require.Len(t, pub.sent, 1)
	assert.Equal(t, RoutingKeyUnreadAlert, pub.sent[0].routingKey)
	assert.Equal(t, AlertEvent{
		UserID:      7,
		Login:       "reader",
		Email:       "reader@example.com",
		Name:        "Reader",
		UnreadCount: 3,
		CreatedAt:   1700000000,
	}, pub.sent[0].message)
}

func TestAMQPMailer_PublishError(t *testing.T) {
	cause := errors.New("channel closed")
	m := NewAMQPMailer(&fakePublisher{err: cause}, zap.NewNop())

	err := m.SendAlert(context.Background(), reader, 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, apperrors.ErrCodeMQError, apperrors.GetAppError(err).Code)
}

func TestAMQPMailer_SendConfirmation(t *testing.T) {
	pub := &fakePublisher{}
	m := NewAMQPMailer(pub, zap.NewNop())

	require.NoError(t, m.SendConfirmation(context.Background(), reader, "tok"))
	require.Len(t, pub.sent, 1)
	assert.Equal(t, RoutingKeyConfirmation, pub.sent[0].routingKey)
	assert.Equal(t, "tok", pub.sent[0].message.(ConfirmationEvent).Token)
}

func TestLogMailer(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	m := NewLogMailer(zap.New(core))

	require.NoError(t, m.SendAlert(context.Background(), reader, 2))
	entries := logs.FilterMessage("未读消息提醒").All()
	require.Len(t, entries, 1)
	assert.Equal(t, int64(2), entries[0].ContextMap()["unread_count"])
}

func TestWithBreaker(t *testing.T) {
	pub := &fakePublisher{err: errors.New("connection refused")}
	cb := circuitbreaker.New("mail", circuitbreaker.Config{
		Timeout:     time.Minute,
		ReadyToTrip: func(c circuitbreaker.Counts) bool { return c.ConsecutiveFailures >= 2 },
	})
	m := NewAMQPMailer(WithBreaker(pub, cb), zap.NewNop())

	for i := 0; i < 2; i++ {
		require.Error(t, m.SendAlert(context.Background(), reader, 1))
	}
	assert.Equal(t, circuitbreaker.StateOpen, cb.State())

	// 熔断后不再访问Broker，恢复后的Publisher也收不到消息
	pub.err = nil
	err := m.SendAlert(context.Background(), reader, 1)
	assert.ErrorIs(t, err, circuitbreaker.ErrOpenState)
	assert.Equal(t, apperrors.ErrCodeMQError, apperrors.GetAppError(err).Code)
	assert.Empty(t, pub.sent)
}
