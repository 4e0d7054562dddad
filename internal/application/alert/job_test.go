package alert

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/xiebiao/bookcrossing/internal/domain/chat"
	"github.com/xiebiao/bookcrossing/internal/domain/user"
)

type noTx struct{}

func (noTx) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type memMessages struct {
	messages []*chat.Message
	saved    []uint
}

func (m *memMessages) FindAll(context.Context) ([]*chat.Message, error) {
	return m.messages, nil
}

func (m *memMessages) Save(_ context.Context, msg *chat.Message) error {
	m.saved = append(m.saved, msg.ID)
	return nil
}

type memUsers struct {
	user.Repository
	byID map[uint]*user.User
}

func (m *memUsers) FindByIDs(_ context.Context, ids []uint) ([]*user.User, error) {
	var out []*user.User
	for _, id := range ids {
		if u, ok := m.byID[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

type alertCall struct {
	userID uint
	count  int
}

type fakeMailer struct {
	calls []alertCall
	err   error
}

func (f *fakeMailer) SendAlert(_ context.Context, recipient *user.User, unreadCount int) error {
	if f.err != nil {
		return f.err
	}
	f.calls = append(f.calls, alertCall{userID: recipient.ID, count: unreadCount})
	return nil
}

type fakeLocker struct {
	held     bool
	released []string
}

func (f *fakeLocker) TryAcquire(context.Context) (string, bool, error) {
	if f.held {
		return "", false, nil
	}
	return "token-1", true, nil
}

func (f *fakeLocker) Release(_ context.Context, token string) error {
	f.released = append(f.released, token)
	return nil
}

func active(id uint) *user.User {
	return &user.User{ID: id, Login: "u", Email: "u@example.com", Enabled: true, AccountNonLocked: true}
}

func users(list ...*user.User) *memUsers {
	m := &memUsers{byID: map[uint]*user.User{}}
	for _, u := range list {
		m.byID[u.ID] = u
	}
	return m
}

func key(a, b uint) chat.CorrespondenceKey {
	return chat.CorrespondenceKey{FirstUserID: a, SecondUserID: b}
}

func newJob(messages *memMessages, u *memUsers, mailer Mailer, locker Locker) *Job {
	return NewJob(messages, u, mailer, locker, noTx{}, zap.NewNop())
}

func TestRun_OnlyEligibleMessagesAlerted(t *testing.T) {
	locked := active(4)
	locked.Lock()

	a := &chat.Message{ID: 1, Key: key(1, 2), SenderID: 1}
	b := &chat.Message{ID: 2, Key: key(1, 2), SenderID: 1, Declaimed: true}
	c := &chat.Message{ID: 3, Key: key(1, 2), SenderID: 2, AlertSent: true}
	d := &chat.Message{ID: 4, Key: key(3, 4), SenderID: 3}

	messages := &memMessages{messages: []*chat.Message{a, b, c, d}}
	mailer := &fakeMailer{}
	job := newJob(messages, users(active(1), active(2), active(3), locked), mailer, nil)

	result, err := job.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []alertCall{{userID: 2, count: 1}}, mailer.calls)
	assert.Equal(t, []uint{1}, messages.saved)
	assert.True(t, a.AlertSent)
	assert.False(t, b.AlertSent)
	assert.True(t, c.AlertSent)
	assert.False(t, d.AlertSent)
	assert.Equal(t, &RunResult{Inspected: 4, Selected: 1, Notified: 1}, result)
}

func TestRun_CountsAggregatedPerRecipient(t *testing.T) {
	messages := &memMessages{messages: []*chat.Message{
		{ID: 1, Key: key(1, 2), SenderID: 2},
		{ID: 2, Key: key(1, 2), SenderID: 2},
		{ID: 3, Key: key(3, 1), SenderID: 1},
	}}
	mailer := &fakeMailer{}
	job := newJob(messages, users(active(1), active(2), active(3)), mailer, nil)

	result, err := job.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []alertCall{{userID: 1, count: 2}, {userID: 3, count: 1}}, mailer.calls)
	assert.Equal(t, 3, result.Selected)
	assert.Equal(t, 2, result.Notified)
}

func TestRun_EmptySelection(t *testing.T) {
	messages := &memMessages{messages: []*chat.Message{
		{ID: 1, Key: key(1, 2), SenderID: 1, AlertSent: true},
	}}
	mailer := &fakeMailer{}
	job := newJob(messages, users(active(1), active(2)), mailer, nil)

	result, err := job.Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, mailer.calls)
	assert.Empty(t, messages.saved)
	assert.Equal(t, 0, result.Selected)
}

// 自己和自己的会话：不发送提醒，但消息仍被标记为已提醒
func TestRun_SelfCorrespondenceMarkedWithoutAlert(t *testing.T) {
	self := &chat.Message{ID: 1, Key: key(5, 5), SenderID: 5}
	messages := &memMessages{messages: []*chat.Message{self}}
	mailer := &fakeMailer{}
	job := newJob(messages, users(active(5)), mailer, nil)

	result, err := job.Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, mailer.calls)
	assert.True(t, self.AlertSent)
	assert.Equal(t, []uint{1}, messages.saved)
	assert.Equal(t, 0, result.Notified)
}

func TestRun_MailerFailureLeavesMessagesUnmarked(t *testing.T) {
	m := &chat.Message{ID: 1, Key: key(1, 2), SenderID: 1}
	messages := &memMessages{messages: []*chat.Message{m}}
	boom := errors.New("broker unavailable")
	job := newJob(messages, users(active(1), active(2)), &fakeMailer{err: boom}, nil)

	_, err := job.Run(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.False(t, m.AlertSent)
	assert.Empty(t, messages.saved)
}

func TestRun_SkippedWhenLockHeld(t *testing.T) {
	messages := &memMessages{messages: []*chat.Message{{ID: 1, Key: key(1, 2), SenderID: 1}}}
	mailer := &fakeMailer{}
	locker := &fakeLocker{held: true}
	job := newJob(messages, users(active(1), active(2)), mailer, locker)

	result, err := job.Run(context.Background())
	require.NoError(t, err)
	assert.True(t, result.Skipped)
	assert.Empty(t, mailer.calls)
	assert.Empty(t, locker.released)
}

func TestRun_ReleasesLock(t *testing.T) {
	messages := &memMessages{messages: []*chat.Message{{ID: 1, Key: key(1, 2), SenderID: 1}}}
	locker := &fakeLocker{}
	job := newJob(messages, users(active(1), active(2)), &fakeMailer{}, locker)

	_, err := job.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"token-1"}, locker.released)
}

func TestRun_LogsInspectedMessagesAndDispatches(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)

	a := &chat.Message{ID: 1, Key: key(1, 2), SenderID: 1}
	b := &chat.Message{ID: 2, Key: key(1, 2), SenderID: 1, Declaimed: true}
	messages := &memMessages{messages: []*chat.Message{a, b}}
	job := NewJob(messages, users(active(1), active(2)), &fakeMailer{}, nil, noTx{}, zap.New(core))

	_, err := job.Run(context.Background())
	require.NoError(t, err)

	inspected := logs.FilterMessage("检查消息").AllUntimed()
	require.Len(t, inspected, 2)
	assert.Equal(t, zapcore.DebugLevel, inspected[0].Level)
	first := inspected[0].ContextMap()
	assert.Equal(t, uint64(1), first["message_id"])
	assert.Equal(t, false, first["declaimed"])
	assert.Equal(t, false, first["alert_sent"])
	assert.Equal(t, true, inspected[1].ContextMap()["declaimed"])

	dispatched := logs.FilterMessage("发送未读提醒").AllUntimed()
	require.Len(t, dispatched, 1)
	assert.Equal(t, zapcore.InfoLevel, dispatched[0].Level)
	assert.Equal(t, uint64(2), dispatched[0].ContextMap()["user_id"])
	assert.Equal(t, int64(1), dispatched[0].ContextMap()["unread_count"])
}
