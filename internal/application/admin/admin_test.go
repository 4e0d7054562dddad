package admin

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/bookcrossing/internal/domain/user"
)

type noTx struct{}

func (noTx) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type memUsers struct {
	user.Repository
	list []*user.User
}

func (m *memUsers) List(_ context.Context, offset, limit int) ([]*user.User, int64, error) {
	total := int64(len(m.list))
	if offset >= len(m.list) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(m.list) {
		end = len(m.list)
	}
	return m.list[offset:end], total, nil
}

type stubService struct {
	user.Service
	byLogin map[string]*user.User
}

func (s *stubService) Lock(_ context.Context, login string) (*user.User, error) {
	u, ok := s.byLogin[login]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	u.Lock()
	return u, nil
}

func (s *stubService) Unlock(_ context.Context, login string) (*user.User, error) {
	u, ok := s.byLogin[login]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	u.Unlock()
	return u, nil
}

type fakeRevoker struct {
	deleted []uint
}

func (f *fakeRevoker) DeleteSession(_ context.Context, userID uint) error {
	f.deleted = append(f.deleted, userID)
	return nil
}

func newUser(id uint, login string) *user.User {
	u := user.NewUser(login, login, login+"@example.com", "hash", "")
	u.ID = id
	u.Enable()
	return u
}

func TestListUsers(t *testing.T) {
	repo := &memUsers{list: []*user.User{newUser(1, "a"), newUser(2, "b"), newUser(3, "c")}}
	uc := NewListUsersUseCase(repo)

	page, err := uc.Execute(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)
	require.Len(t, page.List, 1)
	assert.Equal(t, "c", page.List[0].Login)

	page, err = uc.Execute(context.Background(), -1, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, page.PageNumber)
	assert.Equal(t, 20, page.PageSize)
	assert.Len(t, page.List, 3)
}

func TestLockAndUnlock(t *testing.T) {
	reader := newUser(7, "reader")
	svc := &stubService{byLogin: map[string]*user.User{"reader": reader}}
	revoker := &fakeRevoker{}
	ctx := context.Background()

	item, err := NewLockUserUseCase(svc, revoker, noTx{}).Execute(ctx, "reader")
	require.NoError(t, err)
	assert.False(t, item.AccountNonLocked)
	assert.Equal(t, []uint{7}, revoker.deleted)

	item, err = NewUnlockUserUseCase(svc, noTx{}).Execute(ctx, "reader")
	require.NoError(t, err)
	assert.True(t, item.AccountNonLocked)

	_, err = NewLockUserUseCase(svc, revoker, noTx{}).Execute(ctx, "ghost")
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}
