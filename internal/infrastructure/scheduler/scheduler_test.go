package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestRegister_InvalidSpec(t *testing.T) {
	s := New(zap.NewNop())
	err := s.Register("bad", "every half hour", func(context.Context) error { return nil })
	assert.Error(t, err)
}

func TestScheduler_RunsTaskAndLogsErrors(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	s := New(zap.New(core))

	var runs atomic.Int32
	require.NoError(t, s.Register("tick", "* * * * * *", func(ctx context.Context) error {
		runs.Add(1)
		return errors.New("mail service down")
	}))

	s.Start()
	assert.Eventually(t, func() bool { return runs.Load() > 0 }, 3*time.Second, 50*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Stop(ctx))

	assert.NotZero(t, logs.FilterMessage("定时任务执行失败").Len())
}

func TestScheduler_RecoversFromPanic(t *testing.T) {
	s := New(zap.NewNop())

	var runs atomic.Int32
	require.NoError(t, s.Register("panicky", "* * * * * *", func(ctx context.Context) error {
		runs.Add(1)
		panic("boom")
	}))

	s.Start()
	assert.Eventually(t, func() bool { return runs.Load() >= 2 }, 4*time.Second, 50*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Stop(ctx))
}

func TestScheduler_TaskContextCarriesLogger(t *testing.T) {
	s := New(zap.NewNop())

	got := make(chan bool, 1)
	require.NoError(t, s.Register("ctx", "* * * * * *", func(ctx context.Context) error {
		select {
		case got <- ctx.Err() == nil:
		default:
		}
		return nil
	}))

	s.Start()
	select {
	case ok := <-got:
		assert.True(t, ok)
	case <-time.After(3 * time.Second):
		t.Fatal("任务未执行")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Stop(ctx))
}
