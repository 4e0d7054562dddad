// Package scheduler 定时任务调度（cron表达式带秒字段）
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/xiebiao/bookcrossing/pkg/logger"
)

// Task 定时执行的任务，返回的error只记录日志
type Task func(ctx context.Context) error

// Scheduler 基于robfig/cron的调度器
// 每个任务都包了Recover和SkipIfStillRunning：panic不会导致进程退出，
// 上一次还没执行完时跳过本次触发
type Scheduler struct {
	cron   *cron.Cron
	logger *zap.Logger
	ctx    context.Context
	cancel context.CancelFunc
}

// New 创建调度器
func New(log *zap.Logger) *Scheduler {
	log = log.Named("scheduler")
	cl := cronLogger{log: log.Sugar()}

	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		logger: log,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Register 注册任务
func (s *Scheduler) Register(name, spec string, task Task) error {
	taskLogger := s.logger.With(zap.String("task", name))

	_, err := s.cron.AddFunc(spec, func() {
		start := time.Now()
		ctx := logger.NewContext(s.ctx, taskLogger)

		if err := task(ctx); err != nil {
			taskLogger.Error("定时任务执行失败", zap.Error(err), zap.Duration("elapsed", time.Since(start)))
			return
		}
		taskLogger.Debug("定时任务执行完成", zap.Duration("elapsed", time.Since(start)))
	})
	if err != nil {
		return fmt.Errorf("注册定时任务%s失败: %w", name, err)
	}

	s.logger.Info("定时任务已注册", zap.String("task", name), zap.String("spec", spec))
	return nil
}

// Start 启动调度（非阻塞）
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("调度器已启动", zap.Int("tasks", len(s.cron.Entries())))
}

// Stop 停止调度并等待正在执行的任务结束，ctx到期后取消任务context
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		s.cancel()
		s.logger.Info("调度器已停止")
		return nil
	case <-ctx.Done():
		s.cancel()
		return fmt.Errorf("等待定时任务结束超时: %w", ctx.Err())
	}
}

// cronLogger cron.Logger适配zap
// cron的Info日志（每次唤醒、触发）量大，降为Debug
type cronLogger struct {
	log *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Errorw(msg, append(keysAndValues, "error", err)...)
}
