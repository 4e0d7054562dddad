// Package alert 未读消息提醒任务
//
// 定时扫描全部消息，选出未撤回、未提醒且双方账号都可用的消息，
// 按收件人汇总未读数，每个收件人发送一封提醒，最后把选中的消息标记为已提醒。
package alert

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/xiebiao/bookcrossing/internal/application"
	"github.com/xiebiao/bookcrossing/internal/domain/chat"
	"github.com/xiebiao/bookcrossing/internal/domain/user"
	apperrors "github.com/xiebiao/bookcrossing/pkg/errors"
	"github.com/xiebiao/bookcrossing/pkg/metrics"
	"github.com/xiebiao/bookcrossing/pkg/tracing"
)

const tracerName = "bookcrossing/application/alert"

// Mailer 提醒邮件发送
// 返回error时本次任务失败，消息不会被标记，下次执行会重新提醒
type Mailer interface {
	SendAlert(ctx context.Context, recipient *user.User, unreadCount int) error
}

// Locker 多实例互斥
type Locker interface {
	TryAcquire(ctx context.Context) (token string, ok bool, err error)
	Release(ctx context.Context, token string) error
}

// RunResult 单次执行结果
type RunResult struct {
	Inspected int  // 扫描的消息数
	Selected  int  // 选中并标记的消息数
	Notified  int  // 发送提醒的收件人数
	Skipped   bool // 锁被其他实例持有，本次未执行
}

// Job 未读消息提醒任务
type Job struct {
	messages chat.MessageRepository
	users    user.Repository
	mailer   Mailer
	locker   Locker
	tx       application.TxManager
	logger   *zap.Logger
}

// NewJob 创建提醒任务，locker为nil时不做跨实例互斥
func NewJob(
	messages chat.MessageRepository,
	users user.Repository,
	mailer Mailer,
	locker Locker,
	tx application.TxManager,
	logger *zap.Logger,
) *Job {
	metrics.InitMetrics()
	return &Job{
		messages: messages,
		users:    users,
		mailer:   mailer,
		locker:   locker,
		tx:       tx,
		logger:   logger.Named("alert"),
	}
}

// Run 执行一次
// 全部读写在一个事务内；发送失败时回滚，本次选中的消息保持未提醒
func (j *Job) Run(ctx context.Context) (*RunResult, error) {
	start := time.Now()
	ctx, span := tracing.StartSpan(ctx, tracerName, "MessageAlertJob")
	defer span.End()

	if j.locker != nil {
		token, ok, err := j.locker.TryAcquire(ctx)
		if err != nil {
			j.finish(span, start, "failure", err)
			return nil, err
		}
		if !ok {
			j.logger.Info("提醒任务正在其他实例执行，跳过本次")
			metrics.IncCounter(metrics.AlertRunsSkipped)
			j.finish(span, start, "skipped", nil)
			return &RunResult{Skipped: true}, nil
		}
		defer func() {
			if err := j.locker.Release(context.WithoutCancel(ctx), token); err != nil {
				j.logger.Warn("释放任务锁失败", zap.Error(err))
			}
		}()
	}

	result := &RunResult{}
	err := j.tx.Transaction(ctx, func(ctx context.Context) error {
		return j.process(ctx, result)
	})
	if err != nil {
		j.finish(span, start, "failure", err)
		return nil, err
	}

	metrics.AddCounter(metrics.AlertsDispatched, float64(result.Notified))
	metrics.AddCounter(metrics.AlertMessagesMarked, float64(result.Selected))
	span.SetAttributes(
		attribute.Int("alert.inspected", result.Inspected),
		attribute.Int("alert.selected", result.Selected),
		attribute.Int("alert.notified", result.Notified),
	)
	j.finish(span, start, "success", nil)

	j.logger.Info("提醒任务完成",
		zap.Int("inspected", result.Inspected),
		zap.Int("selected", result.Selected),
		zap.Int("notified", result.Notified),
		zap.Duration("elapsed", time.Since(start)),
	)
	return result, nil
}

func (j *Job) process(ctx context.Context, result *RunResult) error {
	messages, err := j.messages.FindAll(ctx)
	if err != nil {
		return err
	}
	result.Inspected = len(messages)

	participants, err := j.loadParticipants(ctx, messages)
	if err != nil {
		return err
	}

	selected := make([]*chat.Message, 0)
	for _, m := range messages {
		j.logger.Debug("检查消息",
			zap.Uint("message_id", m.ID),
			zap.Bool("declaimed", m.Declaimed),
			zap.Bool("alert_sent", m.AlertSent),
		)
		if m.Unread() && activePair(participants, m.Key) {
			selected = append(selected, m)
		}
	}
	if len(selected) == 0 {
		return nil
	}

	// 收件人按首次出现顺序发送
	var order []uint
	counts := make(map[uint]int)
	for _, m := range selected {
		recipient, ok := m.Recipient()
		if !ok {
			j.logger.Debug("自己和自己的会话，不计入提醒", zap.Uint("message_id", m.ID))
			continue
		}
		if _, seen := counts[recipient]; !seen {
			order = append(order, recipient)
		}
		counts[recipient]++
	}

	for _, id := range order {
		j.logger.Info("发送未读提醒", zap.Uint("user_id", id), zap.Int("unread_count", counts[id]))
		if err := j.mailer.SendAlert(ctx, participants[id], counts[id]); err != nil {
			j.logger.Error("发送未读提醒失败",
				zap.Uint("user_id", id),
				zap.Int("unread_count", counts[id]),
				zap.Error(err),
			)
			return apperrors.WrapCode(err, apperrors.ErrCodeMQError, "发送未读提醒失败")
		}
		result.Notified++
	}

	for _, m := range selected {
		m.MarkAlertSent()
		if err := j.messages.Save(ctx, m); err != nil {
			return err
		}
	}
	result.Selected = len(selected)
	return nil
}

// loadParticipants 一次查询未读消息涉及的全部用户
func (j *Job) loadParticipants(ctx context.Context, messages []*chat.Message) (map[uint]*user.User, error) {
	seen := make(map[uint]struct{})
	var ids []uint
	for _, m := range messages {
		if !m.Unread() {
			continue
		}
		for _, id := range m.Key.Participants() {
			if _, ok := seen[id]; !ok {
				seen[id] = struct{}{}
				ids = append(ids, id)
			}
		}
	}

	users, err := j.users.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	index := make(map[uint]*user.User, len(users))
	for _, u := range users {
		index[u.ID] = u
	}
	return index, nil
}

func activePair(users map[uint]*user.User, key chat.CorrespondenceKey) bool {
	for _, id := range key.Participants() {
		u, ok := users[id]
		if !ok || !u.IsActive() {
			return false
		}
	}
	return true
}

// finish 记录耗时、结果指标与span状态
func (j *Job) finish(span trace.Span, start time.Time, outcome string, err error) {
	metrics.ObserveHistogram(metrics.AlertRunDuration, time.Since(start).Seconds())
	metrics.IncCounterVec(metrics.AlertRunsTotal, map[string]string{"result": outcome})
	span.SetAttributes(attribute.String("alert.result", outcome))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}
