// Package mail 邮件通知
//
// 本服务不直接发送邮件：AMQPMailer把邮件事件发布到RabbitMQ，
// 由订阅对应路由键的邮件服务渲染模板并投递。未启用MQ时使用LogMailer只记录日志。
package mail

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/bookcrossing/internal/domain/user"
	"github.com/xiebiao/bookcrossing/pkg/circuitbreaker"
	apperrors "github.com/xiebiao/bookcrossing/pkg/errors"
)

// 路由键
const (
	RoutingKeyUnreadAlert  = "mail.alert.unread"
	RoutingKeyConfirmation = "mail.user.confirm"
)

// AlertEvent 未读消息提醒
type AlertEvent struct {
	UserID      uint   `json:"user_id"`
	Login       string `json:"login"`
	Email       string `json:"email"`
	Name        string `json:"name"`
	UnreadCount int    `json:"unread_count"`
	CreatedAt   int64  `json:"created_at"`
}

// ConfirmationEvent 注册激活邮件
type ConfirmationEvent struct {
	UserID    uint   `json:"user_id"`
	Login     string `json:"login"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Token     string `json:"token"`
	CreatedAt int64  `json:"created_at"`
}

// Publisher 消息发布（pkg/mq.Publisher）
type Publisher interface {
	Publish(ctx context.Context, routingKey string, message interface{}) error
}

// breakerPublisher 经熔断器发布，Broker不可用时快速失败
type breakerPublisher struct {
	next Publisher
	cb   *circuitbreaker.CircuitBreaker
}

// WithBreaker 为Publisher加上熔断保护
func WithBreaker(next Publisher, cb *circuitbreaker.CircuitBreaker) Publisher {
	return &breakerPublisher{next: next, cb: cb}
}

func (p *breakerPublisher) Publish(ctx context.Context, routingKey string, message interface{}) error {
	return p.cb.Execute(ctx, func(ctx context.Context) error {
		return p.next.Publish(ctx, routingKey, message)
	})
}

// AMQPMailer 通过消息队列发送邮件
type AMQPMailer struct {
	publisher Publisher
	logger    *zap.Logger
	now       func() time.Time
}

// NewAMQPMailer 创建AMQPMailer
func NewAMQPMailer(publisher Publisher, log *zap.Logger) *AMQPMailer {
	return &AMQPMailer{publisher: publisher, logger: log.Named("mail"), now: time.Now}
}

// SendAlert 同步发布，发布失败返回error
func (m *AMQPMailer) SendAlert(ctx context.Context, recipient *user.User, unreadCount int) error {
	event := AlertEvent{
		UserID:      recipient.ID,
		Login:       recipient.Login,
		Email:       recipient.Email,
		Name:        recipient.Name,
		UnreadCount: unreadCount,
		CreatedAt:   m.now().Unix(),
	}
	if err := m.publisher.Publish(ctx, RoutingKeyUnreadAlert, event); err != nil {
		return apperrors.WrapCode(err, apperrors.ErrCodeMQError, "发布未读提醒失败")
	}

	m.logger.Debug("未读提醒已发布", zap.Uint("user_id", recipient.ID), zap.Int("unread_count", unreadCount))
	return nil
}

// SendConfirmation 发布注册激活邮件
func (m *AMQPMailer) SendConfirmation(ctx context.Context, recipient *user.User, token string) error {
	event := ConfirmationEvent{
		UserID:    recipient.ID,
		Login:     recipient.Login,
		Email:     recipient.Email,
		Name:      recipient.Name,
		Token:     token,
		CreatedAt: m.now().Unix(),
	}
	if err := m.publisher.Publish(ctx, RoutingKeyConfirmation, event); err != nil {
		return apperrors.WrapCode(err, apperrors.ErrCodeMQError, "发布激活邮件失败")
	}
	return nil
}

// LogMailer 只记录日志（开发环境、未启用MQ）
type LogMailer struct {
	logger *zap.Logger
}

// NewLogMailer 创建LogMailer
func NewLogMailer(log *zap.Logger) *LogMailer {
	return &LogMailer{logger: log.Named("mail")}
}

func (m *LogMailer) SendAlert(_ context.Context, recipient *user.User, unreadCount int) error {
	m.logger.Info("未读消息提醒",
		zap.Uint("user_id", recipient.ID),
		zap.String("email", recipient.Email),
		zap.Int("unread_count", unreadCount),
	)
	return nil
}

func (m *LogMailer) SendConfirmation(_ context.Context, recipient *user.User, token string) error {
	m.logger.Info("注册激活邮件",
		zap.Uint("user_id", recipient.ID),
		zap.String("email", recipient.Email),
		zap.String("token", token),
	)
	return nil
}
