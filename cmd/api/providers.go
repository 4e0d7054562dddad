package main

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/xiebiao/bookcrossing/internal/application/alert"
	appuser "github.com/xiebiao/bookcrossing/internal/application/user"
	"github.com/xiebiao/bookcrossing/internal/infrastructure/config"
	"github.com/xiebiao/bookcrossing/internal/infrastructure/mail"
	"github.com/xiebiao/bookcrossing/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/bookcrossing/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/bookcrossing/internal/infrastructure/scheduler"
	"github.com/xiebiao/bookcrossing/pkg/circuitbreaker"
	"github.com/xiebiao/bookcrossing/pkg/jwt"
	"github.com/xiebiao/bookcrossing/pkg/mq"
)

// App 应用实例：HTTP引擎与定时任务调度器
type App struct {
	Engine    *gin.Engine
	Scheduler *scheduler.Scheduler
}

// mailer 同时负责未读提醒与注册激活邮件
type mailer interface {
	alert.Mailer
	appuser.ConfirmationMailer
}

// provideDB 创建MySQL连接，cleanup时关闭连接池
func provideDB(cfg *config.Config, log *zap.Logger) (*gorm.DB, func(), error) {
	db, err := mysql.NewDB(cfg, log)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	return db, cleanup, nil
}

// provideRedis 创建Redis连接，cleanup时关闭
func provideRedis(cfg *config.Config, log *zap.Logger) (*goredis.Client, func(), error) {
	client, err := redis.NewClient(cfg, log)
	if err != nil {
		return nil, nil, err
	}
	return client, func() { _ = client.Close() }, nil
}

// provideJWTManager 从配置创建JWT管理器
func provideJWTManager(cfg *config.Config) *jwt.Manager {
	return jwt.NewManager(
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpire,
		cfg.JWT.RefreshTokenExpire,
	)
}

// provideMailer 启用MQ时经熔断器向RabbitMQ投递邮件事件，否则只写日志
func provideMailer(cfg *config.Config, log *zap.Logger) (mailer, func(), error) {
	if !cfg.MQ.Enabled {
		return mail.NewLogMailer(log), func() {}, nil
	}

	publisher, err := mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange, cfg.MQ.ExchangeType, log)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if err := publisher.Close(); err != nil {
			log.Warn("关闭MQ连接失败", zap.Error(err))
		}
	}

	cb := circuitbreaker.New("mail-publisher", circuitbreaker.Config{
		Interval: time.Minute,
		Timeout:  30 * time.Second,
	})
	cb.OnStateChange(func(name string, from, to circuitbreaker.State) {
		log.Warn("熔断器状态变化", zap.String("breaker", name), zap.Stringer("from", from), zap.Stringer("to", to))
	})
	return mail.NewAMQPMailer(mail.WithBreaker(publisher, cb), log), cleanup, nil
}

func provideAlertMailer(m mailer) alert.Mailer {
	return m
}

func provideConfirmationMailer(m mailer) appuser.ConfirmationMailer {
	return m
}

// provideJobLock 提醒任务的分布式锁
func provideJobLock(cfg *config.Config, client *goredis.Client) *redis.JobLock {
	return redis.NewJobLock(client, cfg.Alert.LockKey, cfg.Alert.LockTTL)
}

// provideScheduler 创建调度器并按配置注册未读消息提醒任务
func provideScheduler(cfg *config.Config, log *zap.Logger, job *alert.Job) (*scheduler.Scheduler, error) {
	s := scheduler.New(log)
	if !cfg.Alert.Enabled {
		log.Info("未读消息提醒任务已关闭")
		return s, nil
	}

	err := s.Register("message-alerts", cfg.Alert.Cron, func(ctx context.Context) error {
		_, err := job.Run(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}
