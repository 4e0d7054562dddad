package mysql

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/xiebiao/bookcrossing/internal/infrastructure/config"
)

// NewDB 创建数据库连接
// 1. 配置连接池参数（MaxOpenConns、MaxIdleConns、ConnMaxLifetime）
// 2. 开发环境开启SQL日志，生产环境关闭
// 3. 自动迁移表结构并初始化图书类型参考表
func NewDB(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	logLevel := logger.Silent
	if cfg.Server.Mode == "debug" {
		logLevel = logger.Info
	}

	db, err := gorm.Open(mysql.Open(cfg.Database.DSN()), &gorm.Config{
		Logger:  newGormLogger(log, logLevel),
		NowFunc: func() time.Time { return time.Now() },
	})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取SQL DB失败: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("数据库连接测试失败: %w", err)
	}

	log.Info("数据库连接成功",
		zap.String("host", cfg.Database.Host),
		zap.String("db", cfg.Database.DBName),
	)

	// 注意：生产环境应使用版本化的迁移脚本
	if err := autoMigrate(db); err != nil {
		return nil, fmt.Errorf("数据库迁移失败: %w", err)
	}
	if err := seedGenres(db); err != nil {
		return nil, fmt.Errorf("初始化图书类型失败: %w", err)
	}

	return db, nil
}

func autoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&UserModel{},
		&GenreModel{},
		&BookModel{},
		&AttachmentModel{},
		&CorrespondenceModel{},
		&MessageModel{},
	)
}

// defaultGenres 图书类型参考表初始数据（ID固定）
var defaultGenres = []GenreModel{
	{ID: 1, Name: "小说"},
	{ID: 2, Name: "经典文学"},
	{ID: 3, Name: "科幻"},
	{ID: 4, Name: "推理"},
	{ID: 5, Name: "历史"},
	{ID: 6, Name: "儿童读物"},
	{ID: 7, Name: "教材"},
	{ID: 8, Name: "其他"},
}

func seedGenres(db *gorm.DB) error {
	for _, g := range defaultGenres {
		genre := g
		if err := db.Where(GenreModel{ID: genre.ID}).FirstOrCreate(&genre).Error; err != nil {
			return err
		}
	}
	return nil
}

// =========================================
// GORM模型
// =========================================
// 领域实体不带GORM tag，Repository负责两者之间的转换

// UserModel 用户表
type UserModel struct {
	ID               uint      `gorm:"primaryKey"`
	Login            string    `gorm:"uniqueIndex:uk_users_login;size:50;not null;comment:登录名"`
	Name             string    `gorm:"size:100;not null;comment:姓名"`
	Email            string    `gorm:"uniqueIndex:uk_users_email;size:100;not null;comment:邮箱"`
	City             string    `gorm:"size:100;comment:城市"`
	AboutMe          string    `gorm:"size:500;comment:个人简介"`
	Password         string    `gorm:"size:255;not null;comment:密码（bcrypt加密）"`
	Role             string    `gorm:"size:20;not null;comment:角色(user/admin)"`
	Enabled          bool      `gorm:"not null;comment:邮箱已激活"`
	AccountNonLocked bool      `gorm:"not null;comment:未被锁定"`
	LoginDate        int64     `gorm:"not null;comment:最近登录时间(unix秒)"`
	CreatedAt        time.Time `gorm:"comment:创建时间"`
	UpdatedAt        time.Time `gorm:"comment:更新时间"`
}

func (UserModel) TableName() string {
	return "users"
}

// GenreModel 图书类型参考表
type GenreModel struct {
	ID   uint   `gorm:"primaryKey;autoIncrement:false"`
	Name string `gorm:"uniqueIndex;size:100;not null;comment:类型名称"`
}

func (GenreModel) TableName() string {
	return "genres"
}

// BookModel 图书表
// 书名、作者建索引，支持按书名或作者查询
type BookModel struct {
	ID                uint              `gorm:"primaryKey"`
	Title             string            `gorm:"index;size:255;not null;comment:书名"`
	Author            string            `gorm:"index;size:255;not null;comment:作者"`
	GenreID           uint              `gorm:"index;not null;comment:类型ID"`
	PublishingHouse   string            `gorm:"size:255;comment:出版社"`
	Year              int               `gorm:"comment:出版年份"`
	Status            uint8             `gorm:"type:tinyint;not null;comment:状态(1可交换2已预约3已交换4仅自己可见)"`
	OwnerID           uint              `gorm:"index;not null;comment:所有者用户ID"`
	TitleAttachmentID *uint             `gorm:"comment:封面附件ID"`
	Attachments       []AttachmentModel `gorm:"foreignKey:BookID"`
	CreatedAt         time.Time         `gorm:"comment:创建时间"`
	UpdatedAt         time.Time         `gorm:"comment:更新时间"`
}

func (BookModel) TableName() string {
	return "books"
}

// AttachmentModel 图书附件（图片文件本身存放在对象存储）
type AttachmentModel struct {
	ID          uint      `gorm:"primaryKey"`
	BookID      uint      `gorm:"index;not null;comment:图书ID"`
	FileName    string    `gorm:"size:255;comment:文件名"`
	ContentType string    `gorm:"size:100;comment:MIME类型"`
	CreatedAt   time.Time `gorm:"comment:创建时间"`
}

func (AttachmentModel) TableName() string {
	return "attachments"
}

// CorrespondenceModel 会话表，复合主键(first_user_id, second_user_id)
type CorrespondenceModel struct {
	FirstUserID  uint      `gorm:"primaryKey;autoIncrement:false;comment:第一位参与者"`
	SecondUserID uint      `gorm:"primaryKey;autoIncrement:false;comment:第二位参与者"`
	CreatedAt    time.Time `gorm:"comment:创建时间"`
}

func (CorrespondenceModel) TableName() string {
	return "correspondences"
}

// MessageModel 消息表
type MessageModel struct {
	ID            uint   `gorm:"primaryKey"`
	FirstUserID   uint   `gorm:"index:idx_messages_corr;not null"`
	SecondUserID  uint   `gorm:"index:idx_messages_corr;not null"`
	SenderID      uint   `gorm:"not null;comment:发送者ID"`
	Text          string `gorm:"type:text;comment:消息内容"`
	Declaimed     bool   `gorm:"not null;comment:已撤回"`
	AlertSent     bool   `gorm:"index;not null;comment:已发送未读提醒"`
	DepartureDate int64  `gorm:"not null;comment:发送时间(unix秒)"`
}

func (MessageModel) TableName() string {
	return "messages"
}

// gormWriter 把GORM日志输出到zap
type gormWriter struct {
	log *zap.Logger
}

func (w gormWriter) Printf(format string, args ...interface{}) {
	w.log.Info(fmt.Sprintf(format, args...))
}

func newGormLogger(log *zap.Logger, level logger.LogLevel) logger.Interface {
	return logger.New(gormWriter{log: log.Named("gorm")}, logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
	})
}
