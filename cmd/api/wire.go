//go:build wireinject
// +build wireinject

// Wire依赖注入配置，修改后运行 `wire gen ./cmd/api` 重新生成wire_gen.go

package main

import (
	"github.com/google/wire"
	"go.uber.org/zap"

	"github.com/xiebiao/bookcrossing/internal/application"
	appadmin "github.com/xiebiao/bookcrossing/internal/application/admin"
	"github.com/xiebiao/bookcrossing/internal/application/alert"
	appbook "github.com/xiebiao/bookcrossing/internal/application/book"
	appchat "github.com/xiebiao/bookcrossing/internal/application/chat"
	appuser "github.com/xiebiao/bookcrossing/internal/application/user"
	"github.com/xiebiao/bookcrossing/internal/domain/book"
	"github.com/xiebiao/bookcrossing/internal/domain/user"
	"github.com/xiebiao/bookcrossing/internal/infrastructure/config"
	"github.com/xiebiao/bookcrossing/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/bookcrossing/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/bookcrossing/internal/interface/http/handler"
	"github.com/xiebiao/bookcrossing/internal/interface/http/middleware"
	"github.com/xiebiao/bookcrossing/internal/interface/http/router"
	"github.com/xiebiao/bookcrossing/pkg/jwt"
)

// infrastructureSet 数据库、Redis、邮件
var infrastructureSet = wire.NewSet(
	provideDB,
	provideRedis,
	provideMailer,
	provideAlertMailer,
	provideConfirmationMailer,
	provideJobLock,
	wire.Bind(new(alert.Locker), new(*redis.JobLock)),
	redis.NewSessionStore,
	wire.Bind(new(appuser.SessionStore), new(*redis.SessionStore)),
	wire.Bind(new(appadmin.SessionRevoker), new(*redis.SessionStore)),
	wire.Bind(new(middleware.TokenBlacklist), new(*redis.SessionStore)),
	redis.NewConfirmStore,
	wire.Bind(new(appuser.ConfirmTokenStore), new(*redis.ConfirmStore)),
)

// repositorySet 仓储与事务管理器
var repositorySet = wire.NewSet(
	mysql.NewUserRepository,
	mysql.NewBookRepository,
	mysql.NewGenreRepository,
	mysql.NewMessageRepository,
	mysql.NewCorrespondenceRepository,
	mysql.NewTxManager,
	wire.Bind(new(application.TxManager), new(*mysql.TxManager)),
)

// domainSet 领域服务
var domainSet = wire.NewSet(
	user.NewService,
	book.NewService,
)

// applicationSet 用例与定时任务
var applicationSet = wire.NewSet(
	appuser.NewRegisterUseCase,
	appuser.NewConfirmUseCase,
	appuser.NewLoginUseCase,
	appuser.NewLogoutUseCase,
	appuser.NewRefreshTokenUseCase,
	appuser.NewProfileUseCase,
	appbook.NewListBooksUseCase,
	appbook.NewUserBooksUseCase,
	appbook.NewMyBooksUseCase,
	appbook.NewPublishBookUseCase,
	appbook.NewChangeBookUseCase,
	appbook.NewDeleteBookUseCase,
	appbook.NewBookInfoUseCase,
	appbook.NewBookOwnerUseCase,
	appbook.NewGenresUseCase,
	appadmin.NewListUsersUseCase,
	appadmin.NewLockUserUseCase,
	appadmin.NewUnlockUserUseCase,
	appchat.NewCreateCorrespondenceUseCase,
	appchat.NewDeleteCorrespondenceUseCase,
	alert.NewJob,
	provideScheduler,
)

// middlewareSet JWT与认证中间件
var middlewareSet = wire.NewSet(
	provideJWTManager,
	wire.Bind(new(middleware.TokenParser), new(*jwt.Manager)),
	middleware.NewAuthMiddleware,
)

// handlerSet HTTP处理器与路由
var handlerSet = wire.NewSet(
	handler.NewUserHandler,
	handler.NewBookHandler,
	handler.NewAdminHandler,
	handler.NewChatHandler,
	wire.Struct(new(router.Handlers), "*"),
	router.New,
)

// InitializeApp 组装整个应用
// cleanup按创建的逆序关闭MQ、Redis、数据库连接
func InitializeApp(cfg *config.Config, log *zap.Logger) (*App, func(), error) {
	wire.Build(
		infrastructureSet,
		repositorySet,
		domainSet,
		applicationSet,
		middlewareSet,
		handlerSet,
		wire.Struct(new(App), "*"),
	)
	return nil, nil, nil
}
