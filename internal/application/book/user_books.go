package book

import (
	"context"

	"github.com/xiebiao/bookcrossing/internal/application"
	"github.com/xiebiao/bookcrossing/internal/domain/book"
	"github.com/xiebiao/bookcrossing/internal/domain/user"
	"github.com/xiebiao/bookcrossing/pkg/metrics"
	"github.com/xiebiao/bookcrossing/pkg/tracing"
)

// UserBooksUseCase 查询指定用户的图书（公开）
// 用户被锁定或未激活时返回空列表
type UserBooksUseCase struct {
	books book.Repository
	users user.Repository
	tx    application.TxManager
}

// NewUserBooksUseCase 创建用例
func NewUserBooksUseCase(books book.Repository, users user.Repository, tx application.TxManager) *UserBooksUseCase {
	metrics.InitMetrics()
	return &UserBooksUseCase{books: books, users: users, tx: tx}
}

// Execute 用户不存在返回ErrUserNotFound
func (uc *UserBooksUseCase) Execute(ctx context.Context, ownerID uint, page book.Page) ([]BookModel, error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "UserBooks")
	defer span.End()

	list := []BookModel{}
	err := uc.tx.Transaction(ctx, func(ctx context.Context) error {
		owner, err := uc.users.FindByID(ctx, ownerID)
		if err != nil {
			return err
		}
		if !owner.IsActive() {
			return nil
		}

		books, err := uc.books.FindByOwner(ctx, ownerID, page)
		if err != nil {
			return err
		}
		for _, b := range books {
			list = append(list, toBookModel(b, owner.City))
		}
		return nil
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	metrics.IncCounterVec(metrics.CatalogQueriesTotal, map[string]string{"kind": "by_user"})
	return list, nil
}

// MyBooksUseCase 查询当前登录用户自己的图书（含仅自己可见的图书）
type MyBooksUseCase struct {
	books book.Repository
	users user.Repository
	tx    application.TxManager
}

// NewMyBooksUseCase 创建用例
func NewMyBooksUseCase(books book.Repository, users user.Repository, tx application.TxManager) *MyBooksUseCase {
	return &MyBooksUseCase{books: books, users: users, tx: tx}
}

// Execute 按登录名查询
func (uc *MyBooksUseCase) Execute(ctx context.Context, login string, page book.Page) ([]BookModel, error) {
	list := []BookModel{}
	err := uc.tx.Transaction(ctx, func(ctx context.Context) error {
		owner, err := uc.users.FindByLogin(ctx, login)
		if err != nil {
			return err
		}

		books, err := uc.books.FindByOwner(ctx, owner.ID, page)
		if err != nil {
			return err
		}
		for _, b := range books {
			list = append(list, toBookModel(b, owner.City))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return list, nil
}
