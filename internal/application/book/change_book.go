package book

import (
	"context"

	"github.com/xiebiao/bookcrossing/internal/application"
	"github.com/xiebiao/bookcrossing/internal/domain/book"
	"github.com/xiebiao/bookcrossing/internal/domain/user"
)

// ChangeBookUseCase 修改图书用例
// 按(登录名,图书ID)查找，图书不存在与不属于当前用户同样返回ErrBookNotFound
type ChangeBookUseCase struct {
	bookService book.Service
	books       book.Repository
	users       user.Repository
	tx          application.TxManager
}

// NewChangeBookUseCase 创建修改图书用例
func NewChangeBookUseCase(bookService book.Service, books book.Repository, users user.Repository, tx application.TxManager) *ChangeBookUseCase {
	return &ChangeBookUseCase{bookService: bookService, books: books, users: users, tx: tx}
}

// ChangeBookRequest 修改请求，nil字段不修改
type ChangeBookRequest struct {
	BookID          uint
	Title           *string
	Author          *string
	GenreID         *uint
	PublishingHouse *string
	Year            *int
	StatusID        *uint8
}

// Execute 执行修改
func (uc *ChangeBookUseCase) Execute(ctx context.Context, login string, req ChangeBookRequest) (*BookModel, error) {
	changes := book.Changes{
		Title:           req.Title,
		Author:          req.Author,
		PublishingHouse: req.PublishingHouse,
		GenreID:         req.GenreID,
		Year:            req.Year,
	}
	if req.StatusID != nil {
		s, err := book.StatusByID(*req.StatusID)
		if err != nil {
			return nil, err
		}
		changes.Status = &s
	}

	var result BookModel
	err := uc.tx.Transaction(ctx, func(ctx context.Context) error {
		b, err := uc.books.FindByOwnerLoginAndID(ctx, login, req.BookID)
		if err != nil {
			return err
		}
		if err := uc.bookService.Change(ctx, b, changes); err != nil {
			return err
		}

		owner, err := uc.users.FindByID(ctx, b.OwnerID)
		if err != nil {
			return err
		}
		result = toBookModel(b, owner.City)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// DeleteBookUseCase 删除图书用例（所有权校验同修改）
type DeleteBookUseCase struct {
	books book.Repository
	tx    application.TxManager
}

// NewDeleteBookUseCase 创建删除图书用例
func NewDeleteBookUseCase(books book.Repository, tx application.TxManager) *DeleteBookUseCase {
	return &DeleteBookUseCase{books: books, tx: tx}
}

// Execute 执行删除
func (uc *DeleteBookUseCase) Execute(ctx context.Context, login string, bookID uint) error {
	return uc.tx.Transaction(ctx, func(ctx context.Context) error {
		b, err := uc.books.FindByOwnerLoginAndID(ctx, login, bookID)
		if err != nil {
			return err
		}
		return uc.books.Delete(ctx, b)
	})
}
