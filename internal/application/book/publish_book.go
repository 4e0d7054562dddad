package book

import (
	"context"

	"github.com/xiebiao/bookcrossing/internal/application"
	"github.com/xiebiao/bookcrossing/internal/domain/book"
	"github.com/xiebiao/bookcrossing/internal/domain/user"
)

// PublishBookUseCase 发布图书用例
// 1. 按登录名查找所有者（不存在返回ErrUserNotFound）
// 2. 类型必须存在（ErrGenreNotFound），状态未指定时为可交换
// 3. 保存并返回BookModel
type PublishBookUseCase struct {
	bookService book.Service
	users       user.Repository
	tx          application.TxManager
}

// NewPublishBookUseCase 创建发布图书用例
func NewPublishBookUseCase(bookService book.Service, users user.Repository, tx application.TxManager) *PublishBookUseCase {
	return &PublishBookUseCase{bookService: bookService, users: users, tx: tx}
}

// PublishBookRequest 发布图书请求
type PublishBookRequest struct {
	Title           string
	Author          string
	GenreID         uint
	PublishingHouse string
	Year            int
	StatusID        uint8 // 0表示未指定
}

// Execute 执行发布
func (uc *PublishBookUseCase) Execute(ctx context.Context, login string, req PublishBookRequest) (*BookModel, error) {
	status := book.StatusUnspecified
	if req.StatusID != 0 {
		s, err := book.StatusByID(req.StatusID)
		if err != nil {
			return nil, err
		}
		status = s
	}

	var result BookModel
	err := uc.tx.Transaction(ctx, func(ctx context.Context) error {
		owner, err := uc.users.FindByLogin(ctx, login)
		if err != nil {
			return err
		}

		b := book.NewBook(owner.ID, req.Title, req.Author, req.GenreID, req.PublishingHouse, req.Year, status)
		if err := uc.bookService.Publish(ctx, b); err != nil {
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
