package book

import (
	"context"
	"errors"

	"github.com/xiebiao/bookcrossing/internal/application"
	"github.com/xiebiao/bookcrossing/internal/domain/book"
	"github.com/xiebiao/bookcrossing/internal/domain/user"
	apperrors "github.com/xiebiao/bookcrossing/pkg/errors"
)

// BookInfoUseCase 图书详情（任何人可查看）
type BookInfoUseCase struct {
	books book.Repository
	users user.Repository
	tx    application.TxManager
}

// NewBookInfoUseCase 创建图书详情用例
func NewBookInfoUseCase(books book.Repository, users user.Repository, tx application.TxManager) *BookInfoUseCase {
	return &BookInfoUseCase{books: books, users: users, tx: tx}
}

// Execute 图书不存在返回ErrBookNotFound
func (uc *BookInfoUseCase) Execute(ctx context.Context, bookID uint) (*BookModel, error) {
	var result BookModel
	err := uc.tx.Transaction(ctx, func(ctx context.Context) error {
		b, err := uc.books.FindByID(ctx, bookID)
		if err != nil {
			return err
		}

		city := ""
		owner, err := uc.users.FindByID(ctx, b.OwnerID)
		switch {
		case err == nil:
			city = owner.City
		case !errors.Is(err, user.ErrUserNotFound):
			return err
		}

		result = toBookModel(b, city)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// BookOwnerUseCase 图书所有者公开资料
type BookOwnerUseCase struct {
	books book.Repository
	users user.Repository
	tx    application.TxManager
}

// NewBookOwnerUseCase 创建用例
func NewBookOwnerUseCase(books book.Repository, users user.Repository, tx application.TxManager) *BookOwnerUseCase {
	return &BookOwnerUseCase{books: books, users: users, tx: tx}
}

// Execute zoneID为UTC小时偏移（-12 ~ +14），用于格式化最近登录时间
func (uc *BookOwnerUseCase) Execute(ctx context.Context, bookID uint, zoneID int) (*OwnerProfile, error) {
	if zoneID < -12 || zoneID > 14 {
		return nil, apperrors.New(apperrors.ErrCodeInvalidParams, "时区偏移必须在-12到14之间")
	}

	var result OwnerProfile
	err := uc.tx.Transaction(ctx, func(ctx context.Context) error {
		b, err := uc.books.FindByID(ctx, bookID)
		if err != nil {
			return err
		}
		owner, err := uc.users.FindByID(ctx, b.OwnerID)
		if err != nil {
			return err
		}

		result = toOwnerProfile(owner, zoneLocation(zoneID))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// GenresUseCase 图书类型列表
type GenresUseCase struct {
	genres book.GenreRepository
}

// NewGenresUseCase 创建用例
func NewGenresUseCase(genres book.GenreRepository) *GenresUseCase {
	return &GenresUseCase{genres: genres}
}

func (uc *GenresUseCase) Execute(ctx context.Context) ([]GenreItem, error) {
	genres, err := uc.genres.List(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]GenreItem, 0, len(genres))
	for _, g := range genres {
		items = append(items, GenreItem{ID: g.ID, Name: g.Name})
	}
	return items, nil
}
