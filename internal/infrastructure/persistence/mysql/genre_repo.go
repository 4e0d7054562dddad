package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xiebiao/bookcrossing/internal/domain/book"
	apperrors "github.com/xiebiao/bookcrossing/pkg/errors"
)

type genreRepository struct {
	db *gorm.DB
}

// NewGenreRepository 创建图书类型仓储
func NewGenreRepository(db *gorm.DB) book.GenreRepository {
	return &genreRepository{db: db}
}

func (r *genreRepository) FindByID(ctx context.Context, id uint) (*book.Genre, error) {
	var model GenreModel
	if err := getDB(ctx, r.db).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, book.ErrGenreNotFound
		}
		return nil, apperrors.Wrap(err, "查询图书类型失败")
	}
	return &book.Genre{ID: model.ID, Name: model.Name}, nil
}

func (r *genreRepository) List(ctx context.Context) ([]*book.Genre, error) {
	var models []GenreModel
	if err := getDB(ctx, r.db).Order("id ASC").Find(&models).Error; err != nil {
		return nil, apperrors.Wrap(err, "查询图书类型失败")
	}

	genres := make([]*book.Genre, 0, len(models))
	for _, m := range models {
		genres = append(genres, &book.Genre{ID: m.ID, Name: m.Name})
	}
	return genres, nil
}
