package book

import (
	"context"
)

// Service 图书领域服务
// 负责图书保存与修改时的业务规则:类型必须存在、状态必须合法
type Service interface {
	// Publish 保存新图书
	// 类型不存在返回ErrGenreNotFound;状态未指定时取可交换
	Publish(ctx context.Context, book *Book) error

	// Change 按Changes修改图书并保存
	Change(ctx context.Context, book *Book, changes Changes) error
}

type service struct {
	repo   Repository
	genres GenreRepository
}

// NewService 创建图书领域服务
func NewService(repo Repository, genres GenreRepository) Service {
	return &service{repo: repo, genres: genres}
}

// Publish 保存新图书
func (s *service) Publish(ctx context.Context, b *Book) error {
	if _, err := s.genres.FindByID(ctx, b.GenreID); err != nil {
		return err
	}

	if b.Status == StatusUnspecified {
		b.Status = StatusExchange
	}
	if _, err := StatusByID(uint8(b.Status)); err != nil {
		return err
	}

	return s.repo.Save(ctx, b)
}

// Change 修改图书
func (s *service) Change(ctx context.Context, b *Book, c Changes) error {
	if c.GenreID != nil {
		if _, err := s.genres.FindByID(ctx, *c.GenreID); err != nil {
			return err
		}
	}
	if c.Status != nil {
		if _, err := StatusByID(uint8(*c.Status)); err != nil {
			return err
		}
	}

	b.apply(c)
	return s.repo.Save(ctx, b)
}
