package book

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRepo struct {
	Repository
	saved []*Book
}

func (r *stubRepo) Save(_ context.Context, b *Book) error {
	if b.ID == 0 {
		b.ID = uint(len(r.saved) + 1)
	}
	r.saved = append(r.saved, b)
	return nil
}

type stubGenres map[uint]*Genre

func (g stubGenres) FindByID(_ context.Context, id uint) (*Genre, error) {
	if genre, ok := g[id]; ok {
		return genre, nil
	}
	return nil, ErrGenreNotFound
}

func (g stubGenres) List(context.Context) ([]*Genre, error) { return nil, nil }

func strPtr(s string) *string { return &s }

func TestPublish(t *testing.T) {
	ctx := context.Background()
	genres := stubGenres{2: {ID: 2, Name: "Роман"}}

	t.Run("状态未指定时默认可交换", func(t *testing.T) {
		repo := &stubRepo{}
		svc := NewService(repo, genres)

		b := NewBook(1, "Wolves", "author", 2, "publishing_house", 2000, StatusUnspecified)
		require.NoError(t, svc.Publish(ctx, b))
		assert.Equal(t, StatusExchange, b.Status)
		assert.Len(t, repo.saved, 1)
	})

	t.Run("类型不存在", func(t *testing.T) {
		repo := &stubRepo{}
		svc := NewService(repo, genres)

		err := svc.Publish(ctx, NewBook(1, "Wolves", "author", 99, "", 2000, StatusExchange))
		assert.ErrorIs(t, err, ErrGenreNotFound)
		assert.Empty(t, repo.saved)
	})

	t.Run("状态非法", func(t *testing.T) {
		svc := NewService(&stubRepo{}, genres)
		err := svc.Publish(ctx, NewBook(1, "Wolves", "author", 2, "", 2000, Status(9)))
		assert.ErrorIs(t, err, ErrInvalidStatus)
	})
}

func TestChange(t *testing.T) {
	ctx := context.Background()
	genres := stubGenres{2: {ID: 2}, 3: {ID: 3}}

	original := func() *Book {
		b := NewBook(1, "Wolves", "author", 2, "publishing_house", 2000, StatusExchange)
		b.ID = 10
		return b
	}

	t.Run("空白字符串不修改", func(t *testing.T) {
		b := original()
		svc := NewService(&stubRepo{}, genres)
		require.NoError(t, svc.Change(ctx, b, Changes{
			Title:           strPtr("   "),
			Author:          strPtr(""),
			PublishingHouse: strPtr("\t"),
		}))

		assert.Equal(t, "Wolves", b.Title)
		assert.Equal(t, "author", b.Author)
		assert.Equal(t, "publishing_house", b.PublishingHouse)
	})

	t.Run("nil字段不修改", func(t *testing.T) {
		b := original()
		svc := NewService(&stubRepo{}, genres)
		require.NoError(t, svc.Change(ctx, b, Changes{}))

		assert.Equal(t, "Wolves", b.Title)
		assert.EqualValues(t, 2, b.GenreID)
		assert.Equal(t, 2000, b.Year)
		assert.Equal(t, StatusExchange, b.Status)
	})

	t.Run("非空字段整体替换", func(t *testing.T) {
		b := original()
		svc := NewService(&stubRepo{}, genres)
		genre := uint(3)
		year := 2010
		status := StatusReserved
		require.NoError(t, svc.Change(ctx, b, Changes{
			Title:   strPtr(" Dogs "),
			Author:  strPtr("someone"),
			GenreID: &genre,
			Year:    &year,
			Status:  &status,
		}))

		assert.Equal(t, "Dogs", b.Title)
		assert.Equal(t, "someone", b.Author)
		assert.EqualValues(t, 3, b.GenreID)
		assert.Equal(t, 2010, b.Year)
		assert.Equal(t, StatusReserved, b.Status)
	})

	t.Run("类型不存在时不修改", func(t *testing.T) {
		b := original()
		repo := &stubRepo{}
		svc := NewService(repo, genres)
		genre := uint(42)
		err := svc.Change(ctx, b, Changes{Title: strPtr("Dogs"), GenreID: &genre})

		assert.ErrorIs(t, err, ErrGenreNotFound)
		assert.Equal(t, "Wolves", b.Title)
		assert.Empty(t, repo.saved)
	})
}

func TestAdditionalAttachmentIDs(t *testing.T) {
	title := uint(5)
	b := &Book{AttachmentIDs: []uint{4, 5, 6}}
	assert.Equal(t, []uint{4, 5, 6}, b.AdditionalAttachmentIDs())

	b.TitleAttachmentID = &title
	assert.Equal(t, []uint{4, 6}, b.AdditionalAttachmentIDs())

	assert.Empty(t, (&Book{}).AdditionalAttachmentIDs())
}

func TestPageNormalize(t *testing.T) {
	assert.Equal(t, Page{Number: 0, Size: DefaultPageSize}, Page{Number: -1, Size: 0}.Normalize())
	assert.Equal(t, Page{Number: 2, Size: 5}, Page{Number: 2, Size: 5}.Normalize())
	assert.Equal(t, 10, Page{Number: 2, Size: 5}.Offset())
}
