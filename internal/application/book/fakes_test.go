package book

import (
	"context"
	"strings"

	"github.com/xiebiao/bookcrossing/internal/domain/book"
	"github.com/xiebiao/bookcrossing/internal/domain/user"
)

// noTx 直接执行fn
type noTx struct{}

func (noTx) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type memUsers struct {
	user.Repository
	byID map[uint]*user.User
}

func newMemUsers(users ...*user.User) *memUsers {
	m := &memUsers{byID: map[uint]*user.User{}}
	for _, u := range users {
		m.byID[u.ID] = u
	}
	return m
}

func (m *memUsers) FindByID(_ context.Context, id uint) (*user.User, error) {
	if u, ok := m.byID[id]; ok {
		return u, nil
	}
	return nil, user.ErrUserNotFound
}

func (m *memUsers) FindByIDs(_ context.Context, ids []uint) ([]*user.User, error) {
	var out []*user.User
	for _, id := range ids {
		if u, ok := m.byID[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (m *memUsers) FindByLogin(_ context.Context, login string) (*user.User, error) {
	for _, u := range m.byID {
		if u.Login == login {
			return u, nil
		}
	}
	return nil, user.ErrUserNotFound
}

type memBooks struct {
	books   []*book.Book
	users   *memUsers
	deleted []uint
}

func (m *memBooks) FindAll(context.Context) ([]*book.Book, error) {
	return append([]*book.Book(nil), m.books...), nil
}

func (m *memBooks) FindByID(_ context.Context, id uint) (*book.Book, error) {
	for _, b := range m.books {
		if b.ID == id {
			return b, nil
		}
	}
	return nil, book.ErrBookNotFound
}

func (m *memBooks) FindByOwner(_ context.Context, ownerID uint, page book.Page) ([]*book.Book, error) {
	var owned []*book.Book
	for _, b := range m.books {
		if b.OwnerID == ownerID {
			owned = append(owned, b)
		}
	}
	return paginate(owned, page), nil
}

func (m *memBooks) FindByTitleOrAuthor(_ context.Context, term string) ([]*book.Book, error) {
	var out []*book.Book
	for _, b := range m.books {
		if strings.EqualFold(b.Title, term) || strings.EqualFold(b.Author, term) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *memBooks) FindByOwnerLoginAndID(ctx context.Context, login string, id uint) (*book.Book, error) {
	owner, err := m.users.FindByLogin(ctx, login)
	if err != nil {
		return nil, book.ErrBookNotFound
	}
	b, err := m.FindByID(ctx, id)
	if err != nil || b.OwnerID != owner.ID {
		return nil, book.ErrBookNotFound
	}
	return b, nil
}

func (m *memBooks) Save(_ context.Context, b *book.Book) error {
	if b.ID == 0 {
		b.ID = uint(len(m.books) + 100)
		m.books = append(m.books, b)
	}
	return nil
}

func (m *memBooks) Delete(_ context.Context, b *book.Book) error {
	for i, existing := range m.books {
		if existing.ID == b.ID {
			m.books = append(m.books[:i], m.books[i+1:]...)
			m.deleted = append(m.deleted, b.ID)
			return nil
		}
	}
	return book.ErrBookNotFound
}

type memGenres map[uint]*book.Genre

func (g memGenres) FindByID(_ context.Context, id uint) (*book.Genre, error) {
	if genre, ok := g[id]; ok {
		return genre, nil
	}
	return nil, book.ErrGenreNotFound
}

func (g memGenres) List(context.Context) ([]*book.Genre, error) {
	out := make([]*book.Genre, 0, len(g))
	for i := uint(1); i <= uint(len(g)); i++ {
		if genre, ok := g[i]; ok {
			out = append(out, genre)
		}
	}
	return out, nil
}

func activeUser(id uint, login, city string) *user.User {
	return &user.User{ID: id, Login: login, Name: login, City: city, Enabled: true, AccountNonLocked: true, Role: user.RoleUser}
}

func newBook(id, ownerID uint, title, author string, genreID uint, ph string, year int) *book.Book {
	return &book.Book{
		ID:              id,
		Title:           title,
		Author:          author,
		GenreID:         genreID,
		PublishingHouse: ph,
		Year:            year,
		Status:          book.StatusExchange,
		OwnerID:         ownerID,
	}
}
