package book

import (
	"strings"

	"github.com/xiebiao/bookcrossing/internal/domain/book"
	"github.com/xiebiao/bookcrossing/internal/domain/user"
)

// Filter 目录过滤条件
// 零值字段表示不限制
type Filter struct {
	AuthorOrTitle   string // 书名或作者（由数据库查询完成匹配）
	City            string
	Title           string
	Author          string
	GenreIDs        []uint
	PublishingHouse string
	Year            int
	Page            book.Page
}

// hasCriteria 除分页外是否有任何条件
func (f Filter) hasCriteria() bool {
	return blank(f.City) != "" || blank(f.Title) != "" || blank(f.Author) != "" ||
		blank(f.PublishingHouse) != "" || len(f.GenreIDs) > 0 || f.Year != 0
}

// narrow 依次按类型、作者、出版社、年份、书名、所有者城市过滤，
// 最后去掉所有者不存在或不可用的图书。保持输入顺序。
func narrow(books []*book.Book, owners map[uint]*user.User, f Filter) []*book.Book {
	if len(f.GenreIDs) > 0 {
		genres := make(map[uint]struct{}, len(f.GenreIDs))
		for _, id := range f.GenreIDs {
			genres[id] = struct{}{}
		}
		books = keep(books, func(b *book.Book) bool {
			_, ok := genres[b.GenreID]
			return ok
		})
	}
	if v := blank(f.Author); v != "" {
		books = keep(books, func(b *book.Book) bool { return strings.EqualFold(b.Author, v) })
	}
	if v := blank(f.PublishingHouse); v != "" {
		books = keep(books, func(b *book.Book) bool { return strings.EqualFold(b.PublishingHouse, v) })
	}
	if f.Year != 0 {
		books = keep(books, func(b *book.Book) bool { return b.Year == f.Year })
	}
	if v := blank(f.Title); v != "" {
		books = keep(books, func(b *book.Book) bool { return strings.EqualFold(b.Title, v) })
	}
	if v := blank(f.City); v != "" {
		books = keep(books, func(b *book.Book) bool {
			owner, ok := owners[b.OwnerID]
			return ok && strings.EqualFold(owner.City, v)
		})
	}

	return keep(books, func(b *book.Book) bool {
		owner, ok := owners[b.OwnerID]
		return ok && owner.IsActive()
	})
}

// paginate 跳过page.Size*page.Number条，取至多page.Size条
func paginate[T any](items []T, page book.Page) []T {
	page = page.Normalize()

	from := page.Offset()
	if from >= len(items) {
		return []T{}
	}
	to := from + page.Size
	if to > len(items) {
		to = len(items)
	}
	return items[from:to]
}

func keep(books []*book.Book, pred func(*book.Book) bool) []*book.Book {
	out := make([]*book.Book, 0, len(books))
	for _, b := range books {
		if pred(b) {
			out = append(out, b)
		}
	}
	return out
}

func blank(s string) string {
	return strings.TrimSpace(s)
}

// ownerIDs 去重后的所有者ID（保持首次出现顺序）
func ownerIDs(books []*book.Book) []uint {
	seen := make(map[uint]struct{}, len(books))
	ids := make([]uint, 0, len(books))
	for _, b := range books {
		if _, ok := seen[b.OwnerID]; ok {
			continue
		}
		seen[b.OwnerID] = struct{}{}
		ids = append(ids, b.OwnerID)
	}
	return ids
}

func indexUsers(users []*user.User) map[uint]*user.User {
	m := make(map[uint]*user.User, len(users))
	for _, u := range users {
		m[u.ID] = u
	}
	return m
}
