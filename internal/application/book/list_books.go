package book

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/xiebiao/bookcrossing/internal/application"
	"github.com/xiebiao/bookcrossing/internal/domain/book"
	"github.com/xiebiao/bookcrossing/internal/domain/user"
	"github.com/xiebiao/bookcrossing/pkg/metrics"
	"github.com/xiebiao/bookcrossing/pkg/tracing"
)

const tracerName = "bookcrossing/application/book"

// ListBooksUseCase 图书目录查询用例（全部、按书名或作者搜索、按条件过滤）
// 流程：
// 1. 有AuthorOrTitle时由数据库按书名或作者查询，否则取全部图书
// 2. 一次批量查询候选图书的所有者
// 3. 内存中依次过滤，去掉所有者不可用的图书
// 4. 按页码截取并转换为BookModel
type ListBooksUseCase struct {
	books book.Repository
	users user.Repository
	tx    application.TxManager
}

// NewListBooksUseCase 创建目录查询用例
func NewListBooksUseCase(books book.Repository, users user.Repository, tx application.TxManager) *ListBooksUseCase {
	metrics.InitMetrics()
	return &ListBooksUseCase{books: books, users: users, tx: tx}
}

// Execute 执行目录查询
// 页码、页大小超出结果范围时返回空列表
func (uc *ListBooksUseCase) Execute(ctx context.Context, f Filter) ([]BookModel, error) {
	kind := queryKind(f)
	ctx, span := tracing.StartSpan(ctx, tracerName, "ListBooks")
	defer span.End()

	var list []BookModel
	err := uc.tx.Transaction(ctx, func(ctx context.Context) error {
		var (
			books []*book.Book
			err   error
		)
		if term := blank(f.AuthorOrTitle); term != "" {
			books, err = uc.books.FindByTitleOrAuthor(ctx, term)
		} else {
			books, err = uc.books.FindAll(ctx)
		}
		if err != nil {
			return err
		}

		owners, err := uc.users.FindByIDs(ctx, ownerIDs(books))
		if err != nil {
			return err
		}
		index := indexUsers(owners)

		list = toBookModels(paginate(narrow(books, index, f), f.Page), index)
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	metrics.IncCounterVec(metrics.CatalogQueriesTotal, map[string]string{"kind": kind})
	metrics.ObserveHistogram(metrics.CatalogResultSize, float64(len(list)))
	span.SetAttributes(
		attribute.String("catalog.kind", kind),
		attribute.Int("catalog.result_size", len(list)),
	)
	return list, nil
}

func queryKind(f Filter) string {
	switch {
	case blank(f.AuthorOrTitle) != "":
		return "search"
	case f.hasCriteria():
		return "filter"
	default:
		return "all"
	}
}
