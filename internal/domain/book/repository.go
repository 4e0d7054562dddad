package book

import (
	"context"
)

// Repository 图书仓储接口
// 返回顺序为存储的自然顺序(主键升序),目录分页依赖这一顺序稳定
type Repository interface {
	// FindAll 查询全部图书
	FindAll(ctx context.Context) ([]*Book, error)

	// FindByID 根据ID查找图书,不存在返回ErrBookNotFound
	FindByID(ctx context.Context, id uint) (*Book, error)

	// FindByOwner 分页查询某用户的图书
	FindByOwner(ctx context.Context, ownerID uint, page Page) ([]*Book, error)

	// FindByTitleOrAuthor 书名或作者与term相等(忽略大小写)
	FindByTitleOrAuthor(ctx context.Context, term string) ([]*Book, error)

	// FindByOwnerLoginAndID 查找属于指定登录名用户的图书
	// 图书不存在或不属于该用户都返回ErrBookNotFound
	FindByOwnerLoginAndID(ctx context.Context, login string, id uint) (*Book, error)

	// Save 新建(ID为0)或更新图书
	Save(ctx context.Context, book *Book) error

	// Delete 删除图书
	Delete(ctx context.Context, book *Book) error
}

// GenreRepository 图书类型参考表
type GenreRepository interface {
	// FindByID 不存在返回ErrGenreNotFound
	FindByID(ctx context.Context, id uint) (*Genre, error)

	List(ctx context.Context) ([]*Genre, error)
}
