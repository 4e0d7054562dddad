package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/bookcrossing/internal/domain/book"
	apperrors "github.com/xiebiao/bookcrossing/pkg/errors"
)

// bookRepository 图书仓储实现(MySQL)
// 1. 实现domain/book/repository.go定义的接口
// 2. 负责domain实体与GORM模型之间的转换,附件只映射为ID列表
// 3. 所有查询按主键升序,目录分页依赖这一顺序
type bookRepository struct {
	db *gorm.DB
}

// NewBookRepository 创建图书仓储
func NewBookRepository(db *gorm.DB) book.Repository {
	return &bookRepository{db: db}
}

// withAttachments 预加载附件(按附件ID升序)
func withAttachments(db *gorm.DB) *gorm.DB {
	return db.Preload("Attachments", func(db *gorm.DB) *gorm.DB {
		return db.Order("id ASC")
	})
}

// FindAll 查询全部图书
func (r *bookRepository) FindAll(ctx context.Context) ([]*book.Book, error) {
	var models []BookModel
	if err := withAttachments(getDB(ctx, r.db)).Order("id ASC").Find(&models).Error; err != nil {
		return nil, apperrors.Wrap(err, "查询图书列表失败")
	}
	return toBookEntities(models), nil
}

// FindByID 根据ID查找图书
func (r *bookRepository) FindByID(ctx context.Context, id uint) (*book.Book, error) {
	var model BookModel
	if err := withAttachments(getDB(ctx, r.db)).First(&model, id).Error; err != nil {
		return nil, bookQueryError(err)
	}
	return toBookEntity(&model), nil
}

// FindByOwner 分页查询某用户的图书
func (r *bookRepository) FindByOwner(ctx context.Context, ownerID uint, page book.Page) ([]*book.Book, error) {
	page = page.Normalize()

	var models []BookModel
	err := withAttachments(getDB(ctx, r.db)).
		Where("owner_id = ?", ownerID).
		Order("id ASC").
		Offset(page.Offset()).
		Limit(page.Size).
		Find(&models).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询用户图书失败")
	}
	return toBookEntities(models), nil
}

// FindByTitleOrAuthor 书名或作者与term相等(忽略大小写)
func (r *bookRepository) FindByTitleOrAuthor(ctx context.Context, term string) ([]*book.Book, error) {
	var models []BookModel
	err := withAttachments(getDB(ctx, r.db)).
		Where("LOWER(title) = LOWER(?) OR LOWER(author) = LOWER(?)", term, term).
		Order("id ASC").
		Find(&models).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "搜索图书失败")
	}
	return toBookEntities(models), nil
}

// FindByOwnerLoginAndID 查找属于指定登录名用户的图书
// 通过JOIN users在一条SQL里同时校验归属,不属于该用户时与不存在返回相同错误
func (r *bookRepository) FindByOwnerLoginAndID(ctx context.Context, login string, id uint) (*book.Book, error) {
	var model BookModel
	err := withAttachments(getDB(ctx, r.db)).
		Select("books.*").
		Joins("JOIN users ON users.id = books.owner_id").
		Where("users.login = ? AND books.id = ?", login, id).
		First(&model).Error
	if err != nil {
		return nil, bookQueryError(err)
	}
	return toBookEntity(&model), nil
}

// Save 新建或更新图书
// 附件由上传流程单独维护,这里不级联保存关联
func (r *bookRepository) Save(ctx context.Context, b *book.Book) error {
	model := toBookModel(b)
	db := getDB(ctx, r.db).Omit(clause.Associations)

	var err error
	if model.ID == 0 {
		err = db.Create(model).Error
	} else {
		err = db.Save(model).Error
	}
	if err != nil {
		return apperrors.Wrap(err, "保存图书失败")
	}

	b.ID = model.ID
	b.CreatedAt = model.CreatedAt
	b.UpdatedAt = model.UpdatedAt
	return nil
}

// Delete 删除图书及其附件记录(物理删除)
func (r *bookRepository) Delete(ctx context.Context, b *book.Book) error {
	db := getDB(ctx, r.db)

	if err := db.Where("book_id = ?", b.ID).Delete(&AttachmentModel{}).Error; err != nil {
		return apperrors.Wrap(err, "删除图书附件失败")
	}

	result := db.Delete(&BookModel{}, b.ID)
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "删除图书失败")
	}
	if result.RowsAffected == 0 {
		return book.ErrBookNotFound
	}
	return nil
}

func bookQueryError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return book.ErrBookNotFound
	}
	return apperrors.Wrap(err, "查询图书失败")
}

// =========================================
// 模型转换
// =========================================

func toBookModel(b *book.Book) *BookModel {
	return &BookModel{
		ID:                b.ID,
		Title:             b.Title,
		Author:            b.Author,
		GenreID:           b.GenreID,
		PublishingHouse:   b.PublishingHouse,
		Year:              b.Year,
		Status:            uint8(b.Status),
		OwnerID:           b.OwnerID,
		TitleAttachmentID: b.TitleAttachmentID,
		CreatedAt:         b.CreatedAt,
		UpdatedAt:         b.UpdatedAt,
	}
}

func toBookEntity(model *BookModel) *book.Book {
	ids := make([]uint, 0, len(model.Attachments))
	for _, a := range model.Attachments {
		ids = append(ids, a.ID)
	}
	return &book.Book{
		ID:                model.ID,
		Title:             model.Title,
		Author:            model.Author,
		GenreID:           model.GenreID,
		PublishingHouse:   model.PublishingHouse,
		Year:              model.Year,
		Status:            book.Status(model.Status),
		OwnerID:           model.OwnerID,
		TitleAttachmentID: model.TitleAttachmentID,
		AttachmentIDs:     ids,
		CreatedAt:         model.CreatedAt,
		UpdatedAt:         model.UpdatedAt,
	}
}

func toBookEntities(models []BookModel) []*book.Book {
	books := make([]*book.Book, 0, len(models))
	for i := range models {
		books = append(books, toBookEntity(&models[i]))
	}
	return books
}
