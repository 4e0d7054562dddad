package book

import (
	"strings"
	"time"
)

// Status 图书状态
type Status uint8

const (
	StatusUnspecified Status = 0 // 未指定，保存时取默认值
	StatusExchange    Status = 1 // 可交换
	StatusReserved    Status = 2 // 已预约
	StatusExchanged   Status = 3 // 已交换
	StatusPrivate     Status = 4 // 仅自己可见
)

// StatusByID 校验状态ID
func StatusByID(id uint8) (Status, error) {
	s := Status(id)
	if s < StatusExchange || s > StatusPrivate {
		return 0, ErrInvalidStatus
	}
	return s, nil
}

func (s Status) String() string {
	switch s {
	case StatusExchange:
		return "可交换"
	case StatusReserved:
		return "已预约"
	case StatusExchanged:
		return "已交换"
	case StatusPrivate:
		return "仅自己可见"
	default:
		return "未指定"
	}
}

// Book 图书实体(聚合根)
// 说明:
// 1. 所有者只保存用户ID,需要时由调用方显式查询User
// 2. AttachmentIDs包含全部附件(含封面),封面ID单独记录在TitleAttachmentID
type Book struct {
	ID                uint
	Title             string
	Author            string
	GenreID           uint
	PublishingHouse   string
	Year              int
	Status            Status
	OwnerID           uint
	TitleAttachmentID *uint
	AttachmentIDs     []uint
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// NewBook 创建新图书(工厂方法)
// 状态未指定时默认为可交换
func NewBook(ownerID uint, title, author string, genreID uint, publishingHouse string, year int, status Status) *Book {
	if status == StatusUnspecified {
		status = StatusExchange
	}
	now := time.Now()
	return &Book{
		Title:           strings.TrimSpace(title),
		Author:          strings.TrimSpace(author),
		GenreID:         genreID,
		PublishingHouse: strings.TrimSpace(publishingHouse),
		Year:            year,
		Status:          status,
		OwnerID:         ownerID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// AdditionalAttachmentIDs 除封面外的附件ID
func (b *Book) AdditionalAttachmentIDs() []uint {
	ids := make([]uint, 0, len(b.AttachmentIDs))
	for _, id := range b.AttachmentIDs {
		if b.TitleAttachmentID != nil && id == *b.TitleAttachmentID {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

// Changes 图书修改请求
// nil字段不修改;字符串字段去除首尾空白后为空也不修改
type Changes struct {
	Title           *string
	Author          *string
	PublishingHouse *string
	GenreID         *uint
	Year            *int
	Status          *Status
}

// apply 应用修改(GenreID、Status的合法性由Service校验)
func (b *Book) apply(c Changes) {
	if v, ok := nonBlank(c.Title); ok {
		b.Title = v
	}
	if v, ok := nonBlank(c.Author); ok {
		b.Author = v
	}
	if v, ok := nonBlank(c.PublishingHouse); ok {
		b.PublishingHouse = v
	}
	if c.GenreID != nil {
		b.GenreID = *c.GenreID
	}
	if c.Year != nil {
		b.Year = *c.Year
	}
	if c.Status != nil {
		b.Status = *c.Status
	}
	b.UpdatedAt = time.Now()
}

func nonBlank(s *string) (string, bool) {
	if s == nil {
		return "", false
	}
	v := strings.TrimSpace(*s)
	return v, v != ""
}

// Genre 图书类型(参考表)
type Genre struct {
	ID   uint
	Name string
}

// Page 分页参数(页码从0开始)
type Page struct {
	Number int
	Size   int
}

// DefaultPageSize 未指定每页数量时的默认值
const DefaultPageSize = 20

// Normalize 非法参数取默认值:页大小<=0取20,页码<0取0
func (p Page) Normalize() Page {
	if p.Size <= 0 {
		p.Size = DefaultPageSize
	}
	if p.Number < 0 {
		p.Number = 0
	}
	return p
}

// Offset 跳过的记录数
func (p Page) Offset() int {
	return p.Number * p.Size
}
