package dto

// PageQuery 分页参数(页码从0开始，页大小缺省20)
type PageQuery struct {
	PageNumber int `form:"page_number"`
	PageSize   int `form:"page_size"`
}

// UserBooksQuery 按用户查询图书
type UserBooksQuery struct {
	PageQuery
	UserID uint `form:"id" binding:"required"`
}

// SearchQuery 按书名或作者搜索
type SearchQuery struct {
	PageQuery
	Name string `form:"name" binding:"required,notblank"`
}

// BookIDQuery 单本图书
type BookIDQuery struct {
	BookID uint `form:"book_id" binding:"required"`
}

// OwnerQuery 图书所有者，zone_id为相对UTC的小时偏移
type OwnerQuery struct {
	BookID uint `form:"book_id" binding:"required"`
	ZoneID int  `form:"zone_id" binding:"min=-12,max=14"`
}

// FilterRequest 组合条件过滤
// 空字符串、空数组、0表示不限制
type FilterRequest struct {
	City            string `json:"city"`
	Title           string `json:"title"`
	Author          string `json:"author"`
	Genres          []uint `json:"genres"`
	PublishingHouse string `json:"publishing_house"`
	Year            int    `json:"year"`
	PageNumber      int    `json:"page_number"`
	PageSize        int    `json:"page_size"`
}

// SaveBookRequest 发布图书
type SaveBookRequest struct {
	Title           string `json:"title" binding:"required,notblank,max=255"`
	Author          string `json:"author" binding:"required,notblank,max=255"`
	Genre           uint   `json:"genre" binding:"required"`
	PublishingHouse string `json:"publishing_house" binding:"max=255"`
	Year            int    `json:"year"`
	Status          uint8  `json:"status"` // 0表示可交换
}

// ChangeBookRequest 修改图书，未传的字段不修改
type ChangeBookRequest struct {
	BookID          uint    `json:"book_id" binding:"required"`
	Title           *string `json:"title" binding:"omitempty,max=255"`
	Author          *string `json:"author" binding:"omitempty,max=255"`
	Genre           *uint   `json:"genre"`
	PublishingHouse *string `json:"publishing_house" binding:"omitempty,max=255"`
	Year            *int    `json:"year"`
	Status          *uint8  `json:"status"`
}
