package handler

import (
	"github.com/gin-gonic/gin"

	appbook "github.com/xiebiao/bookcrossing/internal/application/book"
	"github.com/xiebiao/bookcrossing/internal/domain/book"
	"github.com/xiebiao/bookcrossing/internal/interface/http/dto"
	"github.com/xiebiao/bookcrossing/internal/interface/http/middleware"
	apperrors "github.com/xiebiao/bookcrossing/pkg/errors"
	"github.com/xiebiao/bookcrossing/pkg/response"
)

// BookHandler 图书HTTP处理器
// 公开接口：目录浏览、搜索、过滤、详情、所有者、类型
// 登录接口：我的图书、发布、修改、删除
type BookHandler struct {
	listBooks   *appbook.ListBooksUseCase
	userBooks   *appbook.UserBooksUseCase
	myBooks     *appbook.MyBooksUseCase
	publishBook *appbook.PublishBookUseCase
	changeBook  *appbook.ChangeBookUseCase
	deleteBook  *appbook.DeleteBookUseCase
	bookInfo    *appbook.BookInfoUseCase
	bookOwner   *appbook.BookOwnerUseCase
	genres      *appbook.GenresUseCase
}

// NewBookHandler 创建图书处理器
func NewBookHandler(
	listBooks *appbook.ListBooksUseCase,
	userBooks *appbook.UserBooksUseCase,
	myBooks *appbook.MyBooksUseCase,
	publishBook *appbook.PublishBookUseCase,
	changeBook *appbook.ChangeBookUseCase,
	deleteBook *appbook.DeleteBookUseCase,
	bookInfo *appbook.BookInfoUseCase,
	bookOwner *appbook.BookOwnerUseCase,
	genres *appbook.GenresUseCase,
) *BookHandler {
	return &BookHandler{
		listBooks:   listBooks,
		userBooks:   userBooks,
		myBooks:     myBooks,
		publishBook: publishBook,
		changeBook:  changeBook,
		deleteBook:  deleteBook,
		bookInfo:    bookInfo,
		bookOwner:   bookOwner,
		genres:      genres,
	}
}

// All 全部可见图书
// @Summary      图书目录
// @Description  所有者已激活且未锁定的图书，按存储顺序分页
// @Tags         图书
// @Produce      json
// @Param        page_number query int false "页码(从0开始)"
// @Param        page_size   query int false "每页数量(默认20)"
// @Success      200 {object} response.Response{data=response.PageData{list=[]appbook.BookModel}}
// @Router       /api/v1/books/all [get]
func (h *BookHandler) All(c *gin.Context) {
	var q dto.PageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, "参数错误: "+err.Error())
		return
	}

	page := toPage(q)
	list, err := h.listBooks.Execute(c.Request.Context(), appbook.Filter{Page: page})
	if err != nil {
		response.Error(c, err)
		return
	}
	successPage(c, list, page)
}

// ByUser 指定用户的图书
// @Summary      用户的图书
// @Description  所有者不可用时返回空列表
// @Tags         图书
// @Produce      json
// @Param        id          query int true  "用户ID"
// @Param        page_number query int false "页码(从0开始)"
// @Param        page_size   query int false "每页数量(默认20)"
// @Success      200 {object} response.Response{data=response.PageData{list=[]appbook.BookModel}}
// @Failure      404 {object} response.Response "用户不存在"
// @Router       /api/v1/books/by-user [get]
func (h *BookHandler) ByUser(c *gin.Context) {
	var q dto.UserBooksQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, "参数错误: "+err.Error())
		return
	}

	page := toPage(q.PageQuery)
	list, err := h.userBooks.Execute(c.Request.Context(), q.UserID, page)
	if err != nil {
		response.Error(c, err)
		return
	}
	successPage(c, list, page)
}

// Info 图书详情
// @Summary      图书详情
// @Tags         图书
// @Produce      json
// @Param        book_id query int true "图书ID"
// @Success      200 {object} response.Response{data=appbook.BookModel}
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /api/v1/books/info [get]
func (h *BookHandler) Info(c *gin.Context) {
	var q dto.BookIDQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, "参数错误: "+err.Error())
		return
	}

	result, err := h.bookInfo.Execute(c.Request.Context(), q.BookID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// Search 按书名或作者搜索
// @Summary      搜索图书
// @Description  书名或作者与关键字相同(忽略大小写)
// @Tags         图书
// @Produce      json
// @Param        name        query string true  "书名或作者"
// @Param        page_number query int    false "页码(从0开始)"
// @Param        page_size   query int    false "每页数量(默认20)"
// @Success      200 {object} response.Response{data=response.PageData{list=[]appbook.BookModel}}
// @Router       /api/v1/books/search [get]
func (h *BookHandler) Search(c *gin.Context) {
	var q dto.SearchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, "参数错误: "+err.Error())
		return
	}

	page := toPage(q.PageQuery)
	list, err := h.listBooks.Execute(c.Request.Context(), appbook.Filter{
		AuthorOrTitle: q.Name,
		Page:          page,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	successPage(c, list, page)
}

// SearchWithFilters 组合条件过滤
// @Summary      过滤图书
// @Description  依次按类型、作者、出版社、年份、书名、所有者城市过滤
// @Tags         图书
// @Accept       json
// @Produce      json
// @Param        request body dto.FilterRequest true "过滤条件"
// @Success      200 {object} response.Response{data=response.PageData{list=[]appbook.BookModel}}
// @Failure      400 {object} response.Response "参数错误"
// @Router       /api/v1/books/search-with-filters [post]
func (h *BookHandler) SearchWithFilters(c *gin.Context) {
	var req dto.FilterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, "参数错误: "+err.Error())
		return
	}

	page := book.Page{Number: req.PageNumber, Size: req.PageSize}.Normalize()
	list, err := h.listBooks.Execute(c.Request.Context(), appbook.Filter{
		City:            req.City,
		Title:           req.Title,
		Author:          req.Author,
		GenreIDs:        req.Genres,
		PublishingHouse: req.PublishingHouse,
		Year:            req.Year,
		Page:            page,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	successPage(c, list, page)
}

// Owner 图书所有者资料
// @Summary      图书所有者
// @Tags         图书
// @Produce      json
// @Param        book_id query int true  "图书ID"
// @Param        zone_id query int false "时区(UTC偏移小时数)"
// @Success      200 {object} response.Response{data=appbook.OwnerProfile}
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /api/v1/books/owner [get]
func (h *BookHandler) Owner(c *gin.Context) {
	var q dto.OwnerQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, "参数错误: "+err.Error())
		return
	}

	result, err := h.bookOwner.Execute(c.Request.Context(), q.BookID, q.ZoneID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// Genres 图书类型列表
// @Summary      图书类型
// @Tags         图书
// @Produce      json
// @Success      200 {object} response.Response{data=[]appbook.GenreItem}
// @Router       /api/v1/books/genres [get]
func (h *BookHandler) Genres(c *gin.Context) {
	list, err := h.genres.Execute(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, list)
}

// MyBooks 我发布的图书
// @Summary      我的图书
// @Tags         图书
// @Produce      json
// @Security     BearerAuth
// @Param        page_number query int false "页码(从0开始)"
// @Param        page_size   query int false "每页数量(默认20)"
// @Success      200 {object} response.Response{data=response.PageData{list=[]appbook.BookModel}}
// @Failure      401 {object} response.Response "未登录"
// @Router       /api/v1/user/books [get]
func (h *BookHandler) MyBooks(c *gin.Context) {
	var q dto.PageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, "参数错误: "+err.Error())
		return
	}

	page := toPage(q)
	list, err := h.myBooks.Execute(c.Request.Context(), middleware.MustGetLogin(c), page)
	if err != nil {
		response.Error(c, err)
		return
	}
	successPage(c, list, page)
}

// Publish 发布图书
// @Summary      发布图书
// @Description  状态为0时按可交换处理
// @Tags         图书
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.SaveBookRequest true "图书信息"
// @Success      200 {object} response.Response{data=appbook.BookModel}
// @Failure      400 {object} response.Response "参数错误"
// @Failure      401 {object} response.Response "未登录"
// @Failure      404 {object} response.Response "类型不存在"
// @Router       /api/v1/user/books [post]
func (h *BookHandler) Publish(c *gin.Context) {
	var req dto.SaveBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, "参数错误: "+err.Error())
		return
	}

	result, err := h.publishBook.Execute(c.Request.Context(), middleware.MustGetLogin(c), appbook.PublishBookRequest{
		Title:           req.Title,
		Author:          req.Author,
		GenreID:         req.Genre,
		PublishingHouse: req.PublishingHouse,
		Year:            req.Year,
		StatusID:        req.Status,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// Change 修改图书
// @Summary      修改图书
// @Description  只能修改自己的图书，未传的字段保持不变
// @Tags         图书
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.ChangeBookRequest true "修改内容"
// @Success      200 {object} response.Response{data=appbook.BookModel}
// @Failure      400 {object} response.Response "参数错误"
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /api/v1/user/books [put]
func (h *BookHandler) Change(c *gin.Context) {
	var req dto.ChangeBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, "参数错误: "+err.Error())
		return
	}

	result, err := h.changeBook.Execute(c.Request.Context(), middleware.MustGetLogin(c), appbook.ChangeBookRequest{
		BookID:          req.BookID,
		Title:           req.Title,
		Author:          req.Author,
		GenreID:         req.Genre,
		PublishingHouse: req.PublishingHouse,
		Year:            req.Year,
		StatusID:        req.Status,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// Delete 删除图书
// @Summary      删除图书
// @Tags         图书
// @Produce      json
// @Security     BearerAuth
// @Param        book_id query int true "图书ID"
// @Success      200 {object} response.Response
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /api/v1/user/books [delete]
func (h *BookHandler) Delete(c *gin.Context) {
	var q dto.BookIDQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, "参数错误: "+err.Error())
		return
	}

	if err := h.deleteBook.Execute(c.Request.Context(), middleware.MustGetLogin(c), q.BookID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func toPage(q dto.PageQuery) book.Page {
	return book.Page{Number: q.PageNumber, Size: q.PageSize}.Normalize()
}

func successPage(c *gin.Context, list []appbook.BookModel, page book.Page) {
	response.SuccessWithPage(c, list, page.Number, page.Size)
}
