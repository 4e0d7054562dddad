package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/xiebiao/bookcrossing/internal/domain/book"
	"github.com/xiebiao/bookcrossing/internal/interface/http/dto"
)

func init() {
	gin.SetMode(gin.TestMode)
	dto.RegisterValidators()
}

// 参数校验失败时不会调用用例，处理器中的用例可以为nil
func TestHandlers_InvalidParams(t *testing.T) {
	books := &BookHandler{}
	users := &UserHandler{}
	admin := &AdminHandler{}
	chats := &ChatHandler{}

	r := gin.New()
	r.GET("/books/by-user", books.ByUser)
	r.GET("/books/info", books.Info)
	r.GET("/books/search", books.Search)
	r.POST("/books/search-with-filters", books.SearchWithFilters)
	r.GET("/books/owner", books.Owner)
	r.POST("/user/books", books.Publish)
	r.PUT("/user/books", books.Change)
	r.DELETE("/user/books", books.Delete)
	r.POST("/users/register", users.Register)
	r.GET("/users/confirm", users.Confirm)
	r.POST("/users/login", users.Login)
	r.POST("/users/refresh", users.Refresh)
	r.PUT("/admin/users/lock", admin.Lock)
	r.PUT("/admin/users/unlock", admin.Unlock)
	r.POST("/user/chats", chats.Create)
	r.DELETE("/user/chats", chats.Delete)

	cases := []struct {
		name   string
		method string
		target string
		body   string
	}{
		{"按用户查询缺少id", http.MethodGet, "/books/by-user", ""},
		{"详情缺少book_id", http.MethodGet, "/books/info", ""},
		{"详情book_id非数字", http.MethodGet, "/books/info?book_id=abc", ""},
		{"搜索缺少关键字", http.MethodGet, "/books/search", ""},
		{"搜索关键字只有空白", http.MethodGet, "/books/search?name=%20%20", ""},
		{"发布书名只有空白", http.MethodPost, "/user/books", `{"title":"   ","author":"Herbert","genre":1}`},
		{"注册登录名只有空白", http.MethodPost, "/users/register", `{"login":"    ","name":"Alice","email":"a@b.com","password":"secret123"}`},
		{"过滤请求体非法", http.MethodPost, "/books/search-with-filters", `{"year":"nineteen"}`},
		{"时区超出范围", http.MethodGet, "/books/owner?book_id=1&zone_id=20", ""},
		{"发布缺少书名", http.MethodPost, "/user/books", `{"author":"Herbert","genre":1}`},
		{"发布缺少类型", http.MethodPost, "/user/books", `{"title":"Dune","author":"Herbert"}`},
		{"修改缺少book_id", http.MethodPut, "/user/books", `{"title":"Dune"}`},
		{"删除缺少book_id", http.MethodDelete, "/user/books", ""},
		{"注册邮箱格式错误", http.MethodPost, "/users/register", `{"login":"alice","name":"Alice","email":"nope","password":"secret123"}`},
		{"注册密码过短", http.MethodPost, "/users/register", `{"login":"alice","name":"Alice","email":"a@b.com","password":"short"}`},
		{"激活缺少token", http.MethodGet, "/users/confirm", ""},
		{"登录缺少密码", http.MethodPost, "/users/login", `{"login":"alice"}`},
		{"刷新缺少token", http.MethodPost, "/users/refresh", `{}`},
		{"锁定缺少登录名", http.MethodPut, "/admin/users/lock", ""},
		{"解锁缺少登录名", http.MethodPut, "/admin/users/unlock", ""},
		{"建立会话缺少用户", http.MethodPost, "/user/chats", `{}`},
		{"删除会话缺少用户", http.MethodDelete, "/user/chats", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.target, strings.NewReader(tc.body))
			if tc.body != "" {
				req.Header.Set("Content-Type", "application/json")
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), `"code":40900`)
		})
	}
}

func TestToPage(t *testing.T) {
	assert.Equal(t, book.Page{Number: 0, Size: book.DefaultPageSize}, toPage(dto.PageQuery{}))
	assert.Equal(t, book.Page{Number: 0, Size: 5}, toPage(dto.PageQuery{PageNumber: -3, PageSize: 5}))
	assert.Equal(t, book.Page{Number: 2, Size: 50}, toPage(dto.PageQuery{PageNumber: 2, PageSize: 50}))
}
