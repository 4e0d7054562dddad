//go:build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

// 集成测试辅助工具
// 需要先启动服务（MySQL、Redis已就绪），运行方式：
//
//	go test -tags integration -v ./test/integration/...
//
// BOOKCROSSING_BASE_URL、BOOKCROSSING_REDIS_ADDR可覆盖默认地址

const (
	// Timeout HTTP请求超时时间
	Timeout = 10 * time.Second
	// TestPassword 测试账号统一密码
	TestPassword = "Test1234"
)

var (
	// BaseURL API基础URL
	BaseURL   = envOr("BOOKCROSSING_BASE_URL", "http://localhost:8080/api/v1")
	redisAddr = envOr("BOOKCROSSING_REDIS_ADDR", "localhost:6379")
)

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// Response 统一响应结构
type Response struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// UserData 用户信息
type UserData struct {
	ID      uint   `json:"id"`
	Login   string `json:"login"`
	Email   string `json:"email"`
	City    string `json:"city"`
	Enabled bool   `json:"enabled"`
}

// LoginData 登录响应数据
type LoginData struct {
	User         UserData `json:"user"`
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token"`
}

// BookData 图书
type BookData struct {
	ID              uint   `json:"id"`
	Title           string `json:"title"`
	Author          string `json:"author"`
	GenreID         uint   `json:"genre_id"`
	PublishingHouse string `json:"publishing_house"`
	Year            int    `json:"year"`
	StatusID        uint8  `json:"status_id"`
	City            string `json:"city"`
}

// BookPage 图书分页
type BookPage struct {
	List       []BookData `json:"list"`
	PageNumber int        `json:"page_number"`
	PageSize   int        `json:"page_size"`
}

// TestUser 已激活并登录的测试用户
type TestUser struct {
	ID    uint
	Login string
	Token string
}

func doJSON(t *testing.T, method, url string, data interface{}, token string) *Response {
	t.Helper()

	var body io.Reader
	if data != nil {
		jsonData, err := json.Marshal(data)
		require.NoError(t, err, "JSON序列化失败")
		body = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequest(method, url, body)
	require.NoError(t, err, "创建HTTP请求失败")
	if data != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{Timeout: Timeout}
	resp, err := client.Do(req)
	require.NoError(t, err, "发送HTTP请求失败")
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "读取响应体失败")

	var result Response
	require.NoError(t, json.Unmarshal(raw, &result), "解析JSON响应失败: %s", string(raw))
	return &result
}

// PostJSON 发送POST请求并解析JSON响应
func PostJSON(t *testing.T, url string, data interface{}, token string) *Response {
	return doJSON(t, http.MethodPost, url, data, token)
}

// PutJSON 发送PUT请求
func PutJSON(t *testing.T, url string, data interface{}, token string) *Response {
	return doJSON(t, http.MethodPut, url, data, token)
}

// GetJSON 发送GET请求
func GetJSON(t *testing.T, url string, token string) *Response {
	return doJSON(t, http.MethodGet, url, nil, token)
}

// Delete 发送DELETE请求
func Delete(t *testing.T, url string, token string) *Response {
	return doJSON(t, http.MethodDelete, url, nil, token)
}

// Decode 解析data字段
func Decode(t *testing.T, resp *Response, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(resp.Data, v), "解析响应数据失败")
}

// UniqueLogin 生成唯一登录名
func UniqueLogin(prefix string) string {
	return fmt.Sprintf("%s_%d", prefix, time.Now().UnixNano()%1_000_000_000)
}

// confirmToken 在Redis中查找用户的激活Token（代替收取邮件）
func confirmToken(t *testing.T, userID uint) string {
	t.Helper()

	client := redis.NewClient(&redis.Options{Addr: redisAddr})
	defer client.Close()

	ctx := context.Background()
	want := strconv.FormatUint(uint64(userID), 10)

	iter := client.Scan(ctx, 0, "bookcrossing:confirm:*", 100).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		if v, err := client.Get(ctx, key).Result(); err == nil && v == want {
			return key[len("bookcrossing:confirm:"):]
		}
	}
	require.NoError(t, iter.Err())
	t.Fatalf("未找到用户%d的激活Token", userID)
	return ""
}

// RegisterUser 注册用户（未激活）
func RegisterUser(t *testing.T, login, city string) UserData {
	t.Helper()

	resp := PostJSON(t, BaseURL+"/users/register", map[string]string{
		"login":    login,
		"name":     login,
		"email":    login + "@test.com",
		"password": TestPassword,
		"city":     city,
	}, "")
	require.Equal(t, 0, resp.Code, "注册失败: %s", resp.Message)

	var u UserData
	Decode(t, resp, &u)
	return u
}

// NewActiveUser 注册、激活并登录
func NewActiveUser(t *testing.T, prefix, city string) TestUser {
	t.Helper()

	login := UniqueLogin(prefix)
	u := RegisterUser(t, login, city)

	resp := GetJSON(t, BaseURL+"/users/confirm?token="+confirmToken(t, u.ID), "")
	require.Equal(t, 0, resp.Code, "激活失败: %s", resp.Message)

	resp = PostJSON(t, BaseURL+"/users/login", map[string]string{
		"login":    login,
		"password": TestPassword,
	}, "")
	require.Equal(t, 0, resp.Code, "登录失败: %s", resp.Message)

	var data LoginData
	Decode(t, resp, &data)
	return TestUser{ID: u.ID, Login: login, Token: data.AccessToken}
}

// PublishBook 发布图书并返回结果
func PublishBook(t *testing.T, token string, book map[string]interface{}) BookData {
	t.Helper()

	resp := PostJSON(t, BaseURL+"/user/books", book, token)
	require.Equal(t, 0, resp.Code, "发布图书失败: %s", resp.Message)

	var data BookData
	Decode(t, resp, &data)
	return data
}
