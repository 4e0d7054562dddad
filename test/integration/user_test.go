//go:build integration

package integration

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestUserRegister 注册、重复注册、未激活登录
func TestUserRegister(t *testing.T) {
	login := UniqueLogin("reg")

	t.Run("正常注册", func(t *testing.T) {
		u := RegisterUser(t, login, "Moscow")
		assert.NotZero(t, u.ID)
		assert.False(t, u.Enabled, "注册后应未激活")
	})

	t.Run("登录名重复", func(t *testing.T) {
		resp := PostJSON(t, BaseURL+"/users/register", map[string]string{
			"login":    login,
			"name":     "dup",
			"email":    UniqueLogin("other") + "@test.com",
			"password": TestPassword,
		}, "")
		assert.Equal(t, 40001, resp.Code)
	})

	t.Run("未激活不能登录", func(t *testing.T) {
		resp := PostJSON(t, BaseURL+"/users/login", map[string]string{
			"login":    login,
			"password": TestPassword,
		}, "")
		assert.Equal(t, 40006, resp.Code)
	})

	t.Run("激活链接无效", func(t *testing.T) {
		resp := GetJSON(t, BaseURL+"/users/confirm?token=not-a-token", "")
		assert.Equal(t, 40010, resp.Code)
	})
}

// TestUserSession 登录、资料、登出后Token失效
func TestUserSession(t *testing.T) {
	u := NewActiveUser(t, "session", "Kazan")

	resp := GetJSON(t, BaseURL+"/user/profile", u.Token)
	require.Equal(t, 0, resp.Code)

	var profile UserData
	Decode(t, resp, &profile)
	assert.Equal(t, u.Login, profile.Login)
	assert.Equal(t, "Kazan", profile.City)

	resp = PostJSON(t, BaseURL+"/user/logout", nil, u.Token)
	require.Equal(t, 0, resp.Code)

	resp = GetJSON(t, BaseURL+"/user/profile", u.Token)
	assert.Equal(t, 40102, resp.Code, "登出后Token应失效")
}

// TestUserWrongPassword 密码错误
func TestUserWrongPassword(t *testing.T) {
	u := NewActiveUser(t, "wrongpw", "")

	resp := PostJSON(t, BaseURL+"/users/login", map[string]string{
		"login":    u.Login,
		"password": "Wrong1234",
	}, "")
	assert.Equal(t, 40103, resp.Code)
}

// TestAdminRequiresRole 普通用户不能访问管理接口
func TestAdminRequiresRole(t *testing.T) {
	u := NewActiveUser(t, "plain", "")

	resp := GetJSON(t, BaseURL+"/admin/users", u.Token)
	assert.Equal(t, 40104, resp.Code)
}

// TestCorrespondence 建立、重复建立、删除会话
func TestCorrespondence(t *testing.T) {
	alice := NewActiveUser(t, "alice", "")
	bob := NewActiveUser(t, "bob", "")

	resp := PostJSON(t, BaseURL+"/user/chats", map[string]uint{"user_id": bob.ID}, alice.Token)
	require.Equal(t, 0, resp.Code, resp.Message)

	// 反向建立同一对用户的会话
	resp = PostJSON(t, BaseURL+"/user/chats", map[string]uint{"user_id": alice.ID}, bob.Token)
	assert.Equal(t, 40004, resp.Code)

	resp = Delete(t, BaseURL+"/user/chats?user_id="+itoa(alice.ID), bob.Token)
	assert.Equal(t, 0, resp.Code)

	resp = Delete(t, BaseURL+"/user/chats?user_id="+itoa(alice.ID), bob.Token)
	assert.Equal(t, 40404, resp.Code)
}
