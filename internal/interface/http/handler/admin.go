package handler

import (
	"github.com/gin-gonic/gin"

	appadmin "github.com/xiebiao/bookcrossing/internal/application/admin"
	"github.com/xiebiao/bookcrossing/internal/interface/http/dto"
	apperrors "github.com/xiebiao/bookcrossing/pkg/errors"
	"github.com/xiebiao/bookcrossing/pkg/response"
)

// AdminHandler 管理员HTTP处理器（路由组已挂RequireAuth+RequireAdmin）
type AdminHandler struct {
	listUsers  *appadmin.ListUsersUseCase
	lockUser   *appadmin.LockUserUseCase
	unlockUser *appadmin.UnlockUserUseCase
}

// NewAdminHandler 创建管理员处理器
func NewAdminHandler(
	listUsers *appadmin.ListUsersUseCase,
	lockUser *appadmin.LockUserUseCase,
	unlockUser *appadmin.UnlockUserUseCase,
) *AdminHandler {
	return &AdminHandler{listUsers: listUsers, lockUser: lockUser, unlockUser: unlockUser}
}

// Users 用户列表
// @Summary      用户列表
// @Tags         管理
// @Produce      json
// @Security     BearerAuth
// @Param        page_number query int false "页码(从0开始)"
// @Param        page_size   query int false "每页数量(默认20)"
// @Success      200 {object} response.Response{data=appadmin.UsersPage}
// @Failure      403 {object} response.Response "无权限"
// @Router       /api/v1/admin/users [get]
func (h *AdminHandler) Users(c *gin.Context) {
	var q dto.PageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, "参数错误: "+err.Error())
		return
	}

	result, err := h.listUsers.Execute(c.Request.Context(), q.PageNumber, q.PageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// Lock 锁定用户
// @Summary      锁定用户
// @Tags         管理
// @Produce      json
// @Security     BearerAuth
// @Param        login query string true "登录名"
// @Success      200 {object} response.Response{data=appadmin.UserItem}
// @Failure      404 {object} response.Response "用户不存在"
// @Router       /api/v1/admin/users/lock [put]
func (h *AdminHandler) Lock(c *gin.Context) {
	var q dto.LoginQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, "参数错误: "+err.Error())
		return
	}

	result, err := h.lockUser.Execute(c.Request.Context(), q.Login)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// Unlock 解锁用户
// @Summary      解锁用户
// @Tags         管理
// @Produce      json
// @Security     BearerAuth
// @Param        login query string true "登录名"
// @Success      200 {object} response.Response{data=appadmin.UserItem}
// @Failure      404 {object} response.Response "用户不存在"
// @Router       /api/v1/admin/users/unlock [put]
func (h *AdminHandler) Unlock(c *gin.Context) {
	var q dto.LoginQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, "参数错误: "+err.Error())
		return
	}

	result, err := h.unlockUser.Execute(c.Request.Context(), q.Login)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}
