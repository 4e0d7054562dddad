package handler

import (
	"github.com/gin-gonic/gin"

	appchat "github.com/xiebiao/bookcrossing/internal/application/chat"
	"github.com/xiebiao/bookcrossing/internal/interface/http/dto"
	"github.com/xiebiao/bookcrossing/internal/interface/http/middleware"
	apperrors "github.com/xiebiao/bookcrossing/pkg/errors"
	"github.com/xiebiao/bookcrossing/pkg/response"
)

// ChatHandler 会话HTTP处理器
type ChatHandler struct {
	createChat *appchat.CreateCorrespondenceUseCase
	deleteChat *appchat.DeleteCorrespondenceUseCase
}

// NewChatHandler 创建会话处理器
func NewChatHandler(
	createChat *appchat.CreateCorrespondenceUseCase,
	deleteChat *appchat.DeleteCorrespondenceUseCase,
) *ChatHandler {
	return &ChatHandler{createChat: createChat, deleteChat: deleteChat}
}

// Create 与指定用户建立会话
// @Summary      建立会话
// @Tags         会话
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.CreateChatRequest true "对方用户ID"
// @Success      200 {object} response.Response{data=appchat.CorrespondenceInfo}
// @Failure      404 {object} response.Response "用户不存在"
// @Failure      409 {object} response.Response "会话已存在"
// @Router       /api/v1/user/chats [post]
func (h *ChatHandler) Create(c *gin.Context) {
	var req dto.CreateChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, "参数错误: "+err.Error())
		return
	}

	result, err := h.createChat.Execute(c.Request.Context(), middleware.MustGetLogin(c), req.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// Delete 删除与指定用户的会话及消息
// @Summary      删除会话
// @Tags         会话
// @Produce      json
// @Security     BearerAuth
// @Param        user_id query int true "对方用户ID"
// @Success      200 {object} response.Response
// @Failure      404 {object} response.Response "会话不存在"
// @Router       /api/v1/user/chats [delete]
func (h *ChatHandler) Delete(c *gin.Context) {
	var q dto.ChatUserQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, "参数错误: "+err.Error())
		return
	}

	if err := h.deleteChat.Execute(c.Request.Context(), middleware.MustGetLogin(c), q.UserID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
