package dto

// CreateChatRequest 与指定用户建立会话
type CreateChatRequest struct {
	UserID uint `json:"user_id" binding:"required"`
}

// ChatUserQuery 删除与指定用户的会话
type ChatUserQuery struct {
	UserID uint `form:"user_id" binding:"required"`
}
