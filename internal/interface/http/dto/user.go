package dto

// RegisterRequest HTTP层注册请求
// 说明：HTTP层的DTO，包含参数验证tag
type RegisterRequest struct {
	Login    string `json:"login" binding:"required,notblank,min=3,max=50"`
	Name     string `json:"name" binding:"required,notblank,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=20"`
	City     string `json:"city" binding:"max=100"`
}

// LoginRequest 登录请求，login可填登录名或邮箱
type LoginRequest struct {
	Login    string `json:"login" binding:"required,notblank"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest 刷新Token请求
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// ConfirmQuery 账号激活
type ConfirmQuery struct {
	Token string `form:"token" binding:"required"`
}

// LoginQuery 管理员按登录名操作用户
type LoginQuery struct {
	Login string `form:"login" binding:"required,notblank"`
}
