package dto

// LoginRequest 登录
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse 登录成功返回双 token
type LoginResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	Username     string `json:"username"`
	Role         string `json:"role"`
}

// CreateUserRequest 管理员开账号
type CreateUserRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
	Email    string `json:"email"`
	Role     string `json:"role" binding:"required,oneof=admin sales operator"`
}

// CreateCampaignRequest 创建活动
type CreateCampaignRequest struct {
	Name         string `json:"name" binding:"required"`
	BrandName    string `json:"brand_name"`
	BrandContact string `json:"brand_contact"`
	WebhookURL   string `json:"webhook_url"`
	Memo         string `json:"memo"`
}
