package dto

// CreateItemRequest 创建商品
// 总数/日别数保持表格原文，服务端解析
type CreateItemRequest struct {
	CampaignID         int64  `json:"campaign_id" binding:"required"`
	TotalPurchaseCount string `json:"total_purchase_count"`
	DailyPurchaseCount string `json:"daily_purchase_count"`

	ProductName    string `json:"product_name" binding:"required"`
	Platform       string `json:"platform"`
	Price          string `json:"price"`
	Keyword        string `json:"keyword"`
	PurchaseOption string `json:"purchase_option"`
	IsCourier      bool   `json:"is_courier"`
	ProductURL     string `json:"product_url"`
	Notes          string `json:"notes"`
}

// UpdateItemRequest 修改商品信息（不回写已生成槽位的快照）
type UpdateItemRequest struct {
	ProductName    *string `json:"product_name"`
	Platform       *string `json:"platform"`
	Price          *string `json:"price"`
	Keyword        *string `json:"keyword"`
	PurchaseOption *string `json:"purchase_option"`
	IsCourier      *bool   `json:"is_courier"`
	ProductURL     *string `json:"product_url"`
	Notes          *string `json:"notes"`
}

// ListItemsRequest 商品列表
type ListItemsRequest struct {
	CampaignID int64  `form:"campaign_id"`
	Platform   string `form:"platform"`
	Keyword    string `form:"keyword"`
	Page       int    `form:"page,default=1"`
	PageSize   int    `form:"page_size,default=20"`
}
