package dto

// CreateBuyerRequest 录入买家
type CreateBuyerRequest struct {
	ItemID         int64  `json:"item_id" binding:"required"`
	OrderNo        string `json:"order_no"`
	Name           string `json:"name" binding:"required"`
	Recipient      string `json:"recipient"`
	ExternalUserID string `json:"external_user_id"`
	Contact        string `json:"contact"`
	Address        string `json:"address"`
	AccountInfo    string `json:"account_info"`

	// 直接绑到某个槽位（可选）
	SlotID *int64 `json:"slot_id"`
}

// ImportBuyersRequest 批量导入买家
type ImportBuyersRequest struct {
	ItemID int64                `json:"item_id" binding:"required"`
	Buyers []CreateBuyerRequest `json:"buyers" binding:"required"`
}

// UpdateBuyerRequest 修改买家
type UpdateBuyerRequest struct {
	OrderNo        *string `json:"order_no"`
	Name           *string `json:"name"`
	Recipient      *string `json:"recipient"`
	ExternalUserID *string `json:"external_user_id"`
	Contact        *string `json:"contact"`
	Address        *string `json:"address"`
	AccountInfo    *string `json:"account_info"`
	PaymentStatus  *string `json:"payment_status"`
}

// BuyerCandidate 按姓名找槽的返回项
type BuyerCandidate struct {
	BuyerID  int64  `json:"buyer_id"`
	Name     string `json:"name"`
	OrderNo  string `json:"order_no"`
	HasImage bool   `json:"has_image"`
}
