package dto

// SplitResult 日结拆分结果
type SplitResult struct {
	NewDayGroup         int `json:"new_day_group"`
	MovedCount          int `json:"moved_count"`
	MirroredAssignments int `json:"mirrored_assignments"`
}

// UpdateSlotRequest 槽位编辑（快照字段与买家绑定）
type UpdateSlotRequest struct {
	BuyerID *int64  `json:"buyer_id"`
	Status  *string `json:"status"`

	ProductName    *string `json:"product_name"`
	Platform       *string `json:"platform"`
	Price          *string `json:"price"`
	Keyword        *string `json:"keyword"`
	PurchaseOption *string `json:"purchase_option"`
	IsCourier      *bool   `json:"is_courier"`
	ProductURL     *string `json:"product_url"`
	Notes          *string `json:"notes"`
}

// AssignOperatorRequest 运营分配
type AssignOperatorRequest struct {
	CampaignID int64 `json:"campaign_id" binding:"required"`
	ItemID     int64 `json:"item_id" binding:"required"`
	DayGroup   *int  `json:"day_group"` // null 表示整个商品
	OperatorID int64 `json:"operator_id" binding:"required"`
}
