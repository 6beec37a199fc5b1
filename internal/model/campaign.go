package model

// Campaign 评价活动（一个品牌方的一批商品）
type Campaign struct {
	BaseModel
	Name         string `gorm:"size:200;not null" json:"name"`
	BrandName    string `gorm:"size:100" json:"brand_name"`
	BrandContact string `gorm:"size:100" json:"brand_contact"`
	// 品牌方回调地址，目标数达成时推送（可为空）
	WebhookURL string `gorm:"size:512" json:"webhook_url"`
	Memo       string `gorm:"type:text" json:"memo"`

	Items []Item `gorm:"foreignKey:CampaignID" json:"items,omitempty"`
}

func (Campaign) TableName() string {
	return "campaigns"
}

// CampaignOperatorAssignment 运营分配表
// DayGroup 为 NULL 表示分配整个商品的所有日组
type CampaignOperatorAssignment struct {
	BaseModel
	CampaignID int64 `gorm:"uniqueIndex:uniq_assignment;not null" json:"campaign_id"`
	ItemID     int64 `gorm:"uniqueIndex:uniq_assignment;not null" json:"item_id"`
	DayGroup   *int  `gorm:"uniqueIndex:uniq_assignment" json:"day_group"`
	OperatorID int64 `gorm:"uniqueIndex:uniq_assignment;index;not null" json:"operator_id"`
}

func (CampaignOperatorAssignment) TableName() string {
	return "campaign_operator_assignments"
}
