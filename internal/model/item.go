package model

import (
	"time"

	"github.com/lib/pq"
)

// ==================== 商品 ====================

// Item 活动商品（需要收集 N 条购买评价的对象）
type Item struct {
	BaseModel
	CampaignID int64     `gorm:"index;not null" json:"campaign_id"`
	Campaign   *Campaign `gorm:"foreignKey:CampaignID" json:"-"`

	// 录入原文保留：总购买数/日别购买数都是表格里抄来的自由文本
	TotalPurchaseCount string `gorm:"size:50" json:"total_purchase_count"`
	DailyPurchaseCount string `gorm:"size:100" json:"daily_purchase_count"` // 如 "6/6"、"1/3/4/2"

	// 解析结果：创建时落库，排槽以此为准
	TotalCount int           `gorm:"default:0" json:"total_count"`
	DailyPlan  pq.Int64Array `gorm:"type:bigint[]" json:"daily_plan"`

	// --- 商品快照字段（生成槽位时复制到各日组）---
	ProductName    string `gorm:"size:255" json:"product_name"`
	Platform       string `gorm:"size:50" json:"platform"` // coupang / smartstore / ...
	Price          string `gorm:"size:50" json:"price"`
	Keyword        string `gorm:"size:255" json:"keyword"`
	PurchaseOption string `gorm:"size:255" json:"purchase_option"`
	IsCourier      bool   `gorm:"default:false" json:"is_courier"` // 是否快递送达（体验团则为假）
	ProductURL     string `gorm:"size:512" json:"product_url"`
	Notes          string `gorm:"type:text" json:"notes"`

	// 目标数达成通知只发一次
	TargetNotifiedAt *time.Time `json:"-"`

	Slots  []ItemSlot `gorm:"foreignKey:ItemID" json:"slots,omitempty"`
	Buyers []Buyer    `gorm:"foreignKey:ItemID" json:"buyers,omitempty"`
}

func (Item) TableName() string {
	return "items"
}

// ==================== 槽位 ====================

// 槽位状态
const (
	SlotStatusActive      = "active"      // 正常进行中
	SlotStatusResubmitted = "resubmitted" // 该槽买家的重传已通过，表格上做标记
)

// ItemSlot 购买槽位：商品所需购买数的最小工作单元
// 同一 (item_id, day_group) 内 slot_number 在未删除记录中唯一（软删除留墓碑，入库前由代码保证）
type ItemSlot struct {
	BaseModel
	ItemID     int64 `gorm:"index:idx_slot_item_group,priority:1;not null" json:"item_id"`
	SlotNumber int   `gorm:"index:idx_slot_item_group,priority:3;not null" json:"slot_number"` // 全商品内 1 起连续编号
	DayGroup   int   `gorm:"index:idx_slot_item_group,priority:2;not null" json:"day_group"`   // 1 起，同组共享一个上传口令

	// 同日组所有槽位共享同一个上传口令
	UploadLinkToken string `gorm:"size:64;index;not null" json:"upload_link_token"`

	BuyerID *int64 `gorm:"index" json:"buyer_id"`
	Buyer   *Buyer `gorm:"foreignKey:BuyerID" json:"buyer,omitempty"`

	Status string `gorm:"size:20;default:'active'" json:"status"`
	// 暂停的槽位不参与分配与完成度统计，但保留在表格上
	IsSuspended bool `gorm:"default:false" json:"is_suspended"`

	// --- 商品快照（创建/拆分时复制，之后各日组可独立改）---
	ProductName    string `gorm:"size:255" json:"product_name"`
	Platform       string `gorm:"size:50" json:"platform"`
	Price          string `gorm:"size:50" json:"price"`
	Keyword        string `gorm:"size:255" json:"keyword"`
	PurchaseOption string `gorm:"size:255" json:"purchase_option"`
	IsCourier      bool   `gorm:"default:false" json:"is_courier"`
	ProductURL     string `gorm:"size:512" json:"product_url"`
	Notes          string `gorm:"type:text" json:"notes"`
}

func (ItemSlot) TableName() string {
	return "item_slots"
}
