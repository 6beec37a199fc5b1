package model

import "time"

// 买家付款状态
const (
	PaymentStatusPending   = "pending"   // 未打款
	PaymentStatusCompleted = "completed" // 已打款，重传不再刷新打款日
)

// Buyer 买家（填一个槽位的实际购买人）
type Buyer struct {
	BaseModel
	ItemID int64 `gorm:"index;not null" json:"item_id"`
	Item   *Item `gorm:"foreignKey:ItemID" json:"-"`

	// --- 身份信息（表格录入/批量导入）---
	OrderNo        string `gorm:"size:100" json:"order_no"`
	Name           string `gorm:"size:100" json:"name"`
	Recipient      string `gorm:"size:100" json:"recipient"`
	ExternalUserID string `gorm:"size:100" json:"external_user_id"` // 平台账号 ID
	Contact        string `gorm:"size:50" json:"contact"`
	Address        string `gorm:"size:512" json:"address"`

	// 打款账号原文，如 "국민 111-1234-123456 홍길동"
	AccountInfo string `gorm:"size:255" json:"account_info"`
	// 归一化账号（仅数字，不足 8 位视为无效存 NULL），合并匹配用
	AccountNormalized *string `gorm:"size:64;index" json:"-"`

	// 买家先上传、运营后录单时产生的临时买家；录单后按账号合并销毁
	IsTemporary bool `gorm:"default:false;index" json:"is_temporary"`

	PaymentStatus       string     `gorm:"size:20;default:'pending'" json:"payment_status"`
	ReviewSubmittedAt   *time.Time `json:"review_submitted_at"`
	ExpectedPaymentDate *time.Time `json:"expected_payment_date"`

	Images []ReviewImage `gorm:"foreignKey:BuyerID" json:"images,omitempty"`
}

func (Buyer) TableName() string {
	return "buyers"
}
