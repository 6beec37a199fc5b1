package model

import "time"

// 评价图片状态
const (
	ImageStatusApproved = "approved" // 生效中的评价截图
	ImageStatusPending  = "pending"  // 重传待管理员审核
)

// ReviewImage 评价截图
// PreviousImageID 仅在重传待审时指向被替换的图片，链长不超过 2：
// 审核通过删旧图清引用，驳回删新图，链条不会继续增长
type ReviewImage struct {
	BaseModel
	BuyerID int64  `gorm:"index;not null" json:"buyer_id"`
	Buyer   *Buyer `gorm:"foreignKey:BuyerID" json:"-"`
	ItemID  int64  `gorm:"index;not null" json:"item_id"`

	URL        string `gorm:"size:512;not null" json:"url"`
	StorageKey string `gorm:"size:255;not null" json:"-"` // 对象存储 key，删除时用

	Status          string     `gorm:"size:20;default:'approved';index" json:"status"`
	PreviousImageID *int64     `gorm:"index" json:"previous_image_id"`
	ResubmittedAt   *time.Time `json:"resubmitted_at"`
}

func (ReviewImage) TableName() string {
	return "review_images"
}
