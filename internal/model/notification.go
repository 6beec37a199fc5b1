package model

import "gorm.io/datatypes"

// 通知类型
const (
	NotifyTypeTargetReached = "target_reached" // 商品已收满目标评价数
	NotifyTypeResubmission  = "resubmission"   // 有重传待审核
)

// Notification 站内通知（管理后台铃铛）
type Notification struct {
	BaseModel
	Type        string         `gorm:"size:30;index;not null" json:"type"`
	RecipientID int64          `gorm:"index;not null" json:"recipient_id"` // SysUser ID
	ItemID      int64          `gorm:"index" json:"item_id"`
	Payload     datatypes.JSON `gorm:"type:jsonb" json:"payload"`
	IsRead      bool           `gorm:"default:false;index" json:"is_read"`
}

func (Notification) TableName() string {
	return "notifications"
}
