package dto

import "time"

// ImageResp 图片响应
type ImageResp struct {
	ID              int64      `json:"id"`
	BuyerID         int64      `json:"buyer_id"`
	URL             string     `json:"url"`
	Status          string     `json:"status"`
	PreviousImageID *int64     `json:"previous_image_id,omitempty"`
	ResubmittedAt   *time.Time `json:"resubmitted_at,omitempty"`
}

// ReconcileResult 上传对账结果：首传与重传分开返回
type ReconcileResult struct {
	Uploaded    []ImageResp `json:"uploaded"`
	Resubmitted []ImageResp `json:"resubmitted"`
}

// GroupInfoResp 上传页的日组信息（口令换来的公开数据）
type GroupInfoResp struct {
	ItemID      int64  `json:"item_id"`
	DayGroup    int    `json:"day_group"`
	ProductName string `json:"product_name"`
	Platform    string `json:"platform"`
	Keyword     string `json:"keyword"`
	SlotCount   int    `json:"slot_count"`
}
