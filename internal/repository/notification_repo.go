package repository

import (
	"context"

	"gorm.io/gorm"

	"revu_farm_v1_202609/internal/model"
)

// NotificationRepository 站内通知仓储接口
type NotificationRepository interface {
	Create(ctx context.Context, n *model.Notification) error
	CreateBatch(ctx context.Context, ns []model.Notification) error
	ListByRecipient(ctx context.Context, recipientID int64, onlyUnread bool, limit int) ([]model.Notification, error)
	MarkRead(ctx context.Context, id, recipientID int64) error
	WithTx(tx *gorm.DB) NotificationRepository
}

type notificationRepo struct {
	db *gorm.DB
}

// NewNotificationRepository 创建通知仓储
func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepo{db: db}
}

func (r *notificationRepo) WithTx(tx *gorm.DB) NotificationRepository {
	return &notificationRepo{db: tx}
}

func (r *notificationRepo) Create(ctx context.Context, n *model.Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *notificationRepo) CreateBatch(ctx context.Context, ns []model.Notification) error {
	if len(ns) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&ns).Error
}

func (r *notificationRepo) ListByRecipient(ctx context.Context, recipientID int64, onlyUnread bool, limit int) ([]model.Notification, error) {
	var list []model.Notification
	query := r.db.WithContext(ctx).Where("recipient_id = ?", recipientID)
	if onlyUnread {
		query = query.Where("is_read = ?", false)
	}
	if limit <= 0 {
		limit = 50
	}
	err := query.Order("created_at DESC").Limit(limit).Find(&list).Error
	return list, err
}

func (r *notificationRepo) MarkRead(ctx context.Context, id, recipientID int64) error {
	return r.db.WithContext(ctx).
		Model(&model.Notification{}).
		Where("id = ? AND recipient_id = ?", id, recipientID).
		Update("is_read", true).Error
}
