package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"revu_farm_v1_202609/internal/model"
)

// ==================== 接口定义 ====================

// ImageRepository 评价图片仓储接口
type ImageRepository interface {
	Create(ctx context.Context, image *model.ReviewImage) error
	GetByID(ctx context.Context, id int64) (*model.ReviewImage, error)
	Update(ctx context.Context, image *model.ReviewImage) error
	UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error
	Delete(ctx context.Context, id int64) error
	HardDelete(ctx context.Context, id int64) error

	ListByBuyer(ctx context.Context, buyerID int64) ([]model.ReviewImage, error)
	CountByBuyer(ctx context.Context, buyerID int64) (int64, error)

	// LatestByBuyer 买家当前最新的一张图片（重传时作为被替换对象）
	LatestByBuyer(ctx context.Context, buyerID int64) (*model.ReviewImage, error)

	// CountApprovedByItem 商品已生效评价数（目标达成判定）
	CountApprovedByItem(ctx context.Context, itemID int64) (int64, error)

	// ListPending 待审图片列表（管理后台）
	ListPending(ctx context.Context, itemID int64) ([]model.ReviewImage, error)

	// Reparent 把一个买家的所有图片改挂到另一个买家（临时买家合并）
	Reparent(ctx context.Context, fromBuyerID, toBuyerID int64) error

	PurgeDeleted(ctx context.Context, before time.Time) (int64, error)

	WithTx(tx *gorm.DB) ImageRepository
}

// ==================== 仓储实现 ====================

type imageRepo struct {
	db *gorm.DB
}

// NewImageRepository 创建图片仓储
func NewImageRepository(db *gorm.DB) ImageRepository {
	return &imageRepo{db: db}
}

func (r *imageRepo) WithTx(tx *gorm.DB) ImageRepository {
	return &imageRepo{db: tx}
}

func (r *imageRepo) Create(ctx context.Context, image *model.ReviewImage) error {
	return r.db.WithContext(ctx).Create(image).Error
}

func (r *imageRepo) GetByID(ctx context.Context, id int64) (*model.ReviewImage, error) {
	var image model.ReviewImage
	if err := r.db.WithContext(ctx).First(&image, id).Error; err != nil {
		return nil, err
	}
	return &image, nil
}

func (r *imageRepo) Update(ctx context.Context, image *model.ReviewImage) error {
	return r.db.WithContext(ctx).Save(image).Error
}

func (r *imageRepo) UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).
		Model(&model.ReviewImage{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *imageRepo) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&model.ReviewImage{}, id).Error
}

// HardDelete 物理删除，审核流程里被替换/被驳回的图片走这里
func (r *imageRepo) HardDelete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Unscoped().Delete(&model.ReviewImage{}, id).Error
}

func (r *imageRepo) ListByBuyer(ctx context.Context, buyerID int64) ([]model.ReviewImage, error) {
	var images []model.ReviewImage
	err := r.db.WithContext(ctx).
		Where("buyer_id = ?", buyerID).
		Order("created_at ASC").
		Find(&images).Error
	return images, err
}

func (r *imageRepo) CountByBuyer(ctx context.Context, buyerID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.ReviewImage{}).
		Where("buyer_id = ?", buyerID).
		Count(&count).Error
	return count, err
}

func (r *imageRepo) LatestByBuyer(ctx context.Context, buyerID int64) (*model.ReviewImage, error) {
	var image model.ReviewImage
	err := r.db.WithContext(ctx).
		Where("buyer_id = ?", buyerID).
		Order("created_at DESC, id DESC").
		First(&image).Error
	if err != nil {
		return nil, err
	}
	return &image, nil
}

func (r *imageRepo) CountApprovedByItem(ctx context.Context, itemID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.ReviewImage{}).
		Where("item_id = ? AND status = ?", itemID, model.ImageStatusApproved).
		Count(&count).Error
	return count, err
}

func (r *imageRepo) ListPending(ctx context.Context, itemID int64) ([]model.ReviewImage, error) {
	var images []model.ReviewImage
	query := r.db.WithContext(ctx).
		Preload("Buyer").
		Where("status = ?", model.ImageStatusPending)
	if itemID > 0 {
		query = query.Where("item_id = ?", itemID)
	}
	err := query.Order("created_at ASC").Find(&images).Error
	return images, err
}

func (r *imageRepo) Reparent(ctx context.Context, fromBuyerID, toBuyerID int64) error {
	return r.db.WithContext(ctx).
		Model(&model.ReviewImage{}).
		Where("buyer_id = ?", fromBuyerID).
		Update("buyer_id", toBuyerID).Error
}

func (r *imageRepo) PurgeDeleted(ctx context.Context, before time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Unscoped().
		Where("deleted_at IS NOT NULL AND deleted_at < ?", before).
		Delete(&model.ReviewImage{})
	return result.RowsAffected, result.Error
}
