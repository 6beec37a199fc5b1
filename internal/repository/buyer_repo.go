package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"revu_farm_v1_202609/internal/model"
)

// ==================== 接口定义 ====================

// BuyerRepository 买家仓储接口
type BuyerRepository interface {
	Create(ctx context.Context, buyer *model.Buyer) error
	CreateBatch(ctx context.Context, buyers []model.Buyer) error
	GetByID(ctx context.Context, id int64) (*model.Buyer, error)
	GetByIDs(ctx context.Context, ids []int64) ([]model.Buyer, error)
	Update(ctx context.Context, buyer *model.Buyer) error
	UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error
	Delete(ctx context.Context, id int64) error
	HardDelete(ctx context.Context, id int64) error
	ListByItem(ctx context.Context, itemID int64, page, pageSize int) ([]model.Buyer, int64, error)

	// FindTemporaryByAccount 在同一商品内按归一化账号找临时买家（合并入口）
	FindTemporaryByAccount(ctx context.Context, itemID int64, normalized string) (*model.Buyer, error)

	// ListByToken 取上传口令对应日组里已绑槽的买家，带是否已有图片
	ListByToken(ctx context.Context, token string) ([]model.Buyer, error)

	PurgeDeleted(ctx context.Context, before time.Time) (int64, error)

	WithTx(tx *gorm.DB) BuyerRepository
}

// ==================== 仓储实现 ====================

type buyerRepo struct {
	db *gorm.DB
}

// NewBuyerRepository 创建买家仓储
func NewBuyerRepository(db *gorm.DB) BuyerRepository {
	return &buyerRepo{db: db}
}

func (r *buyerRepo) WithTx(tx *gorm.DB) BuyerRepository {
	return &buyerRepo{db: tx}
}

func (r *buyerRepo) Create(ctx context.Context, buyer *model.Buyer) error {
	return r.db.WithContext(ctx).Create(buyer).Error
}

func (r *buyerRepo) CreateBatch(ctx context.Context, buyers []model.Buyer) error {
	if len(buyers) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(buyers, 200).Error
}

func (r *buyerRepo) GetByID(ctx context.Context, id int64) (*model.Buyer, error) {
	var buyer model.Buyer
	if err := r.db.WithContext(ctx).First(&buyer, id).Error; err != nil {
		return nil, err
	}
	return &buyer, nil
}

func (r *buyerRepo) GetByIDs(ctx context.Context, ids []int64) ([]model.Buyer, error) {
	var buyers []model.Buyer
	if len(ids) == 0 {
		return buyers, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&buyers).Error
	return buyers, err
}

func (r *buyerRepo) Update(ctx context.Context, buyer *model.Buyer) error {
	return r.db.WithContext(ctx).Save(buyer).Error
}

func (r *buyerRepo) UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).
		Model(&model.Buyer{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *buyerRepo) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&model.Buyer{}, id).Error
}

// HardDelete 物理删除，临时买家合并后走这里
func (r *buyerRepo) HardDelete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Unscoped().Delete(&model.Buyer{}, id).Error
}

func (r *buyerRepo) ListByItem(ctx context.Context, itemID int64, page, pageSize int) ([]model.Buyer, int64, error) {
	var buyers []model.Buyer
	var total int64

	query := r.db.WithContext(ctx).Model(&model.Buyer{}).Where("item_id = ?", itemID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 50
	}

	err := query.
		Order("created_at ASC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&buyers).Error
	return buyers, total, err
}

func (r *buyerRepo) FindTemporaryByAccount(ctx context.Context, itemID int64, normalized string) (*model.Buyer, error) {
	var buyer model.Buyer
	err := r.db.WithContext(ctx).
		Where("item_id = ? AND is_temporary = ? AND account_normalized = ?", itemID, true, normalized).
		First(&buyer).Error
	if err != nil {
		return nil, err
	}
	return &buyer, nil
}

func (r *buyerRepo) ListByToken(ctx context.Context, token string) ([]model.Buyer, error) {
	var buyers []model.Buyer
	err := r.db.WithContext(ctx).
		Joins("JOIN item_slots ON item_slots.buyer_id = buyers.id AND item_slots.deleted_at IS NULL").
		Where("item_slots.upload_link_token = ?", token).
		Order("item_slots.slot_number ASC").
		Find(&buyers).Error
	return buyers, err
}

func (r *buyerRepo) PurgeDeleted(ctx context.Context, before time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Unscoped().
		Where("deleted_at IS NOT NULL AND deleted_at < ?", before).
		Delete(&model.Buyer{})
	return result.RowsAffected, result.Error
}
