package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"revu_farm_v1_202609/internal/model"
)

// ==================== 接口定义 ====================

// SlotRepository 槽位仓储接口
type SlotRepository interface {
	CreateBatch(ctx context.Context, slots []model.ItemSlot) error
	GetByID(ctx context.Context, id int64) (*model.ItemSlot, error)
	Update(ctx context.Context, slot *model.ItemSlot) error
	UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error
	Delete(ctx context.Context, id int64) error

	// ListByToken 按上传口令取整个日组的槽位，按 slot_number 排序
	ListByToken(ctx context.Context, token string) ([]model.ItemSlot, error)
	ListByItem(ctx context.Context, itemID int64) ([]model.ItemSlot, error)
	ListByItemGroup(ctx context.Context, itemID int64, dayGroup int) ([]model.ItemSlot, error)

	// FirstOfGroup 取日组第一条槽位（快照基准行）
	FirstOfGroup(ctx context.Context, itemID int64, dayGroup int) (*model.ItemSlot, error)

	// ListTrailing 取同组 slot_number 大于 afterNo 的槽位，日结的移动对象
	ListTrailing(ctx context.Context, itemID int64, dayGroup, afterNo int) ([]model.ItemSlot, error)

	// MaxDayGroup 取商品当前最大日组号，无槽位时返回 0
	MaxDayGroup(ctx context.Context, itemID int64) (int, error)

	// MoveToGroup 把一批槽位改到新日组，换口令并覆盖快照字段
	MoveToGroup(ctx context.Context, ids []int64, newGroup int, token string, snapshot map[string]interface{}) error

	// FindByBuyer 按买家找其占用的槽位
	FindByBuyer(ctx context.Context, buyerID int64) (*model.ItemSlot, error)

	PurgeDeleted(ctx context.Context, before time.Time) (int64, error)

	WithTx(tx *gorm.DB) SlotRepository
}

// ==================== 仓储实现 ====================

type slotRepo struct {
	db *gorm.DB
}

// NewSlotRepository 创建槽位仓储
func NewSlotRepository(db *gorm.DB) SlotRepository {
	return &slotRepo{db: db}
}

func (r *slotRepo) WithTx(tx *gorm.DB) SlotRepository {
	return &slotRepo{db: tx}
}

func (r *slotRepo) CreateBatch(ctx context.Context, slots []model.ItemSlot) error {
	if len(slots) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(slots, 200).Error
}

func (r *slotRepo) GetByID(ctx context.Context, id int64) (*model.ItemSlot, error) {
	var slot model.ItemSlot
	if err := r.db.WithContext(ctx).First(&slot, id).Error; err != nil {
		return nil, err
	}
	return &slot, nil
}

func (r *slotRepo) Update(ctx context.Context, slot *model.ItemSlot) error {
	return r.db.WithContext(ctx).Save(slot).Error
}

func (r *slotRepo) UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).
		Model(&model.ItemSlot{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *slotRepo) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&model.ItemSlot{}, id).Error
}

func (r *slotRepo) ListByToken(ctx context.Context, token string) ([]model.ItemSlot, error) {
	var slots []model.ItemSlot
	err := r.db.WithContext(ctx).
		Where("upload_link_token = ?", token).
		Order("slot_number ASC").
		Find(&slots).Error
	return slots, err
}

func (r *slotRepo) ListByItem(ctx context.Context, itemID int64) ([]model.ItemSlot, error) {
	var slots []model.ItemSlot
	err := r.db.WithContext(ctx).
		Where("item_id = ?", itemID).
		Order("day_group ASC, slot_number ASC").
		Find(&slots).Error
	return slots, err
}

func (r *slotRepo) ListByItemGroup(ctx context.Context, itemID int64, dayGroup int) ([]model.ItemSlot, error) {
	var slots []model.ItemSlot
	err := r.db.WithContext(ctx).
		Where("item_id = ? AND day_group = ?", itemID, dayGroup).
		Order("slot_number ASC").
		Find(&slots).Error
	return slots, err
}

func (r *slotRepo) FirstOfGroup(ctx context.Context, itemID int64, dayGroup int) (*model.ItemSlot, error) {
	var slot model.ItemSlot
	err := r.db.WithContext(ctx).
		Where("item_id = ? AND day_group = ?", itemID, dayGroup).
		Order("slot_number ASC").
		First(&slot).Error
	if err != nil {
		return nil, err
	}
	return &slot, nil
}

func (r *slotRepo) ListTrailing(ctx context.Context, itemID int64, dayGroup, afterNo int) ([]model.ItemSlot, error) {
	var slots []model.ItemSlot
	err := r.db.WithContext(ctx).
		Where("item_id = ? AND day_group = ? AND slot_number > ?", itemID, dayGroup, afterNo).
		Order("slot_number ASC").
		Find(&slots).Error
	return slots, err
}

func (r *slotRepo) MaxDayGroup(ctx context.Context, itemID int64) (int, error) {
	var max *int
	err := r.db.WithContext(ctx).
		Model(&model.ItemSlot{}).
		Where("item_id = ?", itemID).
		Select("MAX(day_group)").
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	if max == nil {
		return 0, nil
	}
	return *max, nil
}

func (r *slotRepo) MoveToGroup(ctx context.Context, ids []int64, newGroup int, token string, snapshot map[string]interface{}) error {
	if len(ids) == 0 {
		return nil
	}
	fields := map[string]interface{}{
		"day_group":         newGroup,
		"upload_link_token": token,
	}
	for k, v := range snapshot {
		fields[k] = v
	}
	return r.db.WithContext(ctx).
		Model(&model.ItemSlot{}).
		Where("id IN ?", ids).
		Updates(fields).Error
}

func (r *slotRepo) FindByBuyer(ctx context.Context, buyerID int64) (*model.ItemSlot, error) {
	var slot model.ItemSlot
	err := r.db.WithContext(ctx).
		Where("buyer_id = ?", buyerID).
		First(&slot).Error
	if err != nil {
		return nil, err
	}
	return &slot, nil
}

func (r *slotRepo) PurgeDeleted(ctx context.Context, before time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Unscoped().
		Where("deleted_at IS NOT NULL AND deleted_at < ?", before).
		Delete(&model.ItemSlot{})
	return result.RowsAffected, result.Error
}
