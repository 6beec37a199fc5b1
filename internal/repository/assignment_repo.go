package repository

import (
	"context"

	"gorm.io/gorm"

	"revu_farm_v1_202609/internal/model"
)

// ==================== 接口定义 ====================

// AssignmentRepository 运营分配仓储接口
type AssignmentRepository interface {
	Create(ctx context.Context, a *model.CampaignOperatorAssignment) error
	Delete(ctx context.Context, id int64) error
	ListByItemGroup(ctx context.Context, campaignID, itemID int64, dayGroup int) ([]model.CampaignOperatorAssignment, error)
	ListByOperator(ctx context.Context, operatorID int64) ([]model.CampaignOperatorAssignment, error)

	// Exists 查同一 (campaign, item, day_group, operator) 是否已分配
	Exists(ctx context.Context, campaignID, itemID int64, dayGroup *int, operatorID int64) (bool, error)

	WithTx(tx *gorm.DB) AssignmentRepository
}

// ==================== 仓储实现 ====================

type assignmentRepo struct {
	db *gorm.DB
}

// NewAssignmentRepository 创建运营分配仓储
func NewAssignmentRepository(db *gorm.DB) AssignmentRepository {
	return &assignmentRepo{db: db}
}

func (r *assignmentRepo) WithTx(tx *gorm.DB) AssignmentRepository {
	return &assignmentRepo{db: tx}
}

func (r *assignmentRepo) Create(ctx context.Context, a *model.CampaignOperatorAssignment) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *assignmentRepo) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&model.CampaignOperatorAssignment{}, id).Error
}

// ListByItemGroup 取某日组的分配记录，dayGroup 传 0 时取整商品级（day_group IS NULL）
func (r *assignmentRepo) ListByItemGroup(ctx context.Context, campaignID, itemID int64, dayGroup int) ([]model.CampaignOperatorAssignment, error) {
	var list []model.CampaignOperatorAssignment
	query := r.db.WithContext(ctx).
		Where("campaign_id = ? AND item_id = ?", campaignID, itemID)
	if dayGroup > 0 {
		query = query.Where("day_group = ?", dayGroup)
	} else {
		query = query.Where("day_group IS NULL")
	}
	err := query.Find(&list).Error
	return list, err
}

func (r *assignmentRepo) ListByOperator(ctx context.Context, operatorID int64) ([]model.CampaignOperatorAssignment, error) {
	var list []model.CampaignOperatorAssignment
	err := r.db.WithContext(ctx).
		Where("operator_id = ?", operatorID).
		Find(&list).Error
	return list, err
}

func (r *assignmentRepo) Exists(ctx context.Context, campaignID, itemID int64, dayGroup *int, operatorID int64) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).
		Model(&model.CampaignOperatorAssignment{}).
		Where("campaign_id = ? AND item_id = ? AND operator_id = ?", campaignID, itemID, operatorID)
	if dayGroup == nil {
		query = query.Where("day_group IS NULL")
	} else {
		query = query.Where("day_group = ?", *dayGroup)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
