package repository

import (
	"context"

	"gorm.io/gorm"

	"revu_farm_v1_202609/internal/model"
)

// CampaignRepository 活动仓储接口
type CampaignRepository interface {
	Create(ctx context.Context, campaign *model.Campaign) error
	GetByID(ctx context.Context, id int64) (*model.Campaign, error)
	Update(ctx context.Context, campaign *model.Campaign) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, keyword string, page, pageSize int) ([]model.Campaign, int64, error)
}

type campaignRepo struct {
	db *gorm.DB
}

// NewCampaignRepository 创建活动仓储
func NewCampaignRepository(db *gorm.DB) CampaignRepository {
	return &campaignRepo{db: db}
}

func (r *campaignRepo) Create(ctx context.Context, campaign *model.Campaign) error {
	return r.db.WithContext(ctx).Create(campaign).Error
}

func (r *campaignRepo) GetByID(ctx context.Context, id int64) (*model.Campaign, error) {
	var campaign model.Campaign
	err := r.db.WithContext(ctx).
		Preload("Items").
		First(&campaign, id).Error
	if err != nil {
		return nil, err
	}
	return &campaign, nil
}

func (r *campaignRepo) Update(ctx context.Context, campaign *model.Campaign) error {
	return r.db.WithContext(ctx).Save(campaign).Error
}

func (r *campaignRepo) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&model.Campaign{}, id).Error
}

func (r *campaignRepo) List(ctx context.Context, keyword string, page, pageSize int) ([]model.Campaign, int64, error) {
	var campaigns []model.Campaign
	var total int64

	query := r.db.WithContext(ctx).Model(&model.Campaign{})
	if keyword != "" {
		query = query.Where("name LIKE ? OR brand_name LIKE ?", "%"+keyword+"%", "%"+keyword+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}

	err := query.
		Order("created_at DESC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&campaigns).Error
	return campaigns, total, err
}
