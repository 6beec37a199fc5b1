package service

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"revu_farm_v1_202609/internal/api/dto"
	"revu_farm_v1_202609/internal/model"
	"revu_farm_v1_202609/internal/repository"
	"revu_farm_v1_202609/pkg/apperr"
)

// ==================== ItemService ====================

// ItemService 商品服务：创建时排槽，删除时级联
type ItemService struct {
	uow          *repository.FulfillmentUnitOfWork
	campaignRepo repository.CampaignRepository
}

// NewItemService 创建商品服务
func NewItemService(uow *repository.FulfillmentUnitOfWork, campaignRepo repository.CampaignRepository) *ItemService {
	return &ItemService{uow: uow, campaignRepo: campaignRepo}
}

// CreateItem 创建商品并立即生成槽位（同一事务）
// total=0 的商品没有履约工作，不生成槽位
func (s *ItemService) CreateItem(ctx context.Context, req *dto.CreateItemRequest) (*model.Item, error) {
	if _, err := s.campaignRepo.GetByID(ctx, req.CampaignID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("活动不存在")
		}
		return nil, err
	}

	total := ParseTotalCount(req.TotalPurchaseCount)
	daily := ParseDailyCounts(req.DailyPurchaseCount)

	plan := make(pq.Int64Array, len(daily))
	for i, n := range daily {
		plan[i] = int64(n)
	}

	item := &model.Item{
		CampaignID:         req.CampaignID,
		TotalPurchaseCount: req.TotalPurchaseCount,
		DailyPurchaseCount: req.DailyPurchaseCount,
		TotalCount:         total,
		DailyPlan:          plan,
		ProductName:        req.ProductName,
		Platform:           req.Platform,
		Price:              req.Price,
		Keyword:            req.Keyword,
		PurchaseOption:     req.PurchaseOption,
		IsCourier:          req.IsCourier,
		ProductURL:         req.ProductURL,
		Notes:              req.Notes,
	}

	err := s.uow.Transaction(ctx, func(uow *repository.FulfillmentUnitOfWork) error {
		if err := uow.Items.Create(ctx, item); err != nil {
			return err
		}
		slots := BuildSlots(item, func() string { return uuid.New().String() })
		return uow.Slots.CreateBatch(ctx, slots)
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[Item] 商品已创建 id=%d total=%d groups=%d", item.ID, total, len(plan))
	return item, nil
}

// GetItem 商品详情
func (s *ItemService) GetItem(ctx context.Context, id int64) (*model.Item, error) {
	item, err := s.uow.Items.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("商品不存在")
		}
		return nil, err
	}
	return item, nil
}

// ListItems 商品列表
func (s *ItemService) ListItems(ctx context.Context, req *dto.ListItemsRequest) ([]model.Item, int64, error) {
	return s.uow.Items.List(ctx, repository.ItemFilter{
		CampaignID: req.CampaignID,
		Platform:   req.Platform,
		Keyword:    req.Keyword,
		Page:       req.Page,
		PageSize:   req.PageSize,
	})
}

// UpdateItem 修改商品信息
// 只改 Item 本身：已生成槽位的快照各日组独立维护，不回写
func (s *ItemService) UpdateItem(ctx context.Context, id int64, req *dto.UpdateItemRequest) (*model.Item, error) {
	if _, err := s.GetItem(ctx, id); err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	setIfPresent(fields, "product_name", req.ProductName)
	setIfPresent(fields, "platform", req.Platform)
	setIfPresent(fields, "price", req.Price)
	setIfPresent(fields, "keyword", req.Keyword)
	setIfPresent(fields, "purchase_option", req.PurchaseOption)
	setIfPresent(fields, "product_url", req.ProductURL)
	setIfPresent(fields, "notes", req.Notes)
	if req.IsCourier != nil {
		fields["is_courier"] = *req.IsCourier
	}

	if len(fields) > 0 {
		if err := s.uow.Items.UpdateFields(ctx, id, fields); err != nil {
			return nil, err
		}
	}
	return s.GetItem(ctx, id)
}

// DeleteItem 软删除商品，槽位/买家/图片级联软删
func (s *ItemService) DeleteItem(ctx context.Context, id int64) error {
	if _, err := s.GetItem(ctx, id); err != nil {
		return err
	}
	return s.uow.Items.Delete(ctx, id)
}

// ListSlots 商品槽位列表（表格渲染用）
func (s *ItemService) ListSlots(ctx context.Context, itemID int64) ([]model.ItemSlot, error) {
	if _, err := s.GetItem(ctx, itemID); err != nil {
		return nil, err
	}
	return s.uow.Slots.ListByItem(ctx, itemID)
}

func setIfPresent(fields map[string]interface{}, column string, value *string) {
	if value != nil {
		fields[column] = *value
	}
}
