package service

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"revu_farm_v1_202609/internal/api/dto"
	"revu_farm_v1_202609/internal/model"
	"revu_farm_v1_202609/internal/repository"
	"revu_farm_v1_202609/pkg/apperr"
)

// ==================== SlotService ====================

// SlotService 槽位服务：日结拆分、槽位编辑、暂停
type SlotService struct {
	uow *repository.FulfillmentUnitOfWork
}

// NewSlotService 创建槽位服务
func NewSlotService(uow *repository.FulfillmentUnitOfWork) *SlotService {
	return &SlotService{uow: uow}
}

// ==================== 日结拆分 ====================

// SplitDayGroup 日结：把目标槽位之后的同组槽位全部挪进新日组
// 已处理完的行留在原组，新组拿新口令和独立快照，从此各管各的
func (s *SlotService) SplitDayGroup(ctx context.Context, slotID int64) (*dto.SplitResult, error) {
	target, err := s.uow.Slots.GetByID(ctx, slotID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("槽位不存在")
		}
		return nil, err
	}

	item, err := s.uow.Items.GetByID(ctx, target.ItemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("商品不存在")
		}
		return nil, err
	}

	var result dto.SplitResult

	// 槽位读取与批量改组必须同事务，避免并发编辑的行两头都不挂
	err = s.uow.Transaction(ctx, func(uow *repository.FulfillmentUnitOfWork) error {
		moving, err := uow.Slots.ListTrailing(ctx, target.ItemID, target.DayGroup, target.SlotNumber)
		if err != nil {
			return err
		}
		if len(moving) == 0 {
			// 在最后一行日结：没有可移动的槽位，这是用户操作问题
			return apperr.NoRowsToSplit("")
		}

		snapshot, err := s.effectiveSnapshot(ctx, uow, item, target.DayGroup)
		if err != nil {
			return err
		}

		maxGroup, err := uow.Slots.MaxDayGroup(ctx, target.ItemID)
		if err != nil {
			return err
		}
		newGroup := maxGroup + 1
		newToken := uuid.New().String()

		ids := make([]int64, len(moving))
		for i, slot := range moving {
			ids[i] = slot.ID
		}
		if err := uow.Slots.MoveToGroup(ctx, ids, newGroup, newToken, snapshot); err != nil {
			return err
		}

		mirrored, err := s.mirrorAssignments(ctx, uow, item.CampaignID, target.ItemID, target.DayGroup, newGroup)
		if err != nil {
			return err
		}

		result = dto.SplitResult{
			NewDayGroup:         newGroup,
			MovedCount:          len(moving),
			MirroredAssignments: mirrored,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[Slot] 日结完成 item=%d group=%d -> %d moved=%d",
		target.ItemID, target.DayGroup, result.NewDayGroup, result.MovedCount)
	return &result, nil
}

// effectiveSnapshot 计算日组的有效商品快照
// 组内第一行的人工修改优先于商品默认值，槽位字段为空时回落到商品
func (s *SlotService) effectiveSnapshot(ctx context.Context, uow *repository.FulfillmentUnitOfWork, item *model.Item, dayGroup int) (map[string]interface{}, error) {
	first, err := uow.Slots.FirstOfGroup(ctx, item.ID, dayGroup)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			first = &model.ItemSlot{}
		} else {
			return nil, err
		}
	}

	pick := func(slotVal, itemVal string) string {
		if slotVal != "" {
			return slotVal
		}
		return itemVal
	}

	return map[string]interface{}{
		"product_name":    pick(first.ProductName, item.ProductName),
		"platform":        pick(first.Platform, item.Platform),
		"price":           pick(first.Price, item.Price),
		"keyword":         pick(first.Keyword, item.Keyword),
		"purchase_option": pick(first.PurchaseOption, item.PurchaseOption),
		"is_courier":      first.IsCourier,
		"product_url":     pick(first.ProductURL, item.ProductURL),
		"notes":           pick(first.Notes, item.Notes),
	}, nil
}

// mirrorAssignments 把旧日组的运营分配镜像到新日组，已存在的跳过
func (s *SlotService) mirrorAssignments(ctx context.Context, uow *repository.FulfillmentUnitOfWork, campaignID, itemID int64, oldGroup, newGroup int) (int, error) {
	assignments, err := uow.Assignments.ListByItemGroup(ctx, campaignID, itemID, oldGroup)
	if err != nil {
		return 0, err
	}

	mirrored := 0
	for _, a := range assignments {
		group := newGroup
		exists, err := uow.Assignments.Exists(ctx, campaignID, itemID, &group, a.OperatorID)
		if err != nil {
			return mirrored, err
		}
		if exists {
			continue
		}
		err = uow.Assignments.Create(ctx, &model.CampaignOperatorAssignment{
			CampaignID: campaignID,
			ItemID:     itemID,
			DayGroup:   &group,
			OperatorID: a.OperatorID,
		})
		if err != nil {
			return mirrored, err
		}
		mirrored++
	}
	return mirrored, nil
}

// ==================== 槽位编辑 ====================

// UpdateSlot 槽位编辑：快照字段、状态、买家绑定
func (s *SlotService) UpdateSlot(ctx context.Context, slotID int64, req *dto.UpdateSlotRequest) (*model.ItemSlot, error) {
	slot, err := s.uow.Slots.GetByID(ctx, slotID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("槽位不存在")
		}
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
	setIfPresent(fields, "status", req.Status)
	if req.IsCourier != nil {
		fields["is_courier"] = *req.IsCourier
	}
	if req.BuyerID != nil {
		if *req.BuyerID > 0 {
			buyer, err := s.uow.Buyers.GetByID(ctx, *req.BuyerID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return nil, apperr.NotFound("买家不存在")
				}
				return nil, err
			}
			if buyer.ItemID != slot.ItemID {
				return nil, apperr.InvalidBuyers("买家不属于该商品")
			}
			fields["buyer_id"] = *req.BuyerID
		} else {
			// 传 0 解绑
			fields["buyer_id"] = nil
		}
	}

	if len(fields) > 0 {
		if err := s.uow.Slots.UpdateFields(ctx, slotID, fields); err != nil {
			return nil, err
		}
	}
	return s.uow.Slots.GetByID(ctx, slotID)
}

// SetSuspended 暂停/恢复槽位：不删行，只是踢出分配与完成度统计
func (s *SlotService) SetSuspended(ctx context.Context, slotID int64, suspended bool) error {
	if _, err := s.uow.Slots.GetByID(ctx, slotID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("槽位不存在")
		}
		return err
	}
	return s.uow.Slots.UpdateFields(ctx, slotID, map[string]interface{}{
		"is_suspended": suspended,
	})
}

// DeleteSlot 单槽软删除
func (s *SlotService) DeleteSlot(ctx context.Context, slotID int64) error {
	if _, err := s.uow.Slots.GetByID(ctx, slotID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("槽位不存在")
		}
		return err
	}
	return s.uow.Slots.Delete(ctx, slotID)
}
