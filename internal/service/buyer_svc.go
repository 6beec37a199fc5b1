package service

import (
	"context"
	"errors"
	"log"

	"gorm.io/gorm"

	"revu_farm_v1_202609/internal/api/dto"
	"revu_farm_v1_202609/internal/model"
	"revu_farm_v1_202609/internal/repository"
	"revu_farm_v1_202609/pkg/apperr"
)

// ==================== BuyerService ====================

// BuyerService 买家服务：录入、批量导入、临时买家合并
type BuyerService struct {
	uow *repository.FulfillmentUnitOfWork
}

// NewBuyerService 创建买家服务
func NewBuyerService(uow *repository.FulfillmentUnitOfWork) *BuyerService {
	return &BuyerService{uow: uow}
}

// CreateBuyer 录入正式买家
// 同商品里有同账号的临时买家时当场合并：图片改挂到新买家，临时行销毁
func (s *BuyerService) CreateBuyer(ctx context.Context, req *dto.CreateBuyerRequest) (*model.Buyer, error) {
	if _, err := s.uow.Items.GetByID(ctx, req.ItemID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("商品不存在")
		}
		return nil, err
	}

	buyer := buildBuyer(req)

	err := s.uow.Transaction(ctx, func(uow *repository.FulfillmentUnitOfWork) error {
		if err := uow.Buyers.Create(ctx, buyer); err != nil {
			return err
		}
		if err := s.mergeTemporary(ctx, uow, buyer); err != nil {
			return err
		}
		if req.SlotID != nil {
			return s.bindSlot(ctx, uow, buyer, *req.SlotID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return buyer, nil
}

// ImportBuyers 批量导入买家，逐条跑同样的建档+合并逻辑
func (s *BuyerService) ImportBuyers(ctx context.Context, req *dto.ImportBuyersRequest) ([]model.Buyer, error) {
	if _, err := s.uow.Items.GetByID(ctx, req.ItemID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("商品不存在")
		}
		return nil, err
	}
	if len(req.Buyers) == 0 {
		return nil, apperr.InvalidInput("导入列表为空")
	}

	created := make([]model.Buyer, 0, len(req.Buyers))
	err := s.uow.Transaction(ctx, func(uow *repository.FulfillmentUnitOfWork) error {
		for i := range req.Buyers {
			row := req.Buyers[i]
			row.ItemID = req.ItemID
			buyer := buildBuyer(&row)
			if err := uow.Buyers.Create(ctx, buyer); err != nil {
				return err
			}
			if err := s.mergeTemporary(ctx, uow, buyer); err != nil {
				return err
			}
			created = append(created, *buyer)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// CreateTemporaryBuyer 预上传产生的临时买家（运营还没录单）
func (s *BuyerService) CreateTemporaryBuyer(ctx context.Context, itemID int64, name, accountInfo string) (*model.Buyer, error) {
	buyer := &model.Buyer{
		ItemID:        itemID,
		Name:          name,
		AccountInfo:   accountInfo,
		IsTemporary:   true,
		PaymentStatus: model.PaymentStatusPending,
	}
	if normalized, ok := NormalizeAccount(accountInfo); ok {
		buyer.AccountNormalized = &normalized
	}
	if err := s.uow.Buyers.Create(ctx, buyer); err != nil {
		return nil, err
	}
	return buyer, nil
}

// GetBuyer 买家详情
func (s *BuyerService) GetBuyer(ctx context.Context, id int64) (*model.Buyer, error) {
	buyer, err := s.uow.Buyers.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("买家不存在")
		}
		return nil, err
	}
	return buyer, nil
}

// ListBuyers 商品买家列表
func (s *BuyerService) ListBuyers(ctx context.Context, itemID int64, page, pageSize int) ([]model.Buyer, int64, error) {
	return s.uow.Buyers.ListByItem(ctx, itemID, page, pageSize)
}

// UpdateBuyer 修改买家，账号原文变了就重算归一化账号
func (s *BuyerService) UpdateBuyer(ctx context.Context, id int64, req *dto.UpdateBuyerRequest) (*model.Buyer, error) {
	if _, err := s.GetBuyer(ctx, id); err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	setIfPresent(fields, "order_no", req.OrderNo)
	setIfPresent(fields, "name", req.Name)
	setIfPresent(fields, "recipient", req.Recipient)
	setIfPresent(fields, "external_user_id", req.ExternalUserID)
	setIfPresent(fields, "contact", req.Contact)
	setIfPresent(fields, "address", req.Address)
	setIfPresent(fields, "payment_status", req.PaymentStatus)
	if req.AccountInfo != nil {
		fields["account_info"] = *req.AccountInfo
		if normalized, ok := NormalizeAccount(*req.AccountInfo); ok {
			fields["account_normalized"] = normalized
		} else {
			fields["account_normalized"] = nil
		}
	}

	if len(fields) > 0 {
		if err := s.uow.Buyers.UpdateFields(ctx, id, fields); err != nil {
			return nil, err
		}
	}
	return s.GetBuyer(ctx, id)
}

// DeleteBuyer 软删除买家并解绑其槽位
func (s *BuyerService) DeleteBuyer(ctx context.Context, id int64) error {
	if _, err := s.GetBuyer(ctx, id); err != nil {
		return err
	}
	return s.uow.Transaction(ctx, func(uow *repository.FulfillmentUnitOfWork) error {
		slot, err := uow.Slots.FindByBuyer(ctx, id)
		if err == nil {
			unbind := map[string]interface{}{"buyer_id": nil}
			if err := uow.Slots.UpdateFields(ctx, slot.ID, unbind); err != nil {
				return err
			}
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return uow.Buyers.Delete(ctx, id)
	})
}

// ==================== 临时买家合并 ====================

// mergeTemporary 新正式买家入库后找同账号的临时买家收编
// 买家先传图、运营后录单的场景靠这里静默接上
func (s *BuyerService) mergeTemporary(ctx context.Context, uow *repository.FulfillmentUnitOfWork, buyer *model.Buyer) error {
	if buyer.IsTemporary || buyer.AccountNormalized == nil {
		return nil
	}

	temp, err := uow.Buyers.FindTemporaryByAccount(ctx, buyer.ItemID, *buyer.AccountNormalized)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	if err := uow.Images.Reparent(ctx, temp.ID, buyer.ID); err != nil {
		return err
	}
	if err := uow.Buyers.HardDelete(ctx, temp.ID); err != nil {
		return err
	}

	// 临时买家的提交时间跟着图片走到新买家
	if temp.ReviewSubmittedAt != nil {
		err := uow.Buyers.UpdateFields(ctx, buyer.ID, map[string]interface{}{
			"review_submitted_at":   temp.ReviewSubmittedAt,
			"expected_payment_date": temp.ExpectedPaymentDate,
		})
		if err != nil {
			return err
		}
	}

	log.Printf("[Buyer] 临时买家已合并 temp=%d -> buyer=%d item=%d", temp.ID, buyer.ID, buyer.ItemID)
	return nil
}

// bindSlot 建档时直接绑槽
func (s *BuyerService) bindSlot(ctx context.Context, uow *repository.FulfillmentUnitOfWork, buyer *model.Buyer, slotID int64) error {
	slot, err := uow.Slots.GetByID(ctx, slotID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("槽位不存在")
		}
		return err
	}
	if slot.ItemID != buyer.ItemID {
		return apperr.InvalidInput("槽位不属于该商品")
	}
	return uow.Slots.UpdateFields(ctx, slotID, map[string]interface{}{
		"buyer_id": buyer.ID,
	})
}

func buildBuyer(req *dto.CreateBuyerRequest) *model.Buyer {
	buyer := &model.Buyer{
		ItemID:         req.ItemID,
		OrderNo:        req.OrderNo,
		Name:           req.Name,
		Recipient:      req.Recipient,
		ExternalUserID: req.ExternalUserID,
		Contact:        req.Contact,
		Address:        req.Address,
		AccountInfo:    req.AccountInfo,
		PaymentStatus:  model.PaymentStatusPending,
	}
	if normalized, ok := NormalizeAccount(req.AccountInfo); ok {
		buyer.AccountNormalized = &normalized
	}
	return buyer
}
