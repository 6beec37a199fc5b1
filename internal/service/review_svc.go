package service

import (
	"context"
	"errors"
	"log"
	"time"

	"gorm.io/gorm"

	"revu_farm_v1_202609/internal/model"
	"revu_farm_v1_202609/internal/repository"
	"revu_farm_v1_202609/pkg/apperr"
)

// ==================== ReviewService ====================

// ReviewService 重传审核状态机
// 待审图要么通过（旧图删除、新图转正），要么驳回（新图删除、旧图原样）
type ReviewService struct {
	uow     *repository.FulfillmentUnitOfWork
	storage StorageProvider
}

// NewReviewService 创建审核服务
func NewReviewService(uow *repository.FulfillmentUnitOfWork, storage StorageProvider) *ReviewService {
	return &ReviewService{uow: uow, storage: storage}
}

// ListPending 待审图片列表，itemID 传 0 查全部
func (s *ReviewService) ListPending(ctx context.Context, itemID int64) ([]model.ReviewImage, error) {
	return s.uow.Images.ListPending(ctx, itemID)
}

// getPending 取图并校验在待审状态
func (s *ReviewService) getPending(ctx context.Context, imageID int64) (*model.ReviewImage, error) {
	image, err := s.uow.Images.GetByID(ctx, imageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("图片不存在")
		}
		return nil, err
	}
	if image.Status != model.ImageStatusPending {
		return nil, apperr.NotPending("")
	}
	return image, nil
}

// Approve 通过重传：删旧图、新图转正、买家排期刷新、槽位打重传标记
// 旧图的对象存储清理放在事务提交后，失败只记日志：用户看到的正确性在库里
func (s *ReviewService) Approve(ctx context.Context, imageID int64) error {
	image, err := s.getPending(ctx, imageID)
	if err != nil {
		return err
	}

	var prevKey string
	now := time.Now()

	err = s.uow.Transaction(ctx, func(uow *repository.FulfillmentUnitOfWork) error {
		if image.PreviousImageID != nil {
			prev, err := uow.Images.GetByID(ctx, *image.PreviousImageID)
			if err == nil {
				prevKey = prev.StorageKey
				if err := uow.Images.HardDelete(ctx, prev.ID); err != nil {
					return err
				}
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
		}

		err := uow.Images.UpdateFields(ctx, image.ID, map[string]interface{}{
			"status":            model.ImageStatusApproved,
			"previous_image_id": nil,
		})
		if err != nil {
			return err
		}

		buyer, err := uow.Buyers.GetByID(ctx, image.BuyerID)
		if err != nil {
			return err
		}
		if buyer.PaymentStatus != model.PaymentStatusCompleted {
			err := uow.Buyers.UpdateFields(ctx, buyer.ID, map[string]interface{}{
				"review_submitted_at":   now,
				"expected_payment_date": NextBusinessDay(now),
			})
			if err != nil {
				return err
			}
		}

		// 表格上给这行打个重传标记
		slot, err := uow.Slots.FindByBuyer(ctx, buyer.ID)
		if err == nil {
			err = uow.Slots.UpdateFields(ctx, slot.ID, map[string]interface{}{
				"status": model.SlotStatusResubmitted,
			})
			if err != nil {
				return err
			}
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return nil
	})
	if err != nil {
		return err
	}

	if prevKey != "" {
		if err := s.storage.Delete(ctx, prevKey); err != nil {
			log.Printf("[Review] 旧图对象存储清理失败 key=%s: %v", prevKey, err)
		}
	}
	return nil
}

// Reject 驳回重传：删掉待审图，旧图一个字不动
func (s *ReviewService) Reject(ctx context.Context, imageID int64) error {
	image, err := s.getPending(ctx, imageID)
	if err != nil {
		return err
	}

	if err := s.uow.Images.HardDelete(ctx, image.ID); err != nil {
		return err
	}

	if err := s.storage.Delete(ctx, image.StorageKey); err != nil {
		log.Printf("[Review] 驳回图对象存储清理失败 key=%s: %v", image.StorageKey, err)
	}
	return nil
}

// DeleteImage 运营手动删图（审核流程之外）
// 删的是买家最后一张图时，清掉提交时间、打款排期，槽位状态回 active
func (s *ReviewService) DeleteImage(ctx context.Context, imageID int64) error {
	image, err := s.uow.Images.GetByID(ctx, imageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("图片不存在")
		}
		return err
	}

	err = s.uow.Transaction(ctx, func(uow *repository.FulfillmentUnitOfWork) error {
		if err := uow.Images.HardDelete(ctx, image.ID); err != nil {
			return err
		}

		remaining, err := uow.Images.CountByBuyer(ctx, image.BuyerID)
		if err != nil {
			return err
		}
		if remaining > 0 {
			return nil
		}

		err = uow.Buyers.UpdateFields(ctx, image.BuyerID, map[string]interface{}{
			"review_submitted_at":   nil,
			"expected_payment_date": nil,
		})
		if err != nil {
			return err
		}

		slot, err := uow.Slots.FindByBuyer(ctx, image.BuyerID)
		if err == nil {
			return uow.Slots.UpdateFields(ctx, slot.ID, map[string]interface{}{
				"status": model.SlotStatusActive,
			})
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return nil
	})
	if err != nil {
		return err
	}

	if err := s.storage.Delete(ctx, image.StorageKey); err != nil {
		log.Printf("[Review] 手动删图对象存储清理失败 key=%s: %v", image.StorageKey, err)
	}
	return nil
}
