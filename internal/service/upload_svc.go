package service

import (
	"context"
	"errors"
	"log"
	"time"

	"gorm.io/gorm"

	"revu_farm_v1_202609/internal/api/dto"
	"revu_farm_v1_202609/internal/model"
	"revu_farm_v1_202609/internal/repository"
	"revu_farm_v1_202609/pkg/apperr"
)

// ==================== UploadService ====================

// UploadFile 一个待上传的评价截图
type UploadFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// UploadService 公开上传口的对账服务
// 买家拿日组口令匿名上传，按位置与买家一一配对
type UploadService struct {
	uow      *repository.FulfillmentUnitOfWork
	storage  StorageProvider
	notifier Notifier
}

// NewUploadService 创建上传服务
func NewUploadService(uow *repository.FulfillmentUnitOfWork, storage StorageProvider, notifier Notifier) *UploadService {
	return &UploadService{uow: uow, storage: storage, notifier: notifier}
}

// ==================== 口令解析 ====================

// resolveToken 口令 -> 日组槽位列表，口令无效按 NotFound 处理
func (s *UploadService) resolveToken(ctx context.Context, token string) ([]model.ItemSlot, error) {
	if token == "" {
		return nil, apperr.NotFound("上传口令无效")
	}
	slots, err := s.uow.Slots.ListByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if len(slots) == 0 {
		return nil, apperr.NotFound("上传口令无效")
	}
	return slots, nil
}

// GetGroupInfo 上传页展示的日组信息
func (s *UploadService) GetGroupInfo(ctx context.Context, token string) (*dto.GroupInfoResp, error) {
	slots, err := s.resolveToken(ctx, token)
	if err != nil {
		return nil, err
	}
	first := slots[0]
	return &dto.GroupInfoResp{
		ItemID:      first.ItemID,
		DayGroup:    first.DayGroup,
		ProductName: first.ProductName,
		Platform:    first.Platform,
		Keyword:     first.Keyword,
		SlotCount:   len(slots),
	}, nil
}

// ==================== 上传对账 ====================

// Reconcile 按 (买家, 文件) 位置配对建图
// 先全部写对象存储，再一个事务写库：存储失败整单中止，库里不会出现指向缺失文件的行
func (s *UploadService) Reconcile(ctx context.Context, token string, buyerIDs []int64, files []UploadFile) (*dto.ReconcileResult, error) {
	slots, err := s.resolveToken(ctx, token)
	if err != nil {
		return nil, err
	}
	itemID := slots[0].ItemID

	if len(buyerIDs) == 0 || len(buyerIDs) != len(files) {
		return nil, apperr.InvalidInput("买家与文件必须一一配对")
	}

	item, err := s.uow.Items.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	buyerMap, err := s.loadBuyers(ctx, itemID, buyerIDs)
	if err != nil {
		return nil, err
	}

	// 1. 先写对象存储。任何一个失败就整单放弃，数据库一个字都不动
	type storedFile struct {
		url string
		key string
	}
	stored := make([]storedFile, len(files))
	for i, f := range files {
		url, key, err := s.storage.Upload(ctx, f.Data, f.Filename, f.ContentType)
		if err != nil {
			return nil, apperr.StorageFailure("").WithCause(err)
		}
		stored[i] = storedFile{url: url, key: key}
	}

	// 2. 一个事务里按位置建图、改买家
	now := time.Now()
	result := &dto.ReconcileResult{
		Uploaded:    []dto.ImageResp{},
		Resubmitted: []dto.ImageResp{},
	}

	err = s.uow.Transaction(ctx, func(uow *repository.FulfillmentUnitOfWork) error {
		// 同一次调用里同一买家连传多张时，后一张要接着前一张的链
		latestInCall := make(map[int64]*model.ReviewImage)

		for i, buyerID := range buyerIDs {
			buyer := buyerMap[buyerID]

			prev := latestInCall[buyerID]
			if prev == nil {
				latest, err := uow.Images.LatestByBuyer(ctx, buyerID)
				if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
					return err
				}
				prev = latest
			}

			if prev == nil {
				// 首传：直接生效
				image := &model.ReviewImage{
					BuyerID:    buyerID,
					ItemID:     itemID,
					URL:        stored[i].url,
					StorageKey: stored[i].key,
					Status:     model.ImageStatusApproved,
				}
				if err := uow.Images.Create(ctx, image); err != nil {
					return err
				}
				latestInCall[buyerID] = image
				result.Uploaded = append(result.Uploaded, toImageResp(image))

				// 首传无条件刷新提交时间和预计打款日
				err := uow.Buyers.UpdateFields(ctx, buyerID, map[string]interface{}{
					"review_submitted_at":   now,
					"expected_payment_date": NextBusinessDay(now),
				})
				if err != nil {
					return err
				}
				continue
			}

			// 已有待审图片时拒绝再建，买家同一时刻最多一张待审
			if prev.Status == model.ImageStatusPending {
				return apperr.InvalidInput("该买家已有待审图片，请先等待审核")
			}

			// 重传：建待审图并指向被替换的那张
			resubmittedAt := now
			image := &model.ReviewImage{
				BuyerID:         buyerID,
				ItemID:          itemID,
				URL:             stored[i].url,
				StorageKey:      stored[i].key,
				Status:          model.ImageStatusPending,
				PreviousImageID: &prev.ID,
				ResubmittedAt:   &resubmittedAt,
			}
			if err := uow.Images.Create(ctx, image); err != nil {
				return err
			}
			latestInCall[buyerID] = image
			result.Resubmitted = append(result.Resubmitted, toImageResp(image))

			// 已打款的买家，重传不能动打款排期
			if buyer.PaymentStatus != model.PaymentStatusCompleted {
				err := uow.Buyers.UpdateFields(ctx, buyerID, map[string]interface{}{
					"review_submitted_at":   now,
					"expected_payment_date": NextBusinessDay(now),
				})
				if err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// 3. 通知尽力而为，失败不影响本次上传
	s.notifyAfterReconcile(ctx, item, result)

	return result, nil
}

// loadBuyers 校验去重后的买家都属于本商品且不是临时买家
func (s *UploadService) loadBuyers(ctx context.Context, itemID int64, buyerIDs []int64) (map[int64]*model.Buyer, error) {
	distinct := make([]int64, 0, len(buyerIDs))
	seen := make(map[int64]bool, len(buyerIDs))
	for _, id := range buyerIDs {
		if !seen[id] {
			seen[id] = true
			distinct = append(distinct, id)
		}
	}

	buyers, err := s.uow.Buyers.GetByIDs(ctx, distinct)
	if err != nil {
		return nil, err
	}

	buyerMap := make(map[int64]*model.Buyer, len(buyers))
	for i := range buyers {
		buyerMap[buyers[i].ID] = &buyers[i]
	}

	for _, id := range distinct {
		buyer, ok := buyerMap[id]
		if !ok {
			return nil, apperr.InvalidBuyers("买家不存在或不属于该商品")
		}
		if buyer.ItemID != itemID {
			return nil, apperr.InvalidBuyers("买家不属于该商品")
		}
		if buyer.IsTemporary {
			return nil, apperr.InvalidBuyers("临时买家不能走正式上传")
		}
	}
	return buyerMap, nil
}

// notifyAfterReconcile 目标达成只通知一次；重传按调用次数通知，不按张数
func (s *UploadService) notifyAfterReconcile(ctx context.Context, item *model.Item, result *dto.ReconcileResult) {
	if len(result.Uploaded) > 0 && item.TotalCount > 0 && item.TargetNotifiedAt == nil {
		approved, err := s.uow.Images.CountApprovedByItem(ctx, item.ID)
		if err != nil {
			log.Printf("[Upload] 统计已生效评价失败 item=%d: %v", item.ID, err)
		} else if approved >= int64(item.TotalCount) {
			now := time.Now()
			err := s.uow.Items.UpdateFields(ctx, item.ID, map[string]interface{}{
				"target_notified_at": now,
			})
			if err != nil {
				log.Printf("[Upload] 记录目标达成时间失败 item=%d: %v", item.ID, err)
			} else {
				s.notifier.NotifyTargetReached(ctx, item)
			}
		}
	}

	if len(result.Resubmitted) > 0 {
		s.notifier.NotifyResubmission(ctx, item, len(result.Resubmitted))
	}
}

// ==================== 预上传 ====================

// PreUpload 运营还没录单、买家先传图的口子
// 产生一个临时买家挂住图片，等运营按账号录单时由合并流程收编
func (s *UploadService) PreUpload(ctx context.Context, token, name, accountInfo string, file UploadFile) (*dto.ImageResp, error) {
	slots, err := s.resolveToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if name == "" || accountInfo == "" {
		return nil, apperr.InvalidInput("姓名和打款账号不能为空")
	}
	itemID := slots[0].ItemID

	url, key, err := s.storage.Upload(ctx, file.Data, file.Filename, file.ContentType)
	if err != nil {
		return nil, apperr.StorageFailure("").WithCause(err)
	}

	now := time.Now()
	var resp dto.ImageResp

	err = s.uow.Transaction(ctx, func(uow *repository.FulfillmentUnitOfWork) error {
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
		if err := uow.Buyers.Create(ctx, buyer); err != nil {
			return err
		}

		image := &model.ReviewImage{
			BuyerID:    buyer.ID,
			ItemID:     itemID,
			URL:        url,
			StorageKey: key,
			Status:     model.ImageStatusApproved,
		}
		if err := uow.Images.Create(ctx, image); err != nil {
			return err
		}

		err := uow.Buyers.UpdateFields(ctx, buyer.ID, map[string]interface{}{
			"review_submitted_at":   now,
			"expected_payment_date": NextBusinessDay(now),
		})
		if err != nil {
			return err
		}

		resp = toImageResp(image)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// ==================== 按姓名找槽 ====================

// FindBuyersByName 上传页“找我的行”：
// 从账号原文提取末尾人名，与查询串精确比对；已有图的也照样返回
func (s *UploadService) FindBuyersByName(ctx context.Context, token, name string) ([]dto.BuyerCandidate, error) {
	if name == "" {
		return nil, apperr.InvalidInput("姓名不能为空")
	}
	if _, err := s.resolveToken(ctx, token); err != nil {
		return nil, err
	}

	buyers, err := s.uow.Buyers.ListByToken(ctx, token)
	if err != nil {
		return nil, err
	}

	candidates := make([]dto.BuyerCandidate, 0, 2)
	for _, buyer := range buyers {
		if ExtractAccountName(buyer.AccountInfo) != name {
			continue
		}
		count, err := s.uow.Images.CountByBuyer(ctx, buyer.ID)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, dto.BuyerCandidate{
			BuyerID:  buyer.ID,
			Name:     buyer.Name,
			OrderNo:  buyer.OrderNo,
			HasImage: count > 0,
		})
	}
	return candidates, nil
}

// ==================== 工具 ====================

// NextBusinessDay 下一个工作日（跳过周六日）
func NextBusinessDay(t time.Time) time.Time {
	next := t.AddDate(0, 0, 1)
	for next.Weekday() == time.Saturday || next.Weekday() == time.Sunday {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

func toImageResp(image *model.ReviewImage) dto.ImageResp {
	return dto.ImageResp{
		ID:              image.ID,
		BuyerID:         image.BuyerID,
		URL:             image.URL,
		Status:          image.Status,
		PreviousImageID: image.PreviousImageID,
		ResubmittedAt:   image.ResubmittedAt,
	}
}
