package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/go-resty/resty/v2"
	"gorm.io/datatypes"

	"revu_farm_v1_202609/internal/model"
	"revu_farm_v1_202609/internal/repository"
)

// ==================== 依赖接口 ====================

// Notifier 通知出口
// 通知永远是尽力而为：失败只记日志，绝不影响主流程
type Notifier interface {
	// NotifyTargetReached 商品收满目标评价数，通知品牌方
	NotifyTargetReached(ctx context.Context, item *model.Item)

	// NotifyResubmission 有 count 张重传待审，通知全部管理员（一次调用只发一轮）
	NotifyResubmission(ctx context.Context, item *model.Item, count int)
}

// ==================== NotificationService ====================

// NotificationService 站内通知 + 品牌方 webhook 推送
type NotificationService struct {
	userRepo     repository.UserRepository
	notifyRepo   repository.NotificationRepository
	campaignRepo repository.CampaignRepository
	client       *resty.Client
}

// NewNotificationService 创建通知服务
func NewNotificationService(
	userRepo repository.UserRepository,
	notifyRepo repository.NotificationRepository,
	campaignRepo repository.CampaignRepository,
) *NotificationService {
	client := resty.New()
	client.SetTimeout(5 * time.Second)
	client.SetRetryCount(1)

	return &NotificationService{
		userRepo:     userRepo,
		notifyRepo:   notifyRepo,
		campaignRepo: campaignRepo,
		client:       client,
	}
}

// NotifyTargetReached 目标达成：给品牌方 webhook 推一条，管理员也留站内通知
func (s *NotificationService) NotifyTargetReached(ctx context.Context, item *model.Item) {
	payload, _ := json.Marshal(map[string]interface{}{
		"item_id":      item.ID,
		"product_name": item.ProductName,
		"total_count":  item.TotalCount,
	})

	if err := s.fanoutToAdmins(ctx, model.NotifyTypeTargetReached, item.ID, payload); err != nil {
		log.Printf("[Notify] 目标达成站内通知写入失败 item=%d: %v", item.ID, err)
	}

	campaign, err := s.campaignRepo.GetByID(ctx, item.CampaignID)
	if err != nil {
		log.Printf("[Notify] 查询活动失败 campaign=%d: %v", item.CampaignID, err)
		return
	}
	if campaign.WebhookURL == "" {
		return
	}

	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]interface{}{
			"event":        model.NotifyTypeTargetReached,
			"brand":        campaign.BrandName,
			"item_id":      item.ID,
			"product_name": item.ProductName,
			"total_count":  item.TotalCount,
		}).
		Post(campaign.WebhookURL)
	if err != nil {
		log.Printf("[Notify] 品牌方 webhook 推送失败 item=%d: %v", item.ID, err)
		return
	}
	if resp.StatusCode() >= 300 {
		log.Printf("[Notify] 品牌方 webhook 返回异常 item=%d status=%d", item.ID, resp.StatusCode())
	}
}

// NotifyResubmission 重传待审：给所有管理员发站内通知
func (s *NotificationService) NotifyResubmission(ctx context.Context, item *model.Item, count int) {
	payload, _ := json.Marshal(map[string]interface{}{
		"item_id":       item.ID,
		"product_name":  item.ProductName,
		"pending_count": count,
		"message":       fmt.Sprintf("%s: %d건의 재업로드 승인 대기", item.ProductName, count),
	})

	if err := s.fanoutToAdmins(ctx, model.NotifyTypeResubmission, item.ID, payload); err != nil {
		log.Printf("[Notify] 重传站内通知写入失败 item=%d: %v", item.ID, err)
	}
}

// ListMyNotifications 当前用户的站内通知
func (s *NotificationService) ListMyNotifications(ctx context.Context, recipientID int64, onlyUnread bool, limit int) ([]model.Notification, error) {
	return s.notifyRepo.ListByRecipient(ctx, recipientID, onlyUnread, limit)
}

// MarkRead 标记已读，只能标自己的
func (s *NotificationService) MarkRead(ctx context.Context, id, recipientID int64) error {
	return s.notifyRepo.MarkRead(ctx, id, recipientID)
}

// fanoutToAdmins 给全部在职管理员各写一条站内通知
func (s *NotificationService) fanoutToAdmins(ctx context.Context, notifyType string, itemID int64, payload []byte) error {
	admins, err := s.userRepo.ListByRole(ctx, model.RoleAdmin)
	if err != nil {
		return err
	}
	if len(admins) == 0 {
		return nil
	}

	rows := make([]model.Notification, 0, len(admins))
	for _, admin := range admins {
		rows = append(rows, model.Notification{
			Type:        notifyType,
			RecipientID: admin.ID,
			ItemID:      itemID,
			Payload:     datatypes.JSON(payload),
		})
	}
	return s.notifyRepo.CreateBatch(ctx, rows)
}
