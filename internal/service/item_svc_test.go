package service

import (
	"context"
	"testing"

	"gorm.io/gorm"

	"revu_farm_v1_202609/internal/api/dto"
	"revu_farm_v1_202609/internal/model"
	"revu_farm_v1_202609/internal/repository"
	"revu_farm_v1_202609/pkg/apperr"
)

// ==================== 测试辅助 ====================

func newItemTestService(t *testing.T) (*ItemService, *gorm.DB) {
	db := setupFulfillmentTestDB(t)
	uow := repository.NewFulfillmentUnitOfWork(db)
	return NewItemService(uow, repository.NewCampaignRepository(db)), db
}

func seedCampaign(t *testing.T, db *gorm.DB, id int64) {
	if err := db.Create(&TestCampaign{ID: id, Name: "9월 물티슈 캠페인", BrandName: "테스트브랜드"}).Error; err != nil {
		t.Fatalf("创建测试活动失败: %v", err)
	}
}

// ==================== 商品创建测试 ====================

func TestItemService_CreateItem(t *testing.T) {
	svc, db := newItemTestService(t)
	ctx := context.Background()

	seedCampaign(t, db, 1)

	item, err := svc.CreateItem(ctx, &dto.CreateItemRequest{
		CampaignID:         1,
		TotalPurchaseCount: "12",
		DailyPurchaseCount: "6/6",
		ProductName:        "프리미엄 물티슈",
		Platform:           "coupang",
		Price:              "12,900",
	})
	if err != nil {
		t.Fatalf("CreateItem() error = %v", err)
	}

	if item.TotalCount != 12 {
		t.Errorf("total_count = %d, want 12", item.TotalCount)
	}

	// 槽位同事务生成：两日组各 6 个，号码连续
	var slots []model.ItemSlot
	db.Where("item_id = ?", item.ID).Order("slot_number ASC").Find(&slots)
	if len(slots) != 12 {
		t.Fatalf("slots = %d, want 12", len(slots))
	}
	if slots[5].DayGroup != 1 || slots[6].DayGroup != 2 {
		t.Error("日组切分位置错误")
	}
	if slots[0].UploadLinkToken == slots[6].UploadLinkToken {
		t.Error("不同日组口令应不同")
	}
	if slots[0].ProductName != "프리미엄 물티슈" {
		t.Error("快照未复制到槽位")
	}
}

func TestItemService_CreateItem_ZeroTotal(t *testing.T) {
	svc, db := newItemTestService(t)
	ctx := context.Background()

	seedCampaign(t, db, 1)

	item, err := svc.CreateItem(ctx, &dto.CreateItemRequest{
		CampaignID:  1,
		ProductName: "미정 상품",
	})
	if err != nil {
		t.Fatalf("CreateItem() error = %v", err)
	}

	var count int64
	db.Model(&model.ItemSlot{}).Where("item_id = ?", item.ID).Count(&count)
	if count != 0 {
		t.Errorf("总数 0 不应生成槽位, got %d", count)
	}
}

func TestItemService_CreateItem_CampaignNotFound(t *testing.T) {
	svc, _ := newItemTestService(t)

	_, err := svc.CreateItem(context.Background(), &dto.CreateItemRequest{
		CampaignID:  999,
		ProductName: "상품",
	})
	wantAppErrCode(t, err, apperr.CodeNotFound)
}

// ==================== 商品修改测试 ====================

func TestItemService_UpdateItem_DoesNotTouchSlots(t *testing.T) {
	svc, db := newItemTestService(t)
	ctx := context.Background()

	seedCampaign(t, db, 1)
	item, err := svc.CreateItem(ctx, &dto.CreateItemRequest{
		CampaignID:         1,
		TotalPurchaseCount: "2",
		ProductName:        "원래 이름",
	})
	if err != nil {
		t.Fatal(err)
	}

	newName := "바뀐 이름"
	updated, err := svc.UpdateItem(ctx, item.ID, &dto.UpdateItemRequest{ProductName: &newName})
	if err != nil {
		t.Fatalf("UpdateItem() error = %v", err)
	}
	if updated.ProductName != newName {
		t.Errorf("product_name = %s, want %s", updated.ProductName, newName)
	}

	// 已生成槽位的快照不回写
	var slot model.ItemSlot
	db.Where("item_id = ?", item.ID).First(&slot)
	if slot.ProductName != "원래 이름" {
		t.Errorf("槽位快照被回写: %s", slot.ProductName)
	}
}

// ==================== 商品删除测试 ====================

func TestItemService_DeleteItem_Cascades(t *testing.T) {
	svc, db := newItemTestService(t)
	ctx := context.Background()

	seedCampaign(t, db, 1)
	item, err := svc.CreateItem(ctx, &dto.CreateItemRequest{
		CampaignID:         1,
		TotalPurchaseCount: "2",
		ProductName:        "삭제 대상",
	})
	if err != nil {
		t.Fatal(err)
	}
	buyer := seedBuyer(t, db, item.ID, "최은지", "1002-661-758359 최은지")
	db.Create(&model.ReviewImage{
		BuyerID: buyer.ID, ItemID: item.ID,
		URL: "https://cdn.example.com/r.jpg", StorageKey: "keys/r.jpg",
		Status: model.ImageStatusApproved,
	})

	if err := svc.DeleteItem(ctx, item.ID); err != nil {
		t.Fatalf("DeleteItem() error = %v", err)
	}

	// 商品、槽位、买家、图片全部软删
	var n int64
	db.Model(&model.ItemSlot{}).Where("item_id = ?", item.ID).Count(&n)
	if n != 0 {
		t.Errorf("槽位未级联删除: %d", n)
	}
	db.Model(&model.Buyer{}).Where("item_id = ?", item.ID).Count(&n)
	if n != 0 {
		t.Errorf("买家未级联删除: %d", n)
	}
	db.Model(&model.ReviewImage{}).Where("item_id = ?", item.ID).Count(&n)
	if n != 0 {
		t.Errorf("图片未级联删除: %d", n)
	}

	_, err = svc.GetItem(ctx, item.ID)
	wantAppErrCode(t, err, apperr.CodeNotFound)

	// 软删除留墓碑
	db.Unscoped().Model(&model.ItemSlot{}).Where("item_id = ?", item.ID).Count(&n)
	if n != 2 {
		t.Errorf("墓碑槽位 = %d, want 2", n)
	}
}

// ==================== 商品列表测试 ====================

func TestItemService_ListItems(t *testing.T) {
	svc, db := newItemTestService(t)
	ctx := context.Background()

	seedCampaign(t, db, 1)
	seedCampaign(t, db, 2)
	for i, req := range []dto.CreateItemRequest{
		{CampaignID: 1, ProductName: "물티슈 대용량", Platform: "coupang"},
		{CampaignID: 1, ProductName: "주방세제", Platform: "smartstore"},
		{CampaignID: 2, ProductName: "물티슈 휴대용", Platform: "coupang"},
	} {
		if _, err := svc.CreateItem(ctx, &req); err != nil {
			t.Fatalf("创建第 %d 个商品失败: %v", i+1, err)
		}
	}

	items, total, err := svc.ListItems(ctx, &dto.ListItemsRequest{CampaignID: 1, Page: 1, PageSize: 20})
	if err != nil {
		t.Fatalf("ListItems() error = %v", err)
	}
	if total != 2 || len(items) != 2 {
		t.Errorf("活动 1 商品 = %d/%d, want 2/2", len(items), total)
	}

	items, total, err = svc.ListItems(ctx, &dto.ListItemsRequest{Keyword: "물티슈", Page: 1, PageSize: 20})
	if err != nil {
		t.Fatal(err)
	}
	if total != 2 {
		t.Errorf("关键词过滤 = %d, want 2", total)
	}
}
