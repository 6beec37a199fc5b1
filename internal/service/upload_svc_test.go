package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"revu_farm_v1_202609/internal/model"
	"revu_farm_v1_202609/internal/repository"
	"revu_farm_v1_202609/pkg/apperr"
)

// ==================== Mock 实现 ====================

type mockStorage struct {
	uploadFn func(ctx context.Context, data []byte, filename, contentType string) (string, string, error)
	deleteFn func(ctx context.Context, key string) error

	uploaded []string
	deleted  []string
}

func (m *mockStorage) Upload(ctx context.Context, data []byte, filename string, contentType string) (string, string, error) {
	if m.uploadFn != nil {
		return m.uploadFn(ctx, data, filename, contentType)
	}
	m.uploaded = append(m.uploaded, filename)
	return "https://cdn.example.com/" + filename, "keys/" + filename, nil
}

func (m *mockStorage) Delete(ctx context.Context, key string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, key)
	}
	m.deleted = append(m.deleted, key)
	return nil
}

type mockNotifier struct {
	targetReached int
	resubmissions []int
}

func (m *mockNotifier) NotifyTargetReached(ctx context.Context, item *model.Item) {
	m.targetReached++
}

func (m *mockNotifier) NotifyResubmission(ctx context.Context, item *model.Item, count int) {
	m.resubmissions = append(m.resubmissions, count)
}

// ==================== 测试模型 ====================

// 商品表的 daily_plan 在 Postgres 上是 bigint[]，sqlite 跑不动，
// 测试建表用镜像模型，列名与线上一致
type TestItem struct {
	ID        int64 `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`

	CampaignID         int64
	TotalPurchaseCount string
	DailyPurchaseCount string
	TotalCount         int
	DailyPlan          *string `gorm:"column:daily_plan"`

	ProductName    string
	Platform       string
	Price          string
	Keyword        string
	PurchaseOption string
	IsCourier      bool
	ProductURL     string
	Notes          string

	TargetNotifiedAt *time.Time
}

func (TestItem) TableName() string { return "items" }

type TestCampaign struct {
	ID        int64 `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`

	Name         string
	BrandName    string
	BrandContact string
	WebhookURL   string
	Memo         string
}

func (TestCampaign) TableName() string { return "campaigns" }

// ==================== 测试辅助函数 ====================

func setupFulfillmentTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("连接测试数据库失败: %v", err)
	}

	err = db.AutoMigrate(
		&TestCampaign{},
		&TestItem{},
		&model.Buyer{},
		&model.ItemSlot{},
		&model.ReviewImage{},
		&model.CampaignOperatorAssignment{},
	)
	if err != nil {
		t.Fatalf("数据库迁移失败: %v", err)
	}

	return db
}

func newUploadTestService(t *testing.T) (*UploadService, *gorm.DB, *mockStorage, *mockNotifier) {
	db := setupFulfillmentTestDB(t)
	uow := repository.NewFulfillmentUnitOfWork(db)
	storage := &mockStorage{}
	notifier := &mockNotifier{}
	return NewUploadService(uow, storage, notifier), db, storage, notifier
}

func seedItem(t *testing.T, db *gorm.DB, id int64, totalCount int) {
	item := TestItem{
		ID:          id,
		CampaignID:  1,
		TotalCount:  totalCount,
		ProductName: "프리미엄 물티슈",
		Platform:    "coupang",
	}
	if err := db.Create(&item).Error; err != nil {
		t.Fatalf("创建测试商品失败: %v", err)
	}
}

func seedSlot(t *testing.T, db *gorm.DB, itemID int64, slotNo, dayGroup int, token string, buyerID *int64) *model.ItemSlot {
	slot := model.ItemSlot{
		ItemID:          itemID,
		SlotNumber:      slotNo,
		DayGroup:        dayGroup,
		UploadLinkToken: token,
		BuyerID:         buyerID,
		Status:          model.SlotStatusActive,
	}
	if err := db.Create(&slot).Error; err != nil {
		t.Fatalf("创建测试槽位失败: %v", err)
	}
	return &slot
}

func seedBuyer(t *testing.T, db *gorm.DB, itemID int64, name, accountInfo string) *model.Buyer {
	buyer := model.Buyer{
		ItemID:        itemID,
		Name:          name,
		AccountInfo:   accountInfo,
		PaymentStatus: model.PaymentStatusPending,
	}
	if normalized, ok := NormalizeAccount(accountInfo); ok {
		buyer.AccountNormalized = &normalized
	}
	if err := db.Create(&buyer).Error; err != nil {
		t.Fatalf("创建测试买家失败: %v", err)
	}
	return &buyer
}

func testFile(name string) UploadFile {
	return UploadFile{Filename: name, ContentType: "image/jpeg", Data: []byte("fake image")}
}

func wantAppErrCode(t *testing.T, err error, code string) {
	t.Helper()
	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		t.Fatalf("err = %v, want *apperr.Error", err)
	}
	if appErr.Code != code {
		t.Fatalf("err code = %s, want %s", appErr.Code, code)
	}
}

// ==================== 上传对账测试 ====================

func TestUploadService_Reconcile_FirstUpload(t *testing.T) {
	svc, db, _, _ := newUploadTestService(t)
	ctx := context.Background()

	seedItem(t, db, 1, 10)
	buyer := seedBuyer(t, db, 1, "최은지", "1002-661-758359 최은지")
	seedSlot(t, db, 1, 1, 1, "tok-a", &buyer.ID)

	result, err := svc.Reconcile(ctx, "tok-a", []int64{buyer.ID}, []UploadFile{testFile("r1.jpg")})
	if err != nil {
		t.Fatalf("Reconcile() error = %v", err)
	}

	if len(result.Uploaded) != 1 || len(result.Resubmitted) != 0 {
		t.Fatalf("uploaded=%d resubmitted=%d, want 1/0", len(result.Uploaded), len(result.Resubmitted))
	}
	if result.Uploaded[0].Status != model.ImageStatusApproved {
		t.Errorf("status = %s, want approved", result.Uploaded[0].Status)
	}
	if result.Uploaded[0].PreviousImageID != nil {
		t.Error("首传不应有被替换图片")
	}

	// 提交时间与预计打款日落库
	var got model.Buyer
	db.First(&got, buyer.ID)
	if got.ReviewSubmittedAt == nil {
		t.Error("review_submitted_at 未写入")
	}
	if got.ExpectedPaymentDate == nil {
		t.Error("expected_payment_date 未写入")
	} else {
		wd := got.ExpectedPaymentDate.Weekday()
		if wd == time.Saturday || wd == time.Sunday {
			t.Errorf("预计打款日落在周末: %v", wd)
		}
	}
}

func TestUploadService_Reconcile_Resubmission(t *testing.T) {
	svc, db, _, notifier := newUploadTestService(t)
	ctx := context.Background()

	seedItem(t, db, 1, 10)
	buyer := seedBuyer(t, db, 1, "최은지", "1002-661-758359 최은지")
	seedSlot(t, db, 1, 1, 1, "tok-a", &buyer.ID)

	// 首传
	if _, err := svc.Reconcile(ctx, "tok-a", []int64{buyer.ID}, []UploadFile{testFile("r1.jpg")}); err != nil {
		t.Fatalf("首传失败: %v", err)
	}
	var first model.ReviewImage
	db.Where("buyer_id = ?", buyer.ID).First(&first)

	// 重传：新图待审并指向旧图
	result, err := svc.Reconcile(ctx, "tok-a", []int64{buyer.ID}, []UploadFile{testFile("r2.jpg")})
	if err != nil {
		t.Fatalf("重传失败: %v", err)
	}
	if len(result.Resubmitted) != 1 {
		t.Fatalf("resubmitted = %d, want 1", len(result.Resubmitted))
	}
	resub := result.Resubmitted[0]
	if resub.Status != model.ImageStatusPending {
		t.Errorf("status = %s, want pending", resub.Status)
	}
	if resub.PreviousImageID == nil || *resub.PreviousImageID != first.ID {
		t.Errorf("previous_image_id = %v, want %d", resub.PreviousImageID, first.ID)
	}
	if len(notifier.resubmissions) != 1 || notifier.resubmissions[0] != 1 {
		t.Errorf("重传通知 = %v, want [1]", notifier.resubmissions)
	}

	// 已有待审图片时不允许再传
	_, err = svc.Reconcile(ctx, "tok-a", []int64{buyer.ID}, []UploadFile{testFile("r3.jpg")})
	wantAppErrCode(t, err, apperr.CodeInvalidInput)

	// 库里始终最多一张待审
	var pendingCount int64
	db.Model(&model.ReviewImage{}).
		Where("buyer_id = ? AND status = ?", buyer.ID, model.ImageStatusPending).
		Count(&pendingCount)
	if pendingCount != 1 {
		t.Errorf("待审图片 = %d, want 1", pendingCount)
	}
}

func TestUploadService_Reconcile_SameBuyerTwiceInCall(t *testing.T) {
	svc, db, _, _ := newUploadTestService(t)
	ctx := context.Background()

	seedItem(t, db, 1, 10)
	buyer := seedBuyer(t, db, 1, "최은지", "1002-661-758359 최은지")
	seedSlot(t, db, 1, 1, 1, "tok-a", &buyer.ID)

	// 同一调用里同一买家两张图：第一张生效，第二张接着第一张进入待审
	result, err := svc.Reconcile(ctx, "tok-a",
		[]int64{buyer.ID, buyer.ID},
		[]UploadFile{testFile("r1.jpg"), testFile("r2.jpg")})
	if err != nil {
		t.Fatalf("Reconcile() error = %v", err)
	}
	if len(result.Uploaded) != 1 || len(result.Resubmitted) != 1 {
		t.Fatalf("uploaded=%d resubmitted=%d, want 1/1", len(result.Uploaded), len(result.Resubmitted))
	}
	if result.Resubmitted[0].PreviousImageID == nil ||
		*result.Resubmitted[0].PreviousImageID != result.Uploaded[0].ID {
		t.Error("第二张图应指向同调用内的第一张")
	}
}

func TestUploadService_Reconcile_CompletedPaymentKeepsSchedule(t *testing.T) {
	svc, db, _, _ := newUploadTestService(t)
	ctx := context.Background()

	seedItem(t, db, 1, 10)
	buyer := seedBuyer(t, db, 1, "최은지", "1002-661-758359 최은지")
	seedSlot(t, db, 1, 1, 1, "tok-a", &buyer.ID)

	// 首传后标记已打款，固定打款日
	if _, err := svc.Reconcile(ctx, "tok-a", []int64{buyer.ID}, []UploadFile{testFile("r1.jpg")}); err != nil {
		t.Fatalf("首传失败: %v", err)
	}
	oldDate := time.Date(2026, 8, 3, 0, 0, 0, 0, time.UTC)
	db.Model(&model.Buyer{}).Where("id = ?", buyer.ID).Updates(map[string]interface{}{
		"payment_status":        model.PaymentStatusCompleted,
		"expected_payment_date": oldDate,
	})

	// 已打款买家重传：排期不动
	if _, err := svc.Reconcile(ctx, "tok-a", []int64{buyer.ID}, []UploadFile{testFile("r2.jpg")}); err != nil {
		t.Fatalf("重传失败: %v", err)
	}

	var got model.Buyer
	db.First(&got, buyer.ID)
	if got.ExpectedPaymentDate == nil || !got.ExpectedPaymentDate.Equal(oldDate) {
		t.Errorf("已打款买家的打款日被改动: %v", got.ExpectedPaymentDate)
	}
}

func TestUploadService_Reconcile_RejectsInvalidBuyers(t *testing.T) {
	svc, db, _, _ := newUploadTestService(t)
	ctx := context.Background()

	seedItem(t, db, 1, 10)
	seedItem(t, db, 2, 10)
	seedSlot(t, db, 1, 1, 1, "tok-a", nil)

	// 别的商品的买家
	other := seedBuyer(t, db, 2, "홍길동", "국민 111-1234-123456 홍길동")
	_, err := svc.Reconcile(ctx, "tok-a", []int64{other.ID}, []UploadFile{testFile("r1.jpg")})
	wantAppErrCode(t, err, apperr.CodeInvalidBuyers)

	// 临时买家不能走正式上传
	temp := seedBuyer(t, db, 1, "최은지", "1002-661-758359 최은지")
	db.Model(&model.Buyer{}).Where("id = ?", temp.ID).Update("is_temporary", true)
	_, err = svc.Reconcile(ctx, "tok-a", []int64{temp.ID}, []UploadFile{testFile("r1.jpg")})
	wantAppErrCode(t, err, apperr.CodeInvalidBuyers)

	// 不存在的买家
	_, err = svc.Reconcile(ctx, "tok-a", []int64{9999}, []UploadFile{testFile("r1.jpg")})
	wantAppErrCode(t, err, apperr.CodeInvalidBuyers)
}

func TestUploadService_Reconcile_PairCountMismatch(t *testing.T) {
	svc, db, _, _ := newUploadTestService(t)
	ctx := context.Background()

	seedItem(t, db, 1, 10)
	buyer := seedBuyer(t, db, 1, "최은지", "1002-661-758359 최은지")
	seedSlot(t, db, 1, 1, 1, "tok-a", &buyer.ID)

	_, err := svc.Reconcile(ctx, "tok-a", []int64{buyer.ID},
		[]UploadFile{testFile("r1.jpg"), testFile("r2.jpg")})
	wantAppErrCode(t, err, apperr.CodeInvalidInput)

	_, err = svc.Reconcile(ctx, "tok-a", []int64{}, []UploadFile{})
	wantAppErrCode(t, err, apperr.CodeInvalidInput)
}

func TestUploadService_Reconcile_StorageFailureAbortsAll(t *testing.T) {
	svc, db, storage, _ := newUploadTestService(t)
	ctx := context.Background()

	seedItem(t, db, 1, 10)
	b1 := seedBuyer(t, db, 1, "최은지", "1002-661-758359 최은지")
	b2 := seedBuyer(t, db, 1, "홍길동", "국민 111-1234-123456 홍길동")
	seedSlot(t, db, 1, 1, 1, "tok-a", &b1.ID)
	seedSlot(t, db, 1, 2, 1, "tok-a", &b2.ID)

	// 第二个文件写存储失败：整单放弃
	calls := 0
	storage.uploadFn = func(ctx context.Context, data []byte, filename, contentType string) (string, string, error) {
		calls++
		if calls >= 2 {
			return "", "", errors.New("s3 timeout")
		}
		return "https://cdn.example.com/" + filename, "keys/" + filename, nil
	}

	_, err := svc.Reconcile(ctx, "tok-a", []int64{b1.ID, b2.ID},
		[]UploadFile{testFile("r1.jpg"), testFile("r2.jpg")})
	wantAppErrCode(t, err, apperr.CodeStorageFailure)

	// 数据库一行未动
	var imageCount int64
	db.Model(&model.ReviewImage{}).Count(&imageCount)
	if imageCount != 0 {
		t.Errorf("存储失败后仍写入了 %d 张图片", imageCount)
	}
	var got model.Buyer
	db.First(&got, b1.ID)
	if got.ReviewSubmittedAt != nil {
		t.Error("存储失败后买家提交时间不应被写入")
	}
}

func TestUploadService_Reconcile_TargetReachedNotifiedOnce(t *testing.T) {
	svc, db, _, notifier := newUploadTestService(t)
	ctx := context.Background()

	seedItem(t, db, 1, 2)
	b1 := seedBuyer(t, db, 1, "최은지", "1002-661-758359 최은지")
	b2 := seedBuyer(t, db, 1, "홍길동", "국민 111-1234-123456 홍길동")
	b3 := seedBuyer(t, db, 1, "김철수", "신한 110-123-456789 김철수")
	seedSlot(t, db, 1, 1, 1, "tok-a", &b1.ID)
	seedSlot(t, db, 1, 2, 1, "tok-a", &b2.ID)
	seedSlot(t, db, 1, 3, 1, "tok-a", &b3.ID)

	// 第一张：未达标，不通知
	if _, err := svc.Reconcile(ctx, "tok-a", []int64{b1.ID}, []UploadFile{testFile("r1.jpg")}); err != nil {
		t.Fatal(err)
	}
	if notifier.targetReached != 0 {
		t.Fatalf("未达标就发了通知: %d", notifier.targetReached)
	}

	// 第二张：达到目标数 2，通知一次
	if _, err := svc.Reconcile(ctx, "tok-a", []int64{b2.ID}, []UploadFile{testFile("r2.jpg")}); err != nil {
		t.Fatal(err)
	}
	if notifier.targetReached != 1 {
		t.Fatalf("目标达成通知 = %d, want 1", notifier.targetReached)
	}

	var item TestItem
	db.First(&item, 1)
	if item.TargetNotifiedAt == nil {
		t.Error("target_notified_at 未落库")
	}

	// 超过目标继续上传：不再通知
	if _, err := svc.Reconcile(ctx, "tok-a", []int64{b3.ID}, []UploadFile{testFile("r3.jpg")}); err != nil {
		t.Fatal(err)
	}
	if notifier.targetReached != 1 {
		t.Errorf("目标达成通知重复发送: %d", notifier.targetReached)
	}
}

// ==================== 口令与日组信息测试 ====================

func TestUploadService_GetGroupInfo(t *testing.T) {
	svc, db, _, _ := newUploadTestService(t)
	ctx := context.Background()

	seedItem(t, db, 1, 10)
	for i := 1; i <= 3; i++ {
		slot := seedSlot(t, db, 1, i, 2, "tok-b", nil)
		slot.ProductName = "프리미엄 물티슈"
		db.Save(slot)
	}

	info, err := svc.GetGroupInfo(ctx, "tok-b")
	if err != nil {
		t.Fatalf("GetGroupInfo() error = %v", err)
	}
	if info.ItemID != 1 || info.DayGroup != 2 || info.SlotCount != 3 {
		t.Errorf("info = %+v", info)
	}

	// 无效口令
	_, err = svc.GetGroupInfo(ctx, "no-such-token")
	wantAppErrCode(t, err, apperr.CodeNotFound)

	_, err = svc.GetGroupInfo(ctx, "")
	wantAppErrCode(t, err, apperr.CodeNotFound)
}

// ==================== 预上传测试 ====================

func TestUploadService_PreUpload(t *testing.T) {
	svc, db, _, _ := newUploadTestService(t)
	ctx := context.Background()

	seedItem(t, db, 1, 10)
	seedSlot(t, db, 1, 1, 1, "tok-a", nil)

	resp, err := svc.PreUpload(ctx, "tok-a", "최은지", "1002-661-758359 최은지", testFile("pre.jpg"))
	if err != nil {
		t.Fatalf("PreUpload() error = %v", err)
	}
	if resp.Status != model.ImageStatusApproved {
		t.Errorf("status = %s, want approved", resp.Status)
	}

	// 临时买家带归一化账号落库，提交时间已写
	var buyer model.Buyer
	if err := db.Where("item_id = ? AND is_temporary = ?", 1, true).First(&buyer).Error; err != nil {
		t.Fatalf("临时买家未创建: %v", err)
	}
	if buyer.AccountNormalized == nil || *buyer.AccountNormalized != "1002661758359" {
		t.Errorf("account_normalized = %v, want 1002661758359", buyer.AccountNormalized)
	}
	if buyer.ReviewSubmittedAt == nil {
		t.Error("review_submitted_at 未写入")
	}

	var image model.ReviewImage
	if err := db.Where("buyer_id = ?", buyer.ID).First(&image).Error; err != nil {
		t.Fatalf("预上传图片未创建: %v", err)
	}
}

func TestUploadService_PreUpload_RequiresNameAndAccount(t *testing.T) {
	svc, db, _, _ := newUploadTestService(t)
	ctx := context.Background()

	seedItem(t, db, 1, 10)
	seedSlot(t, db, 1, 1, 1, "tok-a", nil)

	_, err := svc.PreUpload(ctx, "tok-a", "", "1002-661-758359", testFile("pre.jpg"))
	wantAppErrCode(t, err, apperr.CodeInvalidInput)

	_, err = svc.PreUpload(ctx, "tok-a", "최은지", "", testFile("pre.jpg"))
	wantAppErrCode(t, err, apperr.CodeInvalidInput)
}

// ==================== 按姓名找槽测试 ====================

func TestUploadService_FindBuyersByName(t *testing.T) {
	svc, db, _, _ := newUploadTestService(t)
	ctx := context.Background()

	seedItem(t, db, 1, 10)
	b1 := seedBuyer(t, db, 1, "최은지", "1002-661-758359 최은지")
	b2 := seedBuyer(t, db, 1, "홍길동", "국민 111-1234-123456 홍길동")
	b3 := seedBuyer(t, db, 1, "최은지", "하나 222-9999-888888 최은지")
	seedSlot(t, db, 1, 1, 1, "tok-a", &b1.ID)
	seedSlot(t, db, 1, 2, 1, "tok-a", &b2.ID)
	seedSlot(t, db, 1, 3, 1, "tok-a", &b3.ID)

	// b1 已有图片
	db.Create(&model.ReviewImage{
		BuyerID: b1.ID, ItemID: 1,
		URL: "https://cdn.example.com/r1.jpg", StorageKey: "keys/r1.jpg",
		Status: model.ImageStatusApproved,
	})

	candidates, err := svc.FindBuyersByName(ctx, "tok-a", "최은지")
	if err != nil {
		t.Fatalf("FindBuyersByName() error = %v", err)
	}

	// 同名两行都返回，已传图的也不隐藏
	if len(candidates) != 2 {
		t.Fatalf("candidates = %d, want 2", len(candidates))
	}
	byID := map[int64]bool{}
	for _, c := range candidates {
		byID[c.BuyerID] = c.HasImage
	}
	if !byID[b1.ID] {
		t.Error("b1 应标记已有图片")
	}
	if hasImage, ok := byID[b3.ID]; !ok || hasImage {
		t.Error("b3 应返回且未传图")
	}

	// 精确匹配，部分串不算
	candidates, err = svc.FindBuyersByName(ctx, "tok-a", "은지")
	if err != nil {
		t.Fatal(err)
	}
	if len(candidates) != 0 {
		t.Errorf("部分匹配不应命中, got %d", len(candidates))
	}
}

// ==================== 工作日计算测试 ====================

func TestNextBusinessDay(t *testing.T) {
	// 2025-01-03 周五 -> 周一
	friday := time.Date(2025, 1, 3, 10, 0, 0, 0, time.UTC)
	if got := NextBusinessDay(friday); got.Day() != 6 || got.Weekday() != time.Monday {
		t.Errorf("周五的下一个工作日 = %v, want 周一 1/6", got)
	}

	// 2025-01-04 周六 -> 周一
	saturday := time.Date(2025, 1, 4, 10, 0, 0, 0, time.UTC)
	if got := NextBusinessDay(saturday); got.Weekday() != time.Monday {
		t.Errorf("周六的下一个工作日 = %v, want 周一", got)
	}

	// 2025-01-01 周三 -> 周四
	wednesday := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	if got := NextBusinessDay(wednesday); got.Weekday() != time.Thursday {
		t.Errorf("周三的下一个工作日 = %v, want 周四", got)
	}
}
