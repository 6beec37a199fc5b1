package controller

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"revu_farm_v1_202609/internal/model"
	"revu_farm_v1_202609/internal/repository"
	"revu_farm_v1_202609/internal/service"
)

// ==================== 测试辅助 ====================

func setupReviewCtlRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("连接测试数据库失败: %v", err)
	}
	err = db.AutoMigrate(
		&TestUploadItem{},
		&model.Buyer{},
		&model.ItemSlot{},
		&model.ReviewImage{},
	)
	if err != nil {
		t.Fatalf("数据库迁移失败: %v", err)
	}

	ctl := NewReviewController(service.NewReviewService(repository.NewFulfillmentUnitOfWork(db), &ctlMockStorage{}))

	r := gin.New()
	r.Use(gin.Recovery())
	reviews := r.Group("/api/reviews")
	{
		reviews.GET("/pending", ctl.ListPending)
	}
	return r, db
}

func seedPendingImage(t *testing.T, db *gorm.DB, itemID, buyerID int64, key string) {
	img := &model.ReviewImage{
		BuyerID:    buyerID,
		ItemID:     itemID,
		URL:        "https://cdn.example.com/" + key,
		StorageKey: "keys/" + key,
		Status:     model.ImageStatusPending,
	}
	if err := db.Create(img).Error; err != nil {
		t.Fatalf("创建待审图片失败: %v", err)
	}
}

// ==================== 待审列表测试 ====================

func TestReviewController_ListPending(t *testing.T) {
	router, db := setupReviewCtlRouter(t)
	seedPendingImage(t, db, 1, 1, "a.jpg")
	seedPendingImage(t, db, 2, 2, "b.jpg")

	tests := []struct {
		name      string
		query     string
		wantCount int
	}{
		{"不传 item_id 查全部", "", 2},
		{"按商品过滤", "?item_id=1", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/reviews/pending"+tt.query, nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != http.StatusOK {
				t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
			}

			var resp struct {
				Data []json.RawMessage `json:"data"`
			}
			json.Unmarshal(w.Body.Bytes(), &resp)
			if len(resp.Data) != tt.wantCount {
				t.Errorf("待审图片数 = %d, want %d", len(resp.Data), tt.wantCount)
			}
		})
	}
}

func TestReviewController_ListPending_BadItemID(t *testing.T) {
	router, _ := setupReviewCtlRouter(t)

	for _, query := range []string{"?item_id=abc", "?item_id=0", "?item_id=-1"} {
		req := httptest.NewRequest(http.MethodGet, "/api/reviews/pending"+query, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("item_id=%q status = %d, want %d", query, w.Code, http.StatusBadRequest)
		}
	}
}
