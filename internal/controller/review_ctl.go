package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"revu_farm_v1_202609/internal/service"
)

type ReviewController struct {
	reviewService *service.ReviewService
}

func NewReviewController(reviewService *service.ReviewService) *ReviewController {
	return &ReviewController{reviewService: reviewService}
}

// ListPending 待审图片列表
// @Summary 待审（重传）图片，item_id 不传时查全部
// @Tags Review
// @Param item_id query int false "按商品过滤"
// @Router /api/reviews/pending [get]
func (ctrl *ReviewController) ListPending(c *gin.Context) {
	var itemID int64
	if raw := c.Query("item_id"); raw != "" {
		var err error
		itemID, err = strconv.ParseInt(raw, 10, 64)
		if err != nil || itemID <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "参数错误: item_id 无效"})
			return
		}
	}

	images, err := ctrl.reviewService.ListPending(c.Request.Context(), itemID)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, images)
}

// Approve 通过重传
// @Summary 通过待审图片，替换旧图
// @Tags Review
// @Router /api/reviews/{id}/approve [post]
func (ctrl *ReviewController) Approve(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}

	if err := ctrl.reviewService.Approve(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	ok(c, nil)
}

// Reject 驳回重传
// @Summary 驳回待审图片，保留旧图
// @Tags Review
// @Router /api/reviews/{id}/reject [post]
func (ctrl *ReviewController) Reject(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}

	if err := ctrl.reviewService.Reject(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	ok(c, nil)
}

// DeleteImage 删除图片
// @Summary 手动删除图片，买家无图时回退提交状态
// @Tags Review
// @Router /api/reviews/{id} [delete]
func (ctrl *ReviewController) DeleteImage(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}

	if err := ctrl.reviewService.DeleteImage(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	ok(c, nil)
}
