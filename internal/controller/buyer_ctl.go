package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"revu_farm_v1_202609/internal/api/dto"
	"revu_farm_v1_202609/internal/service"
)

type BuyerController struct {
	buyerService *service.BuyerService
}

func NewBuyerController(buyerService *service.BuyerService) *BuyerController {
	return &BuyerController{buyerService: buyerService}
}

// CreateBuyer 创建买家
// @Summary 创建买家（自动合并同账户临时买家）
// @Tags Buyer
// @Router /api/buyers [post]
func (ctrl *BuyerController) CreateBuyer(c *gin.Context) {
	var req dto.CreateBuyerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "参数错误: " + err.Error()})
		return
	}

	buyer, err := ctrl.buyerService.CreateBuyer(c.Request.Context(), &req)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, buyer)
}

// ImportBuyers 批量导入买家
// @Summary 批量导入买家（表格粘贴）
// @Tags Buyer
// @Router /api/buyers/import [post]
func (ctrl *BuyerController) ImportBuyers(c *gin.Context) {
	var req dto.ImportBuyersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "参数错误: " + err.Error()})
		return
	}

	buyers, err := ctrl.buyerService.ImportBuyers(c.Request.Context(), &req)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, buyers)
}

// GetBuyer 买家详情
// @Summary 买家详情
// @Tags Buyer
// @Router /api/buyers/{id} [get]
func (ctrl *BuyerController) GetBuyer(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}

	buyer, err := ctrl.buyerService.GetBuyer(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, buyer)
}

// ListBuyers 买家列表
// @Summary 按商品查买家列表
// @Tags Buyer
// @Router /api/buyers [get]
func (ctrl *BuyerController) ListBuyers(c *gin.Context) {
	itemID, err := strconv.ParseInt(c.Query("item_id"), 10, 64)
	if err != nil || itemID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "参数错误: item_id 无效"})
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	buyers, total, err := ctrl.buyerService.ListBuyers(c.Request.Context(), itemID, page, pageSize)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.PageResponse{
		Code:     0,
		Message:  "success",
		Data:     buyers,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	})
}

// UpdateBuyer 修改买家
// @Summary 修改买家信息（改账户重算归一化账号）
// @Tags Buyer
// @Router /api/buyers/{id} [put]
func (ctrl *BuyerController) UpdateBuyer(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}

	var req dto.UpdateBuyerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "参数错误: " + err.Error()})
		return
	}

	buyer, err := ctrl.buyerService.UpdateBuyer(c.Request.Context(), id, &req)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, buyer)
}

// DeleteBuyer 删除买家
// @Summary 软删除买家并解绑槽位
// @Tags Buyer
// @Router /api/buyers/{id} [delete]
func (ctrl *BuyerController) DeleteBuyer(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}

	if err := ctrl.buyerService.DeleteBuyer(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	ok(c, nil)
}
