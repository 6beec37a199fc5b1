package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"revu_farm_v1_202609/internal/api/dto"
	"revu_farm_v1_202609/internal/service"
)

type ItemController struct {
	itemService *service.ItemService
}

func NewItemController(itemService *service.ItemService) *ItemController {
	return &ItemController{itemService: itemService}
}

// CreateItem 创建商品
// @Summary 创建商品并按日组生成槽位
// @Tags Item
// @Router /api/items [post]
func (ctrl *ItemController) CreateItem(c *gin.Context) {
	var req dto.CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "参数错误: " + err.Error()})
		return
	}

	item, err := ctrl.itemService.CreateItem(c.Request.Context(), &req)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, item)
}

// GetItem 商品详情
// @Summary 商品详情
// @Tags Item
// @Router /api/items/{id} [get]
func (ctrl *ItemController) GetItem(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}

	item, err := ctrl.itemService.GetItem(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, item)
}

// ListItems 商品列表
// @Summary 商品列表（按活动/平台/关键词过滤）
// @Tags Item
// @Router /api/items [get]
func (ctrl *ItemController) ListItems(c *gin.Context) {
	var req dto.ListItemsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "参数错误: " + err.Error()})
		return
	}

	items, total, err := ctrl.itemService.ListItems(c.Request.Context(), &req)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.PageResponse{
		Code:     0,
		Message:  "success",
		Data:     items,
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
	})
}

// UpdateItem 修改商品
// @Summary 修改商品信息，不回写已生成槽位
// @Tags Item
// @Router /api/items/{id} [put]
func (ctrl *ItemController) UpdateItem(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}

	var req dto.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "参数错误: " + err.Error()})
		return
	}

	item, err := ctrl.itemService.UpdateItem(c.Request.Context(), id, &req)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, item)
}

// DeleteItem 删除商品
// @Summary 软删除商品及其槽位、买家、图片
// @Tags Item
// @Router /api/items/{id} [delete]
func (ctrl *ItemController) DeleteItem(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}

	if err := ctrl.itemService.DeleteItem(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	ok(c, nil)
}

// ListSlots 商品槽位列表
// @Summary 商品下全部槽位（按日组、序号排序）
// @Tags Item
// @Router /api/items/{id}/slots [get]
func (ctrl *ItemController) ListSlots(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}

	slots, err := ctrl.itemService.ListSlots(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, slots)
}
