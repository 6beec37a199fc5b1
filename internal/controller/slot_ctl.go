package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"revu_farm_v1_202609/internal/api/dto"
	"revu_farm_v1_202609/internal/service"
)

type SlotController struct {
	slotService *service.SlotService
}

func NewSlotController(slotService *service.SlotService) *SlotController {
	return &SlotController{slotService: slotService}
}

// SplitDayGroup 日组拆分
// @Summary 把选中行之后的同组槽位拆到新日组（收日）
// @Tags Slot
// @Router /api/slots/{id}/split [post]
func (ctrl *SlotController) SplitDayGroup(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}

	result, err := ctrl.slotService.SplitDayGroup(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, result)
}

// UpdateSlot 修改槽位
// @Summary 修改槽位快照字段或绑定买家
// @Tags Slot
// @Router /api/slots/{id} [put]
func (ctrl *SlotController) UpdateSlot(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}

	var req dto.UpdateSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "参数错误: " + err.Error()})
		return
	}

	slot, err := ctrl.slotService.UpdateSlot(c.Request.Context(), id, &req)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, slot)
}

// SuspendSlot 暂停槽位
// @Summary 暂停/恢复槽位
// @Tags Slot
// @Router /api/slots/{id}/suspend [post]
func (ctrl *SlotController) SuspendSlot(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}

	var req struct {
		Suspended bool `json:"suspended"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "参数错误: " + err.Error()})
		return
	}

	if err := ctrl.slotService.SetSuspended(c.Request.Context(), id, req.Suspended); err != nil {
		fail(c, err)
		return
	}
	ok(c, nil)
}

// DeleteSlot 删除槽位
// @Summary 软删除单个槽位
// @Tags Slot
// @Router /api/slots/{id} [delete]
func (ctrl *SlotController) DeleteSlot(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}

	if err := ctrl.slotService.DeleteSlot(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	ok(c, nil)
}
