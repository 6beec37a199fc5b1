package controller

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"revu_farm_v1_202609/internal/service"
)

type NotificationController struct {
	notifyService *service.NotificationService
}

func NewNotificationController(notifyService *service.NotificationService) *NotificationController {
	return &NotificationController{notifyService: notifyService}
}

// ListNotifications 我的通知
// @Summary 当前用户站内通知列表
// @Tags Notification
// @Router /api/notifications [get]
func (ctrl *NotificationController) ListNotifications(c *gin.Context) {
	recipientID := c.GetInt64("user_id")
	onlyUnread := c.Query("unread") == "true"
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	list, err := ctrl.notifyService.ListMyNotifications(c.Request.Context(), recipientID, onlyUnread, limit)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, list)
}

// MarkRead 标记已读
// @Summary 标记单条通知已读
// @Tags Notification
// @Router /api/notifications/{id}/read [post]
func (ctrl *NotificationController) MarkRead(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}

	recipientID := c.GetInt64("user_id")
	if err := ctrl.notifyService.MarkRead(c.Request.Context(), id, recipientID); err != nil {
		fail(c, err)
		return
	}
	ok(c, nil)
}
