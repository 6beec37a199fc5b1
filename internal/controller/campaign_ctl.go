package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"revu_farm_v1_202609/internal/api/dto"
	"revu_farm_v1_202609/internal/service"
)

type CampaignController struct {
	campaignService *service.CampaignService
}

func NewCampaignController(campaignService *service.CampaignService) *CampaignController {
	return &CampaignController{campaignService: campaignService}
}

// CreateCampaign 创建活动
// @Summary 创建评价活动
// @Tags Campaign
// @Router /api/campaigns [post]
func (ctrl *CampaignController) CreateCampaign(c *gin.Context) {
	var req dto.CreateCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "参数错误: " + err.Error()})
		return
	}

	campaign, err := ctrl.campaignService.CreateCampaign(c.Request.Context(), &req)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, campaign)
}

// GetCampaign 活动详情
// @Summary 活动详情（带商品列表）
// @Tags Campaign
// @Router /api/campaigns/{id} [get]
func (ctrl *CampaignController) GetCampaign(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}

	campaign, err := ctrl.campaignService.GetCampaign(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, campaign)
}

// ListCampaigns 活动列表
// @Summary 活动列表
// @Tags Campaign
// @Router /api/campaigns [get]
func (ctrl *CampaignController) ListCampaigns(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	keyword := c.Query("keyword")

	campaigns, total, err := ctrl.campaignService.ListCampaigns(c.Request.Context(), keyword, page, pageSize)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.PageResponse{
		Code:     0,
		Message:  "success",
		Data:     campaigns,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	})
}

// DeleteCampaign 删除活动
// @Summary 软删除活动
// @Tags Campaign
// @Router /api/campaigns/{id} [delete]
func (ctrl *CampaignController) DeleteCampaign(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}

	if err := ctrl.campaignService.DeleteCampaign(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	ok(c, nil)
}

// AssignOperator 运营分配
// @Summary 给运营分配 (campaign, item, day_group)
// @Tags Campaign
// @Router /api/assignments [post]
func (ctrl *CampaignController) AssignOperator(c *gin.Context) {
	var req dto.AssignOperatorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "参数错误: " + err.Error()})
		return
	}

	assignment, err := ctrl.campaignService.AssignOperator(c.Request.Context(), &req)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, assignment)
}

// UnassignOperator 取消分配
// @Summary 取消运营分配
// @Tags Campaign
// @Router /api/assignments/{id} [delete]
func (ctrl *CampaignController) UnassignOperator(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}

	if err := ctrl.campaignService.UnassignOperator(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	ok(c, nil)
}

// ListMyAssignments 运营查看自己名下的分配
// @Summary 当前登录运营的分配列表
// @Tags Campaign
// @Router /api/assignments/mine [get]
func (ctrl *CampaignController) ListMyAssignments(c *gin.Context) {
	operatorID := c.GetInt64("user_id")
	assignments, err := ctrl.campaignService.ListOperatorAssignments(c.Request.Context(), operatorID)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, assignments)
}
