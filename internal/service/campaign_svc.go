package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"revu_farm_v1_202609/internal/api/dto"
	"revu_farm_v1_202609/internal/model"
	"revu_farm_v1_202609/internal/repository"
	"revu_farm_v1_202609/pkg/apperr"
)

// ==================== CampaignService ====================

// CampaignService 活动服务：活动 CRUD 与运营分配
type CampaignService struct {
	campaignRepo   repository.CampaignRepository
	assignmentRepo repository.AssignmentRepository
	userRepo       repository.UserRepository
}

// NewCampaignService 创建活动服务
func NewCampaignService(
	campaignRepo repository.CampaignRepository,
	assignmentRepo repository.AssignmentRepository,
	userRepo repository.UserRepository,
) *CampaignService {
	return &CampaignService{
		campaignRepo:   campaignRepo,
		assignmentRepo: assignmentRepo,
		userRepo:       userRepo,
	}
}

// CreateCampaign 创建活动
func (s *CampaignService) CreateCampaign(ctx context.Context, req *dto.CreateCampaignRequest) (*model.Campaign, error) {
	campaign := &model.Campaign{
		Name:         req.Name,
		BrandName:    req.BrandName,
		BrandContact: req.BrandContact,
		WebhookURL:   req.WebhookURL,
		Memo:         req.Memo,
	}
	if err := s.campaignRepo.Create(ctx, campaign); err != nil {
		return nil, err
	}
	return campaign, nil
}

// GetCampaign 活动详情（带商品）
func (s *CampaignService) GetCampaign(ctx context.Context, id int64) (*model.Campaign, error) {
	campaign, err := s.campaignRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("活动不存在")
		}
		return nil, err
	}
	return campaign, nil
}

// ListCampaigns 活动列表
func (s *CampaignService) ListCampaigns(ctx context.Context, keyword string, page, pageSize int) ([]model.Campaign, int64, error) {
	return s.campaignRepo.List(ctx, keyword, page, pageSize)
}

// DeleteCampaign 软删除活动
func (s *CampaignService) DeleteCampaign(ctx context.Context, id int64) error {
	if _, err := s.GetCampaign(ctx, id); err != nil {
		return err
	}
	return s.campaignRepo.Delete(ctx, id)
}

// ==================== 运营分配 ====================

// AssignOperator 给运营分配 (campaign, item, day_group)，重复分配幂等返回
func (s *CampaignService) AssignOperator(ctx context.Context, req *dto.AssignOperatorRequest) (*model.CampaignOperatorAssignment, error) {
	operator, err := s.userRepo.GetByID(ctx, req.OperatorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("运营账号不存在")
		}
		return nil, err
	}
	if operator.Role != model.RoleOperator && operator.Role != model.RoleSales {
		return nil, apperr.InvalidInput("只能给运营或销售分配日组")
	}

	exists, err := s.assignmentRepo.Exists(ctx, req.CampaignID, req.ItemID, req.DayGroup, req.OperatorID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperr.InvalidInput("该分配已存在")
	}

	assignment := &model.CampaignOperatorAssignment{
		CampaignID: req.CampaignID,
		ItemID:     req.ItemID,
		DayGroup:   req.DayGroup,
		OperatorID: req.OperatorID,
	}
	if err := s.assignmentRepo.Create(ctx, assignment); err != nil {
		return nil, err
	}
	return assignment, nil
}

// UnassignOperator 取消分配
func (s *CampaignService) UnassignOperator(ctx context.Context, assignmentID int64) error {
	return s.assignmentRepo.Delete(ctx, assignmentID)
}

// ListOperatorAssignments 运营名下的分配
func (s *CampaignService) ListOperatorAssignments(ctx context.Context, operatorID int64) ([]model.CampaignOperatorAssignment, error) {
	return s.assignmentRepo.ListByOperator(ctx, operatorID)
}
