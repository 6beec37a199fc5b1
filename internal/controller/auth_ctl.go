package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"revu_farm_v1_202609/internal/api/dto"
	"revu_farm_v1_202609/internal/service"
)

type AuthController struct {
	userService *service.UserService
}

func NewAuthController(userService *service.UserService) *AuthController {
	return &AuthController{userService: userService}
}

// Login 登录
// @Summary 账号密码登录
// @Tags Auth
// @Param body body dto.LoginRequest true "登录参数"
// @Success 200 {object} dto.LoginResponse
// @Router /api/auth/login [post]
func (ctrl *AuthController) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "参数错误: " + err.Error()})
		return
	}

	resp, err := ctrl.userService.Login(c.Request.Context(), &req)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, resp)
}

// CreateUser 管理员开账号
// @Summary 创建系统用户
// @Tags Auth
// @Param body body dto.CreateUserRequest true "用户参数"
// @Router /api/users [post]
func (ctrl *AuthController) CreateUser(c *gin.Context) {
	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "参数错误: " + err.Error()})
		return
	}

	user, err := ctrl.userService.CreateUser(c.Request.Context(), &req)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, user)
}
