package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"revu_farm_v1_202609/pkg/apperr"
)

// fail 统一错误出口：业务错误带码返回，其余一律 500
func fail(c *gin.Context, err error) {
	var ae *apperr.Error
	if errors.As(err, &ae) {
		c.JSON(ae.StatusCode, gin.H{
			"code":    ae.StatusCode,
			"message": ae.Message,
			"error":   ae.Code,
		})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{
		"code":    500,
		"message": "服务内部错误: " + err.Error(),
	})
}

// ok 成功响应
func ok(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "success",
		"data":    data,
	})
}

// pathID 取并校验路径里的数字 ID
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "无效的" + name})
		return 0, false
	}
	return id, true
}
