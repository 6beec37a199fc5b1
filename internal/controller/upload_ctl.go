package controller

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"revu_farm_v1_202609/internal/service"
)

// UploadController 公开上传口（买家侧，无需登录）
type UploadController struct {
	uploadService *service.UploadService
}

func NewUploadController(uploadService *service.UploadService) *UploadController {
	return &UploadController{uploadService: uploadService}
}

// GetGroupInfo 上传页信息
// @Summary 按口令查日组信息（商品快照 + 槽位）
// @Tags Upload
// @Param token path string true "上传口令"
// @Router /upload/{token} [get]
func (ctrl *UploadController) GetGroupInfo(c *gin.Context) {
	token := c.Param("token")
	info, err := ctrl.uploadService.GetGroupInfo(c.Request.Context(), token)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, info)
}

// Reconcile 对账上传
// @Summary 批量上传评价图并逐一挂到买家
// @Tags Upload
// @Accept multipart/form-data
// @Param token path string true "上传口令"
// @Param buyer_ids formData string true "买家ID，与文件一一对应"
// @Param files formData file true "评价截图"
// @Router /upload/{token} [post]
func (ctrl *UploadController) Reconcile(c *gin.Context) {
	token := c.Param("token")

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "参数错误: " + err.Error()})
		return
	}

	buyerIDs, err := parseBuyerIDs(form.Value["buyer_ids"])
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "参数错误: buyer_ids 无效"})
		return
	}

	files, err := readUploadFiles(form.File["files"])
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "读取文件失败"})
		return
	}

	result, err := ctrl.uploadService.Reconcile(c.Request.Context(), token, buyerIDs, files)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, result)
}

// PreUpload 先传图
// @Summary 名单外买家先传图，生成临时买家
// @Tags Upload
// @Accept multipart/form-data
// @Param token path string true "上传口令"
// @Param name formData string true "买家姓名"
// @Param account_info formData string true "收款账户原文"
// @Param file formData file true "评价截图"
// @Router /upload/{token}/pre [post]
func (ctrl *UploadController) PreUpload(c *gin.Context) {
	token := c.Param("token")
	name := strings.TrimSpace(c.PostForm("name"))
	accountInfo := strings.TrimSpace(c.PostForm("account_info"))
	if name == "" || accountInfo == "" {
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "参数错误: 姓名和账户不能为空"})
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "请上传图片文件"})
		return
	}
	defer file.Close()

	data := make([]byte, header.Size)
	if _, err := file.Read(data); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": 500, "message": "读取文件失败"})
		return
	}

	resp, err := ctrl.uploadService.PreUpload(c.Request.Context(), token, name, accountInfo, service.UploadFile{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	})
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, resp)
}

// FindBuyers 按姓名找买家
// @Summary 按账户尾名精确匹配日组内买家
// @Tags Upload
// @Param token path string true "上传口令"
// @Param name query string true "买家姓名"
// @Router /upload/{token}/buyers [get]
func (ctrl *UploadController) FindBuyers(c *gin.Context) {
	token := c.Param("token")
	name := strings.TrimSpace(c.Query("name"))
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "参数错误: name 不能为空"})
		return
	}

	candidates, err := ctrl.uploadService.FindBuyersByName(c.Request.Context(), token, name)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, candidates)
}

// parseBuyerIDs 支持两种形式: 重复表单项, 或单项逗号分隔
func parseBuyerIDs(values []string) ([]int64, error) {
	var raw []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			part = strings.TrimSpace(part)
			if part != "" {
				raw = append(raw, part)
			}
		}
	}

	ids := make([]int64, 0, len(raw))
	for _, r := range raw {
		id, err := strconv.ParseInt(r, 10, 64)
		if err != nil {
			return nil, err
		}
		if id <= 0 {
			return nil, fmt.Errorf("非法买家ID: %d", id)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func readUploadFiles(headers []*multipart.FileHeader) ([]service.UploadFile, error) {
	files := make([]service.UploadFile, 0, len(headers))
	for _, header := range headers {
		f, err := header.Open()
		if err != nil {
			return nil, err
		}

		data := make([]byte, header.Size)
		if _, err := f.Read(data); err != nil {
			f.Close()
			return nil, err
		}
		f.Close()

		files = append(files, service.UploadFile{
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Data:        data,
		})
	}
	return files, nil
}
