package controller

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"inmo_dev_v1_202608/internal/api/dto"
	"inmo_dev_v1_202608/internal/middleware"
	"inmo_dev_v1_202608/internal/service"
)

// ==================== 控制器 ====================

// WizardController 发布向导控制器
type WizardController struct {
	wizardService *service.WizardService
}

func NewWizardController(wizardService *service.WizardService) *WizardController {
	return &WizardController{wizardService: wizardService}
}

// ==================== 会话 ====================

// CreateSession 创建向导会话
// @Summary 创建发布向导会话
// @Tags Wizard
// @Accept json
// @Produce json
// @Param body body dto.CreateWizardRequest true "创建请求"
// @Success 201 {object} dto.WizardSessionVO
// @Router /api/wizard [post]
func (ctrl *WizardController) CreateSession(c *gin.Context) {
	var req dto.CreateWizardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "参数错误: " + err.Error(),
		})
		return
	}

	userID := middleware.GetUserID(c)
	result, err := ctrl.wizardService.CreateSession(c.Request.Context(), userID, &req)
	if err != nil {
		if errors.Is(err, service.ErrPropertyNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"code":    404,
				"message": err.Error(),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    500,
			"message": "创建失败: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"code":    0,
		"message": "success",
		"data":    result,
	})
}

// GetSession 获取会话详情
// @Summary 获取向导会话详情
// @Tags Wizard
// @Param session_id path int true "会话ID"
// @Success 200 {object} dto.WizardSessionVO
// @Router /api/wizard/{session_id} [get]
func (ctrl *WizardController) GetSession(c *gin.Context) {
	sessionID, ok := parseSessionID(c)
	if !ok {
		return
	}

	userID := middleware.GetUserID(c)
	result, err := ctrl.wizardService.GetSession(c.Request.Context(), userID, sessionID)
	if err != nil {
		respondWizardError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "success",
		"data":    result,
	})
}

// DeleteSession 放弃会话
// @Summary 放弃向导会话
// @Tags Wizard
// @Param session_id path int true "会话ID"
// @Success 200 {object} map[string]interface{}
// @Router /api/wizard/{session_id} [delete]
func (ctrl *WizardController) DeleteSession(c *gin.Context) {
	sessionID, ok := parseSessionID(c)
	if !ok {
		return
	}

	userID := middleware.GetUserID(c)
	if err := ctrl.wizardService.DeleteSession(c.Request.Context(), userID, sessionID); err != nil {
		respondWizardError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "success",
	})
}

// ==================== 步骤数据 ====================

// UpdateLocation 更新位置步骤
// @Summary 更新位置数据，地图选点触发反向地理编码
// @Tags Wizard
// @Accept json
// @Param session_id path int true "会话ID"
// @Param body body dto.LocationUpdateRequest true "位置数据"
// @Success 200 {object} dto.WizardSessionVO
// @Router /api/wizard/{session_id}/location [put]
func (ctrl *WizardController) UpdateLocation(c *gin.Context) {
	sessionID, ok := parseSessionID(c)
	if !ok {
		return
	}

	var req dto.LocationUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "参数错误: " + err.Error(),
		})
		return
	}

	userID := middleware.GetUserID(c)
	result, err := ctrl.wizardService.UpdateLocation(c.Request.Context(), userID, sessionID, &req)
	if err != nil {
		respondWizardError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "success",
		"data":    result,
	})
}

// UpdateDetails 更新详情步骤
// @Summary 更新详情数据
// @Tags Wizard
// @Accept json
// @Param session_id path int true "会话ID"
// @Param body body dto.DetailsUpdateRequest true "详情数据"
// @Success 200 {object} dto.WizardSessionVO
// @Router /api/wizard/{session_id}/details [put]
func (ctrl *WizardController) UpdateDetails(c *gin.Context) {
	sessionID, ok := parseSessionID(c)
	if !ok {
		return
	}

	var req dto.DetailsUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "参数错误: " + err.Error(),
		})
		return
	}

	userID := middleware.GetUserID(c)
	result, err := ctrl.wizardService.UpdateDetails(c.Request.Context(), userID, sessionID, &req)
	if err != nil {
		respondWizardError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "success",
		"data":    result,
	})
}

// ==================== 步骤切换 ====================

// Advance 前进一步
// @Summary 前进到下一步（带门禁校验）
// @Tags Wizard
// @Param session_id path int true "会话ID"
// @Success 200 {object} dto.WizardSessionVO
// @Router /api/wizard/{session_id}/advance [post]
func (ctrl *WizardController) Advance(c *gin.Context) {
	sessionID, ok := parseSessionID(c)
	if !ok {
		return
	}

	userID := middleware.GetUserID(c)
	result, err := ctrl.wizardService.Advance(c.Request.Context(), userID, sessionID)
	if err != nil {
		respondWizardError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "success",
		"data":    result,
	})
}

// Back 后退到更早的步骤
// @Summary 后退到指定步骤，默认上一步（数据保留）
// @Tags Wizard
// @Accept json
// @Param session_id path int true "会话ID"
// @Param body body dto.BackRequest false "目标步骤"
// @Success 200 {object} dto.WizardSessionVO
// @Router /api/wizard/{session_id}/back [post]
func (ctrl *WizardController) Back(c *gin.Context) {
	sessionID, ok := parseSessionID(c)
	if !ok {
		return
	}

	// 请求体可省略，省略时后退一步
	var req dto.BackRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "参数错误: " + err.Error(),
		})
		return
	}

	userID := middleware.GetUserID(c)
	result, err := ctrl.wizardService.Back(c.Request.Context(), userID, sessionID, req.Step)
	if err != nil {
		respondWizardError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "success",
		"data":    result,
	})
}

// ==================== AI 与周边 ====================

// GenerateDescription AI 生成文案
// @Summary AI 生成标题与描述
// @Tags Wizard
// @Accept json
// @Param session_id path int true "会话ID"
// @Param body body dto.GenerateDescriptionRequest false "生成提示"
// @Success 200 {object} dto.WizardSessionVO
// @Router /api/wizard/{session_id}/generate-description [post]
func (ctrl *WizardController) GenerateDescription(c *gin.Context) {
	sessionID, ok := parseSessionID(c)
	if !ok {
		return
	}

	var req dto.GenerateDescriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "参数错误: " + err.Error(),
		})
		return
	}

	userID := middleware.GetUserID(c)
	result, err := ctrl.wizardService.GenerateDescription(c.Request.Context(), userID, sessionID, &req)
	if err != nil {
		respondWizardError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "success",
		"data":    result,
	})
}

// Nearby 周边检索
// @Summary 检索周边配套并生成描述
// @Tags Wizard
// @Param session_id path int true "会话ID"
// @Success 200 {object} map[string]interface{}
// @Router /api/wizard/{session_id}/nearby [post]
func (ctrl *WizardController) Nearby(c *gin.Context) {
	sessionID, ok := parseSessionID(c)
	if !ok {
		return
	}

	userID := middleware.GetUserID(c)
	nearby, err := ctrl.wizardService.Nearby(c.Request.Context(), userID, sessionID)
	if err != nil {
		respondWizardError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "success",
		"data":    gin.H{"nearby_places": nearby},
	})
}

// ==================== 图片 ====================

// UploadImages 批量上传图片
// @Summary 批量上传图片 (multipart，单个文件被拒不影响其余)
// @Tags Wizard
// @Accept multipart/form-data
// @Param session_id path int true "会话ID"
// @Param files formData file true "图片文件"
// @Success 200 {object} dto.ImageIngestResult
// @Router /api/wizard/{session_id}/images [post]
func (ctrl *WizardController) UploadImages(c *gin.Context) {
	sessionID, ok := parseSessionID(c)
	if !ok {
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "参数错误: " + err.Error(),
		})
		return
	}

	fileHeaders := form.File["files"]
	if len(fileHeaders) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "未收到文件",
		})
		return
	}

	files := make([]service.FileUpload, 0, len(fileHeaders))
	for _, fh := range fileHeaders {
		f, err := fh.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"code":    400,
				"message": "读取文件失败: " + err.Error(),
			})
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"code":    400,
				"message": "读取文件失败: " + err.Error(),
			})
			return
		}
		files = append(files, service.FileUpload{FileName: fh.Filename, Data: data})
	}

	userID := middleware.GetUserID(c)
	result, err := ctrl.wizardService.IngestImages(c.Request.Context(), userID, sessionID, files)
	if err != nil {
		respondWizardError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "success",
		"data":    result,
	})
}

// AddRemoteImage 登记远程图片
// @Summary 登记远程图片 URL（编辑模式）
// @Tags Wizard
// @Accept json
// @Param session_id path int true "会话ID"
// @Param body body dto.RemoteImageRequest true "远程图片"
// @Success 200 {object} dto.ImageVO
// @Router /api/wizard/{session_id}/images/remote [post]
func (ctrl *WizardController) AddRemoteImage(c *gin.Context) {
	sessionID, ok := parseSessionID(c)
	if !ok {
		return
	}

	var req dto.RemoteImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "参数错误: " + err.Error(),
		})
		return
	}

	userID := middleware.GetUserID(c)
	result, err := ctrl.wizardService.AddRemoteImage(c.Request.Context(), userID, sessionID, req.URL)
	if err != nil {
		respondWizardError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "success",
		"data":    result,
	})
}

// RemoveImage 移除图片
// @Summary 移除图片并收紧顺序
// @Tags Wizard
// @Param session_id path int true "会话ID"
// @Param image_id path int true "图片ID"
// @Success 200 {object} map[string]interface{}
// @Router /api/wizard/{session_id}/images/{image_id} [delete]
func (ctrl *WizardController) RemoveImage(c *gin.Context) {
	sessionID, ok := parseSessionID(c)
	if !ok {
		return
	}
	imageID, ok := parsePathID(c, "image_id", "无效的图片ID")
	if !ok {
		return
	}

	userID := middleware.GetUserID(c)
	if err := ctrl.wizardService.RemoveImage(c.Request.Context(), userID, sessionID, imageID); err != nil {
		respondWizardError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "success",
	})
}

// MakePrimaryImage 设为主图
// @Summary 将图片设为主图（移到首位）
// @Tags Wizard
// @Param session_id path int true "会话ID"
// @Param image_id path int true "图片ID"
// @Success 200 {object} map[string]interface{}
// @Router /api/wizard/{session_id}/images/{image_id}/primary [put]
func (ctrl *WizardController) MakePrimaryImage(c *gin.Context) {
	sessionID, ok := parseSessionID(c)
	if !ok {
		return
	}
	imageID, ok := parsePathID(c, "image_id", "无效的图片ID")
	if !ok {
		return
	}

	userID := middleware.GetUserID(c)
	if err := ctrl.wizardService.MakePrimaryImage(c.Request.Context(), userID, sessionID, imageID); err != nil {
		respondWizardError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "success",
	})
}

// ==================== 提交 ====================

// Submit 最终提交
// @Summary 两段式提交：位置 → 房产 → 图片
// @Tags Wizard
// @Param session_id path int true "会话ID"
// @Success 200 {object} dto.SubmitResult
// @Router /api/wizard/{session_id}/submit [post]
func (ctrl *WizardController) Submit(c *gin.Context) {
	sessionID, ok := parseSessionID(c)
	if !ok {
		return
	}

	userID := middleware.GetUserID(c)
	result, err := ctrl.wizardService.Submit(c.Request.Context(), userID, sessionID)
	if err != nil {
		respondWizardError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "success",
		"data":    result,
	})
}

// ==================== 辅助函数 ====================

// parseSessionID 解析路径中的会话ID
func parseSessionID(c *gin.Context) (int64, bool) {
	return parsePathID(c, "session_id", "无效的会话ID")
}

func parsePathID(c *gin.Context, name, msg string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": msg,
		})
		return 0, false
	}
	return id, true
}

// respondWizardError 按错误类型映射状态码
func respondWizardError(c *gin.Context, err error) {
	var vErr *service.ValidationError
	switch {
	case errors.Is(err, service.ErrSessionNotFound), errors.Is(err, service.ErrImageNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"code":    404,
			"message": err.Error(),
		})
	case errors.Is(err, service.ErrSessionNotEditable), errors.Is(err, service.ErrImageLimitReached):
		c.JSON(http.StatusConflict, gin.H{
			"code":    409,
			"message": err.Error(),
		})
	case errors.As(err, &vErr):
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": err.Error(),
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    500,
			"message": err.Error(),
		})
	}
}
