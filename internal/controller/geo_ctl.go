package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"inmo_dev_v1_202608/internal/service"
)

// ==================== 控制器 ====================

// GeoController 地理控制器
type GeoController struct {
	geoService *service.GeoService
}

func NewGeoController(geoService *service.GeoService) *GeoController {
	return &GeoController{geoService: geoService}
}

// ==================== API 方法 ====================

// Autocomplete 地址联想
// @Summary 地址联想
// @Tags Geo
// @Param input query string true "输入文本"
// @Success 200 {array} dto.AutocompleteEntry
// @Router /api/geo/autocomplete [get]
func (ctrl *GeoController) Autocomplete(c *gin.Context) {
	input := c.Query("input")
	if input == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "input 不能为空",
		})
		return
	}

	entries, err := ctrl.geoService.Autocomplete(c.Request.Context(), input)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    500,
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "success",
		"data":    entries,
	})
}

// ReverseGeocode 反向地理编码
// @Summary 坐标解析为地址（含目录对账）
// @Tags Geo
// @Param lat query number true "纬度"
// @Param lng query number true "经度"
// @Success 200 {object} dto.GeocodeResultVO
// @Router /api/geo/reverse [get]
func (ctrl *GeoController) ReverseGeocode(c *gin.Context) {
	lat, errLat := strconv.ParseFloat(c.Query("lat"), 64)
	lng, errLng := strconv.ParseFloat(c.Query("lng"), 64)
	if errLat != nil || errLng != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "无效的坐标",
		})
		return
	}

	result, err := ctrl.geoService.ReverseGeocode(c.Request.Context(), lat, lng)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    500,
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "success",
		"data":    result,
	})
}
