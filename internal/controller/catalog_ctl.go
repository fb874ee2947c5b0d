package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"inmo_dev_v1_202608/internal/service"
)

// ==================== 控制器 ====================

// CatalogController 目录控制器
type CatalogController struct {
	catalogService *service.CatalogService
}

func NewCatalogController(catalogService *service.CatalogService) *CatalogController {
	return &CatalogController{catalogService: catalogService}
}

// ==================== API 方法 ====================

// PropertyTypes 房产类型目录
// @Summary 房产类型目录
// @Tags Catalog
// @Success 200 {array} dto.CatalogEntryVO
// @Router /api/catalog/property-types [get]
func (ctrl *CatalogController) PropertyTypes(c *gin.Context) {
	entries, err := ctrl.catalogService.PropertyTypes(c.Request.Context())
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

// Regions 省份目录
// @Summary 省份目录
// @Tags Catalog
// @Success 200 {array} dto.CatalogEntryVO
// @Router /api/catalog/regions [get]
func (ctrl *CatalogController) Regions(c *gin.Context) {
	entries, err := ctrl.catalogService.Regions(c.Request.Context())
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

// Refresh 手动全量刷新目录镜像
// @Summary 手动刷新目录（管理员）
// @Tags Catalog
// @Success 200 {object} map[string]interface{}
// @Router /api/catalog/refresh [post]
func (ctrl *CatalogController) Refresh(c *gin.Context) {
	if err := ctrl.catalogService.Refresh(c.Request.Context()); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"code":    502,
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "success",
	})
}

// Cities 城市目录
// @Summary 城市目录，可按省份过滤
// @Tags Catalog
// @Param region_id query string false "省份ID"
// @Success 200 {array} dto.CityEntryVO
// @Router /api/catalog/cities [get]
func (ctrl *CatalogController) Cities(c *gin.Context) {
	entries, err := ctrl.catalogService.Cities(c.Request.Context(), c.Query("region_id"))
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
