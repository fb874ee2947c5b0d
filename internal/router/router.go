package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"inmo_dev_v1_202608/internal/controller"
	"inmo_dev_v1_202608/internal/middleware"

	_ "inmo_dev_v1_202608/docs"
)

// InitRoutes 注册所有路由
func InitRoutes(r *gin.Engine,
	userCtl *controller.UserController,
	wizardCtl *controller.WizardController,
	catalogCtl *controller.CatalogController,
	geoCtl *controller.GeoController) {
	// 1. Swagger 文档路由
	// 访问 http://localhost:8080/swagger/index.html 即可查看
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// 2. API 路由组
	api := r.Group("/api")
	{
		// auth 鉴权组（公开）
		auth := api.Group("/auth")
		{
			auth.POST("/login", userCtl.Login)
			auth.POST("/register", userCtl.Register)
			auth.POST("/refresh", userCtl.RefreshToken)
		}

		// user 用户组
		user := api.Group("/user", middleware.JWTAuth())
		{
			user.GET("/profile", userCtl.Profile)
			user.PUT("/password", userCtl.ChangePassword)
		}

		// catalog 目录组
		catalog := api.Group("/catalog", middleware.JWTAuth())
		{
			catalog.GET("/property-types", catalogCtl.PropertyTypes)
			catalog.GET("/regions", catalogCtl.Regions)
			catalog.GET("/cities", catalogCtl.Cities)
			catalog.POST("/refresh", middleware.RequireRole("admin"), catalogCtl.Refresh)
		}

		// geo 地理组：地址辅助接口未登录也可调用
		geo := api.Group("/geo", middleware.OptionalAuth())
		{
			geo.GET("/autocomplete", geoCtl.Autocomplete)
			geo.GET("/reverse", geoCtl.ReverseGeocode)
		}

		// wizard 发布向导组
		wizard := api.Group("/wizard", middleware.JWTAuth())
		{
			wizard.POST("", wizardCtl.CreateSession)
			wizard.GET("/:session_id", wizardCtl.GetSession)
			wizard.DELETE("/:session_id", wizardCtl.DeleteSession)

			// 步骤数据
			wizard.PUT("/:session_id/location", wizardCtl.UpdateLocation)
			wizard.PUT("/:session_id/details", wizardCtl.UpdateDetails)

			// 步骤切换
			wizard.POST("/:session_id/advance", wizardCtl.Advance)
			wizard.POST("/:session_id/back", wizardCtl.Back)

			// AI 与周边
			wizard.POST("/:session_id/generate-description", wizardCtl.GenerateDescription)
			wizard.POST("/:session_id/nearby", wizardCtl.Nearby)

			// 图片
			wizard.POST("/:session_id/images", wizardCtl.UploadImages)
			wizard.POST("/:session_id/images/remote", wizardCtl.AddRemoteImage)
			wizard.DELETE("/:session_id/images/:image_id", wizardCtl.RemoveImage)
			wizard.PUT("/:session_id/images/:image_id/primary", wizardCtl.MakePrimaryImage)

			// 提交
			wizard.POST("/:session_id/submit", wizardCtl.Submit)
		}
	}
}
