package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"inmo_dev_v1_202608/internal/controller"
	"inmo_dev_v1_202608/internal/middleware"
	"inmo_dev_v1_202608/internal/model"
	"inmo_dev_v1_202608/internal/repository"
	"inmo_dev_v1_202608/internal/router"
	"inmo_dev_v1_202608/internal/service"
	"inmo_dev_v1_202608/internal/task"
	"inmo_dev_v1_202608/pkg/database"
	"inmo_dev_v1_202608/pkg/inmo"
)

// @title 房源发布向导服务 API
// @version 1.0
// @description 四步发布向导：位置、详情、图片、确认提交
func main() {
	// 1. 初始化数据库
	db := initDatabase()

	// 2. 初始化依赖
	deps := initDependencies(db)

	// 3. 启动定时任务
	initTasks(deps)

	// 4. 初始化路由
	r := gin.Default()
	router.InitRoutes(r,
		deps.Controllers.User,
		deps.Controllers.Wizard,
		deps.Controllers.Catalog,
		deps.Controllers.Geo,
	)

	// 5. 启动服务
	startServer(r)
}

// ==================== 依赖容器 ====================

// Dependencies 依赖容器
type Dependencies struct {
	DB          *gorm.DB
	Repos       *Repositories
	Services    *Services
	Controllers *Controllers
	Platform    *inmo.Client
}

// Repositories 仓库集合
type Repositories struct {
	User      repository.UserRepository
	Catalog   repository.CatalogRepository
	WizardUow *repository.WizardUnitOfWork
}

// Services 服务集合
type Services struct {
	User    *service.UserService
	Catalog *service.CatalogService
	Geo     *service.GeoService
	AI      *service.AIService
	Image   *service.ImageService
	Wizard  *service.WizardService
	Storage service.StorageProvider
}

// Controllers 控制器集合
type Controllers struct {
	User    *controller.UserController
	Wizard  *controller.WizardController
	Catalog *controller.CatalogController
	Geo     *controller.GeoController
}

// ==================== 初始化函数 ====================

// initDatabase 初始化数据库
func initDatabase() *gorm.DB {
	dsn := getEnv("DATABASE_DSN",
		"host=localhost user=postgres password=postgres dbname=inmo_wizard port=5432 sslmode=disable TimeZone=UTC")
	return database.InitDB(dsn,
		// Manager
		&model.SysUser{},
		// Catalog
		&model.Region{}, &model.City{}, &model.PropertyType{},
		// Wizard
		&model.WizardSession{}, &model.WizardImage{},
	)
}

// initDependencies 初始化所有依赖
func initDependencies(db *gorm.DB) *Dependencies {
	// -------- JWT 配置 --------
	if secret := getEnv("JWT_SECRET", ""); secret != "" {
		cfg := middleware.DefaultJWTConfig()
		cfg.SecretKey = secret
		middleware.SetJWTConfig(cfg)
	}

	// -------- Repo 层 --------
	repos := &Repositories{
		User:      repository.NewUserRepository(db),
		Catalog:   repository.NewCatalogRepository(db),
		WizardUow: repository.NewWizardUnitOfWork(db),
	}

	// -------- 平台客户端 --------
	platform := inmo.NewClient(&inmo.Config{
		BaseURL:    getEnv("INMO_API_BASE_URL", "http://localhost:9000/api"),
		Timeout:    30 * time.Second,
		RetryCount: 2,
	})
	platform.SetToken(getEnv("INMO_ACCESS_TOKEN", ""))

	// -------- 存储 & AI & 地理服务 --------
	storage := initStorage()
	aiSvc := service.NewAIService(&service.AIConfig{
		ApiKey:       getEnv("GEMINI_API_KEY", ""),
		ModelVersion: getEnv("GEMINI_MODEL", ""),
	})
	geoSvc, err := service.NewGeoService(getEnv("GOOGLE_MAPS_API_KEY", ""), repos.Catalog)
	if err != nil {
		log.Fatalf("地理服务初始化失败: %v", err)
	}

	// -------- 业务服务 --------
	services := &Services{
		AI:      aiSvc,
		Geo:     geoSvc,
		Storage: storage,
	}
	services.User = service.NewUserService(repos.User)
	services.Catalog = service.NewCatalogService(repos.Catalog, platform)
	services.Image = service.NewImageService(repos.WizardUow, storage, getEnvInt64("MAX_IMAGE_SIZE_BYTES", 10*1024*1024))
	services.Wizard = service.NewWizardService(
		repos.WizardUow, repos.Catalog, platform, geoSvc, aiSvc, storage, services.Image,
	)

	// -------- Controller 层 --------
	controllers := &Controllers{
		User:    controller.NewUserController(services.User),
		Wizard:  controller.NewWizardController(services.Wizard),
		Catalog: controller.NewCatalogController(services.Catalog),
		Geo:     controller.NewGeoController(services.Geo),
	}

	return &Dependencies{
		DB:          db,
		Repos:       repos,
		Services:    services,
		Controllers: controllers,
		Platform:    platform,
	}
}

// initStorage 初始化暂存存储
func initStorage() service.StorageProvider {
	storage, err := service.NewStorageProvider(&service.StorageConfig{
		Provider:  getEnv("STORAGE_PROVIDER", "s3"),
		Bucket:    getEnv("AWS_BUCKET", ""),
		Region:    getEnv("AWS_REGION", ""),
		AccessKey: getEnv("AWS_ACCESS_KEY_ID", ""),
		SecretKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
		Endpoint:  getEnv("STORAGE_ENDPOINT", ""),
		CDNDomain: getEnv("AWS_CDN_DOMAIN", ""),
		BasePath:  getEnv("STORAGE_BASE_PATH", "inmo-wizard"),
	})
	if err != nil {
		log.Fatalf("存储服务初始化失败: %v", err)
	}
	return storage
}

// ==================== 定时任务 ====================

// initTasks 初始化定时任务
func initTasks(deps *Dependencies) {
	// 平台令牌保活
	tokenTask := task.NewTokenTask(
		deps.Platform,
		getEnv("INMO_REFRESH_TOKEN", ""),
	)
	tokenTask.Start()

	// 会话清理
	cleanupTask := task.NewSessionCleanupTask(
		deps.Services.Wizard,
		time.Duration(getEnvInt64("SESSION_STALE_HOURS", 72))*time.Hour,
	)
	cleanupTask.Start()

	// 启动时预热目录
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		if err := deps.Services.Catalog.Refresh(ctx); err != nil {
			log.Printf("目录预热失败，将按需刷新: %v", err)
		}
	}()

	log.Println("定时任务已启动")
}

// ==================== 服务启动 ====================

// startServer 启动服务
func startServer(r *gin.Engine) {
	port := getEnv("SERVER_PORT", "8080")

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	// 异步启动服务
	go func() {
		log.Printf("服务启动在 :%s", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("服务启动失败: %v", err)
		}
	}()

	// 等待退出信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("正在关闭服务...")

	// 优雅关闭，最多等待 30 秒
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("服务强制关闭: %v", err)
	}

	log.Println("服务已退出")
}

// ==================== 工具函数 ====================

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if v, err := strconv.ParseInt(value, 10, 64); err == nil {
			return v
		}
	}
	return defaultValue
}
