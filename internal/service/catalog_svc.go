package service

import (
	"context"
	"log"
	"sync"
	"time"

	"inmo_dev_v1_202608/internal/api/dto"
	"inmo_dev_v1_202608/internal/model"
	"inmo_dev_v1_202608/internal/repository"
	"inmo_dev_v1_202608/pkg/inmo"
)

// ==================== 接口定义 ====================

// catalogSource 目录数据来源（平台客户端子集，便于测试替换）
type catalogSource interface {
	ListPropertyTypes(ctx context.Context) ([]inmo.CatalogEntry, error)
	ListRegions(ctx context.Context) ([]inmo.CatalogEntry, error)
	ListCities(ctx context.Context) ([]inmo.CityEntry, error)
}

// ==================== CatalogService 目录服务 ====================

// CatalogService 静态目录服务
// 省份/城市/房产类型目录来自平台，本地整表镜像，按 TTL 刷新
type CatalogService struct {
	repo   repository.CatalogRepository
	source catalogSource

	mu          sync.Mutex
	lastRefresh time.Time
	refreshTTL  time.Duration
}

// NewCatalogService 创建目录服务
func NewCatalogService(repo repository.CatalogRepository, source catalogSource) *CatalogService {
	return &CatalogService{
		repo:       repo,
		source:     source,
		refreshTTL: 12 * time.Hour,
	}
}

// ==================== 刷新 ====================

// Refresh 从平台拉取三类目录并整表 upsert 到本地
func (s *CatalogService) Refresh(ctx context.Context) error {
	now := time.Now()

	types, err := s.source.ListPropertyTypes(ctx)
	if err != nil {
		return err
	}
	regions, err := s.source.ListRegions(ctx)
	if err != nil {
		return err
	}
	cities, err := s.source.ListCities(ctx)
	if err != nil {
		return err
	}

	typeModels := make([]model.PropertyType, 0, len(types))
	for _, t := range types {
		typeModels = append(typeModels, model.PropertyType{ID: t.ID, Nombre: t.Nombre, SyncedAt: now})
	}
	regionModels := make([]model.Region, 0, len(regions))
	for _, r := range regions {
		regionModels = append(regionModels, model.Region{ID: r.ID, Nombre: r.Nombre, SyncedAt: now})
	}
	cityModels := make([]model.City, 0, len(cities))
	for _, c := range cities {
		cityModels = append(cityModels, model.City{ID: c.ID, Nombre: c.Nombre, RegionID: c.IDDepartamento, SyncedAt: now})
	}

	if err := s.repo.ReplacePropertyTypes(ctx, typeModels); err != nil {
		return err
	}
	if err := s.repo.ReplaceRegions(ctx, regionModels); err != nil {
		return err
	}
	if err := s.repo.ReplaceCities(ctx, cityModels); err != nil {
		return err
	}

	s.mu.Lock()
	s.lastRefresh = now
	s.mu.Unlock()

	log.Printf("[CatalogService] 目录刷新完成 types=%d regions=%d cities=%d", len(typeModels), len(regionModels), len(cityModels))
	return nil
}

// ensureFresh 本地目录超过 TTL 时触发刷新，刷新失败继续用旧数据
func (s *CatalogService) ensureFresh(ctx context.Context) {
	s.mu.Lock()
	stale := time.Since(s.lastRefresh) > s.refreshTTL
	s.mu.Unlock()

	if !stale {
		return
	}
	if err := s.Refresh(ctx); err != nil {
		log.Printf("[CatalogService] 目录刷新失败，继续使用本地数据: %v", err)
	}
}

// ==================== 查询 ====================

// PropertyTypes 房产类型目录
func (s *CatalogService) PropertyTypes(ctx context.Context) ([]dto.CatalogEntryVO, error) {
	s.ensureFresh(ctx)
	types, err := s.repo.ListPropertyTypes(ctx)
	if err != nil {
		return nil, err
	}
	entries := make([]dto.CatalogEntryVO, 0, len(types))
	for _, t := range types {
		entries = append(entries, dto.CatalogEntryVO{ID: t.ID, Nombre: t.Nombre})
	}
	return entries, nil
}

// Regions 省份目录
func (s *CatalogService) Regions(ctx context.Context) ([]dto.CatalogEntryVO, error) {
	s.ensureFresh(ctx)
	regions, err := s.repo.ListRegions(ctx)
	if err != nil {
		return nil, err
	}
	entries := make([]dto.CatalogEntryVO, 0, len(regions))
	for _, r := range regions {
		entries = append(entries, dto.CatalogEntryVO{ID: r.ID, Nombre: r.Nombre})
	}
	return entries, nil
}

// Cities 城市目录，regionID 非空时按省份过滤
func (s *CatalogService) Cities(ctx context.Context, regionID string) ([]dto.CityEntryVO, error) {
	s.ensureFresh(ctx)

	var (
		cities []model.City
		err    error
	)
	if regionID != "" {
		cities, err = s.repo.ListCitiesByRegion(ctx, regionID)
	} else {
		cities, err = s.repo.ListCities(ctx)
	}
	if err != nil {
		return nil, err
	}

	entries := make([]dto.CityEntryVO, 0, len(cities))
	for _, c := range cities {
		entries = append(entries, dto.CityEntryVO{ID: c.ID, Nombre: c.Nombre, RegionID: c.RegionID})
	}
	return entries, nil
}
