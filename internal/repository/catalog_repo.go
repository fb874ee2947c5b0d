package repository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"inmo_dev_v1_202608/internal/model"
)

// ==================== 仓储接口 ====================

// CatalogRepository 静态目录仓储接口
// 目录来自平台，整表刷新，本地只读
type CatalogRepository interface {
	ReplaceRegions(ctx context.Context, regions []model.Region) error
	ReplaceCities(ctx context.Context, cities []model.City) error
	ReplacePropertyTypes(ctx context.Context, types []model.PropertyType) error

	ListRegions(ctx context.Context) ([]model.Region, error)
	ListCities(ctx context.Context) ([]model.City, error)
	ListCitiesByRegion(ctx context.Context, regionID string) ([]model.City, error)
	ListPropertyTypes(ctx context.Context) ([]model.PropertyType, error)

	// 地理匹配：按名称不区分大小写查找
	FindRegionByName(ctx context.Context, name string) (*model.Region, error)
	FindCityByName(ctx context.Context, regionID, name string) (*model.City, error)

	GetRegion(ctx context.Context, id string) (*model.Region, error)
	GetCity(ctx context.Context, id string) (*model.City, error)
	GetPropertyType(ctx context.Context, id string) (*model.PropertyType, error)
}

// ==================== 实现 ====================

type catalogRepo struct {
	db *gorm.DB
}

// NewCatalogRepository 创建目录仓储
func NewCatalogRepository(db *gorm.DB) CatalogRepository {
	return &catalogRepo{db: db}
}

// ReplaceRegions 整表 upsert 省份目录
func (r *catalogRepo) ReplaceRegions(ctx context.Context, regions []model.Region) error {
	if len(regions) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&regions).Error
}

func (r *catalogRepo) ReplaceCities(ctx context.Context, cities []model.City) error {
	if len(cities) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&cities).Error
}

func (r *catalogRepo) ReplacePropertyTypes(ctx context.Context, types []model.PropertyType) error {
	if len(types) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&types).Error
}

func (r *catalogRepo) ListRegions(ctx context.Context) ([]model.Region, error) {
	var regions []model.Region
	err := r.db.WithContext(ctx).Order("nombre ASC").Find(&regions).Error
	return regions, err
}

func (r *catalogRepo) ListCities(ctx context.Context) ([]model.City, error) {
	var cities []model.City
	err := r.db.WithContext(ctx).Order("nombre ASC").Find(&cities).Error
	return cities, err
}

func (r *catalogRepo) ListCitiesByRegion(ctx context.Context, regionID string) ([]model.City, error) {
	var cities []model.City
	err := r.db.WithContext(ctx).
		Where("region_id = ?", regionID).
		Order("nombre ASC").
		Find(&cities).Error
	return cities, err
}

func (r *catalogRepo) ListPropertyTypes(ctx context.Context) ([]model.PropertyType, error) {
	var types []model.PropertyType
	err := r.db.WithContext(ctx).Order("nombre ASC").Find(&types).Error
	return types, err
}

// FindRegionByName 不区分大小写匹配省份名；未命中返回 (nil, nil)
func (r *catalogRepo) FindRegionByName(ctx context.Context, name string) (*model.Region, error) {
	var region model.Region
	err := r.db.WithContext(ctx).
		Where("LOWER(nombre) = ?", strings.ToLower(name)).
		First(&region).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &region, nil
}

// FindCityByName 在指定省份内不区分大小写匹配城市名；未命中返回 (nil, nil)
func (r *catalogRepo) FindCityByName(ctx context.Context, regionID, name string) (*model.City, error) {
	var city model.City
	err := r.db.WithContext(ctx).
		Where("region_id = ? AND LOWER(nombre) = ?", regionID, strings.ToLower(name)).
		First(&city).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &city, nil
}

func (r *catalogRepo) GetRegion(ctx context.Context, id string) (*model.Region, error) {
	var region model.Region
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&region).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &region, nil
}

func (r *catalogRepo) GetCity(ctx context.Context, id string) (*model.City, error) {
	var city model.City
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&city).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &city, nil
}

func (r *catalogRepo) GetPropertyType(ctx context.Context, id string) (*model.PropertyType, error) {
	var pt model.PropertyType
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&pt).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &pt, nil
}
