package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"googlemaps.github.io/maps"

	"inmo_dev_v1_202608/internal/api/dto"
	"inmo_dev_v1_202608/internal/repository"
	"inmo_dev_v1_202608/pkg/utils"
)

// ==================== 接口定义 ====================

// mapsAPI Google Maps 客户端接口（便于测试替换）
type mapsAPI interface {
	ReverseGeocode(ctx context.Context, r *maps.GeocodingRequest) ([]maps.GeocodingResult, error)
	NearbySearch(ctx context.Context, r *maps.NearbySearchRequest) (maps.PlacesSearchResponse, error)
	PlaceAutocomplete(ctx context.Context, r *maps.PlaceAutocompleteRequest) (maps.AutocompleteResponse, error)
}

// ==================== GeoService 地理服务 ====================

// GeoService 地理服务：反向地理编码 + 周边检索 + 地址联想
type GeoService struct {
	client      mapsAPI
	catalogRepo repository.CatalogRepository
	// nearbyTTL 周边检索结果缓存时长
	nearbyTTL time.Duration
}

// NewGeoService 创建地理服务
func NewGeoService(apiKey string, catalogRepo repository.CatalogRepository) (*GeoService, error) {
	if apiKey == "" {
		return nil, errors.New("缺少 Google Maps API Key")
	}
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("初始化 Google Maps 客户端失败: %v", err)
	}
	return &GeoService{
		client:      client,
		catalogRepo: catalogRepo,
		nearbyTTL:   10 * time.Minute,
	}, nil
}

// NewGeoServiceWithClient 注入客户端创建（测试用）
func NewGeoServiceWithClient(client mapsAPI, catalogRepo repository.CatalogRepository) *GeoService {
	return &GeoService{
		client:      client,
		catalogRepo: catalogRepo,
		nearbyTTL:   10 * time.Minute,
	}
}

// ==================== 反向地理编码 ====================

// 街区字段取值优先级
var neighborhoodTypes = []string{
	"neighborhood",
	"sublocality",
	"sublocality_level_1",
	"sublocality_level_2",
	"sublocality_level_3",
}

// ReverseGeocode 反向地理编码并与本地目录对账
// 检测到的省/城市名会在目录表中按名称匹配；匹配不到时仅返回提示，
// 不会猜测 ID，由用户手动选择。城市匹配级联于省：省未匹配则城市一并放弃
func (s *GeoService) ReverseGeocode(ctx context.Context, lat, lng float64) (*dto.GeocodeResultVO, error) {
	results, err := s.client.ReverseGeocode(ctx, &maps.GeocodingRequest{
		LatLng:   &maps.LatLng{Lat: lat, Lng: lng},
		Language: "es",
	})
	if err != nil {
		return nil, fmt.Errorf("反向地理编码失败: %v", err)
	}
	if len(results) == 0 {
		return nil, ErrGeocodeNoResult
	}

	comp := extractComponents(results[0])

	vo := &dto.GeocodeResultVO{
		CountryName:  comp.country,
		Address:      comp.address,
		Neighborhood: comp.neighborhood,
		PostalCode:   comp.postalCode,
		RegionName:   comp.region,
		CityName:     comp.city,
		Components:   comp.raw,
	}

	// 省级对账
	if comp.region != "" {
		region, err := s.catalogRepo.FindRegionByName(ctx, comp.region)
		if err != nil {
			return nil, err
		}
		if region != nil {
			vo.RegionID = region.ID
			vo.RegionName = region.Nombre

			// 城市对账（仅在省匹配成功后进行）
			if comp.city != "" {
				city, err := s.catalogRepo.FindCityByName(ctx, region.ID, comp.city)
				if err != nil {
					return nil, err
				}
				if city != nil {
					vo.CityID = city.ID
					vo.CityName = city.Nombre
				} else {
					vo.Notices = append(vo.Notices, fmt.Sprintf("城市「%s」未在目录中找到，请手动选择", comp.city))
				}
			}
		} else {
			vo.Notices = append(vo.Notices, fmt.Sprintf("省份「%s」未在目录中找到，请手动选择", comp.region))
		}
	}

	return vo, nil
}

// geoComponents 从地理编码结果提取的字段
type geoComponents struct {
	country      string
	region       string
	city         string
	neighborhood string
	postalCode   string
	address      string
	// raw 按组件类型索引的原始名称
	raw map[string]string
}

// extractComponents 解析地址组件
func extractComponents(result maps.GeocodingResult) geoComponents {
	var comp geoComponents
	var route, streetNumber string

	byType := make(map[string]string)
	for _, c := range result.AddressComponents {
		for _, t := range c.Types {
			if _, ok := byType[t]; !ok {
				byType[t] = c.LongName
			}
		}
	}

	comp.raw = byType

	comp.country = byType["country"]
	comp.region = byType["administrative_area_level_1"]
	comp.postalCode = byType["postal_code"]
	route = byType["route"]
	streetNumber = byType["street_number"]

	// 城市优先取 locality，缺失时退回二级行政区
	comp.city = byType["locality"]
	if comp.city == "" {
		comp.city = byType["administrative_area_level_2"]
	}

	// 街区按优先级取第一个非空值
	for _, t := range neighborhoodTypes {
		if v := byType[t]; v != "" {
			comp.neighborhood = v
			break
		}
	}

	// 地址：路名+门牌，缺失时退回格式化地址
	switch {
	case route != "" && streetNumber != "":
		comp.address = fmt.Sprintf("%s %s", route, streetNumber)
	case route != "":
		comp.address = route
	default:
		comp.address = result.FormattedAddress
	}

	return comp
}

// ==================== 周边检索 ====================

// nearbyCategory 周边场所类别与文案标签
type nearbyCategory struct {
	placeType maps.PlaceType
	label     string
}

var nearbyCategories = []nearbyCategory{
	{maps.PlaceTypeSchool, "Escuelas"},
	{maps.PlaceTypeHospital, "Hospitales"},
	{maps.PlaceTypeShoppingMall, "Centros comerciales"},
	{maps.PlaceTypeSupermarket, "Supermercados"},
	{maps.PlaceTypePark, "Parques"},
	{maps.PlaceTypeRestaurant, "Restaurantes"},
	{maps.PlaceTypeTransitStation, "Transporte"},
}

const (
	nearbyRadius      = 1500 // 米
	nearbyPerCategory = 2
	// NearbyFallback 周边无结果时的兜底文案
	NearbyFallback = "Zona con acceso a servicios y transporte público."
)

// NearbyDescription 生成周边配套描述（西语文案，拼入房源描述）
// 按类别做 Nearby Search，每类取前2个名称；全部为空时返回兜底文案
func (s *GeoService) NearbyDescription(ctx context.Context, lat, lng float64) (string, error) {
	cacheKey := fmt.Sprintf("nearby:%.5f,%.5f", lat, lng)
	if cached, ok := utils.GetCache(cacheKey); ok {
		return cached, nil
	}

	var sections []string
	for _, cat := range nearbyCategories {
		resp, err := s.client.NearbySearch(ctx, &maps.NearbySearchRequest{
			Location: &maps.LatLng{Lat: lat, Lng: lng},
			Radius:   nearbyRadius,
			Type:     cat.placeType,
			Language: "es",
		})
		if err != nil {
			// 单类别失败不阻断其余类别
			log.Printf("[GeoService] 周边检索失败 type=%s: %v", cat.placeType, err)
			continue
		}

		var names []string
		for _, place := range resp.Results {
			if place.Name == "" {
				continue
			}
			names = append(names, place.Name)
			if len(names) >= nearbyPerCategory {
				break
			}
		}
		if len(names) > 0 {
			sections = append(sections, fmt.Sprintf("%s: %s", cat.label, strings.Join(names, ", ")))
		}
	}

	desc := NearbyFallback
	if len(sections) > 0 {
		desc = "Cerca de la propiedad: " + strings.Join(sections, ". ") + "."
	}

	utils.SetCache(cacheKey, desc, s.nearbyTTL)
	return desc, nil
}

// ==================== 地址联想 ====================

// Autocomplete 地址联想（代理 Google Places Autocomplete）
func (s *GeoService) Autocomplete(ctx context.Context, input string) ([]dto.AutocompleteEntry, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return []dto.AutocompleteEntry{}, nil
	}

	resp, err := s.client.PlaceAutocomplete(ctx, &maps.PlaceAutocompleteRequest{
		Input:    input,
		Language: "es",
	})
	if err != nil {
		return nil, fmt.Errorf("地址联想失败: %v", err)
	}

	entries := make([]dto.AutocompleteEntry, 0, len(resp.Predictions))
	for _, p := range resp.Predictions {
		entries = append(entries, dto.AutocompleteEntry{
			PlaceID:     p.PlaceID,
			Description: p.Description,
		})
	}
	return entries, nil
}

// ==================== 错误定义 ====================

var ErrGeocodeNoResult = errors.New("该坐标未能解析出地址")
