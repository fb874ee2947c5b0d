package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"gorm.io/datatypes"

	"inmo_dev_v1_202608/internal/api/dto"
	"inmo_dev_v1_202608/internal/model"
	"inmo_dev_v1_202608/internal/repository"
	"inmo_dev_v1_202608/pkg/inmo"
)

// ==================== 接口定义 ====================

// platformAPI 房产发布平台客户端接口（便于测试替换）
type platformAPI interface {
	CreateLocation(ctx context.Context, payload *inmo.LocationPayload) (*inmo.LocationResult, error)
	GetProperty(ctx context.Context, propertyID string) (*inmo.PropertyDetail, error)
	CreateProperty(ctx context.Context, payload *inmo.PropertyPayload) (string, error)
	UpdateProperty(ctx context.Context, propertyID string, payload *inmo.PropertyPayload) error
	UploadImages(ctx context.Context, propertyID string, files []inmo.ImageFile) error
}

// geocoder 地理服务接口（便于测试替换）
type geocoder interface {
	ReverseGeocode(ctx context.Context, lat, lng float64) (*dto.GeocodeResultVO, error)
	NearbyDescription(ctx context.Context, lat, lng float64) (string, error)
}

// ==================== WizardService 发布向导服务 ====================

// WizardService 发布向导服务
// 会话即草稿：四步线性流程，提交阶段两段式写入平台 (位置 → 房产 → 图片)
type WizardService struct {
	uow      *repository.WizardUnitOfWork
	catalog  repository.CatalogRepository
	platform platformAPI
	geo      geocoder
	ai       listingGenerator
	storage  StorageProvider
	images   *ImageService
}

// NewWizardService 创建发布向导服务
func NewWizardService(
	uow *repository.WizardUnitOfWork,
	catalog repository.CatalogRepository,
	platform platformAPI,
	geo geocoder,
	ai listingGenerator,
	storage StorageProvider,
	images *ImageService,
) *WizardService {
	return &WizardService{
		uow:      uow,
		catalog:  catalog,
		platform: platform,
		geo:      geo,
		ai:       ai,
		storage:  storage,
		images:   images,
	}
}

// ==================== 会话生命周期 ====================

// CreateSession 创建向导会话
// 编辑模式从平台拉取房源数据预填，平台已有图片登记为 remote 来源
func (s *WizardService) CreateSession(ctx context.Context, userID int64, req *dto.CreateWizardRequest) (*dto.WizardSessionVO, error) {
	mode := req.Mode
	if mode == "" {
		mode = model.ModeCreate
	}

	session := &model.WizardSession{
		UserID: userID,
		Mode:   mode,
		Step:   model.StepLocation,
		Status: model.SessionStatusActive,
	}

	var remoteImages []string
	if mode == model.ModeEdit {
		if req.PropertyID == "" {
			return nil, NewValidationError("编辑模式必须指定房产ID")
		}
		detail, err := s.platform.GetProperty(ctx, req.PropertyID)
		if err != nil {
			if errors.Is(err, inmo.ErrNotFound) {
				return nil, ErrPropertyNotFound
			}
			return nil, err
		}
		hydrateFromDetail(session, detail)
		remoteImages = detail.Imagenes
	}

	if err := s.uow.Sessions.Create(ctx, session); err != nil {
		return nil, err
	}

	if len(remoteImages) > 0 {
		images := make([]model.WizardImage, 0, len(remoteImages))
		for i, url := range remoteImages {
			if i >= model.MaxImagesPerSession {
				break
			}
			images = append(images, model.WizardImage{
				SessionID: session.ID,
				Position:  i,
				Source:    model.ImageSourceRemote,
				RemoteURL: url,
			})
		}
		if err := s.uow.Images.CreateBatch(ctx, images); err != nil {
			return nil, err
		}
	}

	return s.toSessionVO(ctx, session, nil)
}

// GetSession 获取会话详情
func (s *WizardService) GetSession(ctx context.Context, userID, sessionID int64) (*dto.WizardSessionVO, error) {
	session, err := s.loadOwned(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	return s.toSessionVO(ctx, session, nil)
}

// DeleteSession 放弃会话，释放暂存图片
func (s *WizardService) DeleteSession(ctx context.Context, userID, sessionID int64) error {
	session, err := s.loadOwned(ctx, userID, sessionID)
	if err != nil {
		return err
	}

	images, err := s.uow.Images.GetBySessionID(ctx, session.ID)
	if err != nil {
		return err
	}
	for _, img := range images {
		if img.IsLocal() && img.StoragePath != "" {
			if err := s.storage.Delete(ctx, img.StoragePath); err != nil {
				log.Printf("[WizardService] 释放暂存对象失败 session=%d image=%d: %v", session.ID, img.ID, err)
			}
		}
	}
	if err := s.uow.Images.DeleteBySessionID(ctx, session.ID); err != nil {
		return err
	}
	return s.uow.Sessions.Delete(ctx, session.ID)
}

// ==================== 步骤1：位置 ====================

// UpdateLocation 更新位置数据
// FromMap 为 true 时触发反向地理编码并与目录对账；
// 迟到的旧地理编码响应按序号丢弃，不覆盖更新的选点
func (s *WizardService) UpdateLocation(ctx context.Context, userID, sessionID int64, req *dto.LocationUpdateRequest) (*dto.WizardSessionVO, error) {
	session, err := s.loadOwned(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status != model.SessionStatusActive {
		return nil, ErrSessionNotEditable
	}

	session.Address = req.Address
	session.Neighborhood = req.Neighborhood
	session.PostalCode = req.PostalCode
	if req.CountryName != "" {
		session.CountryName = req.CountryName
	}
	if req.RegionID != "" {
		// 换省后旧城市不再适用，级联清空
		if req.RegionID != session.RegionID {
			session.CityID = ""
			session.CityName = ""
		}
		session.RegionID = req.RegionID
		if region, err := s.catalog.GetRegion(ctx, req.RegionID); err == nil && region != nil {
			session.RegionName = region.Nombre
		}
	}
	if req.CityID != "" {
		// 城市必须归属当前省，跨省城市丢弃
		if city, err := s.catalog.GetCity(ctx, req.CityID); err == nil && city != nil && city.RegionID == session.RegionID {
			session.CityID = city.ID
			session.CityName = city.Nombre
		}
	}

	var notices []string
	if req.Latitude != 0 || req.Longitude != 0 {
		session.Latitude = formatCoord(req.Latitude)
		session.Longitude = formatCoord(req.Longitude)
	}

	if req.FromMap && (req.Latitude != 0 || req.Longitude != 0) {
		// 签发地理请求序号，持久化后再发起调用
		seq := session.GeoSeqIssued + 1
		session.GeoSeqIssued = seq
		if err := s.uow.Sessions.Update(ctx, session); err != nil {
			return nil, err
		}

		geo, geoErr := s.geo.ReverseGeocode(ctx, req.Latitude, req.Longitude)

		// 重新装载：期间可能有更新的选点签发了更大的序号
		session, err = s.loadOwned(ctx, userID, sessionID)
		if err != nil {
			return nil, err
		}

		if geoErr != nil {
			notices = append(notices, "地址解析失败，请手动填写位置信息")
			log.Printf("[WizardService] 反向地理编码失败 session=%d: %v", sessionID, geoErr)
		} else if session.GeoSeqIssued > seq {
			// 已有更新的请求在途，本次结果作废；
			// 不回写快照，避免覆盖期间落库的更新结果
			log.Printf("[WizardService] 丢弃过期地理结果 session=%d seq=%d issued=%d", sessionID, seq, session.GeoSeqIssued)
			return s.toSessionVO(ctx, session, notices)
		} else {
			applyGeocode(session, geo)
			session.GeoSeqApplied = seq
			notices = append(notices, geo.Notices...)
		}
	}

	if err := s.uow.Sessions.Update(ctx, session); err != nil {
		return nil, err
	}
	return s.toSessionVO(ctx, session, notices)
}

// applyGeocode 将地理编码结果写入会话
// 省/城市级联：省未匹配时城市目录 ID 一并清空，避免残留错配
func applyGeocode(session *model.WizardSession, geo *dto.GeocodeResultVO) {
	session.CountryName = geo.CountryName
	session.RegionName = geo.RegionName
	session.CityName = geo.CityName
	session.Address = geo.Address
	session.Neighborhood = geo.Neighborhood
	if geo.PostalCode != "" {
		session.PostalCode = geo.PostalCode
	}
	if len(geo.Components) > 0 {
		if raw, err := json.Marshal(geo.Components); err == nil {
			session.GeoComponents = datatypes.JSON(raw)
		}
	}

	session.RegionID = geo.RegionID
	if geo.RegionID == "" {
		session.CityID = ""
	} else {
		session.CityID = geo.CityID
	}
}

// ==================== 步骤2：详情 ====================

// UpdateDetails 更新详情数据
// 切换交易模式会清空不再适用的价格；土地类型强制清零卧室/卫生间
func (s *WizardService) UpdateDetails(ctx context.Context, userID, sessionID int64, req *dto.DetailsUpdateRequest) (*dto.WizardSessionVO, error) {
	session, err := s.loadOwned(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status != model.SessionStatusActive {
		return nil, ErrSessionNotEditable
	}

	session.Title = req.Title
	session.Description = req.Description
	session.PropertyTypeID = req.PropertyTypeID
	session.TotalArea = req.TotalArea
	session.BedroomCount = req.Bedrooms
	session.BathroomCount = req.Bathrooms
	session.SalePrice = req.SalePrice
	session.RentPrice = req.RentPrice
	if req.Amenities != nil {
		session.Amenities = req.Amenities
	}

	// 交易模式清场：模式不覆盖的价格字段随切换清空
	switch req.TransactionMode {
	case model.TransactionSale:
		session.RentPrice = ""
	case model.TransactionRent:
		session.SalePrice = ""
	}

	// 土地类型没有居住空间概念
	if session.PropertyTypeID != "" {
		pt, err := s.catalog.GetPropertyType(ctx, session.PropertyTypeID)
		if err != nil {
			return nil, err
		}
		if pt != nil && pt.Nombre == model.PropertyTypeNameLand {
			session.BedroomCount = "0"
			session.BathroomCount = "0"
		}
	}

	if err := s.uow.Sessions.Update(ctx, session); err != nil {
		return nil, err
	}
	return s.toSessionVO(ctx, session, nil)
}

// ==================== 步骤切换 ====================

// Advance 前进一步
// 逐步骤门禁校验；离开位置步骤时创建平台位置子资源 (先于房产实体)
func (s *WizardService) Advance(ctx context.Context, userID, sessionID int64) (*dto.WizardSessionVO, error) {
	session, err := s.loadOwned(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}

	count, err := s.uow.Images.CountBySessionID(ctx, session.ID)
	if err != nil {
		return nil, err
	}
	if err := session.CanAdvance(int(count)); err != nil {
		return nil, NewValidationError(err.Error())
	}

	// 位置子资源在离开步骤1时创建，提交阶段依赖其 ID
	if session.Step == model.StepLocation && session.LocationID == nil {
		if err := s.createPlatformLocation(ctx, session); err != nil {
			return nil, err
		}
	}

	session.Step = model.ClampStep(session.Step + 1)
	if err := s.uow.Sessions.Update(ctx, session); err != nil {
		return nil, err
	}
	return s.toSessionVO(ctx, session, nil)
}

// Back 后退到指定的更早步骤，未指定时后退一步；不做校验，数据保留
func (s *WizardService) Back(ctx context.Context, userID, sessionID int64, targetStep int) (*dto.WizardSessionVO, error) {
	session, err := s.loadOwned(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status != model.SessionStatusActive {
		return nil, ErrSessionNotEditable
	}

	// 目标只能在当前步骤之前，向前跳转走 Advance 门禁
	target := session.Step - 1
	if targetStep > 0 && targetStep < session.Step {
		target = targetStep
	}
	session.Step = model.ClampStep(target)
	if err := s.uow.Sessions.Update(ctx, session); err != nil {
		return nil, err
	}
	return s.toSessionVO(ctx, session, nil)
}

// createPlatformLocation 在平台创建位置子资源
func (s *WizardService) createPlatformLocation(ctx context.Context, session *model.WizardSession) error {
	payload := &inmo.LocationPayload{
		PaisNombre:         session.CountryName,
		DepartamentoNombre: session.RegionName,
		CiudadNombre:       session.CityName,
		Direccion:          session.Address,
		Barrio:             session.Neighborhood,
		Latitud:            session.Latitude,
		Longitud:           session.Longitude,
	}
	if session.PostalCode != "" {
		payload.CodigoPostal = &session.PostalCode
	}

	result, err := s.platform.CreateLocation(ctx, payload)
	if err != nil {
		return fmt.Errorf("创建平台位置失败: %w", err)
	}
	session.LocationID = &result.IDUbicacion
	return nil
}

// ==================== AI 与周边 ====================

// GenerateDescription 调用 AI 生成标题与描述并写入会话
// 会话必须已有坐标；周边描述为空时先补一次周边检索，供提示词使用
func (s *WizardService) GenerateDescription(ctx context.Context, userID, sessionID int64, req *dto.GenerateDescriptionRequest) (*dto.WizardSessionVO, error) {
	session, err := s.loadOwned(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status != model.SessionStatusActive {
		return nil, ErrSessionNotEditable
	}

	lat, lng, ok := session.Coords()
	if !ok {
		return nil, NewValidationError("请先在地图上确定位置")
	}

	if session.NearbyPlaces == "" {
		nearby, err := s.geo.NearbyDescription(ctx, lat, lng)
		if err != nil {
			log.Printf("[WizardService] 周边检索失败 session=%d: %v", sessionID, err)
		} else {
			session.NearbyPlaces = nearby
		}
	}

	input := &ListingInput{
		TransactionMode: session.TransactionMode(),
		CityName:        session.CityName,
		Neighborhood:    session.Neighborhood,
		AreaTotal:       session.TotalArea,
		Bedrooms:        session.BedroomCount,
		Bathrooms:       session.BathroomCount,
		Amenities:       session.Amenities,
		NearbyPlaces:    session.NearbyPlaces,
		Hints:           req.Hints,
	}
	if session.PropertyTypeID != "" {
		if pt, err := s.catalog.GetPropertyType(ctx, session.PropertyTypeID); err == nil && pt != nil {
			input.PropertyType = pt.Nombre
		}
	}

	content, err := s.ai.GenerateListingContent(ctx, input)
	if err != nil {
		return nil, err
	}

	// 标题与描述必须成对落库
	session.Title = content.Title
	session.Description = content.Description
	if err := s.uow.Sessions.Update(ctx, session); err != nil {
		return nil, err
	}
	return s.toSessionVO(ctx, session, nil)
}

// Nearby 检索周边配套并写入会话
func (s *WizardService) Nearby(ctx context.Context, userID, sessionID int64) (string, error) {
	session, err := s.loadOwned(ctx, userID, sessionID)
	if err != nil {
		return "", err
	}

	lat, lng, ok := session.Coords()
	if !ok {
		return "", NewValidationError("请先在地图上确定位置")
	}

	nearby, err := s.geo.NearbyDescription(ctx, lat, lng)
	if err != nil {
		return "", err
	}

	session.NearbyPlaces = nearby
	if err := s.uow.Sessions.Update(ctx, session); err != nil {
		return "", err
	}
	return nearby, nil
}

// ==================== 步骤3：图片 ====================

// IngestImages 批量录入图片（归属与状态校验后委派图片服务）
func (s *WizardService) IngestImages(ctx context.Context, userID, sessionID int64, files []FileUpload) (*dto.ImageIngestResult, error) {
	session, err := s.editableSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	return s.images.Ingest(ctx, session, files)
}

// AddRemoteImage 登记远程图片
func (s *WizardService) AddRemoteImage(ctx context.Context, userID, sessionID int64, url string) (*dto.ImageVO, error) {
	session, err := s.editableSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	return s.images.AddRemote(ctx, session, url)
}

// RemoveImage 移除图片
func (s *WizardService) RemoveImage(ctx context.Context, userID, sessionID, imageID int64) error {
	session, err := s.editableSession(ctx, userID, sessionID)
	if err != nil {
		return err
	}
	return s.images.Remove(ctx, session, imageID)
}

// MakePrimaryImage 设为主图
func (s *WizardService) MakePrimaryImage(ctx context.Context, userID, sessionID, imageID int64) error {
	session, err := s.editableSession(ctx, userID, sessionID)
	if err != nil {
		return err
	}
	return s.images.MakePrimary(ctx, session, imageID)
}

// editableSession 装载会话并校验可编辑状态
func (s *WizardService) editableSession(ctx context.Context, userID, sessionID int64) (*model.WizardSession, error) {
	session, err := s.loadOwned(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status != model.SessionStatusActive {
		return nil, ErrSessionNotEditable
	}
	return session, nil
}

// ==================== 提交 ====================

// Submit 两段式提交：位置 → 房产实体 → 图片
// 房产写入成功后图片上传失败不回滚，返回提示由用户在编辑页补传
func (s *WizardService) Submit(ctx context.Context, userID, sessionID int64) (*dto.SubmitResult, error) {
	session, err := s.loadOwned(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status != model.SessionStatusActive {
		return nil, ErrSessionNotEditable
	}

	images, err := s.uow.Images.GetBySessionID(ctx, session.ID)
	if err != nil {
		return nil, err
	}

	// 位置子资源兜底：正常流程在步骤1离开时已创建
	if session.LocationID == nil {
		if session.Latitude != "" && session.Longitude != "" && session.Address != "" {
			if err := s.createPlatformLocation(ctx, session); err != nil {
				return nil, err
			}
			if err := s.uow.Sessions.Update(ctx, session); err != nil {
				return nil, err
			}
		}
	}

	if err := session.CanSubmit(len(images)); err != nil {
		return nil, NewValidationError(err.Error())
	}

	// 标记提交中，阻断并发重复提交
	session.Status = model.SessionStatusSubmitting
	if err := s.uow.Sessions.Update(ctx, session); err != nil {
		return nil, err
	}

	payload, err := s.buildPropertyPayload(session)
	if err != nil {
		s.revertToActive(ctx, session)
		return nil, err
	}

	propertyID := session.PropertyID
	if session.Mode == model.ModeEdit && propertyID != "" {
		if err := s.platform.UpdateProperty(ctx, propertyID, payload); err != nil {
			s.revertToActive(ctx, session)
			return nil, err
		}
	} else {
		propertyID, err = s.platform.CreateProperty(ctx, payload)
		if err != nil {
			s.revertToActive(ctx, session)
			return nil, err
		}
	}

	// 房产已落地，后续图片失败不回滚
	session.PropertyID = propertyID
	session.Status = model.SessionStatusSubmitted
	if err := s.uow.Sessions.Update(ctx, session); err != nil {
		log.Printf("[WizardService] 更新会话状态失败 session=%d: %v", sessionID, err)
	}

	// 编辑模式回我的房源列表，新建模式回浏览页
	redirect := "/explorar"
	if session.Mode == model.ModeEdit {
		redirect = "/propiedades"
	}
	result := &dto.SubmitResult{
		PropertyID: propertyID,
		Redirect:   redirect,
	}

	uploaded, uploadErr := s.pushImages(ctx, propertyID, images)
	result.ImagesUploaded = uploaded
	if uploadErr != nil {
		result.Notice = "房源已保存，但部分图片上传失败，请在编辑页重试"
		log.Printf("[WizardService] 图片上传失败 session=%d property=%s: %v", sessionID, propertyID, uploadErr)
	}

	return result, nil
}

// revertToActive 提交失败后恢复可编辑状态
func (s *WizardService) revertToActive(ctx context.Context, session *model.WizardSession) {
	session.Status = model.SessionStatusActive
	if err := s.uow.Sessions.Update(ctx, session); err != nil {
		log.Printf("[WizardService] 恢复会话状态失败 session=%d: %v", session.ID, err)
	}
}

// buildPropertyPayload 将会话草稿转换为平台载荷
// UI 字符串在此统一转数值；空可选字段保持 nil，序列化为 null
func (s *WizardService) buildPropertyPayload(session *model.WizardSession) (*inmo.PropertyPayload, error) {
	if session.LocationID == nil {
		return nil, errors.New("位置尚未创建")
	}

	area, err := strconv.ParseFloat(strings.TrimSpace(session.TotalArea), 64)
	if err != nil || area <= 0 {
		return nil, NewValidationError("总面积必须为正数")
	}

	payload := &inmo.PropertyPayload{
		IDUbicacion:     *session.LocationID,
		IDInmuebleTipo:  session.PropertyTypeID,
		Titulo:          session.Title,
		Descripcion:     session.Description,
		SuperficieTotal: int(area),
	}

	if v, ok := parseIntField(session.BedroomCount); ok {
		payload.NumeroHabitaciones = &v
	}
	if v, ok := parseIntField(session.BathroomCount); ok {
		payload.NumeroBanos = &v
	}
	if v, ok := parseFloatField(session.SalePrice); ok {
		payload.PrecioVenta = &v
	}
	if v, ok := parseFloatField(session.RentPrice); ok {
		payload.PrecioAlquiler = &v
	}

	return payload, nil
}

// pushImages 将本地暂存图片按顺序推送平台
// remote 来源的图片平台已持有，跳过
func (s *WizardService) pushImages(ctx context.Context, propertyID string, images []model.WizardImage) (int, error) {
	var files []inmo.ImageFile
	for _, img := range images {
		if !img.IsLocal() {
			continue
		}
		data, contentType, err := s.storage.Download(ctx, img.StoragePath)
		if err != nil {
			return 0, fmt.Errorf("读取暂存图片失败 %s: %w", img.FileName, err)
		}
		if contentType == "" {
			contentType = img.ContentType
		}
		files = append(files, inmo.ImageFile{
			Name:        img.FileName,
			ContentType: contentType,
			Data:        data,
		})
	}

	if len(files) == 0 {
		return 0, nil
	}
	if err := s.platform.UploadImages(ctx, propertyID, files); err != nil {
		return 0, err
	}
	return len(files), nil
}

// ==================== 后台清理 ====================

// ExpireStale 过期闲置会话并释放暂存图片，返回处理数量
func (s *WizardService) ExpireStale(ctx context.Context, before time.Time) (int, error) {
	sessions, err := s.uow.Sessions.ListStale(ctx, before)
	if err != nil {
		return 0, err
	}

	expired := 0
	for _, session := range sessions {
		images, err := s.uow.Images.GetBySessionID(ctx, session.ID)
		if err != nil {
			log.Printf("[WizardService] 读取过期会话图片失败 session=%d: %v", session.ID, err)
			continue
		}
		for _, img := range images {
			if img.IsLocal() && img.StoragePath != "" {
				if err := s.storage.Delete(ctx, img.StoragePath); err != nil {
					log.Printf("[WizardService] 释放暂存对象失败 session=%d image=%d: %v", session.ID, img.ID, err)
				}
			}
		}
		if err := s.uow.Images.DeleteBySessionID(ctx, session.ID); err != nil {
			log.Printf("[WizardService] 删除过期会话图片失败 session=%d: %v", session.ID, err)
			continue
		}
		if err := s.uow.Sessions.UpdateFields(ctx, session.ID, map[string]interface{}{
			"status": model.SessionStatusExpired,
		}); err != nil {
			log.Printf("[WizardService] 标记过期会话失败 session=%d: %v", session.ID, err)
			continue
		}
		expired++
	}
	return expired, nil
}

// ==================== 辅助方法 ====================

// loadOwned 装载会话并校验归属
func (s *WizardService) loadOwned(ctx context.Context, userID, sessionID int64) (*model.WizardSession, error) {
	session, err := s.uow.Sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil || session.UserID != userID {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// hydrateFromDetail 编辑模式：用平台详情预填会话
func hydrateFromDetail(session *model.WizardSession, detail *inmo.PropertyDetail) {
	session.PropertyID = detail.ID
	session.Title = detail.Titulo
	session.Description = detail.Descripcion
	session.PropertyTypeID = detail.IDInmuebleTipo
	session.RegionID = detail.IDDepartamento
	session.CityID = detail.IDCiudad
	session.CountryName = detail.Pais
	session.RegionName = detail.Departamento
	session.CityName = detail.Ciudad
	session.Address = detail.Direccion
	session.Neighborhood = detail.Barrio
	session.PostalCode = detail.CodigoPostal
	session.LocationID = detail.IDUbicacion

	if detail.Latitud != nil {
		session.Latitude = formatCoord(*detail.Latitud)
	}
	if detail.Longitud != nil {
		session.Longitude = formatCoord(*detail.Longitud)
	}
	if detail.PrecioVenta != nil {
		session.SalePrice = strconv.FormatFloat(*detail.PrecioVenta, 'f', -1, 64)
	}
	if detail.PrecioAlquiler != nil {
		session.RentPrice = strconv.FormatFloat(*detail.PrecioAlquiler, 'f', -1, 64)
	}
	if detail.SuperficieTotal != nil {
		session.TotalArea = strconv.FormatFloat(*detail.SuperficieTotal, 'f', -1, 64)
	}
	if detail.NumeroHabitaciones != nil {
		session.BedroomCount = strconv.Itoa(*detail.NumeroHabitaciones)
	}
	if detail.NumeroBanos != nil {
		session.BathroomCount = strconv.Itoa(*detail.NumeroBanos)
	}
}

// toSessionVO 组装会话视图
func (s *WizardService) toSessionVO(ctx context.Context, session *model.WizardSession, notices []string) (*dto.WizardSessionVO, error) {
	images, err := s.uow.Images.GetBySessionID(ctx, session.ID)
	if err != nil {
		return nil, err
	}

	imageVOs := make([]dto.ImageVO, 0, len(images))
	for i := range images {
		imageVOs = append(imageVOs, toImageVO(&images[i]))
	}

	lat, lng, _ := session.Coords()

	return &dto.WizardSessionVO{
		ID:         session.ID,
		Mode:       session.Mode,
		PropertyID: session.PropertyID,
		Step:       session.Step,
		TotalSteps: model.TotalSteps,
		Status:     session.Status,
		Location: dto.LocationVO{
			CountryName:  session.CountryName,
			RegionID:     session.RegionID,
			RegionName:   session.RegionName,
			CityID:       session.CityID,
			CityName:     session.CityName,
			Address:      session.Address,
			Neighborhood: session.Neighborhood,
			PostalCode:   session.PostalCode,
			Latitude:     lat,
			Longitude:    lng,
			LocationID:   session.LocationID,
			GeoNotices:   notices,
		},
		Details: dto.DetailsVO{
			PropertyTypeID:  session.PropertyTypeID,
			TransactionMode: session.TransactionMode(),
			Title:           session.Title,
			Description:     session.Description,
			SalePrice:       session.SalePrice,
			RentPrice:       session.RentPrice,
			TotalArea:       session.TotalArea,
			Bedrooms:        session.BedroomCount,
			Bathrooms:       session.BathroomCount,
			Amenities:       session.Amenities,
			NearbyPlaces:    session.NearbyPlaces,
		},
		Images:     imageVOs,
		ImageCount: len(imageVOs),
		CreatedAt:  session.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  session.UpdatedAt.Format(time.RFC3339),
	}, nil
}

// formatCoord 坐标序列化，保留6位小数
func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

// parseIntField 解析 UI 整数字段，空串视为未填
func parseIntField(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}

// parseFloatField 解析 UI 数值字段，空串视为未填
func parseFloatField(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}

// ==================== 错误定义 ====================

var (
	ErrSessionNotFound    = errors.New("会话不存在")
	ErrSessionNotEditable = errors.New("会话状态不允许操作")
	ErrPropertyNotFound   = errors.New("房产不存在")
)

// ValidationError 业务校验错误，控制器按 400 处理
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}

// NewValidationError 构造业务校验错误
func NewValidationError(msg string) error {
	return &ValidationError{msg: msg}
}
