package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"inmo_dev_v1_202608/internal/api/dto"
	"inmo_dev_v1_202608/internal/model"
	"inmo_dev_v1_202608/internal/repository"
	"inmo_dev_v1_202608/pkg/inmo"
)

// ==================== 测试辅助 ====================

// setupServiceTestDB 创建内存数据库
func setupServiceTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("打开内存数据库失败: %v", err)
	}
	err = db.AutoMigrate(
		&model.WizardSession{},
		&model.WizardImage{},
		&model.Region{},
		&model.City{},
		&model.PropertyType{},
	)
	if err != nil {
		t.Fatalf("迁移表结构失败: %v", err)
	}
	return db
}

// seedCatalog 写入一份最小目录
func seedCatalog(t *testing.T, db *gorm.DB) {
	regions := []model.Region{
		{ID: "dep-1", Nombre: "Central", SyncedAt: time.Now()},
		{ID: "dep-2", Nombre: "Alto Paraná", SyncedAt: time.Now()},
	}
	cities := []model.City{
		{ID: "ciu-1", Nombre: "Asunción", RegionID: "dep-1", SyncedAt: time.Now()},
		{ID: "ciu-2", Nombre: "Luque", RegionID: "dep-1", SyncedAt: time.Now()},
	}
	types := []model.PropertyType{
		{ID: "tipo-casa", Nombre: "Casa", SyncedAt: time.Now()},
		{ID: "tipo-terreno", Nombre: "Terreno", SyncedAt: time.Now()},
	}
	if err := db.Create(&regions).Error; err != nil {
		t.Fatalf("写入省份目录失败: %v", err)
	}
	if err := db.Create(&cities).Error; err != nil {
		t.Fatalf("写入城市目录失败: %v", err)
	}
	if err := db.Create(&types).Error; err != nil {
		t.Fatalf("写入类型目录失败: %v", err)
	}
}

// ==================== Mock 实现 ====================

type mockPlatform struct {
	createLocationFn func(ctx context.Context, payload *inmo.LocationPayload) (*inmo.LocationResult, error)
	getPropertyFn    func(ctx context.Context, propertyID string) (*inmo.PropertyDetail, error)
	createPropertyFn func(ctx context.Context, payload *inmo.PropertyPayload) (string, error)
	updatePropertyFn func(ctx context.Context, propertyID string, payload *inmo.PropertyPayload) error
	uploadImagesFn   func(ctx context.Context, propertyID string, files []inmo.ImageFile) error
}

func (m *mockPlatform) CreateLocation(ctx context.Context, payload *inmo.LocationPayload) (*inmo.LocationResult, error) {
	if m.createLocationFn != nil {
		return m.createLocationFn(ctx, payload)
	}
	return &inmo.LocationResult{IDUbicacion: 501}, nil
}

func (m *mockPlatform) GetProperty(ctx context.Context, propertyID string) (*inmo.PropertyDetail, error) {
	if m.getPropertyFn != nil {
		return m.getPropertyFn(ctx, propertyID)
	}
	return nil, inmo.ErrNotFound
}

func (m *mockPlatform) CreateProperty(ctx context.Context, payload *inmo.PropertyPayload) (string, error) {
	if m.createPropertyFn != nil {
		return m.createPropertyFn(ctx, payload)
	}
	return "prop-100", nil
}

func (m *mockPlatform) UpdateProperty(ctx context.Context, propertyID string, payload *inmo.PropertyPayload) error {
	if m.updatePropertyFn != nil {
		return m.updatePropertyFn(ctx, propertyID, payload)
	}
	return nil
}

func (m *mockPlatform) UploadImages(ctx context.Context, propertyID string, files []inmo.ImageFile) error {
	if m.uploadImagesFn != nil {
		return m.uploadImagesFn(ctx, propertyID, files)
	}
	return nil
}

type mockGeocoder struct {
	reverseGeocodeFn func(ctx context.Context, lat, lng float64) (*dto.GeocodeResultVO, error)
	nearbyFn         func(ctx context.Context, lat, lng float64) (string, error)
}

func (m *mockGeocoder) ReverseGeocode(ctx context.Context, lat, lng float64) (*dto.GeocodeResultVO, error) {
	if m.reverseGeocodeFn != nil {
		return m.reverseGeocodeFn(ctx, lat, lng)
	}
	return &dto.GeocodeResultVO{
		CountryName:  "Paraguay",
		RegionID:     "dep-1",
		RegionName:   "Central",
		CityID:       "ciu-1",
		CityName:     "Asunción",
		Address:      "Av. Mariscal López 1234",
		Neighborhood: "Villa Morra",
		PostalCode:   "1209",
		Components: map[string]string{
			"country":  "Paraguay",
			"locality": "Asunción",
		},
	}, nil
}

func (m *mockGeocoder) NearbyDescription(ctx context.Context, lat, lng float64) (string, error) {
	if m.nearbyFn != nil {
		return m.nearbyFn(ctx, lat, lng)
	}
	return "Cerca de la propiedad: Escuelas: Colegio San José. Parques: Parque de la Salud.", nil
}

type mockGenerator struct {
	generateFn func(ctx context.Context, input *ListingInput) (*ListingContent, error)
}

func (m *mockGenerator) GenerateListingContent(ctx context.Context, input *ListingInput) (*ListingContent, error) {
	if m.generateFn != nil {
		return m.generateFn(ctx, input)
	}
	return &ListingContent{
		Title:       "Hermosa casa en Villa Morra",
		Description: "Amplia casa familiar con excelente ubicación.",
	}, nil
}

type mockStorage struct {
	uploadFn   func(ctx context.Context, data []byte, filename string, contentType string) (string, error)
	downloadFn func(ctx context.Context, url string) ([]byte, string, error)
	deleteFn   func(ctx context.Context, url string) error
	deleted    []string
}

func (m *mockStorage) Upload(ctx context.Context, data []byte, filename string, contentType string) (string, error) {
	if m.uploadFn != nil {
		return m.uploadFn(ctx, data, filename, contentType)
	}
	return "http://localhost:8080/uploads/" + filename, nil
}

func (m *mockStorage) Download(ctx context.Context, url string) ([]byte, string, error) {
	if m.downloadFn != nil {
		return m.downloadFn(ctx, url)
	}
	return []byte{0xFF, 0xD8, 0xFF, 0xE0}, "image/jpeg", nil
}

func (m *mockStorage) Delete(ctx context.Context, url string) error {
	m.deleted = append(m.deleted, url)
	if m.deleteFn != nil {
		return m.deleteFn(ctx, url)
	}
	return nil
}

func (m *mockStorage) GetSignedURL(ctx context.Context, url string, expires time.Duration) (string, error) {
	return url, nil
}

// wizardTestEnv 测试环境
type wizardTestEnv struct {
	db       *gorm.DB
	uow      *repository.WizardUnitOfWork
	platform *mockPlatform
	geo      *mockGeocoder
	ai       *mockGenerator
	storage  *mockStorage
	svc      *WizardService
}

func newWizardTestEnv(t *testing.T) *wizardTestEnv {
	db := setupServiceTestDB(t)
	seedCatalog(t, db)

	env := &wizardTestEnv{
		db:       db,
		uow:      repository.NewWizardUnitOfWork(db),
		platform: &mockPlatform{},
		geo:      &mockGeocoder{},
		ai:       &mockGenerator{},
		storage:  &mockStorage{},
	}
	catalog := repository.NewCatalogRepository(db)
	images := NewImageService(env.uow, env.storage, 10*1024*1024)
	env.svc = NewWizardService(env.uow, catalog, env.platform, env.geo, env.ai, env.storage, images)
	return env
}

// seedSession 直接落一条会话
func (e *wizardTestEnv) seedSession(t *testing.T, modify func(*model.WizardSession)) *model.WizardSession {
	session := &model.WizardSession{
		UserID: 1,
		Mode:   model.ModeCreate,
		Step:   model.StepLocation,
		Status: model.SessionStatusActive,
	}
	if modify != nil {
		modify(session)
	}
	if err := e.db.Create(session).Error; err != nil {
		t.Fatalf("写入测试会话失败: %v", err)
	}
	return session
}

// seedImage 落一条会话图片
func (e *wizardTestEnv) seedImage(t *testing.T, sessionID int64, position int, source string) *model.WizardImage {
	img := &model.WizardImage{
		SessionID:   sessionID,
		Position:    position,
		Source:      source,
		FileName:    "foto.jpg",
		ContentType: "image/jpeg",
	}
	if source == model.ImageSourceLocal {
		img.StoragePath = "http://localhost:8080/uploads/foto.jpg"
	} else {
		img.RemoteURL = "https://plataforma.example.com/foto.jpg"
	}
	if err := e.db.Create(img).Error; err != nil {
		t.Fatalf("写入测试图片失败: %v", err)
	}
	return img
}

// completeSession 填满可提交的会话
func completeSession(s *model.WizardSession) {
	locationID := int64(501)
	s.Step = model.StepReview
	s.Latitude = "-25.282197"
	s.Longitude = "-57.563591"
	s.Address = "Av. Mariscal López 1234"
	s.CountryName = "Paraguay"
	s.RegionName = "Central"
	s.CityName = "Asunción"
	s.RegionID = "dep-1"
	s.CityID = "ciu-1"
	s.LocationID = &locationID
	s.Title = "Hermosa casa"
	s.Description = "Amplia casa familiar"
	s.PropertyTypeID = "tipo-casa"
	s.TotalArea = "120"
	s.BedroomCount = "3"
	s.BathroomCount = "2"
	s.SalePrice = "150000"
}

// ==================== 会话生命周期 ====================

func TestWizardService_CreateSession_CreateMode(t *testing.T) {
	env := newWizardTestEnv(t)
	ctx := context.Background()

	vo, err := env.svc.CreateSession(ctx, 1, &dto.CreateWizardRequest{})
	if err != nil {
		t.Fatalf("CreateSession() error = %v", err)
	}
	if vo.Mode != model.ModeCreate {
		t.Errorf("Mode = %q, want create", vo.Mode)
	}
	if vo.Step != model.StepLocation {
		t.Errorf("Step = %d, want 1", vo.Step)
	}
	if vo.Status != model.SessionStatusActive {
		t.Errorf("Status = %q, want active", vo.Status)
	}
	if vo.TotalSteps != model.TotalSteps {
		t.Errorf("TotalSteps = %d, want %d", vo.TotalSteps, model.TotalSteps)
	}
}

func TestWizardService_CreateSession_EditModeHydrates(t *testing.T) {
	env := newWizardTestEnv(t)
	ctx := context.Background()

	precio := 185000.0
	superficie := 240.0
	habitaciones := 4
	lat, lng := -25.282197, -57.563591
	locationID := int64(777)
	env.platform.getPropertyFn = func(ctx context.Context, propertyID string) (*inmo.PropertyDetail, error) {
		if propertyID != "prop-55" {
			t.Errorf("GetProperty propertyID = %q", propertyID)
		}
		return &inmo.PropertyDetail{
			ID:                 "prop-55",
			Titulo:             "Casa en Villa Morra",
			Descripcion:        "Casa amplia con quincho",
			IDInmuebleTipo:     "tipo-casa",
			IDDepartamento:     "dep-1",
			IDCiudad:           "ciu-1",
			IDUbicacion:        &locationID,
			PrecioVenta:        &precio,
			SuperficieTotal:    &superficie,
			NumeroHabitaciones: &habitaciones,
			Latitud:            &lat,
			Longitud:           &lng,
			Pais:               "Paraguay",
			Departamento:       "Central",
			Ciudad:             "Asunción",
			Direccion:          "Av. Mariscal López 1234",
			Barrio:             "Villa Morra",
			Imagenes: []string{
				"https://plataforma.example.com/a.jpg",
				"https://plataforma.example.com/b.jpg",
			},
		}, nil
	}

	vo, err := env.svc.CreateSession(ctx, 1, &dto.CreateWizardRequest{
		Mode:       model.ModeEdit,
		PropertyID: "prop-55",
	})
	if err != nil {
		t.Fatalf("CreateSession() error = %v", err)
	}

	if vo.PropertyID != "prop-55" {
		t.Errorf("PropertyID = %q", vo.PropertyID)
	}
	if vo.Details.Title != "Casa en Villa Morra" {
		t.Errorf("Title = %q", vo.Details.Title)
	}
	if vo.Details.SalePrice != "185000" {
		t.Errorf("SalePrice = %q, want 185000", vo.Details.SalePrice)
	}
	if vo.Details.Bedrooms != "4" {
		t.Errorf("Bedrooms = %q, want 4", vo.Details.Bedrooms)
	}
	if vo.Location.RegionID != "dep-1" || vo.Location.CityID != "ciu-1" {
		t.Errorf("目录ID预填错误: region=%q city=%q", vo.Location.RegionID, vo.Location.CityID)
	}
	if vo.Location.LocationID == nil || *vo.Location.LocationID != 777 {
		t.Error("LocationID 未预填")
	}

	// 平台已有图片登记为 remote 来源，顺序保留
	if vo.ImageCount != 2 {
		t.Fatalf("ImageCount = %d, want 2", vo.ImageCount)
	}
	if vo.Images[0].Source != model.ImageSourceRemote || !vo.Images[0].IsPrimary {
		t.Errorf("首图来源/主图标记错误: %+v", vo.Images[0])
	}
	if vo.Images[1].PreviewURL != "https://plataforma.example.com/b.jpg" {
		t.Errorf("第二张图 PreviewURL = %q", vo.Images[1].PreviewURL)
	}
}

func TestWizardService_CreateSession_EditModeRequiresPropertyID(t *testing.T) {
	env := newWizardTestEnv(t)

	_, err := env.svc.CreateSession(context.Background(), 1, &dto.CreateWizardRequest{Mode: model.ModeEdit})
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("CreateSession() error = %v, want ValidationError", err)
	}
}

func TestWizardService_CreateSession_EditModePropertyMissing(t *testing.T) {
	env := newWizardTestEnv(t)

	_, err := env.svc.CreateSession(context.Background(), 1, &dto.CreateWizardRequest{
		Mode:       model.ModeEdit,
		PropertyID: "prop-999",
	})
	if !errors.Is(err, ErrPropertyNotFound) {
		t.Fatalf("CreateSession() error = %v, want ErrPropertyNotFound", err)
	}
}

func TestWizardService_GetSession_OwnershipEnforced(t *testing.T) {
	env := newWizardTestEnv(t)
	ctx := context.Background()
	session := env.seedSession(t, nil)

	if _, err := env.svc.GetSession(ctx, 1, session.ID); err != nil {
		t.Fatalf("GetSession() error = %v", err)
	}

	// 其他用户访问视作不存在
	if _, err := env.svc.GetSession(ctx, 2, session.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("跨用户 GetSession() error = %v, want ErrSessionNotFound", err)
	}
	if _, err := env.svc.GetSession(ctx, 1, 9999); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("不存在会话 GetSession() error = %v, want ErrSessionNotFound", err)
	}
}

func TestWizardService_DeleteSession_ReleasesStaging(t *testing.T) {
	env := newWizardTestEnv(t)
	ctx := context.Background()
	session := env.seedSession(t, nil)
	env.seedImage(t, session.ID, 0, model.ImageSourceLocal)
	env.seedImage(t, session.ID, 1, model.ImageSourceRemote)

	if err := env.svc.DeleteSession(ctx, 1, session.ID); err != nil {
		t.Fatalf("DeleteSession() error = %v", err)
	}

	// 仅本地暂存对象被释放
	if len(env.storage.deleted) != 1 {
		t.Errorf("释放了 %d 个暂存对象, want 1", len(env.storage.deleted))
	}

	var count int64
	env.db.Model(&model.WizardImage{}).Where("session_id = ?", session.ID).Count(&count)
	if count != 0 {
		t.Errorf("图片记录残留 %d 条", count)
	}
	if _, err := env.svc.GetSession(ctx, 1, session.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("删除后 GetSession() error = %v, want ErrSessionNotFound", err)
	}
}

// ==================== 位置步骤 ====================

func TestWizardService_UpdateLocation_FromMapApplied(t *testing.T) {
	env := newWizardTestEnv(t)
	ctx := context.Background()
	session := env.seedSession(t, nil)

	vo, err := env.svc.UpdateLocation(ctx, 1, session.ID, &dto.LocationUpdateRequest{
		Latitude:  -25.282197,
		Longitude: -57.563591,
		FromMap:   true,
	})
	if err != nil {
		t.Fatalf("UpdateLocation() error = %v", err)
	}

	if vo.Location.CountryName != "Paraguay" {
		t.Errorf("CountryName = %q", vo.Location.CountryName)
	}
	if vo.Location.RegionID != "dep-1" || vo.Location.CityID != "ciu-1" {
		t.Errorf("目录对账失败: region=%q city=%q", vo.Location.RegionID, vo.Location.CityID)
	}
	if vo.Location.Neighborhood != "Villa Morra" {
		t.Errorf("Neighborhood = %q", vo.Location.Neighborhood)
	}

	var reloaded model.WizardSession
	env.db.First(&reloaded, session.ID)
	if reloaded.GeoSeqIssued != 1 || reloaded.GeoSeqApplied != 1 {
		t.Errorf("地理序号 issued=%d applied=%d, want 1/1", reloaded.GeoSeqIssued, reloaded.GeoSeqApplied)
	}
	if len(reloaded.GeoComponents) == 0 {
		t.Error("原始地址组件未随会话留档")
	}
}

func TestWizardService_UpdateLocation_UnmatchedRegionClearsCity(t *testing.T) {
	env := newWizardTestEnv(t)
	ctx := context.Background()
	session := env.seedSession(t, func(s *model.WizardSession) {
		s.RegionID = "dep-1"
		s.CityID = "ciu-1"
	})

	env.geo.reverseGeocodeFn = func(ctx context.Context, lat, lng float64) (*dto.GeocodeResultVO, error) {
		return &dto.GeocodeResultVO{
			CountryName: "Paraguay",
			RegionName:  "Ñeembucú",
			CityName:    "Pilar",
			Address:     "Calle 14 de Mayo",
			Notices:     []string{"省份「Ñeembucú」未在目录中找到，请手动选择"},
		}, nil
	}

	vo, err := env.svc.UpdateLocation(ctx, 1, session.ID, &dto.LocationUpdateRequest{
		Latitude:  -26.865,
		Longitude: -58.299,
		FromMap:   true,
	})
	if err != nil {
		t.Fatalf("UpdateLocation() error = %v", err)
	}

	// 省未匹配时城市目录 ID 随之清空，名称保留供展示
	if vo.Location.RegionID != "" || vo.Location.CityID != "" {
		t.Errorf("目录ID应清空: region=%q city=%q", vo.Location.RegionID, vo.Location.CityID)
	}
	if vo.Location.RegionName != "Ñeembucú" || vo.Location.CityName != "Pilar" {
		t.Errorf("检测名称丢失: region=%q city=%q", vo.Location.RegionName, vo.Location.CityName)
	}
	if len(vo.Location.GeoNotices) == 0 {
		t.Error("未返回对账提示")
	}
}

func TestWizardService_UpdateLocation_StaleGeocodeDiscarded(t *testing.T) {
	env := newWizardTestEnv(t)
	ctx := context.Background()
	session := env.seedSession(t, func(s *model.WizardSession) {
		s.CountryName = "Paraguay"
		s.RegionName = "Central"
		s.CityName = "Luque"
		s.Address = "Ruta Luque-San Bernardino"
	})

	// 地理调用进行期间有更新的选点签发了更大的序号
	env.geo.reverseGeocodeFn = func(ctx context.Context, lat, lng float64) (*dto.GeocodeResultVO, error) {
		env.db.Model(&model.WizardSession{}).
			Where("id = ?", session.ID).
			Update("geo_seq_issued", 5)
		return &dto.GeocodeResultVO{
			CountryName: "Argentina",
			RegionName:  "Formosa",
			CityName:    "Clorinda",
			Address:     "dirección obsoleta",
		}, nil
	}

	vo, err := env.svc.UpdateLocation(ctx, 1, session.ID, &dto.LocationUpdateRequest{
		Latitude:  -25.3,
		Longitude: -57.5,
		FromMap:   true,
	})
	if err != nil {
		t.Fatalf("UpdateLocation() error = %v", err)
	}

	// 迟到的旧结果不得覆盖更新的选点
	if vo.Location.CityName != "Luque" {
		t.Errorf("CityName = %q, 旧地理结果覆盖了会话", vo.Location.CityName)
	}
	if vo.Location.Address == "dirección obsoleta" {
		t.Error("过期地址被应用")
	}

	var reloaded model.WizardSession
	env.db.First(&reloaded, session.ID)
	if reloaded.GeoSeqApplied != 0 {
		t.Errorf("GeoSeqApplied = %d, 过期结果不应推进已应用序号", reloaded.GeoSeqApplied)
	}
}

// raceSessionRepo 在第二次装载（重新装载）返回后触发回调，
// 模拟更新请求的结果恰好在重新装载与回写之间落库
type raceSessionRepo struct {
	repository.WizardSessionRepository
	loads    int
	onReload func()
}

func (r *raceSessionRepo) GetByID(ctx context.Context, id int64) (*model.WizardSession, error) {
	session, err := r.WizardSessionRepository.GetByID(ctx, id)
	r.loads++
	if r.loads == 2 && r.onReload != nil {
		r.onReload()
	}
	return session, err
}

func TestWizardService_UpdateLocation_StaleDiscardKeepsNewerWrite(t *testing.T) {
	env := newWizardTestEnv(t)
	ctx := context.Background()
	session := env.seedSession(t, nil)

	// 地理调用期间有更新的选点签发了更大的序号
	env.geo.reverseGeocodeFn = func(ctx context.Context, lat, lng float64) (*dto.GeocodeResultVO, error) {
		env.db.Model(&model.WizardSession{}).
			Where("id = ?", session.ID).
			Update("geo_seq_issued", 5)
		return &dto.GeocodeResultVO{
			CountryName: "Argentina",
			CityName:    "Clorinda",
			Address:     "dirección obsoleta",
		}, nil
	}

	// 更新请求的结果在旧请求重新装载之后才落库
	env.uow.Sessions = &raceSessionRepo{
		WizardSessionRepository: env.uow.Sessions,
		onReload: func() {
			env.db.Model(&model.WizardSession{}).
				Where("id = ?", session.ID).
				Updates(map[string]interface{}{
					"city_name":       "Villa Elisa",
					"geo_seq_applied": 5,
				})
		},
	}

	if _, err := env.svc.UpdateLocation(ctx, 1, session.ID, &dto.LocationUpdateRequest{
		Latitude:  -25.3,
		Longitude: -57.5,
		FromMap:   true,
	}); err != nil {
		t.Fatalf("UpdateLocation() error = %v", err)
	}

	// 作废分支不得回写快照，否则会覆盖刚落库的更新结果
	var reloaded model.WizardSession
	env.db.First(&reloaded, session.ID)
	if reloaded.CityName != "Villa Elisa" {
		t.Errorf("CityName = %q, 更新请求的结果被旧快照覆盖", reloaded.CityName)
	}
	if reloaded.GeoSeqApplied != 5 {
		t.Errorf("GeoSeqApplied = %d, want 5", reloaded.GeoSeqApplied)
	}
}

func TestWizardService_UpdateLocation_GeocodeFailureKeepsManualData(t *testing.T) {
	env := newWizardTestEnv(t)
	ctx := context.Background()
	session := env.seedSession(t, nil)

	env.geo.reverseGeocodeFn = func(ctx context.Context, lat, lng float64) (*dto.GeocodeResultVO, error) {
		return nil, errors.New("maps API 超时")
	}

	vo, err := env.svc.UpdateLocation(ctx, 1, session.ID, &dto.LocationUpdateRequest{
		Address:   "dirección manual",
		Latitude:  -25.3,
		Longitude: -57.5,
		FromMap:   true,
	})
	if err != nil {
		t.Fatalf("UpdateLocation() error = %v", err)
	}
	if len(vo.Location.GeoNotices) == 0 {
		t.Error("地理编码失败应返回提示")
	}
	if vo.Location.Latitude == 0 {
		t.Error("坐标丢失")
	}
}

func TestWizardService_UpdateLocation_ManualSelectionResolvesNames(t *testing.T) {
	env := newWizardTestEnv(t)
	ctx := context.Background()
	session := env.seedSession(t, nil)

	vo, err := env.svc.UpdateLocation(ctx, 1, session.ID, &dto.LocationUpdateRequest{
		CountryName: "Paraguay",
		RegionID:    "dep-1",
		CityID:      "ciu-2",
		Address:     "Ruta Luque km 12",
	})
	if err != nil {
		t.Fatalf("UpdateLocation() error = %v", err)
	}
	if vo.Location.RegionName != "Central" {
		t.Errorf("RegionName = %q, want Central", vo.Location.RegionName)
	}
	if vo.Location.CityName != "Luque" {
		t.Errorf("CityName = %q, want Luque", vo.Location.CityName)
	}
}

func TestWizardService_UpdateLocation_RegionChangeClearsCity(t *testing.T) {
	env := newWizardTestEnv(t)
	ctx := context.Background()
	session := env.seedSession(t, func(s *model.WizardSession) {
		s.RegionID = "dep-1"
		s.RegionName = "Central"
		s.CityID = "ciu-1"
		s.CityName = "Asunción"
	})

	// 仅换省不带城市：旧城市不得跨省残留
	vo, err := env.svc.UpdateLocation(ctx, 1, session.ID, &dto.LocationUpdateRequest{
		RegionID: "dep-2",
	})
	if err != nil {
		t.Fatalf("UpdateLocation() error = %v", err)
	}
	if vo.Location.RegionID != "dep-2" || vo.Location.RegionName != "Alto Paraná" {
		t.Errorf("Region = %q/%q, want dep-2/Alto Paraná", vo.Location.RegionID, vo.Location.RegionName)
	}
	if vo.Location.CityID != "" || vo.Location.CityName != "" {
		t.Errorf("City = %q/%q, 换省后旧城市应清空", vo.Location.CityID, vo.Location.CityName)
	}

	var reloaded model.WizardSession
	env.db.First(&reloaded, session.ID)
	if reloaded.CityID != "" {
		t.Errorf("落库 CityID = %q, 换省后旧城市应清空", reloaded.CityID)
	}
}

func TestWizardService_UpdateLocation_CrossRegionCityDropped(t *testing.T) {
	env := newWizardTestEnv(t)
	ctx := context.Background()
	session := env.seedSession(t, func(s *model.WizardSession) {
		s.RegionID = "dep-1"
		s.CityID = "ciu-1"
		s.CityName = "Asunción"
	})

	// ciu-1 归属 dep-1，不能挂在 dep-2 下
	vo, err := env.svc.UpdateLocation(ctx, 1, session.ID, &dto.LocationUpdateRequest{
		RegionID: "dep-2",
		CityID:   "ciu-1",
	})
	if err != nil {
		t.Fatalf("UpdateLocation() error = %v", err)
	}
	if vo.Location.CityID != "" {
		t.Errorf("CityID = %q, 跨省城市应被丢弃", vo.Location.CityID)
	}
}

// ==================== 详情步骤 ====================

func TestWizardService_UpdateDetails_TransactionModeClearsPrice(t *testing.T) {
	env := newWizardTestEnv(t)
	ctx := context.Background()
	session := env.seedSession(t, func(s *model.WizardSession) {
		s.Step = model.StepDetails
	})

	vo, err := env.svc.UpdateDetails(ctx, 1, session.ID, &dto.DetailsUpdateRequest{
		PropertyTypeID:  "tipo-casa",
		TransactionMode: model.TransactionRent,
		Title:           "Casa en alquiler",
		Description:     "Disponible ya",
		SalePrice:       "150000",
		RentPrice:       "800",
		TotalArea:       "120",
		Bedrooms:        "3",
		Bathrooms:       "2",
	})
	if err != nil {
		t.Fatalf("UpdateDetails() error = %v", err)
	}

	// 仅租模式不保留售价
	if vo.Details.SalePrice != "" {
		t.Errorf("SalePrice = %q, 应被清空", vo.Details.SalePrice)
	}
	if vo.Details.RentPrice != "800" {
		t.Errorf("RentPrice = %q", vo.Details.RentPrice)
	}
	if vo.Details.TransactionMode != model.TransactionRent {
		t.Errorf("TransactionMode = %q", vo.Details.TransactionMode)
	}
}

func TestWizardService_UpdateDetails_LandZeroesRooms(t *testing.T) {
	env := newWizardTestEnv(t)
	ctx := context.Background()
	session := env.seedSession(t, func(s *model.WizardSession) {
		s.Step = model.StepDetails
	})

	vo, err := env.svc.UpdateDetails(ctx, 1, session.ID, &dto.DetailsUpdateRequest{
		PropertyTypeID:  "tipo-terreno",
		TransactionMode: model.TransactionSale,
		Title:           "Terreno en esquina",
		Description:     "1200 m2 en zona residencial",
		SalePrice:       "90000",
		TotalArea:       "1200",
		Bedrooms:        "3",
		Bathrooms:       "2",
	})
	if err != nil {
		t.Fatalf("UpdateDetails() error = %v", err)
	}
	if vo.Details.Bedrooms != "0" || vo.Details.Bathrooms != "0" {
		t.Errorf("土地类型卧室/卫生间 = %q/%q, want 0/0", vo.Details.Bedrooms, vo.Details.Bathrooms)
	}
}

func TestWizardService_UpdateDetails_InactiveSessionRejected(t *testing.T) {
	env := newWizardTestEnv(t)
	session := env.seedSession(t, func(s *model.WizardSession) {
		s.Status = model.SessionStatusSubmitted
	})

	_, err := env.svc.UpdateDetails(context.Background(), 1, session.ID, &dto.DetailsUpdateRequest{
		PropertyTypeID:  "tipo-casa",
		TransactionMode: model.TransactionSale,
		Title:           "x",
		Description:     "y",
		TotalArea:       "10",
	})
	if !errors.Is(err, ErrSessionNotEditable) {
		t.Fatalf("UpdateDetails() error = %v, want ErrSessionNotEditable", err)
	}
}

// ==================== 步骤切换 ====================

func TestWizardService_Advance_LocationGateBlocks(t *testing.T) {
	env := newWizardTestEnv(t)
	session := env.seedSession(t, nil)

	_, err := env.svc.Advance(context.Background(), 1, session.ID)
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("Advance() error = %v, want ValidationError", err)
	}
}

func TestWizardService_Advance_LeavingLocationCreatesPlatformLocation(t *testing.T) {
	env := newWizardTestEnv(t)
	ctx := context.Background()
	session := env.seedSession(t, func(s *model.WizardSession) {
		s.Latitude = "-25.282197"
		s.Longitude = "-57.563591"
		s.Address = "Av. Mariscal López 1234"
		s.CountryName = "Paraguay"
		s.RegionName = "Central"
		s.CityName = "Asunción"
		s.PostalCode = "1209"
	})

	var captured *inmo.LocationPayload
	env.platform.createLocationFn = func(ctx context.Context, payload *inmo.LocationPayload) (*inmo.LocationResult, error) {
		captured = payload
		return &inmo.LocationResult{IDUbicacion: 888}, nil
	}

	vo, err := env.svc.Advance(ctx, 1, session.ID)
	if err != nil {
		t.Fatalf("Advance() error = %v", err)
	}
	if vo.Step != model.StepDetails {
		t.Errorf("Step = %d, want 2", vo.Step)
	}
	if vo.Location.LocationID == nil || *vo.Location.LocationID != 888 {
		t.Error("LocationID 未写入会话")
	}
	if captured == nil {
		t.Fatal("未调用平台创建位置")
	}
	if captured.CiudadNombre != "Asunción" || captured.Direccion != "Av. Mariscal López 1234" {
		t.Errorf("位置载荷字段错误: %+v", captured)
	}
	if captured.CodigoPostal == nil || *captured.CodigoPostal != "1209" {
		t.Error("邮编未随载荷发送")
	}
}

func TestWizardService_Advance_PlatformLocationFailureKeepsStep(t *testing.T) {
	env := newWizardTestEnv(t)
	ctx := context.Background()
	session := env.seedSession(t, func(s *model.WizardSession) {
		s.Latitude = "-25.282197"
		s.Longitude = "-57.563591"
		s.Address = "Av. Mariscal López 1234"
		s.CountryName = "Paraguay"
		s.RegionName = "Central"
		s.CityName = "Asunción"
	})

	env.platform.createLocationFn = func(ctx context.Context, payload *inmo.LocationPayload) (*inmo.LocationResult, error) {
		return nil, errors.New("platform 500")
	}

	if _, err := env.svc.Advance(ctx, 1, session.ID); err == nil {
		t.Fatal("Advance() 应因平台失败返回错误")
	}

	var reloaded model.WizardSession
	env.db.First(&reloaded, session.ID)
	if reloaded.Step != model.StepLocation {
		t.Errorf("Step = %d, 平台失败不应前进", reloaded.Step)
	}
	if reloaded.LocationID != nil {
		t.Error("失败时不应留下 LocationID")
	}
}

func TestWizardService_Advance_LocationKeptOnRevisit(t *testing.T) {
	env := newWizardTestEnv(t)
	ctx := context.Background()
	locationID := int64(501)
	session := env.seedSession(t, func(s *model.WizardSession) {
		s.Latitude = "-25.282197"
		s.Longitude = "-57.563591"
		s.Address = "Av. Mariscal López 1234"
		s.CountryName = "Paraguay"
		s.RegionName = "Central"
		s.CityName = "Asunción"
		s.LocationID = &locationID
	})

	called := false
	env.platform.createLocationFn = func(ctx context.Context, payload *inmo.LocationPayload) (*inmo.LocationResult, error) {
		called = true
		return &inmo.LocationResult{IDUbicacion: 999}, nil
	}

	if _, err := env.svc.Advance(ctx, 1, session.ID); err != nil {
		t.Fatalf("Advance() error = %v", err)
	}
	if called {
		t.Error("已有 LocationID 时不应重复创建平台位置")
	}
}

func TestWizardService_Back_ClampsAtFirstStep(t *testing.T) {
	env := newWizardTestEnv(t)
	ctx := context.Background()
	session := env.seedSession(t, nil)

	vo, err := env.svc.Back(ctx, 1, session.ID, 0)
	if err != nil {
		t.Fatalf("Back() error = %v", err)
	}
	if vo.Step != model.StepLocation {
		t.Errorf("Step = %d, want 1", vo.Step)
	}
}

func TestWizardService_Back_JumpsToEarlierStep(t *testing.T) {
	env := newWizardTestEnv(t)
	ctx := context.Background()
	session := env.seedSession(t, func(s *model.WizardSession) {
		s.Step = model.StepReview
	})

	// 点击步骤条直接回到步骤2，中间数据保留
	vo, err := env.svc.Back(ctx, 1, session.ID, model.StepDetails)
	if err != nil {
		t.Fatalf("Back() error = %v", err)
	}
	if vo.Step != model.StepDetails {
		t.Errorf("Step = %d, want 2", vo.Step)
	}
}

func TestWizardService_Back_ForwardTargetFallsBackOneStep(t *testing.T) {
	env := newWizardTestEnv(t)
	ctx := context.Background()
	session := env.seedSession(t, func(s *model.WizardSession) {
		s.Step = model.StepDetails
	})

	// 目标不早于当前步骤时按后退一步处理，前进走门禁校验
	vo, err := env.svc.Back(ctx, 1, session.ID, model.StepImages)
	if err != nil {
		t.Fatalf("Back() error = %v", err)
	}
	if vo.Step != model.StepLocation {
		t.Errorf("Step = %d, want 1", vo.Step)
	}
}

// ==================== AI 与周边 ====================

func TestWizardService_GenerateDescription_FillsTitleAndDescription(t *testing.T) {
	env := newWizardTestEnv(t)
	ctx := context.Background()
	session := env.seedSession(t, func(s *model.WizardSession) {
		s.Step = model.StepDetails
		s.Latitude = "-25.282197"
		s.Longitude = "-57.563591"
		s.CityName = "Asunción"
		s.PropertyTypeID = "tipo-casa"
		s.TotalArea = "120"
	})

	var captured *ListingInput
	env.ai.generateFn = func(ctx context.Context, input *ListingInput) (*ListingContent, error) {
		captured = input
		return &ListingContent{Title: "Casa luminosa", Description: "Con patio y quincho"}, nil
	}

	vo, err := env.svc.GenerateDescription(ctx, 1, session.ID, &dto.GenerateDescriptionRequest{Hints: "destacar el quincho"})
	if err != nil {
		t.Fatalf("GenerateDescription() error = %v", err)
	}
	if vo.Details.Title != "Casa luminosa" || vo.Details.Description != "Con patio y quincho" {
		t.Errorf("生成结果未落库: title=%q desc=%q", vo.Details.Title, vo.Details.Description)
	}
	if captured == nil {
		t.Fatal("未调用生成器")
	}
	if captured.PropertyType != "Casa" {
		t.Errorf("PropertyType = %q, 目录名未解析", captured.PropertyType)
	}
	if captured.Hints != "destacar el quincho" {
		t.Errorf("Hints = %q", captured.Hints)
	}
	// 坐标可用时先补一次周边检索供提示词使用
	if captured.NearbyPlaces == "" {
		t.Error("NearbyPlaces 未补全")
	}
}

func TestWizardService_GenerateDescription_AIFailureLeavesSessionUntouched(t *testing.T) {
	env := newWizardTestEnv(t)
	ctx := context.Background()
	session := env.seedSession(t, func(s *model.WizardSession) {
		s.Latitude = "-25.282197"
		s.Longitude = "-57.563591"
		s.Title = "título original"
		s.Description = "descripción original"
	})

	env.ai.generateFn = func(ctx context.Context, input *ListingInput) (*ListingContent, error) {
		return nil, errors.New("Gemini 超时")
	}

	if _, err := env.svc.GenerateDescription(ctx, 1, session.ID, &dto.GenerateDescriptionRequest{}); err == nil {
		t.Fatal("GenerateDescription() 应返回错误")
	}

	var reloaded model.WizardSession
	env.db.First(&reloaded, session.ID)
	if reloaded.Title != "título original" || reloaded.Description != "descripción original" {
		t.Error("AI 失败不应改动已有标题/描述")
	}
}

func TestWizardService_GenerateDescription_RequiresCoords(t *testing.T) {
	env := newWizardTestEnv(t)
	session := env.seedSession(t, nil)

	env.ai.generateFn = func(ctx context.Context, input *ListingInput) (*ListingContent, error) {
		t.Error("无坐标时不应调用生成器")
		return nil, errors.New("unexpected")
	}

	_, err := env.svc.GenerateDescription(context.Background(), 1, session.ID, &dto.GenerateDescriptionRequest{})
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("GenerateDescription() error = %v, want ValidationError", err)
	}
}

func TestWizardService_Nearby_RequiresCoords(t *testing.T) {
	env := newWizardTestEnv(t)
	session := env.seedSession(t, nil)

	_, err := env.svc.Nearby(context.Background(), 1, session.ID)
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("Nearby() error = %v, want ValidationError", err)
	}
}

func TestWizardService_Nearby_PersistsDescription(t *testing.T) {
	env := newWizardTestEnv(t)
	ctx := context.Background()
	session := env.seedSession(t, func(s *model.WizardSession) {
		s.Latitude = "-25.282197"
		s.Longitude = "-57.563591"
	})

	text, err := env.svc.Nearby(ctx, 1, session.ID)
	if err != nil {
		t.Fatalf("Nearby() error = %v", err)
	}
	if text == "" {
		t.Fatal("周边描述为空")
	}

	var reloaded model.WizardSession
	env.db.First(&reloaded, session.ID)
	if reloaded.NearbyPlaces != text {
		t.Error("周边描述未落库")
	}
}

// ==================== 提交 ====================

func TestWizardService_Submit_ValidationFailureStaysEditable(t *testing.T) {
	env := newWizardTestEnv(t)
	ctx := context.Background()
	// 缺图片，门禁应拦截
	session := env.seedSession(t, func(s *model.WizardSession) {
		completeSession(s)
	})

	_, err := env.svc.Submit(ctx, 1, session.ID)
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("Submit() error = %v, want ValidationError", err)
	}

	var reloaded model.WizardSession
	env.db.First(&reloaded, session.ID)
	if reloaded.Status != model.SessionStatusActive {
		t.Errorf("Status = %q, 校验失败应保持 active", reloaded.Status)
	}
}

func TestWizardService_Submit_CreateFlow(t *testing.T) {
	env := newWizardTestEnv(t)
	ctx := context.Background()
	session := env.seedSession(t, func(s *model.WizardSession) {
		completeSession(s)
	})
	env.seedImage(t, session.ID, 0, model.ImageSourceLocal)
	env.seedImage(t, session.ID, 1, model.ImageSourceRemote)

	var captured *inmo.PropertyPayload
	env.platform.createPropertyFn = func(ctx context.Context, payload *inmo.PropertyPayload) (string, error) {
		captured = payload
		return "prop-200", nil
	}
	var uploadedCount int
	env.platform.uploadImagesFn = func(ctx context.Context, propertyID string, files []inmo.ImageFile) error {
		uploadedCount = len(files)
		return nil
	}

	result, err := env.svc.Submit(ctx, 1, session.ID)
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if result.PropertyID != "prop-200" {
		t.Errorf("PropertyID = %q", result.PropertyID)
	}
	if result.Redirect != "/explorar" {
		t.Errorf("Redirect = %q, 新建模式应跳转浏览页", result.Redirect)
	}
	if result.Notice != "" {
		t.Errorf("Notice = %q, 全量成功不应有提示", result.Notice)
	}

	// remote 来源平台已持有，仅推送本地暂存
	if uploadedCount != 1 || result.ImagesUploaded != 1 {
		t.Errorf("推送图片数 = %d/%d, want 1", uploadedCount, result.ImagesUploaded)
	}

	if captured == nil {
		t.Fatal("未调用平台创建房产")
	}
	if captured.IDUbicacion != 501 || captured.SuperficieTotal != 120 {
		t.Errorf("载荷字段错误: %+v", captured)
	}
	if captured.PrecioVenta == nil || *captured.PrecioVenta != 150000 {
		t.Error("售价未转换")
	}
	if captured.PrecioAlquiler != nil {
		t.Error("未填租价应序列化为 null")
	}
	if captured.NumeroHabitaciones == nil || *captured.NumeroHabitaciones != 3 {
		t.Error("卧室数未转换")
	}

	var reloaded model.WizardSession
	env.db.First(&reloaded, session.ID)
	if reloaded.Status != model.SessionStatusSubmitted {
		t.Errorf("Status = %q, want submitted", reloaded.Status)
	}
	if reloaded.PropertyID != "prop-200" {
		t.Errorf("会话 PropertyID = %q", reloaded.PropertyID)
	}
}

func TestWizardService_Submit_EditFlowUpdatesProperty(t *testing.T) {
	env := newWizardTestEnv(t)
	ctx := context.Background()
	session := env.seedSession(t, func(s *model.WizardSession) {
		completeSession(s)
		s.Mode = model.ModeEdit
		s.PropertyID = "prop-55"
	})
	env.seedImage(t, session.ID, 0, model.ImageSourceRemote)

	updateCalled := false
	env.platform.updatePropertyFn = func(ctx context.Context, propertyID string, payload *inmo.PropertyPayload) error {
		updateCalled = true
		if propertyID != "prop-55" {
			t.Errorf("UpdateProperty propertyID = %q", propertyID)
		}
		return nil
	}
	env.platform.createPropertyFn = func(ctx context.Context, payload *inmo.PropertyPayload) (string, error) {
		t.Error("编辑模式不应调用 CreateProperty")
		return "", nil
	}

	result, err := env.svc.Submit(ctx, 1, session.ID)
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if !updateCalled {
		t.Error("未调用 UpdateProperty")
	}
	if result.PropertyID != "prop-55" {
		t.Errorf("PropertyID = %q", result.PropertyID)
	}
	if result.Redirect != "/propiedades" {
		t.Errorf("Redirect = %q, 编辑模式应跳转我的房源", result.Redirect)
	}
}

func TestWizardService_Submit_PropertyFailureRevertsToActive(t *testing.T) {
	env := newWizardTestEnv(t)
	ctx := context.Background()
	session := env.seedSession(t, func(s *model.WizardSession) {
		completeSession(s)
	})
	env.seedImage(t, session.ID, 0, model.ImageSourceLocal)

	env.platform.createPropertyFn = func(ctx context.Context, payload *inmo.PropertyPayload) (string, error) {
		return "", errors.New("platform 500")
	}

	if _, err := env.svc.Submit(ctx, 1, session.ID); err == nil {
		t.Fatal("Submit() 应返回错误")
	}

	var reloaded model.WizardSession
	env.db.First(&reloaded, session.ID)
	if reloaded.Status != model.SessionStatusActive {
		t.Errorf("Status = %q, 房产写入失败应恢复 active", reloaded.Status)
	}
	if reloaded.PropertyID != "" {
		t.Errorf("PropertyID = %q, 失败不应留痕", reloaded.PropertyID)
	}
}

func TestWizardService_Submit_ImageFailureKeepsProperty(t *testing.T) {
	env := newWizardTestEnv(t)
	ctx := context.Background()
	session := env.seedSession(t, func(s *model.WizardSession) {
		completeSession(s)
	})
	env.seedImage(t, session.ID, 0, model.ImageSourceLocal)

	env.platform.uploadImagesFn = func(ctx context.Context, propertyID string, files []inmo.ImageFile) error {
		return errors.New("upload 500")
	}

	result, err := env.svc.Submit(ctx, 1, session.ID)
	if err != nil {
		t.Fatalf("Submit() error = %v, 图片失败不应整体失败", err)
	}
	if result.PropertyID == "" {
		t.Error("房产ID丢失")
	}
	if result.Notice == "" {
		t.Error("图片失败应返回提示")
	}
	if result.ImagesUploaded != 0 {
		t.Errorf("ImagesUploaded = %d, want 0", result.ImagesUploaded)
	}

	// 房产已落地，状态仍推进到 submitted
	var reloaded model.WizardSession
	env.db.First(&reloaded, session.ID)
	if reloaded.Status != model.SessionStatusSubmitted {
		t.Errorf("Status = %q, want submitted", reloaded.Status)
	}
}

func TestWizardService_Submit_DoubleSubmitBlocked(t *testing.T) {
	env := newWizardTestEnv(t)
	ctx := context.Background()
	session := env.seedSession(t, func(s *model.WizardSession) {
		completeSession(s)
		s.Status = model.SessionStatusSubmitting
	})

	_, err := env.svc.Submit(ctx, 1, session.ID)
	if !errors.Is(err, ErrSessionNotEditable) {
		t.Fatalf("Submit() error = %v, want ErrSessionNotEditable", err)
	}
}

// ==================== 后台清理 ====================

func TestWizardService_ExpireStale(t *testing.T) {
	env := newWizardTestEnv(t)
	ctx := context.Background()

	stale := env.seedSession(t, nil)
	env.seedImage(t, stale.ID, 0, model.ImageSourceLocal)
	// updated_at 回拨到清理线之前
	env.db.Model(&model.WizardSession{}).
		Where("id = ?", stale.ID).
		Update("updated_at", time.Now().Add(-100*time.Hour))

	fresh := env.seedSession(t, nil)
	done := env.seedSession(t, func(s *model.WizardSession) {
		s.Status = model.SessionStatusSubmitted
	})
	env.db.Model(&model.WizardSession{}).
		Where("id = ?", done.ID).
		Update("updated_at", time.Now().Add(-100*time.Hour))

	count, err := env.svc.ExpireStale(ctx, time.Now().Add(-72*time.Hour))
	if err != nil {
		t.Fatalf("ExpireStale() error = %v", err)
	}
	if count != 1 {
		t.Errorf("过期数量 = %d, want 1", count)
	}

	var reloaded model.WizardSession
	env.db.First(&reloaded, stale.ID)
	if reloaded.Status != model.SessionStatusExpired {
		t.Errorf("Status = %q, want expired", reloaded.Status)
	}
	if len(env.storage.deleted) != 1 {
		t.Errorf("释放暂存对象 %d 个, want 1", len(env.storage.deleted))
	}

	var imgCount int64
	env.db.Model(&model.WizardImage{}).Where("session_id = ?", stale.ID).Count(&imgCount)
	if imgCount != 0 {
		t.Errorf("过期会话图片残留 %d 条", imgCount)
	}

	// 活跃会话与已提交会话不受影响
	reloaded = model.WizardSession{}
	env.db.First(&reloaded, fresh.ID)
	if reloaded.Status != model.SessionStatusActive {
		t.Errorf("新会话 Status = %q", reloaded.Status)
	}
	reloaded = model.WizardSession{}
	env.db.First(&reloaded, done.ID)
	if reloaded.Status != model.SessionStatusSubmitted {
		t.Errorf("已提交会话 Status = %q", reloaded.Status)
	}
}
