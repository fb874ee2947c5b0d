package dto

// ==================== 会话请求 ====================

// CreateWizardRequest 创建向导会话请求
// Mode 为 edit 时必须携带 PropertyID，会话将从平台拉取房源数据预填
type CreateWizardRequest struct {
	Mode       string `json:"mode" binding:"omitempty,oneof=create edit"`
	PropertyID string `json:"property_id"`
}

// LocationUpdateRequest 位置步骤更新请求
// 字段均为 UI 原始字符串，坐标在提交时才做数值校验
type LocationUpdateRequest struct {
	CountryName  string  `json:"country_name"`
	RegionID     string  `json:"region_id"`
	CityID       string  `json:"city_id"`
	Address      string  `json:"address"`
	Neighborhood string  `json:"neighborhood"`
	PostalCode   string  `json:"postal_code"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	// FromMap 为 true 表示坐标来自地图交互，需要触发反向地理编码
	FromMap bool `json:"from_map"`
}

// DetailsUpdateRequest 详情步骤更新请求
type DetailsUpdateRequest struct {
	PropertyTypeID  string   `json:"property_type_id"`
	TransactionMode string   `json:"transaction_mode" binding:"omitempty,oneof=venta alquiler ambos"`
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	SalePrice       string   `json:"sale_price"`
	RentPrice       string   `json:"rent_price"`
	TotalArea       string   `json:"total_area"`
	Bedrooms        string   `json:"bedrooms"`
	Bathrooms       string   `json:"bathrooms"`
	Amenities       []string `json:"amenities"`
}

// BackRequest 后退请求
// Step 指定要回到的更早步骤，为 0 时后退一步
type BackRequest struct {
	Step int `json:"step" binding:"omitempty,min=1,max=4"`
}

// GenerateDescriptionRequest AI 生成文案请求
type GenerateDescriptionRequest struct {
	// Hints 用户补充的亮点提示，可为空
	Hints string `json:"hints"`
}

// RemoteImageRequest 远程图片登记请求（编辑模式保留原图）
type RemoteImageRequest struct {
	URL string `json:"url" binding:"required"`
}

// ==================== 会话响应 ====================

// WizardSessionVO 向导会话视图
type WizardSessionVO struct {
	ID         int64  `json:"id"`
	Mode       string `json:"mode"`
	PropertyID string `json:"property_id,omitempty"`
	Step       int    `json:"step"`
	TotalSteps int    `json:"total_steps"`
	Status     string `json:"status"`

	Location LocationVO `json:"location"`
	Details  DetailsVO  `json:"details"`

	Images     []ImageVO `json:"images"`
	ImageCount int       `json:"image_count"`

	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// LocationVO 位置数据视图
type LocationVO struct {
	CountryName  string   `json:"country_name"`
	RegionID     string   `json:"region_id"`
	RegionName   string   `json:"region_name"`
	CityID       string   `json:"city_id"`
	CityName     string   `json:"city_name"`
	Address      string   `json:"address"`
	Neighborhood string   `json:"neighborhood"`
	PostalCode   string   `json:"postal_code"`
	Latitude     float64  `json:"latitude"`
	Longitude    float64  `json:"longitude"`
	LocationID   *int64   `json:"location_id,omitempty"`
	GeoNotices   []string `json:"geo_notices,omitempty"`
}

// DetailsVO 详情数据视图
type DetailsVO struct {
	PropertyTypeID  string   `json:"property_type_id"`
	TransactionMode string   `json:"transaction_mode"`
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	SalePrice       string   `json:"sale_price"`
	RentPrice       string   `json:"rent_price"`
	TotalArea       string   `json:"total_area"`
	Bedrooms        string   `json:"bedrooms"`
	Bathrooms       string   `json:"bathrooms"`
	Amenities       []string `json:"amenities"`
	NearbyPlaces    string   `json:"nearby_places,omitempty"`
}

// ImageVO 图片视图
type ImageVO struct {
	ID          int64  `json:"id"`
	Position    int    `json:"position"`
	IsPrimary   bool   `json:"is_primary"`
	Source      string `json:"source"`
	FileName    string `json:"file_name,omitempty"`
	ContentType string `json:"content_type,omitempty"`
	SizeBytes   int64  `json:"size_bytes,omitempty"`
	PreviewURL  string `json:"preview_url"`
}

// ImageIngestResult 批量上传结果
// 部分文件被拒绝不影响其余文件入库
type ImageIngestResult struct {
	Accepted []ImageVO        `json:"accepted"`
	Rejected []ImageRejection `json:"rejected"`
}

// ImageRejection 被拒绝的文件及原因
type ImageRejection struct {
	FileName string `json:"file_name"`
	Reason   string `json:"reason"`
}

// SubmitResult 提交结果
type SubmitResult struct {
	PropertyID string `json:"property_id"`
	Redirect   string `json:"redirect"`
	// ImagesUploaded 实际上传成功的图片数
	ImagesUploaded int `json:"images_uploaded"`
	// Notice 部分失败时的提示信息（如图片上传失败但房源已创建）
	Notice string `json:"notice,omitempty"`
}

// ==================== 地理 ====================

// GeocodeResultVO 反向地理编码结果视图
type GeocodeResultVO struct {
	CountryName  string   `json:"country_name"`
	RegionID     string   `json:"region_id"`
	RegionName   string   `json:"region_name"`
	CityID       string   `json:"city_id"`
	CityName     string   `json:"city_name"`
	Address      string   `json:"address"`
	Neighborhood string   `json:"neighborhood"`
	PostalCode   string   `json:"postal_code"`
	Notices      []string `json:"notices,omitempty"`

	// Components 原始地址组件 (类型 -> 名称)，随会话留档
	Components map[string]string `json:"components,omitempty"`
}

// AutocompleteEntry 地址联想条目
type AutocompleteEntry struct {
	PlaceID     string `json:"place_id"`
	Description string `json:"description"`
}

// ==================== 目录 ====================

// CatalogEntryVO 目录条目视图
type CatalogEntryVO struct {
	ID     string `json:"id"`
	Nombre string `json:"nombre"`
}

// CityEntryVO 城市条目视图
type CityEntryVO struct {
	ID       string `json:"id"`
	Nombre   string `json:"nombre"`
	RegionID string `json:"region_id"`
}
