package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ==================== 状态常量 ====================

const (
	// 向导步骤 (线性，1-4)
	StepLocation = 1
	StepDetails  = 2
	StepImages   = 3
	StepReview   = 4
	TotalSteps   = 4

	// 会话状态
	SessionStatusActive     = "active"
	SessionStatusSubmitting = "submitting"
	SessionStatusSubmitted  = "submitted"
	SessionStatusExpired    = "expired"

	// 会话模式
	ModeCreate = "create"
	ModeEdit   = "edit"

	// 交易模式 (派生值，不落库)
	TransactionSale = "venta"
	TransactionRent = "alquiler"
	TransactionBoth = "ambos"

	// 图片来源
	ImageSourceLocal  = "local"  // 本次会话上传的暂存文件
	ImageSourceRemote = "remote" // 编辑模式带入的已持久化 URL

	// 单个会话的图片上限
	MaxImagesPerSession = 20
)

// ==================== JSON 类型 ====================

// StringSlice 字符串切片（JSON 存储）
type StringSlice []string

func (s *StringSlice) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	return json.Marshal(s)
}

func (s *StringSlice) Scan(value interface{}) error {
	if value == nil {
		*s = []string{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		str, ok := value.(string)
		if !ok {
			return errors.New("type assertion to []byte failed")
		}
		bytes = []byte(str)
	}
	return json.Unmarshal(bytes, s)
}

// ==================== 数据库模型 ====================

// WizardSession 发布向导会话 (草稿)
// 字段保留 UI 字符串形态，数值在提交阶段统一转换
type WizardSession struct {
	ID        int64          `gorm:"primaryKey;autoIncrement"`
	CreatedAt time.Time      `gorm:"index"`
	UpdatedAt time.Time      `gorm:"index"`
	DeletedAt gorm.DeletedAt `gorm:"index"`

	UserID     int64  `gorm:"index;not null;comment:发布者ID"`
	Mode       string `gorm:"size:16;not null;default:create;comment:create|edit"`
	PropertyID string `gorm:"size:64;index;comment:平台房产ID(编辑模式或提交后)"`
	Step       int    `gorm:"default:1;comment:当前步骤 1-4"`
	Status     string `gorm:"size:32;index;default:active;comment:会话状态"`

	// -------- 位置 (步骤1) --------
	Latitude     string `gorm:"size:32;comment:纬度"`
	Longitude    string `gorm:"size:32;comment:经度"`
	Address      string `gorm:"size:512;comment:地址"`
	Neighborhood string `gorm:"size:255;comment:街区"`
	PostalCode   string `gorm:"size:32;comment:邮编"`
	RegionID     string `gorm:"size:64;comment:省份目录ID(匹配成功时)"`
	CityID       string `gorm:"size:64;comment:城市目录ID(匹配成功时)"`
	CountryName  string `gorm:"size:255;comment:逆地理检测国家名"`
	RegionName   string `gorm:"size:255;comment:逆地理检测省份名"`
	CityName     string `gorm:"size:255;comment:逆地理检测城市名"`
	LocationID   *int64 `gorm:"comment:平台位置子资源ID"`

	// 逆地理原始组件快照
	GeoComponents datatypes.JSON `gorm:"comment:逆地理原始地址组件"`
	// 地理请求序号：迟到的旧响应按序号丢弃
	GeoSeqIssued  int64 `gorm:"default:0;comment:已签发的地理请求序号"`
	GeoSeqApplied int64 `gorm:"default:0;comment:已应用的地理请求序号"`

	// -------- 详情 (步骤2) --------
	Title          string      `gorm:"size:255;comment:标题"`
	Description    string      `gorm:"type:text;comment:描述(可含AI生成的富文本)"`
	PropertyTypeID string      `gorm:"size:64;comment:房产类型目录ID"`
	TotalArea      string      `gorm:"size:32;comment:总面积m2"`
	BedroomCount   string      `gorm:"size:16;default:'0';comment:卧室数"`
	BathroomCount  string      `gorm:"size:16;default:'0';comment:卫生间数"`
	SalePrice      string      `gorm:"size:32;comment:售价"`
	RentPrice      string      `gorm:"size:32;comment:租价"`
	Amenities      StringSlice `gorm:"type:json;comment:配套设施标签"`
	NearbyPlaces   string      `gorm:"type:text;comment:周边兴趣点描述"`

	// 关联
	Images []WizardImage `gorm:"foreignKey:SessionID"`
}

func (*WizardSession) TableName() string {
	return "wizard_sessions"
}

// WizardImage 会话内的有序暂存图片
// Position 即展示顺序，0 号永远是主图
type WizardImage struct {
	ID        int64          `gorm:"primaryKey;autoIncrement"`
	CreatedAt time.Time      `gorm:"index"`
	UpdatedAt time.Time      `gorm:"index"`
	DeletedAt gorm.DeletedAt `gorm:"index"`

	SessionID   int64  `gorm:"index;not null;comment:会话ID"`
	Position    int    `gorm:"index;not null;comment:顺序(0为主图)"`
	Source      string `gorm:"size:16;not null;comment:local|remote"`
	RemoteURL   string `gorm:"size:2048;comment:已持久化的远端URL(remote)"`
	StoragePath string `gorm:"size:2048;comment:暂存对象URL(local)"`
	FileName    string `gorm:"size:512;comment:原始文件名"`
	ContentType string `gorm:"size:64;comment:嗅探的MIME类型"`
	SizeBytes   int64  `gorm:"comment:文件大小"`
}

func (*WizardImage) TableName() string {
	return "wizard_images"
}

// IsLocal 是否本次会话上传的暂存文件
func (i *WizardImage) IsLocal() bool {
	return i.Source == ImageSourceLocal
}

// PreviewURL 预览地址：remote 用原 URL，local 用暂存对象 URL
func (i *WizardImage) PreviewURL() string {
	if i.Source == ImageSourceRemote {
		return i.RemoteURL
	}
	return i.StoragePath
}

// ==================== 辅助方法 ====================

// TransactionMode 从价格字段派生交易模式
func (s *WizardSession) TransactionMode() string {
	switch {
	case s.SalePrice != "" && s.RentPrice != "":
		return TransactionBoth
	case s.RentPrice != "":
		return TransactionRent
	default:
		return TransactionSale
	}
}

// Coords 解析坐标字段，任一解析失败视为未选点
func (s *WizardSession) Coords() (lat, lng float64, ok bool) {
	if s.Latitude == "" || s.Longitude == "" {
		return 0, 0, false
	}
	lat, err := strconv.ParseFloat(s.Latitude, 64)
	if err != nil {
		return 0, 0, false
	}
	lng, err = strconv.ParseFloat(s.Longitude, 64)
	if err != nil {
		return 0, 0, false
	}
	return lat, lng, true
}

// ClampStep 将目标步骤压到合法区间 [1, TotalSteps]
func ClampStep(step int) int {
	if step < StepLocation {
		return StepLocation
	}
	if step > TotalSteps {
		return TotalSteps
	}
	return step
}

// CanAdvance 检查当前步骤的前进门禁
// imageCount: 会话当前的图片数量 (步骤3门禁用)
func (s *WizardSession) CanAdvance(imageCount int) error {
	if s.Status != SessionStatusActive {
		return errors.New("会话状态不允许操作")
	}

	switch s.Step {
	case StepLocation:
		if s.Latitude == "" || s.Longitude == "" || s.Address == "" {
			return errors.New("请先在地图上确定位置并填写地址")
		}
		if s.CountryName == "" || s.RegionName == "" || s.CityName == "" {
			return errors.New("位置解析未完成，请重新选点")
		}
	case StepDetails:
		if s.Title == "" {
			return errors.New("标题不能为空")
		}
		if s.Description == "" {
			return errors.New("描述不能为空")
		}
		if s.PropertyTypeID == "" {
			return errors.New("请选择房产类型")
		}
		if s.TotalArea == "" {
			return errors.New("请填写总面积")
		}
	case StepImages:
		if imageCount == 0 {
			return errors.New("请至少上传一张图片")
		}
	case StepReview:
		return errors.New("已是最后一步")
	}
	return nil
}

// CanSubmit 检查最终提交门禁
func (s *WizardSession) CanSubmit(imageCount int) error {
	if s.Title == "" {
		return errors.New("标题不能为空")
	}
	if s.Description == "" {
		return errors.New("描述不能为空")
	}
	if s.LocationID == nil {
		return errors.New("位置尚未创建")
	}
	if imageCount == 0 {
		return errors.New("请至少上传一张图片")
	}
	if s.SalePrice == "" && s.RentPrice == "" {
		return errors.New("请至少填写售价或租价")
	}
	area, err := strconv.ParseFloat(s.TotalArea, 64)
	if err != nil || area <= 0 {
		return errors.New("总面积必须为正数")
	}
	return nil
}
