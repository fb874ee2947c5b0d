package model

import "time"

// 静态目录：从平台拉取后落地本地表，供地理匹配使用
// 只读参考数据，定时整表刷新

// Region 省份/一级行政区目录
type Region struct {
	ID       string    `gorm:"primaryKey;size:64" json:"id"`
	Nombre   string    `gorm:"size:255;index;not null" json:"nombre"`
	SyncedAt time.Time `json:"-"`
}

func (Region) TableName() string {
	return "cat_regions"
}

// City 城市目录，带所属省份外键
type City struct {
	ID       string    `gorm:"primaryKey;size:64" json:"id"`
	Nombre   string    `gorm:"size:255;index;not null" json:"nombre"`
	RegionID string    `gorm:"size:64;index;not null" json:"id_departamento"`
	SyncedAt time.Time `json:"-"`
}

func (City) TableName() string {
	return "cat_cities"
}

// PropertyType 房产类型目录
type PropertyType struct {
	ID       string    `gorm:"primaryKey;size:64" json:"id"`
	Nombre   string    `gorm:"size:255;not null" json:"nombre"`
	SyncedAt time.Time `json:"-"`
}

func (PropertyType) TableName() string {
	return "cat_property_types"
}

// 类型名常量：选中"土地"时强制清零卧室/卫生间
const PropertyTypeNameLand = "Terreno"
