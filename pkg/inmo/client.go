package inmo

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
)

// ==================== 错误定义 ====================

var (
	// ErrNoLocationID 平台返回 2xx 但缺少 id_ubicacion，按失败处理
	ErrNoLocationID = errors.New("平台未返回位置ID")
	// ErrNotFound 请求的资源不存在
	ErrNotFound = errors.New("资源不存在")
)

// ==================== 配置 ====================

// Config 平台客户端配置
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	RetryCount int
}

// ==================== 客户端 ====================

// Client 房产发布平台的 HTTP 客户端
type Client struct {
	http *resty.Client

	// 平台访问令牌，由 TokenTask 定时刷新
	tokenMu sync.RWMutex
	token   string
}

// NewClient 创建平台客户端
func NewClient(cfg *Config) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}

	client := resty.New()
	client.SetBaseURL(cfg.BaseURL)
	client.SetTimeout(cfg.Timeout)
	client.SetRetryCount(cfg.RetryCount)
	client.SetHeader("Content-Type", "application/json")

	return &Client{http: client}
}

// SetToken 更新访问令牌 (并发安全)
func (c *Client) SetToken(token string) {
	c.tokenMu.Lock()
	defer c.tokenMu.Unlock()
	c.token = token
}

// Token 读取当前访问令牌
func (c *Client) Token() string {
	c.tokenMu.RLock()
	defer c.tokenMu.RUnlock()
	return c.token
}

// authReq 构造带 Bearer 头的请求
func (c *Client) authReq(ctx context.Context) *resty.Request {
	req := c.http.R().SetContext(ctx)
	if tok := c.Token(); tok != "" {
		req.SetAuthToken(tok)
	}
	return req
}

// ==================== 位置 ====================

// CreateLocation 创建位置子资源
// 必须先于房产实体创建，happens-before 依赖
func (c *Client) CreateLocation(ctx context.Context, payload *LocationPayload) (*LocationResult, error) {
	var result LocationResult

	resp, err := c.authReq(ctx).
		SetBody(payload).
		SetResult(&result).
		Post("/propiedad_ubicacion")
	if err != nil {
		return nil, fmt.Errorf("创建位置请求失败: %v", err)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("创建位置失败 [%d]: %s", resp.StatusCode(), resp.String())
	}
	if result.IDUbicacion == 0 {
		return nil, ErrNoLocationID
	}

	return &result, nil
}

// ==================== 房产 ====================

// GetProperty 获取房产详情 (编辑模式回填)
func (c *Client) GetProperty(ctx context.Context, propertyID string) (*PropertyDetail, error) {
	var detail PropertyDetail

	resp, err := c.authReq(ctx).
		SetResult(&detail).
		Get("/propiedades/" + propertyID)
	if err != nil {
		return nil, fmt.Errorf("获取房产请求失败: %v", err)
	}
	if resp.StatusCode() == 404 {
		return nil, ErrNotFound
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("获取房产失败 [%d]: %s", resp.StatusCode(), resp.String())
	}

	return &detail, nil
}

// CreateProperty 创建房产实体，返回平台分配的 ID
func (c *Client) CreateProperty(ctx context.Context, payload *PropertyPayload) (string, error) {
	var result PropertyResult

	resp, err := c.authReq(ctx).
		SetBody(payload).
		SetResult(&result).
		Post("/propiedades")
	if err != nil {
		return "", fmt.Errorf("创建房产请求失败: %v", err)
	}
	if !resp.IsSuccess() {
		if result.Error != "" {
			return "", fmt.Errorf("创建房产失败: %s", result.Error)
		}
		return "", fmt.Errorf("创建房产失败 [%d]: %s", resp.StatusCode(), resp.String())
	}

	return result.ID, nil
}

// UpdateProperty 更新已有房产
func (c *Client) UpdateProperty(ctx context.Context, propertyID string, payload *PropertyPayload) error {
	var result PropertyResult

	resp, err := c.authReq(ctx).
		SetBody(payload).
		SetResult(&result).
		Put("/propiedades/" + propertyID)
	if err != nil {
		return fmt.Errorf("更新房产请求失败: %v", err)
	}
	if !resp.IsSuccess() {
		if result.Error != "" {
			return fmt.Errorf("更新房产失败: %s", result.Error)
		}
		return fmt.Errorf("更新房产失败 [%d]: %s", resp.StatusCode(), resp.String())
	}

	return nil
}

// ==================== 图片 ====================

// ImageFile 待上传的图片文件
type ImageFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// UploadImages 按顺序批量上传图片 (单次 multipart 请求)
// 顺序即展示顺序，首张为主图
func (c *Client) UploadImages(ctx context.Context, propertyID string, files []ImageFile) error {
	if len(files) == 0 {
		return nil
	}

	fields := make([]*resty.MultipartField, 0, len(files))
	for _, f := range files {
		fields = append(fields, &resty.MultipartField{
			Param:       "files",
			FileName:    f.Name,
			ContentType: f.ContentType,
			Reader:      bytes.NewReader(f.Data),
		})
	}

	resp, err := c.authReq(ctx).
		SetMultipartFields(fields...).
		Post("/propiedades/" + propertyID + "/imagenes")
	if err != nil {
		return fmt.Errorf("上传图片请求失败: %v", err)
	}
	if !resp.IsSuccess() {
		return fmt.Errorf("上传图片失败 [%d]: %s", resp.StatusCode(), resp.String())
	}

	return nil
}

// ==================== 目录 ====================

// ListPropertyTypes 拉取房产类型目录
func (c *Client) ListPropertyTypes(ctx context.Context) ([]CatalogEntry, error) {
	return c.listCatalog(ctx, "/cat-inmueble-tipo")
}

// ListRegions 拉取省份目录
func (c *Client) ListRegions(ctx context.Context) ([]CatalogEntry, error) {
	return c.listCatalog(ctx, "/cat-departamentos")
}

// ListCities 拉取城市目录
func (c *Client) ListCities(ctx context.Context) ([]CityEntry, error) {
	var entries []CityEntry

	resp, err := c.authReq(ctx).
		SetResult(&entries).
		Get("/cat-ciudades")
	if err != nil {
		return nil, fmt.Errorf("拉取城市目录失败: %v", err)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("拉取城市目录失败 [%d]", resp.StatusCode())
	}

	return entries, nil
}

func (c *Client) listCatalog(ctx context.Context, path string) ([]CatalogEntry, error) {
	var entries []CatalogEntry

	resp, err := c.authReq(ctx).
		SetResult(&entries).
		Get(path)
	if err != nil {
		return nil, fmt.Errorf("拉取目录失败 %s: %v", path, err)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("拉取目录失败 %s [%d]", path, resp.StatusCode())
	}

	return entries, nil
}

// ==================== 认证 ====================

// RefreshSession 用刷新令牌换取新的令牌对
func (c *Client) RefreshSession(ctx context.Context, refreshToken string) (*TokenPair, error) {
	var pair TokenPair

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]string{"refresh_token": refreshToken}).
		SetResult(&pair).
		Post("/auth/refresh")
	if err != nil {
		return nil, fmt.Errorf("刷新令牌请求失败: %v", err)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("刷新令牌失败 [%d]: %s", resp.StatusCode(), resp.String())
	}
	if pair.AccessToken == "" {
		return nil, errors.New("平台未返回访问令牌")
	}

	return &pair, nil
}
