package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// ==================== 配置 ====================

// AIConfig AI 服务配置
type AIConfig struct {
	ApiKey       string
	ModelVersion string // 如 "gemini-2.5-flash"
}

// ==================== 服务 ====================

// ListingContent AI 生成的房源文案
type ListingContent struct {
	Title       string `json:"titulo"`
	Description string `json:"descripcion"`
}

// listingGenerator 文案生成接口（便于测试替换）
type listingGenerator interface {
	GenerateListingContent(ctx context.Context, input *ListingInput) (*ListingContent, error)
}

type AIService struct {
	Config *AIConfig
}

// NewAIService 创建 AI 服务
func NewAIService(cfg *AIConfig) *AIService {
	if cfg.ModelVersion == "" {
		cfg.ModelVersion = "gemini-2.5-flash"
	}
	return &AIService{Config: cfg}
}

// ==================== 文案生成 ====================

// ListingInput 生成文案的房源概要
type ListingInput struct {
	PropertyType    string
	TransactionMode string
	CityName        string
	Neighborhood    string
	AreaTotal       string
	Bedrooms        string
	Bathrooms       string
	Amenities       []string
	NearbyPlaces    string
	Hints           string
}

// GenerateListingContent 根据房源概要生成西语标题与描述
func (s *AIService) GenerateListingContent(ctx context.Context, input *ListingInput) (*ListingContent, error) {
	if s.Config.ApiKey == "" {
		return nil, errors.New("Gemini API Key 未配置")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(s.Config.ApiKey))
	if err != nil {
		return nil, fmt.Errorf("Gemini 初始化失败: %v", err)
	}
	defer client.Close()

	modelAI := client.GenerativeModel(s.Config.ModelVersion)
	modelAI.ResponseMIMEType = "application/json"

	prompt := buildListingPrompt(input)

	resp, err := modelAI.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("AI 生成失败: %v", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, errors.New("AI 返回为空")
	}

	var rawJSON string
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			rawJSON = string(txt)
			break
		}
	}

	// 清洗可能存在的 markdown 符号 (```json ... ```)
	rawJSON = strings.TrimSpace(rawJSON)
	rawJSON = strings.TrimPrefix(rawJSON, "```json")
	rawJSON = strings.TrimPrefix(rawJSON, "```")
	rawJSON = strings.TrimSuffix(rawJSON, "```")

	var result ListingContent
	if err := json.Unmarshal([]byte(rawJSON), &result); err != nil {
		return nil, fmt.Errorf("JSON 解析失败: %v | 原始数据: %s", err, rawJSON)
	}

	// 标题与描述缺一不可，半成品不入草稿
	if result.Title == "" || result.Description == "" {
		return nil, ErrAIIncompleteResult
	}

	return &result, nil
}

// buildListingPrompt 构建生成提示词
func buildListingPrompt(input *ListingInput) string {
	var sb strings.Builder
	sb.WriteString(`Eres un redactor experto en anuncios inmobiliarios.
Genera un anuncio atractivo en español para la siguiente propiedad:

`)
	writeField := func(label, value string) {
		if value != "" {
			sb.WriteString(fmt.Sprintf("- %s: %s\n", label, value))
		}
	}
	writeField("Tipo de propiedad", input.PropertyType)
	writeField("Operación", input.TransactionMode)
	writeField("Ciudad", input.CityName)
	writeField("Barrio", input.Neighborhood)
	writeField("Superficie total (m²)", input.AreaTotal)
	writeField("Habitaciones", input.Bedrooms)
	writeField("Baños", input.Bathrooms)
	if len(input.Amenities) > 0 {
		writeField("Comodidades", strings.Join(input.Amenities, ", "))
	}
	writeField("Entorno", input.NearbyPlaces)

	if input.Hints != "" {
		sb.WriteString(fmt.Sprintf("\nIndicaciones adicionales del usuario: %s\n", input.Hints))
	}

	sb.WriteString(`
Requisitos:
1. titulo: llamativo, máximo 100 caracteres.
2. descripcion: 150-300 palabras, tono vendedor, destacar ubicación y comodidades.

Output Schema (JSON):
{
    "titulo": "string",
    "descripcion": "string"
}
`)
	return sb.String()
}

// ==================== 错误定义 ====================

var ErrAIIncompleteResult = errors.New("AI 生成结果不完整")
