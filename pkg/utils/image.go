package utils

import (
	"net/http"
)

// 图片允许的 MIME 类型白名单
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// DetectImageType 嗅探字节流的 MIME 类型
// 不信任客户端上报的 Content-Type，以文件头为准
func DetectImageType(data []byte) string {
	return http.DetectContentType(data)
}

// IsAllowedImageType 检查 MIME 类型是否在白名单内 (JPG/PNG/WEBP)
func IsAllowedImageType(mimeType string) bool {
	return allowedImageTypes[mimeType]
}
