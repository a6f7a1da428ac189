package utils

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// SaveBase64Document 解码Base64编码的资质证明文件并保存到上传目录，
// 返回保存后的相对路径
func SaveBase64Document(uploadDir string, base64Document string) (string, error) {
	// 创建上传目录
	if err := os.MkdirAll(uploadDir, 0755); err != nil {
		return "", fmt.Errorf("创建上传目录失败: %v", err)
	}

	// 去除可能携带的 data URI 前缀
	if idx := strings.Index(base64Document, ","); idx != -1 && strings.HasPrefix(base64Document, "data:") {
		base64Document = base64Document[idx+1:]
	}

	// 解码Base64
	decoded, err := base64.StdEncoding.DecodeString(base64Document)
	if err != nil {
		return "", fmt.Errorf("解码文件内容失败: %v", err)
	}

	// 根据文件头识别扩展名，生成唯一文件名
	extension := detectFileExtension(decoded)
	filename := "expert_" + uuid.New().String() + extension
	path := filepath.Join(uploadDir, filename)

	if err := os.WriteFile(path, decoded, 0644); err != nil {
		return "", fmt.Errorf("保存文件失败: %v", err)
	}

	return path, nil
}

// detectFileExtension 根据文件头（魔数）识别文件扩展名
func detectFileExtension(data []byte) string {
	if len(data) < 4 {
		return ".bin"
	}

	switch {
	case bytes.HasPrefix(data, []byte{0xFF, 0xD8, 0xFF}):
		return ".jpg"
	case bytes.HasPrefix(data, []byte{0x89, 0x50, 0x4E, 0x47}):
		return ".png"
	case bytes.HasPrefix(data, []byte{0x47, 0x49, 0x46}):
		return ".gif"
	case bytes.HasPrefix(data, []byte{0x25, 0x50, 0x44, 0x46}):
		return ".pdf"
	case bytes.HasPrefix(data, []byte{0x50, 0x4B, 0x03, 0x04}):
		return ".docx"
	}

	return ".bin"
}
