package cache_key_builder

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// DefaultPrefix 列表缓存键的默认前缀
const DefaultPrefix = "list"

// KeyBuilder 缓存键构建器接口
// 开发者可以实现此接口来自定义键生成逻辑
type KeyBuilder interface {
	// BuildKey 根据资源名和查询参数生成缓存键
	BuildKey(resource string, params any) (string, error)
	// Pattern 返回资源下所有键的匹配模式，用于失效
	Pattern(resource string) string
}

// ListKeyBuilder 列表查询缓存键构建器
// 生成形如 "list:Post:<sha1>" 的键，参数以 JSON 规范化（map 键有序），与过滤器提交顺序无关
type ListKeyBuilder struct {
	prefix string
}

// NewListKeyBuilder 创建列表键构建器，prefix 为空时使用 DefaultPrefix
func NewListKeyBuilder(prefix string) *ListKeyBuilder {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &ListKeyBuilder{prefix: prefix}
}

// BuildKey 实现 KeyBuilder 接口
func (kb *ListKeyBuilder) BuildKey(resource string, params any) (string, error) {
	data, err := json.Marshal(params)
	if err != nil {
		return "", fmt.Errorf("failed to marshal key params: %w", err)
	}
	sum := sha1.Sum(data)
	return fmt.Sprintf("%s:%s:%s", kb.prefix, resource, hex.EncodeToString(sum[:])), nil
}

// Pattern 实现 KeyBuilder 接口
func (kb *ListKeyBuilder) Pattern(resource string) string {
	return fmt.Sprintf("%s:%s:*", kb.prefix, resource)
}

// ========== 便捷工具函数 ==========

// ListKey 使用默认前缀快速构建键
func ListKey(resource string, params any) (string, error) {
	return NewListKeyBuilder("").BuildKey(resource, params)
}
