package admin_filter

import (
	"errors"
	"fmt"
)

// ErrInvalidMappingType 关联类型配置错误
var ErrInvalidMappingType = errors.New("invalid mapping type")

// ErrMissingAssociation 关联过滤器未配置关联元数据
var ErrMissingAssociation = errors.New("missing association mapping")

// ErrUnboundParameter 条件引用了未绑定的参数
var ErrUnboundParameter = errors.New("unbound parameter")

// UnknownAliasError 条件引用了未连接的别名
type UnknownAliasError struct {
	Alias string
}

func (e UnknownAliasError) Error() string {
	return fmt.Sprintf("unknown alias: %s", e.Alias)
}
