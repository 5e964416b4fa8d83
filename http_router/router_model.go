package http_router

import (
	serviceManager "AdminFilter/service"

	"github.com/gin-gonic/gin"
)

// HTTPRouterManager 封装了 ServiceManager 并提供 HTTP 路由注册功能
type HTTPRouterManager[T any] struct {
	// 1. 使用指针嵌入 (*)，避免拷贝
	// 2. 必须显式传递泛型参数 [T]
	*serviceManager.ServiceManager[T]
}

// NewHTTPRouterManager 构造函数
// 接收一个已经初始化好的 ServiceManager
func NewHTTPRouterManager[T any](svc *serviceManager.ServiceManager[T]) *HTTPRouterManager[T] {
	return &HTTPRouterManager[T]{
		ServiceManager: svc,
	}
}

// RegisterListRoutes 在 rg 下注册列表页全部路由，并注册默认的 list 方法
func (m *HTTPRouterManager[T]) RegisterListRoutes(rg *gin.RouterGroup, basePath string, pageSize int, preload ...string) *ListRouterGroup[T] {
	group := NewListRouterGroup(rg, m.ServiceManager)
	group.RegisterListMethod(pageSize, preload...)
	group.RegisterRoutes(basePath)
	return group
}
