package http_router

import (
	"errors"
	"fmt"
	"net/http"

	"AdminFilter/service"
	"AdminFilter/util/admin_filter"

	"github.com/gin-gonic/gin"
)

// ========== 预定义查询方法 ==========

// PaginatedQueryMethod 一种列表视图：分页大小、默认排序与预加载
type PaginatedQueryMethod[T any] struct {
	Name     string
	PageSize int
	Service  *service.ServiceManager[T]
	OrderBy  string
	Order    string
	Preload  []string
}

func (m *PaginatedQueryMethod[T]) Execute(c *gin.Context, page int, filters map[string]*admin_filter.FilterValue) (*service.QueryResult[T], error) {
	opts := &service.QueryOptions{
		Page:     page,
		PageSize: m.PageSize,
		OrderBy:  m.OrderBy,
		Order:    m.Order,
		Preload:  m.Preload,
	}

	return m.Service.ListQuery(c.Request.Context(), filters, opts)
}

// ========== 查询方法注册表 ==========

type QueryMethodRegistry[T any] struct {
	methods map[string]*PaginatedQueryMethod[T]
}

func NewQueryMethodRegistry[T any]() *QueryMethodRegistry[T] {
	return &QueryMethodRegistry[T]{
		methods: make(map[string]*PaginatedQueryMethod[T]),
	}
}

func (r *QueryMethodRegistry[T]) Register(method *PaginatedQueryMethod[T]) {
	r.methods[method.Name] = method
}

func (r *QueryMethodRegistry[T]) Get(name string) (*PaginatedQueryMethod[T], bool) {
	method, ok := r.methods[name]
	return method, ok
}

// ========== Gin 路由组 ==========

// ListRouterGroup 列表页路由：过滤查询、计数、过滤器表单设置、详情与缓存失效
type ListRouterGroup[T any] struct {
	RouterGroup    *gin.RouterGroup
	Service        *service.ServiceManager[T]
	MethodRegistry *QueryMethodRegistry[T]
}

func NewListRouterGroup[T any](
	rg *gin.RouterGroup,
	service *service.ServiceManager[T],
) *ListRouterGroup[T] {
	return &ListRouterGroup[T]{
		RouterGroup:    rg,
		Service:        service,
		MethodRegistry: NewQueryMethodRegistry[T](),
	}
}

// ========== 注册预定义查询方法 ==========

func (lrg *ListRouterGroup[T]) RegisterMethod(name string, pageSize int, orderBy string, order string, preload ...string) {
	method := &PaginatedQueryMethod[T]{
		Name:     name,
		PageSize: pageSize,
		Service:  lrg.Service,
		OrderBy:  orderBy,
		Order:    order,
		Preload:  preload,
	}
	lrg.MethodRegistry.Register(method)
}

// RegisterListMethod 注册默认的 list 方法（按主键倒序）
func (lrg *ListRouterGroup[T]) RegisterListMethod(pageSize int, preload ...string) {
	lrg.RegisterMethod("list", pageSize, lrg.Service.PrimaryKey, "DESC", preload...)
}

// ========== 路由注册 ==========

func (lrg *ListRouterGroup[T]) RegisterRoutes(basePath string) {
	lrg.RouterGroup.POST(basePath+"/query", lrg.HandleQuery)
	lrg.RouterGroup.POST(basePath+"/count", lrg.HandleCount)
	lrg.RouterGroup.GET(basePath+"/filters", lrg.HandleFilters)
	lrg.RouterGroup.GET(basePath+"/:id", lrg.HandleGetByID)
	lrg.RouterGroup.POST(basePath+"/cache/invalidate", lrg.HandleInvalidate)
}

// ========== 请求/响应结构 ==========

// QueryRequest 过滤查询请求，filters 以过滤器名为键：
// {"method": "list", "page": 1, "filters": {"createdAt": {"type": 3, "value": "2020-11-07"}}}
type QueryRequest struct {
	Method  string                               `json:"method" binding:"omitempty,max=64"`
	Page    int                                  `json:"page" binding:"gte=0"`
	Filters map[string]*admin_filter.FilterValue `json:"filters"`
}

type QueryResponse[T any] struct {
	Code       int    `json:"code"`
	Message    string `json:"message"`
	Data       []T    `json:"data"`
	Total      int64  `json:"total"`
	Page       int    `json:"page"`
	PageSize   int    `json:"page_size"`
	TotalPages int    `json:"total_pages"`
}

type CountRequest struct {
	Filters map[string]*admin_filter.FilterValue `json:"filters"`
}

type CountResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Count   int64  `json:"count"`
}

// ========== 处理器 ==========

func (lrg *ListRouterGroup[T]) HandleQuery(c *gin.Context) {
	var req QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "invalid request", "error": err.Error()})
		return
	}

	if req.Method == "" {
		req.Method = "list"
	}
	method, ok := lrg.MethodRegistry.Get(req.Method)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": fmt.Sprintf("unknown method: %s", req.Method)})
		return
	}

	result, err := method.Execute(c, req.Page, req.Filters)
	if err != nil {
		lrg.abortWithError(c, "query failed", err)
		return
	}

	c.JSON(http.StatusOK, QueryResponse[T]{
		Code:       0,
		Message:    "success",
		Data:       result.Data,
		Total:      result.Total,
		Page:       result.Page,
		PageSize:   result.PageSize,
		TotalPages: result.TotalPages,
	})
}

func (lrg *ListRouterGroup[T]) HandleCount(c *gin.Context) {
	var req CountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "invalid request", "error": err.Error()})
		return
	}

	count, err := lrg.Service.CountQuery(c.Request.Context(), req.Filters)
	if err != nil {
		lrg.abortWithError(c, "count failed", err)
		return
	}

	c.JSON(http.StatusOK, CountResponse{Code: 0, Message: "success", Count: count})
}

// HandleFilters 返回每个过滤器的表单渲染设置
func (lrg *ListRouterGroup[T]) HandleFilters(c *gin.Context) {
	settings := map[string]admin_filter.RenderSettings{}
	if lrg.Service.NewDatagrid != nil {
		settings = lrg.Service.NewDatagrid().RenderSettings()
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": settings})
}

func (lrg *ListRouterGroup[T]) HandleGetByID(c *gin.Context) {
	id := c.Param("id")
	result, err := lrg.Service.GetSingleByID(c.Request.Context(), id, nil)
	if err != nil {
		lrg.abortWithError(c, "query failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": result})
}

// HandleInvalidate 清除该资源的列表缓存（数据写入方在变更后调用）
func (lrg *ListRouterGroup[T]) HandleInvalidate(c *gin.Context) {
	deleted, err := lrg.Service.InvalidateList(c.Request.Context())
	if err != nil {
		lrg.abortWithError(c, "invalidate failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "deleted": deleted})
}

// abortWithError 按错误类型选择状态码：提交值问题为 400，记录不存在为 404，过滤器配置或数据库问题为 500
func (lrg *ListRouterGroup[T]) abortWithError(c *gin.Context, message string, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrInvalidOrder), errors.Is(err, admin_filter.ErrUnboundParameter):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrRecordNotFound):
		status = http.StatusNotFound
		message = "record not found"
	}

	if status == http.StatusInternalServerError {
		lrg.Service.Logger.WithError(err).WithField("path", c.FullPath()).Error(message)
	}
	c.JSON(status, gin.H{"code": status, "message": message, "error": err.Error()})
}
