package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"AdminFilter/util/admin_filter"
	"AdminFilter/util/cache_key_builder"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ErrInvalidOrder 排序字段或方向不合法
var ErrInvalidOrder = errors.New("invalid order")

var orderColumnPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// QueryOptions 查询配置选项
type QueryOptions struct {
	Page     int      `json:"page"`      // 页码（从1开始）
	PageSize int      `json:"page_size"` // 每页数量
	OrderBy  string   `json:"order_by"`  // 排序字段
	Order    string   `json:"order"`     // 排序方向（ASC/DESC）
	Preload  []string `json:"preload"`   // 预加载关联
}

// QueryResult 查询结果
type QueryResult[T any] struct {
	Data       []T   `json:"data"`        // 数据列表
	Total      int64 `json:"total"`       // 总数
	Page       int   `json:"page"`        // 当前页
	PageSize   int   `json:"page_size"`   // 每页数量
	TotalPages int   `json:"total_pages"` // 总页数
	Cached     bool  `json:"-"`           // 是否来自缓存
}

// listKeyParams 列表缓存键的组成部分
type listKeyParams struct {
	Options *QueryOptions                        `json:"options"`
	Filters map[string]*admin_filter.FilterValue `json:"filters"`
}

// ListQuery 按提交的过滤值查询列表（支持分页与缓存）
func (sm *ServiceManager[T]) ListQuery(
	ctx context.Context,
	values map[string]*admin_filter.FilterValue,
	opts *QueryOptions,
) (*QueryResult[T], error) {
	if err := validateOrder(opts); err != nil {
		return nil, err
	}

	// 读缓存
	var key string
	if sm.cacheEnabled() {
		k, err := cache_key_builder.ListKey(sm.ResourceName, listKeyParams{Options: opts, Filters: values})
		if err != nil {
			sm.Logger.WithError(err).Warn("failed to build list cache key")
		} else {
			key = k
			var cached QueryResult[T]
			err := sm.Cache.Get(ctx, key, &cached)
			if err == nil {
				cached.Cached = true
				return &cached, nil
			}
			if !errors.Is(err, ErrCacheMiss) {
				sm.Logger.WithError(err).WithField("key", key).Warn("failed to read list cache")
			}
		}
	}

	db, grid, err := sm.filteredQuery(ctx, values)
	if err != nil {
		return nil, err
	}

	// 统计总数
	var total int64
	if err := db.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count records: %w", err)
	}

	// 应用查询选项
	findDB := sm.applyQueryOptions(db.Session(&gorm.Session{}), opts)

	// 执行查询
	results := make([]T, 0)
	if err := findDB.Find(&results).Error; err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}

	// 构建返回结果
	result := &QueryResult[T]{
		Data:  results,
		Total: total,
	}

	if opts != nil && opts.PageSize > 0 {
		result.Page = max(opts.Page, 1)
		result.PageSize = opts.PageSize
		result.TotalPages = int((total + int64(opts.PageSize) - 1) / int64(opts.PageSize))
	}

	sm.Logger.WithFields(logrus.Fields{
		"filters": grid.ActiveFilters(),
		"total":   total,
	}).Debug("list query executed")

	// 写缓存
	if key != "" {
		if err := sm.Cache.Set(ctx, key, result, sm.CacheTTL); err != nil {
			sm.Logger.WithError(err).WithField("key", key).Warn("failed to write list cache")
		}
	}

	return result, nil
}

// CountQuery 按提交的过滤值计数
func (sm *ServiceManager[T]) CountQuery(
	ctx context.Context,
	values map[string]*admin_filter.FilterValue,
) (int64, error) {
	db, _, err := sm.filteredQuery(ctx, values)
	if err != nil {
		return 0, err
	}

	var count int64
	if err := db.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count records: %w", err)
	}

	return count, nil
}

// InvalidateList 清除该资源的全部列表缓存
func (sm *ServiceManager[T]) InvalidateList(ctx context.Context) (int, error) {
	if !sm.cacheEnabled() {
		return 0, nil
	}
	pattern := cache_key_builder.NewListKeyBuilder("").Pattern(sm.ResourceName)
	return sm.Cache.DeletePattern(ctx, pattern)
}

// filteredQuery 创建过滤器集合并将提交值翻译为查询条件
func (sm *ServiceManager[T]) filteredQuery(
	ctx context.Context,
	values map[string]*admin_filter.FilterValue,
) (*gorm.DB, *admin_filter.Datagrid, error) {
	grid := admin_filter.NewDatagrid()
	if sm.NewDatagrid != nil {
		grid = sm.NewDatagrid()
	}

	q := admin_filter.NewGormQuery(sm.TableName, sm.RootAlias).WithPrimaryKey(sm.PrimaryKey)
	if err := grid.Apply(q, grid.Normalize(values)); err != nil {
		return nil, nil, err
	}

	db, err := q.Build(sm.db(ctx))
	if err != nil {
		return nil, nil, err
	}
	return db, grid, nil
}

func validateOrder(opts *QueryOptions) error {
	if opts == nil {
		return nil
	}
	if opts.OrderBy != "" && !orderColumnPattern.MatchString(opts.OrderBy) {
		return fmt.Errorf("%w: column %q", ErrInvalidOrder, opts.OrderBy)
	}
	switch strings.ToUpper(opts.Order) {
	case "", "ASC", "DESC":
		return nil
	}
	return fmt.Errorf("%w: direction %q", ErrInvalidOrder, opts.Order)
}

// applyQueryOptions 应用查询选项
func (sm *ServiceManager[T]) applyQueryOptions(db *gorm.DB, opts *QueryOptions) *gorm.DB {
	if opts == nil {
		return db
	}

	// 应用排序（仅根表字段）
	if opts.OrderBy != "" {
		order := "ASC"
		if opts.Order != "" {
			order = strings.ToUpper(opts.Order)
		}
		db = db.Order(fmt.Sprintf("%s.%s %s", sm.TableName, opts.OrderBy, order))
	}

	// 应用预加载
	for _, preload := range opts.Preload {
		db = db.Preload(preload)
	}

	// 应用分页
	if opts.PageSize > 0 {
		page := opts.Page
		if page < 1 {
			page = 1
		}
		offset := (page - 1) * opts.PageSize
		db = db.Offset(offset).Limit(opts.PageSize)
	}

	return db
}
