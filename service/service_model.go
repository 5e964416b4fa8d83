package service

import (
	"context"
	"reflect"
	"time"

	"AdminFilter/util/admin_filter"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// ListCache 列表结果缓存，*RedisManager 实现了该接口
type ListCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	DeletePattern(ctx context.Context, pattern string) (int, error)
}

type ServiceManager[T any] struct {
	Resource     T             // 被管理的资源
	ResourceName string        // 资源名称
	TableName    string        // 表名
	RootAlias    string        // 根表别名
	PrimaryKey   string        // 主键列
	CacheTTL     time.Duration // 列表缓存有效期，0 表示不缓存

	// NewDatagrid 每次查询创建新的过滤器集合（过滤器带有激活状态，不可跨请求复用）
	NewDatagrid func() *admin_filter.Datagrid

	DB     *gorm.DB // 为空时使用全局实例
	Cache  ListCache
	Logger *logrus.Entry
}

func getTypeName[T any](value T) string {
	var zero T
	t := reflect.TypeOf(zero)
	// 如果 T 是指针，剥一层
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// NewServiceManager 创建一个新的 ServiceManager 实例
// 通过reflect获取名字，表名按 GORM 默认命名策略生成（Post -> posts）
func NewServiceManager[T any](resource T, newDatagrid func() *admin_filter.Datagrid) *ServiceManager[T] {
	name := getTypeName(resource)
	return &ServiceManager[T]{
		Resource:     resource,
		ResourceName: name,
		TableName:    schema.NamingStrategy{}.TableName(name),
		RootAlias:    "o",
		PrimaryKey:   "id",
		NewDatagrid:  newDatagrid,
		Logger:       logrus.NewEntry(logrus.StandardLogger()),
	}
}

// WithDB 指定数据库实例
func (sm *ServiceManager[T]) WithDB(db *gorm.DB) *ServiceManager[T] {
	sm.DB = db
	return sm
}

// WithCache 启用列表缓存；cache 为空时不缓存
func (sm *ServiceManager[T]) WithCache(cache ListCache, ttl time.Duration) *ServiceManager[T] {
	sm.Cache = cache
	sm.CacheTTL = ttl
	return sm
}

// WithLogger 指定日志
func (sm *ServiceManager[T]) WithLogger(logger *logrus.Entry) *ServiceManager[T] {
	sm.Logger = logger.WithField("resource", sm.ResourceName)
	return sm
}

func (sm *ServiceManager[T]) db(ctx context.Context) *gorm.DB {
	if sm.DB != nil {
		return sm.DB.WithContext(ctx)
	}
	return GetDB().WithContext(ctx)
}

func (sm *ServiceManager[T]) cacheEnabled() bool {
	if sm.Cache == nil || sm.CacheTTL <= 0 {
		return false
	}
	// 接口内的 nil *RedisManager
	if rm, ok := sm.Cache.(*RedisManager); ok && rm == nil {
		return false
	}
	return true
}
