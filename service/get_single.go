package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// ErrRecordNotFound 记录不存在
var ErrRecordNotFound = errors.New("record not found")

// SingleQueryOptions 单个查询配置选项
type SingleQueryOptions struct {
	Preload []string // 预加载关联
}

// GetSingleByID 根据主键查询单个记录（列表页的详情跳转）
func (sm *ServiceManager[T]) GetSingleByID(
	ctx context.Context,
	id interface{},
	opts *SingleQueryOptions,
) (*T, error) {
	db := sm.db(ctx).Table(sm.TableName)
	db = db.Where(fmt.Sprintf("%s.%s = ?", sm.TableName, sm.PrimaryKey), id)

	// 应用预加载
	if opts != nil {
		for _, preload := range opts.Preload {
			db = db.Preload(preload)
		}
	}

	var result T
	if err := db.First(&result).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s %v", ErrRecordNotFound, sm.ResourceName, id)
		}
		return nil, fmt.Errorf("failed to query record: %w", err)
	}

	return &result, nil
}
