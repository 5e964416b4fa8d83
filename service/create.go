package service

import (
	"context"
	"fmt"
)

// CreateOptions 建表配置选项
type CreateOptions struct {
	DropIfExists bool // 如果表存在则删除后重建
}

// Create 按资源结构建表（含多对多中间表），已存在时补齐缺失的列
func (sm *ServiceManager[T]) Create(ctx context.Context, opts *CreateOptions) error {
	db := sm.db(ctx)

	// 如果需要删除已存在的表
	if opts != nil && opts.DropIfExists {
		if err := db.Migrator().DropTable(&sm.Resource); err != nil {
			return fmt.Errorf("failed to drop table %s: %w", sm.TableName, err)
		}
	}

	if err := db.AutoMigrate(&sm.Resource); err != nil {
		return fmt.Errorf("failed to create table %s: %w", sm.TableName, err)
	}

	return nil
}
