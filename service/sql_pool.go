package service

import (
	"context"
	"fmt"
	"time"

	"AdminFilter/config"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// DBManager 数据库管理器
type DBManager struct {
	DB *gorm.DB
}

var globalDBManager *DBManager

// OpenDB 按驱动打开数据库连接（mysql 或 sqlite），不修改全局实例
func OpenDB(cfg config.DBConfig, logger *logrus.Entry) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "mysql":
		dialector = mysql.Open(cfg.DSN())
	case "sqlite":
		dialector = sqlite.Open(cfg.Path)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: NewGormLogger(logger),
		// 准备语句执行，提高性能
		PrepareStmt: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	// 获取底层的 *sql.DB
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	// 设置连接池参数
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnLifetime)

	// 测试连接
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// InitDB 初始化全局数据库连接
func InitDB(cfg config.DBConfig, logger *logrus.Entry) (*DBManager, error) {
	db, err := OpenDB(cfg, logger)
	if err != nil {
		return nil, err
	}

	logger.WithField("driver", cfg.Driver).Info("database connected")
	globalDBManager = &DBManager{DB: db}
	return globalDBManager, nil
}

// GetDB 获取全局数据库实例
func GetDB() *gorm.DB {
	if globalDBManager == nil {
		panic("database not initialized, call InitDB first")
	}
	return globalDBManager.DB
}

// Close 关闭数据库连接
func (dm *DBManager) Close() error {
	sqlDB, err := dm.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
