package service

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// GormLogger 将 GORM 日志转发到 logrus，LogMode 的级别决定输出哪些消息
type GormLogger struct {
	logger *logrus.Entry
	level  gormlogger.LogLevel
}

// NewGormLogger 创建 GORM 日志适配器（默认 Info 级别，SQL 以 logrus Trace 输出）
func NewGormLogger(logger *logrus.Entry) *GormLogger {
	return &GormLogger{logger: logger.WithField("component", "gorm"), level: gormlogger.Info}
}

func (l *GormLogger) LogMode(lvl gormlogger.LogLevel) gormlogger.Interface {
	newlogger := *l
	newlogger.level = lvl
	return &newlogger
}

func (l *GormLogger) Info(ctx context.Context, str string, rest ...interface{}) {
	if l.level >= gormlogger.Info {
		l.logger.Infof(str, rest...)
	}
}

func (l *GormLogger) Warn(ctx context.Context, str string, rest ...interface{}) {
	if l.level >= gormlogger.Warn {
		l.logger.Warnf(str, rest...)
	}
}

func (l *GormLogger) Error(ctx context.Context, str string, rest ...interface{}) {
	if l.level >= gormlogger.Error {
		l.logger.Errorf(str, rest...)
	}
}

func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}

	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound) && l.level >= gormlogger.Error:
		sql, rows := fc()
		l.logger.Errorf("Took: %s, Err:%s, SQL: %s, AffectedRows: %d", time.Since(begin).String(), err, sql, rows)
	case l.level >= gormlogger.Info:
		sql, rows := fc()
		l.logger.Tracef("Took: %s, SQL: %s, AffectedRows: %d", time.Since(begin).String(), sql, rows)
	}
}
