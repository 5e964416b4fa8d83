package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"AdminFilter/service"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormlogger "gorm.io/gorm/logger"
)

func newTestGormLogger() (*service.GormLogger, *logtest.Hook) {
	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.TraceLevel)
	return service.NewGormLogger(logrus.NewEntry(logger)), hook
}

func TestGormLogger_SilentDropsEverything(t *testing.T) {
	base, hook := newTestGormLogger()
	l := base.LogMode(gormlogger.Silent)
	ctx := context.Background()

	l.Info(ctx, "info %d", 1)
	l.Warn(ctx, "warn")
	l.Error(ctx, "error")
	l.Trace(ctx, time.Now(), func() (string, int64) { return "SELECT 1", 1 }, errors.New("boom"))

	assert.Empty(t, hook.AllEntries())
}

func TestGormLogger_ErrorLevelKeepsOnlyErrors(t *testing.T) {
	base, hook := newTestGormLogger()
	l := base.LogMode(gormlogger.Error)
	ctx := context.Background()

	l.Warn(ctx, "warn")
	l.Trace(ctx, time.Now(), func() (string, int64) { return "SELECT 1", 1 }, nil)
	l.Trace(ctx, time.Now(), func() (string, int64) { return "SELECT 2", 0 }, errors.New("boom"))

	require.Len(t, hook.AllEntries(), 1)
	assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
	assert.Contains(t, hook.LastEntry().Message, "SELECT 2")
	assert.Equal(t, "gorm", hook.LastEntry().Data["component"])
}

func TestGormLogger_InfoLevelTracesStatements(t *testing.T) {
	l, hook := newTestGormLogger()

	l.Trace(context.Background(), time.Now(), func() (string, int64) { return "SELECT 1", 1 }, nil)

	require.Len(t, hook.AllEntries(), 1)
	assert.Equal(t, logrus.TraceLevel, hook.LastEntry().Level)
}

func TestGormLogger_LogModeDoesNotMutateReceiver(t *testing.T) {
	base, hook := newTestGormLogger()
	_ = base.LogMode(gormlogger.Silent)

	base.Warn(context.Background(), "still logged")

	assert.Len(t, hook.AllEntries(), 1)
}
