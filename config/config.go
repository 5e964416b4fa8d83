package config

import (
	"fmt"
	"time"

	formatter "github.com/antonfisher/nested-logrus-formatter"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
)

// Config 服务配置，环境变量前缀为 ADMIN_（如 ADMIN_DB_DRIVER、ADMIN_REDIS_ADDR）
type Config struct {
	DB       DBConfig
	Redis    RedisConfig
	HTTPAddr string        `split_words:"true" default:":8080"`
	LogLevel string        `split_words:"true" default:"info"`
	Timezone string        `split_words:"true" default:"Local"`
	CacheTTL time.Duration `split_words:"true" default:"30s"`
	PageSize int           `split_words:"true" default:"20"`
}

// DBConfig 数据库配置
type DBConfig struct {
	Driver   string `split_words:"true" default:"mysql"`
	Host     string `split_words:"true" default:"127.0.0.1"`
	Port     int    `split_words:"true" default:"3306"`
	User     string `split_words:"true"`
	Password string `split_words:"true"`
	Name     string `split_words:"true"`
	// sqlite 时为文件路径，如 "admin.db" 或 "file::memory:?cache=shared"
	Path         string        `split_words:"true" default:"admin.db"`
	MaxOpenConns int           `split_words:"true" default:"100"`
	MaxIdleConns int           `split_words:"true" default:"10"`
	ConnLifetime time.Duration `split_words:"true" default:"1h"`
}

// RedisConfig Redis 配置，Addr 为空时不启用列表缓存
type RedisConfig struct {
	Addr     string `split_words:"true"`
	Password string `split_words:"true"`
	DB       int    `split_words:"true" default:"0"`
	PoolSize int    `split_words:"true" default:"50"`
}

// Load 加载 .env（可选）后读取环境变量
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("ADMIN", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	return &cfg, nil
}

// DSN 返回 MySQL 连接串
func (c DBConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		c.User, c.Password, c.Host, c.Port, c.Name)
}

// Location 解析时区，用于日期过滤值的规范化
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

var logFormatter = &formatter.Formatter{
	TimestampFormat: "2006-01-02 15:04:05",
	HideKeys:        true,
	FieldsOrder:     []string{"service", "component", "resource"},
}

// NewLogger 按配置的级别创建日志
func (c *Config) NewLogger() *logrus.Entry {
	logger := logrus.New()
	logger.SetFormatter(logFormatter)

	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	return logrus.NewEntry(logger).WithField("service", "admin-filter")
}
