package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

func init() {
	// 有 .env 就加载，没有就静默跳过
	_ = godotenv.Load()
}

// Config 全部运行配置，从环境变量加载
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Storage  StorageConfig
	JWT      JWTConfig
	Purge    PurgeConfig
}

// ServerConfig HTTP 服务配置
type ServerConfig struct {
	Port            string        `envconfig:"SERVER_PORT" default:"8080"`
	Debug           bool          `envconfig:"SERVER_DEBUG" default:"false"`
	ShutdownTimeout time.Duration `envconfig:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`
}

// DatabaseConfig Postgres 连接配置
type DatabaseConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     int    `envconfig:"DB_PORT" default:"5432"`
	Name     string `envconfig:"DB_NAME" default:"revu_farm"`
	User     string `envconfig:"DB_USER" default:"revu_admin"`
	Password string `envconfig:"DB_PASSWORD" default:""`
	SSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`
}

// DSN 拼接 gorm postgres 连接串
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=%s",
		c.Host, c.User, c.Password, c.Name, c.Port, c.SSLMode)
}

// StorageConfig 对象存储配置
type StorageConfig struct {
	Provider  string `envconfig:"STORAGE_PROVIDER" default:"s3"` // s3 | local
	Bucket    string `envconfig:"AWS_BUCKET" default:""`
	Region    string `envconfig:"AWS_REGION" default:"ap-northeast-2"`
	AccessKey string `envconfig:"AWS_ACCESS_KEY_ID" default:""`
	SecretKey string `envconfig:"AWS_SECRET_ACCESS_KEY" default:""`
	CDNDomain string `envconfig:"AWS_CDN_DOMAIN" default:""`
	BasePath  string `envconfig:"STORAGE_BASE_PATH" default:"revu-farm"`
	LocalDir  string `envconfig:"STORAGE_LOCAL_DIR" default:"./uploads"`
}

// JWTConfig 鉴权配置
type JWTConfig struct {
	SecretKey       string        `envconfig:"JWT_SECRET" default:"revu-farm-secret-change-in-production"`
	AccessTokenTTL  time.Duration `envconfig:"JWT_ACCESS_TTL" default:"2h"`
	RefreshTokenTTL time.Duration `envconfig:"JWT_REFRESH_TTL" default:"168h"`
	Issuer          string        `envconfig:"JWT_ISSUER" default:"revu-farm"`
}

// PurgeConfig 软删除清扫配置
type PurgeConfig struct {
	Enabled   bool          `envconfig:"PURGE_ENABLED" default:"true"`
	Retention time.Duration `envconfig:"PURGE_RETENTION" default:"720h"` // 30 天
	Spec      string        `envconfig:"PURGE_CRON" default:"0 0 4 * * *"` // 每天凌晨 4 点
}

// Load 加载配置
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("加载环境变量配置失败: %w", err)
	}
	return &cfg, nil
}
