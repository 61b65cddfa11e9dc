// pkg/config/config.go
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config 应用配置
type Config struct {
	App struct {
		Name string `yaml:"name"`
		Env  string `yaml:"env"`
	} `yaml:"app"`

	API struct {
		Port string `yaml:"port"`
	} `yaml:"api"`

	Database struct {
		Postgres struct {
			Host     string `yaml:"host"`
			Port     int    `yaml:"port"`
			User     string `yaml:"user"`
			Password string `yaml:"password"`
			DBName   string `yaml:"dbname"`
			SSLMode  string `yaml:"sslmode"`
		} `yaml:"postgres"`
		ConnectTimeoutSec int `yaml:"connect_timeout_sec"`
	} `yaml:"database"`

	ML struct {
		BaseURL    string `yaml:"base_url"`
		TimeoutSec int    `yaml:"timeout_sec"`
	} `yaml:"ml"`

	Uploads struct {
		Dir       string `yaml:"dir"`
		MaxSizeMB int64  `yaml:"max_size_mb"`
	} `yaml:"uploads"`
}

// Default 返回内置默认配置，没有配置文件时也能启动
func Default() *Config {
	var cfg Config
	cfg.App.Name = "NewsGuard"
	cfg.App.Env = "dev"
	cfg.API.Port = "5000"
	cfg.Database.Postgres.Host = "127.0.0.1"
	cfg.Database.Postgres.Port = 5432
	cfg.Database.Postgres.User = "postgres"
	cfg.Database.Postgres.Password = "postgres"
	cfg.Database.Postgres.DBName = "newsguard"
	cfg.Database.Postgres.SSLMode = "disable"
	cfg.Database.ConnectTimeoutSec = 5
	cfg.ML.BaseURL = "http://localhost:8000"
	cfg.ML.TimeoutSec = 30
	cfg.Uploads.Dir = "uploads"
	cfg.Uploads.MaxSizeMB = 10
	overrideFromEnv(&cfg)
	return &cfg
}

// LoadConfig 从文件加载配置，缺省项回填默认值
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}

	// 环境变量覆盖
	overrideFromEnv(cfg)

	return cfg, nil
}

// overrideFromEnv 使用环境变量覆盖配置
func overrideFromEnv(cfg *Config) {
	if env := os.Getenv("APP_NAME"); env != "" {
		cfg.App.Name = env
	}
	if env := os.Getenv("APP_ENV"); env != "" {
		cfg.App.Env = env
	}

	if env := os.Getenv("PORT"); env != "" {
		cfg.API.Port = env
	}

	// 数据库配置
	if env := os.Getenv("DB_HOST"); env != "" {
		cfg.Database.Postgres.Host = env
	}
	if env := os.Getenv("DB_PORT"); env != "" {
		var port int
		fmt.Sscanf(env, "%d", &port)
		if port > 0 {
			cfg.Database.Postgres.Port = port
		}
	}
	if env := os.Getenv("DB_USER"); env != "" {
		cfg.Database.Postgres.User = env
	}
	if env := os.Getenv("DB_PASSWORD"); env != "" {
		cfg.Database.Postgres.Password = env
	}
	if env := os.Getenv("DB_NAME"); env != "" {
		cfg.Database.Postgres.DBName = env
	}

	// ML服务配置
	if env := os.Getenv("ML_SERVICE_URL"); env != "" {
		cfg.ML.BaseURL = env
	}

	if env := os.Getenv("UPLOAD_DIR"); env != "" {
		cfg.Uploads.Dir = env
	}
}

// GetConnectTimeout 数据库连接探测超时
func (c *Config) GetConnectTimeout() time.Duration {
	if c.Database.ConnectTimeoutSec <= 0 {
		return 5 * time.Second
	}
	return time.Duration(c.Database.ConnectTimeoutSec) * time.Second
}

// GetMLTimeout ML服务请求超时
func (c *Config) GetMLTimeout() time.Duration {
	if c.ML.TimeoutSec <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.ML.TimeoutSec) * time.Second
}

// GetMaxUploadSize 媒体上传大小上限（字节）
func (c *Config) GetMaxUploadSize() int64 {
	if c.Uploads.MaxSizeMB <= 0 {
		return 10 << 20
	}
	return c.Uploads.MaxSizeMB << 20
}

// GetDefaultConfigPath 获取默认配置文件路径
func GetDefaultConfigPath() string {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev" // 默认开发环境
	}

	return fmt.Sprintf("configs/%s/app.yaml", env)
}
