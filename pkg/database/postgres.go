// pkg/database/postgres.go
package database

import (
	"context"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"NewsGuard/pkg/config"
	"NewsGuard/pkg/model"
)

// Connect 建立Postgres连接并迁移表结构
// 连接探测受配置的超时约束，失败由调用方决定是否回退到内存存储
func Connect(cfg *config.Config) (*Store, error) {
	dbCfg := cfg.Database.Postgres

	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s connect_timeout=%d",
		dbCfg.Host, dbCfg.Port, dbCfg.User, dbCfg.Password, dbCfg.DBName, dbCfg.SSLMode,
		int(cfg.GetConnectTimeout().Seconds()),
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取底层连接失败: %w", err)
	}

	// 连接池参数
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	// 带超时探测连接
	ctx, cancel := context.WithTimeout(context.Background(), cfg.GetConnectTimeout())
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("测试数据库连接失败: %w", err)
	}

	if err := db.AutoMigrate(&model.Analysis{}, &model.NewsArticle{}, &model.Feedback{}); err != nil {
		return nil, fmt.Errorf("迁移表结构失败: %w", err)
	}

	return &Store{db: db}, nil
}
