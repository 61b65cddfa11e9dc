package main

import (
	"log"
	"os"

	"NewsGuard/pkg/api"
	"NewsGuard/pkg/config"
	"NewsGuard/pkg/database"
	"NewsGuard/pkg/ml"
	"NewsGuard/pkg/repository"
	"NewsGuard/pkg/store"
)

func main() {
	log.Println("启动API服务...")

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = config.GetDefaultConfigPath()
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Printf("加载配置失败: %v，使用默认配置\n", err)
		cfg = config.Default()
	}

	// 启动时一次性选定存储模式，之后不再切换
	st := openStore(cfg)
	log.Printf("存储模式: %s\n", st.Mode())

	mlClient := ml.NewClient(cfg.ML.BaseURL, cfg.GetMLTimeout())
	log.Printf("ML服务: %s\n", cfg.ML.BaseURL)

	handlers := api.NewHandlers(st, mlClient, cfg)

	server := api.NewServer(cfg.API.Port)
	server.SetupRoutes(handlers)
	server.Start()
}

// openStore 带超时探测持久库，不可达时回退到内存存储
// 进程生命周期内不再重连，重启才会重新探测（已知限制）
func openStore(cfg *config.Config) store.Store {
	st, err := database.Connect(cfg)
	if err != nil {
		log.Printf("数据库不可用，使用内存存储: %v\n", err)
		return repository.NewMemoryStore()
	}
	return st
}
