// pkg/api/server.go
package api

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
)

// Server API服务器
type Server struct {
	router *gin.Engine
	srv    *http.Server
}

// NewServer 创建新的API服务器
func NewServer(port string) *Server {
	router := gin.Default()

	// 设置中间件
	router.Use(gin.Recovery())

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	return &Server{
		router: router,
		srv:    srv,
	}
}

// SetupRoutes 设置路由
func (s *Server) SetupRoutes(handlers *Handlers) {
	s.router.GET("/", handlers.Index)

	api := s.router.Group("/api")
	{
		// 分析接口
		api.POST("/analyze/text", handlers.AnalyzeText)
		api.POST("/analyze/media", handlers.AnalyzeMedia)
		api.POST("/analyze/comprehensive", handlers.AnalyzeComprehensive)

		// 标记与历史
		api.POST("/flags/:analysisId", handlers.SubmitFlag)
		api.GET("/analysis/:id", handlers.GetAnalysis)
		api.GET("/history", handlers.GetHistory)

		// 反馈与资讯
		api.POST("/feedback", handlers.SubmitFeedback)
		api.GET("/news/trending", handlers.GetTrendingNews)

		// 健康检查
		api.GET("/health", handlers.HealthCheck)
	}
}

// Start 启动服务器并等待中断信号
func (s *Server) Start() {
	go func() {
		log.Printf("API服务器启动在 %s\n", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("启动服务器失败: %v\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("正在关闭服务器...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// 优雅关闭
	if err := s.srv.Shutdown(ctx); err != nil {
		log.Fatalf("服务器关闭失败: %v\n", err)
	}

	log.Println("服务器已关闭")
}
