// pkg/api/handlers.go
package api

import (
	"errors"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"NewsGuard/pkg/config"
	"NewsGuard/pkg/ml"
	"NewsGuard/pkg/model"
	"NewsGuard/pkg/store"
)

// 历史接口单次返回的记录数上限
const historyLimit = 50

// Handlers API处理程序
type Handlers struct {
	store     store.Store
	ml        *ml.Client
	uploadDir string
	maxUpload int64
}

// NewHandlers 创建新的API处理程序
func NewHandlers(st store.Store, mlClient *ml.Client, cfg *config.Config) *Handlers {
	return &Handlers{
		store:     st,
		ml:        mlClient,
		uploadDir: cfg.Uploads.Dir,
		maxUpload: cfg.GetMaxUploadSize(),
	}
}

// Index 根路径欢迎信息
func (h *Handlers) Index(c *gin.Context) {
	c.String(http.StatusOK, "NewsGuard API - Professional News Analysis Platform")
}

// AnalyzeRequest 文本分析请求
type AnalyzeRequest struct {
	Text  string `json:"text"`
	URL   string `json:"url"`
	Title string `json:"title"`
}

// AnalyzeText 简单文本真伪分析
func (h *Handlers) AnalyzeText(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Text) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Text is required"})
		return
	}

	data, err := h.ml.PredictFakeNews(c.Request.Context(), req.Text)
	if err != nil {
		h.upstreamError(c, "Error analyzing text", err)
		return
	}

	analysis := &model.Analysis{
		Type:         model.AnalysisText,
		InputPreview: preview(req.Text, 120),
		URL:          req.URL,
		Result:       data.GetString("result"),
		Confidence:   data.GetFloat("confidence"),
		UserFlags:    model.NewFlagCounters(),
	}

	saved, err := h.store.SaveAnalysis(c.Request.Context(), analysis)
	if err != nil {
		log.Printf("保存分析记录失败: %v\n", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error analyzing text", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, withID(data, saved.ID))
}

// AnalyzeMedia 媒体文件深伪分析
// 临时文件在所有分支上都会被清理；分析记录只在ML成功返回后写入
func (h *Handlers) AnalyzeMedia(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}
	if file.Size > h.maxUpload {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File too large"})
		return
	}

	if err := os.MkdirAll(h.uploadDir, 0o755); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error analyzing media", "details": err.Error()})
		return
	}

	tmpPath := filepath.Join(h.uploadDir, uuid.NewString())
	if err := c.SaveUploadedFile(file, tmpPath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error analyzing media", "details": err.Error()})
		return
	}
	defer func() {
		if err := os.Remove(tmpPath); err != nil {
			log.Printf("删除临时文件失败: %v\n", err)
		}
	}()

	f, err := os.Open(tmpPath)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error analyzing media", "details": err.Error()})
		return
	}
	defer f.Close()

	data, err := h.ml.PredictDeepfake(c.Request.Context(), file.Filename, f)
	if err != nil {
		h.upstreamError(c, "Error analyzing media", err)
		return
	}

	analysis := &model.Analysis{
		Type:         model.AnalysisMedia,
		InputPreview: file.Filename,
		Result:       data.GetString("result"),
		Confidence:   data.GetFloat("confidence"),
		UserFlags:    model.NewFlagCounters(),
	}

	saved, err := h.store.SaveAnalysis(c.Request.Context(), analysis)
	if err != nil {
		log.Printf("保存分析记录失败: %v\n", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error analyzing media", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, withID(data, saved.ID))
}

// AnalyzeComprehensive 综合分析，URL非空时同步维护新闻记录
func (h *Handlers) AnalyzeComprehensive(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Text) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Text is required"})
		return
	}

	data, err := h.ml.AnalyzeComprehensive(c.Request.Context(), req.Text, req.URL)
	if err != nil {
		h.upstreamError(c, "Error performing comprehensive analysis", err)
		return
	}

	authenticity := data.GetMap("authenticity")

	analysis := &model.Analysis{
		Type:           model.AnalysisComprehensive,
		InputPreview:   preview(req.Text, 200),
		URL:            req.URL,
		Result:         mapString(authenticity, "result", "UNKNOWN"),
		Confidence:     mapFloat(authenticity, "confidence"),
		Authenticity:   authenticity,
		Language:       data.GetMap("language"),
		Country:        data.GetMap("country"),
		Industry:       data.GetMap("industry"),
		Sentiment:      data.GetMap("sentiment"),
		Credibility:    data.GetMap("credibility"),
		Metrics:        data.GetMap("metrics"),
		RiskIndicators: data.GetStrings("risk_indicators"),
		UserFlags:      model.NewFlagCounters(),
	}

	saved, err := h.store.SaveAnalysis(c.Request.Context(), analysis)
	if err != nil {
		log.Printf("保存分析记录失败: %v\n", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error performing comprehensive analysis", "details": err.Error()})
		return
	}

	// URL非空时按URL去重维护新闻记录，并回链到本次分析
	if req.URL != "" {
		title := req.Title
		if title == "" {
			title = preview(req.Text, 100)
		}
		news, err := h.store.FindOrCreateNews(c.Request.Context(), req.URL, title, req.Text)
		if err == nil {
			err = h.store.LinkNewsAnalysis(c.Request.Context(), news.ID, saved.ID)
		}
		if err != nil {
			log.Printf("维护新闻记录失败: %v\n", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error performing comprehensive analysis", "details": err.Error()})
			return
		}
	}

	resp := withID(data, saved.ID)
	resp["userFlags"] = saved.UserFlags
	c.JSON(http.StatusOK, resp)
}

// FlagRequest 标记提交请求
type FlagRequest struct {
	Flag     string `json:"flag"`
	Platform string `json:"platform"`
}

// SubmitFlag 社区标记提交
func (h *Handlers) SubmitFlag(c *gin.Context) {
	var req FlagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Flag must be 'green' or 'red'"})
		return
	}
	if req.Platform == "" {
		req.Platform = "web"
	}

	flags, err := h.store.SubmitFlag(c.Request.Context(), c.Param("analysisId"), req.Flag, req.Platform)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrInvalidFlag):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Flag must be 'green' or 'red'"})
		case errors.Is(err, store.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Analysis not found"})
		default:
			log.Printf("提交标记失败: %v\n", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error submitting flag", "details": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "flags": flags})
}

// GetAnalysis 按ID查询分析记录
func (h *Handlers) GetAnalysis(c *gin.Context) {
	analysis, err := h.store.GetAnalysis(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Analysis not found"})
			return
		}
		log.Printf("查询分析记录失败: %v\n", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching analysis"})
		return
	}

	c.JSON(http.StatusOK, analysis)
}

// GetHistory 最近分析历史，最新在前
func (h *Handlers) GetHistory(c *gin.Context) {
	items, err := h.store.RecentAnalyses(c.Request.Context(), historyLimit)
	if err != nil {
		log.Printf("查询历史记录失败: %v\n", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching history"})
		return
	}

	c.JSON(http.StatusOK, items)
}

// FeedbackRequest 反馈提交请求
type FeedbackRequest struct {
	Message string `json:"message"`
	Contact string `json:"contact"`
}

// SubmitFeedback 用户反馈提交
func (h *Handlers) SubmitFeedback(c *gin.Context) {
	var req FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Message) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message required"})
		return
	}

	saved, err := h.store.SaveFeedback(c.Request.Context(), &model.Feedback{
		Message: req.Message,
		Contact: req.Contact,
	})
	if err != nil {
		log.Printf("保存反馈失败: %v\n", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save feedback"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "id": saved.ID})
}

// GetTrendingNews 热点资讯列表
func (h *Handlers) GetTrendingNews(c *gin.Context) {
	items := []gin.H{
		{"id": "1", "title": "Crypto exchange faces alleged fraud investigation", "source": "Global Finance", "category": "Finance", "url": "https://example.com/news/1"},
		{"id": "2", "title": "Celebrity deepfake ad circulates on social media", "source": "Media Watch", "category": "Media", "url": "https://example.com/news/2"},
		{"id": "3", "title": "Election misinformation spikes ahead of polls", "source": "Civic Monitor", "category": "Politics", "url": "https://example.com/news/3"},
		{"id": "4", "title": "New AI breakthrough in medical diagnosis announced", "source": "Tech News", "category": "Technology", "url": "https://example.com/news/4"},
		{"id": "5", "title": "Major sports league announces new regulations", "source": "Sports Daily", "category": "Sports", "url": "https://example.com/news/5"},
	}
	c.JSON(http.StatusOK, items)
}

// HealthCheck 健康检查
// ML服务不可达时在响应体中报告，而不是让健康检查本身失败
func (h *Handlers) HealthCheck(c *gin.Context) {
	resp := gin.H{
		"api":       "ok",
		"database":  h.store.Mode(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}

	data, err := h.ml.Health(c.Request.Context())
	if err != nil {
		resp["ml"] = gin.H{"status": "unreachable", "error": err.Error()}
	} else {
		resp["ml"] = data
	}

	c.JSON(http.StatusOK, resp)
}

// upstreamError 把ML服务错误翻译为响应，超时与连接失败在details中可区分
func (h *Handlers) upstreamError(c *gin.Context, message string, err error) {
	log.Printf("%s: %v\n", message, err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": message, "details": err.Error()})
}

// withID 在ML透传响应上附加本地分析ID
func withID(data ml.Result, id string) gin.H {
	resp := make(gin.H, len(data)+1)
	for k, v := range data {
		resp[k] = v
	}
	resp["id"] = id
	return resp
}

// preview 按字符截断输入摘要
func preview(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// mapString 从透传子对象中取字符串字段
func mapString(m model.JSONMap, key, fallback string) string {
	if v, ok := m[key].(string); ok && v != "" {
		return v
	}
	return fallback
}

// mapFloat 从透传子对象中取数值字段
func mapFloat(m model.JSONMap, key string) float64 {
	if v, ok := m[key].(float64); ok {
		return v
	}
	return 0
}
