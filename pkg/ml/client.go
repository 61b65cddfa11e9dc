// pkg/ml/client.go
package ml

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"time"

	"NewsGuard/pkg/model"
)

// Client ML推理服务客户端
// 所有响应整体透传，只为落库需要的字段提供窄访问器
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient 创建复用连接的HTTP客户端
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// Result ML服务的原始响应
type Result map[string]any

// GetString 读取顶层字符串字段，缺失或类型不符返回空串
func (r Result) GetString(key string) string {
	if v, ok := r[key].(string); ok {
		return v
	}
	return ""
}

// GetFloat 读取顶层数值字段
func (r Result) GetFloat(key string) float64 {
	switch v := r[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case json.Number:
		f, _ := v.Float64()
		return f
	}
	return 0
}

// GetMap 读取顶层子对象
func (r Result) GetMap(key string) model.JSONMap {
	if v, ok := r[key].(map[string]any); ok {
		return model.JSONMap(v)
	}
	return nil
}

// GetStrings 读取顶层字符串数组
func (r Result) GetStrings(key string) []string {
	items, ok := r[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// PredictFakeNews 文本真伪检测
func (c *Client) PredictFakeNews(ctx context.Context, text string) (Result, error) {
	return c.postJSON(ctx, "/predict/fake-news", map[string]any{"text": text})
}

// AnalyzeComprehensive 综合分析
func (c *Client) AnalyzeComprehensive(ctx context.Context, text, url string) (Result, error) {
	return c.postJSON(ctx, "/analyze/comprehensive", map[string]any{"text": text, "url": url})
}

// PredictDeepfake 以multipart上传媒体文件做深伪检测
func (c *Client) PredictDeepfake(ctx context.Context, filename string, file io.Reader) (Result, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("构建上传表单失败: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("写入上传内容失败: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("关闭上传表单失败: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/predict/deepfake", &body)
	if err != nil {
		return nil, fmt.Errorf("创建HTTP请求失败: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	return c.do(req)
}

// Health 探测ML服务健康状态
func (c *Client) Health(ctx context.Context) (Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return nil, fmt.Errorf("创建HTTP请求失败: %w", err)
	}
	return c.do(req)
}

func (c *Client) postJSON(ctx context.Context, path string, payload any) (Result, error) {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("序列化请求失败: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("创建HTTP请求失败: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req)
}

func (c *Client) do(req *http.Request) (Result, error) {
	resp, err := c.client.Do(req)
	if err != nil {
		if IsTimeout(err) {
			return nil, fmt.Errorf("ML服务请求超时: %w", err)
		}
		return nil, fmt.Errorf("请求ML服务失败: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("读取响应失败: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ML服务返回错误: 状态码=%d 响应=%s", resp.StatusCode, string(body))
	}

	var result Result
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("解析响应失败: %w", err)
	}

	return result, nil
}

// IsTimeout 区分超时与普通连接失败，便于运维定位
func IsTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
