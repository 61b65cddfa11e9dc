package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"
)

// 对运行中的服务做端到端冒烟验证：
// 健康检查 -> 文本分析 -> 标记提交 -> 按ID查询 -> 历史查询
func main() {
	log.Println("开始系统验证...")

	baseURL := os.Getenv("API_URL")
	if baseURL == "" {
		baseURL = "http://localhost:5000"
	}

	client := &http.Client{Timeout: 60 * time.Second}

	// 健康检查
	health := getJSON(client, baseURL+"/api/health")
	log.Printf("健康检查: %v\n", health)

	// 文本分析
	analysis := postJSON(client, baseURL+"/api/analyze/text", map[string]any{
		"text": "Breaking: you won't believe this shocking exclusive story",
	})
	id, _ := analysis["id"].(string)
	if id == "" {
		log.Fatalf("文本分析未返回ID: %v\n", analysis)
	}
	log.Printf("文本分析完成: id=%s result=%v\n", id, analysis["result"])

	// 标记提交：web平台绿旗、ext平台红旗
	flagURL := fmt.Sprintf("%s/api/flags/%s", baseURL, id)
	green := postJSON(client, flagURL, map[string]any{"flag": "green", "platform": "web"})
	log.Printf("绿旗提交: %v\n", green["flags"])
	red := postJSON(client, flagURL, map[string]any{"flag": "red", "platform": "ext"})
	log.Printf("红旗提交: %v\n", red["flags"])

	// 按ID查询
	record := getJSON(client, fmt.Sprintf("%s/api/analysis/%s", baseURL, id))
	log.Printf("记录查询: userFlags=%v\n", record["userFlags"])

	// 历史查询
	resp, err := client.Get(baseURL + "/api/history")
	if err != nil {
		log.Fatalf("历史查询失败: %v\n", err)
	}
	var history []map[string]any
	decode(resp, &history)
	log.Printf("历史记录数: %d\n", len(history))

	log.Println("系统验证完成")
}

func postJSON(client *http.Client, url string, payload map[string]any) map[string]any {
	body, _ := json.Marshal(payload)
	resp, err := client.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		log.Fatalf("请求失败 %s: %v\n", url, err)
	}
	var out map[string]any
	decode(resp, &out)
	return out
}

func getJSON(client *http.Client, url string) map[string]any {
	resp, err := client.Get(url)
	if err != nil {
		log.Fatalf("请求失败 %s: %v\n", url, err)
	}
	var out map[string]any
	decode(resp, &out)
	return out
}

func decode(resp *http.Response, v any) {
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		log.Fatalf("解析响应失败: %v\n", err)
	}
}
