package ml

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestPredictFakeNews(t *testing.T) {
	var gotPath string
	var gotBody map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(map[string]any{
			"result":           "FAKE",
			"confidence":       42.5,
			"fake_probability": 57.5,
			"model":            "heuristic",
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second)
	result, err := client.PredictFakeNews(context.Background(), "shocking exclusive")
	if err != nil {
		t.Fatalf("PredictFakeNews failed: %v", err)
	}

	if gotPath != "/predict/fake-news" {
		t.Errorf("Expected path /predict/fake-news, got %s", gotPath)
	}
	if gotBody["text"] != "shocking exclusive" {
		t.Errorf("Expected text to be forwarded, got %v", gotBody["text"])
	}
	if result.GetString("result") != "FAKE" {
		t.Errorf("GetString(result) = %q, want FAKE", result.GetString("result"))
	}
	if result.GetFloat("confidence") != 42.5 {
		t.Errorf("GetFloat(confidence) = %v, want 42.5", result.GetFloat("confidence"))
	}
}

func TestAnalyzeComprehensive_Accessors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"authenticity":    map[string]any{"result": "REAL", "confidence": 88.2, "fake_probability": 11.8},
			"language":        map[string]any{"detected": "English", "confidence": 90.0},
			"risk_indicators": []string{"Excessive capitalization"},
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second)
	result, err := client.AnalyzeComprehensive(context.Background(), "some text", "https://example.com")
	if err != nil {
		t.Fatalf("AnalyzeComprehensive failed: %v", err)
	}

	auth := result.GetMap("authenticity")
	if auth == nil {
		t.Fatal("Expected authenticity sub-object")
	}
	if auth["result"] != "REAL" {
		t.Errorf("Expected authenticity.result REAL, got %v", auth["result"])
	}

	indicators := result.GetStrings("risk_indicators")
	if len(indicators) != 1 || indicators[0] != "Excessive capitalization" {
		t.Errorf("GetStrings(risk_indicators) = %v", indicators)
	}

	// 缺失字段的访问器返回零值
	if result.GetString("missing") != "" || result.GetFloat("missing") != 0 || result.GetMap("missing") != nil {
		t.Error("Expected zero values for missing keys")
	}
}

func TestPredictDeepfake_Multipart(t *testing.T) {
	var gotFilename string
	var gotContent string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		file, header, err := r.FormFile("file")
		if err != nil {
			http.Error(w, "no file", http.StatusBadRequest)
			return
		}
		defer file.Close()
		gotFilename = header.Filename
		buf := new(strings.Builder)
		b := make([]byte, 64)
		for {
			n, readErr := file.Read(b)
			buf.Write(b[:n])
			if readErr != nil {
				break
			}
		}
		gotContent = buf.String()
		json.NewEncoder(w).Encode(map[string]any{"result": "authentic", "confidence": 91.3})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second)
	result, err := client.PredictDeepfake(context.Background(), "photo.jpg", strings.NewReader("fake-image-bytes"))
	if err != nil {
		t.Fatalf("PredictDeepfake failed: %v", err)
	}

	if gotFilename != "photo.jpg" {
		t.Errorf("Expected filename photo.jpg, got %s", gotFilename)
	}
	if gotContent != "fake-image-bytes" {
		t.Errorf("Expected file content forwarded, got %q", gotContent)
	}
	if result.GetString("result") != "authentic" {
		t.Errorf("Expected result authentic, got %s", result.GetString("result"))
	}
}

func TestClient_Non200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"No text provided"}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second)
	_, err := client.PredictFakeNews(context.Background(), "")
	if err == nil {
		t.Fatal("Expected error for non-200 response")
	}
	if IsTimeout(err) {
		t.Error("Non-200 response should not be classified as timeout")
	}
}

func TestClient_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 50*time.Millisecond)
	_, err := client.Health(context.Background())
	if err == nil {
		t.Fatal("Expected timeout error")
	}
	if !IsTimeout(err) {
		t.Errorf("Expected IsTimeout to recognize %v", err)
	}
}

func TestClient_ConnectionRefused(t *testing.T) {
	// 先关掉服务器拿到一个必然拒绝连接的地址
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	client := NewClient(url, time.Second)
	_, err := client.Health(context.Background())
	if err == nil {
		t.Fatal("Expected connection error")
	}
	if IsTimeout(err) {
		t.Error("Connection refused should not be classified as timeout")
	}
}

func TestHealth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			http.NotFound(w, r)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"status": "ok", "modelReady": true})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second)
	result, err := client.Health(context.Background())
	if err != nil {
		t.Fatalf("Health failed: %v", err)
	}
	if result.GetString("status") != "ok" {
		t.Errorf("Expected status ok, got %s", result.GetString("status"))
	}
}
