// pkg/repository/memory.go
package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"NewsGuard/pkg/model"
	"NewsGuard/pkg/store"
)

// 内存模式下各列表的容量上限，超出后淘汰最旧记录
const (
	maxAnalyses = 500
	maxNews     = 200
	maxFeedback = 200
)

// MemoryStore 易失的进程内存储，数据库不可达时的兜底实现
// 列表始终保持最新在前，所有读改写都在同一把锁内完成
type MemoryStore struct {
	mu sync.RWMutex

	analyses     []*model.Analysis
	analysisByID map[string]*model.Analysis

	news      []*model.NewsArticle
	newsByID  map[string]*model.NewsArticle
	newsByURL map[string]*model.NewsArticle

	feedback []*model.Feedback
}

var _ store.Store = (*MemoryStore)(nil)

// NewMemoryStore 创建空的内存存储
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		analysisByID: make(map[string]*model.Analysis),
		newsByID:     make(map[string]*model.NewsArticle),
		newsByURL:    make(map[string]*model.NewsArticle),
	}
}

// newLocalID 生成进程内唯一标识：毫秒时间戳+随机后缀
func newLocalID() string {
	return fmt.Sprintf("%d_%s", time.Now().UnixMilli(), uuid.NewString()[:8])
}

// SaveAnalysis 头插新记录，超出容量时淘汰最旧一条
func (s *MemoryStore) SaveAnalysis(ctx context.Context, a *model.Analysis) (*model.Analysis, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if a.ID == "" {
		a.ID = newLocalID()
	}
	now := time.Now()
	a.CreatedAt = now
	a.UpdatedAt = now
	if a.UserFlags.Platforms == nil {
		a.UserFlags.Platforms = make(map[string]model.PlatformFlags)
	}

	s.analyses = append([]*model.Analysis{a}, s.analyses...)
	s.analysisByID[a.ID] = a

	if len(s.analyses) > maxAnalyses {
		oldest := s.analyses[len(s.analyses)-1]
		delete(s.analysisByID, oldest.ID)
		s.analyses = s.analyses[:maxAnalyses]
	}

	return copyAnalysis(a), nil
}

func (s *MemoryStore) GetAnalysis(ctx context.Context, id string) (*model.Analysis, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.analysisByID[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return copyAnalysis(a), nil
}

// RecentAnalyses 列表按构造即为最新在前，直接取前缀
func (s *MemoryStore) RecentAnalyses(ctx context.Context, limit int) ([]*model.Analysis, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit < 0 {
		limit = 0
	}
	if limit > len(s.analyses) {
		limit = len(s.analyses)
	}
	out := make([]*model.Analysis, 0, limit)
	for _, a := range s.analyses[:limit] {
		out = append(out, copyAnalysis(a))
	}
	return out, nil
}

func (s *MemoryStore) SubmitFlag(ctx context.Context, id, flag, platform string) (*model.FlagCounters, error) {
	if !model.ValidFlag(flag) {
		return nil, store.ErrInvalidFlag
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.analysisByID[id]
	if !ok {
		return nil, store.ErrNotFound
	}

	a.UserFlags.Add(flag, platform)
	a.UpdatedAt = time.Now()

	return a.UserFlags.Snapshot(), nil
}

// FindOrCreateNews 按URL精确匹配；已存在时刷新标题与正文，
// 与持久库的upsert语义保持一致
func (s *MemoryStore) FindOrCreateNews(ctx context.Context, url, title, text string) (*model.NewsArticle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if n, ok := s.newsByURL[url]; ok {
		n.Title = title
		n.Text = text
		return copyNews(n), nil
	}

	n := &model.NewsArticle{
		ID:        newLocalID(),
		URL:       url,
		Title:     title,
		Text:      text,
		UserFlags: model.NewFlagCounters(),
		CreatedAt: time.Now(),
	}

	s.news = append([]*model.NewsArticle{n}, s.news...)
	s.newsByID[n.ID] = n
	s.newsByURL[n.URL] = n

	if len(s.news) > maxNews {
		oldest := s.news[len(s.news)-1]
		delete(s.newsByID, oldest.ID)
		delete(s.newsByURL, oldest.URL)
		s.news = s.news[:maxNews]
	}

	return copyNews(n), nil
}

func (s *MemoryStore) LinkNewsAnalysis(ctx context.Context, newsID, analysisID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.newsByID[newsID]
	if !ok {
		return store.ErrNotFound
	}
	n.AnalysisID = analysisID
	return nil
}

func (s *MemoryStore) SaveFeedback(ctx context.Context, f *model.Feedback) (*model.Feedback, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if f.ID == "" {
		f.ID = newLocalID()
	}
	f.CreatedAt = time.Now()

	s.feedback = append([]*model.Feedback{f}, s.feedback...)
	if len(s.feedback) > maxFeedback {
		s.feedback = s.feedback[:maxFeedback]
	}

	cp := *f
	return &cp, nil
}

func (s *MemoryStore) Mode() string {
	return store.ModeInMemory
}

// copyAnalysis 返回记录副本，避免调用方与后续标记写入产生数据竞争
func copyAnalysis(a *model.Analysis) *model.Analysis {
	cp := *a
	cp.UserFlags = *a.UserFlags.Snapshot()
	return &cp
}

func copyNews(n *model.NewsArticle) *model.NewsArticle {
	cp := *n
	cp.UserFlags = *n.UserFlags.Snapshot()
	return &cp
}
