// pkg/store/store.go
package store

import (
	"context"
	"errors"

	"NewsGuard/pkg/model"
)

var (
	// ErrNotFound 引用的分析记录不存在
	ErrNotFound = errors.New("analysis not found")
	// ErrInvalidFlag 标记值不是 green/red
	ErrInvalidFlag = errors.New("flag must be 'green' or 'red'")
)

// 存储模式标识
const (
	ModePostgres = "postgres"
	ModeInMemory = "in-memory"
)

// Store 分析记录的统一存储抽象
// 进程启动时选定持久库或内存实现，之后不再切换
type Store interface {
	// SaveAnalysis 保存一条新的分析记录并返回带ID和时间戳的结果
	SaveAnalysis(ctx context.Context, a *model.Analysis) (*model.Analysis, error)

	// GetAnalysis 按ID查询分析记录，不存在时返回 ErrNotFound
	GetAnalysis(ctx context.Context, id string) (*model.Analysis, error)

	// RecentAnalyses 按创建时间倒序返回至多 limit 条记录
	RecentAnalyses(ctx context.Context, limit int) ([]*model.Analysis, error)

	// SubmitFlag 给指定分析记录累加一次标记，返回累加后的计数快照
	// 非法标记值返回 ErrInvalidFlag，记录不存在返回 ErrNotFound，均不产生任何变更
	SubmitFlag(ctx context.Context, id, flag, platform string) (*model.FlagCounters, error)

	// FindOrCreateNews 按URL查找或创建新闻记录，重复出现时刷新标题与正文
	FindOrCreateNews(ctx context.Context, url, title, text string) (*model.NewsArticle, error)

	// LinkNewsAnalysis 把新闻记录回链到其最近一次分析
	LinkNewsAnalysis(ctx context.Context, newsID, analysisID string) error

	// SaveFeedback 保存一条用户反馈
	SaveFeedback(ctx context.Context, f *model.Feedback) (*model.Feedback, error)

	// Mode 返回当前存储模式标识
	Mode() string
}
