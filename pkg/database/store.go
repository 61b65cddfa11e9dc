// pkg/database/store.go
package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"NewsGuard/pkg/model"
	"NewsGuard/pkg/store"
)

// Store 持久存储实现，ID由gorm的BeforeCreate钩子分配
type Store struct {
	db *gorm.DB
}

var _ store.Store = (*Store)(nil)

func (s *Store) SaveAnalysis(ctx context.Context, a *model.Analysis) (*model.Analysis, error) {
	if a.UserFlags.Platforms == nil {
		a.UserFlags.Platforms = make(map[string]model.PlatformFlags)
	}

	if err := s.db.WithContext(ctx).Create(a).Error; err != nil {
		return nil, fmt.Errorf("保存分析记录失败: %w", err)
	}
	return a, nil
}

func (s *Store) GetAnalysis(ctx context.Context, id string) (*model.Analysis, error) {
	var a model.Analysis
	err := s.db.WithContext(ctx).First(&a, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("查询分析记录失败: %w", err)
	}
	return &a, nil
}

func (s *Store) RecentAnalyses(ctx context.Context, limit int) ([]*model.Analysis, error) {
	var analyses []*model.Analysis
	err := s.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&analyses).Error

	if err != nil {
		return nil, fmt.Errorf("查询历史记录失败: %w", err)
	}
	return analyses, nil
}

// SubmitFlag 读出整条记录，累加计数后整体写回
func (s *Store) SubmitFlag(ctx context.Context, id, flag, platform string) (*model.FlagCounters, error) {
	if !model.ValidFlag(flag) {
		return nil, store.ErrInvalidFlag
	}

	var a model.Analysis
	err := s.db.WithContext(ctx).First(&a, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("查询分析记录失败: %w", err)
	}

	a.UserFlags.Add(flag, platform)
	a.UpdatedAt = time.Now()

	if err := s.db.WithContext(ctx).Save(&a).Error; err != nil {
		return nil, fmt.Errorf("保存标记计数失败: %w", err)
	}

	return a.UserFlags.Snapshot(), nil
}

// FindOrCreateNews 以URL为键upsert，标题与正文总是取最新值
func (s *Store) FindOrCreateNews(ctx context.Context, url, title, text string) (*model.NewsArticle, error) {
	n := model.NewsArticle{
		URL:       url,
		Title:     title,
		Text:      text,
		UserFlags: model.NewFlagCounters(),
	}

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "url"}},
		DoUpdates: clause.AssignmentColumns([]string{"title", "text"}),
	}).Create(&n).Error
	if err != nil {
		return nil, fmt.Errorf("upsert新闻记录失败: %w", err)
	}

	// 冲突分支不会回填已存在行的ID，重新按URL读出
	var out model.NewsArticle
	if err := s.db.WithContext(ctx).First(&out, "url = ?", url).Error; err != nil {
		return nil, fmt.Errorf("查询新闻记录失败: %w", err)
	}
	return &out, nil
}

func (s *Store) LinkNewsAnalysis(ctx context.Context, newsID, analysisID string) error {
	res := s.db.WithContext(ctx).
		Model(&model.NewsArticle{}).
		Where("id = ?", newsID).
		Update("analysis_id", analysisID)

	if res.Error != nil {
		return fmt.Errorf("更新新闻回链失败: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) SaveFeedback(ctx context.Context, f *model.Feedback) (*model.Feedback, error) {
	if err := s.db.WithContext(ctx).Create(f).Error; err != nil {
		return nil, fmt.Errorf("保存反馈失败: %w", err)
	}
	return f, nil
}

func (s *Store) Mode() string {
	return store.ModePostgres
}

// Close 关闭底层连接
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
