// pkg/model/news.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NewsArticle 按URL去重的新闻记录，每个非空URL至多一条
type NewsArticle struct {
	ID     string `gorm:"type:uuid;primaryKey" json:"id"`
	URL    string `gorm:"uniqueIndex" json:"url"`
	Title  string `gorm:"not null" json:"title"`
	Text   string `gorm:"type:text" json:"text"`
	Source string `json:"source"`

	// 指向该URL最近一次分析的回链
	AnalysisID string `gorm:"index" json:"analysis"`

	UserFlags FlagCounters `gorm:"type:jsonb;serializer:json" json:"userFlags"`
	CreatedAt time.Time    `json:"createdAt"`
}

func (n *NewsArticle) BeforeCreate(tx *gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	return nil
}
