// pkg/model/analysis.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AnalysisType string

const (
	AnalysisText          AnalysisType = "text"
	AnalysisMedia         AnalysisType = "media"
	AnalysisComprehensive AnalysisType = "comprehensive"
)

// Valid 检查分析类型是否为枚举值之一
func (t AnalysisType) Valid() bool {
	switch t {
	case AnalysisText, AnalysisMedia, AnalysisComprehensive:
		return true
	}
	return false
}

// JSONMap ML服务返回的非结构化子结果，整体透传存储
type JSONMap map[string]any

// Analysis 一次文本/媒体分析记录
type Analysis struct {
	ID           string       `gorm:"type:uuid;primaryKey" json:"id"`
	Type         AnalysisType `gorm:"type:varchar(20);not null;index" json:"type"`
	InputPreview string       `gorm:"type:text" json:"inputPreview"`
	URL          string       `gorm:"index" json:"url"`
	Result       string       `json:"result"`
	Confidence   float64      `json:"confidence"`

	// 综合分析子结果，均为ML服务的透传结构
	Authenticity JSONMap `gorm:"type:jsonb;serializer:json" json:"authenticity,omitempty"`
	Language     JSONMap `gorm:"type:jsonb;serializer:json" json:"language,omitempty"`
	Country      JSONMap `gorm:"type:jsonb;serializer:json" json:"country,omitempty"`
	Industry     JSONMap `gorm:"type:jsonb;serializer:json" json:"industry,omitempty"`
	Sentiment    JSONMap `gorm:"type:jsonb;serializer:json" json:"sentiment,omitempty"`
	Credibility  JSONMap `gorm:"type:jsonb;serializer:json" json:"credibility,omitempty"`
	Metrics      JSONMap `gorm:"type:jsonb;serializer:json" json:"metrics,omitempty"`

	RiskIndicators []string     `gorm:"type:jsonb;serializer:json" json:"risk_indicators"`
	UserFlags      FlagCounters `gorm:"type:jsonb;serializer:json" json:"userFlags"`

	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (a *Analysis) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	return nil
}
