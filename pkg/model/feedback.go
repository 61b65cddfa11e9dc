// pkg/model/feedback.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Feedback 用户反馈，只增不改
type Feedback struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	Contact   string    `json:"contact"`
	CreatedAt time.Time `json:"createdAt"`
}

func (f *Feedback) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.New().String()
	}
	return nil
}
