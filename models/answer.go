package models

import (
	"time"

	"gorm.io/gorm"
)

type Answer struct {
	ID         uint           `json:"id" gorm:"primaryKey"`
	QuestionID uint           `json:"question_id" gorm:"not null;index"`
	AuthorID   uint           `json:"author_id" gorm:"not null;index"`
	Content    string         `json:"content" gorm:"type:text;not null"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `json:"-" gorm:"index"`

	// Relationships
	Question Question `json:"question,omitempty"`
	Author   User     `json:"author,omitempty"`
}
