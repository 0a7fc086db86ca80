package models

import (
	"time"

	"gorm.io/gorm"
)

type Interaction struct {
	ID         uint           `json:"id" gorm:"primaryKey"`
	UserID     uint           `json:"user_id" gorm:"not null;index"`
	QuestionID uint           `json:"question_id" gorm:"not null;index"`
	Action     string         `json:"action" gorm:"not null"` // view, upvote, downvote, ask
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `json:"-" gorm:"index"`

	// Relationships
	User     User     `json:"user,omitempty"`
	Question Question `json:"question,omitempty"`
}
