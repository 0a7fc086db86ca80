package models

import (
	"time"

	"gorm.io/gorm"
)

// Tag names are matched case-insensitively but stored with their original
// casing; uniqueness is not enforced at the database level.
type Tag struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	Name        string         `json:"name" gorm:"not null;index"`
	Description string         `json:"description"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`

	// Relationships
	Questions []Question `json:"questions,omitempty" gorm:"many2many:question_tags"`
}
