package models

import (
	"time"

	"gorm.io/gorm"
)

type Question struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Title     string         `json:"title" gorm:"not null"`
	Content   string         `json:"content" gorm:"type:text;not null"`
	AuthorID  uint           `json:"author_id" gorm:"not null;index"`
	Views     int64          `json:"views" gorm:"not null;default:0"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relationships
	Author    User     `json:"author,omitempty"`
	Tags      []Tag    `json:"tags,omitempty" gorm:"many2many:question_tags"`
	Upvotes   []User   `json:"upvotes,omitempty" gorm:"many2many:question_upvotes"`
	Downvotes []User   `json:"downvotes,omitempty" gorm:"many2many:question_downvotes"`
	Answers   []Answer `json:"answers,omitempty" gorm:"foreignKey:QuestionID"`
}
