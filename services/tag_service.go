package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"devflow/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type TagService struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewTagService(db *gorm.DB, logger *zap.Logger) *TagService {
	return &TagService{
		db:     db,
		logger: logger,
	}
}

const (
	TagFilterPopular = "popular"
	TagFilterRecent  = "recent"
	TagFilterName    = "name"
	TagFilterOld     = "old"
)

type ListTagsRequest struct {
	Query  string `form:"q"`
	Filter string `form:"filter"`
}

type TagQuestionsRequest struct {
	Query    string `form:"q"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

type TagQuestionsResponse struct {
	TagName   string            `json:"tag_name"`
	Questions []models.Question `json:"questions"`
	IsNext    bool              `json:"is_next"`
}

type PopularTag struct {
	ID            uint   `json:"id"`
	Name          string `json:"name"`
	QuestionCount int64  `json:"question_count"`
}

func (s *TagService) ListTags(ctx context.Context, req *ListTagsRequest) ([]models.Tag, error) {
	db := s.db.WithContext(ctx).Model(&models.Tag{})

	if query := strings.TrimSpace(req.Query); query != "" {
		db = db.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(query)+"%")
	}

	switch req.Filter {
	case TagFilterPopular:
		db = db.Order("(SELECT COUNT(*) FROM question_tags WHERE question_tags.tag_id = tags.id) DESC")
	case TagFilterRecent:
		db = db.Order("created_at DESC")
	case TagFilterName:
		db = db.Order("name ASC")
	case TagFilterOld:
		db = db.Order("created_at ASC")
	}

	var tags []models.Tag
	if err := db.Find(&tags).Error; err != nil {
		s.logger.Error("failed to list tags", zap.Error(err))
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}

	return tags, nil
}

// GetQuestionsByTag returns the tag's questions newest first, optionally
// narrowed by a case-insensitive title search, paginated the same way the
// question listing is.
func (s *TagService) GetQuestionsByTag(ctx context.Context, tagID uint, req *TagQuestionsRequest) (*TagQuestionsResponse, error) {
	var tag models.Tag
	if err := s.db.WithContext(ctx).First(&tag, tagID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTagNotFound
		}
		s.logger.Error("failed to get tag", zap.Uint("tag_id", tagID), zap.Error(err))
		return nil, fmt.Errorf("failed to get tag: %w", err)
	}

	page := req.Page
	if page < 1 {
		page = defaultPage
	}
	pageSize := req.PageSize
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	skip := (page - 1) * pageSize

	conditions := func() *gorm.DB {
		db := s.db.WithContext(ctx).Model(&models.Question{}).
			Joins("JOIN question_tags ON question_tags.question_id = questions.id").
			Where("question_tags.tag_id = ?", tag.ID)
		if query := strings.TrimSpace(req.Query); query != "" {
			db = db.Where("LOWER(questions.title) LIKE ?", "%"+strings.ToLower(query)+"%")
		}
		return db
	}

	var questions []models.Question
	err := conditions().
		Order("questions.created_at DESC").
		Offset(skip).
		Limit(pageSize).
		Preload("Tags").
		Preload("Author", authorProjection).
		Find(&questions).Error
	if err != nil {
		s.logger.Error("failed to list tag questions", zap.Uint("tag_id", tagID), zap.Error(err))
		return nil, fmt.Errorf("failed to list tag questions: %w", err)
	}

	var total int64
	if err := conditions().Count(&total).Error; err != nil {
		s.logger.Error("failed to count tag questions", zap.Uint("tag_id", tagID), zap.Error(err))
		return nil, fmt.Errorf("failed to count tag questions: %w", err)
	}

	return &TagQuestionsResponse{
		TagName:   tag.Name,
		Questions: questions,
		IsNext:    total > int64(skip+len(questions)),
	}, nil
}

// GetTopPopularTags returns the five tags with the most linked questions.
func (s *TagService) GetTopPopularTags(ctx context.Context) ([]PopularTag, error) {
	var tags []PopularTag
	err := s.db.WithContext(ctx).Model(&models.Tag{}).
		Select("tags.id, tags.name, COUNT(question_tags.question_id) AS question_count").
		Joins("LEFT JOIN question_tags ON question_tags.tag_id = tags.id").
		Group("tags.id, tags.name").
		Order("question_count DESC").
		Limit(5).
		Scan(&tags).Error
	if err != nil {
		s.logger.Error("failed to get popular tags", zap.Error(err))
		return nil, fmt.Errorf("failed to get popular tags: %w", err)
	}

	return tags, nil
}
