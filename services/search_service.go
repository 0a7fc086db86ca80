package services

import (
	"context"
	"fmt"
	"strings"

	"devflow/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type SearchService struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewSearchService(db *gorm.DB, logger *zap.Logger) *SearchService {
	return &SearchService{
		db:     db,
		logger: logger,
	}
}

const (
	SearchTypeQuestion = "question"
	SearchTypeUser     = "user"
	SearchTypeAnswer   = "answer"
	SearchTypeTag      = "tag"
)

const (
	globalSearchLimit = 2
	typedSearchLimit  = 8
)

type GlobalSearchRequest struct {
	Query string `form:"q" binding:"required"`
	Type  string `form:"type"`
}

type SearchResult struct {
	ID    uint   `json:"id"`
	Type  string `json:"type"`
	Title string `json:"title"`
}

// searchTarget binds one searchable entity to the query that scans it. The
// set is closed; any other type is rejected up front.
type searchTarget struct {
	kind string
	find func(ctx context.Context, db *gorm.DB, query string, limit int) ([]SearchResult, error)
}

var searchTargets = []searchTarget{
	{SearchTypeQuestion, searchQuestions},
	{SearchTypeUser, searchUsers},
	{SearchTypeAnswer, searchAnswers},
	{SearchTypeTag, searchTags},
}

// GlobalSearch scans either every searchable entity (a couple of hits each)
// or, when a type is given, just that entity with a larger window.
func (s *SearchService) GlobalSearch(ctx context.Context, req *GlobalSearchRequest) ([]SearchResult, error) {
	query := strings.TrimSpace(req.Query)
	kind := strings.ToLower(strings.TrimSpace(req.Type))

	if kind == "" {
		results := []SearchResult{}
		for _, target := range searchTargets {
			found, err := target.find(ctx, s.db, query, globalSearchLimit)
			if err != nil {
				s.logger.Error("failed to search", zap.String("type", target.kind), zap.Error(err))
				return nil, fmt.Errorf("failed to search %s: %w", target.kind, err)
			}
			results = append(results, found...)
		}
		return results, nil
	}

	for _, target := range searchTargets {
		if target.kind != kind {
			continue
		}
		found, err := target.find(ctx, s.db, query, typedSearchLimit)
		if err != nil {
			s.logger.Error("failed to search", zap.String("type", kind), zap.Error(err))
			return nil, fmt.Errorf("failed to search %s: %w", kind, err)
		}
		return found, nil
	}

	return nil, ErrInvalidSearchType
}

func containsPattern(query string) string {
	return "%" + strings.ToLower(query) + "%"
}

func searchQuestions(ctx context.Context, db *gorm.DB, query string, limit int) ([]SearchResult, error) {
	var questions []models.Question
	err := db.WithContext(ctx).
		Where("LOWER(title) LIKE ?", containsPattern(query)).
		Limit(limit).
		Find(&questions).Error
	if err != nil {
		return nil, err
	}

	results := make([]SearchResult, 0, len(questions))
	for _, q := range questions {
		results = append(results, SearchResult{ID: q.ID, Type: SearchTypeQuestion, Title: q.Title})
	}
	return results, nil
}

func searchUsers(ctx context.Context, db *gorm.DB, query string, limit int) ([]SearchResult, error) {
	var users []models.User
	err := db.WithContext(ctx).
		Where("LOWER(name) LIKE ?", containsPattern(query)).
		Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, err
	}

	results := make([]SearchResult, 0, len(users))
	for _, u := range users {
		results = append(results, SearchResult{ID: u.ID, Type: SearchTypeUser, Title: u.Name})
	}
	return results, nil
}

// searchAnswers points each hit at the answer's question, since answers have
// no page of their own.
func searchAnswers(ctx context.Context, db *gorm.DB, query string, limit int) ([]SearchResult, error) {
	var answers []models.Answer
	err := db.WithContext(ctx).
		Where("LOWER(content) LIKE ?", containsPattern(query)).
		Limit(limit).
		Find(&answers).Error
	if err != nil {
		return nil, err
	}

	results := make([]SearchResult, 0, len(answers))
	for _, a := range answers {
		results = append(results, SearchResult{
			ID:    a.QuestionID,
			Type:  SearchTypeAnswer,
			Title: fmt.Sprintf("Answers containing %s", query),
		})
	}
	return results, nil
}

func searchTags(ctx context.Context, db *gorm.DB, query string, limit int) ([]SearchResult, error) {
	var tags []models.Tag
	err := db.WithContext(ctx).
		Where("LOWER(name) LIKE ?", containsPattern(query)).
		Limit(limit).
		Find(&tags).Error
	if err != nil {
		return nil, err
	}

	results := make([]SearchResult, 0, len(tags))
	for _, t := range tags {
		results = append(results, SearchResult{ID: t.ID, Type: SearchTypeTag, Title: t.Name})
	}
	return results, nil
}
