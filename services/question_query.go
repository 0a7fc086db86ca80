package services

import (
	"strings"

	"gorm.io/gorm"
)

const (
	FilterNewest     = "newest"
	FilterFrequent   = "frequent"
	FilterUnanswered = "unanswered"
)

const (
	defaultPage     = 1
	defaultPageSize = 10
)

type ListQuestionsRequest struct {
	Query    string `form:"q"`
	Filter   string `form:"filter"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

// questionQuery is the executable form of a ListQuestionsRequest: the filter
// predicate, sort order and pagination window it resolves to.
type questionQuery struct {
	search     string
	unanswered bool
	order      string
	skip       int
	limit      int
}

// buildQuestionQuery resolves the request into a query descriptor. An
// unrecognized filter means store-default order with no restriction. Note
// that pageSize has no upper bound; callers are expected to keep it sane.
func buildQuestionQuery(req *ListQuestionsRequest) questionQuery {
	page := req.Page
	if page < 1 {
		page = defaultPage
	}

	pageSize := req.PageSize
	if pageSize < 1 {
		pageSize = defaultPageSize
	}

	q := questionQuery{
		search: strings.TrimSpace(req.Query),
		skip:   (page - 1) * pageSize,
		limit:  pageSize,
	}

	switch req.Filter {
	case FilterNewest:
		q.order = "created_at DESC"
	case FilterFrequent:
		q.order = "views DESC"
	case FilterUnanswered:
		q.unanswered = true
	}

	return q
}

// conditions applies the filter predicate only. It is shared between the page
// query and the total count so both always see the same matching set.
func (q questionQuery) conditions(db *gorm.DB) *gorm.DB {
	if q.search != "" {
		pattern := "%" + strings.ToLower(q.search) + "%"
		db = db.Where("LOWER(title) LIKE ? OR LOWER(content) LIKE ?", pattern, pattern)
	}

	if q.unanswered {
		db = db.Where("NOT EXISTS (SELECT 1 FROM answers WHERE answers.question_id = questions.id AND answers.deleted_at IS NULL)")
	}

	return db
}

// apply adds the sort order and pagination window on top of the conditions.
func (q questionQuery) apply(db *gorm.DB) *gorm.DB {
	db = q.conditions(db)

	if q.order != "" {
		db = db.Order(q.order)
	}

	return db.Offset(q.skip).Limit(q.limit)
}
