package services

import (
	"context"
	"errors"
	"fmt"

	"devflow/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type QuestionService struct {
	db          *gorm.DB
	revalidator Revalidator
	logger      *zap.Logger
}

func NewQuestionService(db *gorm.DB, revalidator Revalidator, logger *zap.Logger) *QuestionService {
	return &QuestionService{
		db:          db,
		revalidator: revalidator,
		logger:      logger,
	}
}

type CreateQuestionRequest struct {
	Title    string   `json:"title" binding:"required,min=5,max=130"`
	Content  string   `json:"content" binding:"required,min=100"`
	Tags     []string `json:"tags" binding:"required,min=1,max=3,dive,min=1,max=15"`
	AuthorID uint     `json:"author_id" binding:"required"`
	Path     string   `json:"path"`
}

type EditQuestionRequest struct {
	Title   string `json:"title" binding:"required,min=5,max=130"`
	Content string `json:"content" binding:"required,min=100"`
	Path    string `json:"path"`
}

type VoteQuestionRequest struct {
	UserID uint   `json:"user_id" binding:"required"`
	Path   string `json:"path"`
}

type ViewQuestionRequest struct {
	UserID uint `json:"user_id"`
}

type ListQuestionsResponse struct {
	Questions []models.Question `json:"questions"`
	IsNext    bool              `json:"is_next"`
}

// authorProjection trims the joined author down to its display fields.
func authorProjection(db *gorm.DB) *gorm.DB {
	return db.Select("id", "name", "username", "picture")
}

// ListQuestions runs the search/filter/pagination query and reports whether
// more pages exist beyond the returned window.
func (s *QuestionService) ListQuestions(ctx context.Context, req *ListQuestionsRequest) (*ListQuestionsResponse, error) {
	q := buildQuestionQuery(req)

	var questions []models.Question
	err := q.apply(s.db.WithContext(ctx).Model(&models.Question{})).
		Preload("Tags").
		Preload("Author", authorProjection).
		Preload("Answers").
		Preload("Upvotes", authorProjection).
		Find(&questions).Error
	if err != nil {
		s.logger.Error("failed to list questions", zap.Error(err))
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}

	var total int64
	if err := q.conditions(s.db.WithContext(ctx).Model(&models.Question{})).Count(&total).Error; err != nil {
		s.logger.Error("failed to count questions", zap.Error(err))
		return nil, fmt.Errorf("failed to count questions: %w", err)
	}

	return &ListQuestionsResponse{
		Questions: questions,
		IsNext:    total > int64(q.skip+len(questions)),
	}, nil
}

func (s *QuestionService) GetQuestionByID(ctx context.Context, questionID uint) (*models.Question, error) {
	var question models.Question
	err := s.db.WithContext(ctx).
		Preload("Tags").
		Preload("Author", authorProjection).
		Preload("Upvotes", authorProjection).
		Preload("Downvotes", authorProjection).
		First(&question, questionID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuestionNotFound
		}
		s.logger.Error("failed to get question", zap.Uint("question_id", questionID), zap.Error(err))
		return nil, fmt.Errorf("failed to get question: %w", err)
	}

	return &question, nil
}

// CreateQuestion inserts the question, then resolves each tag name with a
// find-or-create keyed on an anchored case-insensitive name match and links
// it back to the question. The whole sequence runs in one transaction so a
// failed tag upsert never leaves a half-linked question behind.
func (s *QuestionService) CreateQuestion(ctx context.Context, req *CreateQuestionRequest) (*models.Question, error) {
	tx := s.db.WithContext(ctx).Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	question := models.Question{
		Title:    req.Title,
		Content:  req.Content,
		AuthorID: req.AuthorID,
	}

	if err := tx.Create(&question).Error; err != nil {
		tx.Rollback()
		s.logger.Error("failed to create question", zap.Error(err))
		return nil, fmt.Errorf("failed to create question: %w", err)
	}

	for _, name := range req.Tags {
		tag, err := upsertTag(tx, name)
		if err != nil {
			tx.Rollback()
			s.logger.Error("failed to upsert tag", zap.String("tag", name), zap.Error(err))
			return nil, fmt.Errorf("failed to upsert tag %q: %w", name, err)
		}

		if err := linkQuestionTag(tx, question.ID, tag.ID); err != nil {
			tx.Rollback()
			s.logger.Error("failed to link tag", zap.String("tag", name), zap.Error(err))
			return nil, fmt.Errorf("failed to link tag %q: %w", name, err)
		}
	}

	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("failed to commit question: %w", err)
	}

	s.revalidate(ctx, req.Path)

	return s.GetQuestionByID(ctx, question.ID)
}

// upsertTag finds a tag whose name matches the given one exactly, ignoring
// case, and creates it when absent.
func upsertTag(tx *gorm.DB, name string) (*models.Tag, error) {
	var tag models.Tag
	err := tx.Where("LOWER(name) = LOWER(?)", name).First(&tag).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		tag = models.Tag{Name: name}
		if err := tx.Create(&tag).Error; err != nil {
			return nil, err
		}
		return &tag, nil
	}
	if err != nil {
		return nil, err
	}

	return &tag, nil
}

// linkQuestionTag inserts the question into the tag's back-reference set
// unless it is already there.
func linkQuestionTag(tx *gorm.DB, questionID, tagID uint) error {
	var count int64
	if err := tx.Table("question_tags").
		Where("question_id = ? AND tag_id = ?", questionID, tagID).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	return tx.Exec("INSERT INTO question_tags (question_id, tag_id) VALUES (?, ?)", questionID, tagID).Error
}

// EditQuestion overwrites title and content only; tags and votes are left
// untouched.
func (s *QuestionService) EditQuestion(ctx context.Context, questionID uint, req *EditQuestionRequest) (*models.Question, error) {
	var question models.Question
	if err := s.db.WithContext(ctx).First(&question, questionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuestionNotFound
		}
		s.logger.Error("failed to get question", zap.Uint("question_id", questionID), zap.Error(err))
		return nil, fmt.Errorf("failed to get question: %w", err)
	}

	question.Title = req.Title
	question.Content = req.Content

	if err := s.db.WithContext(ctx).Save(&question).Error; err != nil {
		s.logger.Error("failed to save question", zap.Uint("question_id", questionID), zap.Error(err))
		return nil, fmt.Errorf("failed to save question: %w", err)
	}

	s.revalidate(ctx, req.Path)

	return &question, nil
}

// DeleteQuestion removes the question together with its answers, its
// interactions and every tag back-reference, in one transaction.
func (s *QuestionService) DeleteQuestion(ctx context.Context, questionID uint, path string) error {
	tx := s.db.WithContext(ctx).Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	var question models.Question
	if err := tx.First(&question, questionID).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrQuestionNotFound
		}
		s.logger.Error("failed to get question", zap.Uint("question_id", questionID), zap.Error(err))
		return fmt.Errorf("failed to get question: %w", err)
	}

	if err := tx.Delete(&question).Error; err != nil {
		tx.Rollback()
		s.logger.Error("failed to delete question", zap.Uint("question_id", questionID), zap.Error(err))
		return fmt.Errorf("failed to delete question: %w", err)
	}

	if err := tx.Where("question_id = ?", questionID).Delete(&models.Answer{}).Error; err != nil {
		tx.Rollback()
		s.logger.Error("failed to delete answers", zap.Uint("question_id", questionID), zap.Error(err))
		return fmt.Errorf("failed to delete answers: %w", err)
	}

	if err := tx.Where("question_id = ?", questionID).Delete(&models.Interaction{}).Error; err != nil {
		tx.Rollback()
		s.logger.Error("failed to delete interactions", zap.Uint("question_id", questionID), zap.Error(err))
		return fmt.Errorf("failed to delete interactions: %w", err)
	}

	for _, table := range []string{"question_tags", "question_upvotes", "question_downvotes"} {
		if err := tx.Exec(fmt.Sprintf("DELETE FROM %s WHERE question_id = ?", table), questionID).Error; err != nil {
			tx.Rollback()
			s.logger.Error("failed to clear question references", zap.String("table", table), zap.Error(err))
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("failed to commit delete: %w", err)
	}

	s.revalidate(ctx, path)

	return nil
}

func (s *QuestionService) UpvoteQuestion(ctx context.Context, questionID uint, req *VoteQuestionRequest) (*models.Question, error) {
	return s.vote(ctx, questionID, req, "question_upvotes", "question_downvotes")
}

func (s *QuestionService) DownvoteQuestion(ctx context.Context, questionID uint, req *VoteQuestionRequest) (*models.Question, error) {
	return s.vote(ctx, questionID, req, "question_downvotes", "question_upvotes")
}

// vote moves the (question, user) pair between the two vote sets: a repeat
// vote toggles off, a vote while in the opposite set switches sides, and a
// fresh vote inserts once. Membership is read from the store inside the
// transaction, never asserted by the caller.
func (s *QuestionService) vote(ctx context.Context, questionID uint, req *VoteQuestionRequest, votes, opposite string) (*models.Question, error) {
	tx := s.db.WithContext(ctx).Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	var question models.Question
	if err := tx.First(&question, questionID).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuestionNotFound
		}
		s.logger.Error("failed to get question", zap.Uint("question_id", questionID), zap.Error(err))
		return nil, fmt.Errorf("failed to get question: %w", err)
	}

	inVotes, err := inVoteSet(tx, votes, questionID, req.UserID)
	if err == nil {
		var inOpposite bool
		inOpposite, err = inVoteSet(tx, opposite, questionID, req.UserID)
		if err == nil {
			switch {
			case inVotes:
				err = removeVote(tx, votes, questionID, req.UserID)
			case inOpposite:
				if err = removeVote(tx, opposite, questionID, req.UserID); err == nil {
					err = addVote(tx, votes, questionID, req.UserID)
				}
			default:
				err = addVote(tx, votes, questionID, req.UserID)
			}
		}
	}
	if err != nil {
		tx.Rollback()
		s.logger.Error("failed to apply vote",
			zap.Uint("question_id", questionID),
			zap.Uint("user_id", req.UserID),
			zap.Error(err))
		return nil, fmt.Errorf("failed to apply vote: %w", err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("failed to commit vote: %w", err)
	}

	s.revalidate(ctx, req.Path)

	return s.GetQuestionByID(ctx, questionID)
}

func inVoteSet(tx *gorm.DB, table string, questionID, userID uint) (bool, error) {
	var count int64
	err := tx.Table(table).
		Where("question_id = ? AND user_id = ?", questionID, userID).
		Count(&count).Error
	return count > 0, err
}

func addVote(tx *gorm.DB, table string, questionID, userID uint) error {
	return tx.Exec(fmt.Sprintf("INSERT INTO %s (question_id, user_id) VALUES (?, ?)", table), questionID, userID).Error
}

func removeVote(tx *gorm.DB, table string, questionID, userID uint) error {
	return tx.Exec(fmt.Sprintf("DELETE FROM %s WHERE question_id = ? AND user_id = ?", table), questionID, userID).Error
}

// ViewQuestion bumps the view counter and records a view interaction once
// per user. Anonymous views (userID zero) only bump the counter.
func (s *QuestionService) ViewQuestion(ctx context.Context, questionID, userID uint) error {
	result := s.db.WithContext(ctx).Model(&models.Question{}).
		Where("id = ?", questionID).
		UpdateColumn("views", gorm.Expr("views + 1"))
	if result.Error != nil {
		s.logger.Error("failed to increment views", zap.Uint("question_id", questionID), zap.Error(result.Error))
		return fmt.Errorf("failed to increment views: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrQuestionNotFound
	}

	if userID == 0 {
		return nil
	}

	var count int64
	err := s.db.WithContext(ctx).Model(&models.Interaction{}).
		Where("user_id = ? AND question_id = ? AND action = ?", userID, questionID, "view").
		Count(&count).Error
	if err != nil {
		s.logger.Error("failed to check view interaction", zap.Uint("question_id", questionID), zap.Error(err))
		return fmt.Errorf("failed to check view interaction: %w", err)
	}
	if count > 0 {
		return nil
	}

	interaction := models.Interaction{
		UserID:     userID,
		QuestionID: questionID,
		Action:     "view",
	}
	if err := s.db.WithContext(ctx).Create(&interaction).Error; err != nil {
		s.logger.Error("failed to record view interaction", zap.Uint("question_id", questionID), zap.Error(err))
		return fmt.Errorf("failed to record view interaction: %w", err)
	}

	return nil
}

// GetHotQuestions returns the five most viewed questions, ties broken by
// upvote count.
func (s *QuestionService) GetHotQuestions(ctx context.Context) ([]models.Question, error) {
	var questions []models.Question
	err := s.db.WithContext(ctx).
		Order("views DESC").
		Order("(SELECT COUNT(*) FROM question_upvotes WHERE question_upvotes.question_id = questions.id) DESC").
		Limit(5).
		Find(&questions).Error
	if err != nil {
		s.logger.Error("failed to get hot questions", zap.Error(err))
		return nil, fmt.Errorf("failed to get hot questions: %w", err)
	}

	return questions, nil
}

// revalidate is best-effort: a failed staleness signal is logged but never
// fails the mutation that already committed.
func (s *QuestionService) revalidate(ctx context.Context, path string) {
	if path == "" {
		return
	}
	if err := s.revalidator.Revalidate(ctx, path); err != nil {
		s.logger.Warn("failed to revalidate path", zap.String("path", path), zap.Error(err))
	}
}
