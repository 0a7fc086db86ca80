package services

import (
	"context"
	"testing"

	"devflow/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestQuestion(t *testing.T, s *QuestionService, authorID uint, title string, tags []string) *models.Question {
	t.Helper()

	question, err := s.CreateQuestion(context.Background(), &CreateQuestionRequest{
		Title:    title,
		Content:  longContent(title),
		Tags:     tags,
		AuthorID: authorID,
		Path:     "/",
	})
	require.NoError(t, err)
	return question
}

func TestCreateQuestionMergesTagsCaseInsensitively(t *testing.T) {
	s, revalidator, db := newTestQuestionService(t)
	author := createTestUser(t, db, "Ada")

	question := createTestQuestion(t, s, author.ID, "How do channels work?", []string{"go", "Go", "rust"})

	var tags []models.Tag
	require.NoError(t, db.Find(&tags).Error)
	require.Len(t, tags, 2)

	names := []string{tags[0].Name, tags[1].Name}
	assert.ElementsMatch(t, []string{"go", "rust"}, names)

	require.Len(t, question.Tags, 2)

	// Each tag references the question exactly once.
	for _, tag := range tags {
		var count int64
		require.NoError(t, db.Table("question_tags").
			Where("question_id = ? AND tag_id = ?", question.ID, tag.ID).
			Count(&count).Error)
		assert.Equal(t, int64(1), count, "tag %s", tag.Name)
	}

	assert.Equal(t, []string{"/"}, revalidator.paths)
}

func TestCreateQuestionReusesExistingTag(t *testing.T) {
	s, _, db := newTestQuestionService(t)
	author := createTestUser(t, db, "Ada")

	first := createTestQuestion(t, s, author.ID, "What is a closure?", []string{"javascript"})
	second := createTestQuestion(t, s, author.ID, "What is hoisting?", []string{"JavaScript"})

	var tags []models.Tag
	require.NoError(t, db.Find(&tags).Error)
	require.Len(t, tags, 1)
	assert.Equal(t, "javascript", tags[0].Name)

	var count int64
	require.NoError(t, db.Table("question_tags").Where("tag_id = ?", tags[0].ID).Count(&count).Error)
	assert.Equal(t, int64(2), count)

	assert.NotEqual(t, first.ID, second.ID)
}

func TestUpvoteTransitions(t *testing.T) {
	s, _, db := newTestQuestionService(t)
	author := createTestUser(t, db, "Ada")
	voter := createTestUser(t, db, "Brendan")

	question := createTestQuestion(t, s, author.ID, "Why is nil not nil?", []string{"go"})
	req := &VoteQuestionRequest{UserID: voter.ID, Path: "/"}

	// neutral -> upvoted
	got, err := s.UpvoteQuestion(context.Background(), question.ID, req)
	require.NoError(t, err)
	require.Len(t, got.Upvotes, 1)
	assert.Equal(t, voter.ID, got.Upvotes[0].ID)
	assert.Empty(t, got.Downvotes)

	// upvoted -> neutral (toggle off)
	got, err = s.UpvoteQuestion(context.Background(), question.ID, req)
	require.NoError(t, err)
	assert.Empty(t, got.Upvotes)
	assert.Empty(t, got.Downvotes)
}

func TestUpvoteSwitchesFromDownvote(t *testing.T) {
	s, _, db := newTestQuestionService(t)
	author := createTestUser(t, db, "Ada")
	voter := createTestUser(t, db, "Brendan")

	question := createTestQuestion(t, s, author.ID, "Why is nil not nil?", []string{"go"})
	req := &VoteQuestionRequest{UserID: voter.ID, Path: "/"}

	got, err := s.DownvoteQuestion(context.Background(), question.ID, req)
	require.NoError(t, err)
	require.Len(t, got.Downvotes, 1)

	got, err = s.UpvoteQuestion(context.Background(), question.ID, req)
	require.NoError(t, err)
	require.Len(t, got.Upvotes, 1)
	assert.Equal(t, voter.ID, got.Upvotes[0].ID)
	assert.Empty(t, got.Downvotes)
}

func TestDownvoteSwitchesFromUpvote(t *testing.T) {
	s, _, db := newTestQuestionService(t)
	author := createTestUser(t, db, "Ada")
	voter := createTestUser(t, db, "Brendan")

	question := createTestQuestion(t, s, author.ID, "Why is nil not nil?", []string{"go"})
	req := &VoteQuestionRequest{UserID: voter.ID, Path: "/"}

	_, err := s.UpvoteQuestion(context.Background(), question.ID, req)
	require.NoError(t, err)

	got, err := s.DownvoteQuestion(context.Background(), question.ID, req)
	require.NoError(t, err)
	require.Len(t, got.Downvotes, 1)
	assert.Equal(t, voter.ID, got.Downvotes[0].ID)
	assert.Empty(t, got.Upvotes)
}

func TestVoteQuestionNotFound(t *testing.T) {
	s, _, db := newTestQuestionService(t)
	voter := createTestUser(t, db, "Brendan")

	_, err := s.UpvoteQuestion(context.Background(), 9999, &VoteQuestionRequest{UserID: voter.ID})
	assert.ErrorIs(t, err, ErrQuestionNotFound)

	_, err = s.DownvoteQuestion(context.Background(), 9999, &VoteQuestionRequest{UserID: voter.ID})
	assert.ErrorIs(t, err, ErrQuestionNotFound)
}

func TestDeleteQuestionCascades(t *testing.T) {
	s, revalidator, db := newTestQuestionService(t)
	author := createTestUser(t, db, "Ada")
	voter := createTestUser(t, db, "Brendan")

	question := createTestQuestion(t, s, author.ID, "How do I exit vim?", []string{"vim", "editor"})

	answer := models.Answer{QuestionID: question.ID, AuthorID: voter.ID, Content: longContent("press escape")}
	require.NoError(t, db.Create(&answer).Error)
	require.NoError(t, s.ViewQuestion(context.Background(), question.ID, voter.ID))
	_, err := s.UpvoteQuestion(context.Background(), question.ID, &VoteQuestionRequest{UserID: voter.ID})
	require.NoError(t, err)

	require.NoError(t, s.DeleteQuestion(context.Background(), question.ID, "/profile"))

	_, err = s.GetQuestionByID(context.Background(), question.ID)
	assert.ErrorIs(t, err, ErrQuestionNotFound)

	var answers []models.Answer
	require.NoError(t, db.Where("question_id = ?", question.ID).Find(&answers).Error)
	assert.Empty(t, answers)

	var interactions []models.Interaction
	require.NoError(t, db.Where("question_id = ?", question.ID).Find(&interactions).Error)
	assert.Empty(t, interactions)

	for _, table := range []string{"question_tags", "question_upvotes", "question_downvotes"} {
		var count int64
		require.NoError(t, db.Table(table).Where("question_id = ?", question.ID).Count(&count).Error)
		assert.Zero(t, count, table)
	}

	assert.Contains(t, revalidator.paths, "/profile")
}

func TestDeleteQuestionNotFound(t *testing.T) {
	s, _, _ := newTestQuestionService(t)

	err := s.DeleteQuestion(context.Background(), 9999, "/")
	assert.ErrorIs(t, err, ErrQuestionNotFound)
}

func TestEditQuestionOverwritesTitleAndContentOnly(t *testing.T) {
	s, _, db := newTestQuestionService(t)
	author := createTestUser(t, db, "Ada")

	question := createTestQuestion(t, s, author.ID, "Old title here", []string{"go"})

	edited, err := s.EditQuestion(context.Background(), question.ID, &EditQuestionRequest{
		Title:   "New title here",
		Content: longContent("new content"),
		Path:    "/",
	})
	require.NoError(t, err)
	assert.Equal(t, "New title here", edited.Title)

	reloaded, err := s.GetQuestionByID(context.Background(), question.ID)
	require.NoError(t, err)
	assert.Equal(t, "New title here", reloaded.Title)
	assert.Len(t, reloaded.Tags, 1, "tags must survive an edit")
}

func TestEditQuestionNotFound(t *testing.T) {
	s, _, _ := newTestQuestionService(t)

	_, err := s.EditQuestion(context.Background(), 9999, &EditQuestionRequest{
		Title:   "New title here",
		Content: longContent("new content"),
	})
	assert.ErrorIs(t, err, ErrQuestionNotFound)
}

func TestListQuestionsPagination(t *testing.T) {
	s, _, db := newTestQuestionService(t)
	author := createTestUser(t, db, "Ada")

	for i := 0; i < 12; i++ {
		createTestQuestion(t, s, author.ID, "Question number something", []string{"go"})
	}

	resp, err := s.ListQuestions(context.Background(), &ListQuestionsRequest{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Len(t, resp.Questions, 10)
	assert.True(t, resp.IsNext)

	resp, err = s.ListQuestions(context.Background(), &ListQuestionsRequest{Page: 2, PageSize: 10})
	require.NoError(t, err)
	assert.Len(t, resp.Questions, 2)
	assert.False(t, resp.IsNext)
}

func TestListQuestionsSearchMatchesTitleOrContent(t *testing.T) {
	s, _, db := newTestQuestionService(t)
	author := createTestUser(t, db, "Ada")

	createTestQuestion(t, s, author.ID, "Debugging GoRoutine leaks", []string{"go"})
	createTestQuestion(t, s, author.ID, "Centering a div", []string{"css"})

	other, err := s.CreateQuestion(context.Background(), &CreateQuestionRequest{
		Title:    "Unrelated title entirely",
		Content:  longContent("mentions goroutine deep in the content"),
		Tags:     []string{"go"},
		AuthorID: author.ID,
	})
	require.NoError(t, err)

	resp, err := s.ListQuestions(context.Background(), &ListQuestionsRequest{Query: "GOROUTINE"})
	require.NoError(t, err)
	require.Len(t, resp.Questions, 2)

	ids := []uint{resp.Questions[0].ID, resp.Questions[1].ID}
	assert.Contains(t, ids, other.ID)
}

func TestListQuestionsUnanswered(t *testing.T) {
	s, _, db := newTestQuestionService(t)
	author := createTestUser(t, db, "Ada")

	answered := createTestQuestion(t, s, author.ID, "Answered question here", []string{"go"})
	unanswered := createTestQuestion(t, s, author.ID, "Unanswered question here", []string{"go"})

	answer := models.Answer{QuestionID: answered.ID, AuthorID: author.ID, Content: longContent("an answer")}
	require.NoError(t, db.Create(&answer).Error)

	resp, err := s.ListQuestions(context.Background(), &ListQuestionsRequest{Filter: FilterUnanswered})
	require.NoError(t, err)
	require.Len(t, resp.Questions, 1)
	assert.Equal(t, unanswered.ID, resp.Questions[0].ID)
}

func TestListQuestionsFrequentSortsByViews(t *testing.T) {
	s, _, db := newTestQuestionService(t)
	author := createTestUser(t, db, "Ada")

	cold := createTestQuestion(t, s, author.ID, "Rarely viewed question", []string{"go"})
	hot := createTestQuestion(t, s, author.ID, "Heavily viewed question", []string{"go"})

	require.NoError(t, db.Model(&models.Question{}).Where("id = ?", hot.ID).UpdateColumn("views", 50).Error)
	require.NoError(t, db.Model(&models.Question{}).Where("id = ?", cold.ID).UpdateColumn("views", 3).Error)

	resp, err := s.ListQuestions(context.Background(), &ListQuestionsRequest{Filter: FilterFrequent})
	require.NoError(t, err)
	require.Len(t, resp.Questions, 2)
	assert.Equal(t, hot.ID, resp.Questions[0].ID)
}

func TestViewQuestion(t *testing.T) {
	s, _, db := newTestQuestionService(t)
	author := createTestUser(t, db, "Ada")
	viewer := createTestUser(t, db, "Brendan")

	question := createTestQuestion(t, s, author.ID, "How to test views?", []string{"go"})

	require.NoError(t, s.ViewQuestion(context.Background(), question.ID, viewer.ID))
	require.NoError(t, s.ViewQuestion(context.Background(), question.ID, viewer.ID))

	reloaded, err := s.GetQuestionByID(context.Background(), question.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), reloaded.Views)

	// Repeat views by the same user record a single interaction.
	var count int64
	require.NoError(t, db.Model(&models.Interaction{}).
		Where("user_id = ? AND question_id = ? AND action = ?", viewer.ID, question.ID, "view").
		Count(&count).Error)
	assert.Equal(t, int64(1), count)

	assert.ErrorIs(t, s.ViewQuestion(context.Background(), 9999, viewer.ID), ErrQuestionNotFound)
}

func TestGetHotQuestions(t *testing.T) {
	s, _, db := newTestQuestionService(t)
	author := createTestUser(t, db, "Ada")

	var ids []uint
	for i := 0; i < 7; i++ {
		q := createTestQuestion(t, s, author.ID, "Some question title", []string{"go"})
		require.NoError(t, db.Model(&models.Question{}).Where("id = ?", q.ID).UpdateColumn("views", i).Error)
		ids = append(ids, q.ID)
	}

	hot, err := s.GetHotQuestions(context.Background())
	require.NoError(t, err)
	require.Len(t, hot, 5)
	assert.Equal(t, ids[6], hot[0].ID)
	assert.Equal(t, ids[2], hot[4].ID)
}
