package service

import (
	"context"

	"github.com/atinyakov/ForumDesk/internal/models"
)

// ForumRepository defines the storage operations needed by the ForumService.
type ForumRepository interface {
	// AddQuestion creates an open question and returns its id.
	AddQuestion(ctx context.Context, title, body, author string) (int64, error)
	// Question returns the question by id, or nil when absent.
	Question(ctx context.Context, id int64) (*models.Question, error)
	// UpdateQuestion replaces title and body, leaving the derived status untouched.
	UpdateQuestion(ctx context.Context, id int64, title, body string) error
	// DeleteQuestion removes the question and all of its answers.
	DeleteQuestion(ctx context.Context, id int64) error
	// Questions returns a snapshot of all questions in insertion order.
	Questions(ctx context.Context) ([]models.Question, error)
	// SearchQuestions filters by case-insensitive substring on title, body or author.
	SearchQuestions(ctx context.Context, query string) ([]models.Question, error)
	// AddAnswer creates an unaccepted answer and re-derives the parent status.
	AddAnswer(ctx context.Context, questionID int64, body, author string) (int64, error)
	// AnswersForQuestion returns the answers, accepted first, then newest first.
	AnswersForQuestion(ctx context.Context, questionID int64) ([]models.Answer, error)
	// UpdateAnswer replaces the answer body.
	UpdateAnswer(ctx context.Context, id int64, body string) error
	// DeleteAnswer removes the answer, resetting the parent to open when the
	// answer was accepted or none remain.
	DeleteAnswer(ctx context.Context, id int64) error
	// AcceptAnswer marks the target answer as the single accepted one.
	AcceptAnswer(ctx context.Context, answerID, questionID int64) error
}

// ForumService implements question and answer operations over a
// ForumRepository. The store is permissive: author-only authorization and
// blank-input validation are caller concerns.
type ForumService struct {
	repo ForumRepository
}

// NewForumService constructs a ForumService using the provided repository.
func NewForumService(repo ForumRepository) *ForumService {
	return &ForumService{repo: repo}
}

// AskQuestion posts a new open question.
func (s *ForumService) AskQuestion(ctx context.Context, title, body, author string) (int64, error) {
	return s.repo.AddQuestion(ctx, title, body, author)
}

// Question fetches a single question by id, or nil when absent.
func (s *ForumService) Question(ctx context.Context, id int64) (*models.Question, error) {
	return s.repo.Question(ctx, id)
}

// EditQuestion replaces the question's title and body.
func (s *ForumService) EditQuestion(ctx context.Context, id int64, title, body string) error {
	return s.repo.UpdateQuestion(ctx, id, title, body)
}

// DeleteQuestion removes the question and cascades to its answers.
func (s *ForumService) DeleteQuestion(ctx context.Context, id int64) error {
	return s.repo.DeleteQuestion(ctx, id)
}

// Questions lists all questions in insertion order.
func (s *ForumService) Questions(ctx context.Context) ([]models.Question, error) {
	return s.repo.Questions(ctx)
}

// SearchQuestions filters questions by substring. A blank query returns
// the full listing.
func (s *ForumService) SearchQuestions(ctx context.Context, query string) ([]models.Question, error) {
	return s.repo.SearchQuestions(ctx, query)
}

// Answer posts an answer to the question.
func (s *ForumService) Answer(ctx context.Context, questionID int64, body, author string) (int64, error) {
	return s.repo.AddAnswer(ctx, questionID, body, author)
}

// Answers lists the question's answers, accepted first.
func (s *ForumService) Answers(ctx context.Context, questionID int64) ([]models.Answer, error) {
	return s.repo.AnswersForQuestion(ctx, questionID)
}

// EditAnswer replaces the answer body.
func (s *ForumService) EditAnswer(ctx context.Context, id int64, body string) error {
	return s.repo.UpdateAnswer(ctx, id, body)
}

// DeleteAnswer removes the answer.
func (s *ForumService) DeleteAnswer(ctx context.Context, id int64) error {
	return s.repo.DeleteAnswer(ctx, id)
}

// AcceptAnswer marks the answer as the question's accepted resolution.
func (s *ForumService) AcceptAnswer(ctx context.Context, answerID, questionID int64) error {
	return s.repo.AcceptAnswer(ctx, answerID, questionID)
}
