package repository

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/atinyakov/ForumDesk/internal/clock"
	"github.com/atinyakov/ForumDesk/internal/models"
)

// MemoryForumRepository holds questions and answers in id-indexed in-memory
// tables. Question status is derived from the answer set; the store keeps
// it consistent after every mutation.
type MemoryForumRepository struct {
	mu sync.Mutex

	clock clock.Clock

	questions     map[int64]models.Question
	questionOrder []int64 // insertion order for listings
	answers       map[int64]models.Answer

	nextQuestionID int64
	nextAnswerID   int64
}

// NewMemoryForumRepository creates an empty forum store. clk must not be nil.
func NewMemoryForumRepository(clk clock.Clock) *MemoryForumRepository {
	return &MemoryForumRepository{
		clock:          clk,
		questions:      make(map[int64]models.Question),
		answers:        make(map[int64]models.Answer),
		nextQuestionID: 1,
		nextAnswerID:   1,
	}
}

// AddQuestion creates an open question and returns its id.
func (r *MemoryForumRepository) AddQuestion(ctx context.Context, title, body, author string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.nextQuestionID
	r.nextQuestionID++
	r.questions[id] = models.Question{
		ID:        id,
		Title:     title,
		Body:      body,
		Author:    author,
		CreatedAt: r.clock.Now(),
		Status:    models.QuestionOpen,
	}
	r.questionOrder = append(r.questionOrder, id)
	return id, nil
}

// Question returns the question with the given id, or nil when absent.
func (r *MemoryForumRepository) Question(ctx context.Context, id int64) (*models.Question, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	q, ok := r.questions[id]
	if !ok {
		return nil, nil
	}
	return &q, nil
}

// UpdateQuestion replaces title and body in place. The derived status is
// untouched. Missing ids are silently ignored.
func (r *MemoryForumRepository) UpdateQuestion(ctx context.Context, id int64, title, body string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	q, ok := r.questions[id]
	if !ok {
		return nil
	}
	q.Title = title
	q.Body = body
	r.questions[id] = q
	return nil
}

// DeleteQuestion removes the question and cascades to every answer whose
// parent is that question. Missing ids are silently ignored.
func (r *MemoryForumRepository) DeleteQuestion(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.questions[id]; !ok {
		return nil
	}
	delete(r.questions, id)
	for i, qid := range r.questionOrder {
		if qid == id {
			r.questionOrder = append(r.questionOrder[:i], r.questionOrder[i+1:]...)
			break
		}
	}
	for aid, a := range r.answers {
		if a.QuestionID == id {
			delete(r.answers, aid)
		}
	}
	return nil
}

// Questions returns a snapshot of all questions in insertion order.
func (r *MemoryForumRepository) Questions(ctx context.Context) ([]models.Question, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.listQuestions(), nil
}

func (r *MemoryForumRepository) listQuestions() []models.Question {
	out := make([]models.Question, 0, len(r.questionOrder))
	for _, id := range r.questionOrder {
		out = append(out, r.questions[id])
	}
	return out
}

// SearchQuestions returns the questions whose title, body or author
// contains the query, case-insensitively, in insertion order. A blank
// query returns the full listing.
func (r *MemoryForumRepository) SearchQuestions(ctx context.Context, query string) ([]models.Question, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return r.listQuestions(), nil
	}
	out := make([]models.Question, 0)
	for _, id := range r.questionOrder {
		q := r.questions[id]
		if strings.Contains(strings.ToLower(q.Title), query) ||
			strings.Contains(strings.ToLower(q.Body), query) ||
			strings.Contains(strings.ToLower(q.Author), query) {
			out = append(out, q)
		}
	}
	return out, nil
}

// AddAnswer creates an unaccepted answer for the question, re-derives the
// parent's status, and returns the answer id. An answer to a missing
// question is still stored; the status update is then a no-op.
func (r *MemoryForumRepository) AddAnswer(ctx context.Context, questionID int64, body, author string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.nextAnswerID
	r.nextAnswerID++
	r.answers[id] = models.Answer{
		ID:         id,
		QuestionID: questionID,
		Body:       body,
		Author:     author,
		CreatedAt:  r.clock.Now(),
	}
	r.deriveStatus(questionID)
	return id, nil
}

// AnswersForQuestion returns the question's answers with the accepted
// answer first (at most one exists), the rest ordered by creation time
// descending.
func (r *MemoryForumRepository) AnswersForQuestion(ctx context.Context, questionID int64) ([]models.Answer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.answersFor(questionID), nil
}

func (r *MemoryForumRepository) answersFor(questionID int64) []models.Answer {
	out := make([]models.Answer, 0)
	for _, a := range r.answers {
		if a.QuestionID == questionID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Accepted != out[j].Accepted {
			return out[i].Accepted
		}
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// UpdateAnswer replaces the answer body. Acceptance and the parent status
// are unaffected. Missing ids are silently ignored.
func (r *MemoryForumRepository) UpdateAnswer(ctx context.Context, id int64, body string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.answers[id]
	if !ok {
		return nil
	}
	a.Body = body
	r.answers[id] = a
	return nil
}

// DeleteAnswer removes the answer. When the deleted answer was accepted,
// or no answers remain for the parent, the parent is reset to open. The
// reset applies even when unaccepted sibling answers remain; callers
// depend on that exact behavior. Missing ids are silently ignored.
func (r *MemoryForumRepository) DeleteAnswer(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.answers[id]
	if !ok {
		return nil
	}
	delete(r.answers, id)
	if a.Accepted || len(r.answersFor(a.QuestionID)) == 0 {
		if q, ok := r.questions[a.QuestionID]; ok {
			q.Status = models.QuestionOpen
			r.questions[a.QuestionID] = q
		}
	}
	return nil
}

// AcceptAnswer clears the accepted flag on every answer of the question,
// marks the target answer accepted, and sets the question answered. After
// the call at most one answer of the question is accepted.
func (r *MemoryForumRepository) AcceptAnswer(ctx context.Context, answerID, questionID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, a := range r.answers {
		if a.QuestionID == questionID && a.Accepted {
			a.Accepted = false
			r.answers[id] = a
		}
	}
	a, ok := r.answers[answerID]
	if !ok {
		return nil
	}
	a.Accepted = true
	r.answers[answerID] = a
	if q, ok := r.questions[questionID]; ok {
		q.Status = models.QuestionAnswered
		r.questions[questionID] = q
	}
	return nil
}

// deriveStatus recomputes the question's status from its answer set:
// open with no answers, answered with an accepted answer, in progress
// otherwise.
func (r *MemoryForumRepository) deriveStatus(questionID int64) {
	q, ok := r.questions[questionID]
	if !ok {
		return
	}
	count := 0
	accepted := false
	for _, a := range r.answers {
		if a.QuestionID != questionID {
			continue
		}
		count++
		if a.Accepted {
			accepted = true
		}
	}
	switch {
	case count == 0:
		q.Status = models.QuestionOpen
	case accepted:
		q.Status = models.QuestionAnswered
	default:
		q.Status = models.QuestionInProgress
	}
	r.questions[questionID] = q
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
