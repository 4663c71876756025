package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atinyakov/ForumDesk/internal/models"
)

func questionStatus(t *testing.T, repo *MemoryForumRepository, id int64) models.QuestionStatus {
	t.Helper()
	q, err := repo.Question(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, q)
	return q.Status
}

func TestQuestionLifecycle(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryForumRepository(newFakeClock())

	qid, err := repo.AddQuestion(ctx, "Why?", "Because", "alice")
	require.NoError(t, err)
	assert.Equal(t, models.QuestionOpen, questionStatus(t, repo, qid))

	aid, err := repo.AddAnswer(ctx, qid, "X", "bob")
	require.NoError(t, err)
	assert.Equal(t, models.QuestionInProgress, questionStatus(t, repo, qid))

	require.NoError(t, repo.AcceptAnswer(ctx, aid, qid))
	assert.Equal(t, models.QuestionAnswered, questionStatus(t, repo, qid))

	answers, err := repo.AnswersForQuestion(ctx, qid)
	require.NoError(t, err)
	require.Len(t, answers, 1)
	assert.True(t, answers[0].Accepted)

	require.NoError(t, repo.DeleteAnswer(ctx, aid))
	assert.Equal(t, models.QuestionOpen, questionStatus(t, repo, qid))
	answers, err = repo.AnswersForQuestion(ctx, qid)
	require.NoError(t, err)
	assert.Empty(t, answers)
}

func TestAcceptAnswer_AtMostOneAccepted(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryForumRepository(newFakeClock())

	qid, _ := repo.AddQuestion(ctx, "t", "b", "alice")
	first, _ := repo.AddAnswer(ctx, qid, "one", "bob")
	second, _ := repo.AddAnswer(ctx, qid, "two", "carol")

	require.NoError(t, repo.AcceptAnswer(ctx, first, qid))
	require.NoError(t, repo.AcceptAnswer(ctx, second, qid))

	answers, err := repo.AnswersForQuestion(ctx, qid)
	require.NoError(t, err)
	require.Len(t, answers, 2)

	accepted := 0
	for _, a := range answers {
		if a.Accepted {
			accepted++
			assert.Equal(t, second, a.ID)
		}
	}
	assert.Equal(t, 1, accepted)
	assert.Equal(t, models.QuestionAnswered, questionStatus(t, repo, qid))
}

func TestAcceptAnswer_MissingTargetLeavesStatus(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryForumRepository(newFakeClock())

	qid, _ := repo.AddQuestion(ctx, "t", "b", "alice")
	aid, _ := repo.AddAnswer(ctx, qid, "one", "bob")
	require.NoError(t, repo.AcceptAnswer(ctx, aid, qid))

	// Accepting a nonexistent answer clears flags but never marks the
	// question answered for an answer that is not there.
	require.NoError(t, repo.AcceptAnswer(ctx, 999, qid))
	answers, _ := repo.AnswersForQuestion(ctx, qid)
	require.Len(t, answers, 1)
	assert.False(t, answers[0].Accepted)
}

func TestDeleteAcceptedAnswer_ForcesOpenEvenWithSiblings(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryForumRepository(newFakeClock())

	qid, _ := repo.AddQuestion(ctx, "t", "b", "alice")
	accepted, _ := repo.AddAnswer(ctx, qid, "one", "bob")
	_, _ = repo.AddAnswer(ctx, qid, "two", "carol")
	require.NoError(t, repo.AcceptAnswer(ctx, accepted, qid))

	require.NoError(t, repo.DeleteAnswer(ctx, accepted))

	// The question resets to OPEN even though an unaccepted sibling
	// remains. Callers rely on this exact behavior.
	assert.Equal(t, models.QuestionOpen, questionStatus(t, repo, qid))
	answers, _ := repo.AnswersForQuestion(ctx, qid)
	assert.Len(t, answers, 1)
}

func TestDeleteUnacceptedAnswer_LeavesStatusWhenSiblingsRemain(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryForumRepository(newFakeClock())

	qid, _ := repo.AddQuestion(ctx, "t", "b", "alice")
	first, _ := repo.AddAnswer(ctx, qid, "one", "bob")
	_, _ = repo.AddAnswer(ctx, qid, "two", "carol")

	require.NoError(t, repo.DeleteAnswer(ctx, first))
	assert.Equal(t, models.QuestionInProgress, questionStatus(t, repo, qid))
}

func TestDeleteAnswer_NoOpOnMissing(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryForumRepository(newFakeClock())
	assert.NoError(t, repo.DeleteAnswer(ctx, 42))
}

func TestDeleteQuestion_CascadesToAnswers(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryForumRepository(newFakeClock())

	qid, _ := repo.AddQuestion(ctx, "t", "b", "alice")
	other, _ := repo.AddQuestion(ctx, "other", "b", "bob")
	_, _ = repo.AddAnswer(ctx, qid, "one", "bob")
	_, _ = repo.AddAnswer(ctx, qid, "two", "carol")
	keep, _ := repo.AddAnswer(ctx, other, "kept", "alice")

	require.NoError(t, repo.DeleteQuestion(ctx, qid))

	q, err := repo.Question(ctx, qid)
	require.NoError(t, err)
	assert.Nil(t, q)
	answers, _ := repo.AnswersForQuestion(ctx, qid)
	assert.Empty(t, answers)

	// Answers of other questions are untouched.
	answers, _ = repo.AnswersForQuestion(ctx, other)
	require.Len(t, answers, 1)
	assert.Equal(t, keep, answers[0].ID)

	assert.NoError(t, repo.DeleteQuestion(ctx, 999))
}

func TestQuestions_SnapshotInInsertionOrder(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryForumRepository(newFakeClock())

	first, _ := repo.AddQuestion(ctx, "a", "b", "alice")
	second, _ := repo.AddQuestion(ctx, "c", "d", "bob")

	qs, err := repo.Questions(ctx)
	require.NoError(t, err)
	require.Len(t, qs, 2)
	assert.Equal(t, first, qs[0].ID)
	assert.Equal(t, second, qs[1].ID)

	// The listing is a defensive copy.
	qs[0].Title = "mutated"
	fresh, _ := repo.Questions(ctx)
	assert.Equal(t, "a", fresh[0].Title)
}

func TestSearchQuestions(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryForumRepository(newFakeClock())

	q1, _ := repo.AddQuestion(ctx, "Why?", "Because", "alice")
	q2, _ := repo.AddQuestion(ctx, "Deployment help", "it fails", "bob")
	q3, _ := repo.AddQuestion(ctx, "Another", "unrelated", "carol")

	// Case-insensitive match against the body.
	res, err := repo.SearchQuestions(ctx, "BECAUSE")
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, q1, res[0].ID)

	// Match against the author.
	res, _ = repo.SearchQuestions(ctx, "BOB")
	require.Len(t, res, 1)
	assert.Equal(t, q2, res[0].ID)

	// Substring match across fields, insertion order preserved.
	res, _ = repo.SearchQuestions(ctx, "e")
	require.Len(t, res, 3)
	assert.Equal(t, []int64{q1, q2, q3}, []int64{res[0].ID, res[1].ID, res[2].ID})

	// Blank query returns the full listing.
	res, _ = repo.SearchQuestions(ctx, "   ")
	assert.Len(t, res, 3)

	res, _ = repo.SearchQuestions(ctx, "nomatch")
	assert.Empty(t, res)
}

func TestAnswers_AcceptedFirstThenNewest(t *testing.T) {
	ctx := context.Background()
	clk := newFakeClock()
	repo := NewMemoryForumRepository(clk)

	qid, _ := repo.AddQuestion(ctx, "t", "b", "alice")
	oldest, _ := repo.AddAnswer(ctx, qid, "one", "bob")
	clk.Advance(time.Minute)
	middle, _ := repo.AddAnswer(ctx, qid, "two", "carol")
	clk.Advance(time.Minute)
	newest, _ := repo.AddAnswer(ctx, qid, "three", "dave")

	require.NoError(t, repo.AcceptAnswer(ctx, oldest, qid))

	answers, err := repo.AnswersForQuestion(ctx, qid)
	require.NoError(t, err)
	require.Len(t, answers, 3)
	assert.Equal(t, oldest, answers[0].ID, "accepted answer comes first")
	assert.Equal(t, newest, answers[1].ID)
	assert.Equal(t, middle, answers[2].ID)
}

func TestEditQuestionAndAnswer(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryForumRepository(newFakeClock())

	qid, _ := repo.AddQuestion(ctx, "t", "b", "alice")
	aid, _ := repo.AddAnswer(ctx, qid, "one", "bob")

	require.NoError(t, repo.UpdateQuestion(ctx, qid, "new title", "new body"))
	q, _ := repo.Question(ctx, qid)
	assert.Equal(t, "new title", q.Title)
	assert.Equal(t, "new body", q.Body)
	// Editing never changes the derived status.
	assert.Equal(t, models.QuestionInProgress, q.Status)

	require.NoError(t, repo.UpdateAnswer(ctx, aid, "edited"))
	answers, _ := repo.AnswersForQuestion(ctx, qid)
	assert.Equal(t, "edited", answers[0].Body)

	// Missing ids are silently ignored.
	assert.NoError(t, repo.UpdateQuestion(ctx, 999, "x", "y"))
	assert.NoError(t, repo.UpdateAnswer(ctx, 999, "x"))
}
