package services

import (
	"context"
	"testing"

	"caseportal/internal/adapters/persistence/repositories"
	"caseportal/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newQuestionFixture(t *testing.T) (*SecurityQuestionService, *repositories.MemoryStore) {
	t.Helper()
	store := repositories.NewMemoryStore()
	return NewSecurityQuestionService(store.SecurityQuestions(), store.Applications()), store
}

func TestSecurityQuestionListExcludesAnswers(t *testing.T) {
	svc, store := newQuestionFixture(t)
	app := seedApplication(store, "alice")

	q, err := svc.Add(context.Background(), app.ID, "First pet's name?", "Rex")
	require.NoError(t, err)
	assert.NotZero(t, q.ID)
	assert.Equal(t, "First pet's name?", q.Question)

	questions, err := svc.List(context.Background(), app.ID)
	require.NoError(t, err)
	require.Len(t, questions, 1)
	assert.Equal(t, q.ID, questions[0].ID)
	// SecurityQuestionResponse has no answer field at all; the id/question
	// pair is the entire payload
	assert.Equal(t, "First pet's name?", questions[0].Question)
}

func TestSecurityQuestionVerifyIsCaseSensitive(t *testing.T) {
	svc, store := newQuestionFixture(t)
	app := seedApplication(store, "alice")

	q, err := svc.Add(context.Background(), app.ID, "First pet's name?", "Rex")
	require.NoError(t, err)

	correct, err := svc.Verify(context.Background(), app.ID, q.ID, "Rex")
	require.NoError(t, err)
	assert.True(t, correct)

	correct, err = svc.Verify(context.Background(), app.ID, q.ID, "rex")
	require.NoError(t, err)
	assert.False(t, correct, "comparison is case-sensitive")

	correct, err = svc.Verify(context.Background(), app.ID, q.ID, " Rex ")
	require.NoError(t, err)
	assert.False(t, correct, "no trimming on submitted answers")
}

func TestSecurityQuestionVerifyUnknownQuestion(t *testing.T) {
	svc, store := newQuestionFixture(t)
	app := seedApplication(store, "alice")

	_, err := svc.Verify(context.Background(), app.ID, 42, "Rex")
	assert.ErrorIs(t, err, domain.ErrQuestionNotFound)
}

func TestSecurityQuestionScopedToApplication(t *testing.T) {
	svc, store := newQuestionFixture(t)
	alice := seedApplication(store, "alice")
	bob := seedApplication(store, "bob")

	q, err := svc.Add(context.Background(), alice.ID, "First pet's name?", "Rex")
	require.NoError(t, err)

	// Another applicant cannot reach alice's question by id
	_, err = svc.Verify(context.Background(), bob.ID, q.ID, "Rex")
	assert.ErrorIs(t, err, domain.ErrQuestionNotFound)
}

func TestSecurityQuestionUpdateAnswer(t *testing.T) {
	svc, store := newQuestionFixture(t)
	app := seedApplication(store, "alice")

	q, err := svc.Add(context.Background(), app.ID, "First pet's name?", "Rex")
	require.NoError(t, err)

	require.NoError(t, svc.UpdateAnswer(context.Background(), app.ID, q.ID, "Fido"))

	correct, err := svc.Verify(context.Background(), app.ID, q.ID, "Fido")
	require.NoError(t, err)
	assert.True(t, correct)

	correct, err = svc.Verify(context.Background(), app.ID, q.ID, "Rex")
	require.NoError(t, err)
	assert.False(t, correct)

	err = svc.UpdateAnswer(context.Background(), app.ID, 42, "Fido")
	assert.ErrorIs(t, err, domain.ErrQuestionNotFound)

	err = svc.UpdateAnswer(context.Background(), app.ID, q.ID, "  ")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSecurityQuestionDelete(t *testing.T) {
	svc, store := newQuestionFixture(t)
	app := seedApplication(store, "alice")

	q, err := svc.Add(context.Background(), app.ID, "First pet's name?", "Rex")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), app.ID, q.ID))

	_, err = svc.Verify(context.Background(), app.ID, q.ID, "Rex")
	assert.ErrorIs(t, err, domain.ErrQuestionNotFound)

	err = svc.Delete(context.Background(), app.ID, q.ID)
	assert.ErrorIs(t, err, domain.ErrQuestionNotFound)
}

func TestSecurityQuestionAddRejectsBlankAndUnknownApplication(t *testing.T) {
	svc, store := newQuestionFixture(t)
	app := seedApplication(store, "alice")

	_, err := svc.Add(context.Background(), app.ID, " ", "Rex")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.Add(context.Background(), app.ID, "Question?", "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.Add(context.Background(), 999, "Question?", "Rex")
	assert.ErrorIs(t, err, domain.ErrApplicationNotFound)
}
