package services

import (
	"context"
	"testing"

	"caseportal/internal/adapters/persistence/repositories"
	"caseportal/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAppFixture(t *testing.T) (*ApplicationService, *repositories.MemoryStore) {
	t.Helper()
	store := repositories.NewMemoryStore()
	return NewApplicationService(store.Applications()), store
}

func TestApplicationCreateAppliesDefaults(t *testing.T) {
	svc, _ := newAppFixture(t)

	input := validInput("alice")
	input.Status = ""
	input.BiometricsStatus = ""
	input.UniqueClientIdentifier = ""

	app, fieldErrs, err := svc.Create(context.Background(), input)
	require.NoError(t, err)
	require.False(t, fieldErrs.HasErrors())
	require.NotNil(t, app)

	assert.Equal(t, string(domain.StatusPending), app.Status)
	assert.Equal(t, string(domain.BiometricsNotCompleted), app.Biometrics.Status)
	assert.NotEmpty(t, app.UniqueClientIdentifier, "omitted UCI gets a generated one")
	assert.NotZero(t, app.ID)
	assert.Empty(t, app.Messages)
	assert.Equal(t, "2025-03-01T00:00:00Z", app.DateOfSubmission)
}

func TestApplicationCreateValidation(t *testing.T) {
	svc, _ := newAppFixture(t)

	input := validInput("alice")
	input.UserName = ""
	input.Password = "short"
	input.Email = "not-an-email"
	input.DateOfSubmission = "March 1st"
	input.Status = "Archived"

	app, fieldErrs, err := svc.Create(context.Background(), input)
	require.NoError(t, err)
	assert.Nil(t, app)

	require.True(t, fieldErrs.HasErrors())
	assert.Contains(t, fieldErrs, "user_name")
	assert.Contains(t, fieldErrs, "password")
	assert.Contains(t, fieldErrs, "email")
	assert.Contains(t, fieldErrs, "date_of_submission")
	assert.Contains(t, fieldErrs, "status")
}

func TestApplicationCreateDuplicates(t *testing.T) {
	svc, _ := newAppFixture(t)

	_, _, err := svc.Create(context.Background(), validInput("alice"))
	require.NoError(t, err)

	// Same application number
	dup := validInput("bob")
	dup.ApplicationNumber = "Walice"
	_, _, err = svc.Create(context.Background(), dup)
	assert.ErrorIs(t, err, domain.ErrDuplicateEntry)

	// Same email, different case
	dup = validInput("carol")
	dup.Email = "ALICE@example.com"
	_, _, err = svc.Create(context.Background(), dup)
	assert.ErrorIs(t, err, domain.ErrDuplicateEntry)
}

func TestApplicationUpdateIsFullReplace(t *testing.T) {
	svc, _ := newAppFixture(t)

	input := validInput("alice")
	input.Status = "Approved"
	created, _, err := svc.Create(context.Background(), input)
	require.NoError(t, err)

	// Resubmit without status: the omitted field falls back to the default
	// rather than keeping Approved
	replacement := validInput("alice")
	replacement.Status = ""
	updated, fieldErrs, err := svc.Update(context.Background(), created.ID, replacement)
	require.NoError(t, err)
	require.False(t, fieldErrs.HasErrors())

	assert.Equal(t, string(domain.StatusPending), updated.Status)
}

func TestApplicationUpdateUnknownID(t *testing.T) {
	svc, _ := newAppFixture(t)
	_, _, err := svc.Update(context.Background(), 42, validInput("alice"))
	assert.ErrorIs(t, err, domain.ErrApplicationNotFound)
}

func TestApplicationDeleteReturnsRecord(t *testing.T) {
	svc, _ := newAppFixture(t)

	created, _, err := svc.Create(context.Background(), validInput("alice"))
	require.NoError(t, err)

	deleted, err := svc.Delete(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ApplicationNumber, deleted.ApplicationNumber)

	_, err = svc.GetByID(context.Background(), created.ID)
	assert.ErrorIs(t, err, domain.ErrApplicationNotFound)

	_, err = svc.Delete(context.Background(), created.ID)
	assert.ErrorIs(t, err, domain.ErrApplicationNotFound)
}

func TestApplicationMessagesKeepOrderAndIDs(t *testing.T) {
	svc, _ := newAppFixture(t)

	created, _, err := svc.Create(context.Background(), validInput("alice"))
	require.NoError(t, err)

	_, err = svc.AppendMessage(context.Background(), created.ID, "first")
	require.NoError(t, err)
	app, err := svc.AppendMessage(context.Background(), created.ID, "second")
	require.NoError(t, err)

	require.Len(t, app.Messages, 2)
	assert.Equal(t, "first", app.Messages[0].Content)
	assert.Equal(t, "second", app.Messages[1].Content)
	assert.Less(t, app.Messages[0].ID, app.Messages[1].ID)
	assert.False(t, app.Messages[0].IsRead)
	assert.False(t, app.Messages[1].IsRead)
}

func TestApplicationAppendMessageRejectsBlank(t *testing.T) {
	svc, _ := newAppFixture(t)

	created, _, err := svc.Create(context.Background(), validInput("alice"))
	require.NoError(t, err)

	_, err = svc.AppendMessage(context.Background(), created.ID, "   ")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.AppendMessage(context.Background(), 999, "hello")
	assert.ErrorIs(t, err, domain.ErrApplicationNotFound)
}

func TestApplicationMarkAllMessagesRead(t *testing.T) {
	svc, _ := newAppFixture(t)

	created, _, err := svc.Create(context.Background(), validInput("alice"))
	require.NoError(t, err)

	_, err = svc.AppendMessage(context.Background(), created.ID, "first")
	require.NoError(t, err)
	_, err = svc.AppendMessage(context.Background(), created.ID, "second")
	require.NoError(t, err)

	app, err := svc.MarkAllMessagesRead(context.Background(), created.ID)
	require.NoError(t, err)
	for _, m := range app.Messages {
		assert.True(t, m.IsRead)
	}

	// Idempotent
	app, err = svc.MarkAllMessagesRead(context.Background(), created.ID)
	require.NoError(t, err)
	for _, m := range app.Messages {
		assert.True(t, m.IsRead)
	}

	_, err = svc.MarkAllMessagesRead(context.Background(), 999)
	assert.ErrorIs(t, err, domain.ErrApplicationNotFound)
}

func TestApplicationListNewestFirst(t *testing.T) {
	svc, _ := newAppFixture(t)

	for _, name := range []string{"alice", "bob", "carol"} {
		_, _, err := svc.Create(context.Background(), validInput(name))
		require.NoError(t, err)
	}

	apps, total, err := svc.List(context.Background(), 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, apps, 3)
	assert.Equal(t, "carol", apps[0].UserName)
	assert.Equal(t, "alice", apps[2].UserName)

	page, total, err := svc.List(context.Background(), 2, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, page, 1)
	assert.Equal(t, "alice", page[0].UserName)
}
