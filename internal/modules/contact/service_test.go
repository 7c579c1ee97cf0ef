package contact

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mediavault/internal/database"
	"mediavault/internal/domain"
	"mediavault/internal/repository"
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	db, err := database.Connect(filepath.Join(t.TempDir(), "contact_test.db"))
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	return NewService(repository.NewContactRepository(db))
}

func sender() *domain.User {
	return &domain.User{ID: 1, Name: "Profile Name", Email: "profile@example.com"}
}

func TestService_Create_DefaultsFromProfile(t *testing.T) {
	svc := newTestService(t)

	msg, err := svc.Create(context.Background(), sender(), CreateRequest{
		Subject: "Hello",
		Body:    "I have a question.",
	})

	require.NoError(t, err)
	assert.Equal(t, "Profile Name", msg.Name)
	assert.Equal(t, "profile@example.com", msg.Email)
	assert.Equal(t, int64(1), msg.UserID)
}

func TestService_Create_ValidationBounds(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, sender(), CreateRequest{Subject: "  ", Body: "body"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Create(ctx, sender(), CreateRequest{Subject: "ok", Body: ""})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Create(ctx, sender(), CreateRequest{
		Subject: strings.Repeat("s", domain.ContactSubjectMaxLen+1),
		Body:    "body",
	})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Create(ctx, sender(), CreateRequest{
		Subject: "ok",
		Body:    strings.Repeat("b", domain.ContactBodyMaxLen+1),
	})
	assert.ErrorIs(t, err, ErrValidation)

	// Boundary lengths are accepted.
	_, err = svc.Create(ctx, sender(), CreateRequest{
		Subject: strings.Repeat("s", domain.ContactSubjectMaxLen),
		Body:    strings.Repeat("b", domain.ContactBodyMaxLen),
	})
	assert.NoError(t, err)
}

func TestService_OwnerScoping(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	mine, err := svc.Create(ctx, sender(), CreateRequest{Subject: "Mine", Body: "body"})
	require.NoError(t, err)

	other := &domain.User{ID: 2, Name: "Other", Email: "other@example.com"}
	_, err = svc.Create(ctx, other, CreateRequest{Subject: "Theirs", Body: "body"})
	require.NoError(t, err)

	msgs, err := svc.ListMine(ctx, 1)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "Mine", msgs[0].Subject)

	// Foreign messages read as NotFound.
	_, err = svc.GetMine(ctx, 2, mine.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, svc.DeleteMine(ctx, 2, mine.ID), ErrNotFound)

	subject := "hijack"
	_, err = svc.UpdateMine(ctx, 2, mine.ID, UpdateRequest{Subject: &subject})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_UpdateMine_RevalidatesLengths(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	msg, err := svc.Create(ctx, sender(), CreateRequest{Subject: "Before", Body: "body"})
	require.NoError(t, err)

	tooLong := strings.Repeat("s", domain.ContactSubjectMaxLen+1)
	_, err = svc.UpdateMine(ctx, 1, msg.ID, UpdateRequest{Subject: &tooLong})
	assert.ErrorIs(t, err, ErrValidation)

	newSubject := "After"
	updated, err := svc.UpdateMine(ctx, 1, msg.ID, UpdateRequest{Subject: &newSubject})
	require.NoError(t, err)
	assert.Equal(t, "After", updated.Subject)
	assert.Equal(t, "body", updated.Body)
}

func TestService_AdminUnscoped(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	mine, err := svc.Create(ctx, sender(), CreateRequest{Subject: "Mine", Body: "body"})
	require.NoError(t, err)

	other := &domain.User{ID: 2, Name: "Other", Email: "other@example.com"}
	_, err = svc.Create(ctx, other, CreateRequest{Subject: "Theirs", Body: "body"})
	require.NoError(t, err)

	all, err := svc.AdminList(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	require.NoError(t, svc.AdminDelete(ctx, mine.ID))
	assert.ErrorIs(t, svc.AdminDelete(ctx, mine.ID), ErrNotFound)

	all, err = svc.AdminList(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
