package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/chat-service/internal/config"
	"github.com/spec-kit/chat-service/internal/domain"
	"github.com/spec-kit/chat-service/internal/persistence"
)

func newSQLite(t *testing.T) *persistence.SQLite {
	t.Helper()
	store, err := persistence.NewSQLite(context.Background(), config.SQLiteConfig{Path: ":memory:"}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(store.Close)
	return store
}

func insertUser(t *testing.T, users UserRepository, email string) *domain.User {
	t.Helper()
	user := &domain.User{Name: "Alice", Email: email, PasswordHash: "$2a$10$hash"}
	id, err := users.Insert(context.Background(), user)
	require.NoError(t, err)
	require.NotEmpty(t, id)
	return user
}

func TestSQLiteUserRepository_InsertAndFind(t *testing.T) {
	ctx := context.Background()
	users := NewSQLiteUserRepository(newSQLite(t).DB)

	created := insertUser(t, users, "a@x.com")

	found, err := users.FindByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
	assert.Equal(t, "Alice", found.Name)
	assert.Equal(t, "$2a$10$hash", found.PasswordHash)
	assert.False(t, found.IsAdmin)
	assert.WithinDuration(t, created.CreatedAt, found.CreatedAt, time.Second)

	byID, err := users.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", byID.Email)
}

func TestSQLiteUserRepository_NotFound(t *testing.T) {
	ctx := context.Background()
	users := NewSQLiteUserRepository(newSQLite(t).DB)

	_, err := users.FindByEmail(ctx, "nobody@x.com")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = users.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.ErrorIs(t, users.UpdatePassword(ctx, "missing", "h"), domain.ErrNotFound)
	assert.ErrorIs(t, users.SetAdmin(ctx, "nobody@x.com", true), domain.ErrNotFound)
}

func TestSQLiteUserRepository_DuplicateEmail(t *testing.T) {
	users := NewSQLiteUserRepository(newSQLite(t).DB)
	insertUser(t, users, "a@x.com")

	id, err := users.Insert(context.Background(), &domain.User{Name: "Other", Email: "a@x.com", PasswordHash: "h"})
	assert.ErrorIs(t, err, domain.ErrDuplicateEmail)
	assert.Empty(t, id)
}

func TestSQLiteUserRepository_EmailIsCaseSensitive(t *testing.T) {
	users := NewSQLiteUserRepository(newSQLite(t).DB)
	insertUser(t, users, "a@x.com")

	_, err := users.Insert(context.Background(), &domain.User{Name: "Upper", Email: "A@x.com", PasswordHash: "h"})
	assert.NoError(t, err)
}

func TestSQLiteUserRepository_UpdateProfile(t *testing.T) {
	ctx := context.Background()
	users := NewSQLiteUserRepository(newSQLite(t).DB)
	user := insertUser(t, users, "a@x.com")

	require.NoError(t, users.UpdateProfile(ctx, user.ID, domain.ProfileUpdate{Name: "Alicia"}))
	got, err := users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alicia", got.Name)
	assert.Equal(t, "$2a$10$hash", got.PasswordHash, "nil hash keeps the stored one")

	newHash := "$2a$10$other"
	require.NoError(t, users.UpdateProfile(ctx, user.ID, domain.ProfileUpdate{Name: "Alicia", NewPasswordHash: &newHash}))
	got, err = users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, newHash, got.PasswordHash)

	require.NoError(t, users.UpdatePassword(ctx, user.ID, "$2a$10$third"))
	got, err = users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "$2a$10$third", got.PasswordHash)
}

func TestSQLiteUserRepository_SetAdmin(t *testing.T) {
	ctx := context.Background()
	users := NewSQLiteUserRepository(newSQLite(t).DB)
	user := insertUser(t, users, "a@x.com")

	require.NoError(t, users.SetAdmin(ctx, "a@x.com", true))
	got, err := users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, got.IsAdmin)
}

func TestSQLiteConversationRepository_ScopedToOwner(t *testing.T) {
	ctx := context.Background()
	db := newSQLite(t).DB
	users := NewSQLiteUserRepository(db)
	convs := NewSQLiteConversationRepository(db)

	alice := insertUser(t, users, "a@x.com")
	bob := insertUser(t, users, "b@x.com")

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	var ids []string
	for i, msg := range []string{"first", "second", "third"} {
		conv := &domain.Conversation{UserID: alice.ID, Message: msg, CreatedAt: base.Add(time.Duration(i) * time.Minute)}
		require.NoError(t, convs.Create(ctx, conv))
		ids = append(ids, conv.ID)
	}
	require.NoError(t, convs.Create(ctx, &domain.Conversation{UserID: bob.ID, Message: "bob's"}))

	list, err := convs.ListByUser(ctx, alice.ID, 0)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "third", list[0].Message)
	assert.Equal(t, "first", list[2].Message)
	assert.True(t, list[0].CreatedAt.Equal(base.Add(2*time.Minute)))

	limited, err := convs.ListByUser(ctx, alice.ID, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)

	_, err = convs.GetForUser(ctx, bob.ID, ids[0])
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, convs.DeleteForUser(ctx, bob.ID, ids[0]), domain.ErrNotFound)
	assert.ErrorIs(t, convs.SetReply(ctx, bob.ID, ids[0], "hijack"), domain.ErrNotFound)

	require.NoError(t, convs.SetReply(ctx, alice.ID, ids[0], "hello back"))
	got, err := convs.GetForUser(ctx, alice.ID, ids[0])
	require.NoError(t, err)
	assert.Equal(t, "hello back", got.Reply)

	counts, err := convs.CountByUser(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, ConversationCounts{Conversations: 3, Replies: 1}, counts)

	require.NoError(t, convs.DeleteForUser(ctx, alice.ID, ids[1]))
	_, err = convs.GetForUser(ctx, alice.ID, ids[1])
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSQLiteConversationRepository_EmptyCounts(t *testing.T) {
	convs := NewSQLiteConversationRepository(newSQLite(t).DB)

	counts, err := convs.CountByUser(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Zero(t, counts.Conversations)
	assert.Zero(t, counts.Replies)
}

func TestSQLiteAnalyticsRepository_Summarize(t *testing.T) {
	ctx := context.Background()
	db := newSQLite(t).DB
	users := NewSQLiteUserRepository(db)
	events := NewSQLiteAnalyticsRepository(db)

	alice := insertUser(t, users, "a@x.com")
	bob := insertUser(t, users, "b@x.com")

	record := func(userID, name string) {
		ev := &domain.AnalyticsEvent{UserID: userID, Event: name, Data: map[string]any{"source": "test"}}
		require.NoError(t, events.Create(ctx, ev))
		assert.NotEmpty(t, ev.ID)
	}
	record(alice.ID, "message_sent")
	record(alice.ID, "message_sent")
	record(bob.ID, "message_sent")
	record(bob.ID, "page_view")

	summary, err := events.Summarize(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.EventSummary{
		{Event: "message_sent", Count: 3, UniqueUsers: 2},
		{Event: "page_view", Count: 1, UniqueUsers: 1},
	}, summary)
}
