package sqlite

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"arbor/internal/domain"
	chatModels "arbor/internal/domain/models/chat"
	chatRepo "arbor/internal/domain/repositories/chat"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store, err := Open(filepath.Join(t.TempDir(), "chat.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return store
}

func createMessage(t *testing.T, repo chatRepo.MessageRepository, content string, parentID *string, role string) *chatModels.Message {
	t.Helper()

	msg := &chatModels.Message{
		Content:  content,
		ParentID: parentID,
		Role:     role,
		Version:  1,
	}
	require.NoError(t, repo.Create(context.Background(), msg))
	require.NotEmpty(t, msg.ID)
	// Keep created_at strictly increasing across inserts
	time.Sleep(2 * time.Millisecond)

	return msg
}

func TestMessageRepository_CreateAndGet(t *testing.T) {
	store := newTestStore(t)
	repo := NewMessageRepository(store)
	ctx := context.Background()

	msg := createMessage(t, repo, "Hello", nil, chatModels.RoleUser)

	got, err := repo.Get(ctx, msg.ID)
	require.NoError(t, err)
	assert.Equal(t, msg.ID, got.ID)
	assert.Equal(t, "Hello", got.Content)
	assert.Nil(t, got.ParentID)
	assert.Equal(t, chatModels.RoleUser, got.Role)
	assert.Equal(t, 1, got.Version)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestMessageRepository_GetNotFound(t *testing.T) {
	store := newTestStore(t)
	repo := NewMessageRepository(store)

	_, err := repo.Get(context.Background(), "no-such-id")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestMessageRepository_IncrementVersion(t *testing.T) {
	store := newTestStore(t)
	repo := NewMessageRepository(store)
	ctx := context.Background()

	msg := createMessage(t, repo, "Hello", nil, chatModels.RoleUser)

	updated, err := repo.IncrementVersion(ctx, msg.ID, "Hello again")
	require.NoError(t, err)
	assert.Equal(t, msg.ID, updated.ID)
	assert.Equal(t, "Hello again", updated.Content)
	assert.Equal(t, 2, updated.Version)

	// No new row was created
	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestMessageRepository_IncrementVersionNotFound(t *testing.T) {
	store := newTestStore(t)
	repo := NewMessageRepository(store)

	_, err := repo.IncrementVersion(context.Background(), "no-such-id", "text")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestMessageRepository_ListAllOrdering(t *testing.T) {
	store := newTestStore(t)
	repo := NewMessageRepository(store)
	ctx := context.Background()

	first := createMessage(t, repo, "first", nil, chatModels.RoleUser)
	second := createMessage(t, repo, "second", &first.ID, chatModels.RoleAssistant)
	third := createMessage(t, repo, "third", &second.ID, chatModels.RoleUser)

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, first.ID, all[0].ID)
	assert.Equal(t, second.ID, all[1].ID)
	assert.Equal(t, third.ID, all[2].ID)
}

func TestMessageRepository_ListChildren(t *testing.T) {
	store := newTestStore(t)
	repo := NewMessageRepository(store)
	ctx := context.Background()

	root := createMessage(t, repo, "root", nil, chatModels.RoleUser)
	childA := createMessage(t, repo, "branch a", &root.ID, chatModels.RoleAssistant)
	childB := createMessage(t, repo, "branch b", &root.ID, chatModels.RoleAssistant)
	// A grandchild must not appear among the root's children
	createMessage(t, repo, "grandchild", &childA.ID, chatModels.RoleUser)

	children, err := repo.ListChildren(ctx, root.ID)
	require.NoError(t, err)
	require.Len(t, children, 2)

	ids := []string{children[0].ID, children[1].ID}
	assert.Contains(t, ids, childA.ID)
	assert.Contains(t, ids, childB.ID)
}

func TestMessageRepository_ListChildrenOfLeaf(t *testing.T) {
	store := newTestStore(t)
	repo := NewMessageRepository(store)

	leaf := createMessage(t, repo, "leaf", nil, chatModels.RoleUser)

	children, err := repo.ListChildren(context.Background(), leaf.ID)
	require.NoError(t, err)
	assert.Empty(t, children)
}

func TestMessageRepository_ListByParentOrderedByVersion(t *testing.T) {
	store := newTestStore(t)
	repo := NewMessageRepository(store)
	ctx := context.Background()

	root := createMessage(t, repo, "root", nil, chatModels.RoleUser)
	child := createMessage(t, repo, "reply", &root.ID, chatModels.RoleAssistant)
	_, err := repo.IncrementVersion(ctx, child.ID, "revised reply")
	require.NoError(t, err)

	versions, err := repo.ListByParentOrderedByVersion(ctx, root.ID)
	require.NoError(t, err)
	require.Len(t, versions, 1)
	assert.Equal(t, 2, versions[0].Version)
}

func TestPromptRepository_CreateAndList(t *testing.T) {
	store := newTestStore(t)
	messages := NewMessageRepository(store)
	prompts := NewPromptRepository(store)
	ctx := context.Background()

	msg := createMessage(t, messages, "Hello", nil, chatModels.RoleUser)

	for _, content := range []string{"Hello", "Hello again", "Hello a third time"} {
		p := &chatModels.Prompt{MessageID: msg.ID, Content: content}
		require.NoError(t, prompts.Create(ctx, p))
		require.NotEmpty(t, p.ID)
		time.Sleep(2 * time.Millisecond)
	}

	got, err := prompts.ListForMessage(ctx, msg.ID)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "Hello", got[0].Content)
	assert.Equal(t, "Hello again", got[1].Content)
	assert.Equal(t, "Hello a third time", got[2].Content)
	for _, p := range got {
		assert.Equal(t, msg.ID, p.MessageID)
	}
}

func TestPromptRepository_ListForUnknownMessage(t *testing.T) {
	store := newTestStore(t)
	prompts := NewPromptRepository(store)

	got, err := prompts.ListForMessage(context.Background(), "no-such-id")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestPromptRepository_RejectsOrphanPrompt(t *testing.T) {
	store := newTestStore(t)
	prompts := NewPromptRepository(store)

	err := prompts.Create(context.Background(), &chatModels.Prompt{
		MessageID: "no-such-message",
		Content:   "orphan",
	})
	assert.True(t, errors.Is(err, domain.ErrStore))
}

func TestStore_SchemaIsIdempotent(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	path := filepath.Join(t.TempDir(), "chat.db")

	store, err := Open(path, logger)
	require.NoError(t, err)
	repo := NewMessageRepository(store)
	msg := createMessage(t, repo, "survives reopen", nil, chatModels.RoleUser)
	require.NoError(t, store.Close())

	reopened, err := Open(path, logger)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := NewMessageRepository(reopened).Get(context.Background(), msg.ID)
	require.NoError(t, err)
	assert.Equal(t, "survives reopen", got.Content)
}
