package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/blog-service/internal/domain"
	"github.com/spec-kit/blog-service/internal/events"
	"github.com/spec-kit/blog-service/internal/testutil"
)

func newTestPostService(t *testing.T) (*PostService, *domain.User, *domain.User) {
	t.Helper()
	users := testutil.NewMemoryUserRepo()
	posts := testutil.NewMemoryPostRepo()
	svc := NewPostService(posts, users, events.NewInMemoryDispatcher())

	alice := &domain.User{Username: "alice", Email: "a@x.com", Role: domain.RoleUser}
	bob := &domain.User{Username: "bob", Email: "b@x.com", Role: domain.RoleUser}
	require.NoError(t, users.Create(context.Background(), alice))
	require.NoError(t, users.Create(context.Background(), bob))
	return svc, alice, bob
}

func TestPostCreateAndGet(t *testing.T) {
	svc, alice, _ := newTestPostService(t)
	ctx := context.Background()

	post, err := svc.Create(ctx, "Hello", "first post", alice.ID)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, post.AuthorID)

	got, err := svc.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hello", got.Title)

	_, err = svc.GetByID(ctx, 999)
	assert.ErrorIs(t, err, ErrPostNotFound)

	_, err = svc.Create(ctx, "Orphan", "no author", 999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestPostUpdateOwnership(t *testing.T) {
	svc, alice, bob := newTestPostService(t)
	ctx := context.Background()

	post, err := svc.Create(ctx, "Hello", "first post", alice.ID)
	require.NoError(t, err)

	_, err = svc.Update(ctx, post.ID, "Edited", "new content", bob.ID)
	assert.ErrorIs(t, err, ErrNotPostAuthor)

	updated, err := svc.Update(ctx, post.ID, "Edited", "new content", alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "Edited", updated.Title)

	_, err = svc.Update(ctx, 999, "x", "y", alice.ID)
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestPostDeleteOwnership(t *testing.T) {
	svc, alice, bob := newTestPostService(t)
	ctx := context.Background()

	post, err := svc.Create(ctx, "Hello", "first post", alice.ID)
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(ctx, post.ID, bob.ID), ErrNotPostAuthor)
	require.NoError(t, svc.Delete(ctx, post.ID, alice.ID))
	assert.ErrorIs(t, svc.Delete(ctx, post.ID, alice.ID), ErrPostNotFound)
}

func TestPostSearchAndListByAuthor(t *testing.T) {
	svc, alice, bob := newTestPostService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, "Go concurrency", "...", alice.ID)
	require.NoError(t, err)
	_, err = svc.Create(ctx, "Gardening", "...", bob.ID)
	require.NoError(t, err)

	found, err := svc.SearchByTitle(ctx, "go")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Go concurrency", found[0].Title)

	byBob, err := svc.ListByAuthor(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, byBob, 1)
	assert.Equal(t, "Gardening", byBob[0].Title)
}
