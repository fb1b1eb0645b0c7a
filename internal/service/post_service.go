package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/blog-service/internal/domain"
	"github.com/spec-kit/blog-service/internal/events"
	"github.com/spec-kit/blog-service/internal/repository"
)

// PostService coordinates post CRUD. Write operations are restricted to the
// post's author; the caller identity comes from the bound principal, not from
// request payload.
type PostService struct {
	posts      repository.PostRepository
	users      repository.UserRepository
	dispatcher events.Dispatcher
}

// NewPostService builds the service.
func NewPostService(posts repository.PostRepository, users repository.UserRepository, dispatcher events.Dispatcher) *PostService {
	return &PostService{posts: posts, users: users, dispatcher: dispatcher}
}

// Create stores a new post authored by the given user.
func (s *PostService) Create(ctx context.Context, title, content string, authorID int64) (*domain.Post, error) {
	author, err := s.users.GetByID(ctx, authorID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	post := &domain.Post{
		Title:    title,
		Content:  content,
		AuthorID: author.ID,
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventPostCreated, author.ID, author.Username, post)
	return post, nil
}

// Update modifies title/content when the caller authored the post.
func (s *PostService) Update(ctx context.Context, postID int64, title, content string, callerID int64) (*domain.Post, error) {
	post, err := s.getPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if !post.IsAuthoredBy(callerID) {
		return nil, ErrNotPostAuthor
	}

	post.Title = title
	post.Content = content
	if err := s.posts.Update(ctx, post); err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventPostUpdated, callerID, "", post)
	return post, nil
}

// Delete removes a post when the caller authored it.
func (s *PostService) Delete(ctx context.Context, postID, callerID int64) error {
	post, err := s.getPost(ctx, postID)
	if err != nil {
		return err
	}
	if !post.IsAuthoredBy(callerID) {
		return ErrNotPostAuthor
	}

	if err := s.posts.Delete(ctx, postID); err != nil {
		return err
	}

	s.publish(ctx, events.EventPostDeleted, callerID, "", post)
	return nil
}

// GetByID returns one post.
func (s *PostService) GetByID(ctx context.Context, id int64) (*domain.Post, error) {
	return s.getPost(ctx, id)
}

// List returns all posts, newest first.
func (s *PostService) List(ctx context.Context) ([]*domain.Post, error) {
	return s.posts.List(ctx)
}

// ListByAuthor returns one author's posts.
func (s *PostService) ListByAuthor(ctx context.Context, authorID int64) ([]*domain.Post, error) {
	return s.posts.ListByAuthor(ctx, authorID)
}

// SearchByTitle returns posts whose title contains the keyword.
func (s *PostService) SearchByTitle(ctx context.Context, keyword string) ([]*domain.Post, error) {
	return s.posts.SearchByTitle(ctx, keyword)
}

func (s *PostService) getPost(ctx context.Context, id int64) (*domain.Post, error) {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return post, nil
}

func (s *PostService) publish(ctx context.Context, eventType events.EventType, userID int64, username string, post *domain.Post) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		UserID:    userID,
		Username:  username,
		Timestamp: time.Now(),
		Payload:   events.PostEventPayload{PostID: post.ID, Title: post.Title},
	})
}
