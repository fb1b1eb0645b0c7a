// Package testutil provides in-memory repository implementations for tests.
package testutil

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/blog-service/internal/domain"
)

// MemoryUserRepo is an in-memory repository.UserRepository.
type MemoryUserRepo struct {
	mu    sync.Mutex
	seq   int64
	users map[string]*domain.User
}

// NewMemoryUserRepo creates an empty store.
func NewMemoryUserRepo() *MemoryUserRepo {
	return &MemoryUserRepo{users: make(map[string]*domain.User)}
}

func (m *MemoryUserRepo) Create(_ context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	user.ID = m.seq
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	clone := *user
	m.users[user.Username] = &clone
	return nil
}

func (m *MemoryUserRepo) Update(_ context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[user.Username]; !ok {
		return pgx.ErrNoRows
	}
	clone := *user
	m.users[user.Username] = &clone
	return nil
}

func (m *MemoryUserRepo) GetByID(_ context.Context, id int64) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if user.ID == id {
			clone := *user
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m *MemoryUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[username]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *user
	return &clone, nil
}

func (m *MemoryUserRepo) ExistsByUsername(_ context.Context, username string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.users[username]
	return ok, nil
}

func (m *MemoryUserRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if user.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (m *MemoryUserRepo) List(_ context.Context) ([]*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*domain.User, 0, len(m.users))
	for _, user := range m.users {
		clone := *user
		out = append(out, &clone)
	}
	return out, nil
}

// Delete removes an account, simulating identity deletion after token issuance.
func (m *MemoryUserRepo) Delete(username string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.users, username)
}

// SetRole changes an account role in place.
func (m *MemoryUserRepo) SetRole(username string, role domain.UserRole) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if user, ok := m.users[username]; ok {
		user.Role = role
	}
}

// MemoryPostRepo is an in-memory repository.PostRepository.
type MemoryPostRepo struct {
	mu    sync.Mutex
	seq   int64
	posts map[int64]*domain.Post
}

// NewMemoryPostRepo creates an empty store.
func NewMemoryPostRepo() *MemoryPostRepo {
	return &MemoryPostRepo{posts: make(map[int64]*domain.Post)}
}

func (m *MemoryPostRepo) Create(_ context.Context, post *domain.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	post.ID = m.seq
	post.CreatedAt = time.Now()
	post.UpdatedAt = post.CreatedAt
	clone := *post
	m.posts[post.ID] = &clone
	return nil
}

func (m *MemoryPostRepo) Update(_ context.Context, post *domain.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.posts[post.ID]; !ok {
		return pgx.ErrNoRows
	}
	clone := *post
	m.posts[post.ID] = &clone
	return nil
}

func (m *MemoryPostRepo) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.posts[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(m.posts, id)
	return nil
}

func (m *MemoryPostRepo) GetByID(_ context.Context, id int64) (*domain.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	post, ok := m.posts[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *post
	return &clone, nil
}

func (m *MemoryPostRepo) List(_ context.Context) ([]*domain.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*domain.Post, 0, len(m.posts))
	for _, post := range m.posts {
		clone := *post
		out = append(out, &clone)
	}
	return out, nil
}

func (m *MemoryPostRepo) ListByAuthor(_ context.Context, authorID int64) ([]*domain.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.Post
	for _, post := range m.posts {
		if post.AuthorID == authorID {
			clone := *post
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (m *MemoryPostRepo) SearchByTitle(_ context.Context, keyword string) ([]*domain.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.Post
	for _, post := range m.posts {
		if strings.Contains(strings.ToLower(post.Title), strings.ToLower(keyword)) {
			clone := *post
			out = append(out, &clone)
		}
	}
	return out, nil
}
