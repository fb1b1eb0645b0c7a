package domain

import "time"

// Post is a user-authored article.
type Post struct {
	ID        int64
	Title     string
	Content   string
	AuthorID  int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsAuthoredBy reports whether the given user owns this post.
func (p *Post) IsAuthoredBy(userID int64) bool {
	return p.AuthorID == userID
}
