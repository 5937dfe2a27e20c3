package models

import "time"

// Echo is one post in the feed. Values are snapshots: mutation helpers
// return a modified copy, they never change the receiver.
type Echo struct {
	ID         int64       `json:"id"`
	UserID     int64       `json:"user_id"`
	Content    string      `json:"content"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
	Author     UserSummary `json:"user"`
	LikesCount int         `json:"likes_count"`
	IsLiked    bool        `json:"is_liked"`
}

// Key returns the collection key for the echo.
func (e Echo) Key() int64 { return e.ID }

// WithLiked returns a copy with the liked flag set and the like counter moved
// by one in the matching direction. The counter never goes below zero, even
// when a stale unlike decrements an already-zero count.
func (e Echo) WithLiked(liked bool) Echo {
	if liked {
		e.LikesCount++
	} else {
		e.LikesCount = clampCount(e.LikesCount - 1)
	}
	e.IsLiked = liked
	return e
}

func clampCount(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
