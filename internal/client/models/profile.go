package models

import "time"

// UserProfile is a full user record as returned by profile, suggestion and
// search endpoints.
type UserProfile struct {
	ID             int64     `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email,omitempty"`
	DisplayName    string    `json:"display_name"`
	Bio            string    `json:"bio,omitempty"`
	AvatarURL      string    `json:"avatar_url,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	FollowersCount int       `json:"followers_count"`
	FollowingCount int       `json:"following_count"`
	EchoesCount    int       `json:"echoes_count"`
	IsFollowing    bool      `json:"is_following"`
}

// Key returns the collection key for the profile.
func (u UserProfile) Key() int64 { return u.ID }

// WithFollowing returns a copy with the following flag set and the follower
// counter moved by one in the matching direction, clamped at zero.
func (u UserProfile) WithFollowing(following bool) UserProfile {
	if following {
		u.FollowersCount++
	} else {
		u.FollowersCount = clampCount(u.FollowersCount - 1)
	}
	u.IsFollowing = following
	return u
}
