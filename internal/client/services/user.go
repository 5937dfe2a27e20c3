package services

import (
	"context"
	"fmt"
	"net/url"

	"github.com/dmitrijs2005/echoline/internal/client/api"
	"github.com/dmitrijs2005/echoline/internal/client/models"
)

// UserService maps profile and follow-graph operations onto the gateway.
type UserService interface {
	Profile(ctx context.Context, id int64) (models.UserProfile, error)
	UpdateProfile(ctx context.Context, req models.UpdateProfileRequest) (models.UserProfile, error)
	Follow(ctx context.Context, id int64) error
	Unfollow(ctx context.Context, id int64) error
	Followers(ctx context.Context, id int64, page, limit int) ([]models.UserProfile, error)
	Following(ctx context.Context, id int64, page, limit int) ([]models.UserProfile, error)
	Suggestions(ctx context.Context, limit int) ([]models.UserProfile, error)
	Search(ctx context.Context, query string, page, limit int) ([]models.UserProfile, error)
}

type userService struct {
	client api.Client
}

func NewUserService(client api.Client) UserService {
	return &userService{client: client}
}

func (s *userService) Profile(ctx context.Context, id int64) (models.UserProfile, error) {
	var resp userResponse
	if err := s.client.Get(ctx, fmt.Sprintf("/users/%d", id), &resp); err != nil {
		return models.UserProfile{}, fmt.Errorf("fetching profile %d: %w", id, err)
	}
	return resp.User, nil
}

func (s *userService) UpdateProfile(ctx context.Context, req models.UpdateProfileRequest) (models.UserProfile, error) {
	var resp userResponse
	if err := s.client.Put(ctx, "/users/profile", req, &resp); err != nil {
		return models.UserProfile{}, fmt.Errorf("updating profile: %w", err)
	}
	return resp.User, nil
}

func (s *userService) Follow(ctx context.Context, id int64) error {
	var resp messageResponse
	if err := s.client.Post(ctx, fmt.Sprintf("/users/%d/follow", id), nil, &resp); err != nil {
		return fmt.Errorf("following user %d: %w", id, err)
	}
	return nil
}

func (s *userService) Unfollow(ctx context.Context, id int64) error {
	var resp messageResponse
	if err := s.client.Delete(ctx, fmt.Sprintf("/users/%d/follow", id), &resp); err != nil {
		return fmt.Errorf("unfollowing user %d: %w", id, err)
	}
	return nil
}

func (s *userService) Followers(ctx context.Context, id int64, page, limit int) ([]models.UserProfile, error) {
	var resp usersResponse
	path := fmt.Sprintf("/users/%d/followers?page=%d&limit=%d", id, page, limit)
	if err := s.client.Get(ctx, path, &resp); err != nil {
		return nil, fmt.Errorf("fetching followers: %w", err)
	}
	return resp.Users, nil
}

func (s *userService) Following(ctx context.Context, id int64, page, limit int) ([]models.UserProfile, error) {
	var resp usersResponse
	path := fmt.Sprintf("/users/%d/following?page=%d&limit=%d", id, page, limit)
	if err := s.client.Get(ctx, path, &resp); err != nil {
		return nil, fmt.Errorf("fetching following: %w", err)
	}
	return resp.Users, nil
}

func (s *userService) Suggestions(ctx context.Context, limit int) ([]models.UserProfile, error) {
	var resp usersResponse
	path := fmt.Sprintf("/users/suggestions?limit=%d", limit)
	if err := s.client.Get(ctx, path, &resp); err != nil {
		return nil, fmt.Errorf("fetching suggestions: %w", err)
	}
	return resp.Users, nil
}

func (s *userService) Search(ctx context.Context, query string, page, limit int) ([]models.UserProfile, error) {
	var resp usersResponse
	path := fmt.Sprintf("/users/search?q=%s&page=%d&limit=%d", url.QueryEscape(query), page, limit)
	if err := s.client.Get(ctx, path, &resp); err != nil {
		return nil, fmt.Errorf("searching users: %w", err)
	}
	return resp.Users, nil
}
