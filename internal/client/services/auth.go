package services

import (
	"context"
	"fmt"
	"net/url"

	"github.com/dmitrijs2005/echoline/internal/client/api"
	"github.com/dmitrijs2005/echoline/internal/client/models"
)

// AuthService maps authentication operations onto the gateway. It does not
// touch the session store: callers decide what to do with the returned
// identity and credential.
type AuthService interface {
	Register(ctx context.Context, req models.RegisterRequest) (models.AuthResponse, error)
	Login(ctx context.Context, username, password string) (models.AuthResponse, error)
	VerifyEmail(ctx context.Context, token string) (string, error)
	ResendVerification(ctx context.Context, email string) (string, error)
}

type authService struct {
	client api.Client
}

func NewAuthService(client api.Client) AuthService {
	return &authService{client: client}
}

func (s *authService) Register(ctx context.Context, req models.RegisterRequest) (models.AuthResponse, error) {
	var resp models.AuthResponse
	if err := s.client.Post(ctx, "/auth/register", req, &resp); err != nil {
		return models.AuthResponse{}, fmt.Errorf("registering: %w", err)
	}
	return resp, nil
}

func (s *authService) Login(ctx context.Context, username, password string) (models.AuthResponse, error) {
	req := models.LoginRequest{Username: username, Password: password}
	var resp models.AuthResponse
	if err := s.client.Post(ctx, "/auth/login", req, &resp); err != nil {
		return models.AuthResponse{}, fmt.Errorf("logging in: %w", err)
	}
	return resp, nil
}

func (s *authService) VerifyEmail(ctx context.Context, token string) (string, error) {
	var resp messageResponse
	path := "/auth/verify-email?token=" + url.QueryEscape(token)
	if err := s.client.Get(ctx, path, &resp); err != nil {
		return "", fmt.Errorf("verifying email: %w", err)
	}
	return resp.Message, nil
}

func (s *authService) ResendVerification(ctx context.Context, email string) (string, error) {
	var resp messageResponse
	body := map[string]string{"email": email}
	if err := s.client.Post(ctx, "/auth/resend-verification", body, &resp); err != nil {
		return "", fmt.Errorf("resending verification: %w", err)
	}
	return resp.Message, nil
}
