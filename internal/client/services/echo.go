package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/echoline/internal/client/api"
	"github.com/dmitrijs2005/echoline/internal/client/models"
)

// EchoService maps echo operations onto the gateway, one call each.
type EchoService interface {
	Feed(ctx context.Context, page, limit int) ([]models.Echo, error)
	Get(ctx context.Context, id int64) (models.Echo, error)
	UserEchoes(ctx context.Context, userID int64, page, limit int) ([]models.Echo, error)
	Create(ctx context.Context, content string) (models.Echo, error)
	Delete(ctx context.Context, id int64) error
	Like(ctx context.Context, id int64) error
	Unlike(ctx context.Context, id int64) error
}

type echoService struct {
	client api.Client
}

func NewEchoService(client api.Client) EchoService {
	return &echoService{client: client}
}

func (s *echoService) Feed(ctx context.Context, page, limit int) ([]models.Echo, error) {
	var resp echoesResponse
	path := fmt.Sprintf("/echoes/feed?page=%d&limit=%d", page, limit)
	if err := s.client.Get(ctx, path, &resp); err != nil {
		return nil, fmt.Errorf("fetching feed: %w", err)
	}
	return resp.Echoes, nil
}

func (s *echoService) Get(ctx context.Context, id int64) (models.Echo, error) {
	var resp echoResponse
	if err := s.client.Get(ctx, fmt.Sprintf("/echoes/%d", id), &resp); err != nil {
		return models.Echo{}, fmt.Errorf("fetching echo %d: %w", id, err)
	}
	return resp.Echo, nil
}

func (s *echoService) UserEchoes(ctx context.Context, userID int64, page, limit int) ([]models.Echo, error) {
	var resp echoesResponse
	path := fmt.Sprintf("/users/%d/echoes?page=%d&limit=%d", userID, page, limit)
	if err := s.client.Get(ctx, path, &resp); err != nil {
		return nil, fmt.Errorf("fetching user echoes: %w", err)
	}
	return resp.Echoes, nil
}

// Create posts a new echo and returns the canonical entity the server
// assigned identity and timestamps to. The client reference exists only for
// request tracing; it never becomes the entity's key.
func (s *echoService) Create(ctx context.Context, content string) (models.Echo, error) {
	req := models.CreateEchoRequest{Content: content, ClientRef: uuid.NewString()}
	var resp echoResponse
	if err := s.client.Post(ctx, "/echoes", req, &resp); err != nil {
		return models.Echo{}, fmt.Errorf("creating echo: %w", err)
	}
	return resp.Echo, nil
}

func (s *echoService) Delete(ctx context.Context, id int64) error {
	var resp messageResponse
	if err := s.client.Delete(ctx, fmt.Sprintf("/echoes/%d", id), &resp); err != nil {
		return fmt.Errorf("deleting echo %d: %w", id, err)
	}
	return nil
}

func (s *echoService) Like(ctx context.Context, id int64) error {
	var resp messageResponse
	if err := s.client.Post(ctx, fmt.Sprintf("/echoes/%d/like", id), nil, &resp); err != nil {
		return fmt.Errorf("liking echo %d: %w", id, err)
	}
	return nil
}

func (s *echoService) Unlike(ctx context.Context, id int64) error {
	var resp messageResponse
	if err := s.client.Delete(ctx, fmt.Sprintf("/echoes/%d/like", id), &resp); err != nil {
		return fmt.Errorf("unliking echo %d: %w", id, err)
	}
	return nil
}
