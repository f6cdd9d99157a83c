package services

import (
	"context"
	"errors"

	"github.com/goldenaura/aura-server/internal/model"
	"github.com/goldenaura/aura-server/internal/store"
)

// DirectoryService manages user -> neighborhood assignments. Lookup and
// default registration are two explicit operations; EnsureNeighborhood
// composes them for callers that want the historical
// lookup-with-insert behavior.
type DirectoryService struct {
	store               store.Store
	defaultNeighborhood string
}

func NewDirectoryService(s store.Store, defaultNeighborhood string) *DirectoryService {
	return &DirectoryService{store: s, defaultNeighborhood: defaultNeighborhood}
}

// Lookup returns the user's neighborhood or model.ErrNotFound.
func (s *DirectoryService) Lookup(ctx context.Context, userID string) (string, error) {
	e, err := s.store.Directory().Get(ctx, userID)
	if err != nil {
		return "", err
	}
	return e.Neighborhood, nil
}

// RegisterDefault assigns the fallback neighborhood to a user.
func (s *DirectoryService) RegisterDefault(ctx context.Context, userID string) (string, error) {
	if _, err := s.store.Directory().Upsert(ctx, &model.DirectoryEntry{UserID: userID, Neighborhood: s.defaultNeighborhood}); err != nil {
		return "", err
	}
	return s.defaultNeighborhood, nil
}

// EnsureNeighborhood returns the assigned neighborhood, registering the
// default for first-seen users. Idempotent after the first call.
func (s *DirectoryService) EnsureNeighborhood(ctx context.Context, userID string) (string, error) {
	n, err := s.Lookup(ctx, userID)
	if err == nil {
		return n, nil
	}
	if !errors.Is(err, model.ErrNotFound) {
		return "", err
	}
	return s.RegisterDefault(ctx, userID)
}

// SetNeighborhood upserts an explicit assignment, last write wins.
func (s *DirectoryService) SetNeighborhood(ctx context.Context, userID, neighborhood string) (*model.DirectoryEntry, error) {
	if userID == "" || neighborhood == "" {
		return nil, model.ErrValidation
	}
	return s.store.Directory().Upsert(ctx, &model.DirectoryEntry{UserID: userID, Neighborhood: neighborhood})
}
