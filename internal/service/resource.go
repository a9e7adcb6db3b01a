package service

import (
	"context"
	"fmt"
	"maps"

	"github.com/msomdec/relief-supply/internal/domain"
)

// ResourceService exposes CRUD over one document collection.
type ResourceService struct {
	name string
	repo domain.CollectionRepository
}

// NewResourceService creates a ResourceService for the named collection.
func NewResourceService(name string, repo domain.CollectionRepository) *ResourceService {
	return &ResourceService{name: name, repo: repo}
}

// Create stores fields verbatim as a new document. A client-supplied id
// field is dropped; the store assigns the identifier.
func (s *ResourceService) Create(ctx context.Context, fields map[string]any) (*domain.Document, error) {
	if fields == nil {
		return nil, fmt.Errorf("%w: document body must be a JSON object", domain.ErrInvalidInput)
	}
	clean := maps.Clone(fields)
	delete(clean, domain.IDField)

	doc, err := s.repo.Insert(ctx, clean)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", s.name, err)
	}
	return doc, nil
}

// List returns every document in the collection.
func (s *ResourceService) List(ctx context.Context) ([]domain.Document, error) {
	docs, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", s.name, err)
	}
	return docs, nil
}

// Get returns one document. A malformed id yields domain.ErrInvalidID and a
// missing document domain.ErrNotFound.
func (s *ResourceService) Get(ctx context.Context, id string) (*domain.Document, error) {
	id, err := domain.ParseID(id)
	if err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

// Update writes exactly the given fields onto the document.
func (s *ResourceService) Update(ctx context.Context, id string, fields map[string]any) (domain.UpdateResult, error) {
	id, err := domain.ParseID(id)
	if err != nil {
		return domain.UpdateResult{}, err
	}
	clean := maps.Clone(fields)
	delete(clean, domain.IDField)

	res, err := s.repo.SetFields(ctx, id, clean)
	if err != nil {
		return domain.UpdateResult{}, fmt.Errorf("update %s: %w", s.name, err)
	}
	return res, nil
}

// Delete removes a document. Deleting a missing document succeeds.
func (s *ResourceService) Delete(ctx context.Context, id string) error {
	id, err := domain.ParseID(id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete %s: %w", s.name, err)
	}
	return nil
}
