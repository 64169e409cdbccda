package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/tilworks/glossary/internal/data"
	"github.com/tilworks/glossary/internal/domain/model"
	apperrors "github.com/tilworks/glossary/internal/errors"
	"github.com/tilworks/glossary/internal/ports"
)

// CategoryService handles category lookups and explicit link management.
type CategoryService struct {
	categories ports.CategoryRepository
	acronyms   ports.AcronymRepository
}

// NewCategoryService constructs a new CategoryService.
func NewCategoryService(categories ports.CategoryRepository, acronyms ports.AcronymRepository) *CategoryService {
	return &CategoryService{categories: categories, acronyms: acronyms}
}

// Ensure returns the category with the given name, creating it when absent.
func (s *CategoryService) Ensure(ctx context.Context, name string) (*model.Category, error) {
	if err := model.ValidateCategoryName(name); err != nil {
		return nil, apperrors.Validation(err.Error())
	}
	cat, err := s.categories.FindOrCreateCategory(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("ensure category: %w", err)
	}
	return cat, nil
}

// Get returns a category by id.
func (s *CategoryService) Get(ctx context.Context, id string) (*model.Category, error) {
	cat, err := s.categories.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, data.ErrCategoryNotFound) {
			return nil, apperrors.NotFound("category not found")
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return cat, nil
}

// List returns all categories ordered by name.
func (s *CategoryService) List(ctx context.Context) ([]*model.Category, error) {
	cats, err := s.categories.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return cats, nil
}

// Acronyms returns the acronyms attached to a category.
func (s *CategoryService) Acronyms(ctx context.Context, categoryID string) ([]*model.Acronym, error) {
	if _, err := s.Get(ctx, categoryID); err != nil {
		return nil, err
	}
	acrs, err := s.categories.AcronymsFor(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("list category acronyms: %w", err)
	}
	return acrs, nil
}

// AttachTo links a single category to an acronym. Both rows must exist.
func (s *CategoryService) AttachTo(ctx context.Context, acronymID, categoryID string) error {
	if err := s.checkPair(ctx, acronymID, categoryID); err != nil {
		return err
	}
	if err := s.categories.Attach(ctx, acronymID, categoryID); err != nil {
		return fmt.Errorf("attach category: %w", err)
	}
	return nil
}

// DetachFrom unlinks a single category from an acronym. Detaching an absent
// link succeeds.
func (s *CategoryService) DetachFrom(ctx context.Context, acronymID, categoryID string) error {
	if err := s.checkPair(ctx, acronymID, categoryID); err != nil {
		return err
	}
	if err := s.categories.Detach(ctx, acronymID, categoryID); err != nil {
		return fmt.Errorf("detach category: %w", err)
	}
	return nil
}

func (s *CategoryService) checkPair(ctx context.Context, acronymID, categoryID string) error {
	if _, err := s.acronyms.GetByID(ctx, acronymID); err != nil {
		if errors.Is(err, data.ErrAcronymNotFound) {
			return apperrors.NotFound("acronym not found")
		}
		return fmt.Errorf("get acronym: %w", err)
	}
	if _, err := s.Get(ctx, categoryID); err != nil {
		return err
	}
	return nil
}
