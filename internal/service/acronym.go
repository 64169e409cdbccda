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

// AcronymServiceOptions groups dependencies for AcronymService.
type AcronymServiceOptions struct {
	Acronyms   ports.AcronymRepository
	Categories ports.CategoryRepository
	Reconciler *Reconciler
}

// AcronymService handles acronym CRUD and keeps each acronym's category
// links converged with the names submitted alongside it.
type AcronymService struct {
	acronyms   ports.AcronymRepository
	categories ports.CategoryRepository
	reconciler *Reconciler
}

// NewAcronymService constructs a new AcronymService.
func NewAcronymService(opts AcronymServiceOptions) *AcronymService {
	return &AcronymService{
		acronyms:   opts.Acronyms,
		categories: opts.Categories,
		reconciler: opts.Reconciler,
	}
}

// AcronymWithReport pairs an acronym with the outcome of reconciling its
// category links.
type AcronymWithReport struct {
	Acronym *model.Acronym  `json:"acronym"`
	Report  ReconcileReport `json:"categories"`
}

// Create persists a new acronym owned by the user and attaches the submitted
// category names, creating categories on first use.
func (s *AcronymService) Create(ctx context.Context, userID string, in model.AcronymData) (*AcronymWithReport, error) {
	if err := in.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	acr, err := s.acronyms.Create(ctx, ports.CreateAcronymParams{
		Short:  in.Short,
		Long:   in.Long,
		UserID: userID,
	})
	if err != nil {
		return nil, fmt.Errorf("create acronym: %w", err)
	}

	report, err := s.reconciler.Reconcile(ctx, acr.ID, in.Categories)
	if err != nil {
		return nil, err
	}
	return &AcronymWithReport{Acronym: acr, Report: report}, nil
}

// Update rewrites an acronym's fields and reconciles its category links
// toward the submitted names. Ownership moves to the updating user.
func (s *AcronymService) Update(ctx context.Context, id, userID string, in model.AcronymData) (*AcronymWithReport, error) {
	if err := in.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	acr, err := s.acronyms.Update(ctx, id, ports.UpdateAcronymParams{
		Short:  in.Short,
		Long:   in.Long,
		UserID: userID,
	})
	if err != nil {
		if errors.Is(err, data.ErrAcronymNotFound) {
			return nil, apperrors.NotFound("acronym not found")
		}
		return nil, fmt.Errorf("update acronym: %w", err)
	}

	report, err := s.reconciler.Reconcile(ctx, acr.ID, in.Categories)
	if err != nil {
		return nil, err
	}
	return &AcronymWithReport{Acronym: acr, Report: report}, nil
}

// SetCategories reconciles an acronym's category links toward the given
// names without touching its other fields.
func (s *AcronymService) SetCategories(ctx context.Context, id string, names []string) (ReconcileReport, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return ReconcileReport{}, err
	}
	return s.reconciler.Reconcile(ctx, id, names)
}

// Categories returns the categories currently attached to an acronym.
func (s *AcronymService) Categories(ctx context.Context, id string) ([]model.Category, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	cats, err := s.categories.CurrentCategories(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list acronym categories: %w", err)
	}
	return cats, nil
}

// Get returns an acronym by id.
func (s *AcronymService) Get(ctx context.Context, id string) (*model.Acronym, error) {
	acr, err := s.acronyms.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, data.ErrAcronymNotFound) {
			return nil, apperrors.NotFound("acronym not found")
		}
		return nil, fmt.Errorf("get acronym: %w", err)
	}
	return acr, nil
}

// List returns all acronyms.
func (s *AcronymService) List(ctx context.Context) ([]*model.Acronym, error) {
	acrs, err := s.acronyms.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list acronyms: %w", err)
	}
	return acrs, nil
}

// Delete removes an acronym. Its category links go with it.
func (s *AcronymService) Delete(ctx context.Context, id string) error {
	ok, err := s.acronyms.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete acronym: %w", err)
	}
	if !ok {
		return apperrors.NotFound("acronym not found")
	}
	return nil
}

// Search returns acronyms whose short or long form equals the term.
func (s *AcronymService) Search(ctx context.Context, term string) ([]*model.Acronym, error) {
	acrs, err := s.acronyms.Search(ctx, term)
	if err != nil {
		return nil, fmt.Errorf("search acronyms: %w", err)
	}
	return acrs, nil
}

// First returns the first acronym, or a not_found error when the table is
// empty.
func (s *AcronymService) First(ctx context.Context) (*model.Acronym, error) {
	acr, err := s.acronyms.First(ctx)
	if err != nil {
		if errors.Is(err, data.ErrAcronymNotFound) {
			return nil, apperrors.NotFound("no acronyms yet")
		}
		return nil, fmt.Errorf("first acronym: %w", err)
	}
	return acr, nil
}

// Sorted returns all acronyms ordered by short form.
func (s *AcronymService) Sorted(ctx context.Context) ([]*model.Acronym, error) {
	acrs, err := s.acronyms.SortedByShort(ctx)
	if err != nil {
		return nil, fmt.Errorf("sorted acronyms: %w", err)
	}
	return acrs, nil
}
