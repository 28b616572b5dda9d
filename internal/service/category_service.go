package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk-api/internal/authz"
	"github.com/spec-kit/helpdesk-api/internal/domain"
	"github.com/spec-kit/helpdesk-api/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-api/pkg/util"
)

// CategoryService manages ticket categories. Reads are open to any
// authenticated caller; writes are administrator-only.
type CategoryService struct {
	categories repository.CategoryRepository
	gate       *authz.Gate
}

// NewCategoryService constructs the service.
func NewCategoryService(categories repository.CategoryRepository, gate *authz.Gate) *CategoryService {
	return &CategoryService{categories: categories, gate: gate}
}

// List returns all categories ordered by name.
func (s *CategoryService) List(ctx context.Context) ([]domain.Category, error) {
	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return categories, nil
}

// GetByID returns one category.
func (s *CategoryService) GetByID(ctx context.Context, id int64) (*domain.Category, error) {
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("category")
		}
		return nil, apperrors.MapError(err)
	}
	return category, nil
}

// Create adds a category, administrator only.
func (s *CategoryService) Create(ctx context.Context, actor *domain.User, name string) (*domain.Category, error) {
	if err := s.authorizeManage(ctx, actor); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewValidationError("name is required")
	}
	category := &domain.Category{Name: name}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, apperrors.MapError(err)
	}
	return category, nil
}

// Update renames a category, administrator only.
func (s *CategoryService) Update(ctx context.Context, actor *domain.User, id int64, name string) (*domain.Category, error) {
	if err := s.authorizeManage(ctx, actor); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewValidationError("name is required")
	}
	category := &domain.Category{ID: id, Name: name}
	if err := s.categories.Update(ctx, category); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("category")
		}
		return nil, apperrors.MapError(err)
	}
	return category, nil
}

// Delete removes a category, administrator only.
func (s *CategoryService) Delete(ctx context.Context, actor *domain.User, id int64) error {
	if err := s.authorizeManage(ctx, actor); err != nil {
		return err
	}
	if err := s.categories.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("category")
		}
		return apperrors.MapError(err)
	}
	return nil
}

func (s *CategoryService) authorizeManage(ctx context.Context, actor *domain.User) error {
	if err := s.gate.Authorize(ctx, actor, authz.ActionManage, authz.ResourceCategory, nil); err != nil {
		return apperrors.NewForbidden("administrator role required")
	}
	return nil
}
