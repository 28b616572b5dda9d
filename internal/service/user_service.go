package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk-api/internal/auth"
	"github.com/spec-kit/helpdesk-api/internal/authz"
	"github.com/spec-kit/helpdesk-api/internal/domain"
	"github.com/spec-kit/helpdesk-api/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-api/pkg/util"
)

// UserService is the user/role registry: it maps external identities to
// application accounts and owns role and activation changes.
type UserService struct {
	users repository.UserRepository
	gate  *authz.Gate
}

// UserDependencies bundles collaborators for the user service.
type UserDependencies struct {
	UserRepo repository.UserRepository
	Gate     *authz.Gate
}

// ProfileUpdateInput carries optional profile fields; at least one must be set.
type ProfileUpdateInput struct {
	Name     *string
	JobTitle *string
}

// NewUserService constructs the service.
func NewUserService(deps UserDependencies) *UserService {
	return &UserService{users: deps.UserRepo, gate: deps.Gate}
}

// GetOrCreate resolves the account for an identity, creating it on first
// contact. The upsert is idempotent: exactly one account exists per identity.
func (s *UserService) GetOrCreate(ctx context.Context, identity *auth.Identity) (*domain.User, error) {
	account, err := s.users.GetByID(ctx, identity.ID)
	if err == nil {
		return account, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}

	name := strings.TrimSpace(identity.FullName)
	if name == "" {
		name = identity.Email
	}
	created := &domain.User{
		ID:       identity.ID,
		Name:     name,
		Email:    identity.Email,
		Role:     domain.RoleUser,
		Active:   true,
		JobTitle: domain.DefaultJobTitle,
	}
	if err := s.users.Create(ctx, created); err != nil {
		return nil, apperrors.MapError(err)
	}
	// re-read: a concurrent first request may have won the insert
	account, err = s.users.GetByID(ctx, identity.ID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return account, nil
}

// GetByID returns an account visible to the actor. Inactive accounts are
// treated as absent for lookups.
func (s *UserService) GetByID(ctx context.Context, actor *domain.User, id string) (*domain.User, error) {
	target, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user")
		}
		return nil, apperrors.MapError(err)
	}
	if !s.gate.Can(ctx, actor, authz.ActionView, authz.ResourceUser, target) {
		return nil, apperrors.NewForbidden("not allowed to view this account")
	}
	if !target.Active {
		return nil, apperrors.NewNotFound("user")
	}
	return target, nil
}

// IsAdmin reports whether the account is an active administrator.
func (s *UserService) IsAdmin(ctx context.Context, id string) bool {
	account, err := s.users.GetByID(ctx, id)
	if err != nil {
		return false
	}
	return account.IsAdmin()
}

// IsAgentOrAdmin reports whether the account is active staff.
func (s *UserService) IsAgentOrAdmin(ctx context.Context, id string) bool {
	account, err := s.users.GetByID(ctx, id)
	if err != nil {
		return false
	}
	return account.IsAgentOrAdmin()
}

// List returns every account, administrator only.
func (s *UserService) List(ctx context.Context, actor *domain.User) ([]domain.User, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.NewForbidden("administrator role required")
	}
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return users, nil
}

// ListAgents returns active agents and administrators.
func (s *UserService) ListAgents(ctx context.Context, actor *domain.User) ([]domain.User, error) {
	if !actor.IsAgentOrAdmin() {
		return nil, apperrors.NewForbidden("agent or administrator role required")
	}
	agents, err := s.users.ListByRoles(ctx, domain.RoleAgent, domain.RoleAdministrator)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return agents, nil
}

// UpdateRole changes the role of an account, administrator only.
func (s *UserService) UpdateRole(ctx context.Context, actor *domain.User, targetID string, role domain.Role) (*domain.User, error) {
	if !role.IsValid() {
		return nil, apperrors.NewValidationError("role must be 1 (User), 2 (Agent) or 3 (Administrator)")
	}
	target, err := s.fetchForAdmin(ctx, actor, targetID)
	if err != nil {
		return nil, err
	}
	target.Role = role
	if err := s.users.Update(ctx, target); err != nil {
		return nil, apperrors.MapError(err)
	}
	return target, nil
}

// Deactivate soft-disables an account. Administrators may not deactivate
// their own account.
func (s *UserService) Deactivate(ctx context.Context, actor *domain.User, targetID string) (*domain.User, error) {
	if actor != nil && actor.ID == targetID {
		return nil, apperrors.NewValidationError("cannot deactivate your own account")
	}
	target, err := s.fetchForAdmin(ctx, actor, targetID)
	if err != nil {
		return nil, err
	}
	target.Active = false
	if err := s.users.Update(ctx, target); err != nil {
		return nil, apperrors.MapError(err)
	}
	return target, nil
}

// Activate re-enables a soft-disabled account.
func (s *UserService) Activate(ctx context.Context, actor *domain.User, targetID string) (*domain.User, error) {
	target, err := s.fetchForAdmin(ctx, actor, targetID)
	if err != nil {
		return nil, err
	}
	target.Active = true
	if err := s.users.Update(ctx, target); err != nil {
		return nil, apperrors.MapError(err)
	}
	return target, nil
}

// UpdateProfile changes the caller's own name and/or job title.
func (s *UserService) UpdateProfile(ctx context.Context, actor *domain.User, input ProfileUpdateInput) (*domain.User, error) {
	if input.Name == nil && input.JobTitle == nil {
		return nil, apperrors.NewValidationError("at least one of name or job_title is required")
	}
	account, err := s.users.GetByID(ctx, actor.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user")
		}
		return nil, apperrors.MapError(err)
	}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, apperrors.NewValidationError("name cannot be empty")
		}
		account.Name = name
	}
	if input.JobTitle != nil {
		account.JobTitle = strings.TrimSpace(*input.JobTitle)
	}
	if err := s.users.Update(ctx, account); err != nil {
		return nil, apperrors.MapError(err)
	}
	return account, nil
}

// fetchForAdmin loads a target account for an administrator-only mutation.
// Activation toggles and role changes apply to inactive accounts too, so no
// active filter here.
func (s *UserService) fetchForAdmin(ctx context.Context, actor *domain.User, targetID string) (*domain.User, error) {
	target, err := s.users.GetByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user")
		}
		return nil, apperrors.MapError(err)
	}
	if err := s.gate.Authorize(ctx, actor, authz.ActionManage, authz.ResourceUser, target); err != nil {
		return nil, apperrors.NewForbidden("administrator role required")
	}
	return target, nil
}
