// Package authz is the central authorization checkpoint. A Gate registers
// one Policy per resource type; services ask the gate instead of repeating
// ad hoc role and ownership checks per handler.
package authz

import (
	"context"

	"github.com/spec-kit/helpdesk-api/internal/domain"
)

// Action identifies what the actor wants to do with a resource.
type Action string

const (
	ActionView   Action = "view"
	ActionUpdate Action = "update"
	ActionReturn Action = "return"
	ActionWrite  Action = "write"
	ActionDelete Action = "delete"
	ActionManage Action = "manage"
)

// Policy defines authorization rules for one resource type.
type Policy interface {
	Can(ctx context.Context, actor *domain.User, action Action, resource any) bool
}

// Gate is the registry of policies keyed by resource type name.
type Gate struct {
	policies map[string]Policy
}

// NewGate creates an empty Gate ready to register policies.
func NewGate() *Gate {
	return &Gate{policies: make(map[string]Policy)}
}

// Register adds a policy for a given resource type (e.g. "ticket").
// Overwrites any existing policy for that type.
func (g *Gate) Register(resourceType string, p Policy) {
	g.policies[resourceType] = p
}

// Authorize checks authorization and returns an error if denied. A nil actor
// is always denied; an unregistered resource type is a programming error
// surfaced as ErrNoPolicyDefined.
func (g *Gate) Authorize(ctx context.Context, actor *domain.User, action Action, resourceType string, resource any) error {
	if actor == nil {
		return ErrUnauthorized
	}
	p, ok := g.policies[resourceType]
	if !ok {
		return ErrNoPolicyDefined
	}
	if !p.Can(ctx, actor, action, resource) {
		return ErrUnauthorized
	}
	return nil
}

// Can is a convenience wrapper returning bool instead of error.
func (g *Gate) Can(ctx context.Context, actor *domain.User, action Action, resourceType string, resource any) bool {
	return g.Authorize(ctx, actor, action, resourceType, resource) == nil
}
