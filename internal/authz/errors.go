package authz

import "errors"

var (
	// ErrUnauthorized is returned when the actor may not perform the action.
	ErrUnauthorized = errors.New("authz: unauthorized")
	// ErrNoPolicyDefined is returned when no policy is registered for the
	// resource type.
	ErrNoPolicyDefined = errors.New("authz: no policy defined for resource type")
)
