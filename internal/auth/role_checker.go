package auth

import "github.com/frahmantamala/onboarding-tracker/internal"

// RoleChecker decides whether an identity may call an operation gated on roles.
type RoleChecker interface {
	HasAnyRole(identity *internal.Identity, roles ...string) bool
}

type DefaultRoleChecker struct{}

func NewRoleChecker() RoleChecker {
	return &DefaultRoleChecker{}
}

func (c *DefaultRoleChecker) HasAnyRole(identity *internal.Identity, roles ...string) bool {
	if identity == nil {
		return false
	}
	for _, role := range roles {
		if identity.Role == role {
			return true
		}
	}
	return false
}
