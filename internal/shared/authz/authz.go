// Package authz holds role constants and ownership checks shared by the
// domain modules.
package authz

import "github.com/google/uuid"

// Roles assignable to an account.
const (
	RoleStudent    = "student"
	RoleInstructor = "instructor"
	RoleAdmin      = "admin"
)

// Actor is the authenticated principal performing an operation.
type Actor struct {
	ID   uuid.UUID
	Role string
}

// CanModify reports whether the actor may mutate a resource owned by
// ownerID. Owners may modify their own resources; admins may modify any.
func CanModify(actor Actor, ownerID uuid.UUID) bool {
	return actor.Role == RoleAdmin || actor.ID == ownerID
}

// ValidRole reports whether role is one of the assignable roles.
func ValidRole(role string) bool {
	switch role {
	case RoleStudent, RoleInstructor, RoleAdmin:
		return true
	}
	return false
}
