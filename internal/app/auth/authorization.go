// Package auth holds the single capability check every mutating operation
// goes through. Admin/owner branching lives here instead of being repeated
// in each handler.
package auth

import (
	"github.com/google/uuid"

	"github.com/aiu/stimulus/internal/app/models"
)

// Capability is an action an actor may attempt on an owned resource.
type Capability string

const (
	CapabilityView   Capability = "view"
	CapabilityModify Capability = "modify"
	CapabilityDelete Capability = "delete"
	CapabilityReview Capability = "review" // approve/reject, exports
)

// Can reports whether actor may exercise the capability on a resource owned
// by ownerID. Admins may do everything; owners may view, modify and delete
// their own resources; review stays admin only.
func Can(actor *models.User, capability Capability, ownerID uuid.UUID) bool {
	if actor == nil {
		return false
	}
	if actor.IsAdmin() {
		return true
	}

	switch capability {
	case CapabilityView, CapabilityModify, CapabilityDelete:
		return actor.ID == ownerID
	default:
		return false
	}
}

// CanReview reports whether actor may run admin review operations.
func CanReview(actor *models.User) bool {
	return actor != nil && actor.IsAdmin()
}
