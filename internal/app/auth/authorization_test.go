package auth

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/aiu/stimulus/internal/app/models"
)

func TestCan(t *testing.T) {
	ownerID := uuid.New()
	owner := &models.User{ID: ownerID, Role: models.RoleResearcher}
	stranger := &models.User{ID: uuid.New(), Role: models.RoleResearcher}
	admin := &models.User{ID: uuid.New(), Role: models.RoleAdmin}

	for _, capability := range []Capability{CapabilityView, CapabilityModify, CapabilityDelete} {
		assert.True(t, Can(owner, capability, ownerID), capability)
		assert.False(t, Can(stranger, capability, ownerID), capability)
		assert.True(t, Can(admin, capability, ownerID), capability)
	}

	assert.False(t, Can(owner, CapabilityReview, ownerID), "owner may not review own application")
	assert.True(t, Can(admin, CapabilityReview, ownerID))
	assert.False(t, Can(nil, CapabilityView, ownerID))
}

func TestCanReview(t *testing.T) {
	assert.True(t, CanReview(&models.User{Role: models.RoleAdmin}))
	assert.False(t, CanReview(&models.User{Role: models.RoleResearcher}))
	assert.False(t, CanReview(nil))
}
