package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/aiu/stimulus/internal/app/models"
	"github.com/aiu/stimulus/internal/app/models/dto"
	"github.com/aiu/stimulus/internal/app/repositories"
	"github.com/aiu/stimulus/internal/pkg/apperrors"
)

// CoauthorService handles the shared coauthor directory. Any authenticated
// user may browse and edit entries; only admins delete them.
type CoauthorService struct {
	coauthorRepo *repositories.CoauthorRepository
}

// NewCoauthorService creates a new CoauthorService
func NewCoauthorService(coauthorRepo *repositories.CoauthorRepository) *CoauthorService {
	return &CoauthorService{coauthorRepo: coauthorRepo}
}

// Create adds a standalone coauthor entry.
func (s *CoauthorService) Create(ctx context.Context, req *dto.CoauthorRequest) (*models.Coauthor, error) {
	coauthor := &models.Coauthor{
		FullName:      req.FullName,
		Position:      req.Position,
		Subdivision:   req.Subdivision,
		Telephone:     req.Telephone,
		Email:         req.Email,
		IsAIUEmployee: req.IsAIUEmployee,
	}

	if err := s.coauthorRepo.Create(ctx, coauthor); err != nil {
		return nil, err
	}

	return coauthor, nil
}

// Get retrieves one coauthor.
func (s *CoauthorService) Get(ctx context.Context, id uuid.UUID) (*models.Coauthor, error) {
	return s.coauthorRepo.GetByID(ctx, id)
}

// List retrieves coauthors matching the filter.
func (s *CoauthorService) List(ctx context.Context, req *dto.CoauthorFilterRequest) ([]*models.Coauthor, error) {
	filter := repositories.CoauthorFilter{
		Search:   req.Search,
		Ordering: req.Ordering,
	}
	if req.Subdivision != "" {
		filter.Subdivision = &req.Subdivision
	}
	if req.Position != "" {
		filter.Position = &req.Position
	}

	return s.coauthorRepo.List(ctx, filter)
}

// Update applies a partial update to one coauthor.
func (s *CoauthorService) Update(ctx context.Context, id uuid.UUID, req *dto.CoauthorUpdateRequest) (*models.Coauthor, error) {
	fields := map[string]interface{}{}
	if req.FullName != nil {
		fields["full_name"] = *req.FullName
	}
	if req.Position != nil {
		fields["position"] = *req.Position
	}
	if req.Subdivision != nil {
		fields["subdivision"] = *req.Subdivision
	}
	if req.Telephone != nil {
		fields["telephone"] = *req.Telephone
	}
	if req.Email != nil {
		fields["email"] = *req.Email
	}
	if req.IsAIUEmployee != nil {
		fields["is_aiu_employee"] = *req.IsAIUEmployee
	}

	if err := s.coauthorRepo.UpdateFields(ctx, id, fields); err != nil {
		return nil, err
	}

	return s.coauthorRepo.GetByID(ctx, id)
}

// Delete removes a coauthor. Admin only.
func (s *CoauthorService) Delete(ctx context.Context, actor *models.User, id uuid.UUID) error {
	if !actor.IsAdmin() {
		return apperrors.NewForbiddenError("Только администратор может удалять соавторов.")
	}
	return s.coauthorRepo.Delete(ctx, id)
}
