package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/aiu/stimulus/internal/app/models/dto"
	"github.com/aiu/stimulus/internal/app/services"
	"github.com/aiu/stimulus/internal/middleware"
)

// CoauthorController handles the standalone coauthor directory endpoints
type CoauthorController struct {
	coauthorService *services.CoauthorService
	logger          zerolog.Logger
}

// NewCoauthorController creates a new CoauthorController
func NewCoauthorController(coauthorService *services.CoauthorService, logger zerolog.Logger) *CoauthorController {
	return &CoauthorController{
		coauthorService: coauthorService,
		logger:          logger,
	}
}

// Create handles coauthor creation
// @Summary Create a coauthor
// @Tags coauthors
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CoauthorRequest true "Coauthor fields"
// @Success 201 {object} dto.APIResponse{data=dto.CoauthorResponse} "Coauthor created"
// @Failure 400 {object} dto.ErrorResponse "Validation error"
// @Router /coauthors [post]
func (c *CoauthorController) Create(ctx *gin.Context) {
	var req dto.CoauthorRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.HandleValidationError(err)
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	coauthor, err := c.coauthorService.Create(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.APIResponse{Data: dto.NewCoauthorResponse(coauthor)})
}

// List handles coauthor listing
// @Summary List coauthors
// @Tags coauthors
// @Produce json
// @Security BearerAuth
// @Param subdivision query string false "Filter by subdivision"
// @Param position query string false "Filter by position"
// @Param ordering query string false "full_name | email | created_at, prefix with - for descending"
// @Param search query string false "Matches name, email, telephone, subdivision or position"
// @Success 200 {object} dto.APIResponse{data=[]dto.CoauthorResponse} "Coauthors"
// @Router /coauthors [get]
func (c *CoauthorController) List(ctx *gin.Context) {
	var req dto.CoauthorFilterRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		errorDetail := dto.HandleValidationError(err)
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	coauthors, err := c.coauthorService.List(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	responses := make([]*dto.CoauthorResponse, 0, len(coauthors))
	for _, coauthor := range coauthors {
		responses = append(responses, dto.NewCoauthorResponse(coauthor))
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{Data: responses})
}

// Get handles single coauthor retrieval
// @Summary Get a coauthor
// @Tags coauthors
// @Produce json
// @Security BearerAuth
// @Param id path string true "Coauthor ID"
// @Success 200 {object} dto.APIResponse{data=dto.CoauthorResponse} "Coauthor"
// @Failure 404 {object} dto.ErrorResponse "Not found"
// @Router /coauthors/{id} [get]
func (c *CoauthorController) Get(ctx *gin.Context) {
	id, ok := parseIDParam(ctx)
	if !ok {
		return
	}

	coauthor, err := c.coauthorService.Get(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{Data: dto.NewCoauthorResponse(coauthor)})
}

// Update handles partial coauthor updates
// @Summary Update a coauthor
// @Tags coauthors
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Coauthor ID"
// @Param request body dto.CoauthorUpdateRequest true "Fields to update"
// @Success 200 {object} dto.APIResponse{data=dto.CoauthorResponse} "Updated coauthor"
// @Failure 400 {object} dto.ErrorResponse "Validation error"
// @Failure 404 {object} dto.ErrorResponse "Not found"
// @Router /coauthors/{id} [patch]
func (c *CoauthorController) Update(ctx *gin.Context) {
	id, ok := parseIDParam(ctx)
	if !ok {
		return
	}

	var req dto.CoauthorUpdateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.HandleValidationError(err)
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	coauthor, err := c.coauthorService.Update(ctx.Request.Context(), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{Data: dto.NewCoauthorResponse(coauthor)})
}

// Delete handles coauthor deletion (admin only)
// @Summary Delete a coauthor
// @Tags coauthors
// @Security BearerAuth
// @Param id path string true "Coauthor ID"
// @Success 204 "Deleted"
// @Failure 403 {object} dto.ErrorResponse "Admin only"
// @Failure 404 {object} dto.ErrorResponse "Not found"
// @Router /coauthors/{id} [delete]
func (c *CoauthorController) Delete(ctx *gin.Context) {
	id, ok := parseIDParam(ctx)
	if !ok {
		return
	}

	if err := c.coauthorService.Delete(ctx.Request.Context(), middleware.CurrentUser(ctx), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Str("coauthorID", id.String()).Msg("Coauthor deleted")
	ctx.Status(http.StatusNoContent)
}
