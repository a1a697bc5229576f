package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/aiu/stimulus/internal/app/models/dto"
	"github.com/aiu/stimulus/internal/app/services"
	"github.com/aiu/stimulus/internal/middleware"
)

// ApplicationController handles compensation application endpoints
type ApplicationController struct {
	applicationService *services.ApplicationService
	logger             zerolog.Logger
}

// NewApplicationController creates a new ApplicationController
func NewApplicationController(applicationService *services.ApplicationService, logger zerolog.Logger) *ApplicationController {
	return &ApplicationController{
		applicationService: applicationService,
		logger:             logger,
	}
}

// parseIDParam extracts and validates the :id path parameter.
func parseIDParam(ctx *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid id format").WithField("id")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return uuid.Nil, false
	}
	return id, true
}

// Create handles application creation
// @Summary Create an application
// @Description Creates a draft application owned by the caller
// @Tags applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateApplicationRequest true "Application fields"
// @Success 201 {object} dto.APIResponse{data=dto.ApplicationResponse} "Application created"
// @Failure 400 {object} dto.ErrorResponse "Validation error"
// @Router /applications [post]
func (c *ApplicationController) Create(ctx *gin.Context) {
	var req dto.CreateApplicationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.HandleValidationError(err)
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	app, err := c.applicationService.Create(ctx.Request.Context(), middleware.CurrentUser(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Str("applicationID", app.ID.String()).Msg("Application created")
	ctx.JSON(http.StatusCreated, dto.APIResponse{Data: dto.NewApplicationResponse(app)})
}

// List handles application listing
// @Summary List applications
// @Description Lists applications visible to the caller. Admins see all non-draft applications, researchers only their own.
// @Tags applications
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status"
// @Param faculty query string false "Filter by faculty"
// @Param ordering query string false "created_at | report_year, prefix with - for descending"
// @Param search query string false "Matches owner email or full name"
// @Success 200 {object} dto.APIResponse{data=[]dto.ApplicationResponse} "Applications"
// @Router /applications [get]
func (c *ApplicationController) List(ctx *gin.Context) {
	var req dto.ApplicationFilterRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		errorDetail := dto.HandleValidationError(err)
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	apps, err := c.applicationService.List(ctx.Request.Context(), middleware.CurrentUser(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	responses := make([]*dto.ApplicationResponse, 0, len(apps))
	for _, app := range apps {
		responses = append(responses, dto.NewApplicationResponse(app))
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{Data: responses})
}

// Get handles single application retrieval
// @Summary Get an application
// @Tags applications
// @Produce json
// @Security BearerAuth
// @Param id path string true "Application ID"
// @Success 200 {object} dto.APIResponse{data=dto.ApplicationResponse} "Application"
// @Failure 404 {object} dto.ErrorResponse "Not found"
// @Router /applications/{id} [get]
func (c *ApplicationController) Get(ctx *gin.Context) {
	id, ok := parseIDParam(ctx)
	if !ok {
		return
	}

	app, err := c.applicationService.Get(ctx.Request.Context(), middleware.CurrentUser(ctx), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{Data: dto.NewApplicationResponse(app)})
}

// Update handles partial application updates
// @Summary Update an application
// @Description Updates faculty, report year or status. Status transitions run the workflow guards.
// @Tags applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Application ID"
// @Param request body dto.UpdateApplicationRequest true "Fields to update"
// @Success 200 {object} dto.APIResponse{data=dto.ApplicationResponse} "Updated application"
// @Failure 400 {object} dto.ErrorResponse "Validation or workflow error"
// @Failure 403 {object} dto.ErrorResponse "Forbidden transition"
// @Failure 404 {object} dto.ErrorResponse "Not found"
// @Router /applications/{id} [patch]
func (c *ApplicationController) Update(ctx *gin.Context) {
	id, ok := parseIDParam(ctx)
	if !ok {
		return
	}

	var req dto.UpdateApplicationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.HandleValidationError(err)
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	app, err := c.applicationService.Update(ctx.Request.Context(), middleware.CurrentUser(ctx), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{Data: dto.NewApplicationResponse(app)})
}

// Delete handles application deletion
// @Summary Delete an application
// @Tags applications
// @Security BearerAuth
// @Param id path string true "Application ID"
// @Success 204 "Deleted"
// @Failure 404 {object} dto.ErrorResponse "Not found"
// @Router /applications/{id} [delete]
func (c *ApplicationController) Delete(ctx *gin.Context) {
	id, ok := parseIDParam(ctx)
	if !ok {
		return
	}

	if err := c.applicationService.Delete(ctx.Request.Context(), middleware.CurrentUser(ctx), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Str("applicationID", id.String()).Msg("Application deleted")
	ctx.Status(http.StatusNoContent)
}

// Submit moves a draft or rejected application to submitted
// @Summary Submit an application
// @Tags applications
// @Produce json
// @Security BearerAuth
// @Param id path string true "Application ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Заявка отправлена"
// @Failure 400 {object} dto.ErrorResponse "Submission guard failed"
// @Failure 404 {object} dto.ErrorResponse "Not found"
// @Router /applications/{id}/submit [post]
func (c *ApplicationController) Submit(ctx *gin.Context) {
	id, ok := parseIDParam(ctx)
	if !ok {
		return
	}

	if err := c.applicationService.Submit(ctx.Request.Context(), middleware.CurrentUser(ctx), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Str("applicationID", id.String()).Msg("Application submitted")
	ctx.JSON(http.StatusOK, dto.APIResponse{Data: dto.SuccessResponse{Message: "Заявка отправлена"}})
}

// Approve marks a submitted application as approved (admin only)
// @Summary Approve an application
// @Tags applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Application ID"
// @Param request body dto.ReviewRequest false "Optional admin comment"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Заявка одобрена"
// @Failure 400 {object} dto.ErrorResponse "Application is not submitted"
// @Failure 403 {object} dto.ErrorResponse "Admin only"
// @Router /applications/{id}/approve [post]
func (c *ApplicationController) Approve(ctx *gin.Context) {
	id, ok := parseIDParam(ctx)
	if !ok {
		return
	}

	var req dto.ReviewRequest
	if err := ctx.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		errorDetail := dto.HandleValidationError(err)
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	if err := c.applicationService.Approve(ctx.Request.Context(), middleware.CurrentUser(ctx), id, req.Comment); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Str("applicationID", id.String()).Msg("Application approved")
	ctx.JSON(http.StatusOK, dto.APIResponse{Data: dto.SuccessResponse{Message: "Заявка одобрена"}})
}

// Reject marks a submitted application as rejected (admin only)
// @Summary Reject an application
// @Description Rejects a submitted application. The comment is required.
// @Tags applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Application ID"
// @Param request body dto.ReviewRequest true "Admin comment"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Заявка отклонена"
// @Failure 400 {object} dto.ErrorResponse "Application is not submitted or comment missing"
// @Failure 403 {object} dto.ErrorResponse "Admin only"
// @Router /applications/{id}/reject [post]
func (c *ApplicationController) Reject(ctx *gin.Context) {
	id, ok := parseIDParam(ctx)
	if !ok {
		return
	}

	var req dto.ReviewRequest
	if err := ctx.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		errorDetail := dto.HandleValidationError(err)
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	if err := c.applicationService.Reject(ctx.Request.Context(), middleware.CurrentUser(ctx), id, req.Comment); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Str("applicationID", id.String()).Msg("Application rejected")
	ctx.JSON(http.StatusOK, dto.APIResponse{Data: dto.SuccessResponse{Message: "Заявка отклонена"}})
}

// DownloadDocx generates and returns the claim document (admin only)
// @Summary Download application DOCX
// @Tags applications
// @Produce application/vnd.openxmlformats-officedocument.wordprocessingml.document
// @Security BearerAuth
// @Param id path string true "Application ID"
// @Success 200 {file} binary "Claim document"
// @Failure 403 {object} dto.ErrorResponse "Admin only"
// @Failure 404 {object} dto.ErrorResponse "Not found"
// @Router /applications/{id}/docx [get]
func (c *ApplicationController) DownloadDocx(ctx *gin.Context) {
	id, ok := parseIDParam(ctx)
	if !ok {
		return
	}

	content, filename, err := c.applicationService.GenerateDocx(ctx.Request.Context(), middleware.CurrentUser(ctx), id)
	if err != nil {
		c.logger.Error().Err(err).Str("applicationID", id.String()).Msg("DOCX generation failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	ctx.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.wordprocessingml.document", content)
}

// ExportXLSX returns the filtered application list as a spreadsheet (admin only)
// @Summary Export applications to XLSX
// @Description Exports the application list, honoring the same filters as the list endpoint
// @Tags applications
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param status query string false "Filter by status"
// @Param faculty query string false "Filter by faculty"
// @Success 200 {file} binary "Spreadsheet"
// @Failure 403 {object} dto.ErrorResponse "Admin only"
// @Router /applications/export_xlsx [get]
func (c *ApplicationController) ExportXLSX(ctx *gin.Context) {
	var req dto.ApplicationFilterRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		errorDetail := dto.HandleValidationError(err)
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	content, filename, err := c.applicationService.ExportXLSX(ctx.Request.Context(), middleware.CurrentUser(ctx), &req)
	if err != nil {
		c.logger.Error().Err(err).Msg("XLSX export failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	ctx.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", content)
}
