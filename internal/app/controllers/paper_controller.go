package controllers

import (
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/aiu/stimulus/internal/app/models/dto"
	"github.com/aiu/stimulus/internal/app/services"
	"github.com/aiu/stimulus/internal/middleware"
)

// PaperController handles publication endpoints
type PaperController struct {
	paperService *services.PaperService
	logger       zerolog.Logger
}

// NewPaperController creates a new PaperController
func NewPaperController(paperService *services.PaperService, logger zerolog.Logger) *PaperController {
	return &PaperController{
		paperService: paperService,
		logger:       logger,
	}
}

// bindPaperForm binds the request into a PaperForm from either a JSON body or
// a multipart form. Multipart requests may carry the PDF under "file_upload".
func bindPaperForm(ctx *gin.Context) (*dto.PaperForm, *multipart.FileHeader, error) {
	var form dto.PaperForm
	if strings.HasPrefix(ctx.ContentType(), "multipart/form-data") {
		if err := ctx.ShouldBind(&form); err != nil {
			return nil, nil, err
		}
		file, err := ctx.FormFile("file_upload")
		if err != nil {
			// No file part in the form
			file = nil
		}
		return &form, file, nil
	}

	if err := ctx.ShouldBindJSON(&form); err != nil {
		return nil, nil, err
	}
	return &form, nil, nil
}

// Create handles paper creation
// @Summary Create a paper
// @Description Adds a publication to one of the caller's draft or rejected applications. Accepts JSON or multipart with a PDF under file_upload.
// @Tags papers
// @Accept json
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param request body dto.PaperForm true "Paper fields"
// @Success 201 {object} dto.APIResponse{data=dto.PaperResponse} "Paper created"
// @Failure 400 {object} dto.ErrorResponse "Validation error"
// @Router /papers [post]
func (c *PaperController) Create(ctx *gin.Context) {
	form, file, err := bindPaperForm(ctx)
	if err != nil {
		errorDetail := dto.HandleValidationError(err)
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	paper, err := c.paperService.Create(ctx.Request.Context(), middleware.CurrentUser(ctx), form, file)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Str("paperID", paper.ID.String()).Msg("Paper created")
	ctx.JSON(http.StatusCreated, dto.APIResponse{Data: dto.NewPaperResponse(paper)})
}

// List handles paper listing
// @Summary List papers
// @Description Lists papers visible to the caller, owner-scoped for researchers
// @Tags papers
// @Produce json
// @Security BearerAuth
// @Param application query string false "Filter by application ID"
// @Param indexation query string false "scopus | wos"
// @Param quartile query string false "Filter by quartile"
// @Param percentile query int false "Filter by percentile"
// @Param year query int false "Filter by year"
// @Param ordering query string false "created_at | publication_date | year, prefix with - for descending"
// @Param search query string false "Matches title, DOI or journal"
// @Success 200 {object} dto.APIResponse{data=[]dto.PaperResponse} "Papers"
// @Router /papers [get]
func (c *PaperController) List(ctx *gin.Context) {
	var req dto.PaperFilterRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		errorDetail := dto.HandleValidationError(err)
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	papers, err := c.paperService.List(ctx.Request.Context(), middleware.CurrentUser(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	responses := make([]*dto.PaperResponse, 0, len(papers))
	for _, paper := range papers {
		responses = append(responses, dto.NewPaperResponse(paper))
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{Data: responses})
}

// Get handles single paper retrieval
// @Summary Get a paper
// @Tags papers
// @Produce json
// @Security BearerAuth
// @Param id path string true "Paper ID"
// @Success 200 {object} dto.APIResponse{data=dto.PaperResponse} "Paper"
// @Failure 404 {object} dto.ErrorResponse "Not found"
// @Router /papers/{id} [get]
func (c *PaperController) Get(ctx *gin.Context) {
	id, ok := parseIDParam(ctx)
	if !ok {
		return
	}

	paper, err := c.paperService.Get(ctx.Request.Context(), middleware.CurrentUser(ctx), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{Data: dto.NewPaperResponse(paper)})
}

// Update handles partial paper updates
// @Summary Update a paper
// @Description Updates a paper in a draft or rejected application. Accepts JSON or multipart.
// @Tags papers
// @Accept json
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path string true "Paper ID"
// @Param request body dto.PaperForm true "Fields to update"
// @Success 200 {object} dto.APIResponse{data=dto.PaperResponse} "Updated paper"
// @Failure 400 {object} dto.ErrorResponse "Validation error"
// @Failure 404 {object} dto.ErrorResponse "Not found"
// @Router /papers/{id} [patch]
func (c *PaperController) Update(ctx *gin.Context) {
	id, ok := parseIDParam(ctx)
	if !ok {
		return
	}

	form, file, err := bindPaperForm(ctx)
	if err != nil {
		errorDetail := dto.HandleValidationError(err)
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	paper, err := c.paperService.Update(ctx.Request.Context(), middleware.CurrentUser(ctx), id, form, file)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{Data: dto.NewPaperResponse(paper)})
}

// Delete handles paper deletion
// @Summary Delete a paper
// @Tags papers
// @Security BearerAuth
// @Param id path string true "Paper ID"
// @Success 204 "Deleted"
// @Failure 400 {object} dto.ErrorResponse "Application is locked"
// @Failure 404 {object} dto.ErrorResponse "Not found"
// @Router /papers/{id} [delete]
func (c *PaperController) Delete(ctx *gin.Context) {
	id, ok := parseIDParam(ctx)
	if !ok {
		return
	}

	if err := c.paperService.Delete(ctx.Request.Context(), middleware.CurrentUser(ctx), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Str("paperID", id.String()).Msg("Paper deleted")
	ctx.Status(http.StatusNoContent)
}
