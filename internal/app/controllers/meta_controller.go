package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/aiu/stimulus/internal/app/models"
	"github.com/aiu/stimulus/internal/app/models/dto"
)

// MetaController serves the choice lists frontends use to build forms
type MetaController struct{}

// NewMetaController creates a new MetaController
func NewMetaController() *MetaController {
	return &MetaController{}
}

// Faculties lists the graduate schools
// @Summary List faculties
// @Tags meta
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.FacultiesResponse} "Faculty choices"
// @Router /meta/faculties [get]
func (c *MetaController) Faculties(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.APIResponse{Data: dto.FacultiesResponse{Faculties: models.FacultyChoices}})
}

// Indexation lists the supported bibliographic indexes
// @Summary List indexation choices
// @Tags meta
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.IndexationResponse} "Indexation choices"
// @Router /meta/indexation [get]
func (c *MetaController) Indexation(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.APIResponse{Data: dto.IndexationResponse{Indexation: models.IndexationChoices}})
}

// ReportYears lists the selectable report years
// @Summary List report years
// @Description Returns [current .. current+span-1]. Span defaults to 2.
// @Tags meta
// @Produce json
// @Param span query int false "Number of years to return"
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.ReportYearsResponse} "Report years"
// @Router /meta/report_years [get]
func (c *MetaController) ReportYears(ctx *gin.Context) {
	span := 2
	if raw := ctx.Query("span"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			span = parsed
		}
	}

	current := time.Now().Year()
	years := make([]int, 0, span)
	for year := current; year < current+span; year++ {
		years = append(years, year)
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{Data: dto.ReportYearsResponse{Years: years}})
}
