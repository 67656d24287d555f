package handlers

import (
	"tefa-hub/internal/core/domain"
	"tefa-hub/internal/core/services"
	"tefa-hub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ReportHandler handles student report endpoints
type ReportHandler struct {
	reportService *services.ReportService
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportService *services.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// StudentStats returns aggregates for one student
// @Summary Get student stats
// @Description Get a student's total projects, points and average stars. Students may only view their own stats.
// @Tags Reports
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /reports/students/{id} [get]
func (h *ReportHandler) StudentStats(c *fiber.Ctx) error {
	actor, ok := actorFromCtx(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	studentID := c.Params("id")

	// Students may only query themselves
	if actor.Role == domain.RoleStudent && actor.ID != studentID {
		return response.Forbidden(c, "You may only view your own stats")
	}
	if actor.Role == domain.RoleClient {
		return response.Forbidden(c, "You don't have permission to view student stats")
	}

	stats, err := h.reportService.GetStudentStats(c.Context(), studentID)
	if err != nil {
		return response.InternalServerError(c, "Failed to get student stats")
	}

	return response.Success(c, "Student stats retrieved successfully", stats)
}

// StudentReport returns the per-student report rows (teacher/admin)
// @Summary Student report
// @Description List report rows for all students, optionally filtered by class via ?class=
// @Tags Reports
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param class query string false "Filter by class name"
// @Success 200 {object} response.Response
// @Router /reports/students [get]
func (h *ReportHandler) StudentReport(c *fiber.Ctx) error {
	rows, err := h.reportService.GetStudentReport(c.Context(), c.Query("class"))
	if err != nil {
		return response.InternalServerError(c, "Failed to build student report")
	}

	return response.Success(c, "Student report retrieved successfully", rows)
}

// ExportCSV streams the student report as a CSV download (teacher/admin)
// @Summary Export student report CSV
// @Description Download the student report as a CSV file, optionally filtered by class via ?class=
// @Tags Reports
// @Produce text/csv
// @Security BearerAuth
// @Param class query string false "Filter by class name"
// @Success 200 {string} string "CSV content"
// @Router /reports/students/export [get]
func (h *ReportHandler) ExportCSV(c *fiber.Ctx) error {
	csvData, err := h.reportService.ExportCSV(c.Context(), c.Query("class"))
	if err != nil {
		return response.InternalServerError(c, "Failed to export student report")
	}

	c.Set("Content-Type", "text/csv; charset=utf-8")
	c.Set("Content-Disposition", `attachment; filename="laporan-murid.csv"`)
	return c.SendString(csvData)
}
