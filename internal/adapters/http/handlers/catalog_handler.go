package handlers

import (
	"errors"

	"tefa-hub/internal/core/domain"
	"tefa-hub/internal/core/services"
	"tefa-hub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// CatalogHandler handles category and project type endpoints
type CatalogHandler struct {
	catalogService *services.CatalogService
	watch          *services.WatchService
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalogService *services.CatalogService, watch *services.WatchService) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
		watch:          watch,
	}
}

// ListCategories lists all order categories
// @Summary List categories
// @Description List all order categories
// @Tags Catalog
// @Accept json
// @Produce json
// @Success 200 {object} response.Response
// @Router /categories [get]
func (h *CatalogHandler) ListCategories(c *fiber.Ctx) error {
	categories, err := h.catalogService.ListCategories(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to list categories")
	}

	return response.Success(c, "Categories retrieved successfully", categories)
}

// CreateCategory creates a category (admin only)
// @Summary Create category
// @Description Create a new order category
// @Tags Catalog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CreateCategoryInput true "Category data"
// @Success 201 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /categories [post]
func (h *CatalogHandler) CreateCategory(c *fiber.Ctx) error {
	var input services.CreateCategoryInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	category, err := h.catalogService.CreateCategory(c.Context(), &input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrCatalogNameTaken):
			return response.Conflict(c, "Category name already exists")
		case errors.Is(err, domain.ErrInvalidInput):
			return response.BadRequest(c, "Invalid category data")
		default:
			return response.InternalServerError(c, "Failed to create category")
		}
	}

	h.watch.PublishCategories(c.Context())

	return response.Created(c, "Category created successfully", category)
}

// DeleteCategory deletes a category (admin only)
// @Summary Delete category
// @Description Delete an order category
// @Tags Catalog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Category ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /categories/{id} [delete]
func (h *CatalogHandler) DeleteCategory(c *fiber.Ctx) error {
	if err := h.catalogService.DeleteCategory(c.Context(), c.Params("id")); err != nil {
		if errors.Is(err, services.ErrCategoryNotFound) {
			return response.NotFound(c, "Category not found")
		}
		return response.InternalServerError(c, "Failed to delete category")
	}

	h.watch.PublishCategories(c.Context())

	return response.Success(c, "Category deleted successfully", nil)
}

// ListProjectTypes lists all project types
// @Summary List project types
// @Description List all project types with their maximum points
// @Tags Catalog
// @Accept json
// @Produce json
// @Success 200 {object} response.Response
// @Router /project-types [get]
func (h *CatalogHandler) ListProjectTypes(c *fiber.Ctx) error {
	projectTypes, err := h.catalogService.ListProjectTypes(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to list project types")
	}

	return response.Success(c, "Project types retrieved successfully", projectTypes)
}

// CreateProjectType creates a project type (admin only)
// @Summary Create project type
// @Description Create a new project type with its maximum points
// @Tags Catalog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CreateProjectTypeInput true "Project type data"
// @Success 201 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /project-types [post]
func (h *CatalogHandler) CreateProjectType(c *fiber.Ctx) error {
	var input services.CreateProjectTypeInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	projectType, err := h.catalogService.CreateProjectType(c.Context(), &input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrCatalogNameTaken):
			return response.Conflict(c, "Project type name already exists")
		case errors.Is(err, domain.ErrInvalidInput):
			return response.BadRequest(c, "Invalid project type data")
		default:
			return response.InternalServerError(c, "Failed to create project type")
		}
	}

	h.watch.PublishProjectTypes(c.Context())

	return response.Created(c, "Project type created successfully", projectType)
}

// DeleteProjectType deletes a project type (admin only)
// @Summary Delete project type
// @Description Delete a project type
// @Tags Catalog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Project type ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /project-types/{id} [delete]
func (h *CatalogHandler) DeleteProjectType(c *fiber.Ctx) error {
	if err := h.catalogService.DeleteProjectType(c.Context(), c.Params("id")); err != nil {
		if errors.Is(err, services.ErrProjectTypeNotFound) {
			return response.NotFound(c, "Project type not found")
		}
		return response.InternalServerError(c, "Failed to delete project type")
	}

	h.watch.PublishProjectTypes(c.Context())

	return response.Success(c, "Project type deleted successfully", nil)
}
