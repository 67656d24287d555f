package services

import (
	"context"
	"errors"
	"log"
	"strings"

	"tefa-hub/internal/adapters/persistence/models"
	"tefa-hub/internal/adapters/persistence/repositories"
	"tefa-hub/internal/core/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Catalog errors
var (
	ErrCategoryNotFound    = errors.New("category not found")
	ErrProjectTypeNotFound = errors.New("project type not found")
	ErrCatalogNameTaken    = errors.New("catalog entry with this name already exists")
)

// DefaultMaxPoints caps ratings for orders whose project type no longer
// exists in the catalog (the name is copied by value into the order).
const DefaultMaxPoints = 100

// CatalogService handles category and project type management
type CatalogService struct {
	categoryRepo    repositories.CategoryRepository
	projectTypeRepo repositories.ProjectTypeRepository
}

// NewCatalogService creates a new catalog service
func NewCatalogService(
	categoryRepo repositories.CategoryRepository,
	projectTypeRepo repositories.ProjectTypeRepository,
) *CatalogService {
	return &CatalogService{
		categoryRepo:    categoryRepo,
		projectTypeRepo: projectTypeRepo,
	}
}

// CreateCategoryInput represents category creation input
type CreateCategoryInput struct {
	Name string `json:"name" validate:"required,min=2,max=100"`
}

// CreateProjectTypeInput represents project type creation input
type CreateProjectTypeInput struct {
	Name      string `json:"name" validate:"required,min=2,max=100"`
	MaxPoints int    `json:"max_points" validate:"required,min=1"`
}

// ListCategories lists all categories
func (s *CatalogService) ListCategories(ctx context.Context) ([]*models.Category, error) {
	return s.categoryRepo.List(ctx)
}

// CreateCategory creates a category (admin operation)
func (s *CatalogService) CreateCategory(ctx context.Context, input *CreateCategoryInput) (*models.Category, error) {
	if err := validate.Struct(input); err != nil {
		return nil, domain.ErrInvalidInput
	}

	name := strings.TrimSpace(input.Name)
	exists, err := s.categoryRepo.ExistsByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrCatalogNameTaken
	}

	category := &models.Category{
		ID:   uuid.New().String(),
		Name: name,
	}
	if err := s.categoryRepo.Put(ctx, category); err != nil {
		return nil, err
	}

	log.Printf("✅ Category created: %s", category.Name)
	return category, nil
}

// DeleteCategory removes a category. Orders tagged with its name keep
// the name; nothing is rewritten retroactively.
func (s *CatalogService) DeleteCategory(ctx context.Context, id string) error {
	if _, err := s.categoryRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCategoryNotFound
		}
		return err
	}

	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		return err
	}

	log.Printf("✅ Category deleted: %s", id)
	return nil
}

// ListProjectTypes lists all project types
func (s *CatalogService) ListProjectTypes(ctx context.Context) ([]*models.ProjectType, error) {
	return s.projectTypeRepo.List(ctx)
}

// CreateProjectType creates a project type (admin operation)
func (s *CatalogService) CreateProjectType(ctx context.Context, input *CreateProjectTypeInput) (*models.ProjectType, error) {
	if err := validate.Struct(input); err != nil {
		return nil, domain.ErrInvalidInput
	}

	pt := &models.ProjectType{
		ID:        uuid.New().String(),
		Name:      strings.TrimSpace(input.Name),
		MaxPoints: input.MaxPoints,
	}
	if err := s.projectTypeRepo.Put(ctx, pt); err != nil {
		return nil, err
	}

	log.Printf("✅ Project type created: %s (max %d points)", pt.Name, pt.MaxPoints)
	return pt, nil
}

// DeleteProjectType removes a project type
func (s *CatalogService) DeleteProjectType(ctx context.Context, id string) error {
	if _, err := s.projectTypeRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProjectTypeNotFound
		}
		return err
	}

	if err := s.projectTypeRepo.Delete(ctx, id); err != nil {
		return err
	}

	log.Printf("✅ Project type deleted: %s", id)
	return nil
}

// MaxPointsFor returns the rating cap for a project type name, falling
// back to DefaultMaxPoints when the type is missing from the catalog.
func (s *CatalogService) MaxPointsFor(ctx context.Context, projectTypeName string) int {
	pt, err := s.projectTypeRepo.GetByName(ctx, projectTypeName)
	if err != nil {
		return DefaultMaxPoints
	}
	return pt.MaxPoints
}
