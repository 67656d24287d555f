package repositories

import (
	"context"

	"tefa-hub/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// categoryRepository implements CategoryRepository interface
type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository creates a new category repository
func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Put(ctx context.Context, category *models.Category) error {
	return r.db.WithContext(ctx).Save(category).Error
}

func (r *categoryRepository) GetByID(ctx context.Context, id string) (*models.Category, error) {
	var category models.Category
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&category).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Category{}).Error
}

func (r *categoryRepository) List(ctx context.Context) ([]*models.Category, error) {
	var categories []*models.Category
	err := r.db.WithContext(ctx).Order("name asc").Find(&categories).Error
	return categories, err
}

func (r *categoryRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Category{}).Where("name = ?", name).Count(&count).Error
	return count > 0, err
}

func (r *categoryRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Category{}).Count(&count).Error
	return count, err
}

// projectTypeRepository implements ProjectTypeRepository interface
type projectTypeRepository struct {
	db *gorm.DB
}

// NewProjectTypeRepository creates a new project type repository
func NewProjectTypeRepository(db *gorm.DB) ProjectTypeRepository {
	return &projectTypeRepository{db: db}
}

func (r *projectTypeRepository) Put(ctx context.Context, pt *models.ProjectType) error {
	return r.db.WithContext(ctx).Save(pt).Error
}

func (r *projectTypeRepository) GetByID(ctx context.Context, id string) (*models.ProjectType, error) {
	var pt models.ProjectType
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&pt).Error
	if err != nil {
		return nil, err
	}
	return &pt, nil
}

// GetByName looks up a project type by its name. Orders carry the type
// name by value, so a lookup can legitimately miss after a deletion.
func (r *projectTypeRepository) GetByName(ctx context.Context, name string) (*models.ProjectType, error) {
	var pt models.ProjectType
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&pt).Error
	if err != nil {
		return nil, err
	}
	return &pt, nil
}

func (r *projectTypeRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.ProjectType{}).Error
}

func (r *projectTypeRepository) List(ctx context.Context) ([]*models.ProjectType, error) {
	var pts []*models.ProjectType
	err := r.db.WithContext(ctx).Order("name asc").Find(&pts).Error
	return pts, err
}

func (r *projectTypeRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ProjectType{}).Count(&count).Error
	return count, err
}
