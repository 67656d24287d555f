package services

import (
	"context"
	"errors"
	"log"
	"strings"

	"tefa-hub/internal/adapters/persistence/models"
	"tefa-hub/internal/adapters/persistence/repositories"
	"tefa-hub/internal/core/domain"
	"tefa-hub/internal/pkg/password"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User management errors
var (
	ErrInvalidRole     = errors.New("invalid role")
	ErrInvalidPassword = errors.New("current password is incorrect")
)

// UserService handles user management business logic
type UserService struct {
	userRepo repositories.UserRepository
}

// NewUserService creates a new user service
func NewUserService(userRepo repositories.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// CreateUserInput represents admin user creation input
type CreateUserInput struct {
	Role      string `json:"role" validate:"required,oneof=admin client teacher student"`
	Name      string `json:"name" validate:"required,min=2,max=100"`
	Username  string `json:"username" validate:"required,min=3,max=50"`
	Password  string `json:"password" validate:"required,min=3"`
	ClassName string `json:"class_name" validate:"omitempty,max=50"`
}

// UpdateUserInput represents admin user update input
type UpdateUserInput struct {
	Name      string `json:"name" validate:"omitempty,min=2,max=100"`
	Username  string `json:"username" validate:"omitempty,min=3,max=50"`
	Password  string `json:"password" validate:"omitempty,min=3"`
	ClassName string `json:"class_name" validate:"omitempty,max=50"`
}

// UpdateProfileInput represents client self-service profile input
type UpdateProfileInput struct {
	Address string `json:"address" validate:"required,max=255"`
	Phone   string `json:"phone" validate:"required,max=30"`
	Email   string `json:"email" validate:"omitempty,email"`
}

// ChangePasswordInput represents password change input
type ChangePasswordInput struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=6"`
}

// CreateUser creates a user with a given role (admin operation)
func (s *UserService) CreateUser(ctx context.Context, input *CreateUserInput) (*models.User, error) {
	if err := validate.Struct(input); err != nil {
		return nil, domain.ErrInvalidInput
	}
	if !domain.Role(input.Role).IsValid() {
		return nil, ErrInvalidRole
	}

	exists, err := s.userRepo.ExistsByUsername(ctx, input.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrUserAlreadyExists
	}

	hashed, err := password.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:        uuid.New().String(),
		Role:      input.Role,
		Name:      strings.TrimSpace(input.Name),
		Username:  strings.TrimSpace(input.Username),
		Password:  hashed,
		ClassName: strings.TrimSpace(input.ClassName),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	log.Printf("✅ User created: %s [%s]", user.Username, user.Role)
	return user, nil
}

// UpdateUser updates a user's base fields (admin operation)
func (s *UserService) UpdateUser(ctx context.Context, id string, input *UpdateUserInput) (*models.User, error) {
	if err := validate.Struct(input); err != nil {
		return nil, domain.ErrInvalidInput
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if input.Username != "" && input.Username != user.Username {
		exists, err := s.userRepo.ExistsByUsername(ctx, input.Username)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, ErrUserAlreadyExists
		}
		user.Username = strings.TrimSpace(input.Username)
	}
	if input.Name != "" {
		user.Name = strings.TrimSpace(input.Name)
	}
	if input.ClassName != "" {
		user.ClassName = strings.TrimSpace(input.ClassName)
	}
	if input.Password != "" {
		hashed, err := password.Hash(input.Password)
		if err != nil {
			return nil, err
		}
		user.Password = hashed
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	log.Printf("✅ User updated: %s", user.Username)
	return user, nil
}

// DeleteUser removes a user permanently (admin operation).
// Deletion is immediate and irreversible; orders referencing the user
// are left untouched.
func (s *UserService) DeleteUser(ctx context.Context, id string) error {
	if _, err := s.userRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if err := s.userRepo.Delete(ctx, id); err != nil {
		return err
	}

	log.Printf("✅ User deleted: %s", id)
	return nil
}

// GetUser gets a user by ID
func (s *UserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// ListUsers lists users with optional role filter and pagination
func (s *UserService) ListUsers(ctx context.Context, role string, offset, limit int) ([]*models.User, int64, error) {
	if role != "" && !domain.Role(role).IsValid() {
		return nil, 0, ErrInvalidRole
	}
	return s.userRepo.ListPaged(ctx, role, offset, limit)
}

// ListStudents lists students, optionally filtered by class name
func (s *UserService) ListStudents(ctx context.Context, className string) ([]*models.User, error) {
	students, err := s.userRepo.ListByRole(ctx, string(domain.RoleStudent))
	if err != nil {
		return nil, err
	}
	if className == "" {
		return students, nil
	}
	filtered := make([]*models.User, 0, len(students))
	for _, st := range students {
		if st.ClassName == className {
			filtered = append(filtered, st)
		}
	}
	return filtered, nil
}

// UpdateProfile updates a client's contact profile (self-service)
func (s *UserService) UpdateProfile(ctx context.Context, userID string, input *UpdateProfileInput) (*models.User, error) {
	if err := validate.Struct(input); err != nil {
		return nil, domain.ErrInvalidInput
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if user.Role != string(domain.RoleClient) {
		return nil, domain.ErrForbidden
	}

	user.Profile = models.ClientProfile{
		Address: strings.TrimSpace(input.Address),
		Phone:   strings.TrimSpace(input.Phone),
		Email:   strings.TrimSpace(input.Email),
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	log.Printf("✅ Profile updated for client: %s", user.Username)
	return user, nil
}

// ChangePassword changes the caller's own password
func (s *UserService) ChangePassword(ctx context.Context, userID string, input *ChangePasswordInput) error {
	if err := validate.Struct(input); err != nil {
		return domain.ErrInvalidInput
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if !password.Verify(input.CurrentPassword, user.Password) {
		return ErrInvalidPassword
	}

	hashed, err := password.Hash(input.NewPassword)
	if err != nil {
		return err
	}
	user.Password = hashed

	if err := s.userRepo.Update(ctx, user); err != nil {
		return err
	}

	log.Printf("✅ Password changed for user: %s", user.Username)
	return nil
}
