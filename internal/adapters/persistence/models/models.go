package models

import (
	"time"

	"tefa-hub/internal/core/domain"

	"gorm.io/gorm"
)

// ============================================================
// Identity Tables
// ============================================================

// User represents users table
type User struct {
	ID        string        `gorm:"primaryKey;size:36" json:"id"`
	Role      string        `gorm:"size:20;not null;index" json:"role"`
	Name      string        `gorm:"size:100;not null" json:"name"`
	Username  string        `gorm:"uniqueIndex;size:50;not null" json:"username"`
	Password  string        `gorm:"size:255;not null" json:"-"`
	ClassName string        `gorm:"size:50" json:"class_name,omitempty"`
	Profile   ClientProfile `gorm:"embedded;embeddedPrefix:profile_" json:"profile"`
	CreatedAt time.Time     `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time     `gorm:"autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// ClientProfile holds client contact data. The profile is complete when
// address and phone are both filled in.
type ClientProfile struct {
	Address string `gorm:"size:255" json:"address"`
	Phone   string `gorm:"size:30" json:"phone"`
	Email   string `gorm:"size:100" json:"email"`
}

func (p ClientProfile) IsComplete() bool {
	return p.Address != "" && p.Phone != ""
}

// UserResponse DTO
type UserResponse struct {
	ID        string         `json:"id"`
	Role      string         `json:"role"`
	Name      string         `json:"name"`
	Username  string         `json:"username"`
	ClassName string         `json:"class_name,omitempty"`
	Profile   *ClientProfile `json:"profile,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

func (u *User) ToResponse() *UserResponse {
	resp := &UserResponse{
		ID:        u.ID,
		Role:      u.Role,
		Name:      u.Name,
		Username:  u.Username,
		ClassName: u.ClassName,
		CreatedAt: u.CreatedAt,
	}
	if u.Role == string(domain.RoleClient) {
		profile := u.Profile
		resp.Profile = &profile
	}
	return resp
}

// RefreshToken represents refresh_tokens table
type RefreshToken struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    string     `gorm:"size:36;index;not null" json:"user_id"`
	TokenHash string     `gorm:"size:255;not null;index" json:"-"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	RevokedAt *time.Time `gorm:"index" json:"revoked_at"`
	User      User       `gorm:"foreignKey:UserID" json:"-"`
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

func (rt *RefreshToken) IsRevoked() bool {
	return rt.RevokedAt != nil
}

func (rt *RefreshToken) IsExpired() bool {
	return time.Now().After(rt.ExpiresAt)
}

// ============================================================
// Catalog Tables
// ============================================================

// Category is a flat tag copied by value into orders. Deleting a
// category does not touch orders already tagged with its name.
type Category struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Name      string    `gorm:"uniqueIndex;size:100;not null" json:"name"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Category) TableName() string {
	return "categories"
}

// ProjectType caps the rating scale for orders of this type
type ProjectType struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Name      string    `gorm:"uniqueIndex;size:100;not null" json:"name"`
	MaxPoints int       `gorm:"not null" json:"max_points"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (ProjectType) TableName() string {
	return "project_types"
}

// ============================================================
// Order Table
// ============================================================

// Order represents orders table (the central entity)
type Order struct {
	ID           string         `gorm:"primaryKey;size:36" json:"id"`
	Title        string         `gorm:"size:200;not null" json:"title"`
	Description  string         `gorm:"type:text" json:"description"`
	Category     string         `gorm:"size:100" json:"category"`
	ProjectType  string         `gorm:"size:100" json:"project_type"`
	Deadline     *time.Time     `gorm:"type:date" json:"deadline"`
	ExampleImage string         `gorm:"size:500" json:"example_image,omitempty"`
	ClientID     string         `gorm:"size:36;not null;index" json:"client_id"`
	Status       string         `gorm:"size:20;not null;index" json:"status"`
	StudentIDs   []string       `gorm:"serializer:json;type:text" json:"student_ids"`
	Progress     int            `gorm:"default:0" json:"progress"`
	ReviewNotes  string         `gorm:"type:text" json:"review_notes"`
	Rating       *domain.Rating `gorm:"serializer:json;type:text" json:"rating"`
	ProjectCost  *float64       `gorm:"type:decimal(15,2)" json:"project_cost,omitempty"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Order) TableName() string {
	return "orders"
}

// HasMember reports whether the given student is part of the order team
func (o *Order) HasMember(studentID string) bool {
	for _, id := range o.StudentIDs {
		if id == studentID {
			return true
		}
	}
	return false
}

// OrderResponse DTO
type OrderResponse struct {
	ID           string         `json:"id"`
	Title        string         `json:"title"`
	Description  string         `json:"description"`
	Category     string         `json:"category"`
	ProjectType  string         `json:"project_type"`
	Deadline     *time.Time     `json:"deadline"`
	ExampleImage string         `json:"example_image,omitempty"`
	ClientID     string         `json:"client_id"`
	ClientName   string         `json:"client_name,omitempty"`
	Status       string         `json:"status"`
	StudentIDs   []string       `json:"student_ids"`
	Progress     int            `json:"progress"`
	ReviewNotes  string         `json:"review_notes"`
	Rating       *domain.Rating `json:"rating"`
	ProjectCost  *float64       `json:"project_cost,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

func (o *Order) ToResponse() *OrderResponse {
	studentIDs := o.StudentIDs
	if studentIDs == nil {
		studentIDs = []string{}
	}
	return &OrderResponse{
		ID:           o.ID,
		Title:        o.Title,
		Description:  o.Description,
		Category:     o.Category,
		ProjectType:  o.ProjectType,
		Deadline:     o.Deadline,
		ExampleImage: o.ExampleImage,
		ClientID:     o.ClientID,
		Status:       o.Status,
		StudentIDs:   studentIDs,
		Progress:     o.Progress,
		ReviewNotes:  o.ReviewNotes,
		Rating:       o.Rating,
		ProjectCost:  o.ProjectCost,
		CreatedAt:    o.CreatedAt,
		UpdatedAt:    o.UpdatedAt,
	}
}

// ============================================================
// Auto Migration
// ============================================================

// AutoMigrate runs auto migration for all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&RefreshToken{},
		&Category{},
		&ProjectType{},
		&Order{},
	)
}
