package domain

import "time"

// Role represents user role in the system
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleClient  Role = "client"
	RoleTeacher Role = "teacher"
	RoleStudent Role = "student"
)

// IsValid reports whether the role is one of the known roles
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleClient, RoleTeacher, RoleStudent:
		return true
	}
	return false
}

// OrderStatus represents the lifecycle state of an order
type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusOpen       OrderStatus = "open"
	StatusRejected   OrderStatus = "rejected"
	StatusInProgress OrderStatus = "in_progress"
	StatusReview     OrderStatus = "review"
	StatusCompleted  OrderStatus = "completed"
)

// IsValid reports whether the status is one of the known statuses
func (s OrderStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusOpen, StatusRejected, StatusInProgress, StatusReview, StatusCompleted:
		return true
	}
	return false
}

// IsTerminal reports whether the status allows no further transitions
func (s OrderStatus) IsTerminal() bool {
	return s == StatusRejected || s == StatusCompleted
}

// Actor identifies the authenticated caller of an operation
type Actor struct {
	ID   string
	Name string
	Role Role
}

// Rating holds the requester's evaluation of a completed order
type Rating struct {
	Points int `json:"points"`
	Stars  int `json:"stars"`
}

// StudentStats holds per-student aggregates over completed rated orders
type StudentStats struct {
	TotalProjects int     `json:"total_projects"`
	TotalPoints   int     `json:"total_points"`
	AvgStars      float64 `json:"avg_stars"`
}

// User represents a user in the domain layer
type User struct {
	ID        string
	Role      Role
	Name      string
	Username  string
	Password  string // Hashed
	ClassName string // student only
	Address   string // client only
	Phone     string // client only
	Email     string // client only
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TokenPair represents access and refresh tokens
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}
