package domain

import "errors"

// Common domain errors
var (
	ErrNotFound           = errors.New("resource not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrInternalServer     = errors.New("internal server error")
	ErrDuplicateEntry     = errors.New("duplicate entry")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("token invalid")
)

// UserErrors
var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
	ErrInvalidPassword   = errors.New("invalid password")
	ErrInvalidRole       = errors.New("invalid role")
)

// OrderErrors
var (
	ErrOrderNotFound      = errors.New("order not found")
	ErrProfileIncomplete  = errors.New("client profile incomplete")
	ErrNotTeamMember      = errors.New("actor is not a member of the order team")
	ErrNotRequester       = errors.New("actor is not the order requester")
	ErrEmptyTeam          = errors.New("team must have at least one member")
	ErrTeamAlreadySet     = errors.New("order already has an assigned team")
	ErrProgressTooLow     = errors.New("progress too low to submit for review")
	ErrInvalidProgress    = errors.New("progress must be between 0 and 100")
	ErrInvalidRating      = errors.New("rating out of allowed range")
)

// CatalogErrors
var (
	ErrCategoryNotFound    = errors.New("category not found")
	ErrProjectTypeNotFound = errors.New("project type not found")
)
