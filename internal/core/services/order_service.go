package services

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"tefa-hub/internal/adapters/persistence/models"
	"tefa-hub/internal/adapters/persistence/repositories"
	"tefa-hub/internal/core/domain"
	"tefa-hub/internal/core/statemachine"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Order workflow errors
var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrProfileIncomplete = errors.New("client profile must be completed before placing orders")
	ErrNotTeamMember     = errors.New("you are not a member of this order's team")
	ErrNotRequester      = errors.New("only the order requester may do this")
	ErrEmptyTeam         = errors.New("team must keep at least one member")
	ErrTeamAlreadySet    = errors.New("order already has an assigned team")
	ErrProgressTooLow    = errors.New("progress must be at least 10 to submit for review")
	ErrInvalidProgress   = errors.New("progress must be between 0 and 100")
	ErrInvalidRating     = errors.New("rating is out of the allowed range")
	ErrNotStudent        = errors.New("team members must be students")
)

// MinSubmitProgress is the lowest progress at which work may be
// submitted for review.
const MinSubmitProgress = 10

// OrderService owns the order lifecycle: creation, verification,
// claiming, progress, review cycle and team edits.
type OrderService struct {
	orderRepo repositories.OrderRepository
	userRepo  repositories.UserRepository
	catalog   *CatalogService
	watch     *WatchService
}

// NewOrderService creates a new order service
func NewOrderService(
	orderRepo repositories.OrderRepository,
	userRepo repositories.UserRepository,
	catalog *CatalogService,
	watch *WatchService,
) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		userRepo:  userRepo,
		catalog:   catalog,
		watch:     watch,
	}
}

// CreateOrderInput represents order creation input
type CreateOrderInput struct {
	Title        string   `json:"title" validate:"required,min=3,max=200"`
	Description  string   `json:"description" validate:"required"`
	Category     string   `json:"category" validate:"required"`
	ProjectType  string   `json:"project_type" validate:"required"`
	Deadline     string   `json:"deadline" validate:"omitempty,datetime=2006-01-02"`
	ExampleImage string   `json:"example_image" validate:"omitempty,url"`
	ProjectCost  *float64 `json:"project_cost" validate:"omitempty,gt=0"`
}

// ClaimInput represents a student claiming an open order
type ClaimInput struct {
	// MemberIDs lists additional students for a group claim. The
	// initiating student is always included first.
	MemberIDs []string `json:"member_ids"`
}

// RateInput represents the requester's acceptance rating
type RateInput struct {
	Points int `json:"points" validate:"required,min=1"`
	Stars  int `json:"stars" validate:"required,min=1,max=5"`
}

// CreateOrder creates a new order. Clients need a complete profile and
// start at pending; staff-created orders skip verification and start
// open.
func (s *OrderService) CreateOrder(ctx context.Context, actor domain.Actor, input *CreateOrderInput) (*models.Order, error) {
	if err := validate.Struct(input); err != nil {
		return nil, domain.ErrInvalidInput
	}

	var status domain.OrderStatus
	switch actor.Role {
	case domain.RoleClient:
		user, err := s.userRepo.GetByID(ctx, actor.ID)
		if err != nil {
			return nil, ErrUserNotFound
		}
		if !user.Profile.IsComplete() {
			return nil, ErrProfileIncomplete
		}
		status = domain.StatusPending
	case domain.RoleAdmin, domain.RoleTeacher:
		// Internal projects skip verification
		status = domain.StatusOpen
	default:
		return nil, domain.ErrForbidden
	}

	var deadline *time.Time
	if input.Deadline != "" {
		d, err := time.Parse("2006-01-02", input.Deadline)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		deadline = &d
	}

	order := &models.Order{
		ID:           uuid.New().String(),
		Title:        strings.TrimSpace(input.Title),
		Description:  strings.TrimSpace(input.Description),
		Category:     input.Category,
		ProjectType:  input.ProjectType,
		Deadline:     deadline,
		ExampleImage: input.ExampleImage,
		ClientID:     actor.ID,
		Status:       string(status),
		StudentIDs:   []string{},
		Progress:     0,
		ProjectCost:  input.ProjectCost,
	}

	if err := s.orderRepo.Put(ctx, order); err != nil {
		return nil, err
	}

	log.Printf("✅ Order created: %s [%s] by %s", order.Title, order.Status, actor.ID)
	s.publish(ctx)
	return order, nil
}

// Verify approves or rejects a pending order (teacher only). A
// rejection may carry notes explaining the decision.
func (s *OrderService) Verify(ctx context.Context, actor domain.Actor, orderID string, approve bool, notes string) (*models.Order, error) {
	if actor.Role != domain.RoleTeacher {
		return nil, domain.ErrForbidden
	}

	order, err := s.getOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	to := domain.StatusRejected
	if approve {
		to = domain.StatusOpen
	}
	if err := statemachine.CanTransition(domain.OrderStatus(order.Status), to, statemachine.ActorTeacher); err != nil {
		return nil, err
	}

	order.Status = string(to)
	if !approve && notes != "" {
		order.ReviewNotes = notes
	}
	if err := s.orderRepo.Put(ctx, order); err != nil {
		return nil, err
	}

	log.Printf("✅ Order %s verified → %s by teacher %s", order.ID, order.Status, actor.ID)
	s.publish(ctx)
	return order, nil
}

// Claim moves an open order to in_progress and assigns the team. The
// initiating student is always the first member; member_ids adds the
// rest of a group claim.
func (s *OrderService) Claim(ctx context.Context, actor domain.Actor, orderID string, input *ClaimInput) (*models.Order, error) {
	if actor.Role != domain.RoleStudent {
		return nil, domain.ErrForbidden
	}

	order, err := s.getOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err := statemachine.CanTransition(domain.OrderStatus(order.Status), domain.StatusInProgress, statemachine.ActorStudent); err != nil {
		return nil, err
	}
	if len(order.StudentIDs) > 0 {
		return nil, ErrTeamAlreadySet
	}

	team := []string{actor.ID}
	seen := map[string]bool{actor.ID: true}
	for _, id := range input.MemberIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		team = append(team, id)
	}
	if err := s.checkStudents(ctx, team); err != nil {
		return nil, err
	}

	order.Status = string(domain.StatusInProgress)
	order.StudentIDs = team
	order.Progress = 0

	if err := s.orderRepo.Put(ctx, order); err != nil {
		return nil, err
	}

	log.Printf("✅ Order %s claimed by %s (team of %d)", order.ID, actor.ID, len(team))
	s.publish(ctx)
	return order, nil
}

// UpdateProgress sets the progress value on an in_progress order. Not a
// transition; may be issued repeatedly and is idempotent.
func (s *OrderService) UpdateProgress(ctx context.Context, actor domain.Actor, orderID string, progress int) (*models.Order, error) {
	if progress < 0 || progress > 100 {
		return nil, ErrInvalidProgress
	}

	order, err := s.getOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if actor.Role != domain.RoleStudent || !order.HasMember(actor.ID) {
		return nil, ErrNotTeamMember
	}
	if order.Status != string(domain.StatusInProgress) {
		return nil, domain.ErrForbidden
	}

	order.Progress = progress
	if err := s.orderRepo.Put(ctx, order); err != nil {
		return nil, err
	}

	s.publish(ctx)
	return order, nil
}

// SubmitForReview moves an in_progress order to review. Progress is
// retained as last set by the team.
func (s *OrderService) SubmitForReview(ctx context.Context, actor domain.Actor, orderID string) (*models.Order, error) {
	order, err := s.getOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if actor.Role != domain.RoleStudent || !order.HasMember(actor.ID) {
		return nil, ErrNotTeamMember
	}
	if err := statemachine.CanTransition(domain.OrderStatus(order.Status), domain.StatusReview, statemachine.ActorStudent); err != nil {
		return nil, err
	}
	if order.Progress < MinSubmitProgress {
		return nil, ErrProgressTooLow
	}

	order.Status = string(domain.StatusReview)
	if err := s.orderRepo.Put(ctx, order); err != nil {
		return nil, err
	}

	log.Printf("✅ Order %s submitted for review by %s (progress %d%%)", order.ID, actor.ID, order.Progress)
	s.publish(ctx)
	return order, nil
}

// RequestRevision sends reviewed work back to the team. Review notes
// are overwritten, not accumulated, and progress is forced to 99.
func (s *OrderService) RequestRevision(ctx context.Context, actor domain.Actor, orderID string, notes string) (*models.Order, error) {
	order, err := s.getOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	// Whoever owns the order may review it, regardless of role
	if actor.ID != order.ClientID {
		return nil, ErrNotRequester
	}
	if err := statemachine.CanTransition(domain.OrderStatus(order.Status), domain.StatusInProgress, statemachine.ActorRequester); err != nil {
		return nil, err
	}

	order.Status = string(domain.StatusInProgress)
	order.ReviewNotes = notes
	order.Progress = 99

	if err := s.orderRepo.Put(ctx, order); err != nil {
		return nil, err
	}

	log.Printf("✅ Order %s sent back for revision by %s", order.ID, actor.ID)
	s.publish(ctx)
	return order, nil
}

// AcceptAndRate completes a reviewed order with the requester's rating.
// Points are capped by the order's project type; stars are 1..5.
func (s *OrderService) AcceptAndRate(ctx context.Context, actor domain.Actor, orderID string, input *RateInput) (*models.Order, error) {
	if err := validate.Struct(input); err != nil {
		return nil, ErrInvalidRating
	}

	order, err := s.getOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if actor.ID != order.ClientID {
		return nil, ErrNotRequester
	}
	if err := statemachine.CanTransition(domain.OrderStatus(order.Status), domain.StatusCompleted, statemachine.ActorRequester); err != nil {
		return nil, err
	}

	maxPoints := s.catalog.MaxPointsFor(ctx, order.ProjectType)
	if input.Points < 1 || input.Points > maxPoints {
		return nil, ErrInvalidRating
	}
	if input.Stars < 1 || input.Stars > 5 {
		return nil, ErrInvalidRating
	}

	order.Status = string(domain.StatusCompleted)
	order.Rating = &domain.Rating{Points: input.Points, Stars: input.Stars}
	order.Progress = 100

	if err := s.orderRepo.Put(ctx, order); err != nil {
		return nil, err
	}

	log.Printf("✅ Order %s completed: %d points, %d stars", order.ID, input.Points, input.Stars)
	s.publish(ctx)
	return order, nil
}

// EditTeam replaces the team of an active order (teacher only). An
// empty member list is rejected and leaves the team unchanged.
func (s *OrderService) EditTeam(ctx context.Context, actor domain.Actor, orderID string, studentIDs []string) (*models.Order, error) {
	if actor.Role != domain.RoleTeacher {
		return nil, domain.ErrForbidden
	}

	order, err := s.getOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if order.Status != string(domain.StatusInProgress) && order.Status != string(domain.StatusReview) {
		return nil, domain.ErrForbidden
	}

	team := make([]string, 0, len(studentIDs))
	seen := map[string]bool{}
	for _, id := range studentIDs {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		team = append(team, id)
	}
	if len(team) == 0 {
		return nil, ErrEmptyTeam
	}
	if err := s.checkStudents(ctx, team); err != nil {
		return nil, err
	}

	order.StudentIDs = team
	if err := s.orderRepo.Put(ctx, order); err != nil {
		return nil, err
	}

	log.Printf("✅ Order %s team edited by teacher %s (%d members)", order.ID, actor.ID, len(team))
	s.publish(ctx)
	return order, nil
}

// GetOrder returns one order, enforcing per-role visibility
func (s *OrderService) GetOrder(ctx context.Context, actor domain.Actor, orderID string) (*models.OrderResponse, error) {
	order, err := s.getOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !s.canSee(actor, order) {
		return nil, ErrOrderNotFound
	}
	return s.shapeForActor(actor, order), nil
}

// VisibleOrders returns the orders an actor may see, shaped for that
// actor: admin/teacher see everything, clients their own orders,
// students all open orders plus their assigned ones.
func (s *OrderService) VisibleOrders(ctx context.Context, actor domain.Actor) ([]*models.OrderResponse, error) {
	var (
		orders []*models.Order
		err    error
	)

	switch actor.Role {
	case domain.RoleAdmin, domain.RoleTeacher:
		orders, err = s.orderRepo.List(ctx)
	case domain.RoleClient:
		orders, err = s.orderRepo.ListByClient(ctx, actor.ID)
	case domain.RoleStudent:
		orders, err = s.orderRepo.List(ctx)
		if err == nil {
			visible := make([]*models.Order, 0, len(orders))
			for _, o := range orders {
				if o.Status == string(domain.StatusOpen) || o.HasMember(actor.ID) {
					visible = append(visible, o)
				}
			}
			orders = visible
		}
	default:
		return nil, domain.ErrForbidden
	}
	if err != nil {
		return nil, err
	}

	shaped := make([]*models.OrderResponse, 0, len(orders))
	for _, o := range orders {
		shaped = append(shaped, s.shapeForActor(actor, o))
	}
	return shaped, nil
}

// OpenBoard returns the public landing-page view: open and active
// orders with costs stripped.
func (s *OrderService) OpenBoard(ctx context.Context) ([]*models.OrderResponse, error) {
	orders, err := s.orderRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	board := make([]*models.OrderResponse, 0, len(orders))
	for _, o := range orders {
		switch o.Status {
		case string(domain.StatusOpen), string(domain.StatusInProgress), string(domain.StatusReview):
			resp := o.ToResponse()
			resp.ProjectCost = nil
			board = append(board, resp)
		}
	}
	return board, nil
}

// BoardStats holds the public landing-page counters.
type BoardStats struct {
	Open      int `json:"open"`
	Active    int `json:"active"`
	Completed int `json:"completed"`
}

// GetBoardStats counts orders per public stage: claimable, being
// worked (in progress or in review) and finished.
func (s *OrderService) GetBoardStats(ctx context.Context) (*BoardStats, error) {
	orders, err := s.orderRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	stats := &BoardStats{}
	for _, o := range orders {
		switch o.Status {
		case string(domain.StatusOpen):
			stats.Open++
		case string(domain.StatusInProgress), string(domain.StatusReview):
			stats.Active++
		case string(domain.StatusCompleted):
			stats.Completed++
		}
	}
	return stats, nil
}

// getOrder fetches an order, mapping record-not-found to the workflow
// error so a concurrently deleted order degrades to a no-op
func (s *OrderService) getOrder(ctx context.Context, id string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

// checkStudents verifies every id belongs to an existing student
func (s *OrderService) checkStudents(ctx context.Context, ids []string) error {
	for _, id := range ids {
		user, err := s.userRepo.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}
		if user.Role != string(domain.RoleStudent) {
			return ErrNotStudent
		}
	}
	return nil
}

// canSee applies the visibility half of the authorization matrix
func (s *OrderService) canSee(actor domain.Actor, order *models.Order) bool {
	switch actor.Role {
	case domain.RoleAdmin, domain.RoleTeacher:
		return true
	case domain.RoleClient:
		return order.ClientID == actor.ID
	case domain.RoleStudent:
		return order.Status == string(domain.StatusOpen) || order.HasMember(actor.ID)
	}
	return false
}

// shapeForActor strips the project cost unless the actor is staff or
// the order's requester
func (s *OrderService) shapeForActor(actor domain.Actor, order *models.Order) *models.OrderResponse {
	resp := order.ToResponse()
	if actor.Role != domain.RoleAdmin && actor.Role != domain.RoleTeacher && actor.ID != order.ClientID {
		resp.ProjectCost = nil
	}
	return resp
}

func (s *OrderService) publish(ctx context.Context) {
	if s.watch != nil {
		s.watch.PublishOrders(ctx)
	}
}
