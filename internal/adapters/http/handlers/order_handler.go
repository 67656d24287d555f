package handlers

import (
	"errors"

	"tefa-hub/internal/core/domain"
	"tefa-hub/internal/core/services"
	"tefa-hub/internal/core/statemachine"
	"tefa-hub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles project order endpoints
type OrderHandler struct {
	orderService *services.OrderService
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderService *services.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// VerifyRequest represents the teacher verification decision
type VerifyRequest struct {
	Approve bool   `json:"approve"`
	Notes   string `json:"notes"`
}

// ProgressRequest represents a progress update
type ProgressRequest struct {
	Progress int `json:"progress"`
}

// RevisionRequest represents a revision request with notes
type RevisionRequest struct {
	Notes string `json:"notes"`
}

// EditTeamRequest represents a teacher's team edit
type EditTeamRequest struct {
	StudentIDs []string `json:"student_ids"`
}

// CreateOrder creates a new project order
// @Summary Create order
// @Description Create a project order. Client orders await verification; staff orders open immediately.
// @Tags Orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CreateOrderInput true "Order data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /orders [post]
func (h *OrderHandler) CreateOrder(c *fiber.Ctx) error {
	actor, ok := actorFromCtx(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var input services.CreateOrderInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	order, err := h.orderService.CreateOrder(c.Context(), actor, &input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrProfileIncomplete):
			return response.BadRequest(c, "Complete your contact profile (address and phone) before placing orders")
		case errors.Is(err, domain.ErrForbidden):
			return response.Forbidden(c, "Students cannot place orders")
		case errors.Is(err, domain.ErrInvalidInput):
			return response.BadRequest(c, "Invalid order data")
		default:
			return response.InternalServerError(c, "Failed to create order")
		}
	}

	return response.Created(c, "Order created successfully", order.ToResponse())
}

// ListOrders lists orders visible to the authenticated user
// @Summary List orders
// @Description List orders scoped by role: staff see all, clients their own, students open and assigned orders
// @Tags Orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /orders [get]
func (h *OrderHandler) ListOrders(c *fiber.Ctx) error {
	actor, ok := actorFromCtx(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	orders, err := h.orderService.VisibleOrders(c.Context(), actor)
	if err != nil {
		return response.InternalServerError(c, "Failed to list orders")
	}

	return response.Success(c, "Orders retrieved successfully", orders)
}

// GetOrder returns a single order if it is visible to the caller
// @Summary Get order
// @Description Get an order by ID, subject to role-based visibility
// @Tags Orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Order ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /orders/{id} [get]
func (h *OrderHandler) GetOrder(c *fiber.Ctx) error {
	actor, ok := actorFromCtx(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	order, err := h.orderService.GetOrder(c.Context(), actor, c.Params("id"))
	if err != nil {
		if errors.Is(err, services.ErrOrderNotFound) {
			return response.NotFound(c, "Order not found")
		}
		return response.InternalServerError(c, "Failed to get order")
	}

	return response.Success(c, "Order retrieved successfully", order)
}

// OpenBoard lists active orders for the public board
// @Summary Public order board
// @Description List open and in-flight orders without cost details (no auth required)
// @Tags Orders
// @Accept json
// @Produce json
// @Success 200 {object} response.Response
// @Router /board [get]
func (h *OrderHandler) OpenBoard(c *fiber.Ctx) error {
	orders, err := h.orderService.OpenBoard(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to load order board")
	}

	return response.Success(c, "Order board retrieved successfully", orders)
}

// BoardStats returns the public landing-page counters
// @Summary Public board statistics
// @Description Order counts per stage for the landing page
// @Tags Board
// @Produce json
// @Success 200 {object} response.Response
// @Router /board/stats [get]
func (h *OrderHandler) BoardStats(c *fiber.Ctx) error {
	stats, err := h.orderService.GetBoardStats(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to load board statistics")
	}

	return response.Success(c, "Board statistics retrieved successfully", stats)
}

// Verify approves or rejects a pending order (teacher)
// @Summary Verify order
// @Description Approve (pending to open) or reject a client's pending order
// @Tags Orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Order ID"
// @Param body body VerifyRequest true "Verification decision"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /orders/{id}/verify [post]
func (h *OrderHandler) Verify(c *fiber.Ctx) error {
	actor, ok := actorFromCtx(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req VerifyRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	order, err := h.orderService.Verify(c.Context(), actor, c.Params("id"), req.Approve, req.Notes)
	if err != nil {
		return h.mapOrderError(c, err, "Failed to verify order")
	}

	return response.Success(c, "Order verified successfully", order.ToResponse())
}

// Claim assigns an open order to the claiming student's team
// @Summary Claim order
// @Description Claim an open order as a student, optionally with additional team members
// @Tags Orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Order ID"
// @Param body body services.ClaimInput true "Optional team members"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /orders/{id}/claim [post]
func (h *OrderHandler) Claim(c *fiber.Ctx) error {
	actor, ok := actorFromCtx(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var input services.ClaimInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	order, err := h.orderService.Claim(c.Context(), actor, c.Params("id"), &input)
	if err != nil {
		return h.mapOrderError(c, err, "Failed to claim order")
	}

	return response.Success(c, "Order claimed successfully", order.ToResponse())
}

// UpdateProgress sets the progress percentage of an order in progress
// @Summary Update progress
// @Description Update progress (0-100) of an in-progress order, team members only
// @Tags Orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Order ID"
// @Param body body ProgressRequest true "Progress value"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /orders/{id}/progress [put]
func (h *OrderHandler) UpdateProgress(c *fiber.Ctx) error {
	actor, ok := actorFromCtx(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req ProgressRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	order, err := h.orderService.UpdateProgress(c.Context(), actor, c.Params("id"), req.Progress)
	if err != nil {
		return h.mapOrderError(c, err, "Failed to update progress")
	}

	return response.Success(c, "Progress updated successfully", order.ToResponse())
}

// Submit moves an order from in_progress to review
// @Summary Submit for review
// @Description Submit an in-progress order for the requester's review (team members only)
// @Tags Orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Order ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /orders/{id}/submit [post]
func (h *OrderHandler) Submit(c *fiber.Ctx) error {
	actor, ok := actorFromCtx(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	order, err := h.orderService.SubmitForReview(c.Context(), actor, c.Params("id"))
	if err != nil {
		return h.mapOrderError(c, err, "Failed to submit order")
	}

	return response.Success(c, "Order submitted for review", order.ToResponse())
}

// RequestRevision sends a reviewed order back to the team with notes
// @Summary Request revision
// @Description Send an order under review back to in_progress with revision notes (requester only)
// @Tags Orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Order ID"
// @Param body body RevisionRequest true "Revision notes"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /orders/{id}/revision [post]
func (h *OrderHandler) RequestRevision(c *fiber.Ctx) error {
	actor, ok := actorFromCtx(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req RevisionRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	order, err := h.orderService.RequestRevision(c.Context(), actor, c.Params("id"), req.Notes)
	if err != nil {
		return h.mapOrderError(c, err, "Failed to request revision")
	}

	return response.Success(c, "Revision requested successfully", order.ToResponse())
}

// Accept completes a reviewed order and awards the team a rating
// @Summary Accept and rate
// @Description Accept an order under review, awarding points and stars (requester only)
// @Tags Orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Order ID"
// @Param body body services.RateInput true "Rating"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /orders/{id}/accept [post]
func (h *OrderHandler) Accept(c *fiber.Ctx) error {
	actor, ok := actorFromCtx(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var input services.RateInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	order, err := h.orderService.AcceptAndRate(c.Context(), actor, c.Params("id"), &input)
	if err != nil {
		return h.mapOrderError(c, err, "Failed to accept order")
	}

	return response.Success(c, "Order accepted successfully", order.ToResponse())
}

// EditTeam replaces the team of an active order (teacher)
// @Summary Edit team
// @Description Replace the student team of an in-progress or reviewed order
// @Tags Orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Order ID"
// @Param body body EditTeamRequest true "New team members"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /orders/{id}/team [put]
func (h *OrderHandler) EditTeam(c *fiber.Ctx) error {
	actor, ok := actorFromCtx(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req EditTeamRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	order, err := h.orderService.EditTeam(c.Context(), actor, c.Params("id"), req.StudentIDs)
	if err != nil {
		return h.mapOrderError(c, err, "Failed to edit team")
	}

	return response.Success(c, "Team updated successfully", order.ToResponse())
}

// mapOrderError translates order service errors to HTTP responses
func (h *OrderHandler) mapOrderError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, services.ErrOrderNotFound):
		return response.NotFound(c, "Order not found")
	case errors.Is(err, statemachine.ErrInvalidTransition):
		return response.Conflict(c, err.Error())
	case errors.Is(err, services.ErrNotTeamMember):
		return response.Forbidden(c, "You are not a member of this order's team")
	case errors.Is(err, services.ErrNotRequester):
		return response.Forbidden(c, "Only the order requester may do this")
	case errors.Is(err, services.ErrTeamAlreadySet):
		return response.Conflict(c, "Order already has an assigned team")
	case errors.Is(err, services.ErrEmptyTeam):
		return response.BadRequest(c, "Team must keep at least one member")
	case errors.Is(err, services.ErrNotStudent):
		return response.BadRequest(c, "Team members must be students")
	case errors.Is(err, services.ErrProgressTooLow):
		return response.BadRequest(c, "Progress must be at least 10 to submit for review")
	case errors.Is(err, services.ErrInvalidProgress):
		return response.BadRequest(c, "Progress must be between 0 and 100")
	case errors.Is(err, services.ErrInvalidRating):
		return response.BadRequest(c, "Rating is out of the allowed range")
	case errors.Is(err, domain.ErrForbidden):
		return response.Forbidden(c, "You don't have permission to perform this action")
	case errors.Is(err, domain.ErrInvalidInput):
		return response.BadRequest(c, "Invalid request data")
	default:
		return response.InternalServerError(c, fallback)
	}
}
