package handlers

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"tefa-hub/internal/adapters/persistence/models"
	"tefa-hub/internal/core/domain"
	"tefa-hub/internal/core/services"
	"tefa-hub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// StreamHandler handles real-time snapshot streams (SSE)
type StreamHandler struct {
	watch *services.WatchService
}

// NewStreamHandler creates a new stream handler
func NewStreamHandler(watch *services.WatchService) *StreamHandler {
	return &StreamHandler{watch: watch}
}

// Watch streams full-collection snapshots to the authenticated user
// @Summary Watch collections
// @Description Server-Sent Events stream of full collection snapshots; fires immediately with current contents, then after every change
// @Tags Stream
// @Produce text/event-stream
// @Security BearerAuth
// @Success 200 {string} string "SSE stream"
// @Router /stream [get]
func (h *StreamHandler) Watch(c *fiber.Ctx) error {
	actor, ok := actorFromCtx(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	clientID := fmt.Sprintf("watch-%s-%d", actor.ID, time.Now().UnixNano())

	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")
	c.Set("Transfer-Encoding", "chunked")

	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		client := &services.WatchClient{
			ID:      clientID,
			UserID:  actor.ID,
			Role:    string(actor.Role),
			Channel: make(chan services.WatchEvent, 50),
		}

		h.watch.Hub.Register(client)
		defer h.watch.Hub.Unregister(clientID)

		// Send initial connection event
		fmt.Fprintf(w, "event: connected\ndata: {\"client_id\":%q}\n\n", clientID)
		w.Flush()

		// Heartbeat ticker
		heartbeat := time.NewTicker(30 * time.Second)
		defer heartbeat.Stop()

		for {
			select {
			case event, ok := <-client.Channel:
				if !ok {
					return
				}
				writeWatchEvent(w, event, actor)
				w.Flush()

			case <-heartbeat.C:
				fmt.Fprintf(w, ": heartbeat\n\n")
				if err := w.Flush(); err != nil {
					log.Printf("📡 Watch client disconnected: %s", clientID)
					return
				}
			}
		}
	})

	return nil
}

// BoardStream streams the public order board without auth
// @Summary Watch public order board
// @Description Server-Sent Events stream of the public order board (no auth, no cost details)
// @Tags Stream
// @Produce text/event-stream
// @Success 200 {string} string "SSE stream"
// @Router /board/stream [get]
func (h *StreamHandler) BoardStream(c *fiber.Ctx) error {
	clientID := fmt.Sprintf("board-%d", time.Now().UnixNano())

	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")
	c.Set("Transfer-Encoding", "chunked")
	c.Set("Access-Control-Allow-Origin", "*")

	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		client := &services.WatchClient{
			ID:      clientID,
			Channel: make(chan services.WatchEvent, 50),
		}

		h.watch.Hub.Register(client)
		defer h.watch.Hub.Unregister(clientID)

		fmt.Fprintf(w, "event: connected\ndata: {\"client_id\":%q}\n\n", clientID)
		w.Flush()

		heartbeat := time.NewTicker(30 * time.Second)
		defer heartbeat.Stop()

		for {
			select {
			case event, ok := <-client.Channel:
				if !ok {
					return
				}
				// The public board only carries orders
				if event.Collection != services.CollectionOrders {
					continue
				}
				writeWatchEvent(w, event, domain.Actor{})
				w.Flush()

			case <-heartbeat.C:
				fmt.Fprintf(w, ": heartbeat\n\n")
				if err := w.Flush(); err != nil {
					log.Printf("📡 Board client disconnected: %s", clientID)
					return
				}
			}
		}
	})

	return nil
}

// writeWatchEvent shapes and writes one SSE event. Orders are filtered
// and stripped per the subscriber's role before serialization.
func writeWatchEvent(w *bufio.Writer, event services.WatchEvent, actor domain.Actor) {
	data := event.Data

	if event.Collection == services.CollectionOrders {
		if orders, ok := data.([]*models.Order); ok {
			data = shapeOrdersFor(orders, actor)
		}
	}

	payload, err := json.Marshal(data)
	if err != nil {
		log.Printf("⚠️ Failed to marshal %s snapshot: %v", event.Collection, err)
		return
	}

	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Collection, payload)
}

// shapeOrdersFor reduces a raw orders snapshot to what a subscriber may
// see. Staff get everything; clients their own orders; students open
// orders plus their assignments; anonymous board watchers get active
// orders only. Cost details survive only for staff and the requester.
func shapeOrdersFor(orders []*models.Order, actor domain.Actor) []*models.OrderResponse {
	isStaff := actor.Role == domain.RoleAdmin || actor.Role == domain.RoleTeacher

	shaped := make([]*models.OrderResponse, 0, len(orders))
	for _, o := range orders {
		visible := isStaff ||
			(actor.Role == domain.RoleClient && o.ClientID == actor.ID) ||
			(actor.Role == domain.RoleStudent && (o.Status == string(domain.StatusOpen) || o.HasMember(actor.ID)))

		// Anonymous subscribers see the active board
		if actor.ID == "" {
			visible = o.Status == string(domain.StatusOpen) ||
				o.Status == string(domain.StatusInProgress) ||
				o.Status == string(domain.StatusReview)
		}
		if !visible {
			continue
		}

		resp := o.ToResponse()
		if !isStaff && o.ClientID != actor.ID {
			resp.ProjectCost = nil
		}
		shaped = append(shaped, resp)
	}
	return shaped
}
