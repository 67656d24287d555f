package services

import (
	"context"
	"log"
	"sync"

	"tefa-hub/internal/adapters/persistence/repositories"
)

// Collection names published through the hub
const (
	CollectionOrders       = "orders"
	CollectionUsers        = "users"
	CollectionCategories   = "categories"
	CollectionProjectTypes = "projectTypes"
)

// WatchEvent carries a full-collection snapshot. Readers replace their
// local state wholesale on every event.
type WatchEvent struct {
	Collection string      `json:"collection"`
	Data       interface{} `json:"data"`
}

// WatchClient represents a connected snapshot subscriber
type WatchClient struct {
	ID      string
	UserID  string
	Role    string
	Channel chan WatchEvent
}

// WatchHub manages snapshot subscribers. It keeps the last snapshot of
// each collection so a new subscriber receives current contents
// immediately, then every future republish.
type WatchHub struct {
	mu        sync.RWMutex
	clients   map[string]*WatchClient
	snapshots map[string]interface{}
}

// NewWatchHub creates a new watch hub
func NewWatchHub() *WatchHub {
	return &WatchHub{
		clients:   make(map[string]*WatchClient),
		snapshots: make(map[string]interface{}),
	}
}

// Register adds a subscriber and replays the cached snapshots to it
func (h *WatchHub) Register(client *WatchClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[client.ID] = client

	for collection, data := range h.snapshots {
		select {
		case client.Channel <- WatchEvent{Collection: collection, Data: data}:
		default:
		}
	}

	log.Printf("📡 Watch client registered: %s (user=%s, role=%s) | total=%d",
		client.ID, client.UserID, client.Role, len(h.clients))
}

// Unregister removes a subscriber
func (h *WatchHub) Unregister(clientID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if client, ok := h.clients[clientID]; ok {
		close(client.Channel)
		delete(h.clients, clientID)
		log.Printf("📡 Watch client unregistered: %s | total=%d", clientID, len(h.clients))
	}
}

// Publish caches the snapshot and fans it out to every subscriber
func (h *WatchHub) Publish(collection string, data interface{}) {
	h.mu.Lock()
	h.snapshots[collection] = data
	h.mu.Unlock()

	// Fan out under the read lock so Unregister cannot close a channel
	// mid-send. Sends stay non-blocking, so holding the lock is cheap.
	h.mu.RLock()
	defer h.mu.RUnlock()

	sent := 0
	for _, client := range h.clients {
		select {
		case client.Channel <- WatchEvent{Collection: collection, Data: data}:
			sent++
		default:
			// Client channel full, skip
			log.Printf("⚠️ Watch channel full for client %s, skipping", client.ID)
		}
	}
	if sent > 0 {
		log.Printf("📡 Snapshot [%s] pushed to %d clients", collection, sent)
	}
}

// Snapshot returns the cached snapshot for a collection, if any
func (h *WatchHub) Snapshot(collection string) (interface{}, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	data, ok := h.snapshots[collection]
	return data, ok
}

// ClientCount returns the number of connected subscribers
func (h *WatchHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// WatchService republishes full collection snapshots after mutations
type WatchService struct {
	Hub             *WatchHub
	orderRepo       repositories.OrderRepository
	userRepo        repositories.UserRepository
	categoryRepo    repositories.CategoryRepository
	projectTypeRepo repositories.ProjectTypeRepository
}

// NewWatchService creates a new watch service
func NewWatchService(
	orderRepo repositories.OrderRepository,
	userRepo repositories.UserRepository,
	categoryRepo repositories.CategoryRepository,
	projectTypeRepo repositories.ProjectTypeRepository,
) *WatchService {
	return &WatchService{
		Hub:             NewWatchHub(),
		orderRepo:       orderRepo,
		userRepo:        userRepo,
		categoryRepo:    categoryRepo,
		projectTypeRepo: projectTypeRepo,
	}
}

// PublishOrders pushes the current full orders collection to subscribers
func (s *WatchService) PublishOrders(ctx context.Context) {
	orders, err := s.orderRepo.List(ctx)
	if err != nil {
		log.Printf("⚠️ Failed to snapshot orders: %v", err)
		return
	}
	s.Hub.Publish(CollectionOrders, orders)
}

// PublishUsers pushes the current full users collection to subscribers
func (s *WatchService) PublishUsers(ctx context.Context) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		log.Printf("⚠️ Failed to snapshot users: %v", err)
		return
	}
	s.Hub.Publish(CollectionUsers, users)
}

// PublishCategories pushes the current categories collection
func (s *WatchService) PublishCategories(ctx context.Context) {
	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		log.Printf("⚠️ Failed to snapshot categories: %v", err)
		return
	}
	s.Hub.Publish(CollectionCategories, categories)
}

// PublishProjectTypes pushes the current project types collection
func (s *WatchService) PublishProjectTypes(ctx context.Context) {
	pts, err := s.projectTypeRepo.List(ctx)
	if err != nil {
		log.Printf("⚠️ Failed to snapshot project types: %v", err)
		return
	}
	s.Hub.Publish(CollectionProjectTypes, pts)
}

// PublishAll primes the hub with every collection (used at startup so
// the first subscriber sees data without waiting for a mutation)
func (s *WatchService) PublishAll(ctx context.Context) {
	s.PublishOrders(ctx)
	s.PublishUsers(ctx)
	s.PublishCategories(ctx)
	s.PublishProjectTypes(ctx)
}
