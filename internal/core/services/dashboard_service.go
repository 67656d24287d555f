package services

import (
	"context"

	"tefa-hub/internal/adapters/persistence/models"
	"tefa-hub/internal/core/domain"

	"gorm.io/gorm"
)

// DashboardService computes admin dashboard aggregates straight off
// the database
type DashboardService struct {
	db *gorm.DB
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(db *gorm.DB) *DashboardService {
	return &DashboardService{db: db}
}

// AdminDashboard holds headline counts for the admin landing view
type AdminDashboard struct {
	TotalOrders     int64            `json:"total_orders"`
	OrdersByStatus  map[string]int64 `json:"orders_by_status"`
	ActiveProjects  int64            `json:"active_projects"`
	PendingRequests int64            `json:"pending_requests"`
	TotalClients    int64            `json:"total_clients"`
	TotalStudents   int64            `json:"total_students"`
	TotalTeachers   int64            `json:"total_teachers"`
}

// GetAdminDashboard returns order and user counts for the admin view
func (s *DashboardService) GetAdminDashboard(ctx context.Context) (*AdminDashboard, error) {
	dash := &AdminDashboard{
		OrdersByStatus: make(map[string]int64),
	}

	if err := s.db.WithContext(ctx).Model(&models.Order{}).Count(&dash.TotalOrders).Error; err != nil {
		return nil, err
	}

	statuses := []domain.OrderStatus{
		domain.StatusPending, domain.StatusOpen, domain.StatusRejected,
		domain.StatusInProgress, domain.StatusReview, domain.StatusCompleted,
	}
	for _, status := range statuses {
		var count int64
		if err := s.db.WithContext(ctx).Model(&models.Order{}).
			Where("status = ?", string(status)).Count(&count).Error; err != nil {
			return nil, err
		}
		dash.OrdersByStatus[string(status)] = count
	}
	dash.PendingRequests = dash.OrdersByStatus[string(domain.StatusPending)]
	dash.ActiveProjects = dash.OrdersByStatus[string(domain.StatusInProgress)] +
		dash.OrdersByStatus[string(domain.StatusReview)]

	roleCounts := []struct {
		role string
		dst  *int64
	}{
		{string(domain.RoleClient), &dash.TotalClients},
		{string(domain.RoleStudent), &dash.TotalStudents},
		{string(domain.RoleTeacher), &dash.TotalTeachers},
	}
	for _, rc := range roleCounts {
		if err := s.db.WithContext(ctx).Model(&models.User{}).
			Where("role = ?", rc.role).Count(rc.dst).Error; err != nil {
			return nil, err
		}
	}

	return dash, nil
}
