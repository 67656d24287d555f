package services

import (
	"log"
	"time"

	"tefa-hub/internal/adapters/persistence/models"
	"tefa-hub/internal/core/domain"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// ReminderService scans active orders every morning and logs deadline
// warnings for projects due soon or overdue.
type ReminderService struct {
	db   *gorm.DB
	cron *cron.Cron
}

// NewReminderService creates a new reminder service
func NewReminderService(db *gorm.DB) *ReminderService {
	return &ReminderService{
		db:   db,
		cron: cron.New(),
	}
}

// Start schedules the daily deadline scan (08:30 every day)
func (s *ReminderService) Start() {
	_, err := s.cron.AddFunc("30 8 * * *", s.scanDeadlines)
	if err != nil {
		log.Printf("❌ Failed to schedule deadline scan: %v", err)
		return
	}
	s.cron.Start()
	log.Println("✅ Deadline reminder scheduled (08:30 daily)")
}

// Stop stops the scheduler
func (s *ReminderService) Stop() {
	s.cron.Stop()
	log.Println("🛑 Deadline reminder stopped")
}

// scanDeadlines warns about active orders due within 3 days or overdue
func (s *ReminderService) scanDeadlines() {
	var orders []models.Order
	err := s.db.
		Where("status IN ?", []string{string(domain.StatusInProgress), string(domain.StatusReview)}).
		Where("deadline IS NOT NULL").
		Find(&orders).Error
	if err != nil {
		log.Printf("❌ Deadline scan failed: %v", err)
		return
	}

	now := time.Now()
	soon := now.Add(3 * 24 * time.Hour)
	for _, o := range orders {
		if o.Deadline == nil {
			continue
		}
		switch {
		case o.Deadline.Before(now):
			log.Printf("⚠️ Order overdue: %s (deadline %s, progress %d%%)",
				o.Title, o.Deadline.Format("2006-01-02"), o.Progress)
		case o.Deadline.Before(soon):
			log.Printf("⚠️ Order due soon: %s (deadline %s, progress %d%%)",
				o.Title, o.Deadline.Format("2006-01-02"), o.Progress)
		}
	}
}
