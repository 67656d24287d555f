package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"math"
	"strconv"

	"tefa-hub/internal/adapters/persistence/models"
	"tefa-hub/internal/adapters/persistence/repositories"
	"tefa-hub/internal/core/domain"
)

// ReportRow is one line of the student report
type ReportRow struct {
	StudentID     string  `json:"student_id"`
	Name          string  `json:"name"`
	ClassName     string  `json:"class_name"`
	TotalProjects int     `json:"total_projects"`
	TotalPoints   int     `json:"total_points"`
	AvgStars      float64 `json:"avg_stars"`
}

// csvHeader is the fixed header row of the exported report
var csvHeader = []string{"Nama Murid", "Kelas", "Total Projek", "Total Poin", "Rata-rata Bintang"}

// ComputeStudentStats derives a student's aggregates from an orders
// snapshot: completed, rated orders where the student was on the team.
// AvgStars is rounded to one decimal and is 0 (not NaN) without data.
func ComputeStudentStats(orders []*models.Order, studentID string) domain.StudentStats {
	var stats domain.StudentStats
	var starSum int

	for _, o := range orders {
		if o.Status != string(domain.StatusCompleted) || o.Rating == nil {
			continue
		}
		if !o.HasMember(studentID) {
			continue
		}
		stats.TotalProjects++
		stats.TotalPoints += o.Rating.Points
		starSum += o.Rating.Stars
	}

	if stats.TotalProjects > 0 {
		avg := float64(starSum) / float64(stats.TotalProjects)
		stats.AvgStars = math.Round(avg*10) / 10
	}
	return stats
}

// BuildStudentReport computes one row per student over immutable
// snapshots of orders and users, optionally filtered by class name.
func BuildStudentReport(orders []*models.Order, students []*models.User, classFilter string) []ReportRow {
	rows := make([]ReportRow, 0, len(students))
	for _, st := range students {
		if st.Role != string(domain.RoleStudent) {
			continue
		}
		if classFilter != "" && st.ClassName != classFilter {
			continue
		}
		stats := ComputeStudentStats(orders, st.ID)
		rows = append(rows, ReportRow{
			StudentID:     st.ID,
			Name:          st.Name,
			ClassName:     st.ClassName,
			TotalProjects: stats.TotalProjects,
			TotalPoints:   stats.TotalPoints,
			AvgStars:      stats.AvgStars,
		})
	}
	return rows
}

// RenderCSV renders report rows as a UTF-8 CSV blob with the fixed
// header. String fields are quoted by the encoder as needed.
func RenderCSV(rows []ReportRow) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeader); err != nil {
		return "", err
	}
	for _, row := range rows {
		record := []string{
			row.Name,
			row.ClassName,
			strconv.Itoa(row.TotalProjects),
			strconv.Itoa(row.TotalPoints),
			strconv.FormatFloat(row.AvgStars, 'f', 1, 64),
		}
		if err := w.Write(record); err != nil {
			return "", err
		}
	}

	w.Flush()
	return buf.String(), w.Error()
}

// ReportService wires the pure report builders to the stores
type ReportService struct {
	orderRepo repositories.OrderRepository
	userRepo  repositories.UserRepository
}

// NewReportService creates a new report service
func NewReportService(
	orderRepo repositories.OrderRepository,
	userRepo repositories.UserRepository,
) *ReportService {
	return &ReportService{
		orderRepo: orderRepo,
		userRepo:  userRepo,
	}
}

// GetStudentStats returns aggregates for one student
func (s *ReportService) GetStudentStats(ctx context.Context, studentID string) (domain.StudentStats, error) {
	orders, err := s.orderRepo.List(ctx)
	if err != nil {
		return domain.StudentStats{}, err
	}
	return ComputeStudentStats(orders, studentID), nil
}

// GetStudentReport returns report rows, optionally class-filtered
func (s *ReportService) GetStudentReport(ctx context.Context, classFilter string) ([]ReportRow, error) {
	orders, err := s.orderRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	students, err := s.userRepo.ListByRole(ctx, string(domain.RoleStudent))
	if err != nil {
		return nil, err
	}
	return BuildStudentReport(orders, students, classFilter), nil
}

// ExportCSV returns the report as a downloadable CSV blob
func (s *ReportService) ExportCSV(ctx context.Context, classFilter string) (string, error) {
	rows, err := s.GetStudentReport(ctx, classFilter)
	if err != nil {
		return "", err
	}
	return RenderCSV(rows)
}
