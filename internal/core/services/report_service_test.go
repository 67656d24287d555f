package services

import (
	"context"
	"strings"
	"testing"

	"tefa-hub/internal/adapters/persistence/models"
	"tefa-hub/internal/adapters/persistence/repositories"
	"tefa-hub/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ratedOrder(id string, members []string, points, stars int) *models.Order {
	return &models.Order{
		ID:          id,
		Title:       "Order " + id,
		Description: "x",
		ClientID:    "c1",
		Status:      string(domain.StatusCompleted),
		StudentIDs:  members,
		Progress:    100,
		Rating:      &domain.Rating{Points: points, Stars: stars},
	}
}

func TestComputeStudentStatsNoData(t *testing.T) {
	stats := ComputeStudentStats(nil, "s1")

	assert.Equal(t, 0, stats.TotalProjects)
	assert.Equal(t, 0, stats.TotalPoints)
	assert.Equal(t, 0.0, stats.AvgStars)
}

func TestComputeStudentStatsAggregates(t *testing.T) {
	orders := []*models.Order{
		ratedOrder("1", []string{"s1", "s2"}, 90, 5),
		ratedOrder("2", []string{"s1"}, 70, 3),
		// Unrated and in-flight orders never count
		{ID: "3", Status: string(domain.StatusCompleted), StudentIDs: []string{"s1"}},
		{ID: "4", Status: string(domain.StatusInProgress), StudentIDs: []string{"s1"}},
		// Other students' work never counts
		ratedOrder("5", []string{"s2"}, 100, 5),
	}

	stats := ComputeStudentStats(orders, "s1")

	assert.Equal(t, 2, stats.TotalProjects)
	assert.Equal(t, 160, stats.TotalPoints)
	assert.Equal(t, 4.0, stats.AvgStars)
}

func TestComputeStudentStatsRoundsAvgStars(t *testing.T) {
	orders := []*models.Order{
		ratedOrder("1", []string{"s1"}, 50, 5),
		ratedOrder("2", []string{"s1"}, 50, 4),
		ratedOrder("3", []string{"s1"}, 50, 4),
	}

	stats := ComputeStudentStats(orders, "s1")

	// 13/3 = 4.333... rounds to one decimal
	assert.Equal(t, 4.3, stats.AvgStars)
}

func TestBuildStudentReportClassFilter(t *testing.T) {
	students := []*models.User{
		{ID: "s1", Role: "student", Name: "Andi", ClassName: "XII RPL 1"},
		{ID: "s2", Role: "student", Name: "Budi", ClassName: "XII MM 2"},
		{ID: "t1", Role: "teacher", Name: "Guru"},
	}
	orders := []*models.Order{
		ratedOrder("1", []string{"s1"}, 80, 4),
	}

	all := BuildStudentReport(orders, students, "")
	require.Len(t, all, 2)
	assert.Equal(t, "Andi", all[0].Name)
	assert.Equal(t, 80, all[0].TotalPoints)
	assert.Equal(t, 0, all[1].TotalProjects)

	rpl := BuildStudentReport(orders, students, "XII RPL 1")
	require.Len(t, rpl, 1)
	assert.Equal(t, "s1", rpl[0].StudentID)
}

func TestRenderCSV(t *testing.T) {
	rows := []ReportRow{
		{StudentID: "s1", Name: "Andi Saputra", ClassName: "XII RPL 1", TotalProjects: 2, TotalPoints: 160, AvgStars: 4.0},
		{StudentID: "s2", Name: `Budi "Bidi" Santoso`, ClassName: "XII MM 2", TotalProjects: 0, TotalPoints: 0, AvgStars: 0},
	}

	out, err := RenderCSV(rows)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Nama Murid,Kelas,Total Projek,Total Poin,Rata-rata Bintang", lines[0])
	assert.Equal(t, "Andi Saputra,XII RPL 1,2,160,4.0", lines[1])
	// Embedded quotes survive encoding
	assert.Contains(t, lines[2], `"Budi ""Bidi"" Santoso"`)
	assert.True(t, strings.HasSuffix(lines[2], "0,0,0.0"))
}

func TestReportServiceEndToEnd(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	userRepo := repositories.NewUserRepository(db)
	orderRepo := repositories.NewOrderRepository(db)

	users := []models.User{
		{ID: "s1", Role: "student", Name: "Andi", ClassName: "XII RPL 1", Username: "andi", Password: "x"},
		{ID: "s2", Role: "student", Name: "Budi", ClassName: "XII MM 2", Username: "budi", Password: "x"},
		{ID: "c1", Role: "client", Name: "Client", Username: "client", Password: "x"},
	}
	for i := range users {
		require.NoError(t, userRepo.Create(ctx, &users[i]))
	}
	require.NoError(t, orderRepo.Put(ctx, ratedOrder("1", []string{"s1", "s2"}, 90, 5)))
	require.NoError(t, orderRepo.Put(ctx, ratedOrder("2", []string{"s1"}, 70, 3)))

	svc := NewReportService(orderRepo, userRepo)

	stats, err := svc.GetStudentStats(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalProjects)
	assert.Equal(t, 160, stats.TotalPoints)
	assert.Equal(t, 4.0, stats.AvgStars)

	rows, err := svc.GetStudentReport(ctx, "")
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	csvOut, err := svc.ExportCSV(ctx, "XII MM 2")
	require.NoError(t, err)
	assert.Contains(t, csvOut, "Nama Murid,Kelas,Total Projek,Total Poin,Rata-rata Bintang")
	assert.Contains(t, csvOut, "Budi,XII MM 2,1,90,5.0")
	assert.NotContains(t, csvOut, "Andi")
}
