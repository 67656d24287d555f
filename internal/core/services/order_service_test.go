package services

import (
	"context"
	"testing"

	"tefa-hub/internal/adapters/persistence/models"
	"tefa-hub/internal/adapters/persistence/repositories"
	"tefa-hub/internal/core/domain"
	"tefa-hub/internal/core/statemachine"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, models.AutoMigrate(db))
	return db
}

type orderFixture struct {
	db      *gorm.DB
	orders  *OrderService
	catalog *CatalogService

	admin    domain.Actor
	client   domain.Actor
	teacher  domain.Actor
	student1 domain.Actor
	student2 domain.Actor
	outsider domain.Actor // student never assigned to anything
}

func newOrderFixture(t *testing.T) *orderFixture {
	t.Helper()
	db := newTestDB(t)
	ctx := context.Background()

	userRepo := repositories.NewUserRepository(db)
	orderRepo := repositories.NewOrderRepository(db)
	categoryRepo := repositories.NewCategoryRepository(db)
	projectTypeRepo := repositories.NewProjectTypeRepository(db)

	users := []models.User{
		{ID: "a1", Role: "admin", Name: "Admin", Username: "admin", Password: "x"},
		{ID: "c1", Role: "client", Name: "Client", Username: "client", Password: "x",
			Profile: models.ClientProfile{Address: "Jl. Merdeka 1", Phone: "0812000111"}},
		{ID: "t1", Role: "teacher", Name: "Teacher", Username: "guru", Password: "x"},
		{ID: "s1", Role: "student", Name: "Student One", ClassName: "XII RPL 1", Username: "andi", Password: "x"},
		{ID: "s2", Role: "student", Name: "Student Two", ClassName: "XII MM 2", Username: "budi", Password: "x"},
		{ID: "s3", Role: "student", Name: "Student Three", ClassName: "XII RPL 1", Username: "cici", Password: "x"},
	}
	for i := range users {
		require.NoError(t, userRepo.Create(ctx, &users[i]))
	}

	require.NoError(t, categoryRepo.Put(ctx, &models.Category{ID: "cat1", Name: "Desain Grafis"}))
	require.NoError(t, projectTypeRepo.Put(ctx, &models.ProjectType{ID: "pt1", Name: "Perorangan", MaxPoints: 80}))
	require.NoError(t, projectTypeRepo.Put(ctx, &models.ProjectType{ID: "pt2", Name: "Perusahaan", MaxPoints: 150}))

	catalog := NewCatalogService(categoryRepo, projectTypeRepo)
	watch := NewWatchService(orderRepo, userRepo, categoryRepo, projectTypeRepo)
	orders := NewOrderService(orderRepo, userRepo, catalog, watch)

	return &orderFixture{
		db:       db,
		orders:   orders,
		catalog:  catalog,
		admin:    domain.Actor{ID: "a1", Name: "Admin", Role: domain.RoleAdmin},
		client:   domain.Actor{ID: "c1", Name: "Client", Role: domain.RoleClient},
		teacher:  domain.Actor{ID: "t1", Name: "Teacher", Role: domain.RoleTeacher},
		student1: domain.Actor{ID: "s1", Name: "Student One", Role: domain.RoleStudent},
		student2: domain.Actor{ID: "s2", Name: "Student Two", Role: domain.RoleStudent},
		outsider: domain.Actor{ID: "s3", Name: "Student Three", Role: domain.RoleStudent},
	}
}

func (f *orderFixture) createClientOrder(t *testing.T) *models.Order {
	t.Helper()
	order, err := f.orders.CreateOrder(context.Background(), f.client, &CreateOrderInput{
		Title:       "Desain Logo Produk Baru",
		Description: "Logo untuk produk minuman",
		Category:    "Desain Grafis",
		ProjectType: "Perorangan",
	})
	require.NoError(t, err)
	return order
}

func TestCreateOrderClientStartsPending(t *testing.T) {
	f := newOrderFixture(t)

	order := f.createClientOrder(t)

	assert.Equal(t, "pending", order.Status)
	assert.Equal(t, "c1", order.ClientID)
	assert.Empty(t, order.StudentIDs)
	assert.Equal(t, 0, order.Progress)
}

func TestCreateOrderStaffStartsOpen(t *testing.T) {
	f := newOrderFixture(t)

	order, err := f.orders.CreateOrder(context.Background(), f.teacher, &CreateOrderInput{
		Title:       "Banner Acara Sekolah",
		Description: "Banner untuk pentas seni",
		Category:    "Desain Grafis",
		ProjectType: "Perorangan",
	})
	require.NoError(t, err)
	assert.Equal(t, "open", order.Status)
	assert.Equal(t, "t1", order.ClientID)
}

func TestCreateOrderIncompleteProfileRejected(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	bare := &models.User{ID: "c2", Role: "client", Name: "Bare Client", Username: "bare", Password: "x"}
	require.NoError(t, repositories.NewUserRepository(f.db).Create(ctx, bare))

	_, err := f.orders.CreateOrder(ctx, domain.Actor{ID: "c2", Role: domain.RoleClient}, &CreateOrderInput{
		Title:       "Tanpa Profil",
		Description: "Harus ditolak",
		Category:    "Desain Grafis",
		ProjectType: "Perorangan",
	})
	assert.ErrorIs(t, err, ErrProfileIncomplete)
}

func TestCreateOrderStudentForbidden(t *testing.T) {
	f := newOrderFixture(t)

	_, err := f.orders.CreateOrder(context.Background(), f.student1, &CreateOrderInput{
		Title:       "Murid Pesan",
		Description: "Harus ditolak",
		Category:    "Desain Grafis",
		ProjectType: "Perorangan",
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestFullLifecycleWithRevision(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	order := f.createClientOrder(t)

	// Teacher approves
	order, err := f.orders.Verify(ctx, f.teacher, order.ID, true, "")
	require.NoError(t, err)
	assert.Equal(t, "open", order.Status)

	// Student claims with a second team member
	order, err = f.orders.Claim(ctx, f.student1, order.ID, &ClaimInput{MemberIDs: []string{"s2"}})
	require.NoError(t, err)
	assert.Equal(t, "in_progress", order.Status)
	assert.Equal(t, []string{"s1", "s2"}, order.StudentIDs)

	// Any team member may push progress
	order, err = f.orders.UpdateProgress(ctx, f.student2, order.ID, 60)
	require.NoError(t, err)
	assert.Equal(t, 60, order.Progress)

	// Submit for review
	order, err = f.orders.SubmitForReview(ctx, f.student1, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "review", order.Status)

	// Requester sends it back with notes; progress forced to 99
	order, err = f.orders.RequestRevision(ctx, f.client, order.ID, "Warna logo kurang kontras")
	require.NoError(t, err)
	assert.Equal(t, "in_progress", order.Status)
	assert.Equal(t, 99, order.Progress)
	assert.Equal(t, "Warna logo kurang kontras", order.ReviewNotes)

	// Second round of review notes overwrites the first
	order, err = f.orders.SubmitForReview(ctx, f.student2, order.ID)
	require.NoError(t, err)
	order, err = f.orders.RequestRevision(ctx, f.client, order.ID, "Font masih kurang tegas")
	require.NoError(t, err)
	assert.Equal(t, "Font masih kurang tegas", order.ReviewNotes)

	// Accept with a rating; order completes at 100%
	order, err = f.orders.SubmitForReview(ctx, f.student1, order.ID)
	require.NoError(t, err)
	order, err = f.orders.AcceptAndRate(ctx, f.client, order.ID, &RateInput{Points: 75, Stars: 5})
	require.NoError(t, err)
	assert.Equal(t, "completed", order.Status)
	assert.Equal(t, 100, order.Progress)
	require.NotNil(t, order.Rating)
	assert.Equal(t, 75, order.Rating.Points)
	assert.Equal(t, 5, order.Rating.Stars)
}

func TestVerifyRejectIsTerminal(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	order := f.createClientOrder(t)

	order, err := f.orders.Verify(ctx, f.teacher, order.ID, false, "Deskripsi proyek kurang jelas")
	require.NoError(t, err)
	assert.Equal(t, "rejected", order.Status)
	assert.Equal(t, "Deskripsi proyek kurang jelas", order.ReviewNotes)

	// Nothing moves a rejected order
	_, err = f.orders.Verify(ctx, f.teacher, order.ID, true, "")
	assert.ErrorIs(t, err, statemachine.ErrInvalidTransition)
	_, err = f.orders.Claim(ctx, f.student1, order.ID, &ClaimInput{})
	assert.ErrorIs(t, err, statemachine.ErrInvalidTransition)
}

func TestVerifyByNonTeacherForbidden(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	order := f.createClientOrder(t)

	_, err := f.orders.Verify(ctx, f.admin, order.ID, true, "")
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = f.orders.Verify(ctx, f.client, order.ID, true, "")
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestClaimPendingOrderRejected(t *testing.T) {
	f := newOrderFixture(t)

	order := f.createClientOrder(t)

	_, err := f.orders.Claim(context.Background(), f.student1, order.ID, &ClaimInput{})
	assert.ErrorIs(t, err, statemachine.ErrInvalidTransition)
}

func TestClaimTwiceRejected(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	order := f.createClientOrder(t)
	_, err := f.orders.Verify(ctx, f.teacher, order.ID, true, "")
	require.NoError(t, err)
	_, err = f.orders.Claim(ctx, f.student1, order.ID, &ClaimInput{})
	require.NoError(t, err)

	_, err = f.orders.Claim(ctx, f.student2, order.ID, &ClaimInput{})
	assert.ErrorIs(t, err, statemachine.ErrInvalidTransition)
}

func TestClaimDeduplicatesInitiator(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	order := f.createClientOrder(t)
	_, err := f.orders.Verify(ctx, f.teacher, order.ID, true, "")
	require.NoError(t, err)

	order, err = f.orders.Claim(ctx, f.student1, order.ID, &ClaimInput{MemberIDs: []string{"s1", "s2", "s2"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"s1", "s2"}, order.StudentIDs)
}

func TestClaimWithNonStudentMemberRejected(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	order := f.createClientOrder(t)
	_, err := f.orders.Verify(ctx, f.teacher, order.ID, true, "")
	require.NoError(t, err)

	_, err = f.orders.Claim(ctx, f.student1, order.ID, &ClaimInput{MemberIDs: []string{"t1"}})
	assert.ErrorIs(t, err, ErrNotStudent)
}

func TestProgressByNonMemberRejected(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	order := f.createClientOrder(t)
	_, err := f.orders.Verify(ctx, f.teacher, order.ID, true, "")
	require.NoError(t, err)
	_, err = f.orders.Claim(ctx, f.student1, order.ID, &ClaimInput{})
	require.NoError(t, err)

	_, err = f.orders.UpdateProgress(ctx, f.outsider, order.ID, 50)
	assert.ErrorIs(t, err, ErrNotTeamMember)
	_, err = f.orders.SubmitForReview(ctx, f.outsider, order.ID)
	assert.ErrorIs(t, err, ErrNotTeamMember)
}

func TestProgressBoundsChecked(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	order := f.createClientOrder(t)
	_, err := f.orders.Verify(ctx, f.teacher, order.ID, true, "")
	require.NoError(t, err)
	_, err = f.orders.Claim(ctx, f.student1, order.ID, &ClaimInput{})
	require.NoError(t, err)

	_, err = f.orders.UpdateProgress(ctx, f.student1, order.ID, -1)
	assert.ErrorIs(t, err, ErrInvalidProgress)
	_, err = f.orders.UpdateProgress(ctx, f.student1, order.ID, 101)
	assert.ErrorIs(t, err, ErrInvalidProgress)

	// Idempotent: setting the same value twice is fine
	_, err = f.orders.UpdateProgress(ctx, f.student1, order.ID, 40)
	require.NoError(t, err)
	order2, err := f.orders.UpdateProgress(ctx, f.student1, order.ID, 40)
	require.NoError(t, err)
	assert.Equal(t, 40, order2.Progress)
}

func TestSubmitRequiresMinimumProgress(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	order := f.createClientOrder(t)
	_, err := f.orders.Verify(ctx, f.teacher, order.ID, true, "")
	require.NoError(t, err)
	_, err = f.orders.Claim(ctx, f.student1, order.ID, &ClaimInput{})
	require.NoError(t, err)

	// Fresh claim sits at 0%
	_, err = f.orders.SubmitForReview(ctx, f.student1, order.ID)
	assert.ErrorIs(t, err, ErrProgressTooLow)

	_, err = f.orders.UpdateProgress(ctx, f.student1, order.ID, MinSubmitProgress)
	require.NoError(t, err)
	order2, err := f.orders.SubmitForReview(ctx, f.student1, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "review", order2.Status)
}

func TestReviewActionsRequesterOnly(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	order := f.createClientOrder(t)
	_, err := f.orders.Verify(ctx, f.teacher, order.ID, true, "")
	require.NoError(t, err)
	_, err = f.orders.Claim(ctx, f.student1, order.ID, &ClaimInput{})
	require.NoError(t, err)
	_, err = f.orders.UpdateProgress(ctx, f.student1, order.ID, 80)
	require.NoError(t, err)
	_, err = f.orders.SubmitForReview(ctx, f.student1, order.ID)
	require.NoError(t, err)

	// Neither the team nor the teacher may review; only the requester
	_, err = f.orders.RequestRevision(ctx, f.student1, order.ID, "nope")
	assert.ErrorIs(t, err, ErrNotRequester)
	_, err = f.orders.AcceptAndRate(ctx, f.teacher, order.ID, &RateInput{Points: 10, Stars: 3})
	assert.ErrorIs(t, err, ErrNotRequester)
}

func TestStaffRequesterReviewsOwnOrder(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	// Teacher places an internal order, so the teacher is the requester
	order, err := f.orders.CreateOrder(ctx, f.teacher, &CreateOrderInput{
		Title:       "Video Profil Jurusan",
		Description: "Video 3 menit",
		Category:    "Desain Grafis",
		ProjectType: "Perorangan",
	})
	require.NoError(t, err)

	_, err = f.orders.Claim(ctx, f.student1, order.ID, &ClaimInput{})
	require.NoError(t, err)
	_, err = f.orders.UpdateProgress(ctx, f.student1, order.ID, 90)
	require.NoError(t, err)
	_, err = f.orders.SubmitForReview(ctx, f.student1, order.ID)
	require.NoError(t, err)

	order, err = f.orders.AcceptAndRate(ctx, f.teacher, order.ID, &RateInput{Points: 60, Stars: 4})
	require.NoError(t, err)
	assert.Equal(t, "completed", order.Status)
}

func TestRatingCappedByProjectType(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	order := f.createClientOrder(t)
	_, err := f.orders.Verify(ctx, f.teacher, order.ID, true, "")
	require.NoError(t, err)
	_, err = f.orders.Claim(ctx, f.student1, order.ID, &ClaimInput{})
	require.NoError(t, err)
	_, err = f.orders.UpdateProgress(ctx, f.student1, order.ID, 100)
	require.NoError(t, err)
	_, err = f.orders.SubmitForReview(ctx, f.student1, order.ID)
	require.NoError(t, err)

	// Perorangan caps at 80 points
	_, err = f.orders.AcceptAndRate(ctx, f.client, order.ID, &RateInput{Points: 81, Stars: 5})
	assert.ErrorIs(t, err, ErrInvalidRating)
	_, err = f.orders.AcceptAndRate(ctx, f.client, order.ID, &RateInput{Points: 80, Stars: 6})
	assert.ErrorIs(t, err, ErrInvalidRating)

	order2, err := f.orders.AcceptAndRate(ctx, f.client, order.ID, &RateInput{Points: 80, Stars: 5})
	require.NoError(t, err)
	assert.Equal(t, "completed", order2.Status)
}

func TestMaxPointsFallsBackForUnknownType(t *testing.T) {
	f := newOrderFixture(t)

	max := f.catalog.MaxPointsFor(context.Background(), "Tipe Sudah Dihapus")
	assert.Equal(t, DefaultMaxPoints, max)
}

func TestEditTeam(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	order := f.createClientOrder(t)
	_, err := f.orders.Verify(ctx, f.teacher, order.ID, true, "")
	require.NoError(t, err)
	_, err = f.orders.Claim(ctx, f.student1, order.ID, &ClaimInput{})
	require.NoError(t, err)

	// Teacher may swap the whole team
	order, err = f.orders.EditTeam(ctx, f.teacher, order.ID, []string{"s2", "s3"})
	require.NoError(t, err)
	assert.Equal(t, []string{"s2", "s3"}, order.StudentIDs)

	// Empty team leaves the previous team intact
	_, err = f.orders.EditTeam(ctx, f.teacher, order.ID, []string{})
	assert.ErrorIs(t, err, ErrEmptyTeam)
	current, err := f.orders.GetOrder(ctx, f.teacher, order.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"s2", "s3"}, current.StudentIDs)

	// Students and clients cannot edit teams
	_, err = f.orders.EditTeam(ctx, f.student1, order.ID, []string{"s1"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = f.orders.EditTeam(ctx, f.client, order.ID, []string{"s1"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestVisibility(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	// One pending client order, one open staff order, one claimed order
	pending := f.createClientOrder(t)

	open, err := f.orders.CreateOrder(ctx, f.admin, &CreateOrderInput{
		Title:       "Poster Lomba",
		Description: "Poster A2",
		Category:    "Desain Grafis",
		ProjectType: "Perorangan",
	})
	require.NoError(t, err)

	claimed, err := f.orders.CreateOrder(ctx, f.admin, &CreateOrderInput{
		Title:       "Stiker Kelas",
		Description: "Stiker vinyl",
		Category:    "Desain Grafis",
		ProjectType: "Perorangan",
	})
	require.NoError(t, err)
	_, err = f.orders.Claim(ctx, f.student1, claimed.ID, &ClaimInput{})
	require.NoError(t, err)

	// Staff see everything
	all, err := f.orders.VisibleOrders(ctx, f.teacher)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	// The client only sees their own order
	mine, err := f.orders.VisibleOrders(ctx, f.client)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, pending.ID, mine[0].ID)

	// s1 sees the open order and their assignment, not the pending one
	visible, err := f.orders.VisibleOrders(ctx, f.student1)
	require.NoError(t, err)
	assert.Len(t, visible, 2)

	// s3 sees only the open order
	visible, err = f.orders.VisibleOrders(ctx, f.outsider)
	require.NoError(t, err)
	require.Len(t, visible, 1)
	assert.Equal(t, open.ID, visible[0].ID)

	// A pending order reads as not-found for students
	_, err = f.orders.GetOrder(ctx, f.student1, pending.ID)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestCostVisibility(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	cost := 1500000.0
	order, err := f.orders.CreateOrder(ctx, f.client, &CreateOrderInput{
		Title:       "Website Toko",
		Description: "Toko online sederhana",
		Category:    "Desain Grafis",
		ProjectType: "Perusahaan",
		ProjectCost: &cost,
	})
	require.NoError(t, err)
	_, err = f.orders.Verify(ctx, f.teacher, order.ID, true, "")
	require.NoError(t, err)

	// Requester and staff see the cost
	got, err := f.orders.GetOrder(ctx, f.client, order.ID)
	require.NoError(t, err)
	require.NotNil(t, got.ProjectCost)
	assert.Equal(t, cost, *got.ProjectCost)

	got, err = f.orders.GetOrder(ctx, f.admin, order.ID)
	require.NoError(t, err)
	assert.NotNil(t, got.ProjectCost)

	// Students do not
	got, err = f.orders.GetOrder(ctx, f.student1, order.ID)
	require.NoError(t, err)
	assert.Nil(t, got.ProjectCost)

	// The public board strips it too
	board, err := f.orders.OpenBoard(ctx)
	require.NoError(t, err)
	require.Len(t, board, 1)
	assert.Nil(t, board[0].ProjectCost)
}

func TestOpenBoardExcludesInactiveOrders(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	pending := f.createClientOrder(t)

	open, err := f.orders.CreateOrder(ctx, f.admin, &CreateOrderInput{
		Title:       "Mug Custom",
		Description: "Sablon mug",
		Category:    "Desain Grafis",
		ProjectType: "Perorangan",
	})
	require.NoError(t, err)

	board, err := f.orders.OpenBoard(ctx)
	require.NoError(t, err)
	require.Len(t, board, 1)
	assert.Equal(t, open.ID, board[0].ID)
	assert.NotEqual(t, pending.ID, board[0].ID)
}

func TestBoardStatsCountsStages(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	f.createClientOrder(t) // pending, not counted

	open := f.createClientOrder(t)
	_, err := f.orders.Verify(ctx, f.teacher, open.ID, true, "")
	require.NoError(t, err)

	active := f.createClientOrder(t)
	_, err = f.orders.Verify(ctx, f.teacher, active.ID, true, "")
	require.NoError(t, err)
	_, err = f.orders.Claim(ctx, f.student1, active.ID, &ClaimInput{})
	require.NoError(t, err)

	done := f.createClientOrder(t)
	_, err = f.orders.Verify(ctx, f.teacher, done.ID, true, "")
	require.NoError(t, err)
	_, err = f.orders.Claim(ctx, f.student1, done.ID, &ClaimInput{})
	require.NoError(t, err)
	_, err = f.orders.UpdateProgress(ctx, f.student1, done.ID, 90)
	require.NoError(t, err)
	_, err = f.orders.SubmitForReview(ctx, f.student1, done.ID)
	require.NoError(t, err)
	_, err = f.orders.AcceptAndRate(ctx, f.client, done.ID, &RateInput{Points: 70, Stars: 4})
	require.NoError(t, err)

	stats, err := f.orders.GetBoardStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Open)
	assert.Equal(t, 1, stats.Active)
	assert.Equal(t, 1, stats.Completed)
}

func TestAcceptCannotSkipLifecycle(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	order := f.createClientOrder(t)

	// Even the requester cannot complete an order that was never worked
	_, err := f.orders.AcceptAndRate(ctx, f.client, order.ID, &RateInput{Points: 50, Stars: 4})
	assert.ErrorIs(t, err, statemachine.ErrInvalidTransition)

	for _, actor := range []domain.Actor{f.admin, f.teacher, f.student1} {
		_, err := f.orders.AcceptAndRate(ctx, actor, order.ID, &RateInput{Points: 50, Stars: 4})
		assert.ErrorIs(t, err, ErrNotRequester)
	}

	got, err := f.orders.GetOrder(ctx, f.client, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "pending", got.Status)
	assert.Nil(t, got.Rating)
	assert.Equal(t, 0, got.Progress)
}

// The store has no optimistic-concurrency token: every mutation is a
// full-record replace, so two writers racing on the same order lose the
// earlier write wholesale. Last write wins.
func TestConcurrentWritesLastWriteWins(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()
	repo := repositories.NewOrderRepository(f.db)

	order := f.createClientOrder(t)
	_, err := f.orders.Verify(ctx, f.teacher, order.ID, true, "")
	require.NoError(t, err)
	_, err = f.orders.Claim(ctx, f.student1, order.ID, &ClaimInput{MemberIDs: []string{"s2"}})
	require.NoError(t, err)

	// Two readers each load their own copy of the record
	first, err := repo.GetByID(ctx, order.ID)
	require.NoError(t, err)
	second, err := repo.GetByID(ctx, order.ID)
	require.NoError(t, err)

	first.Progress = 40
	first.ReviewNotes = "Perbaiki halaman utama"
	require.NoError(t, repo.Put(ctx, first))

	// The second writer still holds the stale record and silently
	// reverts the first writer's fields
	second.Progress = 70
	require.NoError(t, repo.Put(ctx, second))

	got, err := repo.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, 70, got.Progress)
	assert.Empty(t, got.ReviewNotes)

	// Replaying an identical put changes nothing
	require.NoError(t, repo.Put(ctx, got))
	again, err := repo.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, got.Progress, again.Progress)
	assert.Equal(t, got.StudentIDs, again.StudentIDs)
	assert.Equal(t, got.Status, again.Status)
}

func TestUnknownOrderDegradesToNotFound(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	_, err := f.orders.Verify(ctx, f.teacher, "missing", true, "")
	assert.ErrorIs(t, err, ErrOrderNotFound)
	_, err = f.orders.Claim(ctx, f.student1, "missing", &ClaimInput{})
	assert.ErrorIs(t, err, ErrOrderNotFound)
	_, err = f.orders.UpdateProgress(ctx, f.student1, "missing", 10)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}
