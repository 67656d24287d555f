package services

import (
	"context"
	"testing"

	"tefa-hub/internal/adapters/persistence/repositories"
	"tefa-hub/internal/core/domain"
	"tefa-hub/internal/pkg/password"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUserFixture(t *testing.T) *UserService {
	t.Helper()
	db := newTestDB(t)
	return NewUserService(repositories.NewUserRepository(db))
}

func TestCreateUserAnyRole(t *testing.T) {
	svc := newUserFixture(t)
	ctx := context.Background()

	student, err := svc.CreateUser(ctx, &CreateUserInput{
		Role:      "student",
		Name:      "Andi Saputra",
		Username:  "andi",
		Password:  "123",
		ClassName: "XII RPL 1",
	})
	require.NoError(t, err)
	assert.Equal(t, "student", student.Role)
	assert.Equal(t, "XII RPL 1", student.ClassName)
	assert.True(t, password.Verify("123", student.Password))

	_, err = svc.CreateUser(ctx, &CreateUserInput{
		Role:     "wizard",
		Name:     "Nobody",
		Username: "nobody",
		Password: "123",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.CreateUser(ctx, &CreateUserInput{
		Role:     "student",
		Name:     "Andi Dua",
		Username: "andi",
		Password: "123",
	})
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
}

func TestUpdateUserPartialFields(t *testing.T) {
	svc := newUserFixture(t)
	ctx := context.Background()

	user, err := svc.CreateUser(ctx, &CreateUserInput{
		Role:     "teacher",
		Name:     "Pak Budi",
		Username: "guru",
		Password: "123",
	})
	require.NoError(t, err)

	updated, err := svc.UpdateUser(ctx, user.ID, &UpdateUserInput{Name: "Pak Budi Santoso"})
	require.NoError(t, err)
	assert.Equal(t, "Pak Budi Santoso", updated.Name)
	assert.Equal(t, "guru", updated.Username)

	_, err = svc.UpdateUser(ctx, "missing", &UpdateUserInput{Name: "X"})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestDeleteUserIsPermanent(t *testing.T) {
	svc := newUserFixture(t)
	ctx := context.Background()

	user, err := svc.CreateUser(ctx, &CreateUserInput{
		Role:     "client",
		Name:     "Client",
		Username: "client",
		Password: "123",
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteUser(ctx, user.ID))

	_, err = svc.GetUser(ctx, user.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)

	// The username is immediately free for reuse
	_, err = svc.CreateUser(ctx, &CreateUserInput{
		Role:     "client",
		Name:     "Client Two",
		Username: "client",
		Password: "123",
	})
	assert.NoError(t, err)
}

func TestListStudentsClassFilter(t *testing.T) {
	svc := newUserFixture(t)
	ctx := context.Background()

	seed := []CreateUserInput{
		{Role: "student", Name: "Andi", Username: "andi", Password: "123", ClassName: "XII RPL 1"},
		{Role: "student", Name: "Budi", Username: "budi", Password: "123", ClassName: "XII MM 2"},
		{Role: "teacher", Name: "Guru", Username: "guru", Password: "123"},
	}
	for i := range seed {
		_, err := svc.CreateUser(ctx, &seed[i])
		require.NoError(t, err)
	}

	all, err := svc.ListStudents(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	rpl, err := svc.ListStudents(ctx, "XII RPL 1")
	require.NoError(t, err)
	require.Len(t, rpl, 1)
	assert.Equal(t, "Andi", rpl[0].Name)
}

func TestUpdateProfileClientOnly(t *testing.T) {
	svc := newUserFixture(t)
	ctx := context.Background()

	client, err := svc.CreateUser(ctx, &CreateUserInput{
		Role:     "client",
		Name:     "Client",
		Username: "client",
		Password: "123",
	})
	require.NoError(t, err)
	assert.False(t, client.Profile.IsComplete())

	updated, err := svc.UpdateProfile(ctx, client.ID, &UpdateProfileInput{
		Address: "Jl. Merdeka No. 1",
		Phone:   "0812000111",
	})
	require.NoError(t, err)
	assert.True(t, updated.Profile.IsComplete())

	// Profiles only exist on client accounts
	teacher, err := svc.CreateUser(ctx, &CreateUserInput{
		Role:     "teacher",
		Name:     "Guru",
		Username: "guru",
		Password: "123",
	})
	require.NoError(t, err)
	_, err = svc.UpdateProfile(ctx, teacher.ID, &UpdateProfileInput{
		Address: "Jl. Sekolah", Phone: "0813000222",
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	// Address and phone are both mandatory
	_, err = svc.UpdateProfile(ctx, client.ID, &UpdateProfileInput{Address: "Jl. Baru"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestChangePassword(t *testing.T) {
	svc := newUserFixture(t)
	ctx := context.Background()

	user, err := svc.CreateUser(ctx, &CreateUserInput{
		Role:     "student",
		Name:     "Andi",
		Username: "andi",
		Password: "123",
	})
	require.NoError(t, err)

	err = svc.ChangePassword(ctx, user.ID, &ChangePasswordInput{
		CurrentPassword: "salah",
		NewPassword:     "rahasia-baru",
	})
	assert.ErrorIs(t, err, ErrInvalidPassword)

	err = svc.ChangePassword(ctx, user.ID, &ChangePasswordInput{
		CurrentPassword: "123",
		NewPassword:     "rahasia-baru",
	})
	require.NoError(t, err)

	refreshed, err := svc.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, password.Verify("rahasia-baru", refreshed.Password))
}
