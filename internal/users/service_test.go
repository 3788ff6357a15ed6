package users

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brisa-erp/brisa-erp/internal/shared"
)

type fakeRepo struct {
	users []User

	lastPage    int
	lastPerPage int
}

func (f *fakeRepo) ListUsers(ctx context.Context, page, perPage int) ([]User, int, error) {
	f.lastPage = page
	f.lastPerPage = perPage
	return f.users, 45, nil
}

func (f *fakeRepo) GetUser(ctx context.Context, id int64) (User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return User{}, shared.ErrNotFound
}

func TestListUsersPagination(t *testing.T) {
	repo := &fakeRepo{users: []User{{ID: 1, Name: "Marta"}}}
	svc := NewService(repo)

	users, pg, err := svc.ListUsers(context.Background(), 2, 20)
	require.NoError(t, err)
	assert.Len(t, users, 1)
	assert.Equal(t, 2, pg.Page)
	assert.Equal(t, 45, pg.Total)
	assert.Equal(t, 3, pg.TotalPages)
}

func TestListUsersDefaults(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo)

	_, pg, err := svc.ListUsers(context.Background(), 0, -5)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.lastPage)
	assert.Equal(t, 20, repo.lastPerPage)
	assert.Equal(t, 1, pg.Page)
	assert.Equal(t, 20, pg.PerPage)
}

func TestGetUserNotFound(t *testing.T) {
	svc := NewService(&fakeRepo{})

	_, err := svc.GetUser(context.Background(), 99)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
