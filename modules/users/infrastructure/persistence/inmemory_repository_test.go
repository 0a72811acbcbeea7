package persistence_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tabison/suppliers/modules/shared/types"
	"github.com/tabison/suppliers/modules/users/domain"
	"github.com/tabison/suppliers/modules/users/infrastructure/persistence"
)

func seed(t *testing.T, repo *persistence.InMemoryRepository, email string, createdAt time.Time) *domain.User {
	t.Helper()
	e, err := domain.NewEmail(email)
	require.NoError(t, err)
	name, err := domain.NewName("Test", "User")
	require.NoError(t, err)
	u := domain.NewUser(types.NewUserID(), e, name, domain.Phone{}, domain.RoleUser, createdAt)
	require.NoError(t, repo.Save(context.Background(), u))
	return u
}

func TestInMemoryRepository_SkipsDeletedUsers(t *testing.T) {
	ctx := context.Background()
	repo := persistence.NewInMemoryRepository()
	base := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)

	first := seed(t, repo, "first@example.com", base)
	second := seed(t, repo, "second@example.com", base.Add(time.Hour))
	gone := seed(t, repo, "gone@example.com", base.Add(2*time.Hour))

	require.NoError(t, gone.Delete(base.Add(3*time.Hour)))
	require.NoError(t, repo.Save(ctx, gone))

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	users, total, err := repo.FindAll(ctx, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, users, 2)
	assert.Equal(t, second.ID(), users[0].ID())
	assert.Equal(t, first.ID(), users[1].ID())

	page, total, err := repo.FindAll(ctx, 5, 10)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Empty(t, page)

	email, _ := domain.NewEmail("gone@example.com")
	_, err = repo.FindByEmail(ctx, email)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	stored, err := repo.FindByID(ctx, gone.ID())
	require.NoError(t, err)
	assert.True(t, stored.IsDeleted())
}

func TestInMemoryRepository_LoadedUsersDoNotAlias(t *testing.T) {
	ctx := context.Background()
	repo := persistence.NewInMemoryRepository()
	u := seed(t, repo, "alias@example.com", time.Now())

	loaded, err := repo.FindByID(ctx, u.ID())
	require.NoError(t, err)
	require.NoError(t, loaded.ChangeRole(domain.RoleAdmin, time.Now()))

	again, err := repo.FindByID(ctx, u.ID())
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, again.Role())
}
