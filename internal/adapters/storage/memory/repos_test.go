package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"smartmilk/internal/domain/cows"
	"smartmilk/internal/domain/users"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCowRepo_NextIDIsUniqueUnderConcurrency(t *testing.T) {
	repo := NewCowRepo()
	ctx := context.Background()

	const n = 50
	ids := make(chan string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id, err := repo.NextID(ctx)
			assert.NoError(t, err)
			ids <- id
		}()
	}
	wg.Wait()
	close(ids)

	seen := map[string]bool{}
	for id := range ids {
		assert.False(t, seen[id], "duplicated id %s", id)
		seen[id] = true
	}
	assert.True(t, seen["COW001"])
	assert.True(t, seen["COW050"])
}

func TestCowRepo_CreateBumpsSequence(t *testing.T) {
	repo := NewCowRepo()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, cows.Cow{ID: "COW007", OwnerUserID: "u1", Name: "Seeded"}))
	id, err := repo.NextID(ctx)
	require.NoError(t, err)
	assert.Equal(t, "COW008", id)
}

func TestCowRepo_ListByOwner_NewestFirst(t *testing.T) {
	repo := NewCowRepo()
	ctx := context.Background()
	t0 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Create(ctx, cows.Cow{ID: "COW001", OwnerUserID: "u1", CreatedAt: t0}))
	require.NoError(t, repo.Create(ctx, cows.Cow{ID: "COW002", OwnerUserID: "u1", CreatedAt: t0.Add(time.Minute)}))
	require.NoError(t, repo.Create(ctx, cows.Cow{ID: "COW003", OwnerUserID: "u2", CreatedAt: t0}))
	require.NoError(t, repo.Create(ctx, cows.Cow{ID: "COW004", OwnerUserID: "u1", CreatedAt: t0.Add(time.Minute)}))

	list, err := repo.ListByOwner(ctx, "u1")
	require.NoError(t, err)
	got := make([]string, 0, len(list))
	for _, c := range list {
		got = append(got, c.ID)
	}
	assert.Equal(t, []string{"COW004", "COW002", "COW001"}, got)

	assert.ErrorIs(t, repo.Delete(ctx, "COW999"), cows.ErrNotFound)
	_, err = repo.GetByID(ctx, "COW999")
	assert.ErrorIs(t, err, cows.ErrNotFound)
}

func TestUserRepo_UniqueEmailAndLookups(t *testing.T) {
	repo := NewUserRepo()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, users.User{ID: "u1", Email: "a@b.io", GoogleID: "g1"}))
	assert.ErrorIs(t, repo.Create(ctx, users.User{ID: "u2", Email: "a@b.io"}), ErrEmailExists)

	u, err := repo.GetByEmail(ctx, "a@b.io")
	require.NoError(t, err)
	assert.Equal(t, "u1", u.ID)

	u, err = repo.GetByGoogleID(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, "u1", u.ID)

	_, err = repo.GetByGoogleID(ctx, "")
	assert.ErrorIs(t, err, users.ErrNotFound)
	assert.ErrorIs(t, repo.Update(ctx, users.User{ID: "nope"}), users.ErrNotFound)
}
