package memoryrepo_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"employeehub/internal/domain"
	"employeehub/internal/repository/memoryrepo"
)

func TestInsertAndFind(t *testing.T) {
	repo := memoryrepo.NewUserRepository()
	ctx := context.Background()

	rows, err := repo.Insert(ctx, domain.NewUser{Email: "a@x.com", PasswordHash: "h", Skills: []string{"go"}})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	_, err = uuid.Parse(rows[0].ID)
	assert.NoError(t, err)

	found, err := repo.FindByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, rows[0].ID, found[0].ID)

	byID, err := repo.FindByID(ctx, rows[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "h", byID.PasswordHash)
}

func TestFindByEmail_IsCaseSensitive(t *testing.T) {
	repo := memoryrepo.NewUserRepository()
	ctx := context.Background()

	_, err := repo.Insert(ctx, domain.NewUser{Email: "a@x.com"})
	require.NoError(t, err)

	found, err := repo.FindByEmail(ctx, "A@X.com")
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestInsert_DuplicateEmail(t *testing.T) {
	repo := memoryrepo.NewUserRepository()
	ctx := context.Background()

	_, err := repo.Insert(ctx, domain.NewUser{Email: "a@x.com"})
	require.NoError(t, err)
	_, err = repo.Insert(ctx, domain.NewUser{Email: "a@x.com"})

	assert.ErrorIs(t, err, domain.ErrDuplicateEmail)
}

func TestInsert_ConcurrentDuplicatesOnlyOneWins(t *testing.T) {
	repo := memoryrepo.NewUserRepository()
	ctx := context.Background()

	var wg sync.WaitGroup
	var mu sync.Mutex
	wins := 0
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := repo.Insert(ctx, domain.NewUser{Email: "race@x.com"}); err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, wins)
}

func TestList_InsertionOrder(t *testing.T) {
	repo := memoryrepo.NewUserRepository()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := repo.Insert(ctx, domain.NewUser{Email: fmt.Sprintf("u%d@x.com", i)})
		require.NoError(t, err)
	}

	users, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 3)
	for i, u := range users {
		assert.Equal(t, fmt.Sprintf("u%d@x.com", i), u.Email)
	}
}

func TestReturnedUsersAreCopies(t *testing.T) {
	repo := memoryrepo.NewUserRepository()
	ctx := context.Background()

	rows, err := repo.Insert(ctx, domain.NewUser{Email: "a@x.com", Skills: []string{"go"}})
	require.NoError(t, err)
	rows[0].Skills[0] = "mutated"

	again, err := repo.FindByID(ctx, rows[0].ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"go"}, again.Skills)
}

func TestFindByID_Missing(t *testing.T) {
	repo := memoryrepo.NewUserRepository()

	_, err := repo.FindByID(context.Background(), "nope")

	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestCancelledContext(t *testing.T) {
	repo := memoryrepo.NewUserRepository()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.List(ctx)

	assert.ErrorIs(t, err, context.Canceled)
}
