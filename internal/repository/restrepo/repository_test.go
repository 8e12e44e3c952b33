package restrepo_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"employeehub/internal/domain"
	"employeehub/internal/pkg/logger"
	"employeehub/internal/repository/restrepo"
)

func newRepo(t *testing.T, handler http.HandlerFunc) *restrepo.UserRepository {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return restrepo.NewUserRepository(restrepo.Config{
		BaseURL: srv.URL + "/",
		APIKey:  "service-key",
		Table:   "users",
		Timeout: 2 * time.Second,
	}, srv.Client(), logger.Nop())
}

func TestFindByEmail_SendsEqFilterAndKey(t *testing.T) {
	repo := newRepo(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/rest/v1/users", r.URL.Path)
		assert.Equal(t, "eq.a+b@x.com", r.URL.Query().Get("email"))
		assert.Equal(t, "*", r.URL.Query().Get("select"))
		assert.Equal(t, "service-key", r.Header.Get("apikey"))
		assert.Equal(t, "Bearer service-key", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `[{"id":"u-1","email":"a+b@x.com","password_hash":"h","skills":["go"]}]`)
	})

	users, err := repo.FindByEmail(context.Background(), "a+b@x.com")

	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "u-1", users[0].ID)
	assert.Equal(t, "h", users[0].PasswordHash)
	assert.Equal(t, []string{"go"}, users[0].Skills)
}

func TestInsert_RequestsRepresentation(t *testing.T) {
	repo := newRepo(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "return=representation", r.Header.Get("Prefer"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "a@x.com", body["email"])
		assert.Equal(t, "hash", body["password_hash"])
		assert.Equal(t, []any{}, body["skills"])
		assert.NotContains(t, body, "id")
		assert.NotContains(t, body, "password")

		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, `[{"id":"new-id","email":"a@x.com","password_hash":"hash","accept_terms":true,"created_at":"2026-03-01T10:00:00.123456+00:00"}]`)
	})

	rows, err := repo.Insert(context.Background(), domain.NewUser{Email: "a@x.com", PasswordHash: "hash"})

	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "new-id", rows[0].ID)
	assert.True(t, rows[0].AcceptTerms)
	assert.Equal(t, 2026, rows[0].CreatedAt.Year())
}

func TestInsert_EmptyRepresentation(t *testing.T) {
	repo := newRepo(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, `[]`)
	})

	rows, err := repo.Insert(context.Background(), domain.NewUser{Email: "a@x.com"})

	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestInsert_UniqueViolation(t *testing.T) {
	repo := newRepo(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		io.WriteString(w, `{"code":"23505","message":"duplicate key value violates unique constraint \"users_email_key\""}`)
	})

	_, err := repo.Insert(context.Background(), domain.NewUser{Email: "a@x.com"})

	assert.ErrorIs(t, err, domain.ErrDuplicateEmail)
}

func TestList_ServerErrorBecomesStatusError(t *testing.T) {
	repo := newRepo(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		io.WriteString(w, `upstream unavailable`)
	})

	_, err := repo.List(context.Background())

	var statusErr *restrepo.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusServiceUnavailable, statusErr.StatusCode)
	assert.Equal(t, "upstream unavailable", statusErr.Message)
}

func TestList_PreservesOrder(t *testing.T) {
	repo := newRepo(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.URL.Query().Get("order"))
		io.WriteString(w, `[{"id":"u2"},{"id":"u1"}]`)
	})

	users, err := repo.List(context.Background())

	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "u2", users[0].ID)
	assert.Equal(t, "u1", users[1].ID)
}

func TestFindByID_NotFound(t *testing.T) {
	repo := newRepo(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "eq.missing", r.URL.Query().Get("id"))
		io.WriteString(w, `[]`)
	})

	_, err := repo.FindByID(context.Background(), "missing")

	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestTimeoutIsHonoured(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	t.Cleanup(srv.Close)
	repo := restrepo.NewUserRepository(restrepo.Config{BaseURL: srv.URL, Timeout: 50 * time.Millisecond}, nil, logger.Nop())

	_, err := repo.List(context.Background())

	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestBreaker_OpensAfterServerErrors(t *testing.T) {
	var hits atomic.Int32
	repo := newRepo(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	})

	for i := 0; i < 5; i++ {
		_, err := repo.List(context.Background())
		require.Error(t, err)
		assert.NotErrorIs(t, err, restrepo.ErrUnavailable)
	}

	_, err := repo.List(context.Background())
	assert.ErrorIs(t, err, restrepo.ErrUnavailable)
	assert.Equal(t, int32(5), hits.Load(), "open breaker must not reach the store")
}

func TestBreaker_ClientErrorsDoNotTrip(t *testing.T) {
	var hits atomic.Int32
	repo := newRepo(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusConflict)
		io.WriteString(w, `{"code":"23505","message":"duplicate"}`)
	})

	for i := 0; i < 10; i++ {
		_, err := repo.Insert(context.Background(), domain.NewUser{Email: "a@x.com"})
		assert.ErrorIs(t, err, domain.ErrDuplicateEmail)
	}
	assert.Equal(t, int32(10), hits.Load())
}

func TestBreaker_CallerCancellationDoesNotTrip(t *testing.T) {
	var hits atomic.Int32
	repo := newRepo(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		io.WriteString(w, `[]`)
	})

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()
	for i := 0; i < 10; i++ {
		_, err := repo.List(cancelled)
		require.Error(t, err)
		assert.ErrorIs(t, err, context.Canceled)
		assert.NotErrorIs(t, err, restrepo.ErrUnavailable)
	}

	users, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, users)
	assert.Equal(t, int32(1), hits.Load())
}
