package restrepo

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"

	"employeehub/internal/domain"
	"employeehub/internal/pkg/logger"
)

// uniqueViolation é o SQLSTATE do PostgreSQL que o PostgREST repassa em
// chave duplicada.
const uniqueViolation = "23505"

// Config descreve como acessar o endpoint REST do store hospedado.
type Config struct {
	BaseURL string // ex.: https://xyz.supabase.co
	APIKey  string
	Table   string
	Timeout time.Duration
	Breaker BreakerConfig
}

// BreakerConfig controla o circuit breaker na frente do store. Só erros de
// transporte e respostas 5xx contam como falha.
type BreakerConfig struct {
	MaxRequests  uint32        // requisições de teste permitidas em half-open
	Interval     time.Duration // período de reset dos contadores no estado fechado
	OpenTimeout  time.Duration // tempo aberto antes de testar de novo
	FailureRatio float64
	MinRequests  uint32
}

// DefaultBreakerConfig abre quando metade de pelo menos cinco requisições falha.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		MaxRequests:  1,
		Interval:     60 * time.Second,
		OpenTimeout:  30 * time.Second,
		FailureRatio: 0.5,
		MinRequests:  5,
	}
}

// ErrUnavailable é retornado sem contatar o store enquanto o breaker está aberto.
var ErrUnavailable = errors.New("user store unavailable")

// UserRepository implementa domain.UserStore sobre uma API PostgREST,
// que é o que o Supabase expõe em /rest/v1.
type UserRepository struct {
	endpoint string
	apiKey   string
	timeout  time.Duration
	client   *http.Client
	breaker  *gobreaker.CircuitBreaker[[]domain.User]
	logger   logger.Logger
}

// NewUserRepository cria o repositório. client pode ser nil, e um
// cfg.Breaker zerado significa DefaultBreakerConfig.
func NewUserRepository(cfg Config, client *http.Client, log logger.Logger) *UserRepository {
	if client == nil {
		client = &http.Client{}
	}
	table := cfg.Table
	if table == "" {
		table = "users"
	}
	bc := cfg.Breaker
	if bc == (BreakerConfig{}) {
		bc = DefaultBreakerConfig()
	}

	return &UserRepository{
		endpoint: strings.TrimRight(cfg.BaseURL, "/") + "/rest/v1/" + url.PathEscape(table),
		apiKey:   cfg.APIKey,
		timeout:  cfg.Timeout,
		client:   client,
		breaker:  newBreaker(table, bc, log),
		logger:   log,
	}
}

func newBreaker(name string, bc BreakerConfig, log logger.Logger) *gobreaker.CircuitBreaker[[]domain.User] {
	return gobreaker.NewCircuitBreaker[[]domain.User](gobreaker.Settings{
		Name:        "restrepo:" + name,
		MaxRequests: bc.MaxRequests,
		Interval:    bc.Interval,
		Timeout:     bc.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < bc.MinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= bc.FailureRatio
		},
		IsSuccessful: func(err error) bool {
			var gone *callerGoneError
			if err == nil || errors.Is(err, domain.ErrDuplicateEmail) || errors.As(err, &gone) {
				return true
			}
			var statusErr *StatusError
			return errors.As(err, &statusErr) && statusErr.StatusCode < http.StatusInternalServerError
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("Circuit breaker state change.", map[string]interface{}{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			})
		},
	})
}

// row é o formato de uma linha de users no fio. Ao contrário de domain.User, traz o hash.
type row struct {
	ID                   string    `json:"id"`
	FullName             string    `json:"full_name"`
	Email                string    `json:"email"`
	PasswordHash         string    `json:"password_hash"`
	Department           string    `json:"department"`
	Role                 string    `json:"role"`
	WorkStyle            string    `json:"work_style"`
	Skills               []string  `json:"skills"`
	Enable2FA            bool      `json:"enable_2fa"`
	AcceptTerms          bool      `json:"accept_terms"`
	ReceiveNotifications bool      `json:"receive_notifications"`
	CreatedAt            time.Time `json:"created_at,omitempty"`
}

func (r row) toUser() domain.User {
	skills := r.Skills
	if skills == nil {
		skills = []string{}
	}
	return domain.User{
		ID:                   r.ID,
		FullName:             r.FullName,
		Email:                r.Email,
		PasswordHash:         r.PasswordHash,
		Department:           r.Department,
		Role:                 r.Role,
		WorkStyle:            r.WorkStyle,
		Skills:               skills,
		Enable2FA:            r.Enable2FA,
		AcceptTerms:          r.AcceptTerms,
		ReceiveNotifications: r.ReceiveNotifications,
		CreatedAt:            r.CreatedAt,
	}
}

// insertBody omite id e created_at para que o store os gere.
type insertBody struct {
	FullName             string   `json:"full_name"`
	Email                string   `json:"email"`
	PasswordHash         string   `json:"password_hash"`
	Department           string   `json:"department"`
	Role                 string   `json:"role"`
	WorkStyle            string   `json:"work_style"`
	Skills               []string `json:"skills"`
	Enable2FA            bool     `json:"enable_2fa"`
	AcceptTerms          bool     `json:"accept_terms"`
	ReceiveNotifications bool     `json:"receive_notifications"`
}

// apiError é o corpo de erro do PostgREST.
type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

// StatusError é retornado para qualquer resposta não 2xx do store.
type StatusError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *StatusError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("user store returned %d (%s): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("user store returned %d: %s", e.StatusCode, e.Message)
}

// do envia uma requisição através do circuit breaker.
func (r *UserRepository) do(ctx context.Context, method string, query url.Values, body any) ([]domain.User, error) {
	users, err := r.breaker.Execute(func() ([]domain.User, error) {
		users, err := r.send(ctx, method, query, body)
		if err != nil && ctx.Err() != nil {
			// Quem chamou desistiu; isso não diz nada sobre o store.
			return nil, &callerGoneError{err: err}
		}
		return users, err
	})
	var gone *callerGoneError
	if errors.As(err, &gone) {
		return nil, gone.err
	}
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return users, err
}

// callerGoneError marca uma falha causada pelo fim do contexto de quem chamou,
// para que o breaker não a conte contra o store.
type callerGoneError struct {
	err error
}

func (e *callerGoneError) Error() string { return e.err.Error() }
func (e *callerGoneError) Unwrap() error { return e.err }

func (r *UserRepository) send(ctx context.Context, method string, query url.Values, body any) ([]domain.User, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	target := r.endpoint
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("apikey", r.apiKey)
	req.Header.Set("Authorization", "Bearer "+r.apiKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Prefer", "return=representation")
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("user store request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return nil, fmt.Errorf("read user store response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr apiError
		_ = json.Unmarshal(data, &apiErr)
		statusErr := &StatusError{StatusCode: resp.StatusCode, Code: apiErr.Code, Message: apiErr.Message}
		if statusErr.Message == "" {
			statusErr.Message = strings.TrimSpace(string(data))
		}
		if apiErr.Code == uniqueViolation || resp.StatusCode == http.StatusConflict {
			return nil, fmt.Errorf("%w: %v", domain.ErrDuplicateEmail, statusErr)
		}
		return nil, statusErr
	}

	var rows []row
	if len(bytes.TrimSpace(data)) > 0 {
		if err := json.Unmarshal(data, &rows); err != nil {
			return nil, fmt.Errorf("decode user store response: %w", err)
		}
	}

	users := make([]domain.User, 0, len(rows))
	for _, rw := range rows {
		users = append(users, rw.toUser())
	}
	return users, nil
}

// Insert envia a nova linha com Prefer: return=representation.
func (r *UserRepository) Insert(ctx context.Context, user domain.NewUser) ([]domain.User, error) {
	skills := user.Skills
	if skills == nil {
		skills = []string{}
	}
	body := insertBody{
		FullName:             user.FullName,
		Email:                user.Email,
		PasswordHash:         user.PasswordHash,
		Department:           user.Department,
		Role:                 user.Role,
		WorkStyle:            user.WorkStyle,
		Skills:               skills,
		Enable2FA:            user.Enable2FA,
		AcceptTerms:          user.AcceptTerms,
		ReceiveNotifications: user.ReceiveNotifications,
	}

	users, err := r.do(ctx, http.MethodPost, nil, body)
	if err != nil {
		r.logger.Error("REST insert into user store failed.", err)
		return nil, err
	}
	r.logger.Debug("REST insert into user store done.", map[string]interface{}{"rows": len(users)})
	return users, nil
}

// FindByEmail seleciona as linhas com email=eq.<email>.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) ([]domain.User, error) {
	q := url.Values{}
	q.Set("select", "*")
	q.Set("email", "eq."+email)
	return r.do(ctx, http.MethodGet, q, nil)
}

// FindByID seleciona a linha com id=eq.<id>.
func (r *UserRepository) FindByID(ctx context.Context, id string) (domain.User, error) {
	q := url.Values{}
	q.Set("select", "*")
	q.Set("id", "eq."+id)
	users, err := r.do(ctx, http.MethodGet, q, nil)
	if err != nil {
		return domain.User{}, err
	}
	if len(users) == 0 {
		return domain.User{}, domain.ErrUserNotFound
	}
	return users[0], nil
}

// List seleciona todas as linhas na ordem em que o store as retorna.
func (r *UserRepository) List(ctx context.Context) ([]domain.User, error) {
	q := url.Values{}
	q.Set("select", "*")
	return r.do(ctx, http.MethodGet, q, nil)
}
