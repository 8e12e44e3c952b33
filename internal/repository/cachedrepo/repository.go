package cachedrepo

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"employeehub/internal/domain"
	"employeehub/internal/pkg/cache"
	"employeehub/internal/pkg/logger"
)

// GenKey guarda a geração da listagem. Todo insert bem-sucedido a incrementa.
const GenKey = "users:list:gen"

const listKeyPrefix = "users:list:"

// ListKey é a chave de cache da listagem obtida na geração gen.
func ListKey(gen string) string {
	return listKeyPrefix + gen
}

// UserRepository decora um domain.UserStore com um cache read-through de
// List. Falhas do cache são registradas e a chamada segue para o store.
//
// As listagens ficam numa chave com sufixo de geração. List lê a geração
// antes de carregar do store, então um snapshot obtido antes de um insert
// concorrente cai numa geração que ninguém lê mais.
//
// As linhas em cache não trazem hash de senha (domain.User os oculta no JSON),
// então só List é servido do cache; as buscas sempre vão ao store.
type UserRepository struct {
	next   domain.UserStore
	cache  cache.Client
	ttl    time.Duration
	logger logger.Logger
}

// NewUserRepository envolve next.
func NewUserRepository(next domain.UserStore, c cache.Client, ttl time.Duration, log logger.Logger) *UserRepository {
	return &UserRepository{next: next, cache: c, ttl: ttl, logger: log}
}

// Insert delega e, em caso de sucesso, move a listagem para uma nova geração.
func (r *UserRepository) Insert(ctx context.Context, user domain.NewUser) ([]domain.User, error) {
	rows, err := r.next.Insert(ctx, user)
	if err != nil {
		return nil, err
	}
	if _, err := r.cache.Incr(ctx, GenKey); err != nil {
		r.logger.Warn("Failed to invalidate cached user listing.", map[string]interface{}{"error": err.Error()})
	}
	return rows, nil
}

// FindByEmail sempre lê do store.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) ([]domain.User, error) {
	return r.next.FindByEmail(ctx, email)
}

// FindByID sempre lê do store.
func (r *UserRepository) FindByID(ctx context.Context, id string) (domain.User, error) {
	return r.next.FindByID(ctx, id)
}

// List serve a listagem em cache da geração atual quando existir;
// caso contrário carrega do store e a guarda nessa geração.
func (r *UserRepository) List(ctx context.Context) ([]domain.User, error) {
	// 1. Geração atual. Sem ela nada pode ser cacheado com segurança.
	gen, err := r.cache.Get(ctx, GenKey)
	switch {
	case errors.Is(err, cache.ErrCacheMiss):
		gen = "0"
	case err != nil:
		r.logger.Warn("User listing cache read failed.", map[string]interface{}{"error": err.Error()})
		return r.next.List(ctx)
	}
	key := ListKey(gen)

	// --- 2. Estratégia Cache-Aside (READ) ---
	cached, err := r.cache.Get(ctx, key)
	switch {
	case err == nil:
		var users []domain.User
		if jsonErr := json.Unmarshal([]byte(cached), &users); jsonErr == nil {
			r.logger.Debug("User listing served from cache.", map[string]interface{}{"count": len(users), "gen": gen})
			return users, nil
		}
		r.logger.Warn("Discarding undecodable cached user listing.", nil)
	case !errors.Is(err, cache.ErrCacheMiss):
		r.logger.Warn("User listing cache read failed.", map[string]interface{}{"error": err.Error()})
	}

	// 3. Store, depois preencher a entrada da geração lida no passo 1
	users, err := r.next.List(ctx)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(users)
	if err == nil {
		if err := r.cache.Set(ctx, key, payload, r.ttl); err != nil {
			r.logger.Warn("Failed to cache user listing.", map[string]interface{}{"error": err.Error()})
		}
	}
	return users, nil
}
