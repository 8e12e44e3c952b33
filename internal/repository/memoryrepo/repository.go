package memoryrepo

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"employeehub/internal/domain"
)

// UserRepository mantém os usuários na memória do processo. A unicidade do email
// é verificada sob o mesmo lock do insert, então se comporta como um store com
// restrição unique. Feito para execuções locais e testes.
type UserRepository struct {
	mu    sync.RWMutex
	users []domain.User
	now   func() time.Time
}

// NewUserRepository cria um store vazio.
func NewUserRepository() *UserRepository {
	return &UserRepository{now: time.Now}
}

func clone(u domain.User) domain.User {
	u.Skills = append([]string{}, u.Skills...)
	return u
}

// Insert grava o usuário com um UUID novo e o retorna.
func (r *UserRepository) Insert(ctx context.Context, user domain.NewUser) ([]domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.ErrDuplicateEmail
		}
	}

	stored := domain.User{
		ID:                   uuid.NewString(),
		FullName:             user.FullName,
		Email:                user.Email,
		PasswordHash:         user.PasswordHash,
		Department:           user.Department,
		Role:                 user.Role,
		WorkStyle:            user.WorkStyle,
		Skills:               append([]string{}, user.Skills...),
		Enable2FA:            user.Enable2FA,
		AcceptTerms:          user.AcceptTerms,
		ReceiveNotifications: user.ReceiveNotifications,
		CreatedAt:            r.now().UTC(),
	}
	r.users = append(r.users, stored)

	return []domain.User{clone(stored)}, nil
}

// FindByEmail retorna os usuários cujo email coincide exatamente.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) ([]domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []domain.User{}
	for _, u := range r.users {
		if u.Email == email {
			out = append(out, clone(u))
		}
	}
	return out, nil
}

// FindByID retorna o usuário com id ou domain.ErrUserNotFound.
func (r *UserRepository) FindByID(ctx context.Context, id string) (domain.User, error) {
	if err := ctx.Err(); err != nil {
		return domain.User{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.ID == id {
			return clone(u), nil
		}
	}
	return domain.User{}, domain.ErrUserNotFound
}

// List retorna os usuários na ordem de inserção.
func (r *UserRepository) List(ctx context.Context) ([]domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, clone(u))
	}
	return out, nil
}
