package userrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"employeehub/internal/domain"
	"employeehub/internal/pkg/logger"
)

// uniqueViolation é o SQLSTATE do PostgreSQL para violação de restrição unique.
const uniqueViolation = "23505"

const userColumns = `id, full_name, email, password_hash, department, role, work_style,
	skills, enable_2fa, accept_terms, receive_notifications, created_at`

// UserRepository é a implementação PostgreSQL de domain.UserStore.
// É a restrição UNIQUE de users.email que de fato impede duplicatas.
type UserRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	SQL       struct {
		Insert      string
		FindByEmail string
		FindByID    string
		List        string
	}
	logger logger.Logger
}

// NewUserRepository cria o repositório em volta de um pool já aberto.
func NewUserRepository(db *sql.DB, dbTimeout time.Duration, log logger.Logger) *UserRepository {
	r := &UserRepository{
		DB:        db,
		DBTimeout: dbTimeout,
		logger:    log,
	}
	r.SQL.Insert = `INSERT INTO users (full_name, email, password_hash, department, role, work_style,
		skills, enable_2fa, accept_terms, receive_notifications)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + userColumns
	r.SQL.FindByEmail = `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	r.SQL.FindByID = `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	r.SQL.List = `SELECT ` + userColumns + ` FROM users ORDER BY created_at, id`
	return r
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (domain.User, error) {
	var u domain.User
	var skills pq.StringArray
	err := row.Scan(
		&u.ID,
		&u.FullName,
		&u.Email,
		&u.PasswordHash,
		&u.Department,
		&u.Role,
		&u.WorkStyle,
		&skills,
		&u.Enable2FA,
		&u.AcceptTerms,
		&u.ReceiveNotifications,
		&u.CreatedAt,
	)
	if err != nil {
		return domain.User{}, err
	}
	u.Skills = []string(skills)
	if u.Skills == nil {
		u.Skills = []string{}
	}
	return u, nil
}

func (r *UserRepository) queryUsers(ctx context.Context, query string, args ...any) ([]domain.User, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	rows, err := r.DB.QueryContext(ctxTimeout, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []domain.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

// Insert grava um usuário e retorna a linha armazenada. Uma violação unique
// no email é reportada como domain.ErrDuplicateEmail.
func (r *UserRepository) Insert(ctx context.Context, user domain.NewUser) ([]domain.User, error) {
	r.logger.Debug("Inserting user.", map[string]interface{}{"email": user.Email})

	skills := user.Skills
	if skills == nil {
		skills = []string{}
	}

	users, err := r.queryUsers(ctx, r.SQL.Insert,
		user.FullName,
		user.Email,
		user.PasswordHash,
		user.Department,
		user.Role,
		user.WorkStyle,
		pq.Array(skills),
		user.Enable2FA,
		user.AcceptTerms,
		user.ReceiveNotifications,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			r.logger.Info("Insert rejected by email uniqueness constraint.", map[string]interface{}{"email": user.Email})
			return nil, fmt.Errorf("%w: %s", domain.ErrDuplicateEmail, pqErr.Message)
		}
		r.logger.Error("Failed to insert user.", err)
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}

	return users, nil
}

// FindByEmail retorna todos os usuários cujo email é exatamente email.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) ([]domain.User, error) {
	users, err := r.queryUsers(ctx, r.SQL.FindByEmail, email)
	if err != nil {
		r.logger.Error("Failed to find user by email.", err)
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	return users, nil
}

// FindByID retorna o usuário com o id informado ou domain.ErrUserNotFound.
func (r *UserRepository) FindByID(ctx context.Context, id string) (domain.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return domain.User{}, domain.ErrUserNotFound
	}

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	u, err := scanUser(r.DB.QueryRowContext(ctxTimeout, r.SQL.FindByID, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, domain.ErrUserNotFound
		}
		r.logger.Error("Failed to find user by id.", err)
		return domain.User{}, fmt.Errorf("failed to find user by id: %w", err)
	}
	return u, nil
}

// List retorna todos os usuários, do mais antigo ao mais novo.
func (r *UserRepository) List(ctx context.Context) ([]domain.User, error) {
	users, err := r.queryUsers(ctx, r.SQL.List)
	if err != nil {
		r.logger.Error("Failed to list users.", err)
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}
