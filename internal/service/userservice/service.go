package userservice

import (
	"context"
	"errors"

	"employeehub/internal/domain"
	apperror "employeehub/internal/errors"
	"employeehub/internal/pkg/logger"
	"employeehub/internal/pkg/validation"
)

const (
	msgEmailRegistered    = "Email already registered"
	msgCreateFailed       = "Failed to create user"
	msgInvalidCredentials = "Invalid credentials"
)

// PasswordHasher é o contrato de internal/pkg/password.
type PasswordHasher interface {
	Hash(secret string) (string, error)
	Verify(secret, hash string) bool
}

// TokenIssuer é a parte de internal/pkg/token de que o serviço precisa.
type TokenIssuer interface {
	IssueForSubject(subject string) (string, error)
}

// Service executa os fluxos de cadastro, login e listagem. Todas as
// dependências são injetadas na construção e nunca alteradas depois.
type Service struct {
	store  domain.UserStore
	hasher PasswordHasher
	issuer TokenIssuer
	logger logger.Logger
}

// NewService cria o serviço de usuários.
func NewService(store domain.UserStore, hasher PasswordHasher, issuer TokenIssuer, log logger.Logger) *Service {
	return &Service{
		store:  store,
		hasher: hasher,
		issuer: issuer,
		logger: log,
	}
}

// Register cria um usuário e retorna um bearer token vinculado ao seu id.
//
// A checagem prévia do email só produz o erro amigável; a restrição unique
// do store decide as corridas concorrentes, e seu ErrDuplicateEmail é mapeado
// para o mesmo erro.
func (s *Service) Register(ctx context.Context, reg domain.UserRegistration) (domain.TokenResponse, error) {
	s.logger.Debug("Starting user registration.", map[string]interface{}{"email": reg.Email})

	// 1. Validação do payload, antes de qualquer efeito colateral
	if err := validation.Struct("Invalid registration payload", reg); err != nil {
		s.logger.Warn("Registration payload rejected.", map[string]interface{}{"email": reg.Email, "error": err.Error()})
		return domain.TokenResponse{}, err
	}

	// 2. Checagem de duplicidade (comparação exata, sem normalizar maiúsculas)
	existing, err := s.store.FindByEmail(ctx, reg.Email)
	if err != nil {
		s.logger.Error("Failed to look up email in user store.", err)
		return domain.TokenResponse{}, apperror.NewDBError("Failed to check existing user", err)
	}
	if len(existing) > 0 {
		s.logger.Info("Registration refused, email already in use.", map[string]interface{}{"email": reg.Email})
		return domain.TokenResponse{}, apperror.NewConflictError(msgEmailRegistered, domain.ErrDuplicateEmail)
	}

	// 3. Hash da senha
	hash, err := s.hasher.Hash(reg.Password)
	if err != nil {
		s.logger.Error("Failed to hash password.", err)
		return domain.TokenResponse{}, apperror.NewInternalError(msgCreateFailed, err)
	}

	// 4. Insert, pedindo a linha armazenada de volta
	rows, err := s.store.Insert(ctx, reg.ToNewUser(hash))
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			s.logger.Info("Registration lost a race on a duplicate email.", map[string]interface{}{"email": reg.Email})
			return domain.TokenResponse{}, apperror.NewConflictError(msgEmailRegistered, err)
		}
		s.logger.Error("Failed to insert user.", err)
		return domain.TokenResponse{}, apperror.NewDBError(msgCreateFailed, err)
	}
	if len(rows) == 0 {
		s.logger.Error("User store returned no row after insert.", nil)
		return domain.TokenResponse{}, apperror.NewPersistenceError(msgCreateFailed, nil)
	}
	created := rows[0]

	// 5. Token
	resp, err := s.tokenResponse(created)
	if err != nil {
		return domain.TokenResponse{}, err
	}

	s.logger.Info("User registered.", map[string]interface{}{"user_id": created.ID, "email": created.Email})
	return resp, nil
}

// Login verifica as credenciais e retorna um token novo. Emails desconhecidos e
// senhas erradas produzem o mesmo erro.
func (s *Service) Login(ctx context.Context, req domain.LoginRequest) (domain.TokenResponse, error) {
	if err := validation.Struct("Invalid login payload", req); err != nil {
		return domain.TokenResponse{}, err
	}

	users, err := s.store.FindByEmail(ctx, req.Email)
	if err != nil {
		s.logger.Error("Failed to look up user for login.", err)
		return domain.TokenResponse{}, apperror.NewDBError("Failed to authenticate", err)
	}
	if len(users) == 0 {
		s.logger.Debug("Login for unknown email.", map[string]interface{}{"email": req.Email})
		return domain.TokenResponse{}, apperror.NewUnauthorizedError(msgInvalidCredentials)
	}

	user := users[0]
	if !s.hasher.Verify(req.Password, user.PasswordHash) {
		s.logger.Debug("Login with wrong password.", map[string]interface{}{"user_id": user.ID})
		return domain.TokenResponse{}, apperror.NewUnauthorizedError(msgInvalidCredentials)
	}

	resp, err := s.tokenResponse(user)
	if err != nil {
		return domain.TokenResponse{}, err
	}

	s.logger.Info("User logged in.", map[string]interface{}{"user_id": user.ID})
	return resp, nil
}

// ListUsers retorna a projeção pública de todos os usuários, na ordem do store.
func (s *Service) ListUsers(ctx context.Context) ([]domain.UserResponse, error) {
	users, err := s.store.List(ctx)
	if err != nil {
		s.logger.Error("Failed to list users.", err)
		return nil, apperror.NewDBError("Failed to list users", err)
	}

	out := make([]domain.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, u.Response())
	}
	return out, nil
}

// Me retorna a projeção do usuário identificado pelo subject de um token validado.
func (s *Service) Me(ctx context.Context, userID string) (domain.UserResponse, error) {
	user, err := s.store.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.UserResponse{}, apperror.NewNotFoundError("User not found", err)
		}
		s.logger.Error("Failed to load current user.", err)
		return domain.UserResponse{}, apperror.NewDBError("Failed to load user", err)
	}
	return user.Response(), nil
}

func (s *Service) tokenResponse(user domain.User) (domain.TokenResponse, error) {
	accessToken, err := s.issuer.IssueForSubject(user.ID)
	if err != nil {
		s.logger.Error("Failed to sign access token.", err)
		var appErr apperror.AppError
		if errors.As(err, &appErr) {
			return domain.TokenResponse{}, err
		}
		return domain.TokenResponse{}, apperror.NewSigningError("Failed to issue token", err)
	}

	return domain.TokenResponse{
		AccessToken: accessToken,
		TokenType:   domain.TokenTypeBearer,
		User:        user.Response(),
	}, nil
}
