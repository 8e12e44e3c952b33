package user

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"employeehub/internal/domain"
	apperror "employeehub/internal/errors"
	"employeehub/internal/pkg/logger"
	"employeehub/internal/pkg/middleware"
)

const maxBodyBytes = 1 << 20

// UserService define o contrato que o Handler espera de internal/service/userservice.
type UserService interface {
	Register(ctx context.Context, reg domain.UserRegistration) (domain.TokenResponse, error)
	Login(ctx context.Context, req domain.LoginRequest) (domain.TokenResponse, error)
	ListUsers(ctx context.Context) ([]domain.UserResponse, error)
	Me(ctx context.Context, userID string) (domain.UserResponse, error)
}

// Handler agrupa os handlers HTTP de usuário.
type Handler struct {
	Service UserService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc UserService, log logger.Logger) *Handler {
	return &Handler{
		Service: svc,
		Logger:  log,
	}
}

// handleServiceResponse escreve data com successStatus ou converte err no
// corpo de erro padronizado.
func (h *Handler) handleServiceResponse(w http.ResponseWriter, r *http.Request, data interface{}, err error, successStatus int) {
	w.Header().Set("Content-Type", "application/json")

	if err == nil {
		w.WriteHeader(successStatus)
		if data != nil {
			if jsonErr := json.NewEncoder(w).Encode(data); jsonErr != nil {
				h.Logger.Error("Failed to encode JSON response.", jsonErr)
			}
		}
		return
	}

	status, category, message := apperror.MapToHTTPStatus(err)
	if status >= http.StatusInternalServerError {
		h.Logger.Error(fmt.Sprintf("Server error: %s", category), err)
	} else {
		h.Logger.Debug("Request rejected.", map[string]interface{}{
			"path":     r.URL.Path,
			"status":   status,
			"category": category,
		})
	}

	resp := domain.ErrorResponse{Detail: message, Category: category}
	var vErr *apperror.ValidationError
	if errors.As(err, &vErr) {
		resp.Detail = vErr.Msg
		resp.Errors = vErr.Fields
	}

	w.WriteHeader(status)
	if jsonErr := json.NewEncoder(w).Encode(resp); jsonErr != nil {
		h.Logger.Error("Failed to encode JSON error response.", jsonErr)
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperror.NewValidationError("Invalid JSON payload")
	}
	return nil
}

// RegisterUserHandler trata POST /api/auth/register.
// @Summary Cadastra um novo usuário
// @Description Cria o usuário com a senha em hash e retorna um bearer token.
// @Tags Authentication
// @Accept json
// @Produce json
// @Param registration body domain.UserRegistration true "Registration payload"
// @Success 200 {object} domain.TokenResponse
// @Failure 400 {object} domain.ErrorResponse "Invalid payload or email already registered"
// @Failure 500 {object} domain.ErrorResponse "Failed to create user"
// @Router /api/auth/register [post]
func (h *Handler) RegisterUserHandler(w http.ResponseWriter, r *http.Request) {
	var reg domain.UserRegistration
	if err := decodeJSON(w, r, &reg); err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}

	resp, err := h.Service.Register(r.Context(), reg)
	h.handleServiceResponse(w, r, resp, err, http.StatusOK)
}

// LoginUserHandler trata POST /api/auth/login.
// @Summary Autentica um usuário
// @Description Verifica email e senha e retorna um bearer token.
// @Tags Authentication
// @Accept json
// @Produce json
// @Param login body domain.LoginRequest true "Credentials"
// @Success 200 {object} domain.TokenResponse
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse "Invalid credentials"
// @Router /api/auth/login [post]
func (h *Handler) LoginUserHandler(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}

	resp, err := h.Service.Login(r.Context(), req)
	h.handleServiceResponse(w, r, resp, err, http.StatusOK)
}

// ListUsersHandler trata GET /api/auth/users e GET /api/users/.
// @Summary Lista todos os usuários
// @Tags Users
// @Produce json
// @Success 200 {array} domain.UserResponse
// @Failure 500 {object} domain.ErrorResponse
// @Router /api/users/ [get]
// @Router /api/auth/users [get]
func (h *Handler) ListUsersHandler(w http.ResponseWriter, r *http.Request) {
	users, err := h.Service.ListUsers(r.Context())
	h.handleServiceResponse(w, r, users, err, http.StatusOK)
}

// MeHandler trata GET /api/auth/me. Deve ficar atrás do middleware de autenticação.
// @Summary Retorna o usuário autenticado
// @Tags Authentication
// @Produce json
// @Security BearerAuth
// @Success 200 {object} domain.UserResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Router /api/auth/me [get]
func (h *Handler) MeHandler(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserClaimsFromContext(r.Context())
	if !ok {
		h.handleServiceResponse(w, r, nil, apperror.NewUnauthorizedError("Authentication required"), http.StatusOK)
		return
	}

	me, err := h.Service.Me(r.Context(), claims.UserID)
	h.handleServiceResponse(w, r, me, err, http.StatusOK)
}
