package router

import (
	"encoding/json"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "employeehub/docs" // registra o documento OpenAPI
	"employeehub/internal/api/user"
	"employeehub/internal/pkg/logger"
	"employeehub/internal/pkg/middleware"
)

// ServiceName é informado pelo endpoint raiz.
const ServiceName = "AI Employee Assistant API"

// StatusResponse é o corpo dos endpoints raiz e de health.
type StatusResponse struct {
	Message string `json:"message,omitempty"`
	Status  string `json:"status" example:"healthy"`
}

// NewRouter monta a árvore de handlers HTTP a partir dos handlers já injetados.
func NewRouter(userHandler *user.Handler, tokens middleware.TokenValidator, cors middleware.CORSConfig, log logger.Logger) http.Handler {
	mux := http.NewServeMux()
	authMiddleware := middleware.NewAuthMiddleware(tokens, log)

	// 1. Meta
	mux.HandleFunc("GET /{$}", RootHandler(log))
	mux.HandleFunc("GET /api/health", HealthHandler(log))
	mux.Handle("GET /swagger/", httpSwagger.WrapHandler)

	// 2. Autenticação
	mux.HandleFunc("POST /api/auth/register", userHandler.RegisterUserHandler)
	mux.HandleFunc("POST /api/auth/login", userHandler.LoginUserHandler)
	mux.HandleFunc("GET /api/auth/me", authMiddleware(userHandler.MeHandler))
	mux.HandleFunc("GET /api/auth/users", userHandler.ListUsersHandler)

	// 3. Usuários
	mux.HandleFunc("GET /api/users/{$}", userHandler.ListUsersHandler)
	mux.HandleFunc("GET /api/users", userHandler.ListUsersHandler)

	// 4. Middlewares globais, do mais externo para o mais interno
	return middleware.Chain(mux,
		middleware.Recovery(log),
		middleware.RequestLogging(log),
		middleware.CORS(cors),
	)
}

// RootHandler informa que o serviço está no ar.
func RootHandler(log logger.Logger) http.HandlerFunc {
	return statusHandler(log, StatusResponse{Message: ServiceName, Status: "running"})
}

// HealthHandler é o liveness check.
// @Summary Verifica se o serviço está vivo
// @Tags Meta
// @Produce json
// @Success 200 {object} router.StatusResponse
// @Router /api/health [get]
func HealthHandler(log logger.Logger) http.HandlerFunc {
	return statusHandler(log, StatusResponse{Status: "healthy"})
}

func statusHandler(log logger.Logger, body StatusResponse) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if err := json.NewEncoder(w).Encode(body); err != nil {
			log.Error("Failed to encode JSON response.", err)
		}
	}
}
