package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"employeehub/internal/domain"
	apperror "employeehub/internal/errors"
	"employeehub/internal/pkg/logger"
)

// ContextKey tem tipo próprio para que nenhum outro pacote colida com ele.
type ContextKey int

const (
	userClaimsKey ContextKey = iota
	requestIDKey
)

// UserClaims é o que o middleware de autenticação anexa ao contexto da requisição.
// Só o subject é usado; não há papéis a verificar.
type UserClaims struct {
	UserID string
}

// TokenValidator é a parte de validação de internal/pkg/token.
type TokenValidator interface {
	Validate(tokenString string) (jwt.MapClaims, error)
}

// NewAuthMiddleware valida "Authorization: Bearer <token>" e guarda o
// subject do token no contexto. Qualquer outra coisa recebe 401.
func NewAuthMiddleware(validator TokenValidator, log logger.Logger) func(next http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			// 1. Extrair o bearer token
			authHeader := r.Header.Get("Authorization")
			scheme, tokenString, found := strings.Cut(authHeader, " ")
			if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(tokenString) == "" {
				writeUnauthorized(w, log, "Missing or malformed authorization header")
				return
			}

			// 2. Validar
			claims, err := validator.Validate(strings.TrimSpace(tokenString))
			if err != nil {
				writeUnauthorized(w, log, "Invalid or expired token")
				return
			}
			sub, err := claims.GetSubject()
			if err != nil || sub == "" {
				writeUnauthorized(w, log, "Invalid or expired token")
				return
			}

			// 3. Anexar o subject
			ctx := context.WithValue(r.Context(), userClaimsKey, UserClaims{UserID: sub})
			next.ServeHTTP(w, r.WithContext(ctx))
		}
	}
}

// GetUserClaimsFromContext retorna as claims guardadas por NewAuthMiddleware.
func GetUserClaimsFromContext(ctx context.Context) (UserClaims, bool) {
	claims, ok := ctx.Value(userClaimsKey).(UserClaims)
	return claims, ok
}

func writeUnauthorized(w http.ResponseWriter, log logger.Logger, msg string) {
	err := apperror.NewUnauthorizedError(msg)
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", `Bearer`)
	w.WriteHeader(err.HTTPStatus())
	if jsonErr := json.NewEncoder(w).Encode(domain.ErrorResponse{Detail: msg, Category: err.Category()}); jsonErr != nil {
		log.Error("Failed to encode JSON error response.", jsonErr)
	}
}
