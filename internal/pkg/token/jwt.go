package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	apperror "employeehub/internal/errors"
)

// DefaultTTL é a validade dos tokens emitidos sem ttl explícito.
const DefaultTTL = 60 * time.Minute

// ErrMissingKey significa que o serviço foi criado sem chave de assinatura.
var ErrMissingKey = errors.New("jwt signing key is not configured")

// Service assina e valida access tokens HS256. A chave é fixada na
// construção e nenhum estado por token é mantido.
type Service struct {
	secretKey []byte
	ttl       time.Duration
	method    jwt.SigningMethod
	now       func() time.Time
}

// Option customiza um Service.
type Option func(*Service)

// WithClock substitui time.Now, principalmente nos testes.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService cria o serviço de tokens. Um ttl <= 0 significa DefaultTTL.
func NewService(secretKey string, ttl time.Duration, opts ...Option) *Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	s := &Service{
		secretKey: []byte(secretKey),
		ttl:       ttl,
		method:    jwt.SigningMethodHS256,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Issue assina claims mais um exp de agora+ttl (UTC) e um iat. O map de
// quem chama não é modificado.
func (s *Service) Issue(claims map[string]interface{}, ttl time.Duration) (string, error) {
	if len(s.secretKey) == 0 {
		return "", apperror.NewSigningError("Failed to issue token", ErrMissingKey)
	}

	now := s.now().UTC()
	toEncode := jwt.MapClaims{}
	for k, v := range claims {
		toEncode[k] = v
	}
	toEncode["exp"] = jwt.NewNumericDate(now.Add(ttl))
	toEncode["iat"] = jwt.NewNumericDate(now)

	tokenString, err := jwt.NewWithClaims(s.method, toEncode).SignedString(s.secretKey)
	if err != nil {
		return "", apperror.NewSigningError("Failed to issue token", err)
	}
	return tokenString, nil
}

// IssueForSubject emite um token cuja única claim customizada é sub, com o
// ttl padrão do serviço.
func (s *Service) IssueForSubject(subject string) (string, error) {
	return s.Issue(map[string]interface{}{"sub": subject}, s.ttl)
}

// Validate confere assinatura, algoritmo e exp, e retorna as claims.
func (s *Service) Validate(tokenString string) (jwt.MapClaims, error) {
	if len(s.secretKey) == 0 {
		return nil, ErrMissingKey
	}

	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != s.method.Alg() {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secretKey, nil
	},
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
		jwt.WithValidMethods([]string{s.method.Alg()}),
	)
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	return claims, nil
}
