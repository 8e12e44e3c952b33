package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Backends de armazenamento selecionáveis via USER_STORE.
const (
	StorePostgres = "postgres"
	StoreREST     = "rest"
	StoreMemory   = "memory"
)

// MinJWTKeyBytes é o menor tamanho aceito para a chave HS256.
const MinJWTKeyBytes = 32

// Config armazena todas as configurações do serviço. É lida uma vez na inicialização.
type Config struct {
	// Geral
	Port        string
	Environment string
	LogLevel    string

	// Armazenamento de usuários
	UserStore string

	// PostgreSQL
	DatabaseURL string
	DBTimeout   time.Duration

	// Armazenamento REST hospedado (Supabase/PostgREST)
	SupabaseURL        string
	SupabaseKey        string
	SupabaseUsersTable string

	// Cache (Redis). RedisAddr vazio desativa o cache.
	RedisAddr string
	CacheTTL  time.Duration

	// Segurança
	JWTSecretKey string
	TokenExpiry  time.Duration
	BcryptCost   int

	// HTTP
	CORSAllowedOrigins []string
}

// LoadConfig carrega as configurações a partir das variáveis de ambiente e as valida.
// Segredos ausentes são erro; não existem valores padrão embutidos para eles.
func LoadConfig() (*Config, error) {
	cfg := fromEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadMigrationConfig lê o mesmo ambiente, mas exige apenas o que o comando
// migrate usa: DATABASE_URL.
func LoadMigrationConfig() (*Config, error) {
	cfg := fromEnv()
	if cfg.DatabaseURL == "" {
		return nil, errors.New("invalid configuration: DATABASE_URL must be set")
	}
	return cfg, nil
}

func fromEnv() *Config {
	return &Config{
		// 1. Geral
		Port:        getEnv("PORT", "8000"),
		Environment: getEnv("ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		// 2. Armazenamento de usuários
		UserStore: strings.ToLower(getEnv("USER_STORE", StorePostgres)),

		// 3. PostgreSQL
		DatabaseURL: getEnv("DATABASE_URL", ""),
		DBTimeout:   getDurationEnv("DB_TIMEOUT_SEC", 5) * time.Second,

		// 4. Armazenamento REST hospedado
		SupabaseURL:        getEnv("SUPABASE_URL", ""),
		SupabaseKey:        getEnv("SUPABASE_KEY", ""),
		SupabaseUsersTable: getEnv("SUPABASE_USERS_TABLE", "users"),

		// 5. Cache
		RedisAddr: getEnv("REDIS_ADDR", ""),
		CacheTTL:  getDurationEnv("CACHE_TTL_SEC", 30) * time.Second,

		// 6. Segurança
		JWTSecretKey: getEnv("JWT_SECRET_KEY", ""),
		TokenExpiry:  getDurationEnv("JWT_EXPIRY_MIN", 60) * time.Minute,
		BcryptCost:   getIntEnv("BCRYPT_COST", 12),

		// 7. HTTP
		CORSAllowedOrigins: getListEnv("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000", "http://127.0.0.1:3000"}),
	}
}

// Validate reporta de uma vez todas as configurações ausentes ou inválidas.
func (c *Config) Validate() error {
	var errs []error

	switch {
	case c.JWTSecretKey == "":
		errs = append(errs, errors.New("JWT_SECRET_KEY must be set"))
	case len(c.JWTSecretKey) < MinJWTKeyBytes:
		errs = append(errs, fmt.Errorf("JWT_SECRET_KEY must be at least %d bytes", MinJWTKeyBytes))
	}

	switch c.UserStore {
	case StorePostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL must be set when USER_STORE=postgres"))
		}
	case StoreREST:
		if c.SupabaseURL == "" {
			errs = append(errs, errors.New("SUPABASE_URL must be set when USER_STORE=rest"))
		}
		if c.SupabaseKey == "" {
			errs = append(errs, errors.New("SUPABASE_KEY must be set when USER_STORE=rest"))
		}
	case StoreMemory:
	default:
		errs = append(errs, fmt.Errorf("USER_STORE %q is not one of postgres, rest, memory", c.UserStore))
	}

	if c.TokenExpiry <= 0 {
		errs = append(errs, errors.New("JWT_EXPIRY_MIN must be positive"))
	}
	if c.DBTimeout <= 0 {
		errs = append(errs, errors.New("DB_TIMEOUT_SEC must be positive"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}

// Funções Helpers (Auxiliares)

// getEnv lê a variável de ambiente ou retorna defaultValue se estiver ausente ou vazia.
func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

// getDurationEnv lê um inteiro e o retorna como time.Duration sem unidade;
// quem chama multiplica pela unidade. Valores inválidos caem no padrão.
func getDurationEnv(key string, defaultValue int) time.Duration {
	return time.Duration(getIntEnv(key, defaultValue))
}

func getIntEnv(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getListEnv lê uma lista separada por vírgulas.
func getListEnv(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if strings.TrimSpace(valueStr) == "" {
		return defaultValue
	}

	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
