package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"employeehub/config"
)

const validKey = "0123456789abcdef0123456789abcdef"

// clearEnv limpa todas as variáveis lidas por LoadConfig para que o ambiente
// da máquina não vaze para o teste. Valores vazios contam como ausentes.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"PORT", "ENV", "LOG_LEVEL", "USER_STORE", "DATABASE_URL", "DB_TIMEOUT_SEC",
		"SUPABASE_URL", "SUPABASE_KEY", "SUPABASE_USERS_TABLE", "REDIS_ADDR", "CACHE_TTL_SEC",
		"JWT_SECRET_KEY", "JWT_EXPIRY_MIN", "BCRYPT_COST", "CORS_ALLOWED_ORIGINS",
	} {
		t.Setenv(k, "")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET_KEY", validKey)
	t.Setenv("DATABASE_URL", "postgres://localhost/employees?sslmode=disable")

	cfg, err := config.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8000", cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, config.StorePostgres, cfg.UserStore)
	assert.Equal(t, 5*time.Second, cfg.DBTimeout)
	assert.Equal(t, 60*time.Minute, cfg.TokenExpiry)
	assert.Equal(t, 12, cfg.BcryptCost)
	assert.Equal(t, "", cfg.RedisAddr)
	assert.Equal(t, 30*time.Second, cfg.CacheTTL)
	assert.Equal(t, "users", cfg.SupabaseUsersTable)
	assert.Equal(t, []string{"http://localhost:3000", "http://127.0.0.1:3000"}, cfg.CORSAllowedOrigins)
}

func TestLoadConfig_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET_KEY", validKey)
	t.Setenv("USER_STORE", "REST")
	t.Setenv("SUPABASE_URL", "https://example.supabase.co")
	t.Setenv("SUPABASE_KEY", "anon")
	t.Setenv("JWT_EXPIRY_MIN", "15")
	t.Setenv("BCRYPT_COST", "10")
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://app.example , ,https://admin.example")

	cfg, err := config.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, config.StoreREST, cfg.UserStore)
	assert.Equal(t, 15*time.Minute, cfg.TokenExpiry)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.Equal(t, []string{"https://app.example", "https://admin.example"}, cfg.CORSAllowedOrigins)
}

func TestLoadConfig_BadNumberFallsBackToDefault(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET_KEY", validKey)
	t.Setenv("USER_STORE", "memory")
	t.Setenv("DB_TIMEOUT_SEC", "soon")

	cfg, err := config.LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, cfg.DBTimeout)
}

func TestLoadConfig_Rejects(t *testing.T) {
	cases := map[string]struct {
		env     map[string]string
		wantErr string
	}{
		"missing key": {
			env:     map[string]string{"USER_STORE": "memory"},
			wantErr: "JWT_SECRET_KEY must be set",
		},
		"short key": {
			env:     map[string]string{"USER_STORE": "memory", "JWT_SECRET_KEY": "too-short"},
			wantErr: "at least 32 bytes",
		},
		"postgres without url": {
			env:     map[string]string{"JWT_SECRET_KEY": validKey},
			wantErr: "DATABASE_URL must be set",
		},
		"rest without key": {
			env:     map[string]string{"JWT_SECRET_KEY": validKey, "USER_STORE": "rest", "SUPABASE_URL": "https://x.supabase.co"},
			wantErr: "SUPABASE_KEY must be set",
		},
		"unknown store": {
			env:     map[string]string{"JWT_SECRET_KEY": validKey, "USER_STORE": "mongo"},
			wantErr: `USER_STORE "mongo"`,
		},
		"non-positive expiry": {
			env:     map[string]string{"JWT_SECRET_KEY": validKey, "USER_STORE": "memory", "JWT_EXPIRY_MIN": "0"},
			wantErr: "JWT_EXPIRY_MIN must be positive",
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}

			cfg, err := config.LoadConfig()
			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestLoadMigrationConfig_OnlyNeedsDatabaseURL(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://localhost/employees?sslmode=disable")

	cfg, err := config.LoadMigrationConfig()

	require.NoError(t, err)
	assert.Equal(t, "postgres://localhost/employees?sslmode=disable", cfg.DatabaseURL)
	assert.Empty(t, cfg.JWTSecretKey)
}

func TestLoadMigrationConfig_RequiresDatabaseURL(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET_KEY", validKey)

	cfg, err := config.LoadMigrationConfig()

	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "DATABASE_URL must be set")
}
