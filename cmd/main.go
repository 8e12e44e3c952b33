// @title AI Employee Assistant API
// @version 1.0
// @description Serviço de cadastro e autenticação de funcionários.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"employeehub/config"
	"employeehub/internal/api/router"
	"employeehub/internal/api/user"
	"employeehub/internal/domain"
	"employeehub/internal/pkg/cache"
	"employeehub/internal/pkg/database"
	"employeehub/internal/pkg/logger"
	"employeehub/internal/pkg/middleware"
	"employeehub/internal/pkg/password"
	"employeehub/internal/pkg/token"
	"employeehub/internal/repository/cachedrepo"
	"employeehub/internal/repository/memoryrepo"
	"employeehub/internal/repository/restrepo"
	"employeehub/internal/repository/userrepo"
	"employeehub/internal/service/userservice"
)

func main() {
	// 0. CARREGAR VARIÁVEIS DE AMBIENTE (.env), se existir. O ambiente do processo
	// continua valendo para o que o godotenv não sobrescreve.
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found or unreadable. Using the process environment only.")
	}

	// 1. Configuração e Logger
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("configuration error: %v", err)
	}
	appLog := logger.NewLogger(cfg.LogLevel)
	appLog.Info("Configuration loaded.", map[string]interface{}{
		"env":        cfg.Environment,
		"user_store": cfg.UserStore,
		"cache":      cfg.RedisAddr != "",
	})

	// 2. Infraestrutura: armazenamento de usuários e cache opcional
	store, cleanup, err := buildUserStore(cfg, appLog)
	if err != nil {
		appLog.Fatal("Failed to initialise the user store.", err)
	}
	defer cleanup()

	// 3. INJEÇÃO DE DEPENDÊNCIAS. Ordem: Repository -> Service -> Handler
	hasher := password.NewHasher(cfg.BcryptCost)
	tokenSvc := token.NewService(cfg.JWTSecretKey, cfg.TokenExpiry)
	userSvc := userservice.NewService(store, hasher, tokenSvc, appLog)
	userHandler := user.NewHandler(userSvc, appLog)
	appLog.Debug("User service wired.", nil)

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = cfg.CORSAllowedOrigins

	// 4. Roteador e Servidor
	r := router.NewRouter(userHandler, tokenSvc, corsCfg, appLog)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// 5. Execução e Graceful Shutdown
	go func() {
		appLog.Info("Server listening.", map[string]interface{}{"port": cfg.Port})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLog.Fatal("Server failed.", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	appLog.Info("Shutdown signal received. Stopping server...", nil)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		appLog.Error("Forced server shutdown.", err)
	}

	appLog.Info("Server stopped.", nil)
}

// buildUserStore escolhe o backend indicado por USER_STORE e, quando REDIS_ADDR
// está definido, envolve-o com o cache da listagem. O cleanup retornado fecha
// todas as conexões abertas.
func buildUserStore(cfg *config.Config, appLog logger.Logger) (domain.UserStore, func(), error) {
	var store domain.UserStore
	var closers []func() error
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i](); err != nil {
				appLog.Error("Failed to close resource.", err)
			}
		}
	}

	switch cfg.UserStore {
	case config.StorePostgres:
		ctx, cancel := context.WithTimeout(context.Background(), cfg.DBTimeout)
		defer cancel()
		db, err := database.NewPostgresDB(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, cleanup, err
		}
		closers = append(closers, db.Close)
		store = userrepo.NewUserRepository(db, cfg.DBTimeout, appLog)
		appLog.Info("PostgreSQL connection established.", nil)

	case config.StoreREST:
		store = restrepo.NewUserRepository(restrepo.Config{
			BaseURL: cfg.SupabaseURL,
			APIKey:  cfg.SupabaseKey,
			Table:   cfg.SupabaseUsersTable,
			Timeout: cfg.DBTimeout,
		}, nil, appLog)
		appLog.Info("Using hosted REST user store.", map[string]interface{}{"url": cfg.SupabaseURL})

	case config.StoreMemory:
		store = memoryrepo.NewUserRepository()
		appLog.Warn("Using in-memory user store; data is lost on restart.", nil)
	}

	if cfg.RedisAddr != "" {
		redisClient, err := cache.NewRedisClient(cfg.RedisAddr, cfg.DBTimeout)
		if err != nil {
			// O cache só acelera a listagem; seguimos sem ele.
			appLog.Warn("Redis unavailable, continuing without cache.", map[string]interface{}{"error": err.Error()})
		} else {
			closers = append(closers, redisClient.Close)
			store = cachedrepo.NewUserRepository(store, redisClient, cfg.CacheTTL, appLog)
			appLog.Info("Redis connection established.", nil)
		}
	}

	return store, cleanup, nil
}
