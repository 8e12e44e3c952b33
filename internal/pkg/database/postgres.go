package database

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"time"

	// Driver do PostgreSQL
	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
)

// Configurações aplicadas a todo pool de conexões.
const (
	MaxOpenConns    = 25
	MaxIdleConns    = 10
	ConnMaxLifetime = 5 * time.Minute
	ConnMaxIdleTime = 2 * time.Minute
)

// NewPostgresDB abre o pool do PostgreSQL e o verifica com um ping.
func NewPostgresDB(ctx context.Context, dataSourceName string) (*sql.DB, error) {
	// 1. Abrir (nenhuma conexão é feita ainda)
	db, err := sql.Open("postgres", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open DB connection: %w", err)
	}

	if err := Setup(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// Setup faz ping em db e aplica as configurações do pool.
func Setup(ctx context.Context, db *sql.DB) error {
	// 2. Testar a conexão imediatamente para que credenciais erradas falhem na inicialização
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed initial DB ping: %w", err)
	}

	// 3. Configuração do Pool
	db.SetMaxOpenConns(MaxOpenConns)
	db.SetMaxIdleConns(MaxIdleConns)
	db.SetConnMaxLifetime(ConnMaxLifetime)
	db.SetConnMaxIdleTime(ConnMaxIdleTime)

	return nil
}

// Migrate executa um comando do goose em db usando as migrações de dir em
// fsys. Com fsys nil, dir é lido do sistema de arquivos local.
func Migrate(ctx context.Context, db *sql.DB, fsys fs.FS, dir, command string, args ...string) error {
	goose.SetBaseFS(fsys)
	defer goose.SetBaseFS(nil)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("goose: %w", err)
	}
	if err := goose.RunContext(ctx, command, db, dir, args...); err != nil {
		return fmt.Errorf("goose %s: %w", command, err)
	}
	return nil
}
