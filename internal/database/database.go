// Пакет database: пул соединений PostgreSQL, встроенные миграции схемы
// и шлюз с ограниченным ожиданием свободного соединения.
package database

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/HansenBerlin/printfiles/internal/config"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// readyTimeout: предел времени на ping в readiness-проверке.
const readyTimeout = 3 * time.Second

// Connect открывает пул и убеждается, что сервер отвечает.
// Размер пула приходит из DSN (pool_max_conns).
func Connect(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseDSN())
	if err != nil {
		return nil, fmt.Errorf("разбор DSN: %w", err)
	}
	poolCfg.ConnConfig.RuntimeParams["application_name"] = config.ServiceName

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("создание пула: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("PostgreSQL не отвечает: %w", err)
	}

	logger.Info("Пул PostgreSQL готов",
		slog.String("host", cfg.DBHost),
		slog.String("database", cfg.DBName),
		slog.Int("max_conns", int(poolCfg.MaxConns)),
		slog.Duration("acquire_timeout", cfg.DBAcquireTimeout),
	)
	return pool, nil
}

// Migrate доводит схему до последней встроенной версии.
// Повторный запуск на актуальной схеме ничего не меняет.
func Migrate(cfg *config.Config, logger *slog.Logger) (err error) {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("источник миграций: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, cfg.MigrateURL())
	if err != nil {
		return fmt.Errorf("инициализация migrate: %w", err)
	}
	defer func() {
		if srcErr, dbErr := m.Close(); err == nil {
			err = errors.Join(srcErr, dbErr)
		}
	}()

	switch err := m.Up(); {
	case errors.Is(err, migrate.ErrNoChange):
		logger.Debug("Схема БД актуальна")
	case err != nil:
		return fmt.Errorf("применение миграций: %w", err)
	}

	version, dirty, verr := m.Version()
	if verr != nil && !errors.Is(verr, migrate.ErrNilVersion) {
		return fmt.Errorf("версия схемы: %w", verr)
	}
	logger.Info("Схема БД применена",
		slog.Uint64("version", uint64(version)),
		slog.Bool("dirty", dirty),
	)
	return nil
}

// ReadinessChecker сообщает о готовности PostgreSQL для /health/ready.
type ReadinessChecker struct {
	pool *pgxpool.Pool
}

// NewReadinessChecker создаёт проверку поверх пула приложения.
func NewReadinessChecker(pool *pgxpool.Pool) *ReadinessChecker {
	return &ReadinessChecker{pool: pool}
}

// CheckReady: fail при неудачном ping, degraded при полностью занятом пуле.
func (c *ReadinessChecker) CheckReady() (string, string) {
	ctx, cancel := context.WithTimeout(context.Background(), readyTimeout)
	defer cancel()

	if err := c.pool.Ping(ctx); err != nil {
		return "fail", fmt.Sprintf("PostgreSQL недоступен: %v", err)
	}

	stat := c.pool.Stat()
	if busy, limit := stat.AcquiredConns(), stat.MaxConns(); limit > 0 && busy >= limit {
		return "degraded", fmt.Sprintf("все соединения заняты (%d из %d)", busy, limit)
	}
	return "ok", fmt.Sprintf("занято %d из %d соединений", stat.AcquiredConns(), stat.MaxConns())
}
