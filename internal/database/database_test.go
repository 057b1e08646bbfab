package database

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/HansenBerlin/printfiles/internal/config"
)

// setupTestDB запускает PostgreSQL в Docker-контейнере через testcontainers.
// Возвращает конфиг с пулом из одного соединения.
func setupTestDB(t *testing.T) *config.Config {
	t.Helper()

	if os.Getenv("TEST_INTEGRATION") == "" {
		t.Skip("Пропуск интеграционного теста: TEST_INTEGRATION не установлена")
	}

	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"docker.io/postgres:17-alpine",
		postgres.WithDatabase("printfiles_test"),
		postgres.WithUsername("printfiles"),
		postgres.WithPassword("test-password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("Не удалось запустить PostgreSQL контейнер: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("Ошибка остановки контейнера: %v", err)
		}
	})

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("Не удалось получить host контейнера: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("Не удалось получить port контейнера: %v", err)
	}

	t.Setenv("PF_DB_HOST", host)
	t.Setenv("PF_DB_PORT", port.Port())
	t.Setenv("PF_DB_NAME", "printfiles_test")
	t.Setenv("PF_DB_USER", "printfiles")
	t.Setenv("PF_DB_PASSWORD", "test-password")
	t.Setenv("PF_DB_SSL_MODE", "disable")
	t.Setenv("PF_DB_MAX_CONNS", "1")
	t.Setenv("PF_DB_ACQUIRE_TIMEOUT", "200ms")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	return cfg
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// TestConnect проверяет подключение и размер пула из конфигурации.
func TestConnect(t *testing.T) {
	cfg := setupTestDB(t)
	ctx := context.Background()

	pool, err := Connect(ctx, cfg, testLogger())
	if err != nil {
		t.Fatalf("Connect() ошибка: %v", err)
	}
	defer pool.Close()

	if got := pool.Stat().MaxConns(); got != 1 {
		t.Errorf("MaxConns = %d, ожидается 1", got)
	}
}

// TestMigrate проверяет применение миграций и повторный запуск без изменений.
func TestMigrate(t *testing.T) {
	cfg := setupTestDB(t)
	ctx := context.Background()
	logger := testLogger()

	if err := Migrate(cfg, logger); err != nil {
		t.Fatalf("Migrate() ошибка: %v", err)
	}
	if err := Migrate(cfg, logger); err != nil {
		t.Fatalf("повторный Migrate() ошибка: %v", err)
	}

	pool, err := Connect(ctx, cfg, logger)
	if err != nil {
		t.Fatalf("Connect() ошибка: %v", err)
	}
	defer pool.Close()

	var roles int
	if err := pool.QueryRow(ctx, "SELECT COUNT(*) FROM roles").Scan(&roles); err != nil {
		t.Fatalf("ошибка запроса roles: %v", err)
	}
	if roles != 3 {
		t.Errorf("roles = %d, ожидается 3", roles)
	}
}

// TestReadinessChecker проверяет статус готовности при свободном и занятом пуле.
func TestReadinessChecker(t *testing.T) {
	cfg := setupTestDB(t)
	ctx := context.Background()

	pool, err := Connect(ctx, cfg, testLogger())
	if err != nil {
		t.Fatalf("Connect() ошибка: %v", err)
	}
	defer pool.Close()

	checker := NewReadinessChecker(pool)
	if status, msg := checker.CheckReady(); status != "ok" {
		t.Errorf("CheckReady() = %q (%s), ожидается ok", status, msg)
	}
}

// TestGateway_PoolExhausted проверяет ограниченное ожидание соединения.
func TestGateway_PoolExhausted(t *testing.T) {
	cfg := setupTestDB(t)
	ctx := context.Background()

	pool, err := Connect(ctx, cfg, testLogger())
	if err != nil {
		t.Fatalf("Connect() ошибка: %v", err)
	}
	defer pool.Close()

	gw := NewGateway(pool, cfg.DBAcquireTimeout)

	// Занимаем единственное соединение
	held, err := pool.Acquire(ctx)
	if err != nil {
		t.Fatalf("Acquire() ошибка: %v", err)
	}

	start := time.Now()
	_, err = gw.Exec(ctx, "SELECT 1")
	if !errors.Is(err, ErrPoolExhausted) {
		t.Fatalf("Exec() = %v, ожидается ErrPoolExhausted", err)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("ожидание %v превышает таймаут", elapsed)
	}

	// Отмена запроса клиентом: не исчерпание пула
	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if _, err := gw.Exec(cancelled, "SELECT 1"); errors.Is(err, ErrPoolExhausted) {
		t.Error("отменённый контекст не должен давать ErrPoolExhausted")
	}

	held.Release()

	if _, err := gw.Exec(ctx, "SELECT 1"); err != nil {
		t.Fatalf("Exec() после освобождения: %v", err)
	}
}

// TestGateway_ReleasesConnections проверяет возврат соединения в пул
// после Query/QueryRow/транзакции.
func TestGateway_ReleasesConnections(t *testing.T) {
	cfg := setupTestDB(t)
	ctx := context.Background()

	pool, err := Connect(ctx, cfg, testLogger())
	if err != nil {
		t.Fatalf("Connect() ошибка: %v", err)
	}
	defer pool.Close()

	gw := NewGateway(pool, cfg.DBAcquireTimeout)

	rows, err := gw.Query(ctx, "SELECT generate_series(1, 3)")
	if err != nil {
		t.Fatalf("Query() ошибка: %v", err)
	}
	for rows.Next() {
	}
	rows.Close()
	if got := pool.Stat().AcquiredConns(); got != 0 {
		t.Errorf("после Query занято %d соединений", got)
	}

	var n int
	if err := gw.QueryRow(ctx, "SELECT 42").Scan(&n); err != nil || n != 42 {
		t.Fatalf("QueryRow() = %d, %v", n, err)
	}
	if got := pool.Stat().AcquiredConns(); got != 0 {
		t.Errorf("после QueryRow занято %d соединений", got)
	}

	// Scan с ошибкой тоже возвращает соединение
	if err := gw.QueryRow(ctx, "SELECT 1 WHERE false").Scan(&n); !errors.Is(err, pgx.ErrNoRows) {
		t.Fatalf("QueryRow() без строк = %v, ожидается pgx.ErrNoRows", err)
	}
	if got := pool.Stat().AcquiredConns(); got != 0 {
		t.Errorf("после пустого QueryRow занято %d соединений", got)
	}

	tx, err := gw.Begin(ctx)
	if err != nil {
		t.Fatalf("Begin() ошибка: %v", err)
	}
	if err := tx.Commit(ctx); err != nil {
		t.Fatalf("Commit() ошибка: %v", err)
	}
	_ = tx.Rollback(ctx)
	if got := pool.Stat().AcquiredConns(); got != 0 {
		t.Errorf("после транзакции занято %d соединений", got)
	}
}
