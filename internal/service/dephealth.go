package service

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/BigKAA/topologymetrics/sdk-go/dephealth"
	"github.com/BigKAA/topologymetrics/sdk-go/dephealth/checks/pgcheck"
)

// DependencyPostgres: имя зависимости в метриках app_dependency_*.
const DependencyPostgres = "postgresql"

// DephealthService периодически проверяет PostgreSQL через topologymetrics
// и публикует app_dependency_health, app_dependency_latency_seconds
// и app_dependency_status на /metrics.
type DephealthService struct {
	dh     *dephealth.DepHealth
	logger *slog.Logger
}

// NewDephealthService регистрирует PostgreSQL как критичную зависимость.
// db строится поверх пула приложения (stdlib.OpenDBFromPool), поэтому
// исчерпание пула отражается в метриках. pgConnURL служит только для лейблов.
// extra позволяет, например, подменить Prometheus registerer в тестах.
func NewDephealthService(
	serviceID, group string,
	db *sql.DB,
	pgConnURL string,
	checkInterval time.Duration,
	logger *slog.Logger,
	extra ...dephealth.Option,
) (*DephealthService, error) {
	postgres := dephealth.AddDependency(DependencyPostgres, dephealth.TypePostgres,
		pgcheck.New(pgcheck.WithDB(db)),
		dephealth.FromURL(pgConnURL),
		dephealth.CheckInterval(checkInterval),
		dephealth.Critical(true),
	)

	opts := append([]dephealth.Option{dephealth.WithLogger(logger), postgres}, extra...)
	dh, err := dephealth.New(serviceID, group, opts...)
	if err != nil {
		return nil, err
	}

	return &DephealthService{
		dh:     dh,
		logger: logger.With(slog.String("component", "dephealth")),
	}, nil
}

// Start запускает фоновые проверки.
func (ds *DephealthService) Start(ctx context.Context) error {
	if err := ds.dh.Start(ctx); err != nil {
		return err
	}
	ds.logger.Debug("Проверки зависимостей запущены", slog.String("dependency", DependencyPostgres))
	return nil
}

// Stop останавливает проверки и ждёт их завершения.
func (ds *DephealthService) Stop() {
	ds.dh.Stop()
	ds.logger.Debug("Проверки зависимостей остановлены")
}
