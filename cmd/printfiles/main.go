// Точка входа printfiles: REST-сервис каталога 3D-файлов с учётом прав.
// Загружает конфигурацию, применяет миграции, подключается к PostgreSQL,
// создаёт репозитории, сервисы и API handlers, запускает topologymetrics
// и HTTP-сервер с graceful shutdown.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/HansenBerlin/printfiles/internal/api/handlers"
	"github.com/HansenBerlin/printfiles/internal/api/openapi"
	"github.com/HansenBerlin/printfiles/internal/config"
	"github.com/HansenBerlin/printfiles/internal/database"
	"github.com/HansenBerlin/printfiles/internal/repository"
	"github.com/HansenBerlin/printfiles/internal/server"
	"github.com/HansenBerlin/printfiles/internal/service"
)

func main() {
	// 1. Загрузка конфигурации из переменных окружения (и .env)
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Ошибка загрузки конфигурации", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 2. Настройка логирования
	logger := config.SetupLogger(cfg)
	logger.Info("printfiles запускается",
		slog.String("version", config.Version),
		slog.Int("port", cfg.Port),
	)

	// 3. Применение миграций БД
	if cfg.DBMigrateOnStart {
		logger.Info("Применение миграций БД...")
		if err := database.Migrate(cfg, logger); err != nil {
			logger.Error("Ошибка миграций БД", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	// 4. Подключение к PostgreSQL (pgxpool)
	ctx := context.Background()
	pool, err := database.Connect(ctx, cfg, logger)
	if err != nil {
		logger.Error("Ошибка подключения к PostgreSQL", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	// 5. Шлюз с ограниченным ожиданием соединения и метрики пула
	gateway := database.NewGateway(pool, cfg.DBAcquireTimeout)
	if err := database.RegisterPoolMetrics(prometheus.DefaultRegisterer, pool); err != nil {
		logger.Warn("Метрики пула не зарегистрированы", slog.String("error", err.Error()))
	}

	// 6. Repositories
	txRunner := repository.NewTxRunner(gateway)
	queryRepo := repository.NewFileQueryRepository(gateway)
	fileRepo := repository.NewFileRepository(gateway, txRunner)
	userRepo := repository.NewUserRepository(gateway, txRunner)
	printRepo := repository.NewPrintRepository(gateway)

	// 7. Services
	visibilitySvc := service.NewVisibilityService(queryRepo, logger)
	filesSvc := service.NewFileService(fileRepo, logger)
	usersSvc := service.NewUserService(userRepo, logger)
	printsSvc := service.NewPrintService(printRepo, logger)
	paginator := service.NewPaginator(cfg.DefaultPageLimit, cfg.MaxPageLimit)

	// 8. topologymetrics: мониторинг PostgreSQL через существующий пул
	pgDB := stdlib.OpenDBFromPool(pool)
	defer pgDB.Close()

	dephealthSvc, dephealthErr := service.NewDephealthService(
		config.ServiceName,
		cfg.DephealthGroup,
		pgDB,
		cfg.DatabaseURL(),
		cfg.DephealthCheckInterval,
		logger,
	)
	if dephealthErr != nil {
		logger.Warn("topologymetrics недоступен, запуск без мониторинга зависимостей",
			slog.String("error", dephealthErr.Error()),
		)
		dephealthSvc = nil
	} else if startErr := dephealthSvc.Start(ctx); startErr != nil {
		logger.Warn("Ошибка запуска topologymetrics", slog.String("error", startErr.Error()))
		dephealthSvc = nil
	} else {
		logger.Info("topologymetrics запущен",
			slog.String("group", cfg.DephealthGroup),
			slog.String("check_interval", cfg.DephealthCheckInterval.String()),
		)
	}

	// 9. OpenAPI-документ для валидации запросов
	doc, err := openapi.Load()
	if err != nil {
		logger.Error("Ошибка загрузки OpenAPI-документа", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 10. Handlers
	healthHandler := handlers.NewHealthHandler(database.NewReadinessChecker(pool))
	apiHandler := handlers.NewAPIHandler(
		healthHandler,
		visibilitySvc,
		filesSvc,
		usersSvc,
		printsSvc,
		paginator,
		openapi.YAML(),
		logger,
	)

	// 11. Создание и запуск HTTP-сервера
	srv := server.New(cfg, logger, apiHandler, doc)
	if err := srv.Run(); err != nil {
		logger.Error("Ошибка сервера", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 12. Остановка фоновых задач
	if dephealthSvc != nil {
		dephealthSvc.Stop()
	}

	logger.Info("printfiles остановлен")
}
