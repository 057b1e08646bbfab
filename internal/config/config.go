// Пакет config: загрузка и валидация конфигурации сервиса printfiles
// из переменных окружения (и необязательного .env файла).
package config

import (
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Версия приложения, задаётся при сборке через -ldflags.
var Version = "dev"

// ServiceName: имя сервиса в логах, health-ответах и метриках зависимостей.
const ServiceName = "printfiles"

// Config содержит все параметры конфигурации сервиса.
type Config struct {
	// --- Сервер ---

	// Порт HTTP-сервера
	Port int
	// Уровень логирования (debug, info, warn, error)
	LogLevel slog.Level
	// Формат логов (json, text)
	LogFormat string
	// Разрешённые CORS origins (фронтенд)
	CORSOrigins []string

	// --- HTTP Server Timeouts ---

	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration

	// --- PostgreSQL ---

	// Хост PostgreSQL
	DBHost string
	// Порт PostgreSQL
	DBPort int
	// Имя базы данных
	DBName string
	// Имя пользователя PostgreSQL
	DBUser string
	// Пароль пользователя PostgreSQL
	DBPassword string
	// Режим SSL: disable, require, verify-ca, verify-full
	DBSSLMode string
	// Максимальное количество соединений в пуле
	DBMaxConns int
	// Максимальное ожидание свободного соединения из пула
	DBAcquireTimeout time.Duration
	// Применять миграции при старте
	DBMigrateOnStart bool

	// --- Пагинация ---

	// Лимит по умолчанию, если limit не передан
	DefaultPageLimit int
	// Максимальный лимит (большие значения обрезаются)
	MaxPageLimit int

	// --- topologymetrics ---

	// Группа в метриках зависимостей
	DephealthGroup string
	// Интервал проверки зависимостей
	DephealthCheckInterval time.Duration

	// --- Graceful shutdown ---

	// Таймаут graceful shutdown HTTP-сервера
	ShutdownTimeout time.Duration
}

// Load загружает конфигурацию из переменных окружения, валидирует
// обязательные поля и возвращает Config или ошибку.
// Если в рабочем каталоге есть .env, его значения подхватываются,
// но не перекрывают уже заданные переменные окружения.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	var err error

	// --- Сервер ---

	// PF_PORT: порт HTTP-сервера (по умолчанию 8000)
	cfg.Port, err = getEnvInt("PF_PORT", 8000)
	if err != nil {
		return nil, err
	}
	if cfg.Port < 1 || cfg.Port > 65535 {
		return nil, fmt.Errorf("PF_PORT: значение %d вне допустимого диапазона 1-65535", cfg.Port)
	}

	// PF_LOG_LEVEL: уровень логирования (по умолчанию info)
	cfg.LogLevel, err = parseLogLevel(getEnvDefault("PF_LOG_LEVEL", "info"))
	if err != nil {
		return nil, fmt.Errorf("PF_LOG_LEVEL: %w", err)
	}

	// PF_LOG_FORMAT: формат логов (по умолчанию json)
	cfg.LogFormat = getEnvDefault("PF_LOG_FORMAT", "json")
	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		return nil, fmt.Errorf("PF_LOG_FORMAT: недопустимое значение %q, допустимые: json, text", cfg.LogFormat)
	}

	// PF_CORS_ORIGINS: origins фронтенда через запятую
	cfg.CORSOrigins = parseCSV(getEnvDefault("PF_CORS_ORIGINS", "http://localhost:5001"))

	// --- HTTP Server Timeouts ---

	cfg.HTTPReadTimeout, err = getEnvDuration("PF_HTTP_READ_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}
	cfg.HTTPWriteTimeout, err = getEnvDuration("PF_HTTP_WRITE_TIMEOUT", 60*time.Second)
	if err != nil {
		return nil, err
	}
	cfg.HTTPIdleTimeout, err = getEnvDuration("PF_HTTP_IDLE_TIMEOUT", 120*time.Second)
	if err != nil {
		return nil, err
	}

	// --- PostgreSQL ---

	// PF_DB_HOST: обязательный
	cfg.DBHost, err = getEnvRequired("PF_DB_HOST")
	if err != nil {
		return nil, err
	}

	// PF_DB_PORT: порт PostgreSQL (по умолчанию 5432)
	cfg.DBPort, err = getEnvInt("PF_DB_PORT", 5432)
	if err != nil {
		return nil, err
	}

	// PF_DB_NAME: обязательный
	cfg.DBName, err = getEnvRequired("PF_DB_NAME")
	if err != nil {
		return nil, err
	}

	// PF_DB_USER: обязательный
	cfg.DBUser, err = getEnvRequired("PF_DB_USER")
	if err != nil {
		return nil, err
	}

	// PF_DB_PASSWORD: обязательный
	cfg.DBPassword, err = getEnvRequired("PF_DB_PASSWORD")
	if err != nil {
		return nil, err
	}

	// PF_DB_SSL_MODE: режим SSL (по умолчанию disable)
	cfg.DBSSLMode = getEnvDefault("PF_DB_SSL_MODE", "disable")
	validSSLModes := map[string]bool{
		"disable": true, "require": true, "verify-ca": true, "verify-full": true,
	}
	if !validSSLModes[cfg.DBSSLMode] {
		return nil, fmt.Errorf("PF_DB_SSL_MODE: недопустимое значение %q, допустимые: disable, require, verify-ca, verify-full", cfg.DBSSLMode)
	}

	// PF_DB_MAX_CONNS: размер пула (по умолчанию 10)
	cfg.DBMaxConns, err = getEnvInt("PF_DB_MAX_CONNS", 10)
	if err != nil {
		return nil, err
	}
	if cfg.DBMaxConns < 1 || cfg.DBMaxConns > 1000 {
		return nil, fmt.Errorf("PF_DB_MAX_CONNS: значение %d вне допустимого диапазона 1-1000", cfg.DBMaxConns)
	}

	// PF_DB_ACQUIRE_TIMEOUT: ожидание соединения из пула (по умолчанию 5s)
	cfg.DBAcquireTimeout, err = getEnvDuration("PF_DB_ACQUIRE_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, err
	}
	if cfg.DBAcquireTimeout <= 0 {
		return nil, fmt.Errorf("PF_DB_ACQUIRE_TIMEOUT: значение должно быть > 0")
	}

	// PF_DB_MIGRATE_ON_START: применять миграции при старте (по умолчанию true)
	cfg.DBMigrateOnStart, err = getEnvBool("PF_DB_MIGRATE_ON_START", true)
	if err != nil {
		return nil, err
	}

	// --- Пагинация ---

	cfg.DefaultPageLimit, err = getEnvInt("PF_DEFAULT_PAGE_LIMIT", 10)
	if err != nil {
		return nil, err
	}
	cfg.MaxPageLimit, err = getEnvInt("PF_MAX_PAGE_LIMIT", 100)
	if err != nil {
		return nil, err
	}
	if cfg.DefaultPageLimit < 1 || cfg.MaxPageLimit < cfg.DefaultPageLimit {
		return nil, fmt.Errorf("PF_DEFAULT_PAGE_LIMIT/PF_MAX_PAGE_LIMIT: требуется 1 <= default (%d) <= max (%d)",
			cfg.DefaultPageLimit, cfg.MaxPageLimit)
	}

	// --- topologymetrics ---

	cfg.DephealthGroup = getEnvDefault("PF_DEPHEALTH_GROUP", "printfiles")
	cfg.DephealthCheckInterval, err = getEnvDuration("PF_DEPHEALTH_CHECK_INTERVAL", 15*time.Second)
	if err != nil {
		return nil, err
	}

	// --- Graceful shutdown ---

	// PF_SHUTDOWN_TIMEOUT: таймаут graceful shutdown (по умолчанию 5s)
	cfg.ShutdownTimeout, err = getEnvDuration("PF_SHUTDOWN_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

// DatabaseDSN возвращает строку подключения к PostgreSQL для pgxpool.
func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d dbname=%s user=%s password=%s sslmode=%s pool_max_conns=%d",
		c.DBHost, c.DBPort, c.DBName, c.DBUser, c.DBPassword, c.DBSSLMode, c.DBMaxConns,
	)
}

// DatabaseURL возвращает URL PostgreSQL (postgres://...).
// Используется для лейблов topologymetrics, не для подключения.
func (c *Config) DatabaseURL() string {
	return c.databaseURL("postgres")
}

// MigrateURL возвращает URL в формате драйвера pgx5 для golang-migrate.
func (c *Config) MigrateURL() string {
	return c.databaseURL("pgx5")
}

func (c *Config) databaseURL(scheme string) string {
	u := url.URL{
		Scheme:   scheme,
		User:     url.UserPassword(c.DBUser, c.DBPassword),
		Host:     net.JoinHostPort(c.DBHost, strconv.Itoa(c.DBPort)),
		Path:     "/" + c.DBName,
		RawQuery: "sslmode=" + url.QueryEscape(c.DBSSLMode),
	}
	return u.String()
}

// SetupLogger настраивает глобальный slog-логгер на основе конфигурации.
func SetupLogger(cfg *Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}

	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// --- Вспомогательные функции ---

// getEnvRequired возвращает значение переменной окружения или ошибку, если она не задана.
func getEnvRequired(key string) (string, error) {
	val := os.Getenv(key)
	if val == "" {
		return "", fmt.Errorf("%s: обязательная переменная окружения не задана", key)
	}
	return val, nil
}

// getEnvDefault возвращает значение переменной окружения или значение по умолчанию.
func getEnvDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

// envParse читает key и разбирает его через parse. Пустое значение даёт def.
// Ошибка разбора содержит имя переменной и исходное значение.
func envParse[T any](key string, def T, parse func(string) (T, error)) (T, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	v, err := parse(raw)
	if err != nil {
		var zero T
		return zero, fmt.Errorf("%s: некорректное значение %q: %w", key, raw, err)
	}
	return v, nil
}

func getEnvInt(key string, def int) (int, error) {
	return envParse(key, def, strconv.Atoi)
}

// getEnvDuration принимает формат Go: 250ms, 30s, 1h.
func getEnvDuration(key string, def time.Duration) (time.Duration, error) {
	return envParse(key, def, time.ParseDuration)
}

func getEnvBool(key string, def bool) (bool, error) {
	return envParse(key, def, strconv.ParseBool)
}

// parseLogLevel преобразует строку уровня логирования в slog.Level.
func parseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("недопустимый уровень %q, допустимые: debug, info, warn, error", level)
	}
}

// parseCSV разбирает строку, разделённую запятыми, на срез строк.
// Пробелы вокруг элементов убираются, пустые элементы игнорируются.
func parseCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
