package database

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ErrPoolExhausted: свободное соединение не появилось за отведённое время.
var ErrPoolExhausted = errors.New("пул соединений PostgreSQL исчерпан")

var poolExhaustedTotal = promauto.NewCounter(prometheus.CounterOpts{
	Name: "pf_db_pool_exhausted_total",
	Help: "Количество запросов, не дождавшихся соединения из пула.",
})

// Gateway: обёртка над pgxpool с ограниченным ожиданием соединения.
// Реализует repository.DBTX и repository.Beginner: каждый запрос
// или транзакция берёт соединение не дольше acquireTimeout,
// иначе возвращается ErrPoolExhausted.
// Соединение возвращается в пул после Scan/Close/Commit/Rollback,
// в том числе при отмене контекста запроса. Вызывающий обязан
// вызвать Scan у результата QueryRow, Close у Query и Commit или
// Rollback у Begin, иначе соединение остаётся занятым.
type Gateway struct {
	pool           *pgxpool.Pool
	acquireTimeout time.Duration
}

// NewGateway создаёт Gateway поверх существующего пула.
func NewGateway(pool *pgxpool.Pool, acquireTimeout time.Duration) *Gateway {
	return &Gateway{pool: pool, acquireTimeout: acquireTimeout}
}

// acquire берёт соединение из пула с ограничением по времени.
func (g *Gateway) acquire(ctx context.Context) (*pgxpool.Conn, error) {
	acqCtx, cancel := context.WithTimeout(ctx, g.acquireTimeout)
	defer cancel()

	conn, err := g.pool.Acquire(acqCtx)
	if err != nil {
		// Дедлайн ожидания истёк, а запрос клиента ещё жив: пул исчерпан
		if ctx.Err() == nil && errors.Is(acqCtx.Err(), context.DeadlineExceeded) {
			poolExhaustedTotal.Inc()
			return nil, fmt.Errorf("%w: ожидание дольше %s", ErrPoolExhausted, g.acquireTimeout)
		}
		return nil, fmt.Errorf("ошибка получения соединения: %w", err)
	}
	return conn, nil
}

// Exec выполняет команду без результата.
func (g *Gateway) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	conn, err := g.acquire(ctx)
	if err != nil {
		return pgconn.CommandTag{}, err
	}
	defer conn.Release()

	return conn.Exec(ctx, sql, arguments...)
}

// Query выполняет запрос; соединение освобождается при rows.Close().
func (g *Gateway) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	conn, err := g.acquire(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := conn.Query(ctx, sql, args...)
	if err != nil {
		conn.Release()
		return nil, err
	}
	return &connRows{Rows: rows, conn: conn}, nil
}

// QueryRow выполняет запрос одной строки. Соединение освобождается
// только в Scan, поэтому Scan обязателен, даже если результат не нужен.
func (g *Gateway) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	conn, err := g.acquire(ctx)
	if err != nil {
		return errRow{err: err}
	}
	return &connRow{row: conn.QueryRow(ctx, sql, args...), conn: conn}
}

// Begin начинает транзакцию на отдельном соединении.
// Соединение освобождается при Commit или Rollback.
func (g *Gateway) Begin(ctx context.Context) (pgx.Tx, error) {
	conn, err := g.acquire(ctx)
	if err != nil {
		return nil, err
	}

	tx, err := conn.Begin(ctx)
	if err != nil {
		conn.Release()
		return nil, fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	return &connTx{Tx: tx, conn: conn}, nil
}

// RegisterPoolMetrics регистрирует gauge-метрики состояния пула.
func RegisterPoolMetrics(reg prometheus.Registerer, pool *pgxpool.Pool) error {
	gauges := []prometheus.Collector{
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "pf_db_pool_acquired_conns",
			Help: "Количество занятых соединений пула.",
		}, func() float64 { return float64(pool.Stat().AcquiredConns()) }),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "pf_db_pool_idle_conns",
			Help: "Количество свободных соединений пула.",
		}, func() float64 { return float64(pool.Stat().IdleConns()) }),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "pf_db_pool_max_conns",
			Help: "Максимальный размер пула.",
		}, func() float64 { return float64(pool.Stat().MaxConns()) }),
	}
	for _, g := range gauges {
		if err := reg.Register(g); err != nil {
			return fmt.Errorf("регистрация метрик пула: %w", err)
		}
	}
	return nil
}

// --- Обёртки, возвращающие соединение в пул ---

type connRows struct {
	pgx.Rows
	conn *pgxpool.Conn
	once sync.Once
}

func (r *connRows) Close() {
	r.Rows.Close()
	r.once.Do(r.conn.Release)
}

type connRow struct {
	row  pgx.Row
	conn *pgxpool.Conn
	once sync.Once
}

func (r *connRow) Scan(dest ...any) error {
	defer r.once.Do(r.conn.Release)
	return r.row.Scan(dest...)
}

type errRow struct {
	err error
}

func (r errRow) Scan(...any) error {
	return r.err
}

type connTx struct {
	pgx.Tx
	conn *pgxpool.Conn
	once sync.Once
}

func (t *connTx) Commit(ctx context.Context) error {
	defer t.once.Do(t.conn.Release)
	return t.Tx.Commit(ctx)
}

func (t *connTx) Rollback(ctx context.Context) error {
	defer t.once.Do(t.conn.Release)
	return t.Tx.Rollback(ctx)
}
