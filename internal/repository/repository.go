// Пакет repository: слой доступа к данным PostgreSQL.
// Все запросы: чистый SQL через pgx, без ORM.
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Ошибки слоя репозиториев.
var (
	// ErrNotFound: запись не найдена.
	ErrNotFound = errors.New("запись не найдена")
	// ErrConflict: конфликт уникальности (дублирующийся ресурс).
	ErrConflict = errors.New("конфликт: запись уже существует")
	// ErrInvalidReference: ссылка на несуществующую запись (внешний ключ).
	ErrInvalidReference = errors.New("ссылка на несуществующую запись")
)

// Коды SQLSTATE, которые классифицирует слой репозиториев.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// DBTX: интерфейс для выполнения SQL-запросов.
// Реализуется database.Gateway, *pgxpool.Pool и pgx.Tx, что позволяет
// использовать репозитории как внутри, так и вне транзакций.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Beginner: источник транзакций (database.Gateway или *pgxpool.Pool).
type Beginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// TxRunner позволяет выполнять операции в транзакции.
type TxRunner struct {
	db Beginner
}

// NewTxRunner создаёт TxRunner для управления транзакциями.
func NewTxRunner(db Beginner) *TxRunner {
	return &TxRunner{db: db}
}

// RunInTx выполняет fn внутри транзакции.
// При ошибке fn: транзакция откатывается.
// При успехе: коммитится.
func (r *TxRunner) RunInTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // откат после коммита: no-op

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("ошибка фиксации транзакции: %w", err)
	}
	return nil
}

// pgErrorCode возвращает SQLSTATE ошибки PostgreSQL или пустую строку.
func pgErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// isUniqueViolation проверяет, является ли ошибка нарушением уникальности PostgreSQL.
func isUniqueViolation(err error) bool {
	return pgErrorCode(err) == pgUniqueViolation
}

// isForeignKeyViolation проверяет, является ли ошибка нарушением внешнего ключа.
func isForeignKeyViolation(err error) bool {
	return pgErrorCode(err) == pgForeignKeyViolation
}

// classifyWriteError переводит ошибки записи в ошибки репозитория.
// Классификация: только по SQLSTATE, текст сообщения не разбирается.
func classifyWriteError(err error, op string) error {
	switch {
	case isUniqueViolation(err):
		return fmt.Errorf("%w: %s", ErrConflict, op)
	case isForeignKeyViolation(err):
		return fmt.Errorf("%w: %s", ErrInvalidReference, op)
	default:
		return fmt.Errorf("ошибка %s: %w", op, err)
	}
}
