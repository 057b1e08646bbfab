package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestClassifyWriteError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"unique violation", &pgconn.PgError{Code: "23505"}, ErrConflict},
		{"foreign key violation", &pgconn.PgError{Code: "23503"}, ErrInvalidReference},
		{"обёрнутый unique", fmt.Errorf("exec: %w", &pgconn.PgError{Code: "23505"}), ErrConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyWriteError(tt.err, "создания файла")
			if !errors.Is(got, tt.want) {
				t.Errorf("classifyWriteError() = %v, ожидается %v", got, tt.want)
			}
		})
	}
}

func TestClassifyWriteError_Other(t *testing.T) {
	orig := &pgconn.PgError{Code: "42P01", Message: "duplicate key value violates unique constraint"}
	got := classifyWriteError(orig, "создания файла")

	// Текст сообщения не влияет на классификацию
	if errors.Is(got, ErrConflict) || errors.Is(got, ErrInvalidReference) {
		t.Errorf("ошибка %v не должна классифицироваться как конфликт или ссылка", got)
	}
	var pgErr *pgconn.PgError
	if !errors.As(got, &pgErr) {
		t.Error("исходная ошибка PostgreSQL должна сохраняться в цепочке")
	}
}
