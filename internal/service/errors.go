// errors.go: ошибки бизнес-логики сервисного слоя.
package service

import (
	"errors"
	"fmt"

	"github.com/HansenBerlin/printfiles/internal/database"
	"github.com/HansenBerlin/printfiles/internal/repository"
)

var (
	// ErrNotFound: ресурс не найден.
	ErrNotFound = errors.New("ресурс не найден")
	// ErrDuplicateKey: нарушение уникальности (имя файла, e-mail).
	ErrDuplicateKey = errors.New("ресурс уже существует")
	// ErrInvalidReference: ссылка на несуществующего пользователя или файл.
	ErrInvalidReference = errors.New("ссылка на несуществующий ресурс")
	// ErrValidation: ошибка валидации входных данных.
	ErrValidation = errors.New("ошибка валидации")
	// ErrPoolExhausted: нет свободного соединения с БД.
	ErrPoolExhausted = errors.New("нет свободного соединения с базой данных")
	// ErrQuery: ошибка выполнения запроса к БД.
	ErrQuery = errors.New("ошибка запроса к базе данных")
)

// classify переводит ошибки репозитория и БД в ошибки сервиса.
// subject описывает объект операции ("файл 'id'").
func classify(err error, subject string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return fmt.Errorf("%w: %s", ErrNotFound, subject)
	case errors.Is(err, repository.ErrConflict):
		return fmt.Errorf("%w: %s", ErrDuplicateKey, subject)
	case errors.Is(err, repository.ErrInvalidReference):
		return fmt.Errorf("%w: %s", ErrInvalidReference, subject)
	case errors.Is(err, database.ErrPoolExhausted):
		return fmt.Errorf("%w: %v", ErrPoolExhausted, err)
	default:
		return fmt.Errorf("%w: %s: %v", ErrQuery, subject, err)
	}
}

// resultLabel: значение лейбла result для метрик сервиса.
func resultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrDuplicateKey):
		return "duplicate"
	case errors.Is(err, ErrInvalidReference):
		return "invalid_reference"
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrPoolExhausted):
		return "pool_exhausted"
	default:
		return "error"
	}
}
