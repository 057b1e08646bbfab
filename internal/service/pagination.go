package service

import (
	"fmt"
	"math"
)

// Page: нормализованные параметры страницы.
type Page struct {
	// Number: номер страницы, начиная с 1
	Number int
	// Limit: размер страницы
	Limit int
}

// Offset: смещение первой записи страницы.
func (p Page) Offset() int {
	return (p.Number - 1) * p.Limit
}

// Paginator проверяет и нормализует page/limit из запроса.
type Paginator struct {
	defaultLimit int
	maxLimit     int
}

// NewPaginator создаёт Paginator с лимитом по умолчанию и верхней границей.
func NewPaginator(defaultLimit, maxLimit int) Paginator {
	return Paginator{defaultLimit: defaultLimit, maxLimit: maxLimit}
}

// Resolve возвращает страницу по параметрам запроса.
// Отсутствующий page означает 1, отсутствующий limit означает defaultLimit.
// page < 1, limit < 1 и страница со смещением больше math.MaxInt дают ErrValidation.
// limit больше maxLimit урезается до maxLimit.
func (p Paginator) Resolve(page, limit *int) (Page, error) {
	res := Page{Number: 1, Limit: p.defaultLimit}

	if page != nil {
		if *page < 1 {
			return Page{}, fmt.Errorf("%w: page должен быть >= 1, получено %d", ErrValidation, *page)
		}
		res.Number = *page
	}
	if limit != nil {
		if *limit < 1 {
			return Page{}, fmt.Errorf("%w: limit должен быть >= 1, получено %d", ErrValidation, *limit)
		}
		res.Limit = *limit
	}
	if p.maxLimit > 0 && res.Limit > p.maxLimit {
		res.Limit = p.maxLimit
	}
	if res.Number-1 > math.MaxInt/res.Limit {
		return Page{}, fmt.Errorf("%w: page %d слишком велик для limit %d", ErrValidation, res.Number, res.Limit)
	}
	return res, nil
}
