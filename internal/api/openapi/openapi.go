// Пакет openapi: встроенный OpenAPI-контракт API.
// Документ отдаётся на /api-doc/openapi.yaml и используется
// middleware валидации запросов.
package openapi

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"
)

//go:embed openapi.yaml
var document []byte

// YAML возвращает исходный YAML документа.
func YAML() []byte {
	return document
}

// Load разбирает и проверяет встроенный документ.
func Load() (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(document)
	if err != nil {
		return nil, fmt.Errorf("ошибка разбора OpenAPI-документа: %w", err)
	}
	if err := doc.Validate(context.Background()); err != nil {
		return nil, fmt.Errorf("некорректный OpenAPI-документ: %w", err)
	}
	return doc, nil
}
