package handlers

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/HansenBerlin/printfiles/internal/service"
)

// pageParam разбирает page и limit из query и нормализует их.
func (h *APIHandler) pageParam(r *http.Request) (service.Page, error) {
	var page, limit *int

	if err := runtime.BindQueryParameter("form", true, false, "page", r.URL.Query(), &page); err != nil {
		return service.Page{}, fmt.Errorf("%w: некорректный параметр page: %v", service.ErrValidation, err)
	}
	if err := runtime.BindQueryParameter("form", true, false, "limit", r.URL.Query(), &limit); err != nil {
		return service.Page{}, fmt.Errorf("%w: некорректный параметр limit: %v", service.ErrValidation, err)
	}

	return h.pages.Resolve(page, limit)
}

// uuidPathParam извлекает UUID из параметра пути chi.
func uuidPathParam(r *http.Request, name string) (string, error) {
	var id openapi_types.UUID
	err := runtime.BindStyledParameterWithOptions("simple", name, chi.URLParam(r, name), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return "", fmt.Errorf("%w: некорректный параметр %s: %v", service.ErrValidation, name, err)
	}
	return id.String(), nil
}

// stringPathParam извлекает строковый параметр пути с URL-декодированием.
func stringPathParam(r *http.Request, name string) (string, error) {
	var v string
	err := runtime.BindStyledParameterWithOptions("simple", name, chi.URLParam(r, name), &v,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return "", fmt.Errorf("%w: некорректный параметр %s: %v", service.ErrValidation, name, err)
	}
	return v, nil
}
