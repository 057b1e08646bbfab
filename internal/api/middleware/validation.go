// validation.go: валидация запросов по OpenAPI-контракту (kin-openapi).
// Операция находится по шаблону маршрута chi, поэтому middleware
// подключается на уровне маршрутов (chi.Router.With / Group).
package middleware

import (
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/go-chi/chi/v5"

	apierrors "github.com/HansenBerlin/printfiles/internal/api/errors"
)

// OpenAPIValidator возвращает middleware, проверяющий параметры и тело
// запроса по документу doc. Маршруты, отсутствующие в документе,
// пропускаются без проверки.
func OpenAPIValidator(doc *openapi3.T) func(http.Handler) http.Handler {
	opts := &openapi3filter.Options{
		AuthenticationFunc: openapi3filter.NoopAuthenticationFunc,
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			route, pathParams := findRoute(doc, r)
			if route == nil {
				next.ServeHTTP(w, r)
				return
			}

			input := &openapi3filter.RequestValidationInput{
				Request:    r,
				PathParams: pathParams,
				Route:      route,
				Options:    opts,
			}
			if err := openapi3filter.ValidateRequest(r.Context(), input); err != nil {
				apierrors.ValidationError(w, err.Error())
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// findRoute сопоставляет запрос с операцией документа по шаблону chi.
func findRoute(doc *openapi3.T, r *http.Request) (*routers.Route, map[string]string) {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		return nil, nil
	}

	pattern := rctx.RoutePattern()
	pathItem := doc.Paths.Value(pattern)
	if pathItem == nil {
		return nil, nil
	}
	op := pathItem.GetOperation(r.Method)
	if op == nil {
		return nil, nil
	}

	params := make(map[string]string, len(rctx.URLParams.Keys))
	for i, key := range rctx.URLParams.Keys {
		params[key] = rctx.URLParams.Values[i]
	}

	return &routers.Route{
		Spec:      doc,
		Path:      pattern,
		PathItem:  pathItem,
		Method:    r.Method,
		Operation: op,
	}, params
}
