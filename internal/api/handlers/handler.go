// handler.go: основной обработчик API.
// Объединяет доменные обработчики и делегирует запросы в сервисный слой.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	apierrors "github.com/HansenBerlin/printfiles/internal/api/errors"
	"github.com/HansenBerlin/printfiles/internal/domain/model"
	"github.com/HansenBerlin/printfiles/internal/service"
)

// VisibilityService: выборки файлов с учётом прав зрителя.
type VisibilityService interface {
	PublicListing(ctx context.Context, page service.Page) ([]*model.FileRecord, error)
	PrivateListing(ctx context.Context, viewerID string, page service.Page) ([]*model.FileRecord, error)
	ByUserOrOrphan(ctx context.Context, userID string, page service.Page) ([]*model.FileRecord, error)
	GetForViewer(ctx context.Context, fileID, viewerID string) (*model.FileRecord, error)
	OwnerOf(ctx context.Context, fileID string) (string, error)
}

// FileService: изменения файлов и прав.
type FileService interface {
	Create(ctx context.Context, f model.NewFile) (*model.FileRecord, error)
	Get(ctx context.Context, fileID string) (*model.FileRecord, error)
	Update(ctx context.Context, fileID string, patch model.FilePatch) (*model.FileRecord, error)
	Delete(ctx context.Context, fileID string) error
	GrantPermission(ctx context.Context, p model.Permission) (*model.Permission, error)
}

// UserService: справочник пользователей.
type UserService interface {
	IDByMail(ctx context.Context, mail string) (string, error)
	List(ctx context.Context, page service.Page) ([]*model.User, error)
	Create(ctx context.Context, userName, mail string) (string, error)
}

// PrintService: отчёт о печати.
type PrintService interface {
	ListByFile(ctx context.Context, fileID string, page service.Page) ([]*model.PrintJob, error)
}

// APIHandler: основной обработчик API.
type APIHandler struct {
	health     *HealthHandler
	visibility VisibilityService
	files      FileService
	users      UserService
	prints     PrintService
	pages      service.Paginator
	apiDoc     []byte
	logger     *slog.Logger
}

// NewAPIHandler создаёт основной обработчик API.
func NewAPIHandler(
	health *HealthHandler,
	visibility VisibilityService,
	files FileService,
	users UserService,
	prints PrintService,
	pages service.Paginator,
	apiDoc []byte,
	logger *slog.Logger,
) *APIHandler {
	return &APIHandler{
		health:     health,
		visibility: visibility,
		files:      files,
		users:      users,
		prints:     prints,
		pages:      pages,
		apiDoc:     apiDoc,
		logger:     logger.With(slog.String("component", "api_handler")),
	}
}

// HealthLive: liveness probe (делегируется в HealthHandler).
func (h *APIHandler) HealthLive(w http.ResponseWriter, r *http.Request) {
	h.health.HealthLive(w, r)
}

// HealthReady: readiness probe (делегируется в HealthHandler).
func (h *APIHandler) HealthReady(w http.ResponseWriter, r *http.Request) {
	h.health.HealthReady(w, r)
}

// GetMetrics: Prometheus метрики (делегируется в HealthHandler).
func (h *APIHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	h.health.GetMetrics(w, r)
}

// GetAPIDoc: OpenAPI-документ в YAML.
func (h *APIHandler) GetAPIDoc(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(h.apiDoc)
}

// --- Вспомогательные функции ---

// statusSuccess: значение поля status в успешных ответах.
const statusSuccess = "success"

// writeJSON записывает JSON-ответ с указанным статусом.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// decodeJSON читает тело запроса в dst.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// writeServiceError переводит ошибку сервиса в HTTP-ответ.
// Текст ошибок БД клиенту не передаётся.
func (h *APIHandler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		apierrors.NotFound(w, err.Error())
	case errors.Is(err, service.ErrDuplicateKey),
		errors.Is(err, service.ErrInvalidReference),
		errors.Is(err, service.ErrValidation):
		apierrors.ValidationError(w, err.Error())
	case errors.Is(err, service.ErrPoolExhausted):
		h.logger.Warn("Нет свободного соединения с БД",
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
		apierrors.InternalError(w, "сервис перегружен: нет свободного соединения с базой данных")
	default:
		h.logger.Error("Ошибка обработки запроса",
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
		apierrors.InternalError(w, "внутренняя ошибка сервера")
	}
}
