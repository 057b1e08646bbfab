// visibility.go: выборки файлов с учётом прав зрителя.
// Три режима: public, private (per-viewer), by_user (устаревший).
package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/HansenBerlin/printfiles/internal/domain/model"
	"github.com/HansenBerlin/printfiles/internal/repository"
)

// VisibilityService: сервис выборок файлов.
type VisibilityService struct {
	repo   repository.FileQueryRepository
	logger *slog.Logger
}

// NewVisibilityService создаёт сервис выборок файлов.
func NewVisibilityService(repo repository.FileQueryRepository, logger *slog.Logger) *VisibilityService {
	return &VisibilityService{
		repo:   repo,
		logger: logger.With(slog.String("component", "visibility_service")),
	}
}

// PublicListing возвращает страницу публичных файлов.
func (s *VisibilityService) PublicListing(ctx context.Context, page Page) ([]*model.FileRecord, error) {
	return s.observe(repository.ModePublic, func() ([]*model.FileRecord, error) {
		return s.repo.PublicListing(ctx, page.Limit, page.Offset())
	}, "публичные файлы")
}

// PrivateListing возвращает страницу непубличных файлов, доступных зрителю.
// IsDownloadable вычисляется из роли зрителя.
func (s *VisibilityService) PrivateListing(ctx context.Context, viewerID string, page Page) ([]*model.FileRecord, error) {
	return s.observe(repository.ModePrivate, func() ([]*model.FileRecord, error) {
		return s.repo.PrivateListing(ctx, viewerID, page.Limit, page.Offset())
	}, "приватные файлы пользователя '"+viewerID+"'")
}

// ByUserOrOrphan возвращает файлы пользователя вместе с файлами, у которых
// ровно одна строка прав, чья бы она ни была (устаревший режим).
func (s *VisibilityService) ByUserOrOrphan(ctx context.Context, userID string, page Page) ([]*model.FileRecord, error) {
	return s.observe(repository.ModeByUserOrOrphan, func() ([]*model.FileRecord, error) {
		return s.repo.ByUserOrOrphan(ctx, userID, page.Limit, page.Offset())
	}, "файлы пользователя '"+userID+"'")
}

// OwnerOf возвращает имя владельца файла.
func (s *VisibilityService) OwnerOf(ctx context.Context, fileID string) (string, error) {
	owner, err := s.repo.OwnerOf(ctx, fileID)
	if err != nil {
		return "", classify(err, "владелец файла '"+fileID+"'")
	}
	return owner, nil
}

// GetForViewer возвращает файл, если он публичный или зритель имеет на него права.
func (s *VisibilityService) GetForViewer(ctx context.Context, fileID, viewerID string) (*model.FileRecord, error) {
	rec, err := s.repo.GetForViewer(ctx, fileID, viewerID)
	if err != nil {
		return nil, classify(err, "файл '"+fileID+"'")
	}
	return rec, nil
}

// observe выполняет выборку, пишет метрики и классифицирует ошибку.
func (s *VisibilityService) observe(
	mode repository.VisibilityMode,
	fn func() ([]*model.FileRecord, error),
	subject string,
) ([]*model.FileRecord, error) {
	start := time.Now()
	records, err := fn()
	visibilityQueryDuration.WithLabelValues(string(mode)).Observe(time.Since(start).Seconds())

	err = classify(err, subject)
	visibilityQueriesTotal.WithLabelValues(string(mode), resultLabel(err)).Inc()
	if err != nil {
		s.logger.Error("Ошибка выборки файлов",
			slog.String("mode", string(mode)),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	s.logger.Debug("Выборка файлов выполнена",
		slog.String("mode", string(mode)),
		slog.Int("count", len(records)),
	)
	return records, nil
}
