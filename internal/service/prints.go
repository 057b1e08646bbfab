package service

import (
	"context"
	"log/slog"

	"github.com/HansenBerlin/printfiles/internal/domain/model"
	"github.com/HansenBerlin/printfiles/internal/repository"
)

// PrintService: отчёт о печати файла.
type PrintService struct {
	repo   repository.PrintRepository
	logger *slog.Logger
}

// NewPrintService создаёт сервис отчёта о печати.
func NewPrintService(repo repository.PrintRepository, logger *slog.Logger) *PrintService {
	return &PrintService{
		repo:   repo,
		logger: logger.With(slog.String("component", "print_service")),
	}
}

// ListByFile возвращает страницу печатей файла.
// Неизвестный файл даёт пустой список.
func (s *PrintService) ListByFile(ctx context.Context, fileID string, page Page) ([]*model.PrintJob, error) {
	prints, err := s.repo.ListByFile(ctx, fileID, page.Limit, page.Offset())
	if err != nil {
		s.logger.Error("Ошибка получения отчёта о печати",
			slog.String("file_id", fileID),
			slog.String("error", err.Error()),
		)
		return nil, classify(err, "печати файла '"+fileID+"'")
	}
	return prints, nil
}
