// files.go: сервис изменения файлов.
// Создание, получение, частичное обновление, удаление и выдача прав.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/HansenBerlin/printfiles/internal/domain/model"
	"github.com/HansenBerlin/printfiles/internal/repository"
)

// FileService: сервис изменения файлов.
type FileService struct {
	repo   repository.FileRepository
	logger *slog.Logger
}

// NewFileService создаёт сервис изменения файлов.
func NewFileService(repo repository.FileRepository, logger *slog.Logger) *FileService {
	return &FileService{
		repo:   repo,
		logger: logger.With(slog.String("component", "file_service")),
	}
}

// Create создаёт файл с владельцем.
// downloads и average_rating начинаются с нуля.
func (s *FileService) Create(ctx context.Context, f model.NewFile) (rec *model.FileRecord, err error) {
	defer func() { fileMutationsTotal.WithLabelValues("create", resultLabel(err)).Inc() }()

	f.Fullname = strings.TrimSpace(f.Fullname)
	if f.Fullname == "" {
		return nil, fmt.Errorf("%w: fullname не может быть пустым", ErrValidation)
	}
	if f.SizeBytes < 0 {
		return nil, fmt.Errorf("%w: sizebytes не может быть отрицательным", ErrValidation)
	}
	if f.OwnerUserID == "" {
		return nil, fmt.Errorf("%w: ownerUserId обязателен", ErrValidation)
	}

	rec, err = s.repo.Create(ctx, f)
	if err != nil {
		return nil, classify(err, fmt.Sprintf("файл '%s' (владелец '%s')", f.Fullname, f.OwnerUserID))
	}

	s.logger.Info("Файл создан",
		slog.String("file_id", rec.ID),
		slog.String("fullname", rec.Fullname),
		slog.String("owner_user_id", f.OwnerUserID),
	)
	return rec, nil
}

// Get возвращает файл по ID с именем владельца.
func (s *FileService) Get(ctx context.Context, fileID string) (*model.FileRecord, error) {
	rec, err := s.repo.GetByID(ctx, fileID)
	if err != nil {
		return nil, classify(err, "файл '"+fileID+"'")
	}
	return rec, nil
}

// Update применяет частичное обновление.
// Отсутствующие поля сохраняют текущие значения.
func (s *FileService) Update(ctx context.Context, fileID string, patch model.FilePatch) (rec *model.FileRecord, err error) {
	defer func() { fileMutationsTotal.WithLabelValues("update", resultLabel(err)).Inc() }()

	if err := validatePatch(&patch); err != nil {
		return nil, err
	}

	rec, err = s.repo.Update(ctx, fileID, patch)
	if err != nil {
		return nil, classify(err, "файл '"+fileID+"'")
	}

	s.logger.Info("Файл обновлён", slog.String("file_id", fileID))
	return rec, nil
}

// Delete удаляет файл. Права на файл удаляются каскадно.
func (s *FileService) Delete(ctx context.Context, fileID string) (err error) {
	defer func() { fileMutationsTotal.WithLabelValues("delete", resultLabel(err)).Inc() }()

	if err = s.repo.Delete(ctx, fileID); err != nil {
		return classify(err, "файл '"+fileID+"'")
	}

	s.logger.Info("Файл удалён", slog.String("file_id", fileID))
	return nil
}

// GrantPermission выдаёт пользователю роль download или view.
func (s *FileService) GrantPermission(ctx context.Context, p model.Permission) (res *model.Permission, err error) {
	defer func() { fileMutationsTotal.WithLabelValues("grant", resultLabel(err)).Inc() }()

	if !p.Role.Grantable() {
		return nil, fmt.Errorf("%w: некорректная роль '%s': допустимые значения download, view", ErrValidation, p.Role)
	}
	if p.UserID == "" {
		return nil, fmt.Errorf("%w: userId обязателен", ErrValidation)
	}

	res, err = s.repo.GrantPermission(ctx, p)
	if err != nil {
		return nil, classify(err, fmt.Sprintf("права пользователя '%s' на файл '%s'", p.UserID, p.FileID))
	}

	s.logger.Info("Права на файл выданы",
		slog.String("file_id", p.FileID),
		slog.String("user_id", p.UserID),
		slog.String("role", string(p.Role)),
	)
	return res, nil
}

func validatePatch(patch *model.FilePatch) error {
	if patch.Fullname != nil {
		name := strings.TrimSpace(*patch.Fullname)
		if name == "" {
			return fmt.Errorf("%w: fullname не может быть пустым", ErrValidation)
		}
		patch.Fullname = &name
	}
	if patch.Downloads != nil && *patch.Downloads < 0 {
		return fmt.Errorf("%w: downloads не может быть отрицательным", ErrValidation)
	}
	if patch.AverageRating != nil && *patch.AverageRating < 0 {
		return fmt.Errorf("%w: averageRating не может быть отрицательным", ErrValidation)
	}
	return nil
}
