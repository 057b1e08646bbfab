package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/HansenBerlin/printfiles/internal/domain/model"
	"github.com/HansenBerlin/printfiles/internal/repository"
)

func TestFileService_Create(t *testing.T) {
	var got model.NewFile
	repo := &mockFileRepo{
		createFn: func(_ context.Context, f model.NewFile) (*model.FileRecord, error) {
			got = f
			owner := model.RoleOwner
			return &model.FileRecord{
				File:       model.File{ID: "file-1", Fullname: f.Fullname, SizeBytes: f.SizeBytes},
				Owner:      "alice",
				Permission: &owner,
			}, nil
		},
	}
	svc := NewFileService(repo, slog.Default())

	rec, err := svc.Create(context.Background(), model.NewFile{
		Fullname: "  benchy.stl ", SizeBytes: 100, OwnerUserID: "user-1", IsPublic: true,
	})
	if err != nil {
		t.Fatalf("Create ошибка: %v", err)
	}
	if got.Fullname != "benchy.stl" {
		t.Errorf("Fullname = %q, ожидается без пробелов", got.Fullname)
	}
	if rec.ID != "file-1" || rec.Owner != "alice" {
		t.Errorf("Create() = %+v", rec)
	}
}

func TestFileService_Create_Validation(t *testing.T) {
	tests := []struct {
		name string
		file model.NewFile
	}{
		{"пустое имя", model.NewFile{Fullname: " ", SizeBytes: 1, OwnerUserID: "u"}},
		{"отрицательный размер", model.NewFile{Fullname: "a", SizeBytes: -1, OwnerUserID: "u"}},
		{"без владельца", model.NewFile{Fullname: "a", SizeBytes: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockFileRepo{
				createFn: func(context.Context, model.NewFile) (*model.FileRecord, error) {
					t.Error("репозиторий не должен вызываться при ошибке валидации")
					return nil, nil
				},
			}
			svc := NewFileService(repo, slog.Default())

			if _, err := svc.Create(context.Background(), tt.file); !errors.Is(err, ErrValidation) {
				t.Errorf("Create() = %v, ожидается ErrValidation", err)
			}
		})
	}
}

func TestFileService_Create_RepoErrors(t *testing.T) {
	tests := []struct {
		name    string
		repoErr error
		want    error
	}{
		{"дубликат имени", fmt.Errorf("%w: создания файла", repository.ErrConflict), ErrDuplicateKey},
		{"неизвестный владелец", fmt.Errorf("%w: назначения владельца", repository.ErrInvalidReference), ErrInvalidReference},
		{"ошибка БД", errors.New("boom"), ErrQuery},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockFileRepo{
				createFn: func(context.Context, model.NewFile) (*model.FileRecord, error) {
					return nil, tt.repoErr
				},
			}
			svc := NewFileService(repo, slog.Default())

			_, err := svc.Create(context.Background(), model.NewFile{Fullname: "a", SizeBytes: 1, OwnerUserID: "u"})
			if !errors.Is(err, tt.want) {
				t.Errorf("Create() = %v, ожидается %v", err, tt.want)
			}
		})
	}
}

func TestFileService_Update(t *testing.T) {
	var gotPatch model.FilePatch
	repo := &mockFileRepo{
		updateFn: func(_ context.Context, fileID string, patch model.FilePatch) (*model.FileRecord, error) {
			gotPatch = patch
			return &model.FileRecord{File: model.File{ID: fileID, Downloads: *patch.Downloads}}, nil
		},
	}
	svc := NewFileService(repo, slog.Default())

	var downloads int32 = 5
	rec, err := svc.Update(context.Background(), "file-1", model.FilePatch{Downloads: &downloads})
	if err != nil {
		t.Fatalf("Update ошибка: %v", err)
	}
	if rec.Downloads != 5 {
		t.Errorf("Downloads = %d, ожидается 5", rec.Downloads)
	}
	if gotPatch.Fullname != nil || gotPatch.AverageRating != nil {
		t.Error("отсутствующие поля не должны попадать в патч")
	}
}

func TestFileService_Update_Validation(t *testing.T) {
	empty := " "
	var negDownloads int32 = -1
	var negRating float32 = -0.5

	tests := []struct {
		name  string
		patch model.FilePatch
	}{
		{"пустое имя", model.FilePatch{Fullname: &empty}},
		{"отрицательные downloads", model.FilePatch{Downloads: &negDownloads}},
		{"отрицательный рейтинг", model.FilePatch{AverageRating: &negRating}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewFileService(&mockFileRepo{}, slog.Default())
			if _, err := svc.Update(context.Background(), "file-1", tt.patch); !errors.Is(err, ErrValidation) {
				t.Errorf("Update() = %v, ожидается ErrValidation", err)
			}
		})
	}
}

func TestFileService_Update_NotFound(t *testing.T) {
	svc := NewFileService(&mockFileRepo{}, slog.Default())

	var downloads int32 = 1
	if _, err := svc.Update(context.Background(), "missing", model.FilePatch{Downloads: &downloads}); !errors.Is(err, ErrNotFound) {
		t.Errorf("Update() = %v, ожидается ErrNotFound", err)
	}
}

func TestFileService_Delete(t *testing.T) {
	deleted := map[string]bool{}
	repo := &mockFileRepo{
		deleteFn: func(_ context.Context, fileID string) error {
			if deleted[fileID] {
				return repository.ErrNotFound
			}
			deleted[fileID] = true
			return nil
		},
	}
	svc := NewFileService(repo, slog.Default())
	ctx := context.Background()

	if err := svc.Delete(ctx, "file-1"); err != nil {
		t.Fatalf("Delete ошибка: %v", err)
	}
	if err := svc.Delete(ctx, "file-1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("повторный Delete() = %v, ожидается ErrNotFound", err)
	}
}

func TestFileService_Get(t *testing.T) {
	svc := NewFileService(&mockFileRepo{}, slog.Default())

	if _, err := svc.Get(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() = %v, ожидается ErrNotFound", err)
	}
}

func TestFileService_GrantPermission(t *testing.T) {
	tests := []struct {
		name    string
		role    model.Role
		repoErr error
		want    error
	}{
		{"view", model.RoleView, nil, nil},
		{"download", model.RoleDownload, nil, nil},
		{"owner запрещён", model.RoleOwner, nil, ErrValidation},
		{"неизвестная роль", model.Role("admin"), nil, ErrValidation},
		{"неизвестный пользователь", model.RoleView, repository.ErrInvalidReference, ErrInvalidReference},
		{"неизвестный файл", model.RoleView, repository.ErrNotFound, ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockFileRepo{
				grantFn: func(_ context.Context, p model.Permission) (*model.Permission, error) {
					if tt.repoErr != nil {
						return nil, tt.repoErr
					}
					return &p, nil
				},
			}
			svc := NewFileService(repo, slog.Default())

			res, err := svc.GrantPermission(context.Background(), model.Permission{
				FileID: "file-1", UserID: "user-2", Role: tt.role,
			})
			if tt.want == nil {
				if err != nil {
					t.Fatalf("GrantPermission ошибка: %v", err)
				}
				if res.Role != tt.role {
					t.Errorf("Role = %q, ожидается %q", res.Role, tt.role)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("GrantPermission() = %v, ожидается %v", err, tt.want)
			}
		})
	}
}
