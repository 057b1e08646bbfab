package service

import (
	"context"

	"github.com/HansenBerlin/printfiles/internal/domain/model"
	"github.com/HansenBerlin/printfiles/internal/repository"
)

// --- Mock repositories ---

// mockFileQueryRepo: мок FileQueryRepository для unit-тестов.
type mockFileQueryRepo struct {
	publicFn       func(ctx context.Context, limit, offset int) ([]*model.FileRecord, error)
	privateFn      func(ctx context.Context, viewerID string, limit, offset int) ([]*model.FileRecord, error)
	byUserFn       func(ctx context.Context, userID string, limit, offset int) ([]*model.FileRecord, error)
	ownerOfFn      func(ctx context.Context, fileID string) (string, error)
	getForViewerFn func(ctx context.Context, fileID, viewerID string) (*model.FileRecord, error)
}

func (m *mockFileQueryRepo) PublicListing(ctx context.Context, limit, offset int) ([]*model.FileRecord, error) {
	if m.publicFn != nil {
		return m.publicFn(ctx, limit, offset)
	}
	return nil, nil
}

func (m *mockFileQueryRepo) PrivateListing(ctx context.Context, viewerID string, limit, offset int) ([]*model.FileRecord, error) {
	if m.privateFn != nil {
		return m.privateFn(ctx, viewerID, limit, offset)
	}
	return nil, nil
}

func (m *mockFileQueryRepo) ByUserOrOrphan(ctx context.Context, userID string, limit, offset int) ([]*model.FileRecord, error) {
	if m.byUserFn != nil {
		return m.byUserFn(ctx, userID, limit, offset)
	}
	return nil, nil
}

func (m *mockFileQueryRepo) OwnerOf(ctx context.Context, fileID string) (string, error) {
	if m.ownerOfFn != nil {
		return m.ownerOfFn(ctx, fileID)
	}
	return "", repository.ErrNotFound
}

func (m *mockFileQueryRepo) GetForViewer(ctx context.Context, fileID, viewerID string) (*model.FileRecord, error) {
	if m.getForViewerFn != nil {
		return m.getForViewerFn(ctx, fileID, viewerID)
	}
	return nil, repository.ErrNotFound
}

// mockFileRepo: мок FileRepository для unit-тестов.
type mockFileRepo struct {
	createFn  func(ctx context.Context, f model.NewFile) (*model.FileRecord, error)
	getByIDFn func(ctx context.Context, fileID string) (*model.FileRecord, error)
	updateFn  func(ctx context.Context, fileID string, patch model.FilePatch) (*model.FileRecord, error)
	deleteFn  func(ctx context.Context, fileID string) error
	grantFn   func(ctx context.Context, p model.Permission) (*model.Permission, error)
}

func (m *mockFileRepo) Create(ctx context.Context, f model.NewFile) (*model.FileRecord, error) {
	if m.createFn != nil {
		return m.createFn(ctx, f)
	}
	return &model.FileRecord{File: model.File{ID: "file-1", Fullname: f.Fullname}}, nil
}

func (m *mockFileRepo) GetByID(ctx context.Context, fileID string) (*model.FileRecord, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, fileID)
	}
	return nil, repository.ErrNotFound
}

func (m *mockFileRepo) Update(ctx context.Context, fileID string, patch model.FilePatch) (*model.FileRecord, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, fileID, patch)
	}
	return nil, repository.ErrNotFound
}

func (m *mockFileRepo) Delete(ctx context.Context, fileID string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, fileID)
	}
	return nil
}

func (m *mockFileRepo) GrantPermission(ctx context.Context, p model.Permission) (*model.Permission, error) {
	if m.grantFn != nil {
		return m.grantFn(ctx, p)
	}
	return &p, nil
}

// mockUserRepo: мок UserRepository для unit-тестов.
type mockUserRepo struct {
	getIDByMailFn func(ctx context.Context, mail string) (string, error)
	listFn        func(ctx context.Context, limit, offset int) ([]*model.User, error)
	createFn      func(ctx context.Context, userName, mail string) (string, error)
}

func (m *mockUserRepo) GetIDByMail(ctx context.Context, mail string) (string, error) {
	if m.getIDByMailFn != nil {
		return m.getIDByMailFn(ctx, mail)
	}
	return "", repository.ErrNotFound
}

func (m *mockUserRepo) List(ctx context.Context, limit, offset int) ([]*model.User, error) {
	if m.listFn != nil {
		return m.listFn(ctx, limit, offset)
	}
	return nil, nil
}

func (m *mockUserRepo) Create(ctx context.Context, userName, mail string) (string, error) {
	if m.createFn != nil {
		return m.createFn(ctx, userName, mail)
	}
	return "user-1", nil
}

// mockPrintRepo: мок PrintRepository для unit-тестов.
type mockPrintRepo struct {
	listByFileFn func(ctx context.Context, fileID string, limit, offset int) ([]*model.PrintJob, error)
}

func (m *mockPrintRepo) ListByFile(ctx context.Context, fileID string, limit, offset int) ([]*model.PrintJob, error) {
	if m.listByFileFn != nil {
		return m.listByFileFn(ctx, fileID, limit, offset)
	}
	return nil, nil
}
