package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/HansenBerlin/printfiles/internal/domain/model"
)

// FileRepository: изменения файлов и прав доступа.
type FileRepository interface {
	// Create создаёт файл и строку владельца в одной транзакции.
	Create(ctx context.Context, f model.NewFile) (*model.FileRecord, error)
	// GetByID возвращает файл с именем владельца.
	GetByID(ctx context.Context, fileID string) (*model.FileRecord, error)
	// Update применяет патч к заблокированной строке файла.
	Update(ctx context.Context, fileID string, patch model.FilePatch) (*model.FileRecord, error)
	// Delete удаляет файл; строки прав удаляются каскадно.
	Delete(ctx context.Context, fileID string) error
	// GrantPermission выдаёт пользователю роль на файл.
	GrantPermission(ctx context.Context, p model.Permission) (*model.Permission, error)
}

// fileRepo: реализация FileRepository через pgx.
type fileRepo struct {
	db DBTX
	tx *TxRunner
}

// NewFileRepository создаёт репозиторий файлов.
func NewFileRepository(db DBTX, tx *TxRunner) FileRepository {
	return &fileRepo{db: db, tx: tx}
}

func (r *fileRepo) Create(ctx context.Context, f model.NewFile) (*model.FileRecord, error) {
	var rec *model.FileRecord
	err := r.tx.RunInTx(ctx, func(tx pgx.Tx) error {
		var fileID string
		err := tx.QueryRow(ctx, `
			INSERT INTO file (fullname, sizebytes, downloads, average_rating, is_downloadable, is_public)
			VALUES ($1, $2, 0, 0, $3, $4)
			RETURNING id`,
			f.Fullname, f.SizeBytes, f.IsDownloadable, f.IsPublic,
		).Scan(&fileID)
		if err != nil {
			return classifyWriteError(err, "создания файла")
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO files_per_user (user_account_pk, roles_pk, files_pk)
			VALUES ($1, 'owner', $2)`,
			f.OwnerUserID, fileID,
		)
		if err != nil {
			return classifyWriteError(err, "назначения владельца")
		}

		rec, err = getFileRecord(ctx, tx, fileID)
		return err
	})
	if err != nil {
		return nil, err
	}

	owner := model.RoleOwner
	rec.Permission = &owner
	return rec, nil
}

func (r *fileRepo) GetByID(ctx context.Context, fileID string) (*model.FileRecord, error) {
	return getFileRecord(ctx, r.db, fileID)
}

func (r *fileRepo) Update(ctx context.Context, fileID string, patch model.FilePatch) (*model.FileRecord, error) {
	var rec *model.FileRecord
	err := r.tx.RunInTx(ctx, func(tx pgx.Tx) error {
		f := &model.File{}
		err := tx.QueryRow(ctx, `
			SELECT f.fullname, f.downloads, f.average_rating
			FROM file f
			WHERE f.id = $1
			FOR UPDATE`, fileID,
		).Scan(&f.Fullname, &f.Downloads, &f.AverageRating)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrNotFound
			}
			return fmt.Errorf("ошибка блокировки файла: %w", err)
		}

		// Отсутствующие в патче поля сохраняют текущие значения
		patch.Apply(f)

		_, err = tx.Exec(ctx, `
			UPDATE file
			SET fullname = $2, downloads = $3, average_rating = $4
			WHERE id = $1`,
			fileID, f.Fullname, f.Downloads, f.AverageRating,
		)
		if err != nil {
			return classifyWriteError(err, "обновления файла")
		}

		rec, err = getFileRecord(ctx, tx, fileID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (r *fileRepo) Delete(ctx context.Context, fileID string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM file WHERE id = $1`, fileID)
	if err != nil {
		return fmt.Errorf("ошибка удаления файла: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *fileRepo) GrantPermission(ctx context.Context, p model.Permission) (*model.Permission, error) {
	err := r.tx.RunInTx(ctx, func(tx pgx.Tx) error {
		var exists bool
		if err := tx.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM file WHERE id = $1)`, p.FileID,
		).Scan(&exists); err != nil {
			return fmt.Errorf("ошибка проверки файла: %w", err)
		}
		if !exists {
			return ErrNotFound
		}

		// Роль владельца не перезаписывается
		var role string
		err := tx.QueryRow(ctx, `
			INSERT INTO files_per_user (user_account_pk, roles_pk, files_pk)
			VALUES ($1, $2, $3)
			ON CONFLICT (user_account_pk, files_pk) DO UPDATE
				SET roles_pk = EXCLUDED.roles_pk
				WHERE files_per_user.roles_pk <> 'owner'
			RETURNING roles_pk`,
			p.UserID, string(p.Role), p.FileID,
		).Scan(&role)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return fmt.Errorf("%w: пользователь уже владелец файла", ErrConflict)
			}
			return classifyWriteError(err, "выдачи прав")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// getFileRecord возвращает файл с владельцем без роли зрителя.
func getFileRecord(ctx context.Context, db DBTX, fileID string) (*model.FileRecord, error) {
	query := `
		SELECT ` + fileRecordColumns + `,
			f.is_downloadable, f.is_public, COALESCE(u.user_name, ''), NULL::text
		FROM file f
		LEFT JOIN files_per_user o ON o.files_pk = f.id AND o.roles_pk = 'owner'
		LEFT JOIN user_account u ON u.id = o.user_account_pk
		WHERE f.id = $1`

	rec, err := scanFileRecord(db.QueryRow(ctx, query, fileID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения файла: %w", err)
	}
	return rec, nil
}
