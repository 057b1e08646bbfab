package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/HansenBerlin/printfiles/internal/domain/model"
)

// fileRecordColumns: общие столбцы file для всех режимов видимости.
// Каждый режим дописывает is_downloadable, is_public, owner, permission.
const fileRecordColumns = `f.id, f.fullname, f.created, f.sizebytes, f.downloads, f.average_rating`

// ownerJoin: присоединение строки владельца и его имени.
const ownerJoin = `
		JOIN files_per_user o ON o.files_pk = f.id AND o.roles_pk = 'owner'
		JOIN user_account u ON u.id = o.user_account_pk`

// VisibilityMode: режим выборки файлов.
type VisibilityMode string

const (
	// ModePublic: публичные файлы, видимые всем.
	ModePublic VisibilityMode = "public"
	// ModePrivate: непубличные файлы, на которые у зрителя есть права.
	ModePrivate VisibilityMode = "private"
	// ModeByUserOrOrphan: файлы пользователя плюс файлы с единственной строкой прав.
	ModeByUserOrOrphan VisibilityMode = "by_user"
)

// FileQueryRepository: выборки файлов с учётом прав зрителя.
type FileQueryRepository interface {
	// PublicListing возвращает публичные файлы с владельцем.
	PublicListing(ctx context.Context, limit, offset int) ([]*model.FileRecord, error)
	// PrivateListing возвращает непубличные файлы, доступные зрителю.
	PrivateListing(ctx context.Context, viewerID string, limit, offset int) ([]*model.FileRecord, error)
	// ByUserOrOrphan возвращает файлы пользователя вместе с файлами,
	// у которых ровно одна строка прав (устаревший режим).
	ByUserOrOrphan(ctx context.Context, userID string, limit, offset int) ([]*model.FileRecord, error)
	// OwnerOf возвращает user_name владельца файла.
	OwnerOf(ctx context.Context, fileID string) (string, error)
	// GetForViewer возвращает файл, если он публичный или у зрителя есть права.
	GetForViewer(ctx context.Context, fileID, viewerID string) (*model.FileRecord, error)
}

// fileQueryRepo: реализация FileQueryRepository через pgx.
type fileQueryRepo struct {
	db DBTX
}

// NewFileQueryRepository создаёт репозиторий выборок файлов.
func NewFileQueryRepository(db DBTX) FileQueryRepository {
	return &fileQueryRepo{db: db}
}

// downloadableRoleNames: роли с правом скачивания для параметра = ANY($n).
func downloadableRoleNames() []string {
	names := make([]string, 0, len(model.DownloadableRoles))
	for _, r := range model.DownloadableRoles {
		names = append(names, string(r))
	}
	return names
}

// buildPublicListing строит запрос публичного списка.
// is_downloadable берётся из таблицы, permission отсутствует.
func buildPublicListing(limit, offset int) (string, []any) {
	query := `
		SELECT ` + fileRecordColumns + `,
			f.is_downloadable, f.is_public, u.user_name, NULL::text
		FROM file f` + ownerJoin + `
		WHERE f.is_public
		ORDER BY f.created, f.id
		LIMIT $1 OFFSET $2`
	return query, []any{limit, offset}
}

// buildPrivateListing строит запрос приватного списка для зрителя.
// Владелец и роль зрителя получаются одним запросом.
func buildPrivateListing(viewerID string, limit, offset int) (string, []any) {
	query := `
		SELECT ` + fileRecordColumns + `,
			v.roles_pk = ANY($2), f.is_public, u.user_name, v.roles_pk
		FROM file f
		JOIN files_per_user v ON v.files_pk = f.id AND v.user_account_pk = $1` + ownerJoin + `
		WHERE NOT f.is_public
		ORDER BY f.created, f.id
		LIMIT $3 OFFSET $4`
	return query, []any{viewerID, downloadableRoleNames(), limit, offset}
}

// buildByUserOrOrphan строит устаревший запрос: строки прав пользователя
// объединяются со строками файлов, у которых ровно одна строка прав.
// Скачивание и permission берутся из строки самого пользователя (v),
// а не из строки, по которой файл попал в выборку.
func buildByUserOrOrphan(userID string, limit, offset int) (string, []any) {
	query := `
		SELECT a.id, a.fullname, a.created, a.sizebytes, a.downloads, a.average_rating,
			COALESCE(v.roles_pk = ANY($2), false), a.is_public, u.user_name, v.roles_pk
		FROM (
			SELECT ` + fileRecordColumns + `, f.is_public, p.roles_pk
			FROM file f
			JOIN files_per_user p ON p.files_pk = f.id
			WHERE p.user_account_pk = $1
			UNION
			SELECT ` + fileRecordColumns + `, f.is_public, p.roles_pk
			FROM file f
			JOIN files_per_user p ON p.files_pk = f.id
			WHERE f.id IN (
				SELECT files_pk FROM files_per_user
				GROUP BY files_pk
				HAVING COUNT(*) = 1
			)
		) a
		JOIN files_per_user o ON o.files_pk = a.id AND o.roles_pk = 'owner'
		JOIN user_account u ON u.id = o.user_account_pk
		LEFT JOIN files_per_user v ON v.files_pk = a.id AND v.user_account_pk = $1
		ORDER BY a.created, a.id, a.roles_pk
		LIMIT $3 OFFSET $4`
	return query, []any{userID, downloadableRoleNames(), limit, offset}
}

func (r *fileQueryRepo) PublicListing(ctx context.Context, limit, offset int) ([]*model.FileRecord, error) {
	query, args := buildPublicListing(limit, offset)
	return r.list(ctx, ModePublic, query, args)
}

func (r *fileQueryRepo) PrivateListing(ctx context.Context, viewerID string, limit, offset int) ([]*model.FileRecord, error) {
	query, args := buildPrivateListing(viewerID, limit, offset)
	return r.list(ctx, ModePrivate, query, args)
}

func (r *fileQueryRepo) ByUserOrOrphan(ctx context.Context, userID string, limit, offset int) ([]*model.FileRecord, error) {
	query, args := buildByUserOrOrphan(userID, limit, offset)
	return r.list(ctx, ModeByUserOrOrphan, query, args)
}

func (r *fileQueryRepo) list(ctx context.Context, mode VisibilityMode, query string, args []any) ([]*model.FileRecord, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка выборки файлов (%s): %w", mode, err)
	}
	defer rows.Close()

	result := make([]*model.FileRecord, 0)
	for rows.Next() {
		rec, err := scanFileRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("ошибка сканирования файла (%s): %w", mode, err)
		}
		result = append(result, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка выборки файлов (%s): %w", mode, err)
	}
	return result, nil
}

func (r *fileQueryRepo) OwnerOf(ctx context.Context, fileID string) (string, error) {
	query := `
		SELECT u.user_name
		FROM files_per_user o
		JOIN user_account u ON u.id = o.user_account_pk
		WHERE o.files_pk = $1 AND o.roles_pk = 'owner'`

	var owner string
	if err := r.db.QueryRow(ctx, query, fileID).Scan(&owner); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("ошибка получения владельца файла: %w", err)
	}
	return owner, nil
}

func (r *fileQueryRepo) GetForViewer(ctx context.Context, fileID, viewerID string) (*model.FileRecord, error) {
	query := `
		SELECT ` + fileRecordColumns + `,
			CASE WHEN v.roles_pk IS NULL THEN f.is_downloadable ELSE v.roles_pk = ANY($3) END,
			f.is_public, COALESCE(u.user_name, ''), v.roles_pk
		FROM file f
		LEFT JOIN files_per_user v ON v.files_pk = f.id AND v.user_account_pk = $2
		LEFT JOIN files_per_user o ON o.files_pk = f.id AND o.roles_pk = 'owner'
		LEFT JOIN user_account u ON u.id = o.user_account_pk
		WHERE f.id = $1 AND (f.is_public OR v.roles_pk IS NOT NULL)`

	rec, err := scanFileRecord(r.db.QueryRow(ctx, query, fileID, viewerID, downloadableRoleNames()))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения файла для пользователя: %w", err)
	}
	return rec, nil
}

// scanFileRecord сканирует строку формата fileRecordColumns +
// is_downloadable, is_public, owner, permission.
func scanFileRecord(row pgx.Row) (*model.FileRecord, error) {
	rec := &model.FileRecord{}
	var permission *string
	if err := row.Scan(
		&rec.ID, &rec.Fullname, &rec.Created, &rec.SizeBytes, &rec.Downloads, &rec.AverageRating,
		&rec.IsDownloadable, &rec.IsPublic, &rec.Owner, &permission,
	); err != nil {
		return nil, err
	}
	if permission != nil {
		role := model.Role(*permission)
		rec.Permission = &role
	}
	return rec, nil
}
