package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/HansenBerlin/printfiles/internal/domain/model"
)

// UserRepository: справочник пользователей.
type UserRepository interface {
	// GetIDByMail возвращает UUID пользователя по e-mail.
	GetIDByMail(ctx context.Context, mail string) (string, error)
	// List возвращает страницу пользователей с их e-mail.
	List(ctx context.Context, limit, offset int) ([]*model.User, error)
	// Create создаёт пользователя и его e-mail в одной транзакции.
	Create(ctx context.Context, userName, mail string) (string, error)
}

type userRepo struct {
	db DBTX
	tx *TxRunner
}

// NewUserRepository создаёт репозиторий пользователей.
func NewUserRepository(db DBTX, tx *TxRunner) UserRepository {
	return &userRepo{db: db, tx: tx}
}

func (r *userRepo) GetIDByMail(ctx context.Context, mail string) (string, error) {
	var id string
	err := r.db.QueryRow(ctx,
		`SELECT user_account_pk FROM user_account_mails WHERE mail = $1`, mail,
	).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("ошибка поиска пользователя по e-mail: %w", err)
	}
	return id, nil
}

func (r *userRepo) List(ctx context.Context, limit, offset int) ([]*model.User, error) {
	query := `
		SELECT ua.id, ua.user_name,
			COALESCE(array_agg(m.mail ORDER BY m.mail) FILTER (WHERE m.mail IS NOT NULL), '{}')
		FROM user_account ua
		LEFT JOIN user_account_mails m ON m.user_account_pk = ua.id
		GROUP BY ua.id, ua.user_name
		ORDER BY ua.user_name, ua.id
		LIMIT $1 OFFSET $2`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения списка пользователей: %w", err)
	}
	defer rows.Close()

	result := make([]*model.User, 0)
	for rows.Next() {
		u := &model.User{}
		if err := rows.Scan(&u.ID, &u.UserName, &u.Mails); err != nil {
			return nil, fmt.Errorf("ошибка сканирования пользователя: %w", err)
		}
		result = append(result, u)
	}
	return result, rows.Err()
}

func (r *userRepo) Create(ctx context.Context, userName, mail string) (string, error) {
	var id string
	err := r.tx.RunInTx(ctx, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx,
			`INSERT INTO user_account (user_name) VALUES ($1) RETURNING id`, userName,
		).Scan(&id); err != nil {
			return classifyWriteError(err, "создания пользователя")
		}

		if _, err := tx.Exec(ctx,
			`INSERT INTO user_account_mails (mail, user_account_pk) VALUES ($1, $2)`, mail, id,
		); err != nil {
			return classifyWriteError(err, "сохранения e-mail")
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return id, nil
}
