package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"

	"github.com/HansenBerlin/printfiles/internal/domain/model"
	"github.com/HansenBerlin/printfiles/internal/repository"
)

// UserService: справочник пользователей.
type UserService struct {
	repo   repository.UserRepository
	logger *slog.Logger
}

// NewUserService создаёт сервис пользователей.
func NewUserService(repo repository.UserRepository, logger *slog.Logger) *UserService {
	return &UserService{
		repo:   repo,
		logger: logger.With(slog.String("component", "user_service")),
	}
}

// IDByMail возвращает UUID пользователя по e-mail.
func (s *UserService) IDByMail(ctx context.Context, address string) (string, error) {
	id, err := s.repo.GetIDByMail(ctx, strings.TrimSpace(address))
	if err != nil {
		return "", classify(err, "пользователь с e-mail '"+address+"'")
	}
	return id, nil
}

// List возвращает страницу пользователей.
func (s *UserService) List(ctx context.Context, page Page) ([]*model.User, error) {
	users, err := s.repo.List(ctx, page.Limit, page.Offset())
	if err != nil {
		return nil, classify(err, "список пользователей")
	}
	return users, nil
}

// Create создаёт пользователя с e-mail.
func (s *UserService) Create(ctx context.Context, userName, address string) (string, error) {
	userName = strings.TrimSpace(userName)
	if userName == "" {
		return "", fmt.Errorf("%w: userName не может быть пустым", ErrValidation)
	}
	parsed, err := mail.ParseAddress(strings.TrimSpace(address))
	if err != nil {
		return "", fmt.Errorf("%w: некорректный e-mail '%s'", ErrValidation, address)
	}

	id, err := s.repo.Create(ctx, userName, parsed.Address)
	if err != nil {
		return "", classify(err, "пользователь с e-mail '"+parsed.Address+"'")
	}

	s.logger.Info("Пользователь создан",
		slog.String("user_id", id),
		slog.String("user_name", userName),
	)
	return id, nil
}
