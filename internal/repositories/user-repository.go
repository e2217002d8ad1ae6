package repositories

import (
	"context"
	"errors"

	"github.com/Robou/miniloc/internal/entities"
	"github.com/Robou/miniloc/pkg/apperrors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type UserRepositoryInterface interface {
	FindUserByEmail(ctx context.Context, email string) (*entities.User, error)
	FindUserByID(ctx context.Context, id uint64) (*entities.User, error)
}

type UserRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewUserRepository(storage *pgxpool.Pool, logger *zap.Logger) UserRepositoryInterface {
	return &UserRepository{storage: storage, logger: logger}
}

func (r *UserRepository) FindUserByEmail(ctx context.Context, email string) (*entities.User, error) {
	var user entities.User
	err := r.storage.QueryRow(ctx,
		"SELECT id, email, password, created_at FROM users WHERE email = $1", email,
	).Scan(&user.ID, &user.Email, &user.Password, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindUserByID(ctx context.Context, id uint64) (*entities.User, error) {
	var user entities.User
	err := r.storage.QueryRow(ctx,
		"SELECT id, email, password, created_at FROM users WHERE id = $1", id,
	).Scan(&user.ID, &user.Email, &user.Password, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}
