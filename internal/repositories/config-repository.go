package repositories

import (
	"context"
	"errors"

	"github.com/Robou/miniloc/pkg/apperrors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ClubTokenKey est la clé de la table config contenant le jeton de
// référence de l'ordinateur du club.
const ClubTokenKey = "club_token"

type ConfigRepositoryInterface interface {
	GetValue(ctx context.Context, key string) (string, error)
}

type ConfigRepository struct {
	storage *pgxpool.Pool
}

func NewConfigRepository(storage *pgxpool.Pool) ConfigRepositoryInterface {
	return &ConfigRepository{storage: storage}
}

func (r *ConfigRepository) GetValue(ctx context.Context, key string) (string, error) {
	var value string
	err := r.storage.QueryRow(ctx, "SELECT value FROM config WHERE key = $1", key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", apperrors.ErrNotFound
		}
		return "", err
	}
	return value, nil
}
