package postgresql

import (
	"context"
	"database/sql"

	"github.com/Robou/miniloc/migrations"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

func ConnectDB(dsn string, logger *zap.Logger) *pgxpool.Pool {
	dbpool, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		logger.Fatal("Échec de création du pool de connexions Postgres", zap.Error(err))
	}

	if err := dbpool.Ping(context.Background()); err != nil {
		logger.Fatal("Impossible de joindre Postgres", zap.Error(err))
	}

	logger.Info("Connecté à PostgreSQL")
	return dbpool
}

// Migrate applique les migrations goose embarquées avant le démarrage du
// serveur. Les fonctions SQL d'emprunt et de retour font partie du schéma.
func Migrate(dsn string, logger *zap.Logger) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		logger.Fatal("Échec d'ouverture de la connexion de migration", zap.Error(err))
	}
	defer db.Close()

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		logger.Fatal("Dialecte goose invalide", zap.Error(err))
	}
	if err := goose.Up(db, "."); err != nil {
		logger.Fatal("Échec des migrations", zap.Error(err))
	}

	logger.Info("Migrations appliquées")
}
