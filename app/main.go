package main

import (
	"context"
	"net/http"

	"github.com/Robou/miniloc/internal/accessgate"
	"github.com/Robou/miniloc/internal/repositories"
	"github.com/Robou/miniloc/internal/routes"
	"github.com/Robou/miniloc/internal/security/seclog"
	"github.com/Robou/miniloc/pkg/apperrors"
	"github.com/Robou/miniloc/pkg/config"
	"github.com/Robou/miniloc/pkg/customvalidator"
	"github.com/Robou/miniloc/pkg/database/postgresql"
	applogger "github.com/Robou/miniloc/pkg/logger"
	"github.com/Robou/miniloc/pkg/service"
	"github.com/Robou/miniloc/pkg/utils"

	"github.com/go-playground/validator/v10"
	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

func main() {
	e := echo.New()
	logger := applogger.NewLogger()
	cfg := config.New()

	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		DisableStackAll: true,
		StackSize:       1 << 10,
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			logger.Error("Panique interceptée",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Error(err),
				zap.String("stack", string(stack)),
			)
			if !c.Response().Committed {
				httpErr := apperrors.NewHttpError(http.StatusInternalServerError, "Erreur interne du serveur", err, nil)
				utils.ErrorResponse(c, httpErr, logger)
			}
			return err
		},
	}))

	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:  []string{"http://localhost:5173"},
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, "X-Session-ID"},
		ExposeHeaders: []string{"Content-Disposition", "X-Session-ID"},
	}))

	v := validator.New()
	if err := customvalidator.RegisterCustomValidations(v); err != nil {
		logger.Fatal("Enregistrement des règles de validation impossible", zap.Error(err))
	}
	e.Validator = utils.NewValidator(v)

	postgresql.Migrate(cfg.Postgres.DSN, logger)
	dbConn := postgresql.ConnectDB(cfg.Postgres.DSN, logger)
	defer dbConn.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       0,
	})
	if _, err := redisClient.Ping(context.Background()).Result(); err != nil {
		logger.Fatal("Connexion à Redis impossible", zap.Error(err), zap.String("address", cfg.Redis.Address))
	}

	jwtSvc := service.NewJWTService(cfg.JWT.SecretKey, cfg.JWT.AccessTokenTTL, cfg.JWT.RefreshTokenTTL, logger)

	securityLog := seclog.New(seclog.NewFileStore(cfg.Club.SecurityLogFile), cfg.Club.SecurityLogLimit, logger)

	configRepo := repositories.NewConfigRepository(dbConn)
	tokenStore := accessgate.NewFileTokenStore(cfg.Club.TokenFile)
	gate := accessgate.NewGate(tokenStore, configRepo, logger)
	if gate.Check(context.Background()) != accessgate.StateValid {
		logger.Warn("Cet ordinateur n'est pas autorisé à gérer les emprunts")
	}

	routes.InitRouter(e, dbConn, redisClient, jwtSvc, gate, securityLog, cfg, logger)

	logger.Info("Serveur démarré", zap.String("port", cfg.Server.Port))
	if err := e.Start(":" + cfg.Server.Port); err != nil {
		logger.Fatal("Erreur au démarrage du serveur", zap.Error(err))
	}
}
