package controllers

import (
	"net/http"

	"github.com/Robou/miniloc/internal/dto"
	"github.com/Robou/miniloc/internal/services"
	"github.com/Robou/miniloc/pkg/apperrors"
	"github.com/Robou/miniloc/pkg/middleware"
	"github.com/Robou/miniloc/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type AuthController struct {
	authService services.AuthServiceInterface
	logger      *zap.Logger
}

func NewAuthController(authService services.AuthServiceInterface, logger *zap.Logger) *AuthController {
	return &AuthController{authService: authService, logger: logger}
}

// GetCSRFToken délivre le jeton CSRF de la session, en le créant au
// besoin. L'identifiant de session est attribué par le middleware et
// renvoyé dans l'en-tête X-Session-ID.
func (c *AuthController) GetCSRFToken(ctx echo.Context) error {
	sessionID := middleware.SessionID(ctx)

	token, err := c.authService.GetCSRFToken(ctx.Request().Context(), sessionID)
	if err != nil {
		c.logger.Error("GetCSRFToken: génération du jeton impossible", zap.Error(err))
		return utils.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusInternalServerError,
			"Erreur interne du serveur", err, nil), c.logger)
	}

	body := map[string]string{
		"csrf_token": token,
		"session_id": sessionID,
	}
	return utils.SuccessResponse(ctx, body, "Jeton CSRF délivré", http.StatusOK)
}

func (c *AuthController) Login(ctx echo.Context) error {
	var payload dto.LoginDTO
	if err := ctx.Bind(&payload); err != nil {
		c.logger.Error("Login: format de la requête invalide", zap.Error(err))
		return utils.ErrorResponse(ctx, apperrors.NewInvalidInputError("Format de la requête invalide"), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	sessionID := middleware.SessionID(ctx)
	pair, err := c.authService.Login(ctx.Request().Context(), sessionID, payload.Email, payload.Password, payload.CSRFToken)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return utils.SuccessResponse(ctx, pair, "Connexion réussie", http.StatusOK)
}
