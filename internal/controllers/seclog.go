package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Robou/miniloc/internal/security/seclog"
	"github.com/Robou/miniloc/pkg/apperrors"
	"github.com/Robou/miniloc/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type SecurityLogController struct {
	seclog *seclog.Logger
	logger *zap.Logger
}

func NewSecurityLogController(securityLog *seclog.Logger, logger *zap.Logger) *SecurityLogController {
	return &SecurityLogController{seclog: securityLog, logger: logger}
}

// List renvoie les entrées du journal, filtrables par type
// (`?type=failed_login`) ou par fraîcheur (`?hours=24`).
func (c *SecurityLogController) List(ctx echo.Context) error {
	if eventType := ctx.QueryParam("type"); eventType != "" {
		entries := c.seclog.EntriesByType(seclog.EventType(eventType))
		return utils.SuccessResponse(ctx, entries, "Journal de sécurité récupéré", http.StatusOK)
	}

	if hoursParam := ctx.QueryParam("hours"); hoursParam != "" {
		hours, err := strconv.Atoi(hoursParam)
		if err != nil || hours <= 0 {
			return utils.ErrorResponse(ctx, apperrors.NewInvalidInputError("Paramètre hours invalide"), c.logger)
		}
		entries := c.seclog.RecentEntries(time.Duration(hours) * time.Hour)
		return utils.SuccessResponse(ctx, entries, "Journal de sécurité récupéré", http.StatusOK)
	}

	return utils.SuccessResponse(ctx, c.seclog.Entries(), "Journal de sécurité récupéré", http.StatusOK)
}

func (c *SecurityLogController) Summary(ctx echo.Context) error {
	return utils.SuccessResponse(ctx, c.seclog.Summary(), "Synthèse du journal de sécurité", http.StatusOK)
}

// Export renvoie le journal complet en pièce jointe JSON.
func (c *SecurityLogController) Export(ctx echo.Context) error {
	data, err := c.seclog.ExportJSON()
	if err != nil {
		c.logger.Error("Export: sérialisation du journal impossible", zap.Error(err))
		return utils.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusInternalServerError,
			"Erreur interne du serveur", err, nil), c.logger)
	}

	ctx.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="security_logs.json"`)
	return ctx.Blob(http.StatusOK, echo.MIMEApplicationJSON, data)
}

// Cleanup purge les entrées plus anciennes que le nombre de jours donné
// (30 par défaut).
func (c *SecurityLogController) Cleanup(ctx echo.Context) error {
	days := 30
	if daysParam := ctx.QueryParam("days"); daysParam != "" {
		parsed, err := strconv.Atoi(daysParam)
		if err != nil || parsed <= 0 {
			return utils.ErrorResponse(ctx, apperrors.NewInvalidInputError("Paramètre days invalide"), c.logger)
		}
		days = parsed
	}

	c.seclog.CleanupOlderThan(time.Duration(days) * 24 * time.Hour)
	return utils.SuccessResponse(ctx, nil, "Journal de sécurité purgé", http.StatusOK)
}
