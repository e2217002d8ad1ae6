package controllers

import (
	"net/http"

	"github.com/Robou/miniloc/internal/services"
	"github.com/Robou/miniloc/pkg/apperrors"
	"github.com/Robou/miniloc/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type ImportController struct {
	importService services.ImportServiceInterface
	logger        *zap.Logger
}

func NewImportController(importService services.ImportServiceInterface, logger *zap.Logger) *ImportController {
	return &ImportController{importService: importService, logger: logger}
}

// Import reçoit un fichier CSV ou XLSX en multipart (champ "file") et
// l'importe dans la table du mode demandé.
func (c *ImportController) Import(ctx echo.Context) error {
	mode := modeFromQuery(ctx)

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewInvalidInputError("Fichier manquant (champ \"file\")"), c.logger)
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.logger.Error("Import: ouverture du fichier impossible", zap.Error(err))
		return utils.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusInternalServerError,
			"Erreur interne du serveur", err, nil), c.logger)
	}
	defer file.Close()

	inserted, err := c.importService.Import(ctx.Request().Context(), mode, fileHeader.Filename, file)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return utils.SuccessResponse(ctx, map[string]int{"inserted": inserted}, "Import terminé", http.StatusOK)
}
