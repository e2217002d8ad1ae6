package controllers

import (
	"net/http"

	"github.com/Robou/miniloc/internal/entities"
	"github.com/Robou/miniloc/internal/services"
	"github.com/Robou/miniloc/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type CatalogController struct {
	catalogService services.CatalogServiceInterface
	logger         *zap.Logger
}

func NewCatalogController(catalogService services.CatalogServiceInterface, logger *zap.Logger) *CatalogController {
	return &CatalogController{catalogService: catalogService, logger: logger}
}

// modeFromQuery lit le paramètre mode, matériel par défaut.
func modeFromQuery(ctx echo.Context) entities.Mode {
	mode := entities.Mode(ctx.QueryParam("mode"))
	if !mode.Valid() {
		return entities.ModeEquipment
	}
	return mode
}

func (c *CatalogController) GetItems(ctx echo.Context) error {
	mode := modeFromQuery(ctx)
	query := utils.ParseSearchFromQuery(ctx.Request().URL.Query())

	items, err := c.catalogService.GetItems(ctx.Request().Context(), mode, query)
	if err != nil {
		c.logger.Error("GetItems: lecture du catalogue impossible", zap.Error(err))
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return utils.SuccessResponse(ctx, items, "Catalogue récupéré", http.StatusOK)
}
