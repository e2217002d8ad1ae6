package controllers

import (
	"net/http"
	"strconv"

	"github.com/Robou/miniloc/internal/dto"
	"github.com/Robou/miniloc/internal/entities"
	"github.com/Robou/miniloc/internal/services"
	"github.com/Robou/miniloc/pkg/apperrors"
	"github.com/Robou/miniloc/pkg/utils"

	"github.com/aarondl/null/v8"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type ItemController struct {
	itemService services.ItemServiceInterface
	logger      *zap.Logger
}

func NewItemController(itemService services.ItemServiceInterface, logger *zap.Logger) *ItemController {
	return &ItemController{itemService: itemService, logger: logger}
}

func (c *ItemController) CreateItem(ctx echo.Context) error {
	return c.save(ctx, nil)
}

func (c *ItemController) UpdateItem(ctx echo.Context) error {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewInvalidInputError("Identifiant d'article invalide"), c.logger)
	}
	return c.save(ctx, &id)
}

func (c *ItemController) save(ctx echo.Context, id *uint64) error {
	mode := modeFromQuery(ctx)

	var saved uint64
	var err error
	switch mode {
	case entities.ModeBooks:
		var payload dto.BookDTO
		if err := ctx.Bind(&payload); err != nil {
			return utils.ErrorResponse(ctx, apperrors.NewInvalidInputError("Format de la requête invalide"), c.logger)
		}
		if err := ctx.Validate(&payload); err != nil {
			return utils.ErrorResponse(ctx, err, c.logger)
		}
		if id != nil {
			payload.ID = null.Uint64From(*id)
		}
		saved, err = c.itemService.SaveBook(ctx.Request().Context(), payload)
	default:
		var payload dto.EquipmentDTO
		if err := ctx.Bind(&payload); err != nil {
			return utils.ErrorResponse(ctx, apperrors.NewInvalidInputError("Format de la requête invalide"), c.logger)
		}
		if err := ctx.Validate(&payload); err != nil {
			return utils.ErrorResponse(ctx, err, c.logger)
		}
		if id != nil {
			payload.ID = null.Uint64From(*id)
		}
		saved, err = c.itemService.SaveEquipment(ctx.Request().Context(), payload)
	}

	if err != nil {
		c.logger.Error("save: écriture de la fiche impossible", zap.Error(err))
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	message := "Fiche créée"
	code := http.StatusCreated
	if id != nil {
		message = "Fiche mise à jour"
		code = http.StatusOK
	}
	return utils.SuccessResponse(ctx, map[string]uint64{"id": saved}, message, code)
}
