package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Robou/miniloc/internal/cart"
	"github.com/Robou/miniloc/internal/dto"
	"github.com/Robou/miniloc/internal/entities"
	"github.com/Robou/miniloc/internal/repositories"
	"github.com/Robou/miniloc/pkg/apperrors"
	"github.com/Robou/miniloc/pkg/middleware"
	"github.com/Robou/miniloc/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type CartController struct {
	cart   *cart.Store
	items  repositories.ItemRepositoryInterface
	logger *zap.Logger
}

func NewCartController(cartStore *cart.Store, items repositories.ItemRepositoryInterface, logger *zap.Logger) *CartController {
	return &CartController{cart: cartStore, items: items, logger: logger}
}

type cartView struct {
	Mode  entities.Mode   `json:"mode"`
	Items []entities.Item `json:"items"`
}

func (c *CartController) view(sessionID string) cartView {
	return cartView{Mode: c.cart.Mode(sessionID), Items: c.cart.Items(sessionID)}
}

func (c *CartController) AddItem(ctx echo.Context) error {
	var payload dto.CartAddDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewInvalidInputError("Format de la requête invalide"), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	sessionID := middleware.SessionID(ctx)
	mode := c.cart.Mode(sessionID)

	item, err := c.items.FindItem(ctx.Request().Context(), mode, payload.ItemID)
	if err != nil {
		c.logger.Error("AddItem: article introuvable", zap.Uint64("id", payload.ItemID), zap.Error(err))
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	if err := c.cart.Add(sessionID, *item); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewInvalidInputError(err.Error()), c.logger)
	}

	return utils.SuccessResponse(ctx, c.view(sessionID), "Article ajouté au panier", http.StatusOK)
}

func (c *CartController) RemoveItem(ctx echo.Context) error {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewInvalidInputError("Identifiant d'article invalide"), c.logger)
	}

	sessionID := middleware.SessionID(ctx)
	c.cart.Remove(sessionID, id)

	return utils.SuccessResponse(ctx, c.view(sessionID), "Article retiré du panier", http.StatusOK)
}

func (c *CartController) GetCart(ctx echo.Context) error {
	return utils.SuccessResponse(ctx, c.view(middleware.SessionID(ctx)), "Panier récupéré", http.StatusOK)
}

func (c *CartController) ClearCart(ctx echo.Context) error {
	sessionID := middleware.SessionID(ctx)
	c.cart.Clear(sessionID)
	return utils.SuccessResponse(ctx, c.view(sessionID), "Panier vidé", http.StatusOK)
}

func (c *CartController) SetMode(ctx echo.Context) error {
	var payload dto.ModeDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewInvalidInputError("Format de la requête invalide"), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	sessionID := middleware.SessionID(ctx)
	if err := c.cart.SetMode(sessionID, entities.Mode(payload.Mode)); err != nil {
		if errors.Is(err, cart.ErrCartNotEmpty) {
			httpErr := apperrors.NewHttpError(http.StatusConflict, err.Error(), nil, nil)
			httpErr.Details = map[string]interface{}{"display_seconds": 3}
			return utils.ErrorResponse(ctx, httpErr, c.logger)
		}
		return utils.ErrorResponse(ctx, apperrors.NewInvalidInputError(err.Error()), c.logger)
	}

	return utils.SuccessResponse(ctx, c.view(sessionID), "Mode changé", http.StatusOK)
}
