package controllers

import (
	"errors"
	"net/http"

	"github.com/Robou/miniloc/internal/dto"
	"github.com/Robou/miniloc/internal/entities"
	"github.com/Robou/miniloc/internal/services"
	"github.com/Robou/miniloc/pkg/apperrors"
	"github.com/Robou/miniloc/pkg/middleware"
	"github.com/Robou/miniloc/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type BorrowController struct {
	borrowService services.BorrowServiceInterface
	logger        *zap.Logger
}

func NewBorrowController(borrowService services.BorrowServiceInterface, logger *zap.Logger) *BorrowController {
	return &BorrowController{borrowService: borrowService, logger: logger}
}

func (c *BorrowController) GetBorrows(ctx echo.Context) error {
	mode := modeFromQuery(ctx)

	borrows, err := c.borrowService.GetBorrows(ctx.Request().Context(), mode)
	if err != nil {
		c.logger.Error("GetBorrows: lecture des emprunts impossible", zap.Error(err))
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return utils.SuccessResponse(ctx, borrows, "Emprunts en cours récupérés", http.StatusOK)
}

func (c *BorrowController) ConfirmBorrow(ctx echo.Context) error {
	var payload dto.BorrowerInfoDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewInvalidInputError("Format de la requête invalide"), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	sessionID := middleware.SessionID(ctx)
	info := services.BorrowerInfo{
		Name:           payload.Name,
		Email:          payload.Email,
		RentalPrice:    payload.RentalPrice,
		SupervisorName: payload.SupervisorName,
	}

	if err := c.borrowService.ConfirmBorrow(ctx.Request().Context(), sessionID, info); err != nil {
		var borrowErrs services.BorrowErrors
		if errors.As(err, &borrowErrs) {
			httpErr := apperrors.NewHttpError(http.StatusConflict, "Certains emprunts ont échoué", nil, nil)
			httpErr.Details = []string(borrowErrs)
			return utils.ErrorResponse(ctx, httpErr, c.logger)
		}
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return utils.SuccessResponse(ctx, nil, "Emprunts enregistrés", http.StatusOK)
}

func (c *BorrowController) ReturnItem(ctx echo.Context) error {
	var payload dto.ReturnDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewInvalidInputError("Format de la requête invalide"), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	err := c.borrowService.ReturnItem(ctx.Request().Context(), entities.Mode(payload.Mode), payload.BorrowID, payload.Confirmed)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return utils.SuccessResponse(ctx, nil, "Retour enregistré", http.StatusOK)
}
