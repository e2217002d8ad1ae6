package controllers

import (
	"net/http"

	"github.com/Robou/miniloc/internal/accessgate"
	"github.com/Robou/miniloc/pkg/apperrors"
	"github.com/Robou/miniloc/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type GateController struct {
	gate   *accessgate.Gate
	logger *zap.Logger
}

func NewGateController(gate *accessgate.Gate, logger *zap.Logger) *GateController {
	return &GateController{gate: gate, logger: logger}
}

func gateView(state accessgate.State) map[string]interface{} {
	label := "invalid"
	if state == accessgate.StateValid {
		label = "valid"
	}
	return map[string]interface{}{
		"valid": state == accessgate.StateValid,
		"state": label,
	}
}

// Status revérifie le jeton de l'ordinateur et renvoie l'état du portail.
func (c *GateController) Status(ctx echo.Context) error {
	state := c.gate.Check(ctx.Request().Context())
	return utils.SuccessResponse(ctx, gateView(state), "État du portail", http.StatusOK)
}

// Authorize installe le jeton de référence sur cet ordinateur.
func (c *GateController) Authorize(ctx echo.Context) error {
	state, err := c.gate.Authorize(ctx.Request().Context())
	if err != nil {
		c.logger.Error("Authorize: autorisation de l'ordinateur impossible", zap.Error(err))
		return utils.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusInternalServerError,
			"Autorisation de l'ordinateur impossible", err, nil), c.logger)
	}
	return utils.SuccessResponse(ctx, gateView(state), "Ordinateur autorisé", http.StatusOK)
}

// Deauthorize retire le jeton local de cet ordinateur.
func (c *GateController) Deauthorize(ctx echo.Context) error {
	if err := c.gate.Deauthorize(); err != nil {
		c.logger.Error("Deauthorize: retrait du jeton impossible", zap.Error(err))
		return utils.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusInternalServerError,
			"Retrait du jeton impossible", err, nil), c.logger)
	}
	return utils.SuccessResponse(ctx, gateView(c.gate.State()), "Autorisation retirée", http.StatusOK)
}
