package middleware

import (
	"net/http"

	"github.com/Robou/miniloc/internal/accessgate"
	"github.com/Robou/miniloc/internal/security/seclog"
	"github.com/Robou/miniloc/pkg/apperrors"
	"github.com/Robou/miniloc/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type ClubGateMiddleware struct {
	gate   *accessgate.Gate
	seclog *seclog.Logger
	logger *zap.Logger
}

func NewClubGateMiddleware(gate *accessgate.Gate, securityLog *seclog.Logger, logger *zap.Logger) *ClubGateMiddleware {
	return &ClubGateMiddleware{gate: gate, seclog: securityLog, logger: logger}
}

// Gate refuse les routes d'emprunt quand le service ne tourne pas sur
// l'ordinateur autorisé du club.
func (m *ClubGateMiddleware) Gate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !m.gate.IsValid() {
			m.seclog.LogUnauthorizedAccess(map[string]interface{}{
				"path":       c.Path(),
				"session_id": SessionID(c),
			})
			return utils.ErrorResponse(c, apperrors.NewHttpError(http.StatusForbidden,
				"Cet ordinateur n'est pas autorisé à gérer les emprunts", apperrors.ErrForbidden, nil), m.logger)
		}
		return next(c)
	}
}
