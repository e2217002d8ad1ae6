package utils

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/Robou/miniloc/pkg/apperrors"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type HTTPResponse struct {
	Status  bool        `json:"status"`
	Body    interface{} `json:"body,omitempty"`
	Message string      `json:"message"`
}

func SuccessResponse(ctx echo.Context, body interface{}, message string, code int) error {
	response := &HTTPResponse{
		Status:  true,
		Body:    body,
		Message: message,
	}
	return ctx.JSON(code, response)
}

// sentinelStatus associe les erreurs sentinelles aux codes HTTP quand aucun
// HttpError n'a été construit en amont.
var sentinelStatus = map[error]int{
	apperrors.ErrNotFound:           http.StatusNotFound,
	apperrors.ErrBadRequest:         http.StatusBadRequest,
	apperrors.ErrInvalidCredentials: http.StatusUnauthorized,
	apperrors.ErrUnauthorized:       http.StatusUnauthorized,
	apperrors.ErrForbidden:          http.StatusForbidden,
	apperrors.ErrEmptyAuthHeader:    http.StatusUnauthorized,
	apperrors.ErrInvalidAuthHeader:  http.StatusUnauthorized,
	apperrors.ErrInvalidToken:       http.StatusUnauthorized,
	apperrors.ErrTokenExpired:       http.StatusUnauthorized,
	apperrors.ErrTokenIsNotAccess:   http.StatusUnauthorized,
}

func ErrorResponse(c echo.Context, err error, logger *zap.Logger) error {
	var httpErr *apperrors.HttpError
	if errors.As(err, &httpErr) {
		if httpErr.Err != nil {
			logger.Error("HTTP Error",
				zap.Int("code", httpErr.Code),
				zap.String("message", httpErr.Message),
				zap.Error(httpErr.Err),
				zap.Any("context", httpErr.Context),
			)
		}

		response := map[string]interface{}{
			"status":  false,
			"message": httpErr.Message,
		}
		if httpErr.Details != nil {
			response["body"] = httpErr.Details
		}
		return c.JSON(httpErr.Code, response)
	}

	var invalidInput *apperrors.InvalidInputError
	if errors.As(err, &invalidInput) {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"status":  false,
			"message": invalidInput.Message,
		})
	}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		var msgs []string
		for _, e := range validationErrors {
			msgs = append(msgs, fmt.Sprintf("Le champ '%s' ne respecte pas la règle '%s'", e.Field(), e.Tag()))
		}
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"status":  false,
			"message": "Erreur de validation : " + strings.Join(msgs, " ; "),
		})
	}

	for sentinel, code := range sentinelStatus {
		if errors.Is(err, sentinel) {
			return c.JSON(code, map[string]interface{}{
				"status":  false,
				"message": sentinel.Error(),
			})
		}
	}

	logger.Error("Unexpected Error", zap.Error(err))
	return c.JSON(http.StatusInternalServerError, map[string]interface{}{
		"status":  false,
		"message": "Erreur interne du serveur",
	})
}
