package middleware

import (
	"github.com/Robou/miniloc/pkg/contextkeys"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const SessionHeader = "X-Session-ID"

// Session lit l'identifiant de session dans l'en-tête X-Session-ID et en
// émet un nouveau quand il manque. L'identifiant attribué est renvoyé
// dans l'en-tête de réponse pour que le client le conserve.
func Session(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		sessionID := c.Request().Header.Get(SessionHeader)
		if sessionID == "" {
			sessionID = uuid.NewString()
		}
		c.Set(string(contextkeys.SessionIDKey), sessionID)
		c.Response().Header().Set(SessionHeader, sessionID)
		return next(c)
	}
}

// SessionID relit l'identifiant posé par Session.
func SessionID(c echo.Context) string {
	sessionID, _ := c.Get(string(contextkeys.SessionIDKey)).(string)
	return sessionID
}
