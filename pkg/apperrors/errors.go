package apperrors

import "fmt"

var (
	// JWT et jetons de session
	ErrInvalidSigningMethod = fmt.Errorf("méthode de signature du jeton invalide")
	ErrInvalidToken         = fmt.Errorf("jeton invalide")
	ErrTokenExpired         = fmt.Errorf("jeton expiré")
	ErrTokenNotYetValid     = fmt.Errorf("jeton pas encore actif")
	ErrTokenIsNotAccess     = fmt.Errorf("un jeton de rafraîchissement ne donne pas accès à l'API")

	// Authentification
	ErrEmptyAuthHeader    = fmt.Errorf("en-tête d'autorisation absent")
	ErrInvalidAuthHeader  = fmt.Errorf("format d'en-tête d'autorisation invalide")
	ErrInvalidCredentials = fmt.Errorf("identifiants invalides")
	ErrUnauthorized       = fmt.Errorf("non autorisé")
	ErrForbidden          = fmt.Errorf("accès refusé")

	// Contexte
	ErrUserIDNotFoundInContext = fmt.Errorf("UserID absent du contexte de la requête")

	// Générique
	ErrNotFound   = fmt.Errorf("enregistrement introuvable")
	ErrBadRequest = fmt.Errorf("requête invalide")
)

// HttpError porte le code HTTP et le message destiné au client, ainsi que la
// cause technique et un contexte structuré réservés aux journaux.
type HttpError struct {
	Code    int
	Message string
	Err     error
	Context map[string]interface{}
	Details interface{}
}

func (e *HttpError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *HttpError) Unwrap() error { return e.Err }

func NewHttpError(code int, message string, err error, context map[string]interface{}) *HttpError {
	return &HttpError{
		Code:    code,
		Message: message,
		Err:     err,
		Context: context,
	}
}

type InvalidInputError struct {
	Message string
}

func (e *InvalidInputError) Error() string { return e.Message }

func NewInvalidInputError(format string, args ...interface{}) error {
	return &InvalidInputError{Message: fmt.Sprintf(format, args...)}
}
