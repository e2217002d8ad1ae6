package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/Robou/miniloc/internal/repositories"
	"github.com/Robou/miniloc/internal/security/csrf"
	"github.com/Robou/miniloc/internal/security/ratelimit"
	"github.com/Robou/miniloc/internal/security/seclog"
	"github.com/Robou/miniloc/pkg/apperrors"
	"github.com/Robou/miniloc/pkg/sanitize"
	"github.com/Robou/miniloc/pkg/service"
	"github.com/Robou/miniloc/pkg/utils"

	"go.uber.org/zap"
)

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type AuthServiceInterface interface {
	Login(ctx context.Context, sessionID, email, password, csrfToken string) (*TokenPair, error)
	GetCSRFToken(ctx context.Context, sessionID string) (string, error)
}

// AuthService authentifie les administrateurs. Le jeton CSRF est vérifié
// avant toute consultation des identifiants, puis le limiteur de
// tentatives, puis le mot de passe.
type AuthService struct {
	users     repositories.UserRepositoryInterface
	csrf      *csrf.Manager
	limiter   *ratelimit.Limiter
	jwt       service.JWTService
	seclog    *seclog.Logger
	logger    *zap.Logger
	maxPerKey int
}

func NewAuthService(users repositories.UserRepositoryInterface, csrfManager *csrf.Manager,
	limiter *ratelimit.Limiter, jwtService service.JWTService, securityLog *seclog.Logger,
	maxAttempts int, logger *zap.Logger) AuthServiceInterface {
	return &AuthService{
		users:     users,
		csrf:      csrfManager,
		limiter:   limiter,
		jwt:       jwtService,
		seclog:    securityLog,
		logger:    logger,
		maxPerKey: maxAttempts,
	}
}

func (s *AuthService) GetCSRFToken(ctx context.Context, sessionID string) (string, error) {
	return s.csrf.GetOrCreate(ctx, sessionID)
}

func (s *AuthService) Login(ctx context.Context, sessionID, email, password, csrfToken string) (*TokenPair, error) {
	if !s.csrf.Validate(ctx, sessionID, csrfToken) {
		s.seclog.LogCSRFViolation(map[string]interface{}{"session_id": sessionID, "email": email})
		return nil, apperrors.NewHttpError(http.StatusForbidden,
			"Erreur de sécurité. Veuillez recharger la page.", apperrors.ErrForbidden, nil)
	}

	email = sanitize.Email(email)
	if email == "" {
		return nil, apperrors.NewInvalidInputError("Adresse e-mail invalide")
	}

	if limited, remaining := s.limiter.IsLimited(ctx, email); limited {
		return nil, apperrors.NewHttpError(http.StatusTooManyRequests,
			fmt.Sprintf("Trop de tentatives. Réessayez dans %s.", ratelimit.FormatLockout(remaining)),
			apperrors.ErrForbidden, nil)
	}

	user, err := s.users.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, s.recordFailure(ctx, email, "utilisateur inconnu")
		}
		return nil, apperrors.NewHttpError(http.StatusInternalServerError,
			"Erreur interne du serveur", err, map[string]interface{}{"email": email})
	}

	if err := utils.ComparePasswords(user.Password, password); err != nil {
		return nil, s.recordFailure(ctx, email, "mot de passe invalide")
	}

	if err := s.limiter.Reset(ctx, email); err != nil {
		s.logger.Warn("Réinitialisation du compteur de tentatives impossible", zap.Error(err))
	}

	access, refresh, err := s.jwt.GenerateTokens(user.ID)
	if err != nil {
		return nil, apperrors.NewHttpError(http.StatusInternalServerError,
			"Erreur interne du serveur", err, nil)
	}

	s.logger.Info("Connexion réussie", zap.String("email", email))
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// recordFailure compte l'échec, journalise et renvoie toujours le même
// message générique pour ne pas révéler la cause.
func (s *AuthService) recordFailure(ctx context.Context, email, reason string) error {
	attempts, err := s.limiter.RecordFailure(ctx, email)
	if err != nil {
		s.logger.Warn("Enregistrement de la tentative impossible", zap.Error(err))
	}
	s.seclog.LogFailedLogin(email, reason)
	if attempts == s.maxPerKey {
		s.seclog.LogRateLimitExceeded(email, attempts)
	}
	return apperrors.NewHttpError(http.StatusUnauthorized,
		"Identifiants invalides", apperrors.ErrInvalidCredentials, nil)
}
