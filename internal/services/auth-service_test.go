package services

import (
	"context"
	"testing"
	"time"

	"github.com/Robou/miniloc/internal/entities"
	"github.com/Robou/miniloc/internal/security/csrf"
	"github.com/Robou/miniloc/internal/security/ratelimit"
	"github.com/Robou/miniloc/internal/security/seclog"
	"github.com/Robou/miniloc/pkg/apperrors"
	"github.com/Robou/miniloc/pkg/service"
	"github.com/Robou/miniloc/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeUserRepo struct {
	users map[string]*entities.User
}

func (r *fakeUserRepo) FindUserByEmail(ctx context.Context, email string) (*entities.User, error) {
	user, ok := r.users[email]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return user, nil
}

func (r *fakeUserRepo) FindUserByID(ctx context.Context, id uint64) (*entities.User, error) {
	for _, user := range r.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

type authFixture struct {
	svc    AuthServiceInterface
	csrf   *csrf.Manager
	seclog *seclog.Logger
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	hash, err := utils.HashPassword("secret-club")
	require.NoError(t, err)
	users := &fakeUserRepo{users: map[string]*entities.User{
		"admin@club.fr": {ID: 1, Email: "admin@club.fr", Password: hash},
	}}

	cache := newFakeCache()
	csrfManager := csrf.NewManager(cache, time.Hour)
	limiter := ratelimit.NewLimiter(cache, 5, 15*time.Minute)
	jwtService := service.NewJWTService("test-secret", 15*time.Minute, 24*time.Hour, zap.NewNop())
	securityLog := seclog.New(&memSeclogStore{}, 500, zap.NewNop())

	return &authFixture{
		svc:    NewAuthService(users, csrfManager, limiter, jwtService, securityLog, 5, zap.NewNop()),
		csrf:   csrfManager,
		seclog: securityLog,
	}
}

func (f *authFixture) token(t *testing.T, sessionID string) string {
	t.Helper()
	token, err := f.csrf.GetOrCreate(context.Background(), sessionID)
	require.NoError(t, err)
	return token
}

func TestLoginSuccess(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	pair, err := f.svc.Login(ctx, "s1", "admin@club.fr", "secret-club", f.token(t, "s1"))

	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
}

func TestLoginRejectsInvalidCSRFBeforeCredentialCheck(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.svc.Login(context.Background(), "s1", "admin@club.fr", "secret-club", "falsifié")

	var httpErr *apperrors.HttpError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, 403, httpErr.Code)
	assert.Len(t, f.seclog.EntriesByType(seclog.CSRFViolation), 1)
}

func TestLoginWrongPasswordIsGeneric(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	_, err := f.svc.Login(ctx, "s1", "admin@club.fr", "faux", f.token(t, "s1"))

	var httpErr *apperrors.HttpError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, 401, httpErr.Code)
	assert.Equal(t, "Identifiants invalides", httpErr.Message)
	assert.Len(t, f.seclog.EntriesByType(seclog.FailedLogin), 1)
}

func TestLoginUnknownUserSameMessage(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	_, err := f.svc.Login(ctx, "s1", "inconnu@club.fr", "secret-club", f.token(t, "s1"))

	var httpErr *apperrors.HttpError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, "Identifiants invalides", httpErr.Message)
}

func TestLoginLockedOutAfterFiveFailures(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := f.svc.Login(ctx, "s1", "admin@club.fr", "faux", f.token(t, "s1"))
		require.Error(t, err)
	}
	assert.Len(t, f.seclog.EntriesByType(seclog.RateLimitExceeded), 1)

	_, err := f.svc.Login(ctx, "s1", "admin@club.fr", "secret-club", f.token(t, "s1"))

	var httpErr *apperrors.HttpError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, 429, httpErr.Code)
	assert.Contains(t, httpErr.Message, "Trop de tentatives")
}

func TestLoginSuccessResetsCounter(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		_, err := f.svc.Login(ctx, "s1", "admin@club.fr", "faux", f.token(t, "s1"))
		require.Error(t, err)
	}

	_, err := f.svc.Login(ctx, "s1", "admin@club.fr", "secret-club", f.token(t, "s1"))
	require.NoError(t, err)

	// Le compteur étant remis à zéro, un nouvel échec ne verrouille pas.
	_, err = f.svc.Login(ctx, "s1", "admin@club.fr", "faux", f.token(t, "s1"))
	var httpErr *apperrors.HttpError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, 401, httpErr.Code)
}
