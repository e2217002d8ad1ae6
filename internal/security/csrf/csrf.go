package csrf

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/Robou/miniloc/internal/repositories"
)

type storedToken struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Manager délivre et vérifie les jetons CSRF, conservés en cache par
// session. Un jeton existant et non expiré est réutilisé.
type Manager struct {
	cache repositories.CacheRepositoryInterface
	ttl   time.Duration
	now   func() time.Time
}

func NewManager(cache repositories.CacheRepositoryInterface, ttl time.Duration) *Manager {
	return &Manager{cache: cache, ttl: ttl, now: time.Now}
}

func key(sessionID string) string {
	return "csrf:" + sessionID
}

func (m *Manager) GetOrCreate(ctx context.Context, sessionID string) (string, error) {
	raw, err := m.cache.Get(ctx, key(sessionID))
	if err == nil && raw != "" {
		var stored storedToken
		if err := json.Unmarshal([]byte(raw), &stored); err == nil && m.now().Before(stored.ExpiresAt) {
			return stored.Token, nil
		}
	}

	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}

	stored := storedToken{
		Token:     hex.EncodeToString(buf),
		ExpiresAt: m.now().Add(m.ttl),
	}
	data, err := json.Marshal(stored)
	if err != nil {
		return "", err
	}
	if err := m.cache.Set(ctx, key(sessionID), data, m.ttl); err != nil {
		return "", err
	}
	return stored.Token, nil
}

// Validate vérifie que le jeton fourni correspond à celui de la session
// et n'est pas expiré.
func (m *Manager) Validate(ctx context.Context, sessionID, token string) bool {
	if token == "" {
		return false
	}
	raw, err := m.cache.Get(ctx, key(sessionID))
	if err != nil || raw == "" {
		return false
	}
	var stored storedToken
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		return false
	}
	if !m.now().Before(stored.ExpiresAt) {
		return false
	}
	return stored.Token == token
}

func (m *Manager) Invalidate(ctx context.Context, sessionID string) error {
	return m.cache.Del(ctx, key(sessionID))
}
