package accessgate

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memTokenStore struct {
	token   string
	readErr error
}

func (s *memTokenStore) Get() (string, error) { return s.token, s.readErr }

func (s *memTokenStore) Set(token string) error {
	s.token = token
	return nil
}

func (s *memTokenStore) Remove() error {
	s.token = ""
	return nil
}

type fakeConfigRepo struct {
	value string
	err   error
	calls int
}

func (r *fakeConfigRepo) GetValue(ctx context.Context, key string) (string, error) {
	r.calls++
	return r.value, r.err
}

func TestCheckMatchingToken(t *testing.T) {
	store := &memTokenStore{token: "jeton-club"}
	config := &fakeConfigRepo{value: "jeton-club"}
	gate := NewGate(store, config, zap.NewNop())

	assert.Equal(t, StateValid, gate.Check(context.Background()))
	assert.True(t, gate.IsValid())
}

func TestCheckMismatchedToken(t *testing.T) {
	store := &memTokenStore{token: "autre"}
	config := &fakeConfigRepo{value: "jeton-club"}
	gate := NewGate(store, config, zap.NewNop())

	assert.Equal(t, StateInvalid, gate.Check(context.Background()))
	assert.False(t, gate.IsValid())
}

func TestCheckWithoutLocalTokenSkipsRemoteFetch(t *testing.T) {
	store := &memTokenStore{}
	config := &fakeConfigRepo{value: "jeton-club"}
	gate := NewGate(store, config, zap.NewNop())

	assert.Equal(t, StateInvalid, gate.Check(context.Background()))
	assert.Equal(t, 0, config.calls)
}

func TestCheckFailsClosedOnConfigError(t *testing.T) {
	store := &memTokenStore{token: "jeton-club"}
	config := &fakeConfigRepo{err: errors.New("connexion perdue")}
	gate := NewGate(store, config, zap.NewNop())

	assert.Equal(t, StateInvalid, gate.Check(context.Background()))
}

func TestAuthorizeInstallsReferenceToken(t *testing.T) {
	store := &memTokenStore{}
	config := &fakeConfigRepo{value: "jeton-club"}
	gate := NewGate(store, config, zap.NewNop())

	state, err := gate.Authorize(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StateValid, state)
	assert.Equal(t, "jeton-club", store.token)
}

func TestDeauthorize(t *testing.T) {
	store := &memTokenStore{token: "jeton-club"}
	config := &fakeConfigRepo{value: "jeton-club"}
	gate := NewGate(store, config, zap.NewNop())
	gate.Check(context.Background())

	require.NoError(t, gate.Deauthorize())
	assert.False(t, gate.IsValid())
	assert.Equal(t, "", store.token)
}
