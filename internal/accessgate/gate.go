package accessgate

import (
	"context"
	"sync"

	"github.com/Robou/miniloc/internal/repositories"

	"go.uber.org/zap"
)

type State int

const (
	StateUnknown State = iota
	StateValid
	StateInvalid
)

// Gate vérifie que le service tourne sur l'ordinateur du club : le jeton
// local doit correspondre au jeton de référence stocké en base. Sans
// jeton local, l'accès est refusé sans interroger la base. En cas
// d'erreur de vérification, l'accès est refusé.
type Gate struct {
	mu     sync.RWMutex
	state  State
	store  TokenStore
	config repositories.ConfigRepositoryInterface
	logger *zap.Logger
}

func NewGate(store TokenStore, config repositories.ConfigRepositoryInterface, logger *zap.Logger) *Gate {
	return &Gate{
		state:  StateUnknown,
		store:  store,
		config: config,
		logger: logger,
	}
}

// Check évalue le jeton local contre le jeton de référence et mémorise
// le résultat.
func (g *Gate) Check(ctx context.Context) State {
	local, err := g.store.Get()
	if err != nil {
		g.logger.Warn("Lecture du jeton local impossible", zap.Error(err))
		return g.setState(StateInvalid)
	}
	if local == "" {
		return g.setState(StateInvalid)
	}

	reference, err := g.config.GetValue(ctx, repositories.ClubTokenKey)
	if err != nil {
		g.logger.Warn("Lecture du jeton de référence impossible", zap.Error(err))
		return g.setState(StateInvalid)
	}

	if local == reference {
		return g.setState(StateValid)
	}
	g.logger.Warn("Jeton local différent du jeton de référence")
	return g.setState(StateInvalid)
}

func (g *Gate) setState(state State) State {
	g.mu.Lock()
	g.state = state
	g.mu.Unlock()
	return state
}

func (g *Gate) State() State {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.state
}

func (g *Gate) IsValid() bool {
	return g.State() == StateValid
}

// Authorize installe le jeton de référence en local puis revérifie.
func (g *Gate) Authorize(ctx context.Context) (State, error) {
	reference, err := g.config.GetValue(ctx, repositories.ClubTokenKey)
	if err != nil {
		return g.setState(StateInvalid), err
	}
	if err := g.store.Set(reference); err != nil {
		return g.setState(StateInvalid), err
	}
	return g.Check(ctx), nil
}

// Deauthorize retire le jeton local.
func (g *Gate) Deauthorize() error {
	if err := g.store.Remove(); err != nil {
		return err
	}
	g.setState(StateInvalid)
	return nil
}
