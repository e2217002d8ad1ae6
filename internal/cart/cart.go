package cart

import (
	"errors"
	"sync"

	"github.com/Robou/miniloc/internal/entities"
)

var (
	// ErrCartNotEmpty est renvoyé quand on tente de changer de mode
	// alors que le panier contient encore des articles.
	ErrCartNotEmpty = errors.New("videz le panier avant de changer de mode")
	// ErrWrongKind est renvoyé quand l'article ne correspond pas au
	// mode courant de la session.
	ErrWrongKind = errors.New("l'article ne correspond pas au mode courant")
)

type session struct {
	mode  entities.Mode
	items []entities.Item
}

// Store tient les paniers en mémoire, un par session.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*session
}

func NewStore() *Store {
	return &Store{sessions: make(map[string]*session)}
}

func (s *Store) session(sessionID string) *session {
	sess, ok := s.sessions[sessionID]
	if !ok {
		sess = &session{mode: entities.ModeEquipment}
		s.sessions[sessionID] = sess
	}
	return sess
}

// Add ajoute un article au panier. Un article déjà présent est ignoré.
func (s *Store) Add(sessionID string, item entities.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.session(sessionID)
	if item.Kind != entities.KindForMode(sess.mode) {
		return ErrWrongKind
	}
	for _, existing := range sess.items {
		if existing.ID == item.ID {
			return nil
		}
	}
	sess.items = append(sess.items, item)
	return nil
}

func (s *Store) Remove(sessionID string, itemID uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.session(sessionID)
	for i, item := range sess.items {
		if item.ID == itemID {
			sess.items = append(sess.items[:i], sess.items[i+1:]...)
			return
		}
	}
}

func (s *Store) Clear(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session(sessionID).items = nil
}

func (s *Store) Items(sessionID string) []entities.Item {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.session(sessionID)
	items := make([]entities.Item, len(sess.items))
	copy(items, sess.items)
	return items
}

func (s *Store) Mode(sessionID string) entities.Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session(sessionID).mode
}

// SetMode change le mode de la session. Le changement est refusé tant
// que le panier n'est pas vide.
func (s *Store) SetMode(sessionID string, mode entities.Mode) error {
	if !mode.Valid() {
		return entities.ErrInvalidMode
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.session(sessionID)
	if sess.mode == mode {
		return nil
	}
	if len(sess.items) > 0 {
		return ErrCartNotEmpty
	}
	sess.mode = mode
	return nil
}
