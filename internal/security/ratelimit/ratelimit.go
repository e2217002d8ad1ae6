package ratelimit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Robou/miniloc/internal/repositories"
)

// Record compte les échecs de connexion d'un identifiant. LockoutUntil
// n'est renseigné qu'une fois le seuil atteint.
type Record struct {
	Attempts     int        `json:"attempts"`
	LastAttempt  time.Time  `json:"last_attempt"`
	LockoutUntil *time.Time `json:"lockout_until,omitempty"`
}

// Limiter verrouille un identifiant après un nombre d'échecs consécutifs.
// Les enregistrements inactifs depuis plus de staleAfter sont ignorés.
type Limiter struct {
	cache       repositories.CacheRepositoryInterface
	maxAttempts int
	lockout     time.Duration
	staleAfter  time.Duration
	now         func() time.Time
}

func NewLimiter(cache repositories.CacheRepositoryInterface, maxAttempts int, lockout time.Duration) *Limiter {
	return &Limiter{
		cache:       cache,
		maxAttempts: maxAttempts,
		lockout:     lockout,
		staleAfter:  24 * time.Hour,
		now:         time.Now,
	}
}

func key(identifier string) string {
	return "auth_attempts:" + identifier
}

func (l *Limiter) load(ctx context.Context, identifier string) *Record {
	raw, err := l.cache.Get(ctx, key(identifier))
	if err != nil || raw == "" {
		return nil
	}
	var record Record
	if err := json.Unmarshal([]byte(raw), &record); err != nil {
		return nil
	}
	if l.now().Sub(record.LastAttempt) > l.staleAfter {
		return nil
	}
	return &record
}

func (l *Limiter) save(ctx context.Context, identifier string, record *Record) error {
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}
	return l.cache.Set(ctx, key(identifier), data, l.staleAfter)
}

// IsLimited indique si l'identifiant est verrouillé, et pour combien de
// temps encore.
func (l *Limiter) IsLimited(ctx context.Context, identifier string) (bool, time.Duration) {
	record := l.load(ctx, identifier)
	if record == nil || record.LockoutUntil == nil {
		return false, 0
	}
	remaining := record.LockoutUntil.Sub(l.now())
	if remaining <= 0 {
		return false, 0
	}
	return true, remaining
}

// RecordFailure enregistre un échec et renvoie le nombre de tentatives
// cumulées. Le verrou est posé quand le seuil est atteint.
func (l *Limiter) RecordFailure(ctx context.Context, identifier string) (int, error) {
	record := l.load(ctx, identifier)
	if record == nil {
		record = &Record{}
	}
	record.Attempts++
	record.LastAttempt = l.now()
	if record.Attempts >= l.maxAttempts {
		until := l.now().Add(l.lockout)
		record.LockoutUntil = &until
	}
	if err := l.save(ctx, identifier, record); err != nil {
		return record.Attempts, err
	}
	return record.Attempts, nil
}

// Reset efface le compteur, typiquement après une connexion réussie.
func (l *Limiter) Reset(ctx context.Context, identifier string) error {
	return l.cache.Del(ctx, key(identifier))
}

// Info renvoie l'enregistrement courant, ou nil s'il n'y en a pas.
func (l *Limiter) Info(ctx context.Context, identifier string) *Record {
	return l.load(ctx, identifier)
}

// FormatLockout rend une durée de verrouillage lisible, ex. "14min 59s".
func FormatLockout(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d.Round(time.Second).Seconds())
	return fmt.Sprintf("%dmin %ds", total/60, total%60)
}
