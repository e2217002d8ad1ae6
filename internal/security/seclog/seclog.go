package seclog

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

type EventType string

const (
	FailedLogin        EventType = "failed_login"
	CSRFViolation      EventType = "csrf_violation"
	RateLimitExceeded  EventType = "rate_limit_exceeded"
	SuspiciousActivity EventType = "suspicious_activity"
	XSSAttempt         EventType = "xss_attempt"
	UnauthorizedAccess EventType = "unauthorized_access"
)

type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

type Entry struct {
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Message   string                 `json:"message"`
	Details   map[string]interface{} `json:"details"`
	Severity  Severity               `json:"severity"`
}

// Store persiste le journal complet à chaque ajout et le recharge au
// démarrage.
type Store interface {
	Load() ([]Entry, error)
	Save(entries []Entry) error
}

// Logger est le journal de sécurité : un anneau borné (les plus anciennes
// entrées sont évincées), persisté à chaque ajout et recopié vers zap au
// niveau correspondant à la sévérité.
type Logger struct {
	mu      sync.Mutex
	entries []Entry
	max     int
	store   Store
	zlog    *zap.Logger
	now     func() time.Time
}

func New(store Store, maxEntries int, zlog *zap.Logger) *Logger {
	l := &Logger{
		max:   maxEntries,
		store: store,
		zlog:  zlog,
		now:   time.Now,
	}

	entries, err := store.Load()
	if err != nil {
		zlog.Warn("Impossible de charger les journaux de sécurité", zap.Error(err))
		entries = nil
	}
	if len(entries) > maxEntries {
		entries = entries[len(entries)-maxEntries:]
	}
	l.entries = entries
	return l
}

func (l *Logger) Log(eventType EventType, message string, details map[string]interface{}, severity Severity) {
	if details == nil {
		details = map[string]interface{}{}
	}
	entry := Entry{
		Type:      eventType,
		Timestamp: l.now(),
		Message:   message,
		Details:   details,
		Severity:  severity,
	}

	l.mu.Lock()
	l.entries = append(l.entries, entry)
	if len(l.entries) > l.max {
		l.entries = l.entries[len(l.entries)-l.max:]
	}
	snapshot := make([]Entry, len(l.entries))
	copy(snapshot, l.entries)
	l.mu.Unlock()

	l.logToConsole(entry)

	if err := l.store.Save(snapshot); err != nil {
		l.zlog.Warn("Impossible de sauvegarder les journaux de sécurité", zap.Error(err))
	}
}

func (l *Logger) logToConsole(entry Entry) {
	msg := fmt.Sprintf("[SECURITY] %s: %s", entry.Type, entry.Message)
	fields := []zap.Field{
		zap.String("severity", string(entry.Severity)),
		zap.Any("details", entry.Details),
	}

	switch entry.Severity {
	case SeverityCritical, SeverityHigh:
		l.zlog.Error(msg, fields...)
	case SeverityMedium:
		l.zlog.Warn(msg, fields...)
	default:
		l.zlog.Info(msg, fields...)
	}
}

func (l *Logger) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// RecentEntries renvoie les entrées plus récentes que maxAge.
func (l *Logger) RecentEntries(maxAge time.Duration) []Entry {
	cutoff := l.now().Add(-maxAge)
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Entry, 0)
	for _, e := range l.entries {
		if e.Timestamp.After(cutoff) {
			out = append(out, e)
		}
	}
	return out
}

func (l *Logger) EntriesByType(eventType EventType) []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Entry, 0)
	for _, e := range l.entries {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}

func (l *Logger) CountsBySeverity() map[Severity]int {
	l.mu.Lock()
	defer l.mu.Unlock()
	counts := make(map[Severity]int)
	for _, e := range l.entries {
		counts[e.Severity]++
	}
	return counts
}

type Summary struct {
	TotalEntries     int               `json:"total_entries"`
	EntriesByType    map[EventType]int `json:"entries_by_type"`
	EntriesBySeverity map[Severity]int  `json:"entries_by_severity"`
	RecentEntries    []Entry           `json:"recent_entries"`
}

func (l *Logger) Summary() Summary {
	byType := make(map[EventType]int)
	for _, e := range l.Entries() {
		byType[e.Type]++
	}
	return Summary{
		TotalEntries:     len(l.Entries()),
		EntriesByType:    byType,
		EntriesBySeverity: l.CountsBySeverity(),
		RecentEntries:    l.RecentEntries(24 * time.Hour),
	}
}

// CleanupOlderThan supprime les entrées plus anciennes que l'âge donné et
// persiste le journal restant.
func (l *Logger) CleanupOlderThan(age time.Duration) {
	cutoff := l.now().Add(-age)

	l.mu.Lock()
	kept := make([]Entry, 0, len(l.entries))
	for _, e := range l.entries {
		if e.Timestamp.After(cutoff) {
			kept = append(kept, e)
		}
	}
	l.entries = kept
	snapshot := make([]Entry, len(kept))
	copy(snapshot, kept)
	l.mu.Unlock()

	if err := l.store.Save(snapshot); err != nil {
		l.zlog.Warn("Impossible de sauvegarder les journaux de sécurité", zap.Error(err))
	}
}

func (l *Logger) ExportJSON() ([]byte, error) {
	return json.MarshalIndent(l.Entries(), "", "  ")
}

// Raccourcis pour les événements courants.

func (l *Logger) LogFailedLogin(email, reason string) {
	l.Log(FailedLogin,
		fmt.Sprintf("Tentative de connexion échouée pour %s", email),
		map[string]interface{}{"email": email, "reason": reason},
		SeverityMedium)
}

func (l *Logger) LogCSRFViolation(details map[string]interface{}) {
	l.Log(CSRFViolation, "Violation de protection CSRF détectée", details, SeverityHigh)
}

func (l *Logger) LogRateLimitExceeded(email string, attempts int) {
	l.Log(RateLimitExceeded,
		fmt.Sprintf("Limite de tentatives dépassée pour %s", email),
		map[string]interface{}{"email": email, "attempts": attempts},
		SeverityHigh)
}

func (l *Logger) LogXSSAttempt(input string) {
	if len(input) > 100 {
		input = input[:100]
	}
	l.Log(XSSAttempt, "Tentative d'injection XSS détectée",
		map[string]interface{}{"input": input},
		SeverityCritical)
}

func (l *Logger) LogUnauthorizedAccess(details map[string]interface{}) {
	l.Log(UnauthorizedAccess, "Accès non autorisé", details, SeverityMedium)
}
