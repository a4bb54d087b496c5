package session

import (
	"sync"
	"time"

	"github.com/bizmatters/agent-builder/sdv-studio/internal/models"
)

// maxNotices bounds the notice history kept per session.
const maxNotices = 50

// Session is the explicit state object of one studio user.
type Session struct {
	ID        string
	CreatedAt time.Time
	Artifacts *Store

	mu          sync.RWMutex
	lastSeen    time.Time
	signals     []models.SignalRecord
	credentials map[string]string
	service     *models.GeneratedServiceContext
	notices     []models.Notice
	running     bool
}

func newSession(id string, now time.Time) *Session {
	return &Session{
		ID:          id,
		CreatedAt:   now,
		Artifacts:   NewStore(),
		lastSeen:    now,
		credentials: make(map[string]string),
	}
}

// Touch records activity.
func (s *Session) Touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

// LastSeen returns the time of the most recent activity.
func (s *Session) LastSeen() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastSeen
}

// SetSignals replaces the imported signal list.
func (s *Session) SetSignals(signals []models.SignalRecord) {
	s.mu.Lock()
	s.signals = append([]models.SignalRecord(nil), signals...)
	s.mu.Unlock()
}

// Signals returns a copy of the imported signals.
func (s *Session) Signals() []models.SignalRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.SignalRecord{}, s.signals...)
}

// SetCredential stores a per-session credential override. An empty value
// removes it.
func (s *Session) SetCredential(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if value == "" {
		delete(s.credentials, key)
		return
	}
	s.credentials[key] = value
}

// Credentials returns a copy of the overrides.
func (s *Session) Credentials() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]string, len(s.credentials))
	for k, v := range s.credentials {
		out[k] = v
	}
	return out
}

// SetServiceContext replaces the generated service context.
func (s *Session) SetServiceContext(ctx models.GeneratedServiceContext) {
	s.mu.Lock()
	s.service = &ctx
	s.mu.Unlock()
}

// ServiceContext returns the last completed run summary, if any.
func (s *Session) ServiceContext() (models.GeneratedServiceContext, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.service == nil {
		return models.GeneratedServiceContext{}, false
	}
	return *s.service, true
}

// AddNotice appends a notice, dropping the oldest past the limit.
func (s *Session) AddNotice(n models.Notice) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notices = append(s.notices, n)
	if len(s.notices) > maxNotices {
		s.notices = s.notices[len(s.notices)-maxNotices:]
	}
}

// Notices returns a copy of the notice history.
func (s *Session) Notices() []models.Notice {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Notice{}, s.notices...)
}

// TryStartRun marks a pipeline run as active. It returns false if one is
// already running.
func (s *Session) TryStartRun() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return false
	}
	s.running = true
	return true
}

// EndRun clears the active-run mark.
func (s *Session) EndRun() {
	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
}
