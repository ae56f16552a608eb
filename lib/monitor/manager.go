package monitor

import (
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/pollwatch/pollwatch/lib/df"
	"github.com/sirupsen/logrus"
)

var (
	// ErrDuplicate means a running session already covers this URL+numbers.
	ErrDuplicate = errors.New("monitor already running for this URL and number")
	ErrNotFound  = errors.New("no such monitor")
	// ErrNoNotifier means the manager was built without Twilio config.
	ErrNoNotifier = errors.New("notifier is not configured")
)

// Manager owns every session in the process. It replaces any notion of a
// process-global "current monitor": tests and callers each get their own.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	fetcher  Fetcher
	notifier Notifier
	log      *logrus.Entry
}

func NewManager(fetcher Fetcher, notifier Notifier, log *logrus.Entry) *Manager {
	if log == nil {
		log = df.Log
	}
	return &Manager{
		sessions: make(map[string]*Session),
		fetcher:  fetcher,
		notifier: notifier,
		log:      log,
	}
}

// Start validates the config, allocates a session, and sets its loop
// running. Config problems fail fast - no goroutine is created.
func (m *Manager) Start(cfg Config) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if m.notifier == nil {
		return nil, ErrNoNotifier
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	key := sessionKey(cfg)
	for _, s := range m.sessions {
		if s.Status() == StatusRunning && sessionKey(s.Config) == key {
			return nil, ErrDuplicate
		}
	}

	s := newSession(cfg, m.fetcher, m.notifier, m.log)
	m.sessions[s.ID] = s
	s.start()

	m.log.WithFields(logrus.Fields{
		"monitor.id": s.ID,
		"poll.url":   cfg.PollURL,
	}).Info("Monitor started")
	return s, nil
}

// Stop ends the session and removes it from the registry.
func (m *Manager) Stop(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return ErrNotFound
	}
	s.Stop()
	delete(m.sessions, id)

	m.log.WithField("monitor.id", id).Info("Monitor stopped")
	return nil
}

func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	return s, ok
}

// List returns snapshots of every known session, oldest first.
func (m *Manager) List() []Snapshot {
	m.mu.Lock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.mu.Unlock()

	out := make([]Snapshot, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, s.Snapshot())
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].StartedAt.Before(out[j].StartedAt)
	})
	return out
}

// StopAll ends every session and waits for the loops to exit.
func (m *Manager) StopAll() {
	m.mu.Lock()
	sessions := make([]*Session, 0, len(m.sessions))
	for id, s := range m.sessions {
		sessions = append(sessions, s)
		delete(m.sessions, id)
	}
	m.mu.Unlock()

	for _, s := range sessions {
		s.Stop()
	}
	for _, s := range sessions {
		<-s.Done()
	}
}

func sessionKey(cfg Config) string {
	return cfg.PollURL + "|" + strings.Join(cfg.Numbers, ",")
}
