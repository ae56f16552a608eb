package monitor

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pollwatch/pollwatch/lib/detect"
	"github.com/pollwatch/pollwatch/lib/fetch"
	"github.com/pollwatch/pollwatch/lib/metrics"
	"github.com/pollwatch/pollwatch/lib/notify"
	"github.com/sirupsen/logrus"
)

// Status of a session: idle until started, running on its loop goroutine,
// stopped forever after.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusRunning Status = "running"
	StatusStopped Status = "stopped"
)

// Fetcher is what the loop needs from lib/fetch.
type Fetcher interface {
	Get(ctx context.Context, url, etag, lastModified string) (*fetch.Result, error)
}

// Notifier is what the loop needs from lib/notify.
type Notifier interface {
	Notify(ctx context.Context, numbers []string, message string) error
}

// State is the loop's per-tick memory. Owned by the loop goroutine; guarded
// only so Snapshot can read it.
type State struct {
	// LastActivityID is the activity we already phoned about. A new id is
	// the rising edge.
	LastActivityID string
	// AlertedAcceptingID is the activity we phoned about specifically for
	// flipping to accepting-responses.
	AlertedAcceptingID string
	ETag               string
	LastModified       string
	LastCheck          time.Time
	Errors             int
}

// Snapshot is the read-only view of a session the status API serves.
type Snapshot struct {
	ID           string
	PollURL      string
	Numbers      []string
	Name         string
	Status       Status
	StartedAt    time.Time
	LastCheck    time.Time
	LastActivity string
	Errors       int
}

// Session is one fetch→detect→notify loop for one page and number set.
type Session struct {
	ID        string
	Config    Config
	StartedAt time.Time

	fetcher  Fetcher
	notifier Notifier
	log      *logrus.Entry

	mu     sync.Mutex
	status Status
	state  State

	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

func newSession(cfg Config, fetcher Fetcher, notifier Notifier, log *logrus.Entry) *Session {
	id := uuid.NewString()
	return &Session{
		ID:       id,
		Config:   cfg,
		fetcher:  fetcher,
		notifier: notifier,
		log: log.WithFields(logrus.Fields{
			"monitor.id": id,
			"poll.url":   cfg.PollURL,
		}),
		status: StatusIdle,
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
}

func (s *Session) start() {
	s.mu.Lock()
	s.status = StatusRunning
	s.StartedAt = time.Now()
	s.mu.Unlock()
	go s.run()
}

// Stop ends the loop before its next fetch. Safe to call more than once;
// returns without waiting for the loop to exit (use Done for that).
func (s *Session) Stop() {
	s.stopOnce.Do(func() {
		close(s.stop)
	})
}

// Done is closed once the loop goroutine has exited.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		ID:           s.ID,
		PollURL:      s.Config.PollURL,
		Numbers:      s.Config.Numbers,
		Name:         s.Config.Name,
		Status:       s.status,
		StartedAt:    s.StartedAt,
		LastCheck:    s.state.LastCheck,
		LastActivity: s.state.LastActivityID,
		Errors:       s.state.Errors,
	}
}

func (s *Session) run() {
	defer close(s.done)

	ticker := time.NewTicker(s.Config.Interval)
	defer ticker.Stop()

	ctx := context.Background()

	// First check right away, not an interval from now
	s.check(ctx)

	for {
		select {
		case <-s.stop:
			s.mu.Lock()
			s.status = StatusStopped
			s.mu.Unlock()
			s.log.Info("Monitor stopped")
			return
		case <-ticker.C:
			s.check(ctx)
		}
	}
}

// check runs one tick. Never returns an error: transport and detection
// problems are logged and the loop just waits for the next tick.
func (s *Session) check(ctx context.Context) {
	s.mu.Lock()
	st := s.state
	s.mu.Unlock()

	res, err := s.fetcher.Get(ctx, s.Config.PollURL, st.ETag, st.LastModified)
	if err != nil {
		// Edge state is preserved on purpose: a connectivity blip must not
		// re-ring the phone for a poll that never closed.
		metrics.Checks.WithLabelValues("fetch-error").Inc()
		s.log.WithError(err).Warn("Check failed - retrying next tick")
		s.mu.Lock()
		s.state.Errors++
		s.state.LastCheck = time.Now()
		s.mu.Unlock()
		return
	}

	if res.NotModified {
		metrics.Checks.WithLabelValues("not-modified").Inc()
		s.log.Trace("Page unchanged")
		s.mu.Lock()
		s.state.LastCheck = time.Now()
		s.mu.Unlock()
		return
	}
	metrics.Checks.WithLabelValues("ok").Inc()

	if res.ETag != "" {
		st.ETag = res.ETag
	}
	if res.LastModified != "" {
		st.LastModified = res.LastModified
	}
	st.LastCheck = time.Now()

	act, ok := detect.Scan(res.Body)
	if !ok {
		if st.LastActivityID != "" {
			// Poll went down - clear the edge so the next one notifies
			s.log.Debug("Poll is down - armed for the next activation")
			st.LastActivityID = ""
			st.AlertedAcceptingID = ""
		}
		s.setState(st)
		return
	}

	log := s.log.WithFields(logrus.Fields{
		"activity.id":        act.ID,
		"activity.kind":      act.Kind,
		"activity.accepting": act.Accepting,
		"activity.title":     act.Title,
	})
	log.Debug("Detected activity")

	var reason notify.Reason
	switch {
	case act.ID != st.LastActivityID:
		reason = notify.ReasonNewActivity
	case act.Accepting && st.AlertedAcceptingID != act.ID:
		reason = notify.ReasonAccepting
	}

	if reason == "" {
		if !act.Accepting && st.AlertedAcceptingID == act.ID {
			// Locked again - re-unlocking should ring again
			log.Debug("Activity locked - clearing accepting alert flag")
			st.AlertedAcceptingID = ""
		}
		s.setState(st)
		return
	}

	// Record the activity as seen before placing the call: a failed call is
	// retried on the next rising edge, not on the next tick.
	metrics.Detections.Inc()
	st.LastActivityID = act.ID
	if act.Accepting {
		st.AlertedAcceptingID = act.ID
	}
	s.setState(st)

	msg := notify.FormatMessage(s.Config.Name, act.Title, reason)
	log.WithField("reason", reason).Info("Poll is live - notifying")
	if err := s.notifier.Notify(ctx, s.Config.Numbers, msg); err != nil {
		metrics.Calls.WithLabelValues("error").Inc()
		log.WithError(err).Error("Notification failed")
		s.mu.Lock()
		s.state.Errors++
		s.mu.Unlock()
		return
	}
	metrics.Calls.WithLabelValues("ok").Inc()
}

func (s *Session) setState(st State) {
	s.mu.Lock()
	// Errors is bumped outside the tick flow too, keep the running total
	st.Errors = s.state.Errors
	s.state = st
	s.mu.Unlock()
}
