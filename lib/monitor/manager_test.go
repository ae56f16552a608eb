package monitor

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLog() *logrus.Entry {
	l := logrus.New()
	l.SetLevel(logrus.ErrorLevel)
	return logrus.NewEntry(l)
}

func testManager() (*Manager, *recordingNotifier) {
	n := &recordingNotifier{}
	f := &scriptedFetcher{steps: []step{body(idleDoc)}}
	return NewManager(f, n, testLog()), n
}

func TestManagerStartAndList(t *testing.T) {
	m, _ := testManager()
	defer m.StopAll()

	sess, err := m.Start(testConfig())
	require.NoError(t, err)
	require.NotEmpty(t, sess.ID)

	snaps := m.List()
	require.Len(t, snaps, 1)
	assert.Equal(t, sess.ID, snaps[0].ID)
	assert.Equal(t, "https://pe.app/alice", snaps[0].PollURL)
	assert.Equal(t, "alice", snaps[0].Name)
	assert.Equal(t, StatusRunning, snaps[0].Status)
}

func TestManagerRejectsBadConfig(t *testing.T) {
	m, _ := testManager()
	defer m.StopAll()

	cfg := testConfig()
	cfg.Numbers = nil
	_, err := m.Start(cfg)
	require.ErrorIs(t, err, ErrMissingNumber)
	// Fail fast: no session, no loop
	assert.Empty(t, m.List())
}

func TestManagerRejectsDuplicate(t *testing.T) {
	m, _ := testManager()
	defer m.StopAll()

	_, err := m.Start(testConfig())
	require.NoError(t, err)

	_, err = m.Start(testConfig())
	assert.ErrorIs(t, err, ErrDuplicate)

	// A different number for the same page is its own session
	other := testConfig()
	other.Numbers = []string{"+15559876543"}
	_, err = m.Start(other)
	assert.NoError(t, err)
}

func TestManagerStop(t *testing.T) {
	m, _ := testManager()
	defer m.StopAll()

	sess, err := m.Start(testConfig())
	require.NoError(t, err)

	require.NoError(t, m.Stop(sess.ID))
	assert.Empty(t, m.List())

	assert.ErrorIs(t, m.Stop(sess.ID), ErrNotFound)

	select {
	case <-sess.Done():
	case <-time.After(time.Second):
		t.Fatal("session loop did not exit")
	}
}

func TestManagerWithoutNotifier(t *testing.T) {
	f := &scriptedFetcher{steps: []step{body(idleDoc)}}
	m := NewManager(f, nil, testLog())

	_, err := m.Start(testConfig())
	assert.ErrorIs(t, err, ErrNoNotifier)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name string
		mut  func(*Config)
		want error
	}{
		{"missing url", func(c *Config) { c.PollURL = "" }, ErrMissingURL},
		{"non-http url", func(c *Config) { c.PollURL = "ftp://pe.app/alice" }, ErrBadURL},
		{"missing number", func(c *Config) { c.Numbers = nil }, ErrMissingNumber},
		{"zero interval", func(c *Config) { c.Interval = 0 }, ErrBadInterval},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mut(&cfg)
			assert.ErrorIs(t, cfg.Validate(), tt.want)
		})
	}

	assert.NoError(t, testConfig().Validate())
}

func TestNameFromURL(t *testing.T) {
	assert.Equal(t, "alice", NameFromURL("https://pe.app/alice"))
	assert.Equal(t, "alice", NameFromURL("https://pe.app/alice/"))
	assert.Equal(t, "deck", NameFromURL("https://polleverywhere.com/bob/deck"))
	assert.Equal(t, "", NameFromURL("https://pe.app"))
	assert.Equal(t, "", NameFromURL("://not a url"))
}

func TestSplitNumbers(t *testing.T) {
	assert.Equal(t, []string{"+1555", "+1666"}, SplitNumbers("+1555, +1666"))
	assert.Equal(t, []string{"+1555"}, SplitNumbers("+1555"))
	assert.Empty(t, SplitNumbers(" , "))
	assert.Empty(t, SplitNumbers(""))
}
