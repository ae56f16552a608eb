package monitor

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

var (
	ErrMissingURL    = errors.New("poll URL is required")
	ErrBadURL        = errors.New("poll URL must be an http(s) URL")
	ErrMissingNumber = errors.New("at least one destination phone number is required")
	ErrBadInterval   = errors.New("check interval must be positive")
)

func init() {
	viper.SetDefault("interval.sec", 30)
}

// Config describes one monitoring session. Immutable once the session starts.
type Config struct {
	PollURL  string
	Numbers  []string
	Interval time.Duration
	// Name is the page owner's display name pulled from the URL path,
	// spoken in the call message. May be empty.
	Name string
}

// NewConfig assembles a Config from raw user input. toNumbers may be a
// single number or a comma-separated list.
func NewConfig(pollURL, toNumbers string, interval time.Duration) Config {
	return Config{
		PollURL:  strings.TrimSpace(pollURL),
		Numbers:  SplitNumbers(toNumbers),
		Interval: interval,
		Name:     NameFromURL(pollURL),
	}
}

// ConfigFromViper builds the single-session config the watch command uses
// from POLL_URL / TWILIO_TO_NUMBER / INTERVAL_SEC.
func ConfigFromViper() (Config, error) {
	cfg := NewConfig(viper.GetString("poll.url"), viper.GetString("twilio.to"), Interval())
	return cfg, cfg.Validate()
}

//Interval reads the configured check interval, in whole seconds
func Interval() time.Duration {
	secs := viper.GetInt("interval.sec")
	if secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

func (c Config) Validate() error {
	if c.PollURL == "" {
		return ErrMissingURL
	}
	u, err := url.Parse(c.PollURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %q", ErrBadURL, c.PollURL)
	}
	if len(c.Numbers) == 0 {
		return ErrMissingNumber
	}
	if c.Interval <= 0 {
		return ErrBadInterval
	}
	return nil
}

// SplitNumbers turns "+15551234567, +15559876543" into its parts.
func SplitNumbers(raw string) []string {
	parts := strings.Split(raw, ",")
	numbers := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			numbers = append(numbers, p)
		}
	}
	return numbers
}

// NameFromURL extracts the page owner's name from a poll URL, e.g. "alice"
// from "https://pe.app/alice". Returns "" when there is no path.
func NameFromURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	path := strings.Trim(u.Path, "/")
	if path == "" {
		return ""
	}
	segs := strings.Split(path, "/")
	return segs[len(segs)-1]
}
