// Package notify fans poll notifications out over the configured channels:
// Twilio voice calls, Twilio SMS, and Telegram messages.
package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pollwatch/pollwatch/lib/df"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Reason is why a notification fired.
type Reason string

const (
	ReasonNewActivity Reason = "new-activity"
	ReasonAccepting   Reason = "accepting"
)

var (
	// ErrNotConfigured means a required setting for an enabled channel is missing.
	ErrNotConfigured = errors.New("notification channel is not configured")
	// ErrUnknownChannel means NOTIFY_CHANNELS names a channel we don't have.
	ErrUnknownChannel = errors.New("unknown notification channel")
)

func init() {
	viper.SetDefault("notify.channels", "call")
}

// Sender delivers one notification over a single channel.
type Sender interface {
	Name() string
	Send(ctx context.Context, numbers []string, message string) error
}

// Notifier runs every configured channel for each notification. Failures are
// soft: logged, and reported back as a single error.
type Notifier struct {
	senders []Sender
	log     *logrus.Entry
}

// New builds a Notifier with the channels named in NOTIFY_CHANNELS (comma
// separated: call, sms, telegram). Every named channel must be fully
// configured or construction fails.
func New(log *logrus.Entry) (*Notifier, error) {
	if log == nil {
		log = df.Log
	}

	names := splitChannels(viper.GetString("notify.channels"))
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: NOTIFY_CHANNELS is empty", ErrNotConfigured)
	}

	senders := make([]Sender, 0, len(names))
	for _, name := range names {
		var (
			s   Sender
			err error
		)
		switch name {
		case "call":
			s, err = newVoiceSenderFromConfig(log)
		case "sms":
			s, err = newSMSSenderFromConfig(log)
		case "telegram":
			s, err = newTelegramSenderFromConfig(log)
		default:
			return nil, fmt.Errorf("%w: %q", ErrUnknownChannel, name)
		}
		if err != nil {
			return nil, err
		}
		senders = append(senders, s)
	}
	return NewNotifier(log, senders...), nil
}

// NewNotifier wires explicit senders - tests hand in fakes here.
func NewNotifier(log *logrus.Entry, senders ...Sender) *Notifier {
	if log == nil {
		log = df.Log
	}
	return &Notifier{
		senders: senders,
		log:     log,
	}
}

// Notify pushes the message through every channel. One channel failing does
// not stop the others.
func (n *Notifier) Notify(ctx context.Context, numbers []string, message string) error {
	var errs []error
	for _, s := range n.senders {
		if err := s.Send(ctx, numbers, message); err != nil {
			n.log.WithError(err).WithField("channel", s.Name()).Error("Notification channel failed")
			errs = append(errs, fmt.Errorf("%s: %w", s.Name(), err))
		}
	}
	return errors.Join(errs...)
}

func splitChannels(raw string) []string {
	parts := strings.Split(raw, ",")
	names := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.ToLower(strings.TrimSpace(p)); p != "" {
			names = append(names, p)
		}
	}
	return names
}

// twilioFromConfig reads the account settings both Twilio channels share.
func twilioFromConfig() (sid, token, from string, err error) {
	sid = viper.GetString("twilio.sid")
	token = viper.GetString("twilio.token")
	from = viper.GetString("twilio.from")

	missing := []string{}
	if sid == "" {
		missing = append(missing, "TWILIO_ACCOUNT_SID")
	}
	if token == "" {
		missing = append(missing, "TWILIO_AUTH_TOKEN")
	}
	if from == "" {
		missing = append(missing, "TWILIO_FROM_NUMBER")
	}
	if len(missing) > 0 {
		return "", "", "", fmt.Errorf("%w: missing %s", ErrNotConfigured, strings.Join(missing, ", "))
	}
	return sid, token, from, nil
}

// FormatMessage builds the notification text. Preference order is the page
// owner's name from the URL, then the poll title, then a generic line.
func FormatMessage(name, title string, reason Reason) string {
	subject := name
	if subject == "" {
		subject = title
	}
	switch reason {
	case ReasonAccepting:
		if subject != "" {
			return fmt.Sprintf("%s poll is now accepting responses. Go check it out!", subject)
		}
		return "A poll is now accepting responses. Go check it out!"
	default:
		if subject != "" {
			return fmt.Sprintf("%s has just posted a poll. Go check it out!", subject)
		}
		return "A new poll has just been posted. Go check it out!"
	}
}
