package notify

import (
	"context"
	"fmt"
	"sync"

	"github.com/pollwatch/pollwatch/lib/df"
	"github.com/sirupsen/logrus"
	"github.com/twilio/twilio-go"
	twilioapi "github.com/twilio/twilio-go/rest/api/v2010"
)

// Texter sends one outbound SMS and returns the vendor message SID.
type Texter interface {
	Text(ctx context.Context, to, body string) (string, error)
}

// TwilioTexter is the real Texter, backed by Twilio's message-creation API.
type TwilioTexter struct {
	client *twilio.RestClient
	from   string
	log    *logrus.Entry
}

func NewTwilioTexter(sid, token, from string, log *logrus.Entry) *TwilioTexter {
	if log == nil {
		log = df.Log
	}
	return &TwilioTexter{
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: sid,
			Password: token,
		}),
		from: from,
		log:  log,
	}
}

func (t *TwilioTexter) Text(ctx context.Context, to, body string) (string, error) {
	params := &twilioapi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(t.from)
	params.SetBody(body)

	msg, err := t.client.Api.CreateMessage(params)
	if err != nil {
		return "", err
	}

	sid := ""
	if msg.Sid != nil {
		sid = *msg.Sid
	}
	t.log.WithFields(logrus.Fields{
		"sms.sid": sid,
		"sms.to":  to,
	}).Info("SMS sent")
	return sid, nil
}

// SMSSender texts every destination number the notification message.
type SMSSender struct {
	texter Texter
	log    *logrus.Entry
}

func NewSMSSender(texter Texter, log *logrus.Entry) *SMSSender {
	if log == nil {
		log = df.Log
	}
	return &SMSSender{
		texter: texter,
		log:    log,
	}
}

func newSMSSenderFromConfig(log *logrus.Entry) (Sender, error) {
	sid, token, from, err := twilioFromConfig()
	if err != nil {
		return nil, err
	}
	return NewSMSSender(NewTwilioTexter(sid, token, from, log), log), nil
}

func (s *SMSSender) Name() string { return "sms" }

// Send texts every number in parallel.
func (s *SMSSender) Send(ctx context.Context, numbers []string, message string) error {
	log := s.log.WithFields(logrus.Fields{
		"numbers.len": len(numbers),
		"message":     message,
	})
	log.Info("Sending SMS")

	var wg sync.WaitGroup
	var mu sync.Mutex
	failed := 0
	for _, number := range numbers {
		wg.Add(1)
		go func(to string) {
			defer wg.Done()
			if _, err := s.texter.Text(ctx, to, message); err != nil {
				log.WithError(err).WithField("sms.to", to).Error("Failed to send SMS")
				mu.Lock()
				failed++
				mu.Unlock()
			}
		}(number)
	}
	wg.Wait()

	if failed > 0 {
		return fmt.Errorf("%d of %d texts failed", failed, len(numbers))
	}
	return nil
}
