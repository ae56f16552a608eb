package notify

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/pollwatch/pollwatch/lib/df"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"github.com/twilio/twilio-go"
	twilioapi "github.com/twilio/twilio-go/rest/api/v2010"
)

// Caller places one outbound voice call and returns the vendor call SID.
type Caller interface {
	Call(ctx context.Context, to, callbackURL string) (string, error)
}

// TwilioCaller is the real Caller, backed by Twilio's call-creation API.
type TwilioCaller struct {
	client *twilio.RestClient
	from   string
	log    *logrus.Entry
}

func NewTwilioCaller(sid, token, from string, log *logrus.Entry) *TwilioCaller {
	if log == nil {
		log = df.Log
	}
	return &TwilioCaller{
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: sid,
			Password: token,
		}),
		from: from,
		log:  log,
	}
}

func (t *TwilioCaller) Call(ctx context.Context, to, callbackURL string) (string, error) {
	params := &twilioapi.CreateCallParams{}
	params.SetTo(to)
	params.SetFrom(t.from)
	params.SetUrl(callbackURL)
	params.SetMethod("GET")

	call, err := t.client.Api.CreateCall(params)
	if err != nil {
		return "", err
	}

	sid := ""
	if call.Sid != nil {
		sid = *call.Sid
	}
	t.log.WithFields(logrus.Fields{
		"call.sid": sid,
		"call.to":  to,
	}).Info("Phone call initiated")
	return sid, nil
}

// VoiceSender rings every destination number, with the message carried to the
// TwiML endpoint as a query parameter so the vendor can speak it.
type VoiceSender struct {
	caller   Caller
	twimlURL string
	log      *logrus.Entry
}

func NewVoiceSender(caller Caller, twimlURL string, log *logrus.Entry) *VoiceSender {
	if log == nil {
		log = df.Log
	}
	return &VoiceSender{
		caller:   caller,
		twimlURL: twimlURL,
		log:      log,
	}
}

func newVoiceSenderFromConfig(log *logrus.Entry) (Sender, error) {
	sid, token, from, err := twilioFromConfig()
	if err != nil {
		return nil, err
	}
	twimlURL := viper.GetString("twilio.twiml")
	if twimlURL == "" {
		return nil, fmt.Errorf("%w: missing TWILIO_TWIML_URL", ErrNotConfigured)
	}
	return NewVoiceSender(NewTwilioCaller(sid, token, from, log), twimlURL, log), nil
}

func (v *VoiceSender) Name() string { return "call" }

// Send dials every number in parallel.
func (v *VoiceSender) Send(ctx context.Context, numbers []string, message string) error {
	cbURL := callbackURL(v.twimlURL, message)
	log := v.log.WithFields(logrus.Fields{
		"numbers.len": len(numbers),
		"message":     message,
	})
	log.Info("Making phone calls")

	var wg sync.WaitGroup
	var mu sync.Mutex
	failed := 0
	for _, number := range numbers {
		wg.Add(1)
		go func(to string) {
			defer wg.Done()
			if _, err := v.caller.Call(ctx, to, cbURL); err != nil {
				log.WithError(err).WithField("call.to", to).Error("Failed to place call")
				mu.Lock()
				failed++
				mu.Unlock()
			}
		}(number)
	}
	wg.Wait()

	if failed > 0 {
		return fmt.Errorf("%d of %d calls failed", failed, len(numbers))
	}
	return nil
}

func callbackURL(base, message string) string {
	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
	}
	return base + sep + "message=" + url.QueryEscape(message)
}
