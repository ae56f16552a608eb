// Package twiml renders the voice-script documents Twilio fetches from the
// callback URL during call setup. Rendering is delegated to the SDK's twiml
// package; this wrapper just applies the configured voice settings.
package twiml

import (
	"github.com/spf13/viper"
	twilioml "github.com/twilio/twilio-go/twiml"
)

func init() {
	viper.SetDefault("say.voice", "alice")
	viper.SetDefault("say.language", "en-US")
}

// Voice builds a say-then-hangup document for the given message.
func Voice(message string) ([]byte, error) {
	say := &twilioml.VoiceSay{
		Message:  message,
		Voice:    viper.GetString("say.voice"),
		Language: viper.GetString("say.language"),
	}
	doc, err := twilioml.Voice([]twilioml.Element{say, &twilioml.VoiceHangup{}})
	if err != nil {
		return nil, err
	}
	return []byte(doc), nil
}
