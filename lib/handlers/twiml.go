package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pollwatch/pollwatch/lib/df"
	"github.com/pollwatch/pollwatch/lib/twiml"
	"github.com/spf13/viper"
)

func init() {
	viper.SetDefault("twiml.default", "Poll Everywhere notification. A new poll is active.")
}

// TwiML answers Twilio's call-setup fetch with the spoken-message document.
// The message rides in on the query string; without one we say the default.
func TwiML(c *gin.Context) {
	log := df.Log.WithContext(c)

	message := c.Query("message")
	if message == "" {
		message = viper.GetString("twiml.default")
	}

	doc, err := twiml.Voice(message)
	if err != nil {
		log.WithError(err).Error("Problem building TwiML document")
		c.JSON(http.StatusInternalServerError, NewErrorResp(err, "Couldn't build TwiML"))
		return
	}

	log.WithField("twiml.message", message).Debug("Serving TwiML")
	c.Data(http.StatusOK, "text/xml; charset=utf-8", doc)
}
