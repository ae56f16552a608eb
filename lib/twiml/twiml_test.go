package twiml

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVoice(t *testing.T) {
	doc, err := Voice("alice has just posted a poll. Go check it out!")
	require.NoError(t, err)

	out := string(doc)
	assert.True(t, strings.HasPrefix(out, `<?xml version="1.0" encoding="UTF-8"?>`))
	assert.Contains(t, out, `voice="alice"`)
	assert.Contains(t, out, `language="en-US"`)
	assert.Contains(t, out, ">alice has just posted a poll. Go check it out!</Say>")
	assert.Contains(t, out, "<Hangup/>")
}

func TestVoiceEscapesMessage(t *testing.T) {
	doc, err := Voice(`polls & <scripts>`)
	require.NoError(t, err)

	out := string(doc)
	assert.Contains(t, out, "polls &amp; &lt;scripts&gt;")
	assert.NotContains(t, out, "<scripts>")
}
