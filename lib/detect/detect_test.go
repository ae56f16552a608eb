package detect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const choicePollDoc = `<html><body>
<h1>What's your favorite color?</h1>
<div id="response_root_question_933456047">
  <form action="/a/questions/933456047/responses" method="post">
    <button>Submit response</button>
  </form>
</div>
</body></html>`

const textPollDoc = `<html><body>
<h2>Tell us what you think</h2>
<div id="all_submissions_question_933455006"></div>
<p>You may respond now.</p>
</body></html>`

const waitingDoc = `<html><body>
<h1>alice's presentation</h1>
<p>Waiting for the presenter to push a new activity</p>
</body></html>`

const turboFrameDoc = `<html><body>
<turbo-frame id="respond" src="/multiple_choice_polls/abc123xyz/respond"></turbo-frame>
</body></html>`

func TestScanChoicePoll(t *testing.T) {
	act, ok := Scan(choicePollDoc)
	require.True(t, ok)
	assert.Equal(t, "933456047", act.ID)
	assert.Equal(t, KindChoice, act.Kind)
	assert.True(t, act.Accepting)
	assert.Equal(t, "What's your favorite color?", act.Title)
}

func TestScanTextPoll(t *testing.T) {
	act, ok := Scan(textPollDoc)
	require.True(t, ok)
	assert.Equal(t, "933455006", act.ID)
	assert.Equal(t, KindText, act.Kind)
	assert.True(t, act.Accepting)
	assert.Equal(t, "Tell us what you think", act.Title)
}

func TestScanTurboFrame(t *testing.T) {
	act, ok := Scan(turboFrameDoc)
	require.True(t, ok)
	assert.Equal(t, "abc123xyz", act.ID)
	assert.Equal(t, KindChoice, act.Kind)
	// A respond frame alone means the poll is open
	assert.True(t, act.Accepting)
}

func TestScanResponseActionURL(t *testing.T) {
	doc := `<form action="/a/questions/12345/responses" method="post"></form>`
	act, ok := Scan(doc)
	require.True(t, ok)
	assert.Equal(t, "12345", act.ID)
	assert.Equal(t, KindGeneric, act.Kind)
	assert.True(t, act.Accepting)
}

func TestScanGenericActivityAttr(t *testing.T) {
	act, ok := Scan(`<div data-activity-id="gen-1"></div>`)
	require.True(t, ok)
	assert.Equal(t, "gen-1", act.ID)
	assert.Equal(t, KindGeneric, act.Kind)
	// No hint wording, no forms: detected but not accepting
	assert.False(t, act.Accepting)
}

func TestScanJSONBootstrap(t *testing.T) {
	act, ok := Scan(`<script>window.bootstrap = {"activityId": "55aa"}</script>`)
	require.True(t, ok)
	assert.Equal(t, "55aa", act.ID)
}

func TestScanNoMarkers(t *testing.T) {
	act, ok := Scan(`<html><body><h1>Just a page about gardening</h1></body></html>`)
	assert.False(t, ok)
	assert.Nil(t, act)
}

func TestScanWaitingScreen(t *testing.T) {
	// Hint words ("activity") and headings are present, but no marker
	act, ok := Scan(waitingDoc)
	assert.False(t, ok)
	assert.Nil(t, act)
}

func TestScanWaitingWithStaleMarker(t *testing.T) {
	// Widget markup left over on the waiting screen, with no respond
	// frame or forms, is not an active poll
	doc := `<div id="response_root_question_111"></div><p>Waiting for the presenter</p>`
	_, ok := Scan(doc)
	assert.False(t, ok)
}

func TestScanDetectorPriority(t *testing.T) {
	doc := `<div data-activity-id="loose"></div><div id="response_root_question_42"></div>`
	act, ok := Scan(doc)
	require.True(t, ok)
	assert.Equal(t, "42", act.ID)
	assert.Equal(t, KindChoice, act.Kind)
}

func TestTitleCollapsesWhitespace(t *testing.T) {
	doc := "<h1 class=\"x\">  What's   your\n\tfavorite?  </h1>"
	assert.Equal(t, "What's your favorite?", Title(doc))
}

func TestTitleFallsBackToH2(t *testing.T) {
	// h1 too short to be a plausible title
	doc := `<h1>Hi</h1><h2>The actual poll question here</h2>`
	assert.Equal(t, "The actual poll question here", Title(doc))
}

func TestTitleEmpty(t *testing.T) {
	assert.Equal(t, "", Title(`<p>no headings at all</p>`))
}
