package detect

import (
	"regexp"
	"strings"
)

// Kind says which widget signature matched a page.
type Kind string

const (
	KindChoice  Kind = "choice"
	KindText    Kind = "text"
	KindGeneric Kind = "generic"
)

// Activity is one live poll found in a fetched page.
type Activity struct {
	ID        string
	Kind      Kind
	Title     string
	Accepting bool
}

// Detector recognizes one poll-platform widget signature in raw page text.
// The platform's markup is unversioned, so these are best-effort; a page
// matching none of them is reported inactive, never an error.
type Detector interface {
	Name() string
	Kind() Kind
	// Detect returns the activity id and whether the signature matched.
	Detect(doc string) (string, bool)
}

type patternDetector struct {
	name string
	kind Kind
	re   *regexp.Regexp
}

func (d *patternDetector) Name() string { return d.name }
func (d *patternDetector) Kind() Kind   { return d.kind }

func (d *patternDetector) Detect(doc string) (string, bool) {
	m := d.re.FindStringSubmatch(doc)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// Detectors in priority order. Specific widget containers first, then
// response URLs, then the loose data-attribute / JSON bootstrap fallbacks.
var detectors = []Detector{
	&patternDetector{"choice-response-root", KindChoice,
		regexp.MustCompile(`(?i)id="response_root_question_(\d+)"`)},
	&patternDetector{"text-submissions", KindText,
		regexp.MustCompile(`(?i)id="all_submissions_question_(\d+)"`)},
	&patternDetector{"question-response-action", KindGeneric,
		regexp.MustCompile(`(?i)action="/a/questions/(\d+)/responses`)},
	&patternDetector{"choice-respond-frame", KindChoice,
		regexp.MustCompile(`(?i)src="/multiple_choice_polls/([^"/]+)/respond`)},
	&patternDetector{"text-respond-frame", KindText,
		regexp.MustCompile(`(?i)src="/text_polls/([^"/]+)/respond`)},
	&patternDetector{"activity-id-attr", KindGeneric,
		regexp.MustCompile(`(?i)data-activity-id="([^"]+)"`)},
	&patternDetector{"activity-id-input", KindGeneric,
		regexp.MustCompile(`(?i)name="activity_id"\s+value="([^"]+)"`)},
	&patternDetector{"activity-id-json", KindGeneric,
		regexp.MustCompile(`(?i)"activityId"\s*:\s*"([^"]+)"`)},
}

var (
	respondFrameRe = regexp.MustCompile(`(?i)<turbo-frame[^>]+src="[^"]+/respond`)

	// Wording the platform shows while a poll is open for responses
	acceptingHintsRe = regexp.MustCompile(`(?i)(audience submissions|responding to the presenter|you may respond|accepting responses|respond|submit|send response|vote now)`)

	// Response forms/buttons also mean the poll is open, even without the wording
	responseFormRe = regexp.MustCompile(`(?i)(action="/a/questions/\d+/responses|data-input--choice|data-response-to)`)

	waitingRe = regexp.MustCompile(`(?i)waiting`)

	titleH1Re  = regexp.MustCompile(`(?i)<h1[^>]*>([^<]{5,200})</h1>`)
	titleH2Re  = regexp.MustCompile(`(?i)<h2[^>]*>([^<]{5,200})</h2>`)
	titleAnyRe = regexp.MustCompile(`(?i)<h[1-6][^>]*>([^<]{10,200})</h[1-6]>`)

	spaceRe = regexp.MustCompile(`\s+`)
)

// Scan runs every detector over the document and reports whether a poll is
// currently active. A page still on the waiting screen with no respond frame
// is inactive even when the hint words appear in it.
func Scan(doc string) (*Activity, bool) {
	respondPresent := respondFrameRe.MatchString(doc)

	var id string
	var kind Kind
	for _, d := range detectors {
		if got, ok := d.Detect(doc); ok {
			id = got
			kind = d.Kind()
			break
		}
	}

	if id == "" {
		return nil, false
	}
	if waitingRe.MatchString(doc) && !respondPresent && !responseFormRe.MatchString(doc) {
		// Stale widget markup on the waiting screen
		return nil, false
	}

	accepting := acceptingHintsRe.MatchString(doc) ||
		responseFormRe.MatchString(doc) ||
		respondPresent

	return &Activity{
		ID:        id,
		Kind:      kind,
		Title:     Title(doc),
		Accepting: accepting,
	}, true
}

// Title pulls a human-readable poll title out of the page headings, largest
// heading first. Returns "" when nothing plausible is found.
func Title(doc string) string {
	for _, re := range []*regexp.Regexp{titleH1Re, titleH2Re, titleAnyRe} {
		if m := re.FindStringSubmatch(doc); m != nil {
			return strings.TrimSpace(spaceRe.ReplaceAllString(m[1], " "))
		}
	}
	return ""
}
