package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/pollwatch/pollwatch/lib/fetch"
	"github.com/pollwatch/pollwatch/lib/monitor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const quietPageDoc = `<html><body><p>Waiting for the presenter</p></body></html>`

type stubFetcher struct{}

func (stubFetcher) Get(_ context.Context, _, _, _ string) (*fetch.Result, error) {
	return &fetch.Result{Body: quietPageDoc, Status: 200}, nil
}

type stubNotifier struct{}

func (stubNotifier) Notify(_ context.Context, _ []string, _ string) error { return nil }

func testRouter(t *testing.T) (*gin.Engine, *monitor.Manager) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	m := monitor.NewManager(stubFetcher{}, stubNotifier{}, nil)
	t.Cleanup(m.StopAll)

	r := gin.New()
	RegisterHandlers(r, m)
	return r, m
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestStartMonitorMissingFields(t *testing.T) {
	r, _ := testRouter(t)

	rec := doJSON(t, r, http.MethodPost, "/api/monitors/start", `{}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp BaseResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Ok)
}

func TestStartStopListFlow(t *testing.T) {
	r, _ := testRouter(t)

	rec := doJSON(t, r, http.MethodPost, "/api/monitors/start",
		`{"poll-url": "https://pe.app/alice", "phone-number": "+15551234567", "interval-sec": 1}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var started StartMonitorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &started))
	require.True(t, started.Ok)
	require.NotEmpty(t, started.MonitorID)

	// Same URL and number again is a conflict
	rec = doJSON(t, r, http.MethodPost, "/api/monitors/start",
		`{"poll-url": "https://pe.app/alice", "phone-number": "+15551234567", "interval-sec": 1}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = doJSON(t, r, http.MethodGet, "/api/monitors", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var list MonitorsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list.Monitors, 1)
	assert.Equal(t, started.MonitorID, list.Monitors[0].ID)
	assert.Equal(t, "https://pe.app/alice", list.Monitors[0].PollURL)
	assert.Equal(t, "alice", list.Monitors[0].Name)
	assert.Equal(t, "running", list.Monitors[0].Status)

	rec = doJSON(t, r, http.MethodPost, "/api/monitors/"+started.MonitorID+"/stop", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, r, http.MethodGet, "/api/monitors", "")
	list = MonitorsResponse{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Empty(t, list.Monitors)
}

func TestStopUnknownMonitor(t *testing.T) {
	r, _ := testRouter(t)

	rec := doJSON(t, r, http.MethodPost, "/api/monitors/nope/stop", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStartMonitorBadPhoneFailsFast(t *testing.T) {
	r, m := testRouter(t)

	rec := doJSON(t, r, http.MethodPost, "/api/monitors/start",
		`{"poll-url": "https://pe.app/alice", "phone-number": ""}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, m.List())
}

func TestTwiMLWithMessage(t *testing.T) {
	r, _ := testRouter(t)

	rec := doJSON(t, r, http.MethodGet, "/twiml?message=alice+has+just+posted+a+poll", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/xml")
	assert.Contains(t, rec.Body.String(), "alice has just posted a poll")
	assert.Contains(t, rec.Body.String(), "<Say")
	assert.Contains(t, rec.Body.String(), "<Hangup/>")
}

func TestTwiMLDefaultMessage(t *testing.T) {
	r, _ := testRouter(t)

	rec := doJSON(t, r, http.MethodPost, "/twiml", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Poll Everywhere notification. A new poll is active.")
}

func TestAlive(t *testing.T) {
	r, _ := testRouter(t)

	rec := doJSON(t, r, http.MethodGet, "/alive", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"alive":true`)
}

func TestDashboardServed(t *testing.T) {
	r, _ := testRouter(t)

	rec := doJSON(t, r, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "Pollwatch")
}
