package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pollwatch/pollwatch/lib/df"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// ErrStatus means the page answered with something other than 2xx/304.
var ErrStatus = errors.New("unexpected response status")

func init() {
	viper.SetDefault("fetch.timeout", time.Second*10)
}

// Result is one fetched copy of the watched page. ETag/LastModified echo the
// response validators so the next fetch can be conditional.
type Result struct {
	Body         string
	NotModified  bool
	ETag         string
	LastModified string
	Status       int
}

// Client fetches the watched page. One outbound GET per call, no retries -
// the monitor loop's next tick is the retry.
type Client struct {
	http *http.Client
	log  *logrus.Entry
}

func NewClient(log *logrus.Entry) *Client {
	if log == nil {
		log = df.Log
	}
	return &Client{
		http: &http.Client{
			Timeout: viper.GetDuration("fetch.timeout"),
		},
		log: log,
	}
}

// Get performs a timed, conditional GET. Pass the validators from the last
// successful fetch (or "" on the first); a 304 comes back as NotModified with
// no body.
func (c *Client) Get(ctx context.Context, url, etag, lastModified string) (*Result, error) {
	log := c.log.WithField("fetch.url", url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", df.UserAgent)
	if etag != "" {
		req.Header.Set("If-None-Match", etag)
	}
	if lastModified != "" {
		req.Header.Set("If-Modified-Since", lastModified)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		log.WithError(err).Debug("Fetch failed")
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotModified {
		log.Trace("304 Not Modified")
		return &Result{NotModified: true, Status: resp.StatusCode}, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.WithField("status.code", resp.StatusCode).Debug("Bad status from page")
		return nil, fmt.Errorf("%w: %d from %s", ErrStatus, resp.StatusCode, url)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	return &Result{
		Body:         string(body),
		ETag:         resp.Header.Get("ETag"),
		LastModified: resp.Header.Get("Last-Modified"),
		Status:       resp.StatusCode,
	}, nil
}
