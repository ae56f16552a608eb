package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pollwatch/pollwatch/lib/df"
	"github.com/pollwatch/pollwatch/lib/monitor"
	"github.com/sirupsen/logrus"
)

type StartMonitorRequest struct {
	PollURL     string `json:"poll-url"`
	PhoneNumber string `json:"phone-number"`
	// IntervalSec overrides the configured check interval when positive
	IntervalSec int `json:"interval-sec,omitempty"`
}

type StartMonitorResponse struct {
	*BaseResponse
	MonitorID string `json:"monitor-id"`
}

type MonitorInfo struct {
	ID           string    `json:"id"`
	PollURL      string    `json:"poll-url"`
	Numbers      []string  `json:"phone-numbers"`
	Name         string    `json:"name,omitempty"`
	Status       string    `json:"status"`
	StartedAt    time.Time `json:"started-at"`
	LastCheck    time.Time `json:"last-check"`
	LastActivity string    `json:"last-activity,omitempty"`
	Errors       int       `json:"errors"`
}

type MonitorsResponse struct {
	*BaseResponse
	Monitors []MonitorInfo `json:"monitors"`
}

type MonitorHandlers struct {
	manager *monitor.Manager
}

func NewMonitorHandlers(m *monitor.Manager) *MonitorHandlers {
	return &MonitorHandlers{manager: m}
}

func (h *MonitorHandlers) StartMonitor(c *gin.Context) {
	log := df.Log.WithContext(c)

	req := StartMonitorRequest{}
	if err := c.BindJSON(&req); err != nil {
		log.WithError(err).Info("Problem binding JSON in request")
		c.JSON(http.StatusBadRequest, NewErrorResp(err, "Bad request body"))
		return
	}

	interval := monitor.Interval()
	if req.IntervalSec > 0 {
		interval = time.Duration(req.IntervalSec) * time.Second
	}
	cfg := monitor.NewConfig(req.PollURL, req.PhoneNumber, interval)

	sess, err := h.manager.Start(cfg)
	if err != nil {
		log.WithError(err).Info("Couldn't start monitor")
		switch {
		case errors.Is(err, monitor.ErrDuplicate):
			c.JSON(http.StatusConflict, NewErrorResp(err, "Monitor already exists for this URL and phone number"))
		case errors.Is(err, monitor.ErrNoNotifier):
			c.JSON(http.StatusServiceUnavailable, NewErrorResp(err, "Notifications are not configured on the server"))
		default:
			c.JSON(http.StatusBadRequest, NewErrorResp(err, "Invalid monitor config"))
		}
		return
	}

	log.WithFields(logrus.Fields{
		"monitor.id": sess.ID,
		"poll.url":   cfg.PollURL,
	}).Debug("Monitor started via API")
	c.JSON(http.StatusOK, StartMonitorResponse{
		BaseResponse: NewBaseResp(),
		MonitorID:    sess.ID,
	})
}

func (h *MonitorHandlers) StopMonitor(c *gin.Context) {
	monitorID := c.Param("monitorid")
	log := df.Log.WithFields(logrus.Fields{
		"monitor.id": monitorID,
	}).WithContext(c)

	if err := h.manager.Stop(monitorID); err != nil {
		log.WithError(err).Info("Couldn't stop monitor")
		c.JSON(http.StatusNotFound, NewErrorResp(err, "Monitor not found"))
		return
	}

	log.Trace("All done")
	c.JSON(http.StatusOK, NewBaseResp())
}

func (h *MonitorHandlers) ListMonitors(c *gin.Context) {
	snaps := h.manager.List()

	monitors := make([]MonitorInfo, 0, len(snaps))
	for _, s := range snaps {
		monitors = append(monitors, MonitorInfo{
			ID:           s.ID,
			PollURL:      s.PollURL,
			Numbers:      s.Numbers,
			Name:         s.Name,
			Status:       string(s.Status),
			StartedAt:    s.StartedAt,
			LastCheck:    s.LastCheck,
			LastActivity: s.LastActivity,
			Errors:       s.Errors,
		})
	}

	c.JSON(http.StatusOK, MonitorsResponse{
		BaseResponse: NewBaseResp(),
		Monitors:     monitors,
	})
}
