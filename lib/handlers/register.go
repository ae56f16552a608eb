package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/pollwatch/pollwatch/lib/metrics"
	"github.com/pollwatch/pollwatch/lib/monitor"
)

// RegisterHandlers wires the dashboard, monitor API, and TwiML callback onto
// the engine.
func RegisterHandlers(r *gin.Engine, m *monitor.Manager) {
	RegisterGlobalHandlers(r)

	h := NewMonitorHandlers(m)
	r.GET("/", Dashboard)
	r.GET("/api/monitors", h.ListMonitors)
	r.POST("/api/monitors/start", h.StartMonitor)
	r.POST("/api/monitors/:monitorid/stop", h.StopMonitor)

	// Twilio fetches this during call setup - GET normally, POST from
	// TwiML-app style configs
	r.GET("/twiml", TwiML)
	r.POST("/twiml", TwiML)
}

// RegisterGlobalHandlers adds the handlers every server mode gets.
func RegisterGlobalHandlers(r *gin.Engine) {
	// Inline handler - just make sure we're alive
	r.GET("/alive", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"alive": true,
			"ok":    true,
			"error": nil,
		})
	})

	r.GET("/metrics", gin.WrapH(metrics.Handler()))
}
