package handlers

import (
	"net/http"

	"kommunity/utils"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	Monitor *utils.HealthMonitor
}

// Handler reports 503 when the store is unreachable.
func (h *HealthHandler) Handler(c *gin.Context) {
	if h.Monitor == nil {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
		return
	}
	status := h.Monitor.Check(c.Request.Context())
	code := http.StatusOK
	label := "ok"
	if !status.Healthy() {
		code = http.StatusServiceUnavailable
		label = "unavailable"
	} else if !status.Redis {
		label = "degraded"
	}
	c.JSON(code, gin.H{"status": label, "checks": status})
}
