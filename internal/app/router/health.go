package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Health is the liveness endpoint used by load balancers and uptime monitors.
// Responses are marked non-cacheable so every probe reaches the server.
func Health(c *gin.Context) {
	c.Header("Cache-Control", "no-store")

	switch c.Request.Method {
	case http.MethodHead:
		c.Status(http.StatusOK)
	case http.MethodOptions:
		c.Status(http.StatusNoContent)
	default:
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
