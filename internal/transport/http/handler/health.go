package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Health is the public liveness check on the API port.
func Health(c *gin.Context) {
	respond(c, http.StatusOK, "OK", gin.H{
		"status":    "UP",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
