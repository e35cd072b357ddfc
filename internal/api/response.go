package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// All read endpoints share the same envelope: success with data, or a short
// error message. Upstream provider failures never leak through here.

func respondData(c *gin.Context, now time.Time, data any) {
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"data":      data,
		"timestamp": now.UTC().Format(time.RFC3339),
	})
}

func respondStats(c *gin.Context, now time.Time, stats any) {
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"stats":     stats,
		"timestamp": now.UTC().Format(time.RFC3339),
	})
}

func respondError(c *gin.Context, status int, kind, message string) {
	c.JSON(status, gin.H{
		"error":   kind,
		"message": message,
	})
}
