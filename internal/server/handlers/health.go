package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func APIInfo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Guest Check-in System API",
		"version": "1.0.0",
		"endpoints": gin.H{
			"auth":          "/api/auth",
			"employees":     "/api/employees",
			"activity":      "/api/activity",
			"notifications": "/api/notify",
		},
	})
}
