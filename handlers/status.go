package handlers

import (
	"context"
	"media-transform-api/mediaservices"
	"net/http"
	"time"

	valkeystore "media-transform-api/valkey"

	"github.com/gin-gonic/gin"
)

// HandleStatus reports the configured media account scope and event bus
// connectivity.
func HandleStatus(p *mediaservices.Provisioner) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := gin.H{
			"account":        p.Account(),
			"resource_group": p.ResourceGroup(),
		}

		if valkeystore.Client == nil {
			status["events"] = gin.H{"enabled": false}
			c.JSON(http.StatusOK, status)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := valkeystore.Client.Ping(ctx).Err(); err != nil {
			status["events"] = gin.H{"enabled": true, "connected": false, "error": err.Error()}
			c.JSON(http.StatusOK, status)
			return
		}

		status["events"] = gin.H{"enabled": true, "connected": true}
		c.JSON(http.StatusOK, status)
	}
}
