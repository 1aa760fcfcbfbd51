package handlers

import (
	"media-transform-api/utils"
	"net/http"

	"github.com/gin-gonic/gin"
)

func HandleMetrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"transform_requests_total": utils.TransformRequestsTotal.Value(),
			"transforms_created_total": utils.TransformsCreatedTotal.Value(),
			"transforms_reused_total":  utils.TransformsReusedTotal.Value(),
			"transform_failures_total": utils.TransformFailuresTotal.Value(),
		})
	}
}
