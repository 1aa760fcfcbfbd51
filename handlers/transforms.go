package handlers

import (
	"errors"
	"media-transform-api/events"
	"media-transform-api/mediaservices"
	"media-transform-api/utils"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CreateTransformRequest is the wire form of a provisioning request.
type CreateTransformRequest struct {
	TransformName                string                   `json:"transformName"`
	BuiltInStandardEncoderPreset *EncoderPresetBody       `json:"builtInStandardEncoderPreset"`
	VideoAnalyzerPreset          *VideoAnalyzerPresetBody `json:"videoAnalyzerPreset"`
}

// EncoderPresetBody selects one of the built-in encoder presets by name.
type EncoderPresetBody struct {
	PresetName string `json:"presetName"`
}

// VideoAnalyzerPresetBody configures an analysis output. Absent fields keep
// their defaults (all insights, en-US audio).
type VideoAnalyzerPresetBody struct {
	AudioInsightsOnly bool   `json:"audioInsightsOnly"`
	AudioLanguage     string `json:"audioLanguage"`
}

// CreateTransformResponse is the wire form of a successful provision.
type CreateTransformResponse struct {
	TransformID string `json:"transformId,omitempty"`
}

func (r CreateTransformRequest) toProvisionRequest() mediaservices.TransformRequest {
	req := mediaservices.TransformRequest{Name: r.TransformName}
	if r.BuiltInStandardEncoderPreset != nil {
		req.EncoderPreset = &mediaservices.EncoderPresetSpec{
			PresetName: r.BuiltInStandardEncoderPreset.PresetName,
		}
	}
	if r.VideoAnalyzerPreset != nil {
		req.AnalyzerPreset = &mediaservices.AnalyzerPresetSpec{
			AudioInsightsOnly: r.VideoAnalyzerPreset.AudioInsightsOnly,
			AudioLanguage:     r.VideoAnalyzerPreset.AudioLanguage,
		}
	}
	return req
}

// HandleCreateOrGetTransform provisions the requested Transform, returning
// the identifier of the existing one when it is already present.
func HandleCreateOrGetTransform(logger *zap.Logger, p *mediaservices.Provisioner) gin.HandlerFunc {
	return func(c *gin.Context) {
		sugar := logger.Sugar()
		utils.TransformRequestsTotal.Add(1)

		var body CreateTransformRequest
		if err := c.ShouldBindJSON(&body); err != nil {
			utils.TransformFailuresTotal.Add(1)
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		result, err := p.Provision(c.Request.Context(), body.toProvisionRequest())
		if err != nil {
			utils.TransformFailuresTotal.Add(1)
			if errors.Is(err, mediaservices.ErrInvalidRequest) {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			sugar.Errorw("Transform provisioning failed",
				"transform", body.TransformName,
				"error", err)
			c.JSON(http.StatusBadRequest, gin.H{"error": "AMS API call error: " + err.Error()})
			return
		}

		if result.Created {
			utils.TransformsCreatedTotal.Add(1)
			sugar.Infow("Transform created",
				"transform", body.TransformName)
		} else {
			utils.TransformsReusedTotal.Add(1)
			sugar.Infow("Transform already present",
				"transform", body.TransformName)
		}

		events.PublishTransformProvisioned(c.Request.Context(), logger, events.TransformProvisionedPayload{
			Transform:   body.TransformName,
			TransformID: result.TransformID,
			Created:     result.Created,
		})

		c.JSON(http.StatusOK, CreateTransformResponse{TransformID: result.TransformID})
	}
}

// HandleGetTransform returns a summary of one remote Transform.
func HandleGetTransform(logger *zap.Logger, p *mediaservices.Provisioner) gin.HandlerFunc {
	return func(c *gin.Context) {
		name := c.Param("transform")
		if name == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "transform is required"})
			return
		}

		summary, err := p.Describe(c.Request.Context(), name)
		if err != nil {
			if errors.Is(err, mediaservices.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "transform not found"})
				return
			}
			logger.Error("Transform lookup failed", zap.Error(err))
			c.JSON(http.StatusBadRequest, gin.H{"error": "AMS API call error: " + err.Error()})
			return
		}

		c.JSON(http.StatusOK, summary)
	}
}

// HandleListTransforms returns summaries of every Transform in the account.
func HandleListTransforms(logger *zap.Logger, p *mediaservices.Provisioner) gin.HandlerFunc {
	return func(c *gin.Context) {
		summaries, err := p.List(c.Request.Context())
		if err != nil {
			logger.Error("Transform listing failed", zap.Error(err))
			c.JSON(http.StatusBadRequest, gin.H{"error": "AMS API call error: " + err.Error()})
			return
		}

		c.JSON(http.StatusOK, summaries)
	}
}
