package mediaservices

import (
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/mediaservices/armmediaservices/v3"
)

// DefaultAudioLanguage is applied when an analyzer preset omits audioLanguage.
const DefaultAudioLanguage = "en-US"

// encoderPresets maps the preset names accepted on the wire to the built-in
// presets recognized by the remote service. Read-only after init.
var encoderPresets = map[string]armmediaservices.EncoderNamedPreset{
	"AdaptiveStreaming":        armmediaservices.EncoderNamedPresetAdaptiveStreaming,
	"H264MultipleBitrate1080p": armmediaservices.EncoderNamedPresetH264MultipleBitrate1080P,
	"H264MultipleBitrate720p":  armmediaservices.EncoderNamedPresetH264MultipleBitrate720P,
	"H264MultipleBitrateSD":    armmediaservices.EncoderNamedPresetH264MultipleBitrateSD,
	"AACGoodQualityAudio":      armmediaservices.EncoderNamedPresetAACGoodQualityAudio,
}

// ResolveEncoderPreset returns the built-in preset for name. Unknown names
// fall back to AdaptiveStreaming.
func ResolveEncoderPreset(name string) armmediaservices.EncoderNamedPreset {
	if preset, ok := encoderPresets[name]; ok {
		return preset
	}
	return armmediaservices.EncoderNamedPresetAdaptiveStreaming
}

// insightsFor maps the wire-level audioInsightsOnly flag onto the insight
// selection the current API expects.
func insightsFor(audioOnly bool) armmediaservices.InsightsType {
	if audioOnly {
		return armmediaservices.InsightsTypeAudioInsightsOnly
	}
	return armmediaservices.InsightsTypeAllInsights
}
