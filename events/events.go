package events

import (
	"context"
	"encoding/json"

	valkeystore "media-transform-api/valkey"

	"go.uber.org/zap"
)

const TransformProvisionedChannel = "transform_provisioned"

// TransformProvisionedPayload represents the data structure for
// transform_provisioned events. Downstream workflow steps (job submission,
// monitoring) subscribe to this channel.
type TransformProvisionedPayload struct {
	Transform   string `json:"transform"`
	TransformID string `json:"transformId"`
	Created     bool   `json:"created"`
}

// PublishTransformProvisioned publishes the payload on the event bus.
// Best-effort: when the bus is not configured this is a no-op, and publish
// failures are logged without affecting the request that triggered them.
func PublishTransformProvisioned(ctx context.Context, logger *zap.Logger, payload TransformProvisionedPayload) {
	if valkeystore.Client == nil {
		return
	}
	sugar := logger.Sugar()

	message, err := json.Marshal(payload)
	if err != nil {
		sugar.Errorw("Event serialization failed",
			"error", err)
		return
	}

	if err := valkeystore.Client.Publish(ctx, TransformProvisionedChannel, string(message)).Err(); err != nil {
		sugar.Errorw("Event publishing failed",
			"channel", TransformProvisionedChannel,
			"error", err)
		return
	}

	sugar.Infow("Provisioning event published",
		"channel", TransformProvisionedChannel,
		"transform", payload.Transform)
}
