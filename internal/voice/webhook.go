package voice

import (
	"encoding/json"
	"fmt"
)

// ParseWebhook decodes either a bare Payload or an assistant webhook
// envelope carrying the payload in message.analysis.
func ParseWebhook(data []byte) (Payload, error) {
	var env struct {
		Payload
		Message *struct {
			Type     string  `json:"type"`
			Analysis Payload `json:"analysis"`
		} `json:"message"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		return Payload{}, fmt.Errorf("decoding voice payload: %w", err)
	}
	if env.StructuredData == nil && env.Message != nil {
		return env.Message.Analysis, nil
	}
	return env.Payload, nil
}
