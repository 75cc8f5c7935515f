package serialmux

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/banshee-data/motion.report/internal/features"
)

const (
	EventTypeReading = "reading"
	EventTypeStatus  = "status"
	EventTypeUnknown = "unknown"
)

var ErrNotReading = errors.New("line is not a sensor reading")

// ClassifyPayload inspects a hub line and returns an event type token.
func ClassifyPayload(payload string) string {
	payload = strings.TrimSpace(payload)
	if !strings.HasPrefix(payload, "{") {
		return EventTypeUnknown
	}
	if strings.Contains(payload, `"address"`) && strings.Contains(payload, `"unix_time"`) {
		return EventTypeReading
	}
	if strings.Contains(payload, `"status"`) {
		return EventTypeStatus
	}
	return EventTypeUnknown
}

// ParseReading decodes one hub line into a Reading.
func ParseReading(line string) (features.Reading, error) {
	var r features.Reading
	if ClassifyPayload(line) != EventTypeReading {
		return r, ErrNotReading
	}
	if err := json.Unmarshal([]byte(strings.TrimSpace(line)), &r); err != nil {
		return r, fmt.Errorf("failed to decode reading: %w", err)
	}
	if r.Address == "" {
		return r, fmt.Errorf("%w: empty address", ErrNotReading)
	}
	return r, nil
}
