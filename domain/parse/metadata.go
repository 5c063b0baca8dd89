package parse

import (
	"encoding/json"
	"strings"

	"mediafetch/domain/media"
)

// Metadata parses a before- or after-download marker line. The after marker
// takes priority over the before marker.
func Metadata(line string) (media.Metadata, bool) {
	line = strings.TrimSpace(line)
	var stage media.Stage
	marker, payload := markerOf(line)
	switch marker {
	case AfterMarker:
		stage = media.StageAfterDownload
	case BeforeMarker:
		stage = media.StageBeforeDownload
	default:
		return media.Metadata{}, false
	}
	var raw map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(payload)), &raw); err != nil {
		return media.Metadata{}, false
	}
	fields := make(map[string]any, len(raw))
	for k, v := range raw {
		fields[k] = coerceField(k, v)
	}
	return media.Metadata{Stage: stage, Fields: fields}, true
}

func markerFor(stage media.Stage) string {
	if stage == media.StageBeforeDownload {
		return BeforeMarker
	}
	return AfterMarker
}
