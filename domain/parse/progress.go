package parse

import (
	"encoding/json"
	"math"
	"strings"

	"mediafetch/domain/media"
)

const unknown = "N/A"

// Progress parses a progress marker line
func Progress(line string) (media.Progress, bool) {
	line = strings.TrimSpace(line)
	marker, payload := markerOf(line)
	if marker != ProgressMarker {
		return media.Progress{}, false
	}
	var raw map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(payload)), &raw); err != nil {
		return media.Progress{}, false
	}
	return newProgress(raw), true
}

func newProgress(raw map[string]any) media.Progress {
	p := media.Progress{}
	p.Filename, _ = raw["filename"].(string)
	p.Status, _ = raw["status"].(string)

	if n, ok := toNumber(raw["downloaded_bytes"]); ok {
		p.DownloadedBytes = n
	}
	if n, ok := toNumber(raw["total_bytes"]); ok && n > 0 {
		p.TotalBytes = &n
	} else if n, ok := toNumber(raw["total_bytes_estimate"]); ok && n > 0 {
		p.TotalBytes = &n
	}
	if n, ok := toNumber(raw["speed"]); ok {
		p.Speed = &n
	}
	if n, ok := toNumber(raw["eta"]); ok {
		p.ETA = &n
	}
	if p.TotalBytes != nil && *p.TotalBytes > 0 {
		pct := math.Round(100*p.DownloadedBytes / *p.TotalBytes*100) / 100
		p.Percentage = &pct
	}

	p.DownloadedStr = FormatBytes(p.DownloadedBytes)
	p.TotalStr = unknown
	if p.TotalBytes != nil {
		p.TotalStr = FormatBytes(*p.TotalBytes)
	}
	p.SpeedStr = unknown
	if p.Speed != nil {
		p.SpeedStr = FormatBytes(*p.Speed) + "/s"
	}
	p.ETAStr = unknown
	if p.ETA != nil {
		p.ETAStr = FormatDuration(*p.ETA)
	}
	p.PercentageStr = unknown
	if p.Percentage != nil {
		p.PercentageStr = formatPercent(*p.Percentage)
	}
	return p
}
