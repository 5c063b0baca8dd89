package parse

import (
	"strings"

	"mediafetch/domain/media"
)

// LineKind classifies one output line
type LineKind int

const (
	LinePlain LineKind = iota
	LineProgress
	LineBeforeDownload
	LineAfterDownload
	// LineMalformed carries a marker but an unparseable payload
	LineMalformed
)

// Line is a classified output line
type Line struct {
	Kind     LineKind
	Text     string
	Progress media.Progress
	Metadata media.Metadata
}

// Classify checks line against the markers in priority order: after-download,
// before-download, progress. Anything without a marker is plain.
func Classify(raw string) Line {
	text := strings.TrimSpace(raw)
	switch m, _ := markerOf(text); m {
	case AfterMarker, BeforeMarker:
		md, ok := Metadata(text)
		if !ok {
			return Line{Kind: LineMalformed, Text: text}
		}
		if md.Stage == media.StageBeforeDownload {
			return Line{Kind: LineBeforeDownload, Text: text, Metadata: md}
		}
		return Line{Kind: LineAfterDownload, Text: text, Metadata: md}
	case ProgressMarker:
		p, ok := Progress(text)
		if !ok {
			return Line{Kind: LineMalformed, Text: text}
		}
		return Line{Kind: LineProgress, Text: text, Progress: p}
	default:
		return Line{Kind: LinePlain, Text: text}
	}
}

// PrintedLines drops marker lines and blank lines from text and returns
// the remaining trimmed lines. Applying it to its own joined output is a no-op.
func PrintedLines(text string) []string {
	var out []string
	for _, line := range SplitLines(text) {
		line = strings.TrimSpace(line)
		if m, _ := markerOf(line); line == "" || m != "" {
			continue
		}
		out = append(out, line)
	}
	return out
}

// Records returns every metadata record found in text, in order
func Records(text string) []media.Metadata {
	var out []media.Metadata
	for _, line := range SplitLines(text) {
		if md, ok := Metadata(line); ok {
			out = append(out, md)
		}
	}
	return out
}

// SplitLines splits on \n, \r\n and bare \r
func SplitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.FieldsFunc(text, func(r rune) bool { return r == '\n' || r == '\r' })
}
