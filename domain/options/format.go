package options

import (
	"fmt"
	"strconv"
	"strings"
)

// Filter selects which streams a structured format picks
type Filter string

const (
	FilterAudioAndVideo Filter = "audioandvideo"
	FilterVideoOnly     Filter = "videoonly"
	FilterAudioOnly     Filter = "audioonly"
	FilterMergeVideo    Filter = "mergevideo"
)

// Quality is "highest", "lowest" or a height such as "1080p"
type Quality string

const (
	QualityHighest Quality = "highest"
	QualityLowest  Quality = "lowest"
)

// Qualities lists the recognized height qualities
var Qualities = []Quality{"2160p", "1440p", "1080p", "720p", "480p", "360p", "240p", "144p"}

// audioTypes are the containers handled by audio extraction rather than an ext filter
var audioTypes = map[string]bool{
	"aac": true, "alac": true, "flac": true, "m4a": true, "mp3": true,
	"opus": true, "vorbis": true, "wav": true,
}

// Format is either a raw yt-dlp selector or a structured selection.
// Construct with RawFormat or SelectFormat.
type Format struct {
	raw     string
	filter  Filter
	quality Quality
	typ     string
	isRaw   bool
}

// RawFormat passes selector through unchanged as -f selector
func RawFormat(selector string) *Format {
	return &Format{raw: selector, isRaw: true}
}

// SelectFormat builds a selector from filter, quality and container type.
// Empty filter means audioandvideo, empty quality means highest.
func SelectFormat(filter Filter, quality Quality, typ string) *Format {
	return &Format{filter: filter, quality: quality, typ: typ}
}

// IsRaw reports whether f wraps a raw selector
func (f *Format) IsRaw() bool { return f != nil && f.isRaw }

// String renders the format for logs
func (f *Format) String() string {
	if f == nil {
		return ""
	}
	if f.isRaw {
		return f.raw
	}
	return fmt.Sprintf("%s/%s/%s", f.filterOrDefault(), f.qualityOrDefault(), f.typ)
}

// Resolve returns the -f selector and any extra arguments the selection needs
func (f *Format) Resolve() (string, []string) {
	if f == nil {
		return "", nil
	}
	if f.isRaw {
		return f.raw, nil
	}

	lowest := f.qualityOrDefault() == QualityLowest
	height := heightFilter(f.qualityOrDefault())
	ext := ""
	if f.typ != "" {
		ext = "[ext=" + f.typ + "]"
	}
	pick := func(best, worst string) string {
		if lowest {
			return worst
		}
		return best
	}

	switch f.filterOrDefault() {
	case FilterVideoOnly:
		return pick("bv", "wv") + height + ext, nil
	case FilterAudioOnly:
		if f.typ != "" && audioTypes[f.typ] {
			return pick("ba", "wa"), []string{"-x", "--audio-format", f.typ}
		}
		return pick("ba", "wa") + ext, nil
	case FilterMergeVideo:
		selector := pick("bv*", "wv*") + height + "+" + pick("ba", "wa") + "/" + pick("b", "w") + height
		if f.typ != "" {
			return selector, []string{"--merge-output-format", f.typ}
		}
		return selector, nil
	default:
		return pick("b", "w") + height + ext, nil
	}
}

// UnmarshalYAML accepts a scalar (raw selector) or a mapping with
// filter, quality and type keys
func (f *Format) UnmarshalYAML(unmarshal func(any) error) error {
	var raw string
	if err := unmarshal(&raw); err == nil {
		*f = *RawFormat(raw)
		return nil
	}
	var sel struct {
		Filter  Filter  `yaml:"filter"`
		Quality Quality `yaml:"quality"`
		Type    string  `yaml:"type"`
	}
	if err := unmarshal(&sel); err != nil {
		return fmt.Errorf("format must be a selector string or a filter/quality/type mapping: %w", err)
	}
	*f = *SelectFormat(sel.Filter, sel.Quality, sel.Type)
	return nil
}

func (f *Format) filterOrDefault() Filter {
	if f.filter == "" {
		return FilterAudioAndVideo
	}
	return f.filter
}

func (f *Format) qualityOrDefault() Quality {
	if f.quality == "" {
		return QualityHighest
	}
	return f.quality
}

// heightFilter turns "720p" into "[height<=720]"; other qualities add nothing
func heightFilter(q Quality) string {
	s, ok := strings.CutSuffix(string(q), "p")
	if !ok {
		return ""
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return "[height<=" + s + "]"
	}
	return ""
}
