package parse

import (
	"math"
	"strconv"
	"strings"
)

type coercion int

const (
	coerceNone coercion = iota
	coerceNumber
	coerceBool
	coerceList
)

// fieldCoercions maps metadata fields to the type their value is coerced to
var fieldCoercions = map[string]coercion{
	"age_limit":              coerceNumber,
	"timestamp":              coerceNumber,
	"release_timestamp":      coerceNumber,
	"release_year":           coerceNumber,
	"modified_timestamp":     coerceNumber,
	"duration":               coerceNumber,
	"start_time":             coerceNumber,
	"end_time":               coerceNumber,
	"epoch":                  coerceNumber,
	"view_count":             coerceNumber,
	"concurrent_view_count":  coerceNumber,
	"like_count":             coerceNumber,
	"dislike_count":          coerceNumber,
	"repost_count":           coerceNumber,
	"average_rating":         coerceNumber,
	"comment_count":          coerceNumber,
	"channel_follower_count": coerceNumber,
	"playlist_count":         coerceNumber,
	"playlist_index":         coerceNumber,
	"playlist_autonumber":    coerceNumber,
	"n_entries":              coerceNumber,
	"autonumber":             coerceNumber,
	"video_autonumber":       coerceNumber,
	"chapter_number":         coerceNumber,
	"season_number":          coerceNumber,
	"episode_number":         coerceNumber,
	"track_number":           coerceNumber,
	"disc_number":            coerceNumber,
	"section_number":         coerceNumber,
	"section_start":          coerceNumber,
	"section_end":            coerceNumber,
	"width":                  coerceNumber,
	"height":                 coerceNumber,
	"fps":                    coerceNumber,
	"tbr":                    coerceNumber,
	"abr":                    coerceNumber,
	"vbr":                    coerceNumber,
	"asr":                    coerceNumber,
	"filesize":               coerceNumber,
	"filesize_approx":        coerceNumber,

	"is_live":             coerceBool,
	"was_live":            coerceBool,
	"channel_is_verified": coerceBool,
	"playable_in_embed":   coerceBool,

	"categories":    coerceList,
	"tags":          coerceList,
	"creators":      coerceList,
	"cast":          coerceList,
	"artists":       coerceList,
	"genres":        coerceList,
	"album_artists": coerceList,
}

// isPlaceholder reports whether v is one of yt-dlp's "no value" strings
func isPlaceholder(v any) bool {
	s, ok := v.(string)
	if !ok {
		return false
	}
	s = strings.TrimSpace(s)
	return s == "N/A" || s == "NA"
}

// coerceField converts a raw JSON value for key according to fieldCoercions
func coerceField(key string, v any) any {
	if v == nil || isPlaceholder(v) {
		return nil
	}
	switch fieldCoercions[key] {
	case coerceNumber:
		if n, ok := toNumber(v); ok {
			return n
		}
		return nil
	case coerceBool:
		if b, ok := toBool(v); ok {
			return b
		}
		return nil
	case coerceList:
		return toList(v)
	default:
		return v
	}
}

// toNumber accepts JSON numbers and numeric strings. NaN and infinities are rejected.
func toNumber(v any) (float64, bool) {
	var n float64
	switch t := v.(type) {
	case float64:
		n = t
	case string:
		s := strings.TrimSpace(t)
		if s == "" || isPlaceholder(s) {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		n = f
	default:
		return 0, false
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

func toBool(v any) (bool, bool) {
	switch t := v.(type) {
	case bool:
		return t, true
	case float64:
		return t != 0, true
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "true", "1", "yes":
			return true, true
		case "false", "0", "no":
			return false, true
		}
	}
	return false, false
}

// toList accepts JSON arrays and comma-joined strings
func toList(v any) []string {
	out := []string{}
	switch t := v.(type) {
	case []any:
		for _, item := range t {
			if s, ok := item.(string); ok {
				if s = strings.TrimSpace(s); s != "" {
					out = append(out, s)
				}
			}
		}
	case string:
		for _, part := range strings.Split(t, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
