// Package parse extracts structured records from yt-dlp's textual output.
// Nothing in this package returns an error: input that does not match the
// expected grammar is reported as "no match".
package parse

import (
	"strings"

	"mediafetch/domain/media"
)

// Markers prefixed to the machine-readable lines requested through
// --progress-template and --print
const (
	ProgressMarker = "[mediafetch:progress]"
	BeforeMarker   = "[mediafetch:before]"
	AfterMarker    = "[mediafetch:after]"
)

// markers lists every marker in classification priority order
var markers = []string{AfterMarker, BeforeMarker, ProgressMarker}

// progressFields are the progress hook keys requested in the progress template
var progressFields = []string{
	"filename",
	"status",
	"downloaded_bytes",
	"total_bytes",
	"total_bytes_estimate",
	"speed",
	"eta",
}

// MetadataFields is the versioned field list printed before and after each download
var MetadataFields = []string{
	// identity
	"id", "display_id", "title", "fulltitle", "alt_title", "description", "ext",
	"extractor", "extractor_key", "webpage_url", "webpage_url_domain",
	"webpage_url_basename", "original_url", "license", "availability", "media_type",
	"live_status", "is_live", "was_live", "playable_in_embed", "age_limit",
	// people
	"uploader", "uploader_id", "uploader_url", "creators", "cast",
	"channel", "channel_id", "channel_url", "channel_follower_count", "channel_is_verified",
	"location",
	// time
	"timestamp", "upload_date", "release_timestamp", "release_date", "release_year",
	"modified_timestamp", "modified_date", "duration", "duration_string",
	"start_time", "end_time", "epoch",
	// counts
	"view_count", "concurrent_view_count", "like_count", "dislike_count",
	"repost_count", "average_rating", "comment_count",
	// classification
	"categories", "tags",
	// playlist context
	"playlist", "playlist_id", "playlist_title", "playlist_count", "playlist_index",
	"playlist_autonumber", "playlist_uploader", "playlist_uploader_id",
	"playlist_channel", "playlist_channel_id", "n_entries", "autonumber", "video_autonumber",
	// chapters, series, music
	"chapter", "chapter_number", "chapter_id",
	"series", "series_id", "season", "season_number", "season_id",
	"episode", "episode_number", "episode_id",
	"track", "track_number", "track_id", "artists", "genres", "album", "album_type",
	"album_artists", "disc_number",
	"section_title", "section_number", "section_start", "section_end",
	// format
	"format", "format_id", "format_note", "width", "height", "resolution", "fps",
	"vcodec", "acodec", "tbr", "abr", "vbr", "asr", "filesize", "filesize_approx",
	// files
	"filename", "filepath",
}

// ProgressTemplate returns the --progress-template value producing
// ProgressMarker lines. Missing values render as JSON null.
func ProgressTemplate() string {
	keys := make([]string, len(progressFields))
	for i, f := range progressFields {
		keys[i] = "progress." + f
	}
	return "download:" + ProgressMarker + jsonTemplate(progressFields, keys)
}

// MetadataTemplate returns the --print value producing a metadata line for stage
func MetadataTemplate(stage media.Stage) string {
	return string(stage) + ":" + markerFor(stage) + jsonTemplate(MetadataFields, MetadataFields)
}

// jsonTemplate renders {"name":%(key|null)j,...}. yt-dlp substitutes the
// literal default for a missing value without applying the j conversion, so
// absent fields become null while empty strings stay "".
func jsonTemplate(names, keys []string) string {
	var b strings.Builder
	b.WriteByte('{')
	for i, name := range names {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(`"` + name + `":%(` + keys[i] + `|null)j`)
	}
	b.WriteByte('}')
	return b.String()
}

// markerOf returns the highest priority marker found anywhere in line and
// the text following it. Terminal control sequences or warnings yt-dlp
// writes ahead of a marker do not hide it.
func markerOf(line string) (marker, payload string) {
	for _, m := range markers {
		if i := strings.Index(line, m); i >= 0 {
			return m, line[i+len(m):]
		}
	}
	return "", ""
}
