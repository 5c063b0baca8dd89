package media

// Stage identifies when a metadata record was printed
type Stage string

const (
	StageBeforeDownload Stage = "before_dl"
	StageAfterDownload  Stage = "after_move"
)

// Metadata is one record printed by yt-dlp before or after a download.
// Field values are already coerced: numbers are float64, flags are bool,
// list fields are []string and placeholders are nil.
type Metadata struct {
	Stage  Stage
	Fields map[string]any
}

// String returns a string field, or "" when absent or not a string
func (m Metadata) String(key string) string {
	s, _ := m.Fields[key].(string)
	return s
}

// Number returns a numeric field
func (m Metadata) Number(key string) (float64, bool) {
	n, ok := m.Fields[key].(float64)
	return n, ok
}

// Bool returns a boolean field
func (m Metadata) Bool(key string) (bool, bool) {
	b, ok := m.Fields[key].(bool)
	return b, ok
}

// List returns a list field
func (m Metadata) List(key string) []string {
	l, _ := m.Fields[key].([]string)
	return l
}

// IsNull reports whether the field was present but carried no value
func (m Metadata) IsNull(key string) bool {
	v, ok := m.Fields[key]
	return ok && v == nil
}

// FilePath returns the final path of the downloaded file (after-download records only)
func (m Metadata) FilePath() string {
	return m.String("filepath")
}
