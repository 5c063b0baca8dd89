package media

// ProcessOutput is what a finished yt-dlp process left behind
type ProcessOutput struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Args     []string
}

// Result aggregates everything a successful download produced
type Result struct {
	Output     string // raw stdout text
	Stderr     string
	Files      []string
	Thumbnails []string
	Subtitles  []string
	Metadata   []Metadata
}

// AddPath records path in the bucket matching its extension.
// Paths already present in any bucket are ignored.
func (r *Result) AddPath(path string) {
	if path == "" || r.HasPath(path) {
		return
	}
	switch ClassifyPath(path) {
	case PathThumbnail:
		r.Thumbnails = append(r.Thumbnails, path)
	case PathSubtitle:
		r.Subtitles = append(r.Subtitles, path)
	default:
		r.Files = append(r.Files, path)
	}
}

// HasPath reports whether path was already recorded
func (r *Result) HasPath(path string) bool {
	for _, bucket := range [][]string{r.Files, r.Thumbnails, r.Subtitles} {
		for _, p := range bucket {
			if p == path {
				return true
			}
		}
	}
	return false
}

// After returns the after-download metadata records
func (r *Result) After() []Metadata {
	var out []Metadata
	for _, m := range r.Metadata {
		if m.Stage == StageAfterDownload {
			out = append(out, m)
		}
	}
	return out
}
