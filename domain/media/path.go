package media

import (
	"path/filepath"
	"strings"
)

// PathKind is the category a printed output path falls into
type PathKind int

const (
	PathFile PathKind = iota
	PathThumbnail
	PathSubtitle
)

func (k PathKind) String() string {
	switch k {
	case PathThumbnail:
		return "thumbnail"
	case PathSubtitle:
		return "subtitle"
	default:
		return "file"
	}
}

var thumbnailExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".webp": true,
	".gif": true, ".bmp": true, ".avif": true,
}

var subtitleExtensions = map[string]bool{
	".vtt": true, ".srt": true, ".ass": true, ".ssa": true, ".lrc": true,
	".ttml": true, ".dfxp": true, ".sbv": true, ".srv1": true, ".srv2": true,
	".srv3": true, ".json3": true,
}

// ClassifyPath returns the category of path based only on its extension.
// Unrecognized extensions are files.
func ClassifyPath(path string) PathKind {
	ext := strings.ToLower(filepath.Ext(strings.TrimSpace(path)))
	switch {
	case thumbnailExtensions[ext]:
		return PathThumbnail
	case subtitleExtensions[ext]:
		return PathSubtitle
	default:
		return PathFile
	}
}
