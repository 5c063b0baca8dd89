package distribution

import (
	"mime"
	"path/filepath"
	"strings"
)

// UploadRequest contains the parameters needed to upload a file to Google Drive
type UploadRequest struct {
	LocalPath string // Full path to the local file
	FileName  string // Target filename in Google Drive
	FolderID  string // Target folder ID in Google Drive
	MimeType  string // MIME type of the file
	Share     bool   // Grant anyone-with-the-link read access
}

// UploadResult contains the result of a successful upload
type UploadResult struct {
	LocalPath    string // Path of the uploaded local file
	FileID       string // Google Drive file ID
	FileName     string // Name of the uploaded file
	ShareableURL string // URL for sharing the file
	Size         int64  // Size of the uploaded file in bytes
}

// MIME type constants for formats yt-dlp commonly produces
const (
	MimeTypeMP4  = "video/mp4"
	MimeTypeWebM = "video/webm"
	MimeTypeMKV  = "video/x-matroska"
	MimeTypeMP3  = "audio/mpeg"
	MimeTypeM4A  = "audio/mp4"
	MimeTypeOpus = "audio/ogg"
	MimeTypeVTT  = "text/vtt"
	MimeTypeSRT  = "application/x-subrip"
	MimeTypeWebP = "image/webp"
	MimeTypeJPEG = "image/jpeg"

	MimeTypeDefault = "application/octet-stream"
)

var mimeTypes = map[string]string{
	".mp4":  MimeTypeMP4,
	".webm": MimeTypeWebM,
	".mkv":  MimeTypeMKV,
	".mp3":  MimeTypeMP3,
	".m4a":  MimeTypeM4A,
	".opus": MimeTypeOpus,
	".ogg":  MimeTypeOpus,
	".vtt":  MimeTypeVTT,
	".srt":  MimeTypeSRT,
	".webp": MimeTypeWebP,
	".jpg":  MimeTypeJPEG,
	".jpeg": MimeTypeJPEG,
}

// MimeTypeFor guesses the MIME type of path from its extension
func MimeTypeFor(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if t, ok := mimeTypes[ext]; ok {
		return t
	}
	if t := mime.TypeByExtension(ext); t != "" {
		return t
	}
	return MimeTypeDefault
}
