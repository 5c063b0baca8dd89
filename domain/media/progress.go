package media

// Download statuses reported by yt-dlp progress hooks
const (
	StatusDownloading = "downloading"
	StatusFinished    = "finished"
)

// Progress is a self-contained snapshot of a single download's progress.
// Each snapshot supersedes the previous one; consumers never merge them.
type Progress struct {
	Filename        string
	Status          string
	DownloadedBytes float64
	TotalBytes      *float64 // exact total, or the estimate when yt-dlp has no exact total
	Speed           *float64 // bytes per second
	ETA             *float64 // seconds
	Percentage      *float64 // nil when the total is unknown or zero

	DownloadedStr string
	TotalStr      string
	SpeedStr      string
	ETAStr        string
	PercentageStr string
}

// Finished reports whether yt-dlp marked the file as complete
func (p Progress) Finished() bool {
	return p.Status == StatusFinished
}
