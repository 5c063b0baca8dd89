package ytdlp

import "strings"

var hints = []struct {
	needles []string
	hint    string
}{
	{
		needles: []string{"no supported javascript runtime", "javascript runtime"},
		hint:    "yt-dlp needs a JavaScript runtime for this site. Install deno or node and make sure it is on PATH.",
	},
	{
		needles: []string{"ffmpeg not found", "ffprobe and ffmpeg not found", "ffmpeg is not installed"},
		hint:    "Install ffmpeg or point MEDIAFETCH_FFMPEG at the binary.",
	},
	{
		needles: []string{"sign in to confirm", "use --cookies", "login required", "cookies-from-browser"},
		hint:    "The site requires a signed-in session. Set cookies_from_browser or cookies in the options.",
	},
	{
		needles: []string{"http error 429", "too many requests"},
		hint:    "Rate limited by the site. Wait before retrying or set sleep_requests.",
	},
	{
		needles: []string{"unsupported url"},
		hint:    "yt-dlp does not recognize this URL. Check it for typos or update yt-dlp.",
	},
	{
		needles: []string{"requested format is not available", "format is not available"},
		hint:    "Run the info command to list available formats and choose one of them.",
	},
	{
		needles: []string{"private video", "video unavailable", "this video is unavailable"},
		hint:    "The video is private or unavailable in your region.",
	},
}

// hintFor returns remediation advice for the first known problem found in stderr
func hintFor(stderr string) string {
	lower := strings.ToLower(stderr)
	for _, h := range hints {
		for _, n := range h.needles {
			if strings.Contains(lower, n) {
				return h.hint
			}
		}
	}
	return ""
}
