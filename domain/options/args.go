package options

import (
	"slices"
	"strconv"
	"strings"
)

// Flags renders o as structured flags in a fixed order followed by o.Raw verbatim
func Flags(o Options) []string {
	a := &args{}

	a.flag("--ignore-errors", o.IgnoreErrors)
	a.flag("--abort-on-error", o.AbortOnError)
	a.flag("--no-playlist", o.NoPlaylist)
	a.flag("--yes-playlist", o.YesPlaylist)
	a.flag("--flat-playlist", o.FlatPlaylist)
	a.flag("--live-from-start", o.LiveFromStart)
	a.joined("--compat-options", o.CompatOptions, ",")

	a.value("--proxy", o.Proxy)
	a.float("--socket-timeout", o.SocketTimeout)
	a.value("--source-address", o.SourceAddress)
	a.flag("--force-ipv4", o.ForceIPv4)
	a.flag("--force-ipv6", o.ForceIPv6)
	a.value("--geo-verification-proxy", o.GeoProxy)
	a.value("--xff", o.GeoCountry)

	a.value("--playlist-items", o.PlaylistItems)
	a.value("--min-filesize", o.MinFilesize)
	a.value("--max-filesize", o.MaxFilesize)
	a.value("--date", o.Date)
	a.value("--datebefore", o.DateBefore)
	a.value("--dateafter", o.DateAfter)
	a.repeated("--match-filters", o.MatchFilters)
	a.flag("--break-on-existing", o.BreakOnExisting)
	a.positive("--max-downloads", o.MaxDownloads)
	a.value("--download-archive", o.DownloadArchive)
	a.int("--age-limit", o.AgeLimit)

	a.positive("--concurrent-fragments", o.ConcurrentFragments)
	a.value("--limit-rate", o.LimitRate)
	a.int("--retries", o.Retries)
	a.int("--fragment-retries", o.FragmentRetries)
	a.repeated("--download-sections", o.DownloadSections)
	a.value("--downloader", o.Downloader)

	a.value("-o", o.Output)
	a.pairs("-P", o.Paths)
	a.flag("--restrict-filenames", o.RestrictFilenames)
	a.flag("--no-overwrites", o.NoOverwrites)
	a.flag("--force-overwrites", o.ForceOverwrites)
	a.flag("--no-continue", o.NoContinue)
	a.flag("--no-part", o.NoPart)
	a.flag("--write-description", o.WriteDescription)
	a.flag("--write-info-json", o.WriteInfoJSON)
	a.value("--cookies", o.Cookies)
	a.value("--cookies-from-browser", o.CookiesFromBrowser)
	a.value("--cache-dir", o.CacheDir)
	a.flag("--no-cache-dir", o.NoCacheDir)

	a.flag("--write-thumbnail", o.WriteThumbnail)
	a.flag("--write-all-thumbnails", o.WriteAllThumbnails)

	a.flag("--quiet", o.Quiet)
	a.flag("--no-warnings", o.NoWarnings)
	a.flag("--simulate", o.Simulate)
	a.flag("--skip-download", o.SkipDownload)
	a.flag("--verbose", o.Verbose)

	a.flag("--no-check-certificates", o.NoCheckCertificates)
	a.pairs("--add-headers", o.AddHeaders)
	a.float("--sleep-requests", o.SleepRequests)
	a.float("--sleep-interval", o.SleepInterval)
	a.float("--max-sleep-interval", o.MaxSleepInterval)

	if selector, extra := o.Format.Resolve(); selector != "" {
		a.value("-f", selector)
		a.tokens = append(a.tokens, extra...)
	}
	a.joined("-S", o.FormatSort, ",")
	a.value("--merge-output-format", o.MergeOutputFormat)

	a.flag("--write-subs", o.WriteSubs)
	a.flag("--write-auto-subs", o.WriteAutoSubs)
	a.value("--sub-format", o.SubFormat)
	a.joined("--sub-langs", o.SubLangs, ",")

	a.value("--username", o.Username)
	a.value("--password", o.Password)
	a.value("--twofactor", o.TwoFactor)
	a.flag("--netrc", o.Netrc)
	a.value("--video-password", o.VideoPassword)

	a.flag("--extract-audio", o.ExtractAudio)
	a.value("--audio-format", o.AudioFormat)
	a.value("--audio-quality", o.AudioQuality)
	a.value("--remux-video", o.RemuxVideo)
	a.value("--recode-video", o.RecodeVideo)
	a.lists("--postprocessor-args", o.PostprocessorArgs, " ")
	a.flag("--keep-video", o.KeepVideo)
	a.flag("--embed-subs", o.EmbedSubs)
	a.flag("--embed-thumbnail", o.EmbedThumbnail)
	a.flag("--embed-metadata", o.EmbedMetadata)
	a.flag("--embed-chapters", o.EmbedChapters)
	a.repeated("--parse-metadata", o.ParseMetadata)
	a.value("--convert-subs", o.ConvertSubs)
	a.value("--convert-thumbnails", o.ConvertThumbnails)
	a.flag("--split-chapters", o.SplitChapters)
	a.repeated("--exec", o.Exec)

	a.joined("--sponsorblock-mark", o.SponsorBlockMark, ",")
	a.joined("--sponsorblock-remove", o.SponsorBlockRemove, ",")

	a.int("--extractor-retries", o.ExtractorRetries)
	a.lists("--extractor-args", o.ExtractorArgs, ";")

	return append(a.tokens, o.Raw...)
}

// Build returns the full argument vector: Flags(o), then directives, then url.
// Directives go after raw tokens so they cannot be overridden by them.
func Build(o Options, url string, directives ...string) []string {
	argv := Flags(o)
	argv = append(argv, directives...)
	if url != "" {
		argv = append(argv, url)
	}
	return argv
}

type args struct {
	tokens []string
}

func (a *args) flag(name string, on bool) {
	if on {
		a.tokens = append(a.tokens, name)
	}
}

func (a *args) value(name, v string) {
	if v != "" {
		a.tokens = append(a.tokens, name, v)
	}
}

func (a *args) positive(name string, n int) {
	if n > 0 {
		a.tokens = append(a.tokens, name, strconv.Itoa(n))
	}
}

func (a *args) int(name string, n *int) {
	if n != nil {
		a.tokens = append(a.tokens, name, strconv.Itoa(*n))
	}
}

func (a *args) float(name string, f *float64) {
	if f != nil {
		a.tokens = append(a.tokens, name, strconv.FormatFloat(*f, 'f', -1, 64))
	}
}

// joined emits one flag with all values joined by sep
func (a *args) joined(name string, values []string, sep string) {
	if len(values) > 0 {
		a.tokens = append(a.tokens, name, strings.Join(values, sep))
	}
}

// repeated emits the flag once per value
func (a *args) repeated(name string, values []string) {
	for _, v := range values {
		a.tokens = append(a.tokens, name, v)
	}
}

// pairs emits "name key:value" per entry in key order
func (a *args) pairs(name string, m map[string]string) {
	for _, k := range sortedKeys(m) {
		a.tokens = append(a.tokens, name, k+":"+m[k])
	}
}

// lists emits "name key:v1<sep>v2" per entry in key order
func (a *args) lists(name string, m map[string][]string, sep string) {
	for _, k := range sortedKeys(m) {
		a.tokens = append(a.tokens, name, k+":"+strings.Join(m[k], sep))
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
