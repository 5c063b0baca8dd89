// Package options maps a structured yt-dlp configuration onto an argument vector
package options

// Options is the recognized subset of yt-dlp's command-line flags.
// Zero values emit nothing. Numeric pointers distinguish "unset" from zero.
type Options struct {
	// General
	IgnoreErrors  bool     `yaml:"ignore_errors"`
	AbortOnError  bool     `yaml:"abort_on_error"`
	NoPlaylist    bool     `yaml:"no_playlist"`
	YesPlaylist   bool     `yaml:"yes_playlist"`
	FlatPlaylist  bool     `yaml:"flat_playlist"`
	LiveFromStart bool     `yaml:"live_from_start"`
	CompatOptions []string `yaml:"compat_options"`

	// Network
	Proxy         string   `yaml:"proxy"`
	SocketTimeout *float64 `yaml:"socket_timeout"`
	SourceAddress string   `yaml:"source_address"`
	ForceIPv4     bool     `yaml:"force_ipv4"`
	ForceIPv6     bool     `yaml:"force_ipv6"`
	GeoProxy      string   `yaml:"geo_verification_proxy"`
	GeoCountry    string   `yaml:"xff"`

	// Video selection
	PlaylistItems   string   `yaml:"playlist_items"`
	MinFilesize     string   `yaml:"min_filesize"`
	MaxFilesize     string   `yaml:"max_filesize"`
	Date            string   `yaml:"date"`
	DateBefore      string   `yaml:"datebefore"`
	DateAfter       string   `yaml:"dateafter"`
	MatchFilters    []string `yaml:"match_filters"`
	BreakOnExisting bool     `yaml:"break_on_existing"`
	MaxDownloads    int      `yaml:"max_downloads"`
	DownloadArchive string   `yaml:"download_archive"`
	AgeLimit        *int     `yaml:"age_limit"`

	// Download
	ConcurrentFragments int      `yaml:"concurrent_fragments"`
	LimitRate           string   `yaml:"limit_rate"`
	Retries             *int     `yaml:"retries"`
	FragmentRetries     *int     `yaml:"fragment_retries"`
	DownloadSections    []string `yaml:"download_sections"`
	Downloader          string   `yaml:"downloader"`

	// Filesystem
	Output             string            `yaml:"output"`
	Paths              map[string]string `yaml:"paths"`
	RestrictFilenames  bool              `yaml:"restrict_filenames"`
	NoOverwrites       bool              `yaml:"no_overwrites"`
	ForceOverwrites    bool              `yaml:"force_overwrites"`
	NoContinue         bool              `yaml:"no_continue"`
	NoPart             bool              `yaml:"no_part"`
	WriteDescription   bool              `yaml:"write_description"`
	WriteInfoJSON      bool              `yaml:"write_info_json"`
	Cookies            string            `yaml:"cookies"`
	CookiesFromBrowser string            `yaml:"cookies_from_browser"`
	CacheDir           string            `yaml:"cache_dir"`
	NoCacheDir         bool              `yaml:"no_cache_dir"`

	// Thumbnails
	WriteThumbnail     bool `yaml:"write_thumbnail"`
	WriteAllThumbnails bool `yaml:"write_all_thumbnails"`

	// Verbosity
	Quiet        bool `yaml:"quiet"`
	NoWarnings   bool `yaml:"no_warnings"`
	Simulate     bool `yaml:"simulate"`
	SkipDownload bool `yaml:"skip_download"`
	Verbose      bool `yaml:"verbose"`

	// Workarounds
	NoCheckCertificates bool              `yaml:"no_check_certificates"`
	AddHeaders          map[string]string `yaml:"add_headers"`
	SleepRequests       *float64          `yaml:"sleep_requests"`
	SleepInterval       *float64          `yaml:"sleep_interval"`
	MaxSleepInterval    *float64          `yaml:"max_sleep_interval"`

	// Formats
	Format            *Format  `yaml:"format"`
	FormatSort        []string `yaml:"format_sort"`
	MergeOutputFormat string   `yaml:"merge_output_format"`

	// Subtitles
	WriteSubs     bool     `yaml:"write_subs"`
	WriteAutoSubs bool     `yaml:"write_auto_subs"`
	SubFormat     string   `yaml:"sub_format"`
	SubLangs      []string `yaml:"sub_langs"`

	// Authentication
	Username      string `yaml:"username"`
	Password      string `yaml:"password"`
	TwoFactor     string `yaml:"twofactor"`
	Netrc         bool   `yaml:"netrc"`
	VideoPassword string `yaml:"video_password"`

	// Post-processing
	ExtractAudio      bool                `yaml:"extract_audio"`
	AudioFormat       string              `yaml:"audio_format"`
	AudioQuality      string              `yaml:"audio_quality"`
	RemuxVideo        string              `yaml:"remux_video"`
	RecodeVideo       string              `yaml:"recode_video"`
	PostprocessorArgs map[string][]string `yaml:"postprocessor_args"`
	KeepVideo         bool                `yaml:"keep_video"`
	EmbedSubs         bool                `yaml:"embed_subs"`
	EmbedThumbnail    bool                `yaml:"embed_thumbnail"`
	EmbedMetadata     bool                `yaml:"embed_metadata"`
	EmbedChapters     bool                `yaml:"embed_chapters"`
	ParseMetadata     []string            `yaml:"parse_metadata"`
	ConvertSubs       string              `yaml:"convert_subs"`
	ConvertThumbnails string              `yaml:"convert_thumbnails"`
	SplitChapters     bool                `yaml:"split_chapters"`
	Exec              []string            `yaml:"exec"`

	// SponsorBlock
	SponsorBlockMark   []string `yaml:"sponsorblock_mark"`
	SponsorBlockRemove []string `yaml:"sponsorblock_remove"`

	// Extractors
	ExtractorRetries *int                `yaml:"extractor_retries"`
	ExtractorArgs    map[string][]string `yaml:"extractor_args"`

	// Raw tokens appended verbatim after every structured flag
	Raw []string `yaml:"raw"`
}

