package config

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"mediafetch/domain/options"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

const (
	envVarPrefix = "MEDIAFETCH"
	appName      = "mediafetch"
)

// Binary names searched on PATH when none is configured
var (
	YtDlpBinary  = "yt-dlp"
	FFmpegBinary = "ffmpeg"
)

// lookPath is swapped in tests
var lookPath = exec.LookPath

// Config represents the complete application configuration
type Config struct {
	Binaries BinariesConfig  `yaml:"binaries"`
	Defaults options.Options `yaml:"defaults"`
	Drive    DriveConfig     `yaml:"drive"`
	Log      LogConfig       `yaml:"log"`
}

// BinariesConfig locates the external tools
type BinariesConfig struct {
	YtDlp  string `yaml:"yt_dlp"`
	FFmpeg string `yaml:"ffmpeg"`
}

// DriveConfig contains Google Drive upload settings
type DriveConfig struct {
	CredentialsFile string `yaml:"credentials_file"`
	TokenFile       string `yaml:"token_file"`
	FolderID        string `yaml:"folder_id"`
	Share           bool   `yaml:"share"`
}

// Enabled reports whether enough is configured to upload
func (d DriveConfig) Enabled() bool {
	return d.CredentialsFile != "" && d.FolderID != ""
}

// LogConfig contains logging settings
type LogConfig struct {
	Debug bool `yaml:"debug"`
}

// environment holds the MEDIAFETCH_* overrides; nil pointers mean unset
type environment struct {
	YtDlp            string `envconfig:"YTDLP"`
	FFmpeg           string `envconfig:"FFMPEG"`
	DriveCredentials string `envconfig:"DRIVE_CREDENTIALS"`
	DriveToken       string `envconfig:"DRIVE_TOKEN"`
	DriveFolder      string `envconfig:"DRIVE_FOLDER"`
	DriveShare       *bool  `envconfig:"DRIVE_SHARE"`
	Debug            *bool  `envconfig:"DEBUG"`
}

// DefaultPath returns the per-user config file location
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return appName + ".yaml"
	}
	return filepath.Join(dir, appName, "config.yaml")
}

// Load reads the YAML file at path, applies MEDIAFETCH_* environment
// overrides and fills unset binaries from PATH. An empty path means
// DefaultPath, which may be absent.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	var cfg Config
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	case explicit || !errors.Is(err, os.ErrNotExist):
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := cfg.applyEnvironment(); err != nil {
		return nil, err
	}
	cfg.resolveBinaries()

	return &cfg, nil
}

func (c *Config) applyEnvironment() error {
	var env environment
	if err := envconfig.Process(envVarPrefix, &env); err != nil {
		return fmt.Errorf("parsing environment variables: %w", err)
	}

	override(&c.Binaries.YtDlp, env.YtDlp)
	override(&c.Binaries.FFmpeg, env.FFmpeg)
	override(&c.Drive.CredentialsFile, env.DriveCredentials)
	override(&c.Drive.TokenFile, env.DriveToken)
	override(&c.Drive.FolderID, env.DriveFolder)
	if env.DriveShare != nil {
		c.Drive.Share = *env.DriveShare
	}
	if env.Debug != nil {
		c.Log.Debug = *env.Debug
	}
	return nil
}

func (c *Config) resolveBinaries() {
	if c.Binaries.YtDlp == "" {
		if p, err := lookPath(YtDlpBinary); err == nil {
			c.Binaries.YtDlp = p
		}
	}
	if c.Binaries.FFmpeg == "" {
		if p, err := lookPath(FFmpegBinary); err == nil {
			c.Binaries.FFmpeg = p
		}
	}
}

func override(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}
