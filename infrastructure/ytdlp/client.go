// Package ytdlp spawns and supervises yt-dlp processes
package ytdlp

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"mediafetch/domain/media"
)

// Client creates yt-dlp sessions
type Client struct {
	binary string
	ffmpeg string
	runner CommandRunner
	logger zerolog.Logger
}

// Option is a functional option for configuring Client
type Option func(*Client)

// WithBinary sets the yt-dlp executable path
func WithBinary(path string) Option {
	return func(c *Client) {
		c.binary = path
	}
}

// WithFFmpeg sets the ffmpeg location passed to yt-dlp
func WithFFmpeg(path string) Option {
	return func(c *Client) {
		c.ffmpeg = path
	}
}

// WithCommandRunner sets a custom command runner (for testing)
func WithCommandRunner(runner CommandRunner) Option {
	return func(c *Client) {
		c.runner = runner
	}
}

// WithLogger sets the logger sessions derive theirs from
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a client. Without WithBinary every command fails
// with media.ErrBinaryNotConfigured.
func NewClient(opts ...Option) *Client {
	c := &Client{
		runner: &ExecCommandRunner{},
		logger: zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Binary returns the configured yt-dlp path
func (c *Client) Binary() string { return c.binary }

// FFmpeg returns the configured ffmpeg location, if any
func (c *Client) FFmpeg() string { return c.ffmpeg }

// Command prepares a session for args without spawning it
func (c *Client) Command(args []string, opts ...SessionOption) (*Session, error) {
	if c.binary == "" {
		return nil, media.ErrBinaryNotConfigured
	}
	return newSession(c, args, opts...), nil
}

// NewSession implements media.SessionFactory
func (c *Client) NewSession(args []string) (media.Session, error) {
	s, err := c.Command(args)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Version returns the output of yt-dlp --version
func (c *Client) Version(ctx context.Context) (string, error) {
	s, err := c.Command([]string{"--version"})
	if err != nil {
		return "", err
	}
	out, err := s.Run(ctx)
	if err != nil {
		return "", fmt.Errorf("yt-dlp version check failed: %w", err)
	}
	return strings.TrimSpace(out.Stdout), nil
}

// VerifyInstalled checks that yt-dlp is available
func (c *Client) VerifyInstalled(ctx context.Context) error {
	if _, err := c.Version(ctx); err != nil {
		return fmt.Errorf("yt-dlp not found or not executable: %w", err)
	}
	return nil
}

// Ensure Client implements media.SessionFactory
var _ media.SessionFactory = (*Client)(nil)
