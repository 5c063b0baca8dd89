// Package info queries yt-dlp for metadata without downloading
package info

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"mediafetch/application/operation"
	"mediafetch/domain/media"
	"mediafetch/domain/options"
	"mediafetch/domain/parse"
)

// Service answers metadata questions about a URL
type Service struct {
	factory media.SessionFactory
	logger  zerolog.Logger
}

// Option is a functional option for configuring Service
type Option func(*Service)

// WithLogger sets the service logger
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// NewService creates an info service
func NewService(factory media.SessionFactory, opts ...Option) *Service {
	s := &Service{
		factory: factory,
		logger:  zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Info returns the single-JSON info document for url. Playlists come back
// with their entries.
func (s *Service) Info(ctx context.Context, url string, o options.Options) (*media.Info, error) {
	stdout, err := s.run(ctx, options.Build(o, url, "--dump-single-json"))
	if err != nil {
		return nil, err
	}
	var info media.Info
	if err := json.Unmarshal([]byte(stdout), &info); err != nil {
		return nil, fmt.Errorf("failed to parse yt-dlp info for %s: %w", url, err)
	}
	s.logger.Debug().Str("url", url).Str("id", info.ID).Msg("fetched info")
	return &info, nil
}

// DirectURLs returns the media URLs yt-dlp would download, one per
// selected format
func (s *Service) DirectURLs(ctx context.Context, url string, o options.Options) ([]string, error) {
	stdout, err := s.run(ctx, options.Build(o, url, "--print", "urls"))
	if err != nil {
		return nil, err
	}
	return parse.PrintedLines(stdout), nil
}

// Title returns the title of url
func (s *Service) Title(ctx context.Context, url string, o options.Options) (string, error) {
	stdout, err := s.run(ctx, options.Build(o, url, "--print", "title"))
	if err != nil {
		return "", err
	}
	lines := parse.PrintedLines(stdout)
	if len(lines) == 0 {
		return "", nil
	}
	return lines[0], nil
}

// Formats returns the formats available for url
func (s *Service) Formats(ctx context.Context, url string, o options.Options) ([]media.Format, error) {
	info, err := s.Info(ctx, url, o)
	if err != nil {
		return nil, err
	}
	return info.Formats, nil
}

// Thumbnails returns the thumbnails available for url
func (s *Service) Thumbnails(ctx context.Context, url string, o options.Options) ([]media.Thumbnail, error) {
	info, err := s.Info(ctx, url, o)
	if err != nil {
		return nil, err
	}
	return info.Thumbnails, nil
}

// Version returns the yt-dlp version string
func (s *Service) Version(ctx context.Context) (string, error) {
	stdout, err := s.run(ctx, []string{"--version"})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(stdout), nil
}

func (s *Service) run(ctx context.Context, args []string) (string, error) {
	op := operation.New(s.factory, args, func(ctx context.Context, sess media.Session) (string, error) {
		out, err := sess.Run(ctx)
		if err != nil {
			return "", err
		}
		return out.Stdout, nil
	})
	return op.Run(ctx)
}
