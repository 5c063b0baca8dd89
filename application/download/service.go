// Package download runs yt-dlp downloads and aggregates what they produced
package download

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"mediafetch/application/operation"
	"mediafetch/domain/media"
	"mediafetch/domain/options"
	"mediafetch/domain/parse"
)

// Print directives for sidecar files yt-dlp does not report through filepath
const (
	thumbnailPaths = "after_move:%(thumbnails.:.filepath|)#l"
	subtitlePaths  = "after_move:%(requested_subtitles.:.filepath|)#l"
)

// Request describes one download. The callbacks are optional; progress and
// before-download reporting are only requested from yt-dlp when set.
type Request struct {
	URL     string
	Options options.Options

	OnProgress       func(media.Progress)
	OnBeforeDownload func(media.Metadata)
	OnAfterDownload  func(media.Metadata)
}

// Operation is a prepared download
type Operation = operation.Operation[*media.Result]

// Service downloads media through a session factory
type Service struct {
	factory media.SessionFactory
	ffmpeg  string
	logger  zerolog.Logger
}

// Option is a functional option for configuring Service
type Option func(*Service)

// WithFFmpeg passes an ffmpeg location to every download
func WithFFmpeg(path string) Option {
	return func(s *Service) {
		s.ffmpeg = path
	}
}

// WithLogger sets the service logger
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// NewService creates a download service
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

// Args returns the argument vector for req
func (s *Service) Args(req Request) []string {
	var directives []string
	if s.ffmpeg != "" {
		directives = append(directives, "--ffmpeg-location", s.ffmpeg)
	}
	if req.OnProgress != nil {
		directives = append(directives, "--progress", "--newline", "--progress-template", parse.ProgressTemplate())
	}
	if req.OnBeforeDownload != nil {
		directives = append(directives, "--print", parse.MetadataTemplate(media.StageBeforeDownload))
	}
	directives = append(directives,
		"--print", parse.MetadataTemplate(media.StageAfterDownload),
		"--print", "after_move:filepath",
	)
	if req.Options.WriteThumbnail || req.Options.WriteAllThumbnails {
		directives = append(directives, "--print", thumbnailPaths)
	}
	if req.Options.WriteSubs || req.Options.WriteAutoSubs {
		directives = append(directives, "--print", subtitlePaths)
	}
	// --print implies --simulate
	directives = append(directives, "--no-simulate")

	return options.Build(req.Options, req.URL, directives...)
}

// New prepares a download without starting it
func (s *Service) New(req Request) *Operation {
	args := s.Args(req)
	return operation.New(s.factory, args, func(ctx context.Context, sess media.Session) (*media.Result, error) {
		if req.OnProgress != nil {
			sess.On(media.EventProgress, func(ev media.Event) { req.OnProgress(ev.Progress) })
		}
		if req.OnBeforeDownload != nil {
			sess.On(media.EventBeforeDownload, func(ev media.Event) { req.OnBeforeDownload(ev.Metadata) })
		}
		if req.OnAfterDownload != nil {
			sess.On(media.EventAfterDownload, func(ev media.Event) { req.OnAfterDownload(ev.Metadata) })
		}

		s.logger.Debug().Str("url", req.URL).Msg("starting download")
		out, err := sess.Run(ctx)
		if err != nil {
			return nil, fmt.Errorf("download of %s failed: %w", req.URL, err)
		}
		result := NewResult(out)
		s.logger.Info().Str("url", req.URL).Int("files", len(result.Files)).Msg("download finished")
		return result, nil
	})
}

// Download runs req to completion
func (s *Service) Download(ctx context.Context, req Request) (*media.Result, error) {
	return s.New(req).Run(ctx)
}

// NewResult aggregates a finished process's output. Printed lines and
// after-download file paths are classified and deduplicated.
func NewResult(out *media.ProcessOutput) *media.Result {
	r := &media.Result{
		Output:   out.Stdout,
		Stderr:   out.Stderr,
		Metadata: parse.Records(out.Stdout),
	}
	for _, line := range parse.PrintedLines(out.Stdout) {
		r.AddPath(line)
	}
	for _, md := range r.After() {
		r.AddPath(md.FilePath())
	}
	return r
}
