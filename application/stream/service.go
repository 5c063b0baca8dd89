// Package stream pipes yt-dlp's stdout payload to a caller
package stream

import (
	"context"
	"io"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"mediafetch/application/operation"
	"mediafetch/domain/media"
	"mediafetch/domain/options"
	"mediafetch/domain/parse"
)

// Request describes one streamed download
type Request struct {
	URL     string
	Options options.Options

	OnProgress       func(media.Progress)
	OnBeforeDownload func(media.Metadata)
	OnAfterDownload  func(media.Metadata)
}

// Service streams media through a session factory
type Service struct {
	factory media.SessionFactory
	ffmpeg  string
	logger  zerolog.Logger
}

// Option is a functional option for configuring Service
type Option func(*Service)

// WithFFmpeg passes an ffmpeg location to every stream
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

// NewService creates a stream service
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

// Args returns the argument vector for req. Output goes to stdout; yt-dlp
// then writes all of its own reporting to stderr.
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
	if req.OnAfterDownload != nil {
		directives = append(directives, "--print", parse.MetadataTemplate(media.StageAfterDownload), "--no-simulate")
	}
	directives = append(directives, "-o", "-")
	return options.Build(req.Options, req.URL, directives...)
}

// New prepares a stream without starting it
func (s *Service) New(req Request) *Operation {
	return &Operation{
		id:      uuid.NewString(),
		service: s,
		req:     req,
		args:    s.Args(req),
		tracker: operation.NewTracker(),
		done:    make(chan struct{}),
	}
}

// PipeTo streams req into w and waits for yt-dlp to exit
func (s *Service) PipeTo(ctx context.Context, req Request, w io.Writer) error {
	return s.New(req).PipeTo(ctx, w)
}

// Buffer streams req into memory
func (s *Service) Buffer(ctx context.Context, req Request) ([]byte, error) {
	return s.New(req).Buffer(ctx)
}

// Operation is a single streamed download. Start, PipeTo and Buffer all
// share one process.
type Operation struct {
	id      string
	service *Service
	req     Request
	args    []string
	tracker *operation.Tracker

	once    sync.Once
	done    chan struct{}
	stream  media.PayloadStream
	session media.Session
}

// ID returns the operation's unique identifier
func (o *Operation) ID() string { return o.id }

// Args returns the argument vector the operation runs with
func (o *Operation) Args() []string { return append([]string(nil), o.args...) }

// State returns the operation's lifecycle state
func (o *Operation) State() media.State { return o.tracker.State() }

// Done is closed once yt-dlp exited or the session could not be created
func (o *Operation) Done() <-chan struct{} { return o.done }

// Start spawns yt-dlp and returns the payload stream without waiting
func (o *Operation) Start(ctx context.Context) media.PayloadStream {
	o.once.Do(func() { o.stream = o.start(ctx) })
	return o.stream
}

// PipeTo copies the payload into w and waits for yt-dlp to exit
func (o *Operation) PipeTo(ctx context.Context, w io.Writer) error {
	return o.Start(ctx).PipeTo(w)
}

// Buffer collects the whole payload in memory
func (o *Operation) Buffer(ctx context.Context) ([]byte, error) {
	return o.Start(ctx).Bytes()
}

// Cancel closes the stream, which kills yt-dlp
func (o *Operation) Cancel() {
	o.once.Do(func() {
		o.stream = operation.FailedStream(context.Canceled)
		o.tracker.Finish(context.Canceled)
		close(o.done)
	})
	_ = o.stream.Close()
}

func (o *Operation) start(ctx context.Context) media.PayloadStream {
	sess, err := o.service.factory.NewSession(o.args)
	if err != nil {
		o.tracker.Finish(err)
		close(o.done)
		return operation.FailedStream(err)
	}
	o.session = sess
	o.tracker.Attach(sess)

	req := o.req
	if req.OnProgress != nil {
		sess.On(media.EventProgress, func(ev media.Event) { req.OnProgress(ev.Progress) })
	}
	if req.OnBeforeDownload != nil {
		sess.On(media.EventBeforeDownload, func(ev media.Event) { req.OnBeforeDownload(ev.Metadata) })
	}
	if req.OnAfterDownload != nil {
		sess.On(media.EventAfterDownload, func(ev media.Event) { req.OnAfterDownload(ev.Metadata) })
	}
	sess.On(media.EventExit, func(ev media.Event) {
		o.tracker.Finish(ev.Err)
		if ev.Err != nil {
			o.service.logger.Error().Err(ev.Err).Str("url", req.URL).Msg("stream failed")
		} else {
			o.service.logger.Info().Str("url", req.URL).Msg("stream finished")
		}
		close(o.done)
	})

	o.service.logger.Debug().Str("url", req.URL).Msg("starting stream")
	return sess.Stream(ctx)
}
