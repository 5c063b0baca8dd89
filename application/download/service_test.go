package download

import (
	"context"
	"errors"
	"io"
	"os"
	"slices"
	"strings"
	"testing"

	"mediafetch/domain/media"
	"mediafetch/domain/options"
	"mediafetch/domain/parse"
	"mediafetch/infrastructure/ytdlp"
)

// --- Mock implementations for testing ---

// mockProcess implements ytdlp.Process with canned output
type mockProcess struct {
	stdout, stderr string
	code           int
}

func (p *mockProcess) Stdout() io.Reader               { return strings.NewReader(p.stdout) }
func (p *mockProcess) Stderr() io.Reader               { return strings.NewReader(p.stderr) }
func (p *mockProcess) Wait() (ytdlp.ExitStatus, error) { return ytdlp.ExitStatus{Code: p.code}, nil }
func (p *mockProcess) Signal(os.Signal) error          { return nil }
func (p *mockProcess) Pid() int                        { return 1 }

// mockRunner implements ytdlp.CommandRunner for testing
type mockRunner struct {
	proc  *mockProcess
	args  []string
	calls int
}

func (r *mockRunner) Start(ctx context.Context, name string, args ...string) (ytdlp.Process, error) {
	r.calls++
	r.args = args
	return r.proc, nil
}

func newTestService(r *mockRunner, opts ...Option) *Service {
	return NewService(ytdlp.NewClient(ytdlp.WithBinary("yt-dlp"), ytdlp.WithCommandRunner(r)), opts...)
}

func TestArgs(t *testing.T) {
	s := NewService(nil, WithFFmpeg("/opt/ffmpeg"))

	t.Run("minimal request", func(t *testing.T) {
		args := NewService(nil).Args(Request{URL: "https://example.com/v/1", Options: options.Options{Format: options.RawFormat("best")}})
		if args[0] != "-f" || args[1] != "best" {
			t.Errorf("expected format first, got %v", args)
		}
		if args[len(args)-1] != "https://example.com/v/1" || args[len(args)-2] != "--no-simulate" {
			t.Errorf("expected --no-simulate then url at the end, got %v", args)
		}
		if slices.Contains(args, "--progress-template") {
			t.Error("progress template requested without a progress callback")
		}
		if slices.Contains(args, parse.MetadataTemplate(media.StageBeforeDownload)) {
			t.Error("before template requested without a callback")
		}
		if !slices.Contains(args, "after_move:filepath") || !slices.Contains(args, parse.MetadataTemplate(media.StageAfterDownload)) {
			t.Errorf("missing after-download prints: %v", args)
		}
	})

	t.Run("callbacks and ffmpeg after raw", func(t *testing.T) {
		args := s.Args(Request{
			URL:              "u",
			Options:          options.Options{Raw: []string{"--foo"}},
			OnProgress:       func(media.Progress) {},
			OnBeforeDownload: func(media.Metadata) {},
		})
		raw := slices.Index(args, "--foo")
		for _, directive := range []string{"--ffmpeg-location", "--progress-template", parse.MetadataTemplate(media.StageBeforeDownload)} {
			if i := slices.Index(args, directive); i < raw {
				t.Errorf("%s must come after raw tokens: %v", directive, args)
			}
		}
		if i := slices.Index(args, "--ffmpeg-location"); args[i+1] != "/opt/ffmpeg" {
			t.Errorf("unexpected ffmpeg location %v", args)
		}
	})

	t.Run("sidecar prints", func(t *testing.T) {
		args := s.Args(Request{URL: "u", Options: options.Options{WriteThumbnail: true, WriteSubs: true}})
		if !slices.Contains(args, thumbnailPaths) || !slices.Contains(args, subtitlePaths) {
			t.Errorf("expected sidecar prints, got %v", args)
		}
	})
}

func TestDownload_ResultHasFilepathOnce(t *testing.T) {
	stdout := strings.Join([]string{
		parse.ProgressMarker + `{"status":"finished","downloaded_bytes":2048,"total_bytes":2048}`,
		parse.AfterMarker + `{"id":"1","title":"Clip","filepath":"/dl/clip.mp4"}`,
		"/dl/clip.mp4",
		"/dl/clip.webp",
		"/dl/clip.en.vtt",
		"",
	}, "\n")
	runner := &mockRunner{proc: &mockProcess{stdout: stdout}}

	var progress []media.Progress
	var after []media.Metadata
	result, err := newTestService(runner).Download(context.Background(), Request{
		URL:             "https://example.com/v/1",
		OnProgress:      func(p media.Progress) { progress = append(progress, p) },
		OnAfterDownload: func(m media.Metadata) { after = append(after, m) },
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !slices.Equal(result.Files, []string{"/dl/clip.mp4"}) {
		t.Errorf("expected the filepath exactly once, got %v", result.Files)
	}
	if !slices.Equal(result.Thumbnails, []string{"/dl/clip.webp"}) || !slices.Equal(result.Subtitles, []string{"/dl/clip.en.vtt"}) {
		t.Errorf("unexpected sidecars %v %v", result.Thumbnails, result.Subtitles)
	}
	if len(result.Metadata) != 1 || result.Metadata[0].String("title") != "Clip" {
		t.Errorf("unexpected metadata %+v", result.Metadata)
	}
	if len(progress) != 1 || !progress[0].Finished() {
		t.Errorf("unexpected progress %+v", progress)
	}
	if len(after) != 1 {
		t.Errorf("expected one after-download callback, got %d", len(after))
	}
	if result.Output != stdout {
		t.Error("expected raw output preserved")
	}
}

func TestDownload_UnsupportedURL(t *testing.T) {
	runner := &mockRunner{proc: &mockProcess{stderr: "ERROR: Unsupported URL", code: 1}}

	result, err := newTestService(runner).Download(context.Background(), Request{URL: "https://example.com/nope"})
	if result != nil {
		t.Errorf("expected no result on failure, got %+v", result)
	}
	var execErr *media.ExecError
	if !errors.As(err, &execErr) {
		t.Fatalf("expected ExecError, got %v", err)
	}
	if execErr.ExitCode != 1 {
		t.Errorf("expected exit code 1, got %d", execErr.ExitCode)
	}
	if !strings.Contains(err.Error(), "ERROR: Unsupported URL") {
		t.Errorf("error should contain stderr: %v", err)
	}
}

func TestDownload_NoBinary(t *testing.T) {
	s := NewService(ytdlp.NewClient())
	op := s.New(Request{URL: "u"})
	if _, err := op.Run(context.Background()); !errors.Is(err, media.ErrBinaryNotConfigured) {
		t.Errorf("expected ErrBinaryNotConfigured, got %v", err)
	}
	if op.State() != media.StateFailed {
		t.Errorf("expected failed, got %s", op.State())
	}
}

func TestOperation_StateAndIdempotence(t *testing.T) {
	runner := &mockRunner{proc: &mockProcess{stdout: "/dl/a.mkv\n"}}
	op := newTestService(runner).New(Request{URL: "u"})

	first, err := op.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, _ := op.Run(context.Background())
	if first != second || runner.calls != 1 {
		t.Errorf("expected a single run, got %d spawns", runner.calls)
	}
	if op.State() != media.StateCompleted {
		t.Errorf("expected completed, got %s", op.State())
	}
}

func TestNewResult(t *testing.T) {
	out := &media.ProcessOutput{Stdout: parse.AfterMarker + `{"filepath":"/a.mkv"}` + "\n" + parse.AfterMarker + `{"filepath":"/b.mkv"}` + "\n/a.mkv\n"}
	r := NewResult(out)
	if !slices.Equal(r.Files, []string{"/a.mkv", "/b.mkv"}) {
		t.Errorf("unexpected files %v", r.Files)
	}
	if len(r.After()) != 2 {
		t.Errorf("expected two after records, got %d", len(r.After()))
	}
}
