//go:build integration

package steps

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"mediafetch/application/download"
	"mediafetch/domain/media"
	"mediafetch/domain/options"
	"mediafetch/domain/parse"

	"github.com/cucumber/godog"
)

// downloadContext holds test state for download and stream scenarios
type downloadContext struct {
	runner  *scriptedRunner
	opts    options.Options
	args    []string
	result  *media.Result
	err     error
	payload string

	mu       sync.Mutex
	progress []media.Progress
}

// SharedDownloadContext is reset before each scenario via Before hook
var SharedDownloadContext *downloadContext

func getDownloadContext() *downloadContext {
	return SharedDownloadContext
}

func InitializeDownloadScenario(ctx *godog.ScenarioContext) {
	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		SharedDownloadContext = &downloadContext{
			runner: &scriptedRunner{proc: &scriptedProcess{}},
		}
		return c, nil
	})

	ctx.After(func(c context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		SharedDownloadContext = nil
		return c, nil
	})

	ctx.Step(`^the configured format is "([^"]*)"$`, theConfiguredFormatIs)
	ctx.Step(`^I build the download arguments for "([^"]*)"$`, iBuildTheDownloadArgumentsFor)
	ctx.Step(`^the arguments should end with "([^"]*)" before the internal directives$`, theArgumentsShouldEndWith)
	ctx.Step(`^yt-dlp will print a finished progress line for "([^"]*)"$`, ytdlpWillPrintAFinishedProgressLineFor)
	ctx.Step(`^yt-dlp will print after-download metadata with filepath "([^"]*)"$`, ytdlpWillPrintAfterDownloadMetadata)
	ctx.Step(`^yt-dlp will print the path "([^"]*)"$`, ytdlpWillPrintThePath)
	ctx.Step(`^yt-dlp will write "([^"]*)" to stderr$`, ytdlpWillWriteToStderr)
	ctx.Step(`^yt-dlp will exit with code (\d+)$`, ytdlpWillExitWithCode)
	ctx.Step(`^I download "([^"]*)" with progress reporting$`, iDownloadWithProgressReporting)
	ctx.Step(`^I download "([^"]*)"$`, iDownload)
	ctx.Step(`^the download should succeed$`, theDownloadShouldSucceed)
	ctx.Step(`^the download should fail with exit code (\d+)$`, theOperationShouldFailWithExitCode)
	ctx.Step(`^the result files should be exactly "([^"]*)"$`, theResultFilesShouldBeExactly)
	ctx.Step(`^the result thumbnails should be exactly "([^"]*)"$`, theResultThumbnailsShouldBeExactly)
	ctx.Step(`^the result subtitles should be exactly "([^"]*)"$`, theResultSubtitlesShouldBeExactly)
	ctx.Step(`^I should have received a progress update with status "([^"]*)"$`, iShouldHaveReceivedAProgressUpdateWithStatus)
	ctx.Step(`^the error message should contain "([^"]*)"$`, theErrorMessageShouldContain)
	ctx.Step(`^the error should carry a hint containing "([^"]*)"$`, theErrorShouldCarryAHintContaining)
}

func theConfiguredFormatIs(format string) error {
	d := getDownloadContext()
	d.opts.Format = options.RawFormat(format)
	return nil
}

func iBuildTheDownloadArgumentsFor(url string) error {
	d := getDownloadContext()
	d.args = options.Build(d.opts, url)
	return nil
}

func theArgumentsShouldEndWith(expected string) error {
	d := getDownloadContext()
	want := strings.Fields(expected)
	if len(d.args) < len(want) || !slices.Equal(d.args[len(d.args)-len(want):], want) {
		return fmt.Errorf("expected arguments to end with %v, got %v", want, d.args)
	}
	return nil
}

func ytdlpWillPrintAFinishedProgressLineFor(filename string) error {
	d := getDownloadContext()
	line, err := json.Marshal(map[string]any{
		"filename":         filename,
		"status":           "finished",
		"downloaded_bytes": 2048,
		"total_bytes":      2048,
	})
	if err != nil {
		return err
	}
	d.runner.proc.stdout.WriteString(parse.ProgressMarker + string(line) + "\n")
	return nil
}

func ytdlpWillPrintAfterDownloadMetadata(filepath string) error {
	d := getDownloadContext()
	line, err := json.Marshal(map[string]any{"title": "A Clip", "filepath": filepath})
	if err != nil {
		return err
	}
	d.runner.proc.stdout.WriteString(parse.AfterMarker + string(line) + "\n")
	return nil
}

func ytdlpWillPrintThePath(path string) error {
	getDownloadContext().runner.proc.stdout.WriteString(path + "\n")
	return nil
}

func ytdlpWillWriteToStderr(text string) error {
	getDownloadContext().runner.proc.stderr.WriteString(text + "\n")
	return nil
}

func ytdlpWillExitWithCode(code int) error {
	getDownloadContext().runner.proc.code = code
	return nil
}

func runDownload(url string, withProgress bool) {
	d := getDownloadContext()
	req := download.Request{URL: url, Options: d.opts}
	if withProgress {
		req.OnProgress = func(p media.Progress) {
			d.mu.Lock()
			defer d.mu.Unlock()
			d.progress = append(d.progress, p)
		}
	}
	d.result, d.err = download.NewService(newScriptedClient(d.runner)).Download(context.Background(), req)
	d.args = d.runner.lastArgs()
}

func iDownloadWithProgressReporting(url string) error {
	runDownload(url, true)
	return nil
}

func iDownload(url string) error {
	runDownload(url, false)
	return nil
}

func theDownloadShouldSucceed() error {
	d := getDownloadContext()
	if d.err != nil {
		return fmt.Errorf("expected download to succeed, but got error: %v", d.err)
	}
	if d.result == nil {
		return fmt.Errorf("no download result")
	}
	return nil
}

func theOperationShouldFailWithExitCode(code int) error {
	d := getDownloadContext()
	if d.err == nil {
		return fmt.Errorf("expected an error, got none")
	}
	var execErr *media.ExecError
	if !errors.As(d.err, &execErr) {
		return fmt.Errorf("expected an ExecError, got %T: %v", d.err, d.err)
	}
	if execErr.ExitCode != code {
		return fmt.Errorf("expected exit code %d, got %d", code, execErr.ExitCode)
	}
	return nil
}

func exactly(bucket string, got []string, want string) error {
	if len(got) != 1 || got[0] != want {
		return fmt.Errorf("expected %s to be exactly [%s], got %v", bucket, want, got)
	}
	return nil
}

func theResultFilesShouldBeExactly(path string) error {
	return exactly("files", getDownloadContext().result.Files, path)
}

func theResultThumbnailsShouldBeExactly(path string) error {
	return exactly("thumbnails", getDownloadContext().result.Thumbnails, path)
}

func theResultSubtitlesShouldBeExactly(path string) error {
	return exactly("subtitles", getDownloadContext().result.Subtitles, path)
}

func iShouldHaveReceivedAProgressUpdateWithStatus(status string) error {
	d := getDownloadContext()
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, p := range d.progress {
		if p.Status == status {
			if p.PercentageStr != "100%" {
				return fmt.Errorf("expected 100%% for a finished download, got %q", p.PercentageStr)
			}
			return nil
		}
	}
	return fmt.Errorf("no progress update with status %q among %d updates", status, len(d.progress))
}

func theErrorMessageShouldContain(text string) error {
	d := getDownloadContext()
	if d.err == nil || !strings.Contains(d.err.Error(), text) {
		return fmt.Errorf("expected error containing %q, got %v", text, d.err)
	}
	return nil
}

func theErrorShouldCarryAHintContaining(text string) error {
	d := getDownloadContext()
	var execErr *media.ExecError
	if !errors.As(d.err, &execErr) || !strings.Contains(execErr.Hint, text) {
		return fmt.Errorf("expected hint containing %q, got %v", text, d.err)
	}
	return nil
}
