//go:build integration

package steps

import (
	"bytes"
	"context"
	"fmt"
	"slices"
	"strings"

	"mediafetch/application/stream"

	"github.com/cucumber/godog"
)

// Stream scenarios share downloadContext and its Before hook
func InitializeStreamScenario(ctx *godog.ScenarioContext) {
	ctx.Step(`^yt-dlp will stream the payload "([^"]*)"$`, ytdlpWillStreamThePayload)
	ctx.Step(`^I stream "([^"]*)" into a buffer$`, iStreamIntoABuffer)
	ctx.Step(`^the stream should succeed$`, theStreamShouldSucceed)
	ctx.Step(`^the stream should fail with exit code (\d+)$`, theOperationShouldFailWithExitCode)
	ctx.Step(`^the buffer should contain "([^"]*)"$`, theBufferShouldContain)
	ctx.Step(`^the arguments should contain "([^"]*)"$`, theArgumentsShouldContain)
}

func ytdlpWillStreamThePayload(payload string) error {
	getDownloadContext().runner.proc.stdout.WriteString(payload)
	return nil
}

func iStreamIntoABuffer(url string) error {
	d := getDownloadContext()
	var buf bytes.Buffer
	svc := stream.NewService(newScriptedClient(d.runner))
	d.err = svc.PipeTo(context.Background(), stream.Request{URL: url, Options: d.opts}, &buf)
	d.payload = buf.String()
	d.args = d.runner.lastArgs()
	return nil
}

func theStreamShouldSucceed() error {
	d := getDownloadContext()
	if d.err != nil {
		return fmt.Errorf("expected stream to succeed, but got error: %v", d.err)
	}
	return nil
}

func theBufferShouldContain(payload string) error {
	d := getDownloadContext()
	if d.payload != payload {
		return fmt.Errorf("expected payload %q, got %q", payload, d.payload)
	}
	return nil
}

func theArgumentsShouldContain(expected string) error {
	d := getDownloadContext()
	want := strings.Fields(expected)
	for i := 0; i+len(want) <= len(d.args); i++ {
		if slices.Equal(d.args[i:i+len(want)], want) {
			return nil
		}
	}
	return fmt.Errorf("expected arguments to contain %v, got %v", want, d.args)
}
