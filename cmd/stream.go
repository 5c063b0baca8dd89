package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"mediafetch/application/stream"
	"mediafetch/domain/options"
	"mediafetch/infrastructure/logging"

	"github.com/spf13/cobra"
)

var (
	streamFormat     formatFlags
	streamTo         string
	streamNoProgress bool
)

var streamCmd = &cobra.Command{
	Use:   "stream URL [-- yt-dlp args...]",
	Short: "Stream media to stdout or a file",
	Long: `Stream media through yt-dlp's stdout without touching its download
directory. Progress is reported on stderr.

The destination only receives end-of-stream once yt-dlp exited
successfully; a failed run leaves a truncated file and a non-zero exit.

Example:
  mediafetch stream https://youtu.be/dQw4w9WgXcQ --filter audioonly > song.m4a
  mediafetch stream https://youtu.be/dQw4w9WgXcQ --to clip.mp4 --format 18`,
	Args: cobra.MinimumNArgs(1),
	RunE: runStream,
}

func init() {
	rootCmd.AddCommand(streamCmd)
	addFormatFlags(streamCmd, &streamFormat)
	streamCmd.Flags().StringVar(&streamTo, "to", "", "Write to this file instead of stdout")
	streamCmd.Flags().BoolVar(&streamNoProgress, "no-progress", false, "Disable progress bars")
}

// StreamParams are the inputs of one stream command
type StreamParams struct {
	URL      string
	Options  options.Options
	Progress bool
}

func runStream(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	if cfg == nil {
		return fmt.Errorf("configuration not loaded")
	}

	positional, raw := passthrough(args, cmd.ArgsLenAtDash())
	if len(positional) != 1 {
		return fmt.Errorf("expected exactly one URL before \"--\", got %d", len(positional))
	}

	opts := cfg.Defaults
	opts.Output = ""
	streamFormat.apply(&opts)
	opts.Raw = append(append([]string(nil), opts.Raw...), raw...)

	dst := cmd.OutOrStdout()
	if streamTo != "" {
		f, err := os.Create(streamTo)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", streamTo, err)
		}
		defer f.Close()
		dst = f
	}

	service := stream.NewService(newClient(cfg),
		stream.WithFFmpeg(cfg.Binaries.FFmpeg),
		stream.WithLogger(logging.For("stream")),
	)

	return RunStreamWithDependencies(cmd.Context(), service, StreamParams{
		URL:      positional[0],
		Options:  opts,
		Progress: !streamNoProgress,
	}, dst, cmd.ErrOrStderr())
}

// RunStreamWithDependencies runs the stream command with injected dependencies (for testing)
func RunStreamWithDependencies(
	ctx context.Context,
	service *stream.Service,
	params StreamParams,
	dst io.Writer,
	status io.Writer,
) error {
	req := stream.Request{URL: params.URL, Options: params.Options}

	var view *progressView
	if params.Progress {
		view = newProgressView(ctx, status)
		req.OnProgress = view.Update
	}

	err := service.PipeTo(ctx, req, dst)
	if view != nil {
		view.Close()
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(status, success("Stream complete!"))
	return nil
}
