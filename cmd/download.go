package cmd

import (
	"context"
	"fmt"
	"io"

	appdist "mediafetch/application/distribution"
	"mediafetch/application/download"
	"mediafetch/domain/distribution"
	"mediafetch/domain/media"
	"mediafetch/domain/options"
	"mediafetch/infrastructure/config"
	"mediafetch/infrastructure/drive"
	"mediafetch/infrastructure/logging"

	"github.com/spf13/cobra"
)

var (
	downloadFormat     formatFlags
	downloadOutput     string
	downloadNoProgress bool
	downloadUpload     bool
	downloadSidecars   bool
)

var downloadCmd = &cobra.Command{
	Use:   "download URL [-- yt-dlp args...]",
	Short: "Download media with live progress",
	Long: `Download media with yt-dlp and report the files it produced.

Format selection can be given as a raw selector (--format) or as a
filter/quality/type combination. Defaults come from the config file.

With --upload, the downloaded files are uploaded to the configured
Google Drive folder afterwards.

Example:
  mediafetch download https://youtu.be/dQw4w9WgXcQ --filter mergevideo --quality 1080p --type mp4
  mediafetch download https://youtu.be/dQw4w9WgXcQ --format "bv*+ba/b" -o "%(title)s.%(ext)s"
  mediafetch download https://youtu.be/dQw4w9WgXcQ --upload --sidecars -- --write-thumbnail`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDownload,
}

func init() {
	rootCmd.AddCommand(downloadCmd)
	addFormatFlags(downloadCmd, &downloadFormat)
	downloadCmd.Flags().StringVarP(&downloadOutput, "output", "o", "", "yt-dlp output template")
	downloadCmd.Flags().BoolVar(&downloadNoProgress, "no-progress", false, "Disable progress bars")
	downloadCmd.Flags().BoolVar(&downloadUpload, "upload", false, "Upload the downloaded files to Google Drive")
	downloadCmd.Flags().BoolVar(&downloadSidecars, "sidecars", false, "Also upload thumbnails and subtitles")
}

func addFormatFlags(cmd *cobra.Command, f *formatFlags) {
	cmd.Flags().StringVarP(&f.raw, "format", "f", "", "Raw yt-dlp format selector")
	cmd.Flags().StringVar(&f.filter, "filter", "", "Format filter: audioandvideo, videoonly, audioonly, mergevideo")
	cmd.Flags().StringVar(&f.quality, "quality", "", "Format quality: highest, lowest, 2160p ... 144p")
	cmd.Flags().StringVar(&f.typ, "type", "", "Container or audio type, e.g. mp4, mp3")
}

// DownloadParams are the inputs of one download command
type DownloadParams struct {
	URL      string
	Options  options.Options
	Progress bool
	Upload   bool
	Sidecars bool
}

func runDownload(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	if cfg == nil {
		return fmt.Errorf("configuration not loaded")
	}

	positional, raw := passthrough(args, cmd.ArgsLenAtDash())
	if len(positional) != 1 {
		return fmt.Errorf("expected exactly one URL before \"--\", got %d", len(positional))
	}

	opts := cfg.Defaults
	downloadFormat.apply(&opts)
	if downloadOutput != "" {
		opts.Output = downloadOutput
	}
	opts.Raw = append(append([]string(nil), opts.Raw...), raw...)

	ctx := cmd.Context()
	var uploader *appdist.UploadService
	if downloadUpload {
		client, err := newDriveClient(ctx, cfg.Drive)
		if err != nil {
			return err
		}
		uploader = appdist.NewUploadService(client, cfg.Drive.FolderID,
			appdist.WithSharing(cfg.Drive.Share),
			appdist.WithLogger(logging.For("upload")),
		)
	}

	service := download.NewService(newClient(cfg),
		download.WithFFmpeg(cfg.Binaries.FFmpeg),
		download.WithLogger(logging.For("download")),
	)

	return RunDownloadWithDependencies(ctx, service, uploader, DownloadParams{
		URL:      positional[0],
		Options:  opts,
		Progress: !downloadNoProgress,
		Upload:   downloadUpload,
		Sidecars: downloadSidecars,
	}, cmd.OutOrStdout())
}

// newDriveClient prefers a stored OAuth token and falls back to a service account
func newDriveClient(ctx context.Context, dc config.DriveConfig) (distribution.DriveClient, error) {
	if !dc.Enabled() {
		return nil, fmt.Errorf("drive upload requires drive.credentials_file and drive.folder_id")
	}
	var (
		client *drive.Client
		err    error
	)
	if dc.TokenFile != "" {
		client, err = drive.NewClientWithOAuth(ctx, dc.CredentialsFile, dc.TokenFile)
	} else {
		client, err = drive.NewClient(ctx, dc.CredentialsFile)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create Google Drive client: %w", err)
	}
	return client, nil
}

// RunDownloadWithDependencies runs the download command with injected dependencies (for testing)
func RunDownloadWithDependencies(
	ctx context.Context,
	service *download.Service,
	uploader *appdist.UploadService,
	params DownloadParams,
	output io.Writer,
) error {
	out := output
	req := download.Request{URL: params.URL, Options: params.Options}

	var view *progressView
	if params.Progress {
		view = newProgressView(ctx, output)
		out = view.p
		req.OnProgress = view.Update
	}
	req.OnBeforeDownload = func(m media.Metadata) { printMetadata(out, m) }

	result, err := service.Download(ctx, req)
	if view != nil {
		view.Close()
	}
	if err != nil {
		return err
	}
	printResult(output, result)

	if !params.Upload || uploader == nil {
		return nil
	}

	fmt.Fprintln(output, label("Uploading to Google Drive..."))
	uploaded, err := uploader.UploadResult(ctx, result, params.Sidecars)
	for _, u := range uploaded {
		fmt.Fprintf(output, "  %s -> %s\n", u.FileName, u.ShareableURL)
	}
	if err != nil {
		return fmt.Errorf("upload failed: %w", err)
	}
	fmt.Fprintln(output, success("Upload complete!"))
	return nil
}
