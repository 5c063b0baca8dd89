package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"mediafetch/infrastructure/config"
	"mediafetch/infrastructure/logging"
	"mediafetch/infrastructure/ytdlp"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	debug   bool
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "mediafetch",
	Short: "Drive yt-dlp downloads, streams and metadata lookups",
	Long: `mediafetch runs yt-dlp as a supervised child process and turns its
output into structured results:

  - Download media with live progress bars
  - Stream media to stdout or a file
  - Inspect metadata, formats and direct URLs
  - Optionally upload finished downloads to Google Drive

Arguments after "--" are passed to yt-dlp verbatim.

Example:
  mediafetch download https://youtu.be/dQw4w9WgXcQ --quality 720p -- --no-playlist`,
	SilenceUsage:      true,
	PersistentPreRunE: initConfig,
}

// Execute runs the root command. An interrupt cancels the running
// operation, which kills yt-dlp's whole process group.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, failure("error:"), err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $XDG_CONFIG_HOME/mediafetch/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

func initConfig(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return err
	}
	logging.Init(debug || cfg.Log.Debug, cmd.ErrOrStderr())
	return nil
}

// GetConfig returns the loaded configuration
func GetConfig() *config.Config {
	return cfg
}

// newClient builds the yt-dlp client from the loaded configuration
func newClient(cfg *config.Config) *ytdlp.Client {
	return ytdlp.NewClient(
		ytdlp.WithBinary(cfg.Binaries.YtDlp),
		ytdlp.WithFFmpeg(cfg.Binaries.FFmpeg),
		ytdlp.WithLogger(logging.For("ytdlp")),
	)
}
