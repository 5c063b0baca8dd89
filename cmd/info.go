package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"mediafetch/application/info"
	"mediafetch/domain/options"
	"mediafetch/domain/parse"
	"mediafetch/infrastructure/logging"

	"github.com/spf13/cobra"
)

// Info views selectable with flags
const (
	InfoSummary    = "summary"
	InfoJSON       = "json"
	InfoFormats    = "formats"
	InfoThumbnails = "thumbnails"
	InfoURLs       = "urls"
	InfoTitle      = "title"
)

var (
	infoView   string
	infoFormat formatFlags
)

var infoCmd = &cobra.Command{
	Use:   "info URL [-- yt-dlp args...]",
	Short: "Show metadata without downloading",
	Long: `Query yt-dlp for metadata about a URL.

Views:
  summary     title, uploader, duration and format count (default)
  json        the full info document
  formats     available formats as a table
  thumbnails  available thumbnails
  urls        direct media URLs for the selected format
  title       just the title

Example:
  mediafetch info https://youtu.be/dQw4w9WgXcQ
  mediafetch info https://youtu.be/dQw4w9WgXcQ --view urls --quality 720p`,
	Args: cobra.MinimumNArgs(1),
	RunE: runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
	addFormatFlags(infoCmd, &infoFormat)
	infoCmd.Flags().StringVar(&infoView, "view", InfoSummary, "What to show: summary, json, formats, thumbnails, urls, title")
}

func runInfo(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	if cfg == nil {
		return fmt.Errorf("configuration not loaded")
	}

	positional, raw := passthrough(args, cmd.ArgsLenAtDash())
	if len(positional) != 1 {
		return fmt.Errorf("expected exactly one URL before \"--\", got %d", len(positional))
	}

	opts := cfg.Defaults
	infoFormat.apply(&opts)
	opts.Raw = append(append([]string(nil), opts.Raw...), raw...)

	service := info.NewService(newClient(cfg), info.WithLogger(logging.For("info")))
	return RunInfoWithDependencies(cmd.Context(), service, positional[0], opts, infoView, cmd.OutOrStdout())
}

// RunInfoWithDependencies runs the info command with injected dependencies (for testing)
func RunInfoWithDependencies(
	ctx context.Context,
	service *info.Service,
	url string,
	opts options.Options,
	view string,
	output io.Writer,
) error {
	switch view {
	case InfoTitle:
		title, err := service.Title(ctx, url, opts)
		if err != nil {
			return err
		}
		fmt.Fprintln(output, title)

	case InfoURLs:
		urls, err := service.DirectURLs(ctx, url, opts)
		if err != nil {
			return err
		}
		for _, u := range urls {
			fmt.Fprintln(output, u)
		}

	case InfoFormats:
		formats, err := service.Formats(ctx, url, opts)
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(output, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tEXT\tRESOLUTION\tFPS\tVCODEC\tACODEC\tSIZE\tNOTE")
		for _, f := range formats {
			size := "-"
			if f.Filesize > 0 {
				size = parse.FormatBytes(float64(f.Filesize))
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%g\t%s\t%s\t%s\t%s\n",
				f.FormatID, f.Ext, f.Resolution, f.FPS, f.VCodec, f.ACodec, size, f.FormatNote)
		}
		return tw.Flush()

	case InfoThumbnails:
		thumbs, err := service.Thumbnails(ctx, url, opts)
		if err != nil {
			return err
		}
		for _, t := range thumbs {
			fmt.Fprintf(output, "%s\t%dx%d\t%s\n", t.ID, t.Width, t.Height, t.URL)
		}

	case InfoJSON:
		doc, err := service.Info(ctx, url, opts)
		if err != nil {
			return err
		}
		fmt.Fprintln(output, string(doc.Raw))

	case InfoSummary, "":
		doc, err := service.Info(ctx, url, opts)
		if err != nil {
			return err
		}
		fmt.Fprintf(output, "%s %s\n", label("Title:"), doc.Title)
		if doc.Uploader != "" {
			fmt.Fprintf(output, "%s %s\n", label("Uploader:"), doc.Uploader)
		}
		if doc.Duration > 0 {
			fmt.Fprintf(output, "%s %s\n", label("Duration:"), parse.FormatDuration(doc.Duration))
		}
		if len(doc.Entries) > 0 {
			fmt.Fprintf(output, "%s %d\n", label("Entries:"), len(doc.Entries))
		}
		fmt.Fprintf(output, "%s %d\n", label("Formats:"), len(doc.Formats))

	default:
		return fmt.Errorf("unknown view %q (want one of %s)", view,
			strings.Join([]string{InfoSummary, InfoJSON, InfoFormats, InfoThumbnails, InfoURLs, InfoTitle}, ", "))
	}
	return nil
}
