package cmd

import (
	"fmt"
	"io"

	"mediafetch/domain/media"
	"mediafetch/domain/options"
	"mediafetch/domain/parse"

	"github.com/fatih/color"
)

var (
	success = color.New(color.FgGreen, color.Bold).SprintFunc()
	failure = color.New(color.FgRed, color.Bold).SprintFunc()
	label   = color.New(color.FgCyan).SprintFunc()
)

// formatFlags are the shared format selection flags
type formatFlags struct {
	raw     string
	filter  string
	quality string
	typ     string
}

// apply overrides the configured format when any flag was given
func (f formatFlags) apply(o *options.Options) {
	switch {
	case f.raw != "":
		o.Format = options.RawFormat(f.raw)
	case f.filter != "" || f.quality != "" || f.typ != "":
		o.Format = options.SelectFormat(options.Filter(f.filter), options.Quality(f.quality), f.typ)
	}
}

// passthrough returns the arguments after "--" and the positional ones before it
func passthrough(args []string, dash int) (positional, raw []string) {
	if dash < 0 {
		return args, nil
	}
	return args[:dash], args[dash:]
}

func printMetadata(w io.Writer, m media.Metadata) {
	fmt.Fprintf(w, "%s %s", label("Downloading"), m.String("title"))
	if d, ok := m.Number("duration"); ok {
		fmt.Fprintf(w, " (%s)", parse.FormatDuration(d))
	}
	fmt.Fprintln(w)
}

func printResult(w io.Writer, result *media.Result) {
	fmt.Fprintln(w, success("Download complete!"))
	for _, group := range []struct {
		name  string
		paths []string
	}{
		{"File", result.Files},
		{"Thumbnail", result.Thumbnails},
		{"Subtitle", result.Subtitles},
	} {
		for _, p := range group.paths {
			fmt.Fprintf(w, "  %s: %s\n", label(group.name), p)
		}
	}
}
