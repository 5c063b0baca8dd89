package parse

import (
	"strings"
	"testing"
)

func TestProgress(t *testing.T) {
	t.Run("computes percentage from exact total", func(t *testing.T) {
		line := ProgressMarker + `{"filename":"a.mp4","status":"downloading","downloaded_bytes":1024,"total_bytes":2048,"total_bytes_estimate":null,"speed":512,"eta":2}`
		p, ok := Progress(line)
		if !ok {
			t.Fatal("expected match")
		}
		if p.Percentage == nil || *p.Percentage != 50 {
			t.Fatalf("expected percentage 50, got %v", p.Percentage)
		}
		if p.PercentageStr != "50%" {
			t.Errorf("expected 50%%, got %q", p.PercentageStr)
		}
		if p.DownloadedStr != "1 KB" || p.TotalStr != "2 KB" {
			t.Errorf("unexpected byte strings %q / %q", p.DownloadedStr, p.TotalStr)
		}
		if p.SpeedStr != "512 Bytes/s" {
			t.Errorf("unexpected speed %q", p.SpeedStr)
		}
		if p.ETAStr != "2s" {
			t.Errorf("unexpected eta %q", p.ETAStr)
		}
		if p.Filename != "a.mp4" || p.Status != "downloading" {
			t.Errorf("unexpected identity %q %q", p.Filename, p.Status)
		}
	})

	t.Run("falls back to estimate", func(t *testing.T) {
		p, ok := Progress(ProgressMarker + `{"status":"downloading","downloaded_bytes":"300","total_bytes":"NA","total_bytes_estimate":900}`)
		if !ok {
			t.Fatal("expected match")
		}
		if p.TotalBytes == nil || *p.TotalBytes != 900 {
			t.Fatalf("expected estimate total, got %v", p.TotalBytes)
		}
		if *p.Percentage != 33.33 {
			t.Errorf("expected 33.33, got %v", *p.Percentage)
		}
		if p.PercentageStr != "33.33%" {
			t.Errorf("unexpected %q", p.PercentageStr)
		}
	})

	t.Run("leaves percentage unset without total", func(t *testing.T) {
		p, ok := Progress(ProgressMarker + `{"status":"downloading","downloaded_bytes":10,"total_bytes":null,"total_bytes_estimate":0,"speed":null,"eta":null}`)
		if !ok {
			t.Fatal("expected match")
		}
		if p.Percentage != nil || p.TotalBytes != nil || p.Speed != nil || p.ETA != nil {
			t.Errorf("expected unset optionals, got %+v", p)
		}
		if p.PercentageStr != "N/A" || p.TotalStr != "N/A" {
			t.Errorf("unexpected strings %q %q", p.PercentageStr, p.TotalStr)
		}
	})

	t.Run("finished status", func(t *testing.T) {
		p, ok := Progress(ProgressMarker + `{"status":"finished","downloaded_bytes":2048,"total_bytes":2048}`)
		if !ok || !p.Finished() {
			t.Fatalf("expected finished snapshot, got %+v", p)
		}
	})

	misses := []struct {
		name string
		line string
	}{
		{"empty", ""},
		{"plain text", "[download] Destination: a.mp4"},
		{"invalid json", ProgressMarker + `{"status":`},
		{"marker mid line", "prefix " + ProgressMarker + `{"status":"downloading"}`},
		{"metadata marker", AfterMarker + `{"id":"x"}`},
		{"not an object", ProgressMarker + `[1,2]`},
	}
	for _, tt := range misses {
		t.Run("no match: "+tt.name, func(t *testing.T) {
			if _, ok := Progress(tt.line); ok {
				t.Errorf("expected no match for %q", tt.line)
			}
		})
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0 Bytes"},
		{-5, "0 Bytes"},
		{500, "500 Bytes"},
		{1024, "1 KB"},
		{1536, "1.5 KB"},
		{1048576, "1 MB"},
		{1073741824 * 1.234, "1.23 GB"},
	}
	for _, tt := range tests {
		if got := FormatBytes(tt.in); got != tt.want {
			t.Errorf("FormatBytes(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0s"},
		{5, "5s"},
		{65, "1m 5s"},
		{3600, "1h 0m 0s"},
		{3725, "1h 2m 5s"},
	}
	for _, tt := range tests {
		if got := FormatDuration(tt.in); got != tt.want {
			t.Errorf("FormatDuration(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestProgressTemplate(t *testing.T) {
	tmpl := ProgressTemplate()
	if !strings.HasPrefix(tmpl, "download:"+ProgressMarker+"{") {
		t.Errorf("unexpected prefix: %s", tmpl)
	}
	if !strings.Contains(tmpl, `"downloaded_bytes":%(progress.downloaded_bytes|null)j`) {
		t.Errorf("missing downloaded_bytes field: %s", tmpl)
	}
}
