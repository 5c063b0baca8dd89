package cmd

import (
	"context"
	"io"
	"path/filepath"
	"sync"
	"sync/atomic"

	"mediafetch/domain/media"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

// progressView renders one bar per downloaded file
type progressView struct {
	p    *mpb.Progress
	mu   sync.Mutex
	bars map[string]*fileBar
}

type fileBar struct {
	bar  *mpb.Bar
	last atomic.Pointer[media.Progress]
}

func newProgressView(ctx context.Context, w io.Writer) *progressView {
	return &progressView{
		p:    mpb.NewWithContext(ctx, mpb.WithOutput(w), mpb.WithWidth(40), mpb.WithAutoRefresh()),
		bars: make(map[string]*fileBar),
	}
}

// Update applies one progress snapshot
func (v *progressView) Update(p media.Progress) {
	v.mu.Lock()
	defer v.mu.Unlock()

	fb, ok := v.bars[p.Filename]
	if !ok {
		fb = &fileBar{}
		fb.bar = v.p.AddBar(0,
			mpb.PrependDecorators(decor.Name(filepath.Base(p.Filename), decor.WCSyncSpaceR)),
			mpb.AppendDecorators(decor.Any(func(decor.Statistics) string {
				last := fb.last.Load()
				if last == nil {
					return ""
				}
				return last.PercentageStr + "  " + last.DownloadedStr + " / " + last.TotalStr + "  " + last.SpeedStr + "  ETA " + last.ETAStr
			}, decor.WCSyncSpace)),
		)
		v.bars[p.Filename] = fb
	}
	fb.last.Store(&p)

	if p.TotalBytes != nil && *p.TotalBytes > 0 {
		fb.bar.SetTotal(int64(*p.TotalBytes), false)
	}
	fb.bar.SetCurrent(int64(p.DownloadedBytes))
	if p.Finished() {
		fb.bar.SetTotal(-1, true)
	}
}

// Close aborts unfinished bars and waits for the final render
func (v *progressView) Close() {
	v.mu.Lock()
	for _, fb := range v.bars {
		if !fb.bar.Completed() {
			fb.bar.Abort(false)
		}
	}
	v.mu.Unlock()
	v.p.Wait()
}
