package engine

import (
	"context"
	"io"

	"github.com/imroc/req/v3"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

// progressBar draws the artwork download on a terminal.
type progressBar struct {
	p   *mpb.Progress
	bar *mpb.Bar
}

func newProgressBar(ctx context.Context, w io.Writer, name string) *progressBar {
	p := mpb.NewWithContext(ctx, mpb.WithOutput(w), mpb.WithWidth(40))
	bar := p.AddBar(0,
		mpb.PrependDecorators(decor.Name(name, decor.WCSyncSpaceR)),
		mpb.AppendDecorators(decor.CountersKibiByte("% .1f / % .1f")),
	)
	return &progressBar{p: p, bar: bar}
}

func (b *progressBar) update(info req.DownloadInfo) {
	// total stays unknown without a Content-Length
	if info.Response != nil && info.Response.ContentLength > 0 {
		b.bar.SetTotal(info.Response.ContentLength, false)
	}
	b.bar.SetCurrent(info.DownloadedSize)
}

func (b *progressBar) finish() {
	b.bar.SetTotal(-1, true)
	b.p.Wait()
}
