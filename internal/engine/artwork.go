package engine

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"path"

	// Formats Last.fm and its CDN serve artwork in.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// ErrImageNotFound is returned when the artwork cannot be downloaded or
// decoded.
var ErrImageNotFound = errors.New("album image not found")

func (e *Engine) fetchArtwork(ctx context.Context, url string) (image.Image, error) {
	if url == "" {
		return nil, fmt.Errorf("%w: no image URL", ErrImageNotFound)
	}

	var buf bytes.Buffer
	r := e.HTTP.R().SetContext(ctx).SetOutput(&buf)

	if e.Progress != nil {
		bar := newProgressBar(ctx, e.Progress, path.Base(url))
		defer bar.finish()
		r.SetDownloadCallback(bar.update)
	}

	resp, err := r.Get(url)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImageNotFound, err)
	}
	if !resp.IsSuccessState() {
		return nil, fmt.Errorf("%w: HTTP %d", ErrImageNotFound, resp.StatusCode)
	}

	img, format, err := image.Decode(&buf)
	if err != nil {
		return nil, fmt.Errorf("%w: decoding: %v", ErrImageNotFound, err)
	}

	e.logger.Debug("artwork loaded",
		slog.String("format", format),
		slog.Int("width", img.Bounds().Dx()),
		slog.Int("height", img.Bounds().Dy()))

	return img, nil
}
