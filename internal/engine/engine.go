// Package engine ties the pipeline together: it resolves a lookup request
// to artwork, downloads and decodes the image, converts it to text art
// and writes the result.
package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/imroc/req/v3"

	"asciifm/internal/ascii"
	"asciifm/internal/resolver"
)

var titleStyle = lipgloss.NewStyle().Bold(true)

// Engine is the core pipeline coordinating metadata lookups, the artwork
// download and the text conversion.
type Engine struct {
	Resolver *resolver.Resolver
	HTTP     *req.Client
	Options  ascii.Options

	// Progress receives a download progress bar when non-nil.
	Progress io.Writer

	logger *slog.Logger
}

// New creates an Engine. Artwork is fetched with its own HTTP client so
// the Last.fm API key never reaches the image host.
func New(res *resolver.Resolver, userAgent string, logger *slog.Logger) *Engine {
	return &Engine{
		Resolver: res,
		HTTP:     req.NewClient().SetUserAgent(userAgent),
		Options:  ascii.DefaultOptions(),
		logger:   logger.With(slog.String("component", "engine")),
	}
}

func (e *Engine) SetProxy(proxyURL string) {
	if proxyURL != "" {
		e.HTTP.SetProxyURL(proxyURL)
	}
}

func (e *Engine) SetTimeout(d time.Duration) {
	if d > 0 {
		e.HTTP.SetTimeout(d)
	}
}

// Output is a finished rendering, ready to print.
type Output struct {
	Result *resolver.Result
	Art    *ascii.Art
	styled bool
}

// Header returns the "{title} by {artist}" line.
func (o *Output) Header() string {
	return fmt.Sprintf("%s by %s", o.Result.Title, o.Result.Artist)
}

// WriteTo writes the header, a blank line and the art.
func (o *Output) WriteTo(w io.Writer) (int64, error) {
	header := o.Header()
	if o.styled {
		header = titleStyle.Render(header)
	}
	n, err := fmt.Fprintf(w, "%s\n\n%s", header, o.Art.String())
	return int64(n), err
}

// Render resolves request and converts its artwork with opts. Nothing is
// written anywhere; a failed image load leaves no partial output.
func (e *Engine) Render(ctx context.Context, request resolver.Request, opts ascii.Options) (*Output, error) {
	result, err := e.Resolver.Resolve(ctx, request)
	if err != nil {
		return nil, err
	}
	e.logger.Info("resolved",
		slog.String("title", result.Title),
		slog.String("artist", result.Artist),
		slog.String("image", result.ImageURL))

	img, err := e.fetchArtwork(ctx, result.ImageURL)
	if err != nil {
		return nil, err
	}

	art, err := ascii.Convert(img, opts)
	if errors.Is(err, ascii.ErrEmptyImage) {
		return nil, fmt.Errorf("%w: %v", ErrImageNotFound, err)
	}
	if err != nil {
		return nil, fmt.Errorf("rendering %s: %w", request, err)
	}

	return &Output{Result: result, Art: art, styled: opts.Color}, nil
}

// Display renders request with the engine's options and writes it to w.
func (e *Engine) Display(ctx context.Context, request resolver.Request, w io.Writer) error {
	out, err := e.Render(ctx, request, e.Options)
	if err != nil {
		return err
	}
	_, err = out.WriteTo(w)
	return err
}
