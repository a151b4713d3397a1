// Package ascii converts images into text-character art.
//
// The image is scaled to the requested number of columns with
// Catmull-Rom resampling. Rows are squeezed by WidthRatio because a
// terminal cell is roughly twice as tall as it is wide. Every cell then
// maps the pixel's luminance onto Charset, darkest character first.
//
// With Color set, each character is additionally painted in the pixel's
// colour through lipgloss, which falls back to plain text when the
// output does not support colour.
package ascii

import (
	"errors"
	"fmt"
	"image"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/image/draw"
)

// ErrEmptyImage is returned for images without pixels.
var ErrEmptyImage = errors.New("image has no pixels")

// Options controls the conversion.
type Options struct {
	Columns    int
	WidthRatio float64
	Charset    string
	Color      bool
}

// DefaultOptions returns 80 columns of monochrome art.
func DefaultOptions() Options {
	return Options{
		Columns:    80,
		WidthRatio: 2.2,
		Charset:    " .:-=+*#%@",
	}
}

// Art is a rendered text grid.
type Art struct {
	Columns int
	Lines   []string
}

// Rows returns the number of lines.
func (a *Art) Rows() int { return len(a.Lines) }

// String returns the grid with a trailing newline after every row.
func (a *Art) String() string {
	var b strings.Builder
	for _, line := range a.Lines {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String()
}

// Convert renders img as text art.
func Convert(img image.Image, opts Options) (*Art, error) {
	charset := []rune(opts.Charset)
	if len(charset) < 2 {
		return nil, fmt.Errorf("charset needs at least 2 characters, got %q", opts.Charset)
	}
	if opts.Columns < 1 {
		return nil, fmt.Errorf("invalid columns: %d", opts.Columns)
	}
	if opts.WidthRatio <= 0 {
		return nil, fmt.Errorf("invalid width ratio: %g", opts.WidthRatio)
	}

	bounds := img.Bounds()
	if bounds.Empty() {
		return nil, ErrEmptyImage
	}

	cols := opts.Columns
	rows := gridRows(bounds.Dx(), bounds.Dy(), cols, opts.WidthRatio)

	dst := image.NewRGBA(image.Rect(0, 0, cols, rows))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	art := &Art{Columns: cols, Lines: make([]string, 0, rows)}
	var line strings.Builder
	for y := 0; y < rows; y++ {
		line.Reset()
		for x := 0; x < cols; x++ {
			c := dst.RGBAAt(x, y)
			ch := charset[shade(c.R, c.G, c.B, len(charset))]
			if opts.Color {
				line.WriteString(paint(ch, c.R, c.G, c.B))
			} else {
				line.WriteRune(ch)
			}
		}
		art.Lines = append(art.Lines, line.String())
	}

	return art, nil
}

// gridRows keeps the aspect ratio of a w×h image drawn cols wide.
func gridRows(w, h, cols int, widthRatio float64) int {
	rows := int(math.Round(float64(h) / float64(w) * float64(cols) / widthRatio))
	if rows < 1 {
		rows = 1
	}
	return rows
}

// shade maps a colour's relative luminance (Rec. 709) to an index in
// [0, levels).
func shade(r, g, b uint8, levels int) int {
	lum := (0.2126*float64(r) + 0.7152*float64(g) + 0.0722*float64(b)) / 255
	idx := int(lum*float64(levels-1) + 0.5)
	if idx >= levels {
		idx = levels - 1
	}
	return idx
}

func paint(ch rune, r, g, b uint8) string {
	color := lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", r, g, b))
	return lipgloss.NewStyle().Foreground(color).Render(string(ch))
}
