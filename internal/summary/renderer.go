// internal/summary/renderer.go
//
// Summary-image sink.
//
// Context
// -------
// After every refresh cycle the service re-renders a fixed-size PNG with
// the headline numbers: total record count, the top five countries by
// estimated GDP, and the last refresh timestamp.  The image is a pure
// consumer of final state; it is written to `<root>/cache/summary.png` and
// served verbatim by the image endpoint.
//
// Notes
// -----
// • Text is drawn with the x/image bitmap face; no font files to ship.
// • The file is written atomically (temp + rename) so a concurrent GET
//   never sees a half-encoded PNG.
package summary

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/yanizio/atlas/internal/country"
)

const (
	imageW = 800
	imageH = 600
)

// FileRenderer writes the summary PNG under a fixed cache path.
type FileRenderer struct {
	path string
}

// New returns a renderer targeting `<rootDir>/cache/summary.png`.
func New(rootDir string) *FileRenderer {
	return &FileRenderer{path: filepath.Join(rootDir, "cache", "summary.png")}
}

// Path returns the location the image endpoint should serve.
func (r *FileRenderer) Path() string { return r.path }

// Render draws the summary bitmap and swaps it into place.
func (r *FileRenderer) Render(top []country.Record, total int64, last *time.Time) error {
	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return err
	}

	img := image.NewRGBA(image.Rect(0, 0, imageW, imageH))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	y := 50
	drawText(img, 50, y, fmt.Sprintf("Total Countries: %d", total))
	y += 80

	drawText(img, 50, y, "Top 5 Countries by GDP:")
	y += 60

	for i, rec := range top {
		gdp := "N/A"
		if rec.EstimatedGDP != nil {
			gdp = "$" + groupThousands(*rec.EstimatedGDP)
		}
		drawText(img, 70, y, fmt.Sprintf("%d. %s - %s", i+1, rec.Name, gdp))
		y += 40
	}

	y += 40
	refreshed := "N/A"
	if last != nil {
		refreshed = last.UTC().Format(time.RFC3339)
	}
	drawText(img, 50, y, "Last Refreshed: "+refreshed)

	return r.write(img)
}

// write encodes to a sibling temp file, then renames over the target.
func (r *FileRenderer) write(img image.Image) error {
	tmp, err := os.CreateTemp(filepath.Dir(r.path), "summary-*.png")
	if err != nil {
		return err
	}
	if err := png.Encode(tmp, img); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), r.path)
}

// drawText renders one line of black text with the built-in bitmap face.
func drawText(dst draw.Image, x, y int, text string) {
	d := font.Drawer{
		Dst:  dst,
		Src:  image.Black,
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}

// groupThousands formats v with two decimals and comma separators, matching
// the en-US style of the previous summary writer.
func groupThousands(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	intPart, frac, _ := strings.Cut(s, ".")

	neg := strings.HasPrefix(intPart, "-")
	if neg {
		intPart = intPart[1:]
	}

	var b strings.Builder
	lead := len(intPart) % 3
	if lead > 0 {
		b.WriteString(intPart[:lead])
	}
	for i := lead; i < len(intPart); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(intPart[i : i+3])
	}

	out := b.String() + "." + frac
	if neg {
		out = "-" + out
	}
	return out
}
