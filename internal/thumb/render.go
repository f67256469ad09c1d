package thumb

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"
)

const halfBlock = "▀"

// Decode reads a JPEG, PNG, GIF, BMP or TIFF image from path, applying any
// EXIF orientation.
func Decode(path string) (image.Image, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("thumb: decode %s: %w", path, err)
	}
	return img, nil
}

// Thumbnail downloads imageURL through the cache and renders it into cols
// by rows cells.
func (c *Cache) Thumbnail(ctx context.Context, imageURL string, cols, rows int) (string, error) {
	path, err := c.Fetch(ctx, imageURL)
	if err != nil {
		return "", err
	}
	img, err := Decode(path)
	if err != nil {
		return "", err
	}
	return Render(img, cols, rows), nil
}

// Fit returns the largest width and height, in pixels, that keeps the
// aspect ratio of src inside a box of maxW by maxH pixels.
func Fit(src image.Rectangle, maxW, maxH int) (int, int) {
	sw, sh := src.Dx(), src.Dy()
	if sw <= 0 || sh <= 0 || maxW <= 0 || maxH <= 0 {
		return 0, 0
	}
	w, h := maxW, sh*maxW/sw
	if h > maxH {
		w, h = sw*maxH/sh, maxH
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return w, h
}

// Render draws img into at most cols by rows terminal cells. Each cell holds
// two vertical pixels: the upper one as foreground of a half block and the
// lower one as background. Lines are padded to cols so grids stay aligned.
func Render(img image.Image, cols, rows int) string {
	if img == nil || cols <= 0 || rows <= 0 {
		return ""
	}
	w, h := Fit(img.Bounds(), cols, rows*2)
	if w == 0 {
		return ""
	}
	small := downscale(img, w, h)

	lines := make([]string, 0, rows)
	for y := 0; y < h; y += 2 {
		var b strings.Builder
		for x := 0; x < w; x++ {
			top := hex(small.At(x, y))
			style := lipgloss.NewStyle().Foreground(lipgloss.Color(top))
			if y+1 < h {
				style = style.Background(lipgloss.Color(hex(small.At(x, y+1))))
			}
			b.WriteString(style.Render(halfBlock))
		}
		if pad := cols - w; pad > 0 {
			b.WriteString(strings.Repeat(" ", pad))
		}
		lines = append(lines, b.String())
	}
	blank := strings.Repeat(" ", cols)
	for len(lines) < rows {
		lines = append(lines, blank)
	}
	return strings.Join(lines, "\n")
}

// Placeholder fills cols by rows cells with the photo's dominant colour,
// used while the real preview downloads.
func Placeholder(dominant string, cols, rows int) string {
	if cols <= 0 || rows <= 0 {
		return ""
	}
	c, err := colorful.Hex(dominant)
	if err != nil {
		c = colorful.Color{R: 0.2, G: 0.2, B: 0.2}
	}
	line := lipgloss.NewStyle().Background(lipgloss.Color(c.Hex())).Render(strings.Repeat(" ", cols))
	lines := make([]string, rows)
	for i := range lines {
		lines[i] = line
	}
	return strings.Join(lines, "\n")
}

// downscale box-averages src into a w by h image.
func downscale(src image.Image, w, h int) *image.NRGBA {
	return imaging.Resize(src, w, h, imaging.Box)
}

func hex(c color.Color) string {
	cf, _ := colorful.MakeColor(c)
	return cf.Hex()
}
