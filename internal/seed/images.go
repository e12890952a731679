package seed

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"io/fs"
	"math"
	"os"
	"path/filepath"

	"github.com/chai2010/webp"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	placeholderSize = 800
	// labelScale enlarges the 7x13 bitmap font to a readable size.
	labelScale = 8
)

// PlaceholderFormats is the rotation of encodings used for demo images.
var PlaceholderFormats = []string{".png", ".jpg", ".webp"}

// PlaceholderName returns the file name of the i-th (1-based) placeholder.
func PlaceholderName(i int) string {
	return fmt.Sprintf("seed-%d%s", i, PlaceholderFormats[(i-1)%len(PlaceholderFormats)])
}

// WritePlaceholders ensures n placeholder images exist in dir and returns
// their file names. Existing files are left untouched.
func WritePlaceholders(dir string, n int) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}

	names := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		name := PlaceholderName(i)
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			names = append(names, name)
			continue
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}

		if err := writeImage(path, Placeholder(i)); err != nil {
			return nil, fmt.Errorf("write %s: %w", name, err)
		}
		names = append(names, name)
	}
	return names, nil
}

// Placeholder renders an 800x800 tile in hue i*60 labelled "Photo i".
func Placeholder(i int) image.Image {
	hue := float64((i * 60) % 360)
	bg := hsl(hue, 0.6, 0.8)
	fg := hsl(hue, 0.4, 0.3)

	img := image.NewRGBA(image.Rect(0, 0, placeholderSize, placeholderSize))
	draw.Draw(img, img.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)

	label := fmt.Sprintf("Photo %d", i)
	face := basicfont.Face7x13
	textW := font.MeasureString(face, label).Ceil()
	textH := face.Height

	small := image.NewRGBA(image.Rect(0, 0, textW, textH))
	d := font.Drawer{
		Dst:  small,
		Src:  image.NewUniform(fg),
		Face: face,
		Dot:  fixed.P(0, face.Ascent),
	}
	d.DrawString(label)

	w, h := textW*labelScale, textH*labelScale
	x := (placeholderSize - w) / 2
	y := (placeholderSize - h) / 2
	draw.NearestNeighbor.Scale(img, image.Rect(x, y, x+w, y+h), small, small.Bounds(), draw.Over, nil)
	return img
}

func writeImage(path string, img image.Image) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			_ = os.Remove(path)
		}
	}()

	w := bufio.NewWriter(f)
	if err := encode(w, filepath.Ext(path), img); err != nil {
		return err
	}
	return w.Flush()
}

func encode(w io.Writer, ext string, img image.Image) error {
	switch ext {
	case ".png":
		return png.Encode(w, img)
	case ".jpg", ".jpeg":
		return jpeg.Encode(w, img, &jpeg.Options{Quality: 85})
	case ".webp":
		return webp.Encode(w, img, &webp.Options{Quality: 80})
	default:
		return fmt.Errorf("unsupported placeholder format %q", ext)
	}
}

// hsl converts hue (degrees), saturation and lightness (0..1) to RGBA.
func hsl(h, s, l float64) color.RGBA {
	c := (1 - math.Abs(2*l-1)) * s
	hp := h / 60
	x := c * (1 - math.Abs(math.Mod(hp, 2)-1))

	var r, g, b float64
	switch {
	case hp < 1:
		r, g, b = c, x, 0
	case hp < 2:
		r, g, b = x, c, 0
	case hp < 3:
		r, g, b = 0, c, x
	case hp < 4:
		r, g, b = 0, x, c
	case hp < 5:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}
	m := l - c/2
	to8 := func(v float64) uint8 { return uint8(math.Round((v + m) * 255)) }
	return color.RGBA{R: to8(r), G: to8(g), B: to8(b), A: 0xFF}
}
