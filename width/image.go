package width

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// Preview renders s on a single line. When limit is positive a guide is
// drawn at that x offset so overflowing strings are easy to spot.
func (f *Face) Preview(s string, limit float64, fg, bg, guide color.NRGBA) (*image.NRGBA, error) {
	face, err := f.face()
	if err != nil {
		return nil, err
	}
	defer face.Close()

	pad := int(f.size / 2)
	metrics := face.Metrics()
	ascent := metrics.Ascent.Ceil()
	height := ascent + metrics.Descent.Ceil() + pad*2

	textW := int(math.Ceil(f.Width(s)))
	w := textW + pad*2
	if lw := int(math.Ceil(limit)) + pad*2; limit > 0 && lw > w {
		w = lw
	}

	img := image.NewNRGBA(image.Rect(0, 0, w, height))
	if bg.A != 0 {
		for y := img.Rect.Min.Y; y < img.Rect.Max.Y; y++ {
			for x := img.Rect.Min.X; x < img.Rect.Max.X; x++ {
				o := img.PixOffset(x, y)
				img.Pix[o+0] = bg.R
				img.Pix[o+1] = bg.G
				img.Pix[o+2] = bg.B
				img.Pix[o+3] = bg.A
			}
		}
	}

	dwr := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(fg),
		Face: face,
		Dot:  fixed.P(pad, pad+ascent),
	}
	dwr.DrawString(s)

	if limit > 0 {
		x := pad + int(math.Round(limit))
		for y := 0; y < height; y++ {
			img.SetNRGBA(x, y, guide)
		}
	}

	return img, nil
}

// Overflows reports whether s is wider than limit pixels.
func (f *Face) Overflows(s string, limit float64) bool {
	return limit > 0 && f.Width(s) > limit
}
