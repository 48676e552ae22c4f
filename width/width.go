// Package width measures how wide a string renders under a reference font.
package width

import (
	"math"
	"os"
	"unicode"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
	eaw "golang.org/x/text/width"
)

// DefaultSize is the reference font size in pixels.
const DefaultSize = 14

// Face measures text in pixels. Runes the font has no glyph for are
// estimated from their East Asian width class, so CJK text still measures
// wider than Latin text of the same length.
type Face struct {
	font *sfnt.Font
	size float64
	ppem fixed.Int26_6
}

func parse(b []byte) (*sfnt.Font, error) {
	col, err := opentype.ParseCollection(b)
	if err != nil {
		return nil, err
	}
	return col.Font(0)
}

// New parses a TTF, OTF or collection and measures at size pixels.
func New(b []byte, size float64) (*Face, error) {
	fnt, err := parse(b)
	if err != nil {
		return nil, err
	}
	if size <= 0 {
		size = DefaultSize
	}

	return &Face{
		font: fnt,
		size: size,
		ppem: fixed.Int26_6(math.Round(size * 64)),
	}, nil
}

// Default measures with the Go regular font.
func Default(size float64) (*Face, error) { return New(goregular.TTF, size) }

// Open loads the font at path, or the Go regular font when path is empty.
func Open(path string, size float64) (*Face, error) {
	if path == "" {
		return Default(size)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return New(b, size)
}

func (f *Face) Size() float64 { return f.size }

func (f *Face) fallback(r rune) fixed.Int26_6 {
	switch eaw.LookupRune(r).Kind() {
	case eaw.EastAsianWide, eaw.EastAsianFullwidth:
		return f.ppem
	}
	return f.ppem * 3 / 5
}

func (f *Face) advance(buf *sfnt.Buffer, r rune) fixed.Int26_6 {
	if unicode.IsControl(r) || unicode.Is(unicode.Mn, r) {
		return 0
	}
	ix, err := f.font.GlyphIndex(buf, r)
	if err != nil || ix == 0 {
		return f.fallback(r)
	}
	adv, err := f.font.GlyphAdvance(buf, ix, f.ppem, font.HintingNone)
	if err != nil {
		return f.fallback(r)
	}
	return adv
}

// Width returns the rendered width of s in pixels.
func (f *Face) Width(s string) float64 {
	var buf sfnt.Buffer
	var w fixed.Int26_6
	for _, r := range s {
		w += f.advance(&buf, r)
	}
	return float64(w) / 64
}

func (f *Face) face() (font.Face, error) {
	return opentype.NewFace(f.font, &opentype.FaceOptions{
		Size:    f.size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}
