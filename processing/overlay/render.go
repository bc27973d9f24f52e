package overlay

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"validation/internal/models"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

type Style struct {
	Color       color.RGBA
	Thickness   int
	LabelOffset int
	FontSize    float64
}

func DefaultStyle() Style {
	return Style{
		Color:       color.RGBA{0, 255, 0, 255},
		Thickness:   2,
		LabelOffset: 10,
		FontSize:    20,
	}
}

// Renderer mirrors frames and draws ROI outlines with their labels.
// It is not safe for concurrent use: the font face keeps a glyph cache.
type Renderer struct {
	style Style
	face  font.Face
}

func NewRenderer(style Style) (*Renderer, error) {
	f, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse label font: %w", err)
	}

	if style.Thickness <= 0 {
		style.Thickness = 1
	}

	return &Renderer{
		style: style,
		face:  truetype.NewFace(f, &truetype.Options{Size: style.FontSize}),
	}, nil
}

// Render returns a mirrored copy of frame with rois drawn on top, in order.
// ROI coordinates are in mirrored space. frame is left untouched.
func (r *Renderer) Render(frame image.Image, rois []models.ROI) *image.RGBA {
	out := Mirror(frame)

	if len(rois) == 0 {
		return out
	}

	dc := gg.NewContextForRGBA(out)
	dc.SetFontFace(r.face)
	dc.SetColor(r.style.Color)

	for _, roi := range rois {
		drawRect(out, roi.Rect(), r.style.Color, r.style.Thickness)

		if roi.Label != "" {
			dc.DrawString(roi.Label, float64(roi.Start.X), float64(roi.Start.Y-r.style.LabelOffset))
		}
	}

	return out
}

// Mirror flips frame horizontally into a new RGBA image anchored at (0, 0).
func Mirror(frame image.Image) *image.RGBA {
	flipped := imaging.FlipH(frame)

	out := image.NewRGBA(flipped.Bounds())
	draw.Draw(out, out.Bounds(), flipped, flipped.Bounds().Min, draw.Src)

	return out
}

// drawRect strokes rect inward from its edges; both corners are inclusive.
// Pixels outside img are clipped.
func drawRect(img *image.RGBA, rect image.Rectangle, col color.Color, thickness int) {
	bounds := img.Bounds()
	x1, y1, x2, y2 := rect.Min.X, rect.Min.Y, rect.Max.X, rect.Max.Y

	setPixel := func(x, y int) {
		if (image.Point{x, y}).In(bounds) {
			img.Set(x, y, col)
		}
	}

	for t := 0; t < thickness; t++ {
		for x := x1; x <= x2; x++ {
			setPixel(x, y1+t)
			setPixel(x, y2-t)
		}
		for y := y1; y <= y2; y++ {
			setPixel(x1+t, y)
			setPixel(x2-t, y)
		}
	}
}
