package ui

import (
	"image"
	"image/color"
	"math"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"github.com/disintegration/imaging"
)

// Surface shows annotated frames letterboxed into the video area.
type Surface struct {
	image      *canvas.Image
	background color.Color
}

func NewSurface(minSize fyne.Size, background color.Color) *Surface {
	img := canvas.NewImageFromImage(nil)
	img.FillMode = canvas.ImageFillContain
	img.ScaleMode = canvas.ImageScaleSmooth
	img.SetMinSize(minSize)

	return &Surface{image: img, background: background}
}

func (s *Surface) Object() fyne.CanvasObject {
	return s.image
}

// Show must run on the UI thread. The viewport is measured on every call
// because the window can be resized between frames.
func (s *Surface) Show(frame image.Image) {
	s.image.Image = Fit(frame, s.viewport(), s.background)
	s.image.Refresh()
}

func (s *Surface) viewport() image.Point {
	size := s.image.Size()
	scale := float32(1)

	if app := fyne.CurrentApp(); app != nil {
		if c := app.Driver().CanvasForObject(s.image); c != nil {
			scale = c.Scale()
		}
	}

	return image.Pt(int(size.Width*scale), int(size.Height*scale))
}

// Fit scales img to fit inside viewport keeping its aspect ratio and pads
// the short side with bg so the result is exactly viewport-sized. A
// degenerate viewport returns an unscaled copy.
func Fit(img image.Image, viewport image.Point, bg color.Color) *image.NRGBA {
	b := img.Bounds()
	if viewport.X <= 0 || viewport.Y <= 0 || b.Dx() == 0 || b.Dy() == 0 {
		return imaging.Clone(img)
	}

	scale := math.Min(float64(viewport.X)/float64(b.Dx()), float64(viewport.Y)/float64(b.Dy()))
	w := max(1, int(math.Round(float64(b.Dx())*scale)))
	h := max(1, int(math.Round(float64(b.Dy())*scale)))

	resized := imaging.Resize(img, w, h, imaging.Linear)

	return imaging.PasteCenter(imaging.New(viewport.X, viewport.Y, bg), resized)
}
