// Package render draws animation frames out of a sprite-sheet image.
package render

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	xdraw "golang.org/x/image/draw"

	"github.com/milk9111/spritepad/anim"
)

// Sheet wraps a decoded sprite-sheet for frame extraction and drawing.
type Sheet struct {
	img *ebiten.Image
	src image.Image
}

// LoadSheet decodes the image at path (png or jpeg).
func LoadSheet(path string) (*Sheet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("render: open sheet %s: %w", path, err)
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("render: decode sheet %s: %w", path, err)
	}
	return &Sheet{img: ebiten.NewImageFromImage(src), src: src}, nil
}

// Frame returns the sub-image for frame i of a, or nil when the frame lies
// outside the sheet.
func (s *Sheet) Frame(a *anim.Animation, i int) *ebiten.Image {
	if s == nil || s.img == nil || a == nil {
		return nil
	}
	r := a.FrameRect(i).Intersect(s.img.Bounds())
	if r.Empty() {
		return nil
	}
	return s.img.SubImage(r).(*ebiten.Image)
}

// Draw draws frame i of a with nearest-neighbour filtering. A nil op draws
// at the origin.
func (s *Sheet) Draw(screen *ebiten.Image, a *anim.Animation, i int, op *ebiten.DrawImageOptions) {
	frame := s.Frame(a, i)
	if frame == nil || screen == nil {
		return
	}
	var dop ebiten.DrawImageOptions
	if op != nil {
		dop = *op
	}
	dop.Filter = ebiten.FilterNearest
	screen.DrawImage(frame, &dop)
}

// Thumbnail renders frame i of a scaled to fit within maxW x maxH, keeping
// the aspect ratio and the pixel-art look (nearest-neighbour sampling).
func (s *Sheet) Thumbnail(a *anim.Animation, i, maxW, maxH int) image.Image {
	if s == nil || s.src == nil || a == nil || maxW <= 0 || maxH <= 0 {
		return nil
	}
	r := a.FrameRect(i).Intersect(s.src.Bounds())
	if r.Empty() {
		return nil
	}

	w, h := r.Dx(), r.Dy()
	scale := float64(maxW) / float64(w)
	if fit := float64(maxH) / float64(h); fit < scale {
		scale = fit
	}
	if scale > 1 {
		scale = 1
	}
	dw := int(float64(w) * scale)
	dh := int(float64(h) * scale)
	if dw < 1 {
		dw = 1
	}
	if dh < 1 {
		dh = 1
	}

	dst := image.NewNRGBA(image.Rect(0, 0, dw, dh))
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), s.src, r, xdraw.Over, nil)
	return dst
}
