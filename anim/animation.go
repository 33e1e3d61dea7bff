package anim

import "image"

// Animation describes one sprite animation's frame geometry and timing within
// a sheet. Frames are laid out left-to-right starting at the frame origin.
// Names must be unique within a System; the System enforces that, not the
// animation itself.
type Animation struct {
	Name        string `json:"name"`
	FPS         int    `json:"fps"`
	FrameCount  int    `json:"frameCount"`
	FrameX      int    `json:"frameX"`
	FrameY      int    `json:"frameY"`
	FrameWidth  int    `json:"frameWidth"`
	FrameHeight int    `json:"frameHeight"`
}

// FrameRect returns the source rectangle of frame i within the sheet. The
// index wraps into [0, FrameCount) so callers can pass a running frame
// counter. Returns the zero rectangle when the geometry is unset.
func (a *Animation) FrameRect(i int) image.Rectangle {
	if a == nil || a.FrameCount <= 0 || a.FrameWidth <= 0 || a.FrameHeight <= 0 {
		return image.Rectangle{}
	}
	i %= a.FrameCount
	if i < 0 {
		i += a.FrameCount
	}
	x := a.FrameX + i*a.FrameWidth
	return image.Rect(x, a.FrameY, x+a.FrameWidth, a.FrameY+a.FrameHeight)
}
