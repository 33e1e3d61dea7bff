package anim

import (
	"encoding/json"
	"fmt"
	"math"
)

// Playback drives frame advancement for the currently selected animation.
// Advance is expected to be called once per update tick (60 per second).
// A System owns exactly one Playback for its whole lifetime and rebinds it
// whenever the selection changes.
type Playback struct {
	animation  *Animation
	frameIndex int
	scale      float64
	playing    bool
	loop       bool
	tick       int
}

// NewPlayback returns an unbound playback at 1x scale.
func NewPlayback() *Playback {
	return &Playback{scale: 1}
}

// SetAnimation rebinds the playback and rewinds to frame 0. A nil animation
// unbinds it. Rebinding to the already-bound animation is a no-op so the
// current frame survives selection-index shuffles that keep the same entity.
func (p *Playback) SetAnimation(a *Animation) {
	if a == p.animation {
		return
	}
	p.animation = a
	p.frameIndex = 0
	p.tick = 0
}

// Animation returns the bound animation, or nil when unbound.
func (p *Playback) Animation() *Animation { return p.animation }

// FrameIndex returns the frame the playback currently sits on.
func (p *Playback) FrameIndex() int { return p.frameIndex }

// Scale returns the preview scale factor.
func (p *Playback) Scale() float64 { return p.scale }

// SetScale sets the preview scale factor.
func (p *Playback) SetScale(s float64) { p.scale = s }

// Loop reports whether playback wraps at the last frame.
func (p *Playback) Loop() bool { return p.loop }

// SetLoop sets whether playback wraps at the last frame.
func (p *Playback) SetLoop(loop bool) { p.loop = loop }

// Playing reports whether the playback is running.
func (p *Playback) Playing() bool { return p.playing }

// SetPlaying starts or pauses the playback.
func (p *Playback) SetPlaying(playing bool) { p.playing = playing }

// Advance steps the frame index at the bound animation's fps. Without loop
// the playback parks on the last frame and stops playing.
func (p *Playback) Advance() {
	if !p.playing || p.animation == nil || p.animation.FrameCount <= 1 {
		return
	}
	fps := p.animation.FPS
	if fps <= 0 {
		fps = 4
	}
	ticksPerFrame := int(math.Max(1, math.Round(60.0/float64(fps))))
	p.tick++
	if p.tick < ticksPerFrame {
		return
	}
	p.tick = 0
	p.frameIndex++
	if p.frameIndex >= p.animation.FrameCount {
		if p.loop {
			p.frameIndex = 0
		} else {
			p.frameIndex = p.animation.FrameCount - 1
			p.playing = false
		}
	}
}

type playbackJSON struct {
	Scale   float64 `json:"scale"`
	Loop    bool    `json:"loop"`
	Playing bool    `json:"playing"`
}

// ReadFrom restores playback settings from its document fragment. An absent
// fragment leaves the playback untouched.
func (p *Playback) ReadFrom(raw json.RawMessage) error {
	if len(raw) == 0 {
		return nil
	}
	var pj playbackJSON
	if err := json.Unmarshal(raw, &pj); err != nil {
		return fmt.Errorf("anim: decode playback: %w", err)
	}
	p.scale = pj.Scale
	p.loop = pj.Loop
	p.playing = pj.Playing
	return nil
}

// WriteTo serializes playback settings as a document fragment.
func (p *Playback) WriteTo() (json.RawMessage, error) {
	raw, err := json.Marshal(playbackJSON{Scale: p.scale, Loop: p.loop, Playing: p.playing})
	if err != nil {
		return nil, fmt.Errorf("anim: encode playback: %w", err)
	}
	return raw, nil
}

// Reset returns the playback to its default state and unbinds the animation.
func (p *Playback) Reset() {
	p.animation = nil
	p.frameIndex = 0
	p.scale = 1
	p.playing = false
	p.loop = false
	p.tick = 0
}
