// Package anim manages the ordered animation collection of a single
// sprite-sheet project document: which animation is current, the playback
// bound to it, and the load/save of the collection's document fragments.
package anim

import (
	"encoding/json"
	"fmt"
	"log"
)

// System owns the ordered animation collection, the current selection, and
// the one playback bound to whatever is selected. The zero value is not
// usable; construct with NewSystem.
//
// Invariants after every mutation through the public API: the current index
// is -1 exactly when the collection is empty (TakeAt excepted, see its doc),
// no two animations share a name, and the playback is bound to the animation
// at the current index.
type System struct {
	animations []*Animation
	current    int
	playback   *Playback
	created    int
	listeners  []Listener
}

// NewSystem returns an empty system with no selection.
func NewSystem() *System {
	return &System{current: -1, playback: NewPlayback()}
}

// CurrentIndex returns the selected index, or -1 when nothing is selected.
func (s *System) CurrentIndex() int { return s.current }

// SetCurrentIndex moves the selection and rebinds the playback. The accepted
// range is [0, Count()]: one past the end is a valid position, for symmetry
// with insertion, even though no element lives there (CurrentAnimation
// returns nil in that state). Out-of-range values log and leave the
// selection untouched; setting the current value is a no-op with no
// notification.
func (s *System) SetCurrentIndex(index int) {
	if !s.validInsertPos(index) {
		return
	}
	if index == s.current {
		return
	}
	s.current = index
	s.playback.SetAnimation(s.CurrentAnimation())
	s.selectionChanged()
}

// CurrentAnimation returns the selected animation, or nil when the selection
// is empty or parked one past the end.
func (s *System) CurrentAnimation() *Animation {
	if s.current < 0 || s.current >= len(s.animations) {
		return nil
	}
	return s.animations[s.current]
}

// CurrentPlayback returns the system's playback. Never nil.
func (s *System) CurrentPlayback() *Playback { return s.playback }

// Count returns the number of animations.
func (s *System) Count() int { return len(s.animations) }

// Contains reports whether an animation with the given name exists.
func (s *System) Contains(name string) bool { return s.IndexOf(name) != -1 }

// IndexOf returns the index of the named animation, or -1. Names are unique,
// so the first match is the only one.
func (s *System) IndexOf(name string) int {
	for i, a := range s.animations {
		if a.Name == name {
			return i
		}
	}
	return -1
}

// AnimationAt returns the animation at index, or nil with a logged warning
// when index is outside [0, Count()). This is the element-access check; it
// is stricter than the [0, Count()] insertion/selection range on purpose.
func (s *System) AnimationAt(index int) *Animation {
	if index < 0 || index >= len(s.animations) {
		log.Printf("anim: animation index %d is invalid", index)
		return nil
	}
	return s.animations[index]
}

// ByName returns the animation with the given name, or nil with a logged
// warning when no such animation exists.
func (s *System) ByName(name string) *Animation {
	index := s.IndexOf(name)
	if index == -1 {
		log.Printf("anim: animation named %q doesn't exist", name)
		return nil
	}
	return s.animations[index]
}

// AddNew appends an animation with the next generated name and geometry
// defaulted from the canvas size, and returns the name. The generator does
// not probe past a collision: if the generated name is already taken the call
// logs and returns "" with the collection unchanged. The first animation in
// the collection becomes current.
func (s *System) AddNew(canvasWidth, canvasHeight int) string {
	name := s.peekNextName()
	if s.Contains(name) {
		log.Printf("anim: animation named %q already exists", name)
		return ""
	}

	index := len(s.animations)
	s.aboutToInsertAt(index)

	s.created++

	frameCount := 1
	if canvasWidth >= 8 {
		frameCount = 4
	}
	a := &Animation{
		Name:        name,
		FPS:         4,
		FrameCount:  frameCount,
		FrameWidth:  canvasWidth / frameCount,
		FrameHeight: canvasHeight,
	}
	s.animations = append(s.animations, a)

	if len(s.animations) == 1 {
		s.SetCurrentIndex(0)
	}

	s.insertedAt(index)
	return name
}

// Add inserts an externally built animation at index, taking ownership of it.
// The same animation value cannot be added twice, a name collision is
// rejected, and index must be in [0, Count()]. When the insertion lands at or
// before the selection, the selection shifts right so it keeps pointing at
// the same animation.
func (s *System) Add(a *Animation, index int) {
	if a == nil {
		log.Printf("anim: cannot add nil animation")
		return
	}
	for i, existing := range s.animations {
		if existing == a {
			log.Printf("anim: animation named %q already exists (at index %d)", a.Name, i)
			return
		}
	}
	if s.Contains(a.Name) {
		log.Printf("anim: animation named %q already exists", a.Name)
		return
	}
	if !s.validInsertPos(index) {
		return
	}

	s.aboutToInsertAt(index)

	s.animations = append(s.animations, nil)
	copy(s.animations[index+1:], s.animations[index:])
	s.animations[index] = a

	if len(s.animations) == 1 {
		s.SetCurrentIndex(0)
	} else if index <= s.current {
		s.SetCurrentIndex(s.current + 1)
	}

	s.insertedAt(index)
	s.countChanged()
}

// RemoveByName removes the named animation; an unknown name logs and no-ops.
// The selection follows the mutation: removing the sole animation clears it
// and unbinds the playback, removing at or before it shifts it left so it
// keeps pointing at the same animation. Removing the selected head of a
// multi-element list leaves the index at 0, now on the old right-hand
// neighbour.
func (s *System) RemoveByName(name string) {
	index := s.IndexOf(name)
	if index == -1 {
		log.Printf("anim: animation named %q doesn't exist", name)
		return
	}

	s.aboutToRemoveAt(index)

	prev := s.current
	if len(s.animations) == 1 {
		s.current = -1
		s.playback.SetAnimation(nil)
	} else if s.current != -1 && index <= s.current {
		s.current--
		if s.current < 0 {
			s.current = 0
		}
	}

	s.animations = append(s.animations[:index], s.animations[index+1:]...)

	if s.current != -1 && index <= prev {
		// The entry at the current index may have changed identity.
		s.playback.SetAnimation(s.CurrentAnimation())
	}
	if s.current != prev {
		s.selectionChanged()
	}

	s.removedAt(index)
	s.countChanged()
}

// TakeAt removes and returns the animation at index, transferring ownership
// back to the caller; out-of-range logs and returns nil. Unlike RemoveByName
// this path never adjusts the selection: callers taking at or before the
// current index are expected to re-select, and until they do the selection
// can sit one past the end with CurrentAnimation reporting nil. The two
// removal paths are deliberately not unified.
func (s *System) TakeAt(index int) *Animation {
	if index < 0 || index >= len(s.animations) {
		log.Printf("anim: animation index %d is invalid", index)
		return nil
	}

	s.aboutToRemoveAt(index)

	a := s.animations[index]
	s.animations = append(s.animations[:index], s.animations[index+1:]...)

	s.removedAt(index)
	s.countChanged()
	return a
}

// ReadFrom restores the collection from the animation sub-structure of a
// project document. Documents predating multi-animation support carry flat
// playback and geometry keys at the root; those are upgraded into a
// single-entry collection through the regular Add path, so selection and
// notification rules apply, and the next save writes the current shape.
// Current-shape documents are bulk loads: entries append directly with no
// signals and no selection change, and the document layer re-selects after
// the load completes.
func (s *System) ReadFrom(doc map[string]json.RawMessage) error {
	if _, legacy := doc["fps"]; legacy {
		a := &Animation{
			Name:        s.takeNextName(),
			FPS:         intField(doc, "fps"),
			FrameCount:  intField(doc, "frameCount"),
			FrameX:      intField(doc, "frameX"),
			FrameY:      intField(doc, "frameY"),
			FrameWidth:  intField(doc, "frameWidth"),
			FrameHeight: intField(doc, "frameHeight"),
		}
		s.Add(a, 0)

		s.playback.SetScale(floatField(doc, "scale"))
		s.playback.SetLoop(boolField(doc, "loop"))
		s.playback.SetPlaying(false)
		return nil
	}

	if raw, ok := doc["animations"]; ok {
		var entries []json.RawMessage
		if err := json.Unmarshal(raw, &entries); err != nil {
			return fmt.Errorf("anim: decode animations: %w", err)
		}
		for _, entry := range entries {
			a := &Animation{}
			if err := json.Unmarshal(entry, a); err != nil {
				return fmt.Errorf("anim: decode animation: %w", err)
			}
			s.animations = append(s.animations, a)
		}
	}
	return s.playback.ReadFrom(doc["currentAnimationPlayback"])
}

// WriteTo contributes the playback fragment to a project document. Writing
// the animations array itself is the document layer's responsibility; this
// component only owns the "currentAnimationPlayback" key.
func (s *System) WriteTo(doc map[string]json.RawMessage) error {
	raw, err := s.playback.WriteTo()
	if err != nil {
		return err
	}
	doc["currentAnimationPlayback"] = raw
	return nil
}

// Reset clears the collection and returns the selection, the playback, and
// the name generator to their initial state. Reset is a full teardown for
// document close/reload; no notifications fire.
func (s *System) Reset() {
	s.animations = nil
	s.current = -1
	s.playback.Reset()
	s.created = 0
}

func (s *System) peekNextName() string {
	return fmt.Sprintf("Animation %d", s.created+1)
}

func (s *System) takeNextName() string {
	name := s.peekNextName()
	s.created++
	return name
}

// validInsertPos accepts [0, Count()]: one past the end is a valid insertion
// position and also a valid selection value. Element access uses the stricter
// check in AnimationAt; the two ranges differ and must stay separate.
func (s *System) validInsertPos(index int) bool {
	if index < 0 || index > len(s.animations) {
		log.Printf("anim: animation index %d is invalid", index)
		return false
	}
	return true
}

// Legacy documents are read leniently: a missing or malformed key is its
// zero value.
func intField(doc map[string]json.RawMessage, key string) int {
	var v int
	_ = json.Unmarshal(doc[key], &v)
	return v
}

func floatField(doc map[string]json.RawMessage, key string) float64 {
	var v float64
	_ = json.Unmarshal(doc[key], &v)
	return v
}

func boolField(doc map[string]json.RawMessage, key string) bool {
	var v bool
	_ = json.Unmarshal(doc[key], &v)
	return v
}
