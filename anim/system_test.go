package anim

import (
	"encoding/json"
	"fmt"
	"testing"
)

// recorder captures every notification in delivery order.
type recorder struct {
	events []string
}

func (r *recorder) AboutToInsertAt(i int) { r.events = append(r.events, fmt.Sprintf("aboutToInsert:%d", i)) }
func (r *recorder) InsertedAt(i int)      { r.events = append(r.events, fmt.Sprintf("inserted:%d", i)) }
func (r *recorder) AboutToRemoveAt(i int) { r.events = append(r.events, fmt.Sprintf("aboutToRemove:%d", i)) }
func (r *recorder) RemovedAt(i int)       { r.events = append(r.events, fmt.Sprintf("removed:%d", i)) }
func (r *recorder) SelectionChanged()     { r.events = append(r.events, "selectionChanged") }
func (r *recorder) CountChanged()         { r.events = append(r.events, "countChanged") }

func checkSelectionInvariant(t *testing.T, s *System) {
	t.Helper()
	if s.Count() == 0 {
		if s.CurrentIndex() != -1 {
			t.Fatalf("empty collection should have index -1, got %d", s.CurrentIndex())
		}
		return
	}
	if s.CurrentIndex() < 0 || s.CurrentIndex() >= s.Count() {
		t.Fatalf("index %d out of range for %d animations", s.CurrentIndex(), s.Count())
	}
	if got := s.CurrentPlayback().Animation(); got != s.CurrentAnimation() {
		t.Fatalf("playback bound to %v, current animation is %v", got, s.CurrentAnimation())
	}
}

func TestSelectionInvariantUnderMutation(t *testing.T) {
	type step struct {
		op   string
		name string // for remove
		at   int    // for add
	}
	cases := []struct {
		name  string
		steps []step
	}{
		{"grow_then_shrink", []step{
			{op: "new"}, {op: "new"}, {op: "new"},
			{op: "remove", name: "Animation 2"},
			{op: "remove", name: "Animation 1"},
			{op: "remove", name: "Animation 3"},
		}},
		{"insert_at_head", []step{
			{op: "new"},
			{op: "add", name: "walk", at: 0},
			{op: "add", name: "idle", at: 0},
			{op: "remove", name: "Animation 1"},
		}},
		{"remove_unknown_is_noop", []step{
			{op: "new"},
			{op: "remove", name: "nope"},
		}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			s := NewSystem()
			checkSelectionInvariant(t, s)
			for _, st := range c.steps {
				switch st.op {
				case "new":
					s.AddNew(32, 32)
				case "add":
					s.Add(&Animation{Name: st.name, FPS: 4, FrameCount: 1, FrameWidth: 32, FrameHeight: 32}, st.at)
				case "remove":
					s.RemoveByName(st.name)
				}
				checkSelectionInvariant(t, s)
			}
		})
	}
}

func TestAddNewDefaults(t *testing.T) {
	cases := []struct {
		name       string
		canvasW    int
		canvasH    int
		wantFrames int
		wantFrameW int
		wantFrameH int
	}{
		{"wide_canvas", 32, 16, 4, 8, 16},
		{"narrow_canvas", 4, 12, 1, 4, 12},
		{"boundary_width", 8, 8, 4, 2, 8},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			s := NewSystem()
			name := s.AddNew(c.canvasW, c.canvasH)
			if name != "Animation 1" {
				t.Fatalf("expected generated name Animation 1, got %q", name)
			}
			a := s.CurrentAnimation()
			if a == nil {
				t.Fatal("first animation should be selected")
			}
			if s.CurrentIndex() != 0 {
				t.Fatalf("first animation should select index 0, got %d", s.CurrentIndex())
			}
			if a.FPS != 4 {
				t.Fatalf("expected default fps 4, got %d", a.FPS)
			}
			if a.FrameCount != c.wantFrames || a.FrameWidth != c.wantFrameW || a.FrameHeight != c.wantFrameH {
				t.Fatalf("geometry = %d frames %dx%d, want %d frames %dx%d",
					a.FrameCount, a.FrameWidth, a.FrameHeight, c.wantFrames, c.wantFrameW, c.wantFrameH)
			}
			if a.FrameX != 0 || a.FrameY != 0 {
				t.Fatalf("frame position should default to origin, got %d,%d", a.FrameX, a.FrameY)
			}
			if s.CurrentPlayback().Animation() != a {
				t.Fatal("playback should be bound to the new animation")
			}
		})
	}
}

func TestAddNewNameCollision(t *testing.T) {
	s := NewSystem()
	s.AddNew(32, 32) // consumes "Animation 1"
	s.Add(&Animation{Name: "Animation 2", FrameCount: 1, FrameWidth: 32, FrameHeight: 32}, 1)

	// The generator is now at "Animation 2" and does not probe past it.
	if name := s.AddNew(32, 32); name != "" {
		t.Fatalf("colliding generated name should abort with \"\", got %q", name)
	}
	if s.Count() != 2 {
		t.Fatalf("collection should be unchanged, got %d animations", s.Count())
	}
}

func TestAddRejections(t *testing.T) {
	shared := &Animation{Name: "walk", FrameCount: 1, FrameWidth: 16, FrameHeight: 16}

	cases := []struct {
		name  string
		setup func(s *System)
		add   *Animation
		at    int
	}{
		{"duplicate_value", func(s *System) { s.Add(shared, 0) }, shared, 1},
		{"duplicate_name", func(s *System) { s.Add(&Animation{Name: "walk"}, 0) }, &Animation{Name: "walk"}, 1},
		{"index_negative", func(s *System) {}, &Animation{Name: "idle"}, -1},
		{"index_past_insertion_range", func(s *System) {}, &Animation{Name: "idle"}, 1},
		{"nil_animation", func(s *System) {}, nil, 0},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			s := NewSystem()
			c.setup(s)
			before := s.Count()
			s.Add(c.add, c.at)
			if s.Count() != before {
				t.Fatalf("rejected add should leave the collection unchanged, %d -> %d", before, s.Count())
			}
		})
	}
}

func TestAddBeforeSelectionShiftsRight(t *testing.T) {
	s := NewSystem()
	s.AddNew(32, 32)
	s.AddNew(32, 32)
	s.SetCurrentIndex(1)
	selected := s.CurrentAnimation()

	s.Add(&Animation{Name: "idle", FrameCount: 1, FrameWidth: 16, FrameHeight: 16}, 0)

	if s.CurrentIndex() != 2 {
		t.Fatalf("selection should shift to 2, got %d", s.CurrentIndex())
	}
	if s.CurrentAnimation() != selected {
		t.Fatal("selection should keep pointing at the same animation")
	}

	// Inserting after the selection leaves it alone.
	s.Add(&Animation{Name: "jump", FrameCount: 1, FrameWidth: 16, FrameHeight: 16}, 3)
	if s.CurrentIndex() != 2 || s.CurrentAnimation() != selected {
		t.Fatalf("insertion after the selection moved it: index %d", s.CurrentIndex())
	}
}

func TestRemoveByNameSelection(t *testing.T) {
	t.Run("last_remaining_clears_selection", func(t *testing.T) {
		s := NewSystem()
		s.AddNew(32, 32)
		s.RemoveByName("Animation 1")
		if s.CurrentIndex() != -1 {
			t.Fatalf("expected -1, got %d", s.CurrentIndex())
		}
		if s.CurrentAnimation() != nil {
			t.Fatal("expected no current animation")
		}
		if s.CurrentPlayback().Animation() != nil {
			t.Fatal("playback should be unbound")
		}
	})

	t.Run("before_selection_decrements", func(t *testing.T) {
		s := NewSystem()
		s.AddNew(32, 32)
		s.AddNew(32, 32)
		s.AddNew(32, 32)
		s.SetCurrentIndex(2)
		selected := s.CurrentAnimation()

		s.RemoveByName("Animation 1")

		if s.CurrentIndex() != 1 {
			t.Fatalf("expected index 1, got %d", s.CurrentIndex())
		}
		if s.CurrentAnimation() != selected {
			t.Fatal("selection should keep pointing at the same animation")
		}
	})

	t.Run("after_selection_leaves_it", func(t *testing.T) {
		s := NewSystem()
		s.AddNew(32, 32)
		s.AddNew(32, 32)
		selected := s.AnimationAt(0)

		s.RemoveByName("Animation 2")

		if s.CurrentIndex() != 0 || s.CurrentAnimation() != selected {
			t.Fatalf("removal after the selection moved it: index %d", s.CurrentIndex())
		}
	})

	t.Run("selected_head_keeps_index_zero", func(t *testing.T) {
		s := NewSystem()
		s.AddNew(32, 32)
		s.AddNew(32, 32)
		s.AddNew(32, 32)
		neighbour := s.AnimationAt(1)

		s.RemoveByName("Animation 1")

		if s.CurrentIndex() != 0 {
			t.Fatalf("expected index 0, got %d", s.CurrentIndex())
		}
		if s.CurrentAnimation() != neighbour {
			t.Fatal("old right-hand neighbour should be selected")
		}
		if s.CurrentPlayback().Animation() != neighbour {
			t.Fatal("playback should be rebound to the new head")
		}
	})
}

func TestTakeAtDoesNotAdjustSelection(t *testing.T) {
	s := NewSystem()
	s.AddNew(32, 32)
	s.AddNew(32, 32)
	s.SetCurrentIndex(1)

	taken := s.TakeAt(1)
	if taken == nil || taken.Name != "Animation 2" {
		t.Fatalf("expected to take Animation 2, got %v", taken)
	}
	// The selection deliberately does not follow this path: it is now parked
	// one past the end until the caller re-selects.
	if s.CurrentIndex() != 1 {
		t.Fatalf("TakeAt must not adjust the selection, got %d", s.CurrentIndex())
	}
	if s.CurrentAnimation() != nil {
		t.Fatal("no element lives at a parked selection")
	}

	if got := s.TakeAt(5); got != nil {
		t.Fatalf("out-of-range take should return nil, got %v", got)
	}
}

func TestSetCurrentIndex(t *testing.T) {
	s := NewSystem()
	s.AddNew(32, 32)
	s.AddNew(32, 32)

	rec := &recorder{}
	s.AddListener(rec)

	s.SetCurrentIndex(0) // no-op, already current
	if len(rec.events) != 0 {
		t.Fatalf("no-op set should not notify, got %v", rec.events)
	}

	s.SetCurrentIndex(1)
	if s.CurrentIndex() != 1 || len(rec.events) != 1 || rec.events[0] != "selectionChanged" {
		t.Fatalf("index %d events %v", s.CurrentIndex(), rec.events)
	}

	s.SetCurrentIndex(-1) // out of range, declined
	s.SetCurrentIndex(3)  // out of range, declined
	if s.CurrentIndex() != 1 {
		t.Fatalf("invalid indexes should leave the selection, got %d", s.CurrentIndex())
	}

	// One past the end is accepted, but nothing lives there.
	s.SetCurrentIndex(2)
	if s.CurrentIndex() != 2 {
		t.Fatalf("one-past-end should be accepted, got %d", s.CurrentIndex())
	}
	if s.CurrentAnimation() != nil {
		t.Fatal("one-past-end has no animation")
	}
	if s.CurrentPlayback().Animation() != nil {
		t.Fatal("playback should be unbound one past the end")
	}
}

func TestLookups(t *testing.T) {
	s := NewSystem()
	s.AddNew(32, 32)

	if !s.Contains("Animation 1") || s.Contains("nope") {
		t.Fatal("Contains mismatch")
	}
	if s.IndexOf("Animation 1") != 0 || s.IndexOf("nope") != -1 {
		t.Fatal("IndexOf mismatch")
	}
	if s.AnimationAt(0) == nil || s.AnimationAt(1) != nil || s.AnimationAt(-1) != nil {
		t.Fatal("AnimationAt bounds mismatch")
	}
	if s.ByName("Animation 1") == nil {
		t.Fatal("ByName should find the animation")
	}
	if s.ByName("nope") != nil {
		t.Fatal("ByName should report absence as nil")
	}
}

func TestNotificationOrder(t *testing.T) {
	t.Run("add", func(t *testing.T) {
		s := NewSystem()
		rec := &recorder{}
		s.AddListener(rec)

		s.Add(&Animation{Name: "walk", FrameCount: 1, FrameWidth: 16, FrameHeight: 16}, 0)

		want := []string{"aboutToInsert:0", "selectionChanged", "inserted:0", "countChanged"}
		if fmt.Sprint(rec.events) != fmt.Sprint(want) {
			t.Fatalf("events = %v, want %v", rec.events, want)
		}
	})

	t.Run("add_new_emits_no_count_changed", func(t *testing.T) {
		s := NewSystem()
		rec := &recorder{}
		s.AddListener(rec)

		s.AddNew(32, 32)

		want := []string{"aboutToInsert:0", "selectionChanged", "inserted:0"}
		if fmt.Sprint(rec.events) != fmt.Sprint(want) {
			t.Fatalf("events = %v, want %v", rec.events, want)
		}
	})

	t.Run("remove_sole_clears_selection", func(t *testing.T) {
		s := NewSystem()
		s.AddNew(32, 32)
		rec := &recorder{}
		s.AddListener(rec)

		s.RemoveByName("Animation 1")

		// Removing the only animation drops the selection from 0 to -1, so
		// selectionChanged fires between the paired removal signals.
		want := []string{"aboutToRemove:0", "selectionChanged", "removed:0", "countChanged"}
		if fmt.Sprint(rec.events) != fmt.Sprint(want) {
			t.Fatalf("events = %v, want %v", rec.events, want)
		}
	})

	t.Run("remove_after_selection_keeps_it", func(t *testing.T) {
		s := NewSystem()
		s.AddNew(32, 32)
		s.AddNew(32, 32)
		rec := &recorder{}
		s.AddListener(rec)

		s.RemoveByName("Animation 2")

		want := []string{"aboutToRemove:1", "removed:1", "countChanged"}
		if fmt.Sprint(rec.events) != fmt.Sprint(want) {
			t.Fatalf("events = %v, want %v", rec.events, want)
		}
	})

	t.Run("pre_signal_sees_pre_mutation_state", func(t *testing.T) {
		s := NewSystem()
		s.AddNew(32, 32)

		counts := struct{ pre, post int }{}
		s.AddListener(&funcListener{
			aboutToRemove: func(int) { counts.pre = s.Count() },
			removed:       func(int) { counts.post = s.Count() },
		})

		s.RemoveByName("Animation 1")

		if counts.pre != 1 || counts.post != 0 {
			t.Fatalf("pre saw %d, post saw %d", counts.pre, counts.post)
		}
	})

	t.Run("remove_listener", func(t *testing.T) {
		s := NewSystem()
		rec := &recorder{}
		s.AddListener(rec)
		s.RemoveListener(rec)

		s.AddNew(32, 32)
		if len(rec.events) != 0 {
			t.Fatalf("removed listener still notified: %v", rec.events)
		}
	})
}

type funcListener struct {
	NopListener
	aboutToRemove func(int)
	removed       func(int)
}

func (l *funcListener) AboutToRemoveAt(i int) {
	if l.aboutToRemove != nil {
		l.aboutToRemove(i)
	}
}

func (l *funcListener) RemovedAt(i int) {
	if l.removed != nil {
		l.removed(i)
	}
}

func TestReadFromLegacy(t *testing.T) {
	doc := map[string]json.RawMessage{
		"fps":         json.RawMessage(`8`),
		"frameCount":  json.RawMessage(`2`),
		"frameX":      json.RawMessage(`0`),
		"frameY":      json.RawMessage(`0`),
		"frameWidth":  json.RawMessage(`16`),
		"frameHeight": json.RawMessage(`16`),
		"scale":       json.RawMessage(`2.0`),
		"loop":        json.RawMessage(`true`),
	}

	s := NewSystem()
	if err := s.ReadFrom(doc); err != nil {
		t.Fatalf("ReadFrom: %v", err)
	}

	if s.Count() != 1 {
		t.Fatalf("expected one upgraded animation, got %d", s.Count())
	}
	a := s.AnimationAt(0)
	if a.Name != "Animation 1" {
		t.Fatalf("expected generated name Animation 1, got %q", a.Name)
	}
	if a.FPS != 8 || a.FrameCount != 2 || a.FrameWidth != 16 || a.FrameHeight != 16 {
		t.Fatalf("legacy geometry lost: %+v", a)
	}
	if s.CurrentIndex() != 0 {
		t.Fatalf("upgraded animation should be selected, got %d", s.CurrentIndex())
	}

	pb := s.CurrentPlayback()
	if pb.Scale() != 2.0 || !pb.Loop() {
		t.Fatalf("playback scale=%v loop=%v", pb.Scale(), pb.Loop())
	}
	if pb.Playing() {
		t.Fatal("legacy load must force playing=false")
	}
}

func TestReadFromCurrentShape(t *testing.T) {
	doc := map[string]json.RawMessage{
		"animations": json.RawMessage(`[
			{"name":"walk","fps":8,"frameCount":4,"frameX":0,"frameY":0,"frameWidth":16,"frameHeight":16},
			{"name":"idle","fps":2,"frameCount":2,"frameX":0,"frameY":16,"frameWidth":16,"frameHeight":16}
		]`),
		"currentAnimationPlayback": json.RawMessage(`{"scale":3,"loop":true,"playing":false}`),
	}

	s := NewSystem()
	rec := &recorder{}
	s.AddListener(rec)

	if err := s.ReadFrom(doc); err != nil {
		t.Fatalf("ReadFrom: %v", err)
	}

	if s.Count() != 2 || s.AnimationAt(0).Name != "walk" || s.AnimationAt(1).Name != "idle" {
		t.Fatalf("collection mismatch: %d animations", s.Count())
	}
	// Bulk load is not an incremental edit.
	if len(rec.events) != 0 {
		t.Fatalf("bulk load should not notify, got %v", rec.events)
	}
	if s.CurrentIndex() != -1 {
		t.Fatalf("bulk load should not select, got %d", s.CurrentIndex())
	}
	if s.CurrentPlayback().Scale() != 3 || !s.CurrentPlayback().Loop() {
		t.Fatal("playback fragment not applied")
	}
}

func TestWriteToContributesOnlyPlayback(t *testing.T) {
	s := NewSystem()
	s.AddNew(32, 32)
	s.CurrentPlayback().SetScale(2.5)
	s.CurrentPlayback().SetLoop(true)

	doc := map[string]json.RawMessage{}
	if err := s.WriteTo(doc); err != nil {
		t.Fatalf("WriteTo: %v", err)
	}

	if len(doc) != 1 {
		t.Fatalf("WriteTo should only contribute the playback fragment, got keys %v", doc)
	}
	var pj struct {
		Scale float64 `json:"scale"`
		Loop  bool    `json:"loop"`
	}
	if err := json.Unmarshal(doc["currentAnimationPlayback"], &pj); err != nil {
		t.Fatalf("unmarshal fragment: %v", err)
	}
	if pj.Scale != 2.5 || !pj.Loop {
		t.Fatalf("fragment = %+v", pj)
	}
}

func TestReset(t *testing.T) {
	s := NewSystem()
	s.AddNew(32, 32)
	s.AddNew(32, 32)
	s.CurrentPlayback().SetScale(4)
	s.CurrentPlayback().SetPlaying(true)

	s.Reset()

	if s.Count() != 0 {
		t.Fatalf("expected empty collection, got %d", s.Count())
	}
	if s.CurrentIndex() != -1 {
		t.Fatalf("expected index -1, got %d", s.CurrentIndex())
	}
	if s.CurrentPlayback().Scale() != 1 || s.CurrentPlayback().Playing() {
		t.Fatal("playback should be back to defaults")
	}
	// The name generator restarts from scratch.
	if name := s.AddNew(32, 32); name != "Animation 1" {
		t.Fatalf("expected Animation 1 after reset, got %q", name)
	}
}
