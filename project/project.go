// Package project owns the sprite-sheet project document: canvas metadata,
// the sheet path, and the animation collection's persisted form.
package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/milk9111/spritepad/anim"
)

// Project is a loaded sprite-sheet document.
type Project struct {
	Name         string
	CanvasWidth  int
	CanvasHeight int
	Sheet        string

	Animations *anim.System
}

// projectMeta is the document's own key set; the animation sub-structure
// shares the same root object, which is also where legacy flat keys live.
type projectMeta struct {
	Name         string `json:"name"`
	CanvasWidth  int    `json:"canvasWidth"`
	CanvasHeight int    `json:"canvasHeight"`
	Sheet        string `json:"sheet,omitempty"`
}

// New returns an empty project with the given canvas size.
func New(name string, canvasWidth, canvasHeight int) *Project {
	return &Project{
		Name:         name,
		CanvasWidth:  canvasWidth,
		CanvasHeight: canvasHeight,
		Animations:   anim.NewSystem(),
	}
}

// Load reads a project document from disk. Legacy single-animation documents
// are upgraded in memory by the animation system; the next Save writes the
// current shape. After a current-shape load the first animation is selected,
// since the system's bulk loader leaves the selection alone.
func Load(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("project: read %s: %w", path, err)
	}

	var meta projectMeta
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("project: decode %s: %w", path, err)
	}
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("project: decode %s: %w", path, err)
	}

	p := &Project{
		Name:         meta.Name,
		CanvasWidth:  meta.CanvasWidth,
		CanvasHeight: meta.CanvasHeight,
		Sheet:        meta.Sheet,
		Animations:   anim.NewSystem(),
	}
	if err := p.Animations.ReadFrom(doc); err != nil {
		return nil, fmt.Errorf("project: %s: %w", path, err)
	}
	if p.Animations.Count() > 0 && p.Animations.CurrentIndex() == -1 {
		p.Animations.SetCurrentIndex(0)
	}
	return p, nil
}

// Save writes the project in the current document shape. The animations
// array is serialized here: the animation system only contributes its
// playback fragment at this boundary.
func (p *Project) Save(path string) error {
	doc := map[string]json.RawMessage{}

	metaRaw, err := json.Marshal(projectMeta{
		Name:         p.Name,
		CanvasWidth:  p.CanvasWidth,
		CanvasHeight: p.CanvasHeight,
		Sheet:        p.Sheet,
	})
	if err != nil {
		return fmt.Errorf("project: encode meta: %w", err)
	}
	var metaDoc map[string]json.RawMessage
	if err := json.Unmarshal(metaRaw, &metaDoc); err != nil {
		return fmt.Errorf("project: encode meta: %w", err)
	}
	for k, v := range metaDoc {
		doc[k] = v
	}

	entries := make([]json.RawMessage, 0, p.Animations.Count())
	for i := 0; i < p.Animations.Count(); i++ {
		raw, err := json.Marshal(p.Animations.AnimationAt(i))
		if err != nil {
			return fmt.Errorf("project: encode animation %d: %w", i, err)
		}
		entries = append(entries, raw)
	}
	arr, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("project: encode animations: %w", err)
	}
	doc["animations"] = arr

	if err := p.Animations.WriteTo(doc); err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("project: mkdir %s: %w", dir, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("project: create %s: %w", path, err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("project: encode %s: %w", path, err)
	}
	return nil
}
