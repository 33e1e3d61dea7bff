package main

import (
	"encoding/json"
	"fmt"
	"image/color"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"golang.design/x/clipboard"

	"github.com/milk9111/spritepad/project"
	"github.com/milk9111/spritepad/render"
	"github.com/milk9111/spritepad/watch"
)

// Preview plays back the current animation of a project document.
type Preview struct {
	project     *project.Project
	projectPath string
	cfg         Config
	bg          color.NRGBA

	sheet   *render.Sheet
	panel   *Panel
	watcher *watch.Watcher

	clipboardOK bool
}

func NewPreview(p *project.Project, path string, cfg Config, watchFile bool) (*Preview, error) {
	g := &Preview{
		project:     p,
		projectPath: path,
		cfg:         cfg,
		bg:          parseColor(cfg.Background),
	}
	g.loadSheet()

	if watchFile {
		w, err := watch.NewWatcher(path)
		if err != nil {
			return nil, err
		}
		g.watcher = w
	}

	if err := clipboard.Init(); err != nil {
		log.Printf("spritepad: clipboard unavailable: %v", err)
	} else {
		g.clipboardOK = true
	}

	g.panel = NewPanel(p)
	return g, nil
}

// Close releases the file watcher.
func (g *Preview) Close() {
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
}

func (g *Preview) loadSheet() {
	g.sheet = nil
	if g.project.Sheet == "" {
		return
	}
	sheet, err := render.LoadSheet(g.project.Sheet)
	if err != nil {
		// The preview still works without the sheet; frames just don't draw.
		log.Printf("spritepad: %v", err)
		return
	}
	g.sheet = sheet
}

func (g *Preview) Update() error {
	g.pollWatcher()
	g.handleKeys()
	g.project.Animations.CurrentPlayback().Advance()
	g.panel.Update()
	return nil
}

func (g *Preview) pollWatcher() {
	if g.watcher == nil {
		return
	}
	select {
	case _, ok := <-g.watcher.Events:
		if ok {
			g.reload()
		}
	case err, ok := <-g.watcher.Errors:
		if ok {
			log.Printf("spritepad: watch: %v", err)
		}
	default:
	}
}

func (g *Preview) reload() {
	p, err := project.Load(g.projectPath)
	if err != nil {
		log.Printf("spritepad: reload: %v", err)
		return
	}
	g.project = p
	g.panel.Rebind(p)
	g.loadSheet()
	log.Printf("spritepad: reloaded %s", g.projectPath)
}

func (g *Preview) handleKeys() {
	sys := g.project.Animations

	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		pb := sys.CurrentPlayback()
		pb.SetPlaying(!pb.Playing())
		g.panel.Invalidate()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDown) {
		if i := sys.CurrentIndex(); i != -1 && i+1 < sys.Count() {
			sys.SetCurrentIndex(i + 1)
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyUp) {
		if i := sys.CurrentIndex(); i > 0 {
			sys.SetCurrentIndex(i - 1)
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		if name := sys.AddNew(g.project.CanvasWidth, g.project.CanvasHeight); name == "" {
			log.Printf("spritepad: could not add a new animation")
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		g.copyCurrent()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		if err := g.project.Save(g.projectPath); err != nil {
			log.Printf("spritepad: save: %v", err)
		}
	}
}

// copyCurrent puts the current animation's JSON fragment on the system
// clipboard so it can be pasted into another project.
func (g *Preview) copyCurrent() {
	if !g.clipboardOK {
		return
	}
	a := g.project.Animations.CurrentAnimation()
	if a == nil {
		return
	}
	raw, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return
	}
	clipboard.Write(clipboard.FmtText, raw)
}

func (g *Preview) Draw(screen *ebiten.Image) {
	screen.Fill(g.bg)

	sys := g.project.Animations
	a := sys.CurrentAnimation()
	pb := sys.CurrentPlayback()

	if a != nil && g.sheet != nil {
		scale := g.cfg.Zoom
		if pb.Scale() > 0 {
			scale *= pb.Scale()
		}
		fw := float64(a.FrameWidth) * scale
		fh := float64(a.FrameHeight) * scale
		viewW := float64(screen.Bounds().Dx() - panelWidth)
		viewH := float64(screen.Bounds().Dy())

		op := &ebiten.DrawImageOptions{}
		op.GeoM.Scale(scale, scale)
		op.GeoM.Translate((viewW-fw)/2, (viewH-fh)/2)
		g.sheet.Draw(screen, a, pb.FrameIndex(), op)
	}

	g.panel.Draw(screen)

	status := "no animation selected"
	if a != nil {
		status = fmt.Sprintf("%s  frame %d/%d  fps %d", a.Name, pb.FrameIndex()+1, a.FrameCount, a.FPS)
	}
	ebitenutil.DebugPrint(screen, status)
}

// Layout tracks the window: the config size is only the initial window size,
// and Draw centers within whatever bounds it is given.
func (g *Preview) Layout(outsideWidth, outsideHeight int) (int, int) {
	return outsideWidth, outsideHeight
}
