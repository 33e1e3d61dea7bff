package main

import (
	"image/color"

	"github.com/ebitenui/ebitenui"
	imageui "github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/basicfont"

	"github.com/milk9111/spritepad/anim"
	"github.com/milk9111/spritepad/project"
)

const panelWidth = 240

// Panel is the animation list sidebar. It observes the animation system
// through the listener protocol and rebuilds its widget tree whenever the
// collection or the selection changes.
type Panel struct {
	project  *project.Project
	ui       *ebitenui.UI
	listener *panelListener
	dirty    bool
}

type panelListener struct {
	anim.NopListener
	panel *Panel
}

func (l *panelListener) SelectionChanged() { l.panel.dirty = true }
func (l *panelListener) CountChanged()     { l.panel.dirty = true }

func NewPanel(p *project.Project) *Panel {
	panel := &Panel{project: p, dirty: true}
	panel.listener = &panelListener{panel: panel}
	p.Animations.AddListener(panel.listener)
	return panel
}

// Rebind moves the panel to a freshly loaded project, detaching from the old
// animation system first.
func (p *Panel) Rebind(next *project.Project) {
	p.project.Animations.RemoveListener(p.listener)
	p.project = next
	next.Animations.AddListener(p.listener)
	p.dirty = true
}

// Invalidate forces a rebuild on the next update, for state the listener
// protocol doesn't cover (playback toggles).
func (p *Panel) Invalidate() { p.dirty = true }

func (p *Panel) Update() {
	if p.dirty {
		p.ui = p.build()
		p.dirty = false
	}
	if p.ui != nil {
		p.ui.Update()
	}
}

func (p *Panel) Draw(screen *ebiten.Image) {
	if p.ui != nil {
		p.ui.Draw(screen)
	}
}

func (p *Panel) build() *ebitenui.UI {
	sys := p.project.Animations

	panelImg := imageui.NewNineSliceColor(color.NRGBA{R: 0x18, G: 0x18, B: 0x20, A: 230})
	btnImg := imageui.NewNineSliceColor(color.NRGBA{R: 0x33, G: 0x33, B: 0x3a, A: 255})
	selImg := imageui.NewNineSliceColor(color.NRGBA{R: 0x4a, G: 0x5a, B: 0x8a, A: 255})

	goFace := ebtext.NewGoXFace(basicfont.Face7x13)
	var face ebtext.Face = goFace
	white := color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	btnTextColor := &widget.ButtonTextColor{Idle: white}

	panel := widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(panelImg),
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
			widget.RowLayoutOpts.Spacing(6),
			widget.RowLayoutOpts.Padding(&widget.Insets{Top: 10, Bottom: 10, Left: 10, Right: 10}),
		)),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(panelWidth, 0),
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{
				HorizontalPosition: widget.AnchorLayoutPositionEnd,
				VerticalPosition:   widget.AnchorLayoutPositionStart,
				StretchVertical:    true,
			}),
		),
	)

	title := widget.NewText(
		widget.TextOpts.Text("Animations", &face, white),
		widget.TextOpts.WidgetOpts(widget.WidgetOpts.LayoutData(widget.RowLayoutData{Position: widget.RowLayoutPositionCenter})),
	)
	panel.AddChild(title)

	for i := 0; i < sys.Count(); i++ {
		a := sys.AnimationAt(i)
		if a == nil {
			continue
		}
		img := btnImg
		if i == sys.CurrentIndex() {
			img = selImg
		}
		index := i
		btn := widget.NewButton(
			widget.ButtonOpts.Image(&widget.ButtonImage{Idle: img, Pressed: img}),
			widget.ButtonOpts.Text(a.Name, &face, btnTextColor),
			widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
				sys.SetCurrentIndex(index)
			}),
		)
		panel.AddChild(btn)
	}

	playLabel := "Play"
	if sys.CurrentPlayback().Playing() {
		playLabel = "Pause"
	}
	playBtn := widget.NewButton(
		widget.ButtonOpts.Image(&widget.ButtonImage{Idle: btnImg, Pressed: btnImg}),
		widget.ButtonOpts.Text(playLabel, &face, btnTextColor),
		widget.ButtonOpts.WidgetOpts(widget.WidgetOpts.LayoutData(widget.RowLayoutData{Position: widget.RowLayoutPositionCenter})),
		widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
			pb := sys.CurrentPlayback()
			pb.SetPlaying(!pb.Playing())
			p.dirty = true
		}),
	)
	panel.AddChild(playBtn)

	addBtn := widget.NewButton(
		widget.ButtonOpts.Image(&widget.ButtonImage{Idle: btnImg, Pressed: btnImg}),
		widget.ButtonOpts.Text("+ Animation", &face, btnTextColor),
		widget.ButtonOpts.WidgetOpts(widget.WidgetOpts.LayoutData(widget.RowLayoutData{Position: widget.RowLayoutPositionCenter})),
		widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
			sys.AddNew(p.project.CanvasWidth, p.project.CanvasHeight)
		}),
	)
	panel.AddChild(addBtn)

	root := widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewAnchorLayout()),
	)
	root.AddChild(panel)

	return &ebitenui.UI{Container: root}
}
