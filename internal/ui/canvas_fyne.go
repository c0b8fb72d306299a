//go:build fyne && cgo

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package ui

import (
	"image/color"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	pcanvas "posterstudio/internal/canvas"
	"posterstudio/internal/domain"
	"posterstudio/internal/export"
	"posterstudio/internal/gesture"
	"posterstudio/internal/snap"
)

const (
	maxGuides    = 2
	maxDistances = 6
	handleSize   = 8
)

var (
	colorBackdrop  = color.NRGBA{R: 30, G: 30, B: 34, A: 255}
	colorCanvas    = color.NRGBA{R: 0x1F, G: 0x29, B: 0x37, A: 255}
	colorPhoto     = color.NRGBA{R: 0x9C, G: 0xA3, B: 0xAF, A: 200}
	colorSelection = color.NRGBA{R: 0, G: 170, B: 255, A: 255}
	colorNameBox   = color.NRGBA{R: 255, G: 255, B: 255, A: 90}
	colorDistance  = color.NRGBA{R: 236, G: 72, B: 153, A: 255}
	guideColors    = map[snap.GuideType]color.NRGBA{
		snap.GuideCenter: {R: 0xF5, G: 0x9E, B: 0x0B, A: 255},
		snap.GuideEdge:   {R: 0x10, G: 0xB9, B: 0x81, A: 255},
		snap.GuideCross:  {R: 0x3B, G: 0x82, B: 0xF6, A: 255},
	}
)

// PosterCanvas shows the poster at view scale and forwards pointer input to
// the gesture controller. The canvas is drawn at the widget origin so pointer
// positions are view coordinates as the controller expects.
type PosterCanvas struct {
	widget.BaseWidget
	ed    *Editor
	hover snap.Corner
	// OnCommit runs after a gesture was written to the store.
	OnCommit func(gesture.Commit)
}

func NewPosterCanvas(ed *Editor) *PosterCanvas {
	p := &PosterCanvas{ed: ed}
	p.ExtendBaseWidget(p)
	return p
}

func toPoint(pos fyne.Position) gesture.Point {
	return gesture.Point{X: float64(pos.X), Y: float64(pos.Y)}
}

func (p *PosterCanvas) MouseDown(e *desktop.MouseEvent) {
	if e.Button != desktop.MouseButtonPrimary {
		return
	}
	p.ed.Controller.PointerDown(toPoint(e.Position))
	p.Refresh()
}

func (p *PosterCanvas) MouseUp(*desktop.MouseEvent) { p.finish() }

func (p *PosterCanvas) Dragged(e *fyne.DragEvent) {
	if p.ed.Controller.Mode() == gesture.Idle {
		return
	}
	p.ed.Controller.PointerMove(toPoint(e.Position))
	p.Refresh()
}

func (p *PosterCanvas) DragEnd() { p.finish() }

func (p *PosterCanvas) finish() {
	commit, ok := p.ed.Controller.PointerUp()
	if !ok {
		return
	}
	p.ed.Sync()
	if p.OnCommit != nil {
		p.OnCommit(commit)
	}
	p.Refresh()
}

func (p *PosterCanvas) MouseIn(e *desktop.MouseEvent) { p.MouseMoved(e) }

func (p *PosterCanvas) MouseMoved(e *desktop.MouseEvent) {
	p.hover = p.ed.Controller.Hover(toPoint(e.Position))
}

func (p *PosterCanvas) MouseOut() { p.hover = snap.CornerNone }

// Cursor shows a crosshair over photo corners while resizing is possible.
func (p *PosterCanvas) Cursor() desktop.Cursor {
	if p.hover != snap.CornerNone {
		return desktop.CrosshairCursor
	}
	return desktop.DefaultCursor
}

func (p *PosterCanvas) MinSize() fyne.Size {
	_, h := p.ed.Store.CanvasSize()
	s := pcanvas.ViewScale(pcanvas.Width, h)
	return fyne.NewSize(float32(pcanvas.Width*s), float32(h*s))
}

func (p *PosterCanvas) CreateRenderer() fyne.WidgetRenderer {
	r := &posterRenderer{
		pc:          p,
		backdrop:    canvas.NewRectangle(colorBackdrop),
		sheet:       canvas.NewRectangle(colorCanvas),
		bg:          &canvas.Image{FillMode: canvas.ImageFillStretch},
		photoCircle: canvas.NewCircle(colorPhoto),
		photoSquare: canvas.NewRectangle(colorPhoto),
		nameBox:     canvas.NewRectangle(color.Transparent),
		nameText:    canvas.NewText("", color.White),
		selection:   canvas.NewRectangle(color.Transparent),
	}
	r.nameBox.StrokeColor = colorNameBox
	r.nameBox.StrokeWidth = 1
	r.selection.StrokeColor = colorSelection
	r.selection.StrokeWidth = 2
	r.objects = []fyne.CanvasObject{r.backdrop, r.sheet, r.bg, r.photoCircle, r.photoSquare, r.nameBox, r.nameText, r.selection}
	for i := range r.handles {
		r.handles[i] = canvas.NewRectangle(colorSelection)
		r.objects = append(r.objects, r.handles[i])
	}
	for i := range r.guides {
		r.guides[i] = canvas.NewLine(color.Transparent)
		r.guides[i].StrokeWidth = 1
		r.objects = append(r.objects, r.guides[i])
	}
	for i := range r.distLines {
		r.distLines[i] = canvas.NewLine(colorDistance)
		r.distLines[i].StrokeWidth = 1
		r.distTexts[i] = canvas.NewText("", colorDistance)
		r.distTexts[i].TextSize = 11
		r.objects = append(r.objects, r.distLines[i], r.distTexts[i])
	}
	return r
}

type posterRenderer struct {
	pc          *PosterCanvas
	objects     []fyne.CanvasObject
	backdrop    *canvas.Rectangle
	sheet       *canvas.Rectangle
	bg          *canvas.Image
	bgPath      string
	photoCircle *canvas.Circle
	photoSquare *canvas.Rectangle
	nameBox     *canvas.Rectangle
	nameText    *canvas.Text
	selection   *canvas.Rectangle
	handles     [4]*canvas.Rectangle
	guides      [maxGuides]*canvas.Line
	distLines   [maxDistances]*canvas.Line
	distTexts   [maxDistances]*canvas.Text
}

func (r *posterRenderer) Destroy()                     {}
func (r *posterRenderer) Objects() []fyne.CanvasObject { return r.objects }
func (r *posterRenderer) MinSize() fyne.Size           { return r.pc.MinSize() }
func (r *posterRenderer) Refresh()                     { r.Layout(r.pc.Size()); canvas.Refresh(r.pc) }

func (r *posterRenderer) Layout(size fyne.Size) {
	ed := r.pc.ed
	_, h := ed.Store.CanvasSize()
	if size.Width > 0 {
		ed.Store.SetScale(pcanvas.ViewScale(float64(size.Width), h))
	}
	o := BuildOverlay(ed.Store, ed.Controller.Frame())
	s := ed.Session

	r.backdrop.Resize(size)
	r.backdrop.Move(fyne.NewPos(0, 0))
	place(r.sheet, o.Canvas)

	r.layoutBackground(s, o.Canvas)

	circle := s.Photo.Shape != domain.ShapeSquare
	photoFill := colorPhoto
	if !s.Photo.HasBackground {
		photoFill.A = 140
	}
	r.photoCircle.FillColor, r.photoSquare.FillColor = photoFill, photoFill
	sw := float32(s.Photo.StrokeWidth * o.Scale)
	sc := hexColor(s.Photo.StrokeColor, "#FFFFFF")
	r.photoCircle.StrokeWidth, r.photoCircle.StrokeColor = sw, sc
	r.photoSquare.StrokeWidth, r.photoSquare.StrokeColor = sw, sc
	r.photoSquare.CornerRadius = float32(s.Photo.CornerRadius * o.Scale)
	placeCircle(r.photoCircle, o.Image)
	place(r.photoSquare, o.Image)
	setVisible(r.photoCircle, circle)
	setVisible(r.photoSquare, !circle)

	place(r.nameBox, o.Name)
	r.layoutName(s, o)

	r.layoutSelection(o)

	for i, g := range r.guides {
		if i >= len(o.Guides) {
			g.Hide()
			continue
		}
		gl := o.Guides[i]
		g.StrokeColor = guideColors[gl.Type]
		g.Position1 = fyne.NewPos(gl.X1, gl.Y1)
		g.Position2 = fyne.NewPos(gl.X2, gl.Y2)
		g.Show()
		g.Refresh()
	}
	for i := range r.distLines {
		line, text := r.distLines[i], r.distTexts[i]
		if i >= len(o.Distances) {
			line.Hide()
			text.Hide()
			continue
		}
		d := o.Distances[i]
		line.Position1 = fyne.NewPos(d.X1, d.Y1)
		line.Position2 = fyne.NewPos(d.X2, d.Y2)
		text.Text = d.Text
		ts := text.MinSize()
		text.Resize(ts)
		text.Move(fyne.NewPos(d.LabelX-ts.Width/2, d.LabelY-ts.Height/2))
		line.Show()
		text.Show()
		line.Refresh()
		text.Refresh()
	}
}

func (r *posterRenderer) layoutBackground(s domain.Session, sheet ViewRect) {
	if s.Background == "" || s.MediaType == domain.MediaVideo || strings.HasPrefix(s.Background, "data:") {
		r.bg.Hide()
		return
	}
	if r.bgPath != s.Background {
		r.bgPath = s.Background
		r.bg.File = s.Background
		r.bg.Refresh()
	}
	place(r.bg, sheet)
	r.bg.Show()
}

func (r *posterRenderer) layoutName(s domain.Session, o Overlay) {
	t := r.nameText
	t.Text = s.UserName
	t.Color = hexColor(s.Text.Color, "#FFFFFF")
	t.TextSize = float32(s.Text.FontSize * o.Scale)
	t.TextStyle = fyne.TextStyle{Bold: s.Text.FontWeight >= 600}
	switch s.Text.Alignment {
	case domain.AlignLeft:
		t.Alignment = fyne.TextAlignLeading
	case domain.AlignRight:
		t.Alignment = fyne.TextAlignTrailing
	default:
		t.Alignment = fyne.TextAlignCenter
	}
	th := t.MinSize().Height
	t.Resize(fyne.NewSize(o.Name.W, th))
	t.Move(fyne.NewPos(o.Name.X, o.Name.Y+(o.Name.H-th)/2))
	t.Refresh()
}

func (r *posterRenderer) layoutSelection(o Overlay) {
	var sel ViewRect
	switch o.Selected {
	case gesture.LayerImage:
		sel = o.Image
	case gesture.LayerText:
		sel = o.Name
	default:
		r.selection.Hide()
		for _, h := range r.handles {
			h.Hide()
		}
		return
	}
	place(r.selection, sel)
	r.selection.Show()
	corners := [4]fyne.Position{
		fyne.NewPos(sel.X, sel.Y),
		fyne.NewPos(sel.X+sel.W, sel.Y),
		fyne.NewPos(sel.X, sel.Y+sel.H),
		fyne.NewPos(sel.X+sel.W, sel.Y+sel.H),
	}
	for i, h := range r.handles {
		if o.Selected != gesture.LayerImage || !r.pc.ed.Controller.Resizable() {
			h.Hide()
			continue
		}
		h.Resize(fyne.NewSize(handleSize, handleSize))
		h.Move(corners[i].SubtractXY(handleSize/2, handleSize/2))
		h.Show()
	}
}

func place(o fyne.CanvasObject, r ViewRect) {
	o.Resize(fyne.NewSize(r.W, r.H))
	o.Move(fyne.NewPos(r.X, r.Y))
}

func placeCircle(c *canvas.Circle, r ViewRect) {
	c.Position1 = fyne.NewPos(r.X, r.Y)
	c.Position2 = fyne.NewPos(r.X+r.W, r.Y+r.H)
	c.Refresh()
}

func setVisible(o fyne.CanvasObject, v bool) {
	if v {
		o.Show()
	} else {
		o.Hide()
	}
}

// hexColor converts loose hex input into an opaque color.
func hexColor(hex, fallback string) color.NRGBA {
	h := strings.TrimPrefix(export.NormalizeHex(hex, fallback), "#")
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.NRGBA{A: 255}
	}
	return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}
}
