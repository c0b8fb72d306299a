/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */
// Package gesture turns pointer and keyboard input into placeholder geometry.
//
// A Controller drives one gesture at a time through the states
// Idle -> Moving|Resizing -> Idle. While a gesture runs it keeps live,
// uncommitted geometry and recomputes snapping and distance indicators on
// every pointer move; on release the rounded live geometry is committed to the
// Store.
package gesture

import (
	"log/slog"

	"posterstudio/internal/domain"
	applog "posterstudio/internal/log"
	"posterstudio/internal/snap"
)

// Mode is the controller state.
type Mode int

const (
	Idle Mode = iota
	Moving
	Resizing
)

func (m Mode) String() string {
	switch m {
	case Moving:
		return "moving"
	case Resizing:
		return "resizing"
	default:
		return "idle"
	}
}

// Point is a pointer position in view pixels relative to the canvas origin.
type Point struct{ X, Y float64 }

// Options tune the controller.
type Options struct {
	Threshold     float64 // snap distance in canvas px; <= 0 uses snap.DefaultThreshold
	Step          float64 // arrow key nudge in canvas px
	ShiftStep     float64 // arrow key nudge with Shift held
	CornerHitSize float64 // corner zone size in view px
	// Resizable enables corner resizing of the photo placeholder.
	Resizable bool
}

func DefaultOptions() Options {
	return Options{
		Threshold:     snap.DefaultThreshold,
		Step:          snap.KeyboardStep,
		ShiftStep:     snap.KeyboardShiftStep,
		CornerHitSize: 18,
		Resizable:     true,
	}
}

// Live is the uncommitted geometry of the shape under the pointer. For the
// photo Width and Height equal Diameter.
type Live struct {
	X, Y          float64
	Diameter      float64
	Width, Height float64
}

// Frame is everything a renderer needs for the current gesture frame. Guides
// and Distances are transient and empty once the gesture ends.
type Frame struct {
	Layer     Layer
	Mode      Mode
	Live      Live
	Guides    []snap.Guide
	DragRect  *snap.Rect
	Distances []snap.DistanceIndicator
}

// Commit is the rounded geometry written to the store on release.
type Commit struct {
	Layer Layer
	Image domain.ImagePlaceholder
	Name  domain.NamePlaceholder
}

// gestureStart is captured on pointer down and fixed for the whole gesture.
type gestureStart struct {
	pointer Point
	x, y    float64
	d       float64
	w, h    float64
	anchor  snap.Pt
}

// Controller is the pointer/keyboard state machine. It holds a reference to
// the Store and reads bounds, scale and sibling geometry from it on every call.
type Controller struct {
	store  *Store
	opts   Options
	log    *slog.Logger
	mode   Mode
	layer  Layer
	corner snap.Corner
	start  gestureStart
	frame  Frame
}

func NewController(store *Store, opts Options) *Controller {
	d := DefaultOptions()
	if opts.Step <= 0 {
		opts.Step = d.Step
	}
	if opts.ShiftStep <= 0 {
		opts.ShiftStep = d.ShiftStep
	}
	if opts.CornerHitSize <= 0 {
		opts.CornerHitSize = d.CornerHitSize
	}
	return &Controller{store: store, opts: opts, log: applog.WithComponent("gesture")}
}

func (c *Controller) Mode() Mode          { return c.mode }
func (c *Controller) Layer() Layer        { return c.layer }
func (c *Controller) Corner() snap.Corner { return c.corner }
func (c *Controller) Live() Live          { return c.frame.Live }
func (c *Controller) Frame() Frame        { return c.frame }
func (c *Controller) Store() *Store       { return c.store }

// Resizable reports whether photo corners start a resize.
func (c *Controller) Resizable() bool { return c.opts.Resizable }

// HitTest finds the layer under p. The name box is drawn above the photo and
// wins where they overlap. For the photo the corner zone under p is returned
// too when resizing is enabled.
func (c *Controller) HitTest(p Point) (Layer, snap.Corner) {
	s := c.store.Scale()
	img := c.store.Image()
	name := c.store.Name()

	nameView := snap.R(name.X*s, name.Y*s, name.Width*s, name.Height*s)
	if nameView.Contains(snap.Pt{X: p.X, Y: p.Y}) {
		return LayerText, snap.CornerNone
	}
	box := img.Diameter * s
	imgView := snap.R(img.X*s, img.Y*s, box, box)
	if !imgView.Contains(snap.Pt{X: p.X, Y: p.Y}) {
		return LayerNone, snap.CornerNone
	}
	if !c.opts.Resizable {
		return LayerImage, snap.CornerNone
	}
	return LayerImage, cornerAt(p.X-imgView.X, p.Y-imgView.Y, box, box, c.opts.CornerHitSize)
}

// cornerAt classifies a point local to a w x h box into a corner zone.
func cornerAt(lx, ly, w, h, hit float64) snap.Corner {
	left := lx < hit
	right := lx > w-hit
	top := ly < hit
	bottom := ly > h-hit
	switch {
	case top && left:
		return snap.CornerTL
	case top && right:
		return snap.CornerTR
	case bottom && left:
		return snap.CornerBL
	case bottom && right:
		return snap.CornerBR
	}
	return snap.CornerNone
}

// Hover returns the photo corner under p while idle, for cursor feedback.
func (c *Controller) Hover(p Point) snap.Corner {
	if c.mode != Idle {
		return c.corner
	}
	l, corner := c.HitTest(p)
	if l != LayerImage {
		return snap.CornerNone
	}
	return corner
}

// Cursor names the pointer cursor for a corner: diagonal resize arrows on the
// corners and a grab hand elsewhere.
func Cursor(corner snap.Corner) string {
	switch corner {
	case snap.CornerTL, snap.CornerBR:
		return "nwse-resize"
	case snap.CornerTR, snap.CornerBL:
		return "nesw-resize"
	}
	return "grab"
}

// PointerDown starts a gesture on the layer under p and selects it. A press on
// the empty canvas clears the selection and starts nothing.
func (c *Controller) PointerDown(p Point) Layer {
	if c.mode != Idle {
		return c.layer
	}
	l, corner := c.HitTest(p)
	if l == LayerNone {
		c.store.ClearSelection()
		return LayerNone
	}
	c.store.Select(l)
	c.layer = l
	c.corner = corner
	c.start = gestureStart{pointer: p}

	switch l {
	case LayerImage:
		img := c.store.Image()
		c.start.x, c.start.y, c.start.d = img.X, img.Y, img.Diameter
		c.start.w, c.start.h = img.Diameter, img.Diameter
	case LayerText:
		name := c.store.Name()
		c.start.x, c.start.y = name.X, name.Y
		c.start.d = name.Height
		c.start.w, c.start.h = name.Width, name.Height
	}
	if corner != snap.CornerNone {
		c.mode = Resizing
		c.start.anchor = corner.Anchor(c.start.x, c.start.y, c.start.d)
	} else {
		c.mode = Moving
	}
	c.frame = Frame{
		Layer: l,
		Mode:  c.mode,
		Live:  Live{X: c.start.x, Y: c.start.y, Diameter: c.start.d, Width: c.start.w, Height: c.start.h},
	}
	c.log.Debug("gesture start", slog.String("layer", l.String()), slog.String("mode", c.mode.String()), slog.String("corner", corner.String()))
	return l
}

// PointerMove advances the running gesture to pointer p and returns the new
// frame. While idle it returns an empty frame.
func (c *Controller) PointerMove(p Point) Frame {
	if c.mode == Idle {
		return Frame{}
	}
	scale := c.store.Scale()
	cw, ch := c.store.CanvasSize()
	others := c.store.sibling(c.layer)
	dx := (p.X - c.start.pointer.X) / scale
	dy := (p.Y - c.start.pointer.Y) / scale

	var live Live
	var guides []snap.Guide
	switch {
	case c.layer == LayerText:
		live, guides = c.moveText(dy, others, cw, ch)
	case c.mode == Resizing:
		live, guides = c.resizeImage(dx, dy, others, cw, ch)
	default:
		live, guides = c.moveImage(dx, dy, others, cw, ch)
	}
	if guides == nil {
		guides = []snap.Guide{}
	}
	rect := snap.R(live.X, live.Y, live.Width, live.Height)
	c.frame = Frame{
		Layer:     c.layer,
		Mode:      c.mode,
		Live:      live,
		Guides:    guides,
		DragRect:  &rect,
		Distances: snap.ComputeDistances(rect, others, cw, ch),
	}
	return c.frame
}

// moveImage: clamp, snap against the canvas and the name box, clamp again.
func (c *Controller) moveImage(dx, dy float64, others []snap.Rect, cw, ch float64) (Live, []snap.Guide) {
	d := c.start.d
	x, y := snap.ClampPos(c.start.x+dx, c.start.y+dy, d, d, cw, ch)
	res := snap.ComputeSnap(snap.CircleToRect(x, y, d), others, cw, ch, c.opts.Threshold)
	x, y = snap.ClampPos(res.X, res.Y, d, d, cw, ch)
	return Live{X: x, Y: y, Diameter: d, Width: d, Height: d}, res.Guides
}

// resizeImage grows or shrinks the photo from the dragged corner while the
// opposite corner stays fixed, then tries to snap its center.
func (c *Controller) resizeImage(dx, dy float64, others []snap.Rect, cw, ch float64) (Live, []snap.Guide) {
	minD, maxD := c.store.DiameterLimits()
	d := snap.Clamp(c.start.d+c.corner.DeltaFor(dx, dy), minD, maxD)
	grown := d - c.start.d
	x, y := c.start.x, c.start.y
	switch c.corner {
	case snap.CornerTL:
		x -= grown
		y -= grown
	case snap.CornerTR:
		y -= grown
	case snap.CornerBL:
		x -= grown
	}
	x, y = snap.ClampPos(x, y, d, d, cw, ch)

	res := snap.ComputeResizeSnap(snap.ResizeInput{
		X: x, Y: y, Diameter: d,
		Corner:    c.corner,
		Anchor:    c.start.anchor,
		Others:    others,
		CanvasW:   cw,
		CanvasH:   ch,
		MinD:      minD,
		MaxD:      maxD,
		Threshold: c.opts.Threshold,
	})
	if len(res.Guides) > 0 {
		sx, sy := snap.ClampPos(res.X, res.Y, res.Diameter, res.Diameter, cw, ch)
		return Live{X: sx, Y: sy, Diameter: res.Diameter, Width: res.Diameter, Height: res.Diameter}, res.Guides
	}
	return Live{X: x, Y: y, Diameter: d, Width: d, Height: d}, nil
}

// moveText moves the name box vertically; X stays locked to its start value.
func (c *Controller) moveText(dy float64, others []snap.Rect, cw, ch float64) (Live, []snap.Guide) {
	w, h := c.start.w, c.start.h
	x := c.start.x
	_, y := snap.ClampPos(x, c.start.y+dy, w, h, cw, ch)
	res := snap.ComputeSnap(snap.NameToRect(x, y, w, h), others, cw, ch, c.opts.Threshold)
	_, y = snap.ClampPos(x, res.Y, w, h, cw, ch)
	return Live{X: x, Y: y, Diameter: h, Width: w, Height: h}, res.Guides
}

// PointerUp ends the gesture: the live geometry is rounded and committed, the
// guides and drag rect are cleared and the selection is kept. It reports false
// when no gesture was running.
func (c *Controller) PointerUp() (Commit, bool) {
	if c.mode == Idle {
		return Commit{}, false
	}
	live := c.frame.Live
	commit := Commit{Layer: c.layer}
	reason := "move"
	if c.mode == Resizing {
		reason = "resize"
	}
	// rounding x and size independently can overshoot the far edge by 1px
	cw, ch := c.store.CanvasSize()
	switch c.layer {
	case LayerImage:
		d := snap.Round(live.Diameter)
		x, y := snap.ClampPos(snap.Round(live.X), snap.Round(live.Y), d, d, cw, ch)
		commit.Image = domain.ImagePlaceholder{X: x, Y: y, Diameter: d}
		c.store.commitImage(commit.Image, reason)
	case LayerText:
		name := c.store.Name()
		name.X, name.Y = snap.ClampPos(snap.Round(live.X), snap.Round(live.Y), name.Width, name.Height, cw, ch)
		commit.Name = name
		c.store.commitName(name, reason)
	}
	c.log.Debug("gesture commit", slog.String("layer", c.layer.String()), slog.String("reason", reason),
		slog.Float64("x", snap.Round(live.X)), slog.Float64("y", snap.Round(live.Y)), slog.Float64("diameter", snap.Round(live.Diameter)))
	c.reset()
	return commit, true
}

// Cancel abandons the running gesture without committing.
func (c *Controller) Cancel() {
	if c.mode != Idle {
		c.log.Debug("gesture cancelled", slog.String("layer", c.layer.String()))
	}
	c.reset()
}

func (c *Controller) reset() {
	c.mode = Idle
	c.layer = LayerNone
	c.corner = snap.CornerNone
	c.start = gestureStart{}
	c.frame = Frame{}
}
