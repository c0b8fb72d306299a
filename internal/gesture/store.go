/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */
package gesture

import (
	"encoding/json"
	"math"
	"time"

	"posterstudio/internal/domain"
	"posterstudio/internal/snap"
	"posterstudio/internal/undo"
)

// Layer identifies one of the two placeholders.
type Layer int

const (
	LayerNone Layer = iota
	LayerImage
	LayerText
)

func (l Layer) String() string {
	switch l {
	case LayerImage:
		return "image"
	case LayerText:
		return "text"
	default:
		return "none"
	}
}

// Default diameter limits for the photo placeholder.
const (
	DefaultMinDiameter = 100
	DefaultMaxDiameter = 600
)

// DefaultUndoLimit is the per-layer undo depth.
const DefaultUndoLimit = 100

// Change describes a committed state change delivered to observers.
type Change struct {
	Layer     Layer  // LayerNone for selection-only or canvas changes
	Reason    string // "move", "resize", "nudge", "canvas", "style", "select", "undo", "redo", "set"
	Image     domain.ImagePlaceholder
	Name      domain.NamePlaceholder
	Selection Layer
}

// Store is the authoritative editor state shared by the controller and the
// host. It holds the committed placeholders, the canvas bounds, the current
// view scale and the selection. Readers always see the latest values, so a
// canvas resize between gesture frames is picked up on the next frame.
//
// A Store is not safe for concurrent use; drive it from the UI event loop.
type Store struct {
	canvasW, canvasH float64
	scale            float64
	image            domain.ImagePlaceholder
	name             domain.NamePlaceholder
	selected         Layer
	minD, maxD       float64

	history   *undo.Manager
	observers []func(Change)
	now       func() time.Time
}

// NewStore seeds a store from a session document.
func NewStore(s domain.Session) *Store {
	h := s.CanvasHeight
	if h <= 0 {
		h = 1350
	}
	return &Store{
		canvasW: domain.CanvasWidth,
		canvasH: h,
		scale:   1,
		image:   s.Image,
		name:    s.Name,
		minD:    DefaultMinDiameter,
		maxD:    DefaultMaxDiameter,
		history: undo.NewManager(undo.Config{
			MaxPerLayer:    DefaultUndoLimit,
			MinInterval:    600 * time.Millisecond,
			CoalesceLabels: []string{"nudge"},
		}),
		now:     time.Now,
	}
}

// OnChange registers an observer. Observers are called synchronously after
// every committed change, in registration order.
func (s *Store) OnChange(fn func(Change)) {
	if fn != nil {
		s.observers = append(s.observers, fn)
	}
}

func (s *Store) notify(l Layer, reason string) {
	c := Change{Layer: l, Reason: reason, Image: s.image, Name: s.name, Selection: s.selected}
	for _, fn := range s.observers {
		fn(c)
	}
}

func (s *Store) CanvasSize() (w, h float64) { return s.canvasW, s.canvasH }
func (s *Store) Image() domain.ImagePlaceholder { return s.image }
func (s *Store) Name() domain.NamePlaceholder { return s.name }
func (s *Store) Selected() Layer { return s.selected }
func (s *Store) DiameterLimits() (min, max float64) { return s.minD, s.maxD }

// Scale returns the view-to-canvas factor; a zero or invalid scale reads as 1.
func (s *Store) Scale() float64 {
	if s.scale <= 0 || math.IsNaN(s.scale) || math.IsInf(s.scale, 0) {
		return 1
	}
	return s.scale
}

// SetScale updates the view scale. It is not an undoable change.
func (s *Store) SetScale(scale float64) { s.scale = scale }

// SetDiameterLimits changes the photo diameter range.
func (s *Store) SetDiameterLimits(min, max float64) {
	s.minD, s.maxD = min, max
}

// SetCanvasHeight switches the canvas format. Placeholders that would stick
// out of the new bottom edge are pulled up, and the name is re-centred.
func (s *Store) SetCanvasHeight(h float64) {
	s.canvasH = h
	if maxY := h - s.image.Diameter; s.image.Y > maxY {
		s.image.Y = math.Max(0, maxY)
	}
	s.name.X = domain.CenteredX(s.name.Width)
	if maxY := h - s.name.Height; s.name.Y > maxY {
		s.name.Y = math.Max(0, maxY)
	}
	s.notify(LayerNone, "canvas")
}

// SetNameWidthPercent derives the name width from a percentage of the canvas
// width and keeps the box centred.
func (s *Store) SetNameWidthPercent(p float64) {
	w := snap.Round(s.canvasW * p / 100)
	s.name.Width = w
	s.name.X = domain.CenteredX(w)
	s.notify(LayerText, "style")
}

// SetUndoLimit caps the undo history of each layer; n <= 0 means unlimited.
func (s *Store) SetUndoLimit(n int) { s.history.SetMaxPerLayer(n) }

// SetImage and SetName replace a placeholder without recording history.
func (s *Store) SetImage(p domain.ImagePlaceholder) {
	s.image = p
	s.notify(LayerImage, "set")
}

func (s *Store) SetName(p domain.NamePlaceholder) {
	s.name = p
	s.notify(LayerText, "set")
}

// Select marks a layer as selected. Selecting LayerNone clears the selection.
func (s *Store) Select(l Layer) {
	if s.selected == l {
		return
	}
	s.selected = l
	s.notify(LayerNone, "select")
}

func (s *Store) ClearSelection() { s.Select(LayerNone) }

// Rects returns the bounding boxes of both committed placeholders.
func (s *Store) Rects() (image, name snap.Rect) {
	return snap.CircleToRect(s.image.X, s.image.Y, s.image.Diameter),
		snap.NameToRect(s.name.X, s.name.Y, s.name.Width, s.name.Height)
}

// sibling returns the committed rect of the layer that is not l.
func (s *Store) sibling(l Layer) []snap.Rect {
	img, name := s.Rects()
	if l == LayerImage {
		return []snap.Rect{name}
	}
	return []snap.Rect{img}
}

// commitImage writes a new photo placeholder and records the previous one.
func (s *Store) commitImage(p domain.ImagePlaceholder, reason string) {
	if p == s.image {
		return
	}
	s.record(LayerImage, reason)
	s.image = p
	s.notify(LayerImage, reason)
}

func (s *Store) commitName(p domain.NamePlaceholder, reason string) {
	if p == s.name {
		return
	}
	s.record(LayerText, reason)
	s.name = p
	s.notify(LayerText, reason)
}

func (s *Store) record(l Layer, reason string) {
	s.history.Push(undo.Snapshot{Layer: l.String(), Label: reason, Blob: s.blob(l), TS: s.now()})
}

func (s *Store) blob(l Layer) []byte {
	var v any = s.image
	if l == LayerText {
		v = s.name
	}
	b, _ := json.Marshal(v)
	return b
}

func (s *Store) restore(l Layer, b []byte) bool {
	switch l {
	case LayerImage:
		var p domain.ImagePlaceholder
		if json.Unmarshal(b, &p) != nil {
			return false
		}
		s.image = p
	case LayerText:
		var p domain.NamePlaceholder
		if json.Unmarshal(b, &p) != nil {
			return false
		}
		s.name = p
	default:
		return false
	}
	return true
}

// Undo reverts the last committed change of the selected layer.
func (s *Store) Undo() bool {
	l := s.selected
	if l == LayerNone {
		return false
	}
	snapshot, ok := s.history.Undo(l.String(), s.blob(l))
	if !ok || !s.restore(l, snapshot.Blob) {
		return false
	}
	s.notify(l, "undo")
	return true
}

// Redo re-applies the last undone change of the selected layer.
func (s *Store) Redo() bool {
	l := s.selected
	if l == LayerNone {
		return false
	}
	snapshot, ok := s.history.Redo(l.String(), s.blob(l))
	if !ok || !s.restore(l, snapshot.Blob) {
		return false
	}
	s.notify(l, "redo")
	return true
}

// Apply copies the committed geometry and canvas height into a session.
func (s *Store) Apply(sess *domain.Session) {
	sess.CanvasHeight = s.canvasH
	sess.Image = s.image
	sess.Name = s.name
}
