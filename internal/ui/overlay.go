/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package ui

import (
	"strconv"

	"posterstudio/internal/gesture"
	"posterstudio/internal/snap"
)

// ViewRect is a rectangle in view pixels.
type ViewRect struct{ X, Y, W, H float32 }

// ViewLine is a segment in view pixels.
type ViewLine struct{ X1, Y1, X2, Y2 float32 }

// GuideLine is an alignment guide spanning the whole canvas.
type GuideLine struct {
	ViewLine
	Type snap.GuideType
}

// DistanceLabel is a measured gap with its label anchored at the midpoint.
type DistanceLabel struct {
	ViewLine
	LabelX, LabelY float32
	Text           string
}

// Overlay is what the canvas widget draws for one state of the editor. The
// photo and name rects follow the live geometry while a gesture runs.
type Overlay struct {
	Scale     float64
	Canvas    ViewRect
	Image     ViewRect
	Name      ViewRect
	Selected  gesture.Layer
	Guides    []GuideLine
	Distances []DistanceLabel
}

// BuildOverlay converts store state and the current gesture frame into view
// coordinates.
func BuildOverlay(st *gesture.Store, f gesture.Frame) Overlay {
	s := st.Scale()
	cw, ch := st.CanvasSize()
	img := st.Image()
	name := st.Name()
	v := func(x float64) float32 { return float32(x * s) }

	o := Overlay{
		Scale:    s,
		Canvas:   ViewRect{W: v(cw), H: v(ch)},
		Image:    ViewRect{X: v(img.X), Y: v(img.Y), W: v(img.Diameter), H: v(img.Diameter)},
		Name:     ViewRect{X: v(name.X), Y: v(name.Y), W: v(name.Width), H: v(name.Height)},
		Selected: st.Selected(),
	}
	if f.Mode != gesture.Idle {
		live := ViewRect{X: v(f.Live.X), Y: v(f.Live.Y), W: v(f.Live.Width), H: v(f.Live.Height)}
		switch f.Layer {
		case gesture.LayerImage:
			o.Image = live
		case gesture.LayerText:
			o.Name = live
		}
	}
	for _, g := range f.Guides {
		p := v(g.Position)
		line := ViewLine{X1: p, Y1: 0, X2: p, Y2: o.Canvas.H}
		if g.Axis == snap.AxisY {
			line = ViewLine{X1: 0, Y1: p, X2: o.Canvas.W, Y2: p}
		}
		o.Guides = append(o.Guides, GuideLine{ViewLine: line, Type: g.Type})
	}
	for _, d := range f.Distances {
		from, to, off := v(d.From), v(d.To), v(d.Offset)
		line := ViewLine{X1: from, Y1: off, X2: to, Y2: off}
		if d.Axis == snap.AxisY {
			line = ViewLine{X1: off, Y1: from, X2: off, Y2: to}
		}
		o.Distances = append(o.Distances, DistanceLabel{
			ViewLine: line,
			LabelX:   (line.X1 + line.X2) / 2,
			LabelY:   (line.Y1 + line.Y2) / 2,
			Text:     strconv.FormatFloat(d.Value, 'f', -1, 64) + "px",
		})
	}
	return o
}

// KeyFor maps a toolkit key name ("Up", "Escape", ...) to a gesture key.
func KeyFor(name string) gesture.Key {
	switch name {
	case "Up":
		return gesture.KeyUp
	case "Down":
		return gesture.KeyDown
	case "Left":
		return gesture.KeyLeft
	case "Right":
		return gesture.KeyRight
	case "Escape":
		return gesture.KeyEscape
	}
	return gesture.KeyUnknown
}
