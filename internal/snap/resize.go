/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package snap

import (
	"math"
	"strings"
)

// Corner identifies the corner handle dragged during a resize.
type Corner int

const (
	CornerNone Corner = iota
	CornerTL
	CornerTR
	CornerBL
	CornerBR
)

func (c Corner) String() string {
	switch c {
	case CornerTL:
		return "tl"
	case CornerTR:
		return "tr"
	case CornerBL:
		return "bl"
	case CornerBR:
		return "br"
	default:
		return ""
	}
}

// ParseCorner accepts "tl", "tr", "bl" and "br" (case-insensitive).
func ParseCorner(s string) (Corner, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "tl":
		return CornerTL, true
	case "tr":
		return CornerTR, true
	case "bl":
		return CornerBL, true
	case "br":
		return CornerBR, true
	}
	return CornerNone, false
}

// anchorLeft reports whether the left edge stays fixed (br, tr).
func (c Corner) anchorLeft() bool { return c == CornerBR || c == CornerTR }

// anchorTop reports whether the top edge stays fixed (br, bl).
func (c Corner) anchorTop() bool { return c == CornerBR || c == CornerBL }

// Anchor returns the fixed corner of a square box at (x, y) with side d while
// corner c is dragged. Callers compute it once at gesture start.
func (c Corner) Anchor(x, y, d float64) Pt {
	a := Pt{X: x + d, Y: y + d}
	if c.anchorLeft() {
		a.X = x
	}
	if c.anchorTop() {
		a.Y = y
	}
	return a
}

// DeltaFor converts a pointer delta into a diameter change for corner c: the
// larger of the two outward-facing components.
func (c Corner) DeltaFor(dx, dy float64) float64 {
	switch c {
	case CornerBR:
		return math.Max(dx, dy)
	case CornerBL:
		return math.Max(-dx, dy)
	case CornerTR:
		return math.Max(dx, -dy)
	default:
		return math.Max(-dx, -dy)
	}
}

// ResizeInput carries one resize frame.
type ResizeInput struct {
	X, Y, Diameter   float64 // raw geometry implied by the pointer
	Corner           Corner
	Anchor           Pt // fixed corner for the whole gesture
	Others           []Rect
	CanvasW, CanvasH float64
	MinD, MaxD       float64
	Threshold        float64 // <= 0 selects DefaultThreshold
}

// ResizeResult is the (possibly snapped) geometry of a resize frame.
type ResizeResult struct {
	Diameter float64
	X, Y     float64
	Guides   []Guide
}

// resizeBest accumulates the single best resize candidate across both axes.
type resizeBest struct {
	d, x, y float64
	diff    float64
	guide   *Guide
}

func (b *resizeBest) offer(d, x, y, diff float64, g Guide) {
	if diff < b.diff {
		b.d, b.x, b.y, b.diff = d, x, y, diff
		b.guide = &g
	}
}

// ComputeResizeSnap snaps the center of a square placeholder being resized to
// the canvas center or a sibling's center while the anchor corner stays put.
//
// For every center target the diameter that would center the shape on it is
// derived from the anchor, clamped to [MinD, MaxD] and accepted when it lies
// within 2*threshold of the raw diameter. X targets are scanned before Y
// targets and share one best slot: a later candidate replaces the current one
// only when strictly closer, so at most one guide is returned. When the best
// diameter equals the raw one the raw geometry comes back without guides.
func ComputeResizeSnap(in ResizeInput) ResizeResult {
	threshold := in.Threshold
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	xTargets := make([]target, 0, 1+len(in.Others))
	yTargets := make([]target, 0, 1+len(in.Others))
	xTargets = append(xTargets, target{in.CanvasW / 2, GuideCenter})
	yTargets = append(yTargets, target{in.CanvasH / 2, GuideCenter})
	for _, o := range in.Others {
		oe := o.Edges()
		xTargets = append(xTargets, target{oe.CX, GuideCross})
		yTargets = append(yTargets, target{oe.CY, GuideCross})
	}

	c := in.Corner
	ax, ay := in.Anchor.X, in.Anchor.Y
	best := resizeBest{d: in.Diameter, x: in.X, y: in.Y, diff: math.Inf(1)}

	for _, t := range xTargets {
		var d float64
		if c.anchorLeft() {
			d = 2 * (t.value - ax)
		} else {
			d = 2 * (ax - t.value)
		}
		d = Clamp(d, in.MinD, in.MaxD)
		if d <= 0 {
			continue
		}
		x := ax
		if !c.anchorLeft() {
			x = ax - d
		}
		y := ay
		if !c.anchorTop() {
			y = ay - d
		}
		if diff := math.Abs(d - in.Diameter); diff < threshold*2 {
			best.offer(d, x, y, diff, Guide{Axis: AxisX, Position: t.value, Type: t.kind})
		}
	}
	for _, t := range yTargets {
		var d float64
		if c.anchorTop() {
			d = 2 * (t.value - ay)
		} else {
			d = 2 * (ay - t.value)
		}
		d = Clamp(d, in.MinD, in.MaxD)
		if d <= 0 {
			continue
		}
		y := ay
		if !c.anchorTop() {
			y = ay - d
		}
		x := ax
		if !c.anchorLeft() {
			x = ax - d
		}
		if diff := math.Abs(d - in.Diameter); diff < threshold*2 {
			best.offer(d, x, y, diff, Guide{Axis: AxisY, Position: t.value, Type: t.kind})
		}
	}

	if best.guide == nil || best.d == in.Diameter {
		return ResizeResult{Diameter: in.Diameter, X: in.X, Y: in.Y, Guides: []Guide{}}
	}
	return ResizeResult{Diameter: best.d, X: best.x, Y: best.y, Guides: []Guide{*best.guide}}
}
