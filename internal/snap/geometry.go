/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package snap

// Basic 2D geometry for the poster canvas. All values are canvas pixels.
// float64 is used throughout so snapped positions are exact for the
// half-pixel centers produced by odd widths.

import "math"

// Pt is a 2D point.
type Pt struct{ X, Y float64 }

// Rect is an axis-aligned rectangle defined by its top-left corner and size.
type Rect struct {
	X, Y float64
	W, H float64
}

func R(x, y, w, h float64) Rect { return Rect{X: x, Y: y, W: w, H: h} }

// Edges holds the six coordinates of a rect that take part in alignment.
type Edges struct {
	Left, Right float64
	Top, Bottom float64
	CX, CY      float64
}

func (r Rect) Edges() Edges {
	return Edges{
		Left:   r.X,
		Right:  r.X + r.W,
		Top:    r.Y,
		Bottom: r.Y + r.H,
		CX:     r.X + r.W/2,
		CY:     r.Y + r.H/2,
	}
}

func (r Rect) Contains(p Pt) bool {
	return p.X >= r.X && p.Y >= r.Y && p.X <= r.X+r.W && p.Y <= r.Y+r.H
}

// CircleToRect returns the bounding box of the photo placeholder.
func CircleToRect(x, y, diameter float64) Rect { return Rect{X: x, Y: y, W: diameter, H: diameter} }

// NameToRect returns the bounding box of the name placeholder.
func NameToRect(x, y, w, h float64) Rect { return Rect{X: x, Y: y, W: w, H: h} }

// Clamp limits v to [lo, hi]. When lo > hi the lower bound wins.
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// ClampPos keeps a w×h box inside a cw×ch canvas.
func ClampPos(x, y, w, h, cw, ch float64) (float64, float64) {
	return Clamp(x, 0, cw-w), Clamp(y, 0, ch-h)
}

// Round rounds half-way cases towards positive infinity, so -2.5 becomes -2
// and 2.5 becomes 3. Display values and committed geometry use it.
func Round(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	f := math.Floor(v)
	if v-f >= 0.5 {
		return f + 1
	}
	return f
}
