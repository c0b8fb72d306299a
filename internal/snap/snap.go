/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package snap computes snapping, resize snapping and distance indicators for
// the poster editor. The functions are UI-agnostic, deterministic and total
// over finite input so they can be unit tested and driven from any frontend.
package snap

import "math"

const (
	// DefaultThreshold is the snap distance in canvas pixels.
	DefaultThreshold = 5.0
	// KeyboardStep and KeyboardShiftStep are the arrow-key nudge distances.
	KeyboardStep      = 1.0
	KeyboardShiftStep = 8.0
)

// Axis names the coordinate a guide or indicator refers to.
// For guides, AxisX is a vertical line at x=Position; AxisY a horizontal one.
type Axis string

const (
	AxisX Axis = "x"
	AxisY Axis = "y"
)

// GuideType tells what a snapped shape aligned with: the canvas bounds
// ("edge"), the canvas center ("center") or a sibling shape ("cross").
type GuideType string

const (
	GuideCenter GuideType = "center"
	GuideEdge   GuideType = "edge"
	GuideCross  GuideType = "cross"
)

// Guide is one active alignment line.
type Guide struct {
	Axis     Axis      `json:"axis"`
	Position float64   `json:"position"`
	Type     GuideType `json:"type"`
}

// Result is the outcome of a translate snap.
type Result struct {
	X, Y   float64
	Guides []Guide
}

type target struct {
	value float64
	kind  GuideType
}

// ComputeSnap pulls a moving rect onto the nearest alignment line per axis.
//
// X targets are canvas left, right and center followed by every sibling's
// left, right and center (Y is symmetric). Each target is compared against the
// moving rect's own three points in order; the smallest |diff| strictly below
// threshold wins and ties keep the first pair found. X and Y are independent,
// so the result carries zero, one or two guides. A threshold <= 0 selects
// DefaultThreshold.
func ComputeSnap(moving Rect, others []Rect, canvasWidth, canvasHeight, threshold float64) Result {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	me := moving.Edges()

	xTargets := make([]target, 0, 3+3*len(others))
	xTargets = append(xTargets,
		target{0, GuideEdge},
		target{canvasWidth, GuideEdge},
		target{canvasWidth / 2, GuideCenter},
	)
	yTargets := make([]target, 0, 3+3*len(others))
	yTargets = append(yTargets,
		target{0, GuideEdge},
		target{canvasHeight, GuideEdge},
		target{canvasHeight / 2, GuideCenter},
	)
	for _, o := range others {
		oe := o.Edges()
		xTargets = append(xTargets, target{oe.Left, GuideCross}, target{oe.Right, GuideCross}, target{oe.CX, GuideCross})
		yTargets = append(yTargets, target{oe.Top, GuideCross}, target{oe.Bottom, GuideCross}, target{oe.CY, GuideCross})
	}

	res := Result{X: moving.X, Y: moving.Y}
	if dx, t, ok := bestAlignment(xTargets, [3]float64{me.Left, me.Right, me.CX}, threshold); ok {
		res.X = moving.X + dx
		res.Guides = append(res.Guides, Guide{Axis: AxisX, Position: t.value, Type: t.kind})
	}
	if dy, t, ok := bestAlignment(yTargets, [3]float64{me.Top, me.Bottom, me.CY}, threshold); ok {
		res.Y = moving.Y + dy
		res.Guides = append(res.Guides, Guide{Axis: AxisY, Position: t.value, Type: t.kind})
	}
	return res
}

// bestAlignment scans targets × own points and returns the signed shift that
// lands the closest own point on its target.
func bestAlignment(targets []target, own [3]float64, threshold float64) (float64, target, bool) {
	best := math.Inf(1)
	var bestT target
	found := false
	for _, t := range targets {
		for _, v := range own {
			diff := t.value - v
			if math.Abs(diff) < threshold && math.Abs(diff) < math.Abs(best) {
				best = diff
				bestT = t
				found = true
			}
		}
	}
	return best, bestT, found
}
