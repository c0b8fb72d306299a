/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package snap

import "math"

// minVisibleGap is the smallest distance (exclusive) worth an indicator.
const minVisibleGap = 1.0

// DistanceIndicator is a measured gap along one axis. From/To are positions on
// Axis, Offset is the perpendicular coordinate to draw it at and Value the
// rounded pixel distance.
type DistanceIndicator struct {
	Axis   Axis    `json:"axis"`
	From   float64 `json:"from"`
	To     float64 `json:"to"`
	Offset float64 `json:"offset"`
	Value  float64 `json:"value"`
}

// ComputeDistances measures the moving rect against the four canvas edges and
// against each sibling it does not overlap. Gaps of 1px or less are dropped
// (tested on the unrounded value). A sibling gap is only reported when the two
// rects share some span on the perpendicular axis, which is where its offset
// is placed. The function is advisory and never changes geometry.
func ComputeDistances(moving Rect, others []Rect, canvasWidth, canvasHeight float64) []DistanceIndicator {
	me := moving.Edges()
	var out []DistanceIndicator

	left := me.Left
	right := canvasWidth - me.Right
	top := me.Top
	bottom := canvasHeight - me.Bottom

	if left > minVisibleGap {
		out = append(out, DistanceIndicator{Axis: AxisX, From: 0, To: me.Left, Offset: me.CY, Value: Round(left)})
	}
	if right > minVisibleGap {
		out = append(out, DistanceIndicator{Axis: AxisX, From: me.Right, To: canvasWidth, Offset: me.CY, Value: Round(right)})
	}
	if top > minVisibleGap {
		out = append(out, DistanceIndicator{Axis: AxisY, From: 0, To: me.Top, Offset: me.CX, Value: Round(top)})
	}
	if bottom > minVisibleGap {
		out = append(out, DistanceIndicator{Axis: AxisY, From: me.Bottom, To: canvasHeight, Offset: me.CX, Value: Round(bottom)})
	}

	for _, o := range others {
		oe := o.Edges()

		// vertical gap: one rect above the other
		if me.Bottom < oe.Top {
			if mid, ok := spanMid(me.Left, me.Right, oe.Left, oe.Right); ok && oe.Top-me.Bottom > minVisibleGap {
				out = append(out, DistanceIndicator{Axis: AxisY, From: me.Bottom, To: oe.Top, Offset: mid, Value: Round(oe.Top - me.Bottom)})
			}
		} else if oe.Bottom < me.Top {
			if mid, ok := spanMid(me.Left, me.Right, oe.Left, oe.Right); ok && me.Top-oe.Bottom > minVisibleGap {
				out = append(out, DistanceIndicator{Axis: AxisY, From: oe.Bottom, To: me.Top, Offset: mid, Value: Round(me.Top - oe.Bottom)})
			}
		}

		// horizontal gap: side by side
		if me.Right < oe.Left {
			if mid, ok := spanMid(me.Top, me.Bottom, oe.Top, oe.Bottom); ok && oe.Left-me.Right > minVisibleGap {
				out = append(out, DistanceIndicator{Axis: AxisX, From: me.Right, To: oe.Left, Offset: mid, Value: Round(oe.Left - me.Right)})
			}
		} else if oe.Right < me.Left {
			if mid, ok := spanMid(me.Top, me.Bottom, oe.Top, oe.Bottom); ok && me.Left-oe.Right > minVisibleGap {
				out = append(out, DistanceIndicator{Axis: AxisX, From: oe.Right, To: me.Left, Offset: mid, Value: Round(me.Left - oe.Right)})
			}
		}
	}
	return out
}

// spanMid returns the midpoint of the overlap of [a0,a1] and [b0,b1]. It fails
// for disjoint spans and for NaN input.
func spanMid(a0, a1, b0, b1 float64) (float64, bool) {
	lo := math.Max(a0, b0)
	hi := math.Min(a1, b1)
	mid := (lo + hi) / 2
	if math.IsNaN(mid) || lo > hi {
		return 0, false
	}
	return mid, true
}
