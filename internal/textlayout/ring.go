/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package textlayout

import (
	"math"
	"strconv"
)

// Offset is a 2D displacement in canvas px.
type Offset struct {
	DX, DY float64
}

// StrokeRing returns the offsets at which a hard-edged copy of the text is
// drawn to fake an outline of the given width: 24 points on a circle of
// radius width and, above 3px, 12 more at 60% radius to close gaps. Values
// are rounded to two decimals. A non-positive width yields no offsets.
func StrokeRing(width float64) []Offset {
	if width <= 0 {
		return []Offset{}
	}
	out := ring(width, 24, nil)
	if width > 3 {
		out = ring(width*0.6, 12, out)
	}
	return out
}

func ring(r float64, steps int, out []Offset) []Offset {
	for i := 0; i < steps; i++ {
		a := float64(i) / float64(steps) * 2 * math.Pi
		out = append(out, Offset{DX: fix2(r * math.Cos(a)), DY: fix2(r * math.Sin(a))})
	}
	return out
}

// fix2 rounds to two decimals and folds negative zero into zero.
func fix2(v float64) float64 {
	r, _ := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 2, 64), 64)
	if r == 0 {
		return 0
	}
	return r
}
