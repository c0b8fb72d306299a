/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package textlayout

import "testing"

func TestStrokeRingCounts(t *testing.T) {
	if got := StrokeRing(0); len(got) != 0 {
		t.Fatalf("width 0: expected no offsets, got %d", len(got))
	}
	if got := StrokeRing(3); len(got) != 24 {
		t.Fatalf("width 3: expected 24 offsets, got %d", len(got))
	}
	if got := StrokeRing(4); len(got) != 36 {
		t.Fatalf("width 4: expected 36 offsets, got %d", len(got))
	}
}

func TestStrokeRingValues(t *testing.T) {
	r := StrokeRing(2)
	if r[0] != (Offset{DX: 2, DY: 0}) {
		t.Fatalf("first offset = %+v", r[0])
	}
	// 90 degrees
	if r[6] != (Offset{DX: 0, DY: 2}) {
		t.Fatalf("quarter offset = %+v", r[6])
	}
	// 15 degrees: 2*cos = 1.9318..., 2*sin = 0.5176...
	if r[1] != (Offset{DX: 1.93, DY: 0.52}) {
		t.Fatalf("15 degree offset = %+v", r[1])
	}
	inner := StrokeRing(5)[24]
	if inner != (Offset{DX: 3, DY: 0}) {
		t.Fatalf("inner ring start = %+v", inner)
	}
}
