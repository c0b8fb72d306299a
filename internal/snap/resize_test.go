/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */
package snap

import "testing"

func TestComputeResizeSnap_NothingInRangeReturnsRaw(t *testing.T) {
	in := ResizeInput{
		X: 100, Y: 100, Diameter: 300,
		Corner: CornerBR, Anchor: Pt{X: 100, Y: 100},
		CanvasW: 1080, CanvasH: 1350,
		MinD: 100, MaxD: 600,
	}
	res := ComputeResizeSnap(in)
	if res.Diameter != 300 || res.X != 100 || res.Y != 100 {
		t.Fatalf("expected raw geometry, got %+v", res)
	}
	if len(res.Guides) != 0 {
		t.Fatalf("expected no guides, got %+v", res.Guides)
	}
}

func TestComputeResizeSnap_AnchorInvariance(t *testing.T) {
	cases := []struct {
		name    string
		corner  Corner
		anchor  Pt
		rawD    float64
		wantD   float64
		wantX   float64
		wantY   float64
		canvasH float64
	}{
		{"br", CornerBR, Pt{100, 100}, 876, 880, 100, 100, 1350},
		{"tr", CornerTR, Pt{100, 900}, 876, 880, 100, 20, 1350},
		{"bl", CornerBL, Pt{980, 100}, 876, 880, 100, 100, 1350},
		{"tl", CornerTL, Pt{700, 700}, 318, 320, 380, 380, 1350},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			a := c.anchor
			x, y := a.X, a.Y
			if c.corner == CornerTL || c.corner == CornerBL {
				x = a.X - c.rawD
			}
			if c.corner == CornerTL || c.corner == CornerTR {
				y = a.Y - c.rawD
			}
			res := ComputeResizeSnap(ResizeInput{
				X: x, Y: y, Diameter: c.rawD,
				Corner: c.corner, Anchor: a,
				CanvasW: 1080, CanvasH: c.canvasH,
				MinD: 100, MaxD: 1000,
			})
			if res.Diameter != c.wantD || res.X != c.wantX || res.Y != c.wantY {
				t.Fatalf("got d=%v x=%v y=%v, want d=%v x=%v y=%v", res.Diameter, res.X, res.Y, c.wantD, c.wantX, c.wantY)
			}
			if len(res.Guides) != 1 || res.Guides[0] != (Guide{Axis: AxisX, Position: 540, Type: GuideCenter}) {
				t.Fatalf("expected canvas center x guide, got %+v", res.Guides)
			}
			// the fixed corner of the result must still be the anchor
			got := c.corner.Anchor(res.X, res.Y, res.Diameter)
			if got != a {
				t.Fatalf("anchor moved: got %+v, want %+v", got, a)
			}
		})
	}
}

func TestComputeResizeSnap_SingleGuideWhenBothAxesMatch(t *testing.T) {
	in := ResizeInput{
		X: 100, Y: 100, Diameter: 878,
		Corner: CornerBR, Anchor: Pt{X: 100, Y: 100},
		CanvasW: 1080, CanvasH: 1080,
		MinD: 100, MaxD: 1000,
	}
	res := ComputeResizeSnap(in)
	if len(res.Guides) != 1 {
		t.Fatalf("expected exactly one guide, got %+v", res.Guides)
	}
	// equal deltas on both axes: the X candidate was found first and is kept
	if res.Guides[0].Axis != AxisX || res.Diameter != 880 {
		t.Fatalf("expected x guide with d=880, got %+v d=%v", res.Guides[0], res.Diameter)
	}
}

func TestComputeResizeSnap_StrictlyBetterYReplacesX(t *testing.T) {
	in := ResizeInput{
		X: 100, Y: 100, Diameter: 883,
		Corner: CornerBR, Anchor: Pt{X: 100, Y: 100},
		CanvasW: 1080, CanvasH: 1084,
		MinD: 100, MaxD: 1000,
	}
	res := ComputeResizeSnap(in)
	if len(res.Guides) != 1 || res.Guides[0] != (Guide{Axis: AxisY, Position: 542, Type: GuideCenter}) {
		t.Fatalf("expected y guide at 542, got %+v", res.Guides)
	}
	if res.Diameter != 884 || res.X != 100 || res.Y != 100 {
		t.Fatalf("unexpected geometry %+v", res)
	}
}

func TestComputeResizeSnap_SiblingCenter(t *testing.T) {
	sibling := R(0, 0, 400, 100) // cx=200
	res := ComputeResizeSnap(ResizeInput{
		X: 100, Y: 100, Diameter: 196,
		Corner: CornerBR, Anchor: Pt{X: 100, Y: 100},
		Others:  []Rect{sibling},
		CanvasW: 1080, CanvasH: 1350,
		MinD: 100, MaxD: 600,
	})
	if res.Diameter != 200 {
		t.Fatalf("expected d=200, got %v", res.Diameter)
	}
	if len(res.Guides) != 1 || res.Guides[0] != (Guide{Axis: AxisX, Position: 200, Type: GuideCross}) {
		t.Fatalf("expected cross guide at x=200, got %+v", res.Guides)
	}
}

func TestComputeResizeSnap_ExactMatchKeepsRawGeometry(t *testing.T) {
	res := ComputeResizeSnap(ResizeInput{
		X: 381, Y: 379, Diameter: 320,
		Corner: CornerTL, Anchor: Pt{X: 700, Y: 700},
		CanvasW: 1080, CanvasH: 1350,
		MinD: 100, MaxD: 600,
	})
	if res.Diameter != 320 || res.X != 381 || res.Y != 379 || len(res.Guides) != 0 {
		t.Fatalf("expected raw geometry without guides, got %+v", res)
	}
}

func TestCornerDeltaAndParse(t *testing.T) {
	if d := CornerBR.DeltaFor(10, 25); d != 25 {
		t.Fatalf("br delta = %v", d)
	}
	if d := CornerBL.DeltaFor(10, 5); d != 5 {
		t.Fatalf("bl delta = %v", d)
	}
	if d := CornerTR.DeltaFor(-4, -9); d != 9 {
		t.Fatalf("tr delta = %v", d)
	}
	if d := CornerTL.DeltaFor(-12, -3); d != 12 {
		t.Fatalf("tl delta = %v", d)
	}
	for _, s := range []string{"tl", "TR", " bl", "br"} {
		c, ok := ParseCorner(s)
		if !ok || c == CornerNone {
			t.Fatalf("ParseCorner(%q) failed", s)
		}
	}
	if _, ok := ParseCorner("middle"); ok {
		t.Fatalf("ParseCorner accepted an unknown corner")
	}
}
