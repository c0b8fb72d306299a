/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package ui

import (
	"testing"

	"posterstudio/internal/domain"
	"posterstudio/internal/gesture"
	"posterstudio/internal/snap"
)

func halfScaleController() (*gesture.Store, *gesture.Controller) {
	st := gesture.NewStore(domain.DefaultSession())
	st.SetScale(0.5)
	return st, gesture.NewController(st, gesture.DefaultOptions())
}

func TestBuildOverlayIdle(t *testing.T) {
	st, _ := halfScaleController()
	o := BuildOverlay(st, gesture.Frame{})
	if o.Canvas != (ViewRect{W: 540, H: 675}) {
		t.Fatalf("canvas = %+v", o.Canvas)
	}
	if o.Image != (ViewRect{X: 195, Y: 100, W: 150, H: 150}) {
		t.Fatalf("image = %+v", o.Image)
	}
	if o.Name != (ViewRect{X: 54, Y: 275, W: 432, H: 50}) {
		t.Fatalf("name = %+v", o.Name)
	}
	if len(o.Guides) != 0 || len(o.Distances) != 0 || o.Selected != gesture.LayerNone {
		t.Fatalf("idle overlay should be bare: %+v", o)
	}
}

func TestBuildOverlayFollowsLiveGeometry(t *testing.T) {
	st, c := halfScaleController()
	if l := c.PointerDown(gesture.Point{X: 270, Y: 175}); l != gesture.LayerImage {
		t.Fatalf("PointerDown hit %v", l)
	}
	f := c.PointerMove(gesture.Point{X: 280, Y: 175})
	o := BuildOverlay(st, f)
	if o.Image != (ViewRect{X: 205, Y: 100, W: 150, H: 150}) {
		t.Fatalf("live image = %+v", o.Image)
	}
	if o.Selected != gesture.LayerImage {
		t.Fatalf("selection = %v", o.Selected)
	}
	var left, gap *DistanceLabel
	for i := range o.Distances {
		switch o.Distances[i].Text {
		case "410px":
			left = &o.Distances[i]
		case "50px":
			gap = &o.Distances[i]
		}
	}
	if left == nil || left.ViewLine != (ViewLine{X1: 0, Y1: 175, X2: 205, Y2: 175}) || left.LabelX != 102.5 {
		t.Fatalf("left distance = %+v (all %+v)", left, o.Distances)
	}
	if gap == nil || gap.ViewLine != (ViewLine{X1: 280, Y1: 250, X2: 280, Y2: 275}) {
		t.Fatalf("gap to name = %+v (all %+v)", gap, o.Distances)
	}

	c.PointerUp()
	after := BuildOverlay(st, c.Frame())
	if after.Image.X != 205 || len(after.Distances) != 0 {
		t.Fatalf("committed overlay = %+v", after)
	}
}

func TestBuildOverlayGuides(t *testing.T) {
	st, c := halfScaleController()
	c.PointerDown(gesture.Point{X: 270, Y: 175})
	// 3 canvas px off center snaps back onto the vertical center line
	f := c.PointerMove(gesture.Point{X: 271.5, Y: 175})
	o := BuildOverlay(st, f)
	if len(o.Guides) != 1 {
		t.Fatalf("expected one guide, got %+v", o.Guides)
	}
	g := o.Guides[0]
	if g.Type != snap.GuideCenter || g.ViewLine != (ViewLine{X1: 270, Y1: 0, X2: 270, Y2: 675}) {
		t.Fatalf("guide = %+v", g)
	}
	if o.Image.X != 195 {
		t.Fatalf("snapped image x = %v", o.Image.X)
	}
}

func TestKeyFor(t *testing.T) {
	cases := map[string]gesture.Key{
		"Up":     gesture.KeyUp,
		"Down":   gesture.KeyDown,
		"Left":   gesture.KeyLeft,
		"Right":  gesture.KeyRight,
		"Escape": gesture.KeyEscape,
		"Return": gesture.KeyUnknown,
	}
	for name, want := range cases {
		if got := KeyFor(name); got != want {
			t.Fatalf("KeyFor(%q) = %v, want %v", name, got, want)
		}
	}
}
