/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */
package gesture

import (
	"testing"

	"posterstudio/internal/domain"
	"posterstudio/internal/snap"
)

func TestResizeWithoutSnapKeepsRawGeometry(t *testing.T) {
	c, s := newTestController(t)
	s.SetImage(domain.ImagePlaceholder{X: 100, Y: 100, Diameter: 300})
	c.PointerDown(Point{395, 395})
	if c.Mode() != Resizing || c.Corner() != snap.CornerBR {
		t.Fatalf("expected br resize, got %v/%v", c.Mode(), c.Corner())
	}
	f := c.PointerMove(Point{405, 399}) // delta = max(10, 4)
	if f.Live.X != 100 || f.Live.Y != 100 || f.Live.Diameter != 310 {
		t.Fatalf("unexpected live geometry %+v", f.Live)
	}
	if len(f.Guides) != 0 {
		t.Fatalf("expected no guides, got %+v", f.Guides)
	}
	c.PointerUp()
	if got := s.Image(); got != (domain.ImagePlaceholder{X: 100, Y: 100, Diameter: 310}) {
		t.Fatalf("committed %+v", got)
	}
}

func TestResizeSnapsCenterToCanvas(t *testing.T) {
	c, s := newTestController(t)
	s.SetDiameterLimits(100, 1000)
	s.SetImage(domain.ImagePlaceholder{X: 240, Y: 100, Diameter: 300})
	c.PointerDown(Point{535, 395})
	f := c.PointerMove(Point{831, 395}) // raw diameter 596
	if f.Live.Diameter != 600 || f.Live.X != 240 || f.Live.Y != 100 {
		t.Fatalf("expected snap to d=600 at 240,100, got %+v", f.Live)
	}
	if len(f.Guides) != 1 || f.Guides[0] != (snap.Guide{Axis: snap.AxisX, Position: 540, Type: snap.GuideCenter}) {
		t.Fatalf("unexpected guides %+v", f.Guides)
	}
	if f.DragRect == nil || *f.DragRect != snap.R(240, 100, 600, 600) {
		t.Fatalf("drag rect should follow the snapped geometry, got %+v", f.DragRect)
	}
}

func TestResizeFromTopLeftKeepsBottomRight(t *testing.T) {
	c, s := newTestController(t)
	c.PointerDown(Point{395, 205})
	if c.Corner() != snap.CornerTL {
		t.Fatalf("expected tl, got %v", c.Corner())
	}
	f := c.PointerMove(Point{375, 195}) // delta = max(20, 10)
	if f.Live != (Live{X: 370, Y: 180, Diameter: 320, Width: 320, Height: 320}) {
		t.Fatalf("unexpected live geometry %+v", f.Live)
	}
	c.PointerUp()
	img := s.Image()
	if img.X+img.Diameter != 690 || img.Y+img.Diameter != 500 {
		t.Fatalf("bottom-right corner moved: %+v", img)
	}
}

func TestResizeClampsDiameter(t *testing.T) {
	c, s := newTestController(t)
	c.PointerDown(Point{685, 495})
	f := c.PointerMove(Point{1685, 1495})
	if f.Live.Diameter != DefaultMaxDiameter {
		t.Fatalf("expected diameter capped at %d, got %v", DefaultMaxDiameter, f.Live.Diameter)
	}
	// the vertical center target lands exactly on the clamped size: raw geometry, no guide
	if len(f.Guides) != 0 {
		t.Fatalf("exact match must not report a guide, got %+v", f.Guides)
	}
	f = c.PointerMove(Point{0, 0})
	if f.Live.Diameter != DefaultMinDiameter {
		t.Fatalf("expected diameter floored at %d, got %v", DefaultMinDiameter, f.Live.Diameter)
	}
	c.PointerUp()
	if got := s.Image(); got != (domain.ImagePlaceholder{X: 390, Y: 200, Diameter: 100}) {
		t.Fatalf("committed %+v", got)
	}
}

func TestHoverReportsCornerAndCursor(t *testing.T) {
	c, _ := newTestController(t)
	if got := c.Hover(Point{685, 205}); got != snap.CornerTR {
		t.Fatalf("expected tr, got %v", got)
	}
	if Cursor(snap.CornerTR) != "nesw-resize" || Cursor(snap.CornerBR) != "nwse-resize" || Cursor(snap.CornerNone) != "grab" {
		t.Fatalf("unexpected cursor names")
	}
	if got := c.Hover(Point{540, 600}); got != snap.CornerNone {
		t.Fatalf("hovering the name must not report a corner, got %v", got)
	}
}
