/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */
package gesture

import (
	"log/slog"

	"posterstudio/internal/domain"
	"posterstudio/internal/snap"
)

// Key is a keyboard key the controller reacts to.
type Key int

const (
	KeyUnknown Key = iota
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyEscape
)

// KeyEvent is a key press. TextInputFocused is set by the host when a text
// field, text area or select owns the keyboard focus.
type KeyEvent struct {
	Key              Key
	Shift            bool
	TextInputFocused bool
}

// Key handles a key press and reports whether it was consumed. Keys are
// ignored while a text input has focus or when nothing is selected. Escape
// clears the selection; arrows nudge the selected layer by Step, or ShiftStep
// with Shift held. The photo moves on both axes, the name box only vertically
// and is re-centred horizontally.
func (c *Controller) Key(ev KeyEvent) bool {
	if ev.TextInputFocused {
		return false
	}
	sel := c.store.Selected()
	if sel == LayerNone {
		return false
	}
	if ev.Key == KeyEscape {
		c.store.ClearSelection()
		return true
	}

	step := c.opts.Step
	if ev.Shift {
		step = c.opts.ShiftStep
	}
	var dx, dy float64
	switch ev.Key {
	case KeyLeft:
		dx = -step
	case KeyRight:
		dx = step
	case KeyUp:
		dy = -step
	case KeyDown:
		dy = step
	default:
		return false
	}

	cw, ch := c.store.CanvasSize()
	switch sel {
	case LayerImage:
		img := c.store.Image()
		img.X = snap.Round(snap.Clamp(img.X+dx, 0, cw-img.Diameter))
		img.Y = snap.Round(snap.Clamp(img.Y+dy, 0, ch-img.Diameter))
		c.store.commitImage(img, "nudge")
	case LayerText:
		name := c.store.Name()
		name.X = domain.CenteredX(name.Width)
		name.Y = snap.Round(snap.Clamp(name.Y+dy, 0, ch-name.Height))
		c.store.commitName(name, "nudge")
	}
	c.log.Debug("nudge", slog.String("layer", sel.String()), slog.Float64("dx", dx), slog.Float64("dy", dy))
	return true
}
