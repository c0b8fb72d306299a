/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"fmt"
	"strconv"
	"strings"

	"posterstudio/internal/domain"
	"posterstudio/internal/textlayout"
)

// NormalizeHex turns loose user input into "#RRGGBB". Non-hex characters are
// dropped, 3-digit shorthand is expanded, short values are padded with 0 and
// long ones truncated. Empty input yields fallback unchanged.
func NormalizeHex(hex, fallback string) string {
	var b strings.Builder
	for _, r := range hex {
		if isHexDigit(r) {
			b.WriteRune(r)
		}
	}
	h := b.String()
	if h == "" {
		return fallback
	}
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	for len(h) < 6 {
		h += "0"
	}
	return "#" + strings.ToUpper(h[:6])
}

func isHexDigit(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

// HexToRGBA renders a hex color with a percentage opacity as a CSS rgba()
// string, e.g. rgba(0,0,0,0.65). Unparseable channels become 0.
func HexToRGBA(hex string, opacityPercent float64) string {
	h := strings.TrimPrefix(strings.TrimSpace(hex), "#")
	r, g, b := channel(h, 0), channel(h, 2), channel(h, 4)
	return fmt.Sprintf("rgba(%d,%d,%d,%s)", r, g, b, strconv.FormatFloat(opacityPercent/100, 'f', 2, 64))
}

// channel parses the leading hex digits of h[i:i+2].
func channel(h string, i int) int {
	if i >= len(h) {
		return 0
	}
	s := h[i:min(i+2, len(h))]
	n := 0
	for _, r := range s {
		if !isHexDigit(r) {
			break
		}
		v, _ := strconv.ParseInt(string(r), 16, 64)
		n = n*16 + int(v)
	}
	return n
}

// RNOffset and RNShadow mirror React Native's text shadow props.
type RNOffset struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type RNShadow struct {
	TextShadowOffset RNOffset `json:"textShadowOffset"`
	TextShadowRadius float64  `json:"textShadowRadius"`
	TextShadowColor  string   `json:"textShadowColor"`
}

// ShadowToRN converts a drop shadow into React Native props.
func ShadowToRN(s domain.TextShadow) RNShadow {
	return RNShadow{
		TextShadowOffset: RNOffset{Width: s.OffsetX, Height: s.OffsetY},
		TextShadowRadius: s.Blur,
		TextShadowColor:  HexToRGBA(s.Color, s.Opacity),
	}
}

// StrokeToRNShadows fakes an outline in React Native with a ring of
// zero-radius shadows. A zero width returns an empty list.
func StrokeToRNShadows(s domain.TextStroke) []RNShadow {
	ring := textlayout.StrokeRing(s.Width)
	out := make([]RNShadow, 0, len(ring))
	for _, o := range ring {
		out = append(out, RNShadow{
			TextShadowOffset: RNOffset{Width: o.DX, Height: o.DY},
			TextShadowRadius: 0,
			TextShadowColor:  s.Color,
		})
	}
	return out
}

// ShadowToCSS renders the shadow as a CSS text-shadow value, "none" when it
// has no effect.
func ShadowToCSS(s domain.TextShadow) string {
	if s.IsZero() {
		return "none"
	}
	return fmt.Sprintf("%spx %spx %spx %s", num(s.OffsetX), num(s.OffsetY), num(s.Blur), HexToRGBA(s.Color, s.Opacity))
}

// CombinedTextShadow renders stroke ring and drop shadow as one CSS
// text-shadow list.
func CombinedTextShadow(shadow domain.TextShadow, stroke domain.TextStroke) string {
	var parts []string
	for _, o := range textlayout.StrokeRing(stroke.Width) {
		parts = append(parts, fmt.Sprintf("%spx %spx 0px %s", num(o.DX), num(o.DY), stroke.Color))
	}
	if !shadow.IsZero() {
		parts = append(parts, ShadowToCSS(shadow))
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, ", ")
}

func num(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
