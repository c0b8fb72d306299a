/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package textlayout measures and wraps the poster name for proof rendering.
// Measurement sits behind a Provider so a real font engine can replace the
// fixed-size bitmap face used by default.
package textlayout

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

// FontSpec is the requested size (canvas px) and numeric weight.
type FontSpec struct {
	SizePx float64
	Weight int
}

// Metrics are font metrics in canvas px at the requested size.
type Metrics struct {
	Ascent, Descent, LineGap float64
}

func (m Metrics) LineHeight() float64 { return m.Ascent + m.Descent + m.LineGap }

// Provider resolves a FontSpec to a face and the factor that scales the
// face's native advances to the requested size.
type Provider interface {
	Resolve(FontSpec) (face font.Face, scale float64, m Metrics)
}

// BasicProvider scales x/image/basicfont Face7x13. Output is deterministic,
// which keeps proofs and tests stable across machines.
type BasicProvider struct{}

func (BasicProvider) Resolve(spec FontSpec) (font.Face, float64, Metrics) {
	f := basicfont.Face7x13
	m := f.Metrics()
	native := float64(m.Height.Round())
	scale := 1.0
	if spec.SizePx > 0 && native > 0 {
		scale = spec.SizePx / native
	}
	asc := float64(m.Ascent.Round())
	desc := float64(m.Descent.Round())
	return f, scale, Metrics{
		Ascent:  asc * scale,
		Descent: desc * scale,
		LineGap: (native - asc - desc) * scale,
	}
}

// Line is one laid out line.
type Line struct {
	Text  string
	Width float64
}

// TextBox is the result of laying out text into a maximum width.
type TextBox struct {
	Lines   []Line
	Width   float64
	Height  float64
	Scale   float64
	Metrics Metrics
}

// Layout breaks text on spaces and newlines so that no line exceeds
// maxWidth, unless a single word is wider on its own. letterSpacing is added
// after every rune. maxWidth <= 0 disables wrapping.
func Layout(p Provider, text string, spec FontSpec, letterSpacing, maxWidth float64) TextBox {
	if p == nil {
		p = BasicProvider{}
	}
	face, scale, met := p.Resolve(spec)
	d := &font.Drawer{Face: face}
	measure := func(s string) float64 {
		return advance(d, s)*scale + letterSpacing*float64(utf8.RuneCountInString(s))
	}
	space := measure(" ")

	box := TextBox{Scale: scale, Metrics: met}
	var cur []string
	curW := 0.0
	flush := func() {
		box.Lines = append(box.Lines, Line{Text: strings.Join(cur, " "), Width: curW})
		box.Width = max(box.Width, curW)
		cur, curW = nil, 0
	}
	for i, para := range strings.Split(text, "\n") {
		if i > 0 {
			flush()
		}
		for _, word := range strings.Fields(para) {
			w := measure(word)
			if len(cur) > 0 && maxWidth > 0 && curW+space+w > maxWidth {
				flush()
			}
			if len(cur) > 0 {
				curW += space
			}
			cur = append(cur, word)
			curW += w
		}
	}
	flush()
	box.Height = float64(len(box.Lines)) * met.LineHeight()
	return box
}

// Measure returns the single-line width and line height of text.
func Measure(p Provider, text string, spec FontSpec, letterSpacing float64) (w, h float64) {
	box := Layout(p, strings.ReplaceAll(text, "\n", " "), spec, letterSpacing, 0)
	return box.Width, box.Metrics.LineHeight()
}

// Fits reports whether text wrapped to width stays within height.
func Fits(p Provider, text string, spec FontSpec, letterSpacing, width, height float64) bool {
	box := Layout(p, text, spec, letterSpacing, width)
	return box.Width <= width && box.Height <= height
}

func advance(d *font.Drawer, s string) float64 {
	return float64(d.MeasureString(s)) / 64 // fixed.Int26_6 to px
}
