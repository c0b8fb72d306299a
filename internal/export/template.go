/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package export produces the compact template document consumed by the
// mobile app, validates it against the bundled JSON schema and renders
// PNG/PDF proofs of the layout.
package export

import (
	"errors"
	"fmt"

	"posterstudio/internal/canvas"
	"posterstudio/internal/domain"
	"posterstudio/internal/snap"
)

var (
	ErrNoPrimaryCategory = errors.New("select at least 1 primary category")
	ErrNoLanguage        = errors.New("select at least 1 language")
)

// Template is the compact export document. Positions are whole percentages
// of the canvas (x and d of the width, y of the height); style values stay in
// design px.
type Template struct {
	AspectRatio string           `json:"ar"`
	Profile     bool             `json:"t"`
	Categories  []string         `json:"pc"`
	Languages   []string         `json:"lg"`
	Background  *string          `json:"bg"`
	MediaType   domain.MediaType `json:"mt"`
	Image       ImageBlock       `json:"ip"`
	Name        NameBlock        `json:"np"`
}

type ImageBlock struct {
	X             float64           `json:"x"`
	Y             float64           `json:"y"`
	Diameter      float64           `json:"d"`
	Shape         domain.PhotoShape `json:"sh"`
	CornerRadius  *float64          `json:"cr,omitempty"` // squares only
	HasBackground bool              `json:"hb"`
	StrokeWidth   float64           `json:"sw"`
	StrokeColor   string            `json:"sc"`
}

type NameBlock struct {
	Y      float64   `json:"y"`
	Height *float64  `json:"h,omitempty"`
	Style  NameStyle `json:"st"`
}

type NameStyle struct {
	Text TextBlock `json:"ts"`
}

type TextBlock struct {
	Color         string               `json:"c"`
	FontSize      float64              `json:"fs"`
	FontWeight    int                  `json:"fw"`
	LetterSpacing float64              `json:"ls"`
	Shadow        *ShadowBlock         `json:"sh"` // null when the shadow has no effect
	Stroke        StrokeBlock          `json:"st"`
	ShadowRN      *RNShadow            `json:"shRn,omitempty"`
	StrokeRN      *[]RNShadow          `json:"stRn,omitempty"`
	Alignment     domain.TextAlignment `json:"ta"`
}

type ShadowBlock struct {
	OffsetX float64 `json:"ox"`
	OffsetY float64 `json:"oy"`
	Blur    float64 `json:"bl"`
	Color   string  `json:"col"`
	Opacity float64 `json:"op"` // 0..1
}

type StrokeBlock struct {
	Width float64 `json:"w"`
	Color string  `json:"col"`
}

type buildOptions struct {
	reactNative bool
	background  *string
}

// Option customises BuildTemplate.
type Option func(*buildOptions)

// WithReactNative adds the name height and ready-made React Native shadow
// props (shRn, stRn) to the name block.
func WithReactNative() Option {
	return func(o *buildOptions) { o.reactNative = true }
}

// WithBackground overrides the session background, typically with a data URL
// produced by DataURL.
func WithBackground(bg string) Option {
	return func(o *buildOptions) { o.background = &bg }
}

// BuildTemplate converts an editor session into the export document. It
// fails when no primary category or no language is selected. Colors are
// normalized with white text, black shadow/stroke and white photo stroke as
// fallbacks.
func BuildTemplate(s domain.Session, opts ...Option) (Template, error) {
	if len(s.Tags) == 0 {
		return Template{}, ErrNoPrimaryCategory
	}
	if len(s.Languages) == 0 {
		return Template{}, ErrNoLanguage
	}
	var o buildOptions
	for _, opt := range opts {
		opt(&o)
	}

	w := float64(canvas.Width)
	h := s.CanvasHeight
	if h <= 0 {
		h = canvas.DefaultHeight
	}
	pctW := func(v float64) float64 { return snap.Round(v / w * 100) }
	pctH := func(v float64) float64 { return snap.Round(v / h * 100) }

	t := Template{
		AspectRatio: aspectRatio(s),
		Profile:     s.Profile,
		Categories:  append([]string{}, s.Tags...),
		Languages:   append([]string{}, s.Languages...),
		MediaType:   s.MediaType,
	}
	if t.MediaType == "" {
		t.MediaType = domain.MediaImage
	}
	switch {
	case o.background != nil:
		t.Background = o.background
	case s.Background != "":
		bg := s.Background
		t.Background = &bg
	}

	t.Image = ImageBlock{
		X:             pctW(s.Image.X),
		Y:             pctH(s.Image.Y),
		Diameter:      pctW(s.Image.Diameter),
		Shape:         s.Photo.Shape,
		HasBackground: s.Photo.HasBackground,
		StrokeWidth:   s.Photo.StrokeWidth,
		StrokeColor:   NormalizeHex(s.Photo.StrokeColor, "#FFFFFF"),
	}
	if t.Image.Shape == "" {
		t.Image.Shape = domain.ShapeCircle
	}
	if t.Image.Shape == domain.ShapeSquare {
		cr := s.Photo.CornerRadius
		t.Image.CornerRadius = &cr
	}

	shadow := s.Text.Shadow
	shadow.Color = NormalizeHex(shadow.Color, "#000000")
	stroke := s.Text.Stroke
	stroke.Color = NormalizeHex(stroke.Color, "#000000")

	ts := TextBlock{
		Color:         NormalizeHex(s.Text.Color, "#FFFFFF"),
		FontSize:      s.Text.FontSize,
		FontWeight:    s.Text.FontWeight,
		LetterSpacing: s.Text.LetterSpacing,
		Stroke:        StrokeBlock{Width: stroke.Width, Color: stroke.Color},
		Alignment:     s.Text.Alignment,
	}
	if ts.Alignment == "" {
		ts.Alignment = domain.AlignCenter
	}
	if !shadow.IsZero() {
		ts.Shadow = &ShadowBlock{
			OffsetX: shadow.OffsetX,
			OffsetY: shadow.OffsetY,
			Blur:    shadow.Blur,
			Color:   shadow.Color,
			Opacity: shadow.Opacity / 100,
		}
	}
	t.Name = NameBlock{Y: pctH(s.Name.Y), Style: NameStyle{Text: ts}}

	if o.reactNative {
		nh := pctH(s.Name.Height)
		t.Name.Height = &nh
		rn := ShadowToRN(shadow)
		t.Name.Style.Text.ShadowRN = &rn
		rs := StrokeToRNShadows(stroke)
		t.Name.Style.Text.StrokeRN = &rs
	}
	return t, nil
}

// aspectRatio is derived from the uploaded media; it is empty before upload.
func aspectRatio(s domain.Session) string {
	if s.SourceWidth <= 0 || s.SourceHeight <= 0 {
		return ""
	}
	return canvas.AspectRatio(s.SourceWidth, s.SourceHeight)
}

// Summary is a one-line description used in logs and CLI output.
func (t Template) Summary() string {
	kind := "wishes"
	if t.Profile {
		kind = "profile"
	}
	return fmt.Sprintf("%s template, ar=%s, %d categories, %d languages", kind, t.AspectRatio, len(t.Categories), len(t.Languages))
}
