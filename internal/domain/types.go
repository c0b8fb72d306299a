/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */
package domain

import "math"

// This file defines the editor data model: the two placeholders positioned on
// the canvas, the styling applied to them and the session document that ties
// them to a background and tag selection. Geometry is in canvas pixels.

// CanvasWidth is the fixed logical width of every poster.
const CanvasWidth = 1080

// ImagePlaceholder is the square bounding box of the photo (circle or rounded
// square).
type ImagePlaceholder struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Diameter float64 `json:"diameter"`
}

// NamePlaceholder is the bounding box of the name text. X is always derived
// from Width so the box stays horizontally centered.
type NamePlaceholder struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// CenteredX returns the X that centers a box of width w on the canvas.
func CenteredX(w float64) float64 {
	return roundHalfUp((CanvasWidth - w) / 2)
}

// InBounds reports whether the photo box lies fully inside a canvas of height h.
func (p ImagePlaceholder) InBounds(h float64) bool {
	return p.X >= 0 && p.Y >= 0 && p.X+p.Diameter <= CanvasWidth && p.Y+p.Diameter <= h
}

// InBounds reports whether the name box lies fully inside a canvas of height h.
func (n NamePlaceholder) InBounds(h float64) bool {
	return n.X >= 0 && n.Y >= 0 && n.X+n.Width <= CanvasWidth && n.Y+n.Height <= h
}

// TextShadow is a drop shadow; Opacity is a percentage (0..100).
type TextShadow struct {
	OffsetX float64 `json:"offsetX"`
	OffsetY float64 `json:"offsetY"`
	Blur    float64 `json:"blur"`
	Color   string  `json:"color"`
	Opacity float64 `json:"opacity"`
}

// IsZero reports whether the shadow has no visible effect.
func (s TextShadow) IsZero() bool {
	return s.OffsetX == 0 && s.OffsetY == 0 && s.Blur == 0 && s.Opacity == 0
}

type TextStroke struct {
	Width float64 `json:"width"`
	Color string  `json:"color"`
}

type TextAlignment string

const (
	AlignLeft   TextAlignment = "left"
	AlignCenter TextAlignment = "center"
	AlignRight  TextAlignment = "right"
)

// TextStyle controls how the name is rendered. MaxWidthPercent drives the
// width of the name placeholder.
type TextStyle struct {
	Color           string        `json:"color"`
	FontSize        float64       `json:"fontSize"`
	FontWeight      int           `json:"fontWeight"`
	LetterSpacing   float64       `json:"letterSpacing"`
	Shadow          TextShadow    `json:"textShadow"`
	Stroke          TextStroke    `json:"textStroke"`
	Alignment       TextAlignment `json:"textAlignment"`
	MaxWidthPercent float64       `json:"maxWidthPercent"`
}

type PhotoShape string

const (
	ShapeCircle PhotoShape = "circle"
	ShapeSquare PhotoShape = "square"
)

// PhotoStyle describes the photo frame. CornerRadius only applies to squares.
type PhotoStyle struct {
	Shape         PhotoShape `json:"shape"`
	CornerRadius  float64    `json:"cornerRadius"`
	HasBackground bool       `json:"hasBackground"`
	StrokeWidth   float64    `json:"strokeWidth"`
	StrokeColor   string     `json:"strokeColor"`
}

type MediaType string

const (
	MediaImage MediaType = "image"
	MediaVideo MediaType = "video"
)

// Session is the editable poster document.
type Session struct {
	Background   string           `json:"background,omitempty"` // file path or data URL
	MediaType    MediaType        `json:"mediaType"`
	SourceWidth  int              `json:"sourceWidth,omitempty"`
	SourceHeight int              `json:"sourceHeight,omitempty"`
	CanvasHeight float64          `json:"canvasHeight"`
	Profile      bool             `json:"profile"` // true: Self templates, false: Wishes
	Tags         []string         `json:"tags"`
	Languages    []string         `json:"languages"`
	UserName     string           `json:"userName"`
	Image        ImagePlaceholder `json:"image"`
	Name         NamePlaceholder  `json:"name"`
	Text         TextStyle        `json:"textStyle"`
	Photo        PhotoStyle       `json:"photoStyle"`
}

// DefaultSession returns a fresh document: a 300px photo centered at y=200 and
// an 80% wide name box at y=550 on a 1080x1350 canvas.
func DefaultSession() Session {
	nameW := roundHalfUp(CanvasWidth * 0.8)
	return Session{
		MediaType:    MediaImage,
		CanvasHeight: 1350,
		Profile:      true,
		Tags:         []string{},
		Languages:    []string{},
		UserName:     "Srinivasalu Reddy",
		Image:        ImagePlaceholder{X: (CanvasWidth - 300) / 2, Y: 200, Diameter: 300},
		Name:         NamePlaceholder{X: (CanvasWidth - nameW) / 2, Y: 550, Width: nameW, Height: 100},
		Text: TextStyle{
			Color:           "#FFFFFF",
			FontSize:        48,
			FontWeight:      700,
			Shadow:          TextShadow{Color: "#000000"},
			Stroke:          TextStroke{Color: "#000000"},
			Alignment:       AlignCenter,
			MaxWidthPercent: 80,
		},
		Photo: PhotoStyle{Shape: ShapeCircle, CornerRadius: 16, StrokeColor: "#FFFFFF"},
	}
}

// Step is the editor progress: 1 until a background exists, 2 until at least
// one tag and one language are picked, then 3.
func (s Session) Step() int {
	switch {
	case s.Background == "":
		return 1
	case len(s.Tags) == 0 || len(s.Languages) == 0:
		return 2
	default:
		return 3
	}
}

// roundHalfUp mirrors the editor's rounding (half towards +Inf).
func roundHalfUp(v float64) float64 {
	f := math.Floor(v)
	if v-f >= 0.5 {
		return f + 1
	}
	return f
}
