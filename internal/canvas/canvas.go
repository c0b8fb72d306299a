/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */
// Package canvas provides the poster canvas dimensions: the fixed width, the
// supported heights a background may normalise to and the on-screen scale.
package canvas

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"posterstudio/internal/domain"
)

const (
	Width         = domain.CanvasWidth
	DefaultHeight = 1350
	// MaxViewHeight caps the on-screen canvas height in view pixels.
	MaxViewHeight = 600
	// heightTolerance is how far a normalised height may be off a supported one.
	heightTolerance = 5
)

// Size is a supported canvas format.
type Size struct {
	Height int
	Label  string
}

// Sizes lists the accepted canvas formats, shortest first.
var Sizes = []Size{
	{Height: 1152, Label: "1080 x 1152"},
	{Height: 1350, Label: "1080 x 1350"},
	{Height: 1484, Label: "1080 x 1484"},
	{Height: 1620, Label: "1080 x 1620"},
}

var ErrUnsupportedAspectRatio = errors.New("unsupported aspect ratio")

// MatchHeight scales a srcW x srcH background to the canvas width and returns
// the supported size within tolerance of the scaled height.
func MatchHeight(srcW, srcH int) (Size, error) {
	if srcW <= 0 || srcH <= 0 {
		return Size{}, fmt.Errorf("%w: invalid source size %dx%d", ErrUnsupportedAspectRatio, srcW, srcH)
	}
	normalized := roundHalfUp(float64(Width) / float64(srcW) * float64(srcH))
	for _, s := range Sizes {
		if math.Abs(normalized-float64(s.Height)) <= heightTolerance {
			return s, nil
		}
	}
	labels := make([]string, len(Sizes))
	for i, s := range Sizes {
		labels[i] = s.Label
	}
	return Size{}, fmt.Errorf("%w: %dx%d normalises to 1080 x %d; accepted: %s",
		ErrUnsupportedAspectRatio, srcW, srcH, int(normalized), strings.Join(labels, ", "))
}

var commonRatios = []struct {
	r     float64
	label string
}{
	{1, "1:1"}, {4.0 / 3, "4:3"}, {3.0 / 4, "3:4"},
	{16.0 / 9, "16:9"}, {9.0 / 16, "9:16"},
	{3.0 / 2, "3:2"}, {2.0 / 3, "2:3"},
}

// AspectRatio describes w:h. Small reduced ratios are returned as is; larger
// ones are mapped to a common ratio within 0.02 when possible.
func AspectRatio(w, h int) string {
	if w <= 0 || h <= 0 {
		return ""
	}
	d := gcd(w, h)
	sw, sh := w/d, h/d
	if sw <= 50 && sh <= 50 {
		return fmt.Sprintf("%d:%d", sw, sh)
	}
	ratio := float64(w) / float64(h)
	for _, c := range commonRatios {
		if math.Abs(ratio-c.r) < 0.02 {
			return c.label
		}
	}
	return fmt.Sprintf("%d:%d", sw, sh)
}

// ViewScale is the factor from canvas pixels to view pixels for a container
// of the given width.
func ViewScale(containerWidth, canvasHeight float64) float64 {
	if canvasHeight <= 0 {
		canvasHeight = DefaultHeight
	}
	return math.Min(MaxViewHeight/canvasHeight, containerWidth/Width)
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func roundHalfUp(v float64) float64 {
	f := math.Floor(v)
	if v-f >= 0.5 {
		return f + 1
	}
	return f
}
