/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"strings"

	"posterstudio/internal/canvas"
	"posterstudio/internal/domain"
	"posterstudio/internal/snap"
	"posterstudio/internal/textlayout"
)

// Proof colors used when no background image is available.
var (
	proofCanvasRGB = [3]int{0x1F, 0x29, 0x37}
	proofPhotoRGB  = [3]int{0x9C, 0xA3, 0xAF}
	proofGuideRGB  = [3]int{0xF5, 0x9E, 0x0B}
)

// ProofOptions controls PNG and PDF proofs.
type ProofOptions struct {
	// Scale is output px per canvas px for PNG proofs; <= 0 means 0.5.
	Scale float64
	// Provider measures the name; nil selects the Go fonts.
	Provider textlayout.Provider
	// Guides outlines the name box.
	Guides bool
}

func (o ProofOptions) scale() float64 {
	if o.Scale <= 0 {
		return 0.5
	}
	return o.Scale
}

func (o ProofOptions) provider() textlayout.Provider {
	if o.Provider == nil {
		return textlayout.TrueTypeProvider{}
	}
	return o.Provider
}

// proofLine is a positioned line of the name: X is its left edge and
// Baseline its baseline, both in canvas px.
type proofLine struct {
	Text     string
	X        float64
	Baseline float64
}

// nameLines wraps the user name into the name box, centers the block
// vertically and aligns each line horizontally.
func nameLines(s domain.Session, p textlayout.Provider) ([]proofLine, textlayout.TextBox) {
	spec := textlayout.FontSpec{SizePx: s.Text.FontSize, Weight: s.Text.FontWeight}
	box := textlayout.Layout(p, s.UserName, spec, s.Text.LetterSpacing, s.Name.Width)
	lh := box.Metrics.LineHeight()
	top := s.Name.Y + (s.Name.Height-box.Height)/2
	out := make([]proofLine, 0, len(box.Lines))
	for i, l := range box.Lines {
		x := s.Name.X
		switch s.Text.Alignment {
		case domain.AlignLeft:
		case domain.AlignRight:
			x = s.Name.X + s.Name.Width - l.Width
		default:
			x = s.Name.X + (s.Name.Width-l.Width)/2
		}
		out = append(out, proofLine{Text: l.Text, X: x, Baseline: top + float64(i)*lh + box.Metrics.Ascent})
	}
	return out, box
}

func canvasHeight(s domain.Session) float64 {
	if s.CanvasHeight > 0 {
		return s.CanvasHeight
	}
	return canvas.DefaultHeight
}

// hexRGB parses a normalized "#RRGGBB" color.
func hexRGB(hex, fallback string) (int, int, int) {
	h := strings.TrimPrefix(NormalizeHex(hex, fallback), "#")
	return channel(h, 0), channel(h, 2), channel(h, 4)
}

// loadBackground decodes an image background given as a file path or data
// URL. Videos and undecodable files return an error.
func loadBackground(bg string) (image.Image, error) {
	if bg == "" {
		return nil, errors.New("no background")
	}
	if MediaTypeFor(bg) == domain.MediaVideo {
		return nil, errors.New("video background")
	}
	var data []byte
	if rest, ok := strings.CutPrefix(bg, "data:"); ok {
		_, payload, found := strings.Cut(rest, ";base64,")
		if !found {
			return nil, errors.New("unsupported data URL")
		}
		b, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, fmt.Errorf("decode data URL: %w", err)
		}
		data = b
	} else {
		b, err := os.ReadFile(bg)
		if err != nil {
			return nil, err
		}
		data = b
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	return img, err
}

func proofSize(s domain.Session, scale float64) (int, int) {
	return int(snap.Round(canvas.Width * scale)), int(snap.Round(canvasHeight(s) * scale))
}
