/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package textlayout

import (
	"fmt"
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

// BoldWeight is the lowest numeric weight rendered with the bold face.
const BoldWeight = 600

var (
	parseOnce   sync.Once
	regularFont *truetype.Font
	boldFont    *truetype.Font
	parseErr    error
)

func goFonts() (*truetype.Font, *truetype.Font, error) {
	parseOnce.Do(func() {
		if regularFont, parseErr = truetype.Parse(goregular.TTF); parseErr != nil {
			parseErr = fmt.Errorf("parse regular font: %w", parseErr)
			return
		}
		if boldFont, parseErr = truetype.Parse(gobold.TTF); parseErr != nil {
			parseErr = fmt.Errorf("parse bold font: %w", parseErr)
		}
	})
	return regularFont, boldFont, parseErr
}

// FontBytes returns the embedded TTF used for weight.
func FontBytes(weight int) []byte {
	if weight >= BoldWeight {
		return gobold.TTF
	}
	return goregular.TTF
}

// TrueTypeProvider renders the Go fonts at the requested pixel size. It falls
// back to BasicProvider if the embedded fonts cannot be parsed.
type TrueTypeProvider struct{}

func (TrueTypeProvider) Resolve(spec FontSpec) (font.Face, float64, Metrics) {
	regular, bold, err := goFonts()
	if err != nil {
		return BasicProvider{}.Resolve(spec)
	}
	f := regular
	if spec.Weight >= BoldWeight {
		f = bold
	}
	size := spec.SizePx
	if size <= 0 {
		size = 12
	}
	face := truetype.NewFace(f, &truetype.Options{Size: size, DPI: 72, Hinting: font.HintingNone})
	m := face.Metrics()
	asc := float64(m.Ascent) / 64
	desc := float64(m.Descent) / 64
	height := float64(m.Height) / 64
	return face, 1, Metrics{Ascent: asc, Descent: desc, LineGap: max(0, height-asc-desc)}
}
