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
	"fmt"
	"image"
	"log/slog"
	"unicode/utf8"

	"github.com/fogleman/gg"

	"posterstudio/internal/canvas"
	"posterstudio/internal/domain"
	applog "posterstudio/internal/log"
	"posterstudio/internal/storage"
	"posterstudio/internal/textlayout"
)

// ProofImage rasterizes the session: background (or a flat fill), the photo
// placeholder with its frame, and the name with stroke and shadow.
func ProofImage(s domain.Session, opt ProofOptions) image.Image {
	scale := opt.scale()
	w, h := proofSize(s, scale)
	dc := gg.NewContext(w, h)
	dc.Scale(scale, scale)
	ch := canvasHeight(s)

	if bg, err := loadBackground(s.Background); err == nil {
		b := bg.Bounds()
		dc.Push()
		dc.Scale(canvas.Width/float64(b.Dx()), ch/float64(b.Dy()))
		dc.DrawImage(bg, 0, 0)
		dc.Pop()
	} else {
		dc.SetRGB255(proofCanvasRGB[0], proofCanvasRGB[1], proofCanvasRGB[2])
		dc.Clear()
	}

	drawPhoto(dc, s)
	drawName(dc, s, opt)
	return dc.Image()
}

func drawPhoto(dc *gg.Context, s domain.Session) {
	im := s.Image
	path := func() {
		if s.Photo.Shape == domain.ShapeSquare {
			dc.DrawRoundedRectangle(im.X, im.Y, im.Diameter, im.Diameter, s.Photo.CornerRadius)
			return
		}
		dc.DrawCircle(im.X+im.Diameter/2, im.Y+im.Diameter/2, im.Diameter/2)
	}
	path()
	dc.SetRGB255(proofPhotoRGB[0], proofPhotoRGB[1], proofPhotoRGB[2])
	dc.Fill()
	if s.Photo.StrokeWidth > 0 {
		path()
		r, g, b := hexRGB(s.Photo.StrokeColor, "#FFFFFF")
		dc.SetRGB255(r, g, b)
		dc.SetLineWidth(s.Photo.StrokeWidth)
		dc.Stroke()
	}
}

func drawName(dc *gg.Context, s domain.Session, opt ProofOptions) {
	p := opt.provider()
	lines, box := nameLines(s, p)
	face, _, _ := p.Resolve(textlayout.FontSpec{SizePx: s.Text.FontSize, Weight: s.Text.FontWeight})
	dc.SetFontFace(face)

	pass := func(dx, dy float64) {
		for _, l := range lines {
			drawSpaced(dc, l.Text, l.X+dx, l.Baseline+dy, box.Scale, s.Text.LetterSpacing)
		}
	}
	if sh := s.Text.Shadow; !sh.IsZero() {
		r, g, b := hexRGB(sh.Color, "#000000")
		dc.SetRGBA255(r, g, b, int(clamp01(sh.Opacity/100)*255))
		pass(sh.OffsetX, sh.OffsetY)
	}
	if ring := textlayout.StrokeRing(s.Text.Stroke.Width); len(ring) > 0 {
		r, g, b := hexRGB(s.Text.Stroke.Color, "#000000")
		dc.SetRGB255(r, g, b)
		for _, o := range ring {
			pass(o.DX, o.DY)
		}
	}
	r, g, b := hexRGB(s.Text.Color, "#FFFFFF")
	dc.SetRGB255(r, g, b)
	pass(0, 0)

	if opt.Guides {
		dc.SetRGB255(proofGuideRGB[0], proofGuideRGB[1], proofGuideRGB[2])
		dc.SetLineWidth(2)
		dc.SetDash(8, 6)
		dc.DrawRectangle(s.Name.X, s.Name.Y, s.Name.Width, s.Name.Height)
		dc.Stroke()
		dc.SetDash()
	}
}

// drawSpaced draws text with its baseline at (x, y). Faces that need scaling
// are drawn in a scaled frame; letter spacing is applied rune by rune.
func drawSpaced(dc *gg.Context, text string, x, y, scale, spacing float64) {
	dc.Push()
	defer dc.Pop()
	dc.Translate(x, y)
	if scale > 0 && scale != 1 {
		dc.Scale(scale, scale)
		spacing /= scale
	}
	if spacing == 0 || utf8.RuneCountInString(text) < 2 {
		dc.DrawString(text, 0, 0)
		return
	}
	cx := 0.0
	for _, r := range text {
		ch := string(r)
		dc.DrawString(ch, cx, 0)
		w, _ := dc.MeasureString(ch)
		cx += w + spacing
	}
}

func clamp01(v float64) float64 { return max(0, min(1, v)) }

// RenderProofPNG writes ProofImage to path.
func RenderProofPNG(s domain.Session, path string, opt ProofOptions) error {
	l := applog.WithOperation(applog.WithComponent("export"), "proof_png").With(slog.String("path", path))
	img := ProofImage(s, opt)
	dc := gg.NewContextForImage(img)
	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	if err := storage.WriteFileAtomic(path, buf.Bytes()); err != nil {
		l.Error("write proof failed", slog.Any("err", err))
		return fmt.Errorf("write png: %w", err)
	}
	b := img.Bounds()
	l.Debug("proof written", slog.Int("w", b.Dx()), slog.Int("h", b.Dy()))
	return nil
}
