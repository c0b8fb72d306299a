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
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"posterstudio/internal/canvas"
	"posterstudio/internal/domain"
	applog "posterstudio/internal/log"
	"posterstudio/internal/storage"
	"posterstudio/internal/textlayout"
)

const pdfFontFamily = "GoFont"

// RenderProofPDF writes a one-page vector proof with the page sized to the
// canvas (1 canvas px = 1 pt). The name is set in the embedded Go font so
// non-Latin-1 names survive.
func RenderProofPDF(s domain.Session, path string, opt ProofOptions) error {
	l := applog.WithOperation(applog.WithComponent("export"), "proof_pdf").With(slog.String("path", path))
	pdf, err := buildProofPDF(s, opt)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	if err := storage.WriteFileAtomic(path, buf.Bytes()); err != nil {
		l.Error("write proof failed", slog.Any("err", err))
		return fmt.Errorf("write pdf: %w", err)
	}
	l.Debug("proof written", slog.Int("bytes", buf.Len()))
	return nil
}

func buildProofPDF(s domain.Session, opt ProofOptions) (*gofpdf.Fpdf, error) {
	w := float64(canvas.Width)
	h := canvasHeight(s)
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: w, Ht: h},
	})
	pdf.SetTitle("Poster proof", true)
	pdf.SetAuthor("Poster Studio", true)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(0, 0, 0)
	pdf.AddUTF8FontFromBytes(pdfFontFamily, "", textlayout.FontBytes(400))
	pdf.AddUTF8FontFromBytes(pdfFontFamily, "B", textlayout.FontBytes(textlayout.BoldWeight))
	pdf.AddPage()

	if !drawPDFBackground(pdf, s.Background, w, h) {
		pdf.SetFillColor(proofCanvasRGB[0], proofCanvasRGB[1], proofCanvasRGB[2])
		pdf.Rect(0, 0, w, h, "F")
	}

	// photo placeholder
	im := s.Image
	pdf.SetFillColor(proofPhotoRGB[0], proofPhotoRGB[1], proofPhotoRGB[2])
	style := "F"
	if s.Photo.StrokeWidth > 0 {
		r, g, b := hexRGB(s.Photo.StrokeColor, "#FFFFFF")
		pdf.SetDrawColor(r, g, b)
		pdf.SetLineWidth(s.Photo.StrokeWidth)
		style = "FD"
	}
	if s.Photo.Shape == domain.ShapeSquare {
		roundedRect(pdf, im.X, im.Y, im.Diameter, im.Diameter, s.Photo.CornerRadius, style)
	} else {
		pdf.Circle(im.X+im.Diameter/2, im.Y+im.Diameter/2, im.Diameter/2, style)
	}

	// name
	fontStyle := ""
	if s.Text.FontWeight >= textlayout.BoldWeight {
		fontStyle = "B"
	}
	pdf.SetFont(pdfFontFamily, fontStyle, s.Text.FontSize)
	pdf.SetCellMargin(0)
	lines, _ := nameLines(s, opt.provider())
	text := func(dx, dy float64) {
		for _, ln := range lines {
			pdf.Text(ln.X+dx, ln.Baseline+dy, ln.Text)
		}
	}
	if ring := textlayout.StrokeRing(s.Text.Stroke.Width); len(ring) > 0 {
		r, g, b := hexRGB(s.Text.Stroke.Color, "#000000")
		pdf.SetTextColor(r, g, b)
		for _, o := range ring {
			text(o.DX, o.DY)
		}
	}
	r, g, b := hexRGB(s.Text.Color, "#FFFFFF")
	pdf.SetTextColor(r, g, b)
	text(0, 0)

	if opt.Guides {
		pdf.SetDrawColor(proofGuideRGB[0], proofGuideRGB[1], proofGuideRGB[2])
		pdf.SetLineWidth(2)
		pdf.SetDashPattern([]float64{8, 6}, 0)
		pdf.Rect(s.Name.X, s.Name.Y, s.Name.Width, s.Name.Height, "D")
		pdf.SetDashPattern([]float64{}, 0)
	}
	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("build pdf: %w", err)
	}
	return pdf, nil
}

// drawPDFBackground places a PNG or JPEG file background stretched to the
// page. Data URLs, videos and other formats are skipped.
func drawPDFBackground(pdf *gofpdf.Fpdf, bg string, w, h float64) bool {
	if bg == "" || strings.HasPrefix(bg, "data:") {
		return false
	}
	var tp string
	switch strings.ToLower(filepath.Ext(bg)) {
	case ".png":
		tp = "PNG"
	case ".jpg", ".jpeg":
		tp = "JPG"
	default:
		return false
	}
	if _, err := loadBackground(bg); err != nil {
		return false
	}
	pdf.ImageOptions(bg, 0, 0, w, h, false, gofpdf.ImageOptions{ImageType: tp}, 0, "")
	return pdf.Ok()
}

// roundedRect draws a rectangle with circular corners of radius r using
// cubic Bezier arcs.
func roundedRect(pdf *gofpdf.Fpdf, x, y, w, h, r float64, style string) {
	r = max(0, min(r, w/2, h/2))
	if r == 0 {
		pdf.Rect(x, y, w, h, style)
		return
	}
	const kappa = 0.5522847498
	k := r * kappa
	pdf.MoveTo(x+r, y)
	pdf.LineTo(x+w-r, y)
	pdf.CurveBezierCubicTo(x+w-r+k, y, x+w, y+r-k, x+w, y+r)
	pdf.LineTo(x+w, y+h-r)
	pdf.CurveBezierCubicTo(x+w, y+h-r+k, x+w-r+k, y+h, x+w-r, y+h)
	pdf.LineTo(x+r, y+h)
	pdf.CurveBezierCubicTo(x+r-k, y+h, x, y+h-r+k, x, y+h-r)
	pdf.LineTo(x, y+r)
	pdf.CurveBezierCubicTo(x, y+r-k, x+r-k, y, x+r, y)
	pdf.ClosePath()
	pdf.DrawPath(style)
}
