/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"errors"
	"testing"

	"posterstudio/internal/domain"
)

func readySession() domain.Session {
	s := domain.DefaultSession()
	s.SourceWidth, s.SourceHeight = 1080, 1350
	s.Tags = []string{"Birthday"}
	s.Languages = []string{"Telugu"}
	return s
}

func TestBuildTemplateRequiresCategoryAndLanguage(t *testing.T) {
	s := domain.DefaultSession()
	if _, err := BuildTemplate(s); !errors.Is(err, ErrNoPrimaryCategory) {
		t.Fatalf("expected ErrNoPrimaryCategory, got %v", err)
	}
	s.Tags = []string{"Birthday"}
	if _, err := BuildTemplate(s); !errors.Is(err, ErrNoLanguage) {
		t.Fatalf("expected ErrNoLanguage, got %v", err)
	}
}

func TestBuildTemplateDefaultSession(t *testing.T) {
	tpl, err := BuildTemplate(readySession())
	if err != nil {
		t.Fatalf("BuildTemplate: %v", err)
	}
	data, err := Marshal(tpl)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	want := `{"ar":"4:5","t":true,"pc":["Birthday"],"lg":["Telugu"],"bg":null,"mt":"image",` +
		`"ip":{"x":36,"y":15,"d":28,"sh":"circle","hb":false,"sw":0,"sc":"#FFFFFF"},` +
		`"np":{"y":41,"st":{"ts":{"c":"#FFFFFF","fs":48,"fw":700,"ls":0,"sh":null,"st":{"w":0,"col":"#000000"},"ta":"center"}}}}`
	if string(data) != want {
		t.Fatalf("unexpected export\n got: %s\nwant: %s", data, want)
	}
}

func TestBuildTemplateSquarePhotoAndShadow(t *testing.T) {
	s := readySession()
	s.Background = "data:image/png;base64,AAAA"
	s.Photo.Shape = domain.ShapeSquare
	s.Photo.CornerRadius = 16
	s.Photo.StrokeColor = "f00"
	s.Text.Color = ""
	s.Text.Shadow = domain.TextShadow{OffsetY: 2, Blur: 8, Color: "#000", Opacity: 65}
	tpl, err := BuildTemplate(s)
	if err != nil {
		t.Fatalf("BuildTemplate: %v", err)
	}
	if tpl.Image.CornerRadius == nil || *tpl.Image.CornerRadius != 16 {
		t.Fatalf("expected cr=16 for square photos, got %v", tpl.Image.CornerRadius)
	}
	if tpl.Image.StrokeColor != "#FF0000" {
		t.Fatalf("photo stroke color = %s", tpl.Image.StrokeColor)
	}
	ts := tpl.Name.Style.Text
	if ts.Color != "#FFFFFF" {
		t.Fatalf("empty text color should fall back to white, got %s", ts.Color)
	}
	if ts.Shadow == nil || ts.Shadow.Opacity != 0.65 || ts.Shadow.Color != "#000000" {
		t.Fatalf("unexpected shadow block: %+v", ts.Shadow)
	}
	if tpl.Background == nil || *tpl.Background != s.Background {
		t.Fatalf("background not carried over")
	}
	if tpl.Name.Height != nil || ts.ShadowRN != nil || ts.StrokeRN != nil {
		t.Fatalf("react native fields present without the option")
	}
}

func TestBuildTemplateReactNativeVariant(t *testing.T) {
	s := readySession()
	s.Text.Stroke = domain.TextStroke{Width: 2, Color: "abc"}
	s.Text.Shadow = domain.TextShadow{OffsetY: 2, Blur: 8, Color: "#000000", Opacity: 65}
	tpl, err := BuildTemplate(s, WithReactNative(), WithBackground("data:image/jpeg;base64,AA"))
	if err != nil {
		t.Fatalf("BuildTemplate: %v", err)
	}
	if tpl.Name.Height == nil || *tpl.Name.Height != 7 {
		t.Fatalf("expected name height 7%%, got %v", tpl.Name.Height)
	}
	ts := tpl.Name.Style.Text
	if ts.ShadowRN == nil || ts.ShadowRN.TextShadowColor != "rgba(0,0,0,0.65)" || ts.ShadowRN.TextShadowRadius != 8 {
		t.Fatalf("unexpected RN shadow: %+v", ts.ShadowRN)
	}
	if ts.StrokeRN == nil || len(*ts.StrokeRN) != 24 || (*ts.StrokeRN)[0].TextShadowColor != "#AABBCC" {
		t.Fatalf("unexpected RN stroke shadows")
	}
	if tpl.Background == nil || *tpl.Background != "data:image/jpeg;base64,AA" {
		t.Fatalf("background override ignored")
	}
}

func TestBuildTemplateUsesCanvasHeightForVerticalPercent(t *testing.T) {
	s := readySession()
	s.CanvasHeight = 1152
	s.SourceWidth, s.SourceHeight = 1080, 1152
	s.Image.Y = 576
	tpl, err := BuildTemplate(s)
	if err != nil {
		t.Fatalf("BuildTemplate: %v", err)
	}
	if tpl.Image.Y != 50 {
		t.Fatalf("image y = %v, want 50", tpl.Image.Y)
	}
	if tpl.AspectRatio != "15:16" {
		t.Fatalf("aspect ratio = %q, want 15:16", tpl.AspectRatio)
	}
}

func TestTemplateSummary(t *testing.T) {
	tpl, _ := BuildTemplate(readySession())
	if got := tpl.Summary(); got != "profile template, ar=4:5, 1 categories, 1 languages" {
		t.Fatalf("Summary() = %q", got)
	}
}
