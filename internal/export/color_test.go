/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"testing"

	"posterstudio/internal/domain"
)

func TestNormalizeHex(t *testing.T) {
	cases := []struct {
		in, fallback, want string
	}{
		{"#abc", "#FFFFFF", "#AABBCC"},
		{"12345", "#FFFFFF", "#123450"},
		{"zz", "#000000", "#000000"},
		{"", "#FFFFFF", "#FFFFFF"},
		{"#1234567890", "#FFFFFF", "#123456"},
		{" #ff00gg ", "#FFFFFF", "#FF0000"},
		{"#00ff7F", "#FFFFFF", "#00FF7F"},
	}
	for _, c := range cases {
		if got := NormalizeHex(c.in, c.fallback); got != c.want {
			t.Fatalf("NormalizeHex(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestHexToRGBA(t *testing.T) {
	if got := HexToRGBA("#FF8000", 65); got != "rgba(255,128,0,0.65)" {
		t.Fatalf("got %s", got)
	}
	if got := HexToRGBA("zz", 100); got != "rgba(0,0,0,1.00)" {
		t.Fatalf("got %s", got)
	}
	if got := HexToRGBA("#1g0000", 0); got != "rgba(1,0,0,0.00)" {
		t.Fatalf("leading digits should parse, got %s", got)
	}
}

func TestShadowToCSS(t *testing.T) {
	if got := ShadowToCSS(domain.TextShadow{Color: "#000000"}); got != "none" {
		t.Fatalf("zero shadow = %q", got)
	}
	sh := domain.TextShadow{OffsetY: 2, Blur: 8, Color: "#000000", Opacity: 65}
	if got := ShadowToCSS(sh); got != "0px 2px 8px rgba(0,0,0,0.65)" {
		t.Fatalf("got %q", got)
	}
	if got := CombinedTextShadow(sh, domain.TextStroke{}); got != "0px 2px 8px rgba(0,0,0,0.65)" {
		t.Fatalf("combined without stroke = %q", got)
	}
	if got := CombinedTextShadow(domain.TextShadow{}, domain.TextStroke{}); got != "none" {
		t.Fatalf("combined empty = %q", got)
	}
}

func TestStrokeToRNShadows(t *testing.T) {
	if got := StrokeToRNShadows(domain.TextStroke{Width: 0, Color: "#000000"}); got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil list, got %v", got)
	}
	got := StrokeToRNShadows(domain.TextStroke{Width: 4, Color: "#111111"})
	if len(got) != 36 {
		t.Fatalf("expected 36 shadows for a 4px stroke, got %d", len(got))
	}
	if got[0].TextShadowOffset != (RNOffset{Width: 4, Height: 0}) || got[0].TextShadowRadius != 0 || got[0].TextShadowColor != "#111111" {
		t.Fatalf("unexpected first shadow %+v", got[0])
	}
}
