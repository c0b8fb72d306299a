/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */
package domain

import "testing"

func TestToggleTagRespectsTemplateType(t *testing.T) {
	s := DefaultSession()
	if !s.ToggleTag("Love") {
		t.Fatalf("Love is a Self category")
	}
	if s.ToggleTag("Birthday") {
		t.Fatalf("Birthday is not a Self category")
	}
	if len(s.Tags) != 1 || s.Tags[0] != "Love" {
		t.Fatalf("unexpected tags %v", s.Tags)
	}
	s.ToggleTag("Love")
	if len(s.Tags) != 0 {
		t.Fatalf("second toggle should remove the tag, got %v", s.Tags)
	}
}

func TestSetProfileClearsTags(t *testing.T) {
	s := DefaultSession()
	s.ToggleTag("Health")
	s.SetProfile(true)
	if len(s.Tags) != 1 {
		t.Fatalf("keeping the same template type must keep tags")
	}
	s.SetProfile(false)
	if len(s.Tags) != 0 {
		t.Fatalf("switching template type must clear tags, got %v", s.Tags)
	}
	if got := s.AvailableTags(); len(got) != 2 {
		t.Fatalf("Wishes templates offer 2 categories, got %v", got)
	}
}

func TestStepProgress(t *testing.T) {
	s := DefaultSession()
	s.Background = "bg.jpg"
	if s.Step() != 2 {
		t.Fatalf("expected step 2 without tags")
	}
	s.ToggleTag("Sad")
	s.ToggleLanguage("Telugu")
	if s.ToggleLanguage("Klingon") {
		t.Fatalf("unknown language accepted")
	}
	if s.Step() != 3 {
		t.Fatalf("expected step 3, got %d", s.Step())
	}
}
