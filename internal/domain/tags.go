/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */
package domain

import "slices"

// ProfileTags are the primary categories of "Self" templates.
var ProfileTags = []string{
	"Health",
	"Good Night",
	"Devotional",
	"Good Morning",
	"Life",
	"Sad",
	"Love",
	"Parents",
	"Motivation",
	"Money",
	"Friendship",
	"Personalities",
}

// UploadTags are the primary categories of "Wishes" templates.
var UploadTags = []string{"Birthday", "Anniversary"}

var LanguageTags = []string{
	"Bengali", "English", "Gujarati", "Hindi", "Kannada", "Malayalam", "Marathi", "Punjabi", "Tamil", "Telugu",
}

// AvailableTags returns the category list for the session's template type.
func (s Session) AvailableTags() []string {
	if s.Profile {
		return ProfileTags
	}
	return UploadTags
}

// SetProfile switches the template type. Switching clears the selected tags
// because the two category lists do not overlap.
func (s *Session) SetProfile(profile bool) {
	if s.Profile != profile {
		s.Tags = []string{}
	}
	s.Profile = profile
}

// ToggleTag adds or removes a category. Unknown tags are ignored and reported
// as false.
func (s *Session) ToggleTag(tag string) bool {
	if !slices.Contains(s.AvailableTags(), tag) {
		return false
	}
	s.Tags = toggle(s.Tags, tag)
	return true
}

// ToggleLanguage adds or removes a language tag.
func (s *Session) ToggleLanguage(lang string) bool {
	if !slices.Contains(LanguageTags, lang) {
		return false
	}
	s.Languages = toggle(s.Languages, lang)
	return true
}

func toggle(list []string, v string) []string {
	if i := slices.Index(list, v); i >= 0 {
		return slices.Delete(slices.Clone(list), i, i+1)
	}
	return append(slices.Clone(list), v)
}
