/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"posterstudio/internal/canvas"
	"posterstudio/internal/domain"
)

// Check is one line of the export readiness list.
type Check struct {
	Label string `json:"label"`
	OK    bool   `json:"ok"`
}

// Checklist reports whether a session is ready to export. Only the category
// and language checks block BuildTemplate; the others are advisory.
func Checklist(s domain.Session) []Check {
	h := s.CanvasHeight
	if h <= 0 {
		h = canvas.DefaultHeight
	}
	return []Check{
		{Label: "Background uploaded", OK: s.Background != ""},
		{Label: "Primary category selected", OK: len(s.Tags) > 0},
		{Label: "Language selected", OK: len(s.Languages) > 0},
		{Label: "Photo in bounds", OK: s.Image.InBounds(h)},
		{Label: "Name in bounds", OK: s.Name.InBounds(h)},
	}
}

// Ready reports whether every check passed.
func Ready(checks []Check) bool {
	for _, c := range checks {
		if !c.OK {
			return false
		}
	}
	return true
}
