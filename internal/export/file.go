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
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"posterstudio/internal/domain"
	"posterstudio/internal/storage"
)

// Marshal encodes t as minified JSON without HTML escaping, the form the
// mobile app expects.
func Marshal(t Template) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(t); err != nil {
		return nil, fmt.Errorf("encode template: %w", err)
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// WriteFile validates t and writes it to path atomically.
func WriteFile(path string, t Template) error {
	data, err := Marshal(t)
	if err != nil {
		return err
	}
	if err := Validate(data); err != nil {
		return err
	}
	if err := storage.WriteFileAtomic(path, data); err != nil {
		return fmt.Errorf("write template: %w", err)
	}
	return nil
}

// FileName returns the download name for an export made at now, e.g.
// template-2026-10-19T12-34-56.json (UTC, colons replaced).
func FileName(now time.Time) string {
	return "template-" + now.UTC().Format("2006-01-02T15-04-05") + ".json"
}

// DataURL reads a background file and returns it as a base64 data URL.
// Inputs that already are data URLs are returned unchanged.
func DataURL(path string) (string, error) {
	if strings.HasPrefix(path, "data:") {
		return path, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read background: %w", err)
	}
	return "data:" + contentType(path, b) + ";base64," + base64.StdEncoding.EncodeToString(b), nil
}

// videoExts covers formats missing from minimal system mime tables.
var videoExts = map[string]string{
	".mp4":  "video/mp4",
	".m4v":  "video/mp4",
	".mov":  "video/quicktime",
	".webm": "video/webm",
}

func contentType(path string, b []byte) string {
	ext := strings.ToLower(filepath.Ext(path))
	if ct, ok := videoExts[ext]; ok {
		return ct
	}
	if ct := mime.TypeByExtension(ext); ct != "" {
		if i := strings.IndexByte(ct, ';'); i >= 0 {
			ct = ct[:i]
		}
		return ct
	}
	return http.DetectContentType(b)
}

// MediaTypeFor classifies a background path or data URL as image or video.
func MediaTypeFor(background string) domain.MediaType {
	ct := ""
	if rest, ok := strings.CutPrefix(background, "data:"); ok {
		ct, _, _ = strings.Cut(rest, ";")
	} else {
		ext := strings.ToLower(filepath.Ext(background))
		if ct = videoExts[ext]; ct == "" {
			ct = mime.TypeByExtension(ext)
		}
	}
	if strings.HasPrefix(ct, "video/") {
		return domain.MediaVideo
	}
	return domain.MediaImage
}
