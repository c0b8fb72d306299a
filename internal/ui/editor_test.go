/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package ui

import (
	"context"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"posterstudio/internal/canvas"
	"posterstudio/internal/config"
	"posterstudio/internal/domain"
	"posterstudio/internal/export"
	"posterstudio/internal/gesture"
	"posterstudio/internal/storage"
)

func writePNG(t *testing.T, dir string, w, h int) string {
	t.Helper()
	path := filepath.Join(dir, "bg.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer func() { _ = f.Close() }()
	if err := png.Encode(f, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return path
}

func newTestEditor(t *testing.T) *Editor {
	t.Helper()
	return NewEditor(filepath.Join(t.TempDir(), "poster.json"), domain.DefaultSession(), config.Defaults().Editor)
}

func TestSetBackgroundMatchesCanvasHeight(t *testing.T) {
	e := newTestEditor(t)
	bg := writePNG(t, t.TempDir(), 108, 162)
	if err := e.SetBackground(bg, 0, 0); err != nil {
		t.Fatalf("SetBackground: %v", err)
	}
	if e.Session.CanvasHeight != 1620 || e.Session.SourceWidth != 108 || e.Session.MediaType != domain.MediaImage {
		t.Fatalf("unexpected session %+v", e.Session)
	}
	if _, h := e.Store.CanvasSize(); h != 1620 {
		t.Fatalf("store canvas height = %v", h)
	}

	square := writePNG(t, t.TempDir(), 100, 100)
	if err := e.SetBackground(square, 0, 0); !errors.Is(err, canvas.ErrUnsupportedAspectRatio) {
		t.Fatalf("expected ErrUnsupportedAspectRatio, got %v", err)
	}
	if e.Session.Background != bg {
		t.Fatalf("failed upload must keep the previous background")
	}
}

func TestSetBackgroundVideo(t *testing.T) {
	e := newTestEditor(t)
	if err := e.SetBackground("clip.mp4", 0, 0); err == nil {
		t.Fatalf("expected error for video without size")
	}
	if err := e.SetBackground("clip.mp4", 1080, 1152); err != nil {
		t.Fatalf("SetBackground video: %v", err)
	}
	if e.Session.MediaType != domain.MediaVideo || e.Session.CanvasHeight != 1152 {
		t.Fatalf("unexpected session %+v", e.Session)
	}
}

func TestSetNameWidthPercent(t *testing.T) {
	e := newTestEditor(t)
	e.SetNameWidthPercent(50)
	if e.Session.Name.Width != 540 || e.Session.Name.X != 270 || e.Session.Text.MaxWidthPercent != 50 {
		t.Fatalf("name = %+v", e.Session.Name)
	}
}

func TestSaveAndReopen(t *testing.T) {
	e := newTestEditor(t)
	e.Store.Select(gesture.LayerImage)
	e.Controller.Key(gesture.KeyEvent{Key: gesture.KeyDown, Shift: true})
	if err := e.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}
	again, err := OpenEditor(e.Path, config.Defaults().Editor)
	if err != nil {
		t.Fatalf("OpenEditor: %v", err)
	}
	if again.Session.Image.Y != 208 {
		t.Fatalf("reopened image y = %v", again.Session.Image.Y)
	}

	fresh, err := OpenEditor(filepath.Join(t.TempDir(), "new.json"), config.Defaults().Editor)
	if err != nil || fresh.Session.Image.Y != 200 {
		t.Fatalf("missing file should give defaults: %v", err)
	}
	bad := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(bad, []byte("{"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := OpenEditor(bad, config.Defaults().Editor); err == nil {
		t.Fatalf("expected error for corrupt session")
	}
}

func TestExportWritesFileAndRecordsLibrary(t *testing.T) {
	e := newTestEditor(t)
	if _, _, err := e.Export(context.Background(), t.TempDir(), time.Now()); !errors.Is(err, export.ErrNoPrimaryCategory) {
		t.Fatalf("expected ErrNoPrimaryCategory, got %v", err)
	}

	lib, err := storage.OpenLibrary(filepath.Join(t.TempDir(), "library.sqlite"))
	if err != nil {
		t.Fatalf("OpenLibrary: %v", err)
	}
	defer func() { _ = lib.Close() }()
	e.Library = lib

	if err := e.SetBackground(writePNG(t, t.TempDir(), 108, 135), 0, 0); err != nil {
		t.Fatalf("SetBackground: %v", err)
	}
	e.Session.ToggleTag("Health")
	e.Session.ToggleLanguage("Telugu")

	dir := t.TempDir()
	now := time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)
	path, tpl, err := e.Export(context.Background(), dir, now)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if path != filepath.Join(dir, "template-2026-10-19T08-00-00.json") {
		t.Fatalf("export path = %s", path)
	}
	if tpl.Background == nil || !strings.HasPrefix(*tpl.Background, "data:image/png;base64,") {
		t.Fatalf("background should be embedded as data URL")
	}
	if tpl.AspectRatio != "4:5" {
		t.Fatalf("aspect ratio = %s", tpl.AspectRatio)
	}
	entries, err := lib.Search(context.Background(), storage.Query{Tag: "Health"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(entries) != 1 || entries[0].Path != path || entries[0].Name != "poster" || len(entries[0].Hash) != 64 {
		t.Fatalf("library entries = %+v", entries)
	}
}

func TestNewEditorAppliesUndoLimit(t *testing.T) {
	cfg := config.Defaults().Editor
	cfg.UndoMaxPerLayer = 1
	ed := NewEditor(filepath.Join(t.TempDir(), "poster.json"), domain.DefaultSession(), cfg)
	for _, drag := range [][2]gesture.Point{{{X: 540, Y: 350}, {X: 540, Y: 450}}, {{X: 540, Y: 450}, {X: 540, Y: 480}}} {
		ed.Controller.PointerDown(drag[0])
		ed.Controller.PointerMove(drag[1])
		if _, ok := ed.Controller.PointerUp(); !ok {
			t.Fatalf("drag %v did not commit", drag)
		}
	}
	if got := ed.Store.Image(); got.Y != 330 {
		t.Fatalf("unexpected photo after drags: %+v", got)
	}
	if !ed.Store.Undo() || ed.Store.Image().Y != 300 {
		t.Fatalf("undo should return to y 300, got %+v", ed.Store.Image())
	}
	if ed.Store.Undo() {
		t.Fatalf("undo_max_per_layer=1 should keep one step")
	}
}
