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
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"posterstudio/internal/canvas"
	"posterstudio/internal/catalog"
	"posterstudio/internal/config"
	"posterstudio/internal/domain"
	"posterstudio/internal/export"
	"posterstudio/internal/gesture"
	applog "posterstudio/internal/log"
	"posterstudio/internal/storage"
	"posterstudio/internal/telemetry"
)

// Editor ties a session document to the gesture store and controller and
// implements the host actions shared by the desktop shell and the CLI.
type Editor struct {
	Path       string
	Session    domain.Session
	Store      *gesture.Store
	Controller *gesture.Controller
	// Library, when set, records every export.
	Library *storage.Library

	log *slog.Logger
}

// GestureOptions maps the editor section of the config onto controller
// options.
func GestureOptions(c config.EditorConfig) gesture.Options {
	return gesture.Options{
		Threshold:     c.SnapThreshold,
		Step:          c.KeyboardStep,
		ShiftStep:     c.KeyboardShiftStep,
		CornerHitSize: c.CornerHitSize,
		Resizable:     true,
	}
}

// NewEditor wraps s. path is where Save writes; it may be empty for scratch
// documents.
func NewEditor(path string, s domain.Session, cfg config.EditorConfig) *Editor {
	st := gesture.NewStore(s)
	if cfg.MinDiameter > 0 && cfg.MaxDiameter >= cfg.MinDiameter {
		st.SetDiameterLimits(cfg.MinDiameter, cfg.MaxDiameter)
	}
	if cfg.UndoMaxPerLayer > 0 {
		st.SetUndoLimit(cfg.UndoMaxPerLayer)
	}
	return &Editor{
		Path:       path,
		Session:    s,
		Store:      st,
		Controller: gesture.NewController(st, GestureOptions(cfg)),
		log:        applog.WithComponent("editor"),
	}
}

// OpenEditor loads the session at path, or starts from the defaults when the
// file and its backups do not exist yet.
func OpenEditor(path string, cfg config.EditorConfig) (*Editor, error) {
	s := domain.DefaultSession()
	if path != "" {
		loaded, err := storage.LoadSession(path)
		if err == nil {
			s = loaded
		} else if _, statErr := os.Stat(path); statErr == nil {
			return nil, err
		}
	}
	return NewEditor(path, s, cfg), nil
}

// Sync copies committed geometry from the store into the session and
// returns the session.
func (e *Editor) Sync() domain.Session {
	e.Store.Apply(&e.Session)
	return e.Session
}

// Save writes the session to Path.
func (e *Editor) Save() error {
	if e.Path == "" {
		return errors.New("session has no file path")
	}
	if err := storage.SaveSession(e.Path, e.Sync()); err != nil {
		return err
	}
	e.log.Debug("session saved", slog.String("path", e.Path))
	return nil
}

// SetBackground uses the file at path as background. Images are measured
// from their header; for videos the caller passes the frame size. The canvas
// switches to the supported height that matches the media.
func (e *Editor) SetBackground(path string, width, height int) error {
	mt := export.MediaTypeFor(path)
	if width <= 0 || height <= 0 {
		if mt == domain.MediaVideo {
			return errors.New("video backgrounds need an explicit frame size")
		}
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("open background: %w", err)
		}
		cfg, _, err := image.DecodeConfig(f)
		_ = f.Close()
		if err != nil {
			return fmt.Errorf("decode background: %w", err)
		}
		width, height = cfg.Width, cfg.Height
	}
	size, err := canvas.MatchHeight(width, height)
	if err != nil {
		return err
	}
	e.Sync()
	e.Session.Background = path
	e.Session.MediaType = mt
	e.Session.SourceWidth, e.Session.SourceHeight = width, height
	e.Session.CanvasHeight = float64(size.Height)
	e.Store.SetCanvasHeight(float64(size.Height))
	e.Sync()
	e.log.Info("background set", slog.String("path", path), slog.String("size", size.Label), slog.String("media", string(mt)))
	return nil
}

// SetNameWidthPercent updates the text max width and resizes the name box.
func (e *Editor) SetNameWidthPercent(p float64) {
	e.Session.Text.MaxWidthPercent = p
	e.Store.SetNameWidthPercent(p)
	e.Sync()
}

// Checklist reports export readiness for the current geometry.
func (e *Editor) Checklist() []export.Check {
	return export.Checklist(e.Sync())
}

// Template builds the export document. Backgrounds given as file paths are
// embedded as data URLs.
func (e *Editor) Template(opts ...export.Option) (export.Template, error) {
	s := e.Sync()
	if s.Background != "" && !strings.HasPrefix(s.Background, "data:") {
		bg, err := export.DataURL(s.Background)
		if err != nil {
			return export.Template{}, err
		}
		opts = append([]export.Option{export.WithBackground(bg)}, opts...)
	}
	return export.BuildTemplate(s, opts...)
}

// Export writes the template into dir under its timestamped file name,
// records it in the library and reports the export event.
func (e *Editor) Export(ctx context.Context, dir string, now time.Time, opts ...export.Option) (string, export.Template, error) {
	tpl, err := e.Template(opts...)
	if err != nil {
		return "", export.Template{}, err
	}
	if dir == "" {
		dir = "."
	}
	path := filepath.Join(dir, export.FileName(now))
	if err := export.WriteFile(path, tpl); err != nil {
		return "", export.Template{}, err
	}
	if e.Library != nil {
		data, err := export.Marshal(tpl)
		if err != nil {
			return "", export.Template{}, err
		}
		_, err = e.Library.Record(ctx, storage.Entry{
			Name:        e.entryName(),
			Path:        path,
			Hash:        catalog.ContentHash(data),
			AspectRatio: tpl.AspectRatio,
			Profile:     tpl.Profile,
			Tags:        tpl.Categories,
			Languages:   tpl.Languages,
			CreatedAt:   now,
		})
		if err != nil {
			e.log.Warn("library record failed", slog.Any("err", err))
		}
	}
	telemetry.Default().TemplateExported(tpl.AspectRatio, tpl.Profile, len(tpl.Categories), len(tpl.Languages))
	e.log.Info("template exported", slog.String("path", path), slog.String("summary", tpl.Summary()))
	return path, tpl, nil
}

func (e *Editor) entryName() string {
	if e.Path != "" {
		return strings.TrimSuffix(filepath.Base(e.Path), filepath.Ext(e.Path))
	}
	return strings.Join(e.Session.Tags, " ")
}

// Publish sends the current template to the shared catalog.
func (e *Editor) Publish(ctx context.Context, cat *catalog.Catalog, name string) (catalog.Published, error) {
	tpl, err := e.Template()
	if err != nil {
		return catalog.Published{}, err
	}
	data, err := export.Marshal(tpl)
	if err != nil {
		return catalog.Published{}, err
	}
	if err := export.Validate(data); err != nil {
		return catalog.Published{}, err
	}
	if name == "" {
		name = e.entryName()
	}
	p, err := cat.Publish(ctx, name, data)
	if err != nil {
		return catalog.Published{}, err
	}
	telemetry.Default().TemplatePublished(tpl.AspectRatio)
	return p, nil
}
