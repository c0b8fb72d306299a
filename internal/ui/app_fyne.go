//go:build fyne && cgo

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
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	fstorage "fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"posterstudio/internal/catalog"
	"posterstudio/internal/config"
	"posterstudio/internal/crash"
	"posterstudio/internal/domain"
	"posterstudio/internal/export"
	"posterstudio/internal/gesture"
	applog "posterstudio/internal/log"
	"posterstudio/internal/storage"
	"posterstudio/internal/telemetry"
	"posterstudio/internal/version"
)

var fontWeights = []string{"400", "500", "600", "700", "800", "900"}

// themeFor maps general.theme to a Fyne theme. "system" and unknown values
// return nil and leave the OS preference in charge.
func themeFor(name string) fyne.Theme {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "dark":
		return theme.DarkTheme()
	case "light":
		return theme.LightTheme()
	}
	return nil
}

// Run starts the Fyne desktop editor on the session file at sessionPath. A
// missing file starts a fresh poster that is saved there.
func Run(sessionPath string) error {
	l := applog.WithComponent("ui")
	cfg, catalogPW, err := config.Load()
	if err != nil {
		l.Warn("config load failed; using defaults", slog.Any("err", err))
		cfg = config.Defaults()
	}
	ed, err := OpenEditor(sessionPath, cfg.Editor)
	if err != nil {
		return err
	}
	defer crash.Recover(sessionPath, &ed.Session)
	l.Info("starting UI", slog.String("session", sessionPath))
	telemetry.Default().Event(telemetry.EventEditorStarted, map[string]any{"ui": "fyne"})

	if cfg.Storage.LibraryPath != "" {
		if lib, err := storage.OpenLibrary(cfg.Storage.LibraryPath); err != nil {
			l.Warn("library unavailable", slog.Any("err", err))
		} else {
			ed.Library = lib
			defer func() { _ = lib.Close() }()
		}
	}

	fyneApp := app.NewWithID("posterstudio")
	if th := themeFor(cfg.General.Theme); th != nil {
		fyneApp.Settings().SetTheme(th)
	}
	w := fyneApp.NewWindow("Poster Studio")
	prefs := fyneApp.Preferences()
	w.Resize(fyne.NewSize(float32(max(prefs.IntWithFallback("window.width", 1100), 800)), float32(max(prefs.IntWithFallback("window.height", 760), 600))))

	status := widget.NewLabel("Ready")
	posterCanvas := NewPosterCanvas(ed)

	checklist := widget.NewLabel("")
	refreshChecklist := func() {
		var b strings.Builder
		for _, c := range ed.Checklist() {
			mark := "✗"
			if c.OK {
				mark = "✓"
			}
			fmt.Fprintf(&b, "%s %s\n", mark, c.Label)
		}
		checklist.SetText(strings.TrimRight(b.String(), "\n"))
	}
	refresh := func() {
		posterCanvas.Refresh()
		refreshChecklist()
	}

	ed.Store.OnChange(func(ch gesture.Change) {
		if ch.Reason == "undo" || ch.Reason == "redo" || ch.Reason == "nudge" {
			status.SetText(fmt.Sprintf("%s %s", ch.Reason, ch.Layer))
		}
		ed.Sync()
		refresh()
	})
	posterCanvas.OnCommit = func(c gesture.Commit) {
		switch c.Layer {
		case gesture.LayerImage:
			status.SetText(fmt.Sprintf("Photo at %.0f, %.0f (%.0f px)", c.Image.X, c.Image.Y, c.Image.Diameter))
		case gesture.LayerText:
			status.SetText(fmt.Sprintf("Name at y %.0f", c.Name.Y))
		}
	}

	save := func() {
		if ed.Path == "" {
			return
		}
		if err := ed.Save(); err != nil {
			dialog.ShowError(err, w)
			return
		}
		status.SetText("Saved " + filepath.Base(ed.Path))
	}

	// Step 1: background
	uploadBtn := widget.NewButton("Upload background…", func() {
		fd := dialog.NewFileOpen(func(rc fyne.URIReadCloser, err error) {
			if err != nil {
				dialog.ShowError(err, w)
				return
			}
			if rc == nil {
				return
			}
			path := rc.URI().Path()
			_ = rc.Close()
			if export.MediaTypeFor(path) == domain.MediaVideo {
				askVideoSize(w, func(vw, vh int) { applyBackground(ed, w, status, path, vw, vh, refresh) })
				return
			}
			applyBackground(ed, w, status, path, 0, 0, refresh)
		}, w)
		fd.SetFilter(fstorage.NewExtensionFileFilter([]string{".png", ".jpg", ".jpeg", ".mp4", ".mov", ".webm"}))
		fd.Show()
	})

	// Step 2: template type, categories and languages
	tagGroup := widget.NewCheckGroup(ed.Session.AvailableTags(), func(sel []string) {
		ed.Session.Tags = append([]string{}, sel...)
		refreshChecklist()
	})
	tagGroup.Horizontal = true
	tagGroup.SetSelected(ed.Session.Tags)
	typeRadio := widget.NewRadioGroup([]string{"Self", "Wishes"}, func(v string) {
		ed.Session.SetProfile(v == "Self")
		tagGroup.Options = ed.Session.AvailableTags()
		tagGroup.SetSelected(ed.Session.Tags)
		tagGroup.Refresh()
		refreshChecklist()
	})
	typeRadio.Horizontal = true
	if ed.Session.Profile {
		typeRadio.SetSelected("Self")
	} else {
		typeRadio.SetSelected("Wishes")
	}
	langGroup := widget.NewCheckGroup(domain.LanguageTags, func(sel []string) {
		ed.Session.Languages = append([]string{}, sel...)
		refreshChecklist()
	})
	langGroup.Horizontal = true
	langGroup.SetSelected(ed.Session.Languages)

	// Step 3: styles
	nameEntry := widget.NewEntry()
	nameEntry.SetText(ed.Session.UserName)
	nameEntry.OnChanged = func(s string) { ed.Session.UserName = s; posterCanvas.Refresh() }

	textColor := colorEntry(ed.Session.Text.Color, func(v string) { ed.Session.Text.Color = v; posterCanvas.Refresh() })
	fontSize := slider(16, 120, 1, ed.Session.Text.FontSize, func(v float64) { ed.Session.Text.FontSize = v; posterCanvas.Refresh() })
	weight := widget.NewSelect(fontWeights, func(v string) {
		if n, err := strconv.Atoi(v); err == nil {
			ed.Session.Text.FontWeight = n
			posterCanvas.Refresh()
		}
	})
	weight.SetSelected(strconv.Itoa(ed.Session.Text.FontWeight))
	spacing := slider(-5, 20, 0.5, ed.Session.Text.LetterSpacing, func(v float64) { ed.Session.Text.LetterSpacing = v })
	align := widget.NewRadioGroup([]string{string(domain.AlignLeft), string(domain.AlignCenter), string(domain.AlignRight)}, func(v string) {
		ed.Session.Text.Alignment = domain.TextAlignment(v)
		posterCanvas.Refresh()
	})
	align.Horizontal = true
	align.SetSelected(string(ed.Session.Text.Alignment))
	maxWidth := slider(30, 100, 1, ed.Session.Text.MaxWidthPercent, func(v float64) { ed.SetNameWidthPercent(v) })
	strokeW := slider(0, 12, 0.5, ed.Session.Text.Stroke.Width, func(v float64) { ed.Session.Text.Stroke.Width = v })
	strokeC := colorEntry(ed.Session.Text.Stroke.Color, func(v string) { ed.Session.Text.Stroke.Color = v })
	shadowBlur := slider(0, 30, 1, ed.Session.Text.Shadow.Blur, func(v float64) { ed.Session.Text.Shadow.Blur = v })
	shadowY := slider(-20, 20, 1, ed.Session.Text.Shadow.OffsetY, func(v float64) { ed.Session.Text.Shadow.OffsetY = v })
	shadowOp := slider(0, 100, 1, ed.Session.Text.Shadow.Opacity, func(v float64) { ed.Session.Text.Shadow.Opacity = v })
	shadowC := colorEntry(ed.Session.Text.Shadow.Color, func(v string) { ed.Session.Text.Shadow.Color = v })

	shape := widget.NewRadioGroup([]string{string(domain.ShapeCircle), string(domain.ShapeSquare)}, func(v string) {
		ed.Session.Photo.Shape = domain.PhotoShape(v)
		posterCanvas.Refresh()
	})
	shape.Horizontal = true
	shape.SetSelected(string(ed.Session.Photo.Shape))
	radius := slider(0, 150, 1, ed.Session.Photo.CornerRadius, func(v float64) { ed.Session.Photo.CornerRadius = v; posterCanvas.Refresh() })
	photoStrokeW := slider(0, 20, 1, ed.Session.Photo.StrokeWidth, func(v float64) { ed.Session.Photo.StrokeWidth = v; posterCanvas.Refresh() })
	photoStrokeC := colorEntry(ed.Session.Photo.StrokeColor, func(v string) { ed.Session.Photo.StrokeColor = v; posterCanvas.Refresh() })
	hasBg := widget.NewCheck("Photo has background", func(v bool) { ed.Session.Photo.HasBackground = v; posterCanvas.Refresh() })
	hasBg.SetChecked(ed.Session.Photo.HasBackground)

	textForm := widget.NewForm(
		widget.NewFormItem("Preview name", nameEntry),
		widget.NewFormItem("Color", textColor),
		widget.NewFormItem("Size", fontSize),
		widget.NewFormItem("Weight", weight),
		widget.NewFormItem("Spacing", spacing),
		widget.NewFormItem("Align", align),
		widget.NewFormItem("Max width %", maxWidth),
		widget.NewFormItem("Stroke", strokeW),
		widget.NewFormItem("Stroke color", strokeC),
		widget.NewFormItem("Shadow blur", shadowBlur),
		widget.NewFormItem("Shadow y", shadowY),
		widget.NewFormItem("Shadow %", shadowOp),
		widget.NewFormItem("Shadow color", shadowC),
	)
	photoForm := widget.NewForm(
		widget.NewFormItem("Shape", shape),
		widget.NewFormItem("Corner radius", radius),
		widget.NewFormItem("Stroke", photoStrokeW),
		widget.NewFormItem("Stroke color", photoStrokeC),
		widget.NewFormItem("", hasBg),
	)

	exportBtn := widget.NewButton("Export JSON", func() {
		dir := cfg.Storage.ExportDir
		if dir == "" && ed.Path != "" {
			dir = filepath.Dir(ed.Path)
		}
		path, tpl, err := ed.Export(context.Background(), dir, time.Now())
		if err != nil {
			dialog.ShowError(err, w)
			return
		}
		status.SetText(fmt.Sprintf("Exported %s (%s)", filepath.Base(path), tpl.Summary()))
	})
	proofBtn := widget.NewButton("Save proof…", func() {
		fd := dialog.NewFileSave(func(wc fyne.URIWriteCloser, err error) {
			if err != nil {
				dialog.ShowError(err, w)
				return
			}
			if wc == nil {
				return
			}
			path := wc.URI().Path()
			_ = wc.Close()
			s := ed.Sync()
			opt := export.ProofOptions{Guides: true}
			if strings.EqualFold(filepath.Ext(path), ".pdf") {
				err = export.RenderProofPDF(s, path, opt)
			} else {
				err = export.RenderProofPNG(s, path, opt)
			}
			if err != nil {
				dialog.ShowError(err, w)
				return
			}
			status.SetText("Proof saved to " + filepath.Base(path))
		}, w)
		fd.SetFileName("proof.png")
		fd.SetFilter(fstorage.NewExtensionFileFilter([]string{".png", ".pdf"}))
		fd.Show()
	})
	publishBtn := widget.NewButton("Publish", func() {
		publish(ed, cfg.Catalog, catalogPW, w, status)
	})
	if cfg.Catalog.DSN == "" {
		publishBtn.Disable()
	}
	undoBtn := widget.NewButton("Undo", func() { ed.Store.Undo() })
	redoBtn := widget.NewButton("Redo", func() { ed.Store.Redo() })
	saveBtn := widget.NewButton("Save", save)

	side := container.NewVScroll(container.NewVBox(
		widget.NewLabelWithStyle("1. Background", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		uploadBtn,
		widget.NewSeparator(),
		widget.NewLabelWithStyle("2. Categories", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		typeRadio, tagGroup,
		widget.NewLabel("Languages"), langGroup,
		widget.NewSeparator(),
		widget.NewLabelWithStyle("3. Name style", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		textForm,
		widget.NewLabelWithStyle("Photo style", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		photoForm,
		widget.NewSeparator(),
		widget.NewLabelWithStyle("Export checklist", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		checklist,
		container.NewGridWithColumns(3, exportBtn, proofBtn, publishBtn),
	))
	toolbar := container.NewHBox(undoBtn, redoBtn, saveBtn)
	split := container.NewHSplit(container.NewBorder(toolbar, nil, nil, nil, container.NewCenter(posterCanvas)), side)
	split.Offset = 0.6
	w.SetContent(container.NewBorder(nil, status, nil, nil, split))

	// Keyboard: arrows nudge, Escape clears the selection.
	shift := false
	if dc, ok := w.Canvas().(desktop.Canvas); ok {
		dc.SetOnKeyDown(func(ev *fyne.KeyEvent) {
			if ev.Name == desktop.KeyShiftLeft || ev.Name == desktop.KeyShiftRight {
				shift = true
			}
		})
		dc.SetOnKeyUp(func(ev *fyne.KeyEvent) {
			if ev.Name == desktop.KeyShiftLeft || ev.Name == desktop.KeyShiftRight {
				shift = false
			}
		})
	}
	w.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) {
		key := KeyFor(string(ev.Name))
		if key == gesture.KeyUnknown {
			return
		}
		ed.Controller.Key(gesture.KeyEvent{Key: key, Shift: shift, TextInputFocused: w.Canvas().Focused() != nil})
	})
	w.Canvas().AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyZ, Modifier: fyne.KeyModifierShortcutDefault}, func(fyne.Shortcut) { ed.Store.Undo() })
	w.Canvas().AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyZ, Modifier: fyne.KeyModifierShortcutDefault | fyne.KeyModifierShift}, func(fyne.Shortcut) { ed.Store.Redo() })
	w.Canvas().AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyS, Modifier: fyne.KeyModifierShortcutDefault}, func(fyne.Shortcut) { save() })

	aboutItem := fyne.NewMenuItem("About Poster Studio", func() {
		exe, _ := os.Executable()
		info := fmt.Sprintf("Poster Studio\nVersion: %s\nOS: %s\nArch: %s\nGo: %s\nExecutable: %s",
			version.String(), runtime.GOOS, runtime.GOARCH, runtime.Version(), exe)
		dialog.ShowInformation("About", info, w)
	})
	w.SetMainMenu(fyne.NewMainMenu(
		fyne.NewMenu("File", fyne.NewMenuItem("Save", save)),
		fyne.NewMenu("Edit",
			fyne.NewMenuItem("Undo", func() { ed.Store.Undo() }),
			fyne.NewMenuItem("Redo", func() { ed.Store.Redo() }),
			fyne.NewMenuItem("Clear selection", func() { ed.Store.ClearSelection() }),
		),
		fyne.NewMenu("Help", aboutItem),
	))

	w.SetCloseIntercept(func() {
		sz := w.Canvas().Size()
		prefs.SetInt("window.width", int(sz.Width))
		prefs.SetInt("window.height", int(sz.Height))
		save()
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		telemetry.Default().Flush(ctx)
		cancel()
		w.Close()
	})

	refreshChecklist()
	w.ShowAndRun()
	return nil
}

func applyBackground(ed *Editor, w fyne.Window, status *widget.Label, path string, vw, vh int, refresh func()) {
	if err := ed.SetBackground(path, vw, vh); err != nil {
		dialog.ShowError(err, w)
		return
	}
	status.SetText(fmt.Sprintf("Background %s (1080 x %.0f)", filepath.Base(path), ed.Session.CanvasHeight))
	refresh()
}

// askVideoSize prompts for the frame size of a video background.
func askVideoSize(w fyne.Window, done func(width, height int)) {
	we := widget.NewEntry()
	we.SetText("1080")
	he := widget.NewEntry()
	he.SetText("1350")
	dialog.ShowForm("Video frame size", "Use", "Cancel", []*widget.FormItem{
		widget.NewFormItem("Width", we),
		widget.NewFormItem("Height", he),
	}, func(ok bool) {
		if !ok {
			return
		}
		vw, err1 := strconv.Atoi(strings.TrimSpace(we.Text))
		vh, err2 := strconv.Atoi(strings.TrimSpace(he.Text))
		if err := errors.Join(err1, err2); err != nil {
			dialog.ShowError(fmt.Errorf("invalid frame size: %w", err), w)
			return
		}
		done(vw, vh)
	}, w)
}

func publish(ed *Editor, cc config.CatalogConfig, password string, w fyne.Window, status *widget.Label) {
	timeout := time.Duration(cc.TimeoutMs) * time.Millisecond
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	cat, err := catalog.Open(ctx, cc.DSNWithPassword(password))
	if err != nil {
		dialog.ShowError(err, w)
		return
	}
	defer func() { _ = cat.Close() }()
	p, err := ed.Publish(ctx, cat, "")
	if err != nil {
		dialog.ShowError(err, w)
		return
	}
	status.SetText(fmt.Sprintf("Published %q (version %d)", p.Name, p.Version))
}

func slider(min, max, step, value float64, changed func(float64)) *widget.Slider {
	s := widget.NewSlider(min, max)
	s.Step = step
	s.SetValue(value)
	s.OnChanged = changed
	return s
}

// colorEntry commits normalized hex values when editing finishes.
func colorEntry(value string, changed func(string)) *widget.Entry {
	e := widget.NewEntry()
	e.SetText(value)
	e.OnSubmitted = func(v string) {
		n := export.NormalizeHex(v, value)
		e.SetText(n)
		changed(n)
	}
	return e
}
