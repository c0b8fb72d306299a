/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/atotto/clipboard"

	"posterstudio/internal/catalog"
	"posterstudio/internal/config"
	"posterstudio/internal/crash"
	"posterstudio/internal/domain"
	"posterstudio/internal/export"
	applog "posterstudio/internal/log"
	"posterstudio/internal/storage"
	"posterstudio/internal/telemetry"
	"posterstudio/internal/ui"
	"posterstudio/internal/version"
)

func usage(w io.Writer) {
	fmt.Fprintln(w, "Poster Studio: poster template layout editor")
	fmt.Fprintf(w, "Version: %s\n", version.String())
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  posterstudio version|-v|--version                 Show version")
	fmt.Fprintln(w, "  posterstudio new <session.json> [--wishes]         Create a new poster session")
	fmt.Fprintln(w, "  posterstudio background <session.json> <file> [--size WxH]")
	fmt.Fprintln(w, "                                                     Set the background image or video")
	fmt.Fprintln(w, "  posterstudio tag <session.json> <tag|language>...  Toggle categories and languages")
	fmt.Fprintln(w, "  posterstudio checklist <session.json>              Show export readiness")
	fmt.Fprintln(w, "  posterstudio export <session.json> [--dir D] [--rn] [--clipboard]")
	fmt.Fprintln(w, "                                                     Write the template JSON")
	fmt.Fprintln(w, "  posterstudio validate <template.json>              Check a template against the schema")
	fmt.Fprintln(w, "  posterstudio proof <session.json> <out.png|out.pdf> [--scale S] [--guides]")
	fmt.Fprintln(w, "  posterstudio library [--text Q] [--tag T] [--lang L] [--limit N]")
	fmt.Fprintln(w, "  posterstudio publish <session.json|template.json> [--name N]")
	fmt.Fprintln(w, "  posterstudio ui [<session.json>]                   Launch desktop UI (build with -tags fyne)")
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// cli carries what every command needs.
type cli struct {
	cfg       config.AppConfig
	catalogPW string
	out, err  io.Writer
	log       *slog.Logger
	now       func() time.Time
}

// copyText writes to the system clipboard.
var copyText = clipboard.WriteAll

func run(args []string, stdout, stderr io.Writer) int {
	cfg, pw, cfgErr := config.Load()
	applog.Init(applog.Options{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		AddSource: cfg.Logging.Source,
		File:      cfg.Logging.File,
		Console:   stderr,
	})
	l := applog.WithComponent("cli")
	defer crash.Recover("", nil)
	if cfgErr != nil {
		l.Warn("config load failed; using defaults", slog.Any("err", cfgErr))
	}

	tcfg := telemetry.FromEnv()
	tcfg.OptIn = tcfg.OptIn || cfg.General.TelemetryOptIn
	telemetry.SetDefault(tcfg)
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		telemetry.Default().Flush(ctx)
	}()

	c := &cli{cfg: cfg, catalogPW: pw, out: stdout, err: stderr, log: l, now: time.Now}
	if len(args) == 0 {
		usage(stdout)
		return 0
	}
	l.Debug("start", slog.String("cmd", args[0]), slog.Int("args", len(args)))

	var err error
	switch args[0] {
	case "version", "--version", "-v":
		fmt.Fprintln(stdout, "Poster Studio")
		fmt.Fprintln(stdout, version.String())
		return 0
	case "new":
		err = c.cmdNew(args[1:])
	case "background":
		err = c.cmdBackground(args[1:])
	case "tag":
		err = c.cmdTag(args[1:])
	case "checklist":
		err = c.cmdChecklist(args[1:])
	case "export":
		err = c.cmdExport(args[1:])
	case "validate":
		err = c.cmdValidate(args[1:])
	case "proof":
		err = c.cmdProof(args[1:])
	case "library":
		err = c.cmdLibrary(args[1:])
	case "publish":
		err = c.cmdPublish(args[1:])
	case "ui":
		var path string
		if len(args) >= 2 {
			path = args[1]
		}
		err = ui.Run(path)
	case "help", "-h", "--help":
		usage(stdout)
		return 0
	default:
		fmt.Fprintf(stderr, "unknown command %q\n", args[0])
		usage(stderr)
		return 2
	}

	var ue usageError
	switch {
	case err == nil:
		return 0
	case errors.As(err, &ue):
		fmt.Fprintln(stderr, "Error:", err)
		usage(stderr)
		return 2
	default:
		l.Error("command failed", slog.String("cmd", args[0]), slog.Any("err", err))
		fmt.Fprintln(stderr, "Error:", err)
		return 1
	}
}

// usageError marks wrong invocations; they exit with status 2.
type usageError string

func (e usageError) Error() string { return string(e) }

// parse splits positional arguments from flags so flags may follow them.
func parse(fs *flag.FlagSet, args []string) ([]string, error) {
	fs.SetOutput(io.Discard)
	var pos []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, usageError(fmt.Sprintf("%s: %v", fs.Name(), err))
		}
		args = fs.Args()
		if len(args) == 0 {
			return pos, nil
		}
		pos = append(pos, args[0])
		args = args[1:]
	}
}

func (c *cli) openEditor(path string) (*ui.Editor, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("session %s not found", path)
	}
	return ui.OpenEditor(path, c.cfg.Editor)
}

func (c *cli) cmdNew(args []string) error {
	fs := flag.NewFlagSet("new", flag.ContinueOnError)
	wishes := fs.Bool("wishes", false, "create a wishes template instead of a profile one")
	pos, err := parse(fs, args)
	if err != nil {
		return err
	}
	if len(pos) != 1 {
		return usageError("new requires <session.json>")
	}
	path, _ := filepath.Abs(pos[0])
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}
	s := domain.DefaultSession()
	s.SetProfile(!*wishes)
	if err := storage.SaveSession(path, s); err != nil {
		return err
	}
	c.log.Info("session created", slog.String("path", path))
	fmt.Fprintln(c.out, "Created session at", path)
	return nil
}

func (c *cli) cmdBackground(args []string) error {
	fs := flag.NewFlagSet("background", flag.ContinueOnError)
	size := fs.String("size", "", "frame size WxH, required for videos")
	pos, err := parse(fs, args)
	if err != nil {
		return err
	}
	if len(pos) != 2 {
		return usageError("background requires <session.json> and <file>")
	}
	var w, h int
	if *size != "" {
		if _, err := fmt.Sscanf(strings.ToLower(*size), "%dx%d", &w, &h); err != nil {
			return usageError("--size must look like 1080x1350")
		}
	}
	ed, err := c.openEditor(pos[0])
	if err != nil {
		return err
	}
	defer crash.Recover(ed.Path, &ed.Session)
	bg, _ := filepath.Abs(pos[1])
	if err := ed.SetBackground(bg, w, h); err != nil {
		return err
	}
	if err := ed.Save(); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Background set; canvas is 1080 x %.0f (%s)\n", ed.Session.CanvasHeight, ed.Session.MediaType)
	return nil
}

func (c *cli) cmdTag(args []string) error {
	if len(args) < 2 {
		return usageError("tag requires <session.json> and at least one tag or language")
	}
	ed, err := c.openEditor(args[0])
	if err != nil {
		return err
	}
	for _, v := range args[1:] {
		if !ed.Session.ToggleTag(v) && !ed.Session.ToggleLanguage(v) {
			return fmt.Errorf("%q is neither a category of this template type nor a language", v)
		}
	}
	if err := ed.Save(); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Categories: %s\n", strings.Join(ed.Session.Tags, ", "))
	fmt.Fprintf(c.out, "Languages: %s\n", strings.Join(ed.Session.Languages, ", "))
	return nil
}

func (c *cli) cmdChecklist(args []string) error {
	if len(args) != 1 {
		return usageError("checklist requires <session.json>")
	}
	ed, err := c.openEditor(args[0])
	if err != nil {
		return err
	}
	checks := ed.Checklist()
	for _, ch := range checks {
		mark := "[ ]"
		if ch.OK {
			mark = "[x]"
		}
		fmt.Fprintf(c.out, "%s %s\n", mark, ch.Label)
	}
	if !export.Ready(checks) {
		return errors.New("session is not ready to export")
	}
	return nil
}

func (c *cli) openLibrary() *storage.Library {
	if c.cfg.Storage.LibraryPath == "" {
		return nil
	}
	lib, err := storage.OpenLibrary(c.cfg.Storage.LibraryPath)
	if err != nil {
		c.log.Warn("library unavailable", slog.Any("err", err))
		return nil
	}
	return lib
}

func (c *cli) cmdExport(args []string) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	dir := fs.String("dir", c.cfg.Storage.ExportDir, "output directory")
	rn := fs.Bool("rn", false, "include React Native shadow props")
	clip := fs.Bool("clipboard", false, "also copy the JSON to the clipboard")
	pos, err := parse(fs, args)
	if err != nil {
		return err
	}
	if len(pos) != 1 {
		return usageError("export requires <session.json>")
	}
	ed, err := c.openEditor(pos[0])
	if err != nil {
		return err
	}
	defer crash.Recover(ed.Path, &ed.Session)
	if lib := c.openLibrary(); lib != nil {
		ed.Library = lib
		defer func() { _ = lib.Close() }()
	}
	if *dir == "" {
		*dir = filepath.Dir(ed.Path)
	}
	var opts []export.Option
	if *rn {
		opts = append(opts, export.WithReactNative())
	}
	path, tpl, err := ed.Export(context.Background(), *dir, c.now(), opts...)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Exported %s\n%s\n", path, tpl.Summary())
	if *clip {
		data, err := export.Marshal(tpl)
		if err != nil {
			return err
		}
		if err := copyText(string(data)); err != nil {
			return fmt.Errorf("copy to clipboard: %w", err)
		}
		fmt.Fprintln(c.out, "Copied to clipboard")
	}
	return nil
}

func (c *cli) cmdValidate(args []string) error {
	if len(args) != 1 {
		return usageError("validate requires <template.json>")
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	if err := export.Validate(data); err != nil {
		var ve *export.ValidationError
		if errors.As(err, &ve) {
			for _, p := range ve.Problems {
				fmt.Fprintln(c.out, "-", p)
			}
		}
		return err
	}
	fmt.Fprintln(c.out, "OK")
	return nil
}

func (c *cli) cmdProof(args []string) error {
	fs := flag.NewFlagSet("proof", flag.ContinueOnError)
	scale := fs.Float64("scale", 0.5, "output px per canvas px (PNG only)")
	guides := fs.Bool("guides", false, "outline the name box")
	pos, err := parse(fs, args)
	if err != nil {
		return err
	}
	if len(pos) != 2 {
		return usageError("proof requires <session.json> and <out.png|out.pdf>")
	}
	ed, err := c.openEditor(pos[0])
	if err != nil {
		return err
	}
	opt := export.ProofOptions{Scale: *scale, Guides: *guides}
	out := pos[1]
	switch strings.ToLower(filepath.Ext(out)) {
	case ".pdf":
		err = export.RenderProofPDF(ed.Sync(), out, opt)
	case ".png":
		err = export.RenderProofPNG(ed.Sync(), out, opt)
	default:
		return usageError("proof output must end in .png or .pdf")
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(c.out, "Proof written to", out)
	return nil
}

func (c *cli) cmdLibrary(args []string) error {
	fs := flag.NewFlagSet("library", flag.ContinueOnError)
	text := fs.String("text", "", "full-text query over names and tags")
	tag := fs.String("tag", "", "category filter")
	lang := fs.String("lang", "", "language filter")
	limit := fs.Int("limit", 20, "maximum results")
	if _, err := parse(fs, args); err != nil {
		return err
	}
	if c.cfg.Storage.LibraryPath == "" {
		return errors.New("no library configured")
	}
	lib, err := storage.OpenLibrary(c.cfg.Storage.LibraryPath)
	if err != nil {
		return err
	}
	defer func() { _ = lib.Close() }()
	entries, err := lib.Search(context.Background(), storage.Query{Text: *text, Tag: *tag, Language: *lang, Limit: *limit})
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(c.out, "No templates found.")
		return nil
	}
	for _, e := range entries {
		fmt.Fprintf(c.out, "%-4d %-20s %-6s %-24s %s\n", e.ID, e.Name, e.AspectRatio, strings.Join(e.Tags, ","), e.Path)
	}
	return nil
}

func (c *cli) cmdPublish(args []string) error {
	fs := flag.NewFlagSet("publish", flag.ContinueOnError)
	name := fs.String("name", "", "catalog name (defaults to the file name)")
	pos, err := parse(fs, args)
	if err != nil {
		return err
	}
	if len(pos) != 1 {
		return usageError("publish requires <session.json> or <template.json>")
	}
	if c.cfg.Catalog.DSN == "" {
		return fmt.Errorf("no catalog configured; set %s or catalog.dsn in the config file", config.EnvCatalogDSN)
	}
	timeout := time.Duration(c.cfg.Catalog.TimeoutMs) * time.Millisecond
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	cat, err := catalog.Open(ctx, c.cfg.Catalog.DSNWithPassword(c.catalogPW))
	if err != nil {
		return err
	}
	defer func() { _ = cat.Close() }()

	path := pos[0]
	var p catalog.Published
	if data, rerr := os.ReadFile(path); rerr == nil && export.Validate(data) == nil {
		if *name == "" {
			*name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		}
		p, err = cat.Publish(ctx, *name, data)
		if err == nil {
			telemetry.Default().TemplatePublished(p.AspectRatio)
		}
	} else {
		ed, oerr := c.openEditor(path)
		if oerr != nil {
			return oerr
		}
		p, err = ed.Publish(ctx, cat, *name)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Published %q as %s (version %d)\n", p.Name, p.Hash[:12], p.Version)
	return nil
}
