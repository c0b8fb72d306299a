/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/zalando/go-keyring"
)

type memSecrets map[string]string

func (m memSecrets) Get(service, key string) (string, error) {
	v, ok := m[service+"/"+key]
	if !ok {
		return "", keyring.ErrNotFound
	}
	return v, nil
}
func (m memSecrets) Set(service, key, value string) error { m[service+"/"+key] = value; return nil }
func (m memSecrets) Delete(service, key string) error {
	if _, ok := m[service+"/"+key]; !ok {
		return keyring.ErrNotFound
	}
	delete(m, service+"/"+key)
	return nil
}

// isolate points the config file at a temp dir and stubs the keyring.
func isolate(t *testing.T) (string, memSecrets) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	t.Setenv(EnvConfigFile, path)
	for _, env := range []string{EnvTelemetryOptIn, EnvSnapThreshold, EnvMinDiameter, EnvMaxDiameter, EnvLibraryPath, EnvExportDir, EnvCatalogDSN, EnvLogLevel, EnvLogFormat, EnvLogSource, EnvLogFile} {
		t.Setenv(env, "")
	}
	secrets := memSecrets{}
	old := secretStore
	secretStore = secrets
	t.Cleanup(func() { secretStore = old })
	return path, secrets
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	isolate(t)
	cfg, pw, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if pw != "" {
		t.Fatalf("expected empty password, got %q", pw)
	}
	if cfg.Editor.SnapThreshold != 5 || cfg.Editor.MinDiameter != 100 || cfg.Editor.MaxDiameter != 600 {
		t.Fatalf("unexpected editor defaults: %+v", cfg.Editor)
	}
	if cfg.Storage.LibraryPath == "" {
		t.Fatalf("expected a default library path")
	}
}

func TestSaveThenLoadRoundTripsFileAndSecret(t *testing.T) {
	path, secrets := isolate(t)
	cfg := Defaults()
	cfg.Editor.SnapThreshold = 7
	cfg.Catalog.DSN = "postgres://poster@db.local/catalog"
	if err := Save(cfg, "s3cret"); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config file missing: %v", err)
	}
	if secrets[keyringService+"/"+keyringCatalogPW] != "s3cret" {
		t.Fatalf("password not stored in keyring")
	}
	got, pw, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got.Editor.SnapThreshold != 7 || got.Catalog.DSN != cfg.Catalog.DSN || pw != "s3cret" {
		t.Fatalf("round trip mismatch: %+v pw=%q", got, pw)
	}
	if err := ClearCatalogPassword(); err != nil {
		t.Fatalf("ClearCatalogPassword: %v", err)
	}
	if err := ClearCatalogPassword(); err != nil {
		t.Fatalf("second ClearCatalogPassword should ignore not-found: %v", err)
	}
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	path, _ := isolate(t)
	if err := os.WriteFile(path, []byte("editor: [unterminated"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, _, err := Load(); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestEnvOverridesEditorAndLogging(t *testing.T) {
	isolate(t)
	t.Setenv(EnvSnapThreshold, "3.5")
	t.Setenv(EnvMaxDiameter, "800")
	t.Setenv(EnvMinDiameter, "-1") // ignored
	t.Setenv(EnvLogLevel, "ERROR")
	t.Setenv(EnvLogFormat, "json")
	t.Setenv(EnvLogSource, "1")
	t.Setenv(EnvLogFile, "X:/ps.log")
	t.Setenv(EnvTelemetryOptIn, "true")
	cfg, _, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Editor.SnapThreshold != 3.5 || cfg.Editor.MaxDiameter != 800 || cfg.Editor.MinDiameter != 100 {
		t.Fatalf("editor overrides not applied: %+v", cfg.Editor)
	}
	if cfg.Logging.Level != "error" || cfg.Logging.Format != "json" || !cfg.Logging.Source || cfg.Logging.File != "X:/ps.log" {
		t.Fatalf("logging overrides not applied: %#v", cfg.Logging)
	}
	if !cfg.General.TelemetryOptIn {
		t.Fatalf("telemetry override not applied")
	}
	if env, ok := EnvOverrideFor("editor.snap_threshold"); !ok || env != EnvSnapThreshold {
		t.Fatalf("EnvOverrideFor = %q, %v", env, ok)
	}
	if _, ok := EnvOverrideFor("catalog.dsn"); ok {
		t.Fatalf("catalog.dsn reported as overridden")
	}
}

func TestMergeKeepsDefaultsForZeroValues(t *testing.T) {
	dst := Defaults()
	src := AppConfig{Logging: LoggingConfig{Level: " Debug ", Source: true}}
	mergeInto(&dst, &src)
	if dst.Editor != Defaults().Editor {
		t.Fatalf("zero editor values overwrote defaults: %+v", dst.Editor)
	}
	if dst.Logging.Level != "debug" || dst.Logging.Format != "console" || !dst.Logging.Source {
		t.Fatalf("logging merge wrong: %#v", dst.Logging)
	}
}

func TestDSNWithPassword(t *testing.T) {
	cases := []struct {
		dsn, pw, want string
	}{
		{"postgres://poster@db/catalog", "pw", "postgres://poster:pw@db/catalog"},
		{"postgres://poster:keep@db/catalog", "pw", "postgres://poster:keep@db/catalog"},
		{"host=db user=poster", "pw", "host=db user=poster"},
		{"postgres://poster@db/catalog", "", "postgres://poster@db/catalog"},
	}
	for _, c := range cases {
		if got := (CatalogConfig{DSN: c.dsn}).DSNWithPassword(c.pw); got != c.want {
			t.Fatalf("DSNWithPassword(%q, %q) = %q, want %q", c.dsn, c.pw, got, c.want)
		}
	}
}

func TestEffectiveTimeout(t *testing.T) {
	if got := (CatalogConfig{}).EffectiveTimeout(); got != "5000ms" {
		t.Fatalf("default timeout = %s", got)
	}
	if got := (CatalogConfig{TimeoutMs: 250}).EffectiveTimeout(); got != "250ms" {
		t.Fatalf("timeout = %s", got)
	}
}

