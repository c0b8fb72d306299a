/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package config loads the user configuration: a YAML file in the user config
// directory, overridden by PS_* environment variables. The catalog password
// is kept in the OS keyring, never in the file.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/zalando/go-keyring"
	"gopkg.in/yaml.v3"
)

type GeneralConfig struct {
	TelemetryOptIn bool   `yaml:"telemetry_opt_in"`
	Theme          string `yaml:"theme"` // "system" | "light" | "dark"
}

// EditorConfig tunes the placeholder gestures.
type EditorConfig struct {
	SnapThreshold     float64 `yaml:"snap_threshold"`
	KeyboardStep      float64 `yaml:"keyboard_step"`
	KeyboardShiftStep float64 `yaml:"keyboard_shift_step"`
	CornerHitSize     float64 `yaml:"corner_hit_size"`
	MinDiameter       float64 `yaml:"min_diameter"`
	MaxDiameter       float64 `yaml:"max_diameter"`
	UndoMaxPerLayer   int     `yaml:"undo_max_per_layer"`
}

type StorageConfig struct {
	LibraryPath string `yaml:"library_path"`
	ExportDir   string `yaml:"export_dir"`
}

// CatalogConfig points at the shared Postgres catalog. The password lives in
// the keyring.
type CatalogConfig struct {
	DSN       string `yaml:"dsn"`
	TimeoutMs int    `yaml:"timeout_ms"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Source bool   `yaml:"source"`
	File   string `yaml:"file"`
}

type AppConfig struct {
	ConfigVersion int           `yaml:"config_version"`
	General       GeneralConfig `yaml:"general"`
	Editor        EditorConfig  `yaml:"editor"`
	Storage       StorageConfig `yaml:"storage"`
	Catalog       CatalogConfig `yaml:"catalog"`
	Logging       LoggingConfig `yaml:"logging"`
}

// Defaults returns the application defaults.
func Defaults() AppConfig {
	return AppConfig{
		ConfigVersion: 1,
		General:       GeneralConfig{TelemetryOptIn: false, Theme: "system"},
		Editor: EditorConfig{
			SnapThreshold:     5,
			KeyboardStep:      1,
			KeyboardShiftStep: 8,
			CornerHitSize:     18,
			MinDiameter:       100,
			MaxDiameter:       600,
			UndoMaxPerLayer:   100,
		},
		Storage: StorageConfig{},
		Catalog: CatalogConfig{TimeoutMs: 5000},
		Logging: LoggingConfig{Level: "info", Format: "console", Source: false, File: ""},
	}
}

// Env var names used as overrides.
const (
	EnvConfigFile     = "PS_CONFIG"
	EnvTelemetryOptIn = "PS_TELEMETRY_OPT_IN"
	EnvSnapThreshold  = "PS_SNAP_THRESHOLD"
	EnvMinDiameter    = "PS_MIN_DIAMETER"
	EnvMaxDiameter    = "PS_MAX_DIAMETER"
	EnvLibraryPath    = "PS_LIBRARY"
	EnvExportDir      = "PS_EXPORT_DIR"
	EnvCatalogDSN     = "PS_CATALOG_DSN"
	EnvLogLevel       = "PS_LOG_LEVEL"
	EnvLogFormat      = "PS_LOG_FORMAT"
	EnvLogSource      = "PS_LOG_SOURCE"
	EnvLogFile        = "PS_LOG_FILE"
)

const (
	keyringService   = "PosterStudio"
	keyringCatalogPW = "catalog_password"
)

// SecretStore abstracts the OS keyring so tests can stub it.
type SecretStore interface {
	Get(service, key string) (string, error)
	Set(service, key, value string) error
	Delete(service, key string) error
}

type osKeyring struct{}

func (osKeyring) Get(service, key string) (string, error) { return keyring.Get(service, key) }
func (osKeyring) Set(service, key, value string) error    { return keyring.Set(service, key, value) }
func (osKeyring) Delete(service, key string) error        { return keyring.Delete(service, key) }

var secretStore SecretStore = osKeyring{}

// UseSecretStore swaps the secret backend and returns a function that
// restores the previous one.
func UseSecretStore(s SecretStore) (restore func()) {
	old := secretStore
	secretStore = s
	return func() { secretStore = old }
}

// appDir returns the per-user application directory.
func appDir() (string, error) {
	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("AppData")
		if base == "" {
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		base = filepath.Join(base, "PosterStudio")
	case "darwin":
		base = filepath.Join(os.Getenv("HOME"), "Library", "Application Support", "PosterStudio")
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			base = filepath.Join(xdg, "posterstudio")
		} else {
			base = filepath.Join(os.Getenv("HOME"), ".config", "posterstudio")
		}
	}
	if base == "" {
		return "", errors.New("cannot resolve config directory")
	}
	return base, nil
}

// ConfigPath returns the config file path; PS_CONFIG overrides it.
func ConfigPath() (string, error) {
	if p := strings.TrimSpace(os.Getenv(EnvConfigFile)); p != "" {
		return p, nil
	}
	dir, err := appDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load reads the config file if present, applies defaults and environment
// overrides and returns the catalog password from the keyring. A malformed
// file is an error; a missing one is not.
func Load() (AppConfig, string, error) {
	cfg := Defaults()
	path, err := ConfigPath()
	if err != nil {
		return cfg, "", err
	}
	if data, err := os.ReadFile(path); err == nil {
		var fileCfg AppConfig
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			return cfg, "", fmt.Errorf("parse %s: %w", path, err)
		}
		mergeInto(&cfg, &fileCfg)
	}
	applyEnvOverrides(&cfg)
	if cfg.Storage.LibraryPath == "" {
		if dir, err := appDir(); err == nil {
			cfg.Storage.LibraryPath = filepath.Join(dir, "library.sqlite")
		}
	}
	pw, _ := secretStore.Get(keyringService, keyringCatalogPW)
	return cfg, pw, nil
}

// Save writes the YAML file and stores a non-empty catalog password in the
// keyring.
func Save(cfg AppConfig, catalogPassword string) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return err
	}
	if catalogPassword != "" {
		if err := secretStore.Set(keyringService, keyringCatalogPW, catalogPassword); err != nil {
			return fmt.Errorf("store catalog password: %w", err)
		}
	}
	return nil
}

// ClearCatalogPassword removes the stored password.
func ClearCatalogPassword() error {
	err := secretStore.Delete(keyringService, keyringCatalogPW)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return err
}

func mergeInto(dst *AppConfig, src *AppConfig) {
	if src.ConfigVersion != 0 {
		dst.ConfigVersion = src.ConfigVersion
	}
	if src.General.Theme != "" {
		dst.General.Theme = src.General.Theme
	}
	dst.General.TelemetryOptIn = src.General.TelemetryOptIn

	e := src.Editor
	if e.SnapThreshold > 0 {
		dst.Editor.SnapThreshold = e.SnapThreshold
	}
	if e.KeyboardStep > 0 {
		dst.Editor.KeyboardStep = e.KeyboardStep
	}
	if e.KeyboardShiftStep > 0 {
		dst.Editor.KeyboardShiftStep = e.KeyboardShiftStep
	}
	if e.CornerHitSize > 0 {
		dst.Editor.CornerHitSize = e.CornerHitSize
	}
	if e.MinDiameter > 0 {
		dst.Editor.MinDiameter = e.MinDiameter
	}
	if e.MaxDiameter > 0 {
		dst.Editor.MaxDiameter = e.MaxDiameter
	}
	if e.UndoMaxPerLayer > 0 {
		dst.Editor.UndoMaxPerLayer = e.UndoMaxPerLayer
	}

	if v := strings.TrimSpace(src.Storage.LibraryPath); v != "" {
		dst.Storage.LibraryPath = v
	}
	if v := strings.TrimSpace(src.Storage.ExportDir); v != "" {
		dst.Storage.ExportDir = v
	}
	if v := strings.TrimSpace(src.Catalog.DSN); v != "" {
		dst.Catalog.DSN = v
	}
	if src.Catalog.TimeoutMs != 0 {
		dst.Catalog.TimeoutMs = src.Catalog.TimeoutMs
	}

	if v := strings.TrimSpace(src.Logging.Level); v != "" {
		dst.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(src.Logging.Format); v != "" {
		dst.Logging.Format = strings.ToLower(v)
	}
	dst.Logging.Source = src.Logging.Source
	if v := strings.TrimSpace(src.Logging.File); v != "" {
		dst.Logging.File = v
	}
}

func parseBool(v string) bool {
	lv := strings.ToLower(strings.TrimSpace(v))
	return lv == "1" || lv == "true" || lv == "on" || lv == "yes"
}

func envFloat(name string, dst *float64) {
	if v := strings.TrimSpace(os.Getenv(name)); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			*dst = f
		}
	}
}

func applyEnvOverrides(cfg *AppConfig) {
	if v := strings.TrimSpace(os.Getenv(EnvTelemetryOptIn)); v != "" {
		cfg.General.TelemetryOptIn = parseBool(v)
	}
	envFloat(EnvSnapThreshold, &cfg.Editor.SnapThreshold)
	envFloat(EnvMinDiameter, &cfg.Editor.MinDiameter)
	envFloat(EnvMaxDiameter, &cfg.Editor.MaxDiameter)
	if v := strings.TrimSpace(os.Getenv(EnvLibraryPath)); v != "" {
		cfg.Storage.LibraryPath = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvExportDir)); v != "" {
		cfg.Storage.ExportDir = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvCatalogDSN)); v != "" {
		cfg.Catalog.DSN = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFormat)); v != "" {
		cfg.Logging.Format = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogSource)); v != "" {
		cfg.Logging.Source = parseBool(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFile)); v != "" {
		cfg.Logging.File = v
	}
}

// EnvOverrideFor returns the env var overriding a dotted config key, if set.
func EnvOverrideFor(key string) (string, bool) {
	names := map[string]string{
		"general.telemetry_opt_in": EnvTelemetryOptIn,
		"editor.snap_threshold":    EnvSnapThreshold,
		"editor.min_diameter":      EnvMinDiameter,
		"editor.max_diameter":      EnvMaxDiameter,
		"storage.library_path":     EnvLibraryPath,
		"storage.export_dir":       EnvExportDir,
		"catalog.dsn":              EnvCatalogDSN,
		"logging.level":            EnvLogLevel,
		"logging.format":           EnvLogFormat,
		"logging.source":           EnvLogSource,
		"logging.file":             EnvLogFile,
	}
	if env, ok := names[key]; ok && os.Getenv(env) != "" {
		return env, true
	}
	return "", false
}

// DSNWithPassword returns the catalog DSN with password filled in when the
// DSN is a URL without one. Keyword DSNs are returned unchanged.
func (c CatalogConfig) DSNWithPassword(password string) string {
	if password == "" || !strings.Contains(c.DSN, "://") {
		return c.DSN
	}
	u, err := url.Parse(c.DSN)
	if err != nil || u.User == nil {
		return c.DSN
	}
	if _, has := u.User.Password(); has {
		return c.DSN
	}
	u.User = url.UserPassword(u.User.Username(), password)
	return u.String()
}

// EffectiveTimeout returns the catalog timeout as a duration string.
func (c CatalogConfig) EffectiveTimeout() string {
	if c.TimeoutMs <= 0 {
		return fmt.Sprintf("%dms", Defaults().Catalog.TimeoutMs)
	}
	return fmt.Sprintf("%dms", c.TimeoutMs)
}
