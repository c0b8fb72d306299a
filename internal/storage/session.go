/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"posterstudio/internal/domain"
)

const (
	BackupsDirName = "backups"
	// backupStamp sorts lexicographically in time order.
	backupStamp = "20060102-150405.000"
)

// BackupDir returns the folder holding backups of the session file at path.
func BackupDir(path string) string {
	return filepath.Join(filepath.Dir(path), BackupsDirName)
}

// SaveSession writes a session document to path. An existing file is first
// copied to a timestamped backup, then the new content is written to a temp
// file in the same directory and renamed over the target.
func SaveSession(path string, s domain.Session) error {
	if strings.TrimSpace(path) == "" {
		return errors.New("session path is required")
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("ensure session dir: %w", err)
	}
	if _, statErr := os.Stat(path); statErr == nil {
		bpath := filepath.Join(BackupDir(path), fmt.Sprintf("%s.%s.bak", filepath.Base(path), time.Now().Format(backupStamp)))
		if cerr := copyFile(path, bpath); cerr != nil {
			return fmt.Errorf("backup current session: %w", cerr)
		}
	}
	return replaceFile(path, data)
}

// LoadSession reads a session document. When the file is missing or cannot be
// parsed the newest backup is used instead.
func LoadSession(path string) (domain.Session, error) {
	b, err := os.ReadFile(path)
	if err == nil {
		var s domain.Session
		if err = json.Unmarshal(b, &s); err == nil {
			return s, nil
		}
		err = fmt.Errorf("parse session: %w", err)
	} else {
		err = fmt.Errorf("read session: %w", err)
	}
	s, berr := loadLatestBackup(path)
	if berr != nil {
		return domain.Session{}, fmt.Errorf("%w; backup attempt: %v", err, berr)
	}
	return s, nil
}

// AutosaveCrashSnapshot writes the in-memory session next to its backups so a
// crash does not lose unsaved edits. It returns the written path.
func AutosaveCrashSnapshot(path string, s domain.Session) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", errors.New("session path is required")
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal session: %w", err)
	}
	dir := BackupDir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("ensure backups dir: %w", err)
	}
	out := filepath.Join(dir, fmt.Sprintf("%s.crash-%s.json", filepath.Base(path), time.Now().Format(backupStamp)))
	if err := writeFileSync(out, append(data, '\n')); err != nil {
		return "", fmt.Errorf("write crash snapshot: %w", err)
	}
	return out, nil
}

// WriteFileAtomic writes data to path through a temp file and rename.
func WriteFileAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ensure dir: %w", err)
	}
	return replaceFile(path, data)
}

func replaceFile(path string, data []byte) error {
	temp := filepath.Join(filepath.Dir(path), fmt.Sprintf(".%s.tmp-%d-%d", filepath.Base(path), os.Getpid(), rand.Int()))
	if err := writeFileSync(temp, data); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	// Windows refuses to rename over an existing file
	if _, err := os.Stat(path); err == nil {
		_ = os.Remove(path)
	}
	if err := os.Rename(temp, path); err != nil {
		_ = os.Remove(temp)
		return fmt.Errorf("replace %s: %w", filepath.Base(path), err)
	}
	return nil
}

func loadLatestBackup(path string) (domain.Session, error) {
	ents, err := os.ReadDir(BackupDir(path))
	if err != nil {
		return domain.Session{}, fmt.Errorf("read backups dir: %w", err)
	}
	prefix := filepath.Base(path) + "."
	var candidates []string
	for _, e := range ents {
		name := e.Name()
		if strings.HasPrefix(name, prefix) && strings.HasSuffix(name, ".bak") {
			candidates = append(candidates, name)
		}
	}
	if len(candidates) == 0 {
		return domain.Session{}, errors.New("no backups found")
	}
	sort.Strings(candidates)
	latest := filepath.Join(BackupDir(path), candidates[len(candidates)-1])
	b, err := os.ReadFile(latest)
	if err != nil {
		return domain.Session{}, fmt.Errorf("read latest backup: %w", err)
	}
	var s domain.Session
	if err := json.Unmarshal(b, &s); err != nil {
		return domain.Session{}, fmt.Errorf("parse latest backup: %w", err)
	}
	return s, nil
}

func writeFileSync(path string, data []byte) (err error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	if _, err := f.Write(data); err != nil {
		return err
	}
	return f.Sync()
}

func copyFile(src, dst string) (err error) {
	sf, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := sf.Close(); err == nil {
			err = cerr
		}
	}()
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	df, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := df.Close(); err == nil {
			err = cerr
		}
	}()
	if _, err := io.Copy(df, sf); err != nil {
		return err
	}
	return df.Sync()
}
