/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */
package undo

import (
	"slices"
	"sync"
	"time"
)

// Snapshot is a reversible state blob for one editor layer ("image", "name").
// Blob content is opaque to the manager; size is estimated as len(Blob).
// Label names the kind of edit ("move", "resize", "nudge") and only snapshots
// with equal labels are coalesced.
type Snapshot struct {
	Layer string
	Label string
	Blob  []byte
	TS    time.Time
}

// Config controls memory and depth caps and coalescing behavior.
type Config struct {
	// MaxBytes is a soft cap; older entries are pruned when exceeded.
	MaxBytes int
	// MaxPerLayer limits number of snapshots per layer (0 means unlimited).
	MaxPerLayer int
	// MinInterval merges a snapshot into the previous one of the same layer and
	// label when captured within the interval. Zero disables coalescing.
	MinInterval time.Duration
	// CoalesceLabels restricts merging to these labels; empty means all.
	CoalesceLabels []string
}

// Manager keeps undo/redo stacks per layer. Undo entries hold the state that
// was current before an edit, so Undo and Redo swap the caller's current state
// with the stored one. It is safe for concurrent use.
type Manager struct {
	cfg Config
	mu  sync.Mutex
	// per-layer stacks
	undo map[string][]Snapshot
	redo map[string][]Snapshot
	// accounting
	totalBytes int
}

func NewManager(cfg Config) *Manager {
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = 1024 * 1024 // 1 MiB, placeholder records are tiny
	}
	return &Manager{cfg: cfg, undo: make(map[string][]Snapshot), redo: make(map[string][]Snapshot)}
}

// Push records the pre-edit state of a layer and clears that layer's redo
// stack. A push within MinInterval of the previous push with the same label
// keeps the older blob, so a burst of nudges undoes in one step.
func (m *Manager) Push(s Snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clearRedoLocked(s.Layer)
	stack := m.undo[s.Layer]
	if n := len(stack); n > 0 && m.cfg.MinInterval > 0 {
		last := stack[n-1]
		if last.Label == s.Label && m.coalesces(s.Label) && s.TS.Sub(last.TS) < m.cfg.MinInterval {
			// extend the window but keep the original before-state
			stack[n-1].TS = s.TS
			return
		}
	}
	m.undo[s.Layer] = append(stack, s)
	m.totalBytes += len(s.Blob)
	m.enforceCapsLocked(s.Layer)
}

// Undo pops the newest before-state of a layer and parks current on the redo
// stack. It reports false when there is nothing to undo.
func (m *Manager) Undo(layer string, current []byte) (Snapshot, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stack := m.undo[layer]
	if len(stack) == 0 {
		return Snapshot{}, false
	}
	s := stack[len(stack)-1]
	m.undo[layer] = stack[:len(stack)-1]
	m.totalBytes -= len(s.Blob)
	m.redo[layer] = append(m.redo[layer], Snapshot{Layer: layer, Label: s.Label, Blob: current, TS: s.TS})
	m.totalBytes += len(current)
	return s, true
}

// Redo is the inverse of Undo.
func (m *Manager) Redo(layer string, current []byte) (Snapshot, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r := m.redo[layer]
	if len(r) == 0 {
		return Snapshot{}, false
	}
	s := r[len(r)-1]
	m.redo[layer] = r[:len(r)-1]
	m.totalBytes -= len(s.Blob)
	m.undo[layer] = append(m.undo[layer], Snapshot{Layer: layer, Label: s.Label, Blob: current, TS: s.TS})
	m.totalBytes += len(current)
	m.enforceCapsLocked(layer)
	return s, true
}

// CanUndo and CanRedo report whether the stacks of a layer are non-empty.
func (m *Manager) CanUndo(layer string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.undo[layer]) > 0
}

func (m *Manager) CanRedo(layer string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.redo[layer]) > 0
}

// ClearLayer drops both stacks of a layer.
func (m *Manager) ClearLayer(layer string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.undo[layer] {
		m.totalBytes -= len(s.Blob)
	}
	m.clearRedoLocked(layer)
	delete(m.undo, layer)
	delete(m.redo, layer)
	if m.totalBytes < 0 {
		m.totalBytes = 0
	}
}

// Stats returns current sizes for diagnostics.
func (m *Manager) Stats() (totalBytes int, layers int, totalSnapshots int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	layers = len(m.undo)
	for _, v := range m.undo {
		totalSnapshots += len(v)
	}
	return m.totalBytes, layers, totalSnapshots
}

func (m *Manager) coalesces(label string) bool {
	return len(m.cfg.CoalesceLabels) == 0 || slices.Contains(m.cfg.CoalesceLabels, label)
}

// SetMaxPerLayer changes the per-layer depth cap and trims existing stacks.
// Zero or less means unlimited.
func (m *Manager) SetMaxPerLayer(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cfg.MaxPerLayer = max(n, 0)
	for layer := range m.undo {
		m.enforceCapsLocked(layer)
	}
}

func (m *Manager) clearRedoLocked(layer string) {
	for _, s := range m.redo[layer] {
		m.totalBytes -= len(s.Blob)
	}
	m.redo[layer] = nil
}

func (m *Manager) enforceCapsLocked(layer string) {
	if m.cfg.MaxPerLayer > 0 {
		stack := m.undo[layer]
		if len(stack) > m.cfg.MaxPerLayer {
			toDrop := len(stack) - m.cfg.MaxPerLayer
			for i := 0; i < toDrop; i++ {
				m.totalBytes -= len(stack[i].Blob)
			}
			m.undo[layer] = append([]Snapshot{}, stack[toDrop:]...)
		}
	}
	// Global memory cap: prune the oldest entry across all layers
	for m.cfg.MaxBytes > 0 && m.totalBytes > m.cfg.MaxBytes {
		oldestLayer := ""
		found := false
		var oldestTS time.Time
		for l, stack := range m.undo {
			if len(stack) == 0 {
				continue
			}
			if !found || stack[0].TS.Before(oldestTS) {
				oldestLayer = l
				oldestTS = stack[0].TS
				found = true
			}
		}
		if !found {
			break
		}
		stack := m.undo[oldestLayer]
		m.totalBytes -= len(stack[0].Blob)
		m.undo[oldestLayer] = stack[1:]
		if len(m.undo[oldestLayer]) == 0 {
			delete(m.undo, oldestLayer)
		}
	}
}
