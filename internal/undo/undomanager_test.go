/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */
package undo

import (
	"testing"
	"time"
)

func TestUndoRedoSwapsCurrentState(t *testing.T) {
	m := NewManager(Config{MaxBytes: 1024 * 1024, MaxPerLayer: 10})
	t0 := time.Now()
	m.Push(Snapshot{Layer: "image", Label: "move", Blob: []byte("a"), TS: t0})
	m.Push(Snapshot{Layer: "image", Label: "move", Blob: []byte("b"), TS: t0.Add(time.Second)})
	if _, layers, total := m.Stats(); layers != 1 || total != 2 {
		t.Fatalf("expected 1 layer and 2 snapshots, got layers=%d total=%d", layers, total)
	}
	s, ok := m.Undo("image", []byte("c"))
	if !ok || string(s.Blob) != "b" {
		t.Fatalf("undo expected 'b', got ok=%v blob=%q", ok, string(s.Blob))
	}
	s, ok = m.Redo("image", []byte("b"))
	if !ok || string(s.Blob) != "c" {
		t.Fatalf("redo expected 'c', got ok=%v blob=%q", ok, string(s.Blob))
	}
	if m.CanRedo("image") {
		t.Fatalf("redo stack should be empty after redoing the only entry")
	}
}

func TestLayersAreIndependent(t *testing.T) {
	m := NewManager(Config{})
	m.Push(Snapshot{Layer: "image", Blob: []byte("img"), TS: time.Now()})
	if m.CanUndo("name") {
		t.Fatalf("name layer should have no history")
	}
	if _, ok := m.Undo("name", nil); ok {
		t.Fatalf("undo on empty layer should report false")
	}
	if !m.CanUndo("image") {
		t.Fatalf("image layer should have history")
	}
}

func TestCoalesceKeepsOldestBeforeState(t *testing.T) {
	m := NewManager(Config{MinInterval: 50 * time.Millisecond})
	t0 := time.Now()
	m.Push(Snapshot{Layer: "name", Label: "nudge", Blob: []byte("1"), TS: t0})
	m.Push(Snapshot{Layer: "name", Label: "nudge", Blob: []byte("2"), TS: t0.Add(10 * time.Millisecond)})
	m.Push(Snapshot{Layer: "name", Label: "nudge", Blob: []byte("3"), TS: t0.Add(40 * time.Millisecond)})
	if _, _, total := m.Stats(); total != 1 {
		t.Fatalf("expected coalesced to 1 snapshot, got %d", total)
	}
	s, ok := m.Undo("name", []byte("4"))
	if !ok || string(s.Blob) != "1" {
		t.Fatalf("expected oldest snapshot '1', got ok=%v blob=%q", ok, string(s.Blob))
	}
}

func TestDifferentLabelsDoNotCoalesce(t *testing.T) {
	m := NewManager(Config{MinInterval: time.Hour})
	t0 := time.Now()
	m.Push(Snapshot{Layer: "image", Label: "move", Blob: []byte("1"), TS: t0})
	m.Push(Snapshot{Layer: "image", Label: "resize", Blob: []byte("2"), TS: t0})
	if _, _, total := m.Stats(); total != 2 {
		t.Fatalf("expected 2 snapshots, got %d", total)
	}
}

func TestPushClearsRedo(t *testing.T) {
	m := NewManager(Config{})
	m.Push(Snapshot{Layer: "image", Blob: []byte("1"), TS: time.Now()})
	if _, ok := m.Undo("image", []byte("2")); !ok {
		t.Fatalf("undo failed")
	}
	m.Push(Snapshot{Layer: "image", Blob: []byte("3"), TS: time.Now()})
	if m.CanRedo("image") {
		t.Fatalf("a new edit must invalidate redo")
	}
}

func TestCaps(t *testing.T) {
	m := NewManager(Config{MaxBytes: 20, MaxPerLayer: 2})
	for i := 0; i < 10; i++ {
		m.Push(Snapshot{Layer: "image", Blob: []byte("xxxxx"), TS: time.Now().Add(time.Duration(i) * time.Millisecond)})
	}
	_, _, total := m.Stats()
	if total > 2 {
		t.Fatalf("expected MaxPerLayer cap to limit to 2, got %d", total)
	}
}

func TestCoalesceLabelsLimitMerging(t *testing.T) {
	m := NewManager(Config{MinInterval: time.Second, CoalesceLabels: []string{"nudge"}})
	t0 := time.Now()
	m.Push(Snapshot{Layer: "image", Label: "move", Blob: []byte("1"), TS: t0})
	m.Push(Snapshot{Layer: "image", Label: "move", Blob: []byte("2"), TS: t0.Add(300 * time.Millisecond)})
	m.Push(Snapshot{Layer: "image", Label: "nudge", Blob: []byte("3"), TS: t0.Add(400 * time.Millisecond)})
	m.Push(Snapshot{Layer: "image", Label: "nudge", Blob: []byte("4"), TS: t0.Add(500 * time.Millisecond)})
	if _, _, total := m.Stats(); total != 3 {
		t.Fatalf("expected moves kept apart and nudges merged (3 snapshots), got %d", total)
	}
	s, _ := m.Undo("image", []byte("5"))
	if string(s.Blob) != "3" {
		t.Fatalf("nudge burst should undo to '3', got %q", s.Blob)
	}
	s, _ = m.Undo("image", s.Blob)
	if string(s.Blob) != "2" {
		t.Fatalf("second move should undo to '2', got %q", s.Blob)
	}
}

func TestSetMaxPerLayerTrimsOldest(t *testing.T) {
	m := NewManager(Config{})
	t0 := time.Now()
	for i, b := range []string{"1", "2", "3"} {
		m.Push(Snapshot{Layer: "name", Label: "move", Blob: []byte(b), TS: t0.Add(time.Duration(i) * time.Second)})
	}
	m.SetMaxPerLayer(1)
	if _, _, total := m.Stats(); total != 1 {
		t.Fatalf("expected 1 snapshot after lowering the cap, got %d", total)
	}
	if s, ok := m.Undo("name", []byte("4")); !ok || string(s.Blob) != "3" {
		t.Fatalf("newest snapshot should survive, got ok=%v blob=%q", ok, s.Blob)
	}
	m.Push(Snapshot{Layer: "name", Label: "move", Blob: []byte("5"), TS: t0.Add(time.Hour)})
	m.Push(Snapshot{Layer: "name", Label: "move", Blob: []byte("6"), TS: t0.Add(2 * time.Hour)})
	if _, _, total := m.Stats(); total != 1 {
		t.Fatalf("cap should hold for new pushes, got %d", total)
	}
}
