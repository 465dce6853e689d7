/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func openTestSession(t *testing.T) (*Session, string) {
	t.Helper()
	designPath := filepath.Join(t.TempDir(), "d.json")
	s, err := OpenSession(designPath)
	if err != nil {
		t.Fatalf("OpenSession: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s, designPath
}

func TestSessionSnapshotRoundTrip(t *testing.T) {
	s, designPath := openTestSession(t)
	ctx := context.Background()

	if _, err := os.Stat(SessionPath(designPath)); err != nil {
		t.Fatalf("session database not created: %v", err)
	}

	base := time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC)
	d := sampleDesign()
	if err := s.SaveSnapshot(ctx, d, "autosave", base); err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}
	d.Name = "second"
	if err := s.SaveSnapshot(ctx, d, "autosave", base.Add(time.Minute)); err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}

	got, ts, err := s.LatestSnapshot(ctx)
	if err != nil {
		t.Fatalf("LatestSnapshot: %v", err)
	}
	if got == nil || got.Name != "second" {
		t.Fatalf("latest snapshot = %+v", got)
	}
	if !ts.Equal(base.Add(time.Minute)) {
		t.Fatalf("latest ts = %v", ts)
	}
	if len(got.Widgets) != 2 {
		t.Fatalf("snapshot carries %d widgets, want 2", len(got.Widgets))
	}
}

func TestSessionLatestOnEmptyStore(t *testing.T) {
	s, _ := openTestSession(t)
	got, ts, err := s.LatestSnapshot(context.Background())
	if err != nil {
		t.Fatalf("LatestSnapshot: %v", err)
	}
	if got != nil || !ts.IsZero() {
		t.Fatalf("empty store returned %+v at %v", got, ts)
	}
}

func TestSessionPrune(t *testing.T) {
	s, _ := openTestSession(t)
	ctx := context.Background()
	base := time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC)
	d := sampleDesign()
	for i := 0; i < 5; i++ {
		if err := s.SaveSnapshot(ctx, d, "autosave", base.Add(time.Duration(i)*time.Second)); err != nil {
			t.Fatalf("SaveSnapshot %d: %v", i, err)
		}
	}

	deleted, err := s.Prune(ctx, 2)
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if deleted != 3 {
		t.Fatalf("Prune deleted %d rows, want 3", deleted)
	}
	infos, err := s.ListSnapshots(ctx, 10)
	if err != nil {
		t.Fatalf("ListSnapshots: %v", err)
	}
	if len(infos) != 2 {
		t.Fatalf("after prune %d snapshots remain", len(infos))
	}
	// Newest first, and the newest must survive.
	if !infos[0].TS.Equal(base.Add(4 * time.Second)) {
		t.Fatalf("newest surviving snapshot at %v", infos[0].TS)
	}

	// Non-positive keep count is a no-op.
	if n, err := s.Prune(ctx, 0); err != nil || n != 0 {
		t.Fatalf("Prune(0) = %d, %v", n, err)
	}
}

func TestSessionReopenKeepsSnapshots(t *testing.T) {
	designPath := filepath.Join(t.TempDir(), "d.json")
	s, err := OpenSession(designPath)
	if err != nil {
		t.Fatalf("OpenSession: %v", err)
	}
	ctx := context.Background()
	if err := s.SaveSnapshot(ctx, sampleDesign(), "crash", time.Now()); err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	s2, err := OpenSession(designPath)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer func() { _ = s2.Close() }()
	got, _, err := s2.LatestSnapshot(ctx)
	if err != nil {
		t.Fatalf("LatestSnapshot after reopen: %v", err)
	}
	if got == nil || got.Name != "lunch break" {
		t.Fatalf("snapshot lost across reopen: %+v", got)
	}
}
