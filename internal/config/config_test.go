/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package config

import (
	"os"
	"path/filepath"
	"testing"
)

// writeUserConfig points the per-user config directory at a temp dir and
// writes the given YAML there, so Load picks it up.
func writeUserConfig(t *testing.T, yaml string) {
	t.Helper()
	tmp := t.TempDir()
	t.Setenv("HOME", tmp)
	t.Setenv("AppData", tmp)
	t.Setenv("USERPROFILE", tmp)
	path, err := ConfigPath()
	if err != nil {
		t.Fatalf("ConfigPath() error: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}
}

func TestEnvOverridesHistoryLimit(t *testing.T) {
	t.Setenv(EnvHistoryLimit, "250")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got, want := cfg.Editor.HistoryLimit, 250; got != want {
		t.Fatalf("Editor.HistoryLimit = %d, want %d", got, want)
	}
}

func TestEnvOverridesIgnoreInvalidNumbers(t *testing.T) {
	t.Setenv(EnvHistoryLimit, "not-a-number")
	t.Setenv(EnvSnapThreshold, "-3")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	def := Defaults()
	if cfg.Editor.HistoryLimit != def.Editor.HistoryLimit {
		t.Fatalf("invalid env override changed HistoryLimit: %d", cfg.Editor.HistoryLimit)
	}
	if cfg.Editor.SnapThreshold != def.Editor.SnapThreshold {
		t.Fatalf("negative env override changed SnapThreshold: %v", cfg.Editor.SnapThreshold)
	}
}

func TestMergeAppliesExplicitSnapBooleans(t *testing.T) {
	dst := Defaults()
	off := false
	var src fileConfig
	src.Editor.SnapToEdges = &off
	src.Editor.SnapToCenters = &off
	mergeInto(&dst, &src)
	if dst.Editor.SnapToEdges || dst.Editor.SnapToCenters {
		t.Fatalf("explicit snap booleans were not merged from file config")
	}
}

func TestMergeKeepsDefaultsForAbsentBooleans(t *testing.T) {
	dst := Defaults()
	var src fileConfig
	mergeInto(&dst, &src)
	if !dst.Editor.SnapToEdges || !dst.Editor.SnapToCenters {
		t.Fatalf("absent snap keys flipped defaults: %+v", dst.Editor)
	}
	if dst.Logging.Source {
		t.Fatalf("absent logging source flipped default: %+v", dst.Logging)
	}
}

func TestMergeIncludesLogging(t *testing.T) {
	dst := Defaults()
	on := true
	var src fileConfig
	src.Logging.Level = "debug"
	src.Logging.Format = "json"
	src.Logging.Source = &on
	mergeInto(&dst, &src)
	if dst.Logging.Level != "debug" || dst.Logging.Format != "json" || !dst.Logging.Source {
		t.Fatalf("logging settings were not merged: %+v", dst.Logging)
	}
}

func TestLoadKeepsSnapDefaultsWhenKeysOmitted(t *testing.T) {
	writeUserConfig(t, "editor:\n  history_limit: 42\n")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Editor.HistoryLimit != 42 {
		t.Fatalf("HistoryLimit = %d, want 42", cfg.Editor.HistoryLimit)
	}
	if !cfg.Editor.SnapToEdges || !cfg.Editor.SnapToCenters {
		t.Fatalf("omitted snap keys disabled snapping: %+v", cfg.Editor)
	}
}

func TestLoadAppliesExplicitSnapFalse(t *testing.T) {
	writeUserConfig(t, "editor:\n  snap_to_edges: false\n")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Editor.SnapToEdges {
		t.Fatalf("snap_to_edges: false was not applied")
	}
	if !cfg.Editor.SnapToCenters {
		t.Fatalf("untouched snap_to_centers lost its default")
	}
}

func TestDefaultsAreSane(t *testing.T) {
	def := Defaults()
	if def.Editor.HistoryLimit <= 0 || def.Editor.SessionKeep <= 0 || def.Editor.SnapThreshold <= 0 {
		t.Fatalf("defaults contain non-positive editor values: %+v", def.Editor)
	}
}
