/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package config loads and saves the user-editable designer configuration.
// The configuration lives in a YAML file in the user scope; environment
// variables act as read-only overrides at runtime.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// EditorConfig tunes the canvas editing engine.
type EditorConfig struct {
	// HistoryLimit caps the undo stack depth; oldest commands are pruned.
	HistoryLimit int `yaml:"history_limit"`
	// SnapThreshold is the snap distance in canvas units for smart guides.
	SnapThreshold float64 `yaml:"snap_threshold"`
	SnapToEdges   bool    `yaml:"snap_to_edges"`
	SnapToCenters bool    `yaml:"snap_to_centers"`
	// SessionKeep is how many autosave snapshots the session store retains.
	SessionKeep int `yaml:"session_keep"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Source bool   `yaml:"source"`
	File   string `yaml:"file"`
}

// AppConfig is the persisted configuration document.
// config_version: bump when the structure changes in a backward-incompatible way.
type AppConfig struct {
	ConfigVersion int           `yaml:"config_version"`
	Editor        EditorConfig  `yaml:"editor"`
	Logging       LoggingConfig `yaml:"logging"`
}

// Defaults returns the application defaults.
func Defaults() AppConfig {
	return AppConfig{
		ConfigVersion: 1,
		Editor: EditorConfig{
			HistoryLimit:  100,
			SnapThreshold: 6,
			SnapToEdges:   true,
			SnapToCenters: true,
			SessionKeep:   20,
		},
		Logging: LoggingConfig{Level: "info", Format: "console", Source: false, File: ""},
	}
}

// Env var names used as overrides.
const (
	EnvHistoryLimit  = "BSC_HISTORY_LIMIT"
	EnvSnapThreshold = "BSC_SNAP_THRESHOLD"
	EnvSessionKeep   = "BSC_SESSION_KEEP"
	EnvLogLevel      = "BSC_LOG_LEVEL"
	EnvLogFormat     = "BSC_LOG_FORMAT"
	EnvLogSource     = "BSC_LOG_SOURCE"
	EnvLogFile       = "BSC_LOG_FILE"
)

// ConfigPath returns the per-user config file path.
func ConfigPath() (string, error) {
	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("AppData")
		if base == "" {
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		base = filepath.Join(base, "BreakScreen")
	case "darwin":
		base = filepath.Join(os.Getenv("HOME"), "Library", "Application Support", "BreakScreen")
	default: // linux and others
		base = filepath.Join(os.Getenv("HOME"), ".config", "breakscreen")
	}
	if base == "" {
		return "", errors.New("cannot resolve config directory")
	}
	return filepath.Join(base, "config.yaml"), nil
}

// Load reads the user config file (if present), applies defaults, and merges
// environment overrides.
func Load() (AppConfig, error) {
	cfg := Defaults()
	path, err := ConfigPath()
	if err != nil {
		return cfg, err
	}
	if data, err := os.ReadFile(path); err == nil {
		var fileCfg fileConfig
		if err := yaml.Unmarshal(data, &fileCfg); err == nil {
			mergeInto(&cfg, &fileCfg)
		}
	}
	applyEnvOverrides(&cfg)
	return cfg, nil
}

// Save writes the user config YAML.
func Save(cfg AppConfig) error {
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
	return os.WriteFile(path, data, 0o600)
}

// fileConfig mirrors AppConfig for decoding. Booleans are pointers so an
// absent key can be told apart from an explicit false; absent keys keep the
// defaults.
type fileConfig struct {
	ConfigVersion int `yaml:"config_version"`
	Editor        struct {
		HistoryLimit  int     `yaml:"history_limit"`
		SnapThreshold float64 `yaml:"snap_threshold"`
		SnapToEdges   *bool   `yaml:"snap_to_edges"`
		SnapToCenters *bool   `yaml:"snap_to_centers"`
		SessionKeep   int     `yaml:"session_keep"`
	} `yaml:"editor"`
	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		Source *bool  `yaml:"source"`
		File   string `yaml:"file"`
	} `yaml:"logging"`
}

func mergeInto(dst *AppConfig, src *fileConfig) {
	if src.ConfigVersion != 0 {
		dst.ConfigVersion = src.ConfigVersion
	}
	if src.Editor.HistoryLimit != 0 {
		dst.Editor.HistoryLimit = src.Editor.HistoryLimit
	}
	if src.Editor.SnapThreshold != 0 {
		dst.Editor.SnapThreshold = src.Editor.SnapThreshold
	}
	if src.Editor.SnapToEdges != nil {
		dst.Editor.SnapToEdges = *src.Editor.SnapToEdges
	}
	if src.Editor.SnapToCenters != nil {
		dst.Editor.SnapToCenters = *src.Editor.SnapToCenters
	}
	if src.Editor.SessionKeep != 0 {
		dst.Editor.SessionKeep = src.Editor.SessionKeep
	}
	if strings.TrimSpace(src.Logging.Level) != "" {
		dst.Logging.Level = strings.ToLower(strings.TrimSpace(src.Logging.Level))
	}
	if strings.TrimSpace(src.Logging.Format) != "" {
		dst.Logging.Format = strings.ToLower(strings.TrimSpace(src.Logging.Format))
	}
	if src.Logging.Source != nil {
		dst.Logging.Source = *src.Logging.Source
	}
	if strings.TrimSpace(src.Logging.File) != "" {
		dst.Logging.File = strings.TrimSpace(src.Logging.File)
	}
}

func applyEnvOverrides(cfg *AppConfig) {
	if v := strings.TrimSpace(os.Getenv(EnvHistoryLimit)); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Editor.HistoryLimit = n
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvSnapThreshold)); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			cfg.Editor.SnapThreshold = f
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvSessionKeep)); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Editor.SessionKeep = n
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFormat)); v != "" {
		cfg.Logging.Format = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogSource)); v != "" {
		lv := strings.ToLower(v)
		cfg.Logging.Source = lv == "1" || lv == "true" || lv == "on" || lv == "yes"
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFile)); v != "" {
		cfg.Logging.File = v
	}
}
