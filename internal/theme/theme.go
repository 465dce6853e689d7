/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package theme loads named widget style presets from YAML. A theme maps
// style names to box and text properties so designs created from the same
// theme look consistent. Missing styles fall back to the built-in defaults.
package theme

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"breakscreen/internal/domain"
)

// BoxStyle is the YAML shape of a box preset.
type BoxStyle struct {
	Fill         string  `yaml:"fill"`
	CornerRadius float64 `yaml:"cornerRadius"`
}

// TextStyle is the YAML shape of a text preset.
type TextStyle struct {
	Font     string  `yaml:"font"`
	FontSize float64 `yaml:"fontSize"`
	Color    string  `yaml:"color"`
}

// Theme is a named collection of widget style presets.
type Theme struct {
	Name string               `yaml:"name"`
	Box  map[string]BoxStyle  `yaml:"box"`
	Text map[string]TextStyle `yaml:"text"`
}

// DefaultStyleName is the preset used when a requested style is unknown.
const DefaultStyleName = "default"

// Default returns the built-in theme.
func Default() Theme {
	return Theme{
		Name: "default",
		Box: map[string]BoxStyle{
			DefaultStyleName: {Fill: "#1a1a2e", CornerRadius: 8},
			"panel":          {Fill: "#16213e", CornerRadius: 12},
		},
		Text: map[string]TextStyle{
			DefaultStyleName: {Font: "Inter", FontSize: 24, Color: "#ffffff"},
			"headline":       {Font: "Inter", FontSize: 48, Color: "#ffffff"},
			"countdown":      {Font: "Inter", FontSize: 64, Color: "#e2b714"},
		},
	}
}

// Load reads a theme from a YAML file.
func Load(path string) (Theme, error) {
	if strings.TrimSpace(path) == "" {
		return Theme{}, errors.New("theme path is required")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Theme{}, fmt.Errorf("read theme: %w", err)
	}
	var t Theme
	if err := yaml.Unmarshal(b, &t); err != nil {
		return Theme{}, fmt.Errorf("parse theme: %w", err)
	}
	if t.Name == "" {
		return Theme{}, errors.New("theme has no name")
	}
	return t, nil
}

// Save writes the theme to a YAML file.
func Save(path string, t Theme) error {
	b, err := yaml.Marshal(t)
	if err != nil {
		return fmt.Errorf("marshal theme: %w", err)
	}
	return os.WriteFile(path, b, 0o644)
}

// BoxProps resolves a box preset into widget properties. Unknown styles fall
// back to the theme's default preset, then to the built-in default.
func (t Theme) BoxProps(style string) domain.BoxProps {
	if s, ok := t.Box[style]; ok {
		return domain.BoxProps{Fill: s.Fill, CornerRadius: s.CornerRadius}
	}
	if s, ok := t.Box[DefaultStyleName]; ok {
		return domain.BoxProps{Fill: s.Fill, CornerRadius: s.CornerRadius}
	}
	s := Default().Box[DefaultStyleName]
	return domain.BoxProps{Fill: s.Fill, CornerRadius: s.CornerRadius}
}

// TextProps resolves a text preset into widget properties with the given
// content. Unknown styles fall back like BoxProps.
func (t Theme) TextProps(style, content string) domain.TextProps {
	if s, ok := t.Text[style]; ok {
		return domain.TextProps{Content: content, Font: s.Font, FontSize: s.FontSize, Color: s.Color}
	}
	if s, ok := t.Text[DefaultStyleName]; ok {
		return domain.TextProps{Content: content, Font: s.Font, FontSize: s.FontSize, Color: s.Color}
	}
	s := Default().Text[DefaultStyleName]
	return domain.TextProps{Content: content, Font: s.Font, FontSize: s.FontSize, Color: s.Color}
}
