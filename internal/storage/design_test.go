/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"breakscreen/internal/domain"
)

func sampleDesign() domain.Design {
	d := domain.NewDesign("lunch break")
	d.Widgets = []domain.Widget{
		{
			ID:       "w-1",
			Position: domain.Point{X: 10, Y: 10},
			Size:     domain.Size{Width: 300, Height: 120},
			ZIndex:   0,
			Type:     domain.TypeBox,
			Properties: domain.BoxProps{
				Fill: "#1a1a2e", CornerRadius: 8,
			},
		},
		{
			ID:       "w-2",
			Position: domain.Point{X: 40, Y: 40},
			Size:     domain.Size{Width: 240, Height: 60},
			ZIndex:   1,
			Type:     domain.TypeText,
			Properties: domain.TextProps{
				Content: "Back at {break-end}", FontSize: 32, Color: "#ffffff",
			},
		},
	}
	return d
}

func TestInitSaveOpenRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lunch.json")
	h, err := InitDesign(path, sampleDesign())
	if err != nil {
		t.Fatalf("InitDesign: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("design file not written: %v", err)
	}

	got, err := OpenDesign(h.Path)
	if err != nil {
		t.Fatalf("OpenDesign: %v", err)
	}
	if got.Design.Name != "lunch break" {
		t.Fatalf("Name = %q", got.Design.Name)
	}
	if got.Design.SchemaVersion != domain.DesignSchemaVersion {
		t.Fatalf("SchemaVersion = %d", got.Design.SchemaVersion)
	}
	if len(got.Design.Widgets) != 2 {
		t.Fatalf("loaded %d widgets, want 2", len(got.Design.Widgets))
	}
	props, ok := got.Design.Widgets[1].Properties.(domain.TextProps)
	if !ok {
		t.Fatalf("widget 1 properties have type %T", got.Design.Widgets[1].Properties)
	}
	if props.Content != "Back at {break-end}" || props.FontSize != 32 {
		t.Fatalf("text props = %+v", props)
	}
}

func TestSaveCreatesTimestampedBackup(t *testing.T) {
	path := filepath.Join(t.TempDir(), "d.json")
	h, err := InitDesign(path, sampleDesign())
	if err != nil {
		t.Fatalf("InitDesign: %v", err)
	}

	h.Design.Name = "updated"
	if err := SaveDesign(h); err != nil {
		t.Fatalf("SaveDesign: %v", err)
	}

	bdir := filepath.Join(h.SessionDir(), BackupsDirName)
	ents, err := os.ReadDir(bdir)
	if err != nil {
		t.Fatalf("read backups dir: %v", err)
	}
	var baks int
	for _, e := range ents {
		if strings.HasSuffix(e.Name(), ".bak") {
			baks++
		}
	}
	if baks != 1 {
		t.Fatalf("found %d backups, want 1", baks)
	}
}

func TestOpenFallsBackToBackup(t *testing.T) {
	path := filepath.Join(t.TempDir(), "d.json")
	h, err := InitDesign(path, sampleDesign())
	if err != nil {
		t.Fatalf("InitDesign: %v", err)
	}
	// Second save backs up the good copy.
	if err := SaveDesign(h); err != nil {
		t.Fatalf("SaveDesign: %v", err)
	}
	if err := os.WriteFile(path, []byte("{ this is not json"), 0o644); err != nil {
		t.Fatalf("corrupt file: %v", err)
	}

	got, err := OpenDesign(path)
	if err != nil {
		t.Fatalf("OpenDesign after corruption: %v", err)
	}
	if got.Design.Name != "lunch break" {
		t.Fatalf("recovered Name = %q", got.Design.Name)
	}
}

func TestOpenFailsWithoutBackups(t *testing.T) {
	path := filepath.Join(t.TempDir(), "d.json")
	if err := os.WriteFile(path, []byte("garbage"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := OpenDesign(path); err == nil {
		t.Fatalf("OpenDesign succeeded on garbage with no backups")
	}
}

func TestOpenRejectsNonConformingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "d.json")
	// Valid JSON, but widgets carry the wrong shape.
	body := `{"schemaVersion": 1, "widgets": [{"id": "", "type": "blink"}]}`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := OpenDesign(path); err == nil {
		t.Fatalf("OpenDesign accepted a non-conforming design")
	}
}

func TestOpenRejectsNewerSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "d.json")
	body := `{"schemaVersion": 99, "widgets": []}`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := OpenDesign(path); err == nil || !strings.Contains(err.Error(), "newer") {
		t.Fatalf("OpenDesign on future schema = %v", err)
	}
}

func TestOpenRepairsDanglingChildRefs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "d.json")
	body := `{
  "schemaVersion": 1,
  "name": "broken",
  "canvas": {"width": 1920, "height": 1080},
  "widgets": [
    {"id": "a", "position": {"x": 0, "y": 0}, "size": {"width": 10, "height": 10}, "zIndex": 0, "type": "box", "properties": {"fill": "#000"}},
    {"id": "g", "position": {"x": 0, "y": 0}, "size": {"width": 10, "height": 10}, "zIndex": 1, "type": "group", "properties": {"childIds": ["a", "ghost"]}}
  ]
}`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	got, err := OpenDesign(path)
	if err != nil {
		t.Fatalf("OpenDesign: %v", err)
	}
	var group *domain.Widget
	for i := range got.Design.Widgets {
		if got.Design.Widgets[i].ID == "g" {
			group = &got.Design.Widgets[i]
		}
	}
	if group == nil {
		t.Fatalf("group missing after repair")
	}
	children, _ := group.GroupChildren()
	if len(children) != 1 || children[0] != "a" {
		t.Fatalf("children after repair = %v, want [a]", children)
	}
}

func TestValidateDesignBytes(t *testing.T) {
	if err := ValidateDesignBytes([]byte(`{"schemaVersion": 1, "widgets": []}`)); err != nil {
		t.Fatalf("minimal design rejected: %v", err)
	}
	if err := ValidateDesignBytes([]byte(`{"widgets": []}`)); err == nil {
		t.Fatalf("missing schemaVersion accepted")
	}
	bad := `{"schemaVersion": 1, "widgets": [{"id": "a", "position": {"x": 0, "y": 0}, "size": {"width": 1, "height": 1}, "zIndex": 0, "type": "blink"}]}`
	if err := ValidateDesignBytes([]byte(bad)); err == nil {
		t.Fatalf("unknown widget type accepted")
	}
}

func TestSaveDesignAs(t *testing.T) {
	dir := t.TempDir()
	h, err := InitDesign(filepath.Join(dir, "a.json"), sampleDesign())
	if err != nil {
		t.Fatalf("InitDesign: %v", err)
	}
	newPath := filepath.Join(dir, "sub", "b.json")
	if err := SaveDesignAs(h, newPath); err != nil {
		t.Fatalf("SaveDesignAs: %v", err)
	}
	if h.Path != newPath {
		t.Fatalf("handle path = %q", h.Path)
	}
	if _, err := OpenDesign(newPath); err != nil {
		t.Fatalf("open at new path: %v", err)
	}
}
