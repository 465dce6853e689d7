/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"breakscreen/internal/config"
	"breakscreen/internal/crash"
	"breakscreen/internal/domain"
	applog "breakscreen/internal/log"
	"breakscreen/internal/placeholder"
	"breakscreen/internal/storage"
	"breakscreen/internal/theme"
	"breakscreen/internal/version"
)

func usage() {
	fmt.Println("Break Screen Designer")
	fmt.Printf("Version: %s\n", version.String())
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  breakscreen version|-v|--version      Show version")
	fmt.Println("  breakscreen new <file> <name>          Create a new design at <file> with name <name>")
	fmt.Println("  breakscreen validate <file>            Validate a design file against the schema")
	fmt.Println("  breakscreen inspect <file>             Print a summary of the design and its session store")
}

func main() {
	// user config first, then logging; Load folds the BSC_* env overrides in
	cfg, cfgErr := config.Load()
	applog.Init(applog.FromConfig(cfg.Logging))
	l := applog.WithComponent("cli")
	if cfgErr != nil {
		l.Warn("user config unavailable, using defaults", slog.Any("err", cfgErr))
	}
	var h *storage.DesignHandle
	defer func() { crash.Recover(h) }()

	args := os.Args
	l.Debug("start", slog.Int("args", len(args)))
	if len(args) > 1 {
		switch args[1] {
		case "version", "--version", "-v":
			fmt.Println("Break Screen Designer")
			fmt.Println(version.String())
			return
		case "new":
			if len(args) < 4 {
				fmt.Println("new requires <file> and <name>")
				usage()
				os.Exit(2)
			}
			abs, _ := filepath.Abs(args[2])
			name := args[3]
			l.Info("new design", slog.String("path", abs), slog.String("name", name))
			nh, err := storage.InitDesign(abs, starterDesign(name))
			if err != nil {
				l.Error("new failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			h = nh
			fmt.Println("Created design at", abs)
			return
		case "validate":
			if len(args) < 3 {
				fmt.Println("validate requires <file>")
				usage()
				os.Exit(2)
			}
			abs, _ := filepath.Abs(args[2])
			if err := validateDesign(abs); err != nil {
				l.Error("validate failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			fmt.Println("OK:", abs)
			return
		case "inspect":
			if len(args) < 3 {
				fmt.Println("inspect requires <file>")
				usage()
				os.Exit(2)
			}
			abs, _ := filepath.Abs(args[2])
			l.Info("inspect design", slog.String("path", abs))
			nh, err := storage.OpenDesign(abs)
			if err != nil {
				l.Error("inspect failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			h = nh
			inspectDesign(h)
			return
		}
	}
	usage()
}

// starterDesign builds a new design with a themed background panel and a
// placeholder headline so a fresh file renders something useful.
func starterDesign(name string) domain.Design {
	th := theme.Default()
	d := domain.NewDesign(name)
	d.Widgets = []domain.Widget{
		{
			ID:         domain.NewID(),
			Position:   domain.Point{X: 0, Y: 0},
			Size:       d.Canvas,
			ZIndex:     0,
			Type:       domain.TypeBox,
			Properties: th.BoxProps("panel"),
		},
		{
			ID:         domain.NewID(),
			Position:   domain.Point{X: 560, Y: 460},
			Size:       domain.Size{Width: 800, Height: 160},
			ZIndex:     1,
			Type:       domain.TypeText,
			Properties: th.TextProps("headline", "Back at {break-end}"),
		},
	}
	return d
}

func validateDesign(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := storage.ValidateDesignBytes(b); err != nil {
		return err
	}
	h, err := storage.OpenDesign(path)
	if err != nil {
		return err
	}
	doc, err := domain.DocumentFromWidgets(h.Design.Widgets)
	if err != nil {
		return err
	}
	return doc.Validate()
}

func inspectDesign(h *storage.DesignHandle) {
	fmt.Printf("Design:  %s\n", h.Design.Name)
	fmt.Printf("Schema:  %d\n", h.Design.SchemaVersion)
	fmt.Printf("Canvas:  %.0fx%.0f\n", h.Design.Canvas.Width, h.Design.Canvas.Height)
	fmt.Printf("Widgets: %d\n", len(h.Design.Widgets))

	byType := map[domain.Type]int{}
	var tokens []string
	seen := map[string]bool{}
	for _, w := range h.Design.Widgets {
		byType[w.Type]++
		if tp, ok := w.Properties.(domain.TextProps); ok {
			for _, tok := range placeholder.Tokens(tp.Content) {
				if !seen[tok] {
					seen[tok] = true
					tokens = append(tokens, tok)
				}
			}
		}
	}
	for _, t := range []domain.Type{domain.TypeBox, domain.TypeText, domain.TypeGroup} {
		if byType[t] > 0 {
			fmt.Printf("  %-6s %d\n", t, byType[t])
		}
	}
	if len(tokens) > 0 {
		fmt.Printf("Tokens:  %v\n", tokens)
	}

	// Session store summary, if one exists next to the design file.
	if _, err := os.Stat(storage.SessionPath(h.Path)); err != nil {
		return
	}
	s, err := storage.OpenSession(h.Path)
	if err != nil {
		fmt.Println("Session: unavailable:", err)
		return
	}
	defer func() { _ = s.Close() }()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	infos, err := s.ListSnapshots(ctx, 5)
	if err != nil {
		fmt.Println("Session: unavailable:", err)
		return
	}
	fmt.Printf("Session: %d recent snapshot(s)\n", len(infos))
	for _, info := range infos {
		fmt.Printf("  %s  %s\n", info.TS.Format(time.RFC3339), info.Reason)
	}
}
