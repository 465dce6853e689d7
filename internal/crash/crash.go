/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package crash turns panics into a report file plus an emergency design
// snapshot in the session store, then exits non-zero.
package crash

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"time"

	"breakscreen/internal/config"
	applog "breakscreen/internal/log"
	"breakscreen/internal/storage"
	"breakscreen/internal/version"
)

// exitFn is used to allow testing of Recover without terminating the test process.
var exitFn = os.Exit

// Recover captures a panic, logs an error with stacktrace, writes an error
// report file, and attempts a crash-safe snapshot of the design into the
// session store (if a handle is provided).
//
// Usage: defer func(){ crash.Recover(h) }()
func Recover(h *storage.DesignHandle) {
	if r := recover(); r != nil {
		l := applog.WithComponent("crash")
		stack := debug.Stack()
		l.Error("panic recovered", slog.Any("panic", r), slog.String("stack", string(stack)))

		reportPath, _ := writeReport(h, r, stack)
		if h != nil {
			if err := saveEmergencySnapshot(h); err != nil {
				l.Error("emergency snapshot failed", slog.Any("err", err))
			} else {
				l.Info("emergency snapshot written", slog.String("store", storage.SessionPath(h.Path)))
			}
		}

		if _, err := fmt.Fprintf(os.Stderr, "A fatal error occurred. A crash report was saved to: %s\n", reportPath); err != nil {
			l.Error("failed to write crash message to stderr", slog.Any("err", err))
		}
		if _, err := fmt.Fprintf(os.Stderr, "Version: %s\nOS/Arch: %s/%s\n", version.String(), runtime.GOOS, runtime.GOARCH); err != nil {
			l.Error("failed to write version info to stderr", slog.Any("err", err))
		}
		// Exit with a non-zero code to indicate failure in CLI context.
		exitFn(2)
	}
}

func saveEmergencySnapshot(h *storage.DesignHandle) error {
	cfg, _ := config.Load()
	s, err := storage.OpenSession(h.Path)
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.SaveSnapshot(ctx, h.Design, "crash", time.Now()); err != nil {
		return err
	}
	// keep the store bounded; the snapshot above must survive even if this fails
	if pruned, err := s.Prune(ctx, cfg.Editor.SessionKeep); err != nil {
		applog.WithComponent("crash").Warn("session prune failed", slog.Any("err", err))
	} else if pruned > 0 {
		applog.WithComponent("crash").Info("session store pruned",
			slog.Int64("removed", pruned), slog.Int("keep", cfg.Editor.SessionKeep))
	}
	return nil
}

func writeReport(h *storage.DesignHandle, panicVal any, stack []byte) (string, error) {
	dir := os.TempDir()
	if h != nil && h.Path != "" {
		dir = h.SessionDir()
		_ = os.MkdirAll(dir, 0o755)
	}
	stamp := time.Now().Format("20060102-150405")
	path := filepath.Join(dir, fmt.Sprintf("crash-%s.log", stamp))

	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return path, err
	}
	defer func() {
		if err := f.Close(); err != nil {
			applog.WithComponent("crash").Error("failed to close crash report file", slog.Any("err", err), slog.String("path", path))
		}
	}()

	var buf bytes.Buffer
	_, _ = fmt.Fprintf(&buf, "Break Screen Designer Crash Report\n")
	_, _ = fmt.Fprintf(&buf, "Timestamp: %s\n", time.Now().Format(time.RFC3339))
	_, _ = fmt.Fprintf(&buf, "Version: %s\n", version.String())
	_, _ = fmt.Fprintf(&buf, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	if h != nil {
		_, _ = fmt.Fprintf(&buf, "Design: %s\n", h.Path)
	}
	_, _ = fmt.Fprintf(&buf, "\nPanic: %v\n\n", panicVal)
	_, _ = fmt.Fprintf(&buf, "Stack:\n%s\n", string(stack))

	if _, err := f.Write(buf.Bytes()); err != nil {
		return path, err
	}
	_ = f.Sync()
	return path, nil
}
