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

	"log/slog"

	"breakscreen/internal/domain"
	applog "breakscreen/internal/log"
)

const (
	// SessionDirName stores all per-design ephemeral data (backups, session
	// store) in a dot-directory next to the design file.
	SessionDirName = ".bsc"
	BackupsDirName = "backups"
)

// DesignHandle keeps track of the design state loaded/saved from disk.
// Path is the design file; the sibling .bsc directory holds backups and the
// session store.
type DesignHandle struct {
	Path   string
	Design domain.Design
}

// SessionDir returns the .bsc directory next to the design file.
func (h *DesignHandle) SessionDir() string {
	return filepath.Join(filepath.Dir(h.Path), SessionDirName)
}

// InitDesign creates a new design file at path (creating parent directories
// if needed) and writes it transactionally.
func InitDesign(path string, d domain.Design) (*DesignHandle, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("design path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create design dir: %w", err)
	}
	h := &DesignHandle{Path: path, Design: d}
	if err := SaveDesign(h); err != nil {
		return nil, err
	}
	return h, nil
}

// OpenDesign loads an existing design file. The raw bytes are validated
// against the embedded JSON schema before unmarshalling; if the current file
// cannot be read, parsed or validated, the latest timestamped backup is
// tried. Dangling group child references are repaired with a warning rather
// than failing the open.
func OpenDesign(path string) (*DesignHandle, error) {
	l := applog.WithComponent("storage").With(slog.String("path", path))
	b, err := os.ReadFile(path)
	if err != nil {
		d, berr := openFromLatestBackup(path)
		if berr != nil {
			return nil, fmt.Errorf("open design: %w; backup attempt: %v", err, berr)
		}
		l.Warn("design file unreadable, recovered from backup", slog.Any("err", err))
		return &DesignHandle{Path: path, Design: *d}, nil
	}
	d, derr := decodeDesign(b)
	if derr != nil {
		bd, berr := openFromLatestBackup(path)
		if berr != nil {
			return nil, fmt.Errorf("parse design: %w; backup attempt: %v", derr, berr)
		}
		l.Warn("design file invalid, recovered from backup", slog.Any("err", derr))
		return &DesignHandle{Path: path, Design: *bd}, nil
	}
	repairDesign(d, l)
	return &DesignHandle{Path: path, Design: *d}, nil
}

// decodeDesign validates raw design bytes against the embedded schema and
// unmarshals them.
func decodeDesign(b []byte) (*domain.Design, error) {
	if err := ValidateDesignBytes(b); err != nil {
		return nil, err
	}
	var d domain.Design
	if err := json.Unmarshal(b, &d); err != nil {
		return nil, fmt.Errorf("unmarshal design: %w", err)
	}
	if d.SchemaVersion > domain.DesignSchemaVersion {
		return nil, fmt.Errorf("design schema version %d is newer than supported %d", d.SchemaVersion, domain.DesignSchemaVersion)
	}
	return &d, nil
}

// repairDesign drops dangling group child references in place, logging how
// many were removed. Corrupt references must not block opening a design.
func repairDesign(d *domain.Design, l *slog.Logger) {
	doc, err := domain.DocumentFromWidgets(d.Widgets)
	if err != nil {
		return
	}
	if n := doc.Repair(); n > 0 {
		l.Warn("repaired dangling group child references", slog.Int("dropped", n))
		d.Widgets = doc.Snapshot()
	}
}

// SaveDesign writes the handle's design to disk with transactional semantics
// and a timestamped backup of the previous file (if present) under
// .bsc/backups.
func SaveDesign(h *DesignHandle) error {
	if h == nil {
		return errors.New("nil DesignHandle")
	}
	if h.Path == "" {
		return errors.New("invalid DesignHandle: missing path")
	}
	data, err := json.MarshalIndent(h.Design, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal design: %w", err)
	}
	data = append(data, '\n')

	bdir := filepath.Join(h.SessionDir(), BackupsDirName)
	if err := os.MkdirAll(bdir, 0o755); err != nil {
		return fmt.Errorf("ensure backups dir: %w", err)
	}

	// If a current file exists, copy it to a timestamped backup before replacing
	name := filepath.Base(h.Path)
	if _, statErr := os.Stat(h.Path); statErr == nil {
		stamp := time.Now().Format("20060102-150405")
		bpath := filepath.Join(bdir, fmt.Sprintf("%s.%s.bak", name, stamp))
		if cerr := copyFile(h.Path, bpath); cerr != nil {
			return fmt.Errorf("backup current design: %w", cerr)
		}
	}

	// Transactional write: to temp file in same directory, then rename over target
	dir := filepath.Dir(h.Path)
	temp := filepath.Join(dir, fmt.Sprintf(".%s.tmp-%d-%d", name, os.Getpid(), rand.Int()))
	if werr := writeFileSync(temp, data); werr != nil {
		return fmt.Errorf("write temp design: %w", werr)
	}
	// On Windows, replace by removing destination first if needed
	if _, err := os.Stat(h.Path); err == nil {
		_ = os.Remove(h.Path)
	}
	if rerr := os.Rename(temp, h.Path); rerr != nil {
		_ = os.Remove(temp)
		return fmt.Errorf("replace design: %w", rerr)
	}
	return nil
}

// SaveDesignAs writes the design to a new path and updates the handle.
func SaveDesignAs(h *DesignHandle, newPath string) error {
	if h == nil {
		return errors.New("nil DesignHandle")
	}
	if newPath == "" {
		return errors.New("new path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(newPath), 0o755); err != nil {
		return fmt.Errorf("create new design dir: %w", err)
	}
	h.Path = newPath
	return SaveDesign(h)
}

// writeFileSync writes data to a file, ensures it is flushed to disk.
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
	if err := f.Sync(); err != nil {
		return err
	}
	return nil
}

// copyFile copies a file from src to dst (overwrites dst if exists).
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
	if err := df.Sync(); err != nil {
		return err
	}
	return nil
}

// openFromLatestBackup tries to open the latest timestamped backup of the
// design file, newest first, returning the first one that decodes cleanly.
func openFromLatestBackup(path string) (*domain.Design, error) {
	bdir := filepath.Join(filepath.Dir(path), SessionDirName, BackupsDirName)
	name := filepath.Base(path)
	ents, err := os.ReadDir(bdir)
	if err != nil {
		return nil, fmt.Errorf("read backups dir: %w", err)
	}
	var candidates []string
	for _, e := range ents {
		n := e.Name()
		if strings.HasPrefix(n, name+".") && strings.HasSuffix(n, ".bak") {
			candidates = append(candidates, filepath.Join(bdir, n))
		}
	}
	if len(candidates) == 0 {
		return nil, errors.New("no backups found")
	}
	sort.Strings(candidates) // timestamp in name yields lexicographic order
	for i := len(candidates) - 1; i >= 0; i-- {
		b, rerr := os.ReadFile(candidates[i])
		if rerr != nil {
			err = rerr
			continue
		}
		d, derr := decodeDesign(b)
		if derr != nil {
			err = derr
			continue
		}
		return d, nil
	}
	return nil, fmt.Errorf("no usable backup: %w", err)
}
