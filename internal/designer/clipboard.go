/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package designer

import (
	"log/slog"

	"breakscreen/internal/domain"
	applog "breakscreen/internal/log"
)

// Paste offset relative to the position stored at copy/cut time. Every paste
// offsets from the original snapshot, never from the previous paste's result.
const (
	PasteOffsetX = 20
	PasteOffsetY = 20
)

// Clipboard holds a deep-copied snapshot of widget data between copy/cut and
// paste. The snapshot is decoupled from the live document: mutating the
// originals after copy does not affect a later paste, and paste never mutates
// the stored items, so repeated pastes are independent.
type Clipboard struct {
	items    []domain.Widget
	onChange func(count int)
	log      *slog.Logger
}

// NewClipboard returns an empty clipboard. onChange fires after copy/cut with
// the stored item count; it may be nil.
func NewClipboard(onChange func(count int)) *Clipboard {
	return &Clipboard{onChange: onChange, log: applog.WithComponent("clipboard")}
}

// Copy deep-clones the given widgets into the clipboard, replacing any prior
// contents.
func (c *Clipboard) Copy(items []domain.Widget) {
	c.store(items)
}

// Cut has the identical storage effect to Copy. Deleting the originals from
// the live document is the caller's separate responsibility; the clipboard is
// fully populated before that delete runs.
func (c *Clipboard) Cut(items []domain.Widget) {
	c.store(items)
}

func (c *Clipboard) store(items []domain.Widget) {
	c.items = make([]domain.Widget, 0, len(items))
	for _, it := range items {
		c.items = append(c.items, it.Clone())
	}
	if c.onChange != nil {
		c.onChange(len(c.items))
	}
}

// IsEmpty reports whether the clipboard holds no items.
func (c *Clipboard) IsEmpty() bool { return len(c.items) == 0 }

// ItemCount returns the number of stored items.
func (c *Clipboard) ItemCount() int { return len(c.items) }

// Paste returns a new widget per stored item: fresh unique IDs, positions
// offset by (PasteOffsetX, PasteOffsetY) from the stored snapshot, and group
// childIds rewritten through the old-to-new ID map built across the whole
// batch. A group and its children copied together end up cross-referencing
// each other's new IDs; independent groups never acquire each other's
// members. Returns an empty slice when the clipboard is empty.
func (c *Clipboard) Paste() []domain.Widget {
	if len(c.items) == 0 {
		return []domain.Widget{}
	}
	idMap := make(map[string]string, len(c.items))
	for _, it := range c.items {
		idMap[it.ID] = domain.NewID()
	}
	out := make([]domain.Widget, 0, len(c.items))
	for _, it := range c.items {
		w := it.Clone()
		w.ID = idMap[it.ID]
		w.Position.X += PasteOffsetX
		w.Position.Y += PasteOffsetY
		if children, ok := w.GroupChildren(); ok {
			mapped := make([]string, 0, len(children))
			for _, cid := range children {
				nid, inBatch := idMap[cid]
				if !inBatch {
					// The child was not part of the copied batch; keeping the
					// old ID would leave the pasted group pointing outside
					// its own paste, so the reference is dropped.
					c.log.Warn("dropping child reference not in paste batch",
						slog.String("group", it.ID), slog.String("child", cid))
					continue
				}
				mapped = append(mapped, nid)
			}
			w.Properties = domain.GroupProps{ChildIDs: mapped}
		}
		out = append(out, w)
	}
	return out
}
