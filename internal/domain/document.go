/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package domain

import (
	"errors"
	"fmt"
	"sort"
)

// Document is the live mapping of widget ID to widget data. Insertion order
// is irrelevant for storage but determines the default z-index handed to
// newly created widgets. A document has a single owner (the designer facade)
// and is not safe for concurrent use.
type Document struct {
	widgets map[string]*Widget
	order   []string
	nextZ   int
}

// NewDocument returns an empty document.
func NewDocument() *Document {
	return &Document{widgets: make(map[string]*Widget)}
}

// DocumentFromWidgets builds a document from a widget set, e.g. after loading
// a design file. Widgets are inserted in ascending z-index order (ties broken
// by ID) so the insertion order matches the painter's order.
func DocumentFromWidgets(ws []Widget) (*Document, error) {
	sorted := append([]Widget(nil), ws...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].ZIndex != sorted[j].ZIndex {
			return sorted[i].ZIndex < sorted[j].ZIndex
		}
		return sorted[i].ID < sorted[j].ID
	})
	d := NewDocument()
	for _, w := range sorted {
		if err := d.Put(w); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// Len returns the number of widgets in the document.
func (d *Document) Len() int { return len(d.widgets) }

// Has reports whether a widget with the given ID exists.
func (d *Document) Has(id string) bool {
	_, ok := d.widgets[id]
	return ok
}

// Get returns the live widget for in-place mutation by commands.
func (d *Document) Get(id string) (*Widget, bool) {
	w, ok := d.widgets[id]
	return w, ok
}

// Put inserts a deep copy of the widget. IDs are never reused or duplicated
// within a live document; inserting an existing ID is an error. The highest
// seen z-index feeds NextZ for default z-ordering of later creations.
func (d *Document) Put(w Widget) error {
	if w.ID == "" {
		return errors.New("widget id is required")
	}
	if _, ok := d.widgets[w.ID]; ok {
		return fmt.Errorf("duplicate widget id %s", w.ID)
	}
	cp := w.Clone()
	d.widgets[w.ID] = &cp
	d.order = append(d.order, w.ID)
	if w.ZIndex >= d.nextZ {
		d.nextZ = w.ZIndex + 1
	}
	return nil
}

// Remove deletes the widget with the given ID. Removing an absent ID is a
// no-op returning false.
func (d *Document) Remove(id string) bool {
	if _, ok := d.widgets[id]; !ok {
		return false
	}
	delete(d.widgets, id)
	for i, oid := range d.order {
		if oid == id {
			d.order = append(d.order[:i], d.order[i+1:]...)
			break
		}
	}
	return true
}

// NextZ returns the default z-index for the next created widget.
func (d *Document) NextZ() int { return d.nextZ }

// IDs returns all widget IDs in insertion order.
func (d *Document) IDs() []string {
	return append([]string(nil), d.order...)
}

// Widgets returns the live widgets in insertion order.
func (d *Document) Widgets() []*Widget {
	out := make([]*Widget, 0, len(d.order))
	for _, id := range d.order {
		out = append(out, d.widgets[id])
	}
	return out
}

// Snapshot returns deep copies of all widgets in insertion order, suitable
// for serialization or clipboard storage.
func (d *Document) Snapshot() []Widget {
	out := make([]Widget, 0, len(d.order))
	for _, id := range d.order {
		out = append(out, d.widgets[id].Clone())
	}
	return out
}

// GroupOf returns the ID of the group that references the given widget, if
// any. A widget belongs to at most one group.
func (d *Document) GroupOf(id string) (string, bool) {
	for _, gid := range d.order {
		g := d.widgets[gid]
		children, ok := g.GroupChildren()
		if !ok {
			continue
		}
		for _, cid := range children {
			if cid == id {
				return gid, true
			}
		}
	}
	return "", false
}

// Validate checks the document's referential invariants: every ID referenced
// in a group's childIds must exist, and no widget may belong to more than one
// group. Violations are joined into a single error.
func (d *Document) Validate() error {
	var errs []error
	owner := make(map[string]string)
	for _, gid := range d.order {
		g := d.widgets[gid]
		children, ok := g.GroupChildren()
		if !ok {
			continue
		}
		for _, cid := range children {
			if !d.Has(cid) {
				errs = append(errs, fmt.Errorf("group %s references missing widget %s", gid, cid))
			}
			if prev, dup := owner[cid]; dup {
				errs = append(errs, fmt.Errorf("widget %s belongs to groups %s and %s", cid, prev, gid))
			}
			owner[cid] = gid
		}
	}
	return errors.Join(errs...)
}

// Repair drops dangling group child references (IDs that do not exist in the
// document) and returns the number of references removed. Used when importing
// documents from external sources, where a malformed batch should degrade
// gracefully instead of crashing the editor.
func (d *Document) Repair() int {
	dropped := 0
	for _, gid := range d.order {
		g := d.widgets[gid]
		children, ok := g.GroupChildren()
		if !ok {
			continue
		}
		kept := make([]string, 0, len(children))
		for _, cid := range children {
			if d.Has(cid) {
				kept = append(kept, cid)
			} else {
				dropped++
			}
		}
		if len(kept) != len(children) {
			g.Properties = GroupProps{ChildIDs: kept}
		}
	}
	return dropped
}
