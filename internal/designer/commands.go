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
	"fmt"

	"breakscreen/internal/domain"
)

// Concrete reversible commands over the widget document. All of them are
// total over their domain; duplicate-ID insertions panic, since they signal a
// defect in ID generation rather than a recoverable condition.

// createWidget inserts one widget.
type createWidget struct {
	doc    *domain.Document
	widget domain.Widget
}

func (c *createWidget) Name() string { return "create-widget" }

func (c *createWidget) Apply() {
	if err := c.doc.Put(c.widget); err != nil {
		panic(fmt.Sprintf("create widget: %v", err))
	}
}

func (c *createWidget) Revert() { c.doc.Remove(c.widget.ID) }

// pasteWidgets inserts a pasted batch as one atomic command, so one undo
// removes the whole paste and one redo restores it with the same IDs.
type pasteWidgets struct {
	doc     *domain.Document
	widgets []domain.Widget
}

func (c *pasteWidgets) Name() string { return "paste-widgets" }

func (c *pasteWidgets) Apply() {
	for _, w := range c.widgets {
		if err := c.doc.Put(w); err != nil {
			panic(fmt.Sprintf("paste widget: %v", err))
		}
	}
}

func (c *pasteWidgets) Revert() {
	for _, w := range c.widgets {
		c.doc.Remove(w.ID)
	}
}

// membership records where a deleted widget sat inside a surviving group's
// child list, so undo can reinsert the reference at the same index.
type membership struct {
	groupID string
	childID string
	index   int
}

// deleteWidgets removes a set of widgets, snapshotting full widget data plus
// group membership so Revert fully resurrects them: original position, size,
// z-index, properties and position in any group they belonged to.
type deleteWidgets struct {
	doc *domain.Document
	ids []string

	snapshots   []domain.Widget
	memberships []membership
}

func (c *deleteWidgets) Name() string { return "delete-widgets" }

func (c *deleteWidgets) Apply() {
	// Recomputed on every Apply so redo after undo sees current state.
	c.snapshots = nil
	c.memberships = nil
	deleting := make(map[string]bool, len(c.ids))
	for _, id := range c.ids {
		if w, ok := c.doc.Get(id); ok {
			c.snapshots = append(c.snapshots, w.Clone())
			deleting[id] = true
		}
	}
	// Strip references from surviving groups, remembering positions in
	// ascending index order per group.
	for _, g := range c.doc.Widgets() {
		if deleting[g.ID] {
			continue
		}
		children, ok := g.GroupChildren()
		if !ok {
			continue
		}
		kept := make([]string, 0, len(children))
		removed := false
		for i, cid := range children {
			if deleting[cid] {
				c.memberships = append(c.memberships, membership{groupID: g.ID, childID: cid, index: i})
				removed = true
				continue
			}
			kept = append(kept, cid)
		}
		if removed {
			g.Properties = domain.GroupProps{ChildIDs: kept}
		}
	}
	for id := range deleting {
		c.doc.Remove(id)
	}
}

func (c *deleteWidgets) Revert() {
	for _, w := range c.snapshots {
		if err := c.doc.Put(w); err != nil {
			panic(fmt.Sprintf("restore widget: %v", err))
		}
	}
	// Reinsert child references; ascending per-group order reproduces the
	// original lists exactly.
	for _, m := range c.memberships {
		g, ok := c.doc.Get(m.groupID)
		if !ok {
			continue
		}
		children, _ := g.GroupChildren()
		next := make([]string, 0, len(children)+1)
		if m.index > len(children) {
			next = append(append(next, children...), m.childID)
		} else {
			next = append(next, children[:m.index]...)
			next = append(next, m.childID)
			next = append(next, children[m.index:]...)
		}
		g.Properties = domain.GroupProps{ChildIDs: next}
	}
}

// moveWidget repositions one widget in place.
type moveWidget struct {
	doc      *domain.Document
	id       string
	from, to domain.Point
}

func (c *moveWidget) Name() string { return "move-widget" }

func (c *moveWidget) Apply() {
	if w, ok := c.doc.Get(c.id); ok {
		w.Position = c.to
	}
}

func (c *moveWidget) Revert() {
	if w, ok := c.doc.Get(c.id); ok {
		w.Position = c.from
	}
}

// widgetMove is one entry of a multi-widget move.
type widgetMove struct {
	id       string
	from, to domain.Point
}

// moveWidgets repositions several widgets as one atomic command (alignment,
// group drags).
type moveWidgets struct {
	doc   *domain.Document
	label string
	moves []widgetMove
}

func (c *moveWidgets) Name() string { return c.label }

func (c *moveWidgets) Apply() {
	for _, m := range c.moves {
		if w, ok := c.doc.Get(m.id); ok {
			w.Position = m.to
		}
	}
}

func (c *moveWidgets) Revert() {
	for _, m := range c.moves {
		if w, ok := c.doc.Get(m.id); ok {
			w.Position = m.from
		}
	}
}

// setProperties swaps a widget's properties payload, keeping deep copies of
// both sides so later mutation of either cannot corrupt history.
type setProperties struct {
	doc           *domain.Document
	id            string
	before, after domain.Properties
}

func (c *setProperties) Name() string { return "set-properties" }

func (c *setProperties) Apply() {
	if w, ok := c.doc.Get(c.id); ok {
		w.Properties = domain.CloneProperties(c.after)
	}
}

func (c *setProperties) Revert() {
	if w, ok := c.doc.Get(c.id); ok {
		w.Properties = domain.CloneProperties(c.before)
	}
}

// setZIndex changes the painter's-order position of one widget.
type setZIndex struct {
	doc      *domain.Document
	id       string
	from, to int
}

func (c *setZIndex) Name() string { return "set-zindex" }

func (c *setZIndex) Apply() {
	if w, ok := c.doc.Get(c.id); ok {
		w.ZIndex = c.to
	}
}

func (c *setZIndex) Revert() {
	if w, ok := c.doc.Get(c.id); ok {
		w.ZIndex = c.from
	}
}

// groupWidgets inserts a pre-built group widget referencing existing
// children. The children themselves are untouched.
type groupWidgets struct {
	doc   *domain.Document
	group domain.Widget
}

func (c *groupWidgets) Name() string { return "group-widgets" }

func (c *groupWidgets) Apply() {
	if err := c.doc.Put(c.group); err != nil {
		panic(fmt.Sprintf("group widgets: %v", err))
	}
}

func (c *groupWidgets) Revert() { c.doc.Remove(c.group.ID) }

// ungroupWidgets removes group widgets, leaving their members in place.
// The full group snapshots make Revert exact, child order included.
type ungroupWidgets struct {
	doc      *domain.Document
	groupIDs []string

	snapshots []domain.Widget
}

func (c *ungroupWidgets) Name() string { return "ungroup-widgets" }

func (c *ungroupWidgets) Apply() {
	c.snapshots = nil
	for _, id := range c.groupIDs {
		if w, ok := c.doc.Get(id); ok {
			c.snapshots = append(c.snapshots, w.Clone())
			c.doc.Remove(id)
		}
	}
}

func (c *ungroupWidgets) Revert() {
	for _, w := range c.snapshots {
		if err := c.doc.Put(w); err != nil {
			panic(fmt.Sprintf("restore group: %v", err))
		}
	}
}
