/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package designer implements the widget canvas editing engine: selection,
// clipboard with reference-graph rewriting, undo-capable commands, and the
// facade composing them into one editing surface.
//
// The engine is framework-agnostic. It talks to the surrounding UI glue only
// through fire-and-forget callbacks; it never depends on their return values.
// One editor session owns one Designer; nothing here is safe for concurrent
// use and nothing blocks.
package designer

import (
	"errors"
	"log/slog"
	"math"

	"breakscreen/internal/config"
	"breakscreen/internal/domain"
	applog "breakscreen/internal/log"
	"breakscreen/internal/undo"
)

// Callbacks are the notifications the engine fires toward the view layer.
// All fields may be nil.
type Callbacks struct {
	// SelectionChanged fires after every selection mutation with the ordered
	// selected IDs and the reference widget ("" when the selection is empty).
	// Exactly one widget, or none, is the reference at any time.
	SelectionChanged func(selected []string, reference string)
	// DocumentChanged fires after every executed, undone or redone command.
	DocumentChanged func()
	// ClipboardChanged fires after copy/cut with the stored item count.
	ClipboardChanged func(count int)
}

// Options configures a designer session.
type Options struct {
	// HistoryLimit caps undo depth; non-positive selects undo.DefaultLimit.
	HistoryLimit int
	// Snap configures smart-guide snapping for SnapWidgetPosition.
	Snap      SnapOptions
	Callbacks Callbacks
}

// OptionsFromConfig builds designer options from the editor configuration.
func OptionsFromConfig(c config.EditorConfig) Options {
	return Options{
		HistoryLimit: c.HistoryLimit,
		Snap: SnapOptions{
			Threshold:     c.SnapThreshold,
			SnapToEdges:   c.SnapToEdges,
			SnapToCenters: c.SnapToCenters,
		},
	}
}

// Alignment selects the edge or axis used by AlignSelection.
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignRight
	AlignTop
	AlignBottom
	AlignCenterX
	AlignCenterY
)

// Designer composes the document model, selection, clipboard and command
// history into one cohesive editing surface.
type Designer struct {
	doc     *domain.Document
	sel     *Selection
	clip    *Clipboard
	history *undo.Manager
	snap    SnapOptions
	cb      Callbacks
	log     *slog.Logger
}

// New builds a designer session around an existing document.
func New(doc *domain.Document, opts Options) *Designer {
	d := &Designer{
		doc:     doc,
		history: undo.NewManager(opts.HistoryLimit),
		snap:    opts.Snap,
		cb:      opts.Callbacks,
		log:     applog.WithComponent("designer"),
	}
	d.sel = NewSelection(func(ids []string, ref string) {
		if d.cb.SelectionChanged != nil {
			d.cb.SelectionChanged(ids, ref)
		}
	})
	d.clip = NewClipboard(func(count int) {
		if d.cb.ClipboardChanged != nil {
			d.cb.ClipboardChanged(count)
		}
	})
	return d
}

// Document returns the live document.
func (d *Designer) Document() *domain.Document { return d.doc }

// Clipboard returns the session clipboard.
func (d *Designer) Clipboard() *Clipboard { return d.clip }

func (d *Designer) execute(c undo.Command) {
	d.history.Execute(c)
	d.documentChanged()
}

func (d *Designer) documentChanged() {
	if d.cb.DocumentChanged != nil {
		d.cb.DocumentChanged()
	}
}

// CreateWidget creates a widget of the given type at the next default
// z-index, executes it as a reversible command, selects it, and returns the
// new ID.
func (d *Designer) CreateWidget(t domain.Type, pos domain.Point, size domain.Size, props domain.Properties) string {
	w := domain.Widget{
		ID:         domain.NewID(),
		Position:   pos,
		Size:       size,
		ZIndex:     d.doc.NextZ(),
		Type:       t,
		Properties: domain.CloneProperties(props),
	}
	d.execute(&createWidget{doc: d.doc, widget: w})
	d.sel.Select(w.ID, false)
	return w.ID
}

// SelectWidget adds the widget to the selection; with additive false the
// prior selection is cleared first. Unknown IDs are ignored with a warning.
func (d *Designer) SelectWidget(id string, additive bool) {
	if !d.doc.Has(id) {
		d.log.Warn("select of unknown widget ignored", slog.String("id", id))
		return
	}
	d.sel.Select(id, additive)
}

// SelectAll selects every widget in the document in insertion order.
func (d *Designer) SelectAll() { d.sel.Set(d.doc.IDs()) }

// DeselectAll clears the selection.
func (d *Designer) DeselectAll() { d.sel.Clear() }

// SelectedWidgetIDs returns the ordered selection.
func (d *Designer) SelectedWidgetIDs() []string { return d.sel.IDs() }

// ReferenceWidget returns the current reference widget, if any.
func (d *Designer) ReferenceWidget() (string, bool) { return d.sel.Reference() }

// IsReferenceWidget reports whether id is the reference widget.
func (d *Designer) IsReferenceWidget(id string) bool {
	ref, ok := d.sel.Reference()
	return ok && ref == id
}

// expandSelection returns the selected IDs plus, for every selected group,
// its member IDs. Selecting a group always acts on the group with its members
// for clipboard and delete operations.
func (d *Designer) expandSelection() []string {
	ids := d.sel.IDs()
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	add := func(id string) {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	for _, id := range ids {
		add(id)
		if w, ok := d.doc.Get(id); ok {
			if children, isGroup := w.GroupChildren(); isGroup {
				for _, child := range children {
					add(child)
				}
			}
		}
	}
	return out
}

// selectionWidgets snapshots the expanded selection from the document in
// selection order, group members included.
func (d *Designer) selectionWidgets() []domain.Widget {
	ids := d.expandSelection()
	out := make([]domain.Widget, 0, len(ids))
	for _, id := range ids {
		if w, ok := d.doc.Get(id); ok {
			out = append(out, w.Clone())
		}
	}
	return out
}

// CopySelection copies the selected widgets to the clipboard and returns the
// number of items stored.
func (d *Designer) CopySelection() int {
	items := d.selectionWidgets()
	if len(items) == 0 {
		return 0
	}
	d.clip.Copy(items)
	return len(items)
}

// CutSelection copies the selected widgets to the clipboard, then deletes
// them through one reversible command. The clipboard is fully populated
// before the delete executes.
func (d *Designer) CutSelection() int {
	items := d.selectionWidgets()
	if len(items) == 0 {
		return 0
	}
	d.clip.Cut(items)
	d.DeleteSelection()
	return len(items)
}

// PasteFromClipboard pastes the clipboard contents as one atomic command,
// selects the new widgets, and returns their IDs. An empty clipboard yields
// an empty result with no side effects.
func (d *Designer) PasteFromClipboard() []string {
	pasted := d.clip.Paste()
	if len(pasted) == 0 {
		return []string{}
	}
	// Pasted widgets keep their snapshot z-order relative to each other but
	// land on top of the current document.
	base := d.doc.NextZ()
	for i := range pasted {
		pasted[i].ZIndex = base + i
	}
	d.execute(&pasteWidgets{doc: d.doc, widgets: pasted})
	ids := make([]string, len(pasted))
	for i, w := range pasted {
		ids[i] = w.ID
	}
	d.sel.Set(ids)
	return ids
}

// DeleteSelection removes all selected widgets with one reversible command.
// Deleting a group deletes its members too.
func (d *Designer) DeleteSelection() {
	ids := d.expandSelection()
	if len(ids) == 0 {
		return
	}
	d.sel.Clear()
	d.execute(&deleteWidgets{doc: d.doc, ids: ids})
}

// MoveWidget repositions one widget through a reversible command.
func (d *Designer) MoveWidget(id string, to domain.Point) {
	w, ok := d.doc.Get(id)
	if !ok {
		d.log.Warn("move of unknown widget ignored", slog.String("id", id))
		return
	}
	if w.Position == to {
		return
	}
	d.execute(&moveWidget{doc: d.doc, id: id, from: w.Position, to: to})
}

// MoveSelectionBy shifts every selected widget by (dx, dy) as one command.
func (d *Designer) MoveSelectionBy(dx, dy float64) {
	if dx == 0 && dy == 0 {
		return
	}
	var moves []widgetMove
	for _, id := range d.sel.IDs() {
		if w, ok := d.doc.Get(id); ok {
			from := w.Position
			moves = append(moves, widgetMove{id: id, from: from, to: domain.Point{X: from.X + dx, Y: from.Y + dy}})
		}
	}
	if len(moves) == 0 {
		return
	}
	d.execute(&moveWidgets{doc: d.doc, label: "move-selection", moves: moves})
}

// SetWidgetProperties swaps a widget's properties payload reversibly.
func (d *Designer) SetWidgetProperties(id string, props domain.Properties) {
	w, ok := d.doc.Get(id)
	if !ok {
		d.log.Warn("property change on unknown widget ignored", slog.String("id", id))
		return
	}
	d.execute(&setProperties{doc: d.doc, id: id, before: domain.CloneProperties(w.Properties), after: domain.CloneProperties(props)})
}

// GroupSelection creates a group widget whose members are the selected
// widgets, in selection order, and selects the new group. Grouping requires
// at least two widgets, none of which may be a group or already grouped.
func (d *Designer) GroupSelection() (string, error) {
	ids := d.sel.IDs()
	if len(ids) < 2 {
		return "", errors.New("grouping requires at least two selected widgets")
	}
	var minX, minY = math.Inf(1), math.Inf(1)
	var maxX, maxY = math.Inf(-1), math.Inf(-1)
	for _, id := range ids {
		w, ok := d.doc.Get(id)
		if !ok {
			return "", errors.New("selection references a missing widget")
		}
		if w.Type == domain.TypeGroup {
			return "", errors.New("groups cannot be nested")
		}
		if _, grouped := d.doc.GroupOf(id); grouped {
			return "", errors.New("widget already belongs to a group")
		}
		b := w.Bounds()
		minX = math.Min(minX, b.X)
		minY = math.Min(minY, b.Y)
		maxX = math.Max(maxX, b.X+b.Width)
		maxY = math.Max(maxY, b.Y+b.Height)
	}
	g := domain.Widget{
		ID:         domain.NewID(),
		Position:   domain.Point{X: minX, Y: minY},
		Size:       domain.Size{Width: maxX - minX, Height: maxY - minY},
		ZIndex:     d.doc.NextZ(),
		Type:       domain.TypeGroup,
		Properties: domain.GroupProps{ChildIDs: ids},
	}
	d.execute(&groupWidgets{doc: d.doc, group: g})
	d.sel.Select(g.ID, false)
	return g.ID, nil
}

// UngroupSelection dissolves every selected group widget, selecting the freed
// members afterwards. Non-group widgets in the selection stay selected.
func (d *Designer) UngroupSelection() error {
	var groupIDs []string
	var nextSelection []string
	for _, id := range d.sel.IDs() {
		w, ok := d.doc.Get(id)
		if !ok {
			continue
		}
		if children, isGroup := w.GroupChildren(); isGroup {
			groupIDs = append(groupIDs, id)
			nextSelection = append(nextSelection, children...)
			continue
		}
		nextSelection = append(nextSelection, id)
	}
	if len(groupIDs) == 0 {
		return errors.New("selection contains no groups")
	}
	d.sel.Clear()
	d.execute(&ungroupWidgets{doc: d.doc, groupIDs: groupIDs})
	d.sel.Set(nextSelection)
	return nil
}

// AlignSelection aligns every selected widget to the reference widget along
// the given edge or axis, as one reversible command. A selection smaller than
// two widgets is a no-op.
func (d *Designer) AlignSelection(a Alignment) {
	ids := d.sel.IDs()
	if len(ids) < 2 {
		return
	}
	ref, ok := d.doc.Get(ids[0])
	if !ok {
		return
	}
	rb := ref.Bounds()
	var moves []widgetMove
	for _, id := range ids[1:] {
		w, ok := d.doc.Get(id)
		if !ok {
			continue
		}
		b := w.Bounds()
		to := w.Position
		switch a {
		case AlignLeft:
			to.X = rb.X
		case AlignRight:
			to.X = rb.X + rb.Width - b.Width
		case AlignTop:
			to.Y = rb.Y
		case AlignBottom:
			to.Y = rb.Y + rb.Height - b.Height
		case AlignCenterX:
			to.X = rb.X + (rb.Width-b.Width)/2
		case AlignCenterY:
			to.Y = rb.Y + (rb.Height-b.Height)/2
		}
		if to != w.Position {
			moves = append(moves, widgetMove{id: id, from: w.Position, to: to})
		}
	}
	if len(moves) == 0 {
		return
	}
	d.execute(&moveWidgets{doc: d.doc, label: "align-widgets", moves: moves})
}

// BringToFront raises the widget above every other widget.
func (d *Designer) BringToFront(id string) {
	w, ok := d.doc.Get(id)
	if !ok {
		return
	}
	top := d.doc.NextZ()
	if w.ZIndex == top-1 {
		return
	}
	d.execute(&setZIndex{doc: d.doc, id: id, from: w.ZIndex, to: top})
}

// SendToBack lowers the widget below every other widget.
func (d *Designer) SendToBack(id string) {
	w, ok := d.doc.Get(id)
	if !ok {
		return
	}
	bottom := w.ZIndex
	for _, other := range d.doc.Widgets() {
		if other.ZIndex < bottom {
			bottom = other.ZIndex
		}
	}
	if bottom == w.ZIndex {
		return
	}
	d.execute(&setZIndex{doc: d.doc, id: id, from: w.ZIndex, to: bottom - 1})
}

// SnapWidgetPosition snaps a proposed drag position of the widget against the
// bounds of every other widget, returning the snapped position and any guide
// lines for the view to draw. Pure computation: no command is executed.
func (d *Designer) SnapWidgetPosition(id string, proposed domain.Point) (domain.Point, []GuideLine) {
	w, ok := d.doc.Get(id)
	if !ok {
		return proposed, nil
	}
	moving := domain.Rect{X: proposed.X, Y: proposed.Y, Width: w.Size.Width, Height: w.Size.Height}
	var anchors []domain.Rect
	for _, other := range d.doc.Widgets() {
		if other.ID == id {
			continue
		}
		anchors = append(anchors, other.Bounds())
	}
	snapped, guides := ComputeSnapGuides(moving, anchors, d.snap)
	return domain.Point{X: snapped.X, Y: snapped.Y}, guides
}

// Undo reverts the most recent command; false when there is nothing to undo.
func (d *Designer) Undo() bool {
	if !d.history.Undo() {
		return false
	}
	d.pruneSelection()
	d.documentChanged()
	return true
}

// Redo re-applies the most recently undone command; false when there is
// nothing to redo.
func (d *Designer) Redo() bool {
	if !d.history.Redo() {
		return false
	}
	d.pruneSelection()
	d.documentChanged()
	return true
}

// CanUndo reports whether an undo step is available.
func (d *Designer) CanUndo() bool { return d.history.CanUndo() }

// CanRedo reports whether a redo step is available.
func (d *Designer) CanRedo() bool { return d.history.CanRedo() }

// pruneSelection drops selected IDs that no longer exist, keeping the
// selection a subset of the live document after undo/redo.
func (d *Designer) pruneSelection() {
	ids := d.sel.IDs()
	kept := make([]string, 0, len(ids))
	for _, id := range ids {
		if d.doc.Has(id) {
			kept = append(kept, id)
		}
	}
	if len(kept) != len(ids) {
		d.sel.Set(kept)
	}
}
