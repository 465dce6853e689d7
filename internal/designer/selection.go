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

// Selection tracks the ordered set of currently-selected widget IDs.
// Insertion order is selection order; the first entry is the reference
// widget, the anchor for alignment commands. Selection is transient UI
// state, rebuilt from ID lists and never persisted.
type Selection struct {
	ids      []string
	onChange func(ids []string, reference string)
}

// NewSelection returns an empty selection. onChange fires after every state
// change with the ordered IDs and the reference widget ("" when empty); it
// may be nil.
func NewSelection(onChange func(ids []string, reference string)) *Selection {
	return &Selection{onChange: onChange}
}

// Select adds id to the selection. When additive is false the prior selection
// is cleared first. Selecting an already-selected id additively keeps its
// position and fires no notification (no state changed).
func (s *Selection) Select(id string, additive bool) {
	if !additive {
		if len(s.ids) == 1 && s.ids[0] == id {
			return
		}
		s.ids = []string{id}
		s.notify()
		return
	}
	if s.Contains(id) {
		return
	}
	s.ids = append(s.ids, id)
	s.notify()
}

// Deselect removes id from the selection if present.
func (s *Selection) Deselect(id string) {
	for i, sid := range s.ids {
		if sid == id {
			s.ids = append(s.ids[:i], s.ids[i+1:]...)
			s.notify()
			return
		}
	}
}

// Clear empties the selection.
func (s *Selection) Clear() {
	if len(s.ids) == 0 {
		return
	}
	s.ids = nil
	s.notify()
}

// Set replaces the whole selection in one change, e.g. after a paste or
// select-all. Duplicate IDs in the input are collapsed, keeping the first.
func (s *Selection) Set(ids []string) {
	seen := make(map[string]bool, len(ids))
	next := make([]string, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		next = append(next, id)
	}
	s.ids = next
	s.notify()
}

// IDs returns the selected widget IDs in selection order.
func (s *Selection) IDs() []string {
	return append([]string(nil), s.ids...)
}

// Contains reports whether id is selected.
func (s *Selection) Contains(id string) bool {
	for _, sid := range s.ids {
		if sid == id {
			return true
		}
	}
	return false
}

// Reference returns the reference widget: the first selected ID.
func (s *Selection) Reference() (string, bool) {
	if len(s.ids) == 0 {
		return "", false
	}
	return s.ids[0], true
}

// Len returns the number of selected widgets.
func (s *Selection) Len() int { return len(s.ids) }

func (s *Selection) notify() {
	if s.onChange == nil {
		return
	}
	ref := ""
	if len(s.ids) > 0 {
		ref = s.ids[0]
	}
	s.onChange(s.IDs(), ref)
}
