/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package undo provides a linear undo/redo history of reversible commands.
package undo

// Command is a reversible unit of document mutation. Apply performs the
// forward action; Revert restores the state that held before Apply. A command
// is owned exclusively by the Manager's history once executed.
//
// Commands are total: they do not fail in normal operation. Invariant
// violations (e.g. inserting a duplicate widget ID) panic, since they signal
// a defect rather than a recoverable condition.
type Command interface {
	Name() string
	Apply()
	Revert()
}

// Manager keeps a single linear history with undo/redo pointers: the top of
// the executed stack is the next undo, the top of the undone stack is the
// next redo. Executing a new command discards the redo stack; there are no
// branching timelines.
//
// The manager is single-owner state mutated only by the designer facade on
// one goroutine, so it takes no locks.
type Manager struct {
	limit int
	undo  []Command
	redo  []Command
}

// DefaultLimit caps history depth when no limit is configured.
const DefaultLimit = 100

// NewManager returns a manager that keeps at most limit executed commands,
// pruning the oldest entries beyond it. A non-positive limit selects
// DefaultLimit.
func NewManager(limit int) *Manager {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Manager{limit: limit}
}

// Execute performs the command's forward action and records it. Any redoable
// history is invalidated.
func (m *Manager) Execute(c Command) {
	c.Apply()
	m.undo = append(m.undo, c)
	m.redo = nil
	if len(m.undo) > m.limit {
		// drop the oldest; copy so the backing array does not pin it
		m.undo = append([]Command(nil), m.undo[len(m.undo)-m.limit:]...)
	}
}

// Undo reverts the most recent command. Returns false without side effects
// when there is nothing to undo.
func (m *Manager) Undo() bool {
	n := len(m.undo)
	if n == 0 {
		return false
	}
	c := m.undo[n-1]
	m.undo = m.undo[:n-1]
	c.Revert()
	m.redo = append(m.redo, c)
	return true
}

// Redo re-applies the most recently undone command. Returns false without
// side effects when there is nothing to redo.
func (m *Manager) Redo() bool {
	n := len(m.redo)
	if n == 0 {
		return false
	}
	c := m.redo[n-1]
	m.redo = m.redo[:n-1]
	c.Apply()
	m.undo = append(m.undo, c)
	return true
}

// CanUndo reports whether Undo would act.
func (m *Manager) CanUndo() bool { return len(m.undo) > 0 }

// CanRedo reports whether Redo would act.
func (m *Manager) CanRedo() bool { return len(m.redo) > 0 }

// Stats returns the current undo and redo depths for diagnostics.
func (m *Manager) Stats() (undoDepth, redoDepth int) {
	return len(m.undo), len(m.redo)
}

// Clear forgets all history, e.g. when a new document is opened.
func (m *Manager) Clear() {
	m.undo = nil
	m.redo = nil
}
