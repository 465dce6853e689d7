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
	"reflect"
	"testing"
)

func TestSelectionAdditiveOrder(t *testing.T) {
	s := NewSelection(nil)
	s.Select("a", false)
	s.Select("b", true)
	s.Select("c", true)

	if got := s.IDs(); !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Fatalf("IDs = %v", got)
	}
	ref, ok := s.Reference()
	if !ok || ref != "a" {
		t.Fatalf("Reference = %q, %v", ref, ok)
	}
}

func TestSelectionNonAdditiveReplaces(t *testing.T) {
	s := NewSelection(nil)
	s.Select("a", false)
	s.Select("b", true)
	s.Select("c", false)

	if got := s.IDs(); !reflect.DeepEqual(got, []string{"c"}) {
		t.Fatalf("IDs = %v", got)
	}
}

func TestSelectionAdditiveDuplicateIgnored(t *testing.T) {
	events := 0
	s := NewSelection(func(ids []string, ref string) { events++ })
	s.Select("a", false)
	s.Select("a", true)

	if got := s.IDs(); !reflect.DeepEqual(got, []string{"a"}) {
		t.Fatalf("IDs = %v", got)
	}
	if events != 1 {
		t.Fatalf("onChange fired %d times, want 1", events)
	}
}

func TestSelectionDeselect(t *testing.T) {
	s := NewSelection(nil)
	s.Select("a", false)
	s.Select("b", true)
	s.Deselect("a")

	if got := s.IDs(); !reflect.DeepEqual(got, []string{"b"}) {
		t.Fatalf("IDs = %v", got)
	}
	// Reference moves to the next selected widget.
	if ref, _ := s.Reference(); ref != "b" {
		t.Fatalf("Reference = %q", ref)
	}
	s.Deselect("missing")
	if s.Len() != 1 {
		t.Fatalf("deselect of unselected id changed the selection")
	}
}

func TestSelectionClearNotifiesEmptyReference(t *testing.T) {
	var gotIDs []string
	gotRef := "sentinel"
	s := NewSelection(func(ids []string, ref string) {
		gotIDs = ids
		gotRef = ref
	})
	s.Select("a", false)
	s.Clear()

	if len(gotIDs) != 0 || gotRef != "" {
		t.Fatalf("after clear onChange got ids=%v ref=%q", gotIDs, gotRef)
	}
	if s.Len() != 0 {
		t.Fatalf("Len = %d after clear", s.Len())
	}
}

func TestSelectionSetDedupes(t *testing.T) {
	s := NewSelection(nil)
	s.Set([]string{"a", "b", "a", "c", "b"})
	if got := s.IDs(); !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Fatalf("IDs = %v", got)
	}
	if !s.Contains("c") || s.Contains("d") {
		t.Fatalf("Contains misreports membership")
	}
}

func TestSelectionIDsIsACopy(t *testing.T) {
	s := NewSelection(nil)
	s.Set([]string{"a", "b"})
	ids := s.IDs()
	ids[0] = "mutated"
	if got := s.IDs(); got[0] != "a" {
		t.Fatalf("external mutation leaked into selection: %v", got)
	}
}
