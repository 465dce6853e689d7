/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package domain

import (
	"strings"
	"testing"
)

func box(id string, z int) Widget {
	return Widget{ID: id, Size: Size{Width: 10, Height: 10}, ZIndex: z, Type: TypeBox, Properties: BoxProps{}}
}

func TestPutRejectsDuplicateID(t *testing.T) {
	d := NewDocument()
	if err := d.Put(box("a", 0)); err != nil {
		t.Fatalf("first put: %v", err)
	}
	if err := d.Put(box("a", 1)); err == nil {
		t.Fatalf("expected duplicate id error")
	}
}

func TestNextZFollowsHighestInserted(t *testing.T) {
	d := NewDocument()
	if z := d.NextZ(); z != 0 {
		t.Fatalf("empty document NextZ = %d, want 0", z)
	}
	_ = d.Put(box("a", 0))
	_ = d.Put(box("b", 5))
	if z := d.NextZ(); z != 6 {
		t.Fatalf("NextZ = %d, want 6", z)
	}
	_ = d.Put(box("c", 2)) // lower z must not move the watermark
	if z := d.NextZ(); z != 6 {
		t.Fatalf("NextZ after low-z insert = %d, want 6", z)
	}
}

func TestRemoveAbsentIsNoop(t *testing.T) {
	d := NewDocument()
	if d.Remove("ghost") {
		t.Fatalf("removing absent id reported true")
	}
}

func TestValidateReportsDanglingAndDualMembership(t *testing.T) {
	d := NewDocument()
	_ = d.Put(box("a", 0))
	_ = d.Put(Widget{ID: "g1", Type: TypeGroup, Properties: GroupProps{ChildIDs: []string{"a", "ghost"}}})
	_ = d.Put(Widget{ID: "g2", Type: TypeGroup, Properties: GroupProps{ChildIDs: []string{"a"}}})
	err := d.Validate()
	if err == nil {
		t.Fatalf("expected validation errors")
	}
	msg := err.Error()
	if !strings.Contains(msg, "ghost") {
		t.Fatalf("dangling reference not reported: %v", err)
	}
	if !strings.Contains(msg, "belongs to groups") {
		t.Fatalf("dual membership not reported: %v", err)
	}
}

func TestRepairDropsDanglingRefs(t *testing.T) {
	d := NewDocument()
	_ = d.Put(box("a", 0))
	_ = d.Put(Widget{ID: "g", Type: TypeGroup, Properties: GroupProps{ChildIDs: []string{"ghost", "a", "ghost2"}}})
	if n := d.Repair(); n != 2 {
		t.Fatalf("Repair dropped %d refs, want 2", n)
	}
	g, _ := d.Get("g")
	children, _ := g.GroupChildren()
	if len(children) != 1 || children[0] != "a" {
		t.Fatalf("repaired childIds = %v, want [a]", children)
	}
	if err := d.Validate(); err != nil {
		t.Fatalf("document still invalid after repair: %v", err)
	}
}

func TestGroupOf(t *testing.T) {
	d := NewDocument()
	_ = d.Put(box("a", 0))
	_ = d.Put(box("b", 1))
	_ = d.Put(Widget{ID: "g", Type: TypeGroup, Properties: GroupProps{ChildIDs: []string{"a"}}})
	if gid, ok := d.GroupOf("a"); !ok || gid != "g" {
		t.Fatalf("GroupOf(a) = %q,%v want g,true", gid, ok)
	}
	if _, ok := d.GroupOf("b"); ok {
		t.Fatalf("GroupOf(b) reported membership for a free widget")
	}
}

func TestDocumentFromWidgetsOrdersByZ(t *testing.T) {
	doc, err := DocumentFromWidgets([]Widget{box("top", 9), box("bottom", 1), box("mid", 4)})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	ids := doc.IDs()
	want := []string{"bottom", "mid", "top"}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("insertion order = %v, want %v", ids, want)
		}
	}
	if doc.NextZ() != 10 {
		t.Fatalf("NextZ = %d, want 10", doc.NextZ())
	}
}

func TestSnapshotIsDeepCopy(t *testing.T) {
	d := NewDocument()
	_ = d.Put(Widget{ID: "g", Type: TypeGroup, Properties: GroupProps{ChildIDs: []string{"a"}}})
	snap := d.Snapshot()
	live, _ := d.Get("g")
	live.Properties = GroupProps{ChildIDs: []string{"changed"}}
	children, _ := snap[0].GroupChildren()
	if children[0] != "a" {
		t.Fatalf("snapshot affected by later document mutation: %v", children)
	}
}
