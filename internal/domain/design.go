/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package domain

// DesignSchemaVersion is the current on-disk design file schema.
const DesignSchemaVersion = 1

// Design is the serializable envelope of a break screen design: metadata,
// canvas dimensions and the widget list. The widget order in the file is the
// z-order snapshot at save time.
type Design struct {
	SchemaVersion int      `json:"schemaVersion"`
	Name          string   `json:"name"`
	Canvas        Size     `json:"canvas"`
	Widgets       []Widget `json:"widgets"`
}

// NewDesign returns an empty design with the current schema version and a
// 1920x1080 canvas.
func NewDesign(name string) Design {
	return Design{
		SchemaVersion: DesignSchemaVersion,
		Name:          name,
		Canvas:        Size{Width: 1920, Height: 1080},
	}
}

// Clone returns a deep copy of the design.
func (d Design) Clone() Design {
	out := d
	out.Widgets = make([]Widget, len(d.Widgets))
	for i, w := range d.Widgets {
		out.Widgets[i] = w.Clone()
	}
	return out
}
