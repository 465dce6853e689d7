/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package domain defines the widget data model of the break screen designer.
// A design document is a mapping of widget ID to widget data; field names and
// the per-type properties shape are the serialization contract with the
// backend API and must round-trip losslessly.
package domain

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// Type is the closed set of widget kinds the editing engine understands.
type Type string

const (
	TypeBox   Type = "box"
	TypeText  Type = "text"
	TypeGroup Type = "group"
)

// Point is a canvas-space coordinate. Coordinates can be negative.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Size is a non-negative extent in canvas units.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Rect is an axis-aligned rectangle, used for bounds and snap computations.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Widget is the canonical unit of a design document.
type Widget struct {
	ID         string     `json:"id"`
	Position   Point      `json:"position"`
	Size       Size       `json:"size"`
	ZIndex     int        `json:"zIndex"`
	Type       Type       `json:"type"`
	Properties Properties `json:"properties,omitempty"`
}

// Properties is the variant payload of a widget. The concrete type is
// determined exclusively by Widget.Type; the union is closed to the types in
// this package.
type Properties interface {
	isProperties()
	clone() Properties
}

// BoxProps styles a plain rectangle widget.
type BoxProps struct {
	Fill         string  `json:"fill,omitempty"`
	CornerRadius float64 `json:"cornerRadius,omitempty"`
}

// TextProps holds the content of a text widget. Content may contain
// placeholder tokens ({break-end}, {time-remaining}, ...) resolved by the
// placeholder package when the widget is rendered.
type TextProps struct {
	Content  string  `json:"content"`
	Font     string  `json:"font,omitempty"`
	FontSize float64 `json:"fontSize,omitempty"`
	Color    string  `json:"color,omitempty"`
}

// GroupProps lists the member widgets of a group in order. Children exist
// independently in the document; membership is a non-owning reference and a
// widget belongs to at most one group.
type GroupProps struct {
	ChildIDs []string `json:"childIds"`
}

func (BoxProps) isProperties()   {}
func (TextProps) isProperties()  {}
func (GroupProps) isProperties() {}

func (p BoxProps) clone() Properties  { return p }
func (p TextProps) clone() Properties { return p }
func (p GroupProps) clone() Properties {
	return GroupProps{ChildIDs: append([]string(nil), p.ChildIDs...)}
}

// CloneProperties returns a deep copy of p. Nil-safe.
func CloneProperties(p Properties) Properties {
	if p == nil {
		return nil
	}
	return p.clone()
}

// Clone returns a deep copy of the widget, including nested slices inside the
// properties payload. Mutating the original afterwards must not affect the
// copy (clipboard isolation depends on this).
func (w Widget) Clone() Widget {
	c := w
	c.Properties = CloneProperties(w.Properties)
	return c
}

// Bounds returns the widget rectangle in canvas space.
func (w Widget) Bounds() Rect {
	return Rect{X: w.Position.X, Y: w.Position.Y, Width: w.Size.Width, Height: w.Size.Height}
}

// GroupChildren returns the child ID list if the widget is a group.
func (w Widget) GroupChildren() ([]string, bool) {
	g, ok := w.Properties.(GroupProps)
	if !ok {
		return nil, false
	}
	return g.ChildIDs, true
}

// NewID returns a fresh widget ID. Random UUIDs make collisions with IDs live
// in a document, or with other IDs generated in the same run, negligible.
func NewID() string { return "w-" + uuid.NewString() }

// widgetJSON is the wire shape of a widget with the properties payload held
// raw until the type tag is known.
type widgetJSON struct {
	ID         string          `json:"id"`
	Position   Point           `json:"position"`
	Size       Size            `json:"size"`
	ZIndex     int             `json:"zIndex"`
	Type       Type            `json:"type"`
	Properties json.RawMessage `json:"properties,omitempty"`
}

// MarshalJSON serializes the widget with the properties object keyed by type.
func (w Widget) MarshalJSON() ([]byte, error) {
	out := widgetJSON{ID: w.ID, Position: w.Position, Size: w.Size, ZIndex: w.ZIndex, Type: w.Type}
	if w.Properties != nil {
		raw, err := json.Marshal(w.Properties)
		if err != nil {
			return nil, fmt.Errorf("marshal %s properties: %w", w.Type, err)
		}
		out.Properties = raw
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes the properties payload according to the type tag.
// Unknown type tags are an error: the union is closed.
func (w *Widget) UnmarshalJSON(data []byte) error {
	var in widgetJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	w.ID = in.ID
	w.Position = in.Position
	w.Size = in.Size
	w.ZIndex = in.ZIndex
	w.Type = in.Type
	w.Properties = nil
	if len(in.Properties) == 0 || string(in.Properties) == "null" {
		return nil
	}
	switch in.Type {
	case TypeBox:
		var p BoxProps
		if err := json.Unmarshal(in.Properties, &p); err != nil {
			return fmt.Errorf("decode box properties: %w", err)
		}
		w.Properties = p
	case TypeText:
		var p TextProps
		if err := json.Unmarshal(in.Properties, &p); err != nil {
			return fmt.Errorf("decode text properties: %w", err)
		}
		w.Properties = p
	case TypeGroup:
		var p GroupProps
		if err := json.Unmarshal(in.Properties, &p); err != nil {
			return fmt.Errorf("decode group properties: %w", err)
		}
		w.Properties = p
	default:
		return fmt.Errorf("unknown widget type %q", in.Type)
	}
	return nil
}
