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

// Smart guides and snapping helpers for interactive dragging. These are
// UI-agnostic and deterministic: the view layer draws the returned guide
// lines, the engine only computes geometry.

import (
	"math"

	"breakscreen/internal/domain"
)

// SnapOptions controls which guide candidates are considered and the
// threshold distance (canvas units) at which snapping occurs.
type SnapOptions struct {
	Threshold     float64
	SnapToEdges   bool
	SnapToCenters bool
}

// GuideLine describes a visual guide produced by a snap alignment.
// Orientation is "vertical" or "horizontal"; Kind is "edge" or "center".
// From and To give the guide extents for rendering. Positions are rounded to
// 3 decimal places for deterministic behavior.
type GuideLine struct {
	Orientation string
	Kind        string
	Position    float64
	From        domain.Point
	To          domain.Point
}

// ComputeSnapGuides snaps a moving widget rectangle against a set of anchor
// rectangles (typically the bounds of every other widget in the document).
// Snapping happens independently in X and Y; the nearest candidate within the
// threshold wins per axis. Returns the snapped rectangle and guide lines for
// visual feedback.
func ComputeSnapGuides(moving domain.Rect, anchors []domain.Rect, opts SnapOptions) (domain.Rect, []GuideLine) {
	if opts.Threshold <= 0 {
		opts.Threshold = 6
	}
	var guides []GuideLine

	bestDX, bestDXDist := 0.0, math.Inf(1)
	var bestDXGuide GuideLine
	bestDY, bestDYDist := 0.0, math.Inf(1)
	var bestDYGuide GuideLine

	mL, mR := moving.X, moving.X+moving.Width
	mT, mB := moving.Y, moving.Y+moving.Height
	mCX, mCY := moving.X+moving.Width/2, moving.Y+moving.Height/2

	considerX := func(delta float64, g GuideLine) {
		if d := math.Abs(delta); d <= opts.Threshold && d < bestDXDist {
			bestDXDist, bestDX, bestDXGuide = d, delta, g
		}
	}
	considerY := func(delta float64, g GuideLine) {
		if d := math.Abs(delta); d <= opts.Threshold && d < bestDYDist {
			bestDYDist, bestDY, bestDYGuide = d, delta, g
		}
	}

	for _, a := range anchors {
		aL, aR := a.X, a.X+a.Width
		aT, aB := a.Y, a.Y+a.Height
		aCX, aCY := a.X+a.Width/2, a.Y+a.Height/2

		if opts.SnapToEdges {
			considerX(mL-aL, verticalGuide(aL, moving, a, "edge"))
			considerX(mR-aR, verticalGuide(aR, moving, a, "edge"))
			// abutting edges: left-to-right and right-to-left
			considerX(mL-aR, verticalGuide(aR, moving, a, "edge"))
			considerX(mR-aL, verticalGuide(aL, moving, a, "edge"))

			considerY(mT-aT, horizontalGuide(aT, moving, a, "edge"))
			considerY(mB-aB, horizontalGuide(aB, moving, a, "edge"))
			considerY(mT-aB, horizontalGuide(aB, moving, a, "edge"))
			considerY(mB-aT, horizontalGuide(aT, moving, a, "edge"))
		}
		if opts.SnapToCenters {
			considerX(mCX-aCX, verticalGuide(aCX, moving, a, "center"))
			considerY(mCY-aCY, horizontalGuide(aCY, moving, a, "center"))
		}
	}

	snapped := moving
	if bestDXDist <= opts.Threshold {
		snapped.X = roundTo(moving.X-bestDX, 3)
		guides = append(guides, bestDXGuide)
	}
	if bestDYDist <= opts.Threshold {
		snapped.Y = roundTo(moving.Y-bestDY, 3)
		guides = append(guides, bestDYGuide)
	}
	return snapped, guides
}

func verticalGuide(x float64, a, b domain.Rect, kind string) GuideLine {
	minY := math.Min(a.Y, b.Y)
	maxY := math.Max(a.Y+a.Height, b.Y+b.Height)
	x = roundTo(x, 3)
	return GuideLine{
		Orientation: "vertical",
		Kind:        kind,
		Position:    x,
		From:        domain.Point{X: x, Y: minY},
		To:          domain.Point{X: x, Y: maxY},
	}
}

func horizontalGuide(y float64, a, b domain.Rect, kind string) GuideLine {
	minX := math.Min(a.X, b.X)
	maxX := math.Max(a.X+a.Width, b.X+b.Width)
	y = roundTo(y, 3)
	return GuideLine{
		Orientation: "horizontal",
		Kind:        kind,
		Position:    y,
		From:        domain.Point{X: minX, Y: y},
		To:          domain.Point{X: maxX, Y: y},
	}
}

func roundTo(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}
