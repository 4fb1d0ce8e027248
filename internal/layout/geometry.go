package layout

import (
	"math"

	"github.com/jonathan/creative-engine/internal/types"
)

// rect is a canvas region in fractions of the canvas edge length.
type rect struct {
	x0, y0, x1, y1 float64
}

const (
	third     = 1.0 / 3.0
	twoThirds = 2.0 / 3.0
	epsilon   = 1e-9
)

var positionRects = map[types.Position]rect{
	types.PositionUpperLeft:       {0, 0, third, third},
	types.PositionUpperCenter:     {third, 0, twoThirds, third},
	types.PositionUpperRight:      {twoThirds, 0, 1, third},
	types.PositionCenterLeft:      {0, third, third, twoThirds},
	types.PositionCenter:          {third, third, twoThirds, twoThirds},
	types.PositionCenterRight:     {twoThirds, third, 1, twoThirds},
	types.PositionLowerLeft:       {0, twoThirds, third, 1},
	types.PositionLowerCenter:     {third, twoThirds, twoThirds, 1},
	types.PositionLowerRight:      {twoThirds, twoThirds, 1, 1},
	types.PositionLeftThird:       {0, 0, 0.4, 1},
	types.PositionRightThird:      {0.6, 0, 1, 1},
	types.PositionFullWidthTop:    {0, 0, 1, third},
	types.PositionFullWidthBottom: {0, twoThirds, 1, 1},
}

var logoRects = map[types.LogoPosition]rect{
	types.LogoTopLeft:     positionRects[types.PositionUpperLeft],
	types.LogoTopRight:    positionRects[types.PositionUpperRight],
	types.LogoBottomLeft:  positionRects[types.PositionLowerLeft],
	types.LogoBottomRight: positionRects[types.PositionLowerRight],
}

func (r rect) intersect(o rect) rect {
	return rect{
		x0: math.Max(r.x0, o.x0),
		y0: math.Max(r.y0, o.y0),
		x1: math.Min(r.x1, o.x1),
		y1: math.Min(r.y1, o.y1),
	}
}

func (r rect) empty() bool {
	return r.x1-r.x0 <= epsilon || r.y1-r.y0 <= epsilon
}

func (r rect) overlaps(o rect) bool {
	return !r.intersect(o).empty()
}

func (r rect) contains(o rect) bool {
	return o.x0 >= r.x0-epsilon && o.y0 >= r.y0-epsilon &&
		o.x1 <= r.x1+epsilon && o.y1 <= r.y1+epsilon
}

// toBox converts a region to pixels and pulls every edge at least margin
// pixels away from the canvas border.
func (r rect) toBox(size, margin int) types.Box {
	x0 := max(int(math.Round(r.x0*float64(size))), margin)
	y0 := max(int(math.Round(r.y0*float64(size))), margin)
	x1 := min(int(math.Round(r.x1*float64(size))), size-margin)
	y1 := min(int(math.Round(r.y1*float64(size))), size-margin)
	return types.Box{X: x0, Y: y0, Width: max(x1-x0, 0), Height: max(y1-y0, 0)}
}

// splitRows divides a box into n stacked rows of equal height, top to bottom.
func splitRows(b types.Box, n int) []types.Box {
	if n <= 1 {
		return []types.Box{b}
	}
	out := make([]types.Box, n)
	y := b.Y
	for i := 0; i < n; i++ {
		h := b.Height / n
		if i == n-1 {
			h = b.Bottom() - y
		}
		out[i] = types.Box{X: b.X, Y: y, Width: b.Width, Height: h}
		y += h
	}
	return out
}

func overlapsAny(r rect, zones []rect) bool {
	for _, z := range zones {
		if r.overlaps(z) {
			return true
		}
	}
	return false
}
