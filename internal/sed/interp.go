package sed

import "sort"

// interpolateLinear evaluates the piecewise-linear function through the
// control points (xs, ys) at x. Outside the domain the outermost segment's
// slope extends the line, so results can go negative; callers clamp when
// that matters. xs must be ascending with at least two points, and exact
// hits on a control point return its y value bit for bit.
func interpolateLinear(xs, ys []float64, x float64) float64 {
	i := sort.SearchFloat64s(xs, x)
	if i < len(xs) && xs[i] == x {
		return ys[i]
	}
	seg := i - 1
	if seg < 0 {
		seg = 0
	}
	if seg > len(xs)-2 {
		seg = len(xs) - 2
	}
	slope := (ys[seg+1] - ys[seg]) / (xs[seg+1] - xs[seg])
	return ys[seg] + slope*(x-xs[seg])
}

// interpolateGrid evaluates the control polygon at every grid point.
func interpolateGrid(xs, ys, grid []float64) []float64 {
	out := make([]float64, len(grid))
	for i, x := range grid {
		out[i] = interpolateLinear(xs, ys, x)
	}
	return out
}
