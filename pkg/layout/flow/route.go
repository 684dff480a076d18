package flow

import (
	"math"

	"github.com/matzehuels/chartgeom/pkg/geom"
)

// Route returns the orthogonal path from a source anchor to a target
// anchor.
//
// A forward edge is three segments through the horizontal midpoint:
// across at the source height, then vertical, then across into the target.
// A backward or same-lane edge detours above both endpoints: up from the
// source, left past both anchors, down to the target height and right into
// the target. clearance is the distance kept above the higher endpoint and
// left of the leftmost one.
func Route(from, to geom.Point, backward bool, clearance float64) geom.Polyline {
	if !backward {
		mid := (from.X + to.X) / 2
		return geom.Polyline{Points: []geom.Point{
			from,
			{X: mid, Y: from.Y},
			{X: mid, Y: to.Y},
			to,
		}}
	}
	top := math.Min(from.Y, to.Y) - clearance
	left := math.Min(from.X, to.X) - clearance
	return geom.Polyline{Points: []geom.Point{
		from,
		{X: from.X, Y: top},
		{X: left, Y: top},
		{X: left, Y: to.Y},
		to,
	}}
}

// Arrowhead returns two strokes meeting at the end of path, as a three
// point polyline: left barb, tip, right barb. The direction comes from the
// last segment with non-zero length. size is the distance the barbs reach
// back along that segment and spread scales their sideways offset.
// Arrowhead returns an empty polyline when path has no length.
func Arrowhead(path geom.Polyline, size, spread float64) geom.Polyline {
	pts := path.Points
	if len(pts) < 2 {
		return geom.Polyline{}
	}
	tip := pts[len(pts)-1]
	for i := len(pts) - 2; i >= 0; i-- {
		d := tip.Sub(pts[i])
		l := d.Len()
		if l == 0 {
			continue
		}
		d = d.Scale(1 / l)
		back := tip.Sub(d.Scale(size))
		side := geom.Point{X: d.Y, Y: -d.X}.Scale(size * spread)
		return geom.Polyline{Points: []geom.Point{back.Add(side), tip, back.Sub(side)}}
	}
	return geom.Polyline{}
}
