// Package layout groups the five geometry solvers used by chartgeom.
//
// Each subpackage is a set of pure, synchronous functions: validated input
// plus configuration in, geometry out. None of them performs I/O, logs or
// keeps state between calls, so concurrent calls on separate inputs need no
// coordination and identical input always yields identical output.
//
//   - [github.com/matzehuels/chartgeom/pkg/layout/squarify]: squarified treemap tiling
//   - [github.com/matzehuels/chartgeom/pkg/layout/sankey]: column nodes and flow ribbons
//   - [github.com/matzehuels/chartgeom/pkg/layout/flow]: lane assignment and orthogonal edge routing
//   - [github.com/matzehuels/chartgeom/pkg/layout/radial]: sunburst partition of an annulus
//   - [github.com/matzehuels/chartgeom/pkg/layout/funnel]: stacked proportional stage bars
//
// Failures are reported as *errors.Error with code INVALID_SHAPE when the
// input breaks a precondition, or LAYOUT_ERROR when the requested geometry
// is impossible. No solver returns partial results.
package layout
