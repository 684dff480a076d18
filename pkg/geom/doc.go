// Package geom defines the geometric primitives produced by the layout
// packages.
//
// All values are plain immutable structs. Coordinates are in caller units
// with the origin at the top-left corner and y growing downwards. Angles are
// in radians, measured counter-clockwise from the positive x axis as seen on
// screen, so [Polar] flips the sine term.
//
// The primitives are:
//
//   - [Rect]: axis-aligned rectangle (treemap tiles, Sankey nodes, funnel bars)
//   - [Wedge]: annular sector (sunburst slices)
//   - [Ribbon]: cubic Bezier band of constant vertical thickness (Sankey links)
//   - [Polyline]: open path (routed graph edges, arrowheads)
//   - [Polygon]: closed path (funnel silhouette, diamond nodes)
package geom
