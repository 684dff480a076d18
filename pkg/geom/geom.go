package geom

import "math"

// Point is a position in the plane.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Sub returns the vector from q to p.
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Scale returns p multiplied by s.
func (p Point) Scale(s float64) Point { return Point{p.X * s, p.Y * s} }

// Len returns the distance of p from the origin.
func (p Point) Len() float64 { return math.Hypot(p.X, p.Y) }

// Polar returns the point at radius r and angle a around c.
func Polar(c Point, r, a float64) Point {
	return Point{c.X + r*math.Cos(a), c.Y - r*math.Sin(a)}
}

// Rect is an axis-aligned rectangle anchored at its top-left corner.
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Area returns W*H.
func (r Rect) Area() float64 { return r.W * r.H }

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float64 { return r.X + r.W }

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.H }

// Center returns the midpoint of the rectangle.
func (r Rect) Center() Point { return Point{r.X + r.W/2, r.Y + r.H/2} }

// Inset shrinks the rectangle by p on every side. The result may have a
// non-positive size; callers decide whether that is an error.
func (r Rect) Inset(p float64) Rect {
	return Rect{X: r.X + p, Y: r.Y + p, W: r.W - 2*p, H: r.H - 2*p}
}

// Translate moves the rectangle by d.
func (r Rect) Translate(d Point) Rect {
	return Rect{X: r.X + d.X, Y: r.Y + d.Y, W: r.W, H: r.H}
}

// Overlaps reports whether the interiors of r and o intersect by more
// than eps in both directions. Rectangles that only share an edge do not
// overlap.
func (r Rect) Overlaps(o Rect, eps float64) bool {
	dx := math.Min(r.Right(), o.Right()) - math.Max(r.X, o.X)
	dy := math.Min(r.Bottom(), o.Bottom()) - math.Max(r.Y, o.Y)
	return dx > eps && dy > eps
}

// Contains reports whether p lies inside r or on its boundary.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.Right() && p.Y >= r.Y && p.Y <= r.Bottom()
}

// Wedge is an annular sector. Start and End are angles in radians with
// End >= Start. Depth is the hierarchy level, 0 for the root.
type Wedge struct {
	InnerR float64 `json:"inner_r"`
	OuterR float64 `json:"outer_r"`
	Start  float64 `json:"start"`
	End    float64 `json:"end"`
	Depth  int     `json:"depth"`
}

// Span returns the angular extent End-Start.
func (w Wedge) Span() float64 { return w.End - w.Start }

// MidAngle returns the bisecting angle.
func (w Wedge) MidAngle() float64 { return (w.Start + w.End) / 2 }

// MidRadius returns the radius halfway through the ring.
func (w Wedge) MidRadius() float64 { return (w.InnerR + w.OuterR) / 2 }

// Anchor returns the point at the middle of the wedge around center c,
// where a label would go.
func (w Wedge) Anchor(c Point) Point { return Polar(c, w.MidRadius(), w.MidAngle()) }

// Outline approximates the wedge around c by a polygon, using n segments
// per arc. n below 1 is treated as 1.
func (w Wedge) Outline(c Point, n int) Polygon {
	n = max(n, 1)
	pts := make([]Point, 0, 2*(n+1))
	for i := 0; i <= n; i++ {
		a := w.Start + w.Span()*float64(i)/float64(n)
		pts = append(pts, Polar(c, w.OuterR, a))
	}
	for i := n; i >= 0; i-- {
		a := w.Start + w.Span()*float64(i)/float64(n)
		pts = append(pts, Polar(c, w.InnerR, a))
	}
	return Polygon{Points: pts}
}

// Ribbon is a band of constant vertical thickness. Path holds the four
// control points of the cubic Bezier running along the band's upper edge.
// The lower edge is the same curve shifted down by Thickness.
type Ribbon struct {
	Path      []Point `json:"path"`
	Thickness float64 `json:"thickness"`
}

// Lower returns the control points of the lower edge.
func (r Ribbon) Lower() []Point {
	out := make([]Point, len(r.Path))
	for i, p := range r.Path {
		out[i] = Point{p.X, p.Y + r.Thickness}
	}
	return out
}

// Translate moves the ribbon by d.
func (r Ribbon) Translate(d Point) Ribbon {
	return Ribbon{Path: translate(r.Path, d), Thickness: r.Thickness}
}

// Outline samples both edges with n steps each and returns the closed band.
func (r Ribbon) Outline(n int) Polygon {
	n = max(n, 1)
	if len(r.Path) != 4 {
		return Polygon{}
	}
	lower := r.Lower()
	pts := make([]Point, 0, 2*(n+1))
	for i := 0; i <= n; i++ {
		pts = append(pts, Bezier(r.Path, float64(i)/float64(n)))
	}
	for i := n; i >= 0; i-- {
		pts = append(pts, Bezier(lower, float64(i)/float64(n)))
	}
	return Polygon{Points: pts}
}

// Bezier evaluates the cubic Bezier defined by the four points c at t.
func Bezier(c []Point, t float64) Point {
	u := 1 - t
	a, b, d, e := u*u*u, 3*u*u*t, 3*u*t*t, t*t*t
	return Point{
		X: a*c[0].X + b*c[1].X + d*c[2].X + e*c[3].X,
		Y: a*c[0].Y + b*c[1].Y + d*c[2].Y + e*c[3].Y,
	}
}

// Polyline is an open sequence of points.
type Polyline struct {
	Points []Point `json:"points"`
}

// Length returns the summed length of all segments.
func (l Polyline) Length() float64 {
	var s float64
	for i := 1; i < len(l.Points); i++ {
		s += l.Points[i].Sub(l.Points[i-1]).Len()
	}
	return s
}

// Translate moves every point by d.
func (l Polyline) Translate(d Point) Polyline {
	return Polyline{Points: translate(l.Points, d)}
}

// Bounds returns the smallest rectangle containing every point.
func (l Polyline) Bounds() Rect { return Polygon(l).Bounds() }

// Polygon is a closed sequence of points; the last point connects back to
// the first.
type Polygon struct {
	Points []Point `json:"points"`
}

// Area returns the unsigned area using the shoelace formula.
func (p Polygon) Area() float64 {
	n := len(p.Points)
	if n < 3 {
		return 0
	}
	var s float64
	for i := range n {
		a, b := p.Points[i], p.Points[(i+1)%n]
		s += a.X*b.Y - b.X*a.Y
	}
	return math.Abs(s) / 2
}

// Bounds returns the smallest rectangle containing every point.
func (p Polygon) Bounds() Rect {
	if len(p.Points) == 0 {
		return Rect{}
	}
	minX, minY := p.Points[0].X, p.Points[0].Y
	maxX, maxY := minX, minY
	for _, q := range p.Points[1:] {
		minX, maxX = math.Min(minX, q.X), math.Max(maxX, q.X)
		minY, maxY = math.Min(minY, q.Y), math.Max(maxY, q.Y)
	}
	return Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}

// Translate moves every point by d.
func (p Polygon) Translate(d Point) Polygon {
	return Polygon{Points: translate(p.Points, d)}
}

// Union returns the smallest rectangle containing r and o. An empty
// rectangle with zero size at the origin is treated as no rectangle.
func (r Rect) Union(o Rect) Rect {
	if r == (Rect{}) {
		return o
	}
	if o == (Rect{}) {
		return r
	}
	x0, y0 := math.Min(r.X, o.X), math.Min(r.Y, o.Y)
	x1, y1 := math.Max(r.Right(), o.Right()), math.Max(r.Bottom(), o.Bottom())
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

func translate(pts []Point, d Point) []Point {
	out := make([]Point, len(pts))
	for i, p := range pts {
		out[i] = p.Add(d)
	}
	return out
}

// Ellipse approximates the ellipse with center c and radii rx, ry by a
// polygon with n vertices. n below 3 is treated as 3.
func Ellipse(c Point, rx, ry float64, n int) Polygon {
	n = max(n, 3)
	pts := make([]Point, n)
	for i := range n {
		a := 2 * math.Pi * float64(i) / float64(n)
		pts[i] = Point{c.X + rx*math.Cos(a), c.Y - ry*math.Sin(a)}
	}
	return Polygon{Points: pts}
}
