// Package drag models the draggable prediction result panel: where it starts,
// how a press captures the grab offset, and how pointer moves reposition it
// while the viewport listeners are held.
package drag

// Point is a 2D coordinate in viewport pixels.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Box is the content box of the form hosting the panel.
type Box struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Anchor is the initial panel position for the box.
func (b Box) Anchor() Point {
	return Point{X: b.Width/2 + b.Left, Y: b.Height/2 + b.Top}
}
