package world

// Room is an axis-aligned rectangle in tile coordinates. Its carved floor
// spans X1+1..X2 and Y1+1..Y2 inclusive.
type Room struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

// NewRoom builds a Room from an origin and a size.
//
// Postcondition: X2 == x+w and Y2 == y+h.
func NewRoom(x, y, w, h int) Room {
	return Room{X1: x, Y1: y, X2: x + w, Y2: y + h}
}

// Center returns the integer midpoint, truncating toward zero.
func (r Room) Center() (int, int) {
	return (r.X1 + r.X2) / 2, (r.Y1 + r.Y2) / 2
}

// Intersects reports whether r and o overlap. Edges are inclusive, so two
// rooms that merely share a boundary line count as overlapping.
func (r Room) Intersects(o Room) bool {
	return r.X1 <= o.X2 && r.X2 >= o.X1 && r.Y1 <= o.Y2 && r.Y2 >= o.Y1
}

// Width returns X2 - X1.
func (r Room) Width() int { return r.X2 - r.X1 }

// Height returns Y2 - Y1.
func (r Room) Height() int { return r.Y2 - r.Y1 }
