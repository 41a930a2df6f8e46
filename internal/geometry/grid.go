package geometry

// Point is an integer cell coordinate on the battle grid.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Bounds describes the playable area of a battle grid. Cells range from
// (0,0) to (Width-1,Height-1) inclusive.
type Bounds struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Contains reports whether p lies inside the grid.
func (b Bounds) Contains(p Point) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < b.Width && p.Y < b.Height
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Chebyshev returns the king-move distance between two cells. Diagonal
// steps count as one cell.
func Chebyshev(a, b Point) int {
	dx := abs(a.X - b.X)
	dy := abs(a.Y - b.Y)
	if dx > dy {
		return dx
	}
	return dy
}

// Manhattan returns the taxicab distance between two cells.
func Manhattan(a, b Point) int {
	return abs(a.X-b.X) + abs(a.Y-b.Y)
}

// Adjacent reports whether two distinct cells touch, diagonals included.
func Adjacent(a, b Point) bool {
	return a != b && Chebyshev(a, b) == 1
}

// Line walks the cells of the straight segment from a to b using integer
// Bresenham steps. Both endpoints are included; a == b yields a single
// cell.
func Line(a, b Point) []Point {
	cells := make([]Point, 0, Chebyshev(a, b)+1)
	dx := abs(b.X - a.X)
	dy := -abs(b.Y - a.Y)
	sx := 1
	if a.X > b.X {
		sx = -1
	}
	sy := 1
	if a.Y > b.Y {
		sy = -1
	}
	err := dx + dy
	cur := a
	for {
		cells = append(cells, cur)
		if cur == b {
			return cells
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			cur.X += sx
		}
		if e2 <= dx {
			err += dx
			cur.Y += sy
		}
	}
}

// CellsWithin returns every in-bounds cell whose Chebyshev distance from
// center is at most radius, center included. The order is row-major and
// deterministic.
func CellsWithin(b Bounds, center Point, radius int) []Point {
	if radius < 0 {
		return nil
	}
	cells := make([]Point, 0, (2*radius+1)*(2*radius+1))
	for y := center.Y - radius; y <= center.Y+radius; y++ {
		for x := center.X - radius; x <= center.X+radius; x++ {
			p := Point{X: x, Y: y}
			if b.Contains(p) {
				cells = append(cells, p)
			}
		}
	}
	return cells
}
