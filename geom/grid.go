package geom

// Grid provides an interface for reasoning over a 1D slice as if it were a
// 2D grid of cells. The x index varies fastest.
type Grid struct {
	Width [2]int
	Area  int
}

// Init initializes a Grid instance.
func (g *Grid) Init(width [2]int) {
	g.Width = width
	g.Area = width[0] * width[1]
}

// Idx returns the grid index corresponding to a set of coordinates.
func (g *Grid) Idx(x, y int) int {
	return x + y*g.Width[0]
}

// Clamp moves the given coordinates to the closest cell inside the Grid.
func (g *Grid) Clamp(x, y int) (int, int) {
	return clamp(x, g.Width[0]), clamp(y, g.Width[1])
}

func clamp(x, width int) int {
	if x < 0 {
		return 0
	}
	if x >= width {
		return width - 1
	}
	return x
}
