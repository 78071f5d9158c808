package sim

import "fmt"

// Grid is the fixed-size toroidally-addressed store of every cell in the
// field. It owns all Bot values; nothing outside holds more than a
// short-lived copy. The grid itself knows no simulation rules.
type Grid struct {
	width  int
	height int
	cells  []Bot
}

// NewGrid allocates a width x height grid of empty cells.
func NewGrid(width, height int) *Grid {
	g := &Grid{
		width:  width,
		height: height,
		cells:  make([]Bot, width*height),
	}
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			g.cells[g.index(x, y)] = NewEmptyBot(x, y)
		}
	}
	return g
}

func (g *Grid) Width() int  { return g.width }
func (g *Grid) Height() int { return g.height }

func (g *Grid) index(x, y int) int {
	return x*g.height + y
}

func (g *Grid) inBounds(x, y int) bool {
	return x >= 0 && x < g.width && y >= 0 && y < g.height
}

// Get returns a copy of the cell at (x, y).
func (g *Grid) Get(x, y int) (Bot, bool) {
	if !g.inBounds(x, y) {
		return Bot{}, false
	}
	return g.cells[g.index(x, y)], true
}

// GetPtr returns a mutable reference to the cell at (x, y).
func (g *Grid) GetPtr(x, y int) (*Bot, bool) {
	if !g.inBounds(x, y) {
		return nil, false
	}
	return &g.cells[g.index(x, y)], true
}

// MustGetPtr is GetPtr for coordinates that the caller guarantees are valid.
// Every coordinate fed to the tick engine is pre-wrapped by Direction.Apply,
// so a miss here is a contract violation (e.g. grid dimensions out of sync
// with the configured parameters), not a recoverable condition.
func (g *Grid) MustGetPtr(x, y int) *Bot {
	if !g.inBounds(x, y) {
		panic(fmt.Sprintf("sim: coordinate (%d,%d) outside %dx%d grid", x, y, g.width, g.height))
	}
	return &g.cells[g.index(x, y)]
}

// Set overwrites the cell at (x, y).
func (g *Grid) Set(x, y int, b Bot) {
	if !g.inBounds(x, y) {
		panic(fmt.Sprintf("sim: coordinate (%d,%d) outside %dx%d grid", x, y, g.width, g.height))
	}
	g.cells[g.index(x, y)] = b
}

// Clone returns a deep copy of the grid, used for snapshot handoff to the
// host layer.
func (g *Grid) Clone() *Grid {
	cells := make([]Bot, len(g.cells))
	copy(cells, g.cells)
	return &Grid{width: g.width, height: g.height, cells: cells}
}
