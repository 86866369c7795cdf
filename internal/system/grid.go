package system

import (
	"math"
	"sort"

	"github.com/wtengine/wte/internal/component"
)

// DefaultCellSize is the broad-phase cell edge in world units.
const DefaultCellSize = 64

// maxSpanCells caps how many cells a hitbox is bucketed into. Larger boxes
// go on the oversized list and are paired with every collider.
const maxSpanCells = 64

type cellKey struct {
	cx int
	cy int
}

func toCellCoord(v, size float64) int {
	return int(math.Floor(v / size))
}

// spatialGrid buckets colliders by the cells their hitbox covers, so the
// narrow phase only tests boxes that share a cell. Rebuilt every tick.
// Accessed only from the game loop goroutine.
type spatialGrid struct {
	size      float64
	cells     map[cellKey][]int
	oversized []int // ascending
	isBig     []bool
	mark      []int // per-collider stamp for deduplicating candidates
	stamp     int
}

func newSpatialGrid(size float64) *spatialGrid {
	if size <= 0 {
		size = DefaultCellSize
	}
	return &spatialGrid{size: size, cells: make(map[cellKey][]int)}
}

// reset empties the grid for n colliders. Cells are dropped, not kept, so
// the map only holds what the current tick occupies.
func (g *spatialGrid) reset(n int) {
	clear(g.cells)
	g.oversized = g.oversized[:0]
	if cap(g.mark) < n {
		g.mark = make([]int, n)
		g.isBig = make([]bool, n)
		g.stamp = 0
	}
	g.mark = g.mark[:n]
	g.isBig = g.isBig[:n]
	clear(g.isBig)
}

// span returns the inclusive cell range covered by a box at loc.
func (g *spatialGrid) span(loc component.Location, box component.Hitbox) (x0, y0, x1, y1 int) {
	return toCellCoord(loc.X, g.size), toCellCoord(loc.Y, g.size),
		toCellCoord(loc.X+box.Width, g.size), toCellCoord(loc.Y+box.Height, g.size)
}

// tooBig reports whether a box covers more than maxSpanCells cells. Counted
// in floats so huge or non-finite boxes cannot overflow.
func (g *spatialGrid) tooBig(loc component.Location, box component.Hitbox) bool {
	nx := math.Floor((loc.X+box.Width)/g.size) - math.Floor(loc.X/g.size) + 1
	ny := math.Floor((loc.Y+box.Height)/g.size) - math.Floor(loc.Y/g.size) + 1
	return !(nx*ny <= maxSpanCells)
}

// insert must be called with ascending i.
func (g *spatialGrid) insert(i int, loc component.Location, box component.Hitbox) {
	if g.tooBig(loc, box) {
		g.isBig[i] = true
		g.oversized = append(g.oversized, i)
		return
	}
	x0, y0, x1, y1 := g.span(loc, box)
	for cx := x0; cx <= x1; cx++ {
		for cy := y0; cy <= y1; cy++ {
			k := cellKey{cx: cx, cy: cy}
			g.cells[k] = append(g.cells[k], i)
		}
	}
}

// nearby returns, ascending, the indices of every collider that may overlap
// collider i: those sharing a cell with it plus the oversized ones. An
// oversized collider gets all n. Caller does the exact overlap test.
func (g *spatialGrid) nearby(i int, loc component.Location, box component.Hitbox, out []int) []int {
	out = out[:0]
	if g.isBig[i] {
		for j := range g.mark {
			out = append(out, j)
		}
		return out
	}
	g.stamp++
	x0, y0, x1, y1 := g.span(loc, box)
	for cx := x0; cx <= x1; cx++ {
		for cy := y0; cy <= y1; cy++ {
			for _, j := range g.cells[cellKey{cx: cx, cy: cy}] {
				if g.mark[j] == g.stamp {
					continue
				}
				g.mark[j] = g.stamp
				out = append(out, j)
			}
		}
	}
	out = append(out, g.oversized...)
	sort.Ints(out)
	return out
}
