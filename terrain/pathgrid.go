package terrain

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Blocked is the cost value of an impassable cell.
const Blocked uint8 = 255

// Cell is a path-finding grid coordinate.
type Cell struct {
	X int
	Z int
}

// PathGrid is the terrain's movement cost grid. Cost 0 is open ground and
// Blocked is impassable; values between add to the traversal cost.
type PathGrid struct {
	Width    int
	Depth    int
	CellSize float32
	cost     []uint8
}

func NewPathGrid(width, depth int, cellSize float32) (*PathGrid, error) {
	if width < 1 || depth < 1 || cellSize <= 0 {
		return nil, fmt.Errorf("%w: path grid %dx%d", ErrBadSize, width, depth)
	}
	return &PathGrid{Width: width, Depth: depth, CellSize: cellSize, cost: make([]uint8, width*depth)}, nil
}

func (g *PathGrid) in(x, z int) bool {
	return x >= 0 && z >= 0 && x < g.Width && z < g.Depth
}

// Cost returns the cost of a cell; cells off the grid are blocked.
func (g *PathGrid) Cost(x, z int) uint8 {
	if !g.in(x, z) {
		return Blocked
	}
	return g.cost[z*g.Width+x]
}

// SetCost writes the cost of a cell.
func (g *PathGrid) SetCost(x, z int, c uint8) {
	if g.in(x, z) {
		g.cost[z*g.Width+x] = c
	}
}

// IsBlocked reports whether a cell is impassable.
func (g *PathGrid) IsBlocked(x, z int) bool {
	return g.Cost(x, z) == Blocked
}

// Costs exposes the raw row-major data.
func (g *PathGrid) Costs() []uint8 {
	return g.cost
}

// Load replaces the raw cost data.
func (g *PathGrid) Load(data []uint8) error {
	if len(data) != len(g.cost) {
		return fmt.Errorf("%w: %d costs for %dx%d", ErrBadSize, len(data), g.Width, g.Depth)
	}
	copy(g.cost, data)
	return nil
}

// CellAt maps a world position to its cell.
func (g *PathGrid) CellAt(p mgl32.Vec3) Cell {
	return Cell{
		X: int(math.Floor(float64(p[0] / g.CellSize))),
		Z: int(math.Floor(float64(p[2] / g.CellSize))),
	}
}

// Block marks every cell whose center lies inside the brush as impassable.
func (g *PathGrid) Block(center mgl32.Vec3, b Brush) int {
	return g.fill(center, b, Blocked)
}

// Unblock clears every cell whose center lies inside the brush.
func (g *PathGrid) Unblock(center mgl32.Vec3, b Brush) int {
	return g.fill(center, b, 0)
}

func (g *PathGrid) fill(center mgl32.Vec3, b Brush, v uint8) int {
	c := g.CellAt(center)
	r := int(math.Ceil(float64(b.Radius / g.CellSize)))
	changed := 0
	for z := c.Z - r; z <= c.Z+r; z++ {
		for x := c.X - r; x <= c.X+r; x++ {
			if !g.in(x, z) {
				continue
			}
			cx := (float32(x) + 0.5) * g.CellSize
			cz := (float32(z) + 0.5) * g.CellSize
			dx, dz := cx-center[0], cz-center[2]
			if dx*dx+dz*dz > b.Radius*b.Radius && !(x == c.X && z == c.Z) {
				continue
			}
			if g.cost[z*g.Width+x] != v {
				g.cost[z*g.Width+x] = v
				changed++
			}
		}
	}
	return changed
}

// FindPath runs A* over the 4-way grid. Cell costs add to the step cost.
// maxNodes bounds the search; nil means no path.
func (g *PathGrid) FindPath(start, goal Cell, maxNodes int) []Cell {
	if !g.in(start.X, start.Z) || !g.in(goal.X, goal.Z) || g.IsBlocked(goal.X, goal.Z) {
		return nil
	}
	if start == goal {
		return []Cell{start}
	}

	idx := func(c Cell) int { return c.Z*g.Width + c.X }
	startIdx, goalIdx := idx(start), idx(goal)

	open := []Cell{start}
	inOpen := map[int]bool{startIdx: true}
	cameFrom := make(map[int]int, 128)
	gScore := map[int]float64{startIdx: 0}
	fScore := map[int]float64{startIdx: manhattan(start, goal)}

	for iterations := 0; len(open) > 0 && iterations < maxNodes; iterations++ {
		best := 0
		for i, c := range open {
			if fScore[idx(c)] < fScore[idx(open[best])] {
				best = i
			}
		}
		current := open[best]
		ci := idx(current)
		open = append(open[:best], open[best+1:]...)
		delete(inOpen, ci)

		if ci == goalIdx {
			return g.walkBack(cameFrom, ci, startIdx)
		}

		for _, d := range [4]Cell{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
			n := Cell{X: current.X + d.X, Z: current.Z + d.Z}
			if !g.in(n.X, n.Z) || g.IsBlocked(n.X, n.Z) {
				continue
			}
			ni := idx(n)
			tentative := gScore[ci] + 1 + float64(g.Cost(n.X, n.Z))/float64(Blocked)
			if prev, seen := gScore[ni]; seen && tentative >= prev {
				continue
			}
			cameFrom[ni] = ci
			gScore[ni] = tentative
			fScore[ni] = tentative + manhattan(n, goal)
			if !inOpen[ni] {
				open = append(open, n)
				inOpen[ni] = true
			}
		}
	}
	return nil
}

func (g *PathGrid) walkBack(cameFrom map[int]int, current, start int) []Cell {
	var path []Cell
	for {
		path = append(path, Cell{X: current % g.Width, Z: current / g.Width})
		if current == start {
			break
		}
		prev, ok := cameFrom[current]
		if !ok {
			return nil
		}
		current = prev
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

func manhattan(a, b Cell) float64 {
	return math.Abs(float64(a.X-b.X)) + math.Abs(float64(a.Z-b.Z))
}
