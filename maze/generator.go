// Package maze generates seeded maze terrain used by scenarios and stress tests
package maze

import (
	"math/rand/v2"
	"time"

	"github.com/lixenwraith/celldomain/core"
)

// Cell types
const (
	Wall    = true
	Passage = false
)

type Config struct {
	Width, Height int

	// Braiding: 0.0 (perfect maze, a tree) to 1.0 (no dead ends)
	// Higher values add cycles without creating plazas or pillars
	Braiding float64

	// If true, the outer boundary is set to Passage
	RemoveBorders bool

	Seed uint64 // Optional (0 = Random)
}

// Result is a generated maze sized exactly Width x Height
// Even dimensions leave the last row or column as wall
type Result struct {
	Width, Height int
	Grid          [][]bool
	Start, End    core.Point
}

// Generate creates a maze with a recursive backtracker and optional braiding
func Generate(cfg Config) Result {
	width, height := max(cfg.Width, 3), max(cfg.Height, 3)
	rows := ensureOdd(height)
	cols := ensureOdd(width)

	grid := make([][]bool, height)
	for y := range grid {
		grid[y] = make([]bool, width)
		for x := range grid[y] {
			grid[y][x] = Wall
		}
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	rng := rand.New(rand.NewPCG(seed, seed>>1|1))

	start := core.Point{X: 1, Y: 1}
	end := core.Point{X: cols - 2, Y: rows - 2}

	recursiveBacktracker(grid, rows, cols, start, rng)

	// Borders go before braiding so edge rooms count their outside exits
	if cfg.RemoveBorders {
		stripBorders(grid)
	}
	if cfg.Braiding > 0 {
		applyBraiding(grid, rows, cols, cfg.Braiding, rng)
	}

	return Result{
		Width:  width,
		Height: height,
		Grid:   grid,
		Start:  start,
		End:    end,
	}
}

// Walls lists wall cells in row-major order
func (r Result) Walls() []core.Point {
	var out []core.Point
	for y, row := range r.Grid {
		for x, wall := range row {
			if wall {
				out = append(out, core.Point{X: x, Y: y})
			}
		}
	}
	return out
}

// Blocked reports whether p is a wall, cells outside the maze are walls
func (r Result) Blocked(p core.Point) bool {
	if p.X < 0 || p.X >= r.Width || p.Y < 0 || p.Y >= r.Height {
		return Wall
	}
	return r.Grid[p.Y][p.X]
}

// Rooms sit on odd coordinates, walls between them on the even ones
func recursiveBacktracker(grid [][]bool, rows, cols int, start core.Point, rng *rand.Rand) {
	stack := []core.Point{start}
	grid[start.Y][start.X] = Passage

	dirs := []core.Point{{X: 0, Y: -2}, {X: 0, Y: 2}, {X: -2, Y: 0}, {X: 2, Y: 0}}
	candidates := make([]core.Point, 0, 4)

	for len(stack) > 0 {
		curr := stack[len(stack)-1]
		candidates = candidates[:0]

		for _, d := range dirs {
			nx, ny := curr.X+d.X, curr.Y+d.Y
			if nx > 0 && nx < cols-1 && ny > 0 && ny < rows-1 && grid[ny][nx] == Wall {
				candidates = append(candidates, d)
			}
		}

		if len(candidates) == 0 {
			stack = stack[:len(stack)-1]
			continue
		}

		d := candidates[rng.IntN(len(candidates))]
		grid[curr.Y+d.Y/2][curr.X+d.X/2] = Passage
		next := curr.Add(d.X, d.Y)
		grid[next.Y][next.X] = Passage
		stack = append(stack, next)
	}
}

// applyBraiding opens one wall next to a dead end with the given probability
func applyBraiding(grid [][]bool, rows, cols int, probability float64, rng *rand.Rand) {
	ortho := []core.Point{{X: 0, Y: -1}, {X: 0, Y: 1}, {X: -1, Y: 0}, {X: 1, Y: 0}}

	for y := 1; y < rows-1; y += 2 {
		for x := 1; x < cols-1; x += 2 {
			if grid[y][x] == Wall {
				continue
			}

			exits := 0
			for _, d := range ortho {
				if grid[y+d.Y][x+d.X] == Passage {
					exits++
				}
			}
			if exits != 1 || rng.Float64() >= probability {
				continue
			}

			var candidates []core.Point
			for _, d := range ortho {
				nx, ny := x+2*d.X, y+2*d.Y
				wx, wy := x+d.X, y+d.Y
				if nx < 0 || nx >= cols || ny < 0 || ny >= rows {
					continue
				}
				if grid[ny][nx] == Passage && grid[wy][wx] == Wall && canSafelyRemoveWall(grid, wx, wy) {
					candidates = append(candidates, core.Point{X: wx, Y: wy})
				}
			}
			if len(candidates) > 0 {
				c := candidates[rng.IntN(len(candidates))]
				grid[c.Y][c.X] = Passage
			}
		}
	}
}

// canSafelyRemoveWall rejects openings that would create a 2x2 plaza or an isolated pillar
func canSafelyRemoveWall(grid [][]bool, x, y int) bool {
	rows, cols := len(grid), len(grid[0])
	in := func(tx, ty int) bool {
		return tx >= 0 && tx < cols && ty >= 0 && ty < rows
	}
	isP := func(tx, ty int) bool {
		return in(tx, ty) && grid[ty][tx] == Passage
	}

	// Plazas: any 2x2 quadrant containing (x,y) fully open
	for _, q := range [4][2]int{{-1, -1}, {1, -1}, {-1, 1}, {1, 1}} {
		if isP(x+q[0], y) && isP(x, y+q[1]) && isP(x+q[0], y+q[1]) {
			return false
		}
	}

	// Pillars: an orthogonal wall left without any other wall neighbour
	ortho := [4][2]int{{0, -1}, {0, 1}, {-1, 0}, {1, 0}}
	for _, d := range ortho {
		nx, ny := x+d[0], y+d[1]
		if !in(nx, ny) || grid[ny][nx] != Wall {
			continue
		}
		walls := 0
		for _, d2 := range ortho {
			tx, ty := nx+d2[0], ny+d2[1]
			if tx == x && ty == y {
				continue
			}
			if in(tx, ty) && grid[ty][tx] == Wall {
				walls++
			}
		}
		if walls == 0 {
			return false
		}
	}
	return true
}

func stripBorders(grid [][]bool) {
	rows, cols := len(grid), len(grid[0])
	for x := 0; x < cols; x++ {
		grid[0][x] = Passage
		grid[rows-1][x] = Passage
	}
	for y := 0; y < rows; y++ {
		grid[y][0] = Passage
		grid[y][cols-1] = Passage
	}
}

// ensureOdd rounds down to an odd count of at least 3
func ensureOdd(n int) int {
	if n < 3 {
		return 3
	}
	if n%2 == 0 {
		return n - 1
	}
	return n
}
