package board

import (
	"fmt"
	"sort"
	"strings"
)

// Dim is the side length of the coordinate grid the board is drawn on.
const Dim = 7

// NumPoints is the number of intersections a piece may occupy.
const NumPoints = 24

// An Intersection is a point on the board, addressed by row and column of
// the 7x7 grid. Row 0 is the top of the board.
type Intersection struct {
	Row int
	Col int
}

// String returns the algebraic name of the intersection: a column letter
// followed by a rank, with rank 1 at the bottom of the board (so row 0,
// column 0 is a7).
func (p Intersection) String() string {
	if p.Row < 0 || p.Row >= Dim || p.Col < 0 || p.Col >= Dim {
		return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
	}
	return fmt.Sprintf("%c%d", 'a'+rune(p.Col), Dim-p.Row)
}

// Add returns p translated by d.
func (p Intersection) Add(d Intersection) Intersection {
	return Intersection{p.Row + d.Row, p.Col + d.Col}
}

// Sub returns the vector from d to p.
func (p Intersection) Sub(d Intersection) Intersection {
	return Intersection{p.Row - d.Row, p.Col - d.Col}
}

// neighborTable is the adjacency of the nine-men's-morris board. The order
// of the neighbours for each point is significant: mill detection reflects
// through them in this order.
var neighborTable = map[Intersection][]Intersection{
	{0, 0}: {{0, 3}, {1, 1}, {3, 0}},
	{0, 3}: {{0, 0}, {0, 6}, {1, 3}},
	{0, 6}: {{0, 3}, {1, 5}, {3, 6}},

	{1, 1}: {{0, 0}, {1, 3}, {3, 1}, {2, 2}},
	{1, 3}: {{0, 3}, {1, 1}, {1, 5}, {2, 3}},
	{1, 5}: {{0, 6}, {1, 3}, {2, 4}, {3, 5}},

	{2, 2}: {{2, 3}, {3, 2}, {1, 1}},
	{2, 3}: {{2, 2}, {1, 3}, {2, 4}},
	{2, 4}: {{2, 3}, {3, 4}, {1, 5}},

	{3, 0}: {{0, 0}, {6, 0}, {3, 1}},
	{3, 1}: {{3, 0}, {3, 2}, {1, 1}, {5, 1}},
	{3, 2}: {{3, 1}, {2, 2}, {4, 2}},
	{3, 4}: {{3, 5}, {2, 4}, {4, 4}},
	{3, 5}: {{3, 4}, {3, 6}, {1, 5}, {5, 5}},
	{3, 6}: {{3, 5}, {0, 6}, {6, 6}},

	{4, 2}: {{4, 3}, {3, 2}, {5, 1}},
	{4, 3}: {{4, 2}, {4, 4}, {5, 3}},
	{4, 4}: {{4, 3}, {3, 4}, {5, 5}},

	{5, 1}: {{6, 0}, {5, 3}, {3, 1}, {4, 2}},
	{5, 3}: {{6, 3}, {5, 1}, {5, 5}, {4, 3}},
	{5, 5}: {{6, 6}, {5, 3}, {4, 4}, {3, 5}},

	{6, 0}: {{6, 3}, {5, 1}, {3, 0}},
	{6, 3}: {{6, 0}, {6, 6}, {5, 3}},
	{6, 6}: {{6, 3}, {5, 5}, {3, 6}},
}

var (
	points  []Intersection
	indexOf [Dim][Dim]int8
	lines   []Line
	through [NumPoints][]Line
)

func init() {
	for r := range Dim {
		for c := range Dim {
			indexOf[r][c] = -1
		}
	}
	for p := range neighborTable {
		points = append(points, p)
	}
	sort.Slice(points, func(i, j int) bool {
		if points[i].Row != points[j].Row {
			return points[i].Row < points[j].Row
		}
		return points[i].Col < points[j].Col
	})
	for i, p := range points {
		indexOf[p.Row][p.Col] = int8(i)
	}
	lines = findLines()
	for _, l := range lines {
		for _, p := range l {
			idx := Index(p)
			through[idx] = append(through[idx], l)
		}
	}
}

// IsIntersection returns true if p is one of the 24 points of the board.
func IsIntersection(p Intersection) bool {
	if p.Row < 0 || p.Row >= Dim || p.Col < 0 || p.Col >= Dim {
		return false
	}
	return indexOf[p.Row][p.Col] >= 0
}

// Index returns a dense index in [0, NumPoints) for p. It panics if p is not
// an intersection of the board.
func Index(p Intersection) int {
	if !IsIntersection(p) {
		panic(fmt.Sprintf("board: %v is not an intersection", p))
	}
	return int(indexOf[p.Row][p.Col])
}

// At is the inverse of Index.
func At(idx int) Intersection {
	return points[idx]
}

// Points returns all intersections in row-major order.
func Points() []Intersection {
	ret := make([]Intersection, len(points))
	copy(ret, points)
	return ret
}

// Neighbors returns the intersections adjacent to p. Asking for the
// neighbours of a point that is not on the board is a programming error and
// panics.
func Neighbors(p Intersection) []Intersection {
	ns, ok := neighborTable[p]
	if !ok {
		panic(fmt.Sprintf("board: no neighbourhood for %v; not an intersection", p))
	}
	return ns
}

// Adjacent returns true if a and b are neighbours.
func Adjacent(a, b Intersection) bool {
	for _, n := range Neighbors(a) {
		if n == b {
			return true
		}
	}
	return false
}

// A Line is three collinear, consecutively adjacent intersections. Three
// pieces of one colour on a Line form a mill.
type Line [3]Intersection

func (l Line) String() string {
	s := make([]string, 3)
	for i, p := range l {
		s[i] = p.String()
	}
	return strings.Join(s, "-")
}

// Contains returns true if p is one of the points of l.
func (l Line) Contains(p Intersection) bool {
	return l[0] == p || l[1] == p || l[2] == p
}

// Lines returns the 20 lines of the board: eight rows, eight columns and
// the four diagonals joining the corners of the squares.
func Lines() []Line {
	ret := make([]Line, len(lines))
	copy(ret, lines)
	return ret
}

// LinesThrough returns the lines that pass through p.
func LinesThrough(p Intersection) []Line {
	return through[Index(p)]
}

// findLines walks the neighbour table. Every point that has two neighbours
// on opposite sides is the middle of a line.
func findLines() []Line {
	var found []Line
	for _, mid := range points {
		ns := neighborTable[mid]
		for i, a := range ns {
			d := mid.Sub(a)
			far := mid.Add(d)
			for _, b := range ns[i+1:] {
				if b == far {
					found = append(found, Line{a, mid, b})
				}
			}
		}
	}
	for i, l := range found {
		sort.Slice(l[:], func(a, b int) bool {
			return Index(l[a]) < Index(l[b])
		})
		found[i] = l
	}
	sort.Slice(found, func(i, j int) bool {
		for k := range 3 {
			if found[i][k] != found[j][k] {
				return Index(found[i][k]) < Index(found[j][k])
			}
		}
		return false
	})
	return found
}
