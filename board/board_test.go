package board

import (
	"strings"
	"testing"

	"github.com/matryer/is"
	"github.com/stretchr/testify/assert"
)

func TestTopologySymmetric(t *testing.T) {
	is := is.New(t)
	pts := Points()
	is.Equal(len(pts), NumPoints)
	for _, p := range pts {
		ns := Neighbors(p)
		is.True(len(ns) == 3 || len(ns) == 4)
		for _, n := range ns {
			is.True(IsIntersection(n))
			is.True(Adjacent(n, p)) // adjacency must be symmetric
		}
	}
}

func TestNeighborsExact(t *testing.T) {
	is := is.New(t)
	is.Equal(Neighbors(Intersection{0, 0}), []Intersection{{0, 3}, {1, 1}, {3, 0}})
	is.Equal(Neighbors(Intersection{1, 1}), []Intersection{{0, 0}, {1, 3}, {3, 1}, {2, 2}})
	is.Equal(Neighbors(Intersection{3, 1}), []Intersection{{3, 0}, {3, 2}, {1, 1}, {5, 1}})
	is.Equal(Neighbors(Intersection{6, 6}), []Intersection{{6, 3}, {5, 5}, {3, 6}})
}

func TestNeighborsOffBoard(t *testing.T) {
	assert.Panics(t, func() { Neighbors(Intersection{3, 3}) })
	assert.Panics(t, func() { Neighbors(Intersection{7, 0}) })
	assert.Panics(t, func() { Index(Intersection{-1, 2}) })
	assert.False(t, IsIntersection(Intersection{0, 1}))
}

func TestLines(t *testing.T) {
	is := is.New(t)
	ls := Lines()
	// eight rows, eight columns, four corner diagonals
	is.Equal(len(ls), 20)
	seen := map[Line]bool{}
	for _, l := range ls {
		is.True(!seen[l])
		seen[l] = true
		is.True(Adjacent(l[0], l[1]) || Adjacent(l[0], l[2]))
	}
	for _, p := range Points() {
		n := len(LinesThrough(p))
		is.True(n == 2 || n == 3)
	}
	is.Equal(len(LinesThrough(Intersection{1, 1})), 3)
	is.Equal(len(LinesThrough(Intersection{0, 3})), 2)
	is.Equal(ls[0], Line{{0, 0}, {0, 3}, {0, 6}})
}

func TestMask(t *testing.T) {
	is := is.New(t)
	m := MaskOf(Intersection{0, 0}, Intersection{6, 6})
	is.Equal(m.Count(), 2)
	is.True(m.Has(Intersection{6, 6}))
	m = m.Remove(Intersection{6, 6}).Add(Intersection{3, 4})
	is.Equal(m.Points(), []Intersection{{0, 0}, {3, 4}})
	is.Equal(m.Complement().Count(), NumPoints-2)
}

func TestParse(t *testing.T) {
	is := is.New(t)
	type tc struct {
		in   string
		want Intersection
		ok   bool
	}
	for _, c := range []tc{
		{"a7", Intersection{0, 0}, true},
		{"g1", Intersection{6, 6}, true},
		{"D6", Intersection{1, 3}, true},
		{"(3,1)", Intersection{3, 1}, true},
		{" 5, 5 ", Intersection{5, 5}, true},
		{"d4", Intersection{}, false},
		{"h1", Intersection{}, false},
		{"3,3", Intersection{}, false},
		{"foo", Intersection{}, false},
	} {
		p, err := Parse(c.in)
		if !c.ok {
			is.True(err != nil)
			continue
		}
		is.NoErr(err)
		is.Equal(p, c.want)
		is.Equal(p.String(), strings.ToLower(strings.TrimSpace(p.String())))
	}
	p, _ := Parse("b6")
	is.Equal(p.String(), "b6")
}

func TestDisplay(t *testing.T) {
	is := is.New(t)
	txt := ToDisplayText(func(p Intersection) Symbol {
		if p == (Intersection{0, 0}) {
			return X
		}
		if p == (Intersection{6, 6}) {
			return O
		}
		return Empty
	})
	lines := strings.Split(txt, "\n")
	is.Equal(lines[0], "7  X-----------.-----------.")
	is.Equal(lines[12], "1  .-----------.-----------O")
}
