package board

import (
	"math/bits"

	"github.com/samber/lo"
)

// A Mask is a set of intersections, one bit per point index.
type Mask uint32

// MaskOf builds a mask from a list of intersections.
func MaskOf(ps ...Intersection) Mask {
	var m Mask
	for _, p := range ps {
		m = m.Add(p)
	}
	return m
}

func (m Mask) Has(p Intersection) bool {
	return m&(1<<Index(p)) != 0
}

func (m Mask) Add(p Intersection) Mask {
	return m | 1<<Index(p)
}

func (m Mask) Remove(p Intersection) Mask {
	return m &^ (1 << Index(p))
}

func (m Mask) Count() int {
	return bits.OnesCount32(uint32(m))
}

// Points lists the members of the mask in index order.
func (m Mask) Points() []Intersection {
	return lo.Filter(points, func(p Intersection, _ int) bool {
		return m.Has(p)
	})
}

// Complement returns every intersection not in m.
func (m Mask) Complement() Mask {
	return ^m & (1<<NumPoints - 1)
}
