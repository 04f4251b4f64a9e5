package board

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrNotAnIntersection = errors.New("not an intersection")

// Parse reads an intersection either in algebraic notation ("d6") or as a
// "row,col" pair ("1,3").
func Parse(s string) (Intersection, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	s = strings.TrimSuffix(strings.TrimPrefix(s, "("), ")")
	var p Intersection
	if strings.Contains(s, ",") {
		parts := strings.Split(s, ",")
		if len(parts) != 2 {
			return p, fmt.Errorf("%q: %w", s, ErrNotAnIntersection)
		}
		r, err := strconv.Atoi(strings.TrimSpace(parts[0]))
		if err != nil {
			return p, fmt.Errorf("%q: %w", s, ErrNotAnIntersection)
		}
		c, err := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil {
			return p, fmt.Errorf("%q: %w", s, ErrNotAnIntersection)
		}
		p = Intersection{r, c}
	} else {
		if len(s) != 2 || s[0] < 'a' || s[0] >= 'a'+Dim || s[1] < '1' || s[1] >= '1'+Dim {
			return p, fmt.Errorf("%q: %w", s, ErrNotAnIntersection)
		}
		p = Intersection{Row: Dim - int(s[1]-'0'), Col: int(s[0] - 'a')}
	}
	if !IsIntersection(p) {
		return p, fmt.Errorf("%v: %w", p, ErrNotAnIntersection)
	}
	return p, nil
}
