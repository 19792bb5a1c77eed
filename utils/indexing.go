package utils

import (
	"sort"
)

type Index []int

func NewRange(rmin, rmax int) (r Index) {
	var (
		size = rmax - rmin + 1 // INCLUSIVE RANGE
	)
	if size < 0 {
		size = 0
	}
	r = make(Index, size)
	for i := range r {
		r[i] = i + rmin
	}
	return
}

func (I Index) Copy() (r Index) {
	r = make(Index, len(I))
	copy(r, I)
	return
}

/*
IndexSet is a sorted Index without duplicates. Mesh labels store the cells and
faces they mark as IndexSets so regions can be combined by set algebra.
*/
type IndexSet struct {
	points Index
}

func NewIndexSet(points ...int) (is IndexSet) {
	is.points = make(Index, len(points))
	copy(is.points, points)
	sort.Ints(is.points)
	is.points = unique(is.points)
	return
}

func unique(I Index) Index {
	if len(I) < 2 {
		return I
	}
	j := 0
	for i := 1; i < len(I); i++ {
		if I[i] != I[j] {
			j++
			I[j] = I[i]
		}
	}
	return I[:j+1]
}

func (is IndexSet) Len() int { return len(is.points) }

// Points returns a copy of the sorted members
func (is IndexSet) Points() Index { return is.points.Copy() }

func (is IndexSet) Contains(p int) bool {
	i := sort.SearchInts(is.points, p)
	return i < len(is.points) && is.points[i] == p
}

func (is *IndexSet) Insert(points ...int) {
	for _, p := range points {
		i := sort.SearchInts(is.points, p)
		if i < len(is.points) && is.points[i] == p {
			continue
		}
		is.points = append(is.points, 0)
		copy(is.points[i+1:], is.points[i:])
		is.points[i] = p
	}
}

func (is IndexSet) Union(other IndexSet) (r IndexSet) {
	var (
		a, b = is.points, other.points
		i, j int
	)
	r.points = make(Index, 0, len(a)+len(b))
	for i < len(a) && j < len(b) {
		switch {
		case a[i] < b[j]:
			r.points = append(r.points, a[i])
			i++
		case a[i] > b[j]:
			r.points = append(r.points, b[j])
			j++
		default:
			r.points = append(r.points, a[i])
			i++
			j++
		}
	}
	r.points = append(r.points, a[i:]...)
	r.points = append(r.points, b[j:]...)
	return
}

func (is IndexSet) Intersect(other IndexSet) (r IndexSet) {
	var (
		a, b = is.points, other.points
		i, j int
	)
	for i < len(a) && j < len(b) {
		switch {
		case a[i] < b[j]:
			i++
		case a[i] > b[j]:
			j++
		default:
			r.points = append(r.points, a[i])
			i++
			j++
		}
	}
	return
}

func (is IndexSet) Difference(other IndexSet) (r IndexSet) {
	for _, p := range is.points {
		if !other.Contains(p) {
			r.points = append(r.points, p)
		}
	}
	return
}
