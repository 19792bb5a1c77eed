package domain

// Range is a list of mesh points, Cell(i) for Start <= i < End
type Range struct {
	Start, End int
	Points     []int
}

func NewRange(points []int) Range {
	return Range{Start: 0, End: len(points), Points: points}
}

func (r Range) Cell(i int) int {
	if r.Points == nil {
		return i
	}
	return r.Points[i]
}

func (r Range) Len() int { return r.End - r.Start }
