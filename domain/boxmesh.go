package domain

import (
	"fmt"

	"github.com/salam-lobad/ablate/geometry2D"
)

/*
NewBoxMesh builds a structured box of faces[d] cells per direction between
lower and upper, then creates the domain. In 2D a simplex mesh splits each
square along its lower-left to upper-right diagonal, in 3D each cube is split
into the six tetrahedra that share its main diagonal.
*/
func NewBoxMesh(name string, fieldDescriptors []FieldDescriptor, modifiers []Modifier,
	faces []int, lower, upper []float64, simplex bool) (dm *Domain, err error) {
	var (
		mesh *Mesh
	)
	if mesh, err = newBoxMesh(faces, lower, upper, simplex); err != nil {
		err = fmt.Errorf("box mesh %s: %w", name, err)
		return
	}
	return NewDomain(name, mesh, fieldDescriptors, modifiers)
}

func checkBox(faces []int, lower, upper []float64) (dim int, err error) {
	dim = len(faces)
	switch {
	case dim < 1 || dim > 3:
		err = fmt.Errorf("dimension must be 1, 2 or 3, have %d", dim)
	case len(lower) != dim || len(upper) != dim:
		err = fmt.Errorf("bounds must have %d entries, have %d and %d", dim, len(lower), len(upper))
	}
	if err != nil {
		return
	}
	for d := 0; d < dim; d++ {
		if faces[d] < 1 {
			err = fmt.Errorf("direction %d must have at least one cell, have %d", d, faces[d])
			return
		}
		if upper[d] <= lower[d] {
			err = fmt.Errorf("direction %d upper bound %g is not above lower bound %g", d, upper[d], lower[d])
			return
		}
	}
	return
}

func boxVertices(dim int, faces []int, lower, upper []float64) (vertices [][]float64) {
	var (
		n = [3]int{1, 1, 1}
	)
	for d := 0; d < dim; d++ {
		n[d] = faces[d] + 1
	}
	vertices = make([][]float64, 0, n[0]*n[1]*n[2])
	for k := 0; k < n[2]; k++ {
		for j := 0; j < n[1]; j++ {
			for i := 0; i < n[0]; i++ {
				ijk := [3]int{i, j, k}
				x := make([]float64, dim)
				for d := 0; d < dim; d++ {
					x[d] = lower[d] + (upper[d]-lower[d])*float64(ijk[d])/float64(faces[d])
				}
				vertices = append(vertices, x)
			}
		}
	}
	return
}

// The six orderings of the axes, each a path from corner 000 to corner 111
var kuhnPaths = [6][3]int{
	{0, 1, 2}, {0, 2, 1}, {1, 0, 2}, {1, 2, 0}, {2, 0, 1}, {2, 1, 0},
}

func newBoxMesh(faces []int, lower, upper []float64, simplex bool) (m *Mesh, err error) {
	var (
		dim      int
		etov     [][]int
		types    []ElementType
		vertices [][]float64
	)
	if dim, err = checkBox(faces, lower, upper); err != nil {
		return
	}
	vertices = boxVertices(dim, faces, lower, upper)
	nx := [3]int{1, 1, 1}
	for d := 0; d < dim; d++ {
		nx[d] = faces[d]
	}
	vid := func(i, j, k int) int {
		return i + (nx[0]+1)*(j+(nx[1]+1)*k)
	}
	add := func(et ElementType, verts ...int) {
		etov = append(etov, verts)
		types = append(types, et)
	}
	switch dim {
	case 1:
		for i := 0; i < nx[0]; i++ {
			add(Line, i, i+1)
		}
	case 2:
		for j := 0; j < nx[1]; j++ {
			for i := 0; i < nx[0]; i++ {
				v00, v10, v11, v01 := vid(i, j, 0), vid(i+1, j, 0), vid(i+1, j+1, 0), vid(i, j+1, 0)
				if simplex {
					add(Triangle, v00, v10, v11)
					add(Triangle, v00, v11, v01)
				} else {
					add(Quad, v00, v10, v11, v01)
				}
			}
		}
	case 3:
		for k := 0; k < nx[2]; k++ {
			for j := 0; j < nx[1]; j++ {
				for i := 0; i < nx[0]; i++ {
					if !simplex {
						add(Hex,
							vid(i, j, k), vid(i+1, j, k), vid(i+1, j+1, k), vid(i, j+1, k),
							vid(i, j, k+1), vid(i+1, j, k+1), vid(i+1, j+1, k+1), vid(i, j+1, k+1))
						continue
					}
					for _, path := range kuhnPaths {
						corner := [3]int{i, j, k}
						tet := []int{vid(corner[0], corner[1], corner[2])}
						for _, axis := range path {
							corner[axis]++
							tet = append(tet, vid(corner[0], corner[1], corner[2]))
						}
						add(Tet, tet...)
					}
				}
			}
		}
	}
	return NewMesh(dim, vertices, etov, types)
}

// NewDelaunayBoxMesh builds a 2D box from the Delaunay triangulation of the structured box vertices
func NewDelaunayBoxMesh(name string, fieldDescriptors []FieldDescriptor, modifiers []Modifier,
	faces []int, lower, upper []float64) (dm *Domain, err error) {
	var (
		dim  int
		tm   *geometry2D.TriMesh
		mesh *Mesh
	)
	if dim, err = checkBox(faces, lower, upper); err != nil {
		return nil, fmt.Errorf("delaunay box mesh %s: %w", name, err)
	}
	if dim != 2 {
		return nil, fmt.Errorf("delaunay box mesh %s: must be 2D, have %dD", name, dim)
	}
	vertices := boxVertices(dim, faces, lower, upper)
	X, Y := make([]float64, len(vertices)), make([]float64, len(vertices))
	for i, v := range vertices {
		X[i], Y[i] = v[0], v[1]
	}
	if tm, err = geometry2D.Delaunay(X, Y); err != nil {
		return nil, fmt.Errorf("delaunay box mesh %s: %w", name, err)
	}
	etov := make([][]int, len(tm.TriVerts))
	types := make([]ElementType, len(tm.TriVerts))
	for k, tri := range tm.TriVerts {
		etov[k] = []int{tri[0], tri[1], tri[2]}
		types[k] = Triangle
	}
	if mesh, err = NewMesh(dim, vertices, etov, types); err != nil {
		return nil, fmt.Errorf("delaunay box mesh %s: %w", name, err)
	}
	return NewDomain(name, mesh, fieldDescriptors, modifiers)
}
