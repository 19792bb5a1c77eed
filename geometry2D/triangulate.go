package geometry2D

import (
	"fmt"
	"math"

	"github.com/notargets/avs/geometry"
	"github.com/pradeep-pyro/triangle"
)

// TriMesh is a triangulation of a 2D point set, triangles are counter-clockwise
type TriMesh struct {
	X, Y     []float64
	TriVerts [][3]int
}

// Delaunay triangulates the points, dropping any zero area triangles
func Delaunay(X, Y []float64) (tm *TriMesh, err error) {
	if len(X) != len(Y) {
		err = fmt.Errorf("coordinate lengths differ: %d and %d", len(X), len(Y))
		return
	}
	if len(X) < 3 {
		err = fmt.Errorf("need at least 3 points to triangulate, have %d", len(X))
		return
	}
	pts := make([][2]float64, len(X))
	for i := range X {
		pts[i] = [2]float64{X[i], Y[i]}
	}
	tm = &TriMesh{X: X, Y: Y}
	for _, tri := range triangle.Delaunay(pts) {
		verts := [3]int{int(tri[0]), int(tri[1]), int(tri[2])}
		area := tm.SignedArea(verts)
		if math.Abs(area) < 1.e-14*tm.scale() {
			continue
		}
		if area < 0 {
			verts[1], verts[2] = verts[2], verts[1]
		}
		tm.TriVerts = append(tm.TriVerts, verts)
	}
	if len(tm.TriVerts) == 0 {
		err = fmt.Errorf("points are collinear, no triangles")
	}
	return
}

func (tm *TriMesh) scale() float64 {
	var xMin, xMax, yMin, yMax = tm.X[0], tm.X[0], tm.Y[0], tm.Y[0]
	for i := range tm.X {
		xMin, xMax = math.Min(xMin, tm.X[i]), math.Max(xMax, tm.X[i])
		yMin, yMax = math.Min(yMin, tm.Y[i]), math.Max(yMax, tm.Y[i])
	}
	return (xMax - xMin) * (yMax - yMin)
}

// SignedArea is positive for counter-clockwise vertices
func (tm *TriMesh) SignedArea(verts [3]int) float64 {
	var (
		ax, ay = tm.X[verts[0]], tm.Y[verts[0]]
		bx, by = tm.X[verts[1]], tm.Y[verts[1]]
		cx, cy = tm.X[verts[2]], tm.Y[verts[2]]
	)
	return 0.5 * ((bx-ax)*(cy-ay) - (cx-ax)*(by-ay))
}

// ToAVS converts the triangulation for plotting
func (tm *TriMesh) ToAVS() (gm geometry.TriMesh) {
	gm = geometry.TriMesh{
		XY:       make([]float32, 2*len(tm.X)),
		TriVerts: make([][3]int64, len(tm.TriVerts)),
	}
	for i, x := range tm.X {
		gm.XY[2*i] = float32(x)
		gm.XY[2*i+1] = float32(tm.Y[i])
	}
	for k, tri := range tm.TriVerts {
		for n := 0; n < 3; n++ {
			gm.TriVerts[k][n] = int64(tri[n])
		}
	}
	return
}

func IsIllegalEdge(prX, prY, piX, piY, pjX, pjY, pkX, pkY float64) bool {
	/*
		pr is a new point for candidate triangle pi-pj-pr
		pi-pj is a shared edge between pi-pj-pk and pi-pj-pr
		if pr lies inside the circle defined by pi-pj-pk:
			- The edge pi-pj should be swapped with pr-pk to make two new triangles:
				pi-pr-pk and pj-pk-pr
	*/
	inCircle := func(ax, ay, bx, by, cx, cy, dx, dy float64) (inside bool) {
		// Calculate handedness, counter-clockwise is (positive) and clockwise is (negative)
		signBit := math.Signbit((bx-ax)*(cy-ay) - (cx-ax)*(by-ay))
		ax_ := ax - dx
		ay_ := ay - dy
		bx_ := bx - dx
		by_ := by - dy
		cx_ := cx - dx
		cy_ := cy - dy
		det := (ax_*ax_+ay_*ay_)*(bx_*cy_-cx_*by_) -
			(bx_*bx_+by_*by_)*(ax_*cy_-cx_*ay_) +
			(cx_*cx_+cy_*cy_)*(ax_*by_-bx_*ay_)
		if signBit {
			return det < 0
		} else {
			return det > 0
		}
	}
	return inCircle(piX, piY, pjX, pjY, pkX, pkY, prX, prY)
}

// IsDelaunay checks that no point lies strictly inside the circumcircle of a triangle
func (tm *TriMesh) IsDelaunay(tol float64) bool {
	for _, tri := range tm.TriVerts {
		for p := range tm.X {
			if p == tri[0] || p == tri[1] || p == tri[2] {
				continue
			}
			if tm.inCircumcircle(p, tri, tol) {
				return false
			}
		}
	}
	return true
}

func (tm *TriMesh) inCircumcircle(p int, tri [3]int, tol float64) bool {
	// Shrink test by tol to ignore cocircular points
	var (
		ax, ay = tm.X[tri[0]], tm.Y[tri[0]]
		bx, by = tm.X[tri[1]], tm.Y[tri[1]]
		cx, cy = tm.X[tri[2]], tm.Y[tri[2]]
		d      = 2 * (ax*(by-cy) + bx*(cy-ay) + cx*(ay-by))
		a2     = ax*ax + ay*ay
		b2     = bx*bx + by*by
		c2     = cx*cx + cy*cy
		ux     = (a2*(by-cy) + b2*(cy-ay) + c2*(ay-by)) / d
		uy     = (a2*(cx-bx) + b2*(ax-cx) + c2*(bx-ax)) / d
		r      = math.Hypot(ax-ux, ay-uy)
	)
	if !IsIllegalEdge(tm.X[p], tm.Y[p], ax, ay, bx, by, cx, cy) {
		return false
	}
	return math.Hypot(tm.X[p]-ux, tm.Y[p]-uy) < r-tol
}
