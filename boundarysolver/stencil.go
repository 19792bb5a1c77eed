package boundarysolver

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/salam-lobad/ablate/domain"
	"github.com/salam-lobad/ablate/utils"
)

// BoundaryFVFaceGeom is the geometry of a boundary face, the normal points out of the enclosed region
type BoundaryFVFaceGeom struct {
	Centroid [3]float64
	Normal   [3]float64
	Area     float64
}

// GradientStencil is everything needed to evaluate gradients at one boundary face
type GradientStencil struct {
	Cell                int   // The boundary cell
	Faces               []int // Mesh faces merged into Geometry
	Geometry            BoundaryFVFaceGeom
	Anchor              [3]float64 // Where the boundary cell value is sampled, stencil offsets are measured from here
	Stencil             []int
	GradientWeights     []float64 // len(Stencil)*dim
	DistributionWeights []float64 // Sum to one
	Volumes             []float64
}

func (gs *GradientStencil) Size() int { return len(gs.Stencil) }

// Above this the normal equations are treated as singular and the stencil grows
const maxConditionNumber = 1.e10

/*
mergeFaceGeometry combines the faces of one boundary cell. Normals are turned
to point from the inside cells into the boundary cell. The merged normal is the
sum of the area weighted normals, the centroid is area weighted.
*/
func mergeFaceGeometry(m *domain.Mesh, cell int, faces []int) (fg BoundaryFVFaceGeom, err error) {
	var (
		areaVec   [3]float64
		totalArea float64
	)
	for _, f := range faces {
		geom := m.FaceGeometry[f]
		// OutwardNormal points out of cell, flip it to point into the boundary cell
		n := m.OutwardNormal(f, cell)
		for d := 0; d < 3; d++ {
			areaVec[d] -= geom.Area * n[d]
			fg.Centroid[d] += geom.Area * geom.Centroid[d]
		}
		totalArea += geom.Area
	}
	fg.Area = utils.MagVector(3, areaVec[:])
	if fg.Area < utils.NODETOL*totalArea {
		err = fmt.Errorf("faces %v of cell %d have normals that cancel", faces, cell)
		return
	}
	for d := 0; d < 3; d++ {
		fg.Normal[d] = areaVec[d] / fg.Area
		fg.Centroid[d] /= totalArea
	}
	return
}

func faceGeometry(m *domain.Mesh, cell, face int) (fg BoundaryFVFaceGeom) {
	geom := m.FaceGeometry[face]
	n := m.OutwardNormal(face, cell)
	fg.Centroid = geom.Centroid
	fg.Area = geom.Area
	for d := 0; d < 3; d++ {
		fg.Normal[d] = -n[d]
	}
	return
}

type stencilBuilder struct {
	sd            *domain.SubDomain
	mesh          *domain.Mesh
	dim           int
	admissible    utils.IndexSet // Cells that can appear in a stencil
	stencilRadius float64        // Zero for no limit
	maxLevels     int
}

/*
build collects stencil cells in rings of vertex neighbors around the boundary
cell, adding rings until the weighted least squares problem is well posed.
A boundary cell holds one value per field, so every stencil of the cell shares
the anchor where that value is sampled.
*/
func (sb *stencilBuilder) build(cell int, fg BoundaryFVFaceGeom, anchor [3]float64) (gs GradientStencil, err error) {
	var (
		visited = map[int]bool{cell: true}
		ring    = []int{cell}
		ok      bool
	)
	gs.Cell = cell
	gs.Geometry = fg
	gs.Anchor = anchor
	for level := 1; level <= sb.maxLevels; level++ {
		var next []int
		for _, c := range ring {
			for _, nb := range sb.mesh.VertexNeighbors(c) {
				if !visited[nb] {
					visited[nb] = true
					next = append(next, nb)
				}
			}
		}
		ring = next
		for _, c := range ring {
			if !sb.admissible.Contains(c) {
				continue
			}
			cg := sb.mesh.CellGeometry[c]
			if sb.stencilRadius > 0 && utils.Distance(sb.dim, cg.Centroid[:], fg.Centroid[:]) >= sb.stencilRadius {
				continue
			}
			gs.Stencil = append(gs.Stencil, c)
		}
		if ok = sb.computeWeights(&gs); ok {
			break
		}
	}
	if !ok {
		err = fmt.Errorf("no well conditioned stencil for boundary cell %d within %d levels, %d candidates",
			cell, sb.maxLevels, len(gs.Stencil))
	}
	return
}

/*
computeWeights solves the weighted normal equations (Dx^T W Dx) g = Dx^T W du
for the operator mapping stencil differences to the gradient. Dx holds the
offsets of the stencil centroids from the anchor, W = 1/|dx|^2.
*/
func (sb *stencilBuilder) computeWeights(gs *GradientStencil) (ok bool) {
	var (
		dim    = sb.dim
		n      = len(gs.Stencil)
		normal = mat.NewSymDense(dim, nil)
		rhs    = mat.NewDense(dim, max(n, 1), nil)
		omega  = make([]float64, n)
		chol   mat.Cholesky
	)
	if n < dim {
		return false
	}
	for i, c := range gs.Stencil {
		cg := sb.mesh.CellGeometry[c]
		dx := make([]float64, dim)
		for d := 0; d < dim; d++ {
			dx[d] = cg.Centroid[d] - gs.Anchor[d]
		}
		dist2 := utils.DotVector(dim, dx, dx)
		if dist2 < utils.CENTROIDTOL*utils.CENTROIDTOL {
			return false
		}
		omega[i] = 1. / dist2
		for r := 0; r < dim; r++ {
			for col := r; col < dim; col++ {
				normal.SetSym(r, col, normal.At(r, col)+omega[i]*dx[r]*dx[col])
			}
			rhs.Set(r, i, omega[i]*dx[r])
		}
	}
	if !chol.Factorize(normal) || chol.Cond() > maxConditionNumber {
		return false
	}
	var W mat.Dense
	if err := chol.SolveTo(&W, rhs); err != nil {
		return false
	}
	gs.GradientWeights = make([]float64, n*dim)
	gs.DistributionWeights = make([]float64, n)
	gs.Volumes = make([]float64, n)
	var omegaSum float64
	for _, w := range omega {
		omegaSum += w
	}
	for i, c := range gs.Stencil {
		for d := 0; d < dim; d++ {
			gs.GradientWeights[i*dim+d] = W.At(d, i)
		}
		gs.DistributionWeights[i] = omega[i] / omegaSum
		gs.Volumes[i] = sb.mesh.CellGeometry[c].Volume
		if math.IsNaN(gs.GradientWeights[i*dim]) {
			return false
		}
	}
	return true
}
