package cmd

import (
	"image/color"
	"math"

	"github.com/notargets/avs/chart2d"
	utils2 "github.com/notargets/avs/utils"

	"github.com/salam-lobad/ablate/boundarysolver"
	"github.com/salam-lobad/ablate/domain"
)

func AddLine(x1, y1, x2, y2 float64, col color.RGBA, lines map[color.RGBA][]float32) {
	lines[col] = append(lines[col],
		float32(x1), float32(y1),
		float32(x2), float32(y2),
	)
}

// BoundaryLines draws a 2D mesh in white, the boundary faces in red and their normals in green
func BoundaryLines(dm *domain.Domain, bs *boundarysolver.BoundarySolver) (lines map[color.RGBA][]float32) {
	var (
		m       = dm.Mesh
		onFace  = make(map[int]bool)
		stencil = bs.GetStencils()
		length  float64
	)
	lines = make(map[color.RGBA][]float32)
	for _, gs := range stencil {
		for _, f := range gs.Faces {
			onFace[f] = true
			length += dm.GetFaceGeometry(f).Area
		}
	}
	for f, face := range m.Faces {
		if len(face.Vertices) != 2 {
			continue
		}
		a, b := m.Vertices[face.Vertices[0]], m.Vertices[face.Vertices[1]]
		col := utils2.WHITE
		if onFace[f] {
			col = utils2.RED
		}
		AddLine(a[0], a[1], b[0], b[1], col, lines)
	}
	if len(onFace) == 0 {
		return
	}
	length /= float64(len(onFace))
	for _, gs := range stencil {
		c, n := gs.Geometry.Centroid, gs.Geometry.Normal
		AddLine(c[0], c[1], c[0]+length*n[0], c[1]+length*n[1], utils2.GREEN, lines)
	}
	return
}

func PlotBoundary(dm *domain.Domain, bs *boundarysolver.BoundarySolver) {
	var (
		lines      = BoundaryLines(dm, bs)
		xMin, xMax = float32(math.MaxFloat32), -float32(math.MaxFloat32)
		yMin, yMax = float32(math.MaxFloat32), -float32(math.MaxFloat32)
	)
	for _, line := range lines {
		xMin, xMax, yMin, yMax = getMinMax(line, xMin, xMax, yMin, yMax)
	}
	ch := chart2d.NewChart2D(xMin, xMax, yMin, yMax,
		1024, 1024, utils2.WHITE, utils2.BLACK)
	for col, line := range lines {
		ch.AddLine(line, col)
	}
	select {}
}

func getMinMax(XY []float32, xi, xa, yi, ya float32) (xMin, xMax, yMin, yMax float32) {
	var (
		x, y  float32
		lenXY = len(XY) / 2
	)
	xMin, xMax, yMin, yMax = xi, xa, yi, ya
	for i := 0; i < lenXY; i++ {
		x, y = XY[i*2+0], XY[i*2+1]
		if x < xMin {
			xMin = x
		}
		if x > xMax {
			xMax = x
		}
		if y < yMin {
			yMin = y
		}
		if y > yMax {
			yMax = y
		}
	}
	return
}
