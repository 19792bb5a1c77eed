package domain

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// CellGeom is the finite volume geometry of one element
type CellGeom struct {
	Centroid [3]float64
	Volume   float64 // Length in 1D, area in 2D
}

// FaceGeom is the finite volume geometry of one face. The unit normal points
// from the face owner toward its neighbor.
type FaceGeom struct {
	Centroid [3]float64
	Normal   [3]float64
	Area     float64 // Unity in 1D, length in 2D
}

func toVec(x []float64) (v r3.Vec) {
	switch len(x) {
	case 3:
		v.Z = x[2]
		fallthrough
	case 2:
		v.Y = x[1]
		fallthrough
	case 1:
		v.X = x[0]
	}
	return
}

func toArray(v r3.Vec) [3]float64 { return [3]float64{v.X, v.Y, v.Z} }

// ComputeGeometry fills CellGeometry and FaceGeometry, requires connectivity
func (m *Mesh) ComputeGeometry() {
	m.CellGeometry = make([]CellGeom, m.NumElements)
	for k := range m.EtoV {
		m.CellGeometry[k] = m.computeCellGeometry(k)
	}
	m.FaceGeometry = make([]FaceGeom, m.NumFaces)
	for f := range m.Faces {
		m.FaceGeometry[f] = m.computeFaceGeometry(f)
	}
}

func (m *Mesh) vertexVecs(verts []int) (vecs []r3.Vec) {
	vecs = make([]r3.Vec, len(verts))
	for i, v := range verts {
		vecs[i] = toVec(m.Vertices[v])
	}
	return
}

func average(vecs []r3.Vec) (c r3.Vec) {
	for _, v := range vecs {
		c = r3.Add(c, v)
	}
	return r3.Scale(1./float64(len(vecs)), c)
}

func tetVolume(a, b, c, d r3.Vec) float64 {
	return math.Abs(r3.Dot(r3.Sub(b, a), r3.Cross(r3.Sub(c, a), r3.Sub(d, a)))) / 6.
}

func (m *Mesh) computeCellGeometry(k int) (cg CellGeom) {
	var (
		verts    = m.vertexVecs(m.EtoV[k])
		centroid r3.Vec
	)
	switch m.ElementTypes[k] {
	case Line:
		cg.Volume = r3.Norm(r3.Sub(verts[1], verts[0]))
		centroid = average(verts)
	case Triangle:
		cg.Volume = 0.5 * r3.Norm(r3.Cross(r3.Sub(verts[1], verts[0]), r3.Sub(verts[2], verts[0])))
		centroid = average(verts)
	case Quad:
		// Four triangles about the vertex average
		center := average(verts)
		for i := range verts {
			a, b := verts[i], verts[(i+1)%len(verts)]
			area := 0.5 * r3.Norm(r3.Cross(r3.Sub(a, center), r3.Sub(b, center)))
			cg.Volume += area
			centroid = r3.Add(centroid, r3.Scale(area, average([]r3.Vec{center, a, b})))
		}
		centroid = r3.Scale(1./cg.Volume, centroid)
	case Tet:
		cg.Volume = tetVolume(verts[0], verts[1], verts[2], verts[3])
		centroid = average(verts)
	case Hex:
		// Tets formed by the vertex average, a face center and each face edge
		center := average(verts)
		for _, face := range GetElementFaces(Hex, m.EtoV[k]) {
			fv := m.vertexVecs(face)
			fc := average(fv)
			for i := range fv {
				a, b := fv[i], fv[(i+1)%len(fv)]
				vol := tetVolume(center, fc, a, b)
				cg.Volume += vol
				centroid = r3.Add(centroid, r3.Scale(vol, average([]r3.Vec{center, fc, a, b})))
			}
		}
		centroid = r3.Scale(1./cg.Volume, centroid)
	}
	cg.Centroid = toArray(centroid)
	return
}

func (m *Mesh) computeFaceGeometry(f int) (fg FaceGeom) {
	var (
		face     = m.Faces[f]
		verts    = m.vertexVecs(face.Vertices)
		centroid r3.Vec
		areaVec  r3.Vec
	)
	switch len(verts) {
	case 1:
		centroid = verts[0]
		areaVec = r3.Vec{X: 1}
	case 2:
		centroid = average(verts)
		t := r3.Sub(verts[1], verts[0])
		areaVec = r3.Vec{X: t.Y, Y: -t.X}
	case 3:
		centroid = average(verts)
		areaVec = r3.Scale(0.5, r3.Cross(r3.Sub(verts[1], verts[0]), r3.Sub(verts[2], verts[0])))
	case 4:
		// The sorted vertex list is not in cyclic order, use the owner's face ordering
		ordered := m.vertexVecs(GetElementFaces(m.ElementTypes[face.Element], m.EtoV[face.Element])[face.LocalID])
		fc := average(ordered)
		var totalArea float64
		for i := range ordered {
			a, b := ordered[i], ordered[(i+1)%len(ordered)]
			av := r3.Scale(0.5, r3.Cross(r3.Sub(a, fc), r3.Sub(b, fc)))
			areaVec = r3.Add(areaVec, av)
			area := r3.Norm(av)
			totalArea += area
			centroid = r3.Add(centroid, r3.Scale(area, average([]r3.Vec{fc, a, b})))
		}
		centroid = r3.Scale(1./totalArea, centroid)
	}
	fg.Area = r3.Norm(areaVec)
	normal := r3.Scale(1./fg.Area, areaVec)
	ownerCentroid := toVec(m.CellGeometry[face.Element].Centroid[:])
	if r3.Dot(normal, r3.Sub(centroid, ownerCentroid)) < 0 {
		normal = r3.Scale(-1, normal)
	}
	fg.Centroid = toArray(centroid)
	fg.Normal = toArray(normal)
	return
}

// OutwardNormal returns the face normal oriented away from elem
func (m *Mesh) OutwardNormal(face, elem int) (n [3]float64) {
	n = m.FaceGeometry[face].Normal
	if m.Faces[face].Element != elem {
		for d := range n {
			n[d] = -n[d]
		}
	}
	return
}
