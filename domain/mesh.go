package domain

import (
	"fmt"
	"sort"
)

// ElementType represents different element types
type ElementType int

const (
	Line ElementType = iota
	Triangle
	Quad
	Tet
	Hex
)

func (e ElementType) String() string {
	return [...]string{"Line", "Triangle", "Quad", "Tet", "Hex"}[e]
}

// Dimension is the topological dimension of the element
func (e ElementType) Dimension() int {
	return [...]int{1, 2, 2, 3, 3}[e]
}

// Face represents a face of an element, a point in 1D, an edge in 2D
type Face struct {
	Vertices []int // Sorted vertex indices
	Element  int   // Owner element, the first element seen with this face
	LocalID  int   // Local face ID within the owner
	Neighbor int   // Neighbor element, -1 on the domain boundary
}

// IsBoundary returns true for faces on the outside of the mesh
func (f Face) IsBoundary() bool { return f.Neighbor < 0 }

// Mesh represents a complete unstructured mesh with all connectivity
type Mesh struct {
	Dim int

	// Geometry
	Vertices [][]float64 // Vertex coordinates [nvertices][Dim]

	// Element data
	EtoV         [][]int       // Element to vertex connectivity [nelems][nverts_per_elem]
	ElementTypes []ElementType // Element type for each element

	// Connectivity (built during initialization)
	EToE [][]int // Element to element connectivity [nelems][nfaces_per_elem]
	EToF [][]int // Element to face connectivity [nelems][nfaces_per_elem]
	EToP []int   // Element to partition mapping (set after partitioning)
	VToE [][]int // Vertex to element connectivity, sorted

	// Face data
	Faces   []Face         // All unique faces in mesh
	FaceMap map[string]int // Map from sorted vertex string to face ID

	// Geometry, computed once connectivity is built
	CellGeometry []CellGeom
	FaceGeometry []FaceGeom

	// Mesh statistics
	NumElements int
	NumVertices int
	NumFaces    int
}

// NewMesh builds connectivity and geometry for the given elements
func NewMesh(dim int, vertices [][]float64, etov [][]int, elementTypes []ElementType) (m *Mesh, err error) {
	if len(etov) != len(elementTypes) {
		err = fmt.Errorf("have %d elements and %d element types", len(etov), len(elementTypes))
		return
	}
	for k, et := range elementTypes {
		if et.Dimension() != dim {
			err = fmt.Errorf("element %d is a %s, which is not %dD", k, et, dim)
			return
		}
	}
	m = &Mesh{
		Dim:          dim,
		Vertices:     vertices,
		EtoV:         etov,
		ElementTypes: elementTypes,
		FaceMap:      make(map[string]int),
		NumElements:  len(etov),
		NumVertices:  len(vertices),
		EToP:         make([]int, len(etov)),
	}
	m.BuildConnectivity()
	m.buildVertexConnectivity()
	m.ComputeGeometry()
	return
}

// BuildConnectivity builds element-to-element and face connectivity
func (m *Mesh) BuildConnectivity() {
	m.EToE = make([][]int, m.NumElements)
	m.EToF = make([][]int, m.NumElements)
	m.Faces = m.Faces[:0]
	m.FaceMap = make(map[string]int)

	for elemID := 0; elemID < m.NumElements; elemID++ {
		faceVertices := GetElementFaces(m.ElementTypes[elemID], m.EtoV[elemID])

		m.EToE[elemID] = make([]int, len(faceVertices))
		m.EToF[elemID] = make([]int, len(faceVertices))

		for localFaceID, faceVerts := range faceVertices {
			m.EToE[elemID][localFaceID] = -1

			sorted := make([]int, len(faceVerts))
			copy(sorted, faceVerts)
			sort.Ints(sorted)
			key := fmt.Sprintf("%v", sorted)

			if faceID, exists := m.FaceMap[key]; exists {
				// Face already exists - this is an interior face
				face := &m.Faces[faceID]
				neighborElem := face.Element
				face.Neighbor = elemID

				m.EToE[elemID][localFaceID] = neighborElem
				m.EToE[neighborElem][face.LocalID] = elemID
				m.EToF[elemID][localFaceID] = faceID
			} else {
				faceID := len(m.Faces)
				m.Faces = append(m.Faces, Face{
					Vertices: sorted,
					Element:  elemID,
					LocalID:  localFaceID,
					Neighbor: -1,
				})
				m.FaceMap[key] = faceID
				m.EToF[elemID][localFaceID] = faceID
			}
		}
	}
	m.NumFaces = len(m.Faces)
}

func (m *Mesh) buildVertexConnectivity() {
	m.VToE = make([][]int, m.NumVertices)
	for k, verts := range m.EtoV {
		for _, v := range verts {
			m.VToE[v] = append(m.VToE[v], k)
		}
	}
}

// GetElementFaces returns the face vertices for each element type
func GetElementFaces(elemType ElementType, vertices []int) [][]int {
	switch elemType {
	case Line:
		return [][]int{
			{vertices[0]},
			{vertices[1]},
		}
	case Triangle:
		return [][]int{
			{vertices[0], vertices[1]},
			{vertices[1], vertices[2]},
			{vertices[2], vertices[0]},
		}
	case Quad:
		return [][]int{
			{vertices[0], vertices[1]},
			{vertices[1], vertices[2]},
			{vertices[2], vertices[3]},
			{vertices[3], vertices[0]},
		}
	case Tet:
		return [][]int{
			{vertices[0], vertices[2], vertices[1]}, // Face 0
			{vertices[0], vertices[1], vertices[3]}, // Face 1
			{vertices[1], vertices[2], vertices[3]}, // Face 2
			{vertices[0], vertices[3], vertices[2]}, // Face 3
		}
	case Hex:
		return [][]int{
			{vertices[0], vertices[3], vertices[2], vertices[1]}, // Face 0 (bottom)
			{vertices[4], vertices[5], vertices[6], vertices[7]}, // Face 1 (top)
			{vertices[0], vertices[1], vertices[5], vertices[4]}, // Face 2
			{vertices[1], vertices[2], vertices[6], vertices[5]}, // Face 3
			{vertices[2], vertices[3], vertices[7], vertices[6]}, // Face 4
			{vertices[3], vertices[0], vertices[4], vertices[7]}, // Face 5
		}
	default:
		return [][]int{}
	}
}

// VertexNeighbors returns the elements sharing at least one vertex with elem, excluding elem
func (m *Mesh) VertexNeighbors(elem int) (neighbors []int) {
	seen := map[int]bool{elem: true}
	for _, v := range m.EtoV[elem] {
		for _, k := range m.VToE[v] {
			if !seen[k] {
				seen[k] = true
				neighbors = append(neighbors, k)
			}
		}
	}
	sort.Ints(neighbors)
	return
}

// FaceNeighbor returns the element on the other side of face from elem, -1 on the boundary
func (m *Mesh) FaceNeighbor(face, elem int) int {
	f := m.Faces[face]
	if f.Element == elem {
		return f.Neighbor
	}
	return f.Element
}

// PrintStatistics prints mesh statistics
func (m *Mesh) PrintStatistics() {
	fmt.Printf("Mesh Statistics:\n")
	fmt.Printf("  Dimension: %d\n", m.Dim)
	fmt.Printf("  Vertices: %d\n", m.NumVertices)
	fmt.Printf("  Elements: %d\n", m.NumElements)
	fmt.Printf("  Faces: %d\n", m.NumFaces)

	typeCounts := make(map[ElementType]int)
	for _, t := range m.ElementTypes {
		typeCounts[t]++
	}
	fmt.Printf("  Element types:\n")
	for t, count := range typeCounts {
		fmt.Printf("    %s: %d\n", t, count)
	}

	boundaryFaces := 0
	for _, f := range m.Faces {
		if f.IsBoundary() {
			boundaryFaces++
		}
	}
	fmt.Printf("  Boundary faces: %d\n", boundaryFaces)
}
