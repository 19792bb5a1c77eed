package domain

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// gmshElementTypes maps the linear Gmsh 2.2 element types to ours
var gmshElementTypes = map[int]ElementType{
	1: Line,
	2: Triangle,
	3: Quad,
	4: Tet,
	5: Hex,
}

var gmshNodeCounts = map[ElementType]int{Line: 2, Triangle: 3, Quad: 4, Tet: 4, Hex: 8}

// NewGmshMesh reads an ASCII Gmsh 2.2 file, then creates the domain
func NewGmshMesh(name string, fieldDescriptors []FieldDescriptor, modifiers []Modifier,
	fileName string) (dm *Domain, err error) {
	var (
		file *os.File
		mesh *Mesh
	)
	if file, err = os.Open(fileName); err != nil {
		return
	}
	defer file.Close()
	if mesh, err = ReadGmsh22(file); err != nil {
		return nil, fmt.Errorf("%s: %w", fileName, err)
	}
	return NewDomain(name, mesh, fieldDescriptors, modifiers)
}

type gmshElement struct {
	elemType ElementType
	nodes    []int
}

/*
ReadGmsh22 reads the nodes and elements of an ASCII Gmsh 2.2 mesh. The mesh
dimension is that of the highest dimension element present, lower dimension
elements such as tagged boundary lines are dropped. Node IDs are renumbered in
file order.
*/
func ReadGmsh22(r io.Reader) (m *Mesh, err error) {
	var (
		scanner  = bufio.NewScanner(r)
		nodeIDs  = make(map[int]int)
		vertices [][]float64
		elements []gmshElement
		dim      int
	)
	const maxScanTokenSize = 1024 * 1024 * 10
	scanner.Buffer(make([]byte, 64*1024), maxScanTokenSize)

	for scanner.Scan() {
		switch strings.TrimSpace(scanner.Text()) {
		case "$MeshFormat":
			if !scanner.Scan() {
				return nil, fmt.Errorf("unexpected EOF in MeshFormat")
			}
			parts := strings.Fields(scanner.Text())
			if len(parts) < 3 {
				return nil, fmt.Errorf("invalid MeshFormat line %q", scanner.Text())
			}
			if !strings.HasPrefix(parts[0], "2") {
				return nil, fmt.Errorf("unsupported Gmsh version: %s", parts[0])
			}
			if parts[1] != "0" {
				return nil, fmt.Errorf("binary Gmsh files are not supported")
			}
		case "$Nodes":
			if vertices, err = readGmshNodes(scanner, nodeIDs); err != nil {
				return
			}
		case "$Elements":
			if elements, err = readGmshElements(scanner); err != nil {
				return
			}
		}
	}
	if err = scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanner error: %w", err)
	}
	for _, el := range elements {
		if d := el.elemType.Dimension(); d > dim {
			dim = d
		}
	}
	if dim == 0 {
		return nil, fmt.Errorf("no line, surface or volume elements found")
	}
	var (
		etov  [][]int
		types []ElementType
	)
	for _, el := range elements {
		if el.elemType.Dimension() != dim {
			continue
		}
		verts := make([]int, len(el.nodes))
		for i, id := range el.nodes {
			v, ok := nodeIDs[id]
			if !ok {
				return nil, fmt.Errorf("element references unknown node %d", id)
			}
			verts[i] = v
		}
		etov = append(etov, verts)
		types = append(types, el.elemType)
	}
	// Gmsh writes three coordinates for every node
	for i := range vertices {
		vertices[i] = vertices[i][:dim]
	}
	return NewMesh(dim, vertices, etov, types)
}

func readGmshNodes(scanner *bufio.Scanner, nodeIDs map[int]int) (vertices [][]float64, err error) {
	if !scanner.Scan() {
		return nil, fmt.Errorf("unexpected EOF in Nodes")
	}
	numNodes, err := strconv.Atoi(strings.TrimSpace(scanner.Text()))
	if err != nil {
		return nil, fmt.Errorf("invalid number of nodes: %w", err)
	}
	vertices = make([][]float64, 0, numNodes)
	for i := 0; i < numNodes; i++ {
		if !scanner.Scan() {
			return nil, fmt.Errorf("unexpected EOF in Nodes at node %d", i)
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) < 4 {
			return nil, fmt.Errorf("invalid node entry at line %d", i+1)
		}
		nodeID, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, fmt.Errorf("invalid node ID: %w", err)
		}
		coords := make([]float64, 3)
		for j := 0; j < 3; j++ {
			if coords[j], err = strconv.ParseFloat(fields[j+1], 64); err != nil {
				return nil, fmt.Errorf("invalid coordinate: %w", err)
			}
		}
		nodeIDs[nodeID] = len(vertices)
		vertices = append(vertices, coords)
	}
	return vertices, skipGmshSection(scanner, "$EndNodes")
}

func readGmshElements(scanner *bufio.Scanner) (elements []gmshElement, err error) {
	if !scanner.Scan() {
		return nil, fmt.Errorf("unexpected EOF in Elements")
	}
	numElems, err := strconv.Atoi(strings.TrimSpace(scanner.Text()))
	if err != nil {
		return nil, fmt.Errorf("invalid number of elements: %w", err)
	}
	for i := 0; i < numElems; i++ {
		if !scanner.Scan() {
			return nil, fmt.Errorf("unexpected EOF in Elements at element %d", i)
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) < 3 {
			return nil, fmt.Errorf("invalid element entry at line %d", i+1)
		}
		gmshType, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, fmt.Errorf("invalid element type: %w", err)
		}
		numTags, err := strconv.Atoi(fields[2])
		if err != nil {
			return nil, fmt.Errorf("invalid number of tags: %w", err)
		}
		elemType, ok := gmshElementTypes[gmshType]
		if !ok {
			// Points and higher order elements
			continue
		}
		var (
			start = 3 + numTags
			nn    = gmshNodeCounts[elemType]
		)
		if len(fields)-start != nn {
			return nil, fmt.Errorf("element type %v expects %d nodes, got %d", elemType, nn, len(fields)-start)
		}
		nodes := make([]int, nn)
		for j := range nodes {
			if nodes[j], err = strconv.Atoi(fields[start+j]); err != nil {
				return nil, fmt.Errorf("invalid node ID: %w", err)
			}
		}
		elements = append(elements, gmshElement{elemType: elemType, nodes: nodes})
	}
	return elements, skipGmshSection(scanner, "$EndElements")
}

func skipGmshSection(scanner *bufio.Scanner, end string) error {
	for scanner.Scan() {
		if strings.TrimSpace(scanner.Text()) == end {
			return nil
		}
	}
	return fmt.Errorf("missing %s", end)
}
