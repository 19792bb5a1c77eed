package InputParameters

import (
	"fmt"

	"github.com/ghodss/yaml"
)

type FieldParameters struct {
	Name       string `yaml:"Name"`
	Expression string `yaml:"Expression"`
}

// RegionParameters describes the inside region, a sphere or an axis aligned box
type RegionParameters struct {
	Type   string    `yaml:"Type"`
	Center []float64 `yaml:"Center"`
	Radius float64   `yaml:"Radius"`
	Lower  []float64 `yaml:"Lower"`
	Upper  []float64 `yaml:"Upper"`
}

// Parameters obtained from the YAML input file
type BoundaryGradientParameters struct {
	Title             string            `yaml:"Title"`
	MeshFile          string            `yaml:"MeshFile"` // Gmsh 2.2 ASCII, replaces the box mesh
	Faces             []int             `yaml:"Faces"` // Cells per direction, its length sets the dimension
	Lower             []float64         `yaml:"Lower"`
	Upper             []float64         `yaml:"Upper"`
	Simplex           bool              `yaml:"Simplex"`
	Delaunay          bool              `yaml:"Delaunay"`
	Region            RegionParameters  `yaml:"Region"`
	Partitions        int               `yaml:"Partitions"`
	Partitioner       string            `yaml:"Partitioner"`
	MergeFaces        bool              `yaml:"MergeFaces"`
	SourceType        string            `yaml:"SourceType"`
	StencilRadius     float64           `yaml:"StencilRadius"`
	MaxStencilLevels  int               `yaml:"MaxStencilLevels"`
	Fields            []FieldParameters `yaml:"Fields"`
	AuxFields         []FieldParameters `yaml:"AuxFields"`
	ExpectedGradients []FieldParameters `yaml:"ExpectedGradients"` // Keyed by input field name
	Norm              string            `yaml:"Norm"`
}

func (ip *BoundaryGradientParameters) Parse(data []byte) error {
	return yaml.Unmarshal(data, ip)
}

// Dimension of the box mesh, zero when the mesh is read from MeshFile
func (ip *BoundaryGradientParameters) Dimension() int {
	if ip.MeshFile != "" {
		return 0
	}
	return len(ip.Faces)
}

func (ip *BoundaryGradientParameters) Validate() (err error) {
	dim := ip.Dimension()
	switch {
	case ip.MeshFile != "":
		if ip.Delaunay || len(ip.Faces) > 0 {
			err = fmt.Errorf("a mesh file can not be combined with a box mesh")
		}
	case dim < 1 || dim > 3:
		err = fmt.Errorf("faces must list 1 to 3 cell counts, have %v", ip.Faces)
	case len(ip.Lower) != dim || len(ip.Upper) != dim:
		err = fmt.Errorf("lower %v and upper %v must have %d entries", ip.Lower, ip.Upper, dim)
	case ip.Delaunay && dim != 2:
		err = fmt.Errorf("delaunay meshes are only available in 2D")
	}
	if err == nil && len(ip.Fields)+len(ip.AuxFields) == 0 {
		err = fmt.Errorf("at least one field is required")
	}
	if err != nil {
		return
	}
	need := max(dim, 1)
	switch ip.Region.Type {
	case "sphere", "Sphere":
		if len(ip.Region.Center) < need || ip.Region.Radius <= 0 {
			err = fmt.Errorf("sphere region needs a %dD center and a positive radius", dim)
		}
	case "box", "Box":
		if len(ip.Region.Lower) < need || len(ip.Region.Upper) < need {
			err = fmt.Errorf("box region needs %dD lower and upper corners", dim)
		}
	default:
		err = fmt.Errorf("unknown region type %q, expected sphere or box", ip.Region.Type)
	}
	if err != nil {
		return
	}
	names := make(map[string]bool)
	for _, f := range append(append([]FieldParameters{}, ip.Fields...), ip.AuxFields...) {
		if f.Name == "" || f.Expression == "" {
			return fmt.Errorf("fields need a name and an expression, have %+v", f)
		}
		if names[f.Name] {
			return fmt.Errorf("field %s is listed more than once", f.Name)
		}
		names[f.Name] = true
	}
	for _, f := range ip.ExpectedGradients {
		if !names[f.Name] {
			return fmt.Errorf("expected gradient given for unknown field %s", f.Name)
		}
	}
	return
}

func (ip *BoundaryGradientParameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", ip.Title)
	if ip.MeshFile != "" {
		fmt.Printf("\"%s\"\t\t= Mesh File\n", ip.MeshFile)
	} else {
		fmt.Printf("%v x %v..%v\t= Box\n", ip.Faces, ip.Lower, ip.Upper)
	}
	fmt.Printf("[%v]\t\t\t= Simplex\n", ip.Simplex)
	fmt.Printf("[%v]\t\t\t= Delaunay\n", ip.Delaunay)
	fmt.Printf("[%s]\t\t\t= Region\n", ip.Region.Type)
	fmt.Printf("[%d]\t\t\t\t= Partitions\n", ip.Partitions)
	fmt.Printf("[%v]\t\t\t= Merge Faces\n", ip.MergeFaces)
	fmt.Printf("[%s]\t\t\t= Source Type\n", ip.SourceType)
	for _, f := range ip.Fields {
		fmt.Printf("Fields[%s] = %s\n", f.Name, f.Expression)
	}
	for _, f := range ip.AuxFields {
		fmt.Printf("AuxFields[%s] = %s\n", f.Name, f.Expression)
	}
	for _, f := range ip.ExpectedGradients {
		fmt.Printf("ExpectedGradients[%s] = %s\n", f.Name, f.Expression)
	}
}
