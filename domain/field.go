package domain

import (
	"fmt"
	"strings"
)

type FieldLocation uint8

const (
	SOL FieldLocation = iota // Solution variables, advanced by solvers
	AUX                      // Auxiliary variables, derived from the solution
)

func (fl FieldLocation) String() string {
	switch fl {
	case SOL:
		return "SOL"
	case AUX:
		return "AUX"
	}
	return fmt.Sprintf("FieldLocation(%d)", uint8(fl))
}

func NewFieldLocation(label string) (fl FieldLocation, err error) {
	switch strings.ToUpper(strings.TrimSpace(label)) {
	case "SOL", "":
		fl = SOL
	case "AUX":
		fl = AUX
	default:
		err = fmt.Errorf("unknown field location %q", label)
	}
	return
}

type FieldType uint8

const (
	FVM FieldType = iota // One value per cell
)

func (ft FieldType) String() string {
	if ft == FVM {
		return "FVM"
	}
	return fmt.Sprintf("FieldType(%d)", uint8(ft))
}

const (
	// Dimension is replaced by one component per spatial direction
	Dimension = "_DIMENSION_"
)

var (
	// OneComponent is the component list of a scalar field
	OneComponent = []string{"_"}
	dimSuffixes  = [3]string{"X", "Y", "Z"}
)

// FieldDescriptor is anything that declares fields on a domain
type FieldDescriptor interface {
	GetFields() []*FieldDescription
}

type FieldDescription struct {
	Name       string
	Prefix     string
	Components []string
	Location   FieldLocation
	Type       FieldType
	Region     *Region // nil for the entire domain
}

func NewFieldDescription(name, prefix string, components []string, location FieldLocation, fieldType FieldType, region *Region) *FieldDescription {
	return &FieldDescription{
		Name:       name,
		Prefix:     prefix,
		Components: components,
		Location:   location,
		Type:       fieldType,
		Region:     region,
	}
}

func (fd *FieldDescription) GetFields() []*FieldDescription { return []*FieldDescription{fd} }

// DecompressComponents expands Dimension placeholders into dim components
func (fd *FieldDescription) DecompressComponents(dim int) (components []string) {
	if len(fd.Components) == 0 {
		return OneComponent
	}
	for _, comp := range fd.Components {
		if strings.HasSuffix(comp, Dimension) {
			base := strings.TrimSuffix(comp, Dimension)
			for d := 0; d < dim; d++ {
				components = append(components, base+dimSuffixes[d])
			}
			continue
		}
		components = append(components, comp)
	}
	return
}

// Field is a field laid out in a discrete system
type Field struct {
	Name          string
	Prefix        string
	Components    []string
	NumComponents int
	Location      FieldLocation
	Type          FieldType
	Region        *Region
	ID            int // Position within its location
	Offset        int // Offset of the first component within a cell's values
}

// DiscreteSystem packs every field of one location into a contiguous block per cell
type DiscreteSystem struct {
	Location FieldLocation
	Fields   []*Field
	TotalDim int
}

func newDiscreteSystem(location FieldLocation) *DiscreteSystem {
	return &DiscreteSystem{Location: location}
}

func (ds *DiscreteSystem) addField(fd *FieldDescription, dim int) (f *Field, err error) {
	if fd.Name == "" {
		err = fmt.Errorf("field name can not be empty")
		return
	}
	if _, exists := ds.GetField(fd.Name); exists {
		err = fmt.Errorf("field %s is defined more than once in %s", fd.Name, ds.Location)
		return
	}
	if fd.Type != FVM {
		err = fmt.Errorf("field %s: unsupported field type %s", fd.Name, fd.Type)
		return
	}
	components := fd.DecompressComponents(dim)
	f = &Field{
		Name:          fd.Name,
		Prefix:        fd.Prefix,
		Components:    components,
		NumComponents: len(components),
		Location:      fd.Location,
		Type:          fd.Type,
		Region:        fd.Region,
		ID:            len(ds.Fields),
		Offset:        ds.TotalDim,
	}
	ds.Fields = append(ds.Fields, f)
	ds.TotalDim += f.NumComponents
	return
}

func (ds *DiscreteSystem) GetField(name string) (f *Field, ok bool) {
	for _, f = range ds.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return nil, false
}

// FieldOffset returns the offset of the field with the given ID
func (ds *DiscreteSystem) FieldOffset(id int) int { return ds.Fields[id].Offset }

// Offsets returns the offsets of all fields in ID order
func (ds *DiscreteSystem) Offsets() (offsets []int) {
	offsets = make([]int, len(ds.Fields))
	for i, f := range ds.Fields {
		offsets[i] = f.Offset
	}
	return
}
