package domain

import (
	"fmt"
	"log"

	"github.com/salam-lobad/ablate/mathfunctions"
)

// Modifier changes a domain after its mesh is built, modifiers run in order
type Modifier interface {
	Modify(dm *Domain) error
	String() string
}

// Solver is anything that runs on the cells of one region of a domain
type Solver interface {
	GetSolverID() string
	GetRegion() *Region
	Register(sd *SubDomain)
	Setup() error
	Initialize() error
}

type Domain struct {
	Name string
	Dim  int
	Mesh *Mesh

	NumPartitions int

	labels     map[regionKey]Label
	modifiers  []Modifier
	solSystem  *DiscreteSystem
	auxSystem  *DiscreteSystem
	solution   *Vector
	aux        *Vector
	subDomains []*SubDomain
	solvers    []Solver
}

/*
NewDomain applies the modifiers to the mesh in order, then lays out the fields.
Fields are laid out after the modifiers so that field regions can name labels
that the modifiers create.
*/
func NewDomain(name string, mesh *Mesh, fieldDescriptors []FieldDescriptor, modifiers []Modifier) (dm *Domain, err error) {
	dm = &Domain{
		Name:          name,
		Dim:           mesh.Dim,
		Mesh:          mesh,
		NumPartitions: 1,
		labels:        make(map[regionKey]Label),
		modifiers:     modifiers,
		solSystem:     newDiscreteSystem(SOL),
		auxSystem:     newDiscreteSystem(AUX),
	}
	for _, mod := range modifiers {
		if err = mod.Modify(dm); err != nil {
			err = fmt.Errorf("domain %s: modifier %s: %w", name, mod, err)
			return
		}
	}
	for _, desc := range fieldDescriptors {
		for _, fd := range desc.GetFields() {
			if err = dm.RegisterField(fd); err != nil {
				err = fmt.Errorf("domain %s: %w", name, err)
				return
			}
		}
	}
	return
}

// RegisterField adds a field, fields can not be added once the vectors exist
func (dm *Domain) RegisterField(fd *FieldDescription) (err error) {
	if dm.solution != nil {
		return fmt.Errorf("field %s registered after the vectors were created", fd.Name)
	}
	if fd.Region != nil && !dm.HasLabel(fd.Region) {
		return fmt.Errorf("field %s is defined on region %s, which has no label", fd.Name, fd.Region)
	}
	switch fd.Location {
	case SOL:
		_, err = dm.solSystem.addField(fd, dm.Dim)
	case AUX:
		_, err = dm.auxSystem.addField(fd, dm.Dim)
	default:
		err = fmt.Errorf("field %s: unknown location %s", fd.Name, fd.Location)
	}
	return
}

func (dm *Domain) GetDiscreteSystem(location FieldLocation) *DiscreteSystem {
	if location == AUX {
		return dm.auxSystem
	}
	return dm.solSystem
}

func (dm *Domain) GetField(name string) (f *Field, err error) {
	var ok bool
	if f, ok = dm.solSystem.GetField(name); ok {
		return
	}
	if f, ok = dm.auxSystem.GetField(name); ok {
		return
	}
	err = fmt.Errorf("field %s is not defined in domain %s", name, dm.Name)
	return
}

func (dm *Domain) GetSolutionVector() *Vector {
	if dm.solution == nil {
		dm.solution = NewVector(dm.solSystem, dm.Mesh.NumElements)
	}
	return dm.solution
}

func (dm *Domain) GetAuxVector() *Vector {
	if dm.aux == nil {
		dm.aux = NewVector(dm.auxSystem, dm.Mesh.NumElements)
	}
	return dm.aux
}

// CreateLocalVector returns a new zeroed vector laid out like the solution
func (dm *Domain) CreateLocalVector() *Vector {
	return NewVector(dm.solSystem, dm.Mesh.NumElements)
}

// GetSubDomain returns the subdomain for region, creating it on first use
func (dm *Domain) GetSubDomain(region *Region) *SubDomain {
	for _, sd := range dm.subDomains {
		if sameRegion(sd.region, region) {
			return sd
		}
	}
	sd := newSubDomain(dm, region)
	dm.subDomains = append(dm.subDomains, sd)
	return sd
}

func sameRegion(a, b *Region) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.key() == b.key()
}

/*
InitializeSubDomains registers each solver with the subdomain of its region,
projects the initialization functions into the solution vector, then sets up
and initializes the solvers in order.
*/
func (dm *Domain) InitializeSubDomains(solvers []Solver, initializations []*mathfunctions.FieldFunction) (err error) {
	for _, s := range solvers {
		if s.GetRegion() != nil && !dm.HasLabel(s.GetRegion()) {
			return fmt.Errorf("solver %s: region %s has no label", s.GetSolverID(), s.GetRegion())
		}
		s.Register(dm.GetSubDomain(s.GetRegion()))
		dm.solvers = append(dm.solvers, s)
	}
	dm.GetSolutionVector()
	dm.GetAuxVector()
	if len(initializations) > 0 {
		if err = dm.ProjectFieldFunctions(initializations, dm.solution); err != nil {
			return
		}
	}
	for _, s := range solvers {
		if err = s.Setup(); err != nil {
			return fmt.Errorf("solver %s setup: %w", s.GetSolverID(), err)
		}
	}
	for _, s := range solvers {
		if err = s.Initialize(); err != nil {
			return fmt.Errorf("solver %s initialize: %w", s.GetSolverID(), err)
		}
	}
	log.Printf("domain %s: %d cells, %d solvers, %d partitions",
		dm.Name, dm.Mesh.NumElements, len(solvers), dm.NumPartitions)
	return
}

// ProjectFieldFunctions evaluates each function at the centroids of its field's region
func (dm *Domain) ProjectFieldFunctions(fns []*mathfunctions.FieldFunction, vec *Vector) (err error) {
	return dm.projectFieldFunctions(fns, vec, nil)
}

func (dm *Domain) projectFieldFunctions(fns []*mathfunctions.FieldFunction, vec *Vector, within *Region) (err error) {
	var (
		ds = dm.GetDiscreteSystem(vec.Location)
	)
	for _, fn := range fns {
		field, ok := ds.GetField(fn.Name)
		if !ok {
			return fmt.Errorf("field %s is not a %s field of domain %s", fn.Name, vec.Location, dm.Name)
		}
		if fn.Function.Size() != field.NumComponents {
			return fmt.Errorf("function for field %s has %d components, field has %d",
				fn.Name, fn.Function.Size(), field.NumComponents)
		}
		cells := dm.GetLabel(field.Region).Cells
		if within != nil {
			cells = cells.Intersect(dm.GetLabel(within).Cells)
		}
		for _, cell := range cells.Points() {
			cg := dm.Mesh.CellGeometry[cell]
			fn.Function.EvalVector(cg.Centroid[:], dm.Dim, 0, vec.FieldRead(cell, field))
		}
	}
	return
}

// GetCellGeometry is shorthand for the mesh cell geometry
func (dm *Domain) GetCellGeometry(cell int) CellGeom { return dm.Mesh.CellGeometry[cell] }

func (dm *Domain) GetFaceGeometry(face int) FaceGeom { return dm.Mesh.FaceGeometry[face] }
