package domain

import (
	"fmt"

	"github.com/salam-lobad/ablate/mathfunctions"
	"github.com/salam-lobad/ablate/utils"
)

/*
SubDomain is the view of a domain seen by the solvers of one region. It holds
the fields whose regions cover the whole of its region, and the cells those
fields are defined on.
*/
type SubDomain struct {
	dm     *Domain
	region *Region
}

func newSubDomain(dm *Domain, region *Region) *SubDomain {
	return &SubDomain{dm: dm, region: region}
}

func (sd *SubDomain) GetRegion() *Region         { return sd.region }
func (sd *SubDomain) GetDomain() *Domain         { return sd.dm }
func (sd *SubDomain) GetDimensions() int         { return sd.dm.Dim }
func (sd *SubDomain) GetMesh() *Mesh             { return sd.dm.Mesh }
func (sd *SubDomain) NumPartitions() int         { return sd.dm.NumPartitions }
func (sd *SubDomain) GetSolutionVector() *Vector { return sd.dm.GetSolutionVector() }
func (sd *SubDomain) GetAuxVector() *Vector      { return sd.dm.GetAuxVector() }
func (sd *SubDomain) CreateLocalVector() *Vector { return sd.dm.CreateLocalVector() }
func (sd *SubDomain) GetCellGeometry(cell int) CellGeom {
	return sd.dm.Mesh.CellGeometry[cell]
}

func (sd *SubDomain) GetDiscreteSystem(location FieldLocation) *DiscreteSystem {
	return sd.dm.GetDiscreteSystem(location)
}

// GetCells returns the cells of the subdomain region
func (sd *SubDomain) GetCells() utils.IndexSet { return sd.dm.GetLabel(sd.region).Cells }

func (sd *SubDomain) GetLabel(region *Region) Label { return sd.dm.GetLabel(region) }

func (sd *SubDomain) InRegion(region *Region, cell int) bool { return sd.dm.InRegion(region, cell) }

func (sd *SubDomain) covers(f *Field) bool {
	if f.Region == nil {
		return true
	}
	if sd.region == nil {
		return false
	}
	mine := sd.GetCells()
	return mine.Intersect(sd.dm.GetLabel(f.Region).Cells).Len() == mine.Len()
}

// Fields returns the fields of location available on the subdomain, in ID order
func (sd *SubDomain) Fields(location FieldLocation) (fields []*Field) {
	for _, f := range sd.dm.GetDiscreteSystem(location).Fields {
		if sd.covers(f) {
			fields = append(fields, f)
		}
	}
	return
}

func (sd *SubDomain) GetField(name string) (f *Field, err error) {
	if f, err = sd.dm.GetField(name); err != nil {
		return
	}
	if !sd.covers(f) {
		err = fmt.Errorf("field %s on region %s does not cover subdomain %s", name, f.Region, sd.region)
	}
	return
}

// GetFieldCells returns every cell on which at least one subdomain field is defined
func (sd *SubDomain) GetFieldCells() (cells utils.IndexSet) {
	for _, loc := range []FieldLocation{SOL, AUX} {
		for _, f := range sd.Fields(loc) {
			cells = cells.Union(sd.dm.GetLabel(f.Region).Cells)
		}
	}
	return
}

// ProjectFieldFunctionsToLocalVector evaluates functions over the regions of subdomain fields
func (sd *SubDomain) ProjectFieldFunctionsToLocalVector(fns []*mathfunctions.FieldFunction, vec *Vector) (err error) {
	for _, fn := range fns {
		if _, err = sd.GetField(fn.Name); err != nil {
			return
		}
	}
	return sd.dm.projectFieldFunctions(fns, vec, nil)
}
