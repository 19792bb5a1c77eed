package domain

import (
	"fmt"

	"github.com/salam-lobad/ablate/utils"
)

// Region names a label value. A nil *Region is the entire domain.
type Region struct {
	Name  string
	Value int
}

// EntireDomain is the region covering every cell of the mesh
var EntireDomain *Region

const DefaultRegionValue = 1

func NewRegion(name string) *Region {
	return &Region{Name: name, Value: DefaultRegionValue}
}

func (r *Region) String() string {
	if r == nil {
		return "entireDomain"
	}
	if r.Value == DefaultRegionValue {
		return r.Name
	}
	return fmt.Sprintf("%s:%d", r.Name, r.Value)
}

type regionKey struct {
	name  string
	value int
}

func (r *Region) key() regionKey { return regionKey{r.Name, r.Value} }

// Label holds the cells and faces marked with one region
type Label struct {
	Cells utils.IndexSet
	Faces utils.IndexSet
}

func (l Label) Union(o Label) Label {
	return Label{Cells: l.Cells.Union(o.Cells), Faces: l.Faces.Union(o.Faces)}
}

func (l Label) Intersect(o Label) Label {
	return Label{Cells: l.Cells.Intersect(o.Cells), Faces: l.Faces.Intersect(o.Faces)}
}

func (l Label) Difference(o Label) Label {
	return Label{Cells: l.Cells.Difference(o.Cells), Faces: l.Faces.Difference(o.Faces)}
}

// GetLabel returns the label for region, the whole mesh for EntireDomain.
// A region that was never labeled is empty.
func (dm *Domain) GetLabel(region *Region) Label {
	if region == nil {
		return Label{
			Cells: utils.NewIndexSet(utils.NewRange(0, dm.Mesh.NumElements-1)...),
			Faces: utils.NewIndexSet(utils.NewRange(0, dm.Mesh.NumFaces-1)...),
		}
	}
	return dm.labels[region.key()]
}

func (dm *Domain) SetLabel(region *Region, label Label) {
	if region == nil {
		panic("the entire domain label can not be set")
	}
	dm.labels[region.key()] = label
}

func (dm *Domain) HasLabel(region *Region) bool {
	if region == nil {
		return true
	}
	_, ok := dm.labels[region.key()]
	return ok
}

// InRegion returns true if cell is in the region's label
func (dm *Domain) InRegion(region *Region, cell int) bool {
	if region == nil {
		return cell >= 0 && cell < dm.Mesh.NumElements
	}
	return dm.labels[region.key()].Cells.Contains(cell)
}
