package domain

import (
	"fmt"
	"strings"

	"github.com/salam-lobad/ablate/mathfunctions"
	"github.com/salam-lobad/ablate/utils"
)

// CreateLabel labels the cells whose centroid makes Function positive, along with their faces
type CreateLabel struct {
	Region   *Region
	Function mathfunctions.MathFunction
}

func NewCreateLabel(region *Region, fn mathfunctions.MathFunction) *CreateLabel {
	return &CreateLabel{Region: region, Function: fn}
}

func (cl *CreateLabel) String() string { return fmt.Sprintf("createLabel(%s)", cl.Region) }

func (cl *CreateLabel) Modify(dm *Domain) (err error) {
	var label Label
	m := dm.Mesh
	if cl.Region == nil {
		return fmt.Errorf("a region is required")
	}
	for k := 0; k < m.NumElements; k++ {
		cg := m.CellGeometry[k]
		if cl.Function.Eval(cg.Centroid[:], m.Dim, 0) > 0 {
			label.Cells.Insert(k)
			label.Faces.Insert(m.EToF[k]...)
		}
	}
	dm.SetLabel(cl.Region, label)
	return
}

/*
TagLabelBoundary finds the interior faces separating cells of Region from the
cells outside it. The faces are labeled BoundaryFaceRegion and the outside
cells BoundaryCellRegion.
*/
type TagLabelBoundary struct {
	Region             *Region
	BoundaryFaceRegion *Region
	BoundaryCellRegion *Region
}

func NewTagLabelBoundary(region, boundaryFaceRegion, boundaryCellRegion *Region) *TagLabelBoundary {
	return &TagLabelBoundary{
		Region:             region,
		BoundaryFaceRegion: boundaryFaceRegion,
		BoundaryCellRegion: boundaryCellRegion,
	}
}

func (tb *TagLabelBoundary) String() string {
	return fmt.Sprintf("tagLabelBoundary(%s -> %s, %s)", tb.Region, tb.BoundaryFaceRegion, tb.BoundaryCellRegion)
}

func (tb *TagLabelBoundary) Modify(dm *Domain) (err error) {
	var (
		m      = dm.Mesh
		inside = dm.GetLabel(tb.Region).Cells
	)
	var faceLabel, cellLabel Label
	if tb.Region == nil || !dm.HasLabel(tb.Region) {
		return fmt.Errorf("region %s has no label", tb.Region)
	}
	for f, face := range m.Faces {
		if face.IsBoundary() {
			continue
		}
		ownerIn, neighborIn := inside.Contains(face.Element), inside.Contains(face.Neighbor)
		if ownerIn == neighborIn {
			continue
		}
		outside := face.Neighbor
		if neighborIn {
			outside = face.Element
		}
		faceLabel.Faces.Insert(f)
		cellLabel.Cells.Insert(outside)
	}
	if tb.BoundaryFaceRegion != nil {
		dm.SetLabel(tb.BoundaryFaceRegion, dm.labelOrEmpty(tb.BoundaryFaceRegion).Union(faceLabel))
	}
	if tb.BoundaryCellRegion != nil {
		dm.SetLabel(tb.BoundaryCellRegion, dm.labelOrEmpty(tb.BoundaryCellRegion).Union(cellLabel))
	}
	return
}

// MergeLabels sets Region to the union of Regions
type MergeLabels struct {
	Region  *Region
	Regions []*Region
}

func NewMergeLabels(region *Region, regions []*Region) *MergeLabels {
	return &MergeLabels{Region: region, Regions: regions}
}

func (ml *MergeLabels) String() string {
	return fmt.Sprintf("mergeLabels(%s = %s)", ml.Region, regionList(ml.Regions, " + "))
}

func (ml *MergeLabels) Modify(dm *Domain) (err error) {
	var label Label
	for _, r := range ml.Regions {
		if !dm.HasLabel(r) {
			return fmt.Errorf("region %s has no label", r)
		}
		label = label.Union(dm.GetLabel(r))
	}
	dm.SetLabel(ml.Region, label)
	return
}

// IntersectLabels sets Region to the intersection of Regions
type IntersectLabels struct {
	Region  *Region
	Regions []*Region
}

func NewIntersectLabels(region *Region, regions []*Region) *IntersectLabels {
	return &IntersectLabels{Region: region, Regions: regions}
}

func (il *IntersectLabels) String() string {
	return fmt.Sprintf("intersectLabels(%s = %s)", il.Region, regionList(il.Regions, " * "))
}

func (il *IntersectLabels) Modify(dm *Domain) (err error) {
	if len(il.Regions) == 0 {
		return fmt.Errorf("no regions to intersect")
	}
	label := dm.GetLabel(il.Regions[0])
	for _, r := range il.Regions {
		if !dm.HasLabel(r) {
			return fmt.Errorf("region %s has no label", r)
		}
		label = label.Intersect(dm.GetLabel(r))
	}
	dm.SetLabel(il.Region, label)
	return
}

// SubtractLabel sets Region to the cells and faces of Region that are not in Subtract
type SubtractLabel struct {
	Region   *Region
	Subtract *Region
}

func NewSubtractLabel(region, subtract *Region) *SubtractLabel {
	return &SubtractLabel{Region: region, Subtract: subtract}
}

func (sl *SubtractLabel) String() string {
	return fmt.Sprintf("subtractLabel(%s - %s)", sl.Region, sl.Subtract)
}

func (sl *SubtractLabel) Modify(dm *Domain) (err error) {
	if !dm.HasLabel(sl.Subtract) {
		return fmt.Errorf("region %s has no label", sl.Subtract)
	}
	dm.SetLabel(sl.Region, dm.GetLabel(sl.Region).Difference(dm.GetLabel(sl.Subtract)))
	return
}

func (dm *Domain) labelOrEmpty(region *Region) Label {
	if !dm.HasLabel(region) {
		return Label{}
	}
	return dm.GetLabel(region)
}

func regionList(regions []*Region, sep string) string {
	names := make([]string, len(regions))
	for i, r := range regions {
		names[i] = r.String()
	}
	return strings.Join(names, sep)
}

// CellsOf is shorthand for the cell set of several regions
func (dm *Domain) CellsOf(regions ...*Region) (cells utils.IndexSet) {
	for _, r := range regions {
		cells = cells.Union(dm.GetLabel(r).Cells)
	}
	return
}
