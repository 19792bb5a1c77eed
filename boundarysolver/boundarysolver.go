package boundarysolver

import (
	"fmt"
	"log"

	"github.com/salam-lobad/ablate/domain"
	"github.com/salam-lobad/ablate/environment"
	"github.com/salam-lobad/ablate/mathfunctions"
)

// BoundarySourceType selects where a boundary function's source is applied
type BoundarySourceType uint8

const (
	Point       BoundarySourceType = iota // Added to the boundary cell
	Distributed                           // Spread over the stencil cells
)

func (bst BoundarySourceType) String() string {
	switch bst {
	case Point:
		return "Point"
	case Distributed:
		return "Distributed"
	}
	return fmt.Sprintf("BoundarySourceType(%d)", uint8(bst))
}

func NewBoundarySourceType(label string) (bst BoundarySourceType, err error) {
	switch label {
	case "Point", "point", "":
		bst = Point
	case "Distributed", "distributed":
		bst = Distributed
	default:
		err = fmt.Errorf("unknown boundary source type %q", label)
	}
	return
}

/*
BoundarySourceFunction computes the source for one boundary face. The values
of the requested SOL fields start at uOff[i] in boundaryValues and in each
entry of stencilValues, the AUX fields likewise at aOff[i]. The source buffer
is zeroed before each call and holds one cell of the SOL system, the output
fields start at sOff[i].
*/
type BoundarySourceFunction func(dim int, fg *BoundaryFVFaceGeom, boundaryCell *domain.CellGeom,
	uOff []int, boundaryValues []float64, stencilValues [][]float64,
	aOff []int, auxValues []float64, stencilAuxValues [][]float64,
	stencilSize int, stencil []int, stencilWeights []float64,
	sOff []int, source []float64) error

type boundaryFunction struct {
	function     BoundarySourceFunction
	sourceType   BoundarySourceType
	uOff         []int
	aOff         []int
	sOff         []int
	outputFields []*domain.Field
}

type Options struct {
	StencilRadius    float64 // Zero for no limit
	MaxStencilLevels int
}

// BoundaryProcess adds functions to a boundary solver
type BoundaryProcess interface {
	Setup(bs *BoundarySolver) error
	Initialize(bs *BoundarySolver) error
}

/*
BoundarySolver evaluates functions of the field gradients at the faces that
separate its region's cells from the rest of the field region. Each cell of
the solver region with faces in the fieldBoundary label gets one gradient
stencil, or one per face when faces are not merged.
*/
type BoundarySolver struct {
	solverID      string
	region        *domain.Region
	fieldBoundary *domain.Region
	processes     []BoundaryProcess
	options       Options
	mergeFaces    bool

	subDomain    *domain.SubDomain
	stencils     []GradientStencil
	cellStencils map[int][]int // Boundary cell to stencil indices
	functions    []boundaryFunction
}

func NewBoundarySolver(solverID string, region, fieldBoundary *domain.Region,
	processes []BoundaryProcess, options *Options, mergeFaces bool) *BoundarySolver {
	bs := &BoundarySolver{
		solverID:      solverID,
		region:        region,
		fieldBoundary: fieldBoundary,
		processes:     processes,
		mergeFaces:    mergeFaces,
	}
	env := environment.Get()
	bs.options = Options{
		StencilRadius:    env.StencilRadius,
		MaxStencilLevels: env.MaxStencilLevels,
	}
	if options != nil {
		bs.options = *options
	}
	if bs.options.MaxStencilLevels < 1 {
		bs.options.MaxStencilLevels = 1
	}
	return bs
}

func (bs *BoundarySolver) GetSolverID() string             { return bs.solverID }
func (bs *BoundarySolver) GetRegion() *domain.Region       { return bs.region }
func (bs *BoundarySolver) GetSubDomain() *domain.SubDomain { return bs.subDomain }
func (bs *BoundarySolver) Register(sd *domain.SubDomain)   { bs.subDomain = sd }

// Setup builds the gradient stencils then sets up each process
func (bs *BoundarySolver) Setup() (err error) {
	if bs.subDomain == nil {
		return fmt.Errorf("boundary solver %s is not registered with a subdomain", bs.solverID)
	}
	var (
		sd         = bs.subDomain
		mesh       = sd.GetMesh()
		cells      = sd.GetCells()
		faceLabel  = sd.GetLabel(bs.fieldBoundary).Faces
		admissible = sd.GetFieldCells().Difference(cells)
		builder    = &stencilBuilder{
			sd:            sd,
			mesh:          mesh,
			dim:           sd.GetDimensions(),
			admissible:    admissible,
			stencilRadius: bs.options.StencilRadius,
			maxLevels:     bs.options.MaxStencilLevels,
		}
	)
	bs.stencils = nil
	bs.functions = nil
	bs.cellStencils = make(map[int][]int)
	for _, cell := range cells.Points() {
		var faces []int
		for _, f := range mesh.EToF[cell] {
			if faceLabel.Contains(f) {
				faces = append(faces, f)
			}
		}
		if len(faces) == 0 {
			continue
		}
		var geoms []BoundaryFVFaceGeom
		var faceSets [][]int
		if bs.mergeFaces {
			fg, err := mergeFaceGeometry(mesh, cell, faces)
			if err != nil {
				return fmt.Errorf("boundary solver %s: %w", bs.solverID, err)
			}
			geoms, faceSets = append(geoms, fg), append(faceSets, faces)
		} else {
			for _, f := range faces {
				geoms, faceSets = append(geoms, faceGeometry(mesh, cell, f)), append(faceSets, []int{f})
			}
		}
		for i, fg := range geoms {
			gs, err := builder.build(cell, fg, geoms[0].Centroid)
			if err != nil {
				return fmt.Errorf("boundary solver %s: %w", bs.solverID, err)
			}
			gs.Faces = faceSets[i]
			bs.cellStencils[cell] = append(bs.cellStencils[cell], len(bs.stencils))
			bs.stencils = append(bs.stencils, gs)
		}
	}
	log.Printf("boundary solver %s: %d boundary cells, %d stencils", bs.solverID, len(bs.cellStencils), len(bs.stencils))
	for _, p := range bs.processes {
		if err = p.Setup(bs); err != nil {
			return fmt.Errorf("boundary solver %s: %w", bs.solverID, err)
		}
	}
	return
}

func (bs *BoundarySolver) Initialize() (err error) {
	for _, p := range bs.processes {
		if err = p.Initialize(bs); err != nil {
			return fmt.Errorf("boundary solver %s: %w", bs.solverID, err)
		}
	}
	return
}

func fieldOffsets(sd *domain.SubDomain, names []string, location domain.FieldLocation) (offsets []int, fields []*domain.Field, err error) {
	for _, name := range names {
		var f *domain.Field
		if f, err = sd.GetField(name); err != nil {
			return
		}
		if f.Location != location {
			err = fmt.Errorf("field %s is a %s field, expected %s", name, f.Location, location)
			return
		}
		offsets = append(offsets, f.Offset)
		fields = append(fields, f)
	}
	return
}

// RegisterFunction adds fn, called for every boundary face on each ComputeRHSFunction
func (bs *BoundarySolver) RegisterFunction(fn BoundarySourceFunction, outputFields, inputFields, auxFields []string,
	sourceType BoundarySourceType) (err error) {
	if bs.subDomain == nil {
		return fmt.Errorf("boundary solver %s is not registered with a subdomain", bs.solverID)
	}
	var bf = boundaryFunction{function: fn, sourceType: sourceType}
	if sourceType != Point && sourceType != Distributed {
		return fmt.Errorf("boundary solver %s: unknown source type %s", bs.solverID, sourceType)
	}
	if bf.sOff, bf.outputFields, err = fieldOffsets(bs.subDomain, outputFields, domain.SOL); err != nil {
		return fmt.Errorf("boundary solver %s output: %w", bs.solverID, err)
	}
	if bf.uOff, _, err = fieldOffsets(bs.subDomain, inputFields, domain.SOL); err != nil {
		return fmt.Errorf("boundary solver %s input: %w", bs.solverID, err)
	}
	if bf.aOff, _, err = fieldOffsets(bs.subDomain, auxFields, domain.AUX); err != nil {
		return fmt.Errorf("boundary solver %s aux: %w", bs.solverID, err)
	}
	bs.functions = append(bs.functions, bf)
	return
}

/*
InsertFieldFunctions overwrites the boundary cell values with the functions
evaluated at the stencil anchor, the boundary face centroid of the cell or of
its first face when faces are not merged.
*/
func (bs *BoundarySolver) InsertFieldFunctions(fns []*mathfunctions.FieldFunction, time float64) (err error) {
	var (
		sd  = bs.subDomain
		dim = sd.GetDimensions()
	)
	for _, fn := range fns {
		var (
			field *domain.Field
			vec   *domain.Vector
		)
		if field, err = sd.GetField(fn.Name); err != nil {
			return fmt.Errorf("boundary solver %s: %w", bs.solverID, err)
		}
		if fn.Function.Size() != field.NumComponents {
			return fmt.Errorf("boundary solver %s: function for %s has %d components, field has %d",
				bs.solverID, fn.Name, fn.Function.Size(), field.NumComponents)
		}
		vec = sd.GetSolutionVector()
		if field.Location == domain.AUX {
			vec = sd.GetAuxVector()
		}
		for cell, indices := range bs.cellStencils {
			anchor := bs.stencils[indices[0]].Anchor
			fn.Function.EvalVector(anchor[:], dim, time, vec.FieldRead(cell, field))
		}
	}
	return
}

// GetCellRange returns the solver region cells that have a boundary stencil
func (bs *BoundarySolver) GetCellRange() domain.Range {
	var points []int
	for _, cell := range bs.subDomain.GetCells().Points() {
		if _, ok := bs.cellStencils[cell]; ok {
			points = append(points, cell)
		}
	}
	return domain.NewRange(points)
}

// GetBoundaryGeometry returns the stencils of a boundary cell, empty for other cells
func (bs *BoundarySolver) GetBoundaryGeometry(cell int) (stencils []GradientStencil) {
	for _, i := range bs.cellStencils[cell] {
		stencils = append(stencils, bs.stencils[i])
	}
	return
}

func (bs *BoundarySolver) GetStencils() []GradientStencil { return bs.stencils }
