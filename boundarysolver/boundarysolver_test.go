package boundarysolver

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salam-lobad/ablate/domain"
	"github.com/salam-lobad/ablate/mathfunctions"
	"github.com/salam-lobad/ablate/mathfunctions/geom"
	"github.com/salam-lobad/ablate/partition"
	"github.com/salam-lobad/ablate/utils"
)

type testRegions struct {
	inside, boundaryFaces, boundaryCells, fieldRegion *domain.Region
}

func newTestRegions() testRegions {
	return testRegions{
		inside:        domain.NewRegion("insideRegion"),
		boundaryFaces: domain.NewRegion("boundaryFaces"),
		boundaryCells: domain.NewRegion("boundaryCells"),
		fieldRegion:   domain.NewRegion("fieldRegion"),
	}
}

// A five cell per side unit simplex box with a sphere of radius .25 at its center
func newSphereDomain(t *testing.T, dim int, tr testRegions, extra ...domain.Modifier) *domain.Domain {
	return newBoxDomain(t, dim, 5, .25, true, tr, extra...)
}

// newBoxDomain builds an n cell per side unit box with a sphere at its center
func newBoxDomain(t *testing.T, dim, n int, radius float64, simplex bool, tr testRegions,
	extra ...domain.Modifier) *domain.Domain {
	var (
		faces  = make([]int, dim)
		lower  = make([]float64, dim)
		upper  = make([]float64, dim)
		center = make([]float64, dim)
	)
	for d := 0; d < dim; d++ {
		faces[d], upper[d], center[d] = n, 1, 0.5
	}
	fieldDescriptors := []domain.FieldDescriptor{
		domain.NewFieldDescription("fieldA", "", domain.OneComponent, domain.SOL, domain.FVM, tr.fieldRegion),
		domain.NewFieldDescription("fieldB", "", domain.OneComponent, domain.SOL, domain.FVM, tr.fieldRegion),
		domain.NewFieldDescription("auxA", "", domain.OneComponent, domain.AUX, domain.FVM, tr.fieldRegion),
		domain.NewFieldDescription("auxB", "", domain.OneComponent, domain.AUX, domain.FVM, tr.fieldRegion),
		domain.NewFieldDescription("resultGrad", "",
			[]string{"fieldAGrad" + domain.Dimension, "fieldBGrad" + domain.Dimension,
				"auxAGrad" + domain.Dimension, "auxBGrad" + domain.Dimension},
			domain.SOL, domain.FVM, tr.fieldRegion),
		domain.NewFieldDescription("normalGrad", "", []string{"fieldA", "fieldB", "auxA", "auxB"},
			domain.SOL, domain.FVM, tr.fieldRegion),
	}
	modifiers := append([]domain.Modifier{
		domain.NewCreateLabel(tr.inside, geom.NewSphere(center, radius)),
		domain.NewTagLabelBoundary(tr.inside, tr.boundaryFaces, tr.boundaryCells),
		domain.NewMergeLabels(tr.fieldRegion, []*domain.Region{tr.inside, tr.boundaryCells}),
	}, extra...)
	dm, err := domain.NewBoxMesh("test", fieldDescriptors, modifiers, faces, lower, upper, simplex)
	require.NoError(t, err)
	return dm
}

type scenario struct {
	name                                       string
	dim                                        int
	fieldA, fieldB, auxA, auxB                 string
	gradFieldA, gradFieldB, gradAuxA, gradAuxB string
}

var scenarios = []scenario{
	{
		name: "1D", dim: 1,
		fieldA: "x + x*y+ y + z", fieldB: "10*x + 3*y + z*x +2*z", auxA: "-x - y -z", auxB: "-x*y*z",
		gradFieldA: "1 + y, x + 1, 1", gradFieldB: "10+z, 3, x + 2", gradAuxA: "-1, -1, -1", gradAuxB: "-y*z, -x*z, -x*y",
	},
	{
		name: "2D", dim: 2,
		fieldA: "x + y + z", fieldB: "10*x + 3*y +2*z", auxA: "-x - y -z", auxB: "-x-x",
		gradFieldA: "1,  1, 1", gradFieldB: "10, 3,  2", gradAuxA: "-1, -1, -1", gradAuxB: "-2,0, 0",
	},
	{
		name: "3D", dim: 3,
		fieldA: "x + y + z", fieldB: "10*x + 3*y +2*z", auxA: "-x - y -z", auxB: "-x-x",
		gradFieldA: "1,  1, 1", gradFieldB: "10, 3,  2", gradAuxA: "-1, -1, -1", gradAuxB: "-2,0, 0",
	},
}

func (sc scenario) fieldFunctions() (sol, aux []*mathfunctions.FieldFunction) {
	sol = []*mathfunctions.FieldFunction{
		mathfunctions.NewFieldFunction("fieldA", mathfunctions.MustCreate(sc.fieldA)),
		mathfunctions.NewFieldFunction("fieldB", mathfunctions.MustCreate(sc.fieldB)),
	}
	aux = []*mathfunctions.FieldFunction{
		mathfunctions.NewFieldFunction("auxA", mathfunctions.MustCreate(sc.auxA)),
		mathfunctions.NewFieldFunction("auxB", mathfunctions.MustCreate(sc.auxB)),
	}
	return
}

func (sc scenario) expectedGradients(x []float64) (grads [4][]float64) {
	for i, expr := range []string{sc.gradFieldA, sc.gradFieldB, sc.gradAuxA, sc.gradAuxB} {
		grads[i] = make([]float64, 3)
		mathfunctions.MustCreate(expr).EvalVector(x, sc.dim, 0, grads[i])
	}
	return
}

// setupSolver initializes the domain with bs and loads the scenario fields, boundary cells hold face values
func setupSolver(t *testing.T, dm *domain.Domain, bs *BoundarySolver, sc scenario) *domain.Vector {
	require.NoError(t, dm.InitializeSubDomains([]domain.Solver{bs}, nil))
	var (
		globVec  = dm.GetSolutionVector()
		sd       = bs.GetSubDomain()
		sol, aux = sc.fieldFunctions()
	)
	require.NoError(t, dm.ProjectFieldFunctions(sol, globVec))
	require.NoError(t, sd.ProjectFieldFunctionsToLocalVector(aux, sd.GetAuxVector()))
	require.NoError(t, bs.InsertFieldFunctions(sol, 0))
	require.NoError(t, bs.InsertFieldFunctions(aux, 0))
	return globVec
}

func TestDistributedGradientsOnBoundary(t *testing.T) {
	for _, sc := range scenarios {
		t.Run(sc.name, func(t *testing.T) {
			var (
				tr         = newTestRegions()
				dm         = newSphereDomain(t, sc.dim, tr)
				bs         = NewBoundarySolver("testSolver", tr.boundaryCells, tr.boundaryFaces, nil, nil, true)
				globVec    = setupSolver(t, dm, bs, sc)
				sd         = bs.GetSubDomain()
				dim        = sc.dim
				activeCell domain.CellGeom
			)
			// Only the active cell adds sources so each boundary face can be checked alone
			err := bs.RegisterFunction(func(dim int, fg *BoundaryFVFaceGeom, boundaryCell *domain.CellGeom,
				uOff []int, boundaryValues []float64, stencilValues [][]float64,
				aOff []int, auxValues []float64, stencilAuxValues [][]float64,
				stencilSize int, stencil []int, stencilWeights []float64,
				sOff []int, source []float64) error {
				const (
					fieldA, fieldB, auxA, auxB = 1, 0, 1, 0
				)
				if utils.Distance(dim, boundaryCell.Centroid[:], activeCell.Centroid[:]) > 1.e-8 {
					return nil
				}
				pointValues := make([]float64, stencilSize)
				gradients := []struct {
					values [][]float64
					center float64
					off    int
				}{
					{stencilValues, boundaryValues[uOff[fieldA]], uOff[fieldA]},
					{stencilValues, boundaryValues[uOff[fieldB]], uOff[fieldB]},
					{stencilAuxValues, auxValues[aOff[auxA]], aOff[auxA]},
					{stencilAuxValues, auxValues[aOff[auxB]], aOff[auxB]},
				}
				for i, g := range gradients {
					for p := range pointValues {
						pointValues[p] = g.values[p][g.off]
					}
					grad := source[sOff[0]+i*dim : sOff[0]+(i+1)*dim]
					ComputeGradient(dim, g.center, stencilSize, pointValues, stencilWeights, grad)
					dPhiDNorm := ComputeGradientAlongNormal(dim, fg, g.center, stencilSize, pointValues, stencilWeights)
					if math.Abs(dPhiDNorm-utils.DotVector(dim, grad, fg.Normal[:])) > 1.e-8 {
						return fmt.Errorf("gradient %d along the normal does not match", i)
					}
				}
				var outward [3]float64
				for d := 0; d < dim; d++ {
					outward[d] = fg.Centroid[d] - 0.5
				}
				if utils.DotVector(dim, outward[:], fg.Normal[:]) <= 0 {
					return fmt.Errorf("the normal should face out from the inside region")
				}
				return nil
			}, []string{"resultGrad"}, []string{"fieldB", "fieldA"}, []string{"auxB", "auxA"}, Distributed)
			require.NoError(t, err)

			var (
				gradVec       = sd.CreateLocalVector()
				resultGrad, _ = sd.GetField("resultGrad")
				boundaryCells = bs.GetCellRange()
				insideCells   = dm.GetLabel(tr.inside).Cells.Points()
				stencilRadius = 0.5
				totalDim      = gradVec.TotalDim
			)
			require.True(t, boundaryCells.Len() > 0)
			for c := boundaryCells.Start; c < boundaryCells.End; c++ {
				cell := boundaryCells.Cell(c)
				faces := bs.GetBoundaryGeometry(cell)
				require.Len(t, faces, 1)
				face := faces[0].Geometry
				activeCell = sd.GetCellGeometry(cell)

				gradVec.Zero()
				require.NoError(t, bs.ComputeRHSFunction(0, globVec, gradVec))

				for tc := boundaryCells.Start; tc < boundaryCells.End; tc++ {
					data := gradVec.PointRead(boundaryCells.Cell(tc))
					for i := 0; i < totalDim; i++ {
						require.Equal(t, 0., data[i], "sources in the boundary region at cell %d", boundaryCells.Cell(tc))
					}
				}

				var sums [4][3]float64
				for _, testCell := range insideCells {
					data := gradVec.PointRead(testCell)
					hasValue := false
					for i := 0; i < totalDim; i++ {
						if data[i] != 0 {
							hasValue = true
						}
					}
					if !hasValue {
						continue
					}
					cg := sd.GetCellGeometry(testCell)
					require.Less(t, utils.Distance(dim, cg.Centroid[:], face.Centroid[:]), stencilRadius,
						"source terms should only be within the stencil radius")
					for i := 0; i < resultGrad.Offset; i++ {
						require.Equal(t, 0., data[i], "values outside resultGrad should be zero at cell %d", cell)
					}
					offset := resultGrad.Offset
					for g := 0; g < 4; g++ {
						for d := 0; d < dim; d++ {
							sums[g][d] += data[offset] * cg.Volume
							offset++
						}
					}
				}

				exact := sc.expectedGradients(face.Centroid[:])
				for g, name := range []string{"fieldA", "fieldB", "auxA", "auxB"} {
					for d := 0; d < dim; d++ {
						assert.InDelta(t, exact[g][d], sums[g][d], 1.e-8,
							"expected gradient not found for %s dir %d in cell %d", name, d, cell)
					}
				}
			}
		})
	}
}

func TestPointGradientProcess(t *testing.T) {
	for _, sc := range scenarios {
		for _, merge := range []bool{true, false} {
			t.Run(fmt.Sprintf("%s/merge=%v", sc.name, merge), func(t *testing.T) {
				var (
					tr        = newTestRegions()
					dm        = newSphereDomain(t, sc.dim, tr)
					gradients = NewGradientProcess("resultGrad", []string{"fieldA", "fieldB"},
						[]string{"auxA", "auxB"}, false, Point)
					normals = NewGradientProcess("normalGrad", []string{"fieldA", "fieldB"},
						[]string{"auxA", "auxB"}, true, Point)
					bs = NewBoundarySolver("pointSolver", tr.boundaryCells, tr.boundaryFaces,
						[]BoundaryProcess{gradients, normals}, nil, merge)
					globVec = setupSolver(t, dm, bs, sc)
					sd      = bs.GetSubDomain()
					locF    = sd.CreateLocalVector()
					dim     = sc.dim
				)
				require.NoError(t, bs.ComputeRHSFunction(0, globVec, locF))
				resultGrad, _ := sd.GetField("resultGrad")
				normalGrad, _ := sd.GetField("normalGrad")

				rng := bs.GetCellRange()
				for c := 0; c < rng.Len(); c++ {
					var (
						cell     = rng.Cell(c)
						stencils = bs.GetBoundaryGeometry(cell)
						want     = make([]float64, resultGrad.NumComponents)
						wantN    = make([]float64, normalGrad.NumComponents)
					)
					if merge {
						require.Len(t, stencils, 1)
					}
					for _, gs := range stencils {
						exact := sc.expectedGradients(gs.Geometry.Centroid[:])
						for g := 0; g < 4; g++ {
							for d := 0; d < dim; d++ {
								want[g*dim+d] += exact[g][d]
							}
							wantN[g] += utils.DotVector(dim, exact[g], gs.Geometry.Normal[:])
						}
					}
					assert.InDeltaSlice(t, want, locF.FieldRead(cell, resultGrad), 1.e-8, "cell %d", cell)
					assert.InDeltaSlice(t, wantN, locF.FieldRead(cell, normalGrad), 1.e-8, "cell %d", cell)
				}
				// Nothing lands outside the boundary cells
				for _, cell := range dm.GetLabel(tr.inside).Cells.Points() {
					for _, v := range locF.PointRead(cell) {
						require.Equal(t, 0., v)
					}
				}
			})
		}
	}
}

func TestPartitionedMatchesSerial(t *testing.T) {
	for _, sc := range scenarios[1:] {
		t.Run(sc.name, func(t *testing.T) {
			run := func(modifiers ...domain.Modifier) (*domain.Vector, *BoundarySolver) {
				var (
					tr = newTestRegions()
					dm = newSphereDomain(t, sc.dim, tr, modifiers...)
					bs = NewBoundarySolver("solver", tr.boundaryCells, tr.boundaryFaces,
						[]BoundaryProcess{NewGradientProcess("resultGrad", []string{"fieldA", "fieldB"},
							[]string{"auxA", "auxB"}, false, Distributed)}, nil, true)
					globVec = setupSolver(t, dm, bs, sc)
					locF    = bs.GetSubDomain().CreateLocalVector()
				)
				require.NoError(t, bs.ComputeRHSFunction(0, globVec, locF))
				return locF, bs
			}
			serial, _ := run()
			parallel, bs := run(partition.NewDistributeWithGhostCells(3, "block", 1))
			require.Equal(t, 3, bs.GetSubDomain().NumPartitions())

			// Some stencils must reach into another partition for the mailbox to matter
			var (
				owner  = bs.GetSubDomain().GetMesh().EToP
				remote int
			)
			for _, gs := range bs.GetStencils() {
				for _, c := range gs.Stencil {
					if owner[c] != owner[gs.Cell] {
						remote++
					}
				}
			}
			assert.True(t, remote > 0)
			// Sums over the mailbox run in another order, so compare relative to the magnitude
			for i, v := range serial.Data() {
				assert.InDelta(t, v, parallel.Data()[i], 1.e-12*math.Max(1, math.Abs(v)))
			}

			// Repeated evaluation accumulates
			var (
				dm      = bs.GetSubDomain().GetDomain()
				globVec = dm.GetSolutionVector()
			)
			require.NoError(t, bs.ComputeRHSFunction(0, globVec, parallel))
			for i, v := range serial.Data() {
				assert.InDelta(t, 2*v, parallel.Data()[i], 1.e-12*math.Max(1, math.Abs(v)))
			}
		})
	}
}

func TestUnmergedFacesShareCellValue(t *testing.T) {
	sc := scenarios[1]
	var (
		tr        = newTestRegions()
		dm        = newBoxDomain(t, sc.dim, 10, .3, false, tr)
		gradients = NewGradientProcess("resultGrad", []string{"fieldA", "fieldB"},
			[]string{"auxA", "auxB"}, false, Point)
		bs = NewBoundarySolver("unmerged", tr.boundaryCells, tr.boundaryFaces,
			[]BoundaryProcess{gradients}, nil, false)
		globVec = setupSolver(t, dm, bs, sc)
		sd      = bs.GetSubDomain()
		locF    = sd.CreateLocalVector()
		dim     = sc.dim
	)
	fb, err := sd.GetField("fieldB")
	require.NoError(t, err)
	require.NoError(t, bs.ComputeRHSFunction(0, globVec, locF))
	resultGrad, _ := sd.GetField("resultGrad")

	var multiFace int
	rng := bs.GetCellRange()
	for c := 0; c < rng.Len(); c++ {
		var (
			cell     = rng.Cell(c)
			stencils = bs.GetBoundaryGeometry(cell)
			want     = make([]float64, resultGrad.NumComponents)
		)
		if len(stencils) > 1 {
			multiFace++
		}
		for _, gs := range stencils {
			assert.Equal(t, stencils[0].Anchor, gs.Anchor)
			values := make([]float64, gs.Size())
			for i, k := range gs.Stencil {
				values[i] = globVec.FieldRead(k, fb)[0]
			}
			grad := make([]float64, dim)
			ComputeGradient(dim, globVec.FieldRead(cell, fb)[0], gs.Size(), values, gs.GradientWeights, grad)
			assert.InDeltaSlice(t, []float64{10, 3}, grad, 1.e-8, "cell %d face %v", cell, gs.Faces)

			exact := sc.expectedGradients(gs.Geometry.Centroid[:])
			for g := 0; g < 4; g++ {
				for d := 0; d < dim; d++ {
					want[g*dim+d] += exact[g][d]
				}
			}
		}
		assert.InDeltaSlice(t, want, locF.FieldRead(cell, resultGrad), 1.e-8, "cell %d", cell)
	}
	require.True(t, multiFace > 0, "the quad mesh should have boundary cells with several faces")
}

func TestSetupTwice(t *testing.T) {
	sc := scenarios[1]
	run := func(setups int) *domain.Vector {
		var (
			tr = newTestRegions()
			dm = newSphereDomain(t, sc.dim, tr)
			bs = NewBoundarySolver("twice", tr.boundaryCells, tr.boundaryFaces,
				[]BoundaryProcess{NewGradientProcess("resultGrad", []string{"fieldA", "fieldB"},
					[]string{"auxA", "auxB"}, false, Point)}, nil, true)
			globVec = setupSolver(t, dm, bs, sc)
			locF    = bs.GetSubDomain().CreateLocalVector()
		)
		for i := 1; i < setups; i++ {
			require.NoError(t, bs.Setup())
		}
		require.NoError(t, bs.ComputeRHSFunction(0, globVec, locF))
		return locF
	}
	assert.Equal(t, run(1).Data(), run(2).Data())
}

func TestGradientOperator(t *testing.T) {
	sc := scenarios[1]
	var (
		tr      = newTestRegions()
		dm      = newSphereDomain(t, sc.dim, tr)
		bs      = NewBoundarySolver("operator", tr.boundaryCells, tr.boundaryFaces, nil, nil, true)
		globVec = setupSolver(t, dm, bs, sc)
		op      = bs.GradientOperator()
		dim     = sc.dim
	)
	nr, nc := op.Dims()
	assert.Equal(t, len(bs.GetStencils())*dim, nr)
	assert.Equal(t, dm.Mesh.NumElements, nc)

	grads, err := bs.ApplyGradientOperator(op, globVec, "fieldB", 0)
	require.NoError(t, err)
	fieldB, _ := dm.GetField("fieldB")
	for s, gs := range bs.GetStencils() {
		values := make([]float64, gs.Size())
		for i, c := range gs.Stencil {
			values[i] = globVec.FieldRead(c, fieldB)[0]
		}
		grad := make([]float64, dim)
		ComputeGradient(dim, globVec.FieldRead(gs.Cell, fieldB)[0], gs.Size(), values, gs.GradientWeights, grad)
		for d := 0; d < dim; d++ {
			assert.InDelta(t, grad[d], grads.AtVec(s*dim+d), 1.e-10)
		}
		assert.InDelta(t, 10., grads.AtVec(s*dim), 1.e-8)
		assert.InDelta(t, 3., grads.AtVec(s*dim+1), 1.e-8)
	}

	_, err = bs.ApplyGradientOperator(op, globVec, "fieldB", 1)
	assert.Error(t, err)
	_, err = bs.ApplyGradientOperator(op, globVec, "nope", 0)
	assert.Error(t, err)
}

func TestBoundarySolverErrors(t *testing.T) {
	sc := scenarios[1]
	t.Run("register", func(t *testing.T) {
		var (
			tr = newTestRegions()
			dm = newSphereDomain(t, sc.dim, tr)
			bs = NewBoundarySolver("errors", tr.boundaryCells, tr.boundaryFaces, nil, nil, true)
		)
		noop := func(int, *BoundaryFVFaceGeom, *domain.CellGeom, []int, []float64, [][]float64,
			[]int, []float64, [][]float64, int, []int, []float64, []int, []float64) error {
			return nil
		}
		assert.Error(t, bs.RegisterFunction(noop, []string{"resultGrad"}, nil, nil, Point))
		assert.Error(t, bs.Setup())
		setupSolver(t, dm, bs, sc)
		assert.Error(t, bs.RegisterFunction(noop, []string{"nope"}, nil, nil, Point))
		assert.Error(t, bs.RegisterFunction(noop, []string{"auxA"}, nil, nil, Point))
		assert.Error(t, bs.RegisterFunction(noop, []string{"resultGrad"}, []string{"auxA"}, nil, Point))
		assert.Error(t, bs.RegisterFunction(noop, []string{"resultGrad"}, nil, []string{"fieldA"}, Point))
		assert.Error(t, bs.RegisterFunction(noop, []string{"resultGrad"}, nil, nil, BoundarySourceType(7)))
		assert.NoError(t, bs.RegisterFunction(noop, []string{"resultGrad"}, []string{"fieldA"}, []string{"auxA"}, Point))

		globVec := dm.GetSolutionVector()
		assert.Error(t, bs.ComputeRHSFunction(0, globVec, dm.GetAuxVector()))
	})
	t.Run("callback", func(t *testing.T) {
		var (
			tr      = newTestRegions()
			dm      = newSphereDomain(t, sc.dim, tr)
			bs      = NewBoundarySolver("failing", tr.boundaryCells, tr.boundaryFaces, nil, nil, true)
			globVec = setupSolver(t, dm, bs, sc)
		)
		require.NoError(t, bs.RegisterFunction(func(int, *BoundaryFVFaceGeom, *domain.CellGeom, []int, []float64, [][]float64,
			[]int, []float64, [][]float64, int, []int, []float64, []int, []float64) error {
			return fmt.Errorf("bad value")
		}, []string{"resultGrad"}, nil, nil, Distributed))
		err := bs.ComputeRHSFunction(0, globVec, dm.CreateLocalVector())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failing")
		assert.Contains(t, err.Error(), "bad value")
		assert.Contains(t, err.Error(), fmt.Sprintf("cell %d", bs.GetCellRange().Cell(0)))
	})
	t.Run("process", func(t *testing.T) {
		var (
			tr = newTestRegions()
			dm = newSphereDomain(t, sc.dim, tr)
			bs = NewBoundarySolver("process", tr.boundaryCells, tr.boundaryFaces,
				[]BoundaryProcess{NewGradientProcess("normalGrad", []string{"fieldA"}, nil, false, Point)}, nil, true)
		)
		assert.Error(t, dm.InitializeSubDomains([]domain.Solver{bs}, nil))
	})
	t.Run("stencil", func(t *testing.T) {
		var (
			tr = newTestRegions()
			dm = newSphereDomain(t, sc.dim, tr)
			bs = NewBoundarySolver("tight", tr.boundaryCells, tr.boundaryFaces, nil,
				&Options{StencilRadius: 0.01, MaxStencilLevels: 1}, true)
		)
		err := dm.InitializeSubDomains([]domain.Solver{bs}, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "tight")
	})
}

func TestStencilRadiusAndLevels(t *testing.T) {
	sc := scenarios[2]
	var (
		tr = newTestRegions()
		dm = newSphereDomain(t, sc.dim, tr)
		bs = NewBoundarySolver("radius", tr.boundaryCells, tr.boundaryFaces, nil,
			&Options{StencilRadius: 0.3, MaxStencilLevels: 2}, false)
	)
	setupSolver(t, dm, bs, sc)
	inside := dm.GetLabel(tr.inside).Cells
	for _, gs := range bs.GetStencils() {
		require.Len(t, gs.Faces, 1)
		require.True(t, gs.Size() >= sc.dim)
		var sum float64
		for i, c := range gs.Stencil {
			assert.True(t, inside.Contains(c))
			cg := dm.GetCellGeometry(c)
			assert.Less(t, utils.Distance(3, cg.Centroid[:], gs.Geometry.Centroid[:]), 0.3)
			assert.Equal(t, cg.Volume, gs.Volumes[i])
			sum += gs.DistributionWeights[i]
		}
		assert.InDelta(t, 1., sum, 1.e-12)
		assert.InDelta(t, 1., utils.MagVector(3, gs.Geometry.Normal[:]), 1.e-12)
	}
	assert.Empty(t, bs.GetBoundaryGeometry(inside.Points()[0]))
}

func TestNewBoundarySourceType(t *testing.T) {
	st, err := NewBoundarySourceType("Distributed")
	assert.NoError(t, err)
	assert.Equal(t, Distributed, st)
	st, err = NewBoundarySourceType("")
	assert.NoError(t, err)
	assert.Equal(t, Point, st)
	_, err = NewBoundarySourceType("Line")
	assert.Error(t, err)
	assert.Equal(t, "Distributed", Distributed.String())
}
