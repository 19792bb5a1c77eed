package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	utils2 "github.com/notargets/avs/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salam-lobad/ablate/InputParameters"
	"github.com/salam-lobad/ablate/domain"
	"github.com/salam-lobad/ablate/environment"
	"github.com/salam-lobad/ablate/mathfunctions"
)

var sphereInput = []byte(`
Title: Sphere Test
Faces: [5, 5]
Lower: [0, 0]
Upper: [1, 1]
Simplex: true
Region:
  Type: sphere
  Center: [0.5, 0.5]
  Radius: 0.25
Partitions: 2
Partitioner: block
MergeFaces: true
SourceType: Point
Fields:
  - Name: fieldA
    Expression: "x + y + z"
  - Name: fieldB
    Expression: "10*x + 3*y +2*z"
AuxFields:
  - Name: auxA
    Expression: "-x - y -z"
ExpectedGradients:
  - Name: fieldA
    Expression: "1, 1, 1"
  - Name: fieldB
    Expression: "10, 3, 2"
  - Name: auxA
    Expression: "-1, -1, -1"
`)

func writeInput(t *testing.T, data []byte) string {
	fileName := filepath.Join(t.TempDir(), "input.yaml")
	require.NoError(t, os.WriteFile(fileName, data, 0644))
	return fileName
}

func TestProcessInput(t *testing.T) {
	gm := &GradientModel{ICFile: writeInput(t, sphereInput), Partitions: 3}
	ip, err := processInput(gm)
	require.NoError(t, err)
	assert.Equal(t, "Sphere Test", ip.Title)
	assert.Equal(t, 3, ip.Partitions)
	assert.Len(t, ip.ExpectedGradients, 3)

	_, err = processInput(&GradientModel{})
	assert.Error(t, err)
	_, err = processInput(&GradientModel{ICFile: filepath.Join(t.TempDir(), "missing.yaml")})
	assert.Error(t, err)
	_, err = processInput(&GradientModel{ICFile: writeInput(t, []byte("Faces: [5, 5]\nLower: [0]\n"))})
	assert.Error(t, err)
}

func TestRunGradient(t *testing.T) {
	for _, tc := range []struct {
		name       string
		sourceType string
		merge      bool
		delaunay   bool
		partitions int
	}{
		{"point/merged", "Point", true, false, 2},
		{"point/faces", "Point", false, false, 1},
		{"distributed/merged", "Distributed", true, false, 3},
		{"distributed/delaunay", "Distributed", true, true, 1},
	} {
		t.Run(tc.name, func(t *testing.T) {
			var ip InputParameters.BoundaryGradientParameters
			require.NoError(t, ip.Parse(sphereInput))
			ip.SourceType, ip.MergeFaces, ip.Delaunay, ip.Partitions = tc.sourceType, tc.merge, tc.delaunay, tc.partitions
			require.NoError(t, ip.Validate())

			report, err := RunGradient(&GradientModel{}, &ip)
			require.NoError(t, err)
			assert.False(t, environment.Initialized())
			assert.Equal(t, "Sphere Test", report.Title)
			assert.Equal(t, tc.partitions, report.Partitions)
			assert.True(t, report.BoundaryCells > 0)
			if tc.merge {
				assert.Equal(t, report.BoundaryCells, report.Stencils)
			} else {
				assert.True(t, report.Stencils >= report.BoundaryCells)
			}
			require.Len(t, report.Errors, 3)
			for name, errs := range report.Errors {
				for _, e := range errs {
					assert.InDelta(t, 0, e, 1.e-8, "gradient error for %s", name)
				}
			}
			report.Print()
		})
	}
}

func TestRunGradientErrors(t *testing.T) {
	var ip InputParameters.BoundaryGradientParameters
	require.NoError(t, ip.Parse(sphereInput))

	_, err := RunGradient(&GradientModel{Profile: "disk"}, &ip)
	assert.Error(t, err)
	assert.False(t, environment.Initialized())

	bad := ip
	bad.SourceType = "Everywhere"
	_, err = RunGradient(&GradientModel{}, &bad)
	assert.Error(t, err)

	bad = ip
	bad.Fields = []InputParameters.FieldParameters{{Name: "fieldA", Expression: "x + "}}
	_, err = RunGradient(&GradientModel{}, &bad)
	assert.Error(t, err)

	bad = ip
	bad.Partitioner = "unknown"
	_, err = RunGradient(&GradientModel{}, &bad)
	assert.Error(t, err)
}

func TestBoundaryLines(t *testing.T) {
	var ip InputParameters.BoundaryGradientParameters
	require.NoError(t, ip.Parse(sphereInput))
	ip.Partitions = 1
	require.NoError(t, runEnvironment(&ip))
	defer environment.Finalize()
	gp, err := newGradientProblem(&ip)
	require.NoError(t, err)
	require.NoError(t, gp.dm.InitializeSubDomains([]domain.Solver{gp.bs}, nil))

	lines := BoundaryLines(gp.dm, gp.bs)
	var (
		white = len(lines[utils2.WHITE]) / 4
		red   = len(lines[utils2.RED]) / 4
		green = len(lines[utils2.GREEN]) / 4
	)
	assert.Equal(t, gp.dm.Mesh.NumFaces, white+red)
	assert.Equal(t, len(gp.bs.GetStencils()), green)
	assert.True(t, red >= green)

	xMin, xMax, yMin, yMax := getMinMax([]float32{0.5, 0.2, -1, 3, 2, 0}, 0, 0, 0, 0)
	assert.Equal(t, []float32{-1, 2, 0, 3}, []float32{xMin, xMax, yMin, yMax})
}

func TestLeadingComponents(t *testing.T) {
	lc := newLeadingComponents(mathfunctions.MustCreate("x, 2*y, 3"), 2)
	assert.Equal(t, 2, lc.Size())
	result := make([]float64, 2)
	lc.EvalVector([]float64{1, 2}, 2, 0, result)
	assert.Equal(t, []float64{1, 4}, result)

	lc = newLeadingComponents(mathfunctions.MustCreate("x"), 3)
	result = []float64{9, 9, 9}
	lc.EvalVector([]float64{5, 1, 1}, 3, 0, result)
	assert.Equal(t, []float64{5, 0, 0}, result)
}

// writeGmshSquare writes an n by n unit square of triangles in Gmsh 2.2 format
func writeGmshSquare(t *testing.T, n int) string {
	var sb strings.Builder
	sb.WriteString("$MeshFormat\n2.2 0 8\n$EndMeshFormat\n")
	fmt.Fprintf(&sb, "$Nodes\n%d\n", (n+1)*(n+1))
	node := func(i, j int) int { return j*(n+1) + i + 1 }
	for j := 0; j <= n; j++ {
		for i := 0; i <= n; i++ {
			fmt.Fprintf(&sb, "%d %g %g 0\n", node(i, j), float64(i)/float64(n), float64(j)/float64(n))
		}
	}
	fmt.Fprintf(&sb, "$EndNodes\n$Elements\n%d\n", 2*n*n)
	id := 1
	for j := 0; j < n; j++ {
		for i := 0; i < n; i++ {
			fmt.Fprintf(&sb, "%d 2 2 0 1 %d %d %d\n", id, node(i, j), node(i+1, j), node(i+1, j+1))
			fmt.Fprintf(&sb, "%d 2 2 0 1 %d %d %d\n", id+1, node(i, j), node(i+1, j+1), node(i, j+1))
			id += 2
		}
	}
	sb.WriteString("$EndElements\n")
	return writeInput(t, []byte(sb.String()))
}

func TestRunGradientMeshFile(t *testing.T) {
	var ip InputParameters.BoundaryGradientParameters
	require.NoError(t, ip.Parse(sphereInput))
	ip.MeshFile = writeGmshSquare(t, 5)
	ip.Faces, ip.Lower, ip.Upper = nil, nil, nil
	ip.Partitions = 1
	require.NoError(t, ip.Validate())

	report, err := RunGradient(&GradientModel{}, &ip)
	require.NoError(t, err)
	assert.True(t, report.BoundaryCells > 0)
	for name, errs := range report.Errors {
		for _, e := range errs {
			assert.InDelta(t, 0, e, 1.e-8, "gradient error for %s", name)
		}
	}
}
