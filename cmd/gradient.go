package cmd

import (
	"fmt"
	"log"
	"os"
	"sort"
	"time"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/salam-lobad/ablate/InputParameters"
	"github.com/salam-lobad/ablate/boundarysolver"
	"github.com/salam-lobad/ablate/domain"
	"github.com/salam-lobad/ablate/environment"
	"github.com/salam-lobad/ablate/mathfunctions"
	"github.com/salam-lobad/ablate/mathfunctions/geom"
	"github.com/salam-lobad/ablate/monitors"
	"github.com/salam-lobad/ablate/partition"
	_ "github.com/salam-lobad/ablate/partition/metis"
	"github.com/salam-lobad/ablate/utils"
)

type GradientModel struct {
	ICFile     string
	Graph      bool
	Profile    string // "", "cpu" or "mem"
	Perf       bool
	Partitions int // Overrides the input file when > 0
}

// GradientReport summarizes one boundary gradient evaluation
type GradientReport struct {
	Title         string
	Partitions    int
	BoundaryCells int
	Stencils      int
	Elapsed       time.Duration
	Instructions  uint64
	Errors        map[string][]float64 // Per gradient field, one entry per component
}

func (gr *GradientReport) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", gr.Title)
	fmt.Printf("[%d]\t\t\t\t= Partitions\n", gr.Partitions)
	fmt.Printf("[%d]\t\t\t\t= Boundary Cells\n", gr.BoundaryCells)
	fmt.Printf("[%d]\t\t\t\t= Stencils\n", gr.Stencils)
	fmt.Printf("[%v]\t\t= Elapsed\n", gr.Elapsed)
	if gr.Instructions > 0 {
		fmt.Printf("[%d]\t\t= CPU Instructions\n", gr.Instructions)
	}
	names := make([]string, 0, len(gr.Errors))
	for name := range gr.Errors {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("Errors[%s] = %v\n", name, gr.Errors[name])
	}
}

// GradientCmd represents the gradient command
var GradientCmd = &cobra.Command{
	Use:   "gradient",
	Short: "Reconstruct boundary gradients of analytic fields on a box mesh",
	Long: `
Builds a box mesh or reads a Gmsh file, labels the cells inside a sphere or box region, tags the
faces on the region boundary and reconstructs the gradient of each input field
at those faces. Errors against the expected gradients are reported.

ablate gradient -I input.yaml`,
	Run: func(cmd *cobra.Command, args []string) {
		var (
			err error
		)
		gm := &GradientModel{}
		if gm.ICFile, err = cmd.Flags().GetString("inputConditionsFile"); err != nil {
			panic(err)
		}
		gm.Graph, _ = cmd.Flags().GetBool("graph")
		gm.Profile, _ = cmd.Flags().GetString("profile")
		gm.Perf, _ = cmd.Flags().GetBool("perf")
		gm.Partitions, _ = cmd.Flags().GetInt("partitions")
		ip, err := processInput(gm)
		if err != nil {
			fmt.Printf("error: %s\n", err.Error())
			os.Exit(1)
		}
		ip.Print()
		report, err := RunGradient(gm, ip)
		if err != nil {
			fmt.Printf("error: %s\n", err.Error())
			os.Exit(1)
		}
		report.Print()
	},
}

const exampleFile = `
########################################
Title: "Sphere Test"
Faces: [5, 5]
Lower: [0, 0]
Upper: [1, 1]
Simplex: true
Region:
  Type: sphere
  Center: [0.5, 0.5]
  Radius: 0.25
Partitions: 2
Partitioner: block # Can be "metis"
MergeFaces: true
SourceType: Point # Can be "Distributed"
Fields:
  - Name: fieldA
    Expression: "x + y"
ExpectedGradients:
  - Name: fieldA
    Expression: "1, 1, 0"
########################################
`

func processInput(gm *GradientModel) (ip *InputParameters.BoundaryGradientParameters, err error) {
	if len(gm.ICFile) == 0 {
		fmt.Printf("Example File:%s\n", exampleFile)
		return nil, fmt.Errorf("must supply an input parameters file (-I, --inputConditionsFile) in YAML format")
	}
	var data []byte
	if data, err = os.ReadFile(gm.ICFile); err != nil {
		return
	}
	ip = &InputParameters.BoundaryGradientParameters{}
	if err = ip.Parse(data); err != nil {
		return nil, fmt.Errorf("%s: %w", gm.ICFile, err)
	}
	if gm.Partitions > 0 {
		ip.Partitions = gm.Partitions
	}
	if err = ip.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", gm.ICFile, err)
	}
	return
}

func init() {
	rootCmd.AddCommand(GradientCmd)
	GradientCmd.Flags().StringP("inputConditionsFile", "I", "", "YAML file for input parameters like:\n\t- Faces, Lower, Upper\n\t- Region\n\t- Fields")
	GradientCmd.Flags().BoolP("graph", "g", false, "display the mesh, boundary faces and normals (2D only)")
	GradientCmd.Flags().StringP("profile", "p", "", "write a cpu or mem profile to the output directory")
	GradientCmd.Flags().Bool("perf", false, "count cpu instructions of the gradient evaluation (linux only)")
}

// runEnvironment layers the input file over the global config and initializes the environment
func runEnvironment(ip *InputParameters.BoundaryGradientParameters) (err error) {
	v := viper.New()
	for _, key := range []string{environment.KeyTitle, environment.KeyOutputDirectory, environment.KeyPartitions,
		environment.KeyPartitioner, environment.KeyStencilRadius, environment.KeyMaxStencilLevels} {
		if viper.IsSet(key) {
			v.Set(key, viper.Get(key))
		}
	}
	if ip.Title != "" {
		v.Set(environment.KeyTitle, ip.Title)
	}
	if ip.Partitions > 0 {
		v.Set(environment.KeyPartitions, ip.Partitions)
	}
	if ip.Partitioner != "" {
		v.Set(environment.KeyPartitioner, ip.Partitioner)
	}
	if ip.StencilRadius > 0 {
		v.Set(environment.KeyStencilRadius, ip.StencilRadius)
	}
	if ip.MaxStencilLevels > 0 {
		v.Set(environment.KeyMaxStencilLevels, ip.MaxStencilLevels)
	}
	return environment.Initialize(v)
}

// gradientProblem is the domain and solver built from the input parameters
type gradientProblem struct {
	dm                   *domain.Domain
	bs                   *boundarysolver.BoundarySolver
	inside, faces, cells *domain.Region
	fieldRegion          *domain.Region
	solFields, auxFields []*mathfunctions.FieldFunction
	expected             []*mathfunctions.FieldFunction
	sourceType           boundarysolver.BoundarySourceType
}

func gradientFieldName(name string) string { return name + "Gradient" }

const normalGradientField = "normalGradients"

func newGradientProblem(ip *InputParameters.BoundaryGradientParameters) (gp *gradientProblem, err error) {
	var (
		descriptors []domain.FieldDescriptor
		processes   []boundarysolver.BoundaryProcess
		names       []string
		solNames    []string
		auxNames    []string
		labelFn     mathfunctions.MathFunction
	)
	gp = &gradientProblem{
		inside:      domain.NewRegion("insideRegion"),
		faces:       domain.NewRegion("boundaryFaces"),
		cells:       domain.NewRegion("boundaryCells"),
		fieldRegion: domain.NewRegion("fieldRegion"),
	}
	if gp.sourceType, err = boundarysolver.NewBoundarySourceType(ip.SourceType); err != nil {
		return nil, err
	}
	for _, f := range ip.Fields {
		var mf mathfunctions.MathFunction
		if mf, err = mathfunctions.Create(f.Expression); err != nil {
			return nil, fmt.Errorf("field %s: %w", f.Name, err)
		}
		gp.solFields = append(gp.solFields, mathfunctions.NewFieldFunction(f.Name, mf))
		descriptors = append(descriptors, domain.NewFieldDescription(f.Name, "", domain.OneComponent,
			domain.SOL, domain.FVM, gp.fieldRegion))
		processes = append(processes, boundarysolver.NewGradientProcess(gradientFieldName(f.Name),
			[]string{f.Name}, nil, false, gp.sourceType))
		solNames = append(solNames, f.Name)
	}
	for _, f := range ip.AuxFields {
		var mf mathfunctions.MathFunction
		if mf, err = mathfunctions.Create(f.Expression); err != nil {
			return nil, fmt.Errorf("aux field %s: %w", f.Name, err)
		}
		gp.auxFields = append(gp.auxFields, mathfunctions.NewFieldFunction(f.Name, mf))
		descriptors = append(descriptors, domain.NewFieldDescription(f.Name, "", domain.OneComponent,
			domain.AUX, domain.FVM, gp.fieldRegion))
		processes = append(processes, boundarysolver.NewGradientProcess(gradientFieldName(f.Name),
			nil, []string{f.Name}, false, gp.sourceType))
		auxNames = append(auxNames, f.Name)
	}
	names = append(append(names, solNames...), auxNames...)
	for _, name := range names {
		descriptors = append(descriptors, domain.NewFieldDescription(gradientFieldName(name), "",
			[]string{name + "Grad" + domain.Dimension}, domain.SOL, domain.FVM, gp.fieldRegion))
	}
	descriptors = append(descriptors, domain.NewFieldDescription(normalGradientField, "", names,
		domain.SOL, domain.FVM, gp.fieldRegion))
	processes = append(processes, boundarysolver.NewGradientProcess(normalGradientField, solNames, auxNames,
		true, gp.sourceType))

	switch ip.Region.Type {
	case "sphere", "Sphere":
		labelFn = geom.NewSphere(ip.Region.Center, ip.Region.Radius)
	default:
		labelFn = geom.NewBox(ip.Region.Lower, ip.Region.Upper)
	}
	modifiers := []domain.Modifier{
		domain.NewCreateLabel(gp.inside, labelFn),
		domain.NewTagLabelBoundary(gp.inside, gp.faces, gp.cells),
		domain.NewMergeLabels(gp.fieldRegion, []*domain.Region{gp.inside, gp.cells}),
		partition.NewDistributeWithGhostCells(0, "", 1),
	}
	title := ip.Title
	if title == "" {
		title = environment.Get().Title
	}
	switch {
	case ip.MeshFile != "":
		gp.dm, err = domain.NewGmshMesh(title, descriptors, modifiers, ip.MeshFile)
	case ip.Delaunay:
		gp.dm, err = domain.NewDelaunayBoxMesh(title, descriptors, modifiers, ip.Faces, ip.Lower, ip.Upper)
	default:
		gp.dm, err = domain.NewBoxMesh(title, descriptors, modifiers, ip.Faces, ip.Lower, ip.Upper, ip.Simplex)
	}
	if err != nil {
		return nil, err
	}
	for _, f := range ip.ExpectedGradients {
		var mf mathfunctions.MathFunction
		if mf, err = mathfunctions.Create(f.Expression); err != nil {
			return nil, fmt.Errorf("expected gradient %s: %w", f.Name, err)
		}
		gp.expected = append(gp.expected,
			mathfunctions.NewFieldFunction(gradientFieldName(f.Name), newLeadingComponents(mf, gp.dm.Dim)))
	}
	gp.bs = boundarysolver.NewBoundarySolver("boundaryGradients", gp.cells, gp.faces, processes, nil,
		ip.MergeFaces)
	return
}

// RunGradient evaluates the boundary gradients described by ip
func RunGradient(gm *GradientModel, ip *InputParameters.BoundaryGradientParameters) (report *GradientReport, err error) {
	if err = runEnvironment(ip); err != nil {
		return
	}
	defer environment.Finalize()
	env := environment.Get()
	switch gm.Profile {
	case "":
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(env.OutputDirectory)).Stop()
	case "mem":
		defer profile.Start(profile.MemProfile, profile.ProfilePath(env.OutputDirectory)).Stop()
	default:
		return nil, fmt.Errorf("unknown profile %q, expected cpu or mem", gm.Profile)
	}

	var gp *gradientProblem
	if gp, err = newGradientProblem(ip); err != nil {
		return
	}
	var (
		dm = gp.dm
		bs = gp.bs
	)
	if err = dm.InitializeSubDomains([]domain.Solver{bs}, nil); err != nil {
		return
	}
	var (
		sd      = bs.GetSubDomain()
		globVec = dm.GetSolutionVector()
		locF    = sd.CreateLocalVector()
	)
	if err = dm.ProjectFieldFunctions(gp.solFields, globVec); err != nil {
		return
	}
	if err = sd.ProjectFieldFunctionsToLocalVector(gp.auxFields, sd.GetAuxVector()); err != nil {
		return
	}
	if err = bs.InsertFieldFunctions(gp.solFields, 0); err != nil {
		return
	}
	if err = bs.InsertFieldFunctions(gp.auxFields, 0); err != nil {
		return
	}

	report = &GradientReport{
		Title:         env.Title,
		Partitions:    dm.NumPartitions,
		BoundaryCells: bs.GetCellRange().Len(),
		Stencils:      len(bs.GetStencils()),
	}
	rhs := func() error { return bs.ComputeRHSFunction(0, globVec, locF) }
	start := time.Now()
	if gm.Perf {
		report.Instructions, err = countInstructions(rhs)
	} else {
		err = rhs()
	}
	if err != nil {
		return nil, err
	}
	report.Elapsed = time.Since(start)
	log.Printf("boundary gradients computed in %v, %s", report.Elapsed, utils.GetMemUsage())

	if report.Errors, err = gp.gradientErrors(ip, locF); err != nil {
		return nil, err
	}
	if gm.Graph {
		if dm.Dim != 2 {
			return nil, fmt.Errorf("graph is only available in 2D, have %dD", dm.Dim)
		}
		PlotBoundary(dm, bs)
	}
	return
}

/*
gradientErrors compares the reconstructed gradients with the expected ones.
Point sources on merged faces are checked cell by cell against the gradient at
the boundary cell centroid. Otherwise the source integrated over the field
region is compared with the sum of the gradients at the stencil faces.
*/
func (gp *gradientProblem) gradientErrors(ip *InputParameters.BoundaryGradientParameters,
	locF *domain.Vector) (errs map[string][]float64, err error) {
	var (
		norm = utils.L2
		sd   = gp.bs.GetSubDomain()
		dim  = sd.GetDimensions()
	)
	if ip.Norm != "" {
		if norm, err = utils.NewNorm(ip.Norm); err != nil {
			return
		}
	}
	errs = make(map[string][]float64)
	if gp.sourceType == boundarysolver.Point && ip.MergeFaces {
		monitor := monitors.NewSolutionErrorMonitor(monitors.Component, norm, gp.cells)
		var values []float64
		for _, fn := range gp.expected {
			if values, err = monitor.ComputeError(sd, 0, locF, []*mathfunctions.FieldFunction{fn}); err != nil {
				return
			}
			if utils.IsNan(values) {
				return nil, fmt.Errorf("gradient error for %s is not a number", fn.Name)
			}
			errs[fn.Name] = values
		}
		return
	}
	cells := sd.GetFieldCells().Points()
	for _, fn := range gp.expected {
		var field *domain.Field
		if field, err = sd.GetField(fn.Name); err != nil {
			return
		}
		var (
			integral = make([]float64, field.NumComponents)
			exact    = make([]float64, field.NumComponents)
			face     = make([]float64, field.NumComponents)
		)
		for _, cell := range cells {
			scale := 1.
			if gp.sourceType == boundarysolver.Distributed {
				scale = sd.GetCellGeometry(cell).Volume
			}
			for c, v := range locF.FieldRead(cell, field) {
				integral[c] += scale * v
			}
		}
		for _, gs := range gp.bs.GetStencils() {
			fn.Function.EvalVector(gs.Geometry.Centroid[:], dim, 0, face)
			for c := range exact {
				exact[c] += face[c]
			}
		}
		for c := range integral {
			integral[c] -= exact[c]
		}
		if utils.IsNan(integral) {
			return nil, fmt.Errorf("integrated gradient for %s is not a number", fn.Name)
		}
		errs[fn.Name] = []float64{utils.ComputeNorm(norm, integral)}
	}
	return
}

// leadingComponents keeps the first size components of a vector function
type leadingComponents struct {
	mathfunctions.MathFunction
	size    int
	scratch []float64
}

func newLeadingComponents(mf mathfunctions.MathFunction, size int) *leadingComponents {
	n := mf.Size()
	if n < size {
		n = size
	}
	return &leadingComponents{MathFunction: mf, size: size, scratch: make([]float64, n)}
}

func (lc *leadingComponents) Size() int { return lc.size }

func (lc *leadingComponents) EvalVector(x []float64, dim int, time float64, result []float64) {
	for i := range lc.scratch {
		lc.scratch[i] = 0
	}
	lc.MathFunction.EvalVector(x, dim, time, lc.scratch)
	copy(result[:lc.size], lc.scratch)
}
