/*
Package environment holds the process wide run environment. It is set up once
with Initialize and torn down with Finalize. Settings come from viper so that
the config file, the environment and the command line all feed the same
values.
*/
package environment

import (
	"fmt"
	"log"
	"os"
	"runtime"
	"sync"

	"github.com/spf13/viper"
)

const (
	KeyTitle            = "title"
	KeyOutputDirectory  = "outputDirectory"
	KeyPartitions       = "partitions"
	KeyPartitioner      = "partitioner"
	KeyStencilRadius    = "stencilRadius"
	KeyMaxStencilLevels = "maxStencilLevels"
)

type RunEnvironment struct {
	Title            string
	OutputDirectory  string
	Partitions       int    // Number of mesh partitions, each run on its own goroutine
	Partitioner      string // "block" or "metis"
	StencilRadius    float64
	MaxStencilLevels int
}

var (
	mu          sync.Mutex
	current     *RunEnvironment
	cleanUpFncs []func()
)

func defaults(v *viper.Viper) {
	v.SetDefault(KeyTitle, "ablate")
	v.SetDefault(KeyOutputDirectory, "")
	v.SetDefault(KeyPartitions, 1)
	v.SetDefault(KeyPartitioner, "block")
	v.SetDefault(KeyStencilRadius, 0.)
	v.SetDefault(KeyMaxStencilLevels, 3)
}

/*
Initialize sets up the run environment from v, which may be nil. A second call
before Finalize leaves the existing environment in place.
*/
func Initialize(v *viper.Viper) (err error) {
	mu.Lock()
	defer mu.Unlock()
	if current != nil {
		return
	}
	if v == nil {
		v = viper.New()
	}
	defaults(v)
	re := &RunEnvironment{
		Title:            v.GetString(KeyTitle),
		OutputDirectory:  v.GetString(KeyOutputDirectory),
		Partitions:       v.GetInt(KeyPartitions),
		Partitioner:      v.GetString(KeyPartitioner),
		StencilRadius:    v.GetFloat64(KeyStencilRadius),
		MaxStencilLevels: v.GetInt(KeyMaxStencilLevels),
	}
	switch {
	case re.Partitions < 1:
		err = fmt.Errorf("partitions must be at least 1, have %d", re.Partitions)
	case re.Partitions > 4*runtime.NumCPU():
		log.Printf("%d partitions requested on %d cpus", re.Partitions, runtime.NumCPU())
	}
	if err != nil {
		return
	}
	if re.MaxStencilLevels < 1 {
		err = fmt.Errorf("maxStencilLevels must be at least 1, have %d", re.MaxStencilLevels)
		return
	}
	if re.OutputDirectory != "" {
		if err = os.MkdirAll(re.OutputDirectory, 0755); err != nil {
			err = fmt.Errorf("unable to create output directory: %w", err)
			return
		}
	}
	current = re
	return
}

// Finalize runs the registered clean up functions, last registered first
func Finalize() {
	mu.Lock()
	fncs := cleanUpFncs
	cleanUpFncs = nil
	current = nil
	mu.Unlock()
	for i := len(fncs) - 1; i >= 0; i-- {
		fncs[i]()
	}
}

func RegisterCleanUpFunction(fn func()) {
	mu.Lock()
	defer mu.Unlock()
	cleanUpFncs = append(cleanUpFncs, fn)
}

func Initialized() bool {
	mu.Lock()
	defer mu.Unlock()
	return current != nil
}

// Get returns a copy of the run environment, or the defaults when not initialized
func Get() (re RunEnvironment) {
	mu.Lock()
	defer mu.Unlock()
	if current == nil {
		v := viper.New()
		defaults(v)
		return RunEnvironment{
			Title:            v.GetString(KeyTitle),
			Partitions:       v.GetInt(KeyPartitions),
			Partitioner:      v.GetString(KeyPartitioner),
			StencilRadius:    v.GetFloat64(KeyStencilRadius),
			MaxStencilLevels: v.GetInt(KeyMaxStencilLevels),
		}
	}
	return *current
}
