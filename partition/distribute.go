package partition

import (
	"fmt"
	"log"

	"github.com/salam-lobad/ablate/domain"
	"github.com/salam-lobad/ablate/environment"
	"github.com/salam-lobad/ablate/utils"
)

const (
	// OwnedRegionName labels the cells of partition p with value p
	OwnedRegionName = "partition"
	GhostRegionName = "ghost"
)

/*
DistributeWithGhostCells is a domain modifier that splits the mesh into
partitions. It sets the mesh element to partition map, labels each
partition's owned and ghost cells, and sets the domain partition count.
*/
type DistributeWithGhostCells struct {
	Partitions  int    // Zero takes the run environment value
	Method      string // Empty takes the run environment value
	GhostLevels int
	Layout      *Layout
}

func NewDistributeWithGhostCells(partitions int, method string, ghostLevels int) *DistributeWithGhostCells {
	return &DistributeWithGhostCells{Partitions: partitions, Method: method, GhostLevels: ghostLevels}
}

func (dg *DistributeWithGhostCells) String() string {
	return fmt.Sprintf("distributeWithGhostCells(%d, %s, %d)", dg.Partitions, dg.Method, dg.GhostLevels)
}

func (dg *DistributeWithGhostCells) Modify(dm *domain.Domain) (err error) {
	var (
		env    = environment.Get()
		np     = dg.Partitions
		method = dg.Method
		part   Partitioner
		etop   []int
	)
	if np == 0 {
		np = env.Partitions
	}
	if method == "" {
		method = env.Partitioner
	}
	if np == 1 {
		dm.Mesh.EToP = make([]int, dm.Mesh.NumElements)
		dm.NumPartitions = 1
		dg.Layout = NewLayout(dm.Mesh, dm.Mesh.EToP, 1, 0)
		dg.label(dm)
		return
	}
	if part, err = NewPartitioner(method); err != nil {
		return
	}
	if etop, err = part.Partition(dm.Mesh, np); err != nil {
		return fmt.Errorf("%s partitioner: %w", part.Name(), err)
	}
	if len(etop) != dm.Mesh.NumElements {
		return fmt.Errorf("%s partitioner returned %d assignments for %d elements",
			part.Name(), len(etop), dm.Mesh.NumElements)
	}
	for k, p := range etop {
		if p < 0 || p >= np {
			return fmt.Errorf("%s partitioner put element %d in partition %d of %d", part.Name(), k, p, np)
		}
	}
	dm.Mesh.EToP = etop
	dm.NumPartitions = np
	dg.Layout = NewLayout(dm.Mesh, etop, np, dg.GhostLevels)
	dg.label(dm)
	log.Printf("domain %s distributed over %d partitions by %s", dm.Name, np, part.Name())
	Analyze(dm.Mesh, dg.Layout, etop)
	return
}

func (dg *DistributeWithGhostCells) label(dm *domain.Domain) {
	for p := 0; p < dg.Layout.NumPartitions; p++ {
		dm.SetLabel(&domain.Region{Name: OwnedRegionName, Value: p},
			domain.Label{Cells: utils.NewIndexSet(dg.Layout.Owned[p]...)})
		dm.SetLabel(&domain.Region{Name: GhostRegionName, Value: p},
			domain.Label{Cells: utils.NewIndexSet(dg.Layout.Ghosts[p]...)})
	}
}
