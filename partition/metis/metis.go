/*
Package metis registers the "metis" partitioner. It needs cgo and the METIS
library, so it lives apart from the partition package and is linked in by
importing it for its side effect.
*/
package metis

import (
	"fmt"
	"log"

	metis "github.com/notargets/go-metis"

	"github.com/salam-lobad/ablate/domain"
	"github.com/salam-lobad/ablate/partition"
)

func init() {
	partition.Register("metis", func() partition.Partitioner { return NewMetisPartitioner(DefaultConfig()) })
}

type Config struct {
	ImbalanceFactor  float32 // e.g., 1.05 for 5% imbalance
	UseEdgeWeights   bool
	UseVertexWeights bool
	Objective        string // "cut" or "vol"
}

func DefaultConfig() *Config {
	return &Config{
		ImbalanceFactor:  1.05,
		UseEdgeWeights:   true,
		UseVertexWeights: true,
		Objective:        "vol", // minimize communication volume
	}
}

// MetisPartitioner partitions the element dual graph, elements joined by a shared face
type MetisPartitioner struct {
	config *Config
}

func NewMetisPartitioner(config *Config) *MetisPartitioner {
	return &MetisPartitioner{config: config}
}

func (mp *MetisPartitioner) Name() string { return "metis" }

func (mp *MetisPartitioner) Partition(m *domain.Mesh, np int) (etop []int, err error) {
	log.Printf("Partitioning mesh with %d elements into %d parts", m.NumElements, np)
	if np == 1 {
		return make([]int, m.NumElements), nil
	}
	xadj, adjncy, vwgt, adjwgt := mp.buildGraph(m)

	opts := make([]int32, metis.NoOptions)
	if err = metis.SetDefaultOptions(opts); err != nil {
		return nil, fmt.Errorf("failed to set METIS options: %w", err)
	}
	if mp.config.Objective == "vol" {
		opts[metis.OptionObjType] = metis.ObjTypeVol
	} else {
		opts[metis.OptionObjType] = metis.ObjTypeCut
	}
	ubvec := []float32{mp.config.ImbalanceFactor}

	var vwgtPtr, adjwgtPtr []int32
	if mp.config.UseVertexWeights {
		vwgtPtr = vwgt
	}
	if mp.config.UseEdgeWeights {
		adjwgtPtr = adjwgt
	}
	part, objval, err := metis.PartGraphKwayWeighted(
		xadj, adjncy, vwgtPtr, adjwgtPtr,
		int32(np), nil, ubvec, opts,
	)
	if err != nil {
		return nil, fmt.Errorf("METIS partitioning failed: %w", err)
	}
	log.Printf("  Objective value: %d", objval)
	etop = make([]int, m.NumElements)
	for i := range etop {
		etop[i] = int(part[i])
	}
	return
}

// Element weights follow the vertex count, face weights the face vertex count
func (mp *MetisPartitioner) buildGraph(m *domain.Mesh) (xadj, adjncy, vwgt, adjwgt []int32) {
	ne := m.NumElements
	if mp.config.UseVertexWeights {
		vwgt = make([]int32, ne)
		for i := 0; i < ne; i++ {
			vwgt[i] = int32(len(m.EtoV[i]))
		}
	}
	xadj = make([]int32, ne+1)
	for elem := 0; elem < ne; elem++ {
		for faceIdx, neighbor := range m.EToE[elem] {
			if neighbor >= 0 && neighbor != elem {
				adjncy = append(adjncy, int32(neighbor))
				if mp.config.UseEdgeWeights {
					face := m.Faces[m.EToF[elem][faceIdx]]
					adjwgt = append(adjwgt, int32(len(face.Vertices)))
				}
			}
		}
		xadj[elem+1] = int32(len(adjncy))
	}
	return
}
