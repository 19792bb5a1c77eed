package partition

import (
	"fmt"
	"log"
	"math"
	"sort"
	"sync"

	"github.com/salam-lobad/ablate/domain"
	"github.com/salam-lobad/ablate/utils"
)

// Partitioner assigns each element of a mesh to one of np partitions
type Partitioner interface {
	Partition(m *domain.Mesh, np int) (etop []int, err error)
	Name() string
}

var (
	registryMu sync.Mutex
	registry   = map[string]func() Partitioner{
		"block": func() Partitioner { return &BlockPartitioner{} },
	}
)

// Register makes a partitioner available by name, packages register in init()
func Register(name string, factory func() Partitioner) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = factory
}

func NewPartitioner(name string) (p Partitioner, err error) {
	registryMu.Lock()
	defer registryMu.Unlock()
	factory, ok := registry[name]
	if !ok {
		var names []string
		for n := range registry {
			names = append(names, n)
		}
		sort.Strings(names)
		err = fmt.Errorf("unknown partitioner %q, available: %v", name, names)
		return
	}
	return factory(), nil
}

// BlockPartitioner splits the element numbering into contiguous blocks
type BlockPartitioner struct{}

func (bp *BlockPartitioner) Name() string { return "block" }

func (bp *BlockPartitioner) Partition(m *domain.Mesh, np int) (etop []int, err error) {
	if np < 1 || np > m.NumElements {
		err = fmt.Errorf("can not split %d elements into %d partitions", m.NumElements, np)
		return
	}
	pm := utils.NewPartitionMap(np, m.NumElements)
	etop = make([]int, m.NumElements)
	for k := range etop {
		etop[k], _, _ = pm.GetBucket(k)
	}
	return
}

/*
Layout lists the elements owned by each partition and the ghost elements each
partition reads from its neighbors. Ghosts are the vertex neighbors of owned
elements, collected over GhostLevels rings.
*/
type Layout struct {
	NumPartitions int
	Owned         [][]int
	Ghosts        [][]int
}

func NewLayout(m *domain.Mesh, etop []int, np, ghostLevels int) (lay *Layout) {
	lay = &Layout{
		NumPartitions: np,
		Owned:         make([][]int, np),
		Ghosts:        make([][]int, np),
	}
	for k, p := range etop {
		lay.Owned[p] = append(lay.Owned[p], k)
	}
	for p := 0; p < np; p++ {
		var (
			visited = make(map[int]bool)
			ring    = lay.Owned[p]
		)
		for _, k := range ring {
			visited[k] = true
		}
		for level := 0; level < ghostLevels; level++ {
			var next []int
			for _, k := range ring {
				for _, nb := range m.VertexNeighbors(k) {
					if !visited[nb] {
						visited[nb] = true
						next = append(next, nb)
					}
				}
			}
			lay.Ghosts[p] = append(lay.Ghosts[p], next...)
			ring = next
		}
		sort.Ints(lay.Ghosts[p])
	}
	return
}

// Stats holds the load and interface counts of one partition
type Stats struct {
	ID           int
	NumElements  int
	NumGhosts    int
	ElementTypes map[domain.ElementType]int
	NumNeighbors map[int]int // Neighbor partition to shared faces
}

// Analyze reports partition quality, it returns the number of faces cut by the partition
func Analyze(m *domain.Mesh, lay *Layout, etop []int) (stats []Stats, cutFaces int) {
	stats = make([]Stats, lay.NumPartitions)
	for i := range stats {
		stats[i] = Stats{
			ID:           i,
			NumElements:  len(lay.Owned[i]),
			NumGhosts:    len(lay.Ghosts[i]),
			ElementTypes: make(map[domain.ElementType]int),
			NumNeighbors: make(map[int]int),
		}
	}
	for k, p := range etop {
		stats[p].ElementTypes[m.ElementTypes[k]]++
	}
	for _, face := range m.Faces {
		if face.IsBoundary() {
			continue
		}
		p1, p2 := etop[face.Element], etop[face.Neighbor]
		if p1 != p2 {
			cutFaces++
			stats[p1].NumNeighbors[p2]++
			stats[p2].NumNeighbors[p1]++
		}
	}
	var (
		avgLoad          float64
		minLoad, maxLoad = math.MaxInt, 0
	)
	for _, s := range stats {
		avgLoad += float64(s.NumElements)
		minLoad = min(minLoad, s.NumElements)
		maxLoad = max(maxLoad, s.NumElements)
	}
	avgLoad /= float64(lay.NumPartitions)
	log.Printf("Partition Analysis:")
	log.Printf("  Cut faces: %d", cutFaces)
	log.Printf("  Load imbalance: %.2f%%", (float64(maxLoad)/avgLoad-1.)*100)
	log.Printf("  Load range: [%d, %d], avg: %.1f", minLoad, maxLoad, avgLoad)
	for _, s := range stats {
		log.Printf("  Partition %d: %d elements, %d ghosts, %d neighbors",
			s.ID, s.NumElements, s.NumGhosts, len(s.NumNeighbors))
	}
	return
}
