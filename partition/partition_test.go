package partition

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salam-lobad/ablate/domain"
)

func lineDomain(t *testing.T, n int, modifiers ...domain.Modifier) *domain.Domain {
	dm, err := domain.NewBoxMesh("line", nil, modifiers, []int{n}, []float64{0}, []float64{1}, false)
	require.NoError(t, err)
	return dm
}

func TestBlockPartitioner(t *testing.T) {
	dm := lineDomain(t, 10)
	p, err := NewPartitioner("block")
	require.NoError(t, err)
	etop, err := p.Partition(dm.Mesh, 3)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 0, 0, 0, 1, 1, 1, 2, 2, 2}, etop)

	_, err = p.Partition(dm.Mesh, 11)
	assert.Error(t, err)
	_, err = p.Partition(dm.Mesh, 0)
	assert.Error(t, err)

	_, err = NewPartitioner("nope")
	assert.Error(t, err)
}

func TestLayout(t *testing.T) {
	dm := lineDomain(t, 10)
	etop := []int{0, 0, 0, 0, 1, 1, 1, 2, 2, 2}
	{ // One ring of ghosts
		lay := NewLayout(dm.Mesh, etop, 3, 1)
		assert.Equal(t, []int{0, 1, 2, 3}, lay.Owned[0])
		assert.Equal(t, []int{4}, lay.Ghosts[0])
		assert.Equal(t, []int{3, 7}, lay.Ghosts[1])
		assert.Equal(t, []int{6}, lay.Ghosts[2])
		stats, cut := Analyze(dm.Mesh, lay, etop)
		assert.Equal(t, 2, cut)
		assert.Equal(t, 2, len(stats[1].NumNeighbors))
		assert.Equal(t, 3, stats[2].ElementTypes[domain.Line])
	}
	{ // Two rings
		lay := NewLayout(dm.Mesh, etop, 3, 2)
		assert.Equal(t, []int{2, 3, 7, 8}, lay.Ghosts[1])
	}
}

type reversePartitioner struct{}

func (rp *reversePartitioner) Name() string { return "reverse" }
func (rp *reversePartitioner) Partition(m *domain.Mesh, np int) (etop []int, err error) {
	etop = make([]int, m.NumElements)
	for k := range etop {
		etop[k] = (np - 1) - k*np/m.NumElements
	}
	return
}

func TestDistributeWithGhostCells(t *testing.T) {
	dm := lineDomain(t, 10, NewDistributeWithGhostCells(3, "block", 1))
	assert.Equal(t, 3, dm.NumPartitions)
	assert.Equal(t, []int{0, 0, 0, 0, 1, 1, 1, 2, 2, 2}, dm.Mesh.EToP)
	assert.Equal(t, []int{4, 5, 6}, []int(dm.GetLabel(&domain.Region{Name: OwnedRegionName, Value: 1}).Cells.Points()))
	assert.Equal(t, []int{3, 7}, []int(dm.GetLabel(&domain.Region{Name: GhostRegionName, Value: 1}).Cells.Points()))

	Register("reverse", func() Partitioner { return &reversePartitioner{} })
	dm = lineDomain(t, 4, NewDistributeWithGhostCells(2, "reverse", 1))
	assert.Equal(t, []int{1, 1, 0, 0}, dm.Mesh.EToP)

	dm = lineDomain(t, 4, NewDistributeWithGhostCells(1, "", 1))
	assert.Equal(t, 1, dm.NumPartitions)
	assert.Equal(t, []int{0, 0, 0, 0}, dm.Mesh.EToP)

	_, err := domain.NewBoxMesh("line", nil, []domain.Modifier{NewDistributeWithGhostCells(2, "nope", 1)},
		[]int{4}, []float64{0}, []float64{1}, false)
	assert.Error(t, err)
	_, err = domain.NewBoxMesh("line", nil, []domain.Modifier{NewDistributeWithGhostCells(5, "block", 1)},
		[]int{4}, []float64{0}, []float64{1}, false)
	assert.Error(t, err)
}
