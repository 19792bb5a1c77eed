package boundarysolver

import (
	"fmt"
	"sync"

	"github.com/salam-lobad/ablate/domain"
	"github.com/salam-lobad/ablate/utils"
)

// contribution is a source value destined for a cell owned by another partition
type contribution struct {
	Cell, Offset int
	Value        float64
}

type workspace struct {
	stencilValues    [][]float64
	stencilAuxValues [][]float64
	source           []float64
	partition        int
	owner            []int // Nil when there is a single partition
	mailBox          *utils.MailBox[contribution]
	locF             *domain.Vector
}

func (ws *workspace) add(cell, offset int, value float64) {
	if ws.owner == nil || ws.owner[cell] == ws.partition {
		ws.locF.PointRead(cell)[offset] += value
		return
	}
	ws.mailBox.PostMessage(ws.partition, ws.owner[cell], contribution{Cell: cell, Offset: offset, Value: value})
}

/*
ComputeRHSFunction calls every registered function for each boundary stencil
and adds the resulting sources into locF. locX holds the SOL values, the AUX
values come from the subdomain. Each partition runs in its own goroutine over
the boundary cells it owns, sources for cells owned elsewhere are mailed to
the owner and added after all partitions finish.
*/
func (bs *BoundarySolver) ComputeRHSFunction(time float64, locX, locF *domain.Vector) (err error) {
	if locX.Location != domain.SOL || locF.Location != domain.SOL {
		return fmt.Errorf("boundary solver %s: RHS vectors must hold SOL fields, have %s and %s",
			bs.solverID, locX.Location, locF.Location)
	}
	if locX.TotalDim != locF.TotalDim || locX.NumCells != locF.NumCells {
		return fmt.Errorf("boundary solver %s: RHS vector layouts differ", bs.solverID)
	}
	if len(bs.functions) == 0 {
		return
	}
	var (
		NP    = bs.subDomain.NumPartitions()
		owner = bs.subDomain.GetMesh().EToP
	)
	if NP <= 1 || owner == nil {
		ws := bs.newWorkspace(0, nil, nil, locF)
		for i := range bs.stencils {
			if err = bs.evaluateStencil(time, &bs.stencils[i], locX, ws); err != nil {
				return
			}
		}
		return
	}
	var (
		mb       = utils.NewMailBox[contribution](NP)
		errs     = make([]error, NP)
		wg       sync.WaitGroup
		stencils = make([][]int, NP)
	)
	for i, gs := range bs.stencils {
		p := owner[gs.Cell]
		stencils[p] = append(stencils[p], i)
	}
	for np := 0; np < NP; np++ {
		wg.Add(1)
		go func(np int) {
			defer wg.Done()
			ws := bs.newWorkspace(np, owner, mb, locF)
			for _, i := range stencils[np] {
				if errs[np] = bs.evaluateStencil(time, &bs.stencils[i], locX, ws); errs[np] != nil {
					break
				}
			}
			mb.DeliverMyMessages(np)
		}(np)
	}
	wg.Wait()
	for _, e := range errs {
		if e != nil {
			return e
		}
	}
	for np := 0; np < NP; np++ {
		wg.Add(1)
		go func(np int) {
			defer wg.Done()
			mb.ReceiveMyMessages(np)
			for _, c := range mb.ReceiveMsgQs[np].Cells() {
				locF.PointRead(c.Cell)[c.Offset] += c.Value
			}
			mb.ClearMyMessages(np)
		}(np)
	}
	wg.Wait()
	return
}

func (bs *BoundarySolver) newWorkspace(partition int, owner []int, mb *utils.MailBox[contribution],
	locF *domain.Vector) *workspace {
	return &workspace{
		source:    make([]float64, locF.TotalDim),
		partition: partition,
		owner:     owner,
		mailBox:   mb,
		locF:      locF,
	}
}

func (bs *BoundarySolver) evaluateStencil(time float64, gs *GradientStencil, locX *domain.Vector, ws *workspace) (err error) {
	var (
		sd       = bs.subDomain
		dim      = sd.GetDimensions()
		auxVec   = sd.GetAuxVector()
		hasAux   = auxVec != nil && auxVec.TotalDim > 0
		cellGeom = sd.GetCellGeometry(gs.Cell)
		auxValue []float64
	)
	ws.stencilValues = ws.stencilValues[:0]
	ws.stencilAuxValues = ws.stencilAuxValues[:0]
	for _, c := range gs.Stencil {
		ws.stencilValues = append(ws.stencilValues, locX.PointRead(c))
		if hasAux {
			ws.stencilAuxValues = append(ws.stencilAuxValues, auxVec.PointRead(c))
		}
	}
	if hasAux {
		auxValue = auxVec.PointRead(gs.Cell)
	}
	for _, bf := range bs.functions {
		for i := range ws.source {
			ws.source[i] = 0
		}
		err = bf.function(dim, &gs.Geometry, &cellGeom,
			bf.uOff, locX.PointRead(gs.Cell), ws.stencilValues,
			bf.aOff, auxValue, ws.stencilAuxValues,
			gs.Size(), gs.Stencil, gs.GradientWeights,
			bf.sOff, ws.source)
		if err != nil {
			return fmt.Errorf("boundary solver %s: cell %d: %w", bs.solverID, gs.Cell, err)
		}
		for k, f := range bf.outputFields {
			off := bf.sOff[k]
			for j := 0; j < f.NumComponents; j++ {
				value := ws.source[off+j]
				switch bf.sourceType {
				case Point:
					ws.add(gs.Cell, off+j, value)
				case Distributed:
					for i, c := range gs.Stencil {
						ws.add(c, off+j, value*gs.DistributionWeights[i]/gs.Volumes[i])
					}
				}
			}
		}
	}
	return
}
