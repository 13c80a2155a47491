package sim

import (
	"github.com/icm-sims/clustermerge/geom"
	"github.com/icm-sims/clustermerge/grid"
	"github.com/icm-sims/clustermerge/refine"
)

// BuildMesh tiles the domain with the configured root blocks, fills them
// with the initial condition, and then refines in place until the oracle
// stops asking or MaxLevel is reached. Splitting at startup just re-runs
// the initial condition at the finer spacing, so no prolongation is
// needed.
func (ctx *Context) BuildMesh() ([]*grid.Block, error) {
	mesh := &ctx.Cfg.Mesh
	n := mesh.RootBlocks

	var blocks []*grid.Block
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			for k := 0; k < n; k++ {
				var bounds geom.Bounds
				idx := [3]int{i, j, k}
				for d := 0; d < 3; d++ {
					w := ctx.Domain.Width(d) / float64(n)
					bounds.Min[d] = ctx.Domain.Min[d] + float64(idx[d])*w
					bounds.Max[d] = bounds.Min[d] + w
				}

				b, err := grid.NewBlock(
					mesh.BlockCells, mesh.BlockCells, mesh.BlockCells,
					bounds, 0,
				)
				if err != nil {
					return nil, err
				}
				if err := ctx.InitBlock(b); err != nil {
					return nil, err
				}
				blocks = append(blocks, b)
			}
		}
	}

	for pass := 0; pass < ctx.maxLevel; pass++ {
		signals := ctx.Refine(blocks)

		split := false
		var next []*grid.Block
		for idx, b := range blocks {
			if signals[idx] != refine.Refine || b.Level >= ctx.maxLevel {
				next = append(next, b)
				continue
			}

			children, err := ctx.splitBlock(b)
			if err != nil {
				return nil, err
			}
			next = append(next, children...)
			split = true
		}

		blocks = next
		if !split {
			break
		}
	}

	return blocks, nil
}

// splitBlock replaces a block with its eight half-size children, each
// re-filled from the initial condition.
func (ctx *Context) splitBlock(b *grid.Block) ([]*grid.Block, error) {
	children := make([]*grid.Block, 0, 8)
	for oct := 0; oct < 8; oct++ {
		var bounds geom.Bounds
		for d := 0; d < 3; d++ {
			half := 0.5 * b.Bounds.Width(d)
			bounds.Min[d] = b.Bounds.Min[d]
			if oct&(1<<uint(d)) != 0 {
				bounds.Min[d] += half
			}
			bounds.Max[d] = bounds.Min[d] + half
		}

		child, err := grid.NewBlock(b.Nx, b.Ny, b.Nz, bounds, b.Level+1)
		if err != nil {
			return nil, err
		}
		if err := ctx.InitBlock(child); err != nil {
			return nil, err
		}
		children = append(children, child)
	}
	return children, nil
}
