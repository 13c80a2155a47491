/*package bfield seeds face-centered magnetic fields on simulation blocks
by taking a discrete curl of an edge-averaged vector potential. Because
the curl is taken of edge averages, the resulting field has exactly zero
discrete divergence on every cell, independent of the potential grid's
resolution or content.
*/
package bfield

import (
	"fmt"

	"github.com/icm-sims/clustermerge/grid"
	"github.com/icm-sims/clustermerge/vecpot"
)

// InitBlock fills b's face fields from f. maxLevel is the deepest
// refinement level of the mesh: coarser blocks supersample the potential
// along each cell edge with 2^(maxLevel-level) sub-points, so a coarse
// face sees the same edge integrals its future fine children would, and
// refinement preserves the divergence-free constraint.
func InitBlock(b *grid.Block, f *vecpot.Field, maxLevel int) error {
	if maxLevel < b.Level {
		return fmt.Errorf(
			"block level %d is deeper than the mesh maximum %d",
			b.Level, maxLevel,
		)
	}
	res := 1 << uint(maxLevel-b.Level)
	fact := 1.0 / float64(res)

	// The edge averages reach up to one cell past the block's upper
	// faces.
	cut := b.Bounds
	for d := 0; d < 3; d++ {
		cut.Max[d] += b.Dx(d)
	}
	p, err := f.CutPatch(cut)
	if err != nil {
		return err
	}

	is := b.Is()
	ie, je, ke := b.Ie(0), b.Ie(1), b.Ie(2)
	dx := [3]float64{b.Dx(0), b.Dx(1), b.Dx(2)}

	// Edge-averaged potential at block nodes. a[c] holds the component c
	// averaged along direction c starting from each node.
	nn := [3]int{ie - is + 2, je - is + 2, ke - is + 2}
	nidx := func(i, j, k int) int {
		return ((i-is)*nn[1]+(j-is))*nn[2] + (k - is)
	}
	var a [3][]float64
	for c := 0; c < 3; c++ {
		a[c] = make([]float64, nn[0]*nn[1]*nn[2])
	}

	for k := is; k <= ke+1; k++ {
		z := b.FaceCoord(2, k)
		for j := is; j <= je+1; j++ {
			y := b.FaceCoord(1, j)
			for i := is; i <= ie+1; i++ {
				x := b.FaceCoord(0, i)
				idx := nidx(i, j, k)

				for s := 0; s < res; s++ {
					off := (float64(s) + 0.5) * fact
					ax, err := p.Eval(vecpot.Ax, x+off*dx[0], y, z)
					if err != nil {
						return err
					}
					ay, err := p.Eval(vecpot.Ay, x, y+off*dx[1], z)
					if err != nil {
						return err
					}
					az, err := p.Eval(vecpot.Az, x, y, z+off*dx[2])
					if err != nil {
						return err
					}
					a[0][idx] += ax
					a[1][idx] += ay
					a[2][idx] += az
				}
				for c := 0; c < 3; c++ {
					a[c][idx] *= fact
				}
			}
		}
	}

	for k := is; k <= ke; k++ {
		for j := is; j <= je; j++ {
			for i := is; i <= ie+1; i++ {
				b.Bx[b.FIdx(0, i, j, k)] =
					(a[2][nidx(i, j+1, k)]-a[2][nidx(i, j, k)])/dx[1] -
						(a[1][nidx(i, j, k+1)]-a[1][nidx(i, j, k)])/dx[2]
			}
		}
	}
	for k := is; k <= ke; k++ {
		for j := is; j <= je+1; j++ {
			for i := is; i <= ie; i++ {
				b.By[b.FIdx(1, i, j, k)] =
					(a[0][nidx(i, j, k+1)]-a[0][nidx(i, j, k)])/dx[2] -
						(a[2][nidx(i+1, j, k)]-a[2][nidx(i, j, k)])/dx[0]
			}
		}
	}
	for k := is; k <= ke+1; k++ {
		for j := is; j <= je; j++ {
			for i := is; i <= ie; i++ {
				b.Bz[b.FIdx(2, i, j, k)] =
					(a[1][nidx(i+1, j, k)]-a[1][nidx(i, j, k)])/dx[0] -
						(a[0][nidx(i, j+1, k)]-a[0][nidx(i, j, k)])/dx[1]
			}
		}
	}

	return nil
}
