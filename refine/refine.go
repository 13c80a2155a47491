/*package refine scores simulation blocks for adaptive mesh refinement.

Two independent criteria feed the decision. A Lohner-style second
derivative estimator on density and pressure flags developing shocks and
contact discontinuities, and a proximity test keeps the regions around
the halo centers refined regardless of what the flow is doing there.
*/
package refine

import (
	"math"

	"github.com/icm-sims/clustermerge/geom"
	"github.com/icm-sims/clustermerge/grid"
)

// Signal is a block's refinement vote.
type Signal int

const (
	Derefine Signal = -1
	Keep     Signal = 0
	Refine   Signal = 1
)

// Curvature thresholds on the estimator below.
const (
	refineCurv   = 0.6
	derefineCurv = 0.3
)

// Oracle holds the refinement parameters and the current halo centers.
// The centers are updated by the coordinator after each orbit step; the
// rest is fixed configuration.
type Oracle struct {
	// Blocks whose density never reaches MinDensity vote to derefine no
	// matter their curvature.
	MinDensity float64

	// Squared radii of the always-refined spheres around the two halo
	// centers. Zero disables a sphere.
	RefRadius1Sqr float64
	RefRadius2Sqr float64

	MainX geom.Vec
	SubX  geom.Vec
}

// Decide returns the block's refinement vote. Proximity to a halo center
// always wins: a block overlapping a refinement sphere refines even when
// its curvature argues for coarsening.
func (o *Oracle) Decide(b *grid.Block) Signal {
	maxDens := 0.0
	is := b.Is()
	for k := is; k <= b.Ie(2); k++ {
		for j := is; j <= b.Ie(1); j++ {
			for i := is; i <= b.Ie(0); i++ {
				if d := b.Dens[b.Idx(i, j, k)]; d > maxDens {
					maxDens = d
				}
			}
		}
	}

	signal := Keep
	if maxDens > o.MinDensity {
		curv := math.Max(Curvature(b, b.Dens), Curvature(b, b.Pres))
		if curv > refineCurv {
			signal = Refine
		} else if curv < derefineCurv {
			signal = Derefine
		}
	} else {
		signal = Derefine
	}

	if b.Bounds.DistSqr(o.MainX) < o.RefRadius1Sqr ||
		b.Bounds.DistSqr(o.SubX) < o.RefRadius2Sqr {
		signal = Refine
	}

	return signal
}

// Curvature is a Lohner estimator over one primitive volume: the largest
// ratio of second derivative power to smoothed first derivative power
// across the block's interior, square rooted. The eps term filters
// ripples riding on a large background value.
func Curvature(b *grid.Block, v []float64) float64 {
	const eps = 1.0e-2

	is := b.Is()
	ie, je, ke := b.Ie(0), b.Ie(1), b.Ie(2)
	del := [3]float64{0.5 / b.Dx(0), 0.5 / b.Dx(1), 0.5 / b.Dx(2)}

	// First derivatives and absolute value sums, one cell into the
	// ghosts so the second pass can difference them.
	n := b.Total(0) * b.Total(1) * b.Total(2)
	var du, au [3][]float64
	for d := 0; d < 3; d++ {
		du[d] = make([]float64, n)
		au[d] = make([]float64, n)
	}
	for k := is - 1; k <= ke+1; k++ {
		for j := is - 1; j <= je+1; j++ {
			for i := is - 1; i <= ie+1; i++ {
				c := b.Idx(i, j, k)
				du[0][c] = (v[b.Idx(i+1, j, k)] - v[b.Idx(i-1, j, k)]) * del[0]
				au[0][c] = (math.Abs(v[b.Idx(i+1, j, k)]) +
					math.Abs(v[b.Idx(i-1, j, k)])) * del[0]
				du[1][c] = (v[b.Idx(i, j+1, k)] - v[b.Idx(i, j-1, k)]) * del[1]
				au[1][c] = (math.Abs(v[b.Idx(i, j+1, k)]) +
					math.Abs(v[b.Idx(i, j-1, k)])) * del[1]
				du[2][c] = (v[b.Idx(i, j, k+1)] - v[b.Idx(i, j, k-1)]) * del[2]
				au[2][c] = (math.Abs(v[b.Idx(i, j, k+1)]) +
					math.Abs(v[b.Idx(i, j, k-1)])) * del[2]
			}
		}
	}

	curv := 0.0
	var du2, du3, du4 [9]float64
	for k := is; k <= ke; k++ {
		for j := is; j <= je; j++ {
			for i := is; i <= ie; i++ {
				// All nine second derivative combinations of the three
				// first derivatives.
				m := 0
				for d := 0; d < 3; d++ {
					lo, hi := b.Idx(i-1, j, k), b.Idx(i+1, j, k)
					du2[m] = (du[d][hi] - du[d][lo]) * del[0]
					du3[m] = (math.Abs(du[d][hi]) + math.Abs(du[d][lo])) * del[0]
					du4[m] = (au[d][hi] + au[d][lo]) * del[0]
					m++

					lo, hi = b.Idx(i, j-1, k), b.Idx(i, j+1, k)
					du2[m] = (du[d][hi] - du[d][lo]) * del[1]
					du3[m] = (math.Abs(du[d][hi]) + math.Abs(du[d][lo])) * del[1]
					du4[m] = (au[d][hi] + au[d][lo]) * del[1]
					m++

					lo, hi = b.Idx(i, j, k-1), b.Idx(i, j, k+1)
					du2[m] = (du[d][hi] - du[d][lo]) * del[2]
					du3[m] = (math.Abs(du[d][hi]) + math.Abs(du[d][lo])) * del[2]
					du4[m] = (au[d][hi] + au[d][lo]) * del[2]
					m++
				}

				num, denom := 0.0, 0.0
				for m := 0; m < 9; m++ {
					num += du2[m] * du2[m]
					s := du3[m] + eps*du4[m]
					denom += s * s
				}

				if denom == 0 && num != 0 {
					curv = 1.0e99
				} else if denom != 0 && num/denom > curv {
					curv = num / denom
				}
			}
		}
	}

	return math.Sqrt(curv)
}
