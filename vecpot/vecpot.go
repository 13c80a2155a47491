/*package vecpot stores a uniform 3-D sample grid of a magnetic vector
potential and resamples it onto target grids with a triangular-shaped-cloud
kernel.

The sample grid is immutable after load and is shared read-only between
workers. Per-block work happens on a Patch, a padded subgrid cut from the
field, so resampling a block never touches more than its own neighborhood.
*/
package vecpot

import (
	"fmt"
	"math"

	"github.com/icm-sims/clustermerge/geom"
	"github.com/icm-sims/clustermerge/units"
)

// Component selects one Cartesian component of the vector potential.
type Component int

const (
	Ax Component = iota
	Ay
	Az
)

// Field is the full vector potential sample grid. Samples are
// cell-centered on a uniform lattice; the spacing is derived from the
// first two coordinates of each axis and assumed constant.
type Field struct {
	N      [3]int
	Coords [3][]float64

	// One flattened volume per component, x-major: idx = (i*ny + j)*nz + k.
	A [3][]float64

	dx  [3]float64
	min [3]float64 // outer edge of the first sample cell per axis
	max [3]float64
}

// NewField builds a field from per-axis sample coordinates and three
// flattened component volumes. CGS grids (detected from the x-coordinate
// span) are rescaled to simulation units in place.
func NewField(coords [3][]float64, ax, ay, az []float64) (*Field, error) {
	f := &Field{Coords: coords, A: [3][]float64{ax, ay, az}}

	n := 1
	for d := 0; d < 3; d++ {
		if len(coords[d]) < 2 {
			return nil, fmt.Errorf(
				"vector potential axis %d has %d samples, need at least 2",
				d, len(coords[d]),
			)
		}
		f.N[d] = len(coords[d])
		n *= f.N[d]
	}
	for c, vol := range f.A {
		if len(vol) != n {
			return nil, fmt.Errorf(
				"vector potential component %d has %d samples, expected %d",
				c, len(vol), n,
			)
		}
	}

	if units.IsCGS(coords[0][f.N[0]-1] - coords[0][0]) {
		for d := 0; d < 3; d++ {
			for i := range coords[d] {
				coords[d][i] *= units.Radius
			}
		}
		for _, vol := range f.A {
			for i := range vol {
				vol[i] *= units.VecPot
			}
		}
	}

	for d := 0; d < 3; d++ {
		f.dx[d] = coords[d][1] - coords[d][0]
		f.min[d] = coords[d][0] - 0.5*f.dx[d]
		f.max[d] = coords[d][f.N[d]-1] + 0.5*f.dx[d]
	}

	return f, nil
}

// Dx returns the sample spacing along axis d.
func (f *Field) Dx(d int) float64 { return f.dx[d] }

// CheckDomain verifies that the sample grid strictly encloses the
// simulation domain with two sample cells to spare on every side, the
// margin the TSC stencil and the curl differencing need. A grid that does
// not is a fatal configuration error.
func (f *Field) CheckDomain(domain geom.Bounds) error {
	for d := 0; d < 3; d++ {
		if domain.Min[d] < f.min[d]+2*f.dx[d] ||
			domain.Max[d] >= f.max[d]-2*f.dx[d] {
			return fmt.Errorf(
				"vector potential grid is smaller than the simulation "+
					"domain on axis %d: grid [%g, %g], domain [%g, %g]",
				d, f.min[d], f.max[d], domain.Min[d], domain.Max[d],
			)
		}
	}
	return nil
}

// TSCWeight is the triangular-shaped-cloud kernel: a compact piecewise
// quadratic with unit integral, applied separably per axis.
func TSCWeight(x float64) float64 {
	xx := math.Abs(x)
	switch {
	case xx <= 0.5:
		return 0.75 - xx*xx
	case xx <= 1.5:
		d := 1.5 - xx
		return 0.5 * d * d
	}
	return 0
}

// Patch is a padded subgrid of the field covering one target block. The
// padding leaves room for the TSC stencil and the later finite
// differencing.
type Patch struct {
	f     *Field
	begin [3]int
	dims  [3]int
	a     [3][]float64
}

// patchPad is the number of extra sample cells kept on each side.
const patchPad = 2

// CutPatch copies the subgrid covering bounds, padded by two sample cells
// on every side. It fails if the padded region leaves the sample grid,
// which means the input grid does not enclose the simulation domain.
func (f *Field) CutPatch(bounds geom.Bounds) (*Patch, error) {
	p := &Patch{f: f}
	var end [3]int
	for d := 0; d < 3; d++ {
		p.begin[d] = int((bounds.Min[d]-f.min[d])/f.dx[d]) - patchPad
		end[d] = int((bounds.Max[d]-f.min[d])/f.dx[d]) + patchPad
		if p.begin[d] < 0 || end[d] >= f.N[d] {
			return nil, fmt.Errorf(
				"vector potential grid is smaller than the simulation "+
					"domain: axis %d needs samples [%d, %d] of %d",
				d, p.begin[d], end[d], f.N[d],
			)
		}
		p.dims[d] = end[d] - p.begin[d] + 1
	}

	n := p.dims[0] * p.dims[1] * p.dims[2]
	for c := 0; c < 3; c++ {
		p.a[c] = make([]float64, n)
		idx := 0
		for i := p.begin[0]; i <= end[0]; i++ {
			for j := p.begin[1]; j <= end[1]; j++ {
				for k := p.begin[2]; k <= end[2]; k++ {
					p.a[c][idx] = f.A[c][(i*f.N[1]+j)*f.N[2]+k]
					idx++
				}
			}
		}
	}

	return p, nil
}

// Eval interpolates one vector potential component at (x, y, z) using the
// 27-point TSC stencil. Sample points within one grid cell of the patch
// edge are a configuration error: the supplied grid must strictly enclose
// the simulation domain.
func (p *Patch) Eval(c Component, x, y, z float64) (float64, error) {
	f := p.f

	// Indices into the full coordinate grid and into the local patch.
	ii := int((x - f.min[0]) / f.dx[0])
	jj := int((y - f.min[1]) / f.dx[1])
	kk := int((z - f.min[2]) / f.dx[2])
	ib := ii - p.begin[0]
	jb := jj - p.begin[1]
	kb := kk - p.begin[2]

	if ib <= 0 || ib >= p.dims[0]-1 ||
		jb <= 0 || jb >= p.dims[1]-1 ||
		kb <= 0 || kb >= p.dims[2]-1 {
		return 0, fmt.Errorf(
			"vector potential sample point (%g, %g, %g) is too close to "+
				"the input grid edge", x, y, z,
		)
	}

	vol := p.a[c]
	pot := 0.0
	for i := -1; i <= 1; i++ {
		wx := TSCWeight((x - f.Coords[0][ii+i]) / f.dx[0])
		for j := -1; j <= 1; j++ {
			wy := TSCWeight((y - f.Coords[1][jj+j]) / f.dx[1])
			for k := -1; k <= 1; k++ {
				wz := TSCWeight((z - f.Coords[2][kk+k]) / f.dx[2])
				idx := ((ib+i)*p.dims[1]+(jb+j))*p.dims[2] + (kb + k)
				pot += vol[idx] * wx * wy * wz
			}
		}
	}

	return pot, nil
}
