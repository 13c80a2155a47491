/*package grid holds the per-block fluid state the merger kernels consume
and produce: cell-centered primitive and conserved variables, face-centered
mass fluxes and magnetic fields, and the block's place in the mesh
hierarchy.

Blocks are flat float64 slices indexed through Idx and the face variants,
ghost zones included. Mesh decomposition and refinement bookkeeping belong
to the host solver; a block only knows its own bounds and level.
*/
package grid

import (
	"fmt"

	"github.com/icm-sims/clustermerge/geom"
)

// NumGhost is the ghost-zone width on every side of a block, matching the
// host solver's reconstruction stencil radius.
const NumGhost = 2

// Block is one mesh block's worth of state.
type Block struct {
	// Interior cells per axis.
	Nx, Ny, Nz int
	// Refinement level of this block.
	Level int
	// Bounding box of the interior region.
	Bounds geom.Bounds

	// Cell-centered primitives, ghost zones included.
	Dens, Vx, Vy, Vz, Pres []float64
	// Cell-centered conserved state, ghost zones included.
	UDens, UMx, UMy, UMz, UEner []float64

	// Face-centered mass fluxes from the host's transport step, one extra
	// face along the flux's axis.
	FluxX, FluxY, FluxZ []float64

	// Face-centered magnetic field components, one extra face along the
	// component's axis.
	Bx, By, Bz []float64

	dx, dy, dz float64
	tx, ty, tz int // total cells per axis, ghosts included
}

// NewBlock allocates a block with nx*ny*nz interior cells spanning bounds.
// The merger kernels only run in 3D, so every axis needs at least two
// cells; anything else is a configuration error.
func NewBlock(nx, ny, nz int, bounds geom.Bounds, level int) (*Block, error) {
	if nx < 2 || ny < 2 || nz < 2 {
		return nil, fmt.Errorf(
			"cluster merger blocks must be 3D: got %dx%dx%d cells",
			nx, ny, nz,
		)
	}

	b := &Block{
		Nx: nx, Ny: ny, Nz: nz,
		Level:  level,
		Bounds: bounds,
		tx:     nx + 2*NumGhost,
		ty:     ny + 2*NumGhost,
		tz:     nz + 2*NumGhost,
	}
	b.dx = bounds.Width(0) / float64(nx)
	b.dy = bounds.Width(1) / float64(ny)
	b.dz = bounds.Width(2) / float64(nz)

	n := b.tx * b.ty * b.tz
	for _, p := range []*[]float64{
		&b.Dens, &b.Vx, &b.Vy, &b.Vz, &b.Pres,
		&b.UDens, &b.UMx, &b.UMy, &b.UMz, &b.UEner,
	} {
		*p = make([]float64, n)
	}
	b.FluxX = make([]float64, (b.tx+1)*b.ty*b.tz)
	b.FluxY = make([]float64, b.tx*(b.ty+1)*b.tz)
	b.FluxZ = make([]float64, b.tx*b.ty*(b.tz+1))
	b.Bx = make([]float64, (b.tx+1)*b.ty*b.tz)
	b.By = make([]float64, b.tx*(b.ty+1)*b.tz)
	b.Bz = make([]float64, b.tx*b.ty*(b.tz+1))

	return b, nil
}

// Dx returns the cell spacing along axis d.
func (b *Block) Dx(d int) float64 {
	switch d {
	case 0:
		return b.dx
	case 1:
		return b.dy
	case 2:
		return b.dz
	}
	panic(fmt.Sprintf("invalid axis %d", d))
}

// Is returns the first interior index; Ie the last. They are the same for
// every axis paired with the matching N.
func (b *Block) Is() int { return NumGhost }

// Ie returns the last interior index along axis d.
func (b *Block) Ie(d int) int {
	switch d {
	case 0:
		return NumGhost + b.Nx - 1
	case 1:
		return NumGhost + b.Ny - 1
	case 2:
		return NumGhost + b.Nz - 1
	}
	panic(fmt.Sprintf("invalid axis %d", d))
}

// Total returns the ghost-inclusive cell count along axis d.
func (b *Block) Total(d int) int {
	switch d {
	case 0:
		return b.tx
	case 1:
		return b.ty
	case 2:
		return b.tz
	}
	panic(fmt.Sprintf("invalid axis %d", d))
}

// Idx flattens ghost-inclusive cell coordinates. i varies fastest.
func (b *Block) Idx(i, j, k int) int {
	return i + b.tx*(j+b.ty*k)
}

// FIdx flattens face coordinates for faces normal to axis d, where the
// index along d runs one past the cell count.
func (b *Block) FIdx(d, i, j, k int) int {
	switch d {
	case 0:
		return i + (b.tx+1)*(j+b.ty*k)
	case 1:
		return i + b.tx*(j+(b.ty+1)*k)
	case 2:
		return i + b.tx*(j+b.ty*k)
	}
	panic(fmt.Sprintf("invalid axis %d", d))
}

// CellCenter returns the coordinate of cell center i along axis d, ghost
// offsets included.
func (b *Block) CellCenter(d, i int) float64 {
	return b.Bounds.Min[d] + (float64(i-NumGhost)+0.5)*b.Dx(d)
}

// FaceCoord returns the coordinate of the lower face of cell i along
// axis d.
func (b *Block) FaceCoord(d, i int) float64 {
	return b.Bounds.Min[d] + float64(i-NumGhost)*b.Dx(d)
}

// CellPos returns the full cell-center position of (i, j, k).
func (b *Block) CellPos(i, j, k int) geom.Vec {
	return geom.Vec{b.CellCenter(0, i), b.CellCenter(1, j), b.CellCenter(2, k)}
}
