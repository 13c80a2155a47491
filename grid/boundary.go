package grid

import (
	"math"
)

// Face identifies one of the six block faces.
type Face int

const (
	InnerX Face = iota
	OuterX
	InnerY
	OuterY
	InnerZ
	OuterZ
)

// ApplyDiode fills the ghost zones at the given face with outflow-only
// boundary values: every primitive is copied outward from the last
// interior cell, and the outward-normal velocity component's sign is
// clamped so nothing flows back into the domain. Face-centered field
// components are copied outward unchanged.
func (b *Block) ApplyDiode(f Face) {
	switch f {
	case InnerX, OuterX:
		b.diodeX(f == OuterX)
	case InnerY, OuterY:
		b.diodeY(f == OuterY)
	case InnerZ, OuterZ:
		b.diodeZ(f == OuterZ)
	}
}

// edge returns the interior boundary index and the ghost index for ghost
// layer g on the given axis.
func (b *Block) edge(d int, outer bool, g int) (src, dst int) {
	if outer {
		return b.Ie(d), b.Ie(d) + g
	}
	return b.Is(), b.Is() - g
}

func (b *Block) diodeX(outer bool) {
	prims := [][]float64{b.Dens, b.Vx, b.Vy, b.Vz, b.Pres}
	for k := 0; k < b.tz; k++ {
		for j := 0; j < b.ty; j++ {
			for g := 1; g <= NumGhost; g++ {
				src, dst := b.edge(0, outer, g)
				si, di := b.Idx(src, j, k), b.Idx(dst, j, k)
				for _, p := range prims {
					p[di] = p[si]
				}
				b.Vx[di] = clampNormal(b.Vx[di], outer)
			}
		}
	}

	for k := 0; k < b.tz; k++ {
		for j := 0; j < b.ty; j++ {
			for g := 1; g <= NumGhost; g++ {
				src, dst := b.edge(0, outer, g)
				if outer {
					// The boundary face sits one past the last cell.
					src, dst = src+1, dst+1
				}
				b.Bx[b.FIdx(0, dst, j, k)] = b.Bx[b.FIdx(0, src, j, k)]
			}
		}
	}
	for k := 0; k < b.tz; k++ {
		for j := 0; j < b.ty+1; j++ {
			for g := 1; g <= NumGhost; g++ {
				src, dst := b.edge(0, outer, g)
				b.By[b.FIdx(1, dst, j, k)] = b.By[b.FIdx(1, src, j, k)]
			}
		}
	}
	for k := 0; k < b.tz+1; k++ {
		for j := 0; j < b.ty; j++ {
			for g := 1; g <= NumGhost; g++ {
				src, dst := b.edge(0, outer, g)
				b.Bz[b.FIdx(2, dst, j, k)] = b.Bz[b.FIdx(2, src, j, k)]
			}
		}
	}
}

func (b *Block) diodeY(outer bool) {
	prims := [][]float64{b.Dens, b.Vx, b.Vy, b.Vz, b.Pres}
	for k := 0; k < b.tz; k++ {
		for i := 0; i < b.tx; i++ {
			for g := 1; g <= NumGhost; g++ {
				src, dst := b.edge(1, outer, g)
				si, di := b.Idx(i, src, k), b.Idx(i, dst, k)
				for _, p := range prims {
					p[di] = p[si]
				}
				b.Vy[di] = clampNormal(b.Vy[di], outer)
			}
		}
	}

	for k := 0; k < b.tz; k++ {
		for i := 0; i < b.tx+1; i++ {
			for g := 1; g <= NumGhost; g++ {
				src, dst := b.edge(1, outer, g)
				b.Bx[b.FIdx(0, i, dst, k)] = b.Bx[b.FIdx(0, i, src, k)]
			}
		}
	}
	for k := 0; k < b.tz; k++ {
		for i := 0; i < b.tx; i++ {
			for g := 1; g <= NumGhost; g++ {
				src, dst := b.edge(1, outer, g)
				if outer {
					src, dst = src+1, dst+1
				}
				b.By[b.FIdx(1, i, dst, k)] = b.By[b.FIdx(1, i, src, k)]
			}
		}
	}
	for k := 0; k < b.tz+1; k++ {
		for i := 0; i < b.tx; i++ {
			for g := 1; g <= NumGhost; g++ {
				src, dst := b.edge(1, outer, g)
				b.Bz[b.FIdx(2, i, dst, k)] = b.Bz[b.FIdx(2, i, src, k)]
			}
		}
	}
}

func (b *Block) diodeZ(outer bool) {
	prims := [][]float64{b.Dens, b.Vx, b.Vy, b.Vz, b.Pres}
	for j := 0; j < b.ty; j++ {
		for i := 0; i < b.tx; i++ {
			for g := 1; g <= NumGhost; g++ {
				src, dst := b.edge(2, outer, g)
				si, di := b.Idx(i, j, src), b.Idx(i, j, dst)
				for _, p := range prims {
					p[di] = p[si]
				}
				b.Vz[di] = clampNormal(b.Vz[di], outer)
			}
		}
	}

	for j := 0; j < b.ty; j++ {
		for i := 0; i < b.tx+1; i++ {
			for g := 1; g <= NumGhost; g++ {
				src, dst := b.edge(2, outer, g)
				b.Bx[b.FIdx(0, i, j, dst)] = b.Bx[b.FIdx(0, i, j, src)]
			}
		}
	}
	for j := 0; j < b.ty+1; j++ {
		for i := 0; i < b.tx; i++ {
			for g := 1; g <= NumGhost; g++ {
				src, dst := b.edge(2, outer, g)
				b.By[b.FIdx(1, i, j, dst)] = b.By[b.FIdx(1, i, j, src)]
			}
		}
	}
	for j := 0; j < b.ty; j++ {
		for i := 0; i < b.tx; i++ {
			for g := 1; g <= NumGhost; g++ {
				src, dst := b.edge(2, outer, g)
				if outer {
					src, dst = src+1, dst+1
				}
				b.Bz[b.FIdx(2, i, j, dst)] = b.Bz[b.FIdx(2, i, j, src)]
			}
		}
	}
}

// clampNormal clamps the outward-normal velocity sign: outflow only.
func clampNormal(v float64, outer bool) float64 {
	if outer {
		return math.Max(v, 0)
	}
	return math.Min(v, 0)
}
