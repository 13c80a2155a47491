package sim

import (
	"github.com/icm-sims/clustermerge/bfield"
	"github.com/icm-sims/clustermerge/geom"
	"github.com/icm-sims/clustermerge/grid"
)

// InitBlock fills a new block with the initial condition: profile
// densities and pressures averaged over subzones, bulk momenta from the
// halo velocities, and the magnetic field curl of the vector potential
// when one is configured. Both the conserved and primitive states come
// out consistent.
func (ctx *Context) InitBlock(b *grid.Block) error {
	gm1 := ctx.gamma - 1
	subInv := 1.0 / float64(ctx.subzones)
	volInv := subInv * subInv * subInv

	mainX, mainV := ctx.mainX0, ctx.mainV0
	var subX, subV geom.Vec
	if ctx.Orbit != nil {
		mainX, mainV = ctx.Orbit.Main.X, ctx.Orbit.Main.V
		subX, subV = ctx.Orbit.Sub.X, ctx.Orbit.Sub.V
	}

	is := b.Is()
	for k := is; k <= b.Ie(2); k++ {
		for j := is; j <= b.Ie(1); j++ {
			for i := is; i <= b.Ie(0); i++ {
				var dens1, dens2, pres float64

				// Average the profiles over subzones so steep central
				// cusps do not alias onto the grid.
				for kk := 0; kk < ctx.subzones; kk++ {
					z := b.FaceCoord(2, k) + (float64(kk)+0.5)*b.Dx(2)*subInv
					for jj := 0; jj < ctx.subzones; jj++ {
						y := b.FaceCoord(1, j) +
							(float64(jj)+0.5)*b.Dx(1)*subInv
						for ii := 0; ii < ctx.subzones; ii++ {
							x := b.FaceCoord(0, i) +
								(float64(ii)+0.5)*b.Dx(0)*subInv
							pt := geom.Vec{x, y, z}

							r1 := pt.Dist(mainX)
							dens1 += ctx.MainProf.Density(r1)
							pres += ctx.MainProf.Pressure(r1)

							if ctx.subGas {
								r2 := pt.Dist(subX)
								dens2 += ctx.SubProf.Density(r2)
								pres += ctx.SubProf.Pressure(r2)
							}
						}
					}
				}
				dens1 *= volInv
				dens2 *= volInv
				pres *= volInv

				c := b.Idx(i, j, k)
				dens := dens1 + dens2
				b.UDens[c] = dens
				b.UMx[c] = dens1*mainV[0] + dens2*subV[0]
				b.UMy[c] = dens1*mainV[1] + dens2*subV[1]
				b.UMz[c] = dens1*mainV[2] + dens2*subV[2]
				b.UEner[c] = pres / gm1

				b.Dens[c] = dens
				b.Pres[c] = pres
				if dens > 0 {
					b.Vx[c] = b.UMx[c] / dens
					b.Vy[c] = b.UMy[c] / dens
					b.Vz[c] = b.UMz[c] / dens
				}
			}
		}
	}

	if ctx.Apot != nil {
		if err := bfield.InitBlock(b, ctx.Apot, ctx.maxLevel); err != nil {
			return err
		}
	}

	// Kinetic and magnetic contributions to the total energy. The
	// magnetic term averages the face fields to the cell center.
	for k := is; k <= b.Ie(2); k++ {
		for j := is; j <= b.Ie(1); j++ {
			for i := is; i <= b.Ie(0); i++ {
				c := b.Idx(i, j, k)
				if b.UDens[c] > 0 {
					b.UEner[c] += 0.5 * (b.UMx[c]*b.UMx[c] +
						b.UMy[c]*b.UMy[c] +
						b.UMz[c]*b.UMz[c]) / b.UDens[c]
				}

				if ctx.Apot != nil {
					bx := 0.5 * (b.Bx[b.FIdx(0, i, j, k)] +
						b.Bx[b.FIdx(0, i+1, j, k)])
					by := 0.5 * (b.By[b.FIdx(1, i, j, k)] +
						b.By[b.FIdx(1, i, j+1, k)])
					bz := 0.5 * (b.Bz[b.FIdx(2, i, j, k)] +
						b.Bz[b.FIdx(2, i, j, k+1)])
					b.UEner[c] += 0.5 * (bx*bx + by*by + bz*bz)
				}
			}
		}
	}

	return nil
}
