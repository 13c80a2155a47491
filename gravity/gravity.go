/*package gravity injects the clusters' gravitational source terms into a
block's conserved fluid state.

The potential is the superposition of the two halos' radial profiles, with
each profile's point-mass tail beyond its sampled range. When the main
cluster is held fixed, the frame is non-inertial and a fictitious
acceleration equal to the main halo's instantaneous acceleration is
subtracted, exponentially damped far from the main halo where the
fixed-frame approximation breaks down.

Momentum picks up the face potential difference; energy uses the same
potential values weighted by the host's face mass fluxes so that the
injected energy is conserved to the same discrete order as the transport
scheme. A cell-centered rho*g*v*dt form would not be.
*/
package gravity

import (
	"math"

	"github.com/icm-sims/clustermerge/geom"
	"github.com/icm-sims/clustermerge/grid"
	"github.com/icm-sims/clustermerge/profile"
)

// Source computes and applies gravitational source terms. The halo
// positions and the main halo's acceleration are owned by the coordinator
// and must be synced (via SetHalos) before each block sweep; Apply itself
// only reads them, so blocks can be processed concurrently.
type Source struct {
	Main, Sub *profile.Profile

	// TwoHalos includes the sub cluster's potential; MainFixed enables
	// the non-inertial correction.
	TwoHalos   bool
	MainFixed  bool
	Isothermal bool

	// RCut is the radius beyond which the fictitious force is damped with
	// e-folding length RScale.
	RCut, RScale float64

	mainX, subX geom.Vec
	mainAccel   geom.Vec
}

// SetHalos updates the halo positions and the main halo's current
// acceleration for the next block sweep. Coordinator only.
func (s *Source) SetHalos(mainX, subX, mainAccel geom.Vec) {
	s.mainX, s.subX, s.mainAccel = mainX, subX, mainAccel
}

// Potential returns the gravitational potential at x: the negated
// superposition of the profile magnitudes and their point-mass tails.
func (s *Source) Potential(x geom.Vec) float64 {
	pot := -s.Main.Potential(x.Dist(s.mainX))
	if s.TwoHalos {
		pot -= s.Sub.Potential(x.Dist(s.subX))
	}
	return pot
}

// noninertial returns the fictitious acceleration along the given axis at
// x, damped beyond RCut.
func (s *Source) noninertial(axis int, x geom.Vec) float64 {
	accel := s.mainAccel[axis]
	rr := x.Dist(s.mainX)
	if rr > s.RCut {
		accel *= math.Exp(-(rr - s.RCut) / s.RScale)
	}
	return accel
}

// Apply adds dt's worth of momentum and energy source terms to the block's
// conserved state. It covers the interior plus NumGhost-1 ghost layers,
// matching the range the host's flux divergence touches.
func (s *Source) Apply(b *grid.Block, dt float64) {
	il, iu := b.Is()-(grid.NumGhost-1), b.Ie(0)+(grid.NumGhost-1)
	jl, ju := b.Is()-(grid.NumGhost-1), b.Ie(1)+(grid.NumGhost-1)
	kl, ku := b.Is()-(grid.NumGhost-1), b.Ie(2)+(grid.NumGhost-1)

	fixedFrame := s.MainFixed && s.TwoHalos

	for k := kl; k <= ku; k++ {
		x3v := b.CellCenter(2, k)
		for j := jl; j <= ju; j++ {
			x2v := b.CellCenter(1, j)
			for i := il; i <= iu; i++ {
				x1v := b.CellCenter(0, i)
				idx := b.Idx(i, j, k)
				ctr := geom.Vec{x1v, x2v, x3v}

				phic := s.Potential(ctr)

				// x axis
				phil := s.Potential(geom.Vec{b.FaceCoord(0, i), x2v, x3v})
				phir := s.Potential(geom.Vec{b.FaceCoord(0, i+1), x2v, x3v})

				src := -(phir - phil) / b.Dx(0)
				if fixedFrame {
					src -= s.noninertial(0, ctr)
				}
				b.UMx[idx] += src * b.Dens[idx] * dt
				if !s.Isothermal {
					fl := b.FluxX[b.FIdx(0, i, j, k)]
					fr := b.FluxX[b.FIdx(0, i+1, j, k)]
					src = -(fl*(phic-phil) + fr*(phir-phic)) / b.Dx(0)
					if fixedFrame {
						gl := -s.noninertial(0,
							geom.Vec{b.FaceCoord(0, i), x2v, x3v})
						gr := -s.noninertial(0,
							geom.Vec{b.FaceCoord(0, i+1), x2v, x3v})
						src += fl*gl + fr*gr
					}
					b.UEner[idx] += src * dt
				}

				// y axis
				phil = s.Potential(geom.Vec{x1v, b.FaceCoord(1, j), x3v})
				phir = s.Potential(geom.Vec{x1v, b.FaceCoord(1, j+1), x3v})

				src = -(phir - phil) / b.Dx(1)
				if fixedFrame {
					src -= s.noninertial(1, ctr)
				}
				b.UMy[idx] += src * b.Dens[idx] * dt
				if !s.Isothermal {
					fl := b.FluxY[b.FIdx(1, i, j, k)]
					fr := b.FluxY[b.FIdx(1, i, j+1, k)]
					src = -(fl*(phic-phil) + fr*(phir-phic)) / b.Dx(1)
					if fixedFrame {
						gl := -s.noninertial(1,
							geom.Vec{x1v, b.FaceCoord(1, j), x3v})
						gr := -s.noninertial(1,
							geom.Vec{x1v, b.FaceCoord(1, j+1), x3v})
						src += fl*gl + fr*gr
					}
					b.UEner[idx] += src * dt
				}

				// z axis
				phil = s.Potential(geom.Vec{x1v, x2v, b.FaceCoord(2, k)})
				phir = s.Potential(geom.Vec{x1v, x2v, b.FaceCoord(2, k+1)})

				src = -(phir - phil) / b.Dx(2)
				if fixedFrame {
					src -= s.noninertial(2, ctr)
				}
				b.UMz[idx] += src * b.Dens[idx] * dt
				if !s.Isothermal {
					fl := b.FluxZ[b.FIdx(2, i, j, k)]
					fr := b.FluxZ[b.FIdx(2, i, j, k+1)]
					src = -(fl*(phic-phil) + fr*(phir-phic)) / b.Dx(2)
					if fixedFrame {
						gl := -s.noninertial(2,
							geom.Vec{x1v, x2v, b.FaceCoord(2, k)})
						gr := -s.noninertial(2,
							geom.Vec{x1v, x2v, b.FaceCoord(2, k+1)})
						src += fl*gl + fr*gr
					}
					b.UEner[idx] += src * dt
				}
			}
		}
	}
}
