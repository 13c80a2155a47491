/*package profile represents the tabulated radial structure of one cluster
halo and interpolates it at arbitrary radius.

A profile stores log-spaced samples of gas density, gas pressure,
gravitational potential and radial gravitational field. The potential and
field arrays hold magnitudes: the well depth and the attractive force are
positive internally and are negated by the callers that assemble source
terms and accelerations.
*/
package profile

import (
	"fmt"
	"math"

	"github.com/icm-sims/clustermerge/units"
)

// Profile is an immutable set of radial samples for one halo. Build it once
// at initialization and share it read-only between workers.
type Profile struct {
	r, dens, pres, gpot, grav []float64

	n            int
	logR0, logRN float64
	rmax         float64
	mass         float64 // enclosed mass at the outermost sample
}

// New builds a profile from sample arrays. The radius array must hold at
// least two strictly increasing positive values, and the potential and
// field arrays must already be magnitudes (well depth positive). Tables
// whose outermost radius marks them as CGS are rescaled in place to
// simulation units.
func New(r, dens, pres, gpot, grav []float64) (*Profile, error) {
	n := len(r)
	if n < 2 {
		return nil, fmt.Errorf("profile needs at least 2 samples, got %d", n)
	}
	if len(dens) != n || len(pres) != n || len(gpot) != n || len(grav) != n {
		return nil, fmt.Errorf(
			"profile column lengths disagree: r=%d dens=%d pres=%d "+
				"gpot=%d grav=%d",
			n, len(dens), len(pres), len(gpot), len(grav),
		)
	}
	if r[0] <= 0 {
		return nil, fmt.Errorf("profile radii must be positive, r[0] = %g", r[0])
	}
	for i := 1; i < n; i++ {
		if r[i] <= r[i-1] {
			return nil, fmt.Errorf(
				"profile radii must be strictly increasing: r[%d] = %g, "+
					"r[%d] = %g", i-1, r[i-1], i, r[i],
			)
		}
	}

	if units.IsCGS(r[n-1]) {
		for i := 0; i < n; i++ {
			r[i] *= units.Radius
			dens[i] *= units.Density
			pres[i] *= units.Pressure
			gpot[i] *= units.Potential
			grav[i] *= units.Gravity
		}
	}

	p := &Profile{r: r, dens: dens, pres: pres, gpot: gpot, grav: grav}
	p.n = n
	p.logR0 = math.Log10(r[0])
	p.logRN = math.Log10(r[n-1])
	p.rmax = r[n-1]
	p.mass = grav[n-1] * r[n-1] * r[n-1]

	return p, nil
}

// Rmax returns the outermost sampled radius.
func (p *Profile) Rmax() float64 { return p.rmax }

// Mass returns the enclosed mass at Rmax, used as the point-mass tail
// beyond the sampled range.
func (p *Profile) Mass() float64 { return p.mass }

// lookup interpolates vals at radius rr assuming log spacing in both the
// radii and the values. Fractional indices below the first sample are
// clamped to zero, so lookups inside r[0] return values from the innermost
// power-law segment. A non-positive bracketing sample yields zero, which
// guards profiles that cross zero.
func (p *Profile) lookup(vals []float64, rr float64) float64 {
	k := (math.Log10(rr) - p.logR0) * float64(p.n-1) / (p.logRN - p.logR0)
	if k < 0 {
		k = 0
	}
	i := int(k)
	if i >= p.n-1 {
		i = p.n - 2
	}
	if vals[i] <= 0 {
		return 0
	}
	return vals[i] * math.Pow(vals[i+1]/vals[i], k-float64(i))
}

// Density returns the gas density at radius rr, or zero beyond the sampled
// range.
func (p *Profile) Density(rr float64) float64 {
	if rr >= p.rmax {
		return 0
	}
	return p.lookup(p.dens, rr)
}

// Pressure returns the gas pressure at radius rr, or zero beyond the
// sampled range.
func (p *Profile) Pressure(rr float64) float64 {
	if rr >= p.rmax {
		return 0
	}
	return p.lookup(p.pres, rr)
}

// Potential returns the magnitude of the gravitational potential at radius
// rr. Beyond the sampled range it falls back to the point-mass law M/r.
// The fall-back matches the sampled edge only to leading order: the
// derivative is discontinuous at Rmax.
func (p *Profile) Potential(rr float64) float64 {
	if rr >= p.rmax {
		return p.mass / rr
	}
	return p.lookup(p.gpot, rr)
}

// Gravity returns the magnitude of the attractive radial field at radius
// rr, falling back to M/r² beyond the sampled range.
func (p *Profile) Gravity(rr float64) float64 {
	if rr >= p.rmax {
		return p.mass / (rr * rr)
	}
	return p.lookup(p.grav, rr)
}
