package gravity

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/icm-sims/clustermerge/geom"
	"github.com/icm-sims/clustermerge/grid"
	"github.com/icm-sims/clustermerge/profile"
)

func pointMassProfile(t *testing.T, m float64) *profile.Profile {
	n := 256
	r := make([]float64, n)
	dens := make([]float64, n)
	pres := make([]float64, n)
	gpot := make([]float64, n)
	grav := make([]float64, n)
	logLo, logHi := math.Log10(0.1), math.Log10(100.0)
	for i := range r {
		r[i] = math.Pow(10, logLo+(logHi-logLo)*float64(i)/float64(n-1))
		dens[i] = 1e-30
		pres[i] = 1e-30
		gpot[i] = m / r[i]
		grav[i] = m / (r[i] * r[i])
	}
	p, err := profile.New(r, dens, pres, gpot, grav)
	require.NoError(t, err)
	return p
}

func newBlock(t *testing.T, min, max geom.Vec) *grid.Block {
	b, err := grid.NewBlock(4, 4, 4, geom.Bounds{Min: min, Max: max}, 0)
	require.NoError(t, err)
	return b
}

func fill(vals []float64, v float64) {
	for i := range vals {
		vals[i] = v
	}
}

func TestSuperposition(t *testing.T) {
	p := pointMassProfile(t, 1000)

	single := &Source{Main: p, Sub: p, TwoHalos: false}
	single.SetHalos(geom.Vec{}, geom.Vec{}, geom.Vec{})
	double := &Source{Main: p, Sub: p, TwoHalos: true}
	double.SetHalos(geom.Vec{}, geom.Vec{}, geom.Vec{})

	// Two identical overlapping halos double the potential everywhere.
	for _, x := range []geom.Vec{{1, 0, 0}, {5, 5, 0}, {30, 10, 20}, {500, 0, 0}} {
		assert.InEpsilon(t, 2*single.Potential(x), double.Potential(x), 1e-12)
	}
}

func TestMomentumMatchesAnalyticGravity(t *testing.T) {
	m := 1000.0
	p := pointMassProfile(t, m)
	s := &Source{Main: p, Sub: p}
	s.SetHalos(geom.Vec{}, geom.Vec{}, geom.Vec{})

	// A slab far out on the x axis, inside the sampled range, where the
	// field is essentially -m/r² x-hat.
	b := newBlock(t, geom.Vec{40, -1, -1}, geom.Vec{42, 1, 1})
	rho := 2.0
	fill(b.Dens, rho)

	dt := 0.125
	s.Apply(b, dt)

	for k := b.Is(); k <= b.Ie(2); k++ {
		for j := b.Is(); j <= b.Ie(1); j++ {
			for i := b.Is(); i <= b.Ie(0); i++ {
				pos := b.CellPos(i, j, k)
				r := pos.Norm()
				gx := -m / (r * r) * pos[0] / r
				got := b.UMx[b.Idx(i, j, k)]
				assert.InDelta(t, rho*gx*dt, got, 5e-4*math.Abs(rho*gx*dt),
					"cell %d,%d,%d", i, j, k)
			}
		}
	}
}

func TestEnergyFluxWeightedForm(t *testing.T) {
	m := 1000.0
	p := pointMassProfile(t, m)
	s := &Source{Main: p, Sub: p}
	s.SetHalos(geom.Vec{}, geom.Vec{}, geom.Vec{})

	b := newBlock(t, geom.Vec{40, -1, -1}, geom.Vec{42, 1, 1})
	fill(b.Dens, 1)
	flux := 3.0
	fill(b.FluxX, flux)

	dt := 0.25
	s.Apply(b, dt)

	// With a uniform face flux the weighted form telescopes to
	// -F (phi_r - phi_l)/dx, the flux times the face-difference gravity.
	i, j, k := b.Is(), b.Is(), b.Is()
	x2v, x3v := b.CellCenter(1, j), b.CellCenter(2, k)
	phil := s.Potential(geom.Vec{b.FaceCoord(0, i), x2v, x3v})
	phir := s.Potential(geom.Vec{b.FaceCoord(0, i+1), x2v, x3v})
	want := -flux * (phir - phil) / b.Dx(0) * dt

	assert.InEpsilon(t, want, b.UEner[b.Idx(i, j, k)], 1e-12)
}

func TestIsothermalSkipsEnergy(t *testing.T) {
	p := pointMassProfile(t, 1000)
	s := &Source{Main: p, Sub: p, Isothermal: true}
	s.SetHalos(geom.Vec{}, geom.Vec{}, geom.Vec{})

	b := newBlock(t, geom.Vec{40, -1, -1}, geom.Vec{42, 1, 1})
	fill(b.Dens, 1)
	fill(b.FluxX, 3)

	s.Apply(b, 0.25)
	for _, e := range b.UEner {
		assert.Equal(t, 0.0, e)
	}
}

func TestNoninertialCorrection(t *testing.T) {
	// A vanishing profile mass isolates the fictitious force.
	p := pointMassProfile(t, 1e-12)
	s := &Source{
		Main: p, Sub: p,
		TwoHalos: true, MainFixed: true,
		RCut: 30, RScale: 10,
	}
	accel := geom.Vec{0.5, 0, 0}
	s.SetHalos(geom.Vec{}, geom.Vec{50, 0, 0}, accel)

	// Inside RCut: the full correction is subtracted.
	bIn := newBlock(t, geom.Vec{10, -1, -1}, geom.Vec{12, 1, 1})
	fill(bIn.Dens, 1)
	dt := 0.1
	s.Apply(bIn, dt)
	i, j, k := bIn.Is(), bIn.Is(), bIn.Is()
	assert.InDelta(t, -accel[0]*dt, bIn.UMx[bIn.Idx(i, j, k)], 1e-10)

	// Beyond RCut: the correction decays exponentially.
	bOut := newBlock(t, geom.Vec{40, -1, -1}, geom.Vec{42, 1, 1})
	fill(bOut.Dens, 1)
	s.Apply(bOut, dt)
	rr := bOut.CellPos(i, j, k).Norm()
	want := -accel[0] * math.Exp(-(rr-s.RCut)/s.RScale) * dt
	assert.InDelta(t, want, bOut.UMx[bOut.Idx(i, j, k)], 1e-10)
}
