package refine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/icm-sims/clustermerge/geom"
	"github.com/icm-sims/clustermerge/grid"
)

func refineBlock(t *testing.T) *grid.Block {
	b, err := grid.NewBlock(8, 8, 8, geom.Bounds{
		Min: geom.Vec{0, 0, 0}, Max: geom.Vec{8, 8, 8},
	}, 0)
	assert.Nil(t, err)
	fill(b, b.Dens, 1)
	fill(b, b.Pres, 1)
	return b
}

func fill(b *grid.Block, v []float64, val float64) {
	for i := range v {
		v[i] = val
	}
}

// spikePlane bumps every cell of the x-plane i by h, ghosts included, so
// the variable varies along x only.
func spikePlane(b *grid.Block, v []float64, i int, h float64) {
	for k := 0; k < b.Total(2); k++ {
		for j := 0; j < b.Total(1); j++ {
			v[b.Idx(i, j, k)] += h
		}
	}
}

func farOracle() *Oracle {
	return &Oracle{
		MinDensity:    0.5,
		RefRadius1Sqr: 100 * 100,
		RefRadius2Sqr: 100 * 100,
		MainX:         geom.Vec{1e4, 1e4, 1e4},
		SubX:          geom.Vec{-1e4, -1e4, -1e4},
	}
}

func TestSmoothBlockDerefines(t *testing.T) {
	b := refineBlock(t)
	assert.Equal(t, 0.0, Curvature(b, b.Dens))
	assert.Equal(t, Derefine, farOracle().Decide(b))
}

func TestSharpFeatureRefines(t *testing.T) {
	b := refineBlock(t)
	spikePlane(b, b.Dens, 6, 10)

	assert.True(t, Curvature(b, b.Dens) > refineCurv)
	assert.Equal(t, Refine, farOracle().Decide(b))
}

func TestMildFeatureKeeps(t *testing.T) {
	// A 3.7% plane bump on a unit background lands the estimator between
	// the two thresholds.
	b := refineBlock(t)
	spikePlane(b, b.Dens, 6, 0.037)

	curv := Curvature(b, b.Dens)
	assert.True(t, curv > derefineCurv && curv < refineCurv,
		"curvature %g outside the keep band", curv)
	assert.Equal(t, Keep, farOracle().Decide(b))
}

func TestLowDensityBlockDerefinesDespiteCurvature(t *testing.T) {
	b := refineBlock(t)
	fill(b, b.Dens, 0.1)
	spikePlane(b, b.Pres, 6, 10)

	assert.Equal(t, Derefine, farOracle().Decide(b))
}

func TestProximityOverridesDerefine(t *testing.T) {
	b := refineBlock(t)
	fill(b, b.Dens, 0.1)

	o := farOracle()
	o.MainX = geom.Vec{4, 4, 4}
	assert.Equal(t, Refine, o.Decide(b))

	o.MainX = geom.Vec{1e4, 1e4, 1e4}
	o.SubX = geom.Vec{12, 4, 4}
	assert.Equal(t, Refine, o.Decide(b))
}

func TestZeroRadiusDisablesSphere(t *testing.T) {
	b := refineBlock(t)
	fill(b, b.Dens, 0.1)

	o := farOracle()
	o.MainX = geom.Vec{4, 4, 4}
	o.RefRadius1Sqr = 0
	o.RefRadius2Sqr = 0
	assert.Equal(t, Derefine, o.Decide(b))
}

func TestZeroFieldCurvature(t *testing.T) {
	b := refineBlock(t)
	fill(b, b.Dens, 0)
	assert.Equal(t, 0.0, Curvature(b, b.Dens))
}
