package vecpot

import (
	"math"

	opensimplex "github.com/ojrac/opensimplex-go"
)

// GenConfig controls procedural vector potential generation.
type GenConfig struct {
	Seed int64
	// Samples per axis and physical coordinate range of the sample
	// centers.
	N        int
	Min, Max float64
	// Target tangled field strength. The potential amplitude is scaled
	// so a curl over one sample cell has this order of magnitude.
	B0 float64
	// Coherence length of the turbulent field.
	Scale float64
	// Octave count and per-octave amplitude falloff.
	Octaves     int
	Persistence float64
}

// DefaultGenConfig are generation parameters that produce a tangled
// divergence-free field with a ~100 kpc coherence length on a (4 Mpc)^3
// grid.
func DefaultGenConfig() GenConfig {
	return GenConfig{
		Seed:        42,
		N:           256,
		Min:         -2000,
		Max:         2000,
		B0:          1.0e-3,
		Scale:       100,
		Octaves:     4,
		Persistence: 0.5,
	}
}

// Generate samples three independent layered-noise volumes as the
// components of a vector potential. Any curl of the result is exactly
// divergence-free, so the noise layers need no solenoidal projection of
// their own.
func Generate(cfg GenConfig) (*Field, error) {
	var coords [3][]float64
	dx := (cfg.Max - cfg.Min) / float64(cfg.N)
	for d := 0; d < 3; d++ {
		coords[d] = make([]float64, cfg.N)
		for i := range coords[d] {
			coords[d][i] = cfg.Min + dx*(float64(i)+0.5)
		}
	}

	// One generator per component, offset seeds as in layered terrain
	// generation.
	noise := [3]opensimplex.Noise{
		opensimplex.New(cfg.Seed),
		opensimplex.New(cfg.Seed + 1),
		opensimplex.New(cfg.Seed + 2),
	}

	// A_0 ~ B_0 * L so that |curl A| ~ B_0 at the coherence scale.
	amp := cfg.B0 * cfg.Scale

	n := cfg.N * cfg.N * cfg.N
	comps := [3][]float64{
		make([]float64, n), make([]float64, n), make([]float64, n),
	}
	for c := 0; c < 3; c++ {
		idx := 0
		for i := 0; i < cfg.N; i++ {
			x := coords[0][i] / cfg.Scale
			for j := 0; j < cfg.N; j++ {
				y := coords[1][j] / cfg.Scale
				for k := 0; k < cfg.N; k++ {
					z := coords[2][k] / cfg.Scale
					comps[c][idx] = amp * octaveNoise(
						noise[c], x, y, z, cfg.Octaves, cfg.Persistence,
					)
					idx++
				}
			}
		}
	}

	return NewField(coords, comps[0], comps[1], comps[2])
}

// octaveNoise layers noise samples at doubling frequencies and
// geometrically decaying amplitudes, normalized to [-1, 1].
func octaveNoise(
	noise opensimplex.Noise, x, y, z float64, octaves int,
	persistence float64,
) float64 {
	total, amp, norm, freq := 0.0, 1.0, 0.0, 1.0
	for i := 0; i < octaves; i++ {
		total += noise.Eval3(x*freq, y*freq, z*freq) * amp
		norm += amp
		amp *= persistence
		freq *= 2
	}
	return total / norm
}

// RMS returns the root mean square of one component volume. Used by the
// generation mode to report the amplitude of the written grid.
func RMS(f *Field, c Component) float64 {
	sum := 0.0
	for _, a := range f.A[c] {
		sum += a * a
	}
	return math.Sqrt(sum / float64(len(f.A[c])))
}
