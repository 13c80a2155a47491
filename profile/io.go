package profile

import (
	"github.com/phil-mansfield/table"
)

// Column order of a profile table: radius, gas density, gas pressure,
// gravitational potential, gravitational field.
const (
	radCol = iota
	densCol
	presCol
	gpotCol
	gravCol
)

// Read loads a profile from a whitespace-separated table file. Tables store
// the physical sign convention, so the potential and field columns are
// negated into magnitudes here. CGS tables are detected and rescaled by New.
func Read(file string) (*Profile, error) {
	colIdxs := []int{radCol, densCol, presCol, gpotCol, gravCol}
	cols, err := table.ReadTable(file, colIdxs, nil)
	if err != nil {
		return nil, err
	}

	r, dens, pres := cols[0], cols[1], cols[2]
	gpot, grav := cols[3], cols[4]
	for i := range gpot {
		gpot[i] *= -1
		grav[i] *= -1
	}

	return New(r, dens, pres, gpot, grav)
}
