/*package units holds the conversion factors between the physical (CGS) unit
system that external profile and field tables may be written in and the
simulation unit system used internally.
*/
package units

// Conversion factors from CGS to simulation units.
const (
	Radius    = 3.2407792899999994e-22
	Density   = 1.4775575897980712e+31
	Pressure  = 1.54543684e+15
	Potential = 1.04594017e-16
	Gravity   = 322743.41425179
	VecPot    = 1.2740166e-14
)

// cgsRadius is the radius above which a table is assumed to be in CGS.
// Nothing in simulation units is remotely this large.
const cgsRadius = 1.0e10

// IsCGS reports whether a table whose largest radial extent is r is written
// in the physical unit system and needs to be rescaled.
func IsCGS(r float64) bool {
	return r > cgsRadius
}
