/*package orbit advances the two cluster halos under their mutual gravity
with a variable-timestep two-term extrapolation scheme.

The integrator is owned by the simulation coordinator: it is mutated once
per global step, after the per-block kernels have run, and its state is
read-only everywhere else.
*/
package orbit

import (
	"github.com/icm-sims/clustermerge/geom"
	"github.com/icm-sims/clustermerge/profile"
)

// Phase tracks where the integrator stands relative to the last completed
// step.
type Phase int

const (
	// Bootstrap means no prior acceleration exists yet; the first step
	// uses the single-term weights.
	Bootstrap Phase = iota
	// Restoring means kinematic state was loaded from a snapshot and
	// the current accelerations are stale until the next Prepare call.
	Restoring
	// Steady means at least one full step has completed.
	Steady
)

// Halo is the kinematic state of one cluster.
type Halo struct {
	X, V geom.Vec
	// Accel is the acceleration computed at the end of the last completed
	// step; OldAccel is the one from the step before that.
	Accel, OldAccel geom.Vec
}

// Snapshot is the integrator state persisted across restarts. Current
// accelerations are not stored: they are recomputed from the restored
// positions, which is pure.
type Snapshot struct {
	Main, Sub struct {
		X, V, OldAccel geom.Vec
	}
	DtOld float64
}

// Integrator advances the main and sub halo trajectories. When MainFixed
// is set the main halo's state is never mutated.
type Integrator struct {
	Main, Sub Halo

	mainProf, subProf *profile.Profile
	mainFixed         bool

	dtOld float64
	phase Phase
}

// New creates an integrator for a two-halo merger. The supplied profiles
// provide each halo's radial field for the mutual accelerations.
func New(mainProf, subProf *profile.Profile, mainFixed bool) *Integrator {
	return &Integrator{
		mainProf:  mainProf,
		subProf:   subProf,
		mainFixed: mainFixed,
		phase:     Bootstrap,
	}
}

// Phase returns the integrator's current phase.
func (ig *Integrator) Phase() Phase { return ig.phase }

// Init sets the initial positions and velocities and computes the first
// accelerations.
func (ig *Integrator) Init(mainX, mainV, subX, subV geom.Vec) {
	ig.Main.X, ig.Main.V = mainX, mainV
	ig.Sub.X, ig.Sub.V = subX, subV
	ig.phase = Bootstrap
	ig.dtOld = -1
	ig.UpdateAccel()
}

// UpdateAccel recomputes both halos' accelerations from the current
// separation. Each halo's acceleration is looked up against the other
// halo's profile, with the inverse-square tail beyond its sampled radius,
// so the two are antiparallel but not numerically exact negatives.
// UpdateAccel is pure given the current positions.
func (ig *Integrator) UpdateAccel() {
	d := ig.Sub.X.Sub(ig.Main.X)
	rc := d.Norm()
	unit := d.Scale(1 / rc)

	gmain := -ig.mainProf.Gravity(rc)
	ig.Sub.Accel = unit.Scale(gmain)

	gsub := -ig.subProf.Gravity(rc)
	ig.Main.Accel = unit.Scale(-gsub)
}

// Prepare completes a restart: if state was just restored from a snapshot
// the stale accelerations are recomputed before anything reads them. It is
// a no-op in every other phase and is safe to call every cycle.
func (ig *Integrator) Prepare() {
	if ig.phase != Restoring {
		return
	}
	ig.UpdateAccel()
	// A snapshot taken before the first step has no usable dtOld, so it
	// restores into the bootstrap phase rather than the steady weights.
	if ig.dtOld > 0 {
		ig.phase = Steady
	} else {
		ig.phase = Bootstrap
	}
}

// Step advances both free halos by dt and recomputes the accelerations for
// the next step. The velocity update is a two-point explicit extrapolation
// whose weights reduce to the classic Adams-Bashforth pair for constant dt:
//
//	w    = dt/2 + dtOld/3 + dt²/(6 dtOld)
//	wOld = (dtOld² - dt²)/(6 dtOld)
//
// On the bootstrap step only w = dt/2 applies.
func (ig *Integrator) Step(dt float64) {
	ig.Prepare()

	var w, wOld float64
	if ig.phase == Bootstrap {
		w = 0.5 * dt
		wOld = 0
	} else {
		w = 0.5*dt + ig.dtOld/3 + dt*dt/(6*ig.dtOld)
		wOld = (ig.dtOld*ig.dtOld - dt*dt) / (6 * ig.dtOld)
	}

	if !ig.mainFixed {
		advance(&ig.Main, dt, w, wOld)
	}
	advance(&ig.Sub, dt, w, wOld)

	ig.UpdateAccel()
	ig.dtOld = dt
	ig.phase = Steady
}

// advance applies the kick-drift update to one halo and rotates its
// acceleration history.
func advance(h *Halo, dt, w, wOld float64) {
	for d := 0; d < 3; d++ {
		h.V[d] += w*h.Accel[d] + wOld*h.OldAccel[d]
		h.X[d] += dt * h.V[d]
	}
	h.OldAccel = h.Accel
}

// Snapshot captures the restart state.
func (ig *Integrator) Snapshot() Snapshot {
	var s Snapshot
	s.Main.X, s.Main.V, s.Main.OldAccel = ig.Main.X, ig.Main.V, ig.Main.OldAccel
	s.Sub.X, s.Sub.V, s.Sub.OldAccel = ig.Sub.X, ig.Sub.V, ig.Sub.OldAccel
	s.DtOld = ig.dtOld
	return s
}

// Restore loads a snapshot and marks the accelerations stale. The next
// Prepare (or Step) recomputes them before integrating, so restoring and
// then stepping is deterministic.
func (ig *Integrator) Restore(s Snapshot) {
	ig.Main.X, ig.Main.V, ig.Main.OldAccel = s.Main.X, s.Main.V, s.Main.OldAccel
	ig.Sub.X, ig.Sub.V, ig.Sub.OldAccel = s.Sub.X, s.Sub.V, s.Sub.OldAccel
	ig.dtOld = s.DtOld
	ig.phase = Restoring
}
