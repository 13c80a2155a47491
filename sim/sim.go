/*Package sim wires the merger components together: profile tables, the
orbit integrator, the gravity source terms, the refinement oracle and the
state store. A Context owns the shared mutable state and is the only
place it is written, so the per-block work it fans out stays read-only
with respect to everything shared.
*/
package sim

import (
	"context"
	"fmt"
	"log"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/icm-sims/clustermerge/geom"
	"github.com/icm-sims/clustermerge/gravity"
	"github.com/icm-sims/clustermerge/grid"
	"github.com/icm-sims/clustermerge/io"
	"github.com/icm-sims/clustermerge/orbit"
	"github.com/icm-sims/clustermerge/persist"
	"github.com/icm-sims/clustermerge/profile"
	"github.com/icm-sims/clustermerge/refine"
	"github.com/icm-sims/clustermerge/vecpot"
)

// Context holds the run state shared by every block.
type Context struct {
	Cfg    *io.MergerWrapper
	Domain geom.Bounds

	MainProf *profile.Profile
	SubProf  *profile.Profile

	// Orbit is nil for single-halo runs.
	Orbit  *orbit.Integrator
	Grav   *gravity.Source
	Oracle *refine.Oracle

	// Apot is nil for unmagnetized runs.
	Apot *vecpot.Field

	Store *persist.Store
	RunID string

	Time  float64
	Cycle int64

	mainX0, mainV0 geom.Vec

	gamma    float64
	subzones int
	maxLevel int
	twoHalos bool
	subGas   bool
	workers  int
}

// NewContext builds a run context from a validated config. If the state
// file already holds a run with snapshots, the orbit resumes from the
// latest one; otherwise a fresh run is registered. configText is the raw
// config, stored with the run so state files are self-describing.
func NewContext(wrap *io.MergerWrapper, configText string) (*Context, error) {
	con, mesh, run := &wrap.Merger, &wrap.Mesh, &wrap.Run

	ctx := &Context{
		Cfg: wrap,
		Domain: geom.Bounds{
			Min: geom.Vec{mesh.XMin, mesh.YMin, mesh.ZMin},
			Max: geom.Vec{mesh.XMax, mesh.YMax, mesh.ZMax},
		},
		gamma:    con.Gamma,
		subzones: con.Subzones,
		maxLevel: mesh.MaxLevel,
		twoHalos: con.NumHalo == 2,
		subGas:   con.NumHalo == 2 && con.SubhaloGas,
		workers:  run.Workers,
	}
	if ctx.workers <= 0 {
		ctx.workers = runtime.GOMAXPROCS(0)
	}

	var err error
	if ctx.MainProf, err = profile.Read(con.Profile1); err != nil {
		return nil, fmt.Errorf("reading %s: %w", con.Profile1, err)
	}
	if ctx.twoHalos {
		if ctx.SubProf, err = profile.Read(con.Profile2); err != nil {
			return nil, fmt.Errorf("reading %s: %w", con.Profile2, err)
		}
	}

	center := ctx.Domain.Center()
	mainX := geom.Vec{con.XInit1, con.YInit1, center[2]}
	if math.IsNaN(mainX[0]) {
		mainX[0] = center[0]
	}
	if math.IsNaN(mainX[1]) {
		mainX[1] = center[1]
	}
	mainV := geom.Vec{con.VxInit1, con.VyInit1, 0}
	if ctx.twoHalos && con.MainClusterFixed {
		// A fixed main cluster sits at the domain center with zero
		// velocity; any configured init values for it are ignored.
		mainX, mainV = center, geom.Vec{}
	}
	subX := geom.Vec{con.XInit2, con.YInit2, center[2]}
	subV := geom.Vec{con.VxInit2, con.VyInit2, 0}
	ctx.mainX0, ctx.mainV0 = mainX, mainV

	if ctx.twoHalos {
		ctx.Orbit = orbit.New(ctx.MainProf, ctx.SubProf, con.MainClusterFixed)
		ctx.Orbit.Init(mainX, mainV, subX, subV)
	}

	ctx.Grav = &gravity.Source{
		Main:       ctx.MainProf,
		Sub:        ctx.SubProf,
		TwoHalos:   ctx.twoHalos,
		MainFixed:  con.MainClusterFixed,
		Isothermal: con.Isothermal,
		RCut:       con.RCut,
		RScale:     con.RScale,
	}
	ctx.Grav.SetHalos(mainX, subX, geom.Vec{})

	ctx.Oracle = &refine.Oracle{
		MinDensity:    con.MinRefineDensity,
		RefRadius1Sqr: con.RefRadius1 * con.RefRadius1,
		RefRadius2Sqr: con.RefRadius2 * con.RefRadius2,
		MainX:         mainX,
		SubX:          subX,
	}

	if con.ValidMagFile() {
		if ctx.Apot, err = vecpot.ReadField(con.MagFile); err != nil {
			return nil, fmt.Errorf("reading %s: %w", con.MagFile, err)
		}
		if err = ctx.Apot.CheckDomain(ctx.Domain); err != nil {
			return nil, err
		}
	}

	if ctx.Store, err = persist.Open(run.StateFile); err != nil {
		return nil, err
	}
	if err = ctx.resumeOrRegister(configText); err != nil {
		ctx.Store.Close()
		return nil, err
	}

	return ctx, nil
}

// resumeOrRegister picks up the newest run in the state file if it has
// snapshots, and registers a fresh run otherwise.
func (ctx *Context) resumeOrRegister(configText string) error {
	id, err := ctx.Store.LatestRun()
	if err != nil {
		return err
	}

	if id != "" {
		snap, cycle, time, found, err := ctx.Store.LoadLatestSnapshot(id)
		if err != nil {
			return err
		}
		if found {
			ctx.RunID = id
			ctx.Cycle, ctx.Time = cycle, time
			if ctx.Orbit != nil {
				ctx.Orbit.Restore(snap)
			}
			ctx.syncHalos()
			log.Printf(
				"Resuming run %s at cycle %d, t = %g", id, cycle, time,
			)
			return nil
		}
	}

	if ctx.RunID, err = ctx.Store.NewRun(configText); err != nil {
		return err
	}
	log.Printf("Registered run %s", ctx.RunID)
	return nil
}

// Close releases the state store.
func (ctx *Context) Close() error {
	return ctx.Store.Close()
}

// syncHalos pushes the current orbit state into the gravity source and
// the refinement oracle.
func (ctx *Context) syncHalos() {
	if ctx.Orbit == nil {
		return
	}
	ctx.Grav.SetHalos(
		ctx.Orbit.Main.X, ctx.Orbit.Sub.X, ctx.Orbit.Main.Accel,
	)
	ctx.Oracle.MainX = ctx.Orbit.Main.X
	ctx.Oracle.SubX = ctx.Orbit.Sub.X
}

// Step advances the run by one cycle: boundary fill and gravitational
// source terms on every block concurrently, then the orbit update and a
// periodic state save.
func (ctx *Context) Step(blocks []*grid.Block, dt float64) error {
	if ctx.Orbit != nil {
		ctx.Orbit.Prepare()
		ctx.syncHalos()
	}

	g, _ := errgroup.WithContext(context.Background())
	g.SetLimit(ctx.workers)
	for _, b := range blocks {
		b := b
		g.Go(func() error {
			for _, f := range ctx.domainFaces(b) {
				b.ApplyDiode(f)
			}
			ctx.Grav.Apply(b, dt)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if ctx.Orbit != nil {
		ctx.Orbit.Step(dt)
	}
	ctx.Time += dt
	ctx.Cycle++

	if ctx.Cycle%int64(ctx.Cfg.Run.TraceEvery) == 0 {
		if err := ctx.saveState(); err != nil {
			return err
		}
	}
	return nil
}

// saveState appends trajectory samples and replaces the restart snapshot.
func (ctx *Context) saveState() error {
	if ctx.Orbit == nil {
		return nil
	}

	err := ctx.Store.AppendTrajectory(
		ctx.RunID, persist.MainHalo, ctx.Cycle, ctx.Time,
		ctx.Orbit.Main.X, ctx.Orbit.Main.V,
	)
	if err != nil {
		return err
	}
	err = ctx.Store.AppendTrajectory(
		ctx.RunID, persist.SubHalo, ctx.Cycle, ctx.Time,
		ctx.Orbit.Sub.X, ctx.Orbit.Sub.V,
	)
	if err != nil {
		return err
	}

	return ctx.Store.SaveSnapshot(
		ctx.RunID, ctx.Cycle, ctx.Time, ctx.Orbit.Snapshot(),
	)
}

// Refine scores every block against the current halo positions.
func (ctx *Context) Refine(blocks []*grid.Block) []refine.Signal {
	if ctx.Orbit != nil {
		ctx.Oracle.MainX = ctx.Orbit.Main.X
		ctx.Oracle.SubX = ctx.Orbit.Sub.X
	}

	signals := make([]refine.Signal, len(blocks))
	for i, b := range blocks {
		signals[i] = ctx.Oracle.Decide(b)
	}
	return signals
}

// domainFaces lists the block faces that lie on the domain boundary.
// Interior block faces are filled by neighbor exchange, not by boundary
// conditions.
func (ctx *Context) domainFaces(b *grid.Block) []grid.Face {
	var faces []grid.Face
	for d := 0; d < 3; d++ {
		eps := 1e-10 * ctx.Domain.Width(d)
		if math.Abs(b.Bounds.Min[d]-ctx.Domain.Min[d]) < eps {
			faces = append(faces, grid.Face(2*d))
		}
		if math.Abs(b.Bounds.Max[d]-ctx.Domain.Max[d]) < eps {
			faces = append(faces, grid.Face(2*d+1))
		}
	}
	return faces
}
