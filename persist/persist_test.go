package persist

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/icm-sims/clustermerge/geom"
	"github.com/icm-sims/clustermerge/orbit"
)

func openStore(t *testing.T) *Store {
	s, err := Open(filepath.Join(t.TempDir(), "merger.db"))
	assert.Nil(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func testSnapshot() orbit.Snapshot {
	snap := orbit.Snapshot{DtOld: 0.01}
	snap.Main.X = geom.Vec{1, 2, 3}
	snap.Main.V = geom.Vec{-1, 0, 1}
	snap.Main.OldAccel = geom.Vec{0.1, 0.2, 0.3}
	snap.Sub.X = geom.Vec{100, 200, 300}
	snap.Sub.V = geom.Vec{-10, 0, 10}
	snap.Sub.OldAccel = geom.Vec{-0.1, -0.2, -0.3}
	return snap
}

func TestSnapshotRoundTrip(t *testing.T) {
	s := openStore(t)
	id, err := s.NewRun("[Merger]\nProfile1 = main.dat\n")
	assert.Nil(t, err)

	snap := testSnapshot()
	assert.Nil(t, s.SaveSnapshot(id, 40, 0.4, snap))

	got, cycle, time, found, err := s.LoadLatestSnapshot(id)
	assert.Nil(t, err)
	assert.True(t, found)
	assert.Equal(t, int64(40), cycle)
	assert.Equal(t, 0.4, time)
	assert.Equal(t, snap, got)
}

func TestLatestSnapshotWins(t *testing.T) {
	s := openStore(t)
	id, err := s.NewRun("")
	assert.Nil(t, err)

	first := testSnapshot()
	assert.Nil(t, s.SaveSnapshot(id, 10, 0.1, first))

	second := testSnapshot()
	second.Main.X = geom.Vec{9, 9, 9}
	assert.Nil(t, s.SaveSnapshot(id, 20, 0.2, second))

	got, cycle, _, found, err := s.LoadLatestSnapshot(id)
	assert.Nil(t, err)
	assert.True(t, found)
	assert.Equal(t, int64(20), cycle)
	assert.Equal(t, second, got)
}

func TestEmptyRunHasNoSnapshot(t *testing.T) {
	s := openStore(t)
	id, err := s.NewRun("")
	assert.Nil(t, err)

	_, _, _, found, err := s.LoadLatestSnapshot(id)
	assert.Nil(t, err)
	assert.False(t, found)
}

func TestTrajectoryOrdering(t *testing.T) {
	s := openStore(t)
	id, err := s.NewRun("")
	assert.Nil(t, err)

	for cycle := int64(0); cycle < 5; cycle++ {
		x := geom.Vec{float64(cycle), 0, 0}
		v := geom.Vec{0, float64(cycle), 0}
		assert.Nil(t, s.AppendTrajectory(
			id, SubHalo, cycle, float64(cycle)*0.1, x, v,
		))
	}
	assert.Nil(t, s.AppendTrajectory(
		id, MainHalo, 0, 0, geom.Vec{}, geom.Vec{},
	))

	pts, err := s.Trajectory(id, SubHalo)
	assert.Nil(t, err)
	assert.Equal(t, 5, len(pts))
	for i, pt := range pts {
		assert.Equal(t, int64(i), pt.Cycle)
		assert.Equal(t, float64(i), pt.X)
		assert.Equal(t, float64(i), pt.Vy)
	}

	mains, err := s.Trajectory(id, MainHalo)
	assert.Nil(t, err)
	assert.Equal(t, 1, len(mains))
}

func TestLatestRun(t *testing.T) {
	s := openStore(t)

	id, err := s.LatestRun()
	assert.Nil(t, err)
	assert.Equal(t, "", id)

	_, err = s.NewRun("")
	assert.Nil(t, err)
	second, err := s.NewRun("")
	assert.Nil(t, err)

	id, err = s.LatestRun()
	assert.Nil(t, err)
	assert.Equal(t, second, id)
}
