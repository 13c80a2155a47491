// Package persist keeps run state in a SQLite file: one row of orbit
// state per saved cycle, plus the full halo trajectories for later
// analysis. A run that dies can be restarted from its latest snapshot.
package persist

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/icm-sims/clustermerge/geom"
	"github.com/icm-sims/clustermerge/orbit"
)

// Store wraps a SQLite connection holding run state.
type Store struct {
	conn *sqlx.DB
}

// Open opens or creates the state file at path.
func Open(path string) (*Store, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open state file: %w", err)
	}

	s := &Store{conn: conn}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate state file: %w", err)
	}

	return s, nil
}

func (s *Store) Close() error {
	return s.conn.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		config TEXT NOT NULL,
		created TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS snapshots (
		run_id TEXT NOT NULL REFERENCES runs(id),
		cycle INTEGER NOT NULL,
		time REAL NOT NULL,
		dt_old REAL NOT NULL,
		main_x REAL NOT NULL, main_y REAL NOT NULL, main_z REAL NOT NULL,
		main_vx REAL NOT NULL, main_vy REAL NOT NULL, main_vz REAL NOT NULL,
		main_oax REAL NOT NULL, main_oay REAL NOT NULL, main_oaz REAL NOT NULL,
		sub_x REAL NOT NULL, sub_y REAL NOT NULL, sub_z REAL NOT NULL,
		sub_vx REAL NOT NULL, sub_vy REAL NOT NULL, sub_vz REAL NOT NULL,
		sub_oax REAL NOT NULL, sub_oay REAL NOT NULL, sub_oaz REAL NOT NULL,
		PRIMARY KEY (run_id, cycle)
	);

	CREATE TABLE IF NOT EXISTS trajectory (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL REFERENCES runs(id),
		halo INTEGER NOT NULL,
		cycle INTEGER NOT NULL,
		time REAL NOT NULL,
		x REAL NOT NULL, y REAL NOT NULL, z REAL NOT NULL,
		vx REAL NOT NULL, vy REAL NOT NULL, vz REAL NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_trajectory_run
		ON trajectory(run_id, halo, cycle);
	`
	_, err := s.conn.Exec(schema)
	return err
}

// NewRun registers a run and returns its id. The config text is kept
// alongside so a state file is self-describing.
func (s *Store) NewRun(config string) (string, error) {
	id := uuid.New().String()
	_, err := s.conn.Exec(
		"INSERT INTO runs (id, config) VALUES (?, ?)", id, config,
	)
	if err != nil {
		return "", fmt.Errorf("register run: %w", err)
	}
	return id, nil
}

// LatestRun returns the id of the most recently created run, or "" if
// the state file has none.
func (s *Store) LatestRun() (string, error) {
	var id string
	err := s.conn.Get(&id,
		"SELECT id FROM runs ORDER BY created DESC, rowid DESC LIMIT 1",
	)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return id, err
}

// SaveSnapshot writes the orbit state at the given cycle, replacing any
// earlier snapshot of the same cycle.
func (s *Store) SaveSnapshot(
	runID string, cycle int64, time float64, snap orbit.Snapshot,
) error {
	_, err := s.conn.Exec(`INSERT OR REPLACE INTO snapshots
		(run_id, cycle, time, dt_old,
		 main_x, main_y, main_z, main_vx, main_vy, main_vz,
		 main_oax, main_oay, main_oaz,
		 sub_x, sub_y, sub_z, sub_vx, sub_vy, sub_vz,
		 sub_oax, sub_oay, sub_oaz)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, cycle, time, snap.DtOld,
		snap.Main.X[0], snap.Main.X[1], snap.Main.X[2],
		snap.Main.V[0], snap.Main.V[1], snap.Main.V[2],
		snap.Main.OldAccel[0], snap.Main.OldAccel[1], snap.Main.OldAccel[2],
		snap.Sub.X[0], snap.Sub.X[1], snap.Sub.X[2],
		snap.Sub.V[0], snap.Sub.V[1], snap.Sub.V[2],
		snap.Sub.OldAccel[0], snap.Sub.OldAccel[1], snap.Sub.OldAccel[2],
	)
	if err != nil {
		return fmt.Errorf("save snapshot at cycle %d: %w", cycle, err)
	}
	return nil
}

// LoadLatestSnapshot returns the newest saved orbit state of the run.
// found is false when the run has no snapshots yet.
func (s *Store) LoadLatestSnapshot(
	runID string,
) (snap orbit.Snapshot, cycle int64, time float64, found bool, err error) {
	row := s.conn.QueryRow(`SELECT
		cycle, time, dt_old,
		main_x, main_y, main_z, main_vx, main_vy, main_vz,
		main_oax, main_oay, main_oaz,
		sub_x, sub_y, sub_z, sub_vx, sub_vy, sub_vz,
		sub_oax, sub_oay, sub_oaz
		FROM snapshots WHERE run_id = ? ORDER BY cycle DESC LIMIT 1`,
		runID,
	)

	err = row.Scan(
		&cycle, &time, &snap.DtOld,
		&snap.Main.X[0], &snap.Main.X[1], &snap.Main.X[2],
		&snap.Main.V[0], &snap.Main.V[1], &snap.Main.V[2],
		&snap.Main.OldAccel[0], &snap.Main.OldAccel[1], &snap.Main.OldAccel[2],
		&snap.Sub.X[0], &snap.Sub.X[1], &snap.Sub.X[2],
		&snap.Sub.V[0], &snap.Sub.V[1], &snap.Sub.V[2],
		&snap.Sub.OldAccel[0], &snap.Sub.OldAccel[1], &snap.Sub.OldAccel[2],
	)
	if err == sql.ErrNoRows {
		return snap, 0, 0, false, nil
	} else if err != nil {
		return snap, 0, 0, false, fmt.Errorf("load snapshot: %w", err)
	}
	return snap, cycle, time, true, nil
}

// TrajPoint is one stored sample of a halo trajectory.
type TrajPoint struct {
	Cycle int64   `db:"cycle"`
	Time  float64 `db:"time"`
	X     float64 `db:"x"`
	Y     float64 `db:"y"`
	Z     float64 `db:"z"`
	Vx    float64 `db:"vx"`
	Vy    float64 `db:"vy"`
	Vz    float64 `db:"vz"`
}

// Halo indices in the trajectory table.
const (
	MainHalo = 1
	SubHalo  = 2
)

// AppendTrajectory adds one trajectory sample for the given halo.
func (s *Store) AppendTrajectory(
	runID string, halo int, cycle int64, time float64, x, v geom.Vec,
) error {
	_, err := s.conn.Exec(`INSERT INTO trajectory
		(run_id, halo, cycle, time, x, y, z, vx, vy, vz)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, halo, cycle, time, x[0], x[1], x[2], v[0], v[1], v[2],
	)
	if err != nil {
		return fmt.Errorf("append trajectory: %w", err)
	}
	return nil
}

// Trajectory returns the stored samples for one halo in cycle order.
func (s *Store) Trajectory(runID string, halo int) ([]TrajPoint, error) {
	var pts []TrajPoint
	err := s.conn.Select(&pts, `SELECT cycle, time, x, y, z, vx, vy, vz
		FROM trajectory WHERE run_id = ? AND halo = ? ORDER BY cycle`,
		runID, halo,
	)
	return pts, err
}
