package io

import (
	"fmt"
	"math"

	"gopkg.in/gcfg.v1"
)

const ExampleMergerFile = `[Merger]

#######################
# Required Parameters #
#######################

# ASCII table holding the radial profile of the main cluster. Columns are
# radius, density, pressure, potential and radial acceleration. Tables in
# cgs units are detected and converted automatically.
Profile1 = path/to/main_profile.dat

# Number of halos in the simulation. Must be 1 or 2.
NumHalo = 2

# Profile of the infalling subcluster. Required when NumHalo = 2.
Profile2 = path/to/sub_profile.dat

# Initial position and velocity of the subcluster, in the plane of the
# orbit. Required when NumHalo = 2.
XInit2  = 1000
YInit2  = 500
VxInit2 = -1000
VyInit2 = 0

#######################
# Optional Parameters #
#######################

# Binary grid of the initial magnetic vector potential, as written by the
# -GenField mode. When unset the simulation starts unmagnetized.
# MagFile = path/to/apot.dat

# Initial position and velocity of the main cluster. Defaults to the
# domain center at rest.
# XInit1  = 0
# YInit1  = 0
# VxInit1 = 0
# VyInit1 = 0

# Whether the main cluster is pinned to its initial position. When it is,
# the frame is non-inertial and the main cluster's acceleration is applied
# to the gas as a damped correction term.
# MainClusterFixed = true

# Damping of the non-inertial correction: no damping inside RCut, then an
# exponential falloff with scale RScale. Both in the length units of the
# profile tables.
# RCut   = 800
# RScale = 300

# Whether the subcluster carries its own gas or only its potential.
# SubhaloGas = false

# Blocks whose density never reaches MinRefineDensity are marked for
# derefinement regardless of their curvature.
# MinRefineDensity = 0

# Radii of the always-refined spheres around the two cluster centers.
# Zero disables a sphere.
# RefRadius1 = 0
# RefRadius2 = 0

# Number of subzones per cell axis used to average the initial profiles
# onto the grid.
# Subzones = 3

# Adiabatic index of the gas. Set Isothermal to skip the energy source
# terms entirely.
# Gamma = 1.6666666666666667
# Isothermal = false

[Mesh]

# Extent of the simulation domain.
XMin = -2000
XMax = 2000
YMin = -2000
YMax = 2000
ZMin = -2000
ZMax = 2000

# Root blocks per axis, cells per block axis and the deepest refinement
# level.
RootBlocks = 2
BlockCells = 16
MaxLevel   = 4

[Run]

# Where the run state (orbit snapshots and cluster trajectories) is kept.
# Restarting from this file resumes the orbit where it left off.
StateFile = path/to/merger.db

TMax = 5.0
Dt   = 0.001

#######################
# Optional Parameters #
#######################

# Steps between trajectory rows written to the state file.
# TraceEvery = 10

# Worker goroutines used for the block sweep. Defaults to GOMAXPROCS.
# Workers = 0

# LogFile = log.out`

type MergerConfig struct {
	// Required
	Profile1 string
	NumHalo  int

	// Required for two-halo runs
	Profile2         string
	XInit2, YInit2   float64
	VxInit2, VyInit2 float64

	// Optional
	MagFile                string
	XInit1, YInit1         float64
	VxInit1, VyInit1       float64
	MainClusterFixed       bool
	RScale, RCut           float64
	SubhaloGas             bool
	MinRefineDensity       float64
	RefRadius1, RefRadius2 float64
	Subzones               int
	Gamma                  float64
	Isothermal             bool
}

type MeshConfig struct {
	XMin, XMax float64
	YMin, YMax float64
	ZMin, ZMax float64
	RootBlocks int
	BlockCells int
	MaxLevel   int
}

type RunConfig struct {
	StateFile  string
	TMax, Dt   float64
	TraceEvery int
	Workers    int
	LogFile    string
}

type MergerWrapper struct {
	Merger MergerConfig
	Mesh   MeshConfig
	Run    RunConfig
}

func DefaultMergerWrapper() *MergerWrapper {
	con := MergerConfig{}
	con.NumHalo = 1
	// NaN marks "unset": the coordinator substitutes the domain center.
	con.XInit1 = math.NaN()
	con.YInit1 = math.NaN()
	con.MainClusterFixed = true
	con.RScale = 300
	con.RCut = 800
	con.Subzones = 3
	con.Gamma = 5.0 / 3.0

	mesh := MeshConfig{}
	mesh.RootBlocks = 2
	mesh.BlockCells = 16

	run := RunConfig{}
	run.TraceEvery = 10

	return &MergerWrapper{con, mesh, run}
}

// ReadMergerConfig reads fname into the default wrapper and validates
// every field. The returned wrapper is ready to use.
func ReadMergerConfig(fname string) (*MergerWrapper, error) {
	wrap := DefaultMergerWrapper()
	if err := gcfg.ReadFileInto(wrap, fname); err != nil {
		return nil, err
	}

	con := &wrap.Merger
	if !con.ValidProfile1() {
		return nil, fmt.Errorf("Profile1 must be set.")
	}
	if !con.ValidNumHalo() {
		return nil, fmt.Errorf("NumHalo must be 1 or 2, not %d.", con.NumHalo)
	}
	if con.NumHalo == 2 && !con.ValidProfile2() {
		return nil, fmt.Errorf("Profile2 must be set when NumHalo = 2.")
	}
	if !con.ValidSubzones() {
		return nil, fmt.Errorf(
			"Subzones must be positive, not %d.", con.Subzones,
		)
	}
	if !con.ValidGamma() {
		return nil, fmt.Errorf("Gamma must exceed 1, but is %g.", con.Gamma)
	}
	if !con.ValidRefRadii() {
		return nil, fmt.Errorf("RefRadius1 and RefRadius2 cannot be negative.")
	}

	mesh := &wrap.Mesh
	if !mesh.ValidBounds() {
		return nil, fmt.Errorf(
			"[Mesh] bounds must have positive extent on every axis.",
		)
	}
	if !mesh.ValidRootBlocks() {
		return nil, fmt.Errorf(
			"RootBlocks must be positive, not %d.", mesh.RootBlocks,
		)
	}
	if !mesh.ValidBlockCells() {
		return nil, fmt.Errorf(
			"BlockCells must be at least 4, not %d.", mesh.BlockCells,
		)
	}
	if !mesh.ValidMaxLevel() {
		return nil, fmt.Errorf(
			"MaxLevel cannot be negative, but is %d.", mesh.MaxLevel,
		)
	}

	run := &wrap.Run
	if !run.ValidStateFile() {
		return nil, fmt.Errorf("StateFile must be set.")
	}
	if !run.ValidTMax() || !run.ValidDt() {
		return nil, fmt.Errorf(
			"TMax and Dt must be positive, but are %g and %g.",
			run.TMax, run.Dt,
		)
	}
	if !run.ValidTraceEvery() {
		return nil, fmt.Errorf(
			"TraceEvery must be positive, not %d.", run.TraceEvery,
		)
	}

	return wrap, nil
}

func (con *MergerConfig) ValidProfile1() bool {
	return con.Profile1 != ""
}
func (con *MergerConfig) ValidProfile2() bool {
	return con.Profile2 != ""
}
func (con *MergerConfig) ValidNumHalo() bool {
	return con.NumHalo == 1 || con.NumHalo == 2
}
func (con *MergerConfig) ValidMagFile() bool {
	return con.MagFile != ""
}
func (con *MergerConfig) ValidSubzones() bool {
	return con.Subzones > 0
}
func (con *MergerConfig) ValidGamma() bool {
	return con.Gamma > 1
}
func (con *MergerConfig) ValidRefRadii() bool {
	return con.RefRadius1 >= 0 && con.RefRadius2 >= 0
}

func (mesh *MeshConfig) ValidBounds() bool {
	return mesh.XMax > mesh.XMin &&
		mesh.YMax > mesh.YMin &&
		mesh.ZMax > mesh.ZMin
}
func (mesh *MeshConfig) ValidRootBlocks() bool {
	return mesh.RootBlocks > 0
}
func (mesh *MeshConfig) ValidBlockCells() bool {
	return mesh.BlockCells >= 4
}
func (mesh *MeshConfig) ValidMaxLevel() bool {
	return mesh.MaxLevel >= 0
}

func (run *RunConfig) ValidStateFile() bool {
	return run.StateFile != ""
}
func (run *RunConfig) ValidTMax() bool {
	return run.TMax > 0
}
func (run *RunConfig) ValidDt() bool {
	return run.Dt > 0
}
func (run *RunConfig) ValidTraceEvery() bool {
	return run.TraceEvery > 0
}
func (run *RunConfig) ValidLogFile() bool {
	return run.LogFile != ""
}
