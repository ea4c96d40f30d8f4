package io

import (
	"fmt"
	"strings"

	"github.com/phil-mansfield/modylip/cluster"
	"github.com/phil-mansfield/modylip/geom"
	"github.com/phil-mansfield/modylip/snapshot"
	"github.com/phil-mansfield/modylip/synth"
	"gopkg.in/gcfg.v1"
)

const (
	ExampleLeafletsFile = `[Leaflets]

#######################
# Required Parameters #
#######################

# Snapshot file or directory of snapshot files. Snapshot files can also be
# given as command line arguments, in which case Input is ignored.
Input = path/to/configuration_00000000.cfg
# Directory which output tables will be written to.
Output = path/to/output/dir

#######################
# Optional Parameters #
#######################

# Each chain is assigned to a leaflet by comparing one of its points against
# the average bead height in a Points x Points grid over the lateral plane.
# Target is the point used: 'single' (the first bead) or 'cm' (the center of
# mass of the chain).
# Target = single
# Points = 32
# Compare against a bilinear interpolation of the grid instead of the grid
# cells themselves.
# Smooth = false

# The center of mass of the snapshot is moved to (CenterX, CenterY, CenterZ)
# and, if Backfold is set, every bead is wrapped back into the box around it.
# CenterX = 0
# CenterY = 0
# CenterZ = 0
# Backfold = true

# Subset of beads to write. Leaflet is one of [ upper | outer | lower | inner ],
# Block is one of [ head | tail ] and Arch is the head bead type of the chain
# architecture. Any of these can be left out to select everything.
# Leaflet = upper
# Block = head
# Arch = 1

# Replace the selected beads of each chain by their center of mass.
# CoarseGrain = false

# Log the distance between the head groups of the two leaflets.
# Thickness = false

# Output files which are useful for profiling and debugging.
# ProfileFile = prof.out
# LogFile = log.out`

	ExamplePressureProfileFile = `[PressureProfile]

#######################
# Required Parameters #
#######################

# Pressure tensor file or directory of pressure tensor files. Files can also be
# given as command line arguments.
Input = path/to/press_tens.dat
Output = path/to/output/dir

#######################
# Optional Parameters #
#######################

# Grades of the integral moments of the lateral pressure profile which will be
# written. Can be given multiple times.
# Moment = 0
# Moment = 1

# Write moments over the upper half of the box instead of the whole box.
# HalfMoments = false

# Write the profile resampled onto this many points, along with the slope of
# the spline through it.
# Resample = 0
# Interpolator used for resampling: 'spline' or 'linear'.
# Interpolation = spline

# Also write the mean and standard deviation of every tensor component.
# Tensor = false

# ProfileFile = prof.out
# LogFile = log.out`

	ExampleClusterFile = `[Cluster]

#######################
# Required Parameters #
#######################

# Whitespace separated table of points, e.g. the output of Leaflets mode.
Input = path/to/points.txt
Output = path/to/output/dir

# One of [ MeanShift | Linkage ].
Method = MeanShift

# MeanShift: radius of the flat kernel. Linkage: maximum separation between
# linked points.
Radius = 1.5

#######################
# Optional Parameters #
#######################

# Columns of the table containing the coordinates. Can be given multiple
# times. Defaults to the first three columns.
# Column = 0
# Column = 1

# Periodic width of each coordinate. Either give one Width per Column or none
# at all, in which case distances are Euclidean.
# Width = 20
# Width = 20

# MeanShift convergence tolerance and iteration limit.
# Tol = 1e-5
# MaxIter = 300

# ProfileFile = prof.out
# LogFile = log.out`

	ExampleSynthesizeFile = `[Synthesize]

#######################
# Required Parameters #
#######################

# Snapshot file which will be written.
Output = path/to/synth.cfg

# Box size.
BoxX = 16
BoxY = 16
BoxZ = 20

#######################
# Optional Parameters #
#######################

# Lattice spacing within each leaflet.
# Spacing = 1

# Chain geometry. Every chain has HeadLen head beads followed by type 0 tail
# beads. Give HeadType multiple times to mix chain architectures.
# ChainLen = 4
# HeadLen = 1
# HeadType = 1
# BondLength = 0.5
# Offset = 2.5

# Undulations of the bilayer midplane.
# Amplitude = 0
# Wavelength = 8
# Seed = 1

# Name = synth

# ProfileFile = prof.out
# LogFile = log.out`
)

type SharedConfig struct {
	// Required
	Input, Output string
	// Optional
	LogFile, ProfileFile string
}

func (con *SharedConfig) ValidInput() bool {
	return con.Input != ""
}
func (con *SharedConfig) ValidOutput() bool {
	return con.Output != ""
}
func (con *SharedConfig) ValidLogFile() bool {
	return con.LogFile != ""
}
func (con *SharedConfig) ValidProfileFile() bool {
	return con.ProfileFile != ""
}

///////////////
// Leaflets //
///////////////

type LeafletsConfig struct {
	SharedConfig

	// Optional
	Target string
	Points int
	Smooth bool

	CenterX, CenterY, CenterZ float64
	Backfold                  bool

	Leaflet, Block string
	Arch           int
	CoarseGrain    bool

	Thickness bool
}

type LeafletsWrapper struct {
	Leaflets LeafletsConfig
}

func DefaultLeafletsWrapper() *LeafletsWrapper {
	con := LeafletsConfig{}
	con.Target = "single"
	con.Points = 32
	con.Backfold = true
	return &LeafletsWrapper{con}
}

func (con *LeafletsConfig) ValidTarget() bool {
	_, err := snapshot.ParseTarget(con.Target)
	return err == nil
}
func (con *LeafletsConfig) ValidPoints() bool {
	return con.Points > 0
}
func (con *LeafletsConfig) ValidLeaflet() bool {
	switch strings.ToLower(con.Leaflet) {
	case "", "upper", "outer", "lower", "inner":
		return true
	}
	return false
}
func (con *LeafletsConfig) ValidBlock() bool {
	switch strings.ToLower(con.Block) {
	case "", "head", "tail":
		return true
	}
	return false
}
func (con *LeafletsConfig) ValidArch() bool {
	return con.Arch >= 0
}

// CheckInit returns an error describing the first invalid field. Input is
// not checked, since inputs may also come from the command line.
func (con *LeafletsConfig) CheckInit() error {
	switch {
	case !con.ValidOutput():
		return fmt.Errorf("Invalid/non-existent 'Output' value.")
	case !con.ValidTarget():
		return fmt.Errorf("Invalid 'Target' value, '%s'.", con.Target)
	case !con.ValidPoints():
		return fmt.Errorf("Invalid 'Points' value, %d.", con.Points)
	case !con.ValidLeaflet():
		return fmt.Errorf("Invalid 'Leaflet' value, '%s'.", con.Leaflet)
	case !con.ValidBlock():
		return fmt.Errorf("Invalid 'Block' value, '%s'.", con.Block)
	case !con.ValidArch():
		return fmt.Errorf("Invalid 'Arch' value, %d.", con.Arch)
	}
	return nil
}

// LeafletOptions converts the config into leaflet labelling options.
func (con *LeafletsConfig) LeafletOptions() snapshot.LeafletOptions {
	target, _ := snapshot.ParseTarget(con.Target)
	return snapshot.LeafletOptions{
		Target: target, Points: [2]int{con.Points, con.Points}, Smooth: con.Smooth,
	}
}

// Selection converts the config into a bead selection.
func (con *LeafletsConfig) Selection() *snapshot.Selection {
	sel := &snapshot.Selection{
		Leaflet: con.Leaflet, Block: con.Block,
		CoarseGrain: con.CoarseGrain, Leaflets: con.LeafletOptions(),
	}
	if con.Arch > 0 { sel.Arch = snapshot.Arch{con.Arch} }
	return sel
}

// Center returns the location which the center of mass is moved to.
func (con *LeafletsConfig) Center() geom.Vec {
	return geom.Vec{con.CenterX, con.CenterY, con.CenterZ}
}

/////////////////////
// PressureProfile //
/////////////////////

type PressureProfileConfig struct {
	SharedConfig

	// Optional
	Moment      []int
	HalfMoments bool
	Resample      int
	Interpolation string
	Tensor        bool
}

type PressureProfileWrapper struct {
	PressureProfile PressureProfileConfig
}

func DefaultPressureProfileWrapper() *PressureProfileWrapper {
	con := PressureProfileConfig{Interpolation: "spline"}
	return &PressureProfileWrapper{con}
}

func (con *PressureProfileConfig) ValidMoment() bool {
	for _, m := range con.Moment {
		if m < 0 { return false }
	}
	return true
}
func (con *PressureProfileConfig) ValidResample() bool {
	return con.Resample == 0 || con.Resample >= 2
}

func (con *PressureProfileConfig) ValidInterpolation() bool {
	switch strings.ToLower(con.Interpolation) {
	case "spline", "linear":
		return true
	}
	return false
}

func (con *PressureProfileConfig) CheckInit() error {
	switch {
	case !con.ValidOutput():
		return fmt.Errorf("Invalid/non-existent 'Output' value.")
	case !con.ValidMoment():
		return fmt.Errorf("Invalid 'Moment' values, %v.", con.Moment)
	case !con.ValidResample():
		return fmt.Errorf("Invalid 'Resample' value, %d.", con.Resample)
	case !con.ValidInterpolation():
		return fmt.Errorf("Invalid 'Interpolation' value, '%s'.", con.Interpolation)
	}
	return nil
}

/////////////
// Cluster //
/////////////

type ClusterConfig struct {
	SharedConfig

	// Required
	Method string
	Radius float64

	// Optional
	Column  []int
	Width   []float64
	Tol     float64
	MaxIter int
}

type ClusterWrapper struct {
	Cluster ClusterConfig
}

func DefaultClusterWrapper() *ClusterWrapper {
	con := ClusterConfig{}
	con.Tol = cluster.DefaultTol
	con.MaxIter = cluster.DefaultMaxIter
	return &ClusterWrapper{con}
}

func (con *ClusterConfig) ValidMethod() bool {
	switch strings.ToLower(con.Method) {
	case "meanshift", "linkage":
		return true
	}
	return false
}
func (con *ClusterConfig) ValidRadius() bool {
	return con.Radius > 0
}
func (con *ClusterConfig) ValidColumn() bool {
	for _, c := range con.Column {
		if c < 0 { return false }
	}
	return true
}
func (con *ClusterConfig) ValidWidth() bool {
	if len(con.Width) == 0 { return true }
	if len(con.Width) != len(con.Columns()) { return false }
	for _, w := range con.Width {
		if w <= 0 { return false }
	}
	return true
}
func (con *ClusterConfig) ValidTol() bool {
	return con.Tol > 0
}
func (con *ClusterConfig) ValidMaxIter() bool {
	return con.MaxIter > 0
}

func (con *ClusterConfig) CheckInit() error {
	switch {
	case !con.ValidInput():
		return fmt.Errorf("Invalid/non-existent 'Input' value.")
	case !con.ValidOutput():
		return fmt.Errorf("Invalid/non-existent 'Output' value.")
	case !con.ValidMethod():
		return fmt.Errorf("Invalid 'Method' value, '%s'.", con.Method)
	case !con.ValidRadius():
		return fmt.Errorf("Invalid/non-existent 'Radius' value.")
	case !con.ValidColumn():
		return fmt.Errorf("Invalid 'Column' values, %v.", con.Column)
	case !con.ValidWidth():
		return fmt.Errorf(
			"Invalid 'Width' values, %v: there must be one positive width "+
				"per column.", con.Width,
		)
	case !con.ValidTol():
		return fmt.Errorf("Invalid 'Tol' value, %g.", con.Tol)
	case !con.ValidMaxIter():
		return fmt.Errorf("Invalid 'MaxIter' value, %d.", con.MaxIter)
	}
	return nil
}

// Columns returns the table columns holding coordinates.
func (con *ClusterConfig) Columns() []int {
	if len(con.Column) == 0 { return []int{0, 1, 2} }
	return con.Column
}

// Metric returns the metric described by Width.
func (con *ClusterConfig) Metric() (cluster.Metric, error) {
	if len(con.Width) == 0 { return cluster.Euclidean{}, nil }
	return geom.NewPeriodicMetric(con.Width...)
}

////////////////
// Synthesize //
////////////////

type SynthesizeConfig struct {
	SharedConfig

	// Required
	BoxX, BoxY, BoxZ float64

	// Optional
	Spacing               float64
	ChainLen, HeadLen     int
	HeadType              []int
	BondLength, Offset    float64
	Amplitude, Wavelength float64
	Seed                  int64
	Name                  string
}

type SynthesizeWrapper struct {
	Synthesize SynthesizeConfig
}

func DefaultSynthesizeWrapper() *SynthesizeWrapper {
	def := synth.DefaultConfig()
	con := SynthesizeConfig{}
	con.Spacing = def.Spacing
	con.ChainLen, con.HeadLen = def.ChainLen, def.HeadLen
	con.BondLength, con.Offset = def.BondLength, def.Offset
	con.Amplitude, con.Wavelength = def.Amplitude, def.Wavelength
	con.Seed = def.Seed
	con.Name = def.Name
	return &SynthesizeWrapper{con}
}

func (con *SynthesizeConfig) ValidBox() bool {
	return con.BoxX > 0 && con.BoxY > 0 && con.BoxZ > 0
}

func (con *SynthesizeConfig) CheckInit() error {
	switch {
	case !con.ValidOutput():
		return fmt.Errorf("Invalid/non-existent 'Output' value.")
	case !con.ValidBox():
		return fmt.Errorf("Invalid/non-existent 'BoxX', 'BoxY' or 'BoxZ' value.")
	case !snapshot.ValidName(con.Name):
		return fmt.Errorf("Invalid 'Name' value, '%s'.", con.Name)
	}
	return nil
}

// Config converts the config into generator parameters.
func (con *SynthesizeConfig) Config() synth.Config {
	cfg := synth.DefaultConfig()
	cfg.Box = geom.Box{con.BoxX, con.BoxY, con.BoxZ}
	cfg.Spacing = con.Spacing
	cfg.ChainLen, cfg.HeadLen = con.ChainLen, con.HeadLen
	if len(con.HeadType) > 0 { cfg.HeadTypes = con.HeadType }
	cfg.BondLength, cfg.Offset = con.BondLength, con.Offset
	cfg.Amplitude, cfg.Wavelength = con.Amplitude, con.Wavelength
	cfg.Seed = con.Seed
	cfg.Name = con.Name
	return cfg
}

/////////////
// Reading //
/////////////

// Checker is implemented by every XxxConfig type.
type Checker interface {
	CheckInit() error
}

// ReadConfig reads file into wrap, which must be one of the XxxWrapper types,
// and then checks con, the config inside it. Values already set in wrap act
// as defaults.
func ReadConfig(file string, wrap interface{}, con Checker) error {
	if err := gcfg.ReadFileInto(wrap, file); err != nil { return err }
	return con.CheckInit()
}
