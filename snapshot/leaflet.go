package snapshot

import (
	"fmt"
	"strings"

	"github.com/phil-mansfield/modylip/geom"
	"github.com/phil-mansfield/modylip/gridmap"
	"gonum.org/v1/gonum/stat"
)

const (
	Lower = 0
	Upper = 1
)

// Target is the point of a chain which is classified against the bilayer
// midplane.
type Target int

const (
	// TargetSingle classifies a chain by its first bead.
	TargetSingle Target = iota
	// TargetCM classifies a chain by its center of mass.
	TargetCM
)

// ParseTarget converts "single" or "cm" into a Target.
func ParseTarget(str string) (Target, error) {
	switch strings.ToLower(str) {
	case "single":
		return TargetSingle, nil
	case "cm":
		return TargetCM, nil
	}
	return 0, fmt.Errorf("Specify 'cm' or 'single' as the leaflet target, not '%s'.", str)
}

func (t Target) String() string {
	if t == TargetCM { return "cm" }
	return "single"
}

// LeafletOptions control how chains are assigned to leaflets.
type LeafletOptions struct {
	Target Target
	// Points is the number of grid points along x and y used to average the
	// bilayer midplane.
	Points [2]int
	// Smooth compares chains against a bilinear interpolation of the
	// midplane instead of its bucket averages.
	Smooth bool
}

// DefaultLeafletOptions returns the options used when none are given.
func DefaultLeafletOptions() LeafletOptions {
	return LeafletOptions{Target: TargetSingle, Points: [2]int{32, 32}}
}

// LabelLeaflets assigns every chain to the Upper (outer) or Lower (inner)
// leaflet by comparing its target point against a map of average bead height
// over the lateral plane. Labels are discarded whenever the beads move. Unset
// Points take their values from DefaultLeafletOptions.
func (s *Snapshot) LabelLeaflets(opt LeafletOptions) error {
	def := DefaultLeafletOptions()
	for k := range opt.Points {
		if opt.Points[k] == 0 { opt.Points[k] = def.Points[k] }
	}

	n := len(s.Beads)
	xs, ys, zs := make([]float64, n), make([]float64, n), make([]float64, n)
	for i := range s.Beads {
		pos := &s.Beads[i].Pos
		xs[i], ys[i], zs[i] = pos[0], pos[1], pos[2]
	}

	gm, err := gridmap.New(xs, ys, zs, opt.Points)
	if err != nil { return err }

	leaves := make([]int, s.Chains)
	for i := range leaves {
		p := s.chainTarget(i, opt.Target)
		if opt.Smooth {
			leaves[i] = gm.ClassifySmooth(&p)
		} else {
			leaves[i] = gm.Classify(&p)
		}
	}

	s.leaves, s.leafMap = leaves, gm
	return nil
}

func (s *Snapshot) chainTarget(i int, target Target) geom.Vec {
	chain := s.Chain(i)
	first := chain[0].Pos
	if target == TargetSingle { return first }

	// The chain may be split across the periodic boundary.
	cm := geom.Vec{}
	for j := range chain {
		pos := chain[j].Pos
		s.Box.Unwrap(&pos, &first)
		cm.AddSelf(&pos)
	}
	return *cm.ScaleSelf(1 / float64(len(chain)))
}

// Labelled returns true if the leaflets have been labelled since the last
// time the beads moved.
func (s *Snapshot) Labelled() bool { return s.leaves != nil }

// Leaflet returns the leaflet of the i-th chain. LabelLeaflets must be called
// first.
func (s *Snapshot) Leaflet(i int) int { return s.leaves[i] }

// Leaflets returns the leaflet of every chain, or nil if the snapshot has not
// been labelled.
func (s *Snapshot) Leaflets() []int { return s.leaves }

// Midplane returns the height map used to label the leaflets, or nil if the
// snapshot has not been labelled.
func (s *Snapshot) Midplane() *gridmap.GridMap {
	if s.leaves == nil { return nil }
	return s.leafMap
}

func (s *Snapshot) ensureLabels(opt LeafletOptions) error {
	if s.leaves != nil { return nil }
	return s.LabelLeaflets(opt)
}

// Thickness describes the separation between the head groups of the two
// leaflets.
type Thickness struct {
	Thickness           float64
	UpperMean, UpperStd float64
	LowerMean, LowerStd float64
	UpperN, LowerN      int
}

// Thickness computes the mean head bead height in each leaflet. Leaflets are
// labelled with opt if needed. The beads should be centered and backfolded
// along z beforehand.
func (s *Snapshot) Thickness(opt LeafletOptions) (*Thickness, error) {
	upper, err := s.Subset(&Selection{Leaflet: "upper", Block: "head", Leaflets: opt})
	if err != nil { return nil, err }
	lower, err := s.Subset(&Selection{Leaflet: "lower", Block: "head", Leaflets: opt})
	if err != nil { return nil, err }

	if len(upper) < 2 || len(lower) < 2 {
		return nil, fmt.Errorf(
			"Thickness needs two head beads per leaflet, found %d upper and %d lower.",
			len(upper), len(lower),
		)
	}

	th := &Thickness{UpperN: len(upper), LowerN: len(lower)}
	th.UpperMean, th.UpperStd = stat.MeanStdDev(heights(upper), nil)
	th.LowerMean, th.LowerStd = stat.MeanStdDev(heights(lower), nil)
	th.Thickness = th.UpperMean - th.LowerMean
	return th, nil
}

func heights(beads []SubsetBead) []float64 {
	zs := make([]float64, len(beads))
	for i := range beads { zs[i] = beads[i].Pos[2] }
	return zs
}
