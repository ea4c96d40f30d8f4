/*package snapshot reads, writes and manipulates configuration snapshots of
coarse-grained lipid bilayer simulations.

A snapshot file consists of a four line header describing the simulation
control parameters followed by one line per bead:

	# L=%f %f %f t=%f blocks=%d
	# v=%f ...  w=%f ...
	# a2=%f a3=%f Re=%f N=%d ks=%f kb=%f l0=%f
	# n=%d N=%d name=%s
	# r_x r_y r_z v_x v_y v_z type
	  %f %f %f %f %f %f %d
	  ...

Consecutive groups of N beads form a chain.
*/
package snapshot

import (
	"sort"

	"github.com/phil-mansfield/modylip/geom"
	"github.com/phil-mansfield/modylip/gridmap"
)

// MinShift is the smallest translation which MoveTo will apply.
const MinShift = 1e-3

// Header contains the simulation control parameters of a snapshot.
type Header struct {
	Box    geom.Box // L
	Time   float64  // t
	Blocks int      // blocks

	Vir2, Vir3 []float64 // v, w

	A2, A3   float64 // weighting density cutoffs
	Re       float64 // end-to-end distance
	ChainLen int     // N
	Ks, Kb   float64 // spring and bending constants
	L0       float64 // rest length

	Chains int // n
	Name   string
}

// Beads returns the number of beads described by the header.
func (h *Header) Beads() int { return h.Chains * h.ChainLen }

// Bead is a single particle.
type Bead struct {
	Pos, Vel geom.Vec
	Type     int
}

// Arch is a chain architecture: the types of each bead along a chain.
type Arch []int

// Head returns the type of the first bead of the architecture.
func (a Arch) Head() int { return a[0] }

// Snapshot is the full state of a simulation at a single time.
type Snapshot struct {
	Header
	File  string
	Beads []Bead

	cm      geom.Vec
	archs   []Arch
	leaves  []int // per chain, nil until labelled
	leafMap *gridmap.GridMap
}

// New creates a snapshot from a header and a set of beads. The bead count is
// checked against the header and the chain architectures and center of mass
// are computed.
func New(hd *Header, beads []Bead) (*Snapshot, error) {
	if err := hd.validate(""); err != nil { return nil, err }
	if len(beads) != hd.Beads() {
		return nil, beadCountError("", len(beads), hd)
	}

	s := &Snapshot{Header: *hd, Beads: beads}
	s.identifyArchs()
	s.CenterOfMass()
	return s, nil
}

// Chain returns the beads of the i-th chain.
func (s *Snapshot) Chain(i int) []Bead {
	return s.Beads[i*s.ChainLen : (i+1)*s.ChainLen]
}

// Center returns the stored center of mass without recomputing it.
func (s *Snapshot) Center() geom.Vec { return s.cm }

// CenterOfMass recomputes the mean bead position, stores it, and returns it.
func (s *Snapshot) CenterOfMass() geom.Vec {
	s.cm = meanPosition(s.Beads)
	return s.cm
}

func meanPosition(beads []Bead) geom.Vec {
	cm := geom.Vec{}
	if len(beads) == 0 { return cm }
	for i := range beads {
		cm.AddSelf(&beads[i].Pos)
	}
	cm.ScaleSelf(1 / float64(len(beads)))
	return cm
}

// MoveTo translates every bead so that the stored center of mass moves to
// loc. Shifts with a norm of MinShift or less are ignored. It returns true if
// the beads were moved.
func (s *Snapshot) MoveTo(loc geom.Vec) bool {
	shift := geom.Vec{}
	loc.SubAt(&s.cm, &shift)
	if shift.Norm() <= MinShift { return false }

	for i := range s.Beads {
		s.Beads[i].Pos.AddSelf(&shift)
	}
	s.cm = loc
	s.leaves = nil
	return true
}

// Backfold wraps every bead into the box centered on the stored center of
// mass, [c - L/2, c + L/2).
func (s *Snapshot) Backfold() {
	for i := range s.Beads {
		s.Box.Fold(&s.Beads[i].Pos, &s.cm)
	}
	s.leaves = nil
}

// Archs returns the chain architectures present in the snapshot, sorted by
// the type of their first bead. A chain introduces a new architecture when
// its first bead type differs from that of every architecture seen before it.
func (s *Snapshot) Archs() []Arch { return s.archs }

func (s *Snapshot) identifyArchs() {
	s.archs = nil
	if s.ChainLen == 0 { return }

	seen := map[int]bool{}
	for i := 0; i < s.Chains; i++ {
		chain := s.Chain(i)
		if seen[chain[0].Type] { continue }
		seen[chain[0].Type] = true

		arch := make(Arch, len(chain))
		for j := range chain { arch[j] = chain[j].Type }
		s.archs = append(s.archs, arch)
	}

	sort.SliceStable(s.archs, func(i, j int) bool {
		return s.archs[i].Head() < s.archs[j].Head()
	})
}
