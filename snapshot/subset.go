package snapshot

import (
	"fmt"
	"strings"

	"github.com/phil-mansfield/modylip/geom"
)

// Selection describes a subset of the beads in a snapshot. Empty fields
// select everything.
type Selection struct {
	// Leaflet is one of "upper", "outer", "lower" or "inner".
	Leaflet string
	// Arch restricts the subset to chains whose first bead has the same type
	// as the first bead of Arch.
	Arch Arch
	// Block is "head" or "tail". Without Arch, "head" selects every bead with
	// a positive type. With Arch, it selects beads of the architecture's head
	// type. "tail" selects beads of type 0.
	Block string
	// CoarseGrain replaces the selected beads of each chain by their center
	// of mass.
	CoarseGrain bool

	// Leaflets is used to label the snapshot if it hasn't been labelled yet.
	Leaflets LeafletOptions
}

// SubsetBead is a bead returned by Subset.
type SubsetBead struct {
	Pos     geom.Vec
	Type    int
	Leaflet int
}

const (
	anyVal  = -2
	headVal = -1
)

type selFlags struct {
	leaf, arch, block int
}

func (sel *Selection) flags() (selFlags, error) {
	f := selFlags{anyVal, anyVal, anyVal}

	switch strings.ToLower(sel.Leaflet) {
	case "":
	case "upper", "outer":
		f.leaf = Upper
	case "lower", "inner":
		f.leaf = Lower
	default:
		return f, fmt.Errorf("Invalid 'leaflet' option '%s'.", sel.Leaflet)
	}

	if len(sel.Arch) > 0 { f.arch = sel.Arch.Head() }

	switch strings.ToLower(sel.Block) {
	case "":
	case "head":
		if f.arch == anyVal {
			f.block = headVal
		} else {
			f.block = f.arch
		}
	case "tail":
		f.block = 0
	default:
		return f, fmt.Errorf("Invalid 'block' option '%s'.", sel.Block)
	}

	return f, nil
}

func (f *selFlags) selected(leaf, arch, block int) bool {
	leafOk := f.leaf == anyVal || leaf == f.leaf
	archOk := f.arch == anyVal || arch == f.arch
	blockOk := f.block == anyVal || block == f.block ||
		(f.block == headVal && block > 0)
	return leafOk && archOk && blockOk
}

// Subset returns the beads matching sel. The leaflets are labelled with
// sel.Leaflets if needed.
func (s *Snapshot) Subset(sel *Selection) ([]SubsetBead, error) {
	f, err := sel.flags()
	if err != nil { return nil, err }
	if len(s.Beads) == 0 { return []SubsetBead{}, nil }
	if err = s.ensureLabels(sel.Leaflets); err != nil { return nil, err }

	var total geom.Vec
	if sel.CoarseGrain { total = meanPosition(s.Beads) }

	sub := []SubsetBead{}
	buf := make([]SubsetBead, 0, s.ChainLen)
	for i := 0; i < s.Chains; i++ {
		chain := s.Chain(i)
		leaf, arch := s.leaves[i], chain[0].Type

		buf = buf[:0]
		for j := range chain {
			if f.selected(leaf, arch, chain[j].Type) {
				buf = append(buf, SubsetBead{chain[j].Pos, chain[j].Type, leaf})
			}
		}
		if len(buf) == 0 { continue }

		if sel.CoarseGrain {
			sub = append(sub, s.coarseGrain(buf, &total))
		} else {
			sub = append(sub, buf...)
		}
	}
	return sub, nil
}

// coarseGrain returns the periodic center of mass of beads, which must belong
// to a single chain. The result is folded into the box centered on center.
func (s *Snapshot) coarseGrain(beads []SubsetBead, center *geom.Vec) SubsetBead {
	ref := beads[0].Pos
	cm := geom.Vec{}
	for i := range beads {
		pos := beads[i].Pos
		s.Box.Unwrap(&pos, &ref)
		cm.AddSelf(&pos)
	}
	cm.ScaleSelf(1 / float64(len(beads)))
	s.Box.Fold(&cm, center)

	return SubsetBead{cm, beads[0].Type, beads[0].Leaflet}
}
