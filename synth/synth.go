/*package synth generates synthetic bilayer snapshots. The midplane of the
bilayer follows a Perlin noise height field, and chains stand on a square
lattice in each leaflet with their heads pointing away from the midplane.
*/
package synth

import (
	"fmt"

	"github.com/aquilax/go-perlin"
	"github.com/phil-mansfield/modylip/geom"
	"github.com/phil-mansfield/modylip/snapshot"
	"gonum.org/v1/gonum/floats"
)

// Perlin noise parameters: persistence, frequency multiplier and octaves.
const (
	perlinAlpha   = 2.0
	perlinBeta    = 2.0
	perlinOctaves = 3
)

// Config describes a synthetic bilayer.
type Config struct {
	Box geom.Box
	// Spacing is the approximate lattice spacing within a leaflet. The exact
	// spacing is chosen so that the lattice tiles the box.
	Spacing float64

	ChainLen int
	// HeadLen is the number of head beads at the start of each chain. The
	// remaining beads have type 0.
	HeadLen int
	// HeadTypes are the head bead types of each architecture. Chains are
	// assigned architectures in turn.
	HeadTypes []int
	// BondLength is the separation between consecutive beads of a chain.
	BondLength float64
	// Offset is the distance between the midplane and the head beads.
	Offset float64

	// Amplitude and Wavelength control the undulations of the midplane. An
	// Amplitude of zero gives a flat bilayer.
	Amplitude, Wavelength float64
	Seed                  int64

	Time float64
	Name string
}

// DefaultConfig returns a small flat bilayer with a single architecture.
func DefaultConfig() Config {
	return Config{
		Box:        geom.Box{16, 16, 20},
		Spacing:    1,
		ChainLen:   4,
		HeadLen:    1,
		HeadTypes:  []int{1},
		BondLength: 0.5,
		Offset:     2.5,
		Wavelength: 8,
		Seed:       1,
		Name:       "synth",
	}
}

func (cfg *Config) lattice() (nx, ny int) {
	return int(cfg.Box[0]/cfg.Spacing + 0.5), int(cfg.Box[1]/cfg.Spacing + 0.5)
}

func (cfg *Config) validate() error {
	nx, ny := cfg.lattice()
	switch {
	case !cfg.Box.Valid():
		return fmt.Errorf("Box %v must have positive sides.", cfg.Box)
	case cfg.Spacing <= 0:
		return fmt.Errorf("Spacing must be positive, not %g.", cfg.Spacing)
	case nx < 2 || ny < 2:
		return fmt.Errorf("Spacing %g leaves fewer than two lattice sites "+
			"along a side of the box.", cfg.Spacing)
	case cfg.ChainLen <= 0:
		return fmt.Errorf("ChainLen must be positive, not %d.", cfg.ChainLen)
	case cfg.HeadLen <= 0 || cfg.HeadLen > cfg.ChainLen:
		return fmt.Errorf("HeadLen must be in [1, %d], not %d.",
			cfg.ChainLen, cfg.HeadLen)
	case len(cfg.HeadTypes) == 0:
		return fmt.Errorf("At least one head type is required.")
	case cfg.BondLength < 0:
		return fmt.Errorf("BondLength must be non-negative, not %g.", cfg.BondLength)
	case cfg.Offset <= float64(cfg.ChainLen-1)*cfg.BondLength:
		return fmt.Errorf("Offset %g must exceed the chain length %g.",
			cfg.Offset, float64(cfg.ChainLen-1)*cfg.BondLength)
	case cfg.Amplitude != 0 && cfg.Wavelength <= 0:
		return fmt.Errorf("Wavelength must be positive, not %g.", cfg.Wavelength)
	}
	for _, typ := range cfg.HeadTypes {
		if typ <= 0 {
			return fmt.Errorf("Head types must be positive, not %d.", typ)
		}
	}
	return nil
}

// Header returns the snapshot header of the bilayer described by cfg.
func (cfg *Config) Header() *snapshot.Header {
	nx, ny := cfg.lattice()
	re := float64(cfg.ChainLen-1) * cfg.BondLength
	if re == 0 { re = 1 }

	return &snapshot.Header{
		Box: cfg.Box, Time: cfg.Time, Blocks: 2,
		Vir2: []float64{-1.5}, Vir3: []float64{1},
		A2: 1, A3: 1.5, Re: re, ChainLen: cfg.ChainLen,
		Ks: 10, Kb: 1, L0: cfg.BondLength,
		Chains: 2 * nx * ny, Name: cfg.Name,
	}
}

// Midplane returns the height field of the bilayer midplane.
func (cfg *Config) Midplane() func(x, y float64) float64 {
	z0 := cfg.Box[2] / 2
	if cfg.Amplitude == 0 {
		return func(x, y float64) float64 { return z0 }
	}
	p := perlin.NewPerlin(perlinAlpha, perlinBeta, perlinOctaves, cfg.Seed)
	return func(x, y float64) float64 {
		return z0 + cfg.Amplitude*p.Noise2D(x/cfg.Wavelength, y/cfg.Wavelength)
	}
}

// Generate creates the bilayer described by cfg. The first half of the
// chains belong to the upper leaflet and the second half to the lower one.
func Generate(cfg Config) (*snapshot.Snapshot, error) {
	if err := cfg.validate(); err != nil { return nil, err }

	nx, ny := cfg.lattice()
	dx, dy := cfg.Box[0]/float64(nx), cfg.Box[1]/float64(ny)
	xs := floats.Span(make([]float64, nx), dx/2, cfg.Box[0]-dx/2)
	ys := floats.Span(make([]float64, ny), dy/2, cfg.Box[1]-dy/2)

	hd := cfg.Header()
	mid := cfg.Midplane()
	boxCenter := geom.Vec{cfg.Box[0] / 2, cfg.Box[1] / 2, cfg.Box[2] / 2}
	beads := make([]snapshot.Bead, 0, hd.Beads())

	chain := 0
	for _, sign := range []float64{+1, -1} {
		for _, y := range ys {
			for _, x := range xs {
				head := cfg.HeadTypes[chain%len(cfg.HeadTypes)]
				zHead := mid(x, y) + sign*cfg.Offset
				for j := 0; j < cfg.ChainLen; j++ {
					b := snapshot.Bead{
						Pos: geom.Vec{x, y, zHead - sign*float64(j)*cfg.BondLength},
					}
					if j < cfg.HeadLen { b.Type = head }
					cfg.Box.Fold(&b.Pos, &boxCenter)
					beads = append(beads, b)
				}
				chain++
			}
		}
	}

	return snapshot.New(hd, beads)
}
