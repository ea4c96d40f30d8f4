package synth

import (
	"bytes"
	"testing"

	"github.com/phil-mansfield/modylip/geom"
	"github.com/phil-mansfield/modylip/snapshot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateFlat(t *testing.T) {
	cfg := DefaultConfig()
	s, err := Generate(cfg)
	require.NoError(t, err)

	assert.Equal(t, 2*16*16, s.Chains)
	assert.Len(t, s.Beads, 2*16*16*4)
	assert.Equal(t, []snapshot.Arch{{1, 0, 0, 0}}, s.Archs())

	upper, lower := s.Chain(0), s.Chain(s.Chains-1)
	assert.Equal(t, geom.Vec{0.5, 0.5, 12.5}, upper[0].Pos)
	assert.Equal(t, geom.Vec{0.5, 0.5, 11}, upper[3].Pos)
	assert.Equal(t, geom.Vec{15.5, 15.5, 7.5}, lower[0].Pos)
	assert.Equal(t, geom.Vec{15.5, 15.5, 9}, lower[3].Pos)
	assert.Equal(t, 1, upper[0].Type)
	assert.Equal(t, 0, upper[1].Type)

	c := s.Center()
	assert.InDelta(t, 8, c[0], 1e-9)
	assert.InDelta(t, 8, c[1], 1e-9)
	assert.InDelta(t, 10, c[2], 1e-9)
}

func TestGenerateArchs(t *testing.T) {
	cfg := DefaultConfig()
	cfg.HeadTypes = []int{3, 2}
	cfg.HeadLen = 2
	s, err := Generate(cfg)
	require.NoError(t, err)

	assert.Equal(t, []snapshot.Arch{{2, 2, 0, 0}, {3, 3, 0, 0}}, s.Archs())
	assert.Equal(t, 3, s.Chain(0)[0].Type)
	assert.Equal(t, 2, s.Chain(1)[1].Type)
}

func TestGenerateDeterministic(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Amplitude = 1
	s1, err := Generate(cfg)
	require.NoError(t, err)
	s2, err := Generate(cfg)
	require.NoError(t, err)
	assert.Equal(t, s1.Beads, s2.Beads)

	cfg.Seed++
	s3, err := Generate(cfg)
	require.NoError(t, err)
	assert.NotEqual(t, s1.Beads, s3.Beads)
}

func TestGenerateErrors(t *testing.T) {
	table := []func(cfg *Config){
		func(cfg *Config) { cfg.Box[2] = 0 },
		func(cfg *Config) { cfg.Spacing = 0 },
		func(cfg *Config) { cfg.Spacing = 20 },
		func(cfg *Config) { cfg.ChainLen = 0 },
		func(cfg *Config) { cfg.HeadLen = 5 },
		func(cfg *Config) { cfg.HeadTypes = nil },
		func(cfg *Config) { cfg.HeadTypes = []int{0} },
		func(cfg *Config) { cfg.Offset = 1.5 },
		func(cfg *Config) { cfg.Amplitude, cfg.Wavelength = 1, 0 },
	}
	for i, modify := range table {
		cfg := DefaultConfig()
		modify(&cfg)
		if _, err := Generate(cfg); err == nil {
			t.Errorf("%d) Expected an error for config %+v.", i, cfg)
		}
	}
}

// Synthetic bilayers exercise the full leaflet pipeline.
func TestLeafletPipeline(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Amplitude = 0.5
	cfg.HeadTypes = []int{1, 2}
	s, err := Generate(cfg)
	require.NoError(t, err)

	buf := &bytes.Buffer{}
	require.NoError(t, s.Write(buf))
	s, err = snapshot.Parse(buf, "synth.cfg")
	require.NoError(t, err)

	s.MoveTo(geom.Vec{0, 0, 0})
	s.Backfold()

	for _, smooth := range []bool{false, true} {
		for _, target := range []snapshot.Target{snapshot.TargetSingle, snapshot.TargetCM} {
			opt := snapshot.LeafletOptions{Target: target, Points: [2]int{4, 4}, Smooth: smooth}
			require.NoError(t, s.LabelLeaflets(opt))

			leaves := s.Leaflets()
			wrong := 0
			for i := range leaves {
				expected := snapshot.Upper
				if i >= s.Chains/2 { expected = snapshot.Lower }
				if leaves[i] != expected { wrong++ }
			}
			assert.Zero(t, wrong, "target = %s, smooth = %v", target, smooth)
		}
	}

	th, err := s.Thickness(snapshot.LeafletOptions{Points: [2]int{4, 4}})
	require.NoError(t, err)
	assert.InDelta(t, 2*cfg.Offset, th.Thickness, 1e-9)
	assert.Equal(t, s.Chains/2, th.UpperN)

	sub, err := s.Subset(&snapshot.Selection{
		Leaflet: "lower", Arch: snapshot.Arch{2}, Block: "tail", CoarseGrain: true,
	})
	require.NoError(t, err)
	assert.Len(t, sub, s.Chains/4)
}
