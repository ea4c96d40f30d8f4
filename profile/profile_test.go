package profile

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat"
)

// sample[i] is the tensor of slab i.
type sample [][Components]float64

func tensorText(heights []float64, samples []sample, terminateLast bool) string {
	sb := &strings.Builder{}
	fmt.Fprintln(sb, "# height Pxx Pyy Pzz Pxy Pxz Pyz")
	for n, s := range samples {
		fmt.Fprintf(sb, "# sample %d\n", n)
		for i, p := range s {
			fmt.Fprintf(sb, "%g", heights[i])
			for c := range p { fmt.Fprintf(sb, " %.17g", p[c]) }
			fmt.Fprintln(sb)
		}
		if n < len(samples)-1 || terminateLast {
			fmt.Fprint(sb, "\n\n")
		}
	}
	return sb.String()
}

// gammaSamples returns samples where Pxx = Pyy = 0 and Pzz = gammas[n][i].
func gammaSamples(gammas [][]float64) []sample {
	out := make([]sample, len(gammas))
	for n := range gammas {
		out[n] = make(sample, len(gammas[n]))
		for i, g := range gammas[n] { out[n][i][Pzz] = g }
	}
	return out
}

func messySamples(slabs, n int, offset float64) []sample {
	out := make([]sample, n)
	for s := range out {
		out[s] = make(sample, slabs)
		for i := range out[s] {
			for c := 0; c < Components; c++ {
				out[s][i][c] = offset + math.Sin(float64(7*s+3*i+11*c))
			}
		}
	}
	return out
}

func TestAccumulator(t *testing.T) {
	xs := [][]float64{{1e9 + 1, 3}, {1e9 + 2, 5}, {1e9 + 6, 7}}
	acc := NewAccumulator(xs[0])
	for _, x := range xs { require.NoError(t, acc.Add(x)) }
	assert.Error(t, acc.Add([]float64{1}))

	assert.Equal(t, 3, acc.N())
	mean, std := acc.Mean(nil), acc.Std(nil)
	assert.InDelta(t, 1e9+3, mean[0], 1e-6)
	assert.InDelta(t, 5, mean[1], 1e-12)
	assert.InDelta(t, math.Sqrt(7), std[0], 1e-9)
	assert.InDelta(t, 2, std[1], 1e-12)

	same := NewAccumulator([]float64{0.1})
	for i := 0; i < 3; i++ { require.NoError(t, same.Add([]float64{0.1})) }
	assert.Equal(t, 0.0, same.Std(nil)[0])
}

func TestReadTensor(t *testing.T) {
	heights := []float64{-1, -0.5, 0, 0.5, 1}
	samples := messySamples(len(heights), 6, 1e4)
	text := tensorText(heights, samples, true)

	tens, err := ReadTensor(strings.NewReader(text), "tens.dat")
	require.NoError(t, err)

	assert.Equal(t, "tens.dat", tens.File)
	assert.Equal(t, heights, tens.Height)
	assert.InDelta(t, 0.5, tens.Width, 1e-12)
	assert.Equal(t, 6, tens.Samples)

	xs := make([]float64, len(samples))
	for c := 0; c < Components; c++ {
		for i := range heights {
			for s := range samples { xs[s] = samples[s][i][c] }
			mean, std := stat.MeanStdDev(xs, nil)
			if math.Abs(mean-tens.Mean[c][i]) > 1e-8 {
				t.Errorf("%d, %d) Expected mean %.10g, got %.10g.",
					c, i, mean, tens.Mean[c][i])
			}
			if math.Abs(std-tens.Std[c][i]) > 1e-8 {
				t.Errorf("%d, %d) Expected std %.10g, got %.10g.",
					c, i, std, tens.Std[c][i])
			}
		}
	}
}

func TestReadLateral(t *testing.T) {
	heights := []float64{0, 1, 2, 3}
	samples := messySamples(len(heights), 5, -3e3)
	text := tensorText(heights, samples, false)

	lat, err := ReadLateral(strings.NewReader(text), "lat.dat")
	require.NoError(t, err)
	require.Equal(t, 5, lat.Samples)

	xs := make([]float64, len(samples))
	for i := range heights {
		for s := range samples {
			p := samples[s][i]
			xs[s] = p[Pzz] - (p[Pxx]+p[Pyy])/2
		}
		mean, std := stat.MeanStdDev(xs, nil)
		assert.InDelta(t, mean, lat.Mean[i], 1e-8)
		assert.InDelta(t, std, lat.Std[i], 1e-8)
		assert.InDelta(t, std/math.Sqrt(5), lat.StdErr[i], 1e-8)
	}
}

func simpleLateral(t *testing.T) *Lateral {
	heights := []float64{0, 1, 2, 3}
	samples := gammaSamples([][]float64{{0, 1, 2, 3}, {2, 3, 4, 5}})
	lat, err := ReadLateral(
		strings.NewReader(tensorText(heights, samples, true)), "simple.dat",
	)
	require.NoError(t, err)
	return lat
}

func TestLateralStats(t *testing.T) {
	lat := simpleLateral(t)
	assert.InDeltaSlice(t, []float64{1, 2, 3, 4}, lat.Mean, 1e-12)
	for i := range lat.Std {
		assert.InDelta(t, math.Sqrt2, lat.Std[i], 1e-12)
		assert.InDelta(t, 1, lat.StdErr[i], 1e-12)
	}
	assert.InDelta(t, 10, lat.Tension(), 1e-12)
}

func TestMoment(t *testing.T) {
	lat := simpleLateral(t)

	table := []struct {
		grade int
		mom   []float64
	}{
		{0, []float64{10, 10, 10, 10}},
		{1, []float64{20, 10, 0, -10}},
		{2, []float64{50, 20, 10, 20}},
	}
	for i, test := range table {
		mom, err := lat.Moment(test.grade)
		require.NoError(t, err)
		for j := range mom {
			if math.Abs(mom[j]-test.mom[j]) > 1e-12 {
				t.Errorf("%d) Expected Moment(%d) = %v, got %v.",
					i, test.grade, test.mom, mom)
				break
			}
		}
	}

	m1, _ := lat.Moment(1)
	m2, _ := lat.Moment(1)
	assert.Same(t, &m1[0], &m2[0], "moments should be cached")

	_, err := lat.Moment(-1)
	assert.Error(t, err)
}

func TestHalfMoment(t *testing.T) {
	lat := simpleLateral(t)

	table := []struct {
		grade int
		mom   []float64
	}{
		{0, []float64{7, 4}},
		{1, []float64{4, 0}},
		{2, []float64{4, 0}},
	}
	for i, test := range table {
		height, mom, err := lat.HalfMoment(test.grade)
		require.NoError(t, err)
		assert.Equal(t, []float64{2, 3}, height)
		if !assert.InDeltaSlice(t, test.mom, mom, 1e-12) {
			t.Errorf("%d) HalfMoment(%d) failed.", i, test.grade)
		}
	}

	_, _, err := lat.HalfMoment(-2)
	assert.Error(t, err)
}

func TestResample(t *testing.T) {
	lat := simpleLateral(t)
	for _, method := range []string{"spline", "Linear"} {
		height, gamma, err := lat.Resample(7, method)
		require.NoError(t, err)
		assert.InDeltaSlice(t, []float64{0, 0.5, 1, 1.5, 2, 2.5, 3}, height, 1e-12)
		// The mean profile is linear, so both interpolators reproduce it.
		assert.InDeltaSlice(t, []float64{1, 1.5, 2, 2.5, 3, 3.5, 4}, gamma, 1e-9,
			"method = %s", method)
	}

	slope, err := lat.Slope([]float64{0, 1.25, 3})
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{1, 1, 1}, slope, 1e-9)

	_, _, err = lat.Resample(1, "spline")
	assert.Error(t, err)
	_, _, err = lat.Resample(7, "cubic")
	assert.Error(t, err)
}

func TestReadErrors(t *testing.T) {
	heights := []float64{0, 1, 2}
	good := gammaSamples([][]float64{{1, 2, 3}, {2, 3, 4}})

	short := tensorText(heights, good, true) +
		tensorText(heights[:2], gammaSamples([][]float64{{1, 2}}), true)
	long := tensorText(heights, good, false) + "3 0 0 0 0 0 0\n"
	shifted := tensorText(heights, good[:1], true) +
		tensorText([]float64{5, 9, 13}, good[1:], true)

	table := []struct {
		text string
		line int
	}{
		{"# comment\n0 1 2 3 4 5\n", 2},
		{"0 1 2 3 4 5 6\n0 1 2 3 4 5 x\n", 2},
		{tensorText(heights[:1], gammaSamples([][]float64{{1}, {2}}), true), 0},
		{short, -1},
		{long, -1},
		{shifted, 10},
	}

	for i, test := range table {
		_, err := ReadLateral(strings.NewReader(test.text), "bad.dat")
		var fErr *FormatError
		if !errors.As(err, &fErr) {
			t.Errorf("%d) Expected FormatError, got %v.", i, err)
			continue
		}
		if test.line >= 0 && fErr.Line != test.line {
			t.Errorf("%d) Expected error on line %d, got %d.", i, test.line, fErr.Line)
		}
		if !strings.Contains(fErr.Error(), "bad.dat") {
			t.Errorf("%d) Error message '%s' doesn't name the file.", i, fErr.Error())
		}
	}

	one := tensorText(heights, good[:1], true)
	_, err := ReadLateral(strings.NewReader(one), "one.dat")
	assert.ErrorIs(t, err, ErrTooFewSamples)
}

func TestBlankLines(t *testing.T) {
	text := `# height Pxx Pyy Pzz Pxy Pxz Pyz
0 0 0 1 0 0 0

1 0 0 2 0 0 0


  
0 0 0 3 0 0 0
1 0 0 4 0 0 0



`
	lat, err := ReadLateral(strings.NewReader(text), "blank.dat")
	require.NoError(t, err)
	assert.Equal(t, 2, lat.Samples)
	assert.InDeltaSlice(t, []float64{2, 3}, lat.Mean, 1e-12)
}
