/*package profile reduces files of pressure tensor samples to per-slab
profiles along the bilayer normal.

Input files have seven columns:

	height Pxx Pyy Pzz Pxy Pxz Pyz

Lines starting with '#' are comments and every sample is terminated by two
consecutive blank lines. Every sample must contain the same slabs, in the
same order.
*/
package profile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// Tensor component indices.
const (
	Pxx = iota
	Pyy
	Pzz
	Pxy
	Pxz
	Pyz
	Components
)

// Columns is the number of columns in a pressure tensor file.
const Columns = Components + 1

// HeightTol is the largest difference, in units of the slab width, between
// the heights of matching slabs in two samples.
const HeightTol = 1e-6

// ErrTooFewSamples is returned when a file contains fewer than two samples.
var ErrTooFewSamples = errors.New("profile: at least two samples are required")

// FormatError reports a malformed pressure tensor file.
type FormatError struct {
	File string
	Line int
	Msg  string
}

func (err *FormatError) Error() string {
	if err.Line == 0 {
		return fmt.Sprintf("File '%s' does not have the required format: %s",
			err.File, err.Msg)
	}
	return fmt.Sprintf("File '%s', line %d does not have the required format: %s",
		err.File, err.Line, err.Msg)
}

// rowFunc reduces one row of the pressure tensor to the quantities which are
// averaged.
type rowFunc func(p *[Components]float64, out []float64)

// slabStats are the per-slab statistics shared by every profile type. Values
// of quantity c at slab i are stored at index i*k + c.
type slabStats struct {
	File    string
	Height  []float64
	Width   float64
	Samples int

	k         int
	mean, std []float64
}

type eventKind int

const (
	rowEvent eventKind = iota
	endEvent
)

// scanTensor calls fn for every row and every sample terminator in r.
func scanTensor(
	r io.Reader, name string,
	fn func(kind eventKind, row *[Columns]float64, line int) (stop bool, err error),
) error {
	scanner := bufio.NewScanner(r)
	blanks, lineNum := 0, 0
	row := [Columns]float64{}

	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)

		if trimmed == "" {
			blanks++
			if blanks == 2 {
				blanks = 0
				stop, err := fn(endEvent, nil, lineNum)
				if err != nil || stop { return err }
			}
			continue
		} else if strings.HasPrefix(trimmed, "#") {
			continue
		}
		blanks = 0

		fields := strings.Fields(trimmed)
		if len(fields) != Columns {
			return &FormatError{name, lineNum, fmt.Sprintf(
				"expected %d columns, found %d", Columns, len(fields),
			)}
		}
		for i := range fields {
			x, err := strconv.ParseFloat(fields[i], 64)
			if err != nil {
				return &FormatError{name, lineNum, fmt.Sprintf(
					"cannot parse column %d, '%s'", i, fields[i],
				)}
			}
			row[i] = x
		}

		stop, err := fn(rowEvent, &row, lineNum)
		if err != nil || stop { return err }
	}
	if err := scanner.Err(); err != nil { return err }

	// The final sample doesn't need to be terminated.
	_, err := fn(endEvent, nil, lineNum)
	return err
}

func tensorVals(row *[Columns]float64) *[Components]float64 {
	vals := [Components]float64{}
	copy(vals[:], row[1:])
	return &vals
}

// readStats runs the two-pass mean and variance calculation over the samples
// in r. The first sample sets the slabs and the shift applied to every
// subsequent value. The stream is then rewound and every sample, including the
// first, is accumulated.
func readStats(r io.ReadSeeker, name string, k int, f rowFunc) (*slabStats, error) {
	st := &slabStats{File: name, k: k}
	guess := []float64{}
	buf := make([]float64, k)

	err := scanTensor(r, name, func(
		kind eventKind, row *[Columns]float64, line int,
	) (bool, error) {
		if kind == endEvent { return len(st.Height) > 0, nil }
		st.Height = append(st.Height, row[0])
		f(tensorVals(row), buf)
		guess = append(guess, buf...)
		return false, nil
	})
	if err != nil { return nil, err }

	slabs := len(st.Height)
	if slabs < 2 {
		return nil, &FormatError{name, 0, fmt.Sprintf(
			"at least 2 slabs are required, but the first sample has %d", slabs,
		)}
	}
	st.Width = st.Height[1] - st.Height[0]

	if _, err := r.Seek(0, io.SeekStart); err != nil { return nil, err }

	tol := HeightTol * math.Abs(st.Width)
	acc := NewAccumulator(guess)
	slab := 0
	err = scanTensor(r, name, func(
		kind eventKind, row *[Columns]float64, line int,
	) (bool, error) {
		if kind == endEvent {
			if slab == 0 { return false, nil }
			if slab != slabs {
				return true, &FormatError{name, line, fmt.Sprintf(
					"sample %d has %d slabs, but the first sample has %d",
					acc.N()+1, slab, slabs,
				)}
			}
			acc.EndSample()
			slab = 0
			return false, nil
		}

		if slab == slabs {
			return true, &FormatError{name, line, fmt.Sprintf(
				"sample %d has more than %d slabs", acc.N()+1, slabs,
			)}
		}
		if math.Abs(row[0]-st.Height[slab]) > tol {
			return true, &FormatError{name, line, fmt.Sprintf(
				"slab %d of sample %d has height %g, but the first sample has %g",
				slab, acc.N()+1, row[0], st.Height[slab],
			)}
		}
		f(tensorVals(row), buf)
		for c := 0; c < k; c++ { acc.AddAt(slab*k+c, buf[c]) }
		slab++
		return false, nil
	})
	if err != nil { return nil, err }

	st.Samples = acc.N()
	if st.Samples < 2 {
		return nil, fmt.Errorf("%w: '%s' contains %d sample(s)",
			ErrTooFewSamples, name, st.Samples)
	}

	st.mean = acc.Mean(nil)
	st.std = acc.Std(nil)
	return st, nil
}

// column extracts quantity c from a strided array.
func (st *slabStats) column(xs []float64, c int) []float64 {
	out := make([]float64, len(st.Height))
	for i := range out { out[i] = xs[i*st.k+c] }
	return out
}
