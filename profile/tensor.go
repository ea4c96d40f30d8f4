package profile

import (
	"io"
	"os"
)

// Tensor is the average pressure tensor in each slab.
type Tensor struct {
	File    string
	Height  []float64
	Width   float64
	Samples int

	// Mean[c][i] and Std[c][i] are the mean and standard deviation of
	// component c in slab i.
	Mean, Std [Components][]float64
}

func copyRow(p *[Components]float64, out []float64) { copy(out, p[:]) }

// ReadTensor reads every sample in r and returns the average pressure tensor.
// name is used in error messages.
func ReadTensor(r io.ReadSeeker, name string) (*Tensor, error) {
	st, err := readStats(r, name, Components, copyRow)
	if err != nil { return nil, err }

	t := &Tensor{
		File: st.File, Height: st.Height, Width: st.Width, Samples: st.Samples,
	}
	for c := 0; c < Components; c++ {
		t.Mean[c] = st.column(st.mean, c)
		t.Std[c] = st.column(st.std, c)
	}
	return t, nil
}

// ReadTensorFile is ReadTensor for the file at path.
func ReadTensorFile(path string) (*Tensor, error) {
	f, err := os.Open(path)
	if err != nil { return nil, err }
	defer f.Close()
	return ReadTensor(f, path)
}
