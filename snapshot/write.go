package snapshot

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

func formatFloats(xs []float64) string {
	strs := make([]string, len(xs))
	for i := range xs { strs[i] = strconv.FormatFloat(xs[i], 'g', -1, 64) }
	return strings.Join(strs, " ")
}

func ftoa(x float64) string { return strconv.FormatFloat(x, 'g', -1, 64) }

// ValidName returns true if name can be written to a header and parsed back
// unchanged: it may not contain whitespace or '='.
func ValidName(name string) bool {
	return !strings.ContainsAny(name, "= \t\r\n\v\f")
}

// WriteHeader writes the four header lines of hd to w.
func (hd *Header) WriteHeader(w io.Writer) error {
	if !ValidName(hd.Name) {
		return fmt.Errorf("System name '%s' may not contain whitespace or '='.", hd.Name)
	}
	lines := []string{
		fmt.Sprintf("# L=%s t=%s blocks=%d",
			formatFloats(hd.Box[:]), ftoa(hd.Time), hd.Blocks),
		fmt.Sprintf("# v=%s w=%s", formatFloats(hd.Vir2), formatFloats(hd.Vir3)),
		fmt.Sprintf("# a2=%s a3=%s Re=%s N=%d ks=%s kb=%s l0=%s",
			ftoa(hd.A2), ftoa(hd.A3), ftoa(hd.Re), hd.ChainLen,
			ftoa(hd.Ks), ftoa(hd.Kb), ftoa(hd.L0)),
	}
	if hd.Name == "" {
		lines = append(lines, fmt.Sprintf("# n=%d N=%d", hd.Chains, hd.ChainLen))
	} else {
		lines = append(lines, fmt.Sprintf("# n=%d N=%d name=%s",
			hd.Chains, hd.ChainLen, hd.Name))
	}

	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil { return err }
	}
	return nil
}

// Write writes the snapshot to w in the same format that Parse reads.
func (s *Snapshot) Write(w io.Writer) error {
	bw := bufio.NewWriter(w)
	if err := s.WriteHeader(bw); err != nil { return err }
	if _, err := fmt.Fprintln(bw, "# r_x r_y r_z v_x v_y v_z type"); err != nil {
		return err
	}

	for i := range s.Beads {
		b := &s.Beads[i]
		_, err := fmt.Fprintf(bw, "  %s %s %d\n",
			formatFloats(b.Pos[:]), formatFloats(b.Vel[:]), b.Type)
		if err != nil { return err }
	}
	return bw.Flush()
}

// WriteFile writes the snapshot to the file at path.
func (s *Snapshot) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil { return err }
	if err = s.Write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
