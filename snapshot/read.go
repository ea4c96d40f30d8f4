package snapshot

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ErrBeadCount is returned when the number of beads in a snapshot does not
// match n * N from its header.
var ErrBeadCount = errors.New("n_beads != n_chains * ch_len")

// HeaderError reports a missing or invalid header field.
type HeaderError struct {
	File  string
	Line  int // zero if the field is missing entirely
	Field string
	Msg   string
}

func (err *HeaderError) Error() string {
	if err.Line == 0 {
		return fmt.Sprintf("Header of '%s': %s: %s", err.File, err.Field, err.Msg)
	}
	return fmt.Sprintf("Header of '%s', line %d: %s: %s",
		err.File, err.Line, err.Field, err.Msg)
}

func beadCountError(file string, n int, hd *Header) error {
	return fmt.Errorf("%w: '%s' contains %d beads, but n = %d and N = %d",
		ErrBeadCount, file, n, hd.Chains, hd.ChainLen)
}

var headerPrefixes = []string{"# L=", "# v=", "# a2=", "# n="}

// Read parses the snapshot file at the given path.
func Read(path string) (*Snapshot, error) {
	f, err := os.Open(path)
	if err != nil { return nil, err }
	defer f.Close()
	return Parse(f, path)
}

// Parse reads a snapshot from r. name is used in error messages.
func Parse(r io.Reader, name string) (*Snapshot, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1<<24)

	hd := &Header{}
	p := &headerParser{file: name, hd: hd}

	lineNum := 0
	inHeader := true
	beads := []Bead{}
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()

		if inHeader {
			if prefix := headerPrefix(line); prefix != "" {
				if err := p.parseLine(prefix, line, lineNum); err != nil {
					return nil, err
				}
				continue
			}
			inHeader = false
			if err := p.finish(); err != nil { return nil, err }
			beads = make([]Bead, 0, hd.Beads())
		}

		bead, ok, err := parseBead(line)
		if err != nil {
			return nil, fmt.Errorf("'%s', line %d: %s", name, lineNum, err.Error())
		} else if ok {
			beads = append(beads, bead)
		}
	}
	if err := scanner.Err(); err != nil { return nil, err }
	if inHeader {
		if err := p.finish(); err != nil { return nil, err }
	}

	if len(beads) != hd.Beads() {
		return nil, beadCountError(name, len(beads), hd)
	}

	s, err := New(hd, beads)
	if err != nil { return nil, err }
	s.File = name
	return s, nil
}

func headerPrefix(line string) string {
	for _, prefix := range headerPrefixes {
		if strings.HasPrefix(line, prefix) { return prefix }
	}
	return ""
}

// parseBead returns ok = false for lines which are not beads.
func parseBead(line string) (b Bead, ok bool, err error) {
	fields := strings.Fields(line)
	if len(fields) != 7 || strings.HasPrefix(fields[0], "#") {
		return b, false, nil
	}

	for k := 0; k < 3; k++ {
		if b.Pos[k], err = strconv.ParseFloat(fields[k], 64); err != nil {
			return b, false, err
		}
		if b.Vel[k], err = strconv.ParseFloat(fields[k+3], 64); err != nil {
			return b, false, err
		}
	}

	typ, err := strconv.ParseFloat(fields[6], 64)
	if err != nil { return b, false, err }
	b.Type = int(typ)
	return b, true, nil
}

// headerParser accumulates header lines. Each line is a sequence of key=value
// tokens where a value may be followed by further whitespace separated values.
type headerParser struct {
	file string
	hd   *Header
	seen map[string]int
	nLineChainLen int
}

func (p *headerParser) err(line int, field, format string, a ...interface{}) error {
	return &HeaderError{p.file, line, field, fmt.Sprintf(format, a...)}
}

func splitFields(line string) (keys []string, vals map[string][]string) {
	vals = map[string][]string{}
	key := ""
	for _, tok := range strings.Fields(strings.TrimPrefix(line, "#")) {
		if i := strings.Index(tok, "="); i > 0 {
			key = tok[:i]
			keys = append(keys, key)
			vals[key] = nil
			tok = tok[i+1:]
			if tok == "" { continue }
		}
		if key == "" { continue }
		vals[key] = append(vals[key], tok)
	}
	return keys, vals
}

func (p *headerParser) parseLine(prefix, line string, lineNum int) error {
	if p.seen == nil { p.seen = map[string]int{} }
	if prev, ok := p.seen[prefix]; ok {
		field := strings.TrimSuffix(strings.TrimPrefix(prefix, "# "), "=")
		return p.err(lineNum, field, "duplicate header line (first on line %d)", prev)
	}
	p.seen[prefix] = lineNum

	_, vals := splitFields(line)
	f := &fieldReader{p: p, vals: vals, line: lineNum}
	hd := p.hd

	switch prefix {
	case "# L=":
		box := f.floats("L")
		if f.err == nil && len(box) != 3 {
			return p.err(lineNum, "L", "L != %%f %%f %%f, got %d values", len(box))
		}
		if f.err == nil { copy(hd.Box[:], box) }
		hd.Time = f.float("t")
		if _, ok := vals["blocks"]; ok { hd.Blocks = f.int("blocks") }
	case "# v=":
		hd.Vir2 = f.floats("v")
		hd.Vir3 = f.floats("w")
	case "# a2=":
		hd.A2 = f.float("a2")
		hd.A3 = f.float("a3")
		hd.Re = f.float("Re")
		hd.ChainLen = f.int("N")
		hd.Ks = f.float("ks")
		hd.Kb = f.float("kb")
		hd.L0 = f.float("l0")
	case "# n=":
		hd.Chains = f.int("n")
		if _, ok := vals["N"]; ok { p.nLineChainLen = f.int("N") }
		if name, ok := vals["name"]; ok { hd.Name = strings.Join(name, " ") }
	}
	return f.err
}

// finish checks that every header line was present and validates the values.
func (p *headerParser) finish() error {
	for _, prefix := range headerPrefixes {
		if _, ok := p.seen[prefix]; !ok {
			field := strings.TrimSuffix(strings.TrimPrefix(prefix, "# "), "=")
			return p.err(0, field, "header line '%s' is missing", prefix)
		}
	}
	if p.nLineChainLen != 0 && p.nLineChainLen != p.hd.ChainLen {
		return p.err(p.seen["# n="], "N",
			"N = %d on the n= line, but N = %d on the a2= line",
			p.nLineChainLen, p.hd.ChainLen)
	}
	return p.hd.validate(p.file)
}

// fieldReader converts header values, keeping the first error it encounters.
type fieldReader struct {
	p    *headerParser
	vals map[string][]string
	line int
	err  error
}

func (f *fieldReader) strs(key string) []string {
	if f.err != nil { return nil }
	vals, ok := f.vals[key]
	if !ok {
		f.err = f.p.err(f.line, key, "missing from header line")
	} else if len(vals) == 0 {
		f.err = f.p.err(f.line, key, "%s= is empty", key)
	}
	return vals
}

func (f *fieldReader) floats(key string) []float64 {
	strs := f.strs(key)
	out := make([]float64, len(strs))
	for i, str := range strs {
		x, err := strconv.ParseFloat(str, 64)
		if err != nil {
			f.err = f.p.err(f.line, key, "cannot parse '%s'", str)
			return nil
		}
		out[i] = x
	}
	return out
}

func (f *fieldReader) float(key string) float64 {
	xs := f.floats(key)
	if f.err != nil { return 0 }
	if len(xs) != 1 {
		f.err = f.p.err(f.line, key, "expected one value, got %d", len(xs))
		return 0
	}
	return xs[0]
}

func (f *fieldReader) int(key string) int {
	strs := f.strs(key)
	if f.err != nil { return 0 }
	if len(strs) != 1 {
		f.err = f.p.err(f.line, key, "expected one value, got %d", len(strs))
		return 0
	}
	n, err := strconv.Atoi(strs[0])
	if err != nil {
		f.err = f.p.err(f.line, key, "cannot parse '%s'", strs[0])
	}
	return n
}

// validate checks the ranges of every header value.
func (hd *Header) validate(file string) error {
	check := func(ok bool, field, msg string) error {
		if ok { return nil }
		return &HeaderError{File: file, Field: field, Msg: msg}
	}

	for i, L := range hd.Box {
		if err := check(L > 0, "L", fmt.Sprintf("L[%d] <= 0", i)); err != nil {
			return err
		}
	}
	checks := []error{
		check(hd.Time >= 0, "t", "t < 0."),
		check(hd.Blocks >= 0, "blocks", "blocks < 0"),
		check(len(hd.Vir2) > 0, "v", "v= is empty"),
		check(len(hd.Vir3) > 0, "w", "w= is empty"),
		check(hd.A2 > 0, "a2", "a2 <= 0."),
		check(hd.A3 > 0, "a3", "a3 <= 0."),
		check(hd.A3 > hd.A2, "a3", "a3 < a2"),
		check(hd.Re > 0, "Re", "Re <= 0."),
		check(hd.ChainLen > 0, "N", "N <= 0"),
		check(hd.Ks >= 0, "ks", "ks < 0."),
		check(hd.Kb >= 0, "kb", "kb < 0."),
		check(hd.L0 >= 0, "l0", "l0 < 0."),
		check(hd.Chains >= 0, "n", "n < 0"),
	}
	for _, err := range checks {
		if err != nil { return err }
	}
	return nil
}
