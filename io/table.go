/*package io handles the run configuration files and the plain-text tables
which modylip reads and writes.
*/
package io

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path"
	"sort"
	"strconv"
	"strings"

	"github.com/phil-mansfield/table"
)

// ReadPoints reads the given columns of a whitespace separated table and
// returns one point per row.
func ReadPoints(file string, cols []int) ([][]float64, error) {
	if len(cols) == 0 {
		return nil, fmt.Errorf("No columns were requested from '%s'.", file)
	}

	vals, err := table.ReadTable(file, cols, nil)
	if err != nil { return nil, err }

	n := len(vals[0])
	points := make([][]float64, n)
	for i := range points {
		points[i] = make([]float64, len(cols))
		for k := range cols { points[i][k] = vals[k][i] }
	}
	return points, nil
}

// Table is a set of named columns.
type Table struct {
	Comments []string
	Names    []string
	Cols     [][]float64
}

// NewTable creates a table from equal length columns.
func NewTable(names []string, cols ...[]float64) (*Table, error) {
	if len(names) != len(cols) {
		return nil, fmt.Errorf("%d column names were given for %d columns.",
			len(names), len(cols))
	}
	for i := range cols {
		if len(cols[i]) != len(cols[0]) {
			return nil, fmt.Errorf("Column '%s' has length %d, but column '%s' "+
				"has length %d.", names[i], len(cols[i]), names[0], len(cols[0]))
		}
	}
	return &Table{Names: names, Cols: cols}, nil
}

// Write writes the table in a format that ReadPoints can read. Comments and
// column names are written as '#' lines.
func (t *Table) Write(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, c := range t.Comments {
		if _, err := fmt.Fprintf(bw, "# %s\n", c); err != nil { return err }
	}
	if _, err := fmt.Fprintf(bw, "# %s\n", strings.Join(t.Names, " ")); err != nil {
		return err
	}

	rows := 0
	if len(t.Cols) > 0 { rows = len(t.Cols[0]) }
	strs := make([]string, len(t.Cols))
	for i := 0; i < rows; i++ {
		for k := range t.Cols {
			strs[k] = strconv.FormatFloat(t.Cols[k][i], 'g', 10, 64)
		}
		if _, err := fmt.Fprintln(bw, strings.Join(strs, " ")); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteFile writes the table to the file at path.
func (t *Table) WriteFile(file string) error {
	f, err := os.Create(file)
	if err != nil { return err }
	if err = t.Write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// InputFiles expands a file or a directory into a sorted list of files.
func InputFiles(input string) ([]string, error) {
	info, err := os.Stat(input)
	if err != nil { return nil, err }
	if !info.IsDir() { return []string{input}, nil }

	entries, err := os.ReadDir(input)
	if err != nil { return nil, err }
	files := []string{}
	for _, e := range entries {
		if e.IsDir() { continue }
		files = append(files, path.Join(input, e.Name()))
	}
	sort.Strings(files)
	return files, nil
}

// OutputName returns the file in outDir which output derived from input
// should be written to.
func OutputName(outDir, input, suffix string) string {
	base := path.Base(input)
	if ext := path.Ext(base); ext != "" { base = strings.TrimSuffix(base, ext) }
	return path.Join(outDir, base+suffix)
}
