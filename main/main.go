package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path"
	"runtime"
	"runtime/pprof"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/phil-mansfield/modylip/cluster"
	"github.com/phil-mansfield/modylip/io"
	"github.com/phil-mansfield/modylip/profile"
	"github.com/phil-mansfield/modylip/snapshot"
	"github.com/phil-mansfield/modylip/synth"
)

const (
	// Progress is logged every logInterval files.
	logInterval = 10
)

// FileGroup contains utility files for logging and writing profiles to.
type FileGroup struct {
	log, prof *os.File
}

// Close closes the files inside FileGroup.
func (fg *FileGroup) Close() {
	if fg.log != nil {
		err := fg.log.Close()
		if err != nil { log.Fatal(err.Error()) }
	}

	if fg.prof != nil {
		pprof.StopCPUProfile()
		err := fg.prof.Close()
		if err != nil { log.Fatal(err.Error()) }
	}
}

// setupFiles redirects logging to LogFile and starts a CPU profile in
// ProfileFile, if either is set.
func setupFiles(con *io.SharedConfig) *FileGroup {
	var err error
	fg := new(FileGroup)

	if con.ValidLogFile() {
		fg.log, err = os.Create(con.LogFile)
		if err != nil { log.Fatal(err.Error()) }
		log.SetOutput(fg.log)
	}

	if con.ValidProfileFile() {
		fg.prof, err = os.Create(con.ProfileFile)
		if err != nil { log.Fatal(err.Error()) }
		err = pprof.StartCPUProfile(fg.prof)
		if err != nil { log.Fatal(err.Error()) }
	}

	return fg
}

func main() {
	if err := loadEnv(); err != nil { log.Fatal(err.Error()) }
	defThreads, err := envThreads(runtime.NumCPU())
	if err != nil { log.Fatal(err.Error()) }

	var (
		leafletsStr, pressureProfileStr string
		clusterStr, synthesizeStr       string
		exampleConfig                   string
		threads                         int
	)
	vars := map[string]*string{
		"Leaflets":        &leafletsStr,
		"PressureProfile": &pressureProfileStr,
		"Cluster":         &clusterStr,
		"Synthesize":      &synthesizeStr,
		"ExampleConfig":   &exampleConfig,
	}

	flag.IntVar(
		&threads, "Threads", defThreads,
		"Number of files processed at once. Default is $"+threadsVar+
			" or the number of logical cores.",
	)
	flag.StringVar(
		&leafletsStr, "Leaflets", "",
		"Configuration file for [Leaflets] mode. Snapshot files may be "+
			"given as arguments.",
	)
	flag.StringVar(
		&pressureProfileStr, "PressureProfile", "",
		"Configuration file for [PressureProfile] mode. Pressure tensor "+
			"files may be given as arguments.",
	)
	flag.StringVar(
		&clusterStr, "Cluster", "",
		"Configuration file for [Cluster] mode.",
	)
	flag.StringVar(
		&synthesizeStr, "Synthesize", "",
		"Configuration file for [Synthesize] mode.",
	)
	flag.StringVar(
		&exampleConfig, "ExampleConfig", "",
		"Prints an example configuration file of the specified type to "+
			"stdout. Accepted arguments are 'Leaflets', 'PressureProfile', "+
			"'Cluster', and 'Synthesize'.",
	)

	flag.Parse()

	modeName, err := getModeName(vars)
	if err != nil { log.Fatal(err.Error()) }
	if threads <= 0 { log.Fatalf("Invalid 'Threads' value, %d.", threads) }
	outDir := envOutputDir()

	switch modeName {
	case "Leaflets":
		wrap := io.DefaultLeafletsWrapper()
		wrap.Leaflets.Output = outDir
		err := io.ReadConfig(leafletsStr, wrap, &wrap.Leaflets)
		if err != nil { log.Fatal(err.Error()) }
		con := &wrap.Leaflets

		files := inputFiles(&con.SharedConfig)
		leafletsMain(con, files, threads)

	case "PressureProfile":
		wrap := io.DefaultPressureProfileWrapper()
		wrap.PressureProfile.Output = outDir
		err := io.ReadConfig(pressureProfileStr, wrap, &wrap.PressureProfile)
		if err != nil { log.Fatal(err.Error()) }
		con := &wrap.PressureProfile

		files := inputFiles(&con.SharedConfig)
		pressureProfileMain(con, files, threads)

	case "Cluster":
		wrap := io.DefaultClusterWrapper()
		wrap.Cluster.Output = outDir
		err := io.ReadConfig(clusterStr, wrap, &wrap.Cluster)
		if err != nil { log.Fatal(err.Error()) }
		clusterMain(&wrap.Cluster)

	case "Synthesize":
		wrap := io.DefaultSynthesizeWrapper()
		err := io.ReadConfig(synthesizeStr, wrap, &wrap.Synthesize)
		if err != nil { log.Fatal(err.Error()) }
		synthesizeMain(&wrap.Synthesize)

	case "ExampleConfig":
		switch exampleConfig {
		case "Leaflets":
			fmt.Println(io.ExampleLeafletsFile)
		case "PressureProfile":
			fmt.Println(io.ExamplePressureProfileFile)
		case "Cluster":
			fmt.Println(io.ExampleClusterFile)
		case "Synthesize":
			fmt.Println(io.ExampleSynthesizeFile)
		default:
			log.Fatal(
				"Unrecognized 'ExampleConfig' argument. Only recognized " +
					"arguments are 'Leaflets', 'PressureProfile', 'Cluster', " +
					"and 'Synthesize'.",
			)
		}
	default:
		panic("Impossible")
	}
}

// getModeName returns the name of the mode and fails with a descriptive error
// if the user provided less or more than one mode flag.
func getModeName(vars map[string]*string) (string, error) {
	setNames := []string{}

	for name, varPtr := range vars {
		if *varPtr != "" { setNames = append(setNames, name) }
	}

	if len(setNames) == 0 {
		return "", fmt.Errorf("No flags have been set.")
	}

	if len(setNames) > 1 {
		return "", fmt.Errorf(
			"The following flags were set: %s, but modylip "+
				"only accepts one flag at a time.",
			strings.Join(setNames, ", "),
		)
	}

	return setNames[0], nil
}

// inputFiles returns the command line arguments if there are any and the
// contents of Input otherwise.
func inputFiles(con *io.SharedConfig) []string {
	if args := flag.Args(); len(args) > 0 { return args }
	if !con.ValidInput() {
		log.Fatal("Invalid/non-existent 'Input' value and no input files " +
			"were given as arguments.")
	}
	files, err := io.InputFiles(con.Input)
	if err != nil { log.Fatal(err.Error()) }
	if len(files) == 0 { log.Fatalf("No files found in '%s'.", con.Input) }
	return files
}

// forEachFile calls fn on every file using at most threads goroutines and
// returns the first error.
func forEachFile(files []string, threads int, fn func(file string) error) error {
	g := &errgroup.Group{}
	g.SetLimit(threads)

	done := int64(0)
	for _, file := range files {
		file := file
		g.Go(func() error {
			if err := fn(file); err != nil { return err }
			if n := atomic.AddInt64(&done, 1); n%logInterval == 0 {
				log.Printf("Finished %d/%d files.", n, len(files))
			}
			return nil
		})
	}
	return g.Wait()
}

// leafletsMain labels the leaflets of every snapshot and writes the selected
// beads.
func leafletsMain(con *io.LeafletsConfig, files []string, threads int) {
	fg := setupFiles(&con.SharedConfig)
	defer fg.Close()

	if err := os.MkdirAll(con.Output, 0777); err != nil { log.Fatal(err.Error()) }

	err := forEachFile(files, threads, func(file string) error {
		return leafletsFile(con, file)
	})
	if err != nil { log.Fatal(err.Error()) }
}

func leafletsFile(con *io.LeafletsConfig, file string) error {
	s, err := snapshot.Read(file)
	if err != nil { return err }

	s.MoveTo(con.Center())
	if con.Backfold { s.Backfold() }
	if err = s.LabelLeaflets(con.LeafletOptions()); err != nil {
		return fmt.Errorf("'%s': %w", file, err)
	}

	sub, err := s.Subset(con.Selection())
	if err != nil { return fmt.Errorf("'%s': %w", file, err) }

	xs, ys, zs := make([]float64, len(sub)), make([]float64, len(sub)), make([]float64, len(sub))
	types, leaves := make([]float64, len(sub)), make([]float64, len(sub))
	for i := range sub {
		xs[i], ys[i], zs[i] = sub[i].Pos[0], sub[i].Pos[1], sub[i].Pos[2]
		types[i], leaves[i] = float64(sub[i].Type), float64(sub[i].Leaflet)
	}

	tab, err := io.NewTable(
		[]string{"x", "y", "z", "type", "leaflet"}, xs, ys, zs, types, leaves,
	)
	if err != nil { return err }
	tab.Comments = []string{
		fmt.Sprintf("%s: t=%g n=%d N=%d", file, s.Time, s.Chains, s.ChainLen),
	}
	for _, arch := range s.Archs() {
		tab.Comments = append(tab.Comments, fmt.Sprintf("arch %v", []int(arch)))
	}

	if con.Thickness {
		th, err := s.Thickness(con.LeafletOptions())
		if err != nil { return fmt.Errorf("'%s': %w", file, err) }
		log.Printf("%s: thickness = %.4g (upper %.4g +/- %.4g, lower %.4g +/- %.4g)",
			file, th.Thickness, th.UpperMean, th.UpperStd, th.LowerMean, th.LowerStd)
		tab.Comments = append(tab.Comments, fmt.Sprintf("thickness=%g", th.Thickness))
	}

	return tab.WriteFile(io.OutputName(con.Output, file, ".leaflets.txt"))
}

// pressureProfileMain reduces every pressure tensor file to a lateral
// pressure profile and its moments.
func pressureProfileMain(con *io.PressureProfileConfig, files []string, threads int) {
	fg := setupFiles(&con.SharedConfig)
	defer fg.Close()

	if err := os.MkdirAll(con.Output, 0777); err != nil { log.Fatal(err.Error()) }

	err := forEachFile(files, threads, func(file string) error {
		return pressureProfileFile(con, file)
	})
	if err != nil { log.Fatal(err.Error()) }
}

func pressureProfileFile(con *io.PressureProfileConfig, file string) error {
	lat, err := profile.ReadLateralFile(file)
	if err != nil { return err }

	info := fmt.Sprintf("%s: samples=%d slabs=%d tension=%g",
		file, lat.Samples, len(lat.Height), lat.Tension())
	log.Println(info)

	tab, err := io.NewTable([]string{"z", "gamma", "std", "stderr"},
		lat.Height, lat.Mean, lat.Std, lat.StdErr)
	if err != nil { return err }
	tab.Comments = []string{info}
	err = tab.WriteFile(io.OutputName(con.Output, file, ".lateral.txt"))
	if err != nil { return err }

	for _, grade := range con.Moment {
		height, mom, err := lat.Height, []float64(nil), error(nil)
		suffix := fmt.Sprintf(".moment_%d.txt", grade)
		if con.HalfMoments {
			height, mom, err = lat.HalfMoment(grade)
			suffix = fmt.Sprintf(".half_moment_%d.txt", grade)
		} else {
			mom, err = lat.Moment(grade)
		}
		if err != nil { return fmt.Errorf("'%s': %w", file, err) }

		tab, err := io.NewTable([]string{"z", "moment"}, height, mom)
		if err != nil { return err }
		tab.Comments = []string{info}
		err = tab.WriteFile(io.OutputName(con.Output, file, suffix))
		if err != nil { return err }
	}

	if con.Resample > 0 {
		height, gamma, err := lat.Resample(con.Resample, con.Interpolation)
		if err != nil { return fmt.Errorf("'%s': %w", file, err) }
		slope, err := lat.Slope(height)
		if err != nil { return fmt.Errorf("'%s': %w", file, err) }
		tab, err := io.NewTable([]string{"z", "gamma", "dgamma_dz"}, height, gamma, slope)
		if err != nil { return err }
		err = tab.WriteFile(io.OutputName(con.Output, file, ".resampled.txt"))
		if err != nil { return err }
	}

	if con.Tensor {
		tens, err := profile.ReadTensorFile(file)
		if err != nil { return err }
		names := []string{"z", "Pxx", "Pyy", "Pzz", "Pxy", "Pxz", "Pyz"}
		cols := [][]float64{tens.Height}
		cols = append(cols, tens.Mean[:]...)
		for _, name := range names[1:] { names = append(names, name+"_std") }
		cols = append(cols, tens.Std[:]...)

		tab, err := io.NewTable(names, cols...)
		if err != nil { return err }
		err = tab.WriteFile(io.OutputName(con.Output, file, ".tensor.txt"))
		if err != nil { return err }
	}

	return nil
}

// clusterMain clusters the points in a table.
func clusterMain(con *io.ClusterConfig) {
	fg := setupFiles(&con.SharedConfig)
	defer fg.Close()

	if err := clusterFile(con); err != nil { log.Fatal(err.Error()) }
}

func clusterFile(con *io.ClusterConfig) error {
	if err := os.MkdirAll(con.Output, 0777); err != nil { return err }

	cols := con.Columns()
	points, err := io.ReadPoints(con.Input, cols)
	if err != nil { return err }
	metric, err := con.Metric()
	if err != nil { return err }

	var res *cluster.Result
	switch strings.ToLower(con.Method) {
	case "meanshift":
		ms := &cluster.MeanShift{
			Radius: con.Radius, Metric: metric, Tol: con.Tol, MaxIter: con.MaxIter,
		}
		res, err = ms.Fit(points)
		if err != nil { return err }
		if !res.Converged {
			log.Printf("Mean shift did not converge after %d iterations.",
				res.Iterations)
		}
	case "linkage":
		res = &cluster.Result{}
		res.Labels, res.Sizes, err = cluster.Linkage(points, con.Radius, metric)
		if err != nil { return err }
	default:
		return fmt.Errorf("Unrecognized clustering method '%s'.", con.Method)
	}
	log.Printf("Found %d clusters in %d points.", len(res.Sizes), len(points))

	names := make([]string, len(cols))
	for k := range cols { names[k] = fmt.Sprintf("x%d", k) }

	labels := make([]float64, len(res.Labels))
	for i := range labels { labels[i] = float64(res.Labels[i]) }
	tab, err := io.NewTable(
		append(names[:len(names):len(names)], "label"),
		append(transpose(points, len(cols)), labels)...,
	)
	if err != nil { return err }
	err = tab.WriteFile(io.OutputName(con.Output, con.Input, ".labels.txt"))
	if err != nil { return err }

	if res.Centroids == nil { return nil }
	sizes := make([]float64, len(res.Sizes))
	for i := range sizes { sizes[i] = float64(res.Sizes[i]) }
	tab, err = io.NewTable(
		append(names[:len(names):len(names)], "size"),
		append(transpose(res.Centroids, len(cols)), sizes)...,
	)
	if err != nil { return err }
	return tab.WriteFile(io.OutputName(con.Output, con.Input, ".centroids.txt"))
}

func transpose(points [][]float64, dim int) [][]float64 {
	cols := make([][]float64, dim)
	for k := range cols {
		cols[k] = make([]float64, len(points))
		for i := range points { cols[k][i] = points[i][k] }
	}
	return cols
}

// synthesizeMain writes a synthetic bilayer snapshot.
func synthesizeMain(con *io.SynthesizeConfig) {
	fg := setupFiles(&con.SharedConfig)
	defer fg.Close()

	if err := synthesizeFile(con); err != nil { log.Fatal(err.Error()) }
}

func synthesizeFile(con *io.SynthesizeConfig) error {
	s, err := synth.Generate(con.Config())
	if err != nil { return err }

	if dir := path.Dir(con.Output); dir != "." {
		if err := os.MkdirAll(dir, 0777); err != nil { return err }
	}
	if err = s.WriteFile(con.Output); err != nil { return err }
	log.Printf("Wrote %d chains of %d beads to %s.", s.Chains, s.ChainLen, con.Output)
	return nil
}
