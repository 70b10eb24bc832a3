package main

import (
	"flag"
	"fmt"
	"io/ioutil"
	"log"
	"os"
	"os/signal"
	"runtime"
	"runtime/pprof"

	"github.com/phil-mansfield/barnes"
	"github.com/phil-mansfield/barnes/geom"
	"github.com/phil-mansfield/barnes/ic"
	"github.com/phil-mansfield/barnes/io"
	"github.com/phil-mansfield/barnes/particle"
	"github.com/phil-mansfield/barnes/render"
)

type FileGroup struct {
	log, prof *os.File
}

func (fg *FileGroup) Close() {
	if fg.log != nil {
		log.SetOutput(os.Stderr)
		err := fg.log.Close()
		fg.log = nil
		if err != nil { log.Fatal(err.Error()) }
	}

	if fg.prof != nil {
		pprof.StopCPUProfile()
		err := fg.prof.Close()
		fg.prof = nil
		if err != nil { log.Fatal(err.Error()) }
	}
}

// finish records err in the log, then closes fg. It returns err so that
// main can exit on it after the profile and log file are flushed.
func finish(fg *FileGroup, err error) error {
	if err != nil && fg.log != nil { log.Println(err.Error()) }
	fg.Close()
	return err
}

func main() {
	var (
		run string
		exampleConfig, view bool
		threads int
	)

	flag.StringVar(&run, "Run", "", "Configuration file for a simulation.")
	flag.BoolVar(
		&exampleConfig, "ExampleConfig", false,
		"Prints an example configuration file to stdout.",
	)
	flag.IntVar(
		&threads, "Threads", barnes.NumCores,
		"Number of goroutines used for force calculations.",
	)
	flag.BoolVar(
		&view, "View", false,
		"Draws the simulation live in the terminal. Press q to stop.",
	)
	flag.Parse()

	switch {
	case exampleConfig:
		fmt.Println(io.ExampleSimulationFile)
		return
	case run == "":
		log.Fatal("Either -Run or -ExampleConfig must be set.")
	case threads <= 0:
		log.Fatalf("Invalid 'Threads' value, %d.", threads)
	}

	wrap, err := io.ReadConfig(run)
	if err != nil { log.Fatal(err.Error()) }
	runtime.GOMAXPROCS(threads)

	fg, err := setupFiles(&wrap.Output)
	if err != nil { log.Fatal(err.Error()) }
	// The terminal view owns the screen.
	if view && fg.log == nil { log.SetOutput(ioutil.Discard) }

	err = finish(fg, runMain(wrap, threads, view))
	if err != nil { log.Fatal(err.Error()) }
}

// setupFiles redirects logging and starts profiling as requested by con.
func setupFiles(con *io.OutputConfig) (*FileGroup, error) {
	fg := &FileGroup{}

	if con.ValidLogFile() {
		f, err := os.Create(con.LogFile)
		if err != nil { return nil, err }
		fg.log = f
		log.SetOutput(f)
	}

	if con.ValidProfileFile() {
		f, err := os.Create(con.ProfileFile)
		if err != nil { return nil, err }
		fg.prof = f
		if err := pprof.StartCPUProfile(f); err != nil { return nil, err }
	}

	return fg, nil
}

func runMain(wrap *io.SimulationWrapper, threads int, view bool) error {
	simCon, out := &wrap.Simulation, &wrap.Output

	ps, t0, err := ic.Generate(&wrap.InitialConditions, simCon)
	if err != nil { return err }
	log.Printf("Generated %d particles (%s).",
		len(ps), wrap.InitialConditions.Kind)

	sim, err := barnes.New(ps, simCon.Params(threads))
	if err != nil { return err }
	sim.Time = t0

	if out.SnapshotEvery > 0 || out.PlotEvery > 0 {
		if err := os.MkdirAll(out.Dir, 0755); err != nil { return err }
	}

	var plotter *render.Plotter
	if out.PlotEvery > 0 {
		plotter = render.NewPlotter(out.Dir, sim.Params.Domain(), out.Trail)
		defer plotter.Flush()
	}

	stop := make(chan struct{})
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	defer signal.Stop(interrupt)

	var term *render.Terminal
	if view {
		term, err = render.NewTerminalScreen(sim.Params.Domain())
		if err != nil { return err }
		defer term.Close()
		term.Draw(sim.Time, sim.Steps, sim.Particles)
	}

	go func() {
		if term != nil {
			select {
			case <-interrupt:
			case <-term.Quit():
			}
		} else {
			<-interrupt
		}
		close(stop)
	}()

	if err := output(sim, out, plotter); err != nil { return err }
	logStep(sim)

	err = sim.Run(simCon.Steps, stop, func(sim *barnes.Simulation) error {
		if term != nil { term.Draw(sim.Time, sim.Steps, sim.Particles) }
		if sim.Steps%out.LogEvery == 0 { logStep(sim) }
		return output(sim, out, plotter)
	})
	if err != nil { return err }

	if sim.Steps < simCon.Steps {
		log.Printf("Stopped after %d of %d steps.", sim.Steps, simCon.Steps)
	} else {
		log.Printf("Finished %d steps.", sim.Steps)
	}

	// Always leave a final snapshot behind so a run can be resumed.
	if out.SnapshotEvery > 0 && sim.Steps%out.SnapshotEvery != 0 {
		return writeSnapshot(sim, out.Dir)
	}
	return nil
}

// output writes the snapshots and plots due at the current step.
func output(
	sim *barnes.Simulation, out *io.OutputConfig, plotter *render.Plotter,
) error {
	if out.SnapshotEvery > 0 && sim.Steps%out.SnapshotEvery == 0 {
		if err := writeSnapshot(sim, out.Dir); err != nil { return err }
	}
	if plotter != nil && sim.Steps%out.PlotEvery == 0 {
		plotter.Plot(sim.Time, sim.Particles)
	}
	return nil
}

func writeSnapshot(sim *barnes.Simulation, dir string) error {
	fname := io.SnapshotName(dir, sim.Steps)
	return io.WriteSnapshotFile(fname, sim.Time, sim.Particles)
}

func logStep(sim *barnes.Simulation) {
	kin, pot := sim.Energy()
	p := particle.Momentum(sim.Particles)
	log.Printf(
		"Step %d: t = %.4g, E = %.6g (K = %.4g, U = %.4g), |P| = %.3g",
		sim.Steps, sim.Time, kin+pot, kin, pot, geom.Norm(p),
	)
}
