package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"strings"

	"github.com/icm-sims/clustermerge/io"
	"github.com/icm-sims/clustermerge/sim"
	"github.com/icm-sims/clustermerge/vecpot"
)

func main() {
	// The main function does input sanitization and dispatches to the
	// secondary main function for the selected mode.

	var (
		mergerStr, genFieldStr string
		exampleConfig          string
	)
	vars := map[string]*string{
		"Merger":        &mergerStr,
		"GenField":      &genFieldStr,
		"ExampleConfig": &exampleConfig,
	}

	var threads int
	flag.IntVar(
		&threads, "Threads", runtime.NumCPU(),
		"Number of worker goroutines for the block sweep. Default is the "+
			"number of logical cores.",
	)
	flag.StringVar(
		&mergerStr, "Merger", "",
		"Configuration file for [Merger] mode.",
	)
	flag.StringVar(
		&genFieldStr, "GenField", "",
		"Output path for a generated magnetic vector potential grid.",
	)
	flag.StringVar(
		&exampleConfig, "ExampleConfig", "",
		"Prints an example configuration file of the specified type to "+
			"stdout. The only accepted argument is 'Merger'.",
	)

	gen := vecpot.DefaultGenConfig()
	flag.Int64Var(&gen.Seed, "Seed", gen.Seed,
		"Noise seed for [GenField] mode.")
	flag.IntVar(&gen.N, "FieldCells", gen.N,
		"Samples per axis for [GenField] mode.")
	var fieldWidth float64
	flag.Float64Var(&fieldWidth, "FieldWidth", gen.Max-gen.Min,
		"Physical extent of the generated grid, centered on the origin.")
	flag.Float64Var(&gen.B0, "FieldB0", gen.B0,
		"Target tangled field strength for [GenField] mode.")
	flag.Float64Var(&gen.Scale, "FieldScale", gen.Scale,
		"Coherence length of the generated field.")

	flag.Parse()

	modeName, err := getModeName(vars)
	if err != nil {
		log.Fatal(err.Error())
	}

	switch modeName {
	case "Merger":
		wrap, err := io.ReadMergerConfig(mergerStr)
		if err != nil {
			log.Fatal(err.Error())
		}
		if wrap.Run.Workers == 0 {
			wrap.Run.Workers = threads
		}
		mergerMain(wrap, mergerStr)

	case "GenField":
		gen.Min, gen.Max = -0.5*fieldWidth, 0.5*fieldWidth
		genFieldMain(genFieldStr, gen)

	case "ExampleConfig":
		switch exampleConfig {
		case "Merger":
			fmt.Println(io.ExampleMergerFile)
		default:
			log.Fatal(
				"Unrecognized 'ExampleConfig' argument. The only " +
					"recognized argument is 'Merger'.",
			)
		}
	default:
		panic("Impossible")
	}
}

func mergerMain(wrap *io.MergerWrapper, configPath string) {
	if wrap.Run.ValidLogFile() {
		f, err := os.Create(wrap.Run.LogFile)
		if err != nil {
			log.Fatal(err.Error())
		}
		defer f.Close()
		log.SetOutput(f)
	}

	text, err := os.ReadFile(configPath)
	if err != nil {
		log.Fatal(err.Error())
	}

	ctx, err := sim.NewContext(wrap, string(text))
	if err != nil {
		log.Fatal(err.Error())
	}
	defer ctx.Close()

	blocks, err := ctx.BuildMesh()
	if err != nil {
		log.Fatal(err.Error())
	}
	log.Printf("Mesh built: %d blocks.", len(blocks))

	run := &wrap.Run
	for ctx.Time < run.TMax {
		if err := ctx.Step(blocks, run.Dt); err != nil {
			log.Fatal(err.Error())
		}

		if ctx.Orbit != nil && ctx.Cycle%int64(run.TraceEvery) == 0 {
			sub := ctx.Orbit.Sub
			log.Printf(
				"cycle %d t = %.4g sub = (%.4g, %.4g, %.4g) "+
					"|v| = %.4g",
				ctx.Cycle, ctx.Time, sub.X[0], sub.X[1], sub.X[2],
				sub.V.Norm(),
			)
		}
	}
	log.Printf("Finished at cycle %d, t = %g.", ctx.Cycle, ctx.Time)
}

func genFieldMain(path string, gen vecpot.GenConfig) {
	if gen.N < 8 {
		log.Fatalf("FieldCells must be at least 8, not %d.", gen.N)
	}
	if gen.Max <= gen.Min {
		log.Fatal("FieldWidth must be positive.")
	}

	field, err := vecpot.Generate(gen)
	if err != nil {
		log.Fatal(err.Error())
	}
	if err := vecpot.WriteField(path, field); err != nil {
		log.Fatal(err.Error())
	}

	log.Printf(
		"Wrote %dx%dx%d grid to %s (component rms %.3g, %.3g, %.3g).",
		field.N[0], field.N[1], field.N[2], path,
		vecpot.RMS(field, vecpot.Ax),
		vecpot.RMS(field, vecpot.Ay),
		vecpot.RMS(field, vecpot.Az),
	)
}

// getModeName returns the name of the mode and fails with a descriptive
// error if the user provided less or more than one mode flag.
func getModeName(vars map[string]*string) (string, error) {
	setNames := []string{}

	for name, varPtr := range vars {
		if *varPtr != "" {
			setNames = append(setNames, name)
		}
	}

	if len(setNames) == 0 {
		return "", fmt.Errorf("No flags have been set.")
	}

	if len(setNames) > 1 {
		return "", fmt.Errorf(
			"The following flags were set: %s, but clustermerge only "+
				"accepts one flag at a time.",
			strings.Join(setNames, ", "),
		)
	}

	return setNames[0], nil
}
