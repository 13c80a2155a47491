// Plots the halo trajectories stored in a merger state file.
//
// Usage: go run plot_trajectory.go state.db out.png [run-id]
//
// With no run id the newest run in the state file is plotted.
package main

import (
	"log"
	"os"

	plt "github.com/phil-mansfield/pyplot"

	"github.com/icm-sims/clustermerge/persist"
)

func main() {
	if len(os.Args) < 3 {
		log.Fatal("Usage: plot_trajectory state.db out.png [run-id]")
	}
	statePath, outPath := os.Args[1], os.Args[2]

	store, err := persist.Open(statePath)
	if err != nil {
		log.Fatal(err.Error())
	}
	defer store.Close()

	var runID string
	if len(os.Args) > 3 {
		runID = os.Args[3]
	} else {
		if runID, err = store.LatestRun(); err != nil {
			log.Fatal(err.Error())
		}
		if runID == "" {
			log.Fatalf("%s holds no runs.", statePath)
		}
	}

	mainXs, mainYs := track(store, runID, persist.MainHalo)
	subXs, subYs := track(store, runID, persist.SubHalo)
	if len(subXs) == 0 {
		log.Fatalf("Run %s has no stored trajectory.", runID)
	}

	plt.Reset()
	plt.Figure()

	plt.Plot(subXs, subYs, "b", plt.LW(2))
	if len(mainXs) > 0 {
		plt.Plot(mainXs, mainYs, "r", plt.LW(2))
	}
	plt.Plot(subXs[:1], subYs[:1], "ob")

	plt.Title(runID)
	plt.XLabel(`$x$ [kpc]`, plt.FontSize(16))
	plt.YLabel(`$y$ [kpc]`, plt.FontSize(16))
	plt.Grid()

	plt.SaveFig(outPath)
	plt.Execute()
}

func track(store *persist.Store, runID string, halo int) (xs, ys []float64) {
	pts, err := store.Trajectory(runID, halo)
	if err != nil {
		log.Fatal(err.Error())
	}
	for _, pt := range pts {
		xs = append(xs, pt.X)
		ys = append(ys, pt.Y)
	}
	return xs, ys
}
