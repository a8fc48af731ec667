package main

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/latticesim/internal/config"
	"github.com/san-kum/latticesim/internal/experiment"
	"github.com/san-kum/latticesim/internal/integrators"
	"github.com/san-kum/latticesim/internal/vector"
)

var (
	benchSizes       []int
	benchIntegrators []string
	benchWorkers     []int
	benchSteps       int
	benchPrecision   string
)

func newBenchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "measure steps/sec across sizes, integrators and worker counts",
		Args:  cobra.NoArgs,
		RunE:  benchLattice,
	}
	cmd.Flags().IntSliceVar(&benchSizes, "sizes", []int{16, 64, 256}, "lattice sizes")
	cmd.Flags().StringSliceVar(&benchIntegrators, "integrators", integrators.Names(), "integrators to compare")
	cmd.Flags().IntSliceVar(&benchWorkers, "workers", []int{1, runtime.NumCPU()}, "worker counts")
	cmd.Flags().IntVar(&benchSteps, "steps", 200, "steps per measurement")
	cmd.Flags().StringVar(&benchPrecision, "precision", config.DefaultPrecision, "element type (float32, float64)")
	return cmd
}

type benchRow struct {
	size, workers int
	integrator    string
	result        *experiment.Result
}

func benchLattice(cmd *cobra.Command, args []string) error {
	var rows []benchRow

	for _, n := range benchSizes {
		for _, name := range benchIntegrators {
			for _, w := range benchWorkers {
				cfg := config.DefaultConfig()
				cfg.Size = n
				cfg.Precision = benchPrecision
				cfg.Integrator = name
				cfg.Workers = w
				cfg.Steps = benchSteps
				cfg.SampleEvery = 0
				cfg.ValidateState = false
				cfg.Perturbation = config.PerturbationConfig{Kind: "random", Amplitude: 0.1, Seed: 42}

				var res *experiment.Result
				var err error
				switch benchPrecision {
				case "float64":
					res, err = benchOne[float64](cmd.Context(), cfg)
				default:
					res, err = benchOne[float32](cmd.Context(), cfg)
				}
				if err != nil {
					return err
				}
				rows = append(rows, benchRow{size: n, workers: w, integrator: name, result: res})
			}
		}
	}

	fmt.Printf("benchmarking %s lattice, %d steps each\n\n", benchPrecision, benchSteps)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SIZE\tINTEGRATOR\tWORKERS\tTIME\tSTEPS/SEC\tCELLS/SEC")
	for _, r := range rows {
		sps := r.result.StepsPerSecond()
		fmt.Fprintf(w, "%d\t%s\t%d\t%v\t%.0f\t%.3g\n",
			r.size, r.integrator, r.workers, r.result.Elapsed.Round(time.Microsecond),
			sps, sps*float64(r.size*r.size))
	}
	return w.Flush()
}

func benchOne[T vector.Float](ctx context.Context, cfg *config.Config) (*experiment.Result, error) {
	s, err := experiment.Setup[T](cfg)
	if err != nil {
		return nil, err
	}
	if ctx == nil {
		ctx = context.Background()
	}
	return experiment.NewRunnerFromConfig(s, cfg).Run(ctx, cfg.Steps, T(cfg.Dt))
}
