package experiment

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/born-ml/recall/internal/pattern"
)

// ItemResult is the recovery of one degraded input.
type ItemResult struct {
	Name          string
	Target        pattern.Pattern
	Input         pattern.Pattern
	Output        pattern.Pattern
	InputDistance int // Hamming distance between input and target.
	Distance      int // Hamming distance between output and target.
	Recovered     bool
	Sweeps        int
	Converged     bool
	EnergyIn      float64
	EnergyOut     float64
}

// NoiseResult aggregates the trials of one noise level.
type NoiseResult struct {
	Level        float64
	Flips        int // Bits flipped per trial.
	Trials       int
	Recovered    int
	MeanDistance float64
	MeanSweeps   float64
}

// Rate returns the fraction of trials that recovered the target exactly.
func (n NoiseResult) Rate() float64 {
	if n.Trials == 0 {
		return 0
	}
	return float64(n.Recovered) / float64(n.Trials)
}

// Report summarizes one run.
type Report struct {
	ID       string
	Started  time.Time
	Duration time.Duration
	Neurons  int
	Patterns int
	Items    []ItemResult
	Noise    []NoiseResult
}

// RecoveryRate returns the fraction of degraded items recovered exactly.
func (r *Report) RecoveryRate() float64 {
	if len(r.Items) == 0 {
		return 0
	}
	n := 0
	for _, it := range r.Items {
		if it.Recovered {
			n++
		}
	}
	return float64(n) / float64(len(r.Items))
}

// WriteSummary prints a human-readable table of the report.
func (r *Report) WriteSummary(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "run %s: %d neurons, %d patterns, %s\n", r.ID, r.Neurons, r.Patterns, r.Duration.Round(time.Millisecond))

	if len(r.Items) > 0 {
		fmt.Fprintln(tw, "\nITEM\tIN DIST\tOUT DIST\tSWEEPS\tENERGY IN\tENERGY OUT\tRECOVERED")
		for _, it := range r.Items {
			fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%.1f\t%.1f\t%v\n",
				it.Name, it.InputDistance, it.Distance, it.Sweeps, it.EnergyIn, it.EnergyOut, it.Recovered)
		}
		fmt.Fprintf(tw, "recovery rate\t%.1f%%\n", 100*r.RecoveryRate())
	}

	if len(r.Noise) > 0 {
		fmt.Fprintln(tw, "\nNOISE\tFLIPS\tTRIALS\tRECOVERED\tRATE\tMEAN DIST\tMEAN SWEEPS")
		for _, n := range r.Noise {
			fmt.Fprintf(tw, "%.2f\t%d\t%d\t%d\t%.1f%%\t%.2f\t%.1f\n",
				n.Level, n.Flips, n.Trials, n.Recovered, 100*n.Rate(), n.MeanDistance, n.MeanSweeps)
		}
	}
	return tw.Flush()
}
