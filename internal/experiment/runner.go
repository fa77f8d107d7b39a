// Package experiment runs the store-and-recall workflow end to end:
// imprint clean patterns, degrade them, relax the degraded inputs and
// measure how well the originals come back.
package experiment

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/born-ml/recall/internal/network"
	"github.com/born-ml/recall/internal/noise"
	"github.com/born-ml/recall/internal/parallel"
	"github.com/born-ml/recall/internal/pattern"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/atomic"
)

// Input is what a run imprints and tests.
type Input struct {
	Items       []Item
	NoiseLevels []float64 // Bit-flip fractions to test, each in [0, 1].
	Trials      int       // Noisy trials per item and level.
	Seed        int64     // Base seed for noise injection, -1 = random.
}

// Runner drives one network through an experiment.
type Runner struct {
	Network  *network.Network
	Retrieve network.RetrieveOptions
	// Parallel spreads noise trials across goroutines. Trials only read the
	// weights, so this is safe once training has finished. A Retrieve.OnUpdate
	// hook must itself be safe for concurrent use when this is enabled.
	Parallel parallel.Config
	Logger   *slog.Logger
}

// NewRunner returns a runner with default retrieval options, sequential
// trials and a discarding logger.
func NewRunner(nw *network.Network) *Runner {
	return &Runner{
		Network:  nw,
		Retrieve: network.DefaultRetrieveOptions(),
		Parallel: parallel.Sequential(),
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// Run trains the network on every item's clean pattern, recovers every
// degraded pattern and then runs the noise trials.
func (r *Runner) Run(ctx context.Context, in Input) (*Report, error) {
	if r.Network == nil {
		return nil, errors.New("runner has no network")
	}
	if len(in.Items) == 0 {
		return nil, errors.Wrap(pattern.ErrEmptyTrainingSet, "no items to imprint")
	}
	if in.Trials < 0 {
		return nil, errors.Wrapf(pattern.ErrInvalidParameter, "trials = %d", in.Trials)
	}
	logger := r.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	report := &Report{
		ID:      uuid.New().String(),
		Started: time.Now(),
		Neurons: r.Network.Size(),
	}
	logger = logger.With("run", report.ID)

	set := make(pattern.TrainingSet, len(in.Items))
	for i, it := range in.Items {
		set[i] = it.Clean
	}
	if err := r.Network.Train(set); err != nil {
		return nil, errors.Wrap(err, "training")
	}
	report.Patterns = r.Network.Patterns()
	logger.Info("trained", "patterns", len(set), "neurons", report.Neurons, "capacity", r.Network.Capacity())

	for _, it := range in.Items {
		if it.Degraded == nil {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		res, err := r.recoverItem(it)
		if err != nil {
			return nil, err
		}
		report.Items = append(report.Items, res)
		logger.Info("recovered", "item", it.Name, "distance", res.Distance, "recovered", res.Recovered, "sweeps", res.Sweeps)
	}

	for li, level := range in.NoiseLevels {
		nr, err := r.noiseTrials(ctx, in, li, level)
		if err != nil {
			return nil, err
		}
		report.Noise = append(report.Noise, nr)
		logger.Info("noise trials", "level", level, "trials", nr.Trials, "recovered", nr.Recovered, "mean_distance", nr.MeanDistance)
	}

	report.Duration = time.Since(report.Started)
	return report, nil
}

func (r *Runner) recoverItem(it Item) (ItemResult, error) {
	res, err := r.Network.RetrieveWithOptions(it.Degraded, r.Retrieve)
	if err != nil {
		return ItemResult{}, errors.Wrapf(err, "retrieving %s", it.Name)
	}
	inDist, err := pattern.Hamming(it.Clean, it.Degraded)
	if err != nil {
		return ItemResult{}, errors.Wrapf(err, "comparing %s", it.Name)
	}
	outDist, err := pattern.Hamming(it.Clean, res.Pattern)
	if err != nil {
		return ItemResult{}, errors.Wrapf(err, "comparing %s", it.Name)
	}
	eIn, err := r.Network.Energy(it.Degraded)
	if err != nil {
		return ItemResult{}, err
	}
	eOut, err := r.Network.Energy(res.Pattern)
	if err != nil {
		return ItemResult{}, err
	}

	return ItemResult{
		Name:          it.Name,
		Target:        it.Clean,
		Input:         it.Degraded,
		Output:        res.Pattern,
		InputDistance: inDist,
		Distance:      outDist,
		Recovered:     outDist == 0,
		Sweeps:        res.Sweeps,
		Converged:     res.Converged,
		EnergyIn:      eIn,
		EnergyOut:     eOut,
	}, nil
}

func (r *Runner) noiseTrials(ctx context.Context, in Input, levelIndex int, level float64) (NoiseResult, error) {
	total := in.Trials * len(in.Items)
	var (
		recovered = atomic.NewInt64(0)
		distance  = atomic.NewInt64(0)
		sweeps    = atomic.NewInt64(0)
		failed    = atomic.NewError(nil)
	)

	parallel.For(total, func(t int) {
		if ctx.Err() != nil || failed.Load() != nil {
			return
		}
		it := in.Items[t%len(in.Items)]

		seed := int64(-1)
		if in.Seed >= 0 {
			seed = in.Seed + int64(levelIndex*total+t)
		}
		noisy, err := noise.New(seed).Inject(it.Clean, level)
		if err != nil {
			failed.Store(err)
			return
		}
		res, err := r.Network.RetrieveWithOptions(noisy, r.Retrieve)
		if err != nil {
			failed.Store(err)
			return
		}
		d, _ := pattern.Hamming(it.Clean, res.Pattern)
		if d == 0 {
			recovered.Inc()
		}
		distance.Add(int64(d))
		sweeps.Add(int64(res.Sweeps))
	}, r.Parallel)

	if err := failed.Load(); err != nil {
		return NoiseResult{}, errors.Wrapf(err, "noise level %v", level)
	}
	if err := ctx.Err(); err != nil {
		return NoiseResult{}, err
	}

	nr := NoiseResult{
		Level:     level,
		Flips:     noise.Flips(r.Network.Size(), level),
		Trials:    total,
		Recovered: int(recovered.Load()),
	}
	if total > 0 {
		nr.MeanDistance = float64(distance.Load()) / float64(total)
		nr.MeanSweeps = float64(sweeps.Load()) / float64(total)
	}
	return nr, nil
}
