package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/theflywheel/ght"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a workload and append its metrics to a report",
	Long: `run inserts every key, searches every key and deletes every Nth key
across one or more workers with disjoint key ranges, verifies the table
against the expected survivors and records per-phase rates.`,
	Args: cobra.NoArgs,
	RunE: runWorkload,
}

func init() {
	f := runCmd.Flags()
	f.StringP("profile", "p", "", "YAML workload profile")
	f.StringP("out", "o", "benchmark_history/latest.json", "Report file to append to")
	f.String("name", "", "Workload name")
	f.Int("keys", 0, "Keys per worker")
	f.Int("workers", 0, "Concurrent workers (requires --sync when above 1)")
	f.Int("width", 0, "Initial bucket count")
	f.Float64("auto-resize", 0, "Load factor that triggers doubling (0 disables)")
	f.String("digestor", "", "murmur or xxhash")
	f.Int("key-width", 0, "Key width for the murmur digestor: 32 or 64")
	f.String("key-source", "", "sequential or uuid")
	f.Bool("sync", false, "Use a synchronized table")
	f.Int("delete-every", 0, "Delete every Nth key (0 keeps all)")
}

// applyFlags overrides profile fields with the flags the user actually set.
func applyFlags(cmd *cobra.Command, p *Profile) {
	f := cmd.Flags()
	if f.Changed("name") {
		p.Name, _ = f.GetString("name")
	}
	if f.Changed("keys") {
		p.Keys, _ = f.GetInt("keys")
	}
	if f.Changed("workers") {
		p.Workers, _ = f.GetInt("workers")
	}
	if f.Changed("width") {
		p.Width, _ = f.GetInt("width")
	}
	if f.Changed("auto-resize") {
		p.AutoResize, _ = f.GetFloat64("auto-resize")
	}
	if f.Changed("digestor") {
		p.Digestor, _ = f.GetString("digestor")
	}
	if f.Changed("key-width") {
		p.KeyWidth, _ = f.GetInt("key-width")
	}
	if f.Changed("key-source") {
		p.KeySource, _ = f.GetString("key-source")
	}
	if f.Changed("sync") {
		p.Synchronized, _ = f.GetBool("sync")
	}
	if f.Changed("delete-every") {
		p.DeleteEvery, _ = f.GetInt("delete-every")
	}
}

func runWorkload(cmd *cobra.Command, _ []string) error {
	logger, err := newLogger(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync()

	path, _ := cmd.Flags().GetString("profile")
	profile, err := loadProfile(path)
	if err != nil {
		return err
	}
	applyFlags(cmd, &profile)
	if err := profile.validate(); err != nil {
		return err
	}

	result, err := execute(cmd.Context(), profile, logger)
	if err != nil {
		return err
	}

	out, _ := cmd.Flags().GetString("out")
	if err := saveResult(result, out); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s: %.0f inserts/s, %.0f lookups/s, %.0f deletes/s, load %.0f, width %.0f\n",
		result.Name,
		result.Metrics["insertion_rate"],
		result.Metrics["lookup_rate"],
		result.Metrics["delete_rate"],
		result.Metrics["final_load"],
		result.Metrics["final_width"])
	fmt.Fprintf(cmd.OutOrStdout(), "Report saved to: %s\n", out)
	return nil
}

// execute builds the table described by p and drives the three workload
// phases against it.
func execute(ctx context.Context, p Profile, logger *zap.Logger) (BenchResult, error) {
	result := BenchResult{
		Name:     p.Name,
		Category: p.KeySource,
		Metrics:  make(map[string]float64),
	}

	digest, err := p.digestor()
	if err != nil {
		return result, err
	}
	cfg := ght.Config{
		Width:      p.Width,
		Digestor:   digest,
		KeyWidth:   p.keyWidth(),
		AutoResize: p.AutoResize,
		Logger:     logger.Named("table"),
	}

	var table ght.Map
	if p.Synchronized {
		table, err = ght.NewSyncFromConfig(cfg)
	} else {
		table, err = ght.NewFromConfig(cfg)
	}
	if err != nil {
		return result, err
	}
	defer table.Destroy()

	keys := make([][]ght.Slot, p.Workers)
	for w := range keys {
		keys[w] = p.workerKeys(w)
	}
	total := float64(p.Workers * p.Keys)

	logger.Info("inserting", zap.String("workload", p.Name), zap.Int("keys", p.Workers*p.Keys))
	elapsed, err := phase(ctx, keys, func(_ int, i int, k ght.Slot) error {
		return table.Insert(k, ght.Uint64(uint64(i)))
	})
	if err != nil {
		return result, err
	}
	result.Metrics["insertion_rate"] = total / elapsed.Seconds()

	logger.Info("searching", zap.Int("width", table.Width()))
	elapsed, err = phase(ctx, keys, func(w int, i int, k ght.Slot) error {
		v, ok := table.Search(k)
		if !ok {
			return fmt.Errorf("worker %d: key %#x not found", w, k.Uint64())
		}
		if v.Uint64() != uint64(i) {
			return fmt.Errorf("worker %d: key %#x holds %d, want %d", w, k.Uint64(), v.Uint64(), i)
		}
		return nil
	})
	if err != nil {
		return result, err
	}
	result.Metrics["lookup_rate"] = total / elapsed.Seconds()

	deleted := 0
	if p.DeleteEvery > 0 {
		deleted = p.Workers * ((p.Keys + p.DeleteEvery - 1) / p.DeleteEvery)
		logger.Info("deleting", zap.Int("keys", deleted))
		elapsed, err = phase(ctx, keys, func(_ int, i int, k ght.Slot) error {
			if i%p.DeleteEvery != 0 {
				return nil
			}
			return table.Delete(k)
		})
		if err != nil {
			return result, err
		}
		result.Metrics["delete_rate"] = float64(deleted) / elapsed.Seconds()
	}

	if want := p.Workers*p.Keys - deleted; table.Load() != want {
		return result, fmt.Errorf("table holds %d entries, want %d", table.Load(), want)
	}

	result.Metrics["final_load"] = float64(table.Load())
	result.Metrics["final_width"] = float64(table.Width())
	result.Metrics["load_factor"] = table.LoadFactor()
	for k, v := range memoryStats() {
		result.Metrics[k] = v
	}
	return result, nil
}

// phase runs op over every worker's keys concurrently and returns the wall
// time. A worker keeps going after a failed op so that every failure is
// reported; the failures of all workers are combined.
func phase(ctx context.Context, keys [][]ght.Slot, op func(w, i int, k ght.Slot) error) (time.Duration, error) {
	errs := make([]error, len(keys))
	g, ctx := errgroup.WithContext(ctx)

	start := time.Now()
	for w := range keys {
		g.Go(func() error {
			for i, k := range keys[w] {
				if i%4096 == 0 {
					if err := ctx.Err(); err != nil {
						return err
					}
				}
				errs[w] = multierr.Append(errs[w], op(w, i, k))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}
	elapsed := time.Since(start)

	return elapsed, multierr.Combine(errs...)
}
