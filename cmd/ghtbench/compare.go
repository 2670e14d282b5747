package main

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// significanceThreshold is the percent change at which a metric difference
// counts as significant.
const significanceThreshold = 5.0

// errRegression is returned by compare when a significant regression is
// found, so the process exits non-zero.
var errRegression = errors.New("significant performance regressions detected")

// MetricComparison is the change of one metric between two reports.
type MetricComparison struct {
	Name          string  `json:"name"`
	BaseValue     float64 `json:"base_value"`
	CurrentValue  float64 `json:"current_value"`
	PercentChange float64 `json:"percent_change"`
	IsRegression  bool    `json:"is_regression"`
	IsImprovement bool    `json:"is_improvement"`
	IsSignificant bool    `json:"is_significant"`
}

// BenchmarkComparison groups the metric changes of one workload.
type BenchmarkComparison struct {
	Name              string             `json:"name"`
	Category          string             `json:"category"`
	MetricComparisons []MetricComparison `json:"metric_comparisons"`
	OverallAssessment string             `json:"overall_assessment"`
	HasRegressions    bool               `json:"has_regressions"`
	Score             float64            `json:"score"`
}

// ComparisonSummary is the full result of comparing two reports.
type ComparisonSummary struct {
	BaseCommit           string                `json:"base_commit"`
	CurrentCommit        string                `json:"current_commit"`
	TotalBenchmarks      int                   `json:"total_benchmarks"`
	ImprovedBenchmarks   int                   `json:"improved_benchmarks"`
	RegressionBenchmarks int                   `json:"regression_benchmarks"`
	BenchmarkComparisons []BenchmarkComparison `json:"benchmark_comparisons"`
}

var compareCmd = &cobra.Command{
	Use:   "compare BASE CURRENT",
	Short: "Compare two workload reports",
	Args:  cobra.ExactArgs(2),
	RunE:  runCompare,
}

func init() {
	compareCmd.Flags().StringP("out", "o", "benchmark-comparison.json", "Where to write the JSON comparison")
}

func runCompare(cmd *cobra.Command, args []string) error {
	base, err := readSummary(args[0])
	if err != nil {
		return err
	}
	current, err := readSummary(args[1])
	if err != nil {
		return err
	}

	summary := compareSummaries(base, current)
	printComparisonSummary(cmd.OutOrStdout(), summary)

	out, _ := cmd.Flags().GetString("out")
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to marshal comparison")
	}
	if err := os.WriteFile(out, data, 0644); err != nil {
		return errors.Wrap(err, "failed to write comparison")
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Comparison JSON written to %s\n", out)

	if summary.RegressionBenchmarks > 0 {
		return errors.Wrapf(errRegression, "%d workloads", summary.RegressionBenchmarks)
	}
	return nil
}

// compareSummaries matches results by name and compares every metric both
// sides report. Workloads missing from base are skipped.
func compareSummaries(base, current BenchSummary) ComparisonSummary {
	baseResults := make(map[string]BenchResult, len(base.Results))
	for _, r := range base.Results {
		baseResults[r.Name] = r
	}

	summary := ComparisonSummary{
		BaseCommit:    base.CommitID,
		CurrentCommit: current.CommitID,
	}

	for _, cur := range current.Results {
		prev, found := baseResults[cur.Name]
		if !found {
			continue
		}

		comp := BenchmarkComparison{Name: cur.Name, Category: cur.Category}
		score := 0.0

		for name, value := range cur.Metrics {
			baseValue, found := prev.Metrics[name]
			if !found {
				continue
			}
			mc := compareMetric(name, baseValue, value)
			if mc.IsRegression && mc.IsSignificant {
				comp.HasRegressions = true
			}
			if mc.IsImprovement {
				score += math.Abs(mc.PercentChange)
			} else if mc.IsRegression {
				score -= math.Abs(mc.PercentChange)
			}
			comp.MetricComparisons = append(comp.MetricComparisons, mc)
		}
		if n := len(comp.MetricComparisons); n > 0 {
			comp.Score = score / float64(n)
		}

		switch {
		case comp.HasRegressions:
			comp.OverallAssessment = "REGRESSION"
			summary.RegressionBenchmarks++
		case comp.Score > 0:
			comp.OverallAssessment = "IMPROVEMENT"
			summary.ImprovedBenchmarks++
		default:
			comp.OverallAssessment = "NEUTRAL"
		}
		summary.BenchmarkComparisons = append(summary.BenchmarkComparisons, comp)
	}

	// Worst first: regressions, then by ascending score.
	sort.Slice(summary.BenchmarkComparisons, func(i, j int) bool {
		a, b := summary.BenchmarkComparisons[i], summary.BenchmarkComparisons[j]
		if a.HasRegressions != b.HasRegressions {
			return a.HasRegressions
		}
		return a.Score < b.Score
	})
	summary.TotalBenchmarks = len(summary.BenchmarkComparisons)
	return summary
}

func compareMetric(name string, base, current float64) MetricComparison {
	mc := MetricComparison{Name: name, BaseValue: base, CurrentValue: current}
	if base != 0 {
		mc.PercentChange = (current - base) / base * 100
	}

	if isHigherBetterMetric(name) {
		mc.IsRegression = mc.PercentChange < 0
		mc.IsImprovement = mc.PercentChange > 0
	} else {
		mc.IsRegression = mc.PercentChange > 0
		mc.IsImprovement = mc.PercentChange < 0
	}
	mc.IsSignificant = math.Abs(mc.PercentChange) >= significanceThreshold
	return mc
}

// isHigherBetterMetric reports whether a larger value of the metric is an
// improvement. Rates are; memory, widths and load factors are not.
func isHigherBetterMetric(name string) bool {
	return strings.HasSuffix(name, "_rate") || strings.Contains(name, "throughput")
}

func printComparisonSummary(w io.Writer, summary ComparisonSummary) {
	fmt.Fprintf(w, "Benchmark Comparison: %s vs %s\n\n",
		truncate(summary.BaseCommit, 8), truncate(summary.CurrentCommit, 8))
	fmt.Fprintf(w, "- Total workloads compared: %d\n", summary.TotalBenchmarks)
	fmt.Fprintf(w, "- Improvements: %d\n", summary.ImprovedBenchmarks)
	fmt.Fprintf(w, "- Regressions: %d\n\n", summary.RegressionBenchmarks)

	if summary.TotalBenchmarks == 0 {
		fmt.Fprintln(w, "No matching workloads found for comparison")
		return
	}

	for _, comp := range summary.BenchmarkComparisons {
		fmt.Fprintf(w, "%s %s (%s):\n", comp.OverallAssessment, comp.Name, comp.Category)

		metrics := comp.MetricComparisons
		sort.Slice(metrics, func(i, j int) bool {
			return math.Abs(metrics[i].PercentChange) > math.Abs(metrics[j].PercentChange)
		})
		for _, m := range metrics {
			if m.PercentChange == 0 {
				continue
			}
			marker := " "
			if m.IsSignificant && m.IsRegression {
				marker = "▼"
			} else if m.IsSignificant && m.IsImprovement {
				marker = "▲"
			}
			fmt.Fprintf(w, "  %s %-20s: %+8.2f%% (%g → %g)\n",
				marker, m.Name, m.PercentChange, m.BaseValue, m.CurrentValue)
		}
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
