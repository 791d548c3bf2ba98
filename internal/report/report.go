// Package report renders the per-sensitivity results tables and the
// final suggestion.
package report

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/okian/senstune/internal/domain/advisor"
	"github.com/okian/senstune/internal/domain/model"
	"github.com/okian/senstune/internal/domain/stats"
)

// undefinedCell is printed where a statistic has no data.
const undefinedCell = "n/a"

// tabwriter layout.
const (
	colMinWidth = 8
	colPadding  = 2
)

// Render writes the results tables for the accumulated buckets. With a
// single bucket it appends the advisor's adjustment suggestion; with
// several it reports the sensitivity with the lowest p95 radial error.
// deviceScale (mouse DPI) is optional; when positive, a derived
// deviceScale × sensitivity column is included.
func Render(w io.Writer, buckets map[float64]*model.SensitivityBucket, deviceScale float64) error {
	if len(buckets) == 0 {
		_, err := fmt.Fprintln(w, "No data analyzed.")
		return err
	}

	keys := make([]float64, 0, len(buckets))
	summaries := make(map[float64]stats.Summary, len(buckets))
	for sens, b := range buckets {
		keys = append(keys, sens)
		summaries[sens] = stats.Summarize(b.Radial)
	}
	sort.Float64s(keys)

	if err := renderErrorTable(w, keys, summaries, deviceScale); err != nil {
		return err
	}
	if err := renderBiasTable(w, keys, buckets); err != nil {
		return err
	}

	if len(keys) == 1 {
		return renderAdvice(w, advisor.Advise(keys[0], buckets[keys[0]].Bias))
	}
	return renderBest(w, summaries, deviceScale)
}

func renderErrorTable(w io.Writer, keys []float64, summaries map[float64]stats.Summary, deviceScale float64) error {
	fmt.Fprintln(w, "=== Placement error by sensitivity (position units) ===")
	tw := tabwriter.NewWriter(w, colMinWidth, 0, colPadding, ' ', 0)
	if deviceScale > 0 {
		fmt.Fprintln(tw, "Sens\tSamples\tMean\tMedian\tP95\teDPI")
	} else {
		fmt.Fprintln(tw, "Sens\tSamples\tMean\tMedian\tP95")
	}
	for _, sens := range keys {
		sum := summaries[sens]
		if deviceScale > 0 {
			fmt.Fprintf(tw, "%.3f\t%d\t%s\t%s\t%s\t%.1f\n",
				sens, sum.Count, cell(sum.Mean), cell(sum.Median), cell(sum.P95), deviceScale*sens)
		} else {
			fmt.Fprintf(tw, "%.3f\t%d\t%s\t%s\t%s\n",
				sens, sum.Count, cell(sum.Mean), cell(sum.Median), cell(sum.P95))
		}
	}
	return tw.Flush()
}

func renderBiasTable(w io.Writer, keys []float64, buckets map[float64]*model.SensitivityBucket) error {
	fmt.Fprintln(w, "\n=== Directional bias by sensitivity ===")
	tw := tabwriter.NewWriter(w, colMinWidth, 0, colPadding, ' ', 0)
	fmt.Fprintln(tw, "Sens\tSamples\tMeanBias%\tVerdict")
	for _, sens := range keys {
		bias := buckets[sens].Bias
		adv := advisor.Advise(sens, bias)
		fmt.Fprintf(tw, "%.3f\t%d\t%s\t%s\n",
			sens, len(bias), pctCell(adv.MeanBias), adv.Verdict)
	}
	return tw.Flush()
}

func renderAdvice(w io.Writer, adv advisor.Advice) error {
	fmt.Fprintln(w)
	switch adv.Verdict {
	case advisor.VerdictInsufficient:
		_, err := fmt.Fprintln(w, ">>> Insufficient directional data to suggest an adjustment.")
		return err
	case advisor.VerdictBalanced:
		_, err := fmt.Fprintf(w, ">>> Sensitivity %.3f looks balanced; no change suggested.\n", adv.Sensitivity)
		return err
	default:
		_, err := fmt.Fprintf(w, ">>> %s: try %.3f (%+.1f%% from %.3f)\n",
			adv.Verdict, adv.Suggested.Value, adv.ChangePct.Value, adv.Sensitivity)
		return err
	}
}

func renderBest(w io.Writer, summaries map[float64]stats.Summary, deviceScale float64) error {
	best, ok := advisor.BestSensitivity(summaries)
	if !ok {
		_, err := fmt.Fprintln(w, "\nCould not determine an optimal sensitivity (not enough data).")
		return err
	}
	if deviceScale > 0 {
		_, err := fmt.Fprintf(w, "\n>>> Optimal sensitivity (lowest P95 error): %.3f (eDPI %.1f)\n",
			best, deviceScale*best)
		return err
	}
	_, err := fmt.Fprintf(w, "\n>>> Optimal sensitivity (lowest P95 error): %.3f\n", best)
	return err
}

// cell formats a statistic, printing the undefined sentinel when the
// bucket had no samples.
func cell(s stats.Stat) string {
	if !s.Valid {
		return undefinedCell
	}
	return fmt.Sprintf("%.2f", s.Value)
}

// pctCell formats a bias statistic as a percentage.
func pctCell(s stats.Stat) string {
	if !s.Valid {
		return undefinedCell
	}
	return fmt.Sprintf("%+.2f", s.Value*100)
}
