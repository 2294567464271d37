// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/verte-zerg/symdrill/internal/errmodel"
	"github.com/verte-zerg/symdrill/internal/model"
)

const sparkChars = " .:-=+*#%@"

// SessionMetrics computes WPM, CPM, and accuracy for a round.
func SessionMetrics(correct, incorrect int, durationMs int64) (wpm, cpm, accuracy float64) {
	if durationMs <= 0 {
		return 0, 0, 0
	}
	minutes := float64(durationMs) / 60000.0
	wpm = (float64(correct) / 5.0) / minutes
	cpm = float64(correct) / minutes
	den := float64(correct + incorrect)
	if den > 0 {
		accuracy = float64(correct) / den
	}
	return wpm, cpm, accuracy
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	if window <= 1 {
		copy(out, values)
		return out
	}
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal, maxVal := minMax(values)
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		idx = max(0, min(idx, len(sparkChars)-1))
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

func minMax(values []float64) (float64, float64) {
	minVal, maxVal := values[0], values[0]
	for _, v := range values[1:] {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}
	return minVal, maxVal
}

// RenderSummary prints a summary for rounds.
func RenderSummary(w io.Writer, sessions []model.SessionAggregate) error {
	if len(sessions) == 0 {
		_, err := fmt.Fprintln(w, "No rounds found.")
		return err
	}
	var totalWPM, totalCPM, totalAcc float64
	bestWPM := 0.0
	for _, s := range sessions {
		wpm, cpm, acc := SessionMetrics(s.Correct, s.Incorrect, s.DurationMs)
		totalWPM += wpm
		totalCPM += cpm
		totalAcc += acc
		bestWPM = math.Max(bestWPM, wpm)
	}
	count := float64(len(sessions))
	lines := []string{
		"Summary",
		fmt.Sprintf("Rounds: %d", len(sessions)),
		fmt.Sprintf("Avg WPM: %.2f", totalWPM/count),
		fmt.Sprintf("Best WPM: %.2f", bestWPM),
		fmt.Sprintf("Avg CPM: %.2f", totalCPM/count),
		fmt.Sprintf("Avg Accuracy: %.2f%%", (totalAcc/count)*100),
		"",
	}
	return writeLines(w, lines)
}

// RenderCurves prints WPM and accuracy sparklines, at most width points wide.
// A non-positive width keeps every round.
func RenderCurves(w io.Writer, sessions []model.SessionAggregate, window, width int) error {
	if len(sessions) == 0 {
		return nil
	}
	wpms := make([]float64, len(sessions))
	accs := make([]float64, len(sessions))
	for i, s := range sessions {
		wpm, _, acc := SessionMetrics(s.Correct, s.Incorrect, s.DurationMs)
		wpms[i] = wpm
		accs[i] = acc * 100
	}
	wpms = tail(MovingAverage(wpms, window), width)
	accs = tail(MovingAverage(accs, window), width)

	lines := []string{fmt.Sprintf("Learning Curves (window %d)", window)}
	for _, s := range []struct {
		name   string
		values []float64
		unit   string
	}{
		{"WPM", wpms, ""},
		{"Accuracy", accs, "%"},
	} {
		lo, hi := minMax(s.values)
		lines = append(lines, fmt.Sprintf("%-8s %s  %.1f%s..%.1f%s", s.name, Sparkline(s.values), lo, s.unit, hi, s.unit))
	}
	lines = append(lines, "")
	return writeLines(w, lines)
}

func tail(values []float64, n int) []float64 {
	if n <= 0 || len(values) <= n {
		return values
	}
	return values[len(values)-n:]
}

// CharRow is one line of the per-character table.
type CharRow struct {
	Char       string
	Accuracy   float64
	LatencyMs  float64
	Correct    int
	Incorrect  int
	ErrorScore int
}

// CharRows joins round aggregates with current error scores, sorted by lowest
// accuracy. A nil model leaves scores at zero.
func CharRows(aggs []model.CharAggregate, scores *errmodel.Model) []CharRow {
	rows := make([]CharRow, 0, len(aggs))
	for _, agg := range aggs {
		row := CharRow{
			Char:      agg.Char,
			Correct:   agg.Correct,
			Incorrect: agg.Incorrect,
		}
		if total := agg.Correct + agg.Incorrect; total > 0 {
			row.Accuracy = float64(agg.Correct) / float64(total)
		}
		if agg.LatencyCount > 0 {
			row.LatencyMs = float64(agg.LatencySumMs) / float64(agg.LatencyCount)
		}
		if r := []rune(agg.Char); scores != nil && len(r) == 1 {
			row.ErrorScore = scores.ScoreFor(r[0])
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Accuracy == rows[j].Accuracy {
			return rows[i].Char < rows[j].Char
		}
		return rows[i].Accuracy < rows[j].Accuracy
	})
	return rows
}

// RenderCharTable prints per-character aggregates.
func RenderCharTable(w io.Writer, aggs []model.CharAggregate, scores *errmodel.Model) error {
	if len(aggs) == 0 {
		_, err := fmt.Fprintln(w, "No character stats found.")
		return err
	}
	headers := []string{"Char", "Accuracy", "Avg Latency (ms)", "Correct", "Incorrect", "Error Score"}
	tableRows := make([][]string, 0, len(aggs))
	for _, r := range CharRows(aggs, scores) {
		tableRows = append(tableRows, []string{
			r.Char,
			fmt.Sprintf("%.2f%%", r.Accuracy*100),
			fmt.Sprintf("%.1f", r.LatencyMs),
			fmt.Sprintf("%d", r.Correct),
			fmt.Sprintf("%d", r.Incorrect),
			fmt.Sprintf("%d", r.ErrorScore),
		})
	}
	rightAlign := map[int]bool{1: true, 2: true, 3: true, 4: true, 5: true}
	lines := append([]string{"Per-Character (Windowed)"}, formatTable(headers, tableRows, rightAlign)...)
	return writeLines(w, append(lines, ""))
}

// RenderPairTable prints confusion pairs ranked by tier, at most limit rows.
// A non-positive limit prints all of them.
func RenderPairTable(w io.Writer, pairs []errmodel.PairStat, limit int) error {
	if len(pairs) == 0 {
		_, err := fmt.Fprintln(w, "No mistakes recorded.")
		return err
	}
	if limit > 0 && len(pairs) > limit {
		pairs = pairs[:limit]
	}
	rows := make([][]string, 0, len(pairs))
	for _, p := range pairs {
		rows = append(rows, []string{p.Pair.Key(), fmt.Sprintf("%d", p.Tier), fmt.Sprintf("%d", p.Count)})
	}
	lines := append([]string{"Confusions"}, formatTable([]string{"Pair", "Tier", "Count"}, rows, map[int]bool{1: true, 2: true})...)
	return writeLines(w, append(lines, ""))
}

func writeLines(w io.Writer, lines []string) error {
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
