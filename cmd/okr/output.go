package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"okr/internal/modules/okr/dto"
)

const barWidth = 30

func printObjectiveLine(cmd *cobra.Command, o dto.ObjectiveOutput) {
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%4d%%\t%-12s\t%-11s\t%s\n", o.ID, o.Progress, o.Status, categoryLabel(o.Category), o.Title)
}

func printObjectiveDetail(cmd *cobra.Command, o dto.ObjectiveOutput) {
	w := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(w, "id: %s\ntitle: %s\ncategory: %s\n", o.ID, o.Title, categoryLabel(o.Category))
	if o.Description != "" {
		_, _ = fmt.Fprintf(w, "description: %s\n", o.Description)
	}
	if o.Timeframe != "" {
		_, _ = fmt.Fprintf(w, "timeframe: %s\n", o.Timeframe)
	}
	_, _ = fmt.Fprintf(w, "dates: %s..%s\nprogress: %d%% (%s)\n", dash(o.StartDate), dash(o.EndDate), o.Progress, o.Status)
	if len(o.KeyResults) == 0 {
		_, _ = fmt.Fprintln(w, "key results: none")
		return
	}
	_, _ = fmt.Fprintln(w, "key results:")
	for _, k := range o.KeyResults {
		mark := " "
		if k.Done {
			mark = "x"
		}
		_, _ = fmt.Fprintf(w, "  [%s] %s %s %s/%s %d%% %s\n", mark, k.ID, k.Title, formatNumber(k.Current), formatNumber(k.Target), k.Progress, k.Status)
		for _, h := range k.Recent {
			_, _ = fmt.Fprintf(w, "        %s %s\n", h.Date, formatNumber(h.Value))
		}
	}
}

func printDashboard(cmd *cobra.Command, board dto.DashboardOutput) {
	w := cmd.OutOrStdout()
	if board.Warning != "" {
		_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "warning: "+board.Warning)
	}
	f := board.Filter
	_, _ = fmt.Fprintf(w, "filter: search=%q category=%s status=%s range=%s..%s\n", f.Search, f.Category, f.Status, dash(f.From), dash(f.To))
	s := board.Summary
	_, _ = fmt.Fprintf(w, "showing %d of %d objectives, average %d%%\n", s.Total, board.TotalCount, s.AverageProgress)
	if len(board.Objectives) == 0 {
		_, _ = fmt.Fprintln(w, "no objectives match")
		return
	}
	_, _ = fmt.Fprintln(w)
	for _, o := range board.Objectives {
		printObjectiveLine(cmd, o)
	}
	_, _ = fmt.Fprintln(w)
	for _, entry := range board.Chart {
		_, _ = fmt.Fprintf(w, "%-23s %s %d%%\n", entry.Label, bar(entry.Progress), entry.Progress)
	}
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintf(w, "by status: %s\n", joinCounts(s.ByStatus))
	_, _ = fmt.Fprintf(w, "by category: %s\n", joinCounts(s.ByCategory))
}

// bar scales progress to barWidth, capping the filled part at 100%.
func bar(progress int) string {
	filled := min(max(progress, 0), 100) * barWidth / 100
	out := strings.Repeat("#", filled) + strings.Repeat(".", barWidth-filled)
	if progress > 100 {
		out += "+"
	}
	return out
}

func joinCounts(counts map[string]int) string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%d", k, counts[k]))
	}
	return strings.Join(parts, " ")
}

func categoryLabel(category string) string {
	if category == "" {
		return "Uncategorized"
	}
	return category
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
