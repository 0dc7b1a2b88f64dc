package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/tempo/internal/service"
)

// Overview renders a task detail block.
func Overview(o *service.TaskOverview) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s  %s\n", StyleHeader.Render(o.Task.Title), StatusIndicator(o.Status))
	fmt.Fprintf(&b, "  %s %s", Dim("id:"), shortID(o.Task.ID))
	if o.Task.ParentID != nil {
		fmt.Fprintf(&b, "  %s %s", Dim("parent:"), shortID(*o.Task.ParentID))
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "  %s %s total, %s direct\n",
		Dim("time:"), StyleBold.Render(Seconds(o.Stats.TotalSeconds)), Seconds(o.Stats.DirectSeconds))
	if o.Stats.HasMultiPerson {
		fmt.Fprintf(&b, "  %s %s total, %s direct\n",
			Dim("effort:"), PersonHours(o.Stats.TotalPersonHours), PersonHours(o.Stats.DirectPersonHours))
	}

	if v := o.Variance; v != nil {
		line := fmt.Sprintf("%s of %s", Pct(v.ProgressPct), Seconds(v.EstimatedSeconds))
		if v.OverSeconds > 0 {
			line += StyleRed.Render(fmt.Sprintf(" (+%s over)", Seconds(v.OverSeconds)))
		} else {
			line += Dim(fmt.Sprintf(" (%s left)", Seconds(v.RemainingSeconds)))
		}
		fmt.Fprintf(&b, "  %s %s\n", Dim("estimate:"), line)
	}

	if len(o.BlockingDependencies) > 0 {
		var names []string
		for _, dep := range o.BlockingDependencies {
			names = append(names, dep.Title)
		}
		fmt.Fprintf(&b, "  %s %s\n", Dim("blocked by:"), StyleRed.Render(strings.Join(names, ", ")))
	}
	if len(o.BlockingFromSubtasks) > 0 {
		var names []string
		for _, dep := range o.BlockingFromSubtasks {
			names = append(names, dep.Title)
		}
		fmt.Fprintf(&b, "  %s %s\n", Dim("subtasks wait on:"), strings.Join(names, ", "))
	}

	return b.String()
}

// Report renders one row per top-level task.
func Report(rows []*service.TaskOverview) string {
	if len(rows) == 0 {
		return Dim("no tasks") + "\n"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", StyleHeader.Render(fmt.Sprintf("%-30s %-14s %10s %10s", "TASK", "STATUS", "TOTAL", "EFFORT")))
	for _, o := range rows {
		fmt.Fprintf(&b, "%-30s %-14s %10s %10s\n",
			truncate(o.Task.Title, 30),
			string(o.Status),
			Seconds(o.Stats.TotalSeconds),
			PersonHours(o.Stats.TotalPersonHours),
		)
	}
	return b.String()
}

func shortID(id string) string {
	if len(id) >= 8 {
		return id[:8]
	}
	return id
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 1 {
		return s[:n]
	}
	return s[:n-1] + "…"
}
