package pipeline

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
)

// WriteSummary renders the collected entries of stats as a table.
func WriteSummary(w io.Writer, stats Stats) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"#", "Hostname", "IPv4", "IPv6", "Status"})

	for i, entry := range stats.Entries {
		t.AppendRow(table.Row{
			i + 1,
			entry.Hostname,
			strings.Join(entry.Result.IPv4, "\n"),
			strings.Join(entry.Result.IPv6, "\n"),
			entryStatus(entry),
		})
	}

	t.AppendFooter(table.Row{"", "Total", stats.Lines, "", formatTotals(stats)})
	t.Render()
}

func entryStatus(entry Entry) string {
	if entry.Hostname == "" {
		return "blank"
	}
	return "A: " + entry.Result.IPv4Status.String() + ", AAAA: " + entry.Result.IPv6Status.String()
}

func formatTotals(stats Stats) string {
	return fmt.Sprintf("resolved %d, empty %d", stats.Resolved, stats.Empty)
}
