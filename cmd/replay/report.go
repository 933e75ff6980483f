package main

import (
	"io"
	"strconv"
	"strings"

	"github.com/gookit/color"
	"github.com/olekukonko/tablewriter"
)

// Report prints one row per scenario and returns the number of failures.
func Report(out io.Writer, results []Result) int {
	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"Scenario", "Violations", "Deleted", "Judge calls", "Result"})
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)

	failed := 0
	for _, r := range results {
		status := color.Green.Sprint("PASS")
		if len(r.Failures) > 0 {
			failed++
			status = color.Red.Sprint("FAIL: " + strings.Join(r.Failures, "; "))
		}
		table.Append([]string{
			r.Scenario.Name,
			strconv.Itoa(r.Outcome.Violations),
			strconv.Itoa(r.Outcome.Deleted),
			strconv.Itoa(r.Outcome.JudgeCalls),
			status,
		})
	}
	table.Render()
	return failed
}
