package ui

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/olekukonko/tablewriter"
)

// RunPlan holds the details of a load run to be confirmed by the user.
type RunPlan struct {
	Producers        int
	MessagesEach     int
	RatePerSecond    float64
	Burst            int
	LogFile          string
	Console          string
	EstimatedSeconds int
}

// Total returns the number of messages the plan pushes.
func (p RunPlan) Total() int {
	return p.Producers * p.MessagesEach
}

// ConfirmExecution displays the run plan on out and reads a y/N answer
// from in.
func ConfirmExecution(plan RunPlan, in io.Reader, out io.Writer) bool {
	fmt.Fprintln(out, "\n"+strings.Repeat("=", 60))
	fmt.Fprintln(out, "📈 LOAD RUN PLAN")
	fmt.Fprintln(out, strings.Repeat("=", 60))
	fmt.Fprintf(out, "🧵 Producers: %d\n", plan.Producers)
	fmt.Fprintf(out, "✉️  Messages per producer: %d (total %d)\n", plan.MessagesEach, plan.Total())
	if plan.RatePerSecond > 0 {
		fmt.Fprintf(out, "⏱️  Rate limit: %.0f msg/s shared, burst %d\n", plan.RatePerSecond, plan.Burst)
	} else {
		fmt.Fprintln(out, "⏱️  Rate limit: none")
	}
	fmt.Fprintf(out, "📄 Log file: %s\n", plan.LogFile)
	fmt.Fprintf(out, "🖥️  Console: %s\n", plan.Console)
	if plan.EstimatedSeconds > 0 {
		fmt.Fprintf(out, "⏳ Estimated time: ~%d seconds\n", plan.EstimatedSeconds)
	}
	fmt.Fprintln(out, strings.Repeat("=", 60))
	fmt.Fprint(out, "Do you want to proceed? (y/N): ")

	reader := bufio.NewReader(in)
	response, err := reader.ReadString('\n')
	if err != nil && response == "" {
		fmt.Fprintf(out, "Failed to read user input: %v\n", err)
		return false
	}
	response = strings.TrimSpace(strings.ToLower(response))

	return response == "y" || response == "yes"
}

// Summary is what a finished run reports.
type Summary struct {
	RunID          string
	Duration       string
	Pushed         uint64
	ConsoleWritten uint64
	FileWritten    uint64
	ConsoleFailed  uint64
	FileFailed     uint64
	SkippedEmpty   uint64
	Pending        int
}

// RenderSummary prints the delivery table of a run.
func RenderSummary(w io.Writer, s Summary) {
	fmt.Fprintln(w, "\n📋 Delivery Summary:")
	table := newTable(w, []string{"Field", "Value"}, tablewriter.FgHiBlueColor, tablewriter.FgCyanColor)

	rows := [][]string{
		{"Run ID", s.RunID},
		{"Duration", s.Duration},
		{"Pushed", fmt.Sprint(s.Pushed)},
		{"Console written", fmt.Sprint(s.ConsoleWritten)},
		{"File written", fmt.Sprint(s.FileWritten)},
		{"Console failures", fmt.Sprint(s.ConsoleFailed)},
		{"File failures", fmt.Sprint(s.FileFailed)},
		{"Skipped empty", fmt.Sprint(s.SkippedEmpty)},
		{"Left in queue", fmt.Sprint(s.Pending)},
	}
	for _, row := range rows {
		table.Append(row)
	}
	table.Render()
}

// RenderMetrics prints a metrics snapshot sorted by name.
func RenderMetrics(w io.Writer, snapshot map[string]float64) {
	if len(snapshot) == 0 {
		return
	}
	fmt.Fprintln(w, "\n📊 Metrics:")
	table := newTable(w, []string{"Metric", "Value"}, tablewriter.FgHiGreenColor, tablewriter.FgGreenColor)

	names := make([]string, 0, len(snapshot))
	for name := range snapshot {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		table.Append([]string{name, fmt.Sprintf("%g", snapshot[name])})
	}
	table.Render()
}

func newTable(w io.Writer, header []string, headerColor, keyColor int) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetBorder(true)
	table.SetRowLine(true)
	table.SetHeaderColor(
		tablewriter.Colors{tablewriter.Bold, headerColor},
		tablewriter.Colors{tablewriter.Bold, headerColor},
	)
	table.SetColumnColor(
		tablewriter.Colors{tablewriter.Bold, keyColor},
		tablewriter.Colors{tablewriter.Normal},
	)
	return table
}
