package report

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// PrintSummary writes a human-readable summary table of all populations to
// standard output.
func PrintSummary(summary []SummaryRow, ctx Context) {
	p := message.NewPrinter(language.English)
	fmt.Printf("--- Sampling summary (%s, %s to %s) ---\n", ctx.Method, ctx.Start, ctx.End)
	if ctx.Note != "" {
		fmt.Printf("Parameters: %s\n", ctx.Note)
	}
	fmt.Printf("Population                      | Items      | Sampled\n")
	fmt.Printf("__________                      | _____      | _______\n")
	for _, row := range summary {
		_, _ = p.Printf("%-31s | %10d | %7d\n", row.Name, row.PopulationSize, row.SampleSize)
	}
}
