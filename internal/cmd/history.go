package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/renato0307/toolprobe/internal/domain"
	"github.com/renato0307/toolprobe/internal/ports"
)

// HistoryCmd shows recorded runs, the outcomes of one run, or one unit's history
type HistoryCmd struct {
	Format string `help:"Output format: table or json" enum:"table,json" default:"table"`
	Limit  int    `help:"Maximum number of rows" default:"20"`
	RunID  string `help:"Show the unit outcomes of this run" name:"run-id" xor:"target"`
	Unit   string `help:"Show the recent outcomes of this unit" xor:"target"`
}

// Run executes the history command
func (h *HistoryCmd) Run(cli *CLI) error {
	repo, err := cli.Container.History()
	if err != nil {
		return fmt.Errorf("failed to open history: %w", err)
	}
	ctx := context.Background()

	switch {
	case h.RunID != "":
		records, err := repo.ListOutcomes(ctx, h.RunID)
		if err != nil {
			return err
		}
		return h.printOutcomes(records)
	case h.Unit != "":
		records, err := repo.UnitHistory(ctx, h.Unit, h.Limit)
		if err != nil {
			return err
		}
		return h.printOutcomes(records)
	default:
		runs, err := repo.ListRuns(ctx, h.Limit)
		if err != nil {
			return err
		}
		return h.printRuns(runs)
	}
}

func (h *HistoryCmd) printRuns(runs []ports.SuiteRun) error {
	if h.Format == "json" {
		return printJSON(runs)
	}
	if len(runs) == 0 {
		fmt.Println("No suite runs recorded yet.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RUN\tSTARTED\tDURATION\tPASSED\tFAILED\tSUITE")
	for _, r := range runs {
		duration := "running"
		if !r.FinishedAt.IsZero() {
			duration = r.FinishedAt.Sub(r.StartedAt).Round(time.Millisecond).String()
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%s\n",
			r.ID, r.StartedAt.Local().Format(time.DateTime), duration, r.Passed, r.Failed, r.SuitePath)
	}
	return w.Flush()
}

func (h *HistoryCmd) printOutcomes(records []ports.OutcomeRecord) error {
	if h.Format == "json" {
		return printJSON(records)
	}
	if len(records) == 0 {
		fmt.Println("No outcomes recorded.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "\tUNIT\tSTARTED\tDURATION\tKIND\tCAUSE")
	for _, r := range records {
		symbol := domain.SymbolPassed
		if !r.Passed {
			symbol = domain.SymbolFailed
		}
		kind := string(r.Kind)
		if kind == "" {
			kind = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			symbol, r.UnitName, r.StartedAt.Local().Format(time.DateTime),
			(time.Duration(r.DurationMillis) * time.Millisecond).String(), kind, firstLine(r.Cause))
	}
	return w.Flush()
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

func firstLine(s string) string {
	for i, r := range s {
		if r == '\n' {
			return s[:i]
		}
	}
	return s
}
