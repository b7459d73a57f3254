package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/anmitsu/go-shlex"
)

// ListCmd prints the units a suite registers without running anything
type ListCmd struct {
	SuiteFlags `embed:""`

	Filter string `help:"Only list units whose name or case id matches this regular expression" name:"run" short:"r" placeholder:"REGEXP"`
	Format string `help:"Output format: table or json" enum:"table,json" default:"table"`
}

type listedUnit struct {
	Args  []string `json:"args"`
	Check bool     `json:"check"`
	Dir   string   `json:"dir"`
	ID    string   `json:"id"`
	Name  string   `json:"name"`
}

// Run executes the list command. Registration problems exit with the same
// code as run so a suite can be linted in CI.
func (l *ListCmd) Run(cli *CLI) error {
	// list never invokes the tool, so a placeholder keeps a tool-less suite listable
	registry, _, _, err := buildRegistry(l.SuiteFlags, RunFlags{}, cli.loadedSettings(), cli.Container.Runner, placeholderTool)
	if err != nil {
		return err
	}

	units, err := registry.Filter(l.Filter)
	if err != nil {
		return err
	}

	listed := make([]listedUnit, 0, len(units))
	for _, u := range units {
		listed = append(listed, listedUnit{
			Args:  u.Args,
			Check: u.Case.Check != nil,
			Dir:   u.Dir,
			ID:    u.Case.ID,
			Name:  u.Name,
		})
	}

	if l.Format == "json" {
		data, err := json.MarshalIndent(listed, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "UNIT\tCASE\tCOMMAND\tCHECK\tDIR")
	for _, u := range listed {
		check := "-"
		if u.Check {
			check = "yes"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", u.Name, u.ID, quoteArgs(u.Args), check, u.Dir)
	}
	return w.Flush()
}

const placeholderTool = "<tool>"

// quoteArgs renders args so that splitting the result gives them back
func quoteArgs(args []string) string {
	quoted := make([]string, len(args))
	for i, a := range args {
		if parts, err := shlex.Split(a, true); err == nil && len(parts) == 1 && parts[0] == a {
			quoted[i] = a
			continue
		}
		quoted[i] = "'" + strings.ReplaceAll(a, "'", `'\''`) + "'"
	}
	return strings.Join(quoted, " ")
}
