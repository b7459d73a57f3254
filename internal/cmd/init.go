package cmd

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
)

//go:embed example_suite.yaml
var exampleSuite []byte

// InitCmd writes an example suite file to start from
type InitCmd struct {
	Edit   bool   `help:"Open the new suite file in an editor"`
	Editor string `help:"Editor to use with --edit (default: $TOOLPROBE_EDITOR, $VISUAL, $EDITOR)"`
	Force  bool   `help:"Overwrite an existing file"`
	Path   string `arg:"" help:"Where to write the suite file" default:"toolprobe.yaml" type:"path"`
}

// Run executes the init command
func (i *InitCmd) Run(cli *CLI) error {
	if _, err := os.Stat(i.Path); err == nil && !i.Force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", i.Path)
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to check %s: %w", i.Path, err)
	}

	if err := os.WriteFile(i.Path, exampleSuite, 0644); err != nil {
		return fmt.Errorf("failed to write suite file: %w", err)
	}

	fmt.Printf("Wrote %s\n", i.Path)
	if i.Edit {
		return cli.Container.Editor.Open(i.Path, i.Editor)
	}
	fmt.Printf("Edit the tool and cases, then run: toolprobe run %s\n", i.Path)
	return nil
}
