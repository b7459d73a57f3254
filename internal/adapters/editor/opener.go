package editor

import (
	"errors"
	"fmt"
	"os"
	"os/exec"

	"github.com/anmitsu/go-shlex"

	"github.com/renato0307/toolprobe/internal/logging"
	"github.com/renato0307/toolprobe/internal/ports"
)

// Opener implements ports.EditorOpener
type Opener struct{}

// Compile-time interface verification
var _ ports.EditorOpener = (*Opener)(nil)

// NewOpener creates a new editor opener
func NewOpener() *Opener {
	return &Opener{}
}

// Open opens path in an editor attached to the terminal and waits for it.
// Priority: cliEditor → $TOOLPROBE_EDITOR → $VISUAL → $EDITOR → platform defaults
func (o *Opener) Open(path string, cliEditor string) error {
	if path == "" {
		return errors.New("no path provided")
	}
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("path does not exist: %w", err)
	}

	editor := findEditor(cliEditor)
	if editor == "" {
		return errors.New("no suitable editor found. Set --editor, $TOOLPROBE_EDITOR, $VISUAL, or $EDITOR")
	}

	// Values like "code --wait" carry their own arguments
	parts, err := shlex.Split(editor, true)
	if err != nil || len(parts) == 0 {
		return fmt.Errorf("cannot parse editor command %q", editor)
	}

	logging.Logger.Info("Opening editor", "editor", editor, "path", path)

	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		logging.Logger.Warn("Editor exited with error", "error", err, "editor", editor)
		return fmt.Errorf("editor %s failed: %w", parts[0], err)
	}
	return nil
}

func findEditor(cliEditor string) string {
	// 1. CLI flag takes precedence
	if cliEditor != "" {
		return cliEditor
	}

	// 2. Environment, most specific first
	for _, key := range []string{"TOOLPROBE_EDITOR", "VISUAL", "EDITOR"} {
		if editor := os.Getenv(key); editor != "" {
			return editor
		}
	}

	// 3. Platform-specific defaults
	for _, editor := range defaultEditors {
		if _, err := exec.LookPath(editor); err == nil {
			return editor
		}
	}
	return ""
}
