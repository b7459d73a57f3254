package sound

import (
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/renato0307/toolprobe/internal/logging"
	"github.com/renato0307/toolprobe/internal/ports"
)

// Event names a sound
type Event string

const (
	EventPassed Event = "passed"
	EventFailed Event = "failed"
)

// Player implements ports.SoundPlayer
type Player struct {
	commands func(Event) [][]string
	out      io.Writer
}

// Compile-time interface verification
var _ ports.SoundPlayer = (*Player)(nil)

// NewPlayer creates a new sound player using the platform's audio commands
func NewPlayer() *Player {
	return &Player{
		commands: soundCommands,
		out:      os.Stderr,
	}
}

// PlaySuiteFinished plays a completion or failure sound. When no audio
// command works it rings the terminal bell instead.
func (p *Player) PlaySuiteFinished(passed bool) error {
	event := EventPassed
	if !passed {
		event = EventFailed
	}
	return p.PlaySoundForEvent(event)
}

// PlaySoundForEvent plays the first sound command for event that runs
// successfully. Platform-specific commands are in player_*.go files.
func (p *Player) PlaySoundForEvent(event Event) error {
	for _, argv := range p.commands(event) {
		if len(argv) == 0 {
			continue
		}
		err := exec.Command(argv[0], argv[1:]...).Run()
		if err == nil {
			return nil
		}
		logging.Logger.Debug("Sound command failed", "command", argv, "error", err)
	}
	return p.terminalBell()
}

// terminalBell outputs a terminal bell character as fallback
func (p *Player) terminalBell() error {
	_, err := fmt.Fprint(p.out, "\a")
	return err
}
