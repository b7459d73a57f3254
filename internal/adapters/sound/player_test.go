//go:build !windows

package sound

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlaySuiteFinished(t *testing.T) {
	tests := []struct {
		name      string
		passed    bool
		commands  [][]string
		wantEvent Event
		wantBell  bool
	}{
		{
			name:      "passing suite plays completion sound",
			passed:    true,
			commands:  [][]string{{"true"}},
			wantEvent: EventPassed,
		},
		{
			name:      "failing suite plays failure sound",
			passed:    false,
			commands:  [][]string{{"true"}},
			wantEvent: EventFailed,
		},
		{
			name:      "falls through to the next command",
			passed:    true,
			commands:  [][]string{{"/nonexistent/player"}, {"false"}, {"true"}},
			wantEvent: EventPassed,
		},
		{
			name:      "bell when nothing works",
			passed:    false,
			commands:  [][]string{{"/nonexistent/player"}, {}},
			wantEvent: EventFailed,
			wantBell:  true,
		},
		{
			name:      "bell without commands",
			passed:    true,
			wantEvent: EventPassed,
			wantBell:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			var got Event
			p := &Player{
				commands: func(e Event) [][]string {
					got = e
					return tt.commands
				},
				out: &out,
			}

			require.NoError(t, p.PlaySuiteFinished(tt.passed))

			assert.Equal(t, tt.wantEvent, got)
			if tt.wantBell {
				assert.Equal(t, "\a", out.String())
			} else {
				assert.Empty(t, out.String())
			}
		})
	}
}

func TestSoundCommands_FailedDiffersFromPassed(t *testing.T) {
	passed := soundCommands(EventPassed)
	failed := soundCommands(EventFailed)
	if len(passed) == 0 {
		t.Skip("no audio commands on this platform")
	}
	assert.NotEqual(t, passed, failed)
}
