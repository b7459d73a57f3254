//go:build !darwin && !linux

package sound

// soundCommands has nothing to offer on other platforms; the bell is used
func soundCommands(Event) [][]string {
	return nil
}
