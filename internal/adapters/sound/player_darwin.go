//go:build darwin

package sound

// soundCommands plays sounds on macOS using afplay
func soundCommands(event Event) [][]string {
	switch event {
	case EventFailed:
		return [][]string{
			{"afplay", "/System/Library/Sounds/Basso.aiff"},
			{"afplay", "/System/Library/Sounds/Sosumi.aiff"},
		}
	default:
		return [][]string{
			{"afplay", "/System/Library/Sounds/Glass.aiff"},
			{"afplay", "/System/Library/Sounds/Tink.aiff"},
		}
	}
}
