//go:build linux

package sound

const freedesktopSounds = "/usr/share/sounds/freedesktop/stereo/"

// soundCommands plays freedesktop theme sounds through PulseAudio/PipeWire
// or libcanberra, whichever is installed
func soundCommands(event Event) [][]string {
	name := "complete"
	if event == EventFailed {
		name = "dialog-error"
	}
	return [][]string{
		{"paplay", freedesktopSounds + name + ".oga"},
		{"pw-play", freedesktopSounds + name + ".oga"},
		{"canberra-gtk-play", "-i", name},
	}
}
