package ports

// SoundPlayer plays notification sounds
type SoundPlayer interface {
	// PlaySuiteFinished plays the sound for a finished suite run
	PlaySuiteFinished(passed bool) error
}
