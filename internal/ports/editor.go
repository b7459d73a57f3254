package ports

// EditorOpener opens files in an external editor
type EditorOpener interface {
	// Open opens path in an editor and returns once the editor exits.
	// cliEditor is the editor specified via CLI flag (takes precedence)
	Open(path string, cliEditor string) error
}
