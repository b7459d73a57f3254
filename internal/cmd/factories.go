package cmd

import (
	"sync"

	adaptereditor "github.com/renato0307/toolprobe/internal/adapters/editor"
	adapterprocess "github.com/renato0307/toolprobe/internal/adapters/process"
	adaptersound "github.com/renato0307/toolprobe/internal/adapters/sound"
	adapterstorage "github.com/renato0307/toolprobe/internal/adapters/storage"
	"github.com/renato0307/toolprobe/internal/logging"
	"github.com/renato0307/toolprobe/internal/paths"
	"github.com/renato0307/toolprobe/internal/ports"
)

// Container holds all dependencies for the application
type Container struct {
	Editor ports.EditorOpener
	Runner ports.CommandRunner
	Sound  ports.SoundPlayer

	// history is opened on first use so commands that never touch it
	// (list, init) work without a writable TOOLPROBE_HOME
	history     ports.OutcomeRepository
	historyErr  error
	historyOnce sync.Once
}

// NewContainer creates a new Container with all dependencies wired
func NewContainer() *Container {
	return &Container{
		Editor: adaptereditor.NewOpener(),
		Runner: adapterprocess.NewOSRunner(),
		Sound:  adaptersound.NewPlayer(),
	}
}

// History returns the outcome history repository, opening it on first call
func (c *Container) History() (ports.OutcomeRepository, error) {
	c.historyOnce.Do(func() {
		repo, err := adapterstorage.NewSQLiteRepository(paths.GetDBPath())
		if err != nil {
			logging.Logger.Error("Failed to open history database", "path", paths.GetDBPath(), "error", err)
			c.historyErr = err
			return
		}
		c.history = repo
	})
	return c.history, c.historyErr
}

// Close closes all resources held by the container
func (c *Container) Close() error {
	if c.history != nil {
		return c.history.Close()
	}
	return nil
}
