package process

import (
	"bytes"
	"io"
	"os/exec"
	"time"

	"github.com/creack/pty"
)

// ptyDrainTimeout bounds how long we keep reading the terminal after the
// process exited.
const ptyDrainTimeout = 2 * time.Second

// runWithPTY runs cmd attached to a pseudo-terminal so tools that only emit
// progress or colour on a TTY behave as they would for a user.
func runWithPTY(cmd *exec.Cmd) (output string, waitErr error, err error) {
	ptmx, err := pty.Start(cmd)
	if err != nil {
		return "", nil, err
	}
	defer ptmx.Close()

	var buf bytes.Buffer
	done := make(chan struct{})
	go func() {
		// Reading fails with EIO once the last slave fd closes; that is the normal end.
		_, _ = io.Copy(&buf, ptmx)
		close(done)
	}()

	waitErr = cmd.Wait()

	select {
	case <-done:
	case <-time.After(ptyDrainTimeout):
		_ = ptmx.Close()
		<-done
	}
	return buf.String(), waitErr, nil
}
