//go:build !unix

package process

import "os/exec"

// configureProcessGroup keeps the exec default of killing only the tool process (non-Unix implementation)
func configureProcessGroup(cmd *exec.Cmd, tty bool) {}
