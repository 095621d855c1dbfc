//go:build linux || darwin || freebsd || netbsd || openbsd

package audio

import (
	"errors"
	"os"
	"os/exec"
	"syscall"
)

// startInProcessGroup makes the recorder lead its own process group so that
// cancelling it also stops any children a wrapper command spawned.
func startInProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		err := syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
		if errors.Is(err, syscall.ESRCH) {
			return os.ErrProcessDone
		}
		return err
	}
}
