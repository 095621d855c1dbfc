//go:build !(linux || darwin || freebsd || netbsd || openbsd)

package audio

import "os/exec"

func startInProcessGroup(*exec.Cmd) {}
