//go:build !windows

package dev

import (
	"os/exec"
	"syscall"
)

type osState struct{}

// prepare starts the child in its own process group so that signals reach
// everything it spawns.
func prepare(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

func attach(*processHandle)  {}
func release(*processHandle) {}

func interrupt(p *processHandle) { signalGroup(p, syscall.SIGTERM) }
func kill(p *processHandle)      { signalGroup(p, syscall.SIGKILL) }

func signalGroup(p *processHandle, sig syscall.Signal) {
	pid := p.cmd.Process.Pid
	if pgid, err := syscall.Getpgid(pid); err == nil {
		_ = syscall.Kill(-pgid, sig)
		return
	}
	_ = p.cmd.Process.Signal(sig)
}
