package dev

import (
	"context"
	"os"
	"os/exec"
	"time"
)

// stopGrace is how long a stopped process may take to exit before it is
// killed.
const stopGrace = 5 * time.Second

type processHandle struct {
	cmd  *exec.Cmd
	done chan error
	os   osState
}

func startProcess(ctx context.Context, binary, dir string, args, env []string) (*processHandle, error) {
	cmd := exec.CommandContext(ctx, binary, args...)
	cmd.Dir = dir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Env = env
	prepare(cmd)

	if err := cmd.Start(); err != nil {
		return nil, err
	}

	p := &processHandle{cmd: cmd, done: make(chan error, 1)}
	attach(p)
	go func() { p.done <- cmd.Wait() }()
	return p, nil
}

// stopProcess asks the process tree to exit and kills it after stopGrace.
// A process that already exited is only released.
func stopProcess(p *processHandle) {
	if p == nil {
		return
	}
	defer release(p)

	select {
	case <-p.done:
		return
	default:
	}

	interrupt(p)
	select {
	case <-p.done:
	case <-time.After(stopGrace):
		kill(p)
		<-p.done
	}
}
