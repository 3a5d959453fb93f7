package service

import (
	"fmt"
	"os"
	"os/exec"
	"syscall"

	"stock-signal-pipeline/internal/monitor/config"
)

// Restarter spawns a fresh detached process for a worker role.
type Restarter interface {
	Restart(role config.WorkerRole) error
}

// NewExecRestarter creates the exec-backed Restarter.
func NewExecRestarter() Restarter {
	return &execRestarter{}
}

type execRestarter struct{}

// Restart starts the role's command in a new session with discarded
// stdio, then releases the handle so the child outlives the supervisor
// and is never waited on.
func (r *execRestarter) Restart(role config.WorkerRole) error {
	if _, err := exec.LookPath(role.Command); err != nil {
		return fmt.Errorf("command for role %s not found: %w", role.Name, err)
	}

	devNull, err := os.OpenFile(os.DevNull, os.O_RDWR, 0)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", os.DevNull, err)
	}
	defer devNull.Close()

	cmd := exec.Command(role.Command, role.Args...)
	cmd.Stdin = devNull
	cmd.Stdout = devNull
	cmd.Stderr = devNull
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start role %s: %w", role.Name, err)
	}
	return cmd.Process.Release()
}
